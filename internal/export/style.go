package export

import (
	"image/color"

	"github.com/a3tai/mcp-form-export/internal/form"
)

// ForceLightClass on the form root forces the light palette
const ForceLightClass = "pdf-force-light"

// ExportClass is added to the mounted copy
const ExportClass = "pdf-export"

// ExportStyle is injected next to every mounted copy
const ExportStyle = `
.pdf-export { background: #ffffff; width: 800px; }
.pdf-export .replaced-field { font-family: "Patrick Hand", "Segoe Script", cursive; color: #000; font-size: 14px; white-space: pre-wrap; }
.pdf-export .visite-title { background: none; color: #073763; }
.pdf-export .section-title { color: #fff; }
`

// LightStyle is injected only for roots carrying ForceLightClass
const LightStyle = `
.pdf-light-mode, .pdf-light-mode * { background: #ffffff !important; color: #0b1220 !important; border-color: rgba(0,0,0,0.08) !important; box-shadow: none !important; }
.pdf-light-mode img { filter: none !important; }
.pdf-light-mode .theme-toggle { display: none !important; }
`

// Theme is the palette used by the layout and raster renderers
type Theme struct {
	Background color.RGBA
	Text       color.RGBA
	Heading    color.RGBA
	Field      color.RGBA
	Light      bool
}

var (
	defaultTheme = Theme{
		Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
		Text:       color.RGBA{0x33, 0x26, 0x1a, 0xff},
		Heading:    color.RGBA{0x07, 0x37, 0x63, 0xff},
		Field:      color.RGBA{0x00, 0x00, 0x00, 0xff},
	}
	lightTheme = Theme{
		Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
		Text:       color.RGBA{0x0b, 0x12, 0x20, 0xff},
		Heading:    color.RGBA{0x0b, 0x12, 0x20, 0xff},
		Field:      color.RGBA{0x0b, 0x12, 0x20, 0xff},
		Light:      true,
	}
)

// ThemeFor picks the palette for a form root
func ThemeFor(t *form.Tree) Theme {
	if t != nil && t.Root != nil && t.Root.HasClass(ForceLightClass) {
		return lightTheme
	}
	return defaultTheme
}

// Styles returns the style sheets to inject for a theme
func (th Theme) Styles() []string {
	if th.Light {
		return []string{ExportStyle, LightStyle}
	}
	return []string{ExportStyle}
}

func hexColor(c color.RGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b)
}
