package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/a3tai/mcp-form-export/internal/form"
)

const (
	// RasterScale is the device pixel ratio of the canvas
	RasterScale = 2
	// canvas width in CSS pixels, the on-screen width of the card
	canvasWidth  = 800
	canvasPad    = 20
	fieldIndent  = 12
	jpegQuality  = 95
	a4WidthMM    = 210.0
	a4HeightMM   = 297.0
	lineSpacing  = 1.35
	blockSpacing = 6
	// maxCanvasHeight bounds the canvas in device pixels, about ten A4 pages
	// at RasterScale
	maxCanvasHeight = 24000
)

// RasterRenderer paints the flattened blocks onto a canvas, slices it into
// A4 pages and assembles the JPEG slices with pdfcpu
type RasterRenderer struct {
	scale     float64
	maxHeight int
}

// NewRasterRenderer creates the canvas strategy
func NewRasterRenderer() *RasterRenderer {
	return &RasterRenderer{scale: RasterScale, maxHeight: maxCanvasHeight}
}

// Name implements Strategy
func (r *RasterRenderer) Name() string { return "raster" }

// Render implements Strategy
func (r *RasterRenderer) Render(ctx context.Context, job *Job) ([]byte, error) {
	fonts := job.Fonts
	if fonts == nil {
		fonts = BuiltinFonts(r.scale)
	}

	canvas, err := r.Paint(job, fonts)
	if err != nil {
		return nil, err
	}

	pages := Paginate(canvas, job.Margin)
	readers := make([]io.Reader, 0, len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, p, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode page: %w", err)
		}
		readers = append(readers, &buf)
	}

	imp, err := pdfcpu.ParseImportDetails(importDetails(job.Margin), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("import details: %w", err)
	}

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, pdfConfiguration()); err != nil {
		return nil, fmt.Errorf("assemble pages: %w", err)
	}
	return out.Bytes(), nil
}

func importDetails(marginMM float64) string {
	return fmt.Sprintf("f:A4P, pos:c, sc:%.4f rel", (a4WidthMM-2*marginMM)/a4WidthMM)
}

type paintOp struct {
	text  string
	face  font.Face
	color color.RGBA
	x, y  int // baseline for text, top-left for images
	img   image.Image
	size  image.Point
}

// Paint lays out and draws the blocks. It fails with ErrEmptySurface when
// nothing would be drawn and with ErrSurfaceTooLarge before allocating a
// canvas taller than the renderer limit.
func (r *RasterRenderer) Paint(job *Job, fonts *FontSet) (*image.RGBA, error) {
	width := int(canvasWidth * r.scale)
	pad := int(canvasPad * r.scale)
	inner := width - 2*pad

	var ops []paintOp
	y := pad

	addText := func(text string, face font.Face, col color.RGBA, indent int) {
		m := face.Metrics()
		lineHeight := int(math.Ceil(float64(m.Height.Ceil()) * lineSpacing))
		for _, line := range wrapMeasured(face, text, inner-indent) {
			y += lineHeight
			if line != "" {
				ops = append(ops, paintOp{text: line, face: face, color: col, x: pad + indent, y: y - m.Descent.Ceil()})
			}
		}
		y += int(blockSpacing * r.scale)
	}

	for _, b := range job.Blocks {
		switch b.Kind {
		case form.BlockHeading:
			addText(b.Text, fonts.Heading, job.Theme.Heading, 0)
		case form.BlockText:
			addText(b.Text, fonts.Text, job.Theme.Text, 0)
		case form.BlockField:
			addText(b.Text, fonts.Field, job.Theme.Field, int(fieldIndent*r.scale))
		case form.BlockListItem:
			addText("• "+b.Text, fonts.Field, job.Theme.Field, int(fieldIndent*r.scale))
		case form.BlockImage:
			img := job.Images[strings.TrimSpace(b.Image.Src)]
			if img == nil {
				if b.Text != "" {
					addText("["+b.Text+"]", fonts.Text, job.Theme.Text, 0)
				}
				continue
			}
			size := fitWidth(img.Bounds().Size(), inner)
			if size.X == 0 || size.Y == 0 {
				continue
			}
			ops = append(ops, paintOp{img: img, x: pad, y: y, size: size})
			y += size.Y + int(blockSpacing*r.scale)
		}
		if r.maxHeight > 0 && y+pad > r.maxHeight {
			return nil, fmt.Errorf("%w: more than %d pixels", ErrSurfaceTooLarge, r.maxHeight)
		}
	}

	if len(ops) == 0 {
		return nil, ErrEmptySurface
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, y+pad))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(job.Theme.Background), image.Point{}, xdraw.Src)

	for _, op := range ops {
		if op.img != nil {
			dst := image.Rectangle{Min: image.Pt(op.x, op.y), Max: image.Pt(op.x+op.size.X, op.y+op.size.Y)}
			xdraw.CatmullRom.Scale(canvas, dst, op.img, op.img.Bounds(), xdraw.Over, nil)
			continue
		}
		d := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(op.color),
			Face: op.face,
			Dot:  fixed.P(op.x, op.y),
		}
		d.DrawString(op.text)
	}
	return canvas, nil
}

// fitWidth scales size down to at most maxWidth, keeping the aspect ratio
func fitWidth(size image.Point, maxWidth int) image.Point {
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}
	}
	if size.X <= maxWidth {
		return size
	}
	return image.Pt(maxWidth, size.Y*maxWidth/size.X)
}

// Paginate cuts the canvas into slices with the proportions of the A4
// content box. The last slice is padded with the canvas background.
func Paginate(canvas *image.RGBA, marginMM float64) []*image.RGBA {
	b := canvas.Bounds()
	pageHeight := int(float64(b.Dx()) * (a4HeightMM - 2*marginMM) / (a4WidthMM - 2*marginMM))
	if pageHeight <= 0 {
		pageHeight = b.Dy()
	}
	bg := canvas.At(b.Min.X, b.Min.Y)

	var pages []*image.RGBA
	for top := b.Min.Y; top < b.Max.Y; top += pageHeight {
		page := image.NewRGBA(image.Rect(0, 0, b.Dx(), pageHeight))
		xdraw.Draw(page, page.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
		xdraw.Draw(page, page.Bounds(), canvas, image.Pt(b.Min.X, top), xdraw.Src)
		pages = append(pages, page)
	}
	return pages
}

// wrapMeasured breaks text into lines no wider than width pixels
func wrapMeasured(face font.Face, text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if line != "" && font.MeasureString(face, candidate).Ceil() > width {
				lines = append(lines, line)
				candidate = w
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
