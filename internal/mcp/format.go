package mcp

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-form-export/internal/descriptions"
	"github.com/a3tai/mcp-form-export/internal/export"
	"github.com/a3tai/mcp-form-export/internal/med"
	"github.com/a3tai/mcp-form-export/internal/service"
)

func formatExportResult(res *export.Result) string {
	text := fmt.Sprintf("Exported %s\n", res.Filename)
	text += fmt.Sprintf("Path: %s\n", res.Path)
	text += fmt.Sprintf("Strategy: %s\n", res.Strategy)
	text += fmt.Sprintf("Pages: %d\n", res.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", res.Size)
	if res.Images > 0 {
		text += fmt.Sprintf("Images: %d\n", res.Images)
	}
	if len(res.Attempts) > 0 {
		text += "\nFailed attempts:\n"
		for _, a := range res.Attempts {
			text += fmt.Sprintf("  • %s\n", a.Error())
		}
	}
	return text
}

func formatCopy(c service.CopyResult) string {
	if !c.Attempted {
		return ""
	}
	return fmt.Sprintf("\n📋 %s (%s)", c.Badge, c.Method)
}

func formatMeta(m med.Meta) string {
	text := "Last M.E.D\n"
	text += fmt.Sprintf("Suspect: %s\n", m.SuspectName)
	text += fmt.Sprintf("Unique ID: %s\n", m.UniqueID)
	if len(m.Facts) > 0 {
		text += fmt.Sprintf("Facts: %s\n", strings.Join(m.Facts, ", "))
	}
	if m.MEDLink != "" {
		text += fmt.Sprintf("M.E.D link: %s\n", m.MEDLink)
	}
	if m.Agents != "" {
		text += fmt.Sprintf("Closed by: %s\n", m.Agents)
	}
	if m.Matricule != "" || m.Poste != "" {
		text += fmt.Sprintf("ID: %s · Poste: %s\n", m.Matricule, m.Poste)
	}
	return text
}

func formatInfo(info service.Info) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", info.ServerName, info.Version)
	text += fmt.Sprintf("📁 Form Directory: %s\n", info.FormDirectory)
	text += fmt.Sprintf("📤 Export Directory: %s\n", info.OutputDirectory)
	text += fmt.Sprintf("🗂️  Store Directory: %s\n", info.StoreDirectory)
	text += fmt.Sprintf("🧾 Form root class: %s\n", info.RootClass)
	text += fmt.Sprintf("🖨️  Rendering strategies: %s\n", strings.Join(info.Strategies, " → "))
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", info.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("📎 Clipboard: %t\n", info.Clipboard)
	if info.Catalog != "" {
		text += fmt.Sprintf("🧠 Disorder catalog: %s (%d entries)\n", info.Catalog, info.CatalogEntries)
	} else {
		text += "🧠 Disorder catalog: not configured\n"
	}

	text += "\n🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		text += fmt.Sprintf("• %s\n", name)
	}
	return text
}
