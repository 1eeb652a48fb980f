package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

// Tool names
const (
	FormPreview      = "form_preview"
	FormExportPDF    = "form_export_pdf"
	MEDBuild         = "med_build"
	MEDRightsNotice  = "med_rights_notice"
	MEDLast          = "med_last"
	PsySummary       = "psy_summary"
	PDFInspectExport = "pdf_inspect_export"
	FormServerInfo   = "form_server_info"
)

const (
	// Form tools
	FormPreviewDescription = `Show a filled form the way it will be exported, without writing anything.

**When to use:** Check what a visit card will look like once its inputs, selects and checkboxes are replaced by their values.

**Why it's useful:** Uses the same flattening as the export: radio groups become the checked option's label, checkbox groups become a list, buttons disappear.

**Examples:**
• Review a card: "Preview visite-jean.html before exporting it"
• Try values: "Preview visite.html with nom=Jean Dupont and apte=oui"

**Best practices:** Pass values as an object of field name to value (or list of values for checkbox groups).`

	FormExportPDFDescription = `Flatten a filled form and export it as a paginated A4 PDF.

**When to use:** Produce the printable record of a visit card.

**Why it's useful:** Tries the configured rendering strategies in order (text layout, raster, headless browser) and keeps the first document that validates. The file is named after the form's name and identifier fields plus the date.

**Examples:**
• Export a card: "Export visite-jean.html"
• Override the name: "Export visite.html as Jean Dupont with id A12"

**Common workflows:**
1. form_preview → form_export_pdf → pdf_inspect_export

**Best practices:** Check the reported strategy and failed attempts when a form carries images.`

	// Summary tools
	MEDBuildDescription = `Build the M.E.D custody summary text and its HTML preview.

**When to use:** Close a custody record with the suspect's name, email, facts, seized objects and closing agents.

**Why it's useful:** Produces the exact text expected by the records channel, generates a unique identifier when none is given and keeps the summary as the last M.E.D.

**Examples:**
• "Build the M.E.D for Jean Dupont, facts Vol and Outrage, closed by Agent Martin"

**Best practices:** Set copy to true to place the text on the clipboard.`

	MEDRightsNoticeDescription = `Build the M.E.D and the rights reading given when custody starts.

**When to use:** At the start of custody, to read the suspect their rights with the current time and the facts.

**Why it's useful:** Uses the summary facts, or the free text facts when the list is empty.

**Examples:**
• "Rights notice for Jean Dupont, facts Conduite dangereuse"`

	MEDLastDescription = `Return the metadata of the last built M.E.D.

**When to use:** Recall the identifier, facts or link of the previous summary.`

	PsySummaryDescription = `Summarise the selected psychological disorders from the catalog.

**When to use:** Attach the symptoms and recommended treatments of one or more disorders to a medical record.

**Why it's useful:** Reads the configured catalog and lists each selected disorder with its symptoms and treatment, as HTML and as plain text.

**Examples:**
• "Psy summary for Dépression and Anxiété"

**Best practices:** Names are matched without regard to case; an empty selection returns a notice instead of a summary.`

	// Inspection tools
	PDFInspectExportDescription = `Validate an exported PDF and read its text layer.

**When to use:** Confirm an export is readable and check its content.

**Why it's useful:** Reports pages, size, image count and content type (text, scanned_images, mixed or no_content).

**Examples:**
• "Inspect Jean_Dupont_A12_2024-01-05.pdf"

**Best practices:** Paths are relative to the export directory.`

	FormServerInfoDescription = `Get server information: directories, rendering strategies, catalog and available tools.

**When to use:** Discover how the server is configured before exporting.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	FormPreview:      FormPreviewDescription,
	FormExportPDF:    FormExportPDFDescription,
	MEDBuild:         MEDBuildDescription,
	MEDRightsNotice:  MEDRightsNoticeDescription,
	MEDLast:          MEDLastDescription,
	PsySummary:       PsySummaryDescription,
	PDFInspectExport: PDFInspectExportDescription,
	FormServerInfo:   FormServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the available tool names, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
