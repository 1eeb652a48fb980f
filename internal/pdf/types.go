package pdf

// Content classes reported for an exported document
const (
	ContentText          = "text"
	ContentScannedImages = "scanned_images"
	ContentMixed         = "mixed"
	ContentNone          = "no_content"
)

// InspectRequest names an exported document to inspect
type InspectRequest struct {
	Path string `json:"path"`
}

// InspectResult describes an exported document
type InspectResult struct {
	Path        string `json:"path"`
	Valid       bool   `json:"valid"`
	Message     string `json:"message,omitempty"`
	Pages       int    `json:"pages"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	ImageCount  int    `json:"image_count"`
	Content     string `json:"content,omitempty"`
}

// Document is the text layer read from a PDF
type Document struct {
	Pages       int
	Size        int64
	Content     string
	ContentType string
	ImageCount  int
}
