package export

import (
	"regexp"
	"time"
)

// DefaultBaseName is used when the form carries no name
const DefaultBaseName = "visite"

var disallowed = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Filename derives the artifact name, without extension, from the name and
// identifier fields and the UTC date. Disallowed characters in the name
// become underscores; in the identifier they are dropped.
func Filename(name, id string, date time.Time) string {
	base := DefaultBaseName
	if name != "" {
		base = disallowed.ReplaceAllString(name, "_")
	}
	suffix := ""
	if id != "" {
		suffix = "_" + disallowed.ReplaceAllString(id, "")
	}
	return base + suffix + "_" + date.UTC().Format(time.DateOnly)
}
