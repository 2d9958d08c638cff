package newsstore

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// cleanText removes HTML tags and normalizes whitespace. Editors paste from
// rich-text sources; titles and summaries must stay plain text.
func cleanText(input string) string {
	cleaned := htmlTagRegex.ReplaceAllString(input, " ")
	cleaned = html.UnescapeString(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}
