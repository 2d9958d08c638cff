package client

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	separatorRegex = regexp.MustCompile(`[\s_\-./\\+,:;!?'"()|]+`)
	invalidRegex   = regexp.MustCompile(`[^a-z0-9-]`)
	dashRunRegex   = regexp.MustCompile(`-{2,}`)
)

// Normalize canonicalizes a taxonomy label so that write-side link
// generation and read-side route matching agree on section identity.
// Two labels name the same section iff their normalized forms match.
//
// The function is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(label string) string {
	if decoded, err := url.QueryUnescape(label); err == nil {
		label = decoded
	}
	label = strings.ToLower(label)
	label = strings.ReplaceAll(label, "&", "and")
	label = separatorRegex.ReplaceAllString(label, "-")
	label = invalidRegex.ReplaceAllString(label, "")
	label = dashRunRegex.ReplaceAllString(label, "-")
	return strings.Trim(label, "-")
}
