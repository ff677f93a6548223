package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Posts and comments are plain text on every screen, so strip markup
// entirely instead of allowing a UGC subset.
var textPolicy = bluemonday.StrictPolicy()

// CleanText trims surrounding whitespace and removes any HTML markup from
// user-supplied text before it is stored.
func CleanText(s string) string {
	cleaned := textPolicy.Sanitize(strings.TrimSpace(s))
	// bluemonday entity-escapes what it keeps; stored text should be the
	// literal characters the user typed.
	return html.UnescapeString(cleaned)
}
