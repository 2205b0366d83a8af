package validation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanText returns the visible part of s with all markup stripped. Forms use
// it to tell whether a required text field is blank; the text itself is
// stored as typed and escaped by the templates on output.
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
