// Package htmlsanitize strips dangerous markup from user-supplied text
// before it is stored or echoed back to clients.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// richPolicy allows basic formatting in meeting agendas: emphasis, lists,
// tables, images and links. Scripts, forms and event handlers are removed.
var richPolicy = buildRichPolicy()

// strictPolicy strips all markup. Used for single-line fields such as
// meeting titles and locations.
var strictPolicy = bluemonday.StrictPolicy()

func buildRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tr", "td", "th")
	p.AllowElements("hr")
	return p
}

// Sanitize cleans rich text, preserving safe formatting markup. Use for
// meeting descriptions.
func Sanitize(s string) string {
	return richPolicy.Sanitize(s)
}

// PlainText strips all markup and surrounding whitespace. Use for titles,
// locations and other single-line fields.
func PlainText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
