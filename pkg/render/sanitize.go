package render

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var plainTextPolicy = bluemonday.StrictPolicy()

// PlainText strips markup from s, leaving the text content. Labels come from
// catalogs and translators that may carry HTML; renderers escape the result
// themselves.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(s)))
}
