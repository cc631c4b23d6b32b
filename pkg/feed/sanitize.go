package feed

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var stripPolicy = bluemonday.StrictPolicy()

// Sanitize turns feed markup into plain text. Tags are removed, html entities decoded and
// surrounding whitespace trimmed. Malformed markup is stripped on a best-effort basis.
func Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	// strict policy output is entity-escaped, decode once to get plain text back
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}
