// Package sanitize normalizes untrusted request input before it is validated
// or persisted.
package sanitize

import (
	"html"
	"strings"
)

// Sanitize trims surrounding whitespace and escapes characters that are
// meaningful in HTML output (< > & ' "). Validation always runs against the
// sanitized value, so a field made of only markup noise still counts as
// present.
func Sanitize(raw string) string {
	return html.EscapeString(strings.TrimSpace(raw))
}
