// Package validation holds stateless field validators. Every check is a pure
// function returning a boolean: reporting which message belongs to a failing
// field is the caller's job.
package validation

import (
	"net/mail"
	"strings"
)

// String reports whether v, after trimming surrounding whitespace, has a
// length within [min, max] inclusive. A whitespace-only value fails any
// min >= 1.
func String(v string, min, max int) bool {
	n := len(strings.TrimSpace(v))
	return n >= min && n <= max
}

// Email reports whether v parses as a single RFC 5322 address.
func Email(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	a, err := mail.ParseAddress(v)
	return err == nil && a.Address == v
}

// Match reports whether a and b are equal after trimming surrounding
// whitespace.
func Match(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
