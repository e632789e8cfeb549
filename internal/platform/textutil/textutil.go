// Package textutil normalises user-entered text before it is stored or compared.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean applies NFKC (full-width → half-width, composed accents) and trims.
func Clean(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// CleanPtr is Clean for optional fields. nil stays nil.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Clean(*s)
	return &v
}

// Email lower-cases on top of Clean; addresses are compared case-insensitively.
func Email(s string) string {
	return strings.ToLower(Clean(s))
}
