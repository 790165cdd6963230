// Package textutil provides the filename sanitization used by the library
// naming convention.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// disallowed holds the characters that may not appear in a library link
// name. Each occurrence becomes a single underscore so names stay
// reversible by eye ("Foo: Bar" reads as "Foo_ Bar", not "Foo Bar").
const disallowed = `/\:*?"<>|`

// SanitizeFileName makes a metadata string safe to use as a filesystem
// entry. Disallowed characters become underscores, the result is
// NFC-normalized, and surrounding whitespace is trimmed.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(disallowed, r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// ReplaceColons swaps colons for hyphens, used for embedding timestamps in
// link names.
func ReplaceColons(value string) string {
	return strings.ReplaceAll(value, ":", "-")
}
