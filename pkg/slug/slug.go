// Package slug builds URL-safe identifiers from titles.
package slug

import (
	"strconv"
	"time"

	gosimple "github.com/gosimple/slug"
)

// Make transliterates s to ASCII, lowercases it and joins the words with
// single hyphens.
func Make(s string) string {
	return gosimple.Make(s)
}

// WithTime appends the base36 unix-millisecond timestamp to the slug of s.
func WithTime(s string, t time.Time) string {
	suffix := strconv.FormatInt(t.UnixMilli(), 36)
	base := Make(s)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// Numbered returns base for n <= 1 and base-n otherwise.
func Numbered(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return gosimple.IsSlug(s)
}
