// Package strings provides small string helpers shared by config, routing and request DTOs
package strings

import (
	std "strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustPrefix normalizes and asserts a root path like /meta or /api
// ensures a single leading slash and no trailing slash
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// canonChains holds transformer chains, which keep state and must not be shared across goroutines
var canonChains = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)), // ZWJ, ZWSP, BOM and friends
			width.Fold,
		)
	},
}

// Canon returns s in NFKC form, fullwidth folded, with surrounding space and invisible format characters removed
// case is kept: categorical labels are case sensitive
func Canon(s string) string {
	t := canonChains.Get().(transform.Transformer)
	defer canonChains.Put(t)
	t.Reset()
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return std.TrimSpace(out)
}

// CanonPtr applies Canon through a pointer, leaving nil alone
func CanonPtr(ps *string) {
	if ps != nil {
		*ps = Canon(*ps)
	}
}
