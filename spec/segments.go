package spec

import (
	"slices"
	"strings"
)

// IgnorableSuffixes are file-extension segments dropped when a path is split
// into naming segments, so "data.json" names a node "data".
var IgnorableSuffixes = []string{"json", "csv", "xml", "toml", "yaml", "html", "htm"}

// IsIgnorable reports whether seg is one of IgnorableSuffixes.
func IsIgnorable(seg string) bool {
	return slices.Contains(IgnorableSuffixes, seg)
}

// Segments splits a naming path on '/' and '.', dropping empty segments and
// ignorable suffixes.
//
//	Segments("a/b.json")      // [a b]
//	Segments("/v1//ticker/")  // [v1 ticker]
func Segments(path string) []string {
	fields := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '.'
	})
	segs := fields[:0]
	for _, f := range fields {
		if !IsIgnorable(f) {
			segs = append(segs, f)
		}
	}
	return segs
}
