// This file implements name conversion from description names and path
// segments to Go identifiers, package names and file names.

package generator

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/erraggy/kvapi/internal/naming"
	"github.com/erraggy/kvapi/spec"
)

// defaultPackageName is used when the description name yields no usable
// package name.
const defaultPackageName = "api"

// fileSuffix is appended to the snake_case description name.
const fileSuffix = "_kvapi.go"

// segmentName converts one path segment to its PascalCase form. It returns
// "" when the segment has no letters or digits.
func segmentName(segment string) string {
	return naming.ToPascalCase(segment)
}

// exportedName upper-cases the first letter of a description name, so that
// "api" names the type Api. It returns "" when no exported identifier
// starts that way.
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(r) {
		return ""
	}
	out := string(unicode.ToUpper(r)) + name[size:]
	if !token.IsExported(out) {
		return ""
	}
	return out
}

// typeName returns the Go type name of a node: the description name
// followed by the PascalCase form of every segment of its naming path.
// The second result is the first segment that yields no name, if any.
func typeName(specName string, id spec.NodeID) (string, string) {
	var b strings.Builder
	b.WriteString(specName)
	for _, seg := range id.Segments() {
		name := segmentName(seg)
		if name == "" {
			return "", seg
		}
		b.WriteString(name)
	}
	return b.String(), ""
}

// fieldName returns the exported Go field name for a segment, or "" when
// the segment yields no identifier.
func fieldName(segment string) string {
	name := segmentName(segment)
	if name == "" {
		return ""
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) {
		name = "T" + name
	}
	return name
}

// ctorName returns the constructor name for a type.
func ctorName(typ string) string {
	return "New" + typ
}

// packageNameFor derives a Go package name from a description name:
// lower case, letters and digits only.
func packageNameFor(specName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(specName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	// Keywords and names starting with a digit are not identifiers.
	if !naming.IsIdentifier(name) {
		return defaultPackageName
	}
	return name
}

// fileNameFor returns the default output file name for a description.
func fileNameFor(specName string) string {
	base := naming.ToSnakeCase(specName)
	if base == "" {
		base = defaultPackageName
	}
	return base + fileSuffix
}
