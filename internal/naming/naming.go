package naming

import (
	"go/token"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits s into words. Any rune that is not a letter or digit separates
// words, as does a lower-to-upper transition ("allTickers") and the end of an
// upper-case run followed by a lower-case letter ("HTTPServer" -> HTTP, Server).
func Words(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush(i)
			start = i
		case unicode.IsLower(r) && unicode.IsUpper(prev) && i-1 > start:
			flush(i - 1)
			start = i - 1
		}
	}
	flush(len(runes))
	return words
}

// ToPascalCase converts a string to PascalCase.
// Example: "user_profile" -> "UserProfile"
// Example: "allTickers" -> "AllTickers"
func ToPascalCase(s string) string {
	// NoLower keeps "API" intact. A Caser is stateful, so one per call.
	caser := cases.Title(language.Und, cases.NoLower)
	var result strings.Builder
	for _, w := range Words(s) {
		result.WriteString(caser.String(w))
	}
	return result.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "user_profile" -> "userProfile"
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ToSnakeCase converts a string to snake_case.
// Example: "allTickers" -> "all_tickers"
// Example: "APIClient" -> "api_client"
func ToSnakeCase(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// ToKebabCase converts a string to kebab-case.
// Example: "UserProfile" -> "user-profile"
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

// ToExported converts s to an exported Go identifier. Names that do not
// start with a letter get a "T" prefix; an empty result becomes fallback.
func ToExported(s, fallback string) string {
	name := ToPascalCase(s)
	if name == "" {
		return fallback
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) {
		name = "T" + name
	}
	return name
}

// IsIdentifier reports whether s is a valid, non-keyword Go identifier.
func IsIdentifier(s string) bool {
	return token.IsIdentifier(s)
}

// EscapeKeyword appends an underscore to Go keywords.
func EscapeKeyword(s string) string {
	if token.IsKeyword(s) {
		return s + "_"
	}
	return s
}
