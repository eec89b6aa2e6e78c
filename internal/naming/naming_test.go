package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty string", input: "", want: nil},
		{name: "single word", input: "market", want: []string{"market"}},
		{name: "snake_case", input: "all_tickers", want: []string{"all", "tickers"}},
		{name: "camelCase", input: "allTickers", want: []string{"all", "Tickers"}},
		{name: "kebab-case", input: "api-v1", want: []string{"api", "v1"}},
		{name: "acronym run", input: "HTTPServer", want: []string{"HTTP", "Server"}},
		{name: "digits then upper", input: "v2Orders", want: []string{"v2", "Orders"}},
		{name: "leading digits", input: "24hr", want: []string{"24hr"}},
		{name: "punctuation only", input: "-_.", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input))
		})
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "single lowercase letter", input: "a", want: "A"},
		{name: "snake_case simple", input: "user_profile", want: "UserProfile"},
		{name: "leading underscore", input: "_private", want: "Private"},
		{name: "kebab-case", input: "api-client", want: "ApiClient"},
		{name: "path-like", input: "/api/v1/users", want: "ApiV1Users"},
		{name: "camelCase", input: "allTickers", want: "AllTickers"},
		{name: "already PascalCase", input: "UserProfile", want: "UserProfile"},
		{name: "all caps", input: "API", want: "API"},
		{name: "unicode lowercase", input: "über_user", want: "ÜberUser"},
		{name: "digits only", input: "24", want: "24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPascalCase(tt.input), "ToPascalCase(%q)", tt.input)
		})
	}
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "", ToCamelCase(""))
	assert.Equal(t, "userProfile", ToCamelCase("user_profile"))
	assert.Equal(t, "allTickers", ToCamelCase("AllTickers"))
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"market", "market"},
		{"allTickers", "all_tickers"},
		{"APIClient", "api_client"},
		{"api-v1", "api_v1"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSnakeCase(tt.input))
		})
	}
}

func TestToKebabCase(t *testing.T) {
	assert.Equal(t, "user-profile", ToKebabCase("UserProfile"))
}

func TestToExported(t *testing.T) {
	tests := []struct {
		input    string
		fallback string
		want     string
	}{
		{"market", "X", "Market"},
		{"24", "X", "T24"},
		{"", "Root", "Root"},
		{"--", "Root", "Root"},
		{"type", "X", "Type"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToExported(tt.input, tt.fallback))
		})
	}
}

func TestEscapeKeyword(t *testing.T) {
	assert.Equal(t, "type_", EscapeKeyword("type"))
	assert.Equal(t, "range_", EscapeKeyword("range"))
	assert.Equal(t, "market", EscapeKeyword("market"))
	assert.True(t, IsIdentifier("Binance"))
	assert.False(t, IsIdentifier("func"))
	assert.False(t, IsIdentifier("1abc"))
}
