package issues

import (
	"testing"

	"github.com/erraggy/kvapi/internal/severity"
	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name        string
		issue       Issue
		contains    []string
		notContains []string
	}{
		{
			name: "error severity with basic fields",
			issue: Issue{
				Path:     "api/v3/ticker",
				Message:  "duplicate endpoint",
				Severity: severity.SeverityError,
			},
			contains:    []string{"✗", "api/v3/ticker", "duplicate endpoint"},
			notContains: []string{"Context:", "line"},
		},
		{
			name: "warning with context",
			issue: Issue{
				Path:     "market/get",
				Message:  "field renamed to avoid method clash",
				Severity: severity.SeverityWarning,
				Field:    "Get_",
				Context:  "leaf types define Get, Post, URL and Client",
			},
			contains: []string{"⚠", "market/get", "Context: leaf types define"},
		},
		{
			name: "info with location",
			issue: Issue{
				Path:     "time",
				Message:  "no headers declared",
				Severity: severity.SeverityInfo,
				Line:     4,
				Column:   2,
			},
			contains: []string{"ℹ", "(line 4, col 2)"},
		},
		{
			name:     "unknown severity and empty path",
			issue:    Issue{Message: "odd", Severity: severity.Severity(42)},
			contains: []string{"?", "<spec>: odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.issue.String()
			for _, want := range tt.contains {
				assert.Contains(t, s, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, s, unwanted)
			}
		})
	}
}

func TestIssueLocation(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
		has   bool
	}{
		{"path only", Issue{Path: "a/b"}, "a/b", false},
		{"line and column", Issue{Path: "a/b", Line: 3, Column: 9}, "3:9", true},
		{"file line column", Issue{File: "api.kv", Line: 3, Column: 9}, "api.kv:3:9", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.Location())
			assert.Equal(t, tt.has, tt.issue.HasLocation())
		})
	}
}
