package mcpserver

import (
	"context"
	"errors"

	"github.com/erraggy/kvapi/generator"
	"github.com/erraggy/kvapi/kverrors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateInput struct {
	Spec   specInput `json:"spec"              jsonschema:"The kvapi description to validate"`
	Strict *bool     `json:"strict,omitempty"  jsonschema:"Treat generator warnings as failures"`
	Offset int       `json:"offset,omitempty"  jsonschema:"Skip the first N issues (for pagination)"`
	Limit  int       `json:"limit,omitempty"   jsonschema:"Maximum number of issues to return (default 100)"`
}

type validateIssue struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Name         string          `json:"name,omitempty"`
	Format       string          `json:"format,omitempty"`
	EntryCount   int             `json:"entry_count"`
	LeafCount    int             `json:"leaf_count"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Issues       []validateIssue `json:"issues,omitempty"`
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	strict := cfg.Strict
	if input.Strict != nil {
		strict = *input.Strict
	}

	parseResult, err := input.Spec.resolve()
	if err != nil {
		if issue, ok := errorIssue(err); ok {
			return nil, validateOutput{ErrorCount: 1, Returned: 1, Issues: []validateIssue{issue}}, nil
		}
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Name:       parseResult.Spec.Name,
		Format:     string(parseResult.SourceFormat),
		EntryCount: parseResult.Stats.EntryCount,
		LeafCount:  parseResult.Stats.LeafCount,
	}

	result, genErr := generator.GenerateWithOptions(
		generator.WithParsed(*parseResult),
		generator.WithStrictMode(strict),
	)
	if result != nil {
		output.Issues = makeSlice[validateIssue](len(result.Issues))
		for _, i := range result.Issues {
			output.Issues = append(output.Issues, validateIssue{
				Kind:     "generate",
				Severity: i.Severity.String(),
				Path:     i.Path,
				Field:    i.Field,
				Message:  i.Message,
				Line:     i.Line,
				Column:   i.Column,
			})
		}
		output.ErrorCount = result.CriticalCount
		output.WarningCount = result.WarningCount
	}
	if genErr != nil {
		issue, ok := errorIssue(genErr)
		switch {
		case ok:
			output.Issues = append(output.Issues, issue)
			output.ErrorCount++
		case result == nil:
			return errResult(genErr), validateOutput{}, nil
		}
	}
	output.Valid = genErr == nil && output.ErrorCount == 0

	output.Issues = paginate(output.Issues, input.Offset, input.Limit)
	output.Returned = len(output.Issues)
	return nil, output, nil
}

// errorIssue converts a grammar or configuration error into an issue.
func errorIssue(err error) (validateIssue, bool) {
	var pe *kverrors.ParseError
	if errors.As(err, &pe) {
		return validateIssue{
			Kind:     "parse",
			Severity: "error",
			Message:  sanitizeError(err),
			Line:     pe.Line,
			Column:   pe.Column,
		}, true
	}
	var ce *kverrors.ConfigError
	if errors.As(err, &ce) {
		issue := validateIssue{
			Kind:     "config",
			Severity: "error",
			Field:    ce.Option,
			Message:  sanitizeError(err),
			Line:     ce.Line,
			Column:   ce.Column,
		}
		if s, ok := ce.Value.(string); ok {
			issue.Path = s
		}
		return issue, true
	}
	return validateIssue{}, false
}
