package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/kvapi/generator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type generateInput struct {
	Spec          specInput `json:"spec"                      jsonschema:"The kvapi description to generate a client from"`
	PackageName   string    `json:"package_name,omitempty"    jsonschema:"Go package name for generated code (default: KVAPI_MCP_PACKAGE, else derived from the description name)"`
	FileName      string    `json:"file_name,omitempty"       jsonschema:"Output file name (default: <snake_case name>_kvapi.go)"`
	RuntimeImport string    `json:"runtime_import,omitempty"  jsonschema:"Import path of the kvclient runtime package"`
	Imports       []string  `json:"imports,omitempty"         jsonschema:"Extra import paths used by header and query expressions"`
	Strict        *bool     `json:"strict,omitempty"          jsonschema:"Fail on generator warnings"`
	OutputDir     string    `json:"output_dir"                jsonschema:"Directory to write the generated file to"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type generateOutput struct {
	Success            bool                `json:"success"`
	OutputDir          string              `json:"output_dir"`
	PackageName        string              `json:"package_name"`
	FileCount          int                 `json:"file_count"`
	Files              []generatedFileInfo `json:"files"`
	GeneratedTypes     []string            `json:"generated_types"`
	GeneratedEndpoints []string            `json:"generated_endpoints"`
	Issues             []string            `json:"issues,omitempty"`
	WarningCount       int                 `json:"warning_count"`
	CriticalCount      int                 `json:"critical_count"`
}

func handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if input.OutputDir == "" {
		return errResult(fmt.Errorf("output_dir is required")), generateOutput{}, nil
	}

	parseResult, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	strict := cfg.Strict
	if input.Strict != nil {
		strict = *input.Strict
	}
	opts := []generator.Option{
		generator.WithParsed(*parseResult),
		generator.WithStrictMode(strict),
		generator.WithIncludeInfo(false),
	}
	pkg := input.PackageName
	if pkg == "" {
		pkg = cfg.Package
	}
	if pkg != "" {
		opts = append(opts, generator.WithPackageName(pkg))
	}
	if input.FileName != "" {
		opts = append(opts, generator.WithFileName(input.FileName))
	}
	if input.RuntimeImport != "" {
		opts = append(opts, generator.WithRuntimeImport(input.RuntimeImport))
	}
	if len(input.Imports) > 0 {
		opts = append(opts, generator.WithImports(input.Imports...))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	if err := result.WriteFiles(input.OutputDir); err != nil {
		return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
	}

	output := generateOutput{
		Success:            result.Success,
		OutputDir:          input.OutputDir,
		PackageName:        result.PackageName,
		FileCount:          len(result.Files),
		GeneratedTypes:     result.GeneratedTypes,
		GeneratedEndpoints: result.GeneratedEndpoints,
		WarningCount:       result.WarningCount,
		CriticalCount:      result.CriticalCount,
	}

	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		output.Files = append(output.Files, generatedFileInfo{
			Name: f.Name,
			Size: len(f.Content),
		})
	}
	output.Issues = makeSlice[string](len(result.Issues))
	for _, i := range result.Issues {
		output.Issues = append(output.Issues, i.String())
	}

	return nil, output, nil
}
