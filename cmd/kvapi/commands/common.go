package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/kvapi/generator"
	"github.com/erraggy/kvapi/internal/cliutil"
	"github.com/erraggy/kvapi/parser"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// FormatSpecPath returns a display-friendly path for a description.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// OutputStructured writes data to w as indented JSON or YAML.
func OutputStructured(w io.Writer, data any, format string) error {
	var out []byte
	var err error

	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writeln(w, string(out))
	return nil
}

// generatorOptions returns the generator options shared by generate and
// watch. The input source is added by the caller.
func (c *Config) generatorOptions(log *slog.Logger) ([]generator.Option, error) {
	format, err := parser.ParseSourceFormat(c.SourceFormat)
	if err != nil {
		return nil, err
	}
	opts := []generator.Option{
		generator.WithFormat(format),
		generator.WithStrictMode(c.Strict),
		generator.WithIncludeInfo(true),
		generator.WithLogger(parser.NewSlogAdapter(log)),
	}
	if c.Package != "" {
		opts = append(opts, generator.WithPackageName(c.Package))
	}
	if c.FileName != "" {
		opts = append(opts, generator.WithFileName(c.FileName))
	}
	if c.RuntimeImport != "" {
		opts = append(opts, generator.WithRuntimeImport(c.RuntimeImport))
	}
	if len(c.Imports) > 0 {
		opts = append(opts, generator.WithImports(c.Imports...))
	}
	return opts, nil
}

// printIssues writes the generation issues of result to w, one per line.
func printIssues(w io.Writer, specPath string, result *generator.GenerateResult) {
	for _, issue := range result.Issues {
		cliutil.Writef(w, "%s: %s\n", FormatSpecPath(specPath), issue)
	}
}
