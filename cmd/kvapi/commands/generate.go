package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/kvapi/generator"
	"github.com/erraggy/kvapi/internal/cliutil"
)

// addGenerateFlags binds the flags shared by generate and watch to c.
func addGenerateFlags(f *pflag.FlagSet, c *Config) {
	f.StringVarP(&c.Output, "output", "o", c.Output, "output directory for generated files (env KVAPI_OUTPUT)")
	f.StringVarP(&c.Package, "package", "p", c.Package, "Go package name (default: derived from the description name; env KVAPI_PACKAGE)")
	f.StringVar(&c.FileName, "file-name", c.FileName, "output file name (default: <snake_case name>_kvapi.go; env KVAPI_FILE_NAME)")
	f.StringVar(&c.RuntimeImport, "runtime-import", c.RuntimeImport, "import path of the kvclient runtime package (env KVAPI_RUNTIME_IMPORT)")
	f.StringSliceVar(&c.Imports, "import", c.Imports, "extra import path used by header or query expressions (repeatable)")
	f.StringVar(&c.SourceFormat, "source-format", c.SourceFormat, "description format: kv or yaml (default: detected; env KVAPI_SOURCE_FORMAT)")
	f.BoolVar(&c.Strict, "strict", c.Strict, "fail on any generation issues, even warnings (env KVAPI_STRICT)")
}

func newGenerateCmd(a *app) *cobra.Command {
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "generate [flags] <description>...",
		Short: "Generate Go client code from API descriptions",
		Long: `Generate compiles each description into one Go file. Several descriptions
are compiled concurrently and written only if all of them succeed. Use '-'
to read a description from stdin.`,
		Example: `  kvapi generate -o ./binance binance.kv
  kvapi generate -o ./apis -p exchange binance.kv kucoin.kv
  cat fred.yaml | kvapi generate --stdout -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, args, toStdout)
		},
	}
	addGenerateFlags(cmd.Flags(), &a.cfg)
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the generated source to stdout instead of the output directory")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, args []string, toStdout bool) error {
	if len(args) > 1 {
		switch {
		case toStdout:
			return fmt.Errorf("--stdout takes a single description, got %d", len(args))
		case a.cfg.FileName != "":
			return fmt.Errorf("--file-name takes a single description, got %d", len(args))
		}
	}
	opts, err := a.cfg.generatorOptions(a.log)
	if err != nil {
		return err
	}
	stdin, err := readStdinOnce(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	results := make([]*generator.GenerateResult, len(args))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		g.Go(func() error {
			src := generator.WithFilePath(path)
			if path == StdinFilePath {
				src = generator.WithBytes(stdin)
			}
			res, err := generator.GenerateWithOptions(append(slices.Clone(opts), src)...)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s: %w", FormatSpecPath(path), err)
			}
			return nil
		})
	}
	err = g.Wait()
	for i, res := range results {
		if res != nil {
			printIssues(cmd.ErrOrStderr(), args[i], res)
		}
	}
	if err != nil {
		return err
	}

	seen := make(map[string]string)
	for i, res := range results {
		if !res.Success {
			return fmt.Errorf("%s: generation produced %d critical issue(s)", FormatSpecPath(args[i]), res.CriticalCount)
		}
		for _, f := range res.Files {
			if other, dup := seen[f.Name]; dup {
				return fmt.Errorf("%s and %s both generate %s", FormatSpecPath(other), FormatSpecPath(args[i]), f.Name)
			}
			seen[f.Name] = args[i]
		}
		// Every file lands in the same directory, so one package.
		if first := results[0]; res.PackageName != first.PackageName {
			return fmt.Errorf("%s generates package %s but %s generates package %s into %s; set --package to share one",
				FormatSpecPath(args[0]), first.PackageName, FormatSpecPath(args[i]), res.PackageName, a.cfg.Output)
		}
	}

	if toStdout {
		_, err := cmd.OutOrStdout().Write(results[0].Files[0].Content)
		return err
	}
	for i, res := range results {
		if err := a.writeResult(cmd.ErrOrStderr(), args[i], res); err != nil {
			return err
		}
	}
	return nil
}

// writeResult writes the generated files to the output directory and
// reports them on w.
func (a *app) writeResult(w io.Writer, specPath string, res *generator.GenerateResult) error {
	if err := res.WriteFiles(a.cfg.Output); err != nil {
		return fmt.Errorf("%s: %w", FormatSpecPath(specPath), err)
	}
	for _, f := range res.Files {
		out := filepath.Join(a.cfg.Output, f.Name)
		a.log.Info("generated",
			"source", FormatSpecPath(specPath),
			"file", out,
			"types", len(res.GeneratedTypes),
			"endpoints", len(res.GeneratedEndpoints),
			"took", res.GenerateTime)
		cliutil.Writef(w, "%s -> %s (package %s, %d types, %d endpoints)\n",
			FormatSpecPath(specPath), out, res.PackageName, len(res.GeneratedTypes), len(res.GeneratedEndpoints))
	}
	return nil
}

// readStdinOnce reads stdin when one of args is "-". Stdin can only be
// consumed once.
func readStdinOnce(r io.Reader, args []string) ([]byte, error) {
	switch n := countStdin(args); {
	case n == 0:
		return nil, nil
	case n > 1:
		return nil, fmt.Errorf("'%s' (stdin) may only be given once", StdinFilePath)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

func countStdin(args []string) int {
	n := 0
	for _, a := range args {
		if a == StdinFilePath {
			n++
		}
	}
	return n
}
