package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/kvapi/internal/cliutil"
	"github.com/erraggy/kvapi/parser"
	"github.com/erraggy/kvapi/spec"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [flags] <description>",
		Short: "Print the endpoint tree of an API description",
		Long: `Inspect parses a description and prints its headers by scope and its
endpoint tree. Every endpoint is shown with its result type and the parts
its URL is concatenated from, in order.`,
		Example: `  kvapi inspect binance.kv
  kvapi inspect --format json fred.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd, args[0])
		},
	}
	cmd.Flags().StringVarP(&a.cfg.Format, "format", "f", a.cfg.Format, "output format: text, json or yaml (env KVAPI_FORMAT)")
	cmd.Flags().StringVar(&a.cfg.SourceFormat, "source-format", a.cfg.SourceFormat, "description format: kv or yaml (default: detected; env KVAPI_SOURCE_FORMAT)")
	return cmd
}

func (a *app) runInspect(cmd *cobra.Command, path string) error {
	format, err := parser.ParseSourceFormat(a.cfg.SourceFormat)
	if err != nil {
		return err
	}
	opts := []parser.Option{
		parser.WithFormat(format),
		parser.WithLogger(parser.NewSlogAdapter(a.log)),
	}
	if path == StdinFilePath {
		data, err := readStdinOnce(cmd.InOrStdin(), []string{path})
		if err != nil {
			return err
		}
		opts = append(opts, parser.WithBytes(data))
	} else {
		opts = append(opts, parser.WithFilePath(path))
	}

	result, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return err
	}
	outline := result.Spec.Outline()
	if a.cfg.Format != FormatText {
		return OutputStructured(cmd.OutOrStdout(), outline, a.cfg.Format)
	}
	writeOutline(cmd.OutOrStdout(), result, outline)
	return nil
}

// writeOutline prints the outline as an indented tree.
func writeOutline(w io.Writer, result *parser.ParseResult, o spec.Outline) {
	cliutil.Writef(w, "%s (%s, %s): %d entries, %d nodes, %d endpoints\n",
		o.Name, FormatSpecPath(result.SourcePath), result.SourceFormat,
		result.Stats.EntryCount, result.Stats.NodeCount, result.Stats.LeafCount)
	if o.Base != "" {
		cliutil.Writef(w, "base:  %s\n", o.Base)
	}
	if o.Query != "" {
		cliutil.Writef(w, "query: %s\n", o.Query)
	}
	if len(o.Headers) > 0 {
		cliutil.Writeln(w, "headers:")
		for _, h := range o.Headers {
			cliutil.Writef(w, "  %-12s %s: %s\n", h.Scope, h.Key, h.Value)
		}
	}

	nodes := make(map[spec.NodeID]spec.OutlineNode, len(o.Nodes))
	for _, n := range o.Nodes {
		nodes[n.ID] = n
	}
	var walk func(id spec.NodeID)
	walk = func(id spec.NodeID) {
		n := nodes[id]
		indent := strings.Repeat("  ", n.Depth+1)
		if n.Endpoint == nil {
			cliutil.Writef(w, "%s%s\n", indent, n.Segment)
		} else {
			cliutil.Writef(w, "%s%s -> %s\n", indent, n.Segment, n.Endpoint.Result)
			cliutil.Writef(w, "%s  %s\n", indent, strings.Join(n.Endpoint.URL, " + "))
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	cliutil.Writeln(w, "tree:")
	for _, id := range o.Roots {
		walk(id)
	}
}
