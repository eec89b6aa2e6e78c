// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes kvapi capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/erraggy/kvapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `kvapi MCP server: validates, inspects and generates Go clients from kvapi API descriptions.

A description names an API (name), an optional base URL (base), headers, an optional global query and a dictionary of "endpoint": ResultType entries. It is written in the kv grammar or in YAML. Pass it as a file path or as inline content.

Configuration: defaults are configurable via KVAPI_MCP_* environment variables set in your MCP client config.

Key settings:
- KVAPI_MCP_PACKAGE: default Go package name for generate (default: derived from the description name)
- KVAPI_MCP_STRICT (default: false): fail generation on warnings
- KVAPI_MCP_INSPECT_LIMIT (default: 100): default result limit for inspect
- KVAPI_MCP_CACHE_ENABLED (default: true): disable description caching entirely
- KVAPI_MCP_CACHE_FILE_TTL (default: 15m): cache TTL for file descriptions

Caching: parsed descriptions are cached per session. File entries use path+mtime as key (auto-invalidated on change).`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	return newServer(ctx).Run(ctx, &mcp.StdioTransport{})
}

func newServer(ctx context.Context) *mcp.Server {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "kvapi", Version: kvapi.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a kvapi API description. Parses it, builds the endpoint tree and runs the generator without writing anything. Returns the errors (with line and column) and generator issues such as renamed fields. Use strict=true to treat warnings as failures.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Inspect a kvapi API description. Returns its name, base URL, headers by scope (client or per-request) and the endpoint tree: every node with its parent, children and, for leaves, the result type and the composed URL parts in concatenation order. Filter nodes with path (a glob over slash-joined naming paths, * matches one segment) or leaves_only. Use group_by (root or depth) to get distribution counts instead of nodes. Use offset/limit to paginate; the default limit is configurable via KVAPI_MCP_INSPECT_LIMIT.",
	}, handleInspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate a Go client from a kvapi API description. Writes one <name>_kvapi.go file to output_dir containing a type per endpoint tree node and Get/Post methods on every leaf. Returns the generated file, type names and issues. The default package name is configurable via KVAPI_MCP_PACKAGE.",
	}, handleGenerate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.InspectLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.InspectLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) []string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, key := range keyFn(item) {
			counts[key]++
		}
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is one of the allowed values.
func validateGroupBy(groupBy string, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

// validateGlobPattern checks whether a glob pattern is syntactically valid.
// Call this once before a filter loop so matchNodeGlob never encounters an
// invalid pattern at match time.
func validateGlobPattern(pattern string) error {
	if pattern == "" || !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchNodeGlob matches a naming path against a validated pattern. A
// pattern without glob characters matches the path itself and everything
// below it.
func matchNodeGlob(pattern, id string) bool {
	if pattern == "" {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return id == pattern || strings.HasPrefix(id, pattern+"/")
	}
	ok, _ := path.Match(pattern, id)
	return ok
}
