package mcpserver

import (
	"context"
	"strconv"
	"strings"

	"github.com/erraggy/kvapi/spec"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectInput struct {
	Spec       specInput `json:"spec"                   jsonschema:"The kvapi description to inspect"`
	Path       string    `json:"path,omitempty"         jsonschema:"Filter nodes by naming path: a glob (* matches one segment) or a prefix such as api/v3"`
	LeavesOnly bool      `json:"leaves_only,omitempty"  jsonschema:"Only return leaf nodes (nodes with an endpoint)"`
	GroupBy    string    `json:"group_by,omitempty"     jsonschema:"Group matching nodes and return counts instead of nodes. Values: root, depth"`
	Offset     int       `json:"offset,omitempty"       jsonschema:"Skip the first N nodes (for pagination)"`
	Limit      int       `json:"limit,omitempty"        jsonschema:"Maximum number of nodes to return (default 100)"`
}

type inspectOutput struct {
	Name      string               `json:"name"`
	Format    string               `json:"format"`
	Base      string               `json:"base,omitempty"`
	Query     string               `json:"query,omitempty"`
	Headers   []spec.OutlineHeader `json:"headers,omitempty"`
	Roots     []spec.NodeID        `json:"roots"`
	NodeCount int                  `json:"node_count"`
	LeafCount int                  `json:"leaf_count"`
	Matched   int                  `json:"matched"`
	Returned  int                  `json:"returned"`
	Nodes     []spec.OutlineNode   `json:"nodes,omitempty"`
	Groups    []groupCount         `json:"groups,omitempty"`
}

var inspectGroupBy = []string{"root", "depth"}

func handleInspect(_ context.Context, _ *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, inspectOutput, error) {
	if err := validateGroupBy(input.GroupBy, inspectGroupBy); err != nil {
		return errResult(err), inspectOutput{}, nil
	}
	if err := validateGlobPattern(input.Path); err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	parseResult, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	outline := parseResult.Spec.Outline()
	output := inspectOutput{
		Name:      outline.Name,
		Format:    string(parseResult.SourceFormat),
		Base:      outline.Base,
		Query:     outline.Query,
		Headers:   outline.Headers,
		Roots:     outline.Roots,
		NodeCount: parseResult.Stats.NodeCount,
		LeafCount: parseResult.Stats.LeafCount,
	}

	matched := makeSlice[spec.OutlineNode](len(outline.Nodes))
	for _, n := range outline.Nodes {
		if input.LeavesOnly && n.Endpoint == nil {
			continue
		}
		if !matchNodeGlob(input.Path, string(n.ID)) {
			continue
		}
		matched = append(matched, n)
	}
	output.Matched = len(matched)

	if input.GroupBy != "" {
		output.Groups = groupAndSort(matched, func(n spec.OutlineNode) []string {
			if strings.EqualFold(input.GroupBy, "depth") {
				return []string{strconv.Itoa(n.Depth)}
			}
			return []string{n.ID.Segments()[0]}
		})
		return nil, output, nil
	}

	output.Nodes = paginate(matched, input.Offset, input.Limit)
	output.Returned = len(output.Nodes)
	return nil, output, nil
}
