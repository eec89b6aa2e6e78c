package mcpserver

import (
	"context"
	"testing"

	"github.com/erraggy/kvapi/spec"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inspect(t *testing.T, input inspectInput) inspectOutput {
	t.Helper()
	if input.Spec == (specInput{}) {
		input.Spec = specInput{Content: kucoinDescription}
	}
	res, output, err := handleInspect(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)
	return output
}

func nodeIDs(nodes []spec.OutlineNode) []spec.NodeID {
	out := make([]spec.NodeID, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestInspectTool_Tree(t *testing.T) {
	out := inspect(t, inspectInput{})

	assert.Equal(t, "KuCoin", out.Name)
	assert.Equal(t, "kv", out.Format)
	assert.Equal(t, "https://api.kucoin.com/api/", out.Base)
	assert.Equal(t, []spec.NodeID{"v1", "stats"}, out.Roots)
	assert.Equal(t, 6, out.NodeCount)
	assert.Equal(t, 3, out.LeafCount)
	assert.Equal(t, 6, out.Returned)
	assert.Equal(t, []spec.NodeID{"v1", "v1/timestamp", "v1/market", "v1/market/allTickers", "stats", "stats/btc"}, nodeIDs(out.Nodes))

	require.Len(t, out.Headers, 2)
	assert.Equal(t, spec.ScopeClient, out.Headers[0].Scope)
	assert.Equal(t, spec.ScopePerRequest, out.Headers[1].Scope)
	assert.Equal(t, "kvclient.UnixMillis()", out.Headers[1].Value)

	btc := out.Nodes[5]
	require.NotNil(t, btc.Endpoint)
	assert.Equal(t, "Stats", btc.Endpoint.Result)
	assert.Equal(t, []string{`"https://api.kucoin.com/api/v1/market/stats?symbol=BTC-USDT"`}, btc.Endpoint.URL)
}

func TestInspectTool_Filters(t *testing.T) {
	tests := []struct {
		name  string
		input inspectInput
		want  []spec.NodeID
	}{
		{"leaves only", inspectInput{LeavesOnly: true}, []spec.NodeID{"v1/timestamp", "v1/market/allTickers", "stats/btc"}},
		{"prefix", inspectInput{Path: "v1/market"}, []spec.NodeID{"v1/market", "v1/market/allTickers"}},
		{"glob", inspectInput{Path: "*/*"}, []spec.NodeID{"v1/timestamp", "v1/market", "stats/btc"}},
		{"glob and leaves", inspectInput{Path: "*/*", LeavesOnly: true}, []spec.NodeID{"v1/timestamp", "stats/btc"}},
		{"paginated", inspectInput{Offset: 1, Limit: 2}, []spec.NodeID{"v1/timestamp", "v1/market"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := inspect(t, tt.input)
			assert.Equal(t, tt.want, nodeIDs(out.Nodes))
			assert.Equal(t, len(tt.want), out.Returned)
		})
	}
}

func TestInspectTool_GroupBy(t *testing.T) {
	out := inspect(t, inspectInput{GroupBy: "root"})
	assert.Empty(t, out.Nodes)
	assert.Equal(t, []groupCount{{Key: "v1", Count: 4}, {Key: "stats", Count: 2}}, out.Groups)

	out = inspect(t, inspectInput{GroupBy: "depth", LeavesOnly: true})
	assert.Equal(t, []groupCount{{Key: "1", Count: 2}, {Key: "2", Count: 1}}, out.Groups)
}

func TestInspectTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input inspectInput
	}{
		{"bad group_by", inspectInput{Spec: specInput{Content: kucoinDescription}, GroupBy: "tag"}},
		{"bad glob", inspectInput{Spec: specInput{Content: kucoinDescription}, Path: "v1/[x"}},
		{"missing name", inspectInput{Spec: specInput{Content: `dict: {"a": T}`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := handleInspect(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
		})
	}
}
