package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "suffix and dot elided", path: "a/b.json", want: []string{"a", "b"}},
		{name: "single segment", path: "ping", want: []string{"ping"}},
		{name: "leading and doubled slashes", path: "/v1//ticker/", want: []string{"v1", "ticker"}},
		{name: "dot separated", path: "market.all.tickers", want: []string{"market", "all", "tickers"}},
		{name: "every suffix", path: "a.csv/b.xml/c.toml/d.yaml/e.html/f.htm", want: []string{"a", "b", "c", "d", "e", "f"}},
		{name: "suffix case sensitive", path: "data.JSON", want: []string{"data", "JSON"}},
		{name: "suffix as middle segment", path: "json/data", want: []string{"data"}},
		{name: "query-looking suffix kept", path: "ticker/price?symbol=SUIUSDT", want: []string{"ticker", "price?symbol=SUIUSDT"}},
		{name: "only separators", path: "/./", want: []string{}},
		{name: "only suffixes", path: ".json.csv", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.path)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsIgnorable(t *testing.T) {
	for _, s := range []string{"json", "csv", "xml", "toml", "yaml", "html", "htm"} {
		assert.True(t, IsIgnorable(s), s)
	}
	assert.False(t, IsIgnorable("yml"))
	assert.False(t, IsIgnorable("data"))
}
