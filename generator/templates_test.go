package generator

import (
	"strings"
	"testing"

	"github.com/erraggy/kvapi/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalFile() *File {
	leaf := &TypeDecl{
		Name: "ApiPing",
		Ctor: "NewApiPing",
		ID:   "ping",
		Endpoint: &EndpointDecl{
			Path:       "ping",
			URL:        []spec.URLPart{{Literal: "https://example.com/ping"}},
			ResultType: "map[string]any",
		},
	}
	return &File{
		Name:          "api_kvapi.go",
		Package:       "api",
		Source:        "api.kv",
		RuntimeImport: DefaultRuntimeImport,
		Root: &TypeDecl{
			Name:   "Api",
			Ctor:   "NewApi",
			Fields: []FieldDecl{{Key: "ping", Name: "Ping", Type: "ApiPing", Ctor: "NewApiPing"}},
		},
		Types: []*TypeDecl{leaf},
	}
}

func TestRender(t *testing.T) {
	content, err := render(minimalFile())
	require.NoError(t, err)

	src := string(content)
	assert.True(t, strings.HasPrefix(src, "// Code generated by kvapi. DO NOT EDIT.\n// Source: api.kv\n"))
	assert.Contains(t, src, "package api")
	assert.Contains(t, src, "Ping: NewApiPing(),")
	assert.Contains(t, src, "return kvclient.NewHTTPClient(nil)")
	assert.Contains(t, src, "func (c *ApiPing) Get(ctx context.Context) (map[string]any, error)")

	g := parseGenerated(t, content)
	assert.Equal(t, []string{"Ping"}, g.fields(t, "Api"))
	assert.Equal(t, []string{`"https://example.com/ping"`}, g.urlOperands(t, "ApiPing"))
}

func TestRenderHeaders(t *testing.T) {
	f := minimalFile()
	ep := f.Types[0].Endpoint
	ep.ClientHeaders = []HeaderDecl{{Key: "Accept", Value: `"application/json"`}}
	ep.RequestHeaders = []HeaderDecl{{Key: "X-Url", Value: "url"}}

	content, err := render(f)
	require.NoError(t, err)
	src := string(content)
	assert.Contains(t, src, `header.Add("Accept", "application/json")`)
	assert.Contains(t, src, "return kvclient.NewHTTPClient(header)")
	assert.Contains(t, src, `Key: "X-Url"`)
	parseGenerated(t, content)
}

func TestRenderUnformattable(t *testing.T) {
	f := minimalFile()
	f.Types[0].Endpoint.ClientHeaders = []HeaderDecl{{Key: "Broken", Value: "((("}}

	content, err := render(f)
	require.Error(t, err)
	require.NotNil(t, content, "unformatted source is still returned")
	assert.Contains(t, string(content), `header.Add("Broken", ((()`)
}

func TestTemplatesLoaded(t *testing.T) {
	for _, name := range []string{"file.go.tmpl", "container.go.tmpl", "endpoint.go.tmpl"} {
		assert.NotNil(t, templates.Lookup(name), name)
	}
}
