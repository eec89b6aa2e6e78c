package generator

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"
	"testing"

	"github.com/erraggy/kvapi/kverrors"
	kvparser "github.com/erraggy/kvapi/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generated is a parsed view of one generated file.
type generated struct {
	file    *ast.File
	structs map[string]*ast.StructType
	// funcs is keyed by "Name" for functions and "Type.Name" for methods.
	funcs map[string]*ast.FuncDecl
}

func parseGenerated(t *testing.T, content []byte) *generated {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "generated.go", content, parser.ParseComments)
	require.NoError(t, err, "generated code must be valid Go:\n%s", content)

	g := &generated{
		file:    f,
		structs: make(map[string]*ast.StructType),
		funcs:   make(map[string]*ast.FuncDecl),
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					if st, ok := ts.Type.(*ast.StructType); ok {
						g.structs[ts.Name.Name] = st
					}
				}
			}
		case *ast.FuncDecl:
			key := d.Name.Name
			if d.Recv != nil {
				star := d.Recv.List[0].Type.(*ast.StarExpr)
				key = star.X.(*ast.Ident).Name + "." + key
			}
			g.funcs[key] = d
		}
	}
	return g
}

// fields returns the exported field names of a struct, in order.
func (g *generated) fields(t *testing.T, typ string) []string {
	t.Helper()
	st, ok := g.structs[typ]
	require.True(t, ok, "missing type %s", typ)
	var out []string
	for _, f := range st.Fields.List {
		for _, n := range f.Names {
			if n.IsExported() {
				out = append(out, n.Name)
			}
		}
	}
	return out
}

// urlOperands returns the operands of the concatenation buildURL returns.
func (g *generated) urlOperands(t *testing.T, typ string) []string {
	t.Helper()
	fn, ok := g.funcs[typ+".buildURL"]
	require.True(t, ok, "missing %s.buildURL", typ)
	ret := fn.Body.List[0].(*ast.ReturnStmt)

	var out []string
	var flatten func(e ast.Expr)
	flatten = func(e ast.Expr) {
		if b, ok := e.(*ast.BinaryExpr); ok && b.Op == token.ADD {
			flatten(b.X)
			flatten(b.Y)
			return
		}
		var buf bytes.Buffer
		require.NoError(t, printer.Fprint(&buf, token.NewFileSet(), e))
		out = append(out, buf.String())
	}
	flatten(ret.Results[0])
	return out
}

func TestNew(t *testing.T) {
	g := New()

	require.NotNil(t, g, "New() should not return nil")
	assert.Empty(t, g.PackageName, "package name is derived from the description by default")
	assert.Equal(t, DefaultRuntimeImport, g.RuntimeImport)
	assert.False(t, g.StrictMode)
	assert.True(t, g.IncludeInfo)
}

func TestGenerateWithOptions_RequiresInputSource(t *testing.T) {
	_, err := GenerateWithOptions(
		WithPackageName("test"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify an input source")
}

func TestGenerateWithOptions_OnlyOneInputSource(t *testing.T) {
	_, err := GenerateWithOptions(
		WithFilePath("test.kv"),
		WithBytes([]byte("name: Api, dict: {\"a\": T}")),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify exactly one input source")
}

func TestWithOptions(t *testing.T) {
	t.Run("WithPackageName empty", func(t *testing.T) {
		err := WithPackageName("")(&generateConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "package name cannot be empty")
	})

	t.Run("WithPackageName not an identifier", func(t *testing.T) {
		err := WithPackageName("my-api")(&generateConfig{})
		require.ErrorIs(t, err, kverrors.ErrConfig)
	})

	t.Run("WithFileName", func(t *testing.T) {
		cfg := &generateConfig{}
		require.NoError(t, WithFileName("client.go")(cfg))
		assert.Equal(t, "client.go", cfg.fileName)
		require.ErrorIs(t, WithFileName("a/b.go")(cfg), kverrors.ErrConfig)
		require.Error(t, WithFileName("")(cfg))
	})

	t.Run("WithRuntimeImport", func(t *testing.T) {
		cfg := &generateConfig{}
		require.NoError(t, WithRuntimeImport("example.com/rt")(cfg))
		assert.Equal(t, "example.com/rt", cfg.runtimeImport)
		require.Error(t, WithRuntimeImport("")(cfg))
	})

	t.Run("WithImports accumulates", func(t *testing.T) {
		cfg := &generateConfig{}
		require.NoError(t, WithImports("a")(cfg))
		require.NoError(t, WithImports("b", "c")(cfg))
		assert.Equal(t, []string{"a", "b", "c"}, cfg.imports)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := applyOptions(WithFilePath("x.kv"))
		require.NoError(t, err)
		assert.Equal(t, DefaultRuntimeImport, cfg.runtimeImport)
		assert.True(t, cfg.includeInfo)
		assert.False(t, cfg.strictMode)
	})
}

func TestGenerateBinance(t *testing.T) {
	result, err := GenerateWithOptions(WithFilePath("../parser/testdata/binance.kv"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "binance", result.PackageName)
	assert.Equal(t, kvparser.SourceFormatKV, result.SourceFormat)
	require.Len(t, result.Files, 1)
	file := result.GetFile("binance_kvapi.go")
	require.NotNil(t, file)
	assert.Nil(t, result.GetFile("missing.go"))

	assert.Equal(t, []string{
		"Binance", "BinancePing", "BinanceExchangeInfo", "BinanceBNBBTC",
		"BinanceSui", "BinanceSuiBtc", "BinanceBasket",
	}, result.GeneratedTypes)
	assert.Equal(t, []string{"ping", "exchangeInfo", "BNB_BTC", "sui", "sui_btc", "basket"}, result.GeneratedEndpoints)

	src := string(file.Content)
	assert.True(t, strings.HasPrefix(src, "// Code generated by kvapi. DO NOT EDIT."))
	assert.Contains(t, src, "package binance")
	assert.Contains(t, src, `header.Add("X-MBX-APIKEY", os.Getenv("BINANCE_API"))`)
	assert.Contains(t, src, `"github.com/erraggy/kvapi/kvclient"`)

	g := parseGenerated(t, file.Content)

	// Every root appears exactly once as a field of the top-level type.
	assert.Equal(t, []string{"Ping", "ExchangeInfo", "BNBBTC", "Sui", "SuiBtc", "Basket"}, g.fields(t, "Binance"))

	// The rename decides placement, the original path decides the URL.
	assert.Equal(t, []string{`"https://api.binance.com/api/v3/ticker/price?symbol=SUIBTC"`}, g.urlOperands(t, "BinanceSuiBtc"))
	assert.Equal(t, []string{`"https://api.binance.com/api/v3/exchangeInfo?symbols=[\"BTCUSDT\",\"BNBBTC\"]"`},
		g.urlOperands(t, "BinanceBasket"))

	// Every type, leaf or not, has a constructor taking no arguments.
	for _, typ := range result.GeneratedTypes {
		ctor, ok := g.funcs["New"+typ]
		require.True(t, ok, "missing constructor for %s", typ)
		assert.Empty(t, ctor.Type.Params.List, "constructor for %s takes no arguments", typ)
	}

	for _, method := range []string{"buildClient", "buildURL", "requestHeaders", "URL", "Client", "Get", "Post"} {
		assert.Contains(t, g.funcs, "BinancePing."+method)
	}
	assert.NotContains(t, g.funcs, "Binance.Get", "the top-level type has no endpoint methods")
}

func TestGenerateKuCoin(t *testing.T) {
	result, err := GenerateWithOptions(
		WithFilePath("../parser/testdata/kucoin.kv"),
		WithPackageName("exchange"),
	)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "ku_coin_kvapi.go", result.Files[0].Name)

	src := string(result.Files[0].Content)
	assert.Contains(t, src, "package exchange")
	assert.Contains(t, src, `header.Add("KC-API-KEY-VERSION", "2")`)
	assert.Contains(t, src, "func(client *http.Client, url string) string")
	assert.Contains(t, src, `Key: "KC-API-TIMESTAMP"`)
	assert.Contains(t, src, `Key: "KC-API-SIGN"`)
	assert.NotContains(t, src, `header.Add("KC-API-SIGN"`, "per-request headers are not client headers")

	g := parseGenerated(t, result.Files[0].Content)
	assert.Equal(t, []string{"Timestamp", "Currencies", "Orderbook", "Candles"}, g.fields(t, "KuCoin"))
	assert.Equal(t,
		[]string{`"https://api.kucoin.com/api/v3/market/orderbook/level2?symbol=BTC-USDT"`},
		g.urlOperands(t, "KuCoinOrderbook"))

	get := g.funcs["KuCoinCurrencies.Get"]
	require.NotNil(t, get)
	var buf bytes.Buffer
	require.NoError(t, printer.Fprint(&buf, token.NewFileSet(), get.Type.Results.List[0].Type))
	assert.Equal(t, "[]Currency", buf.String())
}

func TestGenerateFredYAML(t *testing.T) {
	result, err := GenerateWithOptions(WithFilePath("../parser/testdata/fred.yaml"))
	require.NoError(t, err)
	assert.Equal(t, kvparser.SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, "fred", result.PackageName)

	g := parseGenerated(t, result.Files[0].Content)
	assert.Equal(t, []string{"Series", "Category"}, g.fields(t, "Fred"))
	assert.Equal(t, []string{"Observations"}, g.fields(t, "FredSeries"))
	assert.Equal(t, []string{"Children"}, g.fields(t, "FredCategory"))

	ops := g.urlOperands(t, "FredSeriesObservations")
	require.Len(t, ops, 2)
	assert.Equal(t, `"https://api.stlouisfed.org/fred/series/observations?series_id=GNPCA"`, ops[0])
	assert.True(t, strings.HasPrefix(ops[1], "("), "a concatenated global query stays one operand: %s", ops[1])
	assert.Contains(t, ops[1], `os.Getenv("FRED_API")`)

	// The ".json" suffix is not part of the name but stays in the URL.
	assert.Contains(t, g.urlOperands(t, "FredCategoryChildren")[0], "category/children.json")

	src := string(result.Files[0].Content)
	assert.Contains(t, src, `header.Add("Accept", "application/json")`)
	assert.Contains(t, src, `Key: "X-Request-Id"`)
}

func TestGenerateURLOrder(t *testing.T) {
	result, err := GenerateWithOptions(WithBytes([]byte(`
		name: Api
		base: "B"
		query: g()
		dict: {
			#[query: q()]
			"p": T
		}
	`)))
	require.NoError(t, err)

	g := parseGenerated(t, result.Files[0].Content)
	assert.Equal(t, []string{`"Bp"`, "q()", "g()"}, g.urlOperands(t, "ApiP"))
}

func TestGenerateDistinctPathsSharingASegment(t *testing.T) {
	result, err := GenerateWithOptions(WithBytes([]byte(`name: Api, dict: {"x/y": T1, "z/y": T2}`)))
	require.NoError(t, err)

	assert.Equal(t, []string{"x/y", "z/y"}, result.GeneratedEndpoints)
	g := parseGenerated(t, result.Files[0].Content)
	assert.Equal(t, []string{"Y"}, g.fields(t, "ApiX"))
	assert.Equal(t, []string{"Y"}, g.fields(t, "ApiZ"))
	assert.Contains(t, g.funcs, "ApiXY.Get")
	assert.Contains(t, g.funcs, "ApiZY.Get")
	assert.Equal(t, []string{`"x/y"`}, g.urlOperands(t, "ApiXY"))
	assert.Equal(t, []string{`"z/y"`}, g.urlOperands(t, "ApiZY"))
}

func TestGenerateLeafAndGroup(t *testing.T) {
	result, err := GenerateWithOptions(WithBytes([]byte(`name: Api, dict: {"a": T, "a/b": U}`)))
	require.NoError(t, err)

	assert.Equal(t, 1, result.InfoCount)
	assert.Equal(t, "a", result.Issues[0].Path)

	g := parseGenerated(t, result.Files[0].Content)
	assert.Equal(t, []string{"B"}, g.fields(t, "ApiA"))
	assert.Contains(t, g.funcs, "ApiA.Get")
	assert.Contains(t, g.funcs, "ApiAB.Get")

	quiet, err := GenerateWithOptions(WithBytes([]byte(`name: Api, dict: {"a": T, "a/b": U}`)), WithIncludeInfo(false))
	require.NoError(t, err)
	assert.Empty(t, quiet.Issues)
	assert.Zero(t, quiet.InfoCount)
}

func TestGenerateMethodCollision(t *testing.T) {
	src := []byte(`name: Api, dict: {"a": T, "a/get": U}`)

	result, err := GenerateWithOptions(WithBytes(src))
	require.NoError(t, err)
	assert.True(t, result.HasWarnings())
	assert.Equal(t, "Get_", result.Issues[len(result.Issues)-1].Field)

	g := parseGenerated(t, result.Files[0].Content)
	assert.Equal(t, []string{"Get_"}, g.fields(t, "ApiA"))

	result, err = GenerateWithOptions(WithBytes(src), WithStrictMode(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")
	require.NotNil(t, result)
}

func TestGenerateNameCollisions(t *testing.T) {
	tests := []struct {
		name string
		dict string
		want string
	}{
		{name: "type names", dict: `{"a/b_c": T, "a_b/c": T}`, want: `generated name ApiABC for "a_b/c" collides with the one for "a/b_c"; rename one of them`},
		{name: "type names resolved by rename", dict: `{"a/b_c": T, #[rename: "ab/c"] "a_b/c": T}`},
		{name: "sibling fields", dict: `{"a/2": T, "a/t2": T}`, want: "field T2"},
		{name: "no identifier", dict: `{"a/-": T}`, want: "does not yield a Go identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateWithOptions(WithBytes([]byte("name: Api, dict: " + tt.dict)))
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.ErrorIs(t, err, kverrors.ErrConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerateExportsLowerCaseName(t *testing.T) {
	result, err := GenerateWithOptions(WithBytes([]byte(`name: api, dict: {"p": T}`)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Api", "ApiP"}, result.GeneratedTypes)
	assert.Equal(t, "api", result.PackageName)
	assert.Equal(t, "api_kvapi.go", result.Files[0].Name)
	require.NotEmpty(t, result.Issues)
	assert.Equal(t, "Api", result.Issues[0].Field)
	assert.Equal(t, SeverityInfo, result.Issues[0].Severity)

	g := parseGenerated(t, result.Files[0].Content)
	assert.Contains(t, g.funcs, "NewApi")
	assert.Contains(t, g.funcs, "NewApiP")
	assert.Equal(t, []string{"P"}, g.fields(t, "Api"))
}

func TestGenerateRequestHeaderURLSelector(t *testing.T) {
	src := `name: Api
head: {
    #[query]
    "X-Path": url.QueryEscape("a b"),
}
dict: {"p": T}`
	_, err := GenerateWithOptions(WithBytes([]byte(src)))
	require.Error(t, err)
	require.ErrorIs(t, err, kverrors.ErrConfig)
	var cfgErr *kverrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "headers", cfgErr.Option)
	assert.Equal(t, "X-Path", cfgErr.Value)
	assert.Equal(t, 4, cfgErr.Line)
	assert.Contains(t, cfgErr.Message, "url.QueryEscape")

	// Reading the URL itself, and net/url in a client header, are fine.
	ok := `name: Api
head: {
    "X-Escaped": url.QueryEscape("a b"),
    #[query]
    "X-Path": strings.TrimPrefix(url, "https://"),
}
dict: {"p": T}`
	result, err := GenerateWithOptions(WithBytes([]byte(ok)))
	require.NoError(t, err)
	src2 := string(result.Files[0].Content)
	assert.Contains(t, src2, `"net/url"`)
	assert.Contains(t, src2, `strings.TrimPrefix(url, "https://")`)
}

func TestGenerateRejectsInvalidDescriptions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		is   error
	}{
		{name: "missing name", src: `dict: {"a": T}`, is: kverrors.ErrConfig},
		{name: "missing dict", src: `name: Api`, is: kverrors.ErrConfig},
		{name: "name without exported form", src: `name: _api, dict: {"a": T}`, is: kverrors.ErrConfig},
		{name: "unknown field", src: `name: Api, colour: "red", dict: {"a": T}`, is: kverrors.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := GenerateWithOptions(WithBytes([]byte(tt.src)))
			require.ErrorIs(t, err, tt.is)
			assert.Nil(t, result, "no partial output")
		})
	}
}

func TestGenerateRuntimeAlias(t *testing.T) {
	result, err := GenerateWithOptions(
		WithBytes([]byte(`name: Api, dict: {"a": T}`)),
		WithRuntimeImport("example.com/internal/rt"),
	)
	require.NoError(t, err)
	assert.Contains(t, string(result.Files[0].Content), `kvclient "example.com/internal/rt"`)
}

func TestGenerateParsed(t *testing.T) {
	parsed, err := kvparser.New().Parse("../parser/testdata/binance.kv")
	require.NoError(t, err)

	g := New()
	g.PackageName = "spot"
	g.FileName = "spot.go"
	result, err := g.GenerateParsed(*parsed)
	require.NoError(t, err)
	assert.Equal(t, "spot", result.PackageName)
	assert.NotNil(t, result.GetFile("spot.go"))
	assert.Equal(t, parsed.Stats, result.Stats)

	_, err = g.GenerateParsed(kvparser.ParseResult{})
	require.Error(t, err)
}
