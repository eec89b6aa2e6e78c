// Package generator provides Go code generation from kvapi API descriptions.
//
// The generator turns a parsed description into a tree of client types: one
// top-level type named after the description, one type per dictionary node,
// and the HTTP surface on every leaf. Generated code calls the kvclient
// runtime package for transport and decoding.
//
// # Quick Start
//
// Generate a client using functional options:
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithFilePath("binance.kv"),
//		generator.WithPackageName("binance"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := result.WriteFiles("./binance"); err != nil {
//		log.Fatal(err)
//	}
//
// Or use a reusable Generator instance:
//
//	g := generator.New()
//	g.PackageName = "binance"
//	result, _ := g.Generate("binance.kv")
//	result.WriteFiles("./binance")
//
// # Naming
//
// A node's type is the description name followed by the PascalCase form of
// every segment of its naming path: in a description named Binance, the
// node "api/v3" becomes BinanceApiV3 and its constructor NewBinanceApiV3.
// Child fields use the PascalCase segment alone. Names that collide are
// configuration errors, except a child field that collides with a leaf
// method (Get, Post, URL, Client), which gets a trailing underscore and a
// warning.
//
// # Leaf Types
//
// Every leaf carries its own *http.Client and URL, built once by its
// constructor. The URL is base + path + entry query + global query, in that
// order, with adjacent string literals folded together. Client-scoped
// headers are applied by the client's transport; per-request headers are
// closures of the form
//
//	func(client *http.Client, url string) string
//
// evaluated on every Get and Post. Inside them client and url name these
// parameters, so an expression such as url.QueryEscape(x) is rejected;
// wrap net/url calls in a helper function instead.
//
// # Generated Files
//
// One file per description, named <snake_case name>_kvapi.go unless
// FileName is set, formatted and with its imports fixed by
// golang.org/x/tools/imports.
//
// See the exported GenerateResult and GenerateIssue types for complete details.
package generator
