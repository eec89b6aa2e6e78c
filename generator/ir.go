package generator

import "github.com/erraggy/kvapi/spec"

// File is the typed form of one generated Go source file. Rendering a File
// is the only step that produces text.
type File struct {
	// Name is the output file name.
	Name    string
	Package string
	// Source is the description the file was generated from, for the header.
	Source string
	// RuntimeImport is the import path of the kvclient runtime package.
	RuntimeImport string
	// RuntimeAlias is set when the runtime's last path element is not "kvclient".
	RuntimeAlias string
	// Imports are extra import paths needed by header and query expressions.
	Imports []string
	// Root is the top-level type named after the description.
	Root *TypeDecl
	// Types holds one declaration per dictionary node, in creation order.
	Types []*TypeDecl
}

// TypeDecl is a container type, its constructor and, for leaves, its
// endpoint methods.
type TypeDecl struct {
	Name string
	Ctor string
	// ID is the naming path of the node; empty for the root type.
	ID     spec.NodeID
	Fields []FieldDecl
	// Endpoint is set for leaf nodes.
	Endpoint *EndpointDecl
}

// IsLeaf reports whether the type carries endpoint methods.
func (t *TypeDecl) IsLeaf() bool {
	return t.Endpoint != nil
}

// FieldDecl is a child field of a container type.
type FieldDecl struct {
	// Key is the snake_case form of the child's segment.
	Key  string
	Name string
	Type string
	Ctor string
}

// EndpointDecl carries what a leaf needs to build its client, URL and
// per-request headers.
type EndpointDecl struct {
	// Path is the original entry path.
	Path       string
	URL        []spec.URLPart
	ResultType string
	// ClientHeaders are applied once, by buildClient.
	ClientHeaders []HeaderDecl
	// RequestHeaders are re-evaluated on every call.
	RequestHeaders []HeaderDecl
}

// URLSource returns the Go expression that builds the URL.
func (e *EndpointDecl) URLSource() string {
	return spec.URLSource(e.URL)
}

// HeaderDecl is a header key and its Go value expression.
type HeaderDecl struct {
	Key   string
	Value string
}

// leafMethods are the exported methods every leaf type declares. A child
// field with one of these names is renamed.
var leafMethods = map[string]bool{
	"Get":    true,
	"Post":   true,
	"URL":    true,
	"Client": true,
}
