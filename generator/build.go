package generator

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"path"

	"github.com/erraggy/kvapi/internal/naming"
	"github.com/erraggy/kvapi/kverrors"
	"github.com/erraggy/kvapi/parser"
	"github.com/erraggy/kvapi/spec"
)

// irBuilder turns a validated Specification into a File.
type irBuilder struct {
	spec   *spec.Specification
	log    parser.Logger
	issues []GenerateIssue

	// declared maps every package-level identifier to the node that claimed it.
	declared map[string]spec.NodeID
	types    map[spec.NodeID]*TypeDecl
}

func newIRBuilder(s *spec.Specification, log parser.Logger) *irBuilder {
	return &irBuilder{
		spec:     s,
		log:      log,
		declared: make(map[string]spec.NodeID),
		types:    make(map[spec.NodeID]*TypeDecl),
	}
}

// build walks the dictionary in creation order. Parents are created before
// their children, so every child type exists when a parent's fields are
// filled in on the second pass.
func (b *irBuilder) build(file *File) error {
	s := b.spec
	if s.Dict == nil {
		return &kverrors.ConfigError{Option: "dict", Path: s.SourcePath, Message: "description has not been validated"}
	}

	if err := b.checkRequestHeaders(); err != nil {
		return err
	}

	base := exportedName(s.Name)
	if base == "" {
		return &kverrors.ConfigError{
			Option:  "name",
			Value:   s.Name,
			Path:    s.SourcePath,
			Line:    s.NamePos.Line,
			Column:  s.NamePos.Column,
			Message: "name must start with a letter that has an upper-case form",
		}
	}
	if base != s.Name {
		b.issues = append(b.issues, GenerateIssue{
			Path:     "name",
			Field:    base,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("name %s is exported as %s", s.Name, base),
		})
	}

	root := &TypeDecl{Name: base, Ctor: ctorName(base)}
	if err := b.declare(root, ""); err != nil {
		return err
	}

	nodes := s.Dict.Nodes()
	for _, n := range nodes {
		name, bad := typeName(base, n.ID)
		if bad != "" {
			return b.nodeError(n, fmt.Sprintf("segment %q does not yield a Go identifier", bad))
		}
		decl := &TypeDecl{Name: name, Ctor: ctorName(name), ID: n.ID}
		if err := b.declare(decl, n.ID); err != nil {
			return err
		}
		if n.IsLeaf() {
			decl.Endpoint = b.endpoint(n.Endpoint)
			if len(n.Children) > 0 {
				b.issue(n, SeverityInfo, "", "node is both an endpoint and a group")
			}
		}
		b.types[n.ID] = decl
		file.Types = append(file.Types, decl)
		b.log.Debug("built node",
			"id", string(n.ID),
			"type", decl.Name,
			"leaf", n.IsLeaf(),
			"children", len(n.Children))
	}

	var err error
	if root.Fields, err = b.fields(nil, s.Dict.Roots()); err != nil {
		return err
	}
	for _, n := range nodes {
		decl := b.types[n.ID]
		if decl.Fields, err = b.fields(n, n.Children); err != nil {
			return err
		}
	}
	file.Root = root
	return nil
}

// declare reserves the type and constructor names of decl.
func (b *irBuilder) declare(decl *TypeDecl, id spec.NodeID) error {
	for _, ident := range []string{decl.Name, decl.Ctor} {
		if other, taken := b.declared[ident]; taken {
			return &kverrors.ConfigError{
				Option: "dict",
				Value:  string(id),
				Path:   b.spec.SourcePath,
				Message: fmt.Sprintf("generated name %s for %s collides with the one for %s; rename one of them",
					ident, describeID(id), describeID(other)),
			}
		}
		b.declared[ident] = id
	}
	return nil
}

// fields builds the child fields of parent (nil for the root type).
func (b *irBuilder) fields(parent *spec.Node, children []spec.NodeID) ([]FieldDecl, error) {
	leaf := parent != nil && parent.IsLeaf()
	seen := make(map[string]spec.NodeID, len(children))
	out := make([]FieldDecl, 0, len(children))
	for _, id := range children {
		child, _ := b.spec.Dict.Node(id)
		name := fieldName(child.Segment)
		if name == "" {
			return nil, b.nodeError(child, fmt.Sprintf("segment %q does not yield a Go identifier", child.Segment))
		}
		if leaf && leafMethods[name] {
			renamed := name + "_"
			b.issue(child, SeverityWarning, renamed,
				fmt.Sprintf("field %s collides with the endpoint method of the same name; generated as %s", name, renamed))
			name = renamed
		}
		if other, dup := seen[name]; dup {
			return nil, b.nodeError(child, fmt.Sprintf("field %s of %s collides with the one for %s",
				name, describeID(idOf(parent)), describeID(other)))
		}
		seen[name] = id
		typ := b.types[id]
		out = append(out, FieldDecl{
			Key:  naming.ToSnakeCase(child.Segment),
			Name: name,
			Type: typ.Name,
			Ctor: typ.Ctor,
		})
	}
	return out, nil
}

func (b *irBuilder) endpoint(ep *spec.Endpoint) *EndpointDecl {
	decl := &EndpointDecl{
		Path:       ep.Path,
		URL:        b.spec.ComposeURL(ep),
		ResultType: ep.ResultType.String(),
	}
	for _, h := range b.spec.Headers.Client() {
		decl.ClientHeaders = append(decl.ClientHeaders, HeaderDecl{Key: h.Key, Value: h.Value.Canonical()})
	}
	for _, h := range b.spec.Headers.PerRequest() {
		decl.RequestHeaders = append(decl.RequestHeaders, HeaderDecl{Key: h.Key, Value: h.Value.Canonical()})
	}
	return decl
}

// checkRequestHeaders rejects per-request header values that select from
// url. Inside the header closure url is the endpoint URL string, which
// shadows net/url and has no fields or methods.
func (b *irBuilder) checkRequestHeaders() error {
	for _, h := range b.spec.Headers.PerRequest() {
		expr, err := goparser.ParseExpr(h.Value.Source)
		if err != nil {
			continue
		}
		var sel string
		ast.Inspect(expr, func(n ast.Node) bool {
			if se, ok := n.(*ast.SelectorExpr); ok && sel == "" {
				if id, ok := se.X.(*ast.Ident); ok && id.Name == "url" {
					sel = se.Sel.Name
				}
			}
			return sel == ""
		})
		if sel != "" {
			return &kverrors.ConfigError{
				Option: "headers",
				Value:  h.Key,
				Path:   b.spec.SourcePath,
				Line:   h.Pos.Line,
				Column: h.Pos.Column,
				Message: fmt.Sprintf("per-request header uses url.%s, but url is the endpoint URL string there; "+
					"call net/url from a helper function instead", sel),
			}
		}
	}
	return nil
}

func (b *irBuilder) issue(n *spec.Node, sev Severity, field, msg string) {
	var pos spec.Position
	if n.Endpoint != nil {
		pos = n.Endpoint.Pos
	}
	b.issues = append(b.issues, GenerateIssue{
		Path:     string(n.ID),
		Message:  msg,
		Severity: sev,
		Field:    field,
		Line:     pos.Line,
		Column:   pos.Column,
		File:     pos.File,
	})
}

func (b *irBuilder) nodeError(n *spec.Node, msg string) error {
	err := &kverrors.ConfigError{
		Option:  "dict",
		Value:   string(n.ID),
		Path:    b.spec.SourcePath,
		Message: msg,
	}
	if n.Endpoint != nil {
		err.Line, err.Column = n.Endpoint.Pos.Line, n.Endpoint.Pos.Column
	}
	return err
}

func idOf(n *spec.Node) spec.NodeID {
	if n == nil {
		return ""
	}
	return n.ID
}

func describeID(id spec.NodeID) string {
	if id == "" {
		return "the top-level type"
	}
	return fmt.Sprintf("%q", id)
}

// runtimeAlias returns the import alias needed for a runtime package whose
// last path element is not kvclient.
func runtimeAlias(importPath string) string {
	if path.Base(importPath) == "kvclient" {
		return ""
	}
	return "kvclient"
}
