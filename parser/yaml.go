package parser

import (
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/kvapi/kverrors"
	"github.com/erraggy/kvapi/spec"
)

// yamlDescription parses the YAML form of an API description:
//
//	name: Binance
//	base: https://api.binance.com/api/v3/
//	headers:
//	  X-MBX-APIKEY: os.Getenv("BINANCE_API")
//	  X-Sign: {value: sign(url), query: true}
//	dict:
//	  ping: Value
//	  exchangeInfo?symbol=BNBBTC: {type: Value, rename: BNB_BTC}
//
// Scalars under headers, query and an entry's query are Go expressions; use
// `literal:` instead of `value:` for a plain string header. headers and dict
// may also be sequences of mappings (key/path plus the fields above).
func (p *Parser) yamlDescription(file string, data []byte) (*spec.Specification, error) {
	y := &yamlReader{file: file}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &kverrors.ParseError{Path: file, Message: "invalid YAML", Cause: err}
	}

	s := &spec.Specification{SourcePath: file}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return s, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, y.errorf(root, "top level must be a mapping")
	}
	if len(root.Content) == 2 && root.Content[0].Value == "api" && root.Content[1].Kind == yaml.MappingNode {
		root = root.Content[1]
	}

	seen := make(map[string]spec.Position)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		name, ok := fieldAliases[k.Value]
		if !ok {
			return nil, y.errorf(k, "unknown field %q (want name, base, dict, headers or query)", k.Value)
		}
		if first, dup := seen[name]; dup {
			return nil, y.errorf(k, "field %s given twice (first at %s)", name, first)
		}
		seen[name] = y.pos(k)

		var err error
		switch name {
		case fieldName:
			if err = y.scalar(v, "name"); err == nil {
				s.Name, s.NamePos = v.Value, y.pos(v)
			}
		case fieldBase:
			if err = y.scalar(v, "base"); err == nil {
				base := v.Value
				s.Base = &base
			}
		case fieldQuery:
			var q spec.Expression
			if q, err = y.expression(v, "query"); err == nil {
				s.Query = &q
			}
		case fieldHeaders:
			err = y.headers(v, &s.Headers, p.log())
		case fieldDict:
			s.Entries, err = y.entries(v, p.log())
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

type yamlReader struct {
	file string
}

func (y *yamlReader) pos(n *yaml.Node) spec.Position {
	return spec.Position{File: y.file, Line: n.Line, Column: n.Column}
}

func (y *yamlReader) errorf(n *yaml.Node, format string, args ...any) *kverrors.ParseError {
	return &kverrors.ParseError{
		Path:    y.file,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (y *yamlReader) scalar(n *yaml.Node, what string) error {
	if n.Kind != yaml.ScalarNode {
		return y.errorf(n, "%s must be a scalar", what)
	}
	return nil
}

func (y *yamlReader) expression(n *yaml.Node, what string) (spec.Expression, error) {
	if err := y.scalar(n, what); err != nil {
		return spec.Expression{}, err
	}
	return spec.ParseExpression(n.Value, y.pos(n))
}

func (y *yamlReader) flag(n *yaml.Node, what string) (bool, error) {
	if err := y.scalar(n, what); err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(n.Value)
	if err != nil {
		return false, y.errorf(n, "%s must be true or false", what)
	}
	return b, nil
}

// fields returns the key/value pairs of a mapping node, rejecting keys
// outside allowed.
func (y *yamlReader) fields(n *yaml.Node, what string, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, y.errorf(n, "%s must be a mapping", what)
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		known := false
		for _, a := range allowed {
			known = known || k.Value == a
		}
		if !known {
			return nil, y.errorf(k, "unknown %s attribute %q", what, k.Value)
		}
		if _, dup := out[k.Value]; dup {
			return nil, y.errorf(k, "attribute %q given twice", k.Value)
		}
		out[k.Value] = n.Content[i+1]
	}
	return out, nil
}

func (y *yamlReader) headers(n *yaml.Node, set *spec.HeaderSet, log Logger) error {
	add := func(keyNode, body *yaml.Node, key string) error {
		h, err := y.header(keyNode, body, key)
		if err != nil {
			return err
		}
		if !set.Add(h) {
			log.Debug("dropped duplicate header", "key", h.Key, "line", h.Pos.Line)
		}
		return nil
	}

	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := add(n.Content[i], n.Content[i+1], n.Content[i].Value); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for _, el := range n.Content {
			f, err := y.fields(el, "header", "key", "value", "literal", "query")
			if err != nil {
				return err
			}
			k, ok := f["key"]
			if !ok {
				return y.errorf(el, "header needs a key")
			}
			if err := y.scalar(k, "header key"); err != nil {
				return err
			}
			if err := add(k, el, k.Value); err != nil {
				return err
			}
		}
	default:
		return y.errorf(n, "headers must be a mapping or a sequence")
	}
	return nil
}

func (y *yamlReader) header(keyNode, body *yaml.Node, key string) (spec.Header, error) {
	h := spec.Header{Key: key, Scope: spec.ScopeClient, Pos: y.pos(keyNode)}
	if body.Kind == yaml.ScalarNode {
		v, err := y.expression(body, "header "+strconv.Quote(key))
		h.Value = v
		return h, err
	}

	f, err := y.fields(body, "header", "key", "value", "literal", "query")
	if err != nil {
		return h, err
	}
	value, hasValue := f["value"]
	literal, hasLiteral := f["literal"]
	switch {
	case hasValue == hasLiteral:
		return h, y.errorf(body, "header %q needs exactly one of value or literal", key)
	case hasValue:
		if h.Value, err = y.expression(value, "header "+strconv.Quote(key)); err != nil {
			return h, err
		}
	default:
		if err := y.scalar(literal, "header literal"); err != nil {
			return h, err
		}
		h.Value = spec.StringExpression(literal.Value, y.pos(literal))
	}
	if q, ok := f["query"]; ok {
		perRequest, err := y.flag(q, "header query")
		if err != nil {
			return h, err
		}
		if perRequest {
			h.Scope = spec.ScopePerRequest
		}
	}
	return h, nil
}

func (y *yamlReader) entries(n *yaml.Node, log Logger) ([]spec.Entry, error) {
	var out []spec.Entry
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			e, err := y.entry(n.Content[i], n.Content[i+1], n.Content[i].Value)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	case yaml.SequenceNode:
		for _, el := range n.Content {
			f, err := y.fields(el, "dict entry", "path", "type", "query", "rename")
			if err != nil {
				return nil, err
			}
			path, ok := f["path"]
			if !ok {
				return nil, y.errorf(el, "dict entry needs a path")
			}
			if err := y.scalar(path, "dict path"); err != nil {
				return nil, err
			}
			e, err := y.entry(path, el, path.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	default:
		return nil, y.errorf(n, "dict must be a mapping or a sequence")
	}
	for _, e := range out {
		log.Debug("parsed entry", "path", e.Path, "type", e.ResultType.String(), "line", e.Pos.Line)
	}
	return out, nil
}

func (y *yamlReader) entry(pathNode, body *yaml.Node, path string) (spec.Entry, error) {
	e := spec.Entry{Path: path, Pos: y.pos(pathNode)}
	typeNode := body
	var f map[string]*yaml.Node
	if body.Kind != yaml.ScalarNode {
		var err error
		if f, err = y.fields(body, "dict entry", "path", "type", "query", "rename"); err != nil {
			return e, err
		}
		var ok bool
		if typeNode, ok = f["type"]; !ok {
			return e, y.errorf(body, "dict entry %q needs a type", path)
		}
	}
	if err := y.scalar(typeNode, "type"); err != nil {
		return e, err
	}
	rt, err := spec.ParseTypeRef(typeNode.Value, y.pos(typeNode))
	if err != nil {
		return e, err
	}
	e.ResultType = rt

	if q, ok := f["query"]; ok {
		expr, err := y.expression(q, "query")
		if err != nil {
			return e, err
		}
		e.Query = &expr
	}
	if r, ok := f["rename"]; ok {
		if r.Kind != yaml.ScalarNode {
			return e, y.errorf(r, "rename arg must be a string literal")
		}
		rename := r.Value
		e.Rename = &rename
	}
	return e, nil
}
