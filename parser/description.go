package parser

import (
	"go/token"
	"strconv"

	"github.com/erraggy/kvapi/spec"
)

// Top-level field names, after alias resolution.
const (
	fieldName    = "name"
	fieldBase    = "base"
	fieldDict    = "dict"
	fieldHeaders = "headers"
	fieldQuery   = "query"
)

// fieldAliases maps every accepted spelling of a top-level field to its name.
var fieldAliases = map[string]string{
	"name": fieldName, "N": fieldName,
	"base": fieldBase, "B": fieldBase,
	"dict": fieldDict, "D": fieldDict,
	"headers": fieldHeaders, "head": fieldHeaders, "hdrs": fieldHeaders, "H": fieldHeaders,
	"query": fieldQuery, "Q": fieldQuery,
}

// description parses a whole API description: an optional `api { ... }`
// wrapper around a list of fields.
func (p *Parser) description(lx *lexer) (*spec.Specification, error) {
	lx.skipNewlines()

	var open item
	wrapped := false
	if it := lx.peek(); it.tok == token.IDENT && it.lit == "api" {
		lx.next()
		if lx.peek().tok == token.NOT {
			lx.next()
		}
		open = lx.peek()
		if open.tok != token.LBRACE {
			return nil, lx.errorf(open, "expected '{' after api, found %s", open.describe())
		}
		lx.next()
		wrapped = true
	}

	s := &spec.Specification{SourcePath: lx.file}
	seen := make(map[string]spec.Position)
	for {
		lx.skipSeparators()
		it := lx.peek()
		if it.tok == token.EOF {
			if wrapped {
				return nil, lx.errorf(open, "missing closing '}' for api block")
			}
			break
		}
		if wrapped && it.tok == token.RBRACE {
			lx.next()
			lx.skipNewlines()
			if rest := lx.peek(); rest.tok != token.EOF {
				return nil, lx.errorf(rest, "unexpected %s after api block", rest.describe())
			}
			break
		}

		if err := p.field(lx, s, seen); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *Parser) field(lx *lexer, s *spec.Specification, seen map[string]spec.Position) error {
	key := lx.next()
	if key.tok != token.IDENT {
		return lx.errorf(key, "expected field name, found %s", key.describe())
	}
	name, ok := fieldAliases[key.lit]
	if !ok {
		return lx.errorf(key, "unknown field %q (want name, base, dict, headers or query)", key.lit)
	}
	if first, dup := seen[name]; dup {
		return lx.errorf(key, "field %s given twice (first at %s)", name, first)
	}
	seen[name] = key.pos

	if err := lx.separator(); err != nil {
		return err
	}

	switch name {
	case fieldName:
		v := lx.next()
		if v.tok != token.IDENT {
			return lx.errorf(v, "name must be an identifier, found %s", v.describe())
		}
		s.Name = v.lit
		s.NamePos = v.pos

	case fieldBase:
		v := lx.next()
		if v.tok != token.STRING {
			return lx.errorf(v, "base must be a string literal, found %s", v.describe())
		}
		base, err := strconv.Unquote(v.lit)
		if err != nil {
			return lx.errorf(v, "invalid base string: %v", err)
		}
		s.Base = &base

	case fieldDict:
		return lx.braced("dict", func() error {
			e, err := p.entry(lx)
			if err != nil {
				return err
			}
			p.log().Debug("parsed entry", "path", e.Path, "type", e.ResultType.String(), "line", e.Pos.Line)
			s.Entries = append(s.Entries, e)
			return nil
		})

	case fieldHeaders:
		return lx.braced("headers", func() error {
			h, err := p.header(lx)
			if err != nil {
				return err
			}
			if !s.Headers.Add(h) {
				p.log().Debug("dropped duplicate header", "key", h.Key, "line", h.Pos.Line)
			}
			return nil
		})

	case fieldQuery:
		q, err := p.expression(lx, key, "query")
		if err != nil {
			return err
		}
		s.Query = &q
	}
	return nil
}

// entry parses `attrs? "path" sep Type`.
func (p *Parser) entry(lx *lexer) (spec.Entry, error) {
	attrs, err := lx.attributes()
	if err != nil {
		return spec.Entry{}, err
	}
	if err := lx.checkDuplicateAttrs(attrs); err != nil {
		return spec.Entry{}, err
	}
	lx.skipNewlines()

	lit := lx.next()
	if lit.tok != token.STRING {
		return spec.Entry{}, lx.errorf(lit, "expected endpoint path string literal, found %s", lit.describe())
	}
	path, err := strconv.Unquote(lit.lit)
	if err != nil {
		return spec.Entry{}, lx.errorf(lit, "invalid endpoint path: %v", err)
	}
	if err := lx.separator(); err != nil {
		return spec.Entry{}, err
	}

	typeItems := lx.extent(true)
	if len(typeItems) == 0 {
		return spec.Entry{}, lx.errorf(lx.peek(), "expected result type for %q, found %s", path, lx.peek().describe())
	}
	rt, err := spec.ParseTypeRef(lx.source(typeItems), typeItems[0].pos)
	if err != nil {
		return spec.Entry{}, err
	}

	e := spec.Entry{Path: path, ResultType: rt, Pos: lit.pos}
	for _, a := range attrs {
		switch a.name.lit {
		case "query":
			if len(a.value) == 0 {
				return spec.Entry{}, lx.errorf(a.name, "attribute query needs a value")
			}
			q, err := spec.ParseExpression(lx.source(a.value), a.value[0].pos)
			if err != nil {
				return spec.Entry{}, err
			}
			e.Query = &q
		case "rename":
			if len(a.value) != 1 || a.value[0].tok != token.STRING {
				return spec.Entry{}, lx.errorf(a.name, "rename arg must be a string literal")
			}
			rename, err := strconv.Unquote(a.value[0].lit)
			if err != nil {
				return spec.Entry{}, lx.errorf(a.value[0], "rename arg must be a string literal")
			}
			e.Rename = &rename
		default:
			return spec.Entry{}, lx.errorf(a.name, "unknown dict attribute %q (want query or rename)", a.name.lit)
		}
	}
	return e, nil
}

// header parses `attrs? "Key" sep Expression`. The only header attribute is
// the bare `query` flag, which makes the header per-request.
func (p *Parser) header(lx *lexer) (spec.Header, error) {
	attrs, err := lx.attributes()
	if err != nil {
		return spec.Header{}, err
	}
	if err := lx.checkDuplicateAttrs(attrs); err != nil {
		return spec.Header{}, err
	}
	lx.skipNewlines()

	scope := spec.ScopeClient
	for _, a := range attrs {
		if a.name.lit != "query" {
			return spec.Header{}, lx.errorf(a.name, "unknown header attribute %q (want query)", a.name.lit)
		}
		if len(a.value) > 0 {
			return spec.Header{}, lx.errorf(a.value[0], "header attribute query takes no value")
		}
		scope = spec.ScopePerRequest
	}

	lit := lx.next()
	if lit.tok != token.STRING {
		return spec.Header{}, lx.errorf(lit, "expected header name string literal, found %s", lit.describe())
	}
	key, err := strconv.Unquote(lit.lit)
	if err != nil {
		return spec.Header{}, lx.errorf(lit, "invalid header name: %v", err)
	}
	if err := lx.separator(); err != nil {
		return spec.Header{}, err
	}
	value, err := p.expression(lx, lit, "header "+strconv.Quote(key))
	if err != nil {
		return spec.Header{}, err
	}
	return spec.Header{Key: key, Value: value, Scope: scope, Pos: lit.pos}, nil
}

// expression parses one embedded Go expression.
func (p *Parser) expression(lx *lexer, owner item, what string) (spec.Expression, error) {
	items := lx.extent(false)
	if len(items) == 0 {
		return spec.Expression{}, lx.errorf(owner, "missing expression for %s", what)
	}
	return spec.ParseExpression(lx.source(items), items[0].pos)
}
