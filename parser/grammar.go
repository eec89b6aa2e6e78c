package parser

import "go/token"

// separator consumes one key/value separator. ':', '=' and '->' are
// interchangeable.
func (lx *lexer) separator() error {
	it := lx.peek()
	switch it.tok {
	case token.COLON:
		lx.next()
		return nil
	case token.ASSIGN:
		// "=>" is not a separator
		if gt := lx.peekN(1); gt.tok != token.GTR || gt.off != it.end {
			lx.next()
			return nil
		}
	case token.SUB:
		if gt := lx.peekN(1); gt.tok == token.GTR && gt.off == it.end {
			lx.next()
			lx.next()
			return nil
		}
	}
	return lx.errorf(it, "expected one of ':', '=', or '->', found %s", it.describe())
}

// braced parses a '{ ... }' list, calling item for every element. Elements
// are separated by commas or newlines, both optional.
func (lx *lexer) braced(what string, item func() error) error {
	open := lx.peek()
	if open.tok != token.LBRACE {
		return lx.errorf(open, "expected '{' to open %s, found %s", what, open.describe())
	}
	lx.next()
	for {
		lx.skipSeparators()
		switch lx.peek().tok {
		case token.RBRACE:
			lx.next()
			return nil
		case token.EOF:
			return lx.errorf(open, "missing closing '}' for %s", what)
		}
		if err := item(); err != nil {
			return err
		}
	}
}

// attr is one element of a '#[ ... ]' attribute list.
type attr struct {
	name item
	// value is empty for presence flags such as a header's `query`.
	value []item
}

// attributes parses zero or one leading '#[ name sep value, flag, ... ]'
// block. Which names are allowed is up to the caller.
func (lx *lexer) attributes() ([]attr, error) {
	if !lx.peek().isHash() {
		return nil, nil
	}
	hash := lx.next()
	if open := lx.peek(); open.tok != token.LBRACK {
		return nil, lx.errorf(open, "expected '[' after '#', found %s", open.describe())
	}
	lx.next()

	var attrs []attr
	for {
		lx.skipNewlines()
		name := lx.peek()
		switch name.tok {
		case token.RBRACK:
			lx.next()
			return attrs, nil
		case token.EOF:
			return nil, lx.errorf(hash, "missing closing ']' for attribute list")
		case token.IDENT:
			lx.next()
		default:
			return nil, lx.errorf(name, "expected attribute name, found %s", name.describe())
		}

		a := attr{name: name}
		switch lx.peek().tok {
		case token.COMMA, token.RBRACK, token.SEMICOLON:
		default:
			if err := lx.separator(); err != nil {
				return nil, err
			}
			a.value = lx.extent(false)
			if len(a.value) == 0 {
				return nil, lx.errorf(name, "missing value for attribute %q", name.lit)
			}
		}
		attrs = append(attrs, a)

		lx.skipNewlines()
		switch it := lx.peek(); it.tok {
		case token.COMMA:
			lx.next()
		case token.RBRACK:
		case token.EOF:
			return nil, lx.errorf(hash, "missing closing ']' for attribute list")
		default:
			return nil, lx.errorf(it, "expected ',' or ']' in attribute list, found %s", it.describe())
		}
	}
}

// checkDuplicateAttrs rejects an attribute list naming the same attribute twice.
func (lx *lexer) checkDuplicateAttrs(attrs []attr) error {
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if seen[a.name.lit] {
			return lx.errorf(a.name, "attribute %q given twice", a.name.lit)
		}
		seen[a.name.lit] = true
	}
	return nil
}
