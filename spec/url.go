package spec

import "strconv"

// URLPart is one operand of a URL concatenation. Exactly one of Literal or
// Expr is meaningful: Expr == nil means the part is the literal text.
type URLPart struct {
	Literal string
	Expr    *Expression
}

// IsLiteral reports whether the part is known at generation time.
func (p URLPart) IsLiteral() bool {
	return p.Expr == nil
}

// GoSource returns the part as a Go string operand. Binary expressions are
// parenthesised.
func (p URLPart) GoSource() string {
	if p.IsLiteral() {
		return strconv.Quote(p.Literal)
	}
	if p.Expr.NeedsParens() {
		return "(" + p.Expr.Canonical() + ")"
	}
	return p.Expr.Canonical()
}

func (p URLPart) String() string {
	return p.GoSource()
}

// URLTemplate returns the endpoint's own URL parts: its original path
// followed by its query, if any.
func (e *Endpoint) URLTemplate() []URLPart {
	parts := []URLPart{{Literal: e.Path}}
	if e.Query != nil {
		parts = append(parts, exprPart(*e.Query))
	}
	return parts
}

// ComposeURL returns the full URL of an endpoint as base + path + entry
// query + global query, in that order. String literal expressions are
// folded into adjacent literals; no part is ever reordered.
func (s *Specification) ComposeURL(e *Endpoint) []URLPart {
	var parts []URLPart
	if s.Base != nil {
		parts = append(parts, URLPart{Literal: *s.Base})
	}
	parts = append(parts, e.URLTemplate()...)
	if s.Query != nil {
		parts = append(parts, exprPart(*s.Query))
	}
	return FoldURL(parts)
}

// FoldURL merges adjacent literal parts and drops empty literals.
func FoldURL(parts []URLPart) []URLPart {
	var out []URLPart
	for _, p := range parts {
		if !p.IsLiteral() {
			out = append(out, p)
			continue
		}
		if p.Literal == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].IsLiteral() {
			out[n-1].Literal += p.Literal
			continue
		}
		out = append(out, p)
	}
	return out
}

// URLSource renders parts as a single Go string expression.
func URLSource(parts []URLPart) string {
	if len(parts) == 0 {
		return `""`
	}
	src := parts[0].GoSource()
	for _, p := range parts[1:] {
		src += " + " + p.GoSource()
	}
	return src
}

func exprPart(e Expression) URLPart {
	if lit, ok := e.StringLiteral(); ok {
		return URLPart{Literal: lit}
	}
	return URLPart{Expr: &e}
}
