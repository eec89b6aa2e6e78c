package spec

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strconv"

	"github.com/erraggy/kvapi/kverrors"
)

// Expression is an opaque Go expression taken verbatim from the API
// description. Header values and queries are expressions; kvapi checks that
// they parse and otherwise never looks inside them.
type Expression struct {
	// Source is the expression text as written.
	Source string
	// Pos is where the expression starts.
	Pos Position

	node      ast.Expr
	canonical string
}

// ParseExpression parses src as a Go expression.
func ParseExpression(src string, pos Position) (Expression, error) {
	node, err := parser.ParseExpr(src)
	if err != nil {
		return Expression{}, &kverrors.ParseError{
			Path:    pos.File,
			Line:    pos.Line,
			Column:  pos.Column,
			Message: "invalid expression " + strconv.Quote(src),
			Cause:   err,
		}
	}
	return Expression{
		Source:    src,
		Pos:       pos,
		node:      node,
		canonical: printNode(node),
	}, nil
}

// MustParseExpression is like ParseExpression but panics on error.
// It is intended for tests and fixed, known-good input.
func MustParseExpression(src string) Expression {
	e, err := ParseExpression(src, Position{})
	if err != nil {
		panic(err)
	}
	return e
}

// StringExpression returns the expression for the Go string literal of s.
func StringExpression(s string, pos Position) Expression {
	lit := strconv.Quote(s)
	return Expression{
		Source:    lit,
		Pos:       pos,
		node:      &ast.BasicLit{Kind: token.STRING, Value: lit},
		canonical: lit,
	}
}

// IsZero reports whether e is the zero Expression.
func (e Expression) IsZero() bool {
	return e.node == nil
}

// Canonical returns the expression formatted by go/printer. Two expressions
// that differ only in layout have the same canonical text.
func (e Expression) Canonical() string {
	return e.canonical
}

func (e Expression) String() string {
	return e.canonical
}

// StringLiteral returns the value of the expression when it is a single
// string literal.
func (e Expression) StringLiteral() (string, bool) {
	lit, ok := e.node.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// NeedsParens reports whether the expression must be parenthesised when it
// becomes an operand of a string concatenation.
func (e Expression) NeedsParens() bool {
	_, binary := e.node.(*ast.BinaryExpr)
	return binary
}

// MarshalText implements encoding.TextMarshaler.
func (e Expression) MarshalText() ([]byte, error) {
	return []byte(e.canonical), nil
}

func printNode(node ast.Node) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, token.NewFileSet(), node); err != nil {
		return ""
	}
	return buf.String()
}
