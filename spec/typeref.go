package spec

import (
	"errors"
	"go/ast"
	"go/parser"
	"strconv"

	"github.com/erraggy/kvapi/kverrors"
)

var errNotType = errors.New("not a type expression")

// TypeRef is an opaque Go type expression naming the decode target of an
// endpoint ("Ticker", "[]binance.Kline", "map[string]any").
type TypeRef struct {
	// Source is the type text as written.
	Source string
	// Pos is where the type starts.
	Pos Position

	canonical string
}

// ParseTypeRef parses src as a Go type expression.
func ParseTypeRef(src string, pos Position) (TypeRef, error) {
	node, err := parser.ParseExpr(src)
	if err == nil && !isType(node) {
		err = errNotType
	}
	if err != nil {
		return TypeRef{}, &kverrors.ParseError{
			Path:    pos.File,
			Line:    pos.Line,
			Column:  pos.Column,
			Message: "invalid type " + strconv.Quote(src),
			Cause:   err,
		}
	}
	return TypeRef{Source: src, Pos: pos, canonical: printNode(node)}, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on error.
func MustParseTypeRef(src string) TypeRef {
	t, err := ParseTypeRef(src, Position{})
	if err != nil {
		panic(err)
	}
	return t
}

// IsZero reports whether t is the zero TypeRef.
func (t TypeRef) IsZero() bool {
	return t.canonical == ""
}

func (t TypeRef) String() string {
	return t.canonical
}

// MarshalText implements encoding.TextMarshaler.
func (t TypeRef) MarshalText() ([]byte, error) {
	return []byte(t.canonical), nil
}

func isType(node ast.Expr) bool {
	switch n := node.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := n.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isType(n.X)
	case *ast.ParenExpr:
		return isType(n.X)
	case *ast.ArrayType:
		return isType(n.Elt)
	case *ast.MapType:
		return isType(n.Key) && isType(n.Value)
	case *ast.ChanType:
		return isType(n.Value)
	case *ast.IndexExpr:
		return isType(n.X) && isType(n.Index)
	case *ast.IndexListExpr:
		if !isType(n.X) {
			return false
		}
		for _, idx := range n.Indices {
			if !isType(idx) {
				return false
			}
		}
		return true
	case *ast.StructType, *ast.InterfaceType, *ast.FuncType:
		return true
	default:
		return false
	}
}
