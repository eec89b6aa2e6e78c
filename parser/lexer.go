package parser

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/erraggy/kvapi/kverrors"
	"github.com/erraggy/kvapi/spec"
)

// item is one token of the description text.
type item struct {
	tok token.Token
	lit string
	pos spec.Position
	// byte offsets of the token text in the source
	off int
	end int
}

// isHash reports whether the item is the '#' attribute introducer, which
// Go's scanner returns as an ILLEGAL token.
func (it item) isHash() bool {
	return it.tok == token.ILLEGAL && it.lit == "#"
}

// isNewline reports whether the item is a semicolon the scanner inserted at
// the end of a line.
func (it item) isNewline() bool {
	return it.tok == token.SEMICOLON && it.lit == "\n"
}

// describe renders the item for error messages.
func (it item) describe() string {
	switch {
	case it.tok == token.EOF:
		return "end of input"
	case it.isNewline():
		return "newline"
	case it.tok == token.STRING:
		return "string " + it.lit
	case it.lit != "":
		return strconv.Quote(it.lit)
	default:
		return "'" + it.tok.String() + "'"
	}
}

// lexer is a cursor over the tokens of a description. Tokenization follows
// Go's lexical rules because every embedded payload is Go source.
type lexer struct {
	src   []byte
	file  string
	items []item
	i     int
}

func newLexer(file string, src []byte) (*lexer, error) {
	fset := token.NewFileSet()
	f := fset.AddFile(file, -1, len(src))

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(f, src, func(pos token.Position, msg string) {
		// '#' only ever introduces an attribute list; misplaced ones are
		// reported by the grammar.
		if strings.Contains(msg, "U+0023") {
			return
		}
		errs.Add(pos, msg)
	}, 0)

	lx := &lexer{src: src, file: file}
	for {
		pos, tok, lit := s.Scan()
		p := fset.Position(pos)
		off := f.Offset(pos)
		width := len(lit)
		switch {
		case tok == token.SEMICOLON && lit == "\n":
			width = 0
		case lit == "":
			width = len(tok.String())
		}
		lx.items = append(lx.items, item{
			tok: tok,
			lit: lit,
			pos: spec.Position{File: file, Line: p.Line, Column: p.Column},
			off: off,
			end: off + width,
		})
		if tok == token.EOF {
			break
		}
	}

	if len(errs) > 0 {
		errs.Sort()
		e := errs[0]
		return nil, &kverrors.ParseError{
			Path:    file,
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			Message: e.Msg,
		}
	}
	return lx, nil
}

func (lx *lexer) peek() item {
	return lx.peekN(0)
}

func (lx *lexer) peekN(n int) item {
	if lx.i+n >= len(lx.items) {
		return lx.items[len(lx.items)-1]
	}
	return lx.items[lx.i+n]
}

func (lx *lexer) next() item {
	it := lx.peek()
	if lx.i < len(lx.items)-1 {
		lx.i++
	}
	return it
}

// skipNewlines skips semicolons, inserted or explicit.
func (lx *lexer) skipNewlines() {
	for lx.peek().tok == token.SEMICOLON {
		lx.next()
	}
}

// skipSeparators skips list separators: commas and semicolons.
func (lx *lexer) skipSeparators() {
	for {
		switch lx.peek().tok {
		case token.COMMA, token.SEMICOLON:
			lx.next()
		default:
			return
		}
	}
}

func (lx *lexer) errorf(it item, format string, args ...any) *kverrors.ParseError {
	return &kverrors.ParseError{
		Path:    lx.file,
		Line:    it.pos.Line,
		Column:  it.pos.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// extent consumes the tokens of one embedded Go expression or type: every
// token up to a comma, semicolon, closing delimiter or '#' at nesting depth 0.
// At depth 0 it also stops where an operand directly follows another, as in
// `query: q headers: {...}` on one line; typ allows the `func() T` form.
func (lx *lexer) extent(typ bool) []item {
	start := lx.i
	depth := 0
	prev := token.ILLEGAL
loop:
	for {
		it := lx.peek()
		switch it.tok {
		case token.EOF:
			break loop
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if depth == 0 {
				break loop
			}
			depth--
		case token.COMMA, token.SEMICOLON:
			if depth == 0 {
				break loop
			}
		case token.ILLEGAL:
			if it.isHash() && depth == 0 {
				break loop
			}
		case token.FUNC:
			// func literals and func types name their results after ')'
			typ = true
		}
		if depth == 0 && lx.i > start && isOperand(it.tok) && endsOperand(prev, typ) {
			break loop
		}
		prev = it.tok
		lx.next()
	}
	return lx.items[start:lx.i]
}

func isOperand(tok token.Token) bool {
	return tok == token.IDENT || tok.IsLiteral()
}

func endsOperand(tok token.Token, typ bool) bool {
	switch {
	case isOperand(tok), tok == token.RBRACE:
		return true
	case tok == token.RPAREN:
		return !typ
	default:
		return false
	}
}

// source returns the source text spanned by items.
func (lx *lexer) source(items []item) string {
	if len(items) == 0 {
		return ""
	}
	return string(lx.src[items[0].off:items[len(items)-1].end])
}
