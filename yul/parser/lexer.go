// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package parser

import (
	"fmt"
	"strings"

	"github.com/erigontech/yulrun/yul/ast"
)

// TokenType is the kind of a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	LBRACE // "{"
	RBRACE // "}"
	LPAREN // "("
	RPAREN // ")"
	COMMA  // ","
	COLON  // ":"
	ASSIGN // ":="
	ARROW  // "->"

	IDENT
	NUMBER
	STRING    // "abc", value is the unescaped bytes
	HEXSTRING // hex"00ff", value is the decoded bytes

	// keywords
	LET
	FUNCTION
	IF
	SWITCH
	CASE
	DEFAULT
	FOR
	BREAK
	CONTINUE
	LEAVE
	TRUE
	FALSE
)

var tokenNames = map[TokenType]string{
	EOF: "end of source", ILLEGAL: "illegal token",
	LBRACE: "'{'", RBRACE: "'}'", LPAREN: "'('", RPAREN: "')'", COMMA: "','", COLON: "':'",
	ASSIGN: "':='", ARROW: "'->'",
	IDENT: "identifier", NUMBER: "number", STRING: "string literal", HEXSTRING: "hex string literal",
	LET: "'let'", FUNCTION: "'function'", IF: "'if'", SWITCH: "'switch'", CASE: "'case'",
	DEFAULT: "'default'", FOR: "'for'", BREAK: "'break'", CONTINUE: "'continue'", LEAVE: "'leave'",
	TRUE: "'true'", FALSE: "'false'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywords = map[string]TokenType{
	"let": LET, "function": FUNCTION, "if": IF, "switch": SWITCH, "case": CASE,
	"default": DEFAULT, "for": FOR, "break": BREAK, "continue": CONTINUE, "leave": LEAVE,
	"true": TRUE, "false": FALSE,
}

// Token is one lexeme. Text is the raw source slice; Value holds the decoded
// payload of string literals.
type Token struct {
	Type  TokenType
	Pos   ast.Pos
	Text  string
	Value []byte
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
	errs *Diagnostics
}

func newLexer(src string, errs *Diagnostics) *lexer {
	return &lexer{src: src, line: 1, col: 1, errs: errs}
}

func (l *lexer) pos() ast.Pos {
	return ast.Pos{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *lexer) peekByte(n int) byte {
	if l.off+n < len(l.src) {
		return l.src[l.off+n]
	}
	return 0
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.off < len(l.src); i++ {
		if l.src[l.off] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.off++
	}
}

func (l *lexer) errorf(p ast.Pos, format string, args ...any) {
	l.errs.add(p, ParserError, fmt.Sprintf(format, args...))
}

func (l *lexer) skipSpaceAndComments() {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance(1)
		case c == '/' && l.peekByte(1) == '/':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance(1)
			}
		case c == '/' && l.peekByte(1) == '*':
			start := l.pos()
			l.advance(2)
			closed := false
			for l.off < len(l.src) {
				if l.src[l.off] == '*' && l.peekByte(1) == '/' {
					l.advance(2)
					closed = true
					break
				}
				l.advance(1)
			}
			if !closed {
				l.errorf(start, "Unterminated comment.")
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '.' || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// next scans the next token.
func (l *lexer) next() Token {
	l.skipSpaceAndComments()
	p := l.pos()
	if l.off >= len(l.src) {
		return Token{Type: EOF, Pos: p}
	}
	c := l.src[l.off]
	single := func(t TokenType) Token {
		l.advance(1)
		return Token{Type: t, Pos: p, Text: string(c)}
	}
	switch {
	case c == '{':
		return single(LBRACE)
	case c == '}':
		return single(RBRACE)
	case c == '(':
		return single(LPAREN)
	case c == ')':
		return single(RPAREN)
	case c == ',':
		return single(COMMA)
	case c == ':':
		if l.peekByte(1) == '=' {
			l.advance(2)
			return Token{Type: ASSIGN, Pos: p, Text: ":="}
		}
		return single(COLON)
	case c == '-' && l.peekByte(1) == '>':
		l.advance(2)
		return Token{Type: ARROW, Pos: p, Text: "->"}
	case c == '"' || c == '\'':
		return l.scanString(p)
	case isDigit(c):
		return l.scanNumber(p)
	case isIdentStart(c):
		start := l.off
		for l.off < len(l.src) && isIdentPart(l.src[l.off]) {
			l.advance(1)
		}
		text := l.src[start:l.off]
		if text == "hex" && (l.peekByte(0) == '"' || l.peekByte(0) == '\'') {
			return l.scanHexString(p)
		}
		if kw, ok := keywords[text]; ok {
			return Token{Type: kw, Pos: p, Text: text}
		}
		return Token{Type: IDENT, Pos: p, Text: text}
	}
	l.advance(1)
	l.errorf(p, "Invalid character %q.", c)
	return Token{Type: ILLEGAL, Pos: p, Text: string(c)}
}

func (l *lexer) scanNumber(p ast.Pos) Token {
	start := l.off
	if l.src[l.off] == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') {
		l.advance(2)
		digits := l.off
		for l.off < len(l.src) && isHexDigit(l.src[l.off]) {
			l.advance(1)
		}
		if l.off == digits {
			l.errorf(p, "Hex number literal without digits.")
		}
	} else {
		for l.off < len(l.src) && isDigit(l.src[l.off]) {
			l.advance(1)
		}
	}
	if l.off < len(l.src) && isIdentPart(l.src[l.off]) {
		l.errorf(l.pos(), "Identifier-start is not allowed at end of a number.")
		for l.off < len(l.src) && isIdentPart(l.src[l.off]) {
			l.advance(1)
		}
		return Token{Type: ILLEGAL, Pos: p, Text: l.src[start:l.off]}
	}
	return Token{Type: NUMBER, Pos: p, Text: l.src[start:l.off]}
}

func (l *lexer) scanString(p ast.Pos) Token {
	quote := l.src[l.off]
	start := l.off
	l.advance(1)
	var val []byte
	for {
		if l.off >= len(l.src) || l.src[l.off] == '\n' {
			l.errorf(p, "Unterminated string literal.")
			return Token{Type: ILLEGAL, Pos: p, Text: l.src[start:l.off]}
		}
		c := l.src[l.off]
		if c == quote {
			l.advance(1)
			break
		}
		if c != '\\' {
			val = append(val, c)
			l.advance(1)
			continue
		}
		esc := l.peekByte(1)
		switch esc {
		case '\\', '"', '\'':
			val = append(val, esc)
			l.advance(2)
		case 'n':
			val = append(val, '\n')
			l.advance(2)
		case 'r':
			val = append(val, '\r')
			l.advance(2)
		case 't':
			val = append(val, '\t')
			l.advance(2)
		case 'x':
			if !isHexDigit(l.peekByte(2)) || !isHexDigit(l.peekByte(3)) {
				l.errorf(l.pos(), "Invalid escape sequence.")
				l.advance(2)
				continue
			}
			val = append(val, unhex(l.peekByte(2))<<4|unhex(l.peekByte(3)))
			l.advance(4)
		default:
			l.errorf(l.pos(), "Invalid escape sequence.")
			l.advance(2)
		}
	}
	return Token{Type: STRING, Pos: p, Text: l.src[start:l.off], Value: val}
}

func (l *lexer) scanHexString(p ast.Pos) Token {
	quote := l.src[l.off]
	l.advance(1)
	var digits strings.Builder
	for l.off < len(l.src) && l.src[l.off] != quote {
		c := l.src[l.off]
		if c == '_' {
			l.advance(1)
			continue
		}
		if !isHexDigit(c) {
			l.errorf(l.pos(), "Expected even number of hex-nibbles.")
			return Token{Type: ILLEGAL, Pos: p}
		}
		digits.WriteByte(c)
		l.advance(1)
	}
	if l.off >= len(l.src) {
		l.errorf(p, "Unterminated hex string literal.")
		return Token{Type: ILLEGAL, Pos: p}
	}
	l.advance(1)
	d := digits.String()
	if len(d)%2 != 0 {
		l.errorf(p, "Expected even number of hex-nibbles.")
		return Token{Type: ILLEGAL, Pos: p}
	}
	val := make([]byte, len(d)/2)
	for i := range val {
		val[i] = unhex(d[2*i])<<4 | unhex(d[2*i+1])
	}
	return Token{Type: HEXSTRING, Pos: p, Text: l.src[p.Offset:l.off], Value: val}
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
