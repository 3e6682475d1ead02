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

// Package parser is the Yul front-end: it turns source text into a syntax tree
// plus the scope information the interpreter relies on, or into diagnostics.
package parser

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/ast"
)

// bailout unwinds the parser after the first syntax error.
type bailout struct{}

type parser struct {
	lex  *lexer
	tok  Token
	peek *Token
	errs Diagnostics
}

// Parse parses and analyses src. On success the diagnostics are empty; on
// failure tree and analysis are nil.
func Parse(src string, builtins Builtins) (*ast.Block, *AnalysisInfo, Diagnostics) {
	tree, errs := ParseTree(src)
	if len(errs) > 0 {
		return nil, nil, errs
	}
	info, errs := Analyze(tree, builtins)
	if len(errs) > 0 {
		return nil, nil, errs
	}
	return tree, info, nil
}

// ParseTree parses src without analysing it.
func ParseTree(src string) (tree *ast.Block, errs Diagnostics) {
	p := &parser{}
	p.lex = newLexer(src, &p.errs)
	p.tok = p.lex.next()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			tree, errs = nil, p.errs
		}
	}()
	tree = p.parseBlock()
	if p.tok.Type != EOF {
		p.fail(p.tok.Pos, "Expected end of source but got %s.", p.tok.Type)
	}
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return tree, nil
}

func (p *parser) fail(pos ast.Pos, format string, args ...any) {
	p.errs.add(pos, ParserError, fmt.Sprintf(format, args...))
	panic(bailout{})
}

func (p *parser) advance() Token {
	t := p.tok
	if p.peek != nil {
		p.tok, p.peek = *p.peek, nil
	} else {
		p.tok = p.lex.next()
	}
	if p.tok.Type == ILLEGAL {
		// the lexer already recorded the reason
		panic(bailout{})
	}
	return t
}

func (p *parser) lookahead() Token {
	if p.peek == nil {
		t := p.lex.next()
		p.peek = &t
	}
	return *p.peek
}

func (p *parser) expect(t TokenType) Token {
	if p.tok.Type != t {
		p.fail(p.tok.Pos, "Expected %s but got %s.", t, p.tok.Type)
	}
	return p.advance()
}

func (p *parser) parseBlock() *ast.Block {
	b := &ast.Block{Pos: p.expect(LBRACE).Pos}
	for p.tok.Type != RBRACE {
		if p.tok.Type == EOF {
			p.fail(p.tok.Pos, "Expected '}' but got end of source.")
		}
		b.Statements = append(b.Statements, p.parseStatement())
	}
	p.advance()
	return b
}

func (p *parser) parseStatement() ast.Statement {
	switch p.tok.Type {
	case LBRACE:
		return p.parseBlock()
	case FUNCTION:
		return p.parseFunctionDefinition()
	case LET:
		return p.parseVariableDeclaration()
	case IF:
		pos := p.advance().Pos
		cond := p.parseExpression()
		return &ast.If{Pos: pos, Condition: cond, Body: p.parseBlock()}
	case SWITCH:
		return p.parseSwitch()
	case FOR:
		pos := p.advance().Pos
		pre := p.parseBlock()
		cond := p.parseExpression()
		post := p.parseBlock()
		return &ast.ForLoop{Pos: pos, Pre: pre, Condition: cond, Post: post, Body: p.parseBlock()}
	case BREAK:
		return &ast.Break{Pos: p.advance().Pos}
	case CONTINUE:
		return &ast.Continue{Pos: p.advance().Pos}
	case LEAVE:
		return &ast.Leave{Pos: p.advance().Pos}
	case IDENT:
		next := p.lookahead().Type
		if next == COMMA || next == ASSIGN {
			return p.parseAssignment()
		}
	}
	expr := p.parseExpression()
	if _, ok := expr.(*ast.FunctionCall); !ok {
		p.fail(expr.Position(), "Expected function call but got %s.", ast.FormatExpression(expr))
	}
	return &ast.ExpressionStatement{Pos: expr.Position(), Expression: expr}
}

func (p *parser) parseAssignment() ast.Statement {
	a := &ast.Assignment{Pos: p.tok.Pos}
	for {
		t := p.expect(IDENT)
		a.Variables = append(a.Variables, &ast.Identifier{Pos: t.Pos, Name: t.Text})
		if p.tok.Type != COMMA {
			break
		}
		p.advance()
	}
	p.expect(ASSIGN)
	a.Value = p.parseExpression()
	return a
}

func (p *parser) parseTypedNames() []*ast.TypedName {
	var names []*ast.TypedName
	for {
		t := p.expect(IDENT)
		n := &ast.TypedName{Pos: t.Pos, Name: t.Text}
		if p.tok.Type == COLON {
			p.advance()
			n.Type = p.expect(IDENT).Text
		}
		names = append(names, n)
		if p.tok.Type != COMMA {
			return names
		}
		p.advance()
	}
}

func (p *parser) parseVariableDeclaration() ast.Statement {
	d := &ast.VariableDeclaration{Pos: p.expect(LET).Pos}
	d.Variables = p.parseTypedNames()
	if p.tok.Type == ASSIGN {
		p.advance()
		d.Value = p.parseExpression()
	}
	return d
}

func (p *parser) parseFunctionDefinition() ast.Statement {
	f := &ast.FunctionDefinition{Pos: p.expect(FUNCTION).Pos}
	f.Name = p.expect(IDENT).Text
	p.expect(LPAREN)
	if p.tok.Type != RPAREN {
		f.Parameters = p.parseTypedNames()
	}
	p.expect(RPAREN)
	if p.tok.Type == ARROW {
		p.advance()
		f.Returns = p.parseTypedNames()
	}
	f.Body = p.parseBlock()
	return f
}

func (p *parser) parseSwitch() ast.Statement {
	s := &ast.Switch{Pos: p.expect(SWITCH).Pos}
	s.Expression = p.parseExpression()
	for p.tok.Type == CASE {
		pos := p.advance().Pos
		lit, ok := p.parseExpression().(*ast.Literal)
		if !ok {
			p.fail(pos, "Literal expected.")
		}
		s.Cases = append(s.Cases, &ast.Case{Pos: pos, Value: lit, Body: p.parseBlock()})
	}
	if p.tok.Type == DEFAULT {
		pos := p.advance().Pos
		s.Cases = append(s.Cases, &ast.Case{Pos: pos, Body: p.parseBlock()})
	}
	if len(s.Cases) == 0 {
		p.fail(s.Pos, "Switch statement without any cases.")
	}
	if p.tok.Type == CASE || p.tok.Type == DEFAULT {
		p.fail(p.tok.Pos, "Only one default case allowed and it must be the last one.")
	}
	return s
}

func (p *parser) parseExpression() ast.Expression {
	switch p.tok.Type {
	case IDENT:
		t := p.advance()
		id := &ast.Identifier{Pos: t.Pos, Name: t.Text}
		if p.tok.Type != LPAREN {
			return id
		}
		p.advance()
		call := &ast.FunctionCall{Pos: t.Pos, Name: id}
		for p.tok.Type != RPAREN {
			call.Arguments = append(call.Arguments, p.parseExpression())
			if p.tok.Type != COMMA {
				break
			}
			p.advance()
		}
		p.expect(RPAREN)
		return call
	case NUMBER, STRING, HEXSTRING, TRUE, FALSE:
		return p.parseLiteral()
	}
	p.fail(p.tok.Pos, "Literal or identifier expected but got %s.", p.tok.Type)
	return nil
}

func (p *parser) parseLiteral() *ast.Literal {
	t := p.advance()
	lit := &ast.Literal{Pos: t.Pos, Text: t.Text}
	switch t.Type {
	case NUMBER:
		lit.Kind = ast.NumberLiteral
		v, err := parseNumber(t.Text)
		if err != nil {
			p.errs.add(t.Pos, TypeError, err.Error())
		} else {
			lit.Value = *v
		}
	case TRUE:
		lit.Kind = ast.BoolLiteral
		lit.Value.SetOne()
	case FALSE:
		lit.Kind = ast.BoolLiteral
	case STRING, HEXSTRING:
		lit.Kind = ast.StringLiteral
		if len(t.Value) > 32 {
			p.errs.add(t.Pos, TypeError, fmt.Sprintf("String literal too long (%d > 32)", len(t.Value)))
		} else {
			var word [32]byte
			copy(word[:], t.Value)
			lit.Value.SetBytes32(word[:])
		}
	}
	if p.tok.Type == COLON {
		p.advance()
		lit.Type = p.expect(IDENT).Text
	}
	return lit
}

func parseNumber(text string) (*uint256.Int, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		digits := strings.TrimLeft(text[2:], "0")
		if len(digits)%2 == 1 {
			digits = "0" + digits
		}
		b, err := hex.DecodeString(digits)
		if err != nil {
			return nil, fmt.Errorf("Invalid hex number literal %q.", text)
		}
		if len(b) > 32 {
			return nil, fmt.Errorf("Number literal too large (> 256 bits)")
		}
		return new(uint256.Int).SetBytes(b), nil
	}
	v, err := uint256.FromDecimal(text)
	if err != nil {
		return nil, fmt.Errorf("Number literal too large (> 256 bits)")
	}
	return v, nil
}
