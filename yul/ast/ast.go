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

// Package ast defines the Yul syntax tree. Trees are produced by the parser
// and never modified afterwards; pointer identity is node identity.
package ast

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Pos is a position in the source text. Line and Column are 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is implemented by every tree node.
type Node interface {
	Position() Pos
}

// Statement is a node that can appear directly inside a Block.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that evaluates to zero or more words.
type Expression interface {
	Node
	exprNode()
}

// TypedName is a declared name: a variable, a function parameter or a return variable.
// The type is kept only for printing; the EVM dialect has a single word type.
type TypedName struct {
	Pos  Pos
	Name string
	Type string
}

func (n *TypedName) Position() Pos { return n.Pos }

// Block is an ordered sequence of statements and introduces a lexical scope.
type Block struct {
	Pos        Pos
	Statements []Statement
}

// Functions returns the function definitions declared directly in b, in order.
func (b *Block) Functions() []*FunctionDefinition {
	var fns []*FunctionDefinition
	for _, s := range b.Statements {
		if fn, ok := s.(*FunctionDefinition); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

type VariableDeclaration struct {
	Pos       Pos
	Variables []*TypedName
	Value     Expression // nil: every variable is zero-initialised
}

type Assignment struct {
	Pos       Pos
	Variables []*Identifier
	Value     Expression
}

type ExpressionStatement struct {
	Pos        Pos
	Expression Expression
}

type If struct {
	Pos       Pos
	Condition Expression
	Body      *Block
}

// Case is one switch branch. Value is nil for the default branch.
type Case struct {
	Pos   Pos
	Value *Literal
	Body  *Block
}

type Switch struct {
	Pos        Pos
	Expression Expression
	Cases      []*Case
}

// Default returns the default branch, or nil.
func (s *Switch) Default() *Case {
	for _, c := range s.Cases {
		if c.Value == nil {
			return c
		}
	}
	return nil
}

type ForLoop struct {
	Pos       Pos
	Pre       *Block
	Condition Expression
	Post      *Block
	Body      *Block
}

type Break struct{ Pos Pos }

type Continue struct{ Pos Pos }

type Leave struct{ Pos Pos }

type FunctionDefinition struct {
	Pos        Pos
	Name       string
	Parameters []*TypedName
	Returns    []*TypedName
	Body       *Block
}

type FunctionCall struct {
	Pos       Pos
	Name      *Identifier
	Arguments []Expression
}

type Identifier struct {
	Pos  Pos
	Name string
}

// LiteralKind tells how a literal was written.
type LiteralKind uint8

const (
	NumberLiteral LiteralKind = iota
	BoolLiteral
	StringLiteral
)

// Literal is a constant word. String literals are left-aligned in the word,
// the same way the EVM dialect stores them.
type Literal struct {
	Pos   Pos
	Kind  LiteralKind
	Value uint256.Int
	Text  string // as written, for printing
	Type  string
}

func (b *Block) Position() Pos               { return b.Pos }
func (v *VariableDeclaration) Position() Pos { return v.Pos }
func (a *Assignment) Position() Pos          { return a.Pos }
func (e *ExpressionStatement) Position() Pos { return e.Pos }
func (i *If) Position() Pos                  { return i.Pos }
func (c *Case) Position() Pos                { return c.Pos }
func (s *Switch) Position() Pos              { return s.Pos }
func (f *ForLoop) Position() Pos             { return f.Pos }
func (b *Break) Position() Pos               { return b.Pos }
func (c *Continue) Position() Pos            { return c.Pos }
func (l *Leave) Position() Pos               { return l.Pos }
func (f *FunctionDefinition) Position() Pos  { return f.Pos }
func (f *FunctionCall) Position() Pos        { return f.Pos }
func (i *Identifier) Position() Pos          { return i.Pos }
func (l *Literal) Position() Pos             { return l.Pos }

func (*Block) stmtNode()               {}
func (*VariableDeclaration) stmtNode() {}
func (*Assignment) stmtNode()          {}
func (*ExpressionStatement) stmtNode() {}
func (*If) stmtNode()                  {}
func (*Switch) stmtNode()              {}
func (*ForLoop) stmtNode()             {}
func (*Break) stmtNode()               {}
func (*Continue) stmtNode()            {}
func (*Leave) stmtNode()               {}
func (*FunctionDefinition) stmtNode()  {}

func (*FunctionCall) exprNode() {}
func (*Identifier) exprNode()   {}
func (*Literal) exprNode()      {}
