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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/yulrun/yul/ast"
)

type builtinTable map[string][2]int

func (b builtinTable) Signature(name string) (int, int, bool) {
	sig, ok := b[name]
	return sig[0], sig[1], ok
}

var testBuiltins = builtinTable{
	"add":    {2, 1},
	"lt":     {2, 1},
	"sstore": {2, 0},
	"pop":    {1, 0},
	"stop":   {0, 0},
}

func TestAnalyzeAccepts(t *testing.T) {
	scenarios := map[string]string{
		"hoisted function":        "{ pop(f()) function f() -> r { } }",
		"recursion":               "{ function f(n) -> r { if n { r := f(add(n, 1)) } } }",
		"name reuse across funcs": "{ let x := 1 function f() { let x := 2 } function g(x) { } }",
		"sibling blocks":          "{ { let x := 1 } { let x := 2 } }",
		"loop variable":           "{ for { let i := 0 } lt(i, 3) { i := add(i, 1) } { sstore(i, i) } }",
		"break in nested if":      "{ for { } 1 { } { if 1 { break } continue } }",
		"leave in loop":           "{ function f() { for { } 1 { } { leave } } }",
		"nested function visible": "{ function outer() { function inner() { } inner() } }",
		"outer function visible":  "{ function a() { } { function b() { a() } } }",
		"typed names":             "{ let x:u256 := 1:u256 let b:bool := true }",
		"string and hex case":     `{ switch 1 case "a" { } case 0x62 { } default { } }`,
	}

	for name, src := range scenarios {
		src := src
		t.Run(name, func(t *testing.T) {
			tree, info, errs := Parse(src, testBuiltins)
			require.Empty(t, errs)
			require.NotNil(t, tree)
			require.NotNil(t, info)
		})
	}
}

func TestAnalyzeRejects(t *testing.T) {
	type scenario struct {
		src     string
		kind    Kind
		message string
	}

	scenarios := map[string]scenario{
		"undeclared": {
			src: "{ pop(x) }", kind: DeclarationError, message: `Identifier "x" not found.`,
		},
		"unknown function": {
			src: "{ nope() }", kind: DeclarationError, message: `Function "nope" not found.`,
		},
		"redeclared in scope": {
			src: "{ let x := 1 let x := 2 }", kind: DeclarationError, message: "Variable name x already taken in this scope.",
		},
		"shadowing outer block": {
			src: "{ let x := 1 { let x := 2 } }", kind: DeclarationError, message: "Variable name x already taken in this scope.",
		},
		"variable named like a function": {
			src: "{ function f() { } let f := 1 }", kind: DeclarationError, message: "Variable name f already taken in this scope.",
		},
		"duplicate function": {
			src: "{ function f() { } function f() { } }", kind: DeclarationError, message: "Function name f already taken in this scope.",
		},
		"builtin name": {
			src: "{ let add := 1 }", kind: DeclarationError, message: `Cannot use builtin function name "add" as identifier name.`,
		},
		"function sees no outer variables": {
			src: "{ let x := 1 function f() -> r { r := x } }", kind: DeclarationError, message: `Identifier "x" not found.`,
		},
		"assignment to undeclared": {
			src: "{ y := 1 }", kind: DeclarationError, message: "Variable not found or variable not lvalue.",
		},
		"duplicate assignment target": {
			src: "{ function f() -> a, b { } let x, y := f() x, x := f() }", kind: DeclarationError,
			message: "Variable x occurs multiple times on the left-hand side of the assignment.",
		},
		"declaration count": {
			src: "{ let x, y := add(1, 2) }", kind: DeclarationError,
			message: `Variable count mismatch for declaration of "let x, y := add(1, 2)": 2 variables and 1 values.`,
		},
		"wrong argument count": {
			src: "{ sstore(1) }", kind: TypeError, message: `Function "sstore" expects 2 arguments but got 1.`,
		},
		"value left on statement": {
			src: "{ add(1, 2) }", kind: TypeError,
			message: "Top-level expressions are not supposed to return values (this expression returns 1 value). Use ``pop()`` or assign them.",
		},
		"multi-value argument": {
			src: "{ function f() -> a, b { } pop(f()) }", kind: TypeError,
			message: "Expected expression to evaluate to one value, but got 2 values instead.",
		},
		"no-value condition": {
			src: "{ if stop() { } }", kind: TypeError,
			message: "Expected expression to evaluate to one value, but got 0 values instead.",
		},
		"function as value": {
			src: "{ let x := add }", kind: TypeError, message: "Function add used without being called.",
		},
		"calling a variable": {
			src: "{ let x := 1 x() }", kind: TypeError, message: "Attempt to call variable instead of function.",
		},
		"duplicate case": {
			src: "{ switch 1 case 1 { } case 0x01 { } }", kind: DeclarationError, message: `Duplicate case "0x01" defined.`,
		},
		"break outside loop": {
			src: "{ break }", kind: SyntaxError, message: `Keyword "break" needs to be inside a for-loop body.`,
		},
		"continue in loop post": {
			src: "{ for { } 1 { continue } { } }", kind: SyntaxError, message: `Keyword "continue" needs to be inside a for-loop body.`,
		},
		"break in function inside loop": {
			src: "{ for { } 1 { } { function f() { break } } }", kind: SyntaxError, message: `Keyword "break" needs to be inside a for-loop body.`,
		},
		"leave outside function": {
			src: "{ leave }", kind: SyntaxError, message: `Keyword "leave" can only be used inside a function.`,
		},
		"function in loop init": {
			src: "{ for { function f() { } } 1 { } { } }", kind: SyntaxError, message: "Functions cannot be defined inside a for-loop init block.",
		},
		"invalid type": {
			src: "{ let x:u8 := 1 }", kind: TypeError, message: `"u8" is not a valid type (user defined types are not yet supported).`,
		},
	}

	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			tree, info, errs := Parse(s.src, testBuiltins)
			require.Nil(t, tree)
			require.Nil(t, info)
			require.NotEmpty(t, errs)
			require.Equal(t, s.kind, errs[0].Kind, errs.Error())
			require.Equal(t, s.message, errs[0].Message)
		})
	}
}

func TestAnalysisInfo(t *testing.T) {
	src := `{
		function f(a) -> r { r := add(a, 1) }
		let x := f(2)
		sstore(x, x)
	}`
	tree, errs := ParseTree(src)
	require.Empty(t, errs)
	info, errs := Analyze(tree, testBuiltins)
	require.Empty(t, errs)

	fn := tree.Statements[0].(*ast.FunctionDefinition)
	decl := tree.Statements[1].(*ast.VariableDeclaration)
	call := decl.Value.(*ast.FunctionCall)
	require.Same(t, fn, info.Functions[call])
	require.Equal(t, 1, info.Returns[call])

	store := tree.Statements[2].(*ast.ExpressionStatement).Expression.(*ast.FunctionCall)
	require.Equal(t, "sstore", info.BuiltinCalls[store])
	require.Equal(t, 0, info.Returns[store])
	for _, arg := range store.Arguments {
		id := arg.(*ast.Identifier)
		require.True(t, info.Resolved(id))
		require.Same(t, decl.Variables[0], info.Declarations[id])
	}

	body := fn.Body.Statements[0].(*ast.Assignment)
	require.Same(t, fn.Returns[0], info.Declarations[body.Variables[0]])
	add := body.Value.(*ast.FunctionCall)
	require.Same(t, fn.Parameters[0], info.Declarations[add.Arguments[0].(*ast.Identifier)])
}

func TestAnalyzeWithoutBuiltins(t *testing.T) {
	_, errs := Analyze(&ast.Block{Statements: []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.FunctionCall{Name: &ast.Identifier{Name: "add"}}},
	}}, nil)
	require.Len(t, errs, 1)
	require.Equal(t, `Function "add" not found.`, errs[0].Message)
}
