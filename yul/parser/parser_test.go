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
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/yulrun/yul/ast"
)

func TestParseTreeShape(t *testing.T) {
	src := `{
		// comment
		let a, b:u256 := f(1, 0x20)
		/* block
		   comment */
		a, b := g()
		if lt(a, b) { leave }
		switch a case 1 { } case "x" { } default { }
		for { let i := 0 } lt(i, 10) { i := add(i, 1) } { break continue }
		function f(x, y) -> r, s { }
	}`
	tree, errs := ParseTree(src)
	require.Empty(t, errs)
	require.Len(t, tree.Statements, 6)

	decl := tree.Statements[0].(*ast.VariableDeclaration)
	require.Len(t, decl.Variables, 2)
	require.Equal(t, "u256", decl.Variables[1].Type)
	call := decl.Value.(*ast.FunctionCall)
	require.Equal(t, "f", call.Name.Name)
	require.Len(t, call.Arguments, 2)
	require.Equal(t, uint64(0x20), call.Arguments[1].(*ast.Literal).Value.Uint64())
	require.Equal(t, 3, decl.Pos.Line)

	assign := tree.Statements[1].(*ast.Assignment)
	require.Len(t, assign.Variables, 2)
	require.Equal(t, 6, assign.Pos.Line)

	require.IsType(t, &ast.If{}, tree.Statements[2])

	sw := tree.Statements[3].(*ast.Switch)
	require.Len(t, sw.Cases, 3)
	require.NotNil(t, sw.Default())
	require.Equal(t, ast.StringLiteral, sw.Cases[1].Value.Kind)

	loop := tree.Statements[4].(*ast.ForLoop)
	require.Len(t, loop.Pre.Statements, 1)
	require.Len(t, loop.Body.Statements, 2)

	fn := tree.Statements[5].(*ast.FunctionDefinition)
	require.Equal(t, "f", fn.Name)
	require.Len(t, fn.Parameters, 2)
	require.Len(t, fn.Returns, 2)
	require.Equal(t, []*ast.FunctionDefinition{fn}, tree.Functions())
}

func TestParseLiterals(t *testing.T) {
	type scenario struct {
		src      string
		expected string
		kind     ast.LiteralKind
	}

	scenarios := map[string]scenario{
		"decimal":           {src: "42", expected: "0x2a"},
		"hex":               {src: "0xFF", expected: "0xff"},
		"hex zero":          {src: "0x0", expected: "0x0"},
		"max":               {src: "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", expected: "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		"true":              {src: "true", expected: "0x1", kind: ast.BoolLiteral},
		"false":             {src: "false", expected: "0x0", kind: ast.BoolLiteral},
		"string left-align": {src: `"ab"`, expected: "0x6162000000000000000000000000000000000000000000000000000000000000", kind: ast.StringLiteral},
		"escapes":           {src: `"\x01\n"`, expected: "0x10a000000000000000000000000000000000000000000000000000000000000", kind: ast.StringLiteral},
		"hex string":        {src: `hex"01_ff"`, expected: "0x1ff000000000000000000000000000000000000000000000000000000000000", kind: ast.StringLiteral},
		"typed":             {src: "7:u256", expected: "0x7"},
	}

	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			tree, errs := ParseTree("{ let x := " + s.src + " }")
			require.Empty(t, errs)
			lit := tree.Statements[0].(*ast.VariableDeclaration).Value.(*ast.Literal)
			require.Equal(t, s.expected, lit.Value.Hex())
			require.Equal(t, s.kind, lit.Kind)
			require.Equal(t, s.src[:len(lit.Text)], lit.Text)
		})
	}
}

func TestParseErrors(t *testing.T) {
	type scenario struct {
		src     string
		message string
	}

	scenarios := map[string]scenario{
		"missing brace":       {src: "{ let x := 1", message: "Expected '}' but got end of source."},
		"trailing tokens":     {src: "{ } }", message: "Expected end of source but got '}'."},
		"bare literal":        {src: "{ 1 }", message: "Expected function call but got 1."},
		"bad character":       {src: "{ let x := 1 # }", message: "Invalid character '#'."},
		"unterminated string": {src: `{ let x := "abc }`, message: "Unterminated string literal."},
		"odd hex string":      {src: `{ let x := hex"abc" }`, message: "Expected even number of hex-nibbles."},
		"number too large":    {src: "{ let x := 0x1" + string(bytes.Repeat([]byte("0"), 64)) + " }", message: "Number literal too large (> 256 bits)"},
		"string too long":     {src: `{ let x := "` + string(bytes.Repeat([]byte("a"), 33)) + `" }`, message: "String literal too long (33 > 32)"},
		"number suffix":       {src: "{ let x := 12ab }", message: "Identifier-start is not allowed at end of a number."},
		"switch without case": {src: "{ switch 1 }", message: "Switch statement without any cases."},
		"case after default":  {src: "{ switch 1 default { } case 2 { } }", message: "Only one default case allowed and it must be the last one."},
		"non-literal case":    {src: "{ switch 1 case x { } }", message: "Literal expected."},
	}

	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			tree, errs := ParseTree(s.src)
			require.Nil(t, tree)
			require.NotEmpty(t, errs)
			require.Equal(t, s.message, errs[0].Message)
			require.Error(t, errs.Err())
		})
	}
}

func TestDiagnosticsPrint(t *testing.T) {
	src := "{\n  let x := 1 #\n}"
	_, errs := ParseTree(src)
	require.Len(t, errs, 1)
	require.Equal(t, ast.Pos{Offset: 15, Line: 2, Column: 14}, errs[0].Pos)

	var buf bytes.Buffer
	errs.Print(&buf, "input.yul", src)
	require.Equal(t, "ParserError: Invalid character '#'.\n --> input.yul:2:14:\n  |\n2 |   let x := 1 #\n  |              ^\n\n", buf.String())
}

func TestParseResolvesWithBuiltins(t *testing.T) {
	tree, info, errs := Parse("{ let x := add(1, 2) }", testBuiltins)
	require.Empty(t, errs)
	require.NotNil(t, tree)
	call := tree.Statements[0].(*ast.VariableDeclaration).Value.(*ast.FunctionCall)
	require.Equal(t, "add", info.BuiltinCalls[call])
	require.Equal(t, 1, info.Returns[call])

	tree, info, errs = Parse("{ let x := nope() }", testBuiltins)
	require.Nil(t, tree)
	require.Nil(t, info)
	require.Len(t, errs, 1)
	require.Equal(t, DeclarationError, errs[0].Kind)
}

func TestParseNumber(t *testing.T) {
	v, err := parseNumber("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	require.Equal(t, new(uint256.Int).SetAllOne(), v)

	_, err = parseNumber("115792089237316195423570985008687907853269984665640564039457584007913129639936")
	require.Error(t, err)
}
