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

package ast

import (
	"strings"
)

// FormatExpression prints e in source form.
func FormatExpression(e Expression) string {
	var sb strings.Builder
	writeExpression(&sb, e)
	return sb.String()
}

func writeExpression(sb *strings.Builder, e Expression) {
	switch e := e.(type) {
	case *Literal:
		sb.WriteString(e.Text)
	case *Identifier:
		sb.WriteString(e.Name)
	case *FunctionCall:
		sb.WriteString(e.Name.Name)
		sb.WriteByte('(')
		for i, arg := range e.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpression(sb, arg)
		}
		sb.WriteByte(')')
	case nil:
	default:
		sb.WriteString("<?>")
	}
}

func joinNames(names []*TypedName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.Name
	}
	return strings.Join(parts, ", ")
}

// Describe returns a one-line summary of s: the statement header without
// nested blocks. It is what the trace and the inspector show.
func Describe(s Statement) string {
	switch s := s.(type) {
	case *Block:
		return "{ ... }"
	case *VariableDeclaration:
		if s.Value == nil {
			return "let " + joinNames(s.Variables)
		}
		return "let " + joinNames(s.Variables) + " := " + FormatExpression(s.Value)
	case *Assignment:
		parts := make([]string, len(s.Variables))
		for i, v := range s.Variables {
			parts[i] = v.Name
		}
		return strings.Join(parts, ", ") + " := " + FormatExpression(s.Value)
	case *ExpressionStatement:
		return FormatExpression(s.Expression)
	case *If:
		return "if " + FormatExpression(s.Condition)
	case *Switch:
		return "switch " + FormatExpression(s.Expression)
	case *ForLoop:
		return "for"
	case *Break:
		return "break"
	case *Continue:
		return "continue"
	case *Leave:
		return "leave"
	case *FunctionDefinition:
		d := "function " + s.Name + "(" + joinNames(s.Parameters) + ")"
		if len(s.Returns) > 0 {
			d += " -> " + joinNames(s.Returns)
		}
		return d
	}
	return "<?>"
}
