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
	"io"
	"strings"

	"github.com/erigontech/yulrun/yul/ast"
)

// Kind classifies a diagnostic.
type Kind uint8

const (
	ParserError Kind = iota
	DeclarationError
	TypeError
	SyntaxError
)

func (k Kind) String() string {
	switch k {
	case ParserError:
		return "ParserError"
	case DeclarationError:
		return "DeclarationError"
	case TypeError:
		return "TypeError"
	case SyntaxError:
		return "SyntaxError"
	}
	return "Error"
}

type Diagnostic struct {
	Pos     ast.Pos
	Kind    Kind
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}

// Diagnostics is the list of problems the front-end found. A non-empty list
// means interpretation must not start.
type Diagnostics []Diagnostic

func (ds *Diagnostics) add(p ast.Pos, k Kind, msg string) {
	*ds = append(*ds, Diagnostic{Pos: p, Kind: k, Message: msg})
}

func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Err returns ds as an error, or nil when there are no diagnostics.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}

// Print writes every diagnostic followed by the offending source line and a caret.
func (ds Diagnostics) Print(w io.Writer, name, src string) {
	lines := strings.Split(src, "\n")
	for _, d := range ds {
		fmt.Fprintf(w, "%s: %s\n", d.Kind, d.Message)
		fmt.Fprintf(w, " --> %s:%s:\n", name, d.Pos)
		if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
			line := lines[d.Pos.Line-1]
			fmt.Fprintf(w, "  |\n%d | %s\n  | %s^\n", d.Pos.Line, line, strings.Repeat(" ", max(d.Pos.Column-1, 0)))
		}
		fmt.Fprintln(w)
	}
}
