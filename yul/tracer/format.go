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

// Package tracer renders the trace and the final state of a run as plain
// text, as a markdown table or as a JSON document.
package tracer

import (
	"fmt"
	"io"
	"strings"

	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/vm"
)

// Format selects a renderer.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// ParseFormat accepts the names of the supported formats.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, Markdown, JSON:
		return f, nil
	case "md":
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown trace format %q (want text, markdown or json)", s)
}

// Write renders with the renderer f selects.
func Write(w io.Writer, f Format, view vm.StateView, out vm.Outcome) error {
	switch f {
	case Markdown:
		return WriteMarkdown(w, view, out)
	case JSON:
		return WriteJSON(w, view, out)
	}
	return WriteText(w, view, out)
}

func joinWords(ws []uint256.Int) string {
	parts := make([]string, len(ws))
	for i := range ws {
		parts[i] = ws[i].Hex()
	}
	return strings.Join(parts, ", ")
}

// Describe returns the detail part of a trace line.
func Describe(e vm.TraceEntry) string {
	switch e.Kind {
	case vm.StatementEntered, vm.ControlSignal:
		return e.Name
	case vm.VariableBound:
		return e.Name + " = " + e.Value.Hex()
	case vm.BuiltinCall, vm.ExternalCallSuppressed:
		s := e.Name + "(" + joinWords(e.Args) + ")"
		if len(e.Results) > 0 {
			s += " -> " + joinWords(e.Results)
		}
		if len(e.Data) > 0 {
			s += fmt.Sprintf(" data=0x%x", e.Data)
		}
		return s
	case vm.MemoryWrite:
		return fmt.Sprintf("[%s] = 0x%x", e.Key.Hex(), e.Data)
	case vm.StorageWrite, vm.TransientStorageWrite:
		return "[" + e.Key.Hex() + "] = " + e.Value.Hex()
	}
	return e.Name
}
