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

package vm

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/ast"
)

// TraceKind classifies a trace entry.
type TraceKind uint8

const (
	StatementEntered TraceKind = iota
	VariableBound
	BuiltinCall
	MemoryWrite
	StorageWrite
	TransientStorageWrite
	ExternalCallSuppressed
	ControlSignal
)

var traceKindNames = [...]string{
	StatementEntered:       "statement",
	VariableBound:          "bind",
	BuiltinCall:            "call",
	MemoryWrite:            "mwrite",
	StorageWrite:           "swrite",
	TransientStorageWrite:  "twrite",
	ExternalCallSuppressed: "suppressed",
	ControlSignal:          "control",
}

func (k TraceKind) String() string {
	if int(k) < len(traceKindNames) {
		return traceKindNames[k]
	}
	return fmt.Sprintf("TraceKind(%d)", uint8(k))
}

// TraceEntry is one observable event of a run. Which fields are set depends
// on Kind:
//
//	StatementEntered        Name (statement summary)
//	VariableBound           Name, Value
//	BuiltinCall             Name, Args, Results
//	MemoryWrite             Key (offset), Data, Value (Data as a word if it fits)
//	StorageWrite            Key, Value
//	TransientStorageWrite   Key, Value
//	ExternalCallSuppressed  Name, Args, Results (the sentinel)
//	ControlSignal           Name (the outcome)
type TraceEntry struct {
	Kind    TraceKind
	Name    string
	Args    []uint256.Int
	Results []uint256.Int
	Key     uint256.Int
	Value   uint256.Int
	Data    []byte
	Pos     ast.Pos
	// Depth is the number of enclosing user function calls.
	Depth int
}
