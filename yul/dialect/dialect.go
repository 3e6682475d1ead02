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

// Package dialect defines the builtin capability the interpreter runs
// against, and the EVM dialect implementing it.
package dialect

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/parser"
	"github.com/erigontech/yulrun/yul/vm"
)

var ErrUnknownBuiltin = errors.New("unknown builtin")

// Effect classifies what a builtin may touch.
type Effect uint8

const (
	Pure        Effect = iota // depends on its arguments only
	ReadsState                // reads memory, storage or the environment
	WritesState               // changes memory, storage or logs
)

func (e Effect) String() string {
	switch e {
	case Pure:
		return "pure"
	case ReadsState:
		return "reads"
	case WritesState:
		return "writes"
	}
	return "unknown"
}

// Builtin describes one builtin function of a dialect.
type Builtin struct {
	Name    string
	Params  int
	Returns int
	Effects Effect
	// External builtins interact with other contracts. They are suppressed
	// unless the call context enables external calls.
	External bool
	// Terminates is set for builtins that always end the run.
	Terminates bool

	execute executionFunc
}

// Dialect resolves builtin names and executes builtins against a state.
// Execute returns a non-nil error only when the state refused a mutation,
// for example vm.ErrTraceOverflow.
type Dialect interface {
	Name() string
	Resolve(name string) (*Builtin, error)
	Execute(b *Builtin, args []uint256.Int, st *vm.State) ([]uint256.Int, vm.Outcome, error)
}

type signatures struct {
	d Dialect
}

func (s signatures) Signature(name string) (int, int, bool) {
	b, err := s.d.Resolve(name)
	if err != nil {
		return 0, 0, false
	}
	return b.Params, b.Returns, true
}

// Signatures adapts d for the front-end's arity checks.
func Signatures(d Dialect) parser.Builtins {
	return signatures{d}
}
