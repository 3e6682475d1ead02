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
	"slices"

	"github.com/holiman/uint256"
)

// StateView is a read-only window on a State. Nothing reachable through it
// can change the state it was taken from.
type StateView interface {
	Variables() []Binding
	LookupVariable(name string) (uint256.Int, error)
	MemoryRows() []MemoryRow
	MemorySize() uint256.Int
	StorageKeys() []uint256.Int
	StorageAt(key *uint256.Int) uint256.Int
	TransientStorageKeys() []uint256.Int
	TransientStorageAt(key *uint256.Int) uint256.Int
	TraceLen() int
	TraceEntry(i int) TraceEntry
	CallContext() CallContext
	CallDepth() int
}

type stateView struct {
	st *State
}

// View returns a read-only view of st.
func (st *State) View() StateView { return stateView{st} }

func (v stateView) Variables() []Binding { return v.st.Variables() }

func (v stateView) LookupVariable(name string) (uint256.Int, error) {
	return v.st.LookupVariable(name)
}

func (v stateView) MemoryRows() []MemoryRow    { return v.st.Memory.Rows() }
func (v stateView) MemorySize() uint256.Int    { return v.st.Memory.Size() }
func (v stateView) StorageKeys() []uint256.Int { return v.st.Storage.Keys() }

func (v stateView) StorageAt(key *uint256.Int) uint256.Int {
	return v.st.Storage.Get(key)
}

func (v stateView) TransientStorageKeys() []uint256.Int { return v.st.TransientStorage.Keys() }

func (v stateView) TransientStorageAt(key *uint256.Int) uint256.Int {
	return v.st.TransientStorage.Get(key)
}

func (v stateView) TraceLen() int { return len(v.st.trace) }

// TraceEntry returns a copy of entry i that shares nothing with the state.
func (v stateView) TraceEntry(i int) TraceEntry {
	e := v.st.trace[i]
	e.Args = slices.Clone(e.Args)
	e.Results = slices.Clone(e.Results)
	e.Data = slices.Clone(e.Data)
	return e
}

func (v stateView) CallContext() CallContext {
	c := v.st.Context
	c.Calldata = slices.Clone(c.Calldata)
	return c
}

func (v stateView) CallDepth() int { return v.st.depth }
