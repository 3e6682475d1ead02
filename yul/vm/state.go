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

// Package vm holds the machine state of one Yul run: memory, storage,
// transient storage, the call context, variable frames and the trace.
package vm

import (
	"errors"

	"github.com/c2h5oh/datasize"
	"github.com/holiman/uint256"
)

const (
	DefaultMaxTraceSize    = 10000
	DefaultMaxMemoryAccess = 64 * datasize.KB
)

var (
	ErrTraceOverflow   = errors.New("trace size limit reached")
	ErrUnboundVariable = errors.New("unbound variable")
	ErrNoScope         = errors.New("no open scope")
)

// Config are the limits of a State.
type Config struct {
	MaxTraceSize       int               // entries; zero means DefaultMaxTraceSize
	MaxMemoryAccess    datasize.ByteSize // largest memory range copied by one access
	DisableMemoryTrace bool              // do not record memory writes
}

func (c *Config) setDefaults() {
	if c.MaxTraceSize <= 0 {
		c.MaxTraceSize = DefaultMaxTraceSize
	}
	if c.MaxMemoryAccess == 0 {
		c.MaxMemoryAccess = DefaultMaxMemoryAccess
	}
}

// State is the mutable machine state of a run. It is owned by a single run
// and is not safe for concurrent use.
type State struct {
	Memory           *Memory
	Storage          Storage
	TransientStorage Storage
	Context          CallContext
	ReturnData       []byte

	scopes     Scopes
	trace      []TraceEntry
	unrecorded int // steps charged against the trace capacity without an entry
	cfg        Config
	depth      int
}

func New(ctx CallContext, cfg Config) *State {
	cfg.setDefaults()
	return &State{
		Memory:           NewMemory(cfg.MaxMemoryAccess.Bytes()),
		Storage:          make(Storage),
		TransientStorage: make(Storage),
		Context:          ctx,
		cfg:              cfg,
	}
}

// MaxTraceSize is the configured trace capacity.
func (st *State) MaxTraceSize() int { return st.cfg.MaxTraceSize }

// AppendTrace records e, stamped with the current call depth. Once the trace
// holds MaxTraceSize entries it fails with ErrTraceOverflow and drops e.
func (st *State) AppendTrace(e TraceEntry) error {
	if st.traceFull() {
		return ErrTraceOverflow
	}
	e.Depth = st.depth
	st.trace = append(st.trace, e)
	return nil
}

// ChargeTrace uses up one unit of trace capacity without recording an entry.
// Loop iterations are charged this way when statement entries are not traced.
func (st *State) ChargeTrace() error {
	if st.traceFull() {
		return ErrTraceOverflow
	}
	st.unrecorded++
	return nil
}

func (st *State) traceFull() bool {
	return len(st.trace)+st.unrecorded >= st.cfg.MaxTraceSize
}

// Trace returns the recorded entries. The slice must not be modified.
func (st *State) Trace() []TraceEntry { return st.trace }

func (st *State) TraceLen() int { return len(st.trace) }

// AmendTrace lets the producer of entry i fill in what was only known after
// the entry was appended, such as the results of a builtin call.
func (st *State) AmendTrace(i int, fn func(e *TraceEntry)) {
	if i >= 0 && i < len(st.trace) {
		fn(&st.trace[i])
	}
}

// ReadMemory returns length bytes at offset and grows msize. Accesses larger
// than MaxMemoryAccess grow msize but return nil.
func (st *State) ReadMemory(offset, length *uint256.Int) []byte {
	if !st.Memory.Expand(offset, length) {
		return nil
	}
	return st.Memory.Read(offset, length.Uint64())
}

// WriteMemory stores data at offset, grows msize and records the write.
// Nothing is written when the trace is full.
func (st *State) WriteMemory(offset *uint256.Int, data []byte) error {
	if !st.cfg.DisableMemoryTrace {
		e := TraceEntry{Kind: MemoryWrite, Key: *offset, Data: data}
		if len(data) <= 32 {
			e.Value.SetBytes(data)
		}
		if err := st.AppendTrace(e); err != nil {
			return err
		}
	}
	st.Memory.Expand(offset, new(uint256.Int).SetUint64(uint64(len(data))))
	st.Memory.Write(offset, data)
	return nil
}

// MemorySize returns msize.
func (st *State) MemorySize() uint256.Int { return st.Memory.Size() }

func (st *State) ReadStorage(key *uint256.Int) uint256.Int {
	return st.Storage.Get(key)
}

// WriteStorage stores value under key and records the write.
func (st *State) WriteStorage(key, value *uint256.Int) error {
	if err := st.AppendTrace(TraceEntry{Kind: StorageWrite, Key: *key, Value: *value}); err != nil {
		return err
	}
	st.Storage.Set(key, value)
	return nil
}

func (st *State) ReadTransientStorage(key *uint256.Int) uint256.Int {
	return st.TransientStorage.Get(key)
}

func (st *State) WriteTransientStorage(key, value *uint256.Int) error {
	if err := st.AppendTrace(TraceEntry{Kind: TransientStorageWrite, Key: *key, Value: *value}); err != nil {
		return err
	}
	st.TransientStorage.Set(key, value)
	return nil
}

func (st *State) PushScope() { st.scopes.Push() }

// PushFunctionScope opens the frame of a user function call.
func (st *State) PushFunctionScope() {
	st.scopes.PushFunction()
	st.depth++
}

// PopScope closes the innermost frame.
func (st *State) PopScope() {
	if n := len(st.scopes.frames); n > 0 && st.scopes.frames[n-1].function {
		st.depth--
	}
	st.scopes.Pop()
}

func (st *State) DeclareVariable(name string, value *uint256.Int) error {
	return st.scopes.Declare(name, value)
}

func (st *State) LookupVariable(name string) (uint256.Int, error) {
	return st.scopes.Lookup(name)
}

func (st *State) AssignVariable(name string, value *uint256.Int) error {
	return st.scopes.Assign(name, value)
}

// ScopeDepth is the number of open frames.
func (st *State) ScopeDepth() int { return st.scopes.Depth() }

// CallDepth is the number of active user function calls.
func (st *State) CallDepth() int { return st.depth }

// Variables returns the variables visible from the innermost frame.
func (st *State) Variables() []Binding { return st.scopes.Visible() }
