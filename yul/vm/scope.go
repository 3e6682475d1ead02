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
	"sync"

	"github.com/holiman/uint256"
	"github.com/ledgerwatch/log/v3"
)

var framePool = sync.Pool{
	New: func() any {
		return &frame{
			names:  make([]string, 0, 8),
			values: make([]uint256.Int, 0, 8),
		}
	},
}

// frame holds the variables of one block or function call. Frames are small,
// so lookups scan them linearly.
type frame struct {
	names  []string
	values []uint256.Int
	// a function frame hides every frame below it
	function bool
}

func newFrame(function bool) *frame {
	f, ok := framePool.Get().(*frame)
	if !ok {
		log.Error("Type assertion failure", "err", "cannot get frame pointer from framePool")
		f = &frame{}
	}
	f.function = function
	return f
}

func (f *frame) release() {
	f.names = f.names[:0]
	f.values = f.values[:0]
	framePool.Put(f)
}

func (f *frame) find(name string) int {
	for i := len(f.names) - 1; i >= 0; i-- {
		if f.names[i] == name {
			return i
		}
	}
	return -1
}

// Binding is a visible variable and its current value.
type Binding struct {
	Name  string
	Value uint256.Int
}

// Scopes is the stack of variable frames, innermost last.
type Scopes struct {
	frames []*frame
}

// Push opens a block frame.
func (s *Scopes) Push() { s.frames = append(s.frames, newFrame(false)) }

// PushFunction opens a function-call frame. Variables of the caller become
// invisible until the matching Pop.
func (s *Scopes) PushFunction() { s.frames = append(s.frames, newFrame(true)) }

// Pop closes the innermost frame.
func (s *Scopes) Pop() {
	if len(s.frames) == 0 {
		return
	}
	f := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	f.release()
}

// Depth is the number of open frames.
func (s *Scopes) Depth() int { return len(s.frames) }

func (s *Scopes) Declare(name string, value *uint256.Int) error {
	if len(s.frames) == 0 {
		return ErrNoScope
	}
	f := s.frames[len(s.frames)-1]
	f.names = append(f.names, name)
	f.values = append(f.values, *value)
	return nil
}

func (s *Scopes) slot(name string) *uint256.Int {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if j := f.find(name); j >= 0 {
			return &f.values[j]
		}
		if f.function {
			break
		}
	}
	return nil
}

func (s *Scopes) Lookup(name string) (uint256.Int, error) {
	if v := s.slot(name); v != nil {
		return *v, nil
	}
	return uint256.Int{}, ErrUnboundVariable
}

func (s *Scopes) Assign(name string, value *uint256.Int) error {
	v := s.slot(name)
	if v == nil {
		return ErrUnboundVariable
	}
	v.Set(value)
	return nil
}

// Visible returns the variables reachable from the innermost frame,
// outermost first.
func (s *Scopes) Visible() []Binding {
	start := 0
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].function {
			start = i
			break
		}
	}
	var out []Binding
	for _, f := range s.frames[start:] {
		for j, n := range f.names {
			out = append(out, Binding{Name: n, Value: f.values[j]})
		}
	}
	return out
}
