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

var (
	alignMask = new(uint256.Int).Not(uint256.NewInt(31))
	thirtyOne = uint256.NewInt(31)
)

// MemoryRow is one non-zero 32-byte word of memory.
type MemoryRow struct {
	Offset uint256.Int
	Data   [32]byte
}

// Memory is the byte-addressed memory of a run. It is stored sparsely as
// 32-byte words keyed by word index, so any 256-bit offset is addressable
// without allocation. Unwritten bytes read as zero.
type Memory struct {
	words     map[uint256.Int]*[32]byte
	size      uint256.Int
	maxAccess uint64
}

// NewMemory returns an empty memory that copies at most maxAccess bytes per access.
func NewMemory(maxAccess uint64) *Memory {
	return &Memory{
		words:     make(map[uint256.Int]*[32]byte),
		maxAccess: maxAccess,
	}
}

// Expand grows msize to cover [offset, offset+length) and reports whether
// length is small enough for the access to actually copy data. Zero-length
// accesses never touch msize. Offsets wrap modulo 2^256; an access whose end
// does not fit saturates msize.
func (m *Memory) Expand(offset, length *uint256.Int) bool {
	if length.IsZero() {
		return true
	}
	end, overflow := new(uint256.Int).AddOverflow(offset, length)
	if !overflow {
		_, overflow = end.AddOverflow(end, thirtyOne)
	}
	if overflow {
		end.SetAllOne()
	}
	end.And(end, alignMask)
	if end.Gt(&m.size) {
		m.size = *end
	}
	return length.IsUint64() && length.Uint64() <= m.maxAccess
}

// Read copies length bytes starting at offset. It does not touch msize.
func (m *Memory) Read(offset *uint256.Int, length uint64) []byte {
	out := make([]byte, length)
	var addr, idx uint256.Int
	addr.Set(offset)
	for i := range out {
		idx.Rsh(&addr, 5)
		if w, ok := m.words[idx]; ok {
			out[i] = w[addr[0]&31]
		}
		addr.AddUint64(&addr, 1)
	}
	return out
}

// Write stores data at offset. It does not touch msize.
func (m *Memory) Write(offset *uint256.Int, data []byte) {
	var addr, idx uint256.Int
	addr.Set(offset)
	for _, b := range data {
		idx.Rsh(&addr, 5)
		w, ok := m.words[idx]
		if !ok {
			if b == 0 {
				addr.AddUint64(&addr, 1)
				continue
			}
			w = new([32]byte)
			m.words[idx] = w
		}
		w[addr[0]&31] = b
		addr.AddUint64(&addr, 1)
	}
}

// Size returns msize: the highest accessed byte rounded up to a word.
func (m *Memory) Size() uint256.Int { return m.size }

// Rows returns every non-zero word ordered by offset.
func (m *Memory) Rows() []MemoryRow {
	rows := make([]MemoryRow, 0, len(m.words))
	for idx, w := range m.words {
		idx := idx
		if *w == ([32]byte{}) {
			continue
		}
		var off uint256.Int
		off.Lsh(&idx, 5)
		rows = append(rows, MemoryRow{Offset: off, Data: *w})
	}
	slices.SortFunc(rows, func(a, b MemoryRow) int { return a.Offset.Cmp(&b.Offset) })
	return rows
}
