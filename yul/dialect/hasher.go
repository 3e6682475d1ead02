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

package dialect

import (
	"hash"
	"sync"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// keccakState wraps sha3.state. Read returns the digest without copying the
// internal state.
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var hashersPool = sync.Pool{
	New: func() any {
		return sha3.NewLegacyKeccak256().(keccakState)
	},
}

// keccak256 returns the legacy Keccak-256 digest of data as a word.
func keccak256(data []byte) uint256.Int {
	h := hashersPool.Get().(keccakState)
	defer hashersPool.Put(h)
	h.Reset()
	h.Write(data)
	var buf [32]byte
	h.Read(buf[:])
	var w uint256.Int
	w.SetBytes32(buf[:])
	return w
}

// keccakWord hashes the 32-byte big-endian form of w.
func keccakWord(w *uint256.Int) uint256.Int {
	b := w.Bytes32()
	return keccak256(b[:])
}
