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
	"maps"
	"slices"

	"github.com/holiman/uint256"
)

// Storage maps words to words. Unset keys read as zero.
type Storage map[uint256.Int]uint256.Int

// Copy duplicates the storage.
func (s Storage) Copy() Storage {
	return maps.Clone(s)
}

func (s Storage) Get(key *uint256.Int) uint256.Int {
	return s[*key]
}

func (s Storage) Set(key, value *uint256.Int) {
	s[*key] = *value
}

// Keys returns the keys holding a non-zero value in ascending order.
func (s Storage) Keys() []uint256.Int {
	keys := make([]uint256.Int, 0, len(s))
	for k, v := range s {
		v := v
		if !v.IsZero() {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b uint256.Int) int { return a.Cmp(&b) })
	return keys
}
