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

package hex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeString(t *testing.T) {
	type scenario struct {
		input    string
		expected []byte
		fails    bool
	}

	scenarios := map[string]scenario{
		"empty":        {input: "", expected: []byte{}},
		"plain":        {input: "cafe", expected: []byte{0xca, 0xfe}},
		"prefixed":     {input: "0x0102", expected: []byte{0x01, 0x02}},
		"upper prefix": {input: "0XFF", expected: []byte{0xff}},
		"odd length":   {input: "0x123", expected: []byte{0x01, 0x23}},
		"bad digit":    {input: "0xzz", fails: true},
	}

	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			b, err := DecodeString(s.input)
			if s.fails {
				require.True(t, errors.Is(err, ErrSyntax))
				return
			}
			require.NoError(t, err)
			require.Equal(t, s.expected, b)
		})
	}
}

func TestEncodeToString(t *testing.T) {
	require.Equal(t, "0xabcd", EncodeToString([]byte{0xab, 0xcd}))
	require.Equal(t, "0x", EncodeToString(nil))
}
