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
	"encoding/hex"
	"errors"
	"strings"
)

var ErrSyntax = errors.New("invalid hex string")

// DecodeString decodes s with or without 0x prefix. An odd number of digits
// is read as if it had a leading zero.
func DecodeString(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	r, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrSyntax, err)
	}
	return r, nil
}

// EncodeToString encodes b with 0x prefix.
func EncodeToString(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
