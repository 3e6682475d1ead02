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
	"github.com/holiman/uint256"
)

// CallKind is the flavour of an external interaction.
type CallKind uint8

const (
	Call CallKind = iota
	CallCode
	DelegateCall
	StaticCall
	Create
	Create2
)

func (k CallKind) String() string {
	switch k {
	case Call:
		return "call"
	case CallCode:
		return "callcode"
	case DelegateCall:
		return "delegatecall"
	case StaticCall:
		return "staticcall"
	case Create:
		return "create"
	case Create2:
		return "create2"
	}
	return "unknown"
}

// Message is an external interaction requested by a program.
type Message struct {
	Kind   CallKind
	Self   uint256.Int // address of the running program
	Gas    uint256.Int
	Target uint256.Int // callee; unset for creates
	Value  uint256.Int
	Input  []byte      // nil when the memory range was too large to copy
	Offset uint256.Int // memory offset of Input
	Salt   uint256.Int // create2 only
}

// Host performs external interactions when they are enabled.
type Host interface {
	Call(msg *Message) (success bool, output []byte)
	Create(msg *Message) uint256.Int
}

var addressMask = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 160), uint256.NewInt(1))

// DeterministicHost simulates other contracts without running any code: a
// call succeeds iff it carries gas and targets the caller itself or an odd
// address, and created contracts get an address derived from the code offset.
type DeterministicHost struct{}

func (DeterministicHost) Call(msg *Message) (bool, []byte) {
	if msg.Gas.IsZero() {
		return false, nil
	}
	return msg.Target.Eq(&msg.Self) || msg.Target[0]&1 == 1, nil
}

func (DeterministicHost) Create(msg *Message) uint256.Int {
	var addr uint256.Int
	addr.AddUint64(&msg.Offset, 0xcccccc)
	addr.And(&addr, addressMask)
	return addr
}
