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
	"github.com/holiman/uint256"
)

// CallContext is the immutable environment of a run. Besides the caller
// supplied calldata, callvalue and external-call policy it holds fixed
// environment values so that runs are reproducible.
type CallContext struct {
	Calldata             []byte
	CallValue            uint256.Int
	ExternalCallsEnabled bool

	Address     uint256.Int
	Caller      uint256.Int
	Origin      uint256.Int
	Coinbase    uint256.Int
	Balance     uint256.Int // of any account but Address
	SelfBalance uint256.Int
	GasPrice    uint256.Int
	GasLimit    uint256.Int
	Gas         uint256.Int
	Timestamp   uint256.Int
	BlockNumber uint256.Int
	Difficulty  uint256.Int
	PrevRandao  uint256.Int
	ChainID     uint256.Int
	BaseFee     uint256.Int
	BlobBaseFee uint256.Int
}

// DefaultCallContext returns the deterministic environment used unless the
// caller overrides it.
func DefaultCallContext(calldata []byte, callvalue *uint256.Int, externalCalls bool) CallContext {
	c := CallContext{
		Calldata:             calldata,
		ExternalCallsEnabled: externalCalls,
		Address:              *uint256.NewInt(0x11111111),
		Balance:              *uint256.NewInt(0x22222222),
		SelfBalance:          *uint256.NewInt(0x22223333),
		Origin:               *uint256.NewInt(0x33333333),
		Caller:               *uint256.NewInt(0x44444444),
		GasPrice:             *uint256.NewInt(0x66666666),
		Coinbase:             *uint256.NewInt(0x77777777),
		Timestamp:            *uint256.NewInt(0x88888888),
		BlockNumber:          *uint256.NewInt(1024),
		Difficulty:           *uint256.NewInt(0x9999999),
		GasLimit:             *uint256.NewInt(4000000),
		Gas:                  *uint256.NewInt(0x99),
		ChainID:              *uint256.NewInt(1),
		BaseFee:              *uint256.NewInt(0x0a),
		BlobBaseFee:          *uint256.NewInt(0x0b),
	}
	c.PrevRandao.Lsh(uint256.NewInt(1), 64)
	c.PrevRandao.AddUint64(&c.PrevRandao, 1)
	if callvalue != nil {
		c.CallValue = *callvalue
	}
	return c
}
