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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/yulrun/yul/vm"
)

func newState(externalCalls bool) *vm.State {
	return vm.New(vm.DefaultCallContext([]byte{0xde, 0xad}, uint256.NewInt(7), externalCalls), vm.Config{})
}

func words(vals ...string) []uint256.Int {
	out := make([]uint256.Int, len(vals))
	for i, v := range vals {
		out[i] = *uint256.MustFromHex(v)
	}
	return out
}

func exec(t *testing.T, d *EVM, st *vm.State, name string, args ...uint256.Int) ([]uint256.Int, vm.Outcome) {
	t.Helper()
	b, err := d.Resolve(name)
	require.NoError(t, err)
	res, out, err := d.Execute(b, args, st)
	require.NoError(t, err)
	return res, out
}

func TestArithmetic(t *testing.T) {
	type scenario struct {
		builtin  string
		args     []uint256.Int
		expected string
	}

	allOnes := "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	scenarios := map[string]scenario{
		"add wraps":           {builtin: "add", args: words(allOnes, "0x2"), expected: "0x1"},
		"sub wraps":           {builtin: "sub", args: words("0x0", "0x1"), expected: allOnes},
		"mul wraps":           {builtin: "mul", args: words(allOnes, "0x2"), expected: "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"},
		"div by zero":         {builtin: "div", args: words("0x5", "0x0"), expected: "0x0"},
		"mod by zero":         {builtin: "mod", args: words("0x5", "0x0"), expected: "0x0"},
		"sdiv by zero":        {builtin: "sdiv", args: words("0x5", "0x0"), expected: "0x0"},
		"smod by zero":        {builtin: "smod", args: words("0x5", "0x0"), expected: "0x0"},
		"sdiv negative":       {builtin: "sdiv", args: words(allOnes, "0x1"), expected: allOnes},
		"addmod zero modulus": {builtin: "addmod", args: words("0x1", "0x2", "0x0"), expected: "0x0"},
		"mulmod":              {builtin: "mulmod", args: words("0x3", "0x4", "0x5"), expected: "0x2"},
		"exp":                 {builtin: "exp", args: words("0x2", "0x10"), expected: "0x10000"},
		"slt signed":          {builtin: "slt", args: words(allOnes, "0x0"), expected: "0x1"},
		"lt unsigned":         {builtin: "lt", args: words(allOnes, "0x0"), expected: "0x0"},
		"iszero":              {builtin: "iszero", args: words("0x0"), expected: "0x1"},
		"byte msb":            {builtin: "byte", args: words("0x0", "0xab00000000000000000000000000000000000000000000000000000000000000"), expected: "0xab"},
		"byte out of range":   {builtin: "byte", args: words("0x20", allOnes), expected: "0x0"},
		"shl":                 {builtin: "shl", args: words("0x4", "0x1"), expected: "0x10"},
		"shl too far":         {builtin: "shl", args: words("0x100", "0x1"), expected: "0x0"},
		"shr":                 {builtin: "shr", args: words("0x4", "0x10"), expected: "0x1"},
		"sar negative":        {builtin: "sar", args: words("0x100", allOnes), expected: allOnes},
		"sar positive":        {builtin: "sar", args: words("0x1", "0x4"), expected: "0x2"},
		"signextend":          {builtin: "signextend", args: words("0x0", "0xff"), expected: allOnes},
		"not":                 {builtin: "not", args: words("0x0"), expected: allOnes},
	}

	d := NewEVM(EVMConfig{})
	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			st := newState(false)
			res, out := exec(t, d, st, s.builtin, s.args...)
			require.True(t, out.IsNormal())
			require.Len(t, res, 1)
			require.Equal(t, s.expected, res[0].Hex())
			// pure builtins leave no trace
			require.Empty(t, st.Trace())
		})
	}
}

func TestKeccak256(t *testing.T) {
	d := NewEVM(EVMConfig{})
	st := newState(false)

	res, _ := exec(t, d, st, "keccak256", words("0x0", "0x0")...)
	require.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", res[0].Hex())

	// too large to copy: marker plus offset, msize still grows
	res, _ = exec(t, d, st, "keccak256", words("0x1", "0x1000000")...)
	require.Equal(t, "0x1234cafe1234cafe1234caff", res[0].Hex())
	size := st.MemorySize()
	require.Equal(t, uint64(0x1000020), size.Uint64())
}

func TestMemoryBuiltins(t *testing.T) {
	d := NewEVM(EVMConfig{})
	st := newState(false)

	exec(t, d, st, "mstore", words("0x0", "0x3")...)
	res, _ := exec(t, d, st, "mload", words("0x0")...)
	require.Equal(t, "0x3", res[0].Hex())

	exec(t, d, st, "mstore8", words("0x40", "0x1ff")...)
	res, _ = exec(t, d, st, "mload", words("0x40")...)
	require.Equal(t, "0xff00000000000000000000000000000000000000000000000000000000000000", res[0].Hex())

	exec(t, d, st, "mcopy", words("0x80", "0x0", "0x20")...)
	res, _ = exec(t, d, st, "mload", words("0x80")...)
	require.Equal(t, "0x3", res[0].Hex())

	res, _ = exec(t, d, st, "msize")
	require.Equal(t, "0xa0", res[0].Hex())

	trace := st.Trace()
	require.Equal(t, vm.BuiltinCall, trace[0].Kind)
	require.Equal(t, "mstore", trace[0].Name)
	require.Equal(t, vm.MemoryWrite, trace[1].Kind)
	require.Equal(t, uint64(3), trace[1].Value.Uint64())
}

func TestCalldata(t *testing.T) {
	d := NewEVM(EVMConfig{})
	st := newState(false)

	res, _ := exec(t, d, st, "calldatasize")
	require.Equal(t, "0x2", res[0].Hex())
	res, _ = exec(t, d, st, "calldataload", words("0x0")...)
	require.Equal(t, "0xdead000000000000000000000000000000000000000000000000000000000000", res[0].Hex())
	res, _ = exec(t, d, st, "calldataload", words("0x2")...)
	require.Equal(t, "0x0", res[0].Hex())
	res, _ = exec(t, d, st, "callvalue")
	require.Equal(t, "0x7", res[0].Hex())

	exec(t, d, st, "calldatacopy", words("0x0", "0x1", "0x2")...)
	res, _ = exec(t, d, st, "mload", words("0x0")...)
	require.Equal(t, "0xad00000000000000000000000000000000000000000000000000000000000000", res[0].Hex())
}

func TestStorageBuiltins(t *testing.T) {
	d := NewEVM(EVMConfig{})
	st := newState(false)

	exec(t, d, st, "sstore", words("0x1", "0x2")...)
	exec(t, d, st, "tstore", words("0x1", "0x3")...)
	res, _ := exec(t, d, st, "sload", words("0x1")...)
	require.Equal(t, "0x2", res[0].Hex())
	res, _ = exec(t, d, st, "tload", words("0x1")...)
	require.Equal(t, "0x3", res[0].Hex())

	kinds := make([]vm.TraceKind, 0, 4)
	for _, e := range st.Trace() {
		kinds = append(kinds, e.Kind)
	}
	require.Equal(t, []vm.TraceKind{vm.BuiltinCall, vm.StorageWrite, vm.BuiltinCall, vm.TransientStorageWrite}, kinds)
}

func TestExternalCallSuppressed(t *testing.T) {
	d := NewEVM(EVMConfig{})
	for _, name := range []string{"call", "callcode", "delegatecall", "staticcall", "create", "create2"} {
		name := name
		t.Run(name, func(t *testing.T) {
			st := newState(false)
			b, err := d.Resolve(name)
			require.NoError(t, err)
			args := make([]uint256.Int, b.Params)
			for i := range args {
				args[i].SetUint64(uint64(i + 1))
			}

			res, out, err := d.Execute(b, args, st)
			require.NoError(t, err)
			require.True(t, out.IsNormal())
			require.Equal(t, []uint256.Int{{}}, res)

			trace := st.Trace()
			require.Len(t, trace, 1)
			require.Equal(t, vm.ExternalCallSuppressed, trace[0].Kind)
			require.Equal(t, name, trace[0].Name)
			require.Empty(t, st.Memory.Rows())
			size := st.MemorySize()
			require.True(t, size.IsZero())
		})
	}
}

func TestExternalCallEnabled(t *testing.T) {
	type scenario struct {
		gas, target string
		success     bool
	}

	scenarios := map[string]scenario{
		"odd target":     {gas: "0x1", target: "0x3", success: true},
		"even target":    {gas: "0x1", target: "0x4", success: false},
		"self":           {gas: "0x1", target: "0x11111111", success: true},
		"no gas":         {gas: "0x0", target: "0x3", success: false},
		"no gas to self": {gas: "0x0", target: "0x11111111", success: false},
	}

	d := NewEVM(EVMConfig{})
	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			st := newState(true)
			res, out := exec(t, d, st, "call", words(s.gas, s.target, "0x0", "0x0", "0x0", "0x0", "0x0")...)
			require.True(t, out.IsNormal())
			require.Equal(t, s.success, res[0].Eq(uint256.NewInt(1)))
			require.Equal(t, vm.BuiltinCall, st.Trace()[0].Kind)
		})
	}

	st := newState(true)
	res, _ := exec(t, d, st, "create", words("0x0", "0x10", "0x0")...)
	require.Equal(t, "0xccccdc", res[0].Hex())
}

func TestTermination(t *testing.T) {
	type scenario struct {
		builtin string
		args    []uint256.Int
		reason  vm.Reason
		data    []byte
	}

	scenarios := map[string]scenario{
		"stop":         {builtin: "stop", reason: vm.Stop},
		"invalid":      {builtin: "invalid", reason: vm.Invalid},
		"selfdestruct": {builtin: "selfdestruct", args: words("0x1"), reason: vm.SelfDestruct},
		"return":       {builtin: "return", args: words("0x1f", "0x1"), reason: vm.Return, data: []byte{0x2a}},
		"revert":       {builtin: "revert", args: words("0x0", "0x0"), reason: vm.Revert, data: []byte{}},
	}

	d := NewEVM(EVMConfig{})
	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			st := newState(false)
			exec(t, d, st, "mstore", words("0x0", "0x2a")...)
			_, out := exec(t, d, st, s.builtin, s.args...)
			require.True(t, out.IsTerminate())
			require.Equal(t, s.reason, out.Reason)
			require.Equal(t, s.data, out.Data)
		})
	}
}

func TestEnvironment(t *testing.T) {
	d := NewEVM(EVMConfig{})
	st := newState(false)

	res, _ := exec(t, d, st, "blockhash", words("0x3ff")...)
	require.Equal(t, "0xaaaaa9a9", res[0].Hex())
	res, _ = exec(t, d, st, "blockhash", words("0x400")...)
	require.Equal(t, "0x0", res[0].Hex())
	res, _ = exec(t, d, st, "blockhash", words("0x2ff")...)
	require.Equal(t, "0x0", res[0].Hex())

	res, _ = exec(t, d, st, "balance", words("0x11111111")...)
	require.Equal(t, "0x22223333", res[0].Hex())
	res, _ = exec(t, d, st, "balance", words("0x1")...)
	require.Equal(t, "0x22222222", res[0].Hex())
	res, _ = exec(t, d, st, "chainid")
	require.Equal(t, "0x1", res[0].Hex())
	res, _ = exec(t, d, st, "prevrandao")
	require.Equal(t, "0x10000000000000001", res[0].Hex())

	res, _ = exec(t, d, st, "blobhash", words("0x0")...)
	require.Equal(t, byte(1), res[0].Bytes32()[0])
	res, _ = exec(t, d, st, "blobhash", words("0x2")...)
	require.True(t, res[0].IsZero())
}

func TestResolve(t *testing.T) {
	d := NewEVM(EVMConfig{})
	_, err := d.Resolve("jump")
	require.ErrorIs(t, err, ErrUnknownBuiltin)

	p, r, ok := Signatures(d).Signature("call")
	require.True(t, ok)
	require.Equal(t, 7, p)
	require.Equal(t, 1, r)

	_, _, ok = d.Signature("nope")
	require.False(t, ok)
	require.Contains(t, d.Names(), "keccak256")
}

func TestTraceOverflowIsReported(t *testing.T) {
	d := NewEVM(EVMConfig{})
	st := vm.New(vm.DefaultCallContext(nil, nil, false), vm.Config{MaxTraceSize: 2})
	exec(t, d, st, "sload", words("0x0")...)

	b, err := d.Resolve("sstore")
	require.NoError(t, err)
	_, _, err = d.Execute(b, words("0x0", "0x1"), st)
	require.NoError(t, err)

	_, _, err = d.Execute(b, words("0x0", "0x1"), st)
	require.ErrorIs(t, err, vm.ErrTraceOverflow)
}
