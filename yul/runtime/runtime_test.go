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

package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/yulrun/yul/dialect"
	"github.com/erigontech/yulrun/yul/interpreter"
	"github.com/erigontech/yulrun/yul/parser"
	"github.com/erigontech/yulrun/yul/vm"
)

func storageAt(t *testing.T, res *interpreter.Result, key uint64) uint64 {
	t.Helper()
	v := res.State.ReadStorage(uint256.NewInt(key))
	require.True(t, v.IsUint64())
	return v.Uint64()
}

func TestExecute(t *testing.T) {
	res, err := Execute(context.Background(), "{ let x := 3 mstore(0, x) sstore(1, mload(0)) }", nil)
	require.NoError(t, err)
	require.True(t, res.Normal)
	require.Equal(t, uint64(3), storageAt(t, res, 1))
	size := res.State.MemorySize()
	require.Equal(t, uint64(32), size.Uint64())
}

func TestExecuteInvalidSource(t *testing.T) {
	res, err := Execute(context.Background(), "{ let x := y }", nil)
	require.Nil(t, res)
	require.Error(t, err)
	require.False(t, errors.Is(err, interpreter.ErrInternal))

	var diags parser.Diagnostics
	require.True(t, errors.As(err, &diags))
	require.Len(t, diags, 1)
	require.Equal(t, parser.DeclarationError, diags[0].Kind)
}

func TestExecuteCallInput(t *testing.T) {
	cfg := &Config{
		Calldata:  []byte{0xca, 0xfe},
		CallValue: *uint256.NewInt(77),
	}
	res, err := Execute(context.Background(), "{ sstore(0, calldatasize()) sstore(1, callvalue()) sstore(2, shr(240, calldataload(0))) }", cfg)
	require.NoError(t, err)
	require.Equal(t, uint64(2), storageAt(t, res, 0))
	require.Equal(t, uint64(77), storageAt(t, res, 1))
	require.Equal(t, uint64(0xcafe), storageAt(t, res, 2))
}

func TestExecuteEnvironment(t *testing.T) {
	env := vm.DefaultCallContext(nil, nil, false)
	env.ChainID = *uint256.NewInt(5)
	cfg := &Config{Environment: &env, CallValue: *uint256.NewInt(9)}

	res, err := Execute(context.Background(), "{ sstore(0, chainid()) sstore(1, callvalue()) sstore(2, number()) }", cfg)
	require.NoError(t, err)
	require.Equal(t, uint64(5), storageAt(t, res, 0))
	require.Equal(t, uint64(9), storageAt(t, res, 1))
	require.Equal(t, uint64(1024), storageAt(t, res, 2))
}

type recordingHost struct {
	calls []dialect.CallKind
}

func (h *recordingHost) Call(msg *dialect.Message) (bool, []byte) {
	h.calls = append(h.calls, msg.Kind)
	return true, []byte{0x2a}
}

func (h *recordingHost) Create(msg *dialect.Message) uint256.Int {
	h.calls = append(h.calls, msg.Kind)
	return *uint256.NewInt(0xabc)
}

func TestExecuteExternalCalls(t *testing.T) {
	const src = "{ sstore(0, staticcall(gas(), 2, 0, 0, 0, 1)) sstore(1, create(0, 0, 0)) sstore(2, shr(248, mload(0))) }"

	type scenario struct {
		enabled bool
		host    *recordingHost
		stored  [3]uint64
		calls   int
	}

	scenarios := map[string]scenario{
		"suppressed":         {host: &recordingHost{}, stored: [3]uint64{0, 0, 0}},
		"custom host":        {enabled: true, host: &recordingHost{}, stored: [3]uint64{1, 0xabc, 0x2a}, calls: 2},
		"deterministic host": {enabled: true, stored: [3]uint64{0, 0xcccccc, 0}},
	}

	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			cfg := &Config{ExternalCalls: s.enabled}
			if s.host != nil {
				cfg.Host = s.host
			}
			res, err := Execute(context.Background(), src, cfg)
			require.NoError(t, err)
			for i, v := range s.stored {
				require.Equal(t, v, storageAt(t, res, uint64(i)), "slot %d", i)
			}
			if s.host != nil {
				require.Len(t, s.host.calls, s.calls)
			}
		})
	}
}

func TestExecuteTraceAllCalls(t *testing.T) {
	count := func(res *interpreter.Result) int {
		n := 0
		for _, e := range res.State.Trace() {
			if e.Kind == vm.BuiltinCall && e.Name == "add" {
				n++
			}
		}
		return n
	}

	res, err := Execute(context.Background(), "{ let x := add(1, 2) }", nil)
	require.NoError(t, err)
	require.Zero(t, count(res))

	res, err = Execute(context.Background(), "{ let x := add(1, 2) }", &Config{TraceAllCalls: true})
	require.NoError(t, err)
	require.Equal(t, 1, count(res))
}

func TestExecuteLimits(t *testing.T) {
	cfg := &Config{Interpreter: interpreter.Config{MaxTraceSize: 20}}
	res, err := Execute(context.Background(), "{ for { } 1 { } { sstore(0, 1) } }", cfg)
	require.NoError(t, err)
	require.Equal(t, vm.Terminated(vm.TraceLimit, nil), res.Outcome)
	require.Equal(t, 20, res.State.TraceLen())

	cfg = &Config{Interpreter: interpreter.Config{MaxSteps: 100, DisableStatementTrace: true}}
	res, err = Execute(context.Background(), "{ for { } 1 { } { } }", cfg)
	require.NoError(t, err)
	require.Equal(t, vm.Terminated(vm.StepLimit, nil), res.Outcome)
}

type resumeAll struct{ pauses int }

func (r *resumeAll) Next(interpreter.Event) interpreter.Directive {
	r.pauses++
	return interpreter.Resume
}

func (r *resumeAll) Inspect(vm.StateView) {}

func TestExecuteInspected(t *testing.T) {
	src := &resumeAll{}
	res, err := Execute(context.Background(), "{ sstore(0, 1) sstore(1, 2) }", &Config{Inspector: src})
	require.NoError(t, err)
	require.True(t, res.Normal)
	require.Equal(t, 1, src.pauses)
	require.Equal(t, uint64(2), storageAt(t, res, 1))
}
