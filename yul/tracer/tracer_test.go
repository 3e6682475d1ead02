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

package tracer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/yulrun/yul/vm"
)

func sampleState(t *testing.T) *vm.State {
	t.Helper()
	st := vm.New(vm.DefaultCallContext(nil, nil, false), vm.Config{})
	require.NoError(t, st.AppendTrace(vm.TraceEntry{Kind: vm.VariableBound, Name: "x", Value: *uint256.NewInt(3)}))
	require.NoError(t, st.AppendTrace(vm.TraceEntry{
		Kind: vm.BuiltinCall,
		Name: "mstore",
		Args: []uint256.Int{*uint256.NewInt(0), *uint256.NewInt(3)},
	}))
	word := uint256.NewInt(3).Bytes32()
	require.NoError(t, st.WriteMemory(uint256.NewInt(0), word[:]))
	require.NoError(t, st.WriteStorage(uint256.NewInt(1), uint256.NewInt(10)))
	require.NoError(t, st.WriteTransientStorage(uint256.NewInt(2), uint256.NewInt(5)))
	st.PushFunctionScope()
	require.NoError(t, st.AppendTrace(vm.TraceEntry{
		Kind:    vm.ExternalCallSuppressed,
		Name:    "staticcall",
		Args:    make([]uint256.Int, 6),
		Results: make([]uint256.Int, 1),
	}))
	return st
}

const word3 = "0000000000000000000000000000000000000000000000000000000000000003"

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleState(t).View(), vm.Terminated(vm.Stop, nil)))

	expected := strings.Join([]string{
		"Trace:",
		"  bind       x = 0x3",
		"  call       mstore(0x0, 0x3)",
		"  mwrite     [0x0] = 0x" + word3,
		"  swrite     [0x1] = 0xa",
		"  twrite     [0x2] = 0x5",
		"    suppressed staticcall(0x0, 0x0, 0x0, 0x0, 0x0, 0x0) -> 0x0",
		"Outcome: terminate(stop)",
		"Memory dump:",
		"  0x0: " + word3,
		"Storage dump:",
		"  0x1: 0xa",
		"Transient storage dump:",
		"  0x2: 0x5",
		"",
	}, "\n")
	require.Equal(t, expected, buf.String())
}

func TestWriteTextIndentsByDepth(t *testing.T) {
	st := vm.New(vm.DefaultCallContext(nil, nil, false), vm.Config{})
	st.PushScope()
	st.PushFunctionScope()
	st.PushFunctionScope()
	require.NoError(t, st.AppendTrace(vm.TraceEntry{Kind: vm.ControlSignal, Name: "leave"}))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, st.View(), vm.NormalOutcome))
	require.Contains(t, buf.String(), "\n      control    leave\n")
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleState(t).View(), vm.NormalOutcome))
	out := buf.String()

	assert.Contains(t, out, "|   #   | Depth |    Kind    | Detail |")
	assert.Contains(t, out, "|     1 |     0 |       call | `mstore(0x0, 0x3)` |")
	assert.Contains(t, out, "|     5 |     1 | suppressed | `staticcall(0x0, 0x0, 0x0, 0x0, 0x0, 0x0) -> 0x0` |")
	assert.Contains(t, out, "Outcome: `normal`")
	assert.Contains(t, out, "| `0x0` | `"+word3+"` |")
	assert.Contains(t, out, "### Storage\n\n| Key | Value |\n|-----|-------|\n| `0x1` | `0xa` |\n")
	assert.Contains(t, out, "### Transient storage\n\n| Key | Value |\n|-----|-------|\n| `0x2` | `0x5` |\n")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	out := vm.Terminated(vm.Return, []byte{0xca, 0xfe})
	require.NoError(t, WriteJSON(&buf, sampleState(t).View(), out))

	var doc struct {
		Outcome struct {
			Kind   string `json:"kind"`
			Reason string `json:"reason"`
			Data   string `json:"data"`
		} `json:"outcome"`
		Trace []struct {
			Kind    string   `json:"kind"`
			Depth   int      `json:"depth"`
			Name    string   `json:"name"`
			Args    []string `json:"args"`
			Results []string `json:"results"`
			Key     string   `json:"key"`
			Value   string   `json:"value"`
			Data    string   `json:"data"`
		} `json:"trace"`
		Memory []struct {
			Offset string `json:"offset"`
			Data   string `json:"data"`
		} `json:"memory"`
		Storage          map[string]string `json:"storage"`
		TransientStorage map[string]string `json:"transientStorage"`
	}
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &doc))

	require.Equal(t, "terminate", doc.Outcome.Kind)
	require.Equal(t, "return", doc.Outcome.Reason)
	require.Equal(t, "0xcafe", doc.Outcome.Data)

	require.Len(t, doc.Trace, 6)
	require.Equal(t, "bind", doc.Trace[0].Kind)
	require.Equal(t, "0x3", doc.Trace[0].Value)
	require.Equal(t, []string{"0x0", "0x3"}, doc.Trace[1].Args)
	require.Equal(t, "mwrite", doc.Trace[2].Kind)
	require.Equal(t, "0x"+word3, doc.Trace[2].Data)
	require.Equal(t, "0x1", doc.Trace[3].Key)
	require.Equal(t, "0xa", doc.Trace[3].Value)
	require.Equal(t, 1, doc.Trace[5].Depth)
	require.Equal(t, []string{"0x0"}, doc.Trace[5].Results)

	require.Len(t, doc.Memory, 1)
	require.Equal(t, word3, doc.Memory[0].Data)
	require.Equal(t, map[string]string{"0x1": "0xa"}, doc.Storage)
	require.Equal(t, map[string]string{"0x2": "0x5"}, doc.TransientStorage)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	st := vm.New(vm.DefaultCallContext(nil, nil, false), vm.Config{})
	require.NoError(t, WriteJSON(&buf, st.View(), vm.NormalOutcome))
	require.JSONEq(t, `{"outcome":{"kind":"normal"},"trace":[],"memory":[],"storage":{},"transientStorage":{}}`, buf.String())
}

func TestParseFormat(t *testing.T) {
	type scenario struct {
		input    string
		expected Format
		fails    bool
	}

	scenarios := map[string]scenario{
		"text":       {input: "text", expected: Text},
		"upper case": {input: "JSON", expected: JSON},
		"md alias":   {input: "md", expected: Markdown},
		"unknown":    {input: "xml", fails: true},
	}

	for name, s := range scenarios {
		s := s
		t.Run(name, func(t *testing.T) {
			f, err := ParseFormat(s.input)
			if s.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, s.expected, f)
		})
	}
}
