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

package inspector

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/yulrun/yul/dialect"
	"github.com/erigontech/yulrun/yul/interpreter"
	"github.com/erigontech/yulrun/yul/parser"
	"github.com/erigontech/yulrun/yul/vm"
)

const program = "{\n  let x := 7\n  sstore(x, 1)\n}"

func inspect(t *testing.T, input string) (*interpreter.Result, string) {
	t.Helper()
	d := dialect.NewEVM(dialect.EVMConfig{})
	tree, info, errs := parser.Parse(program, d)
	require.Empty(t, errs)

	var out bytes.Buffer
	insp := New(Config{Source: program, In: strings.NewReader(input), Out: &out})
	defer insp.Close()
	res, err := interpreter.RunInspected(context.Background(), tree, info, d, vm.DefaultCallContext(nil, nil, false), interpreter.Config{}, insp, false)
	require.NoError(t, err)
	return res, out.String()
}

func TestCommands(t *testing.T) {
	res, out := inspect(t, "p\nnext\np x y\nm\nst\nt 1\nbogus\nc\n")
	require.True(t, res.Normal)

	require.Contains(t, out, "-> 2:3 [depth 0] let x := 7\n   2 |   let x := 7\n")
	require.Contains(t, out, "no variables in scope\n")
	require.Contains(t, out, "-> 3:3 [depth 0] sstore(x, 1)\n   3 |   sstore(x, 1)\n")
	require.Contains(t, out, "  x = 0x7\n  y is not in scope\n")
	require.Contains(t, out, "msize 0x0\n")
	require.Contains(t, out, "storage:\ntransient storage:\n")
	require.Contains(t, out, "    1 bind       x = 0x7\n")
	require.Contains(t, out, `Unknown command "bogus".`)
	require.NotContains(t, out, "    0 statement")
	v := res.State.ReadStorage(uint256.NewInt(7))
	require.Equal(t, uint64(1), v.Uint64())
}

func TestEndOfInputResumes(t *testing.T) {
	res, out := inspect(t, "")
	require.True(t, res.Normal)
	require.Equal(t, 1, strings.Count(out, "-> "))
}

func TestEmptyLineRepeats(t *testing.T) {
	res, out := inspect(t, "n\n\n")
	require.True(t, res.Normal)
	require.Equal(t, 2, strings.Count(out, "-> "))
}

func TestQuit(t *testing.T) {
	res, out := inspect(t, "n\nquit\n")
	require.Equal(t, vm.Terminated(vm.Cancelled, nil), res.Outcome)
	require.Empty(t, res.State.Storage.Keys())
	require.Contains(t, out, "sstore(x, 1)")
}

func TestHelp(t *testing.T) {
	_, out := inspect(t, "help\nc\n")
	require.Contains(t, out, "Commands:\n")
	require.Contains(t, out, "q, quit")
}
