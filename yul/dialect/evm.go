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
	"fmt"
	"slices"

	"github.com/holiman/uint256"
	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/yulrun/yul/vm"
)

// EVMConfig are the options of the EVM dialect.
type EVMConfig struct {
	Host          Host       // performs enabled external calls; DeterministicHost if nil
	TraceAllCalls bool       // also record calls of builtins that change nothing
	Logger        log.Logger // defaults to log.Root()
}

// EVM is the dialect of plain EVM code: every opcode that makes sense
// without jumps and stack manipulation, as a builtin function.
type EVM struct {
	cfg      EVMConfig
	builtins map[string]*Builtin
}

func NewEVM(cfg EVMConfig) *EVM {
	if cfg.Host == nil {
		cfg.Host = DeterministicHost{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Root()
	}
	return &EVM{cfg: cfg, builtins: evmBuiltins}
}

func (e *EVM) Name() string { return "evm" }

func (e *EVM) Resolve(name string) (*Builtin, error) {
	if b, ok := e.builtins[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBuiltin, name)
}

// Signature lets the EVM dialect serve the front-end directly.
func (e *EVM) Signature(name string) (int, int, bool) {
	b, ok := e.builtins[name]
	if !ok {
		return 0, 0, false
	}
	return b.Params, b.Returns, true
}

// Names lists every builtin, sorted.
func (e *EVM) Names() []string {
	names := make([]string, 0, len(e.builtins))
	for n := range e.builtins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// callContext is what an instruction executes against.
type callContext struct {
	evm   *EVM
	st    *vm.State
	args  []uint256.Int
	entry int // index of the BuiltinCall trace entry, -1 if untraced
}

// annotate attaches data to the trace entry of the current call.
func (c *callContext) annotate(data []byte) {
	c.st.AmendTrace(c.entry, func(e *vm.TraceEntry) { e.Data = data })
}

type executionFunc func(c *callContext) ([]uint256.Int, vm.Outcome, error)

// Execute runs b. External builtins are suppressed when the call context
// disables external calls: nothing happens except one ExternalCallSuppressed
// trace entry, and the failure sentinel zero is returned. Calls of builtins
// that write, terminate or interact are recorded before they run so that the
// writes they cause follow them in the trace.
func (e *EVM) Execute(b *Builtin, args []uint256.Int, st *vm.State) ([]uint256.Int, vm.Outcome, error) {
	if len(args) != b.Params {
		return nil, vm.NormalOutcome, fmt.Errorf("builtin %s expects %d arguments, got %d", b.Name, b.Params, len(args))
	}
	if b.External && !st.Context.ExternalCallsEnabled {
		results := make([]uint256.Int, b.Returns)
		err := st.AppendTrace(vm.TraceEntry{
			Kind:    vm.ExternalCallSuppressed,
			Name:    b.Name,
			Args:    slices.Clone(args),
			Results: slices.Clone(results),
		})
		if err != nil {
			return nil, vm.NormalOutcome, err
		}
		e.cfg.Logger.Trace("[yul] external call suppressed", "builtin", b.Name)
		return results, vm.NormalOutcome, nil
	}

	c := &callContext{evm: e, st: st, args: args, entry: -1}
	if b.Effects == WritesState || b.Terminates || b.External || e.cfg.TraceAllCalls {
		c.entry = st.TraceLen()
		if err := st.AppendTrace(vm.TraceEntry{Kind: vm.BuiltinCall, Name: b.Name, Args: slices.Clone(args)}); err != nil {
			return nil, vm.NormalOutcome, err
		}
	}
	results, outcome, err := b.execute(c)
	if err != nil {
		return nil, vm.NormalOutcome, err
	}
	if len(results) > 0 {
		st.AmendTrace(c.entry, func(t *vm.TraceEntry) { t.Results = slices.Clone(results) })
	}
	return results, outcome, nil
}
