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

// Package interpreter evaluates analysed Yul trees against a vm.State.
//
// Control flow is carried by vm.Outcome values: every statement returns one,
// loops consume Break and Continue, function calls consume Leave, and
// Terminate unwinds to the top of the run. A Go error is returned only for
// an *InternalError.
package interpreter

import (
	"context"
	"errors"

	"github.com/c2h5oh/datasize"
	"github.com/holiman/uint256"
	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/yulrun/yul/ast"
	"github.com/erigontech/yulrun/yul/dialect"
	"github.com/erigontech/yulrun/yul/parser"
	"github.com/erigontech/yulrun/yul/vm"
)

const DefaultMaxExprNesting = 1024

// Config are the configuration options for the Interpreter
type Config struct {
	MaxTraceSize          int               // zero means vm.DefaultMaxTraceSize
	MaxSteps              uint64            // zero means unlimited
	MaxExprNesting        int               // depth of nested evaluation, function calls included
	MaxMemoryAccess       datasize.ByteSize // zero means vm.DefaultMaxMemoryAccess
	DisableMemoryTrace    bool              // do not record memory writes
	DisableStatementTrace bool              // do not record entered statements and loop iterations
	Hooks                 *Hooks
	Logger                log.Logger
}

func (cfg *Config) setDefaults() {
	if cfg.MaxExprNesting <= 0 {
		cfg.MaxExprNesting = DefaultMaxExprNesting
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Root()
	}
}

// Result is what a run leaves behind. State is always usable, also after
// termination.
type Result struct {
	State   *vm.State
	Outcome vm.Outcome
	// Normal is set when the program ran to its end without terminating.
	Normal bool
}

// Interpreter evaluates one tree against one state. It is not safe for
// concurrent use; independent runs need independent interpreters.
type Interpreter struct {
	ctx      context.Context
	cfg      Config
	analysis *parser.AnalysisInfo
	dialect  dialect.Dialect
	st       *vm.State
	view     vm.StateView
	hooks    *Hooks
	logger   log.Logger

	fns      *functionScope
	builtins map[string]*dialect.Builtin
	steps    uint64
	nesting  int
	aborted  func() bool
}

// New returns an interpreter with a fresh state built from call.
func New(ctx context.Context, analysis *parser.AnalysisInfo, d dialect.Dialect, call vm.CallContext, cfg Config) *Interpreter {
	cfg.setDefaults()
	st := vm.New(call, vm.Config{
		MaxTraceSize:       cfg.MaxTraceSize,
		MaxMemoryAccess:    cfg.MaxMemoryAccess,
		DisableMemoryTrace: cfg.DisableMemoryTrace,
	})
	return &Interpreter{
		ctx:      ctx,
		cfg:      cfg,
		analysis: analysis,
		dialect:  d,
		st:       st,
		view:     st.View(),
		hooks:    cfg.Hooks,
		logger:   cfg.Logger,
		builtins: make(map[string]*dialect.Builtin),
	}
}

// State returns the state the interpreter works on.
func (in *Interpreter) State() *vm.State { return in.st }

// Run interprets tree from the start and reports how it ended.
func Run(ctx context.Context, tree *ast.Block, analysis *parser.AnalysisInfo, d dialect.Dialect, call vm.CallContext, cfg Config) (*Result, error) {
	return New(ctx, analysis, d, call, cfg).Run(tree)
}

func (in *Interpreter) Run(tree *ast.Block) (*Result, error) {
	res := &Result{State: in.st}
	if tree == nil || in.analysis == nil {
		return res, internalf(ast.Pos{}, "run started without a tree and its analysis")
	}
	in.logger.Debug("[yul] run started", "dialect", in.dialect.Name(), "maxTrace", in.st.MaxTraceSize(), "externalCalls", in.st.Context.ExternalCallsEnabled)

	out, err := in.execBlock(tree)
	res.Outcome = out
	if err != nil {
		in.logger.Debug("[yul] run aborted", "err", err)
		return res, err
	}
	switch out.Kind {
	case vm.Normal:
		res.Normal = true
	case vm.Terminate:
		if in.hooks != nil && in.hooks.OnTerminate != nil {
			in.hooks.OnTerminate(out, in.view)
		}
	default:
		return res, internalf(tree.Pos, "%s escaped the outermost block", out.Kind)
	}
	in.logger.Debug("[yul] run finished", "outcome", out, "steps", in.steps, "trace", in.st.TraceLen())
	return res, nil
}

// fault turns an error reported by the state or the dialect into the
// outcome of the current statement. A full trace terminates the run; any
// other error is a broken contract.
func (in *Interpreter) fault(pos ast.Pos, err error) (vm.Outcome, error) {
	if errors.Is(err, vm.ErrTraceOverflow) {
		return vm.Terminated(vm.TraceLimit, nil), nil
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return vm.NormalOutcome, ie
	}
	return vm.NormalOutcome, internalErr(pos, "state or dialect failure", err)
}

func (in *Interpreter) faultValues(pos ast.Pos, err error) ([]uint256.Int, vm.Outcome, error) {
	out, err := in.fault(pos, err)
	return nil, out, err
}

// trace appends e and converts a full trace into termination.
func (in *Interpreter) trace(e vm.TraceEntry) (vm.Outcome, error) {
	if err := in.st.AppendTrace(e); err != nil {
		return in.fault(e.Pos, err)
	}
	return vm.NormalOutcome, nil
}

// tick counts one evaluation step and checks the step limit and, every 5000
// steps, the context.
func (in *Interpreter) tick() vm.Outcome {
	in.steps++
	if in.cfg.MaxSteps > 0 && in.steps > in.cfg.MaxSteps {
		return vm.Terminated(vm.StepLimit, nil)
	}
	if in.steps%5000 == 0 && in.ctx.Err() != nil {
		return vm.Terminated(vm.Cancelled, nil)
	}
	return vm.NormalOutcome
}

// abort reports whether the driver of an inspected run asked to stop.
func (in *Interpreter) abort() bool {
	return in.aborted != nil && in.aborted()
}

// resolve looks a builtin up in the dialect, caching the descriptor.
func (in *Interpreter) resolve(name string) (*dialect.Builtin, error) {
	if b, ok := in.builtins[name]; ok {
		return b, nil
	}
	b, err := in.dialect.Resolve(name)
	if err != nil {
		return nil, err
	}
	in.builtins[name] = b
	return b, nil
}
