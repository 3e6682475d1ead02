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

// Package runtime runs Yul source end to end: parse, analyse and interpret
// against a deterministic environment.
package runtime

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/yulrun/common/dbg"
	"github.com/erigontech/yulrun/yul/dialect"
	"github.com/erigontech/yulrun/yul/interpreter"
	"github.com/erigontech/yulrun/yul/parser"
	"github.com/erigontech/yulrun/yul/vm"
)

// Config is a basic type specifying certain configuration flags for running
// a Yul program.
type Config struct {
	Calldata      []byte
	CallValue     uint256.Int
	ExternalCalls bool
	// Environment replaces the deterministic call context. Calldata,
	// CallValue and ExternalCalls still apply on top of it.
	Environment *vm.CallContext

	Dialect       dialect.Dialect // defaults to the EVM dialect
	Host          dialect.Host    // host of the default dialect
	TraceAllCalls bool            // record pure builtin calls too

	Interpreter interpreter.Config
	// Inspector, if set, drives the run; FineGrained also pauses before
	// every expression.
	Inspector   interpreter.DirectiveSource
	FineGrained bool

	Logger log.Logger
}

// sets defaults on the config
func setDefaults(cfg *Config) {
	if cfg.Logger == nil {
		cfg.Logger = log.Root()
	}
	if cfg.Dialect == nil {
		cfg.Dialect = dialect.NewEVM(dialect.EVMConfig{Host: cfg.Host, TraceAllCalls: cfg.TraceAllCalls, Logger: cfg.Logger})
	}
	if cfg.Interpreter.Logger == nil {
		cfg.Interpreter.Logger = cfg.Logger
	}
	if cfg.Interpreter.MaxTraceSize == 0 {
		cfg.Interpreter.MaxTraceSize = dbg.MaxTraceSize
	}
	if cfg.Interpreter.MaxSteps == 0 {
		cfg.Interpreter.MaxSteps = dbg.MaxSteps
	}
	if cfg.Interpreter.MaxMemoryAccess == 0 {
		cfg.Interpreter.MaxMemoryAccess = dbg.MaxMemoryAccess
	}
}

// callContext builds the initial call context of a run.
func (cfg *Config) callContext() vm.CallContext {
	if cfg.Environment == nil {
		return vm.DefaultCallContext(cfg.Calldata, &cfg.CallValue, cfg.ExternalCalls)
	}
	c := *cfg.Environment
	c.Calldata = cfg.Calldata
	c.CallValue = cfg.CallValue
	c.ExternalCallsEnabled = cfg.ExternalCalls
	return c
}

// Execute parses source and, if it is valid, interprets it.
//
// Invalid source is reported as parser.Diagnostics and nothing runs; the
// result is nil then. Termination is not an error: it is the Outcome of
// the returned result, whose State is complete either way. An error wrapping
// interpreter.ErrInternal means the front-end and the interpreter disagree.
func Execute(ctx context.Context, source string, cfg *Config) (*interpreter.Result, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	tree, info, errs := parser.Parse(source, dialect.Signatures(cfg.Dialect))
	if tree == nil || info == nil {
		if len(errs) == 0 {
			return nil, fmt.Errorf("%w: parsing failed without errors", interpreter.ErrInternal)
		}
		cfg.Logger.Debug("[yul] invalid source", "errors", len(errs))
		return nil, errs
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: parsed successfully but had errors: %w", interpreter.ErrInternal, errs)
	}

	call := cfg.callContext()
	if cfg.Inspector != nil {
		return interpreter.RunInspected(ctx, tree, info, cfg.Dialect, call, cfg.Interpreter, cfg.Inspector, cfg.FineGrained)
	}
	return interpreter.Run(ctx, tree, info, cfg.Dialect, call, cfg.Interpreter)
}
