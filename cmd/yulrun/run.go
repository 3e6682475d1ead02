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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/yulrun/common/dbg"
	"github.com/erigontech/yulrun/common/hex"
	"github.com/erigontech/yulrun/turbo/logging"
	"github.com/erigontech/yulrun/yul/inspector"
	"github.com/erigontech/yulrun/yul/interpreter"
	"github.com/erigontech/yulrun/yul/parser"
	"github.com/erigontech/yulrun/yul/runtime"
	"github.com/erigontech/yulrun/yul/tracer"
)

var errInvalidSource = errors.New("invalid source")

const stdinName = "<stdin>"

func runAction(ctx *cli.Context) error {
	logger := logging.SetupLoggerCtx("yulrun", ctx).New("run", uuid.New().String())

	input, name, err := readInput(ctx.App.Reader, ctx.Args().Slice())
	if err != nil {
		return err
	}
	cfg, err := runConfig(ctx, logger)
	if err != nil {
		return err
	}
	format, err := tracer.ParseFormat(ctx.String(TraceFormatFlag.Name))
	if err != nil {
		return err
	}

	if ctx.Bool(InteractiveFlag.Name) {
		insp := inspector.New(inspector.Config{Source: input, In: ctx.App.Reader, Out: ctx.App.Writer, Logger: logger})
		defer insp.Close()
		cfg.Inspector = insp
		cfg.FineGrained = ctx.Bool(FineGrainedFlag.Name)
	}

	runCtx := ctx.Context
	timeout := ctx.Duration(TimeoutFlag.Name)
	if timeout == 0 {
		timeout = dbg.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	logger.Debug("[yulrun] running", "source", name, "bytes", len(input), "calldata", len(cfg.Calldata), "externalCalls", cfg.ExternalCalls)
	res, err := runtime.Execute(runCtx, input, cfg)
	var diags parser.Diagnostics
	if err != nil && !errors.Is(err, interpreter.ErrInternal) && errors.As(err, &diags) {
		diags.Print(ctx.App.Writer, name, input)
		return errInvalidSource
	}
	if err != nil {
		return err
	}
	if !res.Normal {
		logger.Info("[yulrun] run terminated", "outcome", res.Outcome)
	}
	return tracer.Write(ctx.App.Writer, format, res.State.View(), res.Outcome)
}

// readInput concatenates the files at paths, or reads stdin when there are
// none.
func readInput(stdin io.Reader, paths []string) (input, name string, err error) {
	if len(paths) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), stdinName, nil
	}

	var sb strings.Builder
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", "", fmt.Errorf("File not found: %s", path)
			}
			return "", "", err
		}
		if !info.Mode().IsRegular() {
			return "", "", fmt.Errorf("Not a regular file: %s", path)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		sb.Write(b)
	}
	name = paths[0]
	if len(paths) > 1 {
		name = strings.Join(paths, "+")
	}
	return sb.String(), name, nil
}

func runConfig(ctx *cli.Context, logger log.Logger) (*runtime.Config, error) {
	cfg := &runtime.Config{
		ExternalCalls: ctx.Bool(EnableExternalCallsFlag.Name),
		TraceAllCalls: ctx.Bool(TraceAllCallsFlag.Name),
		Logger:        logger,
	}
	cfg.Interpreter.MaxTraceSize = ctx.Int(MaxTraceFlag.Name)
	cfg.Interpreter.MaxSteps = ctx.Uint64(MaxStepsFlag.Name)
	cfg.Interpreter.DisableMemoryTrace = ctx.Bool(DisableMemoryTraceFlag.Name)
	cfg.Interpreter.DisableStatementTrace = ctx.Bool(DisableStatementTraceFlag.Name)

	if s := ctx.String(CalldataFlag.Name); s != "" {
		calldata, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("Invalid calldata: %s", s)
		}
		cfg.Calldata = calldata
	}
	if s := ctx.String(CallvalueFlag.Name); s != "" {
		var v *uint256.Int
		var err error
		if strings.HasPrefix(s, "0x") {
			v, err = uint256.FromHex(s)
		} else {
			v, err = uint256.FromDecimal(s)
		}
		if err != nil {
			return nil, fmt.Errorf("Invalid callvalue: %s", s)
		}
		cfg.CallValue = *v
	}
	if s := ctx.String(MaxMemoryAccessFlag.Name); s != "" {
		size, err := datasize.ParseString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: %w", MaxMemoryAccessFlag.Name, s, err)
		}
		cfg.Interpreter.MaxMemoryAccess = size
	}
	return cfg, nil
}
