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
	"github.com/urfave/cli/v2"

	"github.com/erigontech/yulrun/yul/tracer"
)

var (
	EnableExternalCallsFlag = cli.BoolFlag{
		Name:  "enable-external-calls",
		Usage: "Let call, create and friends reach the deterministic host instead of failing",
	}
	InteractiveFlag = cli.BoolFlag{
		Name:  "interactive",
		Usage: "Pause before every statement and read commands from the terminal",
	}
	FineGrainedFlag = cli.BoolFlag{
		Name:  "fine-grained",
		Usage: "With --interactive, also pause before every expression",
	}
	CalldataFlag = cli.StringFlag{
		Name:  "calldata",
		Usage: "Calldata to be passed to the contract function, hex encoded",
	}
	CallvalueFlag = cli.StringFlag{
		Name:  "callvalue",
		Usage: "Callvalue to be passed to the transaction, decimal or 0x-prefixed hex",
		Value: "0",
	}
	MaxTraceFlag = cli.IntFlag{
		Name:  "max-trace",
		Usage: "Trace entries after which the run terminates (0: YULRUN_MAX_TRACE or 10000)",
	}
	MaxStepsFlag = cli.Uint64Flag{
		Name:  "max-steps",
		Usage: "Evaluation steps after which the run terminates (0: YULRUN_MAX_STEPS or unlimited)",
	}
	MaxMemoryAccessFlag = cli.StringFlag{
		Name:  "max-memory-access",
		Usage: "Largest memory range copied by one access, e.g. 64KB (empty: YULRUN_MAX_MEMORY_ACCESS or 64KB)",
	}
	TraceFormatFlag = cli.StringFlag{
		Name:  "trace-format",
		Usage: "Format of the trace and state dump: text, markdown or json",
		Value: string(tracer.Text),
	}
	TraceAllCallsFlag = cli.BoolFlag{
		Name:  "trace-all-calls",
		Usage: "Also record calls of builtins that change nothing",
	}
	DisableMemoryTraceFlag = cli.BoolFlag{
		Name:  "disable-memory-trace",
		Usage: "Do not record memory writes",
	}
	DisableStatementTraceFlag = cli.BoolFlag{
		Name:  "disable-statement-trace",
		Usage: "Do not record entered statements and loop iterations",
	}
	TimeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Usage: "Cancel the run after this long (0: YULRUN_TIMEOUT or no limit)",
	}

	UpdateFlag = cli.BoolFlag{
		Name:  "update",
		Usage: "Rewrite the expectations of failing files with the actual dump",
	}
	ParallelFlag = cli.IntFlag{
		Name:  "parallel",
		Usage: "Files run at the same time (0: one per CPU)",
	}
)

var runFlags = []cli.Flag{
	&EnableExternalCallsFlag,
	&InteractiveFlag,
	&FineGrainedFlag,
	&CalldataFlag,
	&CallvalueFlag,
	&MaxTraceFlag,
	&MaxStepsFlag,
	&MaxMemoryAccessFlag,
	&TraceFormatFlag,
	&TraceAllCallsFlag,
	&DisableMemoryTraceFlag,
	&DisableStatementTraceFlag,
	&TimeoutFlag,
}
