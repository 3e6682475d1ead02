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

// Package inspector is the interactive driver of an inspected run: it shows
// where the run paused and reads commands from a terminal.
package inspector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ledgerwatch/log/v3"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/erigontech/yulrun/yul/ast"
	"github.com/erigontech/yulrun/yul/interpreter"
	"github.com/erigontech/yulrun/yul/tracer"
	"github.com/erigontech/yulrun/yul/vm"
)

const prompt = "(yul) "

const help = `Commands:
  n, next, s, step     evaluate up to the next pause
  c, continue          run to the end without pausing
  p, print [name]      show visible variables, or one of them
  m, memory            show non-zero memory
  st, storage          show storage and transient storage
  t, trace [count]     show the last trace entries (default 10)
  q, quit              stop the run
  h, help              show this text
`

type Config struct {
	// Source is the program text; the line of every pause is shown from it.
	Source string
	In     io.Reader // defaults to os.Stdin
	Out    io.Writer // defaults to os.Stdout
	Logger log.Logger
}

// Inspector reads directives from a terminal with line editing and history,
// or from a plain reader when input is not a terminal. At end of input the
// run continues without pausing.
type Inspector struct {
	lines  []string
	out    io.Writer
	logger log.Logger

	readLine func() (string, error)
	closer   func() error

	pending []string // command executed by the next Inspect
	last    string
}

var _ interpreter.DirectiveSource = (*Inspector)(nil)

func New(cfg Config) *Inspector {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Root()
	}
	i := &Inspector{
		lines:  strings.Split(cfg.Source, "\n"),
		out:    cfg.Out,
		logger: cfg.Logger,
		closer: func() error { return nil },
	}

	if f, ok := cfg.In.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		ln := liner.NewLiner()
		ln.SetCtrlCAborts(true)
		i.readLine = func() (string, error) {
			line, err := ln.Prompt(prompt)
			if err == nil && strings.TrimSpace(line) != "" {
				ln.AppendHistory(line)
			}
			return line, err
		}
		i.closer = ln.Close
		i.logger.Debug("[inspector] terminal input")
		return i
	}

	r := bufio.NewReader(cfg.In)
	i.readLine = func() (string, error) {
		fmt.Fprint(i.out, prompt)
		line, err := r.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	return i
}

// Close restores the terminal.
func (i *Inspector) Close() error { return i.closer() }

// Next shows the pause point and reads commands until one decides how the
// run goes on.
func (i *Inspector) Next(ev interpreter.Event) interpreter.Directive {
	i.where(ev)
	for {
		line, err := i.readLine()
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return interpreter.Abort
			}
			if !errors.Is(err, io.EOF) {
				i.logger.Warn("[inspector] reading command failed", "err", err)
			}
			fmt.Fprintln(i.out)
			return interpreter.Resume
		}
		line = strings.TrimSpace(line)
		if line == "" {
			line = i.last
		}
		if line == "" {
			line = "next"
		}
		i.last = line

		fields := strings.Fields(line)
		switch fields[0] {
		case "n", "next", "s", "step":
			return interpreter.Step
		case "c", "continue":
			return interpreter.Resume
		case "q", "quit":
			return interpreter.Abort
		case "p", "print", "m", "memory", "st", "storage", "t", "trace":
			i.pending = fields
			return interpreter.Inspect
		case "h", "help":
			fmt.Fprint(i.out, help)
		default:
			fmt.Fprintf(i.out, "Unknown command %q.\n%s", fields[0], help)
		}
	}
}

// Inspect runs the command Next deferred until the state was available.
func (i *Inspector) Inspect(view vm.StateView) {
	cmd := i.pending
	i.pending = nil
	if len(cmd) == 0 {
		return
	}
	switch cmd[0] {
	case "p", "print":
		i.printVariables(view, cmd[1:])
	case "m", "memory":
		size := view.MemorySize()
		fmt.Fprintf(i.out, "msize %s\n", size.Hex())
		for _, row := range view.MemoryRows() {
			row := row
			fmt.Fprintf(i.out, "  %s: %x\n", row.Offset.Hex(), row.Data[:])
		}
	case "st", "storage":
		fmt.Fprintln(i.out, "storage:")
		for _, k := range view.StorageKeys() {
			k := k
			v := view.StorageAt(&k)
			fmt.Fprintf(i.out, "  %s: %s\n", k.Hex(), v.Hex())
		}
		fmt.Fprintln(i.out, "transient storage:")
		for _, k := range view.TransientStorageKeys() {
			k := k
			v := view.TransientStorageAt(&k)
			fmt.Fprintf(i.out, "  %s: %s\n", k.Hex(), v.Hex())
		}
	case "t", "trace":
		count := 10
		if len(cmd) > 1 {
			n, err := strconv.Atoi(cmd[1])
			if err != nil || n <= 0 {
				fmt.Fprintf(i.out, "Invalid count %q.\n", cmd[1])
				return
			}
			count = n
		}
		total := view.TraceLen()
		for idx := max(total-count, 0); idx < total; idx++ {
			e := view.TraceEntry(idx)
			fmt.Fprintf(i.out, "%5d %-10s %s\n", idx, e.Kind, tracer.Describe(e))
		}
	}
}

func (i *Inspector) printVariables(view vm.StateView, names []string) {
	if len(names) == 0 {
		vars := view.Variables()
		if len(vars) == 0 {
			fmt.Fprintln(i.out, "no variables in scope")
		}
		for _, b := range vars {
			b := b
			fmt.Fprintf(i.out, "  %s = %s\n", b.Name, b.Value.Hex())
		}
		return
	}
	for _, name := range names {
		v, err := view.LookupVariable(name)
		if err != nil {
			fmt.Fprintf(i.out, "  %s is not in scope\n", name)
			continue
		}
		fmt.Fprintf(i.out, "  %s = %s\n", name, v.Hex())
	}
}

// where prints the pause point and its source line.
func (i *Inspector) where(ev interpreter.Event) {
	var what string
	switch {
	case ev.Statement != nil:
		what = ast.Describe(ev.Statement)
	case ev.Expression != nil:
		what = "expression " + ast.FormatExpression(ev.Expression)
	}
	fmt.Fprintf(i.out, "-> %s [depth %d] %s\n", ev.Pos, ev.Depth, what)
	if ev.Pos.Line >= 1 && ev.Pos.Line <= len(i.lines) {
		fmt.Fprintf(i.out, "%4d | %s\n", ev.Pos.Line, strings.TrimRight(i.lines[ev.Pos.Line-1], " \t"))
	}
}
