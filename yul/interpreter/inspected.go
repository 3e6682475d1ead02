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

package interpreter

import (
	"context"

	"github.com/erigontech/yulrun/yul/ast"
	"github.com/erigontech/yulrun/yul/dialect"
	"github.com/erigontech/yulrun/yul/parser"
	"github.com/erigontech/yulrun/yul/vm"
)

// Directive tells an inspected run how to proceed at a pause point.
type Directive uint8

const (
	// Step evaluates up to the next pause point.
	Step Directive = iota
	// Resume evaluates to the end without pausing again.
	Resume
	// Inspect shows the state and asks again.
	Inspect
	// Abort ends the run with a Cancelled termination before the paused
	// statement or expression is evaluated.
	Abort
)

// Event is a pause point. Exactly one of Statement and Expression is set.
type Event struct {
	Statement  ast.Statement
	Expression ast.Expression
	Pos        ast.Pos
	Depth      int
}

// DirectiveSource drives an inspected run, usually from a terminal.
type DirectiveSource interface {
	Next(ev Event) Directive
	Inspect(view vm.StateView)
}

type inspection struct {
	source  DirectiveSource
	running bool
	aborted bool
}

func (i *inspection) pause(ev Event, view vm.StateView) {
	for !i.running {
		switch i.source.Next(ev) {
		case Step:
			return
		case Resume:
			i.running = true
		case Inspect:
			i.source.Inspect(view)
		case Abort:
			i.running, i.aborted = true, true
		}
	}
}

// RunInspected interprets tree like Run, pausing before every statement, and
// before every expression when fineGrained is set, to ask source how to go
// on. Pausing never changes the outcome, trace or final state.
func RunInspected(ctx context.Context, tree *ast.Block, analysis *parser.AnalysisInfo, d dialect.Dialect, call vm.CallContext, cfg Config, source DirectiveSource, fineGrained bool) (*Result, error) {
	insp := &inspection{source: source}
	hooks := &Hooks{
		OnStatement: func(s ast.Statement, view vm.StateView) {
			insp.pause(Event{Statement: s, Pos: s.Position(), Depth: view.CallDepth()}, view)
		},
	}
	if fineGrained {
		hooks.OnExpression = func(e ast.Expression, view vm.StateView) {
			insp.pause(Event{Expression: e, Pos: e.Position(), Depth: view.CallDepth()}, view)
		}
	}
	cfg.Hooks = cfg.Hooks.Merge(hooks)
	in := New(ctx, analysis, d, call, cfg)
	in.aborted = func() bool { return insp.aborted }
	return in.Run(tree)
}
