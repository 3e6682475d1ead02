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
	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/ast"
	"github.com/erigontech/yulrun/yul/vm"
)

// enter does the bookkeeping shared by every executed statement.
func (in *Interpreter) enter(s ast.Statement) (vm.Outcome, error) {
	if out := in.tick(); !out.IsNormal() {
		return out, nil
	}
	if in.hooks != nil && in.hooks.OnStatement != nil {
		in.hooks.OnStatement(s, in.view)
	}
	if in.abort() {
		return vm.Terminated(vm.Cancelled, nil), nil
	}
	if in.cfg.DisableStatementTrace {
		return vm.NormalOutcome, nil
	}
	return in.trace(vm.TraceEntry{Kind: vm.StatementEntered, Name: ast.Describe(s), Pos: s.Position()})
}

func (in *Interpreter) execBlock(b *ast.Block) (vm.Outcome, error) {
	in.st.PushScope()
	defer in.st.PopScope()
	fns := newFunctionScope(in.fns, b)
	in.fns = fns
	defer func() { in.fns = fns.parent }()
	return in.execStatements(b.Statements)
}

func (in *Interpreter) execStatements(stmts []ast.Statement) (vm.Outcome, error) {
	for _, s := range stmts {
		out, err := in.exec(s)
		if err != nil || !out.IsNormal() {
			return out, err
		}
	}
	return vm.NormalOutcome, nil
}

func (in *Interpreter) exec(s ast.Statement) (vm.Outcome, error) {
	// definitions were hoisted when their block was entered
	if _, ok := s.(*ast.FunctionDefinition); ok {
		return vm.NormalOutcome, nil
	}
	if out, err := in.enter(s); err != nil || !out.IsNormal() {
		return out, err
	}

	switch s := s.(type) {
	case *ast.Block:
		return in.execBlock(s)
	case *ast.VariableDeclaration:
		return in.execDeclaration(s)
	case *ast.Assignment:
		return in.execAssignment(s)
	case *ast.ExpressionStatement:
		values, out, err := in.eval(s.Expression)
		if err != nil || !out.IsNormal() {
			return out, err
		}
		if len(values) != 0 {
			return out, internalf(s.Pos, "expression statement left %d values", len(values))
		}
		return out, nil
	case *ast.If:
		cond, out, err := in.evalSingle(s.Condition)
		if err != nil || !out.IsNormal() {
			return out, err
		}
		if cond.IsZero() {
			return vm.NormalOutcome, nil
		}
		return in.execBlock(s.Body)
	case *ast.Switch:
		return in.execSwitch(s)
	case *ast.ForLoop:
		return in.execFor(s)
	case *ast.Break:
		return in.signal(s.Pos, vm.BreakOutcome)
	case *ast.Continue:
		return in.signal(s.Pos, vm.ContinueOutcome)
	case *ast.Leave:
		return in.signal(s.Pos, vm.LeaveOutcome)
	}
	return vm.NormalOutcome, internalf(s.Position(), "unknown statement %T", s)
}

func (in *Interpreter) signal(pos ast.Pos, out vm.Outcome) (vm.Outcome, error) {
	if tout, err := in.trace(vm.TraceEntry{Kind: vm.ControlSignal, Name: out.Kind.String(), Pos: pos}); err != nil || !tout.IsNormal() {
		return tout, err
	}
	return out, nil
}

func (in *Interpreter) bind(name string, pos ast.Pos, v *uint256.Int) (vm.Outcome, error) {
	return in.trace(vm.TraceEntry{Kind: vm.VariableBound, Name: name, Value: *v, Pos: pos})
}

func (in *Interpreter) execDeclaration(s *ast.VariableDeclaration) (vm.Outcome, error) {
	values := make([]uint256.Int, len(s.Variables))
	if s.Value != nil {
		vals, out, err := in.eval(s.Value)
		if err != nil || !out.IsNormal() {
			return out, err
		}
		if len(vals) != len(s.Variables) {
			return out, internalf(s.Pos, "declaration of %d variables got %d values", len(s.Variables), len(vals))
		}
		values = vals
	}
	for i, v := range s.Variables {
		if err := in.st.DeclareVariable(v.Name, &values[i]); err != nil {
			return in.fault(v.Pos, err)
		}
		if out, err := in.bind(v.Name, v.Pos, &values[i]); err != nil || !out.IsNormal() {
			return out, err
		}
	}
	return vm.NormalOutcome, nil
}

func (in *Interpreter) execAssignment(s *ast.Assignment) (vm.Outcome, error) {
	values, out, err := in.eval(s.Value)
	if err != nil || !out.IsNormal() {
		return out, err
	}
	if len(values) != len(s.Variables) {
		return out, internalf(s.Pos, "assignment to %d variables got %d values", len(s.Variables), len(values))
	}
	for i, v := range s.Variables {
		if !in.analysis.Resolved(v) {
			return vm.NormalOutcome, internalf(v.Pos, "assignment to unresolved variable %s", v.Name)
		}
		if err := in.st.AssignVariable(v.Name, &values[i]); err != nil {
			return vm.NormalOutcome, internalErr(v.Pos, "assignment to "+v.Name, err)
		}
		if out, err := in.bind(v.Name, v.Pos, &values[i]); err != nil || !out.IsNormal() {
			return out, err
		}
	}
	return vm.NormalOutcome, nil
}

// execSwitch runs the first case whose value equals the selector, or the
// default case when none does.
func (in *Interpreter) execSwitch(s *ast.Switch) (vm.Outcome, error) {
	sel, out, err := in.evalSingle(s.Expression)
	if err != nil || !out.IsNormal() {
		return out, err
	}
	for _, c := range s.Cases {
		if c.Value != nil && c.Value.Value.Eq(&sel) {
			return in.execBlock(c.Body)
		}
	}
	if def := s.Default(); def != nil {
		return in.execBlock(def.Body)
	}
	return vm.NormalOutcome, nil
}

// execFor evaluates the loop. Init, condition, post and body share one scope
// opened by the init block; body and post each open a nested one per
// iteration.
func (in *Interpreter) execFor(s *ast.ForLoop) (vm.Outcome, error) {
	in.st.PushScope()
	defer in.st.PopScope()
	fns := newFunctionScope(in.fns, s.Pre)
	in.fns = fns
	defer func() { in.fns = fns.parent }()

	if out, err := in.execStatements(s.Pre.Statements); err != nil || !out.IsNormal() {
		return out, err
	}
	for {
		cond, out, err := in.evalSingle(s.Condition)
		if err != nil || !out.IsNormal() {
			return out, err
		}
		if cond.IsZero() {
			return vm.NormalOutcome, nil
		}

		out, err = in.execBlock(s.Body)
		if err != nil {
			return out, err
		}
		switch out.Kind {
		case vm.Break:
			return vm.NormalOutcome, nil
		case vm.Leave, vm.Terminate:
			return out, nil
		}

		if out, err = in.execBlock(s.Post); err != nil || !out.IsNormal() {
			return out, err
		}
		// an iteration is a step of its own, so empty loops stay bounded
		if out, err = in.enter(s); err != nil || !out.IsNormal() {
			return out, err
		}
		if in.cfg.DisableStatementTrace {
			if err := in.st.ChargeTrace(); err != nil {
				return in.fault(s.Position(), err)
			}
		}
	}
}
