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

type (
	StatementHook  = func(s ast.Statement, view vm.StateView)
	ExpressionHook = func(e ast.Expression, view vm.StateView)
	EnterHook      = func(fn *ast.FunctionDefinition, args []uint256.Int, depth int)
	ExitHook       = func(fn *ast.FunctionDefinition, results []uint256.Int, depth int, outcome vm.Outcome)
	TerminateHook  = func(outcome vm.Outcome, view vm.StateView)
)

// Hooks observe a run. Every field is optional. Hooks receive read-only
// views and copies, so they cannot change what the run computes.
type Hooks struct {
	// OnStatement is called before a statement is evaluated.
	OnStatement StatementHook
	// OnExpression is called before an expression is evaluated.
	OnExpression ExpressionHook
	// OnEnter is called when a user function starts, after its arguments
	// are evaluated.
	OnEnter EnterHook
	// OnExit is called when a user function returns or is unwound.
	OnExit ExitHook
	// OnTerminate is called once when a Terminate outcome reaches the top.
	OnTerminate TerminateHook
}

// Merge returns hooks calling h's callbacks and then other's.
func (h *Hooks) Merge(other *Hooks) *Hooks {
	if h == nil {
		return other
	}
	if other == nil {
		return h
	}
	return &Hooks{
		OnStatement: func(s ast.Statement, view vm.StateView) {
			if h.OnStatement != nil {
				h.OnStatement(s, view)
			}
			if other.OnStatement != nil {
				other.OnStatement(s, view)
			}
		},
		OnExpression: func(e ast.Expression, view vm.StateView) {
			if h.OnExpression != nil {
				h.OnExpression(e, view)
			}
			if other.OnExpression != nil {
				other.OnExpression(e, view)
			}
		},
		OnEnter: func(fn *ast.FunctionDefinition, args []uint256.Int, depth int) {
			if h.OnEnter != nil {
				h.OnEnter(fn, args, depth)
			}
			if other.OnEnter != nil {
				other.OnEnter(fn, args, depth)
			}
		},
		OnExit: func(fn *ast.FunctionDefinition, results []uint256.Int, depth int, outcome vm.Outcome) {
			if h.OnExit != nil {
				h.OnExit(fn, results, depth, outcome)
			}
			if other.OnExit != nil {
				other.OnExit(fn, results, depth, outcome)
			}
		},
		OnTerminate: func(outcome vm.Outcome, view vm.StateView) {
			if h.OnTerminate != nil {
				h.OnTerminate(outcome, view)
			}
			if other.OnTerminate != nil {
				other.OnTerminate(outcome, view)
			}
		},
	}
}
