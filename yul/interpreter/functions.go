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
	"slices"

	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/ast"
	"github.com/erigontech/yulrun/yul/vm"
)

// functionScope holds the functions hoisted from one block. A function body
// runs in the scope chain of the block that defines it, not the caller's.
type functionScope struct {
	parent *functionScope
	fns    map[string]*ast.FunctionDefinition
}

func newFunctionScope(parent *functionScope, b *ast.Block) *functionScope {
	s := &functionScope{parent: parent}
	for _, fn := range b.Functions() {
		if s.fns == nil {
			s.fns = make(map[string]*ast.FunctionDefinition)
		}
		s.fns[fn.Name] = fn
	}
	return s
}

// lookup returns the visible function called name and the scope defining it.
func (s *functionScope) lookup(name string) (*ast.FunctionDefinition, *functionScope) {
	for sc := s; sc != nil; sc = sc.parent {
		if fn, ok := sc.fns[name]; ok {
			return fn, sc
		}
	}
	return nil, nil
}

// callFunction runs fn in a fresh function frame that sees only its
// parameters and return variables. Normal and Leave return the current
// values of the return variables; Terminate propagates.
func (in *Interpreter) callFunction(call *ast.FunctionCall, fn *ast.FunctionDefinition, scope *functionScope, args []uint256.Int) ([]uint256.Int, vm.Outcome, error) {
	if len(args) != len(fn.Parameters) {
		return nil, vm.NormalOutcome, internalf(call.Pos, "function %s called with %d arguments, takes %d", fn.Name, len(args), len(fn.Parameters))
	}

	in.st.PushFunctionScope()
	defer in.st.PopScope()
	saved := in.fns
	in.fns = scope
	defer func() { in.fns = saved }()

	for i, p := range fn.Parameters {
		if err := in.st.DeclareVariable(p.Name, &args[i]); err != nil {
			return in.faultValues(p.Pos, err)
		}
	}
	var zero uint256.Int
	for _, r := range fn.Returns {
		if err := in.st.DeclareVariable(r.Name, &zero); err != nil {
			return in.faultValues(r.Pos, err)
		}
	}
	depth := in.st.CallDepth()
	if in.hooks != nil && in.hooks.OnEnter != nil {
		in.hooks.OnEnter(fn, slices.Clone(args), depth)
	}

	out, err := in.execBlock(fn.Body)
	if err != nil {
		return nil, out, err
	}
	var results []uint256.Int
	switch out.Kind {
	case vm.Normal, vm.Leave:
		out = vm.NormalOutcome
		results = make([]uint256.Int, len(fn.Returns))
		for i, r := range fn.Returns {
			v, err := in.st.LookupVariable(r.Name)
			if err != nil {
				return nil, vm.NormalOutcome, internalErr(r.Pos, "return variable "+r.Name+" vanished", err)
			}
			results[i] = v
		}
	case vm.Break, vm.Continue:
		return nil, out, internalf(fn.Pos, "%s escaped the body of function %s", out.Kind, fn.Name)
	}
	if in.hooks != nil && in.hooks.OnExit != nil {
		in.hooks.OnExit(fn, slices.Clone(results), depth, out)
	}
	return results, out, nil
}
