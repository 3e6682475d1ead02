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

// eval evaluates e to its values. A non-Normal outcome means evaluation was
// cut short and the values are meaningless.
func (in *Interpreter) eval(e ast.Expression) ([]uint256.Int, vm.Outcome, error) {
	in.nesting++
	defer func() { in.nesting-- }()
	if in.nesting > in.cfg.MaxExprNesting {
		return nil, vm.Terminated(vm.NestingLimit, nil), nil
	}
	if in.hooks != nil && in.hooks.OnExpression != nil {
		in.hooks.OnExpression(e, in.view)
	}
	if in.abort() {
		return nil, vm.Terminated(vm.Cancelled, nil), nil
	}

	switch e := e.(type) {
	case *ast.Literal:
		return []uint256.Int{e.Value}, vm.NormalOutcome, nil
	case *ast.Identifier:
		if !in.analysis.Resolved(e) {
			return nil, vm.NormalOutcome, internalf(e.Pos, "identifier %s was not resolved", e.Name)
		}
		v, err := in.st.LookupVariable(e.Name)
		if err != nil {
			return nil, vm.NormalOutcome, internalErr(e.Pos, "lookup of "+e.Name, err)
		}
		return []uint256.Int{v}, vm.NormalOutcome, nil
	case *ast.FunctionCall:
		return in.evalCall(e)
	}
	return nil, vm.NormalOutcome, internalf(e.Position(), "unknown expression %T", e)
}

// evalSingle evaluates an expression that yields exactly one value.
func (in *Interpreter) evalSingle(e ast.Expression) (uint256.Int, vm.Outcome, error) {
	values, out, err := in.eval(e)
	if err != nil || !out.IsNormal() {
		return uint256.Int{}, out, err
	}
	if len(values) != 1 {
		return uint256.Int{}, out, internalf(e.Position(), "expected one value from %s, got %d", ast.FormatExpression(e), len(values))
	}
	return values[0], out, nil
}

// evalArgs evaluates call arguments left to right.
func (in *Interpreter) evalArgs(call *ast.FunctionCall) ([]uint256.Int, vm.Outcome, error) {
	args := make([]uint256.Int, len(call.Arguments))
	for i, arg := range call.Arguments {
		v, out, err := in.evalSingle(arg)
		if err != nil || !out.IsNormal() {
			return nil, out, err
		}
		args[i] = v
	}
	return args, vm.NormalOutcome, nil
}

func (in *Interpreter) evalCall(call *ast.FunctionCall) ([]uint256.Int, vm.Outcome, error) {
	name := call.Name.Name
	if fn, scope := in.fns.lookup(name); fn != nil {
		if def, ok := in.analysis.Functions[call]; !ok || def != fn {
			return nil, vm.NormalOutcome, internalf(call.Pos, "call of %s does not match the analysed definition", name)
		}
		args, out, err := in.evalArgs(call)
		if err != nil || !out.IsNormal() {
			return nil, out, err
		}
		return in.callFunction(call, fn, scope, args)
	}

	if _, ok := in.analysis.BuiltinCalls[call]; !ok {
		return nil, vm.NormalOutcome, internalf(call.Pos, "function %s is neither visible nor a builtin", name)
	}
	b, err := in.resolve(name)
	if err != nil {
		return nil, vm.NormalOutcome, internalErr(call.Pos, "resolving "+name, err)
	}
	args, out, err := in.evalArgs(call)
	if err != nil || !out.IsNormal() {
		return nil, out, err
	}
	results, out, err := in.dialect.Execute(b, args, in.st)
	if err != nil {
		return in.faultValues(call.Pos, err)
	}
	if !out.IsNormal() {
		return nil, out, nil
	}
	if len(results) != b.Returns {
		return nil, out, internalf(call.Pos, "builtin %s returned %d values, declared %d", name, len(results), b.Returns)
	}
	return results, out, nil
}
