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

package parser

import (
	"fmt"

	"github.com/erigontech/yulrun/yul/ast"
)

// Builtins gives the analyser the signature of every builtin of a dialect.
type Builtins interface {
	Signature(name string) (params, returns int, ok bool)
}

// AnalysisInfo is the resolved scoping data of a successfully analysed tree,
// keyed by node identity.
type AnalysisInfo struct {
	// Declarations maps every identifier reference to the name it refers to.
	Declarations map[*ast.Identifier]*ast.TypedName
	// Functions maps every call of a user function to its definition.
	// Builtin calls are absent here and present in BuiltinCalls.
	Functions    map[*ast.FunctionCall]*ast.FunctionDefinition
	BuiltinCalls map[*ast.FunctionCall]string
	// Returns is the number of values each expression yields.
	Returns map[ast.Expression]int
}

// Resolved reports whether id was resolved to a variable by the analyser.
func (a *AnalysisInfo) Resolved(id *ast.Identifier) bool {
	_, ok := a.Declarations[id]
	return ok
}

type scope struct {
	parent    *scope
	vars      map[string]*ast.TypedName
	functions map[string]*ast.FunctionDefinition
	// function scopes hide the variables of every enclosing scope
	function bool
}

func newScope(parent *scope, function bool) *scope {
	return &scope{
		parent:    parent,
		vars:      make(map[string]*ast.TypedName),
		functions: make(map[string]*ast.FunctionDefinition),
		function:  function,
	}
}

func (s *scope) lookupVariable(name string) *ast.TypedName {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v
		}
		if sc.function {
			return nil
		}
	}
	return nil
}

func (s *scope) lookupFunction(name string) *ast.FunctionDefinition {
	for sc := s; sc != nil; sc = sc.parent {
		if f, ok := sc.functions[name]; ok {
			return f
		}
	}
	return nil
}

type analyzer struct {
	builtins Builtins
	info     *AnalysisInfo
	errs     Diagnostics
	scope    *scope

	inFunction bool
	inLoopBody bool
}

// Analyze resolves names, checks arities and validates the placement of
// break, continue and leave.
func Analyze(tree *ast.Block, builtins Builtins) (*AnalysisInfo, Diagnostics) {
	a := &analyzer{
		builtins: builtins,
		info: &AnalysisInfo{
			Declarations: make(map[*ast.Identifier]*ast.TypedName),
			Functions:    make(map[*ast.FunctionCall]*ast.FunctionDefinition),
			BuiltinCalls: make(map[*ast.FunctionCall]string),
			Returns:      make(map[ast.Expression]int),
		},
	}
	a.block(tree)
	if len(a.errs) > 0 {
		return nil, a.errs
	}
	return a.info, nil
}

func (a *analyzer) errorf(p ast.Pos, k Kind, format string, args ...any) {
	a.errs.add(p, k, fmt.Sprintf(format, args...))
}

func (a *analyzer) isBuiltin(name string) bool {
	if a.builtins == nil {
		return false
	}
	_, _, ok := a.builtins.Signature(name)
	return ok
}

func (a *analyzer) declare(n *ast.TypedName) {
	switch {
	case a.isBuiltin(n.Name):
		a.errorf(n.Pos, DeclarationError, "Cannot use builtin function name %q as identifier name.", n.Name)
	case a.scope.lookupVariable(n.Name) != nil || a.scope.lookupFunction(n.Name) != nil:
		a.errorf(n.Pos, DeclarationError, "Variable name %s already taken in this scope.", n.Name)
	}
	if n.Type != "" && n.Type != "u256" && n.Type != "bool" {
		a.errorf(n.Pos, TypeError, "%q is not a valid type (user defined types are not yet supported).", n.Type)
	}
	a.scope.vars[n.Name] = n
}

// block analyses b in a fresh scope with its functions hoisted.
func (a *analyzer) block(b *ast.Block) {
	a.scope = newScope(a.scope, false)
	defer func() { a.scope = a.scope.parent }()
	for _, fn := range b.Functions() {
		switch {
		case a.isBuiltin(fn.Name):
			a.errorf(fn.Pos, DeclarationError, "Cannot use builtin function name %q as identifier name.", fn.Name)
		case a.scope.lookupFunction(fn.Name) != nil:
			a.errorf(fn.Pos, DeclarationError, "Function name %s already taken in this scope.", fn.Name)
		}
		a.scope.functions[fn.Name] = fn
	}
	for _, s := range b.Statements {
		a.statement(s)
	}
}

func (a *analyzer) statement(s ast.Statement) {
	switch s := s.(type) {
	case *ast.Block:
		a.block(s)
	case *ast.VariableDeclaration:
		if s.Value != nil {
			if n := a.expression(s.Value); n != len(s.Variables) && n >= 0 {
				a.errorf(s.Pos, DeclarationError, "Variable count mismatch for declaration of %q: %d variables and %d values.", ast.Describe(s), len(s.Variables), n)
			}
		}
		for _, v := range s.Variables {
			a.declare(v)
		}
	case *ast.Assignment:
		n := a.expression(s.Value)
		if n != len(s.Variables) && n >= 0 {
			a.errorf(s.Pos, DeclarationError, "Variable count for assignment to %q does not match number of values (%d vs. %d)", ast.Describe(s), len(s.Variables), n)
		}
		seen := make(map[string]bool)
		for _, id := range s.Variables {
			if seen[id.Name] {
				a.errorf(id.Pos, DeclarationError, "Variable %s occurs multiple times on the left-hand side of the assignment.", id.Name)
			}
			seen[id.Name] = true
			v := a.scope.lookupVariable(id.Name)
			if v == nil {
				a.errorf(id.Pos, DeclarationError, "Variable not found or variable not lvalue.")
				continue
			}
			a.info.Declarations[id] = v
		}
	case *ast.ExpressionStatement:
		if n := a.expression(s.Expression); n > 0 {
			a.errorf(s.Pos, TypeError, "Top-level expressions are not supposed to return values (this expression returns %d value%s). Use ``pop()`` or assign them.", n, plural(n))
		}
	case *ast.If:
		a.expectSingleValue(s.Condition)
		a.block(s.Body)
	case *ast.Switch:
		a.expectSingleValue(s.Expression)
		seen := make(map[string]bool)
		for _, c := range s.Cases {
			if c.Value != nil {
				key := c.Value.Value.Hex()
				if seen[key] {
					a.errorf(c.Pos, DeclarationError, "Duplicate case %q defined.", c.Value.Text)
				}
				seen[key] = true
			}
			a.block(c.Body)
		}
	case *ast.ForLoop:
		a.forLoop(s)
	case *ast.Break:
		if !a.inLoopBody {
			a.errorf(s.Pos, SyntaxError, "Keyword \"break\" needs to be inside a for-loop body.")
		}
	case *ast.Continue:
		if !a.inLoopBody {
			a.errorf(s.Pos, SyntaxError, "Keyword \"continue\" needs to be inside a for-loop body.")
		}
	case *ast.Leave:
		if !a.inFunction {
			a.errorf(s.Pos, SyntaxError, "Keyword \"leave\" can only be used inside a function.")
		}
	case *ast.FunctionDefinition:
		a.function(s)
	}
}

func (a *analyzer) forLoop(f *ast.ForLoop) {
	outerBody := a.inLoopBody
	defer func() { a.inLoopBody = outerBody }()

	// the init block's scope encloses condition, post and body
	a.scope = newScope(a.scope, false)
	defer func() { a.scope = a.scope.parent }()

	a.inLoopBody = false
	for _, fn := range f.Pre.Functions() {
		a.errorf(fn.Pos, SyntaxError, "Functions cannot be defined inside a for-loop init block.")
	}
	for _, s := range f.Pre.Statements {
		a.statement(s)
	}

	a.expectSingleValue(f.Condition)
	a.inLoopBody = true
	a.block(f.Body)
	a.inLoopBody = false
	a.block(f.Post)
}

func (a *analyzer) function(f *ast.FunctionDefinition) {
	outerFn, outerBody := a.inFunction, a.inLoopBody
	a.inFunction, a.inLoopBody = true, false
	defer func() { a.inFunction, a.inLoopBody = outerFn, outerBody }()

	a.scope = newScope(a.scope, true)
	defer func() { a.scope = a.scope.parent }()
	for _, n := range f.Parameters {
		a.declare(n)
	}
	for _, n := range f.Returns {
		a.declare(n)
	}
	a.block(f.Body)
}

func (a *analyzer) expectSingleValue(e ast.Expression) {
	if n := a.expression(e); n != 1 && n >= 0 {
		a.errorf(e.Position(), TypeError, "Expected expression to evaluate to one value, but got %d value%s instead.", n, plural(n))
	}
}

// expression returns the number of values e yields, or -1 if it could not be
// resolved (an error was already reported).
func (a *analyzer) expression(e ast.Expression) int {
	n := a.resolveExpression(e)
	if n >= 0 {
		a.info.Returns[e] = n
	}
	return n
}

func (a *analyzer) resolveExpression(e ast.Expression) int {
	switch e := e.(type) {
	case *ast.Literal:
		if e.Type != "" && e.Type != "u256" && e.Type != "bool" {
			a.errorf(e.Pos, TypeError, "%q is not a valid type (user defined types are not yet supported).", e.Type)
		}
		return 1
	case *ast.Identifier:
		if v := a.scope.lookupVariable(e.Name); v != nil {
			a.info.Declarations[e] = v
			return 1
		}
		if a.scope.lookupFunction(e.Name) != nil || a.isBuiltin(e.Name) {
			a.errorf(e.Pos, TypeError, "Function %s used without being called.", e.Name)
		} else {
			a.errorf(e.Pos, DeclarationError, "Identifier %q not found.", e.Name)
		}
		return -1
	case *ast.FunctionCall:
		var params, returns int
		if fn := a.scope.lookupFunction(e.Name.Name); fn != nil {
			a.info.Functions[e] = fn
			params, returns = len(fn.Parameters), len(fn.Returns)
		} else if p, r, ok := a.signature(e.Name.Name); ok {
			a.info.BuiltinCalls[e] = e.Name.Name
			params, returns = p, r
		} else {
			if a.scope.lookupVariable(e.Name.Name) != nil {
				a.errorf(e.Pos, TypeError, "Attempt to call variable instead of function.")
			} else {
				a.errorf(e.Pos, DeclarationError, "Function %q not found.", e.Name.Name)
			}
			for _, arg := range e.Arguments {
				a.expression(arg)
			}
			return -1
		}
		if len(e.Arguments) != params {
			a.errorf(e.Pos, TypeError, "Function %q expects %d argument%s but got %d.", e.Name.Name, params, plural(params), len(e.Arguments))
		}
		for _, arg := range e.Arguments {
			a.expectSingleValue(arg)
		}
		return returns
	}
	return -1
}

func (a *analyzer) signature(name string) (int, int, bool) {
	if a.builtins == nil {
		return 0, 0, false
	}
	return a.builtins.Signature(name)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
