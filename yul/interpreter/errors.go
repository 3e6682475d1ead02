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
	"errors"
	"fmt"

	"github.com/erigontech/yulrun/yul/ast"
)

// ErrInternal marks a broken contract between the front-end, the dialect and
// the interpreter. It is never the result of a valid program.
var ErrInternal = errors.New("internal consistency violation")

// InternalError is returned instead of an outcome when the interpreter finds
// the tree, the analysis or the state in a condition analysis rules out.
type InternalError struct {
	Pos ast.Pos
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %s: %v", ErrInternal, e.Pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s at %s: %s", ErrInternal, e.Pos, e.Msg)
}

func (e *InternalError) Is(target error) bool { return target == ErrInternal }

func (e *InternalError) Unwrap() error { return e.Err }

func internalf(pos ast.Pos, format string, args ...any) *InternalError {
	return &InternalError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func internalErr(pos ast.Pos, msg string, err error) *InternalError {
	return &InternalError{Pos: pos, Msg: msg, Err: err}
}
