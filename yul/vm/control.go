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

package vm

import (
	"fmt"

	"github.com/erigontech/yulrun/common/hex"
)

// ControlKind is the tag of an Outcome.
type ControlKind uint8

const (
	Normal ControlKind = iota
	Break
	Continue
	Leave
	Terminate
)

func (k ControlKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Leave:
		return "leave"
	case Terminate:
		return "terminate"
	}
	return fmt.Sprintf("ControlKind(%d)", uint8(k))
}

// Reason says why a run terminated.
type Reason uint8

const (
	NoReason Reason = iota
	Stop
	Return
	Revert
	Invalid
	SelfDestruct
	TraceLimit
	StepLimit
	NestingLimit
	Cancelled
)

var reasonNames = [...]string{
	NoReason:     "none",
	Stop:         "stop",
	Return:       "return",
	Revert:       "revert",
	Invalid:      "invalid",
	SelfDestruct: "selfdestruct",
	TraceLimit:   "trace limit reached",
	StepLimit:    "step limit reached",
	NestingLimit: "expression nesting limit reached",
	Cancelled:    "cancelled",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", uint8(r))
}

// Outcome is the result of evaluating a statement. The zero value is Normal.
// Data carries the payload of Return and Revert.
type Outcome struct {
	Kind   ControlKind
	Reason Reason
	Data   []byte
}

var (
	NormalOutcome   = Outcome{Kind: Normal}
	BreakOutcome    = Outcome{Kind: Break}
	ContinueOutcome = Outcome{Kind: Continue}
	LeaveOutcome    = Outcome{Kind: Leave}
)

// Terminated returns a Terminate outcome.
func Terminated(r Reason, data []byte) Outcome {
	return Outcome{Kind: Terminate, Reason: r, Data: data}
}

func (o Outcome) IsNormal() bool    { return o.Kind == Normal }
func (o Outcome) IsTerminate() bool { return o.Kind == Terminate }

func (o Outcome) String() string {
	if o.Kind != Terminate {
		return o.Kind.String()
	}
	if len(o.Data) > 0 {
		return fmt.Sprintf("terminate(%s, %s)", o.Reason, hex.EncodeToString(o.Data))
	}
	return fmt.Sprintf("terminate(%s)", o.Reason)
}
