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

package debug

import (
	"fmt"
	"runtime/debug"

	"github.com/ledgerwatch/log/v3"
)

// LogPanic turns a panic of the calling goroutine into an error stored in
// err and logs it with its stack. It must be deferred.
func LogPanic(logger log.Logger, err *error) {
	panicResult := recover()
	if panicResult == nil {
		return
	}

	logger.Error("catch panic", "err", panicResult, "stack", string(debug.Stack()))
	*err = fmt.Errorf("panic: %v", panicResult)
}
