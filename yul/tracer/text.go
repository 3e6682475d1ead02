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

package tracer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/vm"
)

// WriteText writes the trace, the outcome and a dump of memory, storage and
// transient storage. Entries are indented by call depth.
func WriteText(w io.Writer, view vm.StateView, out vm.Outcome) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "Trace:")
	for i := 0; i < view.TraceLen(); i++ {
		e := view.TraceEntry(i)
		fmt.Fprintf(bw, "  %s%-10s %s\n", strings.Repeat("  ", e.Depth), e.Kind, Describe(e))
	}
	fmt.Fprintf(bw, "Outcome: %s\n", out)

	fmt.Fprintln(bw, "Memory dump:")
	for _, row := range view.MemoryRows() {
		row := row
		fmt.Fprintf(bw, "  %s: %x\n", row.Offset.Hex(), row.Data[:])
	}
	fmt.Fprintln(bw, "Storage dump:")
	writeSlots(bw, view.StorageKeys(), view.StorageAt)
	fmt.Fprintln(bw, "Transient storage dump:")
	writeSlots(bw, view.TransientStorageKeys(), view.TransientStorageAt)
	return bw.Flush()
}

func writeSlots(w io.Writer, keys []uint256.Int, at func(*uint256.Int) uint256.Int) {
	for i := range keys {
		v := at(&keys[i])
		fmt.Fprintf(w, "  %s: %s\n", keys[i].Hex(), v.Hex())
	}
}
