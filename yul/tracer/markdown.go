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

	"github.com/holiman/uint256"

	"github.com/erigontech/yulrun/yul/vm"
)

// WriteMarkdown writes the same content as WriteText, for human readability,
// as valid markdown tables.
func WriteMarkdown(w io.Writer, view vm.StateView, out vm.Outcome) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, `
|   #   | Depth |    Kind    | Detail |
|-------|-------|------------|--------|
`)
	for i := 0; i < view.TraceLen(); i++ {
		e := view.TraceEntry(i)
		fmt.Fprintf(bw, "| %5d | %5d | %10v | `%s` |\n", i, e.Depth, e.Kind, Describe(e))
	}
	fmt.Fprintf(bw, "\nOutcome: `%s`\n", out)

	fmt.Fprint(bw, "\n### Memory\n\n| Offset | Data |\n|--------|------|\n")
	for _, row := range view.MemoryRows() {
		row := row
		fmt.Fprintf(bw, "| `%s` | `%x` |\n", row.Offset.Hex(), row.Data[:])
	}
	fmt.Fprint(bw, "\n### Storage\n\n| Key | Value |\n|-----|-------|\n")
	writeSlotRows(bw, view.StorageKeys(), view.StorageAt)
	fmt.Fprint(bw, "\n### Transient storage\n\n| Key | Value |\n|-----|-------|\n")
	writeSlotRows(bw, view.TransientStorageKeys(), view.TransientStorageAt)
	return bw.Flush()
}

func writeSlotRows(w io.Writer, keys []uint256.Int, at func(*uint256.Int) uint256.Int) {
	for i := range keys {
		v := at(&keys[i])
		fmt.Fprintf(w, "| `%s` | `%s` |\n", keys[i].Hex(), v.Hex())
	}
}
