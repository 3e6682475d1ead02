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
	"encoding/hex"
	"io"

	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"

	hexutil "github.com/erigontech/yulrun/common/hex"
	"github.com/erigontech/yulrun/yul/vm"
)

type jsonWriter struct {
	stream       *jsoniter.Stream
	hexEncodeBuf [64]byte
}

// WriteJSON streams the trace and the final state as one JSON object:
//
//	{"outcome": {...}, "trace": [...], "memory": [...], "storage": {...}, "transientStorage": {...}}
//
// Words are written as 0x-prefixed hex strings without leading zeros.
func WriteJSON(w io.Writer, view vm.StateView, out vm.Outcome) error {
	j := &jsonWriter{stream: jsoniter.NewStream(jsoniter.ConfigDefault, w, 4096)}
	s := j.stream

	s.WriteObjectStart()
	s.WriteObjectField("outcome")
	j.writeOutcome(out)
	s.WriteMore()

	s.WriteObjectField("trace")
	s.WriteArrayStart()
	for i := 0; i < view.TraceLen(); i++ {
		if i > 0 {
			s.WriteMore()
		}
		j.writeEntry(view.TraceEntry(i))
		if s.Buffered() > 4096 {
			if err := s.Flush(); err != nil {
				return err
			}
		}
	}
	s.WriteArrayEnd()
	s.WriteMore()

	s.WriteObjectField("memory")
	s.WriteArrayStart()
	for i, row := range view.MemoryRows() {
		row := row
		if i > 0 {
			s.WriteMore()
		}
		s.WriteObjectStart()
		s.WriteObjectField("offset")
		s.WriteString(row.Offset.Hex())
		s.WriteMore()
		s.WriteObjectField("data")
		s.WriteString(string(j.hexEncodeBuf[:hex.Encode(j.hexEncodeBuf[:], row.Data[:])]))
		s.WriteObjectEnd()
	}
	s.WriteArrayEnd()
	s.WriteMore()

	s.WriteObjectField("storage")
	j.writeSlots(view.StorageKeys(), view.StorageAt)
	s.WriteMore()
	s.WriteObjectField("transientStorage")
	j.writeSlots(view.TransientStorageKeys(), view.TransientStorageAt)
	s.WriteObjectEnd()
	s.WriteRaw("\n")

	if s.Error != nil {
		return s.Error
	}
	return s.Flush()
}

func (j *jsonWriter) writeOutcome(out vm.Outcome) {
	s := j.stream
	s.WriteObjectStart()
	s.WriteObjectField("kind")
	s.WriteString(out.Kind.String())
	if out.IsTerminate() {
		s.WriteMore()
		s.WriteObjectField("reason")
		s.WriteString(out.Reason.String())
	}
	if len(out.Data) > 0 {
		s.WriteMore()
		s.WriteObjectField("data")
		s.WriteString(hexutil.EncodeToString(out.Data))
	}
	s.WriteObjectEnd()
}

func (j *jsonWriter) writeWords(field string, ws []uint256.Int) {
	s := j.stream
	s.WriteMore()
	s.WriteObjectField(field)
	s.WriteArrayStart()
	for i := range ws {
		if i > 0 {
			s.WriteMore()
		}
		s.WriteString(ws[i].Hex())
	}
	s.WriteArrayEnd()
}

func (j *jsonWriter) writeEntry(e vm.TraceEntry) {
	s := j.stream
	s.WriteObjectStart()
	s.WriteObjectField("kind")
	s.WriteString(e.Kind.String())
	s.WriteMore()
	s.WriteObjectField("depth")
	s.WriteInt(e.Depth)
	if e.Name != "" {
		s.WriteMore()
		s.WriteObjectField("name")
		s.WriteString(e.Name)
	}
	switch e.Kind {
	case vm.BuiltinCall, vm.ExternalCallSuppressed:
		j.writeWords("args", e.Args)
		if len(e.Results) > 0 {
			j.writeWords("results", e.Results)
		}
	case vm.VariableBound:
		s.WriteMore()
		s.WriteObjectField("value")
		s.WriteString(e.Value.Hex())
	case vm.MemoryWrite, vm.StorageWrite, vm.TransientStorageWrite:
		s.WriteMore()
		s.WriteObjectField("key")
		s.WriteString(e.Key.Hex())
		s.WriteMore()
		s.WriteObjectField("value")
		s.WriteString(e.Value.Hex())
	}
	if len(e.Data) > 0 {
		s.WriteMore()
		s.WriteObjectField("data")
		s.WriteString(hexutil.EncodeToString(e.Data))
	}
	if e.Pos.Line > 0 {
		s.WriteMore()
		s.WriteObjectField("pos")
		s.WriteString(e.Pos.String())
	}
	s.WriteObjectEnd()
}

func (j *jsonWriter) writeSlots(keys []uint256.Int, at func(*uint256.Int) uint256.Int) {
	s := j.stream
	s.WriteObjectStart()
	for i := range keys {
		if i > 0 {
			s.WriteMore()
		}
		v := at(&keys[i])
		s.WriteObjectField(keys[i].Hex())
		s.WriteString(v.Hex())
	}
	s.WriteObjectEnd()
}
