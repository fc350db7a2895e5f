// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package flatbuf is the zero-copy FlatBuffers wire-format runtime: an
// append-only Builder that writes tables, vtables, vectors, and unions
// backwards from the end of a growing byte buffer, and a Reader that
// navigates an immutable byte slice produced by a Builder (or by any
// other FlatBuffers implementation) without copying or allocating.
//
// Generated code (see internal/gen/rust for the stub form) is meant to
// sit on top of this package: one typed wrapper per table/struct, each
// forwarding to a Builder method or a Reader field lookup.
package flatbuf

// UOffsetT is an unsigned offset, always relative and forward from the
// position of the field that stores it, except where this package's doc
// comments say otherwise (the table header's back-pointer to its vtable
// is the one case that instead uses SOffsetT).
type UOffsetT = uint32

// SOffsetT is a signed offset, used only for a table's back-pointer to
// its vtable and a vtable's dedup bookkeeping.
type SOffsetT = int32

// VOffsetT is a field's offset within a table, relative to the table's
// own start. Zero means the field is absent.
type VOffsetT = uint16

const (
	sizeUOffsetT = 4
	sizeSOffsetT = 4
	sizeVOffsetT = 2
	sizeBool     = 1
	sizeByte     = 1

	// fileIdentifierLen is the fixed length of a schema's `file_identifier`
	// attribute, always written immediately before the root offset when
	// present.
	fileIdentifierLen = 4
)
