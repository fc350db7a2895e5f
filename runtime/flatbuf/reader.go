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

package flatbuf

import (
	"math"
	"unicode/utf8"
)

// Table is a bounds-checked, read-only view of one table within buf,
// anchored at the byte position of the table's vtable back-pointer. Every
// accessor validates its reads against len(Buf) before returning; none of
// them can read outside the buffer they were given.
type Table struct {
	Buf []byte
	Pos int
}

// Struct is a bounds-checked view of one struct-by-value within buf. Unlike
// Table, a Struct has no vtable: every field lives at a fixed byte offset
// from Pos, computed once by the translator and baked into generated code.
type Struct struct {
	Buf []byte
	Pos int
}

// Vector is a bounds-checked view of a vector's elements, anchored just
// past its stored length prefix.
type Vector struct {
	Buf []byte
	Pos int
	Len int
}

// GetRootTable returns the table at the offset stored in the first four
// bytes of buf. Use this when the schema declares no file_identifier.
func GetRootTable(buf []byte) (Table, error) {
	return rootTableAt(buf, 0)
}

// GetRootTableWithFileIdentifier returns the table at the offset stored
// immediately after a four-byte file identifier at the start of buf, along
// with that identifier. Use this when the schema declares a
// file_identifier.
func GetRootTableWithFileIdentifier(buf []byte) (Table, string, error) {
	if len(buf) < fileIdentifierLen {
		return Table{}, "", errf(InvalidLength, "buffer too short for a file identifier")
	}
	t, err := rootTableAt(buf, fileIdentifierLen)
	return t, string(buf[:fileIdentifierLen]), err
}

func rootTableAt(buf []byte, pos int) (Table, error) {
	v, err := readUint32(buf, pos)
	if err != nil {
		return Table{}, err
	}
	target := pos + int(v)
	if target < 0 || target > len(buf) {
		return Table{}, errf(InvalidOffset, "root offset %d out of bounds", target)
	}
	return Table{Buf: buf, Pos: target}, nil
}

func readUint8(buf []byte, pos int) (uint8, error) {
	if pos < 0 || pos+1 > len(buf) {
		return 0, errf(InvalidOffset, "read uint8 at %d out of bounds", pos)
	}
	return buf[pos], nil
}

func readUint16(buf []byte, pos int) (uint16, error) {
	if pos < 0 || pos+2 > len(buf) {
		return 0, errf(InvalidOffset, "read uint16 at %d out of bounds", pos)
	}
	return uint16(buf[pos]) | uint16(buf[pos+1])<<8, nil
}

func readUint32(buf []byte, pos int) (uint32, error) {
	if pos < 0 || pos+4 > len(buf) {
		return 0, errf(InvalidOffset, "read uint32 at %d out of bounds", pos)
	}
	return uint32(buf[pos]) | uint32(buf[pos+1])<<8 | uint32(buf[pos+2])<<16 | uint32(buf[pos+3])<<24, nil
}

func readUint64(buf []byte, pos int) (uint64, error) {
	if pos < 0 || pos+8 > len(buf) {
		return 0, errf(InvalidOffset, "read uint64 at %d out of bounds", pos)
	}
	lo, _ := readUint32(buf, pos)
	hi, _ := readUint32(buf, pos+4)
	return uint64(lo) | uint64(hi)<<32, nil
}

func readInt32(buf []byte, pos int) (int32, error) {
	v, err := readUint32(buf, pos)
	return int32(v), err
}

// vtable resolves the table's vtable, returning its byte position and the
// two header fields (vtable size, object size), per spec: read an i32
// soffset at t.Pos, then the vtable lives at t.Pos - soffset.
func (t Table) vtable() (pos, vtSize, tableSize int, err error) {
	soffset, err := readInt32(t.Buf, t.Pos)
	if err != nil {
		return 0, 0, 0, err
	}
	vtPos := t.Pos - int(soffset)
	if vtPos < 0 || vtPos+4 > len(t.Buf) {
		return 0, 0, 0, errf(InvalidVTable, "vtable at %d out of bounds", vtPos)
	}
	sz, err := readUint16(t.Buf, vtPos)
	if err != nil {
		return 0, 0, 0, err
	}
	if sz < 4 {
		return 0, 0, 0, errf(InvalidVTable, "vtable size %d too small", sz)
	}
	tsz, err := readUint16(t.Buf, vtPos+2)
	if err != nil {
		return 0, 0, 0, err
	}
	return vtPos, int(sz), int(tsz), nil
}

// VTablePos returns the absolute byte position of t's vtable. Two tables
// with byte-identical vtables share one vtable position in a buffer a
// Builder produced, since Builder.EndObject deduplicates structurally
// identical vtables.
func (t Table) VTablePos() (int, error) {
	pos, _, _, err := t.vtable()
	return pos, err
}

// Offset resolves slot to an absolute byte position in Buf, or 0 if the
// field is absent (either because the vtable doesn't reach this far, or
// because it reaches but stores 0).
func (t Table) Offset(slot int) (int, error) {
	vtPos, vtSize, _, err := t.vtable()
	if err != nil {
		return 0, err
	}
	if slot*2+4 >= vtSize {
		return 0, nil
	}
	voffset, err := readUint16(t.Buf, vtPos+4+slot*2)
	if err != nil {
		return 0, err
	}
	if voffset == 0 {
		return 0, nil
	}
	pos := t.Pos + int(voffset)
	if pos < 0 || pos > len(t.Buf) {
		return 0, errf(InvalidOffset, "field at slot %d out of bounds", slot)
	}
	return pos, nil
}

// indirect resolves slot as a forward-offset field (string, vector, table,
// or union payload), following the stored UOffsetT.
func (t Table) indirect(slot int) (pos int, present bool, err error) {
	fieldPos, err := t.Offset(slot)
	if err != nil || fieldPos == 0 {
		return 0, false, err
	}
	v, err := readUint32(t.Buf, fieldPos)
	if err != nil {
		return 0, false, err
	}
	target := fieldPos + int(v)
	if target < 0 || target > len(t.Buf) {
		return 0, false, errf(InvalidOffset, "offset field at slot %d resolves out of bounds", slot)
	}
	return target, true, nil
}

// GetTable resolves slot as a nested table or union-variant reference.
func (t Table) GetTable(slot int) (Table, bool, error) {
	pos, ok, err := t.indirect(slot)
	if !ok || err != nil {
		return Table{}, ok, err
	}
	return Table{Buf: t.Buf, Pos: pos}, true, nil
}

// GetStruct resolves slot as a struct-by-reference field (a table field
// whose type is a struct; struct fields embedded directly in another
// struct use Struct.Struct instead, since they carry no offset indirect).
func (t Table) GetStruct(slot int) (Struct, bool, error) {
	fieldPos, err := t.Offset(slot)
	if err != nil || fieldPos == 0 {
		return Struct{}, false, err
	}
	return Struct{Buf: t.Buf, Pos: fieldPos}, true, nil
}

// GetString resolves slot as a string field, validating its bytes as UTF-8.
func (t Table) GetString(slot int) (string, bool, error) {
	pos, ok, err := t.indirect(slot)
	if !ok || err != nil {
		return "", ok, err
	}
	s, err := readString(t.Buf, pos)
	return s, err == nil, err
}

func readString(buf []byte, pos int) (string, error) {
	length, err := readUint32(buf, pos)
	if err != nil {
		return "", err
	}
	start := pos + 4
	end := start + int(length)
	if end < start || end > len(buf) {
		return "", errf(InvalidLength, "string at %d exceeds buffer", pos)
	}
	b := buf[start:end]
	if !utf8.Valid(b) {
		return "", errf(Utf8Error, "string at %d is not valid UTF-8", pos)
	}
	return string(b), nil
}

// GetVector resolves slot as a vector field of elements elemSize bytes
// wide.
func (t Table) GetVector(slot int, elemSize int) (Vector, bool, error) {
	pos, ok, err := t.indirect(slot)
	if !ok || err != nil {
		return Vector{}, ok, err
	}
	length, err := readUint32(t.Buf, pos)
	if err != nil {
		return Vector{}, false, err
	}
	start := pos + 4
	end := start + int(length)*elemSize
	if end < start || end > len(t.Buf) {
		return Vector{}, false, errf(InvalidLength, "vector at %d exceeds buffer", pos)
	}
	return Vector{Buf: t.Buf, Pos: start, Len: int(length)}, true, nil
}

func (v Vector) elemPos(i, elemSize int) (int, error) {
	if i < 0 || i >= v.Len {
		return 0, errf(InvalidOffset, "vector index %d out of range [0,%d)", i, v.Len)
	}
	return v.Pos + i*elemSize, nil
}

// Uint8/Int8/Uint16/Int16/Uint32/Int32/Uint64/Int64/Float32/Float64/Bool
// read the i'th scalar element of a vector of that kind.

func (v Vector) Uint8(i int) (uint8, error) {
	p, err := v.elemPos(i, 1)
	if err != nil {
		return 0, err
	}
	return readUint8(v.Buf, p)
}

func (v Vector) Int8(i int) (int8, error) {
	u, err := v.Uint8(i)
	return int8(u), err
}

func (v Vector) Bool(i int) (bool, error) {
	u, err := v.Uint8(i)
	return u != 0, err
}

func (v Vector) Uint16(i int) (uint16, error) {
	p, err := v.elemPos(i, 2)
	if err != nil {
		return 0, err
	}
	return readUint16(v.Buf, p)
}

func (v Vector) Int16(i int) (int16, error) {
	u, err := v.Uint16(i)
	return int16(u), err
}

func (v Vector) Uint32(i int) (uint32, error) {
	p, err := v.elemPos(i, 4)
	if err != nil {
		return 0, err
	}
	return readUint32(v.Buf, p)
}

func (v Vector) Int32(i int) (int32, error) {
	u, err := v.Uint32(i)
	return int32(u), err
}

func (v Vector) Uint64(i int) (uint64, error) {
	p, err := v.elemPos(i, 8)
	if err != nil {
		return 0, err
	}
	return readUint64(v.Buf, p)
}

func (v Vector) Int64(i int) (int64, error) {
	u, err := v.Uint64(i)
	return int64(u), err
}

func (v Vector) Float32(i int) (float32, error) {
	u, err := v.Uint32(i)
	return math.Float32frombits(u), err
}

func (v Vector) Float64(i int) (float64, error) {
	u, err := v.Uint64(i)
	return math.Float64frombits(u), err
}

// String returns the i'th element of a vector of strings: each element is
// itself a forward UOffsetT, relative to its own position, to a
// length-prefixed string.
func (v Vector) String(i int) (string, error) {
	p, err := v.elemPos(i, 4)
	if err != nil {
		return "", err
	}
	off, err := readUint32(v.Buf, p)
	if err != nil {
		return "", err
	}
	target := p + int(off)
	if target < 0 || target > len(v.Buf) {
		return "", errf(InvalidOffset, "string vector element %d out of bounds", i)
	}
	return readString(v.Buf, target)
}

// Table returns the i'th element of a vector of table offsets.
func (v Vector) Table(i int) (Table, error) {
	p, err := v.elemPos(i, 4)
	if err != nil {
		return Table{}, err
	}
	off, err := readUint32(v.Buf, p)
	if err != nil {
		return Table{}, err
	}
	target := p + int(off)
	if target < 0 || target > len(v.Buf) {
		return Table{}, errf(InvalidOffset, "table vector element %d out of bounds", i)
	}
	return Table{Buf: v.Buf, Pos: target}, nil
}

// Struct returns the i'th element of a vector of structs laid out inline,
// each elemSize bytes wide.
func (v Vector) Struct(i, elemSize int) (Struct, error) {
	p, err := v.elemPos(i, elemSize)
	if err != nil {
		return Struct{}, err
	}
	return Struct{Buf: v.Buf, Pos: p}, nil
}

// Scalar accessors on Table, each resolving slot via Offset and falling
// back to def when the field is absent.

func (t Table) GetBool(slot int, def bool) (bool, error) {
	pos, err := t.Offset(slot)
	if err != nil || pos == 0 {
		return def, err
	}
	v, err := readUint8(t.Buf, pos)
	return v != 0, err
}

func (t Table) GetUint8(slot int, def uint8) (uint8, error) {
	pos, err := t.Offset(slot)
	if err != nil || pos == 0 {
		return def, err
	}
	return readUint8(t.Buf, pos)
}

func (t Table) GetInt8(slot int, def int8) (int8, error) {
	v, err := t.GetUint8(slot, uint8(def))
	return int8(v), err
}

func (t Table) GetUint16(slot int, def uint16) (uint16, error) {
	pos, err := t.Offset(slot)
	if err != nil || pos == 0 {
		return def, err
	}
	return readUint16(t.Buf, pos)
}

func (t Table) GetInt16(slot int, def int16) (int16, error) {
	v, err := t.GetUint16(slot, uint16(def))
	return int16(v), err
}

func (t Table) GetUint32(slot int, def uint32) (uint32, error) {
	pos, err := t.Offset(slot)
	if err != nil || pos == 0 {
		return def, err
	}
	return readUint32(t.Buf, pos)
}

func (t Table) GetInt32(slot int, def int32) (int32, error) {
	v, err := t.GetUint32(slot, uint32(def))
	return int32(v), err
}

func (t Table) GetUint64(slot int, def uint64) (uint64, error) {
	pos, err := t.Offset(slot)
	if err != nil || pos == 0 {
		return def, err
	}
	return readUint64(t.Buf, pos)
}

func (t Table) GetInt64(slot int, def int64) (int64, error) {
	v, err := t.GetUint64(slot, uint64(def))
	return int64(v), err
}

func (t Table) GetFloat32(slot int, def float32) (float32, error) {
	v, err := t.GetUint32(slot, math.Float32bits(def))
	return math.Float32frombits(v), err
}

func (t Table) GetFloat64(slot int, def float64) (float64, error) {
	v, err := t.GetUint64(slot, math.Float64bits(def))
	return math.Float64frombits(v), err
}

// Scalar accessors on Struct, each reading at a fixed byte offset from
// Pos; there is no presence check, since struct fields are never absent.

func (s Struct) GetBool(offset int) (bool, error) {
	v, err := readUint8(s.Buf, s.Pos+offset)
	return v != 0, err
}

func (s Struct) GetUint8(offset int) (uint8, error)   { return readUint8(s.Buf, s.Pos+offset) }
func (s Struct) GetUint16(offset int) (uint16, error) { return readUint16(s.Buf, s.Pos+offset) }
func (s Struct) GetUint32(offset int) (uint32, error) { return readUint32(s.Buf, s.Pos+offset) }
func (s Struct) GetUint64(offset int) (uint64, error) { return readUint64(s.Buf, s.Pos+offset) }

func (s Struct) GetInt8(offset int) (int8, error) {
	v, err := s.GetUint8(offset)
	return int8(v), err
}

func (s Struct) GetInt16(offset int) (int16, error) {
	v, err := s.GetUint16(offset)
	return int16(v), err
}

func (s Struct) GetInt32(offset int) (int32, error) {
	v, err := s.GetUint32(offset)
	return int32(v), err
}

func (s Struct) GetInt64(offset int) (int64, error) {
	v, err := s.GetUint64(offset)
	return int64(v), err
}

func (s Struct) GetFloat32(offset int) (float32, error) {
	v, err := s.GetUint32(offset)
	return math.Float32frombits(v), err
}

func (s Struct) GetFloat64(offset int) (float64, error) {
	v, err := s.GetUint64(offset)
	return math.Float64frombits(v), err
}

// Struct returns the nested struct-by-value embedded at offset.
func (s Struct) Struct(offset int) Struct {
	return Struct{Buf: s.Buf, Pos: s.Pos + offset}
}
