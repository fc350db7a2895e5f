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

	islices "github.com/flatc-lang/flatc/internal/slices"
)

// Builder writes a single FlatBuffer payload. It grows a byte buffer from
// its tail toward its head: every Prepend call moves the head backward and
// writes at the new head position, so values end up in the buffer in the
// reverse of the order a reader expects to see them resolved, but at
// strictly increasing absolute addresses.
//
// A Builder is a value type owned by one goroutine for the lifetime of one
// payload; it provides no internal synchronization, and concurrent use of
// one Builder is undefined, matching the append-only writer every other
// FlatBuffers implementation provides.
type Builder struct {
	buf  []byte
	head int // buf[head:] holds everything written so far.

	minalign int

	vtable      []UOffsetT // slot -> absolute Offset() at Slot time, reused across objects.
	vtableInUse int
	nested      bool
	finished    bool
	objectEnd   UOffsetT

	vtables []UOffsetT // Offset() of every distinct vtable written so far, for dedup.
}

// NewBuilder returns a Builder with initialSize bytes of backing capacity
// preallocated. initialSize is only a hint; the buffer grows as needed.
func NewBuilder(initialSize int) *Builder {
	if initialSize <= 0 {
		initialSize = 1024
	}
	return &Builder{
		buf:      make([]byte, initialSize),
		head:     initialSize,
		minalign: 1,
	}
}

// Reset clears the Builder so it can build another payload, reusing its
// backing buffer.
func (b *Builder) Reset() {
	if b.buf != nil {
		b.head = len(b.buf)
	}
	b.minalign = 1
	b.vtable = b.vtable[:0]
	b.vtableInUse = 0
	b.nested = false
	b.finished = false
	b.objectEnd = 0
	b.vtables = b.vtables[:0]
}

// Offset returns the number of bytes written so far: the absolute address,
// relative to the start of the finished buffer, that the next Prepend call
// will be measured from.
func (b *Builder) Offset() UOffsetT {
	return UOffsetT(len(b.buf) - b.head)
}

func (b *Builder) growBuffer() {
	newBuf := make([]byte, 2*len(b.buf))
	copy(newBuf[len(newBuf)-len(b.buf):], b.buf)
	b.head += len(newBuf) - len(b.buf)
	b.buf = newBuf
}

// Pad places n zero bytes.
func (b *Builder) Pad(n int) {
	for i := 0; i < n; i++ {
		b.head--
		b.buf[b.head] = 0
	}
}

// Prep prepares to write size bytes, followed eventually by additionalBytes
// more (not written by this call — e.g. a vtable soffset followed by the
// table body), ensuring the size-byte value lands at an address aligned to
// size once additionalBytes is accounted for, growing the buffer if needed.
func (b *Builder) Prep(size, additionalBytes int) {
	if size > b.minalign {
		b.minalign = size
	}
	alignSize := (^(len(b.buf) - b.head + additionalBytes) + 1) & (size - 1)
	for b.head < alignSize+size+additionalBytes {
		b.growBuffer()
	}
	b.Pad(alignSize)
	if b.nested && b.objectEnd == ^UOffsetT(0) {
		b.objectEnd = b.Offset()
	}
}

func (b *Builder) place(v uint64, width int) {
	b.head -= width
	for i := 0; i < width; i++ {
		b.buf[b.head+i] = byte(v >> (8 * uint(i)))
	}
}

// PrependBool prepends a one-byte boolean.
func (b *Builder) PrependBool(v bool) {
	b.Prep(sizeBool, 0)
	if v {
		b.place(1, sizeBool)
	} else {
		b.place(0, sizeBool)
	}
}

// PrependUint8 prepends an unsigned byte.
func (b *Builder) PrependUint8(v uint8) {
	b.Prep(1, 0)
	b.place(uint64(v), 1)
}

// PrependInt8 prepends a signed byte.
func (b *Builder) PrependInt8(v int8) { b.PrependUint8(uint8(v)) }

// PrependUint16 prepends a little-endian uint16.
func (b *Builder) PrependUint16(v uint16) {
	b.Prep(2, 0)
	b.place(uint64(v), 2)
}

// PrependInt16 prepends a little-endian int16.
func (b *Builder) PrependInt16(v int16) { b.PrependUint16(uint16(v)) }

// PrependUint32 prepends a little-endian uint32.
func (b *Builder) PrependUint32(v uint32) {
	b.Prep(4, 0)
	b.place(uint64(v), 4)
}

// PrependInt32 prepends a little-endian int32.
func (b *Builder) PrependInt32(v int32) { b.PrependUint32(uint32(v)) }

// PrependUint64 prepends a little-endian uint64.
func (b *Builder) PrependUint64(v uint64) {
	b.Prep(8, 0)
	b.place(v, 8)
}

// PrependInt64 prepends a little-endian int64.
func (b *Builder) PrependInt64(v int64) { b.PrependUint64(uint64(v)) }

// PrependFloat32 prepends a little-endian IEEE-754 float32.
func (b *Builder) PrependFloat32(v float32) {
	b.Prep(4, 0)
	b.place(uint64(math.Float32bits(v)), 4)
}

// PrependFloat64 prepends a little-endian IEEE-754 float64.
func (b *Builder) PrependFloat64(v float64) {
	b.Prep(8, 0)
	b.place(math.Float64bits(v), 8)
}

func (b *Builder) prependVOffsetT(v VOffsetT) {
	b.Prep(sizeVOffsetT, 0)
	b.place(uint64(v), sizeVOffsetT)
}

func (b *Builder) prependSOffsetT(v SOffsetT) {
	b.Prep(sizeSOffsetT, 0)
	b.place(uint64(uint32(v)), sizeSOffsetT)
}

// PrependUOffsetT prepends off, an absolute offset produced earlier by this
// same Builder (e.g. by EndObject, CreateString, or EndVector), converting
// it to the relative forward offset a reader will expect at this position.
func (b *Builder) PrependUOffsetT(off UOffsetT) {
	b.Prep(sizeUOffsetT, 0)
	rel := UOffsetT(b.Offset()) + sizeUOffsetT - off
	b.place(uint64(rel), sizeUOffsetT)
}

// StartObject begins a new table with numFields vtable slots. Builders do
// not nest: finish or abandon the current table before starting another.
func (b *Builder) StartObject(numFields int) {
	if b.finished {
		panic("flatbuf: StartObject called after Finish; call Reset first")
	}
	if b.nested {
		panic("flatbuf: StartObject called while another object is open")
	}
	b.nested = true

	if cap(b.vtable) < numFields {
		b.vtable = make([]UOffsetT, numFields)
	} else {
		b.vtable = b.vtable[:numFields]
		for i := range b.vtable {
			b.vtable[i] = 0
		}
	}
	b.vtableInUse = numFields
	// Set by the object's first Prep, after its alignment padding, so that
	// the padding is not counted in the object size stored in the vtable.
	b.objectEnd = ^UOffsetT(0)
}

// Slot records that the value just written (the most recent Prepend* call)
// belongs in vtable slot index slotnum.
func (b *Builder) Slot(slotnum int) {
	if !b.nested {
		panic("flatbuf: Slot called outside StartObject/EndObject")
	}
	if slotnum < 0 || slotnum >= b.vtableInUse {
		panic("flatbuf: Slot index out of range for StartObject's numFields")
	}
	b.vtable[slotnum] = b.Offset()
}

// EndObject finishes the current table, writing a (possibly deduplicated)
// vtable and the table's SOffsetT back-pointer, and returns the table's
// absolute offset.
func (b *Builder) EndObject() UOffsetT {
	if !b.nested {
		panic("flatbuf: EndObject called without a matching StartObject")
	}
	off := b.writeVTable()
	b.nested = false
	return off
}

func (b *Builder) writeVTable() UOffsetT {
	b.prependSOffsetT(0) // Placeholder for the table's back-pointer.

	objectOffset := b.Offset()

	i := len(b.vtable) - 1
	for ; i >= 0 && b.vtable[i] == 0; i-- {
	}
	b.vtable = b.vtable[:i+1]

	for j := len(b.vtable) - 1; j >= 0; j-- {
		var fieldOff VOffsetT
		if b.vtable[j] != 0 {
			fieldOff = VOffsetT(objectOffset - b.vtable[j])
		}
		b.prependVOffsetT(fieldOff)
	}

	const standardFields = 2 // vtable size, object size.
	b.prependVOffsetT(VOffsetT(objectOffset - b.objectEnd))
	vtableLen := VOffsetT((len(b.vtable) + standardFields) * sizeVOffsetT)
	b.prependVOffsetT(vtableLen)

	newVTableStart := len(b.buf) - int(b.Offset())
	newVTable := b.buf[newVTableStart : newVTableStart+int(vtableLen)]

	existing := UOffsetT(0)
	for _, candidate := range b.vtables {
		candidateStart := len(b.buf) - int(candidate)
		candidateLen := int(uint16(b.buf[candidateStart]) | uint16(b.buf[candidateStart+1])<<8)
		if candidateLen != int(vtableLen) {
			continue
		}
		if islices.Equal(newVTable, b.buf[candidateStart:candidateStart+candidateLen]) {
			existing = candidate
			break
		}
	}

	if existing != 0 {
		b.head = len(b.buf) - int(objectOffset)
		writeSOffsetT(b.buf[b.head:b.head+sizeSOffsetT], SOffsetT(existing)-SOffsetT(objectOffset))
	} else {
		b.vtables = append(b.vtables, b.Offset())
		head := len(b.buf) - int(objectOffset)
		writeSOffsetT(b.buf[head:head+sizeSOffsetT], SOffsetT(b.Offset())-SOffsetT(objectOffset))
	}

	b.vtable = b.vtable[:0]
	return objectOffset
}

func writeSOffsetT(dst []byte, v SOffsetT) {
	u := uint32(v)
	dst[0] = byte(u)
	dst[1] = byte(u >> 8)
	dst[2] = byte(u >> 16)
	dst[3] = byte(u >> 24)
}

// CreateString writes s as a length-prefixed, NUL-terminated byte string
// (the NUL is not counted in the stored length, matching every other
// FlatBuffers string implementation so C strings can borrow the data
// without copying) and returns its absolute offset.
func (b *Builder) CreateString(s string) UOffsetT {
	return b.createByteString([]byte(s))
}

func (b *Builder) createByteString(data []byte) UOffsetT {
	b.Prep(sizeUOffsetT, len(data)+1)
	b.Pad(1) // The trailing NUL.
	l := len(data)
	b.head -= l
	copy(b.buf[b.head:b.head+l], data)
	b.PrependUint32(uint32(l))
	return b.Offset()
}

// StartVector begins a vector of numElems elements, each elemSize bytes
// wide and aligned to alignment (which must be at least elemSize for
// scalar elements, or 4 for a vector of offsets).
func (b *Builder) StartVector(elemSize, numElems, alignment int) {
	b.Prep(4, elemSize*numElems)
	b.Prep(alignment, elemSize*numElems)
}

// EndVector finishes a vector started with StartVector and returns its
// absolute offset.
func (b *Builder) EndVector(numElems int) UOffsetT {
	b.PrependUint32(uint32(numElems))
	return b.Offset()
}

// Finish finalizes the buffer, writing the root table's offset (and, for
// wire compatibility with tools that locate a FlatBuffer by signature, the
// optional fileIdentifier immediately before it) and returns the usable
// slice: buf[head:].
func (b *Builder) Finish(rootTable UOffsetT) []byte {
	return b.FinishWithFileIdentifier(rootTable, "")
}

// FinishWithFileIdentifier is Finish with a four-byte file identifier, per
// a schema's `file_identifier` attribute. fileIdentifier must be exactly
// four bytes, or empty to omit it. The finished buffer starts with the
// identifier (if any) followed by the root offset, per spec.
func (b *Builder) FinishWithFileIdentifier(rootTable UOffsetT, fileIdentifier string) []byte {
	if b.nested {
		panic("flatbuf: Finish called while an object is still open")
	}
	if fileIdentifier != "" && len(fileIdentifier) != fileIdentifierLen {
		panic("flatbuf: file identifier must be exactly 4 bytes")
	}

	extra := sizeUOffsetT
	if fileIdentifier != "" {
		extra += fileIdentifierLen
	}
	b.Prep(b.minalign, extra)
	b.PrependUOffsetT(rootTable)
	if fileIdentifier != "" {
		for i := fileIdentifierLen - 1; i >= 0; i-- {
			b.head--
			b.buf[b.head] = fileIdentifier[i]
		}
	}
	b.finished = true
	return b.Bytes()
}

// Bytes returns the portion of the backing buffer written so far, valid
// until the next Reset. It is only meaningful after Finish. The returned
// slice is clipped to its own length so that appending to it can never
// silently scribble into the builder's backing array.
func (b *Builder) Bytes() []byte { return islices.Clip(b.buf[b.head:]) }

// ValidUTF8 reports whether s is well-formed UTF-8; CreateString callers
// that must reject invalid text before writing it can use this to fail
// early rather than produce a buffer a Reader will refuse to decode.
func ValidUTF8(s string) bool { return utf8.ValidString(s) }
