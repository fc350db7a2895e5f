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

package flatbuf_test

import (
	"testing"

	"github.com/flatc-lang/flatc/runtime/flatbuf"
)

func TestBuilderTableRoundTrip(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	s := b.CreateString("hi")

	b.StartObject(2)
	b.PrependUint32(42)
	b.Slot(0)
	b.PrependUOffsetT(s)
	b.Slot(1)
	tab := b.EndObject()

	buf := b.Finish(tab)

	root, err := flatbuf.GetRootTable(buf)
	if err != nil {
		t.Fatalf("GetRootTable: %v", err)
	}
	x, err := root.GetUint32(0, 0)
	if err != nil {
		t.Fatalf("GetUint32: %v", err)
	}
	if x != 42 {
		t.Fatalf("x = %d, want 42", x)
	}
	str, ok, err := root.GetString(1)
	if err != nil || !ok {
		t.Fatalf("GetString: ok=%v err=%v", ok, err)
	}
	if str != "hi" {
		t.Fatalf("str = %q, want %q", str, "hi")
	}
}

func TestBuilderScalarDefaultOmitted(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	b.StartObject(1) // Field at slot 0 is never written.
	tab := b.EndObject()
	buf := b.Finish(tab)

	root, err := flatbuf.GetRootTable(buf)
	if err != nil {
		t.Fatalf("GetRootTable: %v", err)
	}
	x, err := root.GetUint32(0, 7)
	if err != nil {
		t.Fatalf("GetUint32: %v", err)
	}
	if x != 7 {
		t.Fatalf("x = %d, want default 7", x)
	}
}

func TestBuilderVTableDedup(t *testing.T) {
	build := func(b *flatbuf.Builder, v uint32) flatbuf.UOffsetT {
		b.StartObject(1)
		b.PrependUint32(v)
		b.Slot(0)
		return b.EndObject()
	}

	b := flatbuf.NewBuilder(0)
	off1 := build(b, 1)
	off2 := build(b, 2)
	buf := b.Finish(off2)

	tab1 := flatbuf.Table{Buf: buf, Pos: len(buf) - int(off1)}
	tab2 := flatbuf.Table{Buf: buf, Pos: len(buf) - int(off2)}

	vt1, err := tab1.VTablePos()
	if err != nil {
		t.Fatalf("VTablePos(tab1): %v", err)
	}
	vt2, err := tab2.VTablePos()
	if err != nil {
		t.Fatalf("VTablePos(tab2): %v", err)
	}
	if vt1 != vt2 {
		t.Fatalf("two structurally identical tables got distinct vtables: %d != %d", vt1, vt2)
	}
}

func TestBuilderPrependTypes(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	b.StartObject(8)
	b.PrependBool(true)
	b.Slot(0)
	b.PrependInt8(-1)
	b.Slot(1)
	b.PrependUint16(65535)
	b.Slot(2)
	b.PrependInt32(-12345)
	b.Slot(3)
	b.PrependUint64(1 << 40)
	b.Slot(4)
	b.PrependFloat32(1.5)
	b.Slot(5)
	b.PrependFloat64(2.5)
	b.Slot(6)
	tab := b.EndObject()
	buf := b.Finish(tab)

	root, err := flatbuf.GetRootTable(buf)
	if err != nil {
		t.Fatalf("GetRootTable: %v", err)
	}
	if v, _ := root.GetBool(0, false); v != true {
		t.Errorf("bool = %v", v)
	}
	if v, _ := root.GetInt8(1, 0); v != -1 {
		t.Errorf("int8 = %v", v)
	}
	if v, _ := root.GetUint16(2, 0); v != 65535 {
		t.Errorf("uint16 = %v", v)
	}
	if v, _ := root.GetInt32(3, 0); v != -12345 {
		t.Errorf("int32 = %v", v)
	}
	if v, _ := root.GetUint64(4, 0); v != 1<<40 {
		t.Errorf("uint64 = %v", v)
	}
	if v, _ := root.GetFloat32(5, 0); v != 1.5 {
		t.Errorf("float32 = %v", v)
	}
	if v, _ := root.GetFloat64(6, 0); v != 2.5 {
		t.Errorf("float64 = %v", v)
	}
}
