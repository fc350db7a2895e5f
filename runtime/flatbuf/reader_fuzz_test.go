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

// FuzzGetRootTable feeds arbitrary byte slices to the reader: malformed or
// truncated input must produce an error, never a panic, regardless of what
// vtable offsets or lengths it happens to spell out.
func FuzzGetRootTable(f *testing.F) {
	// A well-formed buffer, so the fuzzer starts from something the
	// reader actually walks into a vtable and a string instead of
	// bailing out on the root offset alone.
	b := flatbuf.NewBuilder(0)
	s := b.CreateString("hello")
	b.StartObject(2)
	b.PrependUOffsetT(s)
	b.Slot(0)
	b.PrependInt32(42)
	b.Slot(1)
	tab := b.EndObject()
	f.Add(b.Finish(tab))

	f.Add([]byte{})
	f.Add([]byte{0, 0, 0, 0})
	f.Add([]byte{1, 2, 3})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, buf []byte) {
		root, err := flatbuf.GetRootTable(buf)
		if err != nil {
			return
		}
		// A vtable claiming to reach further fields than this buffer has
		// room for must surface as an error from each accessor, not a
		// panic, no matter how many slots or how large an elemSize the
		// fuzzer spells out.
		for slot := 0; slot < 8; slot++ {
			_, _, _ = root.GetString(slot)
			_, _, _ = root.GetTable(slot)
			_, _, _ = root.GetStruct(slot)
			if v, ok, err := root.GetVector(slot, 4); err == nil && ok {
				_, _ = v.Uint32(0)
				_, _ = v.String(0)
			}
		}
	})
}
