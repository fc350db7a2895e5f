// Copyright 2024 CUE Authors
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

package rust_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flatc-lang/flatc/internal/gen/rust"
	"github.com/flatc-lang/flatc/internal/ir/translate"
	"github.com/flatc-lang/flatc/schema/build"
)

func load(t *testing.T, content string) *build.Map {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.fbs")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	m := build.NewContext().NewMap()
	if err := m.AddFilesRecursively(path); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return m
}

// An explicit id: attribute can put a field earlier in the vtable than it
// was written; Generate must emit it in that vtable order while still
// recording where it was declared.
func TestGenerateOrdersFieldsByVtableID(t *testing.T) {
	m := load(t, `
		table T {
			second: int32 (id: 1);
			first: int32 (id: 0);
		}
	`)
	decls, err := translate.Files(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := rust.Generate(decls)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	src := string(out)

	firstIdx := strings.Index(src, "first")
	secondIdx := strings.Index(src, "second")
	if firstIdx == -1 || secondIdx == -1 {
		t.Fatalf("missing fields in output:\n%s", src)
	}
	if firstIdx > secondIdx {
		t.Errorf("expected field %q (id 0) before %q (id 1), got:\n%s", "first", "second", src)
	}
	if !strings.Contains(src, "declared position 0") || !strings.Contains(src, "declared position 1") {
		t.Errorf("expected each field annotated with its declaration position:\n%s", src)
	}
}

func TestGenerateOptionalFieldIsOption(t *testing.T) {
	m := load(t, `
		table T {
			value_null: uint32 = null;
		}
	`)
	decls, err := translate.Files(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := rust.Generate(decls)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(out), "Option<u32>") {
		t.Errorf("expected value_null to render as Option<u32>, got:\n%s", out)
	}
}
