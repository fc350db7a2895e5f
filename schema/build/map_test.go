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

package build

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAddFilesRecursively(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "common.fbs", `
		namespace common;

		table Vec3 {
			x: float32;
			y: float32;
			z: float32;
		}
	`)
	root := writeFile(t, dir, "monster.fbs", `
		include "common.fbs";

		namespace game;

		table Monster {
			pos: common.Vec3;
			hp: int32 = 100;
		}
	`)

	m := NewContext().NewMap()
	if err := m.AddFilesRecursively(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(m.Files))
	}

	order := m.OrderedFiles()
	if len(order) != 2 {
		t.Fatalf("got %d ordered files, want 2", len(order))
	}
	// monster.fbs is the root, so it is discovered (and so appended)
	// before the common.fbs it includes.
	if order[0].Filename != root {
		t.Errorf("order[0] = %s, want root %s", order[0].Filename, root)
	}
}

func TestAddFilesRecursivelyDedups(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "common.fbs", `namespace common;`)
	writeFile(t, dir, "a.fbs", `include "common.fbs"; namespace a;`)
	root := writeFile(t, dir, "b.fbs", `
		include "common.fbs";
		include "a.fbs";
		namespace b;
	`)

	m := NewContext().NewMap()
	if err := m.AddFilesRecursively(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// common.fbs is reachable via two paths but must be parsed only once.
	if len(m.Files) != 3 {
		t.Fatalf("got %d files, want 3", len(m.Files))
	}
}

func TestAddFilesRecursivelyToleratesCycles(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "a.fbs", `include "b.fbs"; namespace a;`)
	root := writeFile(t, dir, "b.fbs", `include "a.fbs"; namespace b;`)

	m := NewContext().NewMap()
	err := m.AddFilesRecursively(root)
	if err != nil {
		t.Fatalf("unexpected error from include cycle: %v", err)
	}
	if len(m.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(m.Files))
	}
}

func TestAddFilesRecursivelyMissingInclude(t *testing.T) {
	dir := t.TempDir()

	root := writeFile(t, dir, "bad.fbs", `include "missing.fbs"; namespace bad;`)

	m := NewContext().NewMap()
	err := m.AddFilesRecursively(root)
	if err == nil {
		t.Fatal("expected an error for a missing include")
	}
	// The root file itself still loaded successfully.
	if len(m.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(m.Files))
	}
}
