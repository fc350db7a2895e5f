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

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRustGeneratesStructAndTable(t *testing.T) {
	path := writeSchema(t, "monster.fbs", `
		struct Vec3 {
			x: float32;
			y: float32;
			z: float32;
		}

		table Monster {
			pos: Vec3;
			name: string;
		}
	`)

	cmd, err := New([]string{"rust", path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}

	out := buf.String()
	if !strings.Contains(out, "struct Vec3") {
		t.Errorf("missing Vec3 struct:\n%s", out)
	}
	if !strings.Contains(out, "Monster") {
		t.Errorf("missing Monster type:\n%s", out)
	}
}

func TestRustFormatFlagInsertsBlankLines(t *testing.T) {
	path := writeSchema(t, "two.fbs", `
		table A {
			x: int32;
		}

		table B {
			y: int32;
		}
	`)

	cmd, err := New([]string{"rust", "--format", path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}

	if !strings.Contains(buf.String(), "\n\n") {
		t.Errorf("expected --format to insert a blank line between items:\n%s", buf.String())
	}
}

func TestRustUnknownFileIsFatal(t *testing.T) {
	var exited bool
	old := exit
	exit = func() { exited = true }
	defer func() { exit = old }()

	cmd, err := New([]string{"rust", "does-not-exist.fbs"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cmd.SetOutput(new(bytes.Buffer))

	if err := cmd.Run(context.Background()); err != ErrPrintedError {
		t.Fatalf("Run = %v, want ErrPrintedError", err)
	}
	if !exited {
		t.Fatal("expected rust to call exit on a load failure")
	}
}
