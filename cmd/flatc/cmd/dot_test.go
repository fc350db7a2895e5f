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
	"os"
	"strings"
	"testing"
)

func TestDotRendersEdges(t *testing.T) {
	path := writeSchema(t, "monster.fbs", `
		namespace game;

		table Vec3 {
			x: float32;
			y: float32;
			z: float32;
		}

		table Monster {
			pos: Vec3;
			hp: int32 = 100;
		}
	`)

	cmd, err := New([]string{"dot", path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}

	out := buf.String()
	if !strings.Contains(out, "digraph") {
		t.Fatalf("output does not look like a DOT graph: %s", out)
	}
	if !strings.Contains(out, "Monster") || !strings.Contains(out, "Vec3") {
		t.Fatalf("output is missing expected node names: %s", out)
	}
}

func TestDotWritesToOutFile(t *testing.T) {
	path := writeSchema(t, "monster.fbs", `
		table Monster {
			hp: int32 = 100;
		}
	`)
	outPath := path + ".dot"

	cmd, err := New([]string{"dot", "-o", outPath, path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cmd.SetOutput(new(bytes.Buffer))

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "Monster") {
		t.Fatalf("dot file is missing Monster node: %s", got)
	}
}
