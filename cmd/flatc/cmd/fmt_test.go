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

package cmd

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestFormatRewritesInPlace(t *testing.T) {
	path := writeSchema(t, "messy.fbs", `namespace    game ;`)

	cmd, err := New([]string{"format", path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cmd.SetOutput(new(bytes.Buffer))

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "namespace game;\n"
	if string(got) != want {
		t.Fatalf("formatted contents = %q, want %q", got, want)
	}
}

func TestFormatIgnoreErrorsLeavesFileUntouched(t *testing.T) {
	old := exit
	exit = func() {}
	defer func() { exit = old }()

	const broken = "table Monster {\n"
	path := writeSchema(t, "broken.fbs", broken)

	cmd, err := New([]string{"format", "--ignore-errors", path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != broken {
		t.Fatalf("file was modified despite --ignore-errors: %q", got)
	}
}

func TestFormatWithoutIgnoreErrorsIsFatal(t *testing.T) {
	var exited bool
	old := exit
	exit = func() { exited = true }
	defer func() { exit = old }()

	path := writeSchema(t, "broken.fbs", "table Monster {\n")

	cmd, err := New([]string{"format", path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cmd.SetOutput(new(bytes.Buffer))

	if err := cmd.Run(context.Background()); err != ErrPrintedError {
		t.Fatalf("Run = %v, want ErrPrintedError", err)
	}
	if !exited {
		t.Fatal("expected format to call exit without --ignore-errors")
	}
}
