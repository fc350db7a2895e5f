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
	"io"
	"testing"
)

func TestHelp(t *testing.T) {
	for _, args := range [][]string{
		{"help"},
		{"--help"},
		{"-h"},
		{"check", "--help"},
		{"format", "-h"},
	} {
		cmd, err := New(args)
		if err != nil {
			t.Fatalf("New(%v): %v", args, err)
		}
		cmd.SetOutput(io.Discard)
		if err := cmd.Run(context.Background()); err != nil {
			t.Errorf("Run(%v) = %v, want nil", args, err)
		}
	}
}

func TestRunReportsHasErr(t *testing.T) {
	old := exit
	exit = func() {}
	defer func() { exit = old }()

	cmd, err := New([]string{"check", "does-not-exist.fbs"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	err = cmd.Run(context.Background())
	if err != ErrPrintedError {
		t.Fatalf("Run = %v, want ErrPrintedError", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a diagnostic to be printed for a missing file")
	}
}

func TestFlagNameEnsureAdded(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an unregistered flag")
		}
	}()

	cmd, err := New([]string{"check"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// The root command never registers --ignore-errors (only format does),
	// so looking it up here must panic rather than silently read false.
	flagIgnoreErrors.Bool(cmd)
}
