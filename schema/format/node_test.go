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

package format_test

import (
	"testing"

	"github.com/flatc-lang/flatc/schema/ast"
	"github.com/flatc-lang/flatc/schema/format"
	"github.com/flatc-lang/flatc/schema/parser"
)

func TestNodeDecl(t *testing.T) {
	f, err := parser.ParseFile("input.fbs", `root_type Monster;`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := format.Node(f.Decls[0])
	if err != nil {
		t.Fatal(err)
	}
	if want := "root_type Monster;\n"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNodeExpr(t *testing.T) {
	e, err := parser.ParseExpr("input.fbs", `3.14`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := format.Node(e)
	if err != nil {
		t.Fatal(err)
	}
	if want := "3.14"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNodeUnsupported(t *testing.T) {
	_, err := format.Node(&ast.Comment{})
	if err == nil {
		t.Fatal("expected an error for an unsupported node type")
	}
}
