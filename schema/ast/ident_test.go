// Copyright 2019 CUE Authors
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

package ast_test

import (
	"testing"

	"github.com/flatc-lang/flatc/schema/ast"
)

func TestIsValidIdent(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"foo", true},
		{"Foo_Bar", true},
		{"_hidden", true},
		{"foo1", true},
		{"1foo", false},
		{"foo-bar", false},
		{"foo bar", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ast.IsValidIdent(c.in); got != c.ok {
			t.Errorf("IsValidIdent(%q) = %v, want %v", c.in, got, c.ok)
		}
	}
}

func TestIsValidNamespace(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"Game.Sample", true},
		{"a.b.c", true},
		{"Game", true},
		{"", false},
		{"Game.", false},
		{".Game", false},
		{"Game..Sample", false},
		{"1Game", false},
	}
	for _, c := range cases {
		if got := ast.IsValidNamespace(c.in); got != c.ok {
			t.Errorf("IsValidNamespace(%q) = %v, want %v", c.in, got, c.ok)
		}
	}
}
