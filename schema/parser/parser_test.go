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

package parser

import (
	"strings"
	"testing"

	"github.com/flatc-lang/flatc/schema/ast"
)

func TestParseFileValid(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
	}{{
		"empty file", "",
	}, {
		"namespace only",
		`namespace example.game;`,
	}, {
		"include",
		`include "common.fbs";`,
	}, {
		"simple table",
		`table Monster {
			name: string;
			hp: int32 = 100;
		}`,
	}, {
		"table with metadata",
		`table Monster (max_size: 128) {
			name: string (required);
			hp: int32 = 100 (deprecated);
		}`,
	}, {
		"struct with vector and array fields",
		`struct Vec3 {
			x: float;
			y: float;
			z: float;
		}
		table Monster {
			pos: Vec3;
			inventory: [ubyte];
			path: [Vec3:4];
		}`,
	}, {
		"enum with explicit repr and values",
		`enum Color : byte { Red = 0, Green = 1, Blue = 2 }`,
	}, {
		"enum with implicit values",
		`enum Color : byte { Red, Green, Blue }`,
	}, {
		"union with aliases",
		`union Any { Monster, pos: Vec3 }`,
	}, {
		"rpc service",
		`rpc_service Monsters {
			GetMonster(MonsterRequest): Monster (streaming: "server");
		}`,
	}, {
		"root type and file identifier",
		`root_type Monster;
		file_identifier "MONS";
		file_extension "mon";`,
	}, {
		"attribute declaration",
		`attribute "priority";
		table T { a: int (priority: 1); }`,
	}, {
		"comments attach as doc comments",
		`// Monster is the player's nemesis.
		table Monster {
			// hp is the monster's remaining health.
			hp: int32;
		}`,
	}}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f, err := ParseFile("input.fbs", tc.in, ParseComments)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f == nil {
				t.Fatalf("ParseFile returned nil File")
			}
		})
	}
}

func TestParseFileErrors(t *testing.T) {
	testCases := []struct {
		desc    string
		in      string
		wantErr string
	}{{
		"missing semicolon after namespace",
		`namespace a.b`,
		"expected ';'",
	}, {
		"missing colon in field",
		`table T { a int; }`,
		"expected ':'",
	}, {
		"unterminated table",
		`table T { a: int;`,
		"expected '}'",
	}, {
		"bad top-level token",
		`42`,
		"expected a declaration",
	}, {
		"second namespace declaration",
		`namespace a;
		namespace b;`,
		"only one namespace declaration",
	}}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ParseFile("input.fbs", tc.in)
			if err == nil {
				t.Fatalf("ParseFile(%q): expected error, got none", tc.in)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("ParseFile(%q): got error %q, want it to contain %q", tc.in, err, tc.wantErr)
			}
		})
	}
}

func TestParseFileRecoversAfterError(t *testing.T) {
	const src = `
	table Broken {
		a int;
	}
	table OK {
		b: int32;
	}
	`
	f, err := ParseFile("input.fbs", src)
	if err == nil {
		t.Fatalf("expected a parse error for the malformed field")
	}
	if len(f.Decls) != 2 {
		t.Fatalf("expected parsing to recover and produce 2 declarations, got %d", len(f.Decls))
	}
	ok, isTable := f.Decls[1].(*ast.TableDecl)
	if !isTable || ok.Name.Name != "OK" {
		t.Fatalf("expected second declaration to be table OK, got %#v", f.Decls[1])
	}
}

func TestParseExprScalars(t *testing.T) {
	testCases := []struct {
		in   string
		kind string
	}{
		{"42", "*ast.BasicLit"},
		{"3.14", "*ast.BasicLit"},
		{`"hi"`, "*ast.BasicLit"},
		{"true", "*ast.Ident"},
		{"Red", "*ast.Ident"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := parseExprString(tc.in)
			if err != nil {
				t.Fatalf("parseExprString(%q): %v", tc.in, err)
			}
			if e == nil {
				t.Fatalf("parseExprString(%q): got nil expression", tc.in)
			}
		})
	}
}

func TestParseNamespaceDotted(t *testing.T) {
	f, err := ParseFile("input.fbs", `namespace com.example.game;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := f.Decls[0].(*ast.NamespaceDecl)
	if !ok {
		t.Fatalf("expected a NamespaceDecl, got %#v", f.Decls[0])
	}
	if got, want := n.Name.Name, "com.example.game"; got != want {
		t.Errorf("got namespace %q, want %q", got, want)
	}
}
