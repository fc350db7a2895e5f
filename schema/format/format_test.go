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

	"github.com/kr/pretty"

	"github.com/flatc-lang/flatc/schema/format"
	"github.com/flatc-lang/flatc/schema/parser"
)

func TestSource(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		out  string
	}{{
		"namespace",
		`namespace    example.game ;`,
		"namespace example.game;\n",
	}, {
		"include",
		`include   "common.fbs" ;`,
		`include "common.fbs";` + "\n",
	}, {
		"table with metadata and default",
		`table Monster (deprecated) {
			name:string;
			hp:int32=100;
		}`,
		"table Monster (deprecated) {\n    name: string;\n    hp: int32 = 100;\n}\n",
	}, {
		"enum",
		`enum Color:byte{Red,Green=2,Blue}`,
		"enum Color: byte {\n    Red,\n    Green = 2,\n    Blue\n}\n",
	}, {
		"union",
		`union Any{ Monster, a:Weapon }`,
		"union Any {\n    Monster,\n    a: Weapon\n}\n",
	}, {
		"vector and array field types",
		`struct Vec3(force_align:4) {
			xs:[int32];
			fixed:[int32:3];
		}`,
		"struct Vec3 (force_align: 4) {\n    xs: [int32];\n    fixed: [int32:3];\n}\n",
	}, {
		"rpc service",
		`rpc_service Monsters{
			Create(Monster):Monster(streaming:"server");
		}`,
		"rpc_service Monsters {\n    Create(Monster): Monster (streaming: \"server\");\n}\n",
	}}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := format.Source(tc.desc, tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tc.out {
				t.Errorf("got:\n%q\nwant:\n%q", got, tc.out)
			}
		})
	}
}

// Formatting output must itself be valid input, and formatting twice
// must be a no-op (idempotence).
func TestSourceIdempotent(t *testing.T) {
	const src = `
		namespace example.game;

		include "common.fbs";

		table Monster (deprecated) {
			name: string;
			hp: int32 = 100;
			inventory: [ubyte];
		}

		enum Color: byte {
			Red,
			Green = 2,
			Blue
		}
	`
	once, err := format.Source("input.fbs", src)
	if err != nil {
		t.Fatalf("first format: %v", err)
	}
	if _, err := parser.ParseFile("once.fbs", once); err != nil {
		t.Fatalf("formatted output does not parse: %v", err)
	}
	twice, err := format.Source("once.fbs", once)
	if err != nil {
		t.Fatalf("second format: %v", err)
	}
	if desc := pretty.Diff(string(once), string(twice)); len(desc) > 0 {
		t.Errorf("formatting is not idempotent:\n%v", desc)
	}
}
