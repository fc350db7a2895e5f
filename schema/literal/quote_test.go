// Copyright 2020 CUE Authors
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

package literal

import (
	"fmt"
	"testing"
)

func TestUnquote(t *testing.T) {
	testCases := []struct {
		in, out string
		err     error
	}{
		{`"Hello"`, "Hello", nil},
		{`"a\nb"`, "a\nb", nil},
		{`"\a\b\f\n\r\t\v\"\\"`, "\a\b\f\n\r\t\v\"\\", nil},
		{`"\x41"`, "A", nil},
		{`"A"`, "A", nil},
		{`"\q"`, "", errSyntax},
		{`"Hello`, "", errUnmatchedQuote},
		{`Hello"`, "", errSyntax},
		{`"\x4"`, "", errSyntax},
		{`"\u123"`, "", errSyntax},
	}
	for i, tc := range testCases {
		t.Run(fmt.Sprintf("%d/%s", i, tc.in), func(t *testing.T) {
			got, err := Unquote(tc.in)
			if err != tc.err {
				t.Errorf("error: got %v; want %v", err, tc.err)
			}
			if got != tc.out {
				t.Errorf("value: got %q; want %q", got, tc.out)
			}
		})
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	testCases := []string{
		"hello",
		"a\nb\tc",
		`she said "hi"`,
		"back\\slash",
	}
	for _, in := range testCases {
		t.Run(in, func(t *testing.T) {
			q := Quote(in)
			got, err := Unquote(q)
			if err != nil {
				t.Fatalf("Unquote(%q): %v", q, err)
			}
			if got != in {
				t.Errorf("round trip: got %q; want %q", got, in)
			}
		})
	}
}
