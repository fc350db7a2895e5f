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

package scanner

import (
	"fmt"
	"testing"

	"github.com/flatc-lang/flatc/schema/token"
)

const /* class */ (
	special = iota
	literal
	operator
	keyword
)

func tokenclass(tok token.Token) int {
	switch {
	case tok.IsLiteral():
		return literal
	case tok.IsOperator():
		return operator
	case tok.IsKeyword():
		return keyword
	}
	return special
}

type elt struct {
	tok   token.Token
	lit   string
	class int
}

var testTokens = [...]elt{
	// Special tokens
	{token.COMMENT, "/* a comment */", special},
	{token.COMMENT, "// a comment\n", special},

	// Identifiers and basic type literals
	{token.IDENT, "foobar", literal},
	{token.IDENT, "Table1", literal},
	{token.IDENT, "field_name", literal},
	{token.INT, "0", literal},
	{token.INT, "123456789", literal},
	{token.INT, "0xcafebabe", literal},
	{token.INT, "-7", literal},
	{token.FLOAT, "0.", literal},
	{token.FLOAT, "3.14159265", literal},
	{token.FLOAT, "1.0e0", literal},
	{token.FLOAT, "1.0e+100", literal},
	{token.FLOAT, "1.0e-100", literal},
	{token.FLOAT, "inf", literal},
	{token.FLOAT, "-inf", literal},
	{token.FLOAT, "nan", literal},
	{token.STRING, `"abc"`, literal},
	{token.STRING, `"with \"escape\""`, literal},

	// Operators and delimiters
	{token.LBRACE, "{", operator},
	{token.RBRACE, "}", operator},
	{token.LPAREN, "(", operator},
	{token.RPAREN, ")", operator},
	{token.LBRACK, "[", operator},
	{token.RBRACK, "]", operator},
	{token.COLON, ":", operator},
	{token.SEMI, ";", operator},
	{token.COMMA, ",", operator},
	{token.PERIOD, ".", operator},
	{token.ASSIGN, "=", operator},

	// Keywords
	{token.TABLE, "table", keyword},
	{token.STRUCT, "struct", keyword},
	{token.ENUM, "enum", keyword},
	{token.UNION, "union", keyword},
	{token.NAMESPACE, "namespace", keyword},
	{token.INCLUDE, "include", keyword},
	{token.ATTRIBUTE, "attribute", keyword},
	{token.ROOT_TYPE, "root_type", keyword},
	{token.FILE_IDENTIFIER, "file_identifier", keyword},
	{token.FILE_EXTENSION, "file_extension", keyword},
	{token.RPC_SERVICE, "rpc_service", keyword},
	{token.TRUE, "true", keyword},
	{token.FALSE, "false", keyword},
	{token.NULL, "null", keyword},
}

const whitespace = "  \t  \n\n\n" // to separate tokens

var source = func() []byte {
	var src []byte
	for _, t := range testTokens {
		src = append(src, t.lit...)
		src = append(src, whitespace...)
	}
	return src
}()

func newlineCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}

func checkPosScan(t *testing.T, lit string, p token.Pos, expected token.Position) {
	t.Helper()
	pos := p.Position()
	if pos.Filename != expected.Filename {
		t.Errorf("bad filename for %q: got %s, expected %s", lit, pos.Filename, expected.Filename)
	}
	if pos.Offset != expected.Offset {
		t.Errorf("bad position for %q: got %d, expected %d", lit, pos.Offset, expected.Offset)
	}
	if pos.Line != expected.Line {
		t.Errorf("bad line for %q: got %d, expected %d", lit, pos.Line, expected.Line)
	}
	if pos.Column != expected.Column {
		t.Errorf("bad column for %q: got %d, expected %d", lit, pos.Column, expected.Column)
	}
}

// Verify that calling Scan() provides the correct results.
func TestScan(t *testing.T) {
	whitespaceLineCount := newlineCount(whitespace)

	eh := func(pos token.Position, msg string) {
		t.Errorf("error handler called at %v (msg = %s)", pos, msg)
	}

	var s Scanner
	s.Init(token.NewFile("", 1, len(source)), source, eh, ScanComments)

	epos := token.Position{
		Filename: "",
		Offset:   0,
		Line:     1,
		Column:   1,
	}

	index := 0
	for {
		pos, tok, lit := s.Scan()

		if tok == token.EOF {
			epos.Line = newlineCount(string(source))
			epos.Column = 2
		}
		checkPosScan(t, lit, pos, epos)

		e := elt{token.EOF, "", special}
		if index < len(testTokens) {
			e = testTokens[index]
			index++
		}
		if tok != e.tok {
			t.Errorf("bad token for %q: got %s, expected %s", lit, tok, e.tok)
		}
		if tokenclass(tok) != e.class {
			t.Errorf("bad class for %q: got %d, expected %d", lit, tokenclass(tok), e.class)
		}

		var elit string
		switch {
		case e.tok == token.COMMENT:
			elit = e.lit
			if elit[1] == '/' {
				// a //-style comment ends before its newline
				elit = elit[:len(elit)-1]
			}
		case e.tok.IsLiteral() || e.tok.IsKeyword():
			elit = e.lit
		}
		if lit != elit {
			t.Errorf("bad literal for %q: got %q, expected %q", lit, lit, elit)
		}

		if tok == token.EOF {
			break
		}

		epos.Offset += len(e.lit) + len(whitespace)
		epos.Line += newlineCount(e.lit) + whitespaceLineCount
	}

	if s.ErrorCount != 0 {
		t.Errorf("found %d errors", s.ErrorCount)
	}
}

func TestRelative(t *testing.T) {
	test := `
table Foo {
	// comment
	a: int32;
	b: /* inline */ int32;
}
`
	want := []string{
		`newline table    table`,
		`blank   IDENT    Foo`,
		`blank   {        `,
		`newline COMMENT  // comment`,
		`newline IDENT    a`,
		`nospace :        `,
		`blank   IDENT    int32`,
		`nospace ;        `,
		`newline IDENT    b`,
		`nospace :        `,
		`blank   COMMENT  /* inline */`,
		`blank   IDENT    int32`,
		`nospace ;        `,
		`newline }        `,
	}
	var s Scanner
	f := token.NewFile("TestRelative", 1, len(test))
	s.Init(f, []byte(test), nil, ScanComments)
	pos, tok, lit := s.Scan()
	var got []string
	for tok != token.EOF {
		got = append(got, fmt.Sprintf("%-7s %-8s %s", pos.RelPos(), tok, lit))
		pos, tok, lit = s.Scan()
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d:\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

// Verify that initializing the same scanner more than once works correctly.
func TestInit(t *testing.T) {
	var s Scanner

	src1 := "false true { }"
	f1 := token.NewFile("src1", 1, len(src1))
	s.Init(f1, []byte(src1), nil, 0)
	if f1.Size() != len(src1) {
		t.Errorf("bad file size: got %d, expected %d", f1.Size(), len(src1))
	}
	s.Scan()              // false
	s.Scan()              // true
	_, tok, _ := s.Scan() // {
	if tok != token.LBRACE {
		t.Errorf("bad token: got %s, expected %s", tok, token.LBRACE)
	}

	src2 := "null true { ]"
	f2 := token.NewFile("src2", 1, len(src2))
	s.Init(f2, []byte(src2), nil, 0)
	if f2.Size() != len(src2) {
		t.Errorf("bad file size: got %d, expected %d", f2.Size(), len(src2))
	}
	_, tok, _ = s.Scan()
	if tok != token.NULL {
		t.Errorf("bad token: got %s, expected %s", tok, token.NULL)
	}

	if s.ErrorCount != 0 {
		t.Errorf("found %d errors", s.ErrorCount)
	}
}

type errorCollector struct {
	cnt int
	msg string
	pos token.Position
}

func checkError(t *testing.T, src string, tok token.Token, offset int, lit, err string) {
	t.Helper()
	var s Scanner
	var h errorCollector
	eh := func(pos token.Position, msg string) {
		h.cnt++
		h.msg = msg
		h.pos = pos
	}
	s.Init(token.NewFile("", 1, len(src)), []byte(src), eh, ScanComments)
	_, tok0, lit0 := s.Scan()
	if tok0 != tok {
		t.Errorf("%q: got %s, expected %s", src, tok0, tok)
	}
	if tok0 != token.ILLEGAL && lit0 != lit {
		t.Errorf("%q: got literal %q, expected %q", src, lit0, lit)
	}
	cnt := 0
	if err != "" {
		cnt = 1
	}
	if h.cnt != cnt {
		t.Errorf("%q: got cnt %d, expected %d", src, h.cnt, cnt)
	}
	if h.msg != err {
		t.Errorf("%q: got msg %q, expected %q", src, h.msg, err)
	}
	if h.pos.Offset != offset {
		t.Errorf("%q: got offset %d, expected %d", src, h.pos.Offset, offset)
	}
}

var errorTests = []struct {
	src string
	tok token.Token
	pos int
	lit string
	err string
}{
	{"\a", token.ILLEGAL, 0, "\a", "illegal character U+0007"},
	{`^`, token.ILLEGAL, 0, "^", "illegal character U+005E '^'"},
	{"/**/", token.COMMENT, 0, "/**/", ""},
	{"/*", token.COMMENT, 0, "/*", "comment not terminated"},
	{"0", token.INT, 0, "0", ""},
	{"0x", token.INT, 0, "0x", "illegal hexadecimal number"},
	{`"abc`, token.STRING, 0, `"abc`, "string literal not terminated"},
	{`"\q"`, token.STRING, 2, `"\q"`, "unknown escape sequence"},
}

func TestScanErrors(t *testing.T) {
	for _, e := range errorTests {
		t.Run(e.src, func(t *testing.T) {
			checkError(t, e.src, e.tok, e.pos, e.lit, e.err)
		})
	}
}

func BenchmarkScan(b *testing.B) {
	b.StopTimer()
	file := token.NewFile("", 1, len(source))
	var s Scanner
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		s.Init(file, source, nil, ScanComments)
		for {
			_, tok, _ := s.Scan()
			if tok == token.EOF {
				break
			}
		}
	}
}
