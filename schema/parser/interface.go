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

// This file contains the exported entry points for invoking the parser.

package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/flatc-lang/flatc/schema/ast"
	"github.com/flatc-lang/flatc/schema/errors"
	"github.com/flatc-lang/flatc/schema/token"
)

// If src != nil, readSource converts src to a []byte if possible;
// otherwise it returns an error. If src == nil, readSource returns
// the result of reading the file specified by filename.
func readSource(filename string, src interface{}) ([]byte, error) {
	if src != nil {
		switch s := src.(type) {
		case string:
			return []byte(s), nil
		case []byte:
			return s, nil
		case *bytes.Buffer:
			if s != nil {
				return s.Bytes(), nil
			}
		case io.Reader:
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, s); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
		return nil, fmt.Errorf("invalid source type %T", src)
	}
	return os.ReadFile(filename)
}

// Option specifies a parse option.
type Option func(p *parser)

var (
	// ParseComments causes comments to be parsed and attached to the AST.
	ParseComments Option = parseComments
	parseComments        = func(p *parser) {
		p.mode |= parseCommentsMode
	}

	// Trace causes parsing to print a trace of parsed productions.
	Trace    Option = traceOpt
	traceOpt        = func(p *parser) {
		p.mode |= traceMode
	}

	// AllErrors is accepted but has no effect: the parser reports every
	// error whether or not it is set.
	AllErrors Option = allErrors
	allErrors        = func(p *parser) {
		p.mode |= allErrorsMode
	}

	// AllowPartial is consulted only by ParseExpr, which then does not
	// require the expression to be followed by the end of the source.
	// ParseFile ignores it.
	AllowPartial Option = allowPartial
	allowPartial        = func(p *parser) {
		p.mode |= partialMode
	}
)

// A mode value is a set of flags (or 0). They control optional parser
// functionality.
type mode uint

const (
	parseCommentsMode mode = 1 << iota // parse comments and add them to the AST
	traceMode                          // print a trace of parsed productions
	allErrorsMode                      // no effect; every error is reported
	partialMode                        // tolerate a source fragment that doesn't end in EOF
)

// ParseFile parses a single FlatBuffers schema file and returns the
// corresponding File node.
//
// The source code may be provided via the filename, or via the src
// parameter. If src != nil, ParseFile parses the source from src and
// filename is only used when recording position information; src must be
// a string, []byte, or io.Reader. If src == nil, ParseFile reads the file
// specified by filename from disk.
//
// If the source couldn't be read, the returned AST is nil and the error
// indicates the specific failure. If the source was read but syntax
// errors were found, the result is a partial AST (with Bad* nodes
// standing in for the fragments that could not be parsed) and err is a
// non-nil errors.Error; when there are several errors it is a list sorted
// by file position.
func ParseFile(filename string, src interface{}, mode ...Option) (f *ast.File, err error) {
	text, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}

	var p parser
	defer func() {
		if p.panicking {
			recover()
		}

		if f == nil {
			f = &ast.File{Filename: filename}
		}

		err = errors.Sanitize(p.errs)
	}()

	p.init(filename, text, mode)
	f = p.parseFile()
	f.Filename = filename

	return f, err
}

// ParseExpr is a convenience function for parsing a single default-value
// or metadata-value expression (an identifier, or a numeric or string
// literal). The arguments have the same meaning as for ParseFile.
func ParseExpr(filename string, src interface{}, mode ...Option) (ast.Expr, error) {
	text, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}

	var p parser
	defer func() {
		if p.panicking {
			recover()
		}
	}()

	p.init(filename, text, mode)
	e := p.parseScalar()

	if p.mode&partialMode == 0 {
		p.expect(token.EOF)
	}

	if p.errs != nil {
		return nil, errors.Sanitize(p.errs)
	}

	return e, nil
}

// parseExprString is a convenience function for obtaining the AST of a
// single scalar expression x. The position information recorded in the
// AST is undefined and the filename used in error messages is empty.
func parseExprString(x string) (ast.Expr, error) {
	return ParseExpr("", []byte(x))
}
