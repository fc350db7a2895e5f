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

// Package format pretty-prints FlatBuffers schema syntax trees back into
// source text.
package format

import (
	"fmt"
	"strings"

	"github.com/flatc-lang/flatc/schema/ast"
	"github.com/flatc-lang/flatc/schema/parser"
)

// An Option configures the printer.
type Option func(c *config)

type config struct {
	indent string
}

// TabIndent configures the printer to indent with tabs instead of the
// default four spaces.
func TabIndent() Option {
	return func(c *config) { c.indent = "\t" }
}

// UseSpaces configures the printer to indent with n spaces instead of
// tabs. This is the default, with n == 4.
func UseSpaces(n int) Option {
	return func(c *config) { c.indent = strings.Repeat(" ", n) }
}

func newConfig(opts []Option) *config {
	c := &config{indent: strings.Repeat(" ", 4)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Node formats an arbitrary AST node and returns the resulting source
// text. Supported node types are *ast.File, any ast.Decl, and any
// ast.Expr.
func Node(node ast.Node, opts ...Option) ([]byte, error) {
	p := &printer{cfg: newConfig(opts)}
	switch x := node.(type) {
	case *ast.File:
		p.file(x)
	case ast.Decl:
		p.leadComments(x)
		p.decl(x)
		p.trailComment(x)
	case ast.Expr:
		p.expr(x)
	default:
		return nil, fmt.Errorf("format: unsupported node type %T", node)
	}
	return p.buf.Bytes(), nil
}

// Source parses filename (see parser.ParseFile for the accepted src
// types) and formats the result, so that re-parsing the output produces
// an AST equivalent to the input modulo formatting.
func Source(filename string, src interface{}, opts ...Option) ([]byte, error) {
	f, err := parser.ParseFile(filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	return Node(f, opts...)
}
