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

// Package build loads a FlatBuffers schema file and everything it
// transitively includes into a single in-memory Map, resolving each
// include relative to the file that names it.
package build

import (
	"github.com/flatc-lang/flatc/schema/ast"
	"github.com/flatc-lang/flatc/schema/parser"
)

// A Context holds options shared by every Map built from it.
type Context struct {
	parseOptions []parser.Option

	initialized bool
}

// Option configures a Context.
type Option func(c *Context)

// ParseOptions sets the parser.Option values used when parsing every file
// added to Maps created from this Context.
func ParseOptions(mode ...parser.Option) Option {
	return func(c *Context) { c.parseOptions = mode }
}

// NewContext creates a new build Context.
func NewContext(opts ...Option) *Context {
	c := &Context{}
	for _, o := range opts {
		o(c)
	}
	c.initialized = true
	return c
}

// NewMap creates an empty Map associated with this Context.
func (c *Context) NewMap() *Map {
	return &Map{
		ctxt:  c,
		Files: map[string]*ast.File{},
	}
}
