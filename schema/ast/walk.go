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

package ast

import (
	"fmt"

	"github.com/flatc-lang/flatc/schema/token"
)

// Comments returns the comment groups attached to n.
func Comments(n Node) []*CommentGroup {
	return n.Comments()
}

// Walk traverses an AST in depth-first order: It starts by calling f(node);
// node must not be nil. If before returns true, Walk invokes f recursively for
// each of the non-nil children of node, followed by a call of after. Both
// functions may be nil. If before is nil, it is assumed to always return true.
func Walk(node Node, before func(Node) bool, after func(Node)) {
	v := &inspector{before: before, after: after}
	walk(node, v.Before, v.After)
}

// WalkVisitor traverses an AST in depth-first order with a [Visitor].
func WalkVisitor(node Node, visitor Visitor) {
	v := &stackVisitor{stack: []Visitor{visitor}}
	walk(node, v.Before, v.After)
}

// stackVisitor helps implement Visitor support on top of Walk.
type stackVisitor struct {
	stack []Visitor
}

func (v *stackVisitor) Before(node Node) bool {
	current := v.stack[len(v.stack)-1]
	next := current.Before(node)
	if next == nil {
		return false
	}
	v.stack = append(v.stack, next)
	return true
}

func (v *stackVisitor) After(node Node) {
	v.stack[len(v.stack)-1] = nil // set visitor to nil so it can be garbage collected
	v.stack = v.stack[:len(v.stack)-1]
}

// A Visitor's before method is invoked for each node encountered by Walk.
// If the result Visitor w is true, Walk visits each of the children
// of node with the Visitor w, followed by a call of w.After.
type Visitor interface {
	Before(node Node) (w Visitor)
	After(node Node)
}

func walkList[N Node](list []N, before func(Node) bool, after func(Node)) {
	for _, node := range list {
		walk(node, before, after)
	}
}

func walk(node Node, before func(Node) bool, after func(Node)) {
	if !before(node) {
		return
	}

	walkList(Comments(node), before, after)

	switch n := node.(type) {
	// Comments and metadata
	case *Comment:
		// nothing to do

	case *CommentGroup:
		walkList(n.List, before, after)

	case *Metadatum:
		walk(n.Key, before, after)
		if n.Value != nil {
			walk(n.Value, before, after)
		}

	case *Metadata:
		walkList(n.List, before, after)

	// Type expressions
	case *BadExpr, *Ident, *BasicLit:
		// nothing to do

	case *VectorType:
		walk(n.Elem, before, after)

	case *ArrayType:
		walk(n.Elem, before, after)
		walk(n.Len, before, after)

	// Fields and members
	case *Field:
		walk(n.Name, before, after)
		walk(n.Type, before, after)
		if n.Default != nil {
			walk(n.Default, before, after)
		}
		if n.Metadata != nil {
			walk(n.Metadata, before, after)
		}

	case *EnumValue:
		walk(n.Name, before, after)
		if n.Value != nil {
			walk(n.Value, before, after)
		}

	case *UnionVariant:
		if n.Alias != nil {
			walk(n.Alias, before, after)
		}
		walk(n.Type, before, after)

	case *RPCMethod:
		walk(n.Name, before, after)
		walk(n.Request, before, after)
		walk(n.Response, before, after)
		if n.Metadata != nil {
			walk(n.Metadata, before, after)
		}

	// Declarations
	case *BadDecl:
		// nothing to do

	case *NamespaceDecl:
		walk(n.Name, before, after)

	case *IncludeDecl:
		walk(n.Path, before, after)

	case *TableDecl:
		walk(n.Name, before, after)
		if n.Metadata != nil {
			walk(n.Metadata, before, after)
		}
		walkList(n.Fields, before, after)

	case *StructDecl:
		walk(n.Name, before, after)
		if n.Metadata != nil {
			walk(n.Metadata, before, after)
		}
		walkList(n.Fields, before, after)

	case *EnumDecl:
		walk(n.Name, before, after)
		if n.Repr != nil {
			walk(n.Repr, before, after)
		}
		if n.Metadata != nil {
			walk(n.Metadata, before, after)
		}
		walkList(n.Values, before, after)

	case *UnionDecl:
		walk(n.Name, before, after)
		if n.Metadata != nil {
			walk(n.Metadata, before, after)
		}
		walkList(n.Variants, before, after)

	case *RPCServiceDecl:
		walk(n.Name, before, after)
		walkList(n.Methods, before, after)

	case *RootTypeDecl:
		walk(n.Name, before, after)

	case *FileIdentifierDecl:
		walk(n.Value, before, after)

	case *FileExtensionDecl:
		walk(n.Value, before, after)

	case *AttributeDecl:
		walk(n.Value, before, after)

	// Files
	case *File:
		walkList(n.Decls, before, after)

	default:
		panic(fmt.Sprintf("Walk: unexpected node type %T", n))
	}

	after(node)
}

type inspector struct {
	before func(Node) bool
	after  func(Node)

	commentStack []commentFrame
	current      commentFrame
}

type commentFrame struct {
	cg  []*CommentGroup
	pos int8
}

func (f *inspector) Before(node Node) bool {
	if f.before == nil || f.before(node) {
		f.commentStack = append(f.commentStack, f.current)
		f.current = commentFrame{cg: Comments(node)}
		f.visitComments(f.current.pos)
		return true
	}
	return false
}

func (f *inspector) After(node Node) {
	f.visitComments(127)
	p := len(f.commentStack) - 1
	f.current = f.commentStack[p]
	f.commentStack = f.commentStack[:p]
	f.current.pos++
	if f.after != nil {
		f.after(node)
	}
}

func (f *inspector) Token(t token.Token) {
	f.current.pos++
}

func (f *inspector) visitComments(pos int8) {
	c := &f.current
	for ; len(c.cg) > 0; c.cg = c.cg[1:] {
		cg := c.cg[0]
		if cg.Position == pos {
			continue
		}
		if f.before == nil || f.before(cg) {
			for _, c := range cg.List {
				if f.before == nil || f.before(c) {
					if f.after != nil {
						f.after(c)
					}
				}
			}
			if f.after != nil {
				f.after(cg)
			}
		}
	}
}
