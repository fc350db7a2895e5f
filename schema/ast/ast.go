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

// Package ast declares the types used to represent syntax trees for
// FlatBuffers schema files.
package ast

import (
	"strings"

	"github.com/flatc-lang/flatc/schema/token"
)

// ----------------------------------------------------------------------------
// Interfaces
//
// There are three main classes of nodes: type expressions, declaration
// nodes, and metadata. The node fields correspond to the individual parts
// of the respective grammar productions.
//
// All nodes contain position information marking the beginning of the
// corresponding source text segment, accessible via the Pos accessor
// method, as well as an End position for the character immediately
// following the node. That range is used both for diagnostics and for
// re-attaching comments when formatting.

// A Node represents any node in the abstract syntax tree.
type Node interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node

	Comments() []*CommentGroup
	AddComment(*CommentGroup)
}

// A TypeExpr is implemented by all type-expression nodes: scalar type
// names, vector types, and named references to declared types.
type TypeExpr interface {
	Node
	typeExprNode()
}

func (*BadExpr) typeExprNode()   {}
func (*Ident) typeExprNode()     {}
func (*VectorType) typeExprNode() {}
func (*ArrayType) typeExprNode() {}

// A Decl node is implemented by every top-level declaration.
type Decl interface {
	Node
	declNode()
}

func (*BadDecl) declNode()        {}
func (*NamespaceDecl) declNode()  {}
func (*IncludeDecl) declNode()    {}
func (*TableDecl) declNode()      {}
func (*StructDecl) declNode()     {}
func (*EnumDecl) declNode()       {}
func (*UnionDecl) declNode()      {}
func (*RPCServiceDecl) declNode() {}
func (*RootTypeDecl) declNode()   {}
func (*FileIdentifierDecl) declNode() {}
func (*FileExtensionDecl) declNode()  {}
func (*AttributeDecl) declNode()     {}

// ----------------------------------------------------------------------------
// Comments

// comments is embedded in every node to implement the Comments()/
// AddComment() pair of the Node interface.
type comments struct {
	groups *[]*CommentGroup
}

func (c *comments) Comments() []*CommentGroup {
	if c.groups == nil {
		return []*CommentGroup{}
	}
	return *c.groups
}

func (c *comments) AddComment(cg *CommentGroup) {
	if cg == nil {
		return
	}
	if c.groups == nil {
		a := []*CommentGroup{cg}
		c.groups = &a
		return
	}
	*c.groups = append(*c.groups, cg)
}

// A Comment node represents a single //-style or /*-style comment.
type Comment struct {
	Slash token.Pos // position of "/" starting the comment
	Text  string    // comment text (excluding '\n' for //-style comments)
}

func (g *Comment) Comments() []*CommentGroup { return nil }
func (g *Comment) AddComment(*CommentGroup)  {}

func (c *Comment) Pos() token.Pos { return c.Slash }
func (c *Comment) End() token.Pos { return c.Slash.Add(len(c.Text)) }

// A CommentGroup represents a sequence of comments with no other tokens
// and no empty lines between them. A comment group immediately preceding
// a declaration is its doc comment.
type CommentGroup struct {
	Doc  bool
	Line bool // true if it is on the same line as the node's end pos.

	// Position indicates where a comment should be attached if a node has
	// multiple tokens. 0 means before the first token, 1 means before the
	// second, etc.
	Position int8
	List     []*Comment // len(List) > 0
}

func (g *CommentGroup) Pos() token.Pos { return g.List[0].Pos() }
func (g *CommentGroup) End() token.Pos { return g.List[len(g.List)-1].End() }

func (g *CommentGroup) Comments() []*CommentGroup { return nil }
func (g *CommentGroup) AddComment(*CommentGroup)  {}

func isWhitespace(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }

func stripTrailingWhitespace(s string) string {
	i := len(s)
	for i > 0 && isWhitespace(s[i-1]) {
		i--
	}
	return s[0:i]
}

// Text returns the text of the comment. Comment markers (//, /*, and
// */), the first space of a line comment, and leading and trailing
// empty lines are removed. Multiple empty lines are reduced to one, and
// trailing space on lines is trimmed. Unless the result is empty, it is
// newline-terminated.
func (g *CommentGroup) Text() string {
	if g == nil {
		return ""
	}
	comments := make([]string, len(g.List))
	for i, c := range g.List {
		comments[i] = c.Text
	}

	lines := make([]string, 0, 10)
	for _, c := range comments {
		switch c[1] {
		case '/':
			c = c[2:]
			if len(c) > 0 && c[0] == ' ' {
				c = c[1:]
			}
		case '*':
			c = c[2 : len(c)-2]
		}

		cl := strings.Split(c, "\n")
		for _, l := range cl {
			lines = append(lines, stripTrailingWhitespace(l))
		}
	}

	n := 0
	for _, line := range lines {
		if line != "" || n > 0 && lines[n-1] != "" {
			lines[n] = line
			n++
		}
	}
	lines = lines[0:n]

	if n > 0 && lines[n-1] != "" {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// ----------------------------------------------------------------------------
// Metadata

// A Metadatum is one "key" or "key: value" entry in a declaration's
// parenthesized metadata list, e.g. `(id: 3, required)`.
type Metadatum struct {
	comments
	Key      *Ident
	Colon    token.Pos // IsValid if a value is present
	Value    Expr      // nil if this is a bare key
	Comma    token.Pos
}

func (m *Metadatum) Pos() token.Pos { return m.Key.Pos() }
func (m *Metadatum) End() token.Pos {
	if m.Value != nil {
		return m.Value.End()
	}
	return m.Key.End()
}

// Metadata is the parenthesized list following a declaration, field, enum
// value, or union variant, e.g. `(deprecated, id: 3)`.
type Metadata struct {
	comments
	Lparen token.Pos
	List   []*Metadatum
	Rparen token.Pos
}

func (m *Metadata) Pos() token.Pos { return m.Lparen }
func (m *Metadata) End() token.Pos { return m.Rparen.Add(1) }

// Get returns the value expression for key, and whether key was present
// at all (a bare key with no value returns ok==true, val==nil).
func (m *Metadata) Get(key string) (val Expr, ok bool) {
	if m == nil {
		return nil, false
	}
	for _, md := range m.List {
		if md.Key.Name == key {
			return md.Value, true
		}
	}
	return nil, false
}

// ----------------------------------------------------------------------------
// Expressions and type references

// An Expr is implemented by nodes that can appear as a literal default
// value or metadata value: identifiers (for enum/bool constants),
// numeric and string literals.
type Expr interface {
	Node
	exprNode()
}

func (*BadExpr) exprNode()  {}
func (*Ident) exprNode()    {}
func (*BasicLit) exprNode() {}

// A BadExpr node is a placeholder for expressions containing syntax
// errors for which no correct expression node can be created.
type BadExpr struct {
	comments
	From, To token.Pos
}

func (x *BadExpr) Pos() token.Pos { return x.From }
func (x *BadExpr) End() token.Pos { return x.To }

// An Ident node represents an identifier: a field/type/namespace name
// reference, or (as an Expr) a bare constant such as an enum value name
// or `true`/`false`/`null`.
type Ident struct {
	comments
	NamePos token.Pos
	Name    string
}

func (x *Ident) Pos() token.Pos { return x.NamePos }
func (x *Ident) End() token.Pos { return x.NamePos.Add(len(x.Name)) }

// A BasicLit node represents a numeric or string literal.
type BasicLit struct {
	comments
	ValuePos token.Pos
	Kind     token.Token // INT, FLOAT, or STRING
	Value    string      // literal text, e.g. 42, -7, 3.14, inf, "foo"
}

func (x *BasicLit) Pos() token.Pos { return x.ValuePos }
func (x *BasicLit) End() token.Pos { return x.ValuePos.Add(len(x.Value)) }

// A VectorType node represents a vector type expression: `[` Elem `]`.
type VectorType struct {
	comments
	Lbrack token.Pos
	Elem   TypeExpr
	Rbrack token.Pos
}

func (x *VectorType) Pos() token.Pos { return x.Lbrack }
func (x *VectorType) End() token.Pos { return x.Rbrack.Add(1) }

// An ArrayType node represents a fixed-length array type expression used
// in structs: `[` Elem `:` Len `]`.
type ArrayType struct {
	comments
	Lbrack token.Pos
	Elem   TypeExpr
	Colon  token.Pos
	Len    *BasicLit
	Rbrack token.Pos
}

func (x *ArrayType) Pos() token.Pos { return x.Lbrack }
func (x *ArrayType) End() token.Pos { return x.Rbrack.Add(1) }

// ----------------------------------------------------------------------------
// Fields, enum values, union variants, RPC methods

// A Field represents one field of a table or struct declaration.
type Field struct {
	comments
	Name     *Ident
	Colon    token.Pos
	Type     TypeExpr
	Eq       token.Pos // IsValid if Default is present
	Default  Expr      // nil if no default value is given
	Metadata *Metadata // nil if absent
	Semi     token.Pos
}

func (d *Field) Pos() token.Pos { return d.Name.Pos() }
func (d *Field) End() token.Pos { return d.Semi.Add(1) }

// An EnumValue represents one `Name` or `Name = Value` member of an enum
// declaration.
type EnumValue struct {
	comments
	Name  *Ident
	Eq    token.Pos // IsValid if Value is present
	Value *BasicLit // nil if implicit (previous value + 1, or 0 for the first)
}

func (v *EnumValue) Pos() token.Pos { return v.Name.Pos() }
func (v *EnumValue) End() token.Pos {
	if v.Value != nil {
		return v.Value.End()
	}
	return v.Name.End()
}

// A UnionVariant represents one `Type` or `Alias: Type` member of a union
// declaration.
type UnionVariant struct {
	comments
	Alias *Ident // nil if the variant has no explicit alias
	Colon token.Pos
	Type  *Ident
}

func (v *UnionVariant) Pos() token.Pos {
	if v.Alias != nil {
		return v.Alias.Pos()
	}
	return v.Type.Pos()
}
func (v *UnionVariant) End() token.Pos { return v.Type.End() }

// An RPCMethod represents one `Name(Request): Response (metadata);`
// member of an rpc_service declaration.
type RPCMethod struct {
	comments
	Name     *Ident
	Lparen   token.Pos
	Request  *Ident
	Rparen   token.Pos
	Colon    token.Pos
	Response *Ident
	Metadata *Metadata
	Semi     token.Pos
}

func (m *RPCMethod) Pos() token.Pos { return m.Name.Pos() }
func (m *RPCMethod) End() token.Pos { return m.Semi.Add(1) }

// ----------------------------------------------------------------------------
// Top-level declarations

// A BadDecl node is a placeholder for a declaration containing syntax
// errors for which no correct declaration node could be created; parsing
// resumes at the next recognized top-level keyword.
type BadDecl struct {
	comments
	From, To token.Pos
}

func (d *BadDecl) Pos() token.Pos { return d.From }
func (d *BadDecl) End() token.Pos { return d.To }

// A NamespaceDecl represents `namespace a.b.c;`.
type NamespaceDecl struct {
	comments
	Namespace token.Pos
	Name      *Ident // dotted name stored verbatim, e.g. "a.b.c"
	Semi      token.Pos
}

func (d *NamespaceDecl) Pos() token.Pos { return d.Namespace }
func (d *NamespaceDecl) End() token.Pos { return d.Semi.Add(1) }

// An IncludeDecl represents `include "path/to/other.fbs";`.
type IncludeDecl struct {
	comments
	Include token.Pos
	Path    *BasicLit
	Semi    token.Pos
}

func (d *IncludeDecl) Pos() token.Pos { return d.Include }
func (d *IncludeDecl) End() token.Pos { return d.Semi.Add(1) }

// A TableDecl represents `table Name (metadata) { fields }`.
type TableDecl struct {
	comments
	Table    token.Pos
	Name     *Ident
	Metadata *Metadata
	Lbrace   token.Pos
	Fields   []*Field
	Rbrace   token.Pos
}

func (d *TableDecl) Pos() token.Pos { return d.Table }
func (d *TableDecl) End() token.Pos { return d.Rbrace.Add(1) }

// A StructDecl represents `struct Name (metadata) { fields }`.
type StructDecl struct {
	comments
	Struct   token.Pos
	Name     *Ident
	Metadata *Metadata
	Lbrace   token.Pos
	Fields   []*Field
	Rbrace   token.Pos
}

func (d *StructDecl) Pos() token.Pos { return d.Struct }
func (d *StructDecl) End() token.Pos { return d.Rbrace.Add(1) }

// An EnumDecl represents `enum Name : repr (metadata) { values }`.
type EnumDecl struct {
	comments
	Enum     token.Pos
	Name     *Ident
	Colon    token.Pos // IsValid when an explicit underlying type is given
	Repr     *Ident    // underlying integer type, e.g. "int32"
	Metadata *Metadata
	Lbrace   token.Pos
	Values   []*EnumValue
	Rbrace   token.Pos
}

func (d *EnumDecl) Pos() token.Pos { return d.Enum }
func (d *EnumDecl) End() token.Pos { return d.Rbrace.Add(1) }

// A UnionDecl represents `union Name (metadata) { variants }`.
type UnionDecl struct {
	comments
	Union    token.Pos
	Name     *Ident
	Metadata *Metadata
	Lbrace   token.Pos
	Variants []*UnionVariant
	Rbrace   token.Pos
}

func (d *UnionDecl) Pos() token.Pos { return d.Union }
func (d *UnionDecl) End() token.Pos { return d.Rbrace.Add(1) }

// An RPCServiceDecl represents `rpc_service Name { methods }`.
type RPCServiceDecl struct {
	comments
	RPCService token.Pos
	Name       *Ident
	Lbrace     token.Pos
	Methods    []*RPCMethod
	Rbrace     token.Pos
}

func (d *RPCServiceDecl) Pos() token.Pos { return d.RPCService }
func (d *RPCServiceDecl) End() token.Pos { return d.Rbrace.Add(1) }

// A RootTypeDecl represents `root_type Name;`.
type RootTypeDecl struct {
	comments
	RootType token.Pos
	Name     *Ident
	Semi     token.Pos
}

func (d *RootTypeDecl) Pos() token.Pos { return d.RootType }
func (d *RootTypeDecl) End() token.Pos { return d.Semi.Add(1) }

// A FileIdentifierDecl represents `file_identifier "ABCD";`.
type FileIdentifierDecl struct {
	comments
	FileIdentifier token.Pos
	Value          *BasicLit
	Semi           token.Pos
}

func (d *FileIdentifierDecl) Pos() token.Pos { return d.FileIdentifier }
func (d *FileIdentifierDecl) End() token.Pos { return d.Semi.Add(1) }

// A FileExtensionDecl represents `file_extension "ext";`.
type FileExtensionDecl struct {
	comments
	FileExtension token.Pos
	Value         *BasicLit
	Semi          token.Pos
}

func (d *FileExtensionDecl) Pos() token.Pos { return d.FileExtension }
func (d *FileExtensionDecl) End() token.Pos { return d.Semi.Add(1) }

// An AttributeDecl represents `attribute "name";`, declaring a
// user-defined metadata key as legal so that its later use is not
// flagged as unknown.
type AttributeDecl struct {
	comments
	Attribute token.Pos
	Value     *BasicLit
	Semi      token.Pos
}

func (d *AttributeDecl) Pos() token.Pos { return d.Attribute }
func (d *AttributeDecl) End() token.Pos { return d.Semi.Add(1) }

// ----------------------------------------------------------------------------
// Files

// A File node represents a single parsed FlatBuffers schema file.
//
// The Comments list contains all comments in the source file in order of
// appearance, including the comments that are pointed to from other
// nodes via their own comment groups.
type File struct {
	Filename string
	comments
	Decls []Decl // top-level declarations, in source order
}

func (f *File) Pos() token.Pos {
	if len(f.Decls) > 0 {
		return f.Decls[0].Pos()
	}
	return token.NoPos
}

func (f *File) End() token.Pos {
	if n := len(f.Decls); n > 0 {
		return f.Decls[n-1].End()
	}
	return token.NoPos
}

// Namespace returns the namespace declared by the (at most one, enforced
// by the parser/translator) namespace declaration in f, or "" if f has
// none.
func (f *File) Namespace() string {
	for _, d := range f.Decls {
		if n, ok := d.(*NamespaceDecl); ok {
			return n.Name.Name
		}
	}
	return ""
}
