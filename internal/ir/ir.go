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

// Package ir declares the types that a translation of a schema.build.Map
// produces: a flat, fully resolved table of declarations addressed by
// their fully qualified name, with every type reference turned into a
// direct link rather than a name to be looked up again.
//
// Unlike the AST, the IR carries no source-text concerns (no comments,
// no token positions beyond what diagnostics still need) and is consumed
// directly by the generators: internal/gen/rust and the "dot"/"rust" CLI
// subcommands.
package ir

import (
	"github.com/flatc-lang/flatc/internal/ir/path"
)

// Kind classifies a scalar or compound type.
type Kind int

const (
	InvalidKind Kind = iota
	Bool
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
	String
	Vector
	Array
	Named // a reference to a Table, Struct, Enum, or Union declaration
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case UInt8:
		return "uint8"
	case Int16:
		return "int16"
	case UInt16:
		return "uint16"
	case Int32:
		return "int32"
	case UInt32:
		return "uint32"
	case Int64:
		return "int64"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Vector:
		return "vector"
	case Array:
		return "array"
	case Named:
		return "named"
	}
	return "invalid"
}

// IsInteger reports whether k is one of the signed or unsigned integer
// scalar kinds.
func (k Kind) IsInteger() bool {
	switch k {
	case Int8, UInt8, Int16, UInt16, Int32, UInt32, Int64, UInt64:
		return true
	}
	return false
}

// IsScalar reports whether k is a fixed-size scalar that a table field
// may carry a default value for (every numeric kind, plus bool; not
// string, not any compound kind).
func (k Kind) IsScalar() bool {
	return k.IsInteger() || k == Bool || k == Float32 || k == Float64
}

// scalarAliases maps every spelling FlatBuffers schemas accept for a
// scalar type — the canonical name and the C-style alias — to its Kind.
var scalarAliases = map[string]Kind{
	"bool": Bool,

	"int8": Int8, "byte": Int8,
	"uint8": UInt8, "ubyte": UInt8,
	"int16": Int16, "short": Int16,
	"uint16": UInt16, "ushort": UInt16,
	"int32": Int32, "int": Int32,
	"uint32": UInt32, "uint": UInt32,
	"int64": Int64, "long": Int64,
	"uint64": UInt64, "ulong": UInt64,

	"float32": Float32, "float": Float32,
	"float64": Float64, "double": Float64,

	"string": String,
}

// LookupScalar returns the Kind named by a bare type identifier (in
// either its canonical or C-style alias spelling) and whether name
// names a scalar type at all.
func LookupScalar(name string) (Kind, bool) {
	k, ok := scalarAliases[name]
	return k, ok
}

// Align returns the natural alignment, in bytes, of a scalar kind.
func (k Kind) Align() int {
	switch k {
	case Bool, Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Int64, UInt64, Float64:
		return 8
	case String, Vector, Array, Named:
		return 4 // stored as a uoffset_t
	}
	return 1
}

// Size returns the in-struct/in-table size, in bytes, of a scalar kind.
// For compound kinds this is the size of the offset or reference used to
// store it, not the size of the referent.
func (k Kind) Size() int {
	return k.Align()
}

// Type is a fully resolved type expression: either a scalar, a vector or
// fixed-size array of some Elem, or a Named reference to a declaration
// elsewhere in the same Declarations.
type Type struct {
	Kind Kind
	Elem *Type      // set when Kind is Vector or Array
	Len  int        // set when Kind is Array
	Ref  Declaration // set when Kind is Named
}

// Value is a resolved scalar literal: a table field default, an enum
// variant's underlying value, or a metadata value.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// Presence classifies how a table field's absence is represented on the
// wire, per spec.md's "Defaults and optionals" design note.
type Presence int

const (
	// Required fields must always be written. runtime/flatbuf does not
	// check this when a table is built.
	Required Presence = iota
	// Optional fields may be omitted with no default value implied;
	// absence at read time yields the zero value of the Go result type
	// (for scalars) or a false "present" flag.
	Optional
	// DefaultBacked fields carry an explicit default; writing the
	// default value is equivalent, on the wire, to omitting the field.
	DefaultBacked
)

// A Field is one member of a Table.
type Field struct {
	Name     string
	Type     Type
	ID       int // dense vtable slot index, assigned in §3 invariant 3's order
	Presence Presence
	Default  *Value // nil unless Presence == DefaultBacked

	// OriginalOrder is this field's position (0-based) in its table's
	// declaration, independent of ID: an `id:` attribute can reassign the
	// vtable slot without reordering the schema text, and generators that
	// want to present fields the way a human wrote them read this instead
	// of sorting by ID.
	OriginalOrder int

	Deprecated bool
	Key        bool
}

// A StructField is one member of a Struct: no defaults, no optionality,
// laid out at a fixed byte Offset within the struct.
type StructField struct {
	Name   string
	Type   Type
	Offset int
}

// Table is the IR form of a `table` declaration.
type Table struct {
	Name      string // fully qualified, e.g. "Game.Sample.Monster"
	Namespace path.Namespace
	Fields    []*Field
}

func (*Table) declaration() {}

// Struct is the IR form of a `struct` declaration.
type Struct struct {
	Name      string
	Namespace path.Namespace
	Fields    []*StructField
	Size      int // total size, rounded up to Align
	Align     int // max field alignment
}

func (*Struct) declaration() {}

// EnumVariant is one member of an Enum.
type EnumVariant struct {
	Name  string
	Value int64
}

// Enum is the IR form of an `enum` declaration.
type Enum struct {
	Name      string
	Namespace path.Namespace
	Repr      Kind // always an integer Kind
	Variants  []EnumVariant
}

func (*Enum) declaration() {}

// UnionVariant is one member of a Union. Tag 0 is reserved for the
// implicit NONE variant, which has no entry in Variants. Type.Kind is
// always one of String or Named (Named referencing a Table or Struct),
// per invariant 7.
type UnionVariant struct {
	Name string // the declared alias, or the referenced type's own name
	Type Type
	Tag  int
}

// Union is the IR form of a `union` declaration.
type Union struct {
	Name      string
	Namespace path.Namespace
	Variants  []UnionVariant
}

func (*Union) declaration() {}

// RPCMethod is one member of an RPCService.
type RPCMethod struct {
	Name     string
	Request  *Table
	Response *Table
	Metadata map[string]Value
}

// RPCService is the IR form of an `rpc_service` declaration.
type RPCService struct {
	Name      string
	Namespace path.Namespace
	Methods   []RPCMethod
}

func (*RPCService) declaration() {}

// Declaration is implemented by every named top-level declaration kind
// that can be the target of a type reference: Table, Struct, Enum,
// Union, and RPCService.
type Declaration interface {
	declaration()
}

// Declarations is the complete output of translating a build.Map: every
// reachable declaration, addressed by fully qualified name, plus the
// file-level attributes that apply to the whole compilation.
type Declarations struct {
	// ByName holds every declaration, keyed by its fully qualified
	// dotted name.
	ByName map[string]Declaration

	// Order lists the fully qualified names in declare-pass order
	// (file-id order, then declaration order within a file), giving
	// generators a deterministic iteration order.
	Order []string

	// Reachable has an entry for each name in Order. translate.Files sets
	// every entry to true, so the map does not tell declarations used by
	// the files the caller asked to load apart from ones that are only
	// present in an included file.
	Reachable map[string]bool

	RootType       *Table
	FileIdentifier string
	FileExtension  string

	// HasErrors reports whether translation accumulated any semantic
	// error. Declarations is still populated on a best-effort basis even
	// when true, so that --ignore-errors-style callers can proceed.
	HasErrors bool

	// Warnings holds non-fatal diagnostics, such as a field using
	// "obsolete" as a deprecated synonym for "deprecated". They never
	// affect HasErrors and never fail translation.
	Warnings []error
}
