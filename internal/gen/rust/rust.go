// Copyright 2024 CUE Authors
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

// Package rust is a stub generator: it renders an internal/ir.Declarations
// as Rust type definitions (structs, enums, and unions) that describe a
// schema's shape. It intentionally stops short of generating a working
// flatbuffers runtime binding — accessors backed by runtime/flatbuf are
// out of scope for a stub generator — so that the declaration table's
// read-only contract (Kind/Fields/Variants/Align/Size) is exercised by at
// least one consumer beyond the CLI's own "dot" command.
package rust

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flatc-lang/flatc/internal/ir"
)

// Option configures Generate's output.
type Option func(*config)

type config struct {
	blankLines bool
}

// Format inserts a blank line between generated items, for readability.
// Without it, Generate emits the most compact rendering it can.
func Format(on bool) Option {
	return func(c *config) { c.blankLines = on }
}

// Generate renders every declaration in decls as a Rust type definition, in
// decls.Order.
func Generate(decls *ir.Declarations, opts ...Option) ([]byte, error) {
	c := &config{}
	for _, o := range opts {
		o(c)
	}

	var b strings.Builder
	b.WriteString("// Code generated by flatc rust. DO NOT EDIT.\n\n")

	for i, name := range decls.Order {
		if i > 0 && c.blankLines {
			b.WriteString("\n")
		}
		switch d := decls.ByName[name].(type) {
		case *ir.Table:
			genTable(&b, d)
		case *ir.Struct:
			genStruct(&b, d)
		case *ir.Enum:
			genEnum(&b, d)
		case *ir.Union:
			genUnion(&b, d)
		case *ir.RPCService:
			genRPCService(&b, d)
		}
	}
	return []byte(b.String()), nil
}

func rustIdent(namespace string, name string) string {
	if namespace == "" {
		return name
	}
	return strings.ReplaceAll(namespace, ".", "_") + "_" + name
}

func rustType(t ir.Type) string {
	switch t.Kind {
	case ir.Bool:
		return "bool"
	case ir.Int8:
		return "i8"
	case ir.UInt8:
		return "u8"
	case ir.Int16:
		return "i16"
	case ir.UInt16:
		return "u16"
	case ir.Int32:
		return "i32"
	case ir.UInt32:
		return "u32"
	case ir.Int64:
		return "i64"
	case ir.UInt64:
		return "u64"
	case ir.Float32:
		return "f32"
	case ir.Float64:
		return "f64"
	case ir.String:
		return "String"
	case ir.Vector:
		return fmt.Sprintf("Vec<%s>", rustType(*t.Elem))
	case ir.Array:
		return fmt.Sprintf("[%s; %d]", rustType(*t.Elem), t.Len)
	case ir.Named:
		return rustIdent(namespaceOf(t.Ref), nameOf(t.Ref))
	}
	return "()"
}

func namespaceOf(d ir.Declaration) string {
	switch x := d.(type) {
	case *ir.Table:
		return x.Namespace.String()
	case *ir.Struct:
		return x.Namespace.String()
	case *ir.Enum:
		return x.Namespace.String()
	case *ir.Union:
		return x.Namespace.String()
	case *ir.RPCService:
		return x.Namespace.String()
	}
	return ""
}

func nameOf(d ir.Declaration) string {
	switch x := d.(type) {
	case *ir.Table:
		return x.Name[strings.LastIndex(x.Name, ".")+1:]
	case *ir.Struct:
		return x.Name[strings.LastIndex(x.Name, ".")+1:]
	case *ir.Enum:
		return x.Name[strings.LastIndex(x.Name, ".")+1:]
	case *ir.Union:
		return x.Name[strings.LastIndex(x.Name, ".")+1:]
	case *ir.RPCService:
		return x.Name[strings.LastIndex(x.Name, ".")+1:]
	}
	return ""
}

// genTable renders fields in vtable (ID) order, the order flatbuffers lays
// them out on the wire, rather than schema declaration order: an `id:`
// attribute can reorder the vtable without touching the schema text. Each
// field is annotated with its OriginalOrder so a reader can still tell
// where it was written.
func genTable(b *strings.Builder, t *ir.Table) {
	fmt.Fprintf(b, "pub struct %s {\n", rustIdent(t.Namespace.String(), t.Name[strings.LastIndex(t.Name, ".")+1:]))
	fields := append([]*ir.Field(nil), t.Fields...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })
	for _, f := range fields {
		typ := rustType(f.Type)
		if f.Presence == ir.Optional {
			typ = fmt.Sprintf("Option<%s>", typ)
		}
		fmt.Fprintf(b, "    pub %s: %s, // declared position %d\n", snakeCase(f.Name), typ, f.OriginalOrder)
	}
	b.WriteString("}\n")
}

func genStruct(b *strings.Builder, s *ir.Struct) {
	fmt.Fprintf(b, "#[repr(C)]\npub struct %s {\n", rustIdent(s.Namespace.String(), s.Name[strings.LastIndex(s.Name, ".")+1:]))
	for _, f := range s.Fields {
		fmt.Fprintf(b, "    pub %s: %s,\n", snakeCase(f.Name), rustType(f.Type))
	}
	b.WriteString("}\n")
}

func genEnum(b *strings.Builder, e *ir.Enum) {
	fmt.Fprintf(b, "#[repr(%s)]\npub enum %s {\n", rustType(ir.Type{Kind: e.Repr}), rustIdent(e.Namespace.String(), e.Name[strings.LastIndex(e.Name, ".")+1:]))
	for _, v := range e.Variants {
		fmt.Fprintf(b, "    %s = %d,\n", v.Name, v.Value)
	}
	b.WriteString("}\n")
}

func genUnion(b *strings.Builder, u *ir.Union) {
	fmt.Fprintf(b, "pub enum %s {\n", rustIdent(u.Namespace.String(), u.Name[strings.LastIndex(u.Name, ".")+1:]))
	b.WriteString("    None,\n")
	for _, v := range u.Variants {
		fmt.Fprintf(b, "    %s(%s),\n", v.Name, rustType(v.Type))
	}
	b.WriteString("}\n")
}

func genRPCService(b *strings.Builder, s *ir.RPCService) {
	fmt.Fprintf(b, "pub trait %s {\n", rustIdent(s.Namespace.String(), s.Name[strings.LastIndex(s.Name, ".")+1:]))
	for _, m := range s.Methods {
		req, resp := "()", "()"
		if m.Request != nil {
			req = rustIdent(m.Request.Namespace.String(), m.Request.Name[strings.LastIndex(m.Request.Name, ".")+1:])
		}
		if m.Response != nil {
			resp = rustIdent(m.Response.Namespace.String(), m.Response.Name[strings.LastIndex(m.Response.Name, ".")+1:])
		}
		fmt.Fprintf(b, "    fn %s(&self, request: %s) -> %s;\n", snakeCase(m.Name), req, resp)
	}
	b.WriteString("}\n")
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
