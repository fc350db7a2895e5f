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

package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/flatc-lang/flatc/schema/ast"
)

// printer walks an AST and writes its canonical textual form to buf. It
// tracks only an indent depth: FlatBuffers declarations never need the
// line-wrapping or operator-precedence bookkeeping a general expression
// printer would.
type printer struct {
	cfg   *config
	buf   bytes.Buffer
	depth int
}

func (p *printer) writeIndent() {
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(p.cfg.indent)
	}
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(&p.buf, format, args...)
}

// leadComments writes every doc comment group attached to n, each line
// prefixed with "//" at the current indent.
func (p *printer) leadComments(n ast.Node) {
	for _, g := range n.Comments() {
		if !g.Doc {
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(g.Text(), "\n"), "\n") {
			p.writeIndent()
			if line == "" {
				p.printf("//\n")
			} else {
				p.printf("// %s\n", line)
			}
		}
	}
}

// trailComment writes the same-line comment group of n, if it has one,
// followed by a newline.
func (p *printer) trailComment(n ast.Node) {
	for _, g := range n.Comments() {
		if g.Line {
			p.printf(" // %s", strings.TrimRight(g.Text(), "\n"))
			break
		}
	}
	p.printf("\n")
}

func (p *printer) file(f *ast.File) {
	for i, d := range f.Decls {
		if i > 0 {
			p.printf("\n")
		}
		p.leadComments(d)
		p.decl(d)
		p.trailComment(d)
	}
}

func (p *printer) decl(d ast.Decl) {
	p.writeIndent()
	switch n := d.(type) {
	case *ast.BadDecl:
		p.printf("/* bad declaration */")

	case *ast.NamespaceDecl:
		p.printf("namespace %s;", n.Name.Name)

	case *ast.IncludeDecl:
		p.printf("include %s;", n.Path.Value)

	case *ast.TableDecl:
		p.printf("table %s", n.Name.Name)
		p.metadata(n.Metadata)
		p.printf(" {\n")
		p.fields(n.Fields)
		p.writeIndent()
		p.printf("}")

	case *ast.StructDecl:
		p.printf("struct %s", n.Name.Name)
		p.metadata(n.Metadata)
		p.printf(" {\n")
		p.fields(n.Fields)
		p.writeIndent()
		p.printf("}")

	case *ast.EnumDecl:
		p.printf("enum %s", n.Name.Name)
		if n.Repr != nil {
			p.printf(": %s", n.Repr.Name)
		}
		p.metadata(n.Metadata)
		p.printf(" {\n")
		p.depth++
		for i, v := range n.Values {
			p.leadComments(v)
			p.writeIndent()
			p.printf("%s", v.Name.Name)
			if v.Value != nil {
				p.printf(" = %s", v.Value.Value)
			}
			if i < len(n.Values)-1 {
				p.printf(",")
			}
			p.trailComment(v)
		}
		p.depth--
		p.writeIndent()
		p.printf("}")

	case *ast.UnionDecl:
		p.printf("union %s", n.Name.Name)
		p.metadata(n.Metadata)
		p.printf(" {\n")
		p.depth++
		for i, v := range n.Variants {
			p.leadComments(v)
			p.writeIndent()
			if v.Alias != nil {
				p.printf("%s: ", v.Alias.Name)
			}
			p.printf("%s", v.Type.Name)
			if i < len(n.Variants)-1 {
				p.printf(",")
			}
			p.trailComment(v)
		}
		p.depth--
		p.writeIndent()
		p.printf("}")

	case *ast.RPCServiceDecl:
		p.printf("rpc_service %s {\n", n.Name.Name)
		p.depth++
		for _, m := range n.Methods {
			p.leadComments(m)
			p.writeIndent()
			p.printf("%s(%s): %s", m.Name.Name, m.Request.Name, m.Response.Name)
			p.metadata(m.Metadata)
			p.printf(";")
			p.trailComment(m)
		}
		p.depth--
		p.writeIndent()
		p.printf("}")

	case *ast.RootTypeDecl:
		p.printf("root_type %s;", n.Name.Name)

	case *ast.FileIdentifierDecl:
		p.printf("file_identifier %s;", n.Value.Value)

	case *ast.FileExtensionDecl:
		p.printf("file_extension %s;", n.Value.Value)

	case *ast.AttributeDecl:
		p.printf("attribute %s;", n.Value.Value)

	default:
		panic(fmt.Sprintf("format: unknown decl type %T", d))
	}
}

func (p *printer) fields(fields []*ast.Field) {
	p.depth++
	for _, f := range fields {
		p.leadComments(f)
		p.writeIndent()
		p.printf("%s: ", f.Name.Name)
		p.typeExpr(f.Type)
		if f.Default != nil {
			p.printf(" = ")
			p.expr(f.Default)
		}
		p.metadata(f.Metadata)
		p.printf(";")
		p.trailComment(f)
	}
	p.depth--
}

func (p *printer) metadata(m *ast.Metadata) {
	if m == nil || len(m.List) == 0 {
		return
	}
	p.printf(" (")
	for i, md := range m.List {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s", md.Key.Name)
		if md.Value != nil {
			p.printf(": ")
			p.expr(md.Value)
		}
	}
	p.printf(")")
}

func (p *printer) typeExpr(t ast.TypeExpr) {
	switch x := t.(type) {
	case *ast.Ident:
		p.printf("%s", x.Name)
	case *ast.VectorType:
		p.printf("[")
		p.typeExpr(x.Elem)
		p.printf("]")
	case *ast.ArrayType:
		p.printf("[")
		p.typeExpr(x.Elem)
		p.printf(":%s]", x.Len.Value)
	case *ast.BadExpr:
		p.printf("/* bad type */")
	default:
		panic(fmt.Sprintf("format: unknown type expr %T", t))
	}
}

func (p *printer) expr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.Ident:
		p.printf("%s", x.Name)
	case *ast.BasicLit:
		p.printf("%s", x.Value)
	case *ast.BadExpr:
		p.printf("/* bad expr */")
	default:
		panic(fmt.Sprintf("format: unknown expr type %T", e))
	}
}
