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

// Package translate lowers a schema/build.Map's reachable AST into
// internal/ir Declarations, in two passes over the files in map order:
// a declare pass that computes every declaration's fully qualified name
// and rejects duplicates, and a define pass that resolves every type
// reference, assigns field IDs and union tags, computes struct layouts,
// and range-checks default values.
package translate

import (
	"strings"

	"github.com/flatc-lang/flatc/schema/ast"
	"github.com/flatc-lang/flatc/schema/build"
	"github.com/flatc-lang/flatc/schema/errors"
	"github.com/flatc-lang/flatc/schema/literal"
	"github.com/flatc-lang/flatc/schema/parser"
	"github.com/flatc-lang/flatc/schema/token"

	"github.com/flatc-lang/flatc/internal/graph"
	"github.com/flatc-lang/flatc/internal/ir"
	"github.com/flatc-lang/flatc/internal/ir/path"
)

// Files translates every declaration reachable in m into a
// Declarations. It always returns a non-nil Declarations, populated on
// a best-effort basis, even when the returned error is non-nil: callers
// implementing --ignore-errors-style flows should check
// Declarations.HasErrors rather than treating a non-nil error as fatal.
func Files(m *build.Map) (*ir.Declarations, error) {
	c := newCompiler()
	c.declare(m)
	c.define()
	c.resolveFileAttrs()

	out := &ir.Declarations{
		ByName:         c.decls,
		Order:          c.order,
		Reachable:      c.reachable,
		RootType:       c.rootType,
		FileIdentifier: c.fileIdentifier,
		FileExtension:  c.fileExtension,
		HasErrors:      c.errs != nil,
		Warnings:       c.warns,
	}
	if c.errs != nil {
		return out, errors.Sanitize(c.errs)
	}
	return out, nil
}

type compiler struct {
	errs  errors.Error
	warns []error

	decls     map[string]ir.Declaration
	order     []string
	reachable map[string]bool
	nsOf      map[string]path.Namespace
	astOf     map[string]ast.Decl

	rootTypeIdent *ast.Ident
	rootTypeNs    path.Namespace
	rootTypePos   token.Pos
	rootType      *ir.Table

	fileIdentifier string
	fileExtension  string

	structDone     map[string]bool
	structVisiting map[string]bool
}

func newCompiler() *compiler {
	return &compiler{
		decls:          map[string]ir.Declaration{},
		reachable:      map[string]bool{},
		nsOf:           map[string]path.Namespace{},
		astOf:          map[string]ast.Decl{},
		structDone:     map[string]bool{},
		structVisiting: map[string]bool{},
	}
}

func (c *compiler) errf(kind errors.Kind, pos token.Pos, format string, args ...interface{}) {
	c.errs = errors.Append(c.errs, errors.NewfKind(kind, pos, format, args...))
}

func (c *compiler) addErr(err errors.Error) {
	if err == nil {
		return
	}
	c.errs = errors.Append(c.errs, err)
}

// warnf records a non-fatal diagnostic: one that should be visible to the
// caller but must never set Declarations.HasErrors or fail translation.
func (c *compiler) warnf(kind errors.Kind, pos token.Pos, format string, args ...interface{}) {
	c.warns = append(c.warns, errors.NewfKind(kind, pos, format, args...))
}

// declare walks every file in m, in map order, registering each named
// declaration's fully qualified name and allocating its (as yet empty)
// IR stub. Stubs are allocated once per name so that forward references
// during the define pass resolve to the same object that gets filled in
// later, regardless of declaration order across files.
func (c *compiler) declare(m *build.Map) {
	for _, f := range m.OrderedFiles() {
		ns := path.Parse(f.Namespace())

		var fileRootType *ast.Ident
		var fileIdentSet, fileExtSet bool
		var fileIdent, fileExt string

		for _, d := range f.Decls {
			var name *ast.Ident
			var stub ir.Declaration

			switch n := d.(type) {
			case *ast.TableDecl:
				name = n.Name
				stub = &ir.Table{Name: ns.Qualify(n.Name.Name), Namespace: ns}
			case *ast.StructDecl:
				name = n.Name
				stub = &ir.Struct{Name: ns.Qualify(n.Name.Name), Namespace: ns}
			case *ast.EnumDecl:
				name = n.Name
				stub = &ir.Enum{Name: ns.Qualify(n.Name.Name), Namespace: ns}
			case *ast.UnionDecl:
				name = n.Name
				stub = &ir.Union{Name: ns.Qualify(n.Name.Name), Namespace: ns}
			case *ast.RPCServiceDecl:
				name = n.Name
				stub = &ir.RPCService{Name: ns.Qualify(n.Name.Name), Namespace: ns}

			case *ast.RootTypeDecl:
				fileRootType = n.Name
				continue
			case *ast.FileIdentifierDecl:
				if s, err := literal.Unquote(n.Value.Value); err == nil {
					fileIdent, fileIdentSet = s, true
				}
				continue
			case *ast.FileExtensionDecl:
				if s, err := literal.Unquote(n.Value.Value); err == nil {
					fileExt, fileExtSet = s, true
				}
				continue

			case *ast.NamespaceDecl, *ast.IncludeDecl, *ast.AttributeDecl, *ast.BadDecl:
				continue
			default:
				continue
			}

			qualified := ns.Qualify(name.Name)
			if _, dup := c.decls[qualified]; dup {
				c.errf(errors.TypeDefinedTwice, name.Pos(),
					"%q is defined more than once", qualified)
				continue
			}

			c.decls[qualified] = stub
			c.order = append(c.order, qualified)
			c.reachable[qualified] = true
			c.nsOf[qualified] = ns
			c.astOf[qualified] = d
		}

		if fileRootType != nil && c.rootTypeIdent == nil {
			c.rootTypeIdent, c.rootTypeNs, c.rootTypePos = fileRootType, ns, fileRootType.Pos()
		}
		if fileIdentSet && c.fileIdentifier == "" {
			c.fileIdentifier = fileIdent
		}
		if fileExtSet && c.fileExtension == "" {
			c.fileExtension = fileExt
		}
	}
}

func (c *compiler) resolveFileAttrs() {
	if c.rootTypeIdent == nil {
		return
	}
	d, _, ok := c.resolveName(c.rootTypeIdent.Name, c.rootTypeNs)
	if !ok {
		c.errf(errors.UnknownIdentifier, c.rootTypePos, "root_type %q is not declared", c.rootTypeIdent.Name)
		return
	}
	tbl, ok := d.(*ir.Table)
	if !ok {
		c.errf(errors.MiscSemanticError, c.rootTypePos, "root_type %q must name a table", c.rootTypeIdent.Name)
		return
	}
	c.rootType = tbl
}

// resolveName resolves a possibly-unqualified type name referenced from
// within namespace ns: a dotted name is tried verbatim; a bare name is
// tried first against ns itself, then against each of ns's enclosing
// namespaces from the nearest to the root, and finally against the root
// namespace. This order is the translator's resolution of spec open
// question (a): prefer the declaring file's own namespace over anything
// reached only via an include.
func (c *compiler) resolveName(name string, ns path.Namespace) (ir.Declaration, string, bool) {
	if strings.Contains(name, ".") {
		d, ok := c.decls[name]
		return d, name, ok
	}
	if d, ok := c.decls[ns.Qualify(name)]; ok {
		return d, ns.Qualify(name), true
	}
	ancestors := ns.Ancestors()
	for i := len(ancestors) - 1; i >= 0; i-- {
		q := ancestors[i].Qualify(name)
		if d, ok := c.decls[q]; ok {
			return d, q, true
		}
	}
	if d, ok := c.decls[name]; ok {
		return d, name, true
	}
	return nil, "", false
}

// resolveType turns an AST type expression into an IR type, resolving
// any named reference against the symbol table using ns's search order.
func (c *compiler) resolveType(expr ast.TypeExpr, ns path.Namespace) (ir.Type, errors.Error) {
	switch x := expr.(type) {
	case *ast.Ident:
		if k, ok := ir.LookupScalar(x.Name); ok {
			return ir.Type{Kind: k}, nil
		}
		d, _, ok := c.resolveName(x.Name, ns)
		if !ok {
			return ir.Type{}, errors.NewfKind(errors.UnknownIdentifier, x.Pos(),
				"unknown type %q", x.Name)
		}
		return ir.Type{Kind: ir.Named, Ref: d}, nil

	case *ast.VectorType:
		elem, err := c.resolveType(x.Elem, ns)
		if err != nil {
			return ir.Type{}, err
		}
		return ir.Type{Kind: ir.Vector, Elem: &elem}, nil

	case *ast.ArrayType:
		elem, err := c.resolveType(x.Elem, ns)
		if err != nil {
			return ir.Type{}, err
		}
		n, perr := literal.ParseInt(x.Len.Value)
		if perr != nil {
			return ir.Type{}, errors.NewfKind(errors.NumericalParseError, x.Len.Pos(),
				"invalid array length %q", x.Len.Value)
		}
		return ir.Type{Kind: ir.Array, Elem: &elem, Len: int(n)}, nil

	case *ast.BadExpr:
		// Already diagnosed by the parser; don't pile on.
		return ir.Type{}, nil

	default:
		return ir.Type{}, errors.NewfKind(errors.MiscSemanticError, expr.Pos(),
			"unsupported type expression %T", expr)
	}
}

// define fills in every declaration stub allocated by declare, in three
// phases: enums first (tables, structs, and unions may default to or
// embed them), then struct layouts (which must be computed in dependency
// order, not declaration order), then tables, unions, and RPC services,
// which may freely forward-reference one another by pointer.
func (c *compiler) define() {
	for _, name := range c.order {
		if e, ok := c.decls[name].(*ir.Enum); ok {
			c.defineEnum(e, c.astOf[name].(*ast.EnumDecl))
		}
	}

	c.defineStructs()

	for _, name := range c.order {
		switch d := c.decls[name].(type) {
		case *ir.Table:
			c.defineTable(d, c.astOf[name].(*ast.TableDecl), c.nsOf[name])
		case *ir.Union:
			c.defineUnion(d, c.astOf[name].(*ast.UnionDecl), c.nsOf[name])
		case *ir.RPCService:
			c.defineRPCService(d, c.astOf[name].(*ast.RPCServiceDecl), c.nsOf[name])
		}
	}
}

func (c *compiler) defineEnum(e *ir.Enum, decl *ast.EnumDecl) {
	e.Repr = ir.Int32
	if decl.Repr != nil {
		if k, ok := ir.LookupScalar(decl.Repr.Name); ok && k.IsInteger() {
			e.Repr = k
		} else {
			c.errf(errors.TypeError, decl.Repr.Pos(),
				"enum underlying type %q must be an integer type", decl.Repr.Name)
		}
	}

	next := int64(0)
	seen := map[string]bool{}
	for _, v := range decl.Values {
		if seen[v.Name.Name] {
			c.errf(errors.FieldDefinedTwice, v.Name.Pos(),
				"enum variant %q is defined twice", v.Name.Name)
			continue
		}
		seen[v.Name.Name] = true

		val := next
		if v.Value != nil {
			n, err := literal.ParseInt(v.Value.Value)
			if err != nil {
				c.errf(errors.NumericalParseError, v.Value.Pos(),
					"invalid enum value %q", v.Value.Value)
				continue
			}
			val = n
		}
		if !fitsRange(e.Repr, val) {
			c.errf(errors.NumericalRangeError, v.Pos(),
				"enum value %d does not fit in %s", val, e.Repr)
		}
		e.Variants = append(e.Variants, ir.EnumVariant{Name: v.Name.Name, Value: val})
		next = val + 1
	}
}

func (c *compiler) defineUnion(u *ir.Union, decl *ast.UnionDecl, ns path.Namespace) {
	tag := 1
	seen := map[string]bool{}
	for _, v := range decl.Variants {
		name := v.Type.Name
		if v.Alias != nil {
			name = v.Alias.Name
		}
		if seen[name] {
			c.errf(errors.FieldDefinedTwice, v.Pos(), "union variant %q is defined twice", name)
			continue
		}
		seen[name] = true

		var typ ir.Type
		if v.Type.Name == "string" {
			typ = ir.Type{Kind: ir.String}
		} else {
			d, _, ok := c.resolveName(v.Type.Name, ns)
			if !ok {
				c.errf(errors.UnknownIdentifier, v.Type.Pos(), "unknown union member type %q", v.Type.Name)
				continue
			}
			switch d.(type) {
			case *ir.Table, *ir.Struct:
				typ = ir.Type{Kind: ir.Named, Ref: d}
			default:
				c.errf(errors.TypeError, v.Type.Pos(),
					"union members must be tables, structs, or string, found %q", v.Type.Name)
				continue
			}
		}

		u.Variants = append(u.Variants, ir.UnionVariant{Name: name, Type: typ, Tag: tag})
		tag++
	}
}

func (c *compiler) defineRPCService(svc *ir.RPCService, decl *ast.RPCServiceDecl, ns path.Namespace) {
	for _, m := range decl.Methods {
		reqD, _, ok := c.resolveName(m.Request.Name, ns)
		if !ok {
			c.errf(errors.UnknownIdentifier, m.Request.Pos(), "unknown request type %q", m.Request.Name)
			continue
		}
		reqTbl, ok := reqD.(*ir.Table)
		if !ok {
			c.errf(errors.TypeError, m.Request.Pos(), "rpc request type %q must be a table", m.Request.Name)
			continue
		}
		respD, _, ok := c.resolveName(m.Response.Name, ns)
		if !ok {
			c.errf(errors.UnknownIdentifier, m.Response.Pos(), "unknown response type %q", m.Response.Name)
			continue
		}
		respTbl, ok := respD.(*ir.Table)
		if !ok {
			c.errf(errors.TypeError, m.Response.Pos(), "rpc response type %q must be a table", m.Response.Name)
			continue
		}

		md := map[string]ir.Value{}
		if m.Metadata != nil {
			for _, kv := range m.Metadata.List {
				lit, ok := kv.Value.(*ast.BasicLit)
				if kv.Value == nil || !ok {
					continue
				}
				v, err := parser.LiteralValue(lit)
				if err != nil {
					continue
				}
				switch vv := v.(type) {
				case int64:
					md[kv.Key.Name] = ir.Value{Kind: ir.Int64, Int: vv}
				case float64:
					md[kv.Key.Name] = ir.Value{Kind: ir.Float64, Float: vv}
				case string:
					md[kv.Key.Name] = ir.Value{Kind: ir.String, Str: vv}
				}
			}
		}

		svc.Methods = append(svc.Methods, ir.RPCMethod{
			Name: m.Name.Name, Request: reqTbl, Response: respTbl, Metadata: md,
		})
	}
}

func (c *compiler) defineTable(tbl *ir.Table, decl *ast.TableDecl, ns path.Namespace) {
	anyID := false
	for _, f := range decl.Fields {
		if _, ok := f.Metadata.Get("id"); ok {
			anyID = true
			break
		}
	}

	seen := map[string]bool{}
	for i, f := range decl.Fields {
		name := f.Name.Name
		if seen[name] {
			c.errf(errors.FieldDefinedTwice, f.Name.Pos(), "field %q is defined twice in %q", name, tbl.Name)
			continue
		}
		seen[name] = true

		typ, err := c.resolveType(f.Type, ns)
		if err != nil {
			c.addErr(err)
			continue
		}

		id := i
		if anyID {
			v, ok := f.Metadata.Get("id")
			if !ok {
				c.errf(errors.MiscSemanticError, f.Name.Pos(),
					"field %q must specify an id because a sibling field does", name)
			} else if lit, ok := v.(*ast.BasicLit); ok {
				n, perr := literal.ParseInt(lit.Value)
				if perr != nil {
					c.errf(errors.NumericalParseError, lit.Pos(), "invalid field id %q", lit.Value)
				} else {
					id = int(n)
				}
			} else {
				c.errf(errors.TypeError, f.Name.Pos(), "field id for %q must be an integer", name)
			}
		}

		_, deprecated := f.Metadata.Get("deprecated")
		_, key := f.Metadata.Get("key")
		_, required := f.Metadata.Get("required")

		if _, obsolete := f.Metadata.Get("obsolete"); obsolete {
			deprecated = true
			c.warnf(errors.NotSupported, f.Name.Pos(),
				`field %q uses "obsolete", a synonym for "deprecated"; treating it as deprecated`, name)
		}

		admitsDefault := typ.Kind.IsScalar() || isEnumRef(typ)
		if f.Default != nil && !admitsDefault {
			c.errf(errors.TypeError, f.Default.Pos(),
				"defaults are only admissible for scalar or enum fields, not %q", name)
		}

		def, derr := c.parseDefault(typ, f.Default)
		if derr != nil {
			c.addErr(derr)
		}

		presence := ir.Optional
		switch {
		case required:
			presence = ir.Required
			if admitsDefault {
				c.errf(errors.MiscSemanticError, f.Name.Pos(),
					"required is only valid for offset fields (string, table, struct, union, vector), not %q", name)
			}
		case f.Default != nil && def == nil && derr == nil:
			// An explicit `= null` parsed cleanly to no value: the field
			// is optional with no implied default, distinct from a bare
			// "no default written" scalar field below.
		case def != nil:
			presence = ir.DefaultBacked
		case admitsDefault:
			presence = ir.DefaultBacked
			def = zeroValue(typ)
		}

		tbl.Fields = append(tbl.Fields, &ir.Field{
			Name: name, Type: typ, ID: id, Presence: presence, Default: def,
			OriginalOrder: i,
			Deprecated:    deprecated, Key: key,
		})
	}

	used := map[int]bool{}
	for _, f := range tbl.Fields {
		if used[f.ID] {
			c.errf(errors.MiscSemanticError, decl.Name.Pos(),
				"field id %d is used more than once in %q", f.ID, tbl.Name)
		}
		used[f.ID] = true
	}
	for i := 0; i < len(tbl.Fields); i++ {
		if !used[i] {
			c.errf(errors.MiscSemanticError, decl.Name.Pos(),
				"field ids for %q are not dense over [0,%d)", tbl.Name, len(tbl.Fields))
			break
		}
	}
}

// parseDefault converts a field's AST default expression, if any, into
// an IR value of the field's declared type.
func (c *compiler) parseDefault(typ ir.Type, x ast.Expr) (*ir.Value, errors.Error) {
	if x == nil {
		return nil, nil
	}

	// `= null` marks a scalar or enum field optional instead of giving it
	// a concrete default; the caller tells this apart from "no default
	// written at all" by x still being non-nil here.
	if id, ok := x.(*ast.Ident); ok && id.Name == "null" {
		return nil, nil
	}

	if typ.Kind == ir.Named {
		en, ok := typ.Ref.(*ir.Enum)
		if !ok {
			return nil, errors.NewfKind(errors.TypeError, x.Pos(),
				"defaults are only admissible for scalars or enums")
		}
		switch d := x.(type) {
		case *ast.Ident:
			for _, v := range en.Variants {
				if v.Name == d.Name {
					return &ir.Value{Kind: en.Repr, Int: v.Value}, nil
				}
			}
			return nil, errors.NewfKind(errors.UnknownIdentifier, d.Pos(),
				"%q is not a variant of enum %q", d.Name, en.Name)
		case *ast.BasicLit:
			n, err := literal.ParseInt(d.Value)
			if err != nil {
				return nil, errors.NewfKind(errors.NumericalParseError, d.Pos(), "invalid enum default %q", d.Value)
			}
			if !fitsRange(en.Repr, n) {
				return nil, errors.NewfKind(errors.NumericalRangeError, d.Pos(),
					"enum default %d does not fit in %s", n, en.Repr)
			}
			return &ir.Value{Kind: en.Repr, Int: n}, nil
		default:
			return nil, errors.NewfKind(errors.TypeError, x.Pos(), "invalid enum default")
		}
	}

	if typ.Kind == ir.Bool {
		id, ok := x.(*ast.Ident)
		if !ok || (id.Name != "true" && id.Name != "false") {
			return nil, errors.NewfKind(errors.TypeError, x.Pos(), "bool default must be true or false")
		}
		return &ir.Value{Kind: ir.Bool, Bool: id.Name == "true"}, nil
	}

	lit, ok := x.(*ast.BasicLit)
	if !ok {
		return nil, errors.NewfKind(errors.TypeError, x.Pos(), "invalid default value")
	}

	switch {
	case typ.Kind.IsInteger():
		n, err := literal.ParseInt(lit.Value)
		if err != nil {
			return nil, errors.NewfKind(errors.NumericalParseError, lit.Pos(), "invalid default %q", lit.Value)
		}
		if !fitsRange(typ.Kind, n) {
			return nil, errors.NewfKind(errors.NumericalRangeError, lit.Pos(),
				"default %d does not fit in %s", n, typ.Kind)
		}
		return &ir.Value{Kind: typ.Kind, Int: n}, nil

	case typ.Kind == ir.Float32 || typ.Kind == ir.Float64:
		f, err := literal.ParseFloat(lit.Value)
		if err != nil {
			return nil, errors.NewfKind(errors.NumericalParseError, lit.Pos(), "invalid default %q", lit.Value)
		}
		return &ir.Value{Kind: typ.Kind, Float: f}, nil

	default:
		return nil, errors.NewfKind(errors.TypeError, x.Pos(), "defaults are not admissible for this field's type")
	}
}

func zeroValue(typ ir.Type) *ir.Value {
	if en, ok := typ.Ref.(*ir.Enum); ok && typ.Kind == ir.Named {
		return &ir.Value{Kind: en.Repr}
	}
	switch {
	case typ.Kind.IsInteger(), typ.Kind == ir.Bool, typ.Kind == ir.Float32, typ.Kind == ir.Float64:
		return &ir.Value{Kind: typ.Kind}
	}
	return nil
}

func isEnumRef(typ ir.Type) bool {
	_, ok := typ.Ref.(*ir.Enum)
	return typ.Kind == ir.Named && ok
}

func fitsRange(k ir.Kind, v int64) bool {
	switch k {
	case ir.Int8:
		return v >= -1<<7 && v <= 1<<7-1
	case ir.UInt8:
		return v >= 0 && v <= 1<<8-1
	case ir.Int16:
		return v >= -1<<15 && v <= 1<<15-1
	case ir.UInt16:
		return v >= 0 && v <= 1<<16-1
	case ir.Int32:
		return v >= -1<<31 && v <= 1<<31-1
	case ir.UInt32:
		return v >= 0 && v <= 1<<32-1
	case ir.UInt64:
		return v >= 0
	}
	return true
}

// defineStructs computes struct layouts in dependency order rather than
// declaration order, since a struct's size depends on the size of any
// struct it embeds by value. It first builds the full struct reference
// graph and checks it for cycles with internal/graph (struct
// composition, unlike table/union references, must be acyclic because
// structs are embedded inline and have a finite size), then computes
// each struct's layout with a recursive, cycle-tolerant walk.
func (c *compiler) defineStructs() {
	gb := graph.NewGraphBuilder()
	for _, name := range c.order {
		s, ok := c.decls[name].(*ir.Struct)
		if !ok {
			continue
		}
		gb.EnsureNode(graph.Node(name))
		decl := c.astOf[name].(*ast.StructDecl)
		ns := c.nsOf[name]
		for _, f := range decl.Fields {
			if ref, ok := c.shallowStructRef(f.Type, ns); ok {
				gb.AddEdge(graph.Node(name), graph.Node(ref))
			}
		}
		_ = s
	}
	if cyc := gb.Build().FindCycle(); cyc != nil {
		names := make([]string, len(cyc))
		for i, n := range cyc {
			names[i] = string(n)
		}
		c.errf(errors.MiscSemanticError, token.NoPos,
			"struct composition cycle: %s", strings.Join(names, " -> "))
	}

	for _, name := range c.order {
		if _, ok := c.decls[name].(*ir.Struct); ok {
			c.ensureStructLayout(name)
		}
	}
}

// shallowStructRef reports the qualified name of the struct t directly
// embeds by value, if any, without requiring that struct's layout to
// already be computed.
func (c *compiler) shallowStructRef(t ast.TypeExpr, ns path.Namespace) (string, bool) {
	switch x := t.(type) {
	case *ast.Ident:
		d, qualified, ok := c.resolveName(x.Name, ns)
		if !ok {
			return "", false
		}
		if _, ok := d.(*ir.Struct); ok {
			return qualified, true
		}
		return "", false
	case *ast.ArrayType:
		return c.shallowStructRef(x.Elem, ns)
	}
	return "", false
}

func (c *compiler) ensureStructLayout(name string) {
	if c.structDone[name] {
		return
	}
	if c.structVisiting[name] {
		// Part of a cycle already reported by the graph-based check in
		// defineStructs; leave this struct's layout at its zero value
		// rather than recursing forever.
		return
	}
	c.structVisiting[name] = true
	defer func() { c.structVisiting[name] = false }()

	s := c.decls[name].(*ir.Struct)
	decl := c.astOf[name].(*ast.StructDecl)
	ns := c.nsOf[name]

	seen := map[string]bool{}
	offset := 0
	maxAlign := 1
	for _, f := range decl.Fields {
		fname := f.Name.Name
		if seen[fname] {
			c.errf(errors.FieldDefinedTwice, f.Name.Pos(), "field %q is defined twice in %q", fname, name)
			continue
		}
		seen[fname] = true

		if f.Default != nil {
			c.errf(errors.TypeError, f.Default.Pos(), "struct fields may not have default values")
		}

		typ, err := c.resolveType(f.Type, ns)
		if err != nil {
			c.addErr(err)
			continue
		}
		if ref, ok := c.shallowStructRef(f.Type, ns); ok {
			c.ensureStructLayout(ref)
		}
		if !isStructFieldType(typ) {
			c.errf(errors.TypeError, f.Name.Pos(),
				"struct field %q must be a scalar, enum, fixed-size array, or nested struct", fname)
			continue
		}

		align := fieldAlign(typ)
		offset = roundUp(offset, align)
		s.Fields = append(s.Fields, &ir.StructField{Name: fname, Type: typ, Offset: offset})
		offset += fieldSize(typ)
		if align > maxAlign {
			maxAlign = align
		}
	}

	s.Align = maxAlign
	s.Size = roundUp(offset, maxAlign)
	c.structDone[name] = true
}

func isStructFieldType(typ ir.Type) bool {
	switch typ.Kind {
	case ir.Bool, ir.Int8, ir.UInt8, ir.Int16, ir.UInt16, ir.Int32, ir.UInt32, ir.Int64, ir.UInt64, ir.Float32, ir.Float64:
		return true
	case ir.Named:
		switch typ.Ref.(type) {
		case *ir.Struct, *ir.Enum:
			return true
		}
		return false
	case ir.Array:
		return isStructFieldType(*typ.Elem)
	}
	return false
}

func fieldAlign(typ ir.Type) int {
	switch typ.Kind {
	case ir.Named:
		switch r := typ.Ref.(type) {
		case *ir.Struct:
			return r.Align
		case *ir.Enum:
			return r.Repr.Align()
		}
	case ir.Array:
		return fieldAlign(*typ.Elem)
	}
	return typ.Kind.Align()
}

func fieldSize(typ ir.Type) int {
	switch typ.Kind {
	case ir.Named:
		switch r := typ.Ref.(type) {
		case *ir.Struct:
			return r.Size
		case *ir.Enum:
			return r.Repr.Size()
		}
	case ir.Array:
		return typ.Len * fieldSize(*typ.Elem)
	}
	return typ.Kind.Size()
}

func roundUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) / align * align
}
