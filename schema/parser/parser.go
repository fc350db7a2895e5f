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

package parser

import (
	"fmt"

	"github.com/flatc-lang/flatc/schema/ast"
	"github.com/flatc-lang/flatc/schema/errors"
	"github.com/flatc-lang/flatc/schema/literal"
	"github.com/flatc-lang/flatc/schema/scanner"
	"github.com/flatc-lang/flatc/schema/token"
)

// The parser structure holds the parser's internal state.
type parser struct {
	file    *token.File
	errs    errors.Error
	scanner scanner.Scanner

	mode      mode
	trace     bool
	panicking bool
	indent    int

	// Comments accumulated since the last call to next() that are not yet
	// attached to a node; flushed onto the next declaration parsed.
	leadComment *ast.CommentGroup
	lineComment *ast.CommentGroup
	savedLead   *ast.CommentGroup

	pos token.Pos
	tok token.Token
	lit string

	// Error recovery: avoid looping forever in sync without progress.
	syncPos token.Pos
	syncCnt int
}

func (p *parser) init(filename string, src []byte, mode []Option) {
	p.file = token.NewFile(filename, -1, len(src))
	for _, f := range mode {
		f(p)
	}
	var m scanner.Mode
	if p.mode&parseCommentsMode != 0 {
		m = scanner.ScanComments
	}
	eh := func(pos token.Position, msg string) {
		p.errs = errors.Append(p.errs, errors.Newf(p.file.Pos(pos.Offset, 0), "%s", msg))
	}
	p.scanner.Init(p.file, src, eh, m)
	p.trace = p.mode&traceMode != 0

	p.next()
}

func (p *parser) printTrace(a ...interface{}) {
	const dots = ". . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . "
	const n = len(dots)
	pos := p.file.Position(p.pos)
	fmt.Printf("%5d:%3d: ", pos.Line, pos.Column)
	i := 2 * p.indent
	for i > n {
		fmt.Print(dots)
		i -= n
	}
	fmt.Print(dots[0:i])
	fmt.Println(a...)
}

func trace(p *parser, msg string) *parser {
	p.printTrace(msg, "(")
	p.indent++
	return p
}

func un(p *parser) {
	p.indent--
	p.printTrace(")")
}

// next0 advances to the next token, skipping no tokens (including comments).
func (p *parser) next0() {
	if p.trace && p.pos.IsValid() {
		s := p.tok.String()
		switch {
		case p.tok.IsLiteral():
			p.printTrace(s, p.lit)
		case p.tok.IsOperator(), p.tok.IsKeyword():
			p.printTrace("\"" + s + "\"")
		default:
			p.printTrace(s)
		}
	}
	p.pos, p.tok, p.lit = p.scanner.Scan()
}

// consumeCommentGroup consumes a sequence of adjacent comments (no blank
// declaration between them) and returns it as a single group, along with
// the line on which the group ends.
func (p *parser) consumeCommentGroup() (group *ast.CommentGroup, endLine int) {
	var list []*ast.Comment
	endLine = p.file.Line(p.pos)
	for p.tok == token.COMMENT && p.file.Line(p.pos) <= endLine+1 {
		var comment ast.Comment
		comment.Slash = p.pos
		comment.Text = p.lit
		list = append(list, &comment)
		endLine = p.file.Line(p.pos)
		for i := 0; i < len(p.lit); i++ {
			if p.lit[i] == '\n' {
				endLine++
			}
		}
		p.next0()
	}
	return &ast.CommentGroup{List: list}, endLine
}

// next advances to the next non-comment token, collecting any comments
// encountered along the way. A comment group that ends on the line
// immediately before the upcoming token becomes the lead comment for
// whatever node is parsed next; a comment group that starts on the same
// line as the previous token becomes that token's trailing line comment.
func (p *parser) next() {
	p.leadComment = nil
	p.lineComment = nil
	prevLine := p.file.Line(p.pos)
	p.next0()

	if p.tok == token.COMMENT {
		var comment *ast.CommentGroup
		var endLine int

		if p.file.Line(p.pos) == prevLine {
			// The comment is on the same line as the previous token; it
			// trails that token rather than leading the next one.
			comment, endLine = p.consumeCommentGroup()
			if p.file.Line(p.pos) != endLine || p.tok == token.EOF {
				comment.Line = true
				p.lineComment = comment
			}
		}

		for p.tok == token.COMMENT {
			comment, endLine = p.consumeCommentGroup()
		}

		if endLine+1 == p.file.Line(p.pos) {
			comment.Doc = true
			p.leadComment = comment
		}
	}
}

func (p *parser) errf(pos token.Pos, msg string, args ...interface{}) {
	p.errs = errors.Append(p.errs, errors.NewfKind(errors.DeclarationParseError, pos, msg, args...))
}

func (p *parser) error(pos token.Pos, msg string) {
	p.errf(pos, "%s", msg)
}

// expect consumes the current token if it matches tok and advances;
// otherwise it reports a syntax error without consuming the token.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errf(pos, "expected '%s', found %s", tok, p.tok)
		return pos
	}
	p.next()
	return pos
}

// declKeywords is the set of tokens that begin a top-level declaration,
// used both to decide when to stop parsing a file and to resynchronize
// after a parse error.
var declKeywords = map[token.Token]bool{
	token.NAMESPACE:       true,
	token.INCLUDE:         true,
	token.TABLE:           true,
	token.STRUCT:          true,
	token.ENUM:            true,
	token.UNION:           true,
	token.RPC_SERVICE:     true,
	token.ROOT_TYPE:       true,
	token.FILE_IDENTIFIER: true,
	token.FILE_EXTENSION:  true,
	token.ATTRIBUTE:       true,
}

// syncDecl advances tokens until it finds the start of a declaration or
// EOF, to recover after a parse error within one declaration without
// losing the rest of the file.
func (p *parser) syncDecl() {
	for {
		switch p.tok {
		case token.EOF:
			return
		default:
			if declKeywords[p.tok] {
				// Only treat repeated failures to make progress as a sign
				// that we should give up entirely; a single declaration
				// boundary is a normal resync point.
				if p.pos == p.syncPos {
					p.syncCnt++
					if p.syncCnt > 10 {
						p.syncCnt = 0
						p.next()
						continue
					}
				} else {
					p.syncPos = p.pos
					p.syncCnt = 0
				}
				return
			}
			p.next()
		}
	}
}

// attachLead moves the lead comment saved by saveLead, if any, onto n.
func (p *parser) attachLead(n ast.Node) {
	if p.savedLead != nil {
		n.AddComment(p.savedLead)
		p.savedLead = nil
	}
}

func (p *parser) saveLead() {
	if p.leadComment != nil {
		p.savedLead = p.leadComment
	}
}

// ----------------------------------------------------------------------------
// File

func (p *parser) parseFile() *ast.File {
	if p.trace {
		defer un(trace(p, "File"))
	}

	f := &ast.File{}
	seenNamespace := false

	for p.tok != token.EOF {
		d := p.parseDecl()
		if n, ok := d.(*ast.NamespaceDecl); ok {
			if seenNamespace {
				p.error(n.Pos(), "only one namespace declaration is allowed per file")
			}
			seenNamespace = true
		}
		f.Decls = append(f.Decls, d)
	}
	return f
}

func (p *parser) parseDecl() ast.Decl {
	p.saveLead()
	switch p.tok {
	case token.NAMESPACE:
		return p.parseNamespaceDecl()
	case token.INCLUDE:
		return p.parseIncludeDecl()
	case token.TABLE:
		return p.parseTableDecl()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.ENUM:
		return p.parseEnumDecl()
	case token.UNION:
		return p.parseUnionDecl()
	case token.RPC_SERVICE:
		return p.parseRPCServiceDecl()
	case token.ROOT_TYPE:
		return p.parseRootTypeDecl()
	case token.FILE_IDENTIFIER:
		return p.parseFileIdentifierDecl()
	case token.FILE_EXTENSION:
		return p.parseFileExtensionDecl()
	case token.ATTRIBUTE:
		return p.parseAttributeDecl()
	default:
		from := p.pos
		p.errs = errors.Append(p.errs, errors.NewfKind(errors.DeclarationParseError,
			p.pos, "expected a declaration, found %s", p.tok))
		p.syncDecl()
		return &ast.BadDecl{From: from, To: p.pos}
	}
}

func (p *parser) parseNamespaceDecl() *ast.NamespaceDecl {
	d := &ast.NamespaceDecl{Namespace: p.pos}
	p.attachLead(d)
	p.next() // consume 'namespace'
	d.Name = p.parseNamespaceIdent()
	d.Semi = p.expect(token.SEMI)
	return d
}

// parseNamespaceIdent parses a dotted namespace path (a.b.c) as a single
// Ident whose Name is the dotted string.
func (p *parser) parseNamespaceIdent() *ast.Ident {
	pos := p.pos
	if p.tok != token.IDENT {
		p.errf(pos, "expected identifier, found %s", p.tok)
		p.next()
		return &ast.Ident{NamePos: pos, Name: "_"}
	}
	name := p.lit
	p.next()
	for p.tok == token.PERIOD {
		p.next()
		if p.tok != token.IDENT {
			p.errf(p.pos, "expected identifier after '.', found %s", p.tok)
			break
		}
		name += "." + p.lit
		p.next()
	}
	return &ast.Ident{NamePos: pos, Name: name}
}

func (p *parser) parseIncludeDecl() *ast.IncludeDecl {
	d := &ast.IncludeDecl{Include: p.pos}
	p.attachLead(d)
	p.next() // consume 'include'
	d.Path = p.parseStringLit()
	d.Semi = p.expect(token.SEMI)
	return d
}

func (p *parser) parseStringLit() *ast.BasicLit {
	pos, lit := p.pos, p.lit
	if p.tok != token.STRING {
		p.errf(pos, "expected string literal, found %s", p.tok)
		p.next()
		return &ast.BasicLit{ValuePos: pos, Kind: token.STRING, Value: `""`}
	}
	p.next()
	return &ast.BasicLit{ValuePos: pos, Kind: token.STRING, Value: lit}
}

func (p *parser) parseIdent() *ast.Ident {
	pos, name := p.pos, "_"
	if p.tok == token.IDENT {
		name = p.lit
		p.next()
	} else {
		p.errf(pos, "expected identifier, found %s", p.tok)
	}
	return &ast.Ident{NamePos: pos, Name: name}
}

func (p *parser) parseTableDecl() *ast.TableDecl {
	d := &ast.TableDecl{Table: p.pos}
	p.attachLead(d)
	p.next() // consume 'table'
	d.Name = p.parseIdent()
	if p.tok == token.LPAREN {
		d.Metadata = p.parseMetadata()
	}
	d.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		d.Fields = append(d.Fields, p.parseField())
	}
	d.Rbrace = p.expect(token.RBRACE)
	return d
}

func (p *parser) parseStructDecl() *ast.StructDecl {
	d := &ast.StructDecl{Struct: p.pos}
	p.attachLead(d)
	p.next() // consume 'struct'
	d.Name = p.parseIdent()
	if p.tok == token.LPAREN {
		d.Metadata = p.parseMetadata()
	}
	d.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		d.Fields = append(d.Fields, p.parseField())
	}
	d.Rbrace = p.expect(token.RBRACE)
	return d
}

func (p *parser) parseField() *ast.Field {
	f := &ast.Field{}
	p.saveLead()
	p.attachLead(f)
	f.Name = p.parseIdent()
	f.Colon = p.expect(token.COLON)
	f.Type = p.parseTypeExpr()
	if p.tok == token.ASSIGN {
		f.Eq = p.pos
		p.next()
		f.Default = p.parseScalar()
	}
	if p.tok == token.LPAREN {
		f.Metadata = p.parseMetadata()
	}
	f.Semi = p.expect(token.SEMI)
	return f
}

func (p *parser) parseTypeExpr() ast.TypeExpr {
	switch p.tok {
	case token.IDENT:
		return p.parseNamespaceIdent()
	case token.LBRACK:
		lbrack := p.pos
		p.next()
		elem := p.parseTypeExpr()
		if p.tok == token.COLON {
			colon := p.pos
			p.next()
			length := p.parseIntLit()
			rbrack := p.expect(token.RBRACK)
			return &ast.ArrayType{Lbrack: lbrack, Elem: elem, Colon: colon, Len: length, Rbrack: rbrack}
		}
		rbrack := p.expect(token.RBRACK)
		return &ast.VectorType{Lbrack: lbrack, Elem: elem, Rbrack: rbrack}
	default:
		from := p.pos
		p.errf(p.pos, "expected a type, found %s", p.tok)
		p.next()
		return &ast.BadExpr{From: from, To: p.pos}
	}
}

func (p *parser) parseIntLit() *ast.BasicLit {
	pos, lit := p.pos, p.lit
	if p.tok != token.INT {
		p.errf(pos, "expected integer literal, found %s", p.tok)
		return &ast.BasicLit{ValuePos: pos, Kind: token.INT, Value: "0"}
	}
	p.next()
	return &ast.BasicLit{ValuePos: pos, Kind: token.INT, Value: lit}
}

// parseScalar parses a default value or metadata value: a numeric or
// string literal, or one of the bare identifiers true/false/null/an enum
// value name.
func (p *parser) parseScalar() ast.Expr {
	switch p.tok {
	case token.INT, token.FLOAT, token.STRING:
		pos, kind, lit := p.pos, p.tok, p.lit
		p.next()
		return &ast.BasicLit{ValuePos: pos, Kind: kind, Value: lit}
	case token.IDENT, token.TRUE, token.FALSE, token.NULL:
		pos, name := p.pos, p.lit
		if name == "" {
			name = p.tok.String()
		}
		p.next()
		return &ast.Ident{NamePos: pos, Name: name}
	default:
		from := p.pos
		p.errf(p.pos, "expected a value, found %s", p.tok)
		p.next()
		return &ast.BadExpr{From: from, To: p.pos}
	}
}

func (p *parser) parseMetadata() *ast.Metadata {
	m := &ast.Metadata{Lparen: p.pos}
	p.next() // consume '('
	for p.tok != token.RPAREN && p.tok != token.EOF {
		m.List = append(m.List, p.parseMetadatum())
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	m.Rparen = p.expect(token.RPAREN)
	return m
}

func (p *parser) parseMetadatum() *ast.Metadatum {
	md := &ast.Metadatum{Key: p.parseIdent()}
	if p.tok == token.COLON {
		md.Colon = p.pos
		p.next()
		md.Value = p.parseScalar()
	}
	return md
}

func (p *parser) parseEnumDecl() *ast.EnumDecl {
	d := &ast.EnumDecl{Enum: p.pos}
	p.attachLead(d)
	p.next() // consume 'enum'
	d.Name = p.parseIdent()
	if p.tok == token.COLON {
		d.Colon = p.pos
		p.next()
		d.Repr = p.parseIdent()
	}
	if p.tok == token.LPAREN {
		d.Metadata = p.parseMetadata()
	}
	d.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		d.Values = append(d.Values, p.parseEnumValue())
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	d.Rbrace = p.expect(token.RBRACE)
	return d
}

func (p *parser) parseEnumValue() *ast.EnumValue {
	v := &ast.EnumValue{Name: p.parseIdent()}
	if p.tok == token.ASSIGN {
		v.Eq = p.pos
		p.next()
		v.Value = p.parseIntLit()
	}
	return v
}

func (p *parser) parseUnionDecl() *ast.UnionDecl {
	d := &ast.UnionDecl{Union: p.pos}
	p.attachLead(d)
	p.next() // consume 'union'
	d.Name = p.parseIdent()
	if p.tok == token.LPAREN {
		d.Metadata = p.parseMetadata()
	}
	d.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		d.Variants = append(d.Variants, p.parseUnionVariant())
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	d.Rbrace = p.expect(token.RBRACE)
	return d
}

func (p *parser) parseUnionVariant() *ast.UnionVariant {
	first := p.parseIdent()
	v := &ast.UnionVariant{Type: first}
	if p.tok == token.COLON {
		v.Alias = first
		v.Colon = p.pos
		p.next()
		v.Type = p.parseIdent()
	}
	return v
}

func (p *parser) parseRPCServiceDecl() *ast.RPCServiceDecl {
	d := &ast.RPCServiceDecl{RPCService: p.pos}
	p.attachLead(d)
	p.next() // consume 'rpc_service'
	d.Name = p.parseIdent()
	d.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		pos := p.pos
		d.Methods = append(d.Methods, p.parseRPCMethod())
		if p.pos == pos {
			p.next() // no part of a method could start at this token
		}
	}
	d.Rbrace = p.expect(token.RBRACE)
	return d
}

func (p *parser) parseRPCMethod() *ast.RPCMethod {
	m := &ast.RPCMethod{}
	p.saveLead()
	p.attachLead(m)
	m.Name = p.parseIdent()
	m.Lparen = p.expect(token.LPAREN)
	m.Request = p.parseIdent()
	m.Rparen = p.expect(token.RPAREN)
	m.Colon = p.expect(token.COLON)
	m.Response = p.parseIdent()
	if p.tok == token.LPAREN {
		m.Metadata = p.parseMetadata()
	}
	m.Semi = p.expect(token.SEMI)
	return m
}

func (p *parser) parseRootTypeDecl() *ast.RootTypeDecl {
	d := &ast.RootTypeDecl{RootType: p.pos}
	p.attachLead(d)
	p.next() // consume 'root_type'
	d.Name = p.parseIdent()
	d.Semi = p.expect(token.SEMI)
	return d
}

func (p *parser) parseFileIdentifierDecl() *ast.FileIdentifierDecl {
	d := &ast.FileIdentifierDecl{FileIdentifier: p.pos}
	p.attachLead(d)
	p.next() // consume 'file_identifier'
	d.Value = p.parseStringLit()
	d.Semi = p.expect(token.SEMI)
	return d
}

func (p *parser) parseFileExtensionDecl() *ast.FileExtensionDecl {
	d := &ast.FileExtensionDecl{FileExtension: p.pos}
	p.attachLead(d)
	p.next() // consume 'file_extension'
	d.Value = p.parseStringLit()
	d.Semi = p.expect(token.SEMI)
	return d
}

func (p *parser) parseAttributeDecl() *ast.AttributeDecl {
	d := &ast.AttributeDecl{Attribute: p.pos}
	p.attachLead(d)
	p.next() // consume 'attribute'
	d.Value = p.parseStringLit()
	d.Semi = p.expect(token.SEMI)
	return d
}

// LiteralValue converts the literal text of a BasicLit into a Go value:
// an int64 for INT, a float64 for FLOAT, or a string for STRING.
func LiteralValue(lit *ast.BasicLit) (interface{}, error) {
	switch lit.Kind {
	case token.INT:
		return literal.ParseInt(lit.Value)
	case token.FLOAT:
		return literal.ParseFloat(lit.Value)
	case token.STRING:
		return literal.Unquote(lit.Value)
	default:
		return nil, fmt.Errorf("not a literal: %v", lit.Kind)
	}
}
