package parser

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/lexer"
)

// parseFunction parses `(pub)? fn name(params) (-> type)? :` followed by a
// block. receiver is non-empty when parsing a method inside a struct body;
// in that case a `self: Self` first parameter is auto-injected if the
// source didn't write one explicitly, per spec.md §4.2.
func (p *Parser) parseFunction(receiver string) ast.Stmt {
	start := p.advance().Span // 'fn'
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}

	var generics []string
	if p.at(lexer.LT) {
		generics = p.parseGenericParams()
	}

	if _, ok := p.expect(lexer.LPAREN); !ok {
		return nil
	}
	params := p.parseParams()
	p.expect(lexer.RPAREN)

	if receiver != "" && (len(params) == 0 || params[0].Name != "self") {
		params = append([]ast.Param{{Name: "self", Type: ast.SimpleType{Name: "Self"}}}, params...)
	}

	var ret ast.Type
	if p.at(lexer.ARROW) {
		p.advance()
		ret = p.parseType()
	}

	p.expect(lexer.COLON)
	p.skipNewlines()
	body := p.parseBlock()

	return &ast.FuncDecl{
		BaseStmt:   ast.BaseStmt{Sp: diag.Join(start, body.Sp)},
		Name:       nameTok.Literal,
		Generics:   generics,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Receiver:   receiver,
	}
}

// parseGenericParams parses `<T, U, ...>`. The caller checks for the
// opening `<` (lexed as LT, since OtterLang has no standalone
// angle-bracket token kind); this function consumes it.
func (p *Parser) parseGenericParams() []string {
	p.advance() // '<'
	var names []string
	for !p.at(lexer.GT) && !p.at(lexer.EOF) {
		if tok, ok := p.expect(lexer.IDENT); ok {
			names = append(names, tok.Literal)
		}
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.GT)
	return names
}

func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		nameTok, ok := p.expect(lexer.IDENT)
		if !ok {
			break
		}
		param := ast.Param{Name: nameTok.Literal}
		if p.at(lexer.COLON) {
			p.advance()
			param.Type = p.parseType()
		}
		if p.at(lexer.ASSIGN) {
			p.advance()
			param.HasDefault = true
			param.Default = p.parseExpr(precLowest)
		}
		params = append(params, param)
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	return params
}

func (p *Parser) parseStruct() ast.Stmt {
	start := p.advance().Span // 'struct'
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	var generics []string
	if p.at(lexer.LT) {
		generics = p.parseGenericParams()
	}
	p.expect(lexer.COLON)
	p.skipNewlines()

	decl := &ast.StructDecl{
		BaseStmt: ast.BaseStmt{Sp: start},
		Name:     nameTok.Literal,
		Generics: generics,
	}

	if _, ok := p.expect(lexer.INDENT); !ok {
		return decl
	}
	p.skipNewlines()
	for !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
		if p.at(lexer.KwFn) {
			m := p.parseFunction(decl.Name)
			if fd, ok := m.(*ast.FuncDecl); ok {
				decl.Methods = append(decl.Methods, fd)
			}
		} else if fieldTok, ok := p.expect(lexer.IDENT); ok {
			field := ast.StructField{Name: fieldTok.Literal}
			if p.at(lexer.COLON) {
				p.advance()
				field.Type = p.parseType()
			}
			decl.Fields = append(decl.Fields, field)
			if p.at(lexer.COMMA) {
				p.advance()
			}
		} else {
			p.advance()
		}
		p.skipNewlines()
	}
	end := p.cur().Span
	p.expect(lexer.DEDENT)
	decl.Sp = diag.Join(start, end)
	return decl
}

func (p *Parser) parseEnum() ast.Stmt {
	start := p.advance().Span // 'enum'
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	var generics []string
	if p.at(lexer.LT) {
		generics = p.parseGenericParams()
	}
	p.expect(lexer.COLON)
	p.skipNewlines()

	decl := &ast.EnumDecl{BaseStmt: ast.BaseStmt{Sp: start}, Name: nameTok.Literal, Generics: generics}

	if _, ok := p.expect(lexer.INDENT); !ok {
		return decl
	}
	p.skipNewlines()
	for !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
		variant := p.parseEnumVariant()
		decl.Variants = append(decl.Variants, variant)
		p.skipNewlines()
	}
	end := p.cur().Span
	p.expect(lexer.DEDENT)
	decl.Sp = diag.Join(start, end)
	return decl
}

func (p *Parser) parseEnumVariant() ast.EnumVariant {
	nameTok, _ := p.expect(lexer.IDENT)
	v := ast.EnumVariant{Name: nameTok.Literal}
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			v.TuplePayload = append(v.TuplePayload, p.parseType())
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RPAREN)
	} else if p.at(lexer.LBRACE) {
		p.advance()
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			fieldTok, ok := p.expect(lexer.IDENT)
			if !ok {
				break
			}
			p.expect(lexer.COLON)
			typ := p.parseType()
			v.StructPayload = append(v.StructPayload, ast.StructField{Name: fieldTok.Literal, Type: typ})
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RBRACE)
	}
	return v
}

func (p *Parser) parseTypeAlias() ast.Stmt {
	start := p.advance().Span // 'type'
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	p.expect(lexer.ASSIGN)
	typ := p.parseType()
	return &ast.TypeAliasDecl{BaseStmt: ast.BaseStmt{Sp: diag.Join(start, p.cur().Span)}, Name: nameTok.Literal, Type: typ}
}

func (p *Parser) parseUse() ast.Stmt {
	start := p.advance().Span // 'use'
	var imports []ast.ImportSpec
	for {
		spec := ast.ImportSpec{Module: p.parseSpecifier()}
		if p.at(lexer.KwAs) {
			p.advance()
			if aliasTok, ok := p.expect(lexer.IDENT); ok {
				spec.Alias = aliasTok.Literal
			}
		}
		imports = append(imports, spec)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return &ast.UseStmt{BaseStmt: ast.BaseStmt{Sp: diag.Join(start, p.cur().Span)}, Imports: imports}
}

// parseSpecifier scans one import-path-syntax specifier, per spec.md §4.4:
// "segment (('/' | ':') segment)*", where a segment is a lone '.', a lone
// '..', or an identifier (itself allowed to contain interior '-' so
// foreign-ecosystem crate names like `foreign-crate` read as one segment).
// The trailing optional ('.' item) of a pub-use path is NOT consumed here;
// parsePubUse peels that off afterward.
func (p *Parser) parseSpecifier() string {
	path := p.parseSpecifierSegment()
	for p.at(lexer.SLASH) || p.at(lexer.COLON) {
		sep := p.advance().Literal
		path += sep + p.parseSpecifierSegment()
	}
	return path
}

func (p *Parser) parseSpecifierSegment() string {
	switch p.cur().Kind {
	case lexer.DOT:
		p.advance()
		return "."
	case lexer.DOTDOT:
		p.advance()
		return ".."
	case lexer.IDENT:
		seg := p.advance().Literal
		for p.at(lexer.MINUS) && p.peek().Kind == lexer.IDENT {
			p.advance()
			seg += "-" + p.advance().Literal
		}
		return seg
	default:
		p.errUnexpected(lexer.IDENT)
		return ""
	}
}

func (p *Parser) parsePubUse(start diag.Span) ast.Stmt {
	p.advance() // 'use'
	module := p.parseSpecifier()
	stmt := &ast.PubUseStmt{BaseStmt: ast.BaseStmt{Sp: start}, Module: module}
	if p.at(lexer.DOT) {
		p.advance()
		if itemTok, ok := p.expect(lexer.IDENT); ok {
			stmt.Item = itemTok.Literal
		}
	}
	if p.at(lexer.KwAs) {
		p.advance()
		if aliasTok, ok := p.expect(lexer.IDENT); ok {
			stmt.Alias = aliasTok.Literal
		}
	}
	stmt.Sp = diag.Join(start, p.cur().Span)
	return stmt
}
