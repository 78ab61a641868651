package parser

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/errors"
	"github.com/otterlang/otter/internal/lexer"
)

// parsePattern parses one match-arm pattern per spec.md §3: wildcard,
// literal, identifier binding, enum-variant (tuple or struct payload), bare
// struct pattern, or array pattern with an optional rest-binding.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur().Kind {
	case lexer.UNDERSCORE:
		tok := p.advance()
		return ast.WildcardPattern{Sp: tok.Span}
	case lexer.INT:
		tok := p.advance()
		return ast.LiteralPattern{Sp: tok.Span, Kind: ast.LitInt, Raw: tok.Literal}
	case lexer.FLOAT:
		tok := p.advance()
		return ast.LiteralPattern{Sp: tok.Span, Kind: ast.LitFloat, Raw: tok.Literal}
	case lexer.STRING:
		tok := p.advance()
		return ast.LiteralPattern{Sp: tok.Span, Kind: ast.LitString, Raw: tok.Literal}
	case lexer.BOOL:
		tok := p.advance()
		return ast.LiteralPattern{Sp: tok.Span, Kind: ast.LitBool, Raw: tok.Literal}
	case lexer.MINUS:
		// Negative numeric literal pattern, e.g. `-1`.
		start := p.advance().Span
		tok := p.advance()
		kind := ast.LitInt
		if tok.Kind == lexer.FLOAT {
			kind = ast.LitFloat
		}
		return ast.LiteralPattern{Sp: diag.Join(start, tok.Span), Kind: kind, Raw: "-" + tok.Literal}
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.IDENT:
		return p.parseIdentLedPattern()
	default:
		tok := p.advance()
		p.diags.Add(diag.New(errors.PAR001, tok.Span, "unexpected token %s in pattern", tok.Kind.String()))
		return ast.WildcardPattern{Sp: tok.Span}
	}
}

// parseIdentLedPattern disambiguates the four pattern forms that start with
// an identifier: a plain binding, an enum-qualified variant (`Enum.Variant`),
// a bare variant/tuple pattern (`Variant(...)`), and a struct pattern
// (`Name{...}`). A braced pattern is an enum variant only when qualified
// (`Enum.Variant{...}`); an unqualified `Name{...}` is a struct pattern.
func (p *Parser) parseIdentLedPattern() ast.Pattern {
	first := p.advance()
	enum := ""
	variant := first.Literal

	if p.at(lexer.DOT) {
		p.advance()
		if tok, ok := p.expect(lexer.IDENT); ok {
			enum = first.Literal
			variant = tok.Literal
		}
	}

	switch {
	case p.at(lexer.LPAREN):
		p.advance()
		var tuple []ast.Pattern
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			tuple = append(tuple, p.parsePattern())
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		end := p.cur().Span
		p.expect(lexer.RPAREN)
		return ast.EnumVariantPattern{Sp: diag.Join(first.Span, end), Enum: enum, Variant: variant, Tuple: tuple}
	case p.at(lexer.LBRACE):
		fields, end := p.parseFieldPatterns()
		if enum != "" {
			return ast.EnumVariantPattern{Sp: diag.Join(first.Span, end), Enum: enum, Variant: variant, Fields: fields}
		}
		return ast.StructPattern{Sp: diag.Join(first.Span, end), Type: variant, Fields: fields}
	default:
		if enum != "" {
			return ast.EnumVariantPattern{Sp: diag.Join(first.Span, first.Span), Enum: enum, Variant: variant}
		}
		return ast.IdentPattern{Sp: first.Span, Name: first.Literal}
	}
}

// looksLikeVariant reports whether name follows OtterLang's PascalCase
// convention for type and variant names (an ASCII uppercase first
// letter). The braced-pattern parse does not consult it: an unqualified
// `Name { ... }` is always a struct pattern.
func looksLikeVariant(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func (p *Parser) parseFieldPatterns() ([]ast.FieldPattern, diag.Span) {
	p.advance() // '{'
	var fields []ast.FieldPattern
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		nameTok, ok := p.expect(lexer.IDENT)
		if !ok {
			break
		}
		fp := ast.FieldPattern{Name: nameTok.Literal}
		if p.at(lexer.COLON) {
			p.advance()
			fp.Sub = p.parsePattern()
		}
		fields = append(fields, fp)
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	end := p.cur().Span
	p.expect(lexer.RBRACE)
	return fields, end
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	start := p.advance().Span // '['
	ap := ast.ArrayPattern{Sp: start}
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		if p.at(lexer.DOTDOT) {
			p.advance()
			if tok, ok := p.expect(lexer.IDENT); ok {
				ap.Rest = tok.Literal
			}
		} else {
			ap.Head = append(ap.Head, p.parsePattern())
		}
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	end := p.cur().Span
	p.expect(lexer.RBRACKET)
	ap.Sp = diag.Join(start, end)
	return ap
}
