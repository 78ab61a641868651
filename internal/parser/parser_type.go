package parser

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/lexer"
)

// parseType parses the surface type syntax from spec.md §3: a bare name, a
// generic instantiation Name<Args,...>, a tuple (T, U), a function type
// fn(T, U) -> R, or an array suffix T[] (sugar for Array<T>).
func (p *Parser) parseType() ast.Type {
	base := p.parseTypeBase()
	for p.at(lexer.LBRACKET) {
		p.advance()
		p.expect(lexer.RBRACKET)
		base = ast.GenericType{Base: "Array", Args: []ast.Type{base}}
	}
	return base
}

func (p *Parser) parseTypeBase() ast.Type {
	switch {
	case p.at(lexer.KwFn):
		return p.parseFuncType()
	case p.at(lexer.LPAREN):
		return p.parseTupleType()
	case p.at(lexer.IDENT):
		nameTok := p.advance()
		if p.at(lexer.LT) {
			return ast.GenericType{Base: nameTok.Literal, Args: p.parseTypeArgs()}
		}
		return ast.SimpleType{Name: nameTok.Literal}
	default:
		p.errUnexpected(lexer.IDENT)
		p.advance()
		return ast.SimpleType{Name: "?"}
	}
}

func (p *Parser) parseTypeArgs() []ast.Type {
	p.advance() // '<'
	var args []ast.Type
	for !p.at(lexer.GT) && !p.at(lexer.EOF) {
		args = append(args, p.parseType())
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.GT)
	return args
}

func (p *Parser) parseTupleType() ast.Type {
	p.advance() // '('
	var elems []ast.Type
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		elems = append(elems, p.parseType())
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	return ast.TupleType{Elems: elems}
}

func (p *Parser) parseFuncType() ast.Type {
	p.advance() // 'fn'
	p.expect(lexer.LPAREN)
	var params []ast.Type
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		params = append(params, p.parseType())
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	var ret ast.Type
	if p.at(lexer.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	return ast.FuncType{Params: params, Return: ret}
}
