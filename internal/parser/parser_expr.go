package parser

import (
	"strings"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/errors"
	"github.com/otterlang/otter/internal/lexer"
)

// Precedence levels, lowest to highest, per spec.md §4.2: or, and,
// comparisons (== != < > <= >= is/is not), range .., additive, multiplicative,
// unary, postfix (member access / call).
const (
	precLowest = iota
	precOr
	precAnd
	precCompare
	precRange
	precAdd
	precMul
	precUnary
	precPostfix
)

func precedenceOf(k lexer.Kind) int {
	switch k {
	case lexer.KwOr:
		return precOr
	case lexer.KwAnd:
		return precAnd
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE, lexer.KwIs:
		return precCompare
	case lexer.DOTDOT:
		return precRange
	case lexer.PLUS, lexer.MINUS:
		return precAdd
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return precMul
	case lexer.LPAREN, lexer.DOT:
		return precPostfix
	default:
		return precLowest
	}
}

// parseExpr is the Pratt/precedence-climbing entry point: parse a prefix
// expression, then repeatedly fold in infix/postfix operators whose
// precedence exceeds the caller's minimum.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for {
		k := p.cur().Kind
		prec := precedenceOf(k)
		if prec <= minPrec {
			break
		}
		switch k {
		case lexer.LPAREN, lexer.DOT:
			left = p.parsePostfix(left)
		case lexer.DOTDOT:
			p.advance()
			right := p.parseExpr(precRange)
			left = &ast.RangeExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(left.Span(), right.Span())}, Start: left, End: right}
		case lexer.KwIs:
			p.advance()
			op := ast.OpIs
			if p.at(lexer.KwNot) {
				p.advance()
				op = ast.OpIsNot
			}
			right := p.parseExpr(precCompare)
			left = &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(left.Span(), right.Span())}, Op: op, Left: left, Right: right}
		default:
			left = p.parseBinary(left, k, prec)
		}
	}
	return left
}

var binaryOps = map[lexer.Kind]ast.BinaryOp{
	lexer.KwOr: ast.OpOr, lexer.KwAnd: ast.OpAnd,
	lexer.EQ: ast.OpEq, lexer.NEQ: ast.OpNeq,
	lexer.LT: ast.OpLt, lexer.GT: ast.OpGt, lexer.LTE: ast.OpLte, lexer.GTE: ast.OpGte,
	lexer.PLUS: ast.OpAdd, lexer.MINUS: ast.OpSub,
	lexer.STAR: ast.OpMul, lexer.SLASH: ast.OpDiv, lexer.PERCENT: ast.OpMod,
}

func (p *Parser) parseBinary(left ast.Expr, k lexer.Kind, prec int) ast.Expr {
	p.advance()
	op, ok := binaryOps[k]
	if !ok {
		p.diags.Add(diag.New(errors.PAR001, p.cur().Span, "unexpected operator %s", k.String()))
		return left
	}
	right := p.parseExpr(prec)
	return &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(left.Span(), right.Span())}, Op: op, Left: left, Right: right}
}

// parsePostfix folds one member-access or call suffix onto x; the outer
// loop in parseExpr re-enters for chained suffixes (a.b.c(), f()(), etc).
func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	if p.at(lexer.DOT) {
		p.advance()
		fieldTok, ok := p.expect(lexer.IDENT)
		if !ok {
			return x
		}
		return &ast.MemberExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(x.Span(), fieldTok.Span)}, X: x, Field: fieldTok.Literal}
	}
	// LPAREN: call
	p.advance()
	var args []ast.Expr
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		args = append(args, p.parseExpr(precLowest))
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	end := p.cur().Span
	p.expect(lexer.RPAREN)
	return &ast.CallExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(x.Span(), end)}, Fn: x, Args: args}
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur().Kind {
	case lexer.MINUS:
		start := p.advance().Span
		x := p.parseExpr(precUnary)
		if x == nil {
			return nil
		}
		return &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, x.Span())}, Op: ast.OpNeg, X: x}
	case lexer.KwNot:
		start := p.advance().Span
		x := p.parseExpr(precUnary)
		if x == nil {
			return nil
		}
		return &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, x.Span())}, Op: ast.OpNot, X: x}
	case lexer.BANG:
		start := p.advance().Span
		x := p.parseExpr(precUnary)
		if x == nil {
			return nil
		}
		return &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, x.Span())}, Op: ast.OpBang, X: x}
	case lexer.KwSpawn:
		start := p.advance().Span
		x := p.parseExpr(precUnary)
		return &ast.SpawnExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, x.Span())}, X: x}
	case lexer.KwAwait:
		start := p.advance().Span
		x := p.parseExpr(precUnary)
		return &ast.AwaitExpr{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, x.Span())}, X: x}
	default:
		return p.parseAtom()
	}
}

func (p *Parser) parseAtom() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case lexer.INT:
		p.advance()
		return &ast.Literal{BaseExpr: ast.BaseExpr{Sp: tok.Span}, Kind: ast.LitInt, Raw: tok.Literal}
	case lexer.FLOAT:
		p.advance()
		return &ast.Literal{BaseExpr: ast.BaseExpr{Sp: tok.Span}, Kind: ast.LitFloat, Raw: tok.Literal}
	case lexer.STRING:
		p.advance()
		return &ast.Literal{BaseExpr: ast.BaseExpr{Sp: tok.Span}, Kind: ast.LitString, Raw: tok.Literal}
	case lexer.BOOL:
		p.advance()
		return &ast.Literal{BaseExpr: ast.BaseExpr{Sp: tok.Span}, Kind: ast.LitBool, Raw: tok.Literal}
	case lexer.FSTRING:
		p.advance()
		return p.splitInterpString(tok)
	case lexer.KwSelf:
		p.advance()
		return &ast.Ident{BaseExpr: ast.BaseExpr{Sp: tok.Span}, Name: "self"}
	case lexer.IDENT:
		p.advance()
		if p.at(lexer.LBRACE) && p.looksLikeStructLit() {
			return p.parseStructLit(tok)
		}
		return &ast.Ident{BaseExpr: ast.BaseExpr{Sp: tok.Span}, Name: tok.Literal}
	case lexer.LPAREN:
		return p.parseParenOrTuple()
	case lexer.LBRACKET:
		return p.parseArrayOrComprehension()
	case lexer.LBRACE:
		return p.parseDictLit()
	case lexer.KwIf:
		return p.parseIfExpr()
	case lexer.KwMatch:
		return p.parseMatchExpr()
	default:
		p.errUnexpected(lexer.IDENT)
		p.advance()
		return nil
	}
}

// looksLikeStructLit guards against treating a block-colon context (e.g.
// `if cond:` followed on the next line by an indented block, never an
// immediately-following '{') as a struct literal; since OtterLang blocks use
// INDENT/DEDENT rather than braces, any IDENT directly followed by '{' at
// expression position is unambiguously a struct literal.
func (p *Parser) looksLikeStructLit() bool { return true }

func (p *Parser) parseStructLit(nameTok lexer.Token) ast.Expr {
	p.advance() // '{'
	var fields []ast.FieldInit
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		fnameTok, ok := p.expect(lexer.IDENT)
		if !ok {
			break
		}
		fi := ast.FieldInit{Name: fnameTok.Literal}
		if p.at(lexer.COLON) {
			p.advance()
			fi.Value = p.parseExpr(precLowest)
		} else {
			fi.Value = &ast.Ident{BaseExpr: ast.BaseExpr{Sp: fnameTok.Span}, Name: fnameTok.Literal}
		}
		fields = append(fields, fi)
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	end := p.cur().Span
	p.expect(lexer.RBRACE)
	return &ast.StructLit{BaseExpr: ast.BaseExpr{Sp: diag.Join(nameTok.Span, end)}, Type: nameTok.Literal, Fields: fields}
}

func (p *Parser) parseParenOrTuple() ast.Expr {
	start := p.advance().Span // '('
	if p.at(lexer.RPAREN) {
		end := p.advance().Span
		return &ast.StructLit{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, end)}, Type: "unit"}
	}
	x := p.parseExpr(precLowest)
	p.expect(lexer.RPAREN)
	return x
}

func (p *Parser) parseArrayOrComprehension() ast.Expr {
	start := p.advance().Span // '['
	if p.at(lexer.RBRACKET) {
		end := p.advance().Span
		return &ast.ArrayLit{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, end)}}
	}
	first := p.parseExpr(precLowest)
	if p.at(lexer.KwFor) {
		p.advance()
		bindingTok, _ := p.expect(lexer.IDENT)
		p.expect(lexer.KwIn)
		iter := p.parseExpr(precLowest)
		var filter ast.Expr
		if p.at(lexer.KwIf) {
			p.advance()
			filter = p.parseExpr(precLowest)
		}
		end := p.cur().Span
		p.expect(lexer.RBRACKET)
		return &ast.Comprehension{
			BaseExpr: ast.BaseExpr{Sp: diag.Join(start, end)},
			Kind:     ast.CompList,
			ValExpr:  first,
			Binding:  bindingTok.Literal,
			Iterable: iter,
			Filter:   filter,
		}
	}
	elems := []ast.Expr{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACKET) {
			break
		}
		elems = append(elems, p.parseExpr(precLowest))
	}
	end := p.cur().Span
	p.expect(lexer.RBRACKET)
	return &ast.ArrayLit{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, end)}, Elems: elems}
}

func (p *Parser) parseDictLit() ast.Expr {
	start := p.advance().Span // '{'
	if p.at(lexer.RBRACE) {
		end := p.advance().Span
		return &ast.DictLit{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, end)}}
	}
	firstKey := p.parseExpr(precLowest)
	p.expect(lexer.COLON)
	firstVal := p.parseExpr(precLowest)
	if p.at(lexer.KwFor) {
		p.advance()
		bindingTok, _ := p.expect(lexer.IDENT)
		p.expect(lexer.KwIn)
		iter := p.parseExpr(precLowest)
		var filter ast.Expr
		if p.at(lexer.KwIf) {
			p.advance()
			filter = p.parseExpr(precLowest)
		}
		end := p.cur().Span
		p.expect(lexer.RBRACE)
		return &ast.Comprehension{
			BaseExpr: ast.BaseExpr{Sp: diag.Join(start, end)},
			Kind:     ast.CompDict,
			KeyExpr:  firstKey,
			ValExpr:  firstVal,
			Binding:  bindingTok.Literal,
			Iterable: iter,
			Filter:   filter,
		}
	}
	entries := []ast.DictEntry{{Key: firstKey, Value: firstVal}}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACE) {
			break
		}
		k := p.parseExpr(precLowest)
		p.expect(lexer.COLON)
		v := p.parseExpr(precLowest)
		entries = append(entries, ast.DictEntry{Key: k, Value: v})
	}
	end := p.cur().Span
	p.expect(lexer.RBRACE)
	return &ast.DictLit{BaseExpr: ast.BaseExpr{Sp: diag.Join(start, end)}, Entries: entries}
}

// parseIfExpr parses the expression form `if cond: then else: else`, where
// then/else are single expressions rather than indented blocks — distinct
// from the statement-level IfStmt parsed in parser.go's parseIfStmt.
func (p *Parser) parseIfExpr() ast.Expr {
	start := p.advance().Span
	cond := p.parseExpr(precLowest)
	p.expect(lexer.COLON)
	then := p.parseExpr(precLowest)
	expr := &ast.IfExpr{BaseExpr: ast.BaseExpr{Sp: start}, Cond: cond, Then: then}
	for p.at(lexer.KwElif) {
		p.advance()
		c := p.parseExpr(precLowest)
		p.expect(lexer.COLON)
		t := p.parseExpr(precLowest)
		expr.Elifs = append(expr.Elifs, ast.ElifExprClause{Cond: c, Then: t})
	}
	if p.at(lexer.KwElse) {
		p.advance()
		p.expect(lexer.COLON)
		expr.Else = p.parseExpr(precLowest)
	} else {
		p.errUnexpected(lexer.KwElse)
	}
	last := then.Span()
	if expr.Else != nil {
		last = expr.Else.Span()
	} else if n := len(expr.Elifs); n > 0 {
		last = expr.Elifs[n-1].Then.Span()
	}
	expr.Sp = diag.Join(start, last)
	return expr
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.advance().Span
	subject := p.parseExpr(precLowest)
	p.expect(lexer.COLON)
	p.skipNewlines()
	expr := &ast.MatchExpr{BaseExpr: ast.BaseExpr{Sp: start}, Subject: subject}

	if _, ok := p.expect(lexer.INDENT); !ok {
		return expr
	}
	p.skipNewlines()
	for !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
		arm := ast.MatchArm{Pattern: p.parsePattern()}
		if p.at(lexer.KwIf) {
			p.advance()
			arm.Guard = p.parseExpr(precLowest)
		}
		p.expect(lexer.FATARROW)
		arm.Body = p.parseExpr(precLowest)
		expr.Arms = append(expr.Arms, arm)
		p.skipNewlines()
	}
	end := p.cur().Span
	p.expect(lexer.DEDENT)
	expr.Sp = diag.Join(start, end)
	return expr
}

// splitInterpString re-lexes an f-string's raw body (preserved verbatim by
// the lexer in Token.Literal) into alternating text/expression parts,
// recursively invoking the lexer and parser on each `{...}` segment, per
// spec.md §3's InterpString shape.
func (p *Parser) splitInterpString(tok lexer.Token) ast.Expr {
	raw := tok.Literal
	body := raw
	if len(body) >= 2 && body[0] == '"' && body[len(body)-1] == '"' {
		body = body[1 : len(body)-1]
	}

	var parts []ast.InterpPart
	var textBuf strings.Builder
	i := 0
	for i < len(body) {
		c := body[i]
		if c == '{' {
			if textBuf.Len() > 0 {
				parts = append(parts, ast.InterpPart{Text: textBuf.String()})
				textBuf.Reset()
			}
			depth := 1
			j := i + 1
			for j < len(body) && depth > 0 {
				switch body[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			exprSrc := body[i+1 : j]
			sub := p.parseSubExpr(exprSrc, tok.Span)
			parts = append(parts, ast.InterpPart{Expr: sub})
			i = j + 1
			continue
		}
		textBuf.WriteByte(c)
		i++
	}
	if textBuf.Len() > 0 {
		parts = append(parts, ast.InterpPart{Text: textBuf.String()})
	}
	return &ast.InterpString{BaseExpr: ast.BaseExpr{Sp: tok.Span}, Parts: parts}
}

// parseSubExpr lexes and parses a standalone expression fragment extracted
// from an f-string interpolation; diagnostics raised inside it are folded
// into the outer parser's bag so a single Parse call still returns one Bag.
func (p *Parser) parseSubExpr(src string, fallback diag.Span) ast.Expr {
	toks, subDiags := lexer.Tokenize([]byte(src), p.file)
	for _, d := range subDiags.All() {
		p.diags.Add(d)
	}
	sub := New(toks, p.file)
	e := sub.parseExpr(precLowest)
	for _, d := range sub.diags.All() {
		p.diags.Add(d)
	}
	if e == nil {
		return &ast.Ident{BaseExpr: ast.BaseExpr{Sp: fallback}, Name: "?"}
	}
	return e
}
