// Package parser implements the OtterLang Pratt/precedence-climbing parser,
// producing a fully-spanned ast.Program from a lexer.Token stream, per
// spec.md §4.2. The two-token-lookahead shape (cur/peek) follows the
// teacher's internal/parser/parser.go, with switch-based prefix/infix
// dispatch in place of its parse-fn maps; the
// grammar itself (indentation blocks, struct/enum declarations, match
// expressions) is new.
package parser

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/errors"
	"github.com/otterlang/otter/internal/lexer"
)

// Parser holds the token stream and parse state. One Parser parses exactly
// one file's token stream.
type Parser struct {
	file   string
	toks   []lexer.Token
	pos    int
	diags  *diag.Bag
}

// New creates a Parser over a complete token stream (as returned by
// lexer.Tokenize).
func New(toks []lexer.Token, file string) *Parser {
	return &Parser{file: file, toks: toks, diags: &diag.Bag{}}
}

// Parse tokenizes is not performed here — callers run the lexer first, then
// pass its output to New and call Parse. This mirrors spec.md §4.2's
// contract: parse(tokens) -> Ok(Program) | Err(diagnostics).
func Parse(toks []lexer.Token, file string) (*ast.Program, *diag.Bag) {
	p := New(toks, file)
	prog := p.parseProgram()
	return prog, p.diags
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

// expect consumes the current token if it has kind k, otherwise records an
// unexpected-token (or unexpected-eof) diagnostic and returns the zero
// Token with ok=false. Recovery is deliberately shallow: the caller's
// production is abandoned, per spec.md §4.2's error-recovery policy.
func (p *Parser) expect(k lexer.Kind) (lexer.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errUnexpected(k)
	return lexer.Token{}, false
}

func (p *Parser) errUnexpected(want lexer.Kind) {
	tok := p.cur()
	code := errors.PAR001
	msg := "unexpected token " + tok.Kind.String() + ", expected " + want.String()
	if tok.Kind == lexer.EOF {
		code = errors.PAR002
		msg = "unexpected end of file, expected " + want.String()
	}
	p.diags.Add(diag.New(code, tok.Span, "%s", msg))
}

// skipNewlines consumes zero or more NEWLINE tokens, which separate
// top-level and block-level statements but carry no semantic content.
func (p *Parser) skipNewlines() {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.at(lexer.EOF) {
		stmt := p.parseTopLevel()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		} else if !p.at(lexer.EOF) {
			// Parsing failed to make progress; advance one token to avoid
			// an infinite loop, consistent with spec.md's shallow recovery.
			p.advance()
		}
		p.skipNewlines()
	}
	return prog
}

func (p *Parser) parseTopLevel() ast.Stmt {
	switch p.cur().Kind {
	case lexer.KwPub:
		return p.parsePubDecl()
	case lexer.KwFn:
		return p.parseFunction("")
	case lexer.KwStruct:
		return p.parseStruct()
	case lexer.KwEnum:
		return p.parseEnum()
	case lexer.KwType:
		return p.parseTypeAlias()
	case lexer.KwUse:
		return p.parseUse()
	default:
		return p.parseStatement()
	}
}

// parsePubDecl handles `pub` prefixing fn/struct/enum/type/use(as pub-use).
func (p *Parser) parsePubDecl() ast.Stmt {
	start := p.cur().Span
	p.advance() // consume 'pub'
	switch p.cur().Kind {
	case lexer.KwFn:
		fn := p.parseFunction("")
		if f, ok := fn.(*ast.FuncDecl); ok {
			f.Pub = true
		}
		return fn
	case lexer.KwStruct:
		s := p.parseStruct()
		if sd, ok := s.(*ast.StructDecl); ok {
			sd.Pub = true
		}
		return s
	case lexer.KwEnum:
		e := p.parseEnum()
		if ed, ok := e.(*ast.EnumDecl); ok {
			ed.Pub = true
		}
		return e
	case lexer.KwType:
		ta := p.parseTypeAlias()
		if td, ok := ta.(*ast.TypeAliasDecl); ok {
			td.Pub = true
		}
		return ta
	case lexer.KwUse:
		return p.parsePubUse(start)
	default:
		p.errUnexpected(lexer.KwFn)
		return nil
	}
}

// parseStatement parses one non-declaration statement.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case lexer.KwLet:
		return p.parseLet()
	case lexer.KwIf:
		return p.parseIfStmt()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwFor:
		return p.parseFor()
	case lexer.KwBreak:
		tok := p.advance()
		return &ast.BreakStmt{Sp: tok.Span}
	case lexer.KwContinue:
		tok := p.advance()
		return &ast.ContinueStmt{Sp: tok.Span}
	case lexer.KwPass:
		tok := p.advance()
		return &ast.PassStmt{Sp: tok.Span}
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.INDENT:
		return &ast.BlockStmt{Block: p.parseBlock()}
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur().Span
	if _, ok := p.expect(lexer.INDENT); !ok {
		return &ast.Block{Sp: start}
	}
	b := &ast.Block{Sp: start}
	p.skipNewlines()
	for !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
		stmt := p.parseTopLevel()
		if stmt != nil {
			b.Statements = append(b.Statements, stmt)
		} else if !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
			p.advance()
		}
		p.skipNewlines()
	}
	end := p.cur().Span
	p.expect(lexer.DEDENT)
	b.Sp = diag.Join(start, end)
	return b
}

func (p *Parser) parseLet() ast.Stmt {
	start := p.advance().Span // 'let'
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	var ann ast.Type
	if p.at(lexer.COLON) {
		p.advance()
		ann = p.parseType()
	}
	if _, ok := p.expect(lexer.ASSIGN); !ok {
		return nil
	}
	val := p.parseExpr(precLowest)
	return &ast.LetStmt{
		BaseStmt:   ast.BaseStmt{Sp: diag.Join(start, val.Span())},
		Name:       nameTok.Literal,
		Annotation: ann,
		Value:      val,
	}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.advance().Span
	if p.at(lexer.NEWLINE) || p.at(lexer.DEDENT) || p.at(lexer.EOF) {
		return &ast.ReturnStmt{BaseStmt: ast.BaseStmt{Sp: start}}
	}
	val := p.parseExpr(precLowest)
	return &ast.ReturnStmt{BaseStmt: ast.BaseStmt{Sp: diag.Join(start, val.Span())}, Value: val}
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.advance().Span
	cond := p.parseExpr(precLowest)
	p.expect(lexer.COLON)
	p.skipNewlines()
	body := p.parseBlock()
	return &ast.WhileStmt{BaseStmt: ast.BaseStmt{Sp: diag.Join(start, body.Sp)}, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.advance().Span
	nameTok, _ := p.expect(lexer.IDENT)
	p.expect(lexer.KwIn)
	iter := p.parseExpr(precLowest)
	p.expect(lexer.COLON)
	p.skipNewlines()
	body := p.parseBlock()
	return &ast.ForStmt{
		BaseStmt: ast.BaseStmt{Sp: diag.Join(start, body.Sp)},
		Binding:  nameTok.Literal,
		Iterable: iter,
		Body:     body,
	}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.advance().Span
	cond := p.parseExpr(precLowest)
	p.expect(lexer.COLON)
	p.skipNewlines()
	then := p.parseBlock()
	stmt := &ast.IfStmt{BaseStmt: ast.BaseStmt{Sp: start}, Cond: cond, Then: then}
	for p.at(lexer.KwElif) {
		p.advance()
		c := p.parseExpr(precLowest)
		p.expect(lexer.COLON)
		p.skipNewlines()
		b := p.parseBlock()
		stmt.Elifs = append(stmt.Elifs, ast.ElifClause{Cond: c, Body: b})
	}
	if p.at(lexer.KwElse) {
		p.advance()
		p.expect(lexer.COLON)
		p.skipNewlines()
		stmt.Else = p.parseBlock()
	}
	last := then.Sp
	if stmt.Else != nil {
		last = stmt.Else.Sp
	} else if n := len(stmt.Elifs); n > 0 {
		last = stmt.Elifs[n-1].Body.Sp
	}
	stmt.Sp = diag.Join(start, last)
	return stmt
}

func (p *Parser) parseExprStmt() ast.Stmt {
	x := p.parseExpr(precLowest)
	if x == nil {
		return nil
	}
	if p.at(lexer.ASSIGN) {
		p.advance()
		val := p.parseExpr(precLowest)
		return &ast.AssignStmt{BaseStmt: ast.BaseStmt{Sp: diag.Join(x.Span(), val.Span())}, Target: x, Value: val}
	}
	return &ast.ExprStmt{BaseStmt: ast.BaseStmt{Sp: x.Span()}, X: x}
}

// Diagnostics returns the diagnostics accumulated during parsing.
func (p *Parser) Diagnostics() *diag.Bag { return p.diags }
