package lexer

import (
	"fmt"

	"github.com/otterlang/otter/internal/diag"
)

// Kind identifies the lexical category of a Token. The shape follows the
// teacher's TokenType enum (a single contiguous const block grouped by
// category) generalized with the three synthetic layout tokens spec.md §3
// requires: Indent, Dedent, Newline.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT
	INT
	FLOAT
	STRING
	FSTRING // raw f-string body; re-split by the parser
	BOOL

	// Keywords
	KwFn
	KwPub
	KwLet
	KwIf
	KwElif
	KwElse
	KwWhile
	KwFor
	KwIn
	KwBreak
	KwContinue
	KwPass
	KwReturn
	KwStruct
	KwEnum
	KwType
	KwUse
	KwAs
	KwMatch
	KwIs
	KwNot
	KwAnd
	KwOr
	KwSpawn
	KwAwait
	KwSelf

	// Structural / synthetic
	NEWLINE
	INDENT
	DEDENT

	// Punctuation
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	COLON
	DOT
	DOTDOT // range ..
	ARROW  // ->
	FATARROW

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	BANG
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
	UNDERSCORE
	PIPE
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", FSTRING: "FSTRING", BOOL: "BOOL",
	KwFn: "fn", KwPub: "pub", KwLet: "let", KwIf: "if", KwElif: "elif", KwElse: "else",
	KwWhile: "while", KwFor: "for", KwIn: "in", KwBreak: "break", KwContinue: "continue",
	KwPass: "pass", KwReturn: "return", KwStruct: "struct", KwEnum: "enum", KwType: "type",
	KwUse: "use", KwAs: "as", KwMatch: "match", KwIs: "is", KwNot: "not", KwAnd: "and", KwOr: "or",
	KwSpawn: "spawn", KwAwait: "await", KwSelf: "self",
	NEWLINE: "NEWLINE", INDENT: "INDENT", DEDENT: "DEDENT",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]", LBRACE: "{", RBRACE: "}",
	COMMA: ",", COLON: ":", DOT: ".", DOTDOT: "..", ARROW: "->", FATARROW: "=>",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", ASSIGN: "=",
	EQ: "==", NEQ: "!=", LT: "<", GT: ">", LTE: "<=", GTE: ">=", BANG: "!",
	PLUSEQ: "+=", MINUSEQ: "-=", STAREQ: "*=", SLASHEQ: "/=", UNDERSCORE: "_", PIPE: "|",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved identifiers to their keyword Kind.
var Keywords = map[string]Kind{
	"fn": KwFn, "pub": KwPub, "let": KwLet, "if": KwIf, "elif": KwElif, "else": KwElse,
	"while": KwWhile, "for": KwFor, "in": KwIn, "break": KwBreak, "continue": KwContinue,
	"pass": KwPass, "return": KwReturn, "struct": KwStruct, "enum": KwEnum, "type": KwType,
	"use": KwUse, "as": KwAs, "match": KwMatch, "is": KwIs, "not": KwNot, "and": KwAnd, "or": KwOr,
	"spawn": KwSpawn, "await": KwAwait, "self": KwSelf, "true": BOOL, "false": BOOL,
}

// Token pairs a Kind with its Span and literal text, per spec.md §3.
type Token struct {
	Kind    Kind
	Literal string
	Span    diag.Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Literal, t.Span)
}
