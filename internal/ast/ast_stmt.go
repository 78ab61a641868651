package ast

import "github.com/otterlang/otter/internal/diag"

// Stmt is implemented by every statement variant in spec.md §3.
type Stmt interface {
	stmtNode()
	Span() diag.Span
}

type BaseStmt struct{ Sp diag.Span }

func (b BaseStmt) Span() diag.Span { return b.Sp }

// LetStmt binds a name to the value of an expression, with an optional
// type annotation and optional pub visibility.
type LetStmt struct {
	BaseStmt
	Name       string
	Annotation Type // nil if omitted
	Value      Expr
	Pub        bool
}

func (LetStmt) stmtNode() {}

// AssignStmt assigns to an existing l-value: an identifier or a member
// access chain.
type AssignStmt struct {
	BaseStmt
	Target Expr // Ident or MemberExpr
	Value  Expr
}

func (AssignStmt) stmtNode() {}

// IfStmt models if/elif*/else as a chain: Elifs holds zero or more
// (cond, block) pairs evaluated in order, Else is nil when absent.
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then *Block
	Elifs []ElifClause
	Else *Block
}

func (IfStmt) stmtNode() {}

type ElifClause struct {
	Cond Expr
	Body *Block
}

// WhileStmt is a conditional loop.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body *Block
}

func (WhileStmt) stmtNode() {}

// ForStmt iterates Binding over Iterable.
type ForStmt struct {
	BaseStmt
	Binding  string
	Iterable Expr
	Body     *Block
}

func (ForStmt) stmtNode() {}

// BreakStmt, ContinueStmt, PassStmt are zero-field control statements.
type BreakStmt struct{ BaseStmt }

func (BreakStmt) stmtNode() {}

type ContinueStmt struct{ BaseStmt }

func (ContinueStmt) stmtNode() {}

type PassStmt struct{ BaseStmt }

func (PassStmt) stmtNode() {}

// ReturnStmt's Value is nil for a bare `return`.
type ReturnStmt struct {
	BaseStmt
	Value Expr
}

func (ReturnStmt) stmtNode() {}

// Param is one function parameter: a name, a required type, and whether a
// default value is present (recorded for signature-help without re-walking
// the body, per spec.md §4.2's callable-signature requirement).
type Param struct {
	Name       string
	Type       Type
	HasDefault bool
	Default    Expr
}

// FuncDecl is a function declaration. Methods inside a struct body have
// Receiver set to the struct name (the parser auto-injects a `self: Self`
// first parameter when one is not written explicitly).
type FuncDecl struct {
	BaseStmt
	Name       string
	Pub        bool
	Generics   []string
	Params     []Param
	ReturnType Type // nil means unit
	Body       *Block
	Receiver   string // non-empty when this is a method
}

func (FuncDecl) stmtNode() {}

// StructField is one field of a StructDecl.
type StructField struct {
	Name string
	Type Type
}

// StructDecl declares a struct type, its fields, and its methods.
type StructDecl struct {
	BaseStmt
	Name     string
	Pub      bool
	Generics []string
	Fields   []StructField
	Methods  []*FuncDecl
}

func (StructDecl) stmtNode() {}

// EnumVariant has no payload, a tuple payload, or a struct payload — never
// more than one, enforced by the parser.
type EnumVariant struct {
	Name         string
	TuplePayload []Type
	StructPayload []StructField
}

// EnumDecl declares a sum type.
type EnumDecl struct {
	BaseStmt
	Name     string
	Pub      bool
	Generics []string
	Variants []EnumVariant
}

func (EnumDecl) stmtNode() {}

// TypeAliasDecl introduces a name for an existing type.
type TypeAliasDecl struct {
	BaseStmt
	Name string
	Pub  bool
	Type Type
}

func (TypeAliasDecl) stmtNode() {}

// ImportSpec is one imported module within a UseStmt, with an optional
// alias.
type ImportSpec struct {
	Module string
	Alias  string // empty if none
}

// UseStmt imports one or more modules.
type UseStmt struct {
	BaseStmt
	Imports []ImportSpec
}

func (UseStmt) stmtNode() {}

// PubUseStmt re-exports an item (or, when Item is empty, every export) of
// Module, optionally renamed.
type PubUseStmt struct {
	BaseStmt
	Module string
	Item   string // empty means "re-export everything"
	Alias  string // empty means keep the original name
}

func (PubUseStmt) stmtNode() {}

// Block is INDENT statement+ DEDENT.
type Block struct {
	Sp         diag.Span
	Statements []Stmt
}

func (b *Block) Span() diag.Span { return b.Sp }
func (b *Block) stmtNode()       {}

// BlockStmt lets a Block appear directly where a Stmt is expected (bare
// nested blocks, as opposed to the block attached to if/while/for/fn).
type BlockStmt struct {
	BaseStmt
	Block *Block
}

func (BlockStmt) stmtNode() {}

// ExprStmt is an expression used in statement position (its value, if any,
// is discarded).
type ExprStmt struct {
	BaseStmt
	X Expr
}

func (ExprStmt) stmtNode() {}
