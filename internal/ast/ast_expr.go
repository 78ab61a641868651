package ast

import "github.com/otterlang/otter/internal/diag"

// Expr is implemented by every expression variant in spec.md §3.
type Expr interface {
	exprNode()
	Span() diag.Span
}

type BaseExpr struct{ Sp diag.Span }

func (b BaseExpr) Span() diag.Span { return b.Sp }

// LiteralKind distinguishes the literal expression forms.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
)

// Literal is an int, float, string, or bool constant.
type Literal struct {
	BaseExpr
	Kind LiteralKind
	Raw  string // source text, parsed lazily by the typechecker/evaluator
}

func (Literal) exprNode() {}

// Ident is a bare name reference.
type Ident struct {
	BaseExpr
	Name string
}

func (Ident) exprNode() {}

// MemberExpr is `X.Field`.
type MemberExpr struct {
	BaseExpr
	X     Expr
	Field string
}

func (MemberExpr) exprNode() {}

// CallExpr is `Fn(Args...)`.
type CallExpr struct {
	BaseExpr
	Fn   Expr
	Args []Expr
}

func (CallExpr) exprNode() {}

// BinaryOp enumerates the binary operators from spec.md §4.2's precedence
// table.
type BinaryOp int

const (
	OpOr BinaryOp = iota
	OpAnd
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpIs
	OpIsNot
	OpRange
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	BaseExpr
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (BinaryExpr) exprNode() {}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBang
)

// UnaryExpr is a prefix unary operator application.
type UnaryExpr struct {
	BaseExpr
	Op UnaryOp
	X  Expr
}

func (UnaryExpr) exprNode() {}

// ElifExprClause is one elif arm of an IfExpr.
type ElifExprClause struct {
	Cond Expr
	Then Expr
}

// IfExpr is the expression form of if/elif*/else; unlike IfStmt every
// branch is an expression, and Else is required (the parser reports a
// missing else).
type IfExpr struct {
	BaseExpr
	Cond  Expr
	Then  Expr
	Elifs []ElifExprClause
	Else  Expr
}

func (IfExpr) exprNode() {}

// MatchArm is one arm of a MatchExpr.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if no guard
	Body    Expr
}

// MatchExpr pattern-matches Subject against Arms in order.
type MatchExpr struct {
	BaseExpr
	Subject Expr
	Arms    []MatchArm
}

func (MatchExpr) exprNode() {}

// RangeExpr is `Start..End`, both in expression position and as a `for`
// loop's iterable (which codegen lowers to a counted loop).
type RangeExpr struct {
	BaseExpr
	Start Expr
	End   Expr
}

func (RangeExpr) exprNode() {}

// ArrayLit is `[elems...]`.
type ArrayLit struct {
	BaseExpr
	Elems []Expr
}

func (ArrayLit) exprNode() {}

// DictEntry is one key/value pair of a DictLit, in source order.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictLit is `{key: value, ...}`, preserving insertion order.
type DictLit struct {
	BaseExpr
	Entries []DictEntry
}

func (DictLit) exprNode() {}

// CompKind distinguishes list vs. dict comprehensions.
type CompKind int

const (
	CompList CompKind = iota
	CompDict
)

// Comprehension is a single-generator, optional-filter list or dict
// comprehension.
type Comprehension struct {
	BaseExpr
	Kind     CompKind
	KeyExpr  Expr // dict comprehensions only
	ValExpr  Expr
	Binding  string
	Iterable Expr
	Filter   Expr // nil if absent
}

func (Comprehension) exprNode() {}

// InterpPart is one segment of an interpolated string: either a literal
// text run (Expr is nil) or an embedded expression (Text is empty).
type InterpPart struct {
	Text string
	Expr Expr
}

// InterpString is an f-string split into alternating text/expression
// parts.
type InterpString struct {
	BaseExpr
	Parts []InterpPart
}

func (InterpString) exprNode() {}

// FieldInit is one named field in a StructLit.
type FieldInit struct {
	Name  string
	Value Expr
}

// StructLit constructs a struct value by name with named fields.
type StructLit struct {
	BaseExpr
	Type   string
	Fields []FieldInit
}

func (StructLit) exprNode() {}

// SpawnExpr schedules X as a new task via the runtime's injector (internal
// /task), evaluating to a join handle.
type SpawnExpr struct {
	BaseExpr
	X Expr
}

func (SpawnExpr) exprNode() {}

// AwaitExpr suspends the current task until X's join handle resolves.
type AwaitExpr struct {
	BaseExpr
	X Expr
}

func (AwaitExpr) exprNode() {}
