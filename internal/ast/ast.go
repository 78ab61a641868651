// Package ast defines the OtterLang abstract syntax tree: a generic span-
// wrapped node type plus the statement, expression, pattern, and type
// variants named in spec.md §3. The one-node-per-type-with-String()
// convention follows the teacher's internal/ast/ast.go; the generic
// Node[T] wrapper is new, replacing the teacher's per-node embedded Pos
// field with the shape spec.md §3 specifies: "Node<T> = (value: T,
// span: Span)".
package ast

import "github.com/otterlang/otter/internal/diag"

// Node wraps a value of type T with the Span it was parsed from. Node
// defines no equality or hashing of its own: Go's == on two Nodes compares
// Span as well as Value, so nodes that differ only in Span are not equal.
type Node[T any] struct {
	Value T
	Span  diag.Span
}

// NewNode constructs a Node[T].
func NewNode[T any](value T, span diag.Span) Node[T] {
	return Node[T]{Value: value, Span: span}
}

// Program is the ordered sequence of top-level statements in one file.
type Program struct {
	Statements []Stmt
}

// Pattern is implemented by every pattern variant in spec.md §3.
type Pattern interface{ patternNode() }

// Type is implemented by Simple and Generic, the two surface-syntax type
// forms from spec.md §3. The type checker materializes richer internal
// kinds (internal/types) from these.
type Type interface{ typeNode() }

// SimpleType is a bare type name ("int", "string", a struct/enum name).
type SimpleType struct {
	Name string
}

func (SimpleType) typeNode() {}

// GenericType is a parameterized type, Base<Args...>.
type GenericType struct {
	Base string
	Args []Type
}

func (GenericType) typeNode() {}

// FuncType and TupleType are materialized by the parser when a signature
// or tuple type is written out explicitly (e.g. function parameter types).
type FuncType struct {
	Params []Type
	Return Type
}

func (FuncType) typeNode() {}

type TupleType struct {
	Elems []Type
}

func (TupleType) typeNode() {}
