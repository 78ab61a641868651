// Package diag provides the span and diagnostic substrate shared by every
// phase of the compiler: byte-range spans, severities, structured errors,
// and snippet rendering.
package diag

import "fmt"

// Pos is a single point in a source file, both as a byte offset and as the
// line/column pair a human reads.
type Pos struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) into exactly one source file.
// Spans are immutable once constructed and are attached to every token and
// AST node. AST node types embed their span as an ordinary field, so Go's
// == on a node value compares the span too.
type Span struct {
	Start Pos
	End   Pos
}

// Valid reports whether the span satisfies 0 <= Start.Offset <= End.Offset.
func (s Span) Valid() bool {
	return s.Start.Offset >= 0 && s.Start.Offset <= s.End.Offset
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Join returns the smallest span covering both a and b. It is used when a
// parent AST node's span must cover all of its children.
func Join(a, b Span) Span {
	start, end := a.Start, a.End
	if b.Start.Offset < start.Offset {
		start = b.Start
	}
	if b.End.Offset > end.Offset {
		end = b.End
	}
	return Span{Start: start, End: end}
}
