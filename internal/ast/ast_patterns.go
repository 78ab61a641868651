package ast

import "github.com/otterlang/otter/internal/diag"

// WildcardPattern matches anything and binds nothing.
type WildcardPattern struct{ Sp diag.Span }

func (WildcardPattern) patternNode() {}

// LiteralPattern matches a single literal value.
type LiteralPattern struct {
	Sp diag.Span
	Kind LiteralKind
	Raw  string
}

func (LiteralPattern) patternNode() {}

// IdentPattern binds the matched value to Name.
type IdentPattern struct {
	Sp   diag.Span
	Name string
}

func (IdentPattern) patternNode() {}

// EnumVariantPattern matches `EnumName.Variant(...)` or `Variant(...)`
// (enum name may be elided when inferable), with nested sub-patterns for
// the payload.
type EnumVariantPattern struct {
	Sp      diag.Span
	Enum    string // may be empty if elided
	Variant string
	Tuple   []Pattern      // tuple-payload sub-patterns
	Fields  []FieldPattern // struct-payload sub-patterns
}

func (EnumVariantPattern) patternNode() {}

// FieldPattern is one named field of a StructPattern or a struct-payload
// EnumVariantPattern; Sub is nil when the field is bound by shorthand
// (`{ field }` binds a local named `field`).
type FieldPattern struct {
	Name string
	Sub  Pattern
}

// StructPattern matches a struct value's named fields.
type StructPattern struct {
	Sp     diag.Span
	Type   string
	Fields []FieldPattern
}

func (StructPattern) patternNode() {}

// ArrayPattern matches a fixed-length head, with an optional rest-binding
// (`..rest`) capturing the remaining elements.
type ArrayPattern struct {
	Sp   diag.Span
	Head []Pattern
	Rest string // empty if no rest-binding
}

func (ArrayPattern) patternNode() {}

// PatternSpan returns the span of any Pattern, since the patternNode()
// marker method alone doesn't expose one uniformly.
func PatternSpan(p Pattern) diag.Span {
	switch pp := p.(type) {
	case WildcardPattern:
		return pp.Sp
	case LiteralPattern:
		return pp.Sp
	case IdentPattern:
		return pp.Sp
	case EnumVariantPattern:
		return pp.Sp
	case StructPattern:
		return pp.Sp
	case ArrayPattern:
		return pp.Sp
	}
	return diag.Span{}
}
