package diag

import (
	"fmt"
	"sort"
)

// Severity classifies a Diagnostic. Warnings never halt compilation between
// phases; errors do.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single structured error or warning, carrying a stable
// error code (see internal/errors), a human message, zero or more spans,
// and optional fix/help text for the renderer.
//
// The shape mirrors the teacher's ParserError (code, message, position,
// near-token, expected set, fix, confidence), generalized to every phase.
type Diagnostic struct {
	Code       string
	Severity   Severity
	Message    string
	Spans      []Span
	Suggestion string
	Help       string
	Confidence float64
}

func (d *Diagnostic) Error() string {
	if len(d.Spans) == 0 {
		return fmt.Sprintf("%s: %s: %s", d.Code, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s at %s: %s: %s", d.Code, d.Spans[0], d.Severity, d.Message)
}

// New constructs an error-severity Diagnostic.
func New(code string, span Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Spans:    []Span{span},
	}
}

// Warnf constructs a warning-severity Diagnostic.
func Warnf(code string, span Span, format string, args ...interface{}) *Diagnostic {
	d := New(code, span, format, args...)
	d.Severity = SeverityWarning
	return d
}

// WithFix attaches a one-line fix suggestion, returning the same Diagnostic
// for chaining.
func (d *Diagnostic) WithFix(suggestion string) *Diagnostic {
	d.Suggestion = suggestion
	return d
}

// WithHelp attaches a help hint, returning the same Diagnostic for chaining.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// Bag accumulates diagnostics across a phase. Every component in spec.md
// collects a list rather than aborting at the first failure.
type Bag struct {
	diags []*Diagnostic
}

// Add appends a diagnostic to the bag. Nil diagnostics are ignored so call
// sites can unconditionally call Add(maybeNil()).
func (b *Bag) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	b.diags = append(b.diags, d)
}

// HasErrors reports whether the bag contains at least one error-severity
// diagnostic. Compilation halts between phases only when this is true.
func (b *Bag) HasErrors() bool {
	for _, d := range b.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// All returns every diagnostic in the bag, sorted by source position so
// the renderer prints them in file order.
func (b *Bag) All() []*Diagnostic {
	out := make([]*Diagnostic, len(b.diags))
	copy(out, b.diags)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Spans, out[j].Spans
		if len(si) == 0 || len(sj) == 0 {
			return len(si) < len(sj)
		}
		return si[0].Start.Offset < sj[0].Start.Offset
	})
	return out
}

// Len returns the number of diagnostics currently in the bag.
func (b *Bag) Len() int { return len(b.diags) }
