package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Renderer prints diagnostics against their originating source text,
// underlining the offending span with carets and appending suggestion/help
// lines — the rendering contract from spec.md §7.
//
// Color is applied with github.com/fatih/color the same way cmd/ailang's
// main.go colorizes status output (red errors, yellow warnings, cyan help).
type Renderer struct {
	out      io.Writer
	NoColor  bool
	errorFn  func(...interface{}) string
	warnFn   func(...interface{}) string
	helpFn   func(...interface{}) string
	boldFn   func(...interface{}) string
}

// NewRenderer creates a Renderer that writes to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		errorFn: color.New(color.FgRed, color.Bold).SprintFunc(),
		warnFn:  color.New(color.FgYellow, color.Bold).SprintFunc(),
		helpFn:  color.New(color.FgCyan).SprintFunc(),
		boldFn:  color.New(color.Bold).SprintFunc(),
	}
}

// Render writes one diagnostic against the given source text to the
// renderer's sink.
func (r *Renderer) Render(d *Diagnostic, source string) {
	label := r.errorFn(d.Severity.String())
	if d.Severity == SeverityWarning {
		label = r.warnFn(d.Severity.String())
	}
	fmt.Fprintf(r.out, "%s[%s]: %s\n", label, d.Code, r.boldFn(d.Message))

	if len(d.Spans) > 0 {
		r.renderSpan(d.Spans[0], source)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(r.out, "  %s %s\n", r.helpFn("suggestion:"), d.Suggestion)
	}
	if d.Help != "" {
		fmt.Fprintf(r.out, "  %s %s\n", r.helpFn("help:"), d.Help)
	}
}

// RenderAll renders every diagnostic in the bag in order.
func (r *Renderer) RenderAll(b *Bag, source string) {
	for _, d := range b.All() {
		r.Render(d, source)
	}
}

func (r *Renderer) renderSpan(sp Span, source string) {
	lines := strings.Split(source, "\n")
	lineIdx := sp.Start.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return
	}
	line := lines[lineIdx]
	fmt.Fprintf(r.out, "  --> %s\n", sp)
	fmt.Fprintf(r.out, "   %d | %s\n", sp.Start.Line, line)

	underlineLen := 1
	if sp.Start.Line == sp.End.Line && sp.End.Column > sp.Start.Column {
		underlineLen = sp.End.Column - sp.Start.Column
	}
	pad := strings.Repeat(" ", max(0, sp.Start.Column-1))
	carets := strings.Repeat("^", max(1, underlineLen))
	fmt.Fprintf(r.out, "     | %s%s\n", pad, r.errorFn(carets))
}
