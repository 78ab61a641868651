package lexer

import "testing"

func TestNextToken_IndentationScenario(t *testing.T) {
	input := "fn f:\n    return 1\n"

	tests := []struct {
		kind    Kind
		literal string
	}{
		{KwFn, "fn"},
		{IDENT, "f"},
		{COLON, ":"},
		{NEWLINE, "\n"},
		{INDENT, ""},
		{KwReturn, "return"},
		{INT, "1"},
		{NEWLINE, "\n"},
		{DEDENT, ""},
		{EOF, ""},
	}

	toks, diags := Tokenize([]byte(input), "test.ot")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if len(toks) != len(tests) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tests), toks)
	}
	for i, tt := range tests {
		if toks[i].Kind != tt.kind {
			t.Errorf("token %d: kind=%s, want %s", i, toks[i].Kind, tt.kind)
		}
		if tt.literal != "" && toks[i].Literal != tt.literal {
			t.Errorf("token %d: literal=%q, want %q", i, toks[i].Literal, tt.literal)
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	input := "x == 1 and y != 2 or z <= 3 >= 4 -> a..b += 1\n"
	toks, diags := Tokenize([]byte(input), "test.ot")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	want := []Kind{
		IDENT, EQ, INT, KwAnd, IDENT, NEQ, INT, KwOr, IDENT, LTE, INT, GTE, INT,
		ARROW, IDENT, DOTDOT, IDENT, PLUSEQ, INT, NEWLINE, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind=%s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestNextToken_DedentsAtEOF(t *testing.T) {
	input := "fn f:\n    if true:\n        pass\n"
	toks, diags := Tokenize([]byte(input), "test.ot")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	dedents := 0
	for _, tok := range toks {
		if tok.Kind == DEDENT {
			dedents++
		}
	}
	if dedents != 2 {
		t.Errorf("got %d DEDENT tokens at EOF, want 2", dedents)
	}
	if toks[len(toks)-1].Kind != EOF {
		t.Errorf("last token should be EOF, got %s", toks[len(toks)-1].Kind)
	}
}

func TestNextToken_TabsInIndentation(t *testing.T) {
	input := "fn f:\n\treturn 1\n"
	_, diags := Tokenize([]byte(input), "test.ot")
	if diags.Len() == 0 {
		t.Fatalf("expected a tabs-in-indentation diagnostic")
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	input := "let s = \"abc\n"
	_, diags := Tokenize([]byte(input), "test.ot")
	if diags.Len() == 0 {
		t.Fatalf("expected an unterminated-string diagnostic")
	}
}

func TestNextToken_EmptySource(t *testing.T) {
	toks, diags := Tokenize([]byte(""), "test.ot")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if len(toks) != 1 || toks[0].Kind != EOF {
		t.Fatalf("empty source should lex to [Eof], got %v", toks)
	}
}

func TestNextToken_TrailingWhitespaceOblivious(t *testing.T) {
	a, _ := Tokenize([]byte("let x = 1\n"), "a.ot")
	b, _ := Tokenize([]byte("let x = 1   \n"), "b.ot")
	if len(a) != len(b) {
		t.Fatalf("trailing whitespace changed token count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind {
			t.Errorf("token %d kind differs: %s vs %s", i, a[i].Kind, b[i].Kind)
		}
	}
}

func TestNextToken_NoTrailingNewline(t *testing.T) {
	a, _ := Tokenize([]byte("let x = 1"), "a.ot")
	b, _ := Tokenize([]byte("let x = 1\n"), "b.ot")
	if len(a) != len(b) {
		t.Fatalf("trailing newline changed token count: %d vs %d", len(a), len(b))
	}
}

func TestNextToken_CRLFTolerated(t *testing.T) {
	crlf := "fn f() -> int:\r\n    return 1\r\n"
	lf := "fn f() -> int:\n    return 1\n"

	a, diagsA := Tokenize([]byte(crlf), "a.ot")
	if diagsA.HasErrors() {
		t.Fatalf("unexpected diagnostics for CRLF input: %v", diagsA.All())
	}
	b, _ := Tokenize([]byte(lf), "b.ot")
	if len(a) != len(b) {
		t.Fatalf("CRLF input produced %d tokens, want %d (matching LF input): %v", len(a), len(b), a)
	}
	for i := range a {
		if a[i].Kind != b[i].Kind {
			t.Errorf("token %d kind differs: %s vs %s", i, a[i].Kind, b[i].Kind)
		}
	}
}

func TestNextToken_FString(t *testing.T) {
	toks, diags := Tokenize([]byte(`f"pi ~ {x}"` + "\n"), "test.ot")
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if toks[0].Kind != FSTRING {
		t.Fatalf("expected FSTRING, got %s", toks[0].Kind)
	}
	if toks[0].Literal != "pi ~ {x}" {
		t.Fatalf("unexpected f-string body: %q", toks[0].Literal)
	}
}
