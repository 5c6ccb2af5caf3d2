package parser

import "testing"

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	l := NewLexer(input)
	if err := l.Lex(); err != nil {
		t.Fatalf("lex error: %v", err)
	}
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func TestLexerTupleRef(t *testing.T) {
	// t0.1 is three tokens; the dot must not fold into a float.
	toks := lexAll(t, "t0.1")
	expected := []TokenType{TokenIdent, TokenDot, TokenNumber, TokenEOF}
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(toks), toks)
	}
	for i, typ := range expected {
		if toks[i].Type != typ {
			t.Errorf("token %d: expected type %d, got %s", i, typ, toks[i])
		}
	}
	if toks[0].Value != "t0" || toks[2].Value != "1" {
		t.Errorf("unexpected values: %v", toks)
	}
}

func TestLexerFloat(t *testing.T) {
	toks := lexAll(t, "3.14 42")
	if toks[0].Type != TokenFloat || toks[0].Value != "3.14" {
		t.Errorf("expected float 3.14, got %s", toks[0])
	}
	if toks[1].Type != TokenNumber || toks[1].Value != "42" {
		t.Errorf("expected number 42, got %s", toks[1])
	}
}

func TestLexerOperators(t *testing.T) {
	toks := lexAll(t, "= != < <= > >= + -")
	expected := []string{"=", "!=", "<", "<=", ">", ">=", "+", "-"}
	for i, op := range expected {
		if toks[i].Type != TokenOp || toks[i].Value != op {
			t.Errorf("token %d: expected op %q, got %s", i, op, toks[i])
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\tb\n\"c\""`)
	if toks[0].Type != TokenString {
		t.Fatalf("expected string, got %s", toks[0])
	}
	if toks[0].Value != "a\tb\n\"c\"" {
		t.Errorf("unexpected value %q", toks[0].Value)
	}
}

func TestLexerTaggedIdent(t *testing.T) {
	toks := lexAll(t, "@delta_path @functor_cat")
	if toks[0].Value != "@delta_path" || toks[1].Value != "@functor_cat" {
		t.Errorf("unexpected: %v %v", toks[0], toks[1])
	}
}

func TestLexerComments(t *testing.T) {
	toks := lexAll(t, "CLEAR // trailing comment\npath")
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %v", toks)
	}
	if toks[1].Value != "path" || toks[1].Line != 2 {
		t.Errorf("expected path at line 2, got %s", toks[1])
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{`"unterminated`, "a ! b", "a ? b", `"\q"`} {
		l := NewLexer(input)
		if err := l.Lex(); err == nil {
			t.Errorf("expected lex error for %q", input)
		}
	}
}
