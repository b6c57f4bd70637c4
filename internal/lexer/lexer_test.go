package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `var x = 5;
	x = x + 10;
	`

	tests := []struct {
		expectedLiteral string
		expectedType    TokenType
	}{
		{"var", VAR},
		{"x", IDENT},
		{"=", ASSIGN},
		{"5", NUMBER},
		{";", SEMICOLON},
		{"x", IDENT},
		{"=", ASSIGN},
		{"x", IDENT},
		{"+", PLUS},
		{"10", NUMBER},
		{";", SEMICOLON},
		{"", EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `function return if else for while do break continue
		switch case default try catch finally throw new delete
		typeof instanceof in of void this class extends null true false`

	tests := []struct {
		expectedLiteral string
		expectedType    TokenType
	}{
		{"function", FUNCTION},
		{"return", RETURN},
		{"if", IF},
		{"else", ELSE},
		{"for", FOR},
		{"while", WHILE},
		{"do", DO},
		{"break", BREAK},
		{"continue", CONTINUE},
		{"switch", SWITCH},
		{"case", CASE},
		{"default", DEFAULT},
		{"try", TRY},
		{"catch", CATCH},
		{"finally", FINALLY},
		{"throw", THROW},
		{"new", NEW},
		{"delete", DELETE},
		{"typeof", TYPEOF},
		{"instanceof", INSTANCEOF},
		{"in", IN},
		{"of", OF},
		{"void", VOID},
		{"this", THIS},
		{"class", CLASS},
		{"extends", EXTENDS},
		{"null", NULL},
		{"true", TRUE},
		{"false", FALSE},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokenTypeStringNamesKeywords(t *testing.T) {
	for word, tt := range keywords {
		want := toUpperASCII(word)
		if got := tt.String(); got != want {
			t.Errorf("TokenType.String() for keyword %q = %q, want %q", word, got, want)
		}
	}
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func TestTokenTypeStringNamesPunctuators(t *testing.T) {
	cases := map[TokenType]string{
		ASSIGN: "=", PLUS: "+", ARROW: "=>", STRICT_EQ: "===", EOF: "EOF", IDENT: "IDENT",
	}
	for tt, want := range cases {
		if got := tt.String(); got != want {
			t.Errorf("TokenType.String() = %q, want %q", got, want)
		}
	}
}
