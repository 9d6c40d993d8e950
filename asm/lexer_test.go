// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func tokenTexts(tokens []Token) []string {
	s := make([]string, len(tokens))
	for i, t := range tokens {
		s[i] = t.Text
	}
	return s
}

func checkTokens(t *testing.T, src string, expected ...string) {
	t.Helper()

	tokens, err := Tokenize(src)
	if err != nil {
		t.Errorf("unexpected error on %q: %v", src, err)
		return
	}

	got := tokenTexts(tokens)
	if strings.Join(got, "|") != strings.Join(expected, "|") || len(got) != len(expected) {
		t.Errorf("tokens don't match expected on %q", src)
		t.Errorf("got: %q\n", got)
		t.Errorf("exp: %q\n", expected)
	}
}

func TestLexerProgram(t *testing.T) {
	checkTokens(t, "LDA 0x10\nADD_IMD 5 ; add five\nHLT",
		"LDA", "0x10", "ADD_IMD", "5", "HLT")
}

func TestLexerEmpty(t *testing.T) {
	checkTokens(t, "")
	checkTokens(t, " \t\r\n\v\f")
	checkTokens(t, "; LDA 5 HLT")
	checkTokens(t, ";comment\n  ;; another 'comment\n\n")
}

func TestLexerComments(t *testing.T) {
	checkTokens(t, "; header\nLDA 1 ; trailing\n; footer", "LDA", "1")

	// A semicolon only starts a comment at the start of a token.
	checkTokens(t, "LDA;x 5", "LDA;x", "5")

	// A comment runs to the end of its line only.
	checkTokens(t, "LDA ;x\r\nHLT", "LDA", "HLT")
}

func TestLexerCarriageReturns(t *testing.T) {
	checkTokens(t, "LDA ;x\rHLT", "LDA", "HLT")
	checkTokens(t, "; header\rLDA 5\r; footer\r", "LDA", "5")
	checkTokens(t, "LDA\r\rHLT ;x\r\nSTA", "LDA", "HLT", "STA")

	tokens, err := Tokenize("LDA ;x\r5\r\rHLT\r\nSTA")
	if err != nil {
		t.Fatal(err)
	}

	exp := []Token{
		{Text: "LDA", Offset: 0, Line: 1, Column: 1},
		{Text: "5", Offset: 7, Line: 2, Column: 1},
		{Text: "HLT", Offset: 10, Line: 4, Column: 1},
		{Text: "STA", Offset: 15, Line: 5, Column: 1},
	}
	if len(tokens) != len(exp) {
		t.Fatalf("expected %d tokens, got %d", len(exp), len(tokens))
	}
	for i := range exp {
		if tokens[i] != exp[i] {
			t.Errorf("token %d: exp %+v, got %+v", i, exp[i], tokens[i])
		}
	}
}

func TestLexerQuotes(t *testing.T) {
	checkTokens(t, "LDA ' ' HLT", "LDA", "' '", "HLT")
	checkTokens(t, "LDA ';' HLT", "LDA", "';'", "HLT")
	checkTokens(t, "'a'\t'b'", "'a'", "'b'")
	checkTokens(t, "x'y z'w 5", "x'y z'w", "5")
}

func TestLexerWhitespace(t *testing.T) {
	checkTokens(t, "\tLDA\t\t5\r\nHLT\r\n", "LDA", "5", "HLT")
	checkTokens(t, "  \n\n  LDA   ", "LDA")
}

func TestLexerPositions(t *testing.T) {
	tokens, err := Tokenize("LDA 0x10\n\tADD_IMD\t5 ; five\n  'é' HLT")
	if err != nil {
		t.Fatal(err)
	}

	exp := []Token{
		{Text: "LDA", Offset: 0, Line: 1, Column: 1},
		{Text: "0x10", Offset: 4, Line: 1, Column: 5},
		{Text: "ADD_IMD", Offset: 10, Line: 2, Column: 9},
		{Text: "5", Offset: 18, Line: 2, Column: 17},
		{Text: "'é'", Offset: 29, Line: 3, Column: 3},
		{Text: "HLT", Offset: 34, Line: 3, Column: 7},
	}
	if len(tokens) != len(exp) {
		t.Fatalf("expected %d tokens, got %d", len(exp), len(tokens))
	}
	for i := range exp {
		if tokens[i] != exp[i] {
			t.Errorf("token %d: exp %+v, got %+v", i, exp[i], tokens[i])
		}
	}
}

func TestLexerUnterminated(t *testing.T) {
	l := NewLexer("LDA 'x HLT\nSTA 5")

	tok, err := l.Next()
	if err != nil || tok.Text != "LDA" {
		t.Fatalf("expected LDA, got %q (%v)", tok.Text, err)
	}

	tok, err = l.Next()
	if !errors.Is(err, ErrUnterminatedLiteral) {
		t.Fatalf("expected unterminated literal error, got %v", err)
	}
	if tok.Text != "'x HLT\nSTA 5" || tok.Line != 1 || tok.Column != 5 {
		t.Errorf("unexpected partial token %+v", tok)
	}

	if _, err = l.Next(); err != io.EOF {
		t.Errorf("expected EOF after unterminated literal, got %v", err)
	}

	tokens, err := Tokenize("LDA 'x HLT")
	var e *Error
	if !errors.As(err, &e) || !errors.Is(err, ErrUnterminatedLiteral) {
		t.Fatalf("expected *Error wrapping ErrUnterminatedLiteral, got %v", err)
	}
	if len(tokens) != 2 || e.Token.Text != "'x HLT" {
		t.Errorf("unexpected tokens %q", tokenTexts(tokens))
	}
}

func TestLexerEOF(t *testing.T) {
	l := NewLexer("HLT")
	if tok, err := l.Next(); err != nil || tok.Text != "HLT" {
		t.Fatalf("expected HLT, got %q (%v)", tok.Text, err)
	}
	for i := 0; i < 2; i++ {
		if _, err := l.Next(); err != io.EOF {
			t.Errorf("expected EOF, got %v", err)
		}
	}
}
