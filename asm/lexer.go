// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"io"
	"strings"
)

// A Lexer splits assembly source text into tokens. It is a forward-only
// scanner whose only state is its cursor into the source.
//
// Tokens are separated by whitespace. A semicolon at the start of a token
// begins a comment that runs to the end of the line, where a line ends at
// "\n", "\r\n" or a lone "\r". Single quotes toggle a
// quoted region within which whitespace does not end the token, so a
// character literal such as ' ' is a single token.
type Lexer struct {
	src    string // the full source text
	pos    int    // byte offset of the cursor
	row    int    // 1-based line of the cursor
	column int    // 0-based column of the cursor
}

// NewLexer creates a lexer that scans the source text from its beginning.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, row: 1}
}

// Next returns the next token in the source. When no tokens remain it
// returns io.EOF. If the source ends inside a quoted region, the partial
// token is returned along with ErrUnterminatedLiteral.
func (l *Lexer) Next() (Token, error) {
	l.skip()
	if l.pos >= len(l.src) {
		return Token{}, io.EOF
	}

	t := Token{Offset: l.pos, Line: l.row, Column: l.column + 1}

	quoted := false
	i := l.pos
	for ; i < len(l.src); i++ {
		c := l.src[i]
		if quote(c) {
			quoted = !quoted
			continue
		}
		if !quoted && whitespace(c) {
			break
		}
	}

	t.Text = l.src[l.pos:i]
	l.advance(i - l.pos)

	if quoted {
		return t, ErrUnterminatedLiteral
	}
	return t, nil
}

// Skip whitespace and comments until the cursor rests on the first
// character of a token or the end of the source.
func (l *Lexer) skip() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case whitespace(c):
			l.advance(1)
		case comment(c):
			n := strings.IndexAny(l.src[l.pos:], "\r\n")
			if n < 0 {
				n = len(l.src) - l.pos
			}
			l.advance(n)
		default:
			return
		}
	}
}

// Move the cursor forward n bytes, keeping the row and column current.
func (l *Lexer) advance(n int) {
	for end := l.pos + n; l.pos < end; l.pos++ {
		switch c := l.src[l.pos]; {
		case c == '\n':
			l.row++
			l.column = 0
		case c == '\r':
			// A lone carriage return also ends a line.
			if l.pos+1 == len(l.src) || l.src[l.pos+1] != '\n' {
				l.row++
				l.column = 0
			}
		case c == '\t':
			l.column += 8 - (l.column % 8)
		case c&0xc0 == 0x80:
			// UTF-8 continuation byte
		default:
			l.column++
		}
	}
}

// Tokenize splits the source text into tokens. On error it returns the
// tokens scanned before the failure, followed by the failing token.
func Tokenize(src string) ([]Token, error) {
	var tokens []Token
	l := NewLexer(src)
	for {
		t, err := l.Next()
		switch {
		case errors.Is(err, io.EOF):
			return tokens, nil
		case err != nil:
			return append(tokens, t), &Error{Token: t, Err: err}
		}
		tokens = append(tokens, t)
	}
}
