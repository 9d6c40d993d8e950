// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "strings"

// A Token is a whitespace-delimited slice of the source text, together with
// the position at which it was found. Tokens carry no type; whether a token
// is an instruction or an operand is decided when it is encoded.
type Token struct {
	Text   string // the token's text
	Offset int    // 0-based byte offset of the token within the source
	Line   int    // 1-based line number of the token
	Column int    // 1-based column of the token, with tab stops of 8
}

func (t Token) String() string {
	return t.Text
}

// Return the token text in a form suitable for an error message. Tokens
// that swallowed the rest of the file are cut at their first line break.
func (t Token) excerpt() string {
	const maxLen = 32
	s := t.Text
	cut := false
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s, cut = s[:i], true
	}
	if len(s) > maxLen {
		s, cut = s[:maxLen], true
	}
	if cut {
		s += "..."
	}
	return s
}

//
// character helper functions
//

func whitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func comment(c byte) bool {
	return c == ';'
}

func quote(c byte) bool {
	return c == '\''
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexadecimal(c byte) bool {
	return decimal(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func binarynum(c byte) bool {
	return c == '0' || c == '1'
}

// Return true if every character of s satisfies fn.
func scanAll(s string, fn func(c byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !fn(s[i]) {
			return false
		}
	}
	return true
}
