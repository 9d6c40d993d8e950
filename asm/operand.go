// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseOperand converts an operand literal into the single byte it encodes.
// Four notations are accepted:
//
//	16       decimal
//	0x10     hexadecimal
//	0b10000  binary
//	'A'      single character, encoded as its code point
//
// Prefixes are case-sensitive. A literal that is malformed returns
// ErrInvalidOperand; one whose value does not fit in a byte returns
// ErrOperandOutOfRange.
func ParseOperand(s string) (byte, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v > 0xff {
		return 0, ErrOperandOutOfRange
	}
	return byte(v), nil
}

// ParseNumber converts a literal in any of the notations accepted by
// ParseOperand into an integer, without limiting it to a single byte.
// Values above $FFFF return ErrOperandOutOfRange.
func ParseNumber(s string) (int, error) {
	var digit func(c byte) bool
	var base int

	switch {
	case strings.HasPrefix(s, "0x"):
		s, base, digit = s[2:], 16, hexadecimal
	case strings.HasPrefix(s, "0b"):
		s, base, digit = s[2:], 2, binarynum
	case strings.HasPrefix(s, "'"):
		return parseCharLiteral(s)
	default:
		base, digit = 10, decimal
	}

	if s == "" || !scanAll(s, digit) {
		return 0, ErrInvalidOperand
	}

	// Only range errors remain once the digits have been validated.
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, ErrOperandOutOfRange
	}
	return int(v), nil
}

// Parse a quoted single-character literal and return its code point.
func parseCharLiteral(s string) (int, error) {
	if len(s) < 3 || !quote(s[len(s)-1]) {
		return 0, ErrInvalidOperand
	}

	body := s[1 : len(s)-1]
	r, size := utf8.DecodeRuneInString(body)
	if size != len(body) || (r == utf8.RuneError && size == 1) {
		return 0, ErrInvalidOperand
	}
	if r > 0xffff {
		return 0, ErrOperandOutOfRange
	}
	return int(r), nil
}
