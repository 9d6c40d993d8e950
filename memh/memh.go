// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memh reads and writes memory images in the text format accepted
// by the Verilog $readmemh system task.
//
// Images are written as one byte per line, each line holding exactly two
// lowercase hexadecimal digits, in address order starting at zero. When
// reading, values may be separated by any whitespace, "//" and "/* */"
// comments are ignored, and an "@<hex>" token moves the load address.
package memh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxSize is the largest image Decode will produce.
const MaxSize = 0x10000

// ErrSyntax is returned (wrapped with the offending line number) when
// readmemh text cannot be decoded.
var ErrSyntax = errors.New("readmemh syntax error")

var hex = "0123456789abcdef"

// Encode writes the image b to w, one byte per line.
func Encode(w io.Writer, b []byte) (n int64, err error) {
	bw := bufio.NewWriter(w)
	line := []byte("00\n")
	for _, v := range b {
		line[0] = hex[v>>4]
		line[1] = hex[v&0x0f]
		nn, err := bw.Write(line)
		n += int64(nn)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Decode reads readmemh text from r and returns the image it describes.
// Addresses never written are zero. The image ends at the highest address
// written.
func Decode(r io.Reader) ([]byte, error) {
	var image []byte
	var inBlock bool

	addr := 0
	row := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		row++

		var line string
		line, inBlock = stripComments(scanner.Text(), inBlock)

		for _, f := range strings.Fields(line) {
			if f[0] == '@' {
				a, err := strconv.ParseUint(f[1:], 16, 32)
				if err != nil || a >= MaxSize {
					return nil, fmt.Errorf("line %d: %w: invalid address '%s'", row, ErrSyntax, f)
				}
				addr = int(a)
				continue
			}

			v, err := strconv.ParseUint(f, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: invalid value '%s'", row, ErrSyntax, f)
			}
			if addr >= MaxSize {
				return nil, fmt.Errorf("line %d: %w: image exceeds %d bytes", row, ErrSyntax, MaxSize)
			}
			if addr >= len(image) {
				image = append(image, make([]byte, addr+1-len(image))...)
			}
			image[addr] = byte(v)
			addr++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if inBlock {
		return nil, fmt.Errorf("line %d: %w: unterminated comment", row, ErrSyntax)
	}
	return image, nil
}

// Remove comments from a line. The inBlock flag carries an open "/*"
// comment from one line to the next.
func stripComments(line string, inBlock bool) (string, bool) {
	var b strings.Builder
	for len(line) > 0 {
		if inBlock {
			i := strings.Index(line, "*/")
			if i < 0 {
				return b.String(), true
			}
			line = line[i+2:]
			inBlock = false
			b.WriteByte(' ')
			continue
		}

		i := strings.IndexByte(line, '/')
		if i < 0 || i+1 >= len(line) {
			b.WriteString(line)
			break
		}
		b.WriteString(line[:i])
		switch line[i+1] {
		case '/':
			return b.String(), false
		case '*':
			line, inBlock = line[i+2:], true
		default:
			b.WriteByte('/')
			line = line[i+1:]
		}
	}
	return b.String(), inBlock
}
