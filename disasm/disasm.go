// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm renders memory images of the 8-bit toy CPU as readable
// listings and as assembly source.
//
// Because every byte of an image is a single token, any byte may be either
// an opcode or an operand. The listing therefore shows each byte in all of
// its forms.
package disasm

import (
	"fmt"
	"strings"

	"github.com/beevik/asm8/cpu"
)

// Disassemble the byte in memory 'm' at address 'addr'. Return a 'line'
// string showing the mnemonic the byte encodes (if any) followed by its
// hexadecimal, decimal and character forms, and the 'next' address.
func Disassemble(m cpu.Memory, addr byte) (line string, next byte) {
	v := m.LoadByte(addr)

	var name string
	if inst := cpu.GetInstructionSet().Lookup(v); inst != nil {
		name = inst.Name
	}

	line = fmt.Sprintf("%-7s $%02X %3d", name, v, v)
	if printable(v) {
		line += fmt.Sprintf(" '%c'", v)
	}
	return line, addr + 1
}

// Source re-emits a memory image as assembly text with one token per line.
// Opcode bytes are written as their mnemonics and all other bytes as
// hexadecimal literals. Trailing zero bytes are omitted, so assembling the
// result reproduces the image exactly.
func Source(code []byte) string {
	n := len(code)
	for n > 0 && code[n-1] == 0 {
		n--
	}

	set := cpu.GetInstructionSet()

	var b strings.Builder
	for _, v := range code[:n] {
		if inst := set.Lookup(v); inst != nil {
			b.WriteString(inst.Name)
		} else {
			fmt.Fprintf(&b, "0x%02x", v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func printable(v byte) bool {
	return v >= 0x20 && v < 0x7f
}
