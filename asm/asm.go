// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements an assembler for the 8-bit toy CPU.
//
// Every token in a program occupies exactly one byte of the output image,
// and a token's position in the source is its address: the first token is
// stored at address 0, the second at address 1, and so on. A token that
// names an instruction is stored as the instruction's opcode. Any other
// token must be an operand literal, which is stored as its value.
package asm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/asm8/cpu"
	"github.com/beevik/asm8/memh"
)

// Errors returned by the assembler. Errors reported for a specific token
// are wrapped in an *Error.
var (
	ErrInvalidOperand      = errors.New("invalid operand")
	ErrOperandOutOfRange   = errors.New("operand out of range")
	ErrImageOverflow       = errors.New("program exceeds memory image")
	ErrUnterminatedLiteral = errors.New("unterminated character literal")
)

// An Error describes a failure to assemble a specific token.
type Error struct {
	Filename string // name of the source file, if known
	Token    Token  // the token that caused the error
	Err      error  // the underlying error
}

func (e *Error) Error() string {
	filename := e.Filename
	if filename == "" {
		filename = "<input>"
	}
	return fmt.Sprintf("Syntax error in '%s' line %d, col %d: %v '%s'",
		filename, e.Token.Line, e.Token.Column, e.Err, e.Token.excerpt())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// An item is the role of a classified token. It is either an *instruction
// or an *operand.
type item interface {
	code() byte
}

// An instruction item holds the instruction named by a token.
type instruction struct {
	inst *cpu.Instruction
}

func (i *instruction) code() byte {
	return i.inst.Opcode
}

// An operand item holds the value of a literal token.
type operand struct {
	value byte
}

func (o *operand) code() byte {
	return o.value
}

// The assembler is a state object used during the assembly of a memory
// image from assembly code.
type assembler struct {
	instSet  *cpu.InstructionSet // instruction table
	lexer    *Lexer              // token source
	filename string              // name of the source
	code     []byte              // generated memory image
	grow     bool                // extend the image instead of overflowing
	lines    []SourceLine        // token to address mappings
	out      io.Writer           // output used for verbose output
	verbose  bool                // verbose output
}

// Assembly contains an assembled memory image.
type Assembly struct {
	Code []byte // Memory image, at least cpu.MemorySize bytes
}

// ReadFrom reads a memory image in readmemh format.
func (a *Assembly) ReadFrom(r io.Reader) (n int64, err error) {
	b, err := io.ReadAll(r)
	n = int64(len(b))
	if err != nil {
		return n, err
	}
	a.Code, err = memh.Decode(bytes.NewReader(b))
	return n, err
}

// WriteTo writes the memory image in readmemh format, one byte per line.
func (a *Assembly) WriteTo(w io.Writer) (n int64, err error) {
	return memh.Encode(w, a.Code)
}

// Option type used by the Assemble function.
type Option uint

// Options for the Assemble and AssembleFile functions.
const (
	Verbose        Option = 1 << iota // verbose output during assembly
	GrowImage                         // grow the image past cpu.MemorySize instead of failing
	WriteSourceMap                    // AssembleFile also writes a source map
)

// DefaultOutput is the image path used by AssembleFile when none is given.
const DefaultOutput = "prog.mem"

// AssembleFile reads a file containing assembly code, assembles it, and
// writes the memory image to outPath in readmemh format. If the
// WriteSourceMap option is set, a source map is written next to the image
// with a ".map" extension. No files are written if assembly fails.
func AssembleFile(path, outPath string, options Option, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	if outPath == "" {
		outPath = DefaultOutput
	}

	inFile, err := os.Open(path)
	if err != nil {
		return err
	}
	defer inFile.Close()

	assembly, sourceMap, err := Assemble(inFile, path, out, options)
	if err != nil {
		return err
	}

	if err := writeFile(outPath, assembly); err != nil {
		return err
	}

	if options&WriteSourceMap == 0 {
		fmt.Fprintf(out, "Assembled '%s' to produce '%s'.\n",
			filepath.Base(path),
			filepath.Base(outPath))
		return nil
	}

	ext := filepath.Ext(outPath)
	mapPath := outPath[:len(outPath)-len(ext)] + ".map"
	if err := writeFile(mapPath, sourceMap); err != nil {
		return err
	}

	fmt.Fprintf(out, "Assembled '%s' to produce '%s' and '%s'.\n",
		filepath.Base(path),
		filepath.Base(outPath),
		filepath.Base(mapPath))
	return nil
}

func writeFile(path string, w io.WriterTo) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	_, err = w.WriteTo(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing '%s': %w", path, err)
	}
	return nil
}

// Assemble reads assembly code from the provided stream and encodes it
// into a memory image. On failure no assembly is returned, and the error
// describes the first token that could not be encoded.
func Assemble(r io.Reader, filename string, out io.Writer, options Option) (*Assembly, *SourceMap, error) {
	if out == nil {
		out = os.Stdout
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	a := &assembler{
		instSet:  cpu.GetInstructionSet(),
		lexer:    NewLexer(string(src)),
		filename: filename,
		code:     make([]byte, cpu.MemorySize),
		grow:     (options & GrowImage) != 0,
		out:      out,
		verbose:  (options & Verbose) != 0,
	}

	if err := a.encode(); err != nil {
		return nil, nil, err
	}

	assembly := &Assembly{
		Code: a.code,
	}

	sourceMap := &SourceMap{
		File:  filename,
		Size:  len(a.code),
		Lines: a.lines,
	}

	return assembly, sourceMap, nil
}

// Encode every token in the source, storing the i-th token's byte at
// address i.
func (a *assembler) encode() error {
	a.logSection("Encoding tokens")

	for addr := 0; ; addr++ {
		t, err := a.lexer.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return a.error(t, err)
		}

		if addr >= len(a.code) {
			if !a.grow {
				return a.error(t, ErrImageOverflow)
			}
			a.code = append(a.code, 0)
		}

		it, err := a.classify(t)
		if err != nil {
			return a.error(t, err)
		}

		switch it := it.(type) {
		case *instruction:
			a.logToken(t, "%02X- op=%s", addr, it.inst.Name)
		case *operand:
			a.logToken(t, "%02X- val=$%02X", addr, it.value)
		}
		a.code[addr] = it.code()

		a.lines = append(a.lines, SourceLine{
			Address: addr,
			Line:    t.Line,
			Column:  t.Column,
			Token:   t.Text,
		})
	}

	a.logSection("Memory image")
	a.logBytes(a.code[:trimmedLen(a.code)])
	return nil
}

// Determine the role of a token. Instruction names take precedence; any
// other token must be an operand literal.
func (a *assembler) classify(t Token) (item, error) {
	if inst := a.instSet.GetInstruction(t.Text); inst != nil {
		return &instruction{inst: inst}, nil
	}

	v, err := ParseOperand(t.Text)
	if err != nil {
		return nil, err
	}
	return &operand{value: v}, nil
}

// Create an error for a token, echoing it in verbose mode.
func (a *assembler) error(t Token, err error) error {
	e := &Error{Filename: a.filename, Token: t, Err: err}
	if a.verbose {
		fmt.Fprintln(a.out, e.Error())
	}
	return e
}

// In verbose mode, log a string and its associated token.
func (a *assembler) logToken(t Token, format string, args ...any) {
	if a.verbose {
		detail := fmt.Sprintf(format, args...)
		fmt.Fprintf(a.out, "%-3d %-3d | %-20s | %s\n", t.Line, t.Column, detail, t.excerpt())
	}
}

// In verbose mode, log a series of bytes starting at address zero.
func (a *assembler) logBytes(b []byte) {
	if a.verbose {
		for i, n := 0, len(b); i < n; i += 8 {
			j := min(i+8, n)
			fmt.Fprintf(a.out, "%02X-*  %s\n", i, byteString(b[i:j]))
		}
	}
}

// In verbose mode, log a section header.
func (a *assembler) logSection(name string) {
	if a.verbose {
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
		fmt.Fprintf(a.out, "-- %s --\n", name)
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
	}
}
