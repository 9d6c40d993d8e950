// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" for the 8-bit toy CPU: a
// 256-byte memory, a built-in assembler, and tools for examining images.
//
// Within the host it is possible to assemble source files, load memory
// images, inspect the tokens and source map behind each address, dump,
// modify and disassemble memory, and evaluate individual tokens the way the
// assembler would encode them.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/beevik/asm8/asm"
	"github.com/beevik/asm8/cpu"
	"github.com/beevik/asm8/disasm"
	"github.com/beevik/cmd"
)

var errQuit = errors.New("exiting program")

// A Host holds a 256-byte memory image along with the tools used to
// assemble and inspect it.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.FlatMemory
	lastCmd     *selection
	sourceMap   *asm.SourceMap
	settings    *settings
	annotations map[byte]string
}

// New creates a new host environment with zero-filled memory.
func New() *Host {
	return &Host{
		mem:         cpu.NewFlatMemory(),
		settings:    newSettings(),
		annotations: make(map[byte]string),
	}
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.output = bufio.NewWriter(w)

	if interactive {
		h.println()
	}

	h.run(r, interactive)
	h.flush()
}

// Process commands from r until the input is exhausted or a command asks
// the host to quit, in which case errQuit is returned.
func (h *Host) run(r io.Reader, interactive bool) error {
	input, wasInteractive := h.input, h.interactive
	h.input, h.interactive = bufio.NewScanner(r), interactive
	defer func() {
		h.input, h.interactive = input, wasInteractive
	}()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)

		var c selection
		if line != "" {
			n, args, err := cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}

			switch n := n.(type) {
			case *cmd.Tree:
				// A bare group name lists the group's commands.
				n.DisplayHelp(h.output)
				h.flush()
				continue
			case *cmd.Command:
				c = selection{command: n, args: args}
			}
		} else if h.lastCmd != nil && interactive {
			c = *h.lastCmd
		}

		if c.command == nil {
			continue
		}

		handler, ok := c.command.Data.(func(*Host, selection) error)
		if !ok {
			continue
		}

		h.lastCmd = &c
		if err := handler(h, c); err != nil {
			return err
		}
	}
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) cmdAnnotate(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := parseAddr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	var annotation string
	if len(c.args) >= 2 {
		annotation = strings.Join(c.args[1:], " ")
	}

	if annotation == "" {
		delete(h.annotations, addr)
		h.printf("Annotation removed at $%02X.\n", addr)
	} else {
		h.annotations[addr] = annotation
		h.printf("Annotation added at $%02X.\n", addr)
	}

	return nil
}

func (h *Host) cmdAssembleFile(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	filename := c.args[0]
	if filepath.Ext(filename) == "" {
		filename += ".asm"
	}

	outPath := h.settings.OutputPath
	if len(c.args) >= 2 {
		outPath = c.args[1]
	}
	if outPath == "" {
		ext := filepath.Ext(filename)
		outPath = filename[:len(filename)-len(ext)] + ".mem"
	}

	options := asm.WriteSourceMap
	if h.settings.Verbose {
		options |= asm.Verbose
	}
	if h.settings.GrowImage {
		options |= asm.GrowImage
	}

	err := asm.AssembleFile(filename, outPath, options, h.output)
	if err != nil {
		h.printf("Failed to assemble '%s'.\n%v\n", filepath.Base(filename), err)
		return nil
	}

	h.flush()
	return nil
}

func (h *Host) cmdAssembleTokens(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	filename := c.args[0]
	src, err := os.ReadFile(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	tokens, err := asm.Tokenize(string(src))
	for i, t := range tokens {
		h.printf("%02X-   %-3d %-3d  %s\n", i, t.Line, t.Column, t)
	}

	var e *asm.Error
	if errors.As(err, &e) {
		e.Filename = filename
	}
	if err != nil {
		h.printf("%v\n", err)
	}
	return nil
}

func (h *Host) cmdDisassemble(c selection) error {
	if len(c.args) == 0 {
		c.args = []string{"$"}
	}

	var addr byte
	switch c.args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
	default:
		a, err := parseAddr(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.args) > 1 {
		l, err := parseCount(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = l
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEvaluate(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	token := strings.Join(c.args, " ")
	if inst := cpu.GetInstructionSet().GetInstruction(token); inst != nil {
		h.printf("%s: opcode $%02X (%s)\n", inst.Name, inst.Opcode, inst.Group)
		return nil
	}

	v, err := asm.ParseNumber(token)
	switch {
	case err != nil:
		h.printf("%v '%s'\n", err, token)
	case v > 0xff:
		h.printf("$%04X %d (%v)\n", v, v, asm.ErrOperandOutOfRange)
	default:
		h.printf("$%02X %d\n", v, v)
	}
	return nil
}

func (h *Host) cmdExecute(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	filename := c.args[0]
	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	defer file.Close()

	return h.run(file, false)
}

func (h *Host) cmdHelp(c selection) error {
	if err := cmds.GetHelp(h.output, c.args); err != nil {
		h.printf("%v.\n", err)
	}
	h.flush()
	return nil
}

func (h *Host) cmdInstructions(c selection) error {
	h.println("Op  Name     Group")
	h.println("--  -------  ----------")
	for _, inst := range cpu.GetInstructionSet().Instructions() {
		h.printf("%02X  %-7s  %s\n", inst.Opcode, inst.Name, inst.Group)
	}
	return nil
}

func (h *Host) cmdList(c selection) error {
	if h.sourceMap == nil {
		h.println("No source map loaded.")
		return nil
	}

	if len(c.args) == 0 {
		c.args = []string{"$"}
	}

	var addr byte
	switch c.args[0] {
	case "$":
		addr = h.settings.NextSourceAddr
	default:
		a, err := parseAddr(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.SourceLines
	if len(c.args) > 1 {
		l, err := parseCount(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = l
	}

	file := filepath.Base(h.sourceMap.File)
	for i := 0; i < lines; i++ {
		if l, ok := h.sourceMap.Search(int(addr)); ok {
			h.printf("%02X-   %s:%d:%d  %s\n", addr, file, l.Line, l.Column, l.Token)
		} else {
			h.printf("%02X-   <no source>\n", addr)
		}
		addr++
	}

	h.settings.NextSourceAddr = addr
	h.lastCmd.args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdLoad(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	filename := c.args[0]
	if filepath.Ext(filename) == "" {
		filename += ".mem"
	}

	h.load(filename)
	return nil
}

func (h *Host) cmdMemoryDump(c selection) error {
	if len(c.args) == 0 {
		c.args = []string{"$"}
	}

	var addr byte
	switch c.args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
	default:
		a, err := parseAddr(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := h.settings.MemDumpBytes
	if len(c.args) >= 2 {
		var err error
		bytes, err = parseCount(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + byte(bytes)
	h.lastCmd.args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c selection) error {
	if len(c.args) < 2 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := parseAddr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	// Encode the values exactly as the assembler would.
	src := strings.NewReader(strings.Join(c.args[1:], " "))
	a, sm, err := asm.Assemble(src, "memory set", io.Discard, asm.GrowImage)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := a.Code[:len(sm.Lines)]
	h.mem.StoreBytes(addr, b)
	h.printf("Stored %d byte(s) at $%02X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdMemoryCopy(c selection) error {
	if len(c.args) < 3 {
		h.displayHelpText(c)
		return nil
	}

	var addr [3]byte
	for i := range addr {
		a, err := parseAddr(c.args[i])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr[i] = a
	}

	dst, begin, end := addr[0], addr[1], addr[2]
	if end < begin {
		h.println("Source range invalid.")
		return nil
	}

	b := make([]byte, int(end)-int(begin)+1)
	h.mem.LoadBytes(begin, b)
	h.mem.StoreBytes(dst, b)

	h.printf("Copied $%02X..$%02X to $%02X..$%02X.\n", begin, end, dst, dst+byte(len(b)-1))
	return nil
}

func (h *Host) cmdQuit(c selection) error {
	return errQuit
}

func (h *Host) cmdSet(c selection) error {
	switch len(c.args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c)

	default:
		key, value := c.args[0], strings.Join(c.args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("Setting '%s' not found", key)
		case reflect.String:
			err = h.settings.Set(key, value)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int
			v, err = asm.ParseNumber(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}
	}

	return nil
}

// Load a readmemh image into memory, along with its source map if one
// exists next to it.
func (h *Host) load(filename string) {
	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return
	}
	defer file.Close()

	a := &asm.Assembly{}
	_, err = a.ReadFrom(file)
	if err != nil {
		h.printf("Failed to read '%s': %v\n", filepath.Base(filename), err)
		return
	}

	if err := h.mem.LoadImage(a.Code); err != nil {
		h.printf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return
	}

	if len(a.Code) == 0 {
		h.printf("Loaded '%s' (empty image)\n", filepath.Base(filename))
	} else {
		h.printf("Loaded '%s' to $00..$%02X\n", filepath.Base(filename), len(a.Code)-1)
	}

	h.settings.NextDisasmAddr = 0
	h.settings.NextMemDumpAddr = 0
	h.settings.NextSourceAddr = 0
	h.sourceMap = nil

	ext := filepath.Ext(filename)
	mapFilename := filename[:len(filename)-len(ext)] + ".map"

	mapFile, err := os.Open(mapFilename)
	if err != nil {
		return
	}
	defer mapFile.Close()

	sourceMap := &asm.SourceMap{}
	if _, err = sourceMap.ReadFrom(mapFile); err != nil {
		h.printf("Failed to read '%s': %v\n", filepath.Base(mapFilename), err)
		return
	}

	h.sourceMap = sourceMap
	h.printf("Loaded '%s' source map\n", filepath.Base(mapFilename))
}

func (h *Host) disassemble(addr byte) (str string, next byte) {
	var line string
	line, next = disasm.Disassemble(h.mem, addr)

	str = fmt.Sprintf("%02X-   %s", addr, line)
	if anno, ok := h.annotations[addr]; ok {
		str = fmt.Sprintf("%-32s ; %s", str, anno)
	}
	return str, next
}

func (h *Host) dumpMemory(addr0 byte, bytes int) {
	if bytes <= 0 {
		return
	}

	start := int(addr0)
	stop := min(start+bytes, cpu.MemorySize)

	buf := []byte("  -" + strings.Repeat(" ", 34))

	// Rows are aligned to 8-byte boundaries.
	for r := start &^ 7; r < stop; r += 8 {
		byteToBuf(byte(r), buf[0:2])
		for a, c1, c2 := r, 4, 29; a < r+8; a, c1, c2 = a+1, c1+3, c2+1 {
			if a >= start && a < stop {
				m := h.mem.LoadByte(byte(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayHelpText(c selection) {
	c.command.DisplayUsage(h.output)
	h.flush()
}

// Parse an address using any of the assembler's operand notations.
func parseAddr(s string) (byte, error) {
	v, err := asm.ParseOperand(s)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	return v, nil
}

// Parse a line or byte count, limited to the size of memory.
func parseCount(s string) (int, error) {
	v, err := asm.ParseNumber(s)
	if err != nil {
		return 0, fmt.Errorf("invalid count '%s': %w", s, err)
	}
	return min(v, cpu.MemorySize), nil
}
