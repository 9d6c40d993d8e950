// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runHost(t *testing.T, h *Host, commands ...string) string {
	t.Helper()
	var out bytes.Buffer
	h.RunCommands(strings.NewReader(strings.Join(commands, "\n")), &out, false)
	return out.String()
}

func expectOutput(t *testing.T, out string, expected ...string) {
	t.Helper()
	for _, e := range expected {
		if !strings.Contains(out, e) {
			t.Errorf("output missing %q\noutput:\n%s", e, out)
		}
	}
}

func expectMemory(t *testing.T, h *Host, addr byte, expected ...byte) {
	t.Helper()
	b := make([]byte, len(expected))
	h.mem.LoadBytes(addr, b)
	if !bytes.Equal(b, expected) {
		t.Errorf("memory at $%02X: exp % X, got % X", addr, expected, b)
	}
}

func TestMemorySetAndDump(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set 0 LDA 0x10 'A' HLT",
		"memory dump 0 8",
	)

	expectOutput(t, out,
		"Stored 4 byte(s) at $00.",
		"00- 00 10 41 13 00 00 00 00  ..A.....",
	)
	expectMemory(t, h, 0, 0x00, 0x10, 0x41, 0x13)
}

func TestMemorySetErrors(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set 0 5 lda",
		"memory set 300 5",
	)

	expectOutput(t, out,
		"Syntax error in 'memory set' line 1, col 3: invalid operand 'lda'",
		"invalid address '300'",
	)
	expectMemory(t, h, 0, 0x00, 0x00)
}

func TestMemoryDumpContinues(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set 0x0c 1 2 3 4 5 6 7 8",
		"memory dump 0x0c 4",
		"memory dump",
	)

	expectOutput(t, out,
		"08-             01 02 03 04  ",
		"10- 05 06 07 08 00 00 00 00  ",
	)
	if h.settings.NextMemDumpAddr != 0x10+64 {
		t.Errorf("exp next dump at $50, got $%02X", h.settings.NextMemDumpAddr)
	}
}

func TestMemoryCopy(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set 0 1 2 3",
		"memory copy 0x80 0 2",
		"memory copy 0 2 1",
	)

	expectOutput(t, out,
		"Copied $00..$02 to $80..$82.",
		"Source range invalid.",
	)
	expectMemory(t, h, 0x80, 1, 2, 3)
}

func TestEvaluate(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"evaluate ADD_IMD",
		"evaluate 0b101",
		"evaluate 'A'",
		"evaluate 0x1234",
		"evaluate lda",
	)

	expectOutput(t, out,
		"ADD_IMD: opcode $02 (arithmetic)",
		"$05 5",
		"$41 65",
		"$1234 4660 (operand out of range)",
		"invalid operand 'lda'",
	)
}

func TestDisassembleAnnotate(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set 0 LDA 0x41 HLT",
		"annotate 1 the letter A",
		"disassemble 0 3",
		"annotate 1",
	)

	expectOutput(t, out,
		"Annotation added at $01.",
		"00-   LDA     $00   0",
		"01-           $41  65 'A'",
		"; the letter A",
		"02-   HLT     $13  19",
		"Annotation removed at $01.",
	)
	if h.settings.NextDisasmAddr != 3 {
		t.Errorf("exp next disassembly at $03, got $%02X", h.settings.NextDisasmAddr)
	}
	if len(h.annotations) != 0 {
		t.Error("annotation not removed")
	}
}

func TestInstructions(t *testing.T) {
	out := runHost(t, New(), "instructions")
	expectOutput(t, out,
		"00  LDA      load/store",
		"0D  CMP_IMD  compare",
		"15  STA      load/store",
	)
}

func TestSet(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"set verb true",
		"set DisasmLines 0x20",
		"set output out.mem",
		"set bogus 1",
		"set",
	)

	expectOutput(t, out,
		"Setting updated.",
		"Setting 'bogus' not found",
		"Variables:",
		"(verbose assembler output)",
	)
	if !h.settings.Verbose {
		t.Error("Verbose not set")
	}
	if h.settings.DisasmLines != 0x20 {
		t.Errorf("exp DisasmLines 32, got %d", h.settings.DisasmLines)
	}
	if h.settings.OutputPath != "out.mem" {
		t.Errorf("exp OutputPath out.mem, got %q", h.settings.OutputPath)
	}
}

func TestSettingsSet(t *testing.T) {
	s := newSettings()

	if err := s.Set("nextd", 5); err != nil || s.NextDisasmAddr != 5 {
		t.Errorf("Set(nextd): %v", err)
	}
	if err := s.Set("next", 1); err == nil {
		t.Error("ambiguous setting accepted")
	}
	if err := s.Set("memdump", "x"); err != errInvalidType {
		t.Errorf("exp invalid type, got %v", err)
	}
	if err := s.Set("nextm", 300); err == nil {
		t.Error("out of range byte setting accepted")
	}
	if err := s.Set("grow", true); err != nil || !s.GrowImage {
		t.Errorf("Set(grow): %v", err)
	}
}

func TestSettingsDisplay(t *testing.T) {
	s := newSettings()
	s.OutputPath = "out.mem"
	s.NextMemDumpAddr = 0x40

	var out bytes.Buffer
	s.Display(&out)

	expectOutput(t, out.String(),
		"    OutputPath       \"out.mem\"",
		"    MemDumpBytes     64      (default number of memory bytes to dump)",
		"    NextMemDumpAddr  $40     (address of next memory dump)",
		"    GrowImage        false   (grow images past 256 bytes)",
	)
	if n := strings.Count(out.String(), "\n"); n != len(settingsFields) {
		t.Errorf("exp %d lines, got %d", len(settingsFields), n)
	}
}

func TestAssembleAndLoad(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.asm")
	out := filepath.Join(dir, "prog.mem")

	err := os.WriteFile(src, []byte("LDA 0x10\nADD_IMD 5 ; add five\nHLT\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	h := New()
	output := runHost(t, h,
		"assemble file "+src+" "+out,
		"load "+out,
		"list 0 3",
		"disassemble 2 1",
	)

	expectOutput(t, output,
		"Assembled 'prog.asm' to produce 'prog.mem' and 'prog.map'.",
		"Loaded 'prog.mem' to $00..$FF",
		"Loaded 'prog.map' source map",
		"00-   prog.asm:1:1  LDA",
		"01-   prog.asm:1:5  0x10",
		"02-   prog.asm:2:1  ADD_IMD",
		"02-   ADD_IMD $02   2",
	)
	expectMemory(t, h, 0, 0x00, 0x10, 0x02, 0x05, 0x13, 0x00)
}

func TestAssembleDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.asm")
	if err := os.WriteFile(src, []byte("HLT"), 0644); err != nil {
		t.Fatal(err)
	}

	runHost(t, New(), "assemble file "+filepath.Join(dir, "prog"))

	if _, err := os.Stat(filepath.Join(dir, "prog.mem")); err != nil {
		t.Errorf("image not written: %v", err)
	}
}

func TestAssembleFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.asm")
	if err := os.WriteFile(src, []byte("LDA 256"), 0644); err != nil {
		t.Fatal(err)
	}

	out := runHost(t, New(),
		"assemble file "+src,
		"assemble tokens "+src,
	)

	expectOutput(t, out,
		"Failed to assemble 'bad.asm'.",
		"line 1, col 5: operand out of range '256'",
		"00-   1   1    LDA",
		"01-   1   5    256",
	)
	if _, err := os.Stat(filepath.Join(dir, "bad.mem")); !os.IsNotExist(err) {
		t.Error("image written for failed assembly")
	}
}

func TestListWithoutSourceMap(t *testing.T) {
	out := runHost(t, New(), "list 0")
	expectOutput(t, out, "No source map loaded.")
}

func TestExecuteAndQuit(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.cmd")
	if err := os.WriteFile(script, []byte("memory set 0 7\n\nquit\nmemory set 1 8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	h := New()
	runHost(t, h,
		"execute "+script,
		"memory set 2 9",
	)
	expectMemory(t, h, 0, 7, 0, 0)
}

func TestUnknownCommand(t *testing.T) {
	out := runHost(t, New(), "bogus")
	expectOutput(t, out, "Command not found.")
}

func TestHelp(t *testing.T) {
	out := runHost(t, New(),
		"help",
		"help memory",
		"help memory copy",
		"help bogus",
	)

	expectOutput(t, out,
		"asm8 commands:",
		"    memory        Memory commands",
		"    instructions  List the instruction set",
		"memory commands:",
		"    dump  Dump memory at address",
		"Usage: memory copy <dst addr> <src addr begin> <src addr end>",
		"Description:",
		"Command not found.",
	)
}

func TestGroupListing(t *testing.T) {
	out := runHost(t, New(), "memory", "assemble")
	expectOutput(t, out,
		"memory commands:",
		"    copy  Copy memory",
		"assemble commands:",
		"    tokens  Display the tokens of a source file",
	)
}

func TestShortcuts(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"ms 0 1 2 3",
		"mc 0x10 0 2",
		"m 0x10 8",
		"e HLT",
		"? mc",
	)

	expectOutput(t, out,
		"Stored 3 byte(s) at $00.",
		"Copied $00..$02 to $10..$12.",
		"10- 01 02 03 00 00 00 00 00  ........",
		"HLT: opcode $13 (control)",
		"Usage: memory copy <dst addr> <src addr begin> <src addr end>",
		"Shortcut: mc",
	)
	expectMemory(t, h, 0x10, 1, 2, 3)
}

func TestMissingArguments(t *testing.T) {
	out := runHost(t, New(), "annotate", "memory copy 0")
	expectOutput(t, out,
		"Usage: annotate <address> [<text>]",
		"Usage: memory copy <dst addr> <src addr begin> <src addr end>",
	)
}
