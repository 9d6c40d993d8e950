// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/beevik/asm8/asm"
	"github.com/beevik/asm8/cpu"
	"github.com/beevik/asm8/disasm"
	"github.com/beevik/asm8/host"
	"github.com/beevik/term"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var (
	outPath  string
	writeMap bool
	grow     bool
	verbose  bool
	list     bool
)

var rootCmd = &cobra.Command{
	Use:   "asm8 [flags] sourceFile",
	Short: "Assembler for the 8-bit toy CPU",
	Long: `Asm8 assembles a source file for the 8-bit toy CPU into a 256-byte
memory image written in readmemh format, one byte per line.

Every whitespace-separated token in the source occupies exactly one byte
of the image, at the address given by its position. Tokens that name an
instruction are stored as the instruction's opcode. All other tokens must
be decimal, 0x-prefixed hexadecimal, 0b-prefixed binary, or single-quoted
character literals. A semicolon at the start of a token begins a comment.
`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return assembleFile(args[0], os.Stdout)
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell [script ...]",
	Short: "Run the interactive host",
	Long: `Shell runs the commands contained in each script file, then reads
commands from standard input. A prompt is displayed when standard input
is a terminal. Type "help" in the shell for a list of commands.
`,
	Run: func(cmd *cobra.Command, args []string) {
		runShell(args)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&outPath, "output", "o", asm.DefaultOutput, "memory image output path")
	flags.BoolVarP(&writeMap, "map", "m", false, "also write a source map next to the image")
	flags.BoolVar(&grow, "grow", false, "grow the image past 256 bytes instead of failing")
	flags.BoolVar(&verbose, "verbose", false, "display assembler output while assembling")
	flags.BoolVar(&list, "list", false, "display a listing of the assembled image")

	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.AddCommand(shellCmd)
}

func main() {
	flag.Set("logtostderr", "true")
	flag.CommandLine.Parse(nil)

	if err := rootCmd.Execute(); err != nil {
		exitOnError(err)
	}
	glog.Flush()
}

func assembleFile(path string, out io.Writer) error {
	glog.V(1).Infof("assembling %s to %s", path, outPath)

	var options asm.Option
	if verbose {
		options |= asm.Verbose
	}
	if grow {
		options |= asm.GrowImage
	}
	if writeMap {
		options |= asm.WriteSourceMap
	}

	if err := asm.AssembleFile(path, outPath, options, out); err != nil {
		return err
	}

	if list {
		return printListing(outPath, out)
	}
	return nil
}

// Read back an assembled image and display one line per byte. Only the
// first 256 bytes of a grown image fit in memory, so the rest is omitted.
func printListing(path string, out io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	a := &asm.Assembly{}
	if _, err := a.ReadFrom(file); err != nil {
		return fmt.Errorf("reading '%s': %w", path, err)
	}

	code := a.Code
	if len(code) > cpu.MemorySize {
		fmt.Fprintf(out, "Listing truncated to the first %d of %d bytes.\n", cpu.MemorySize, len(code))
		code = code[:cpu.MemorySize]
	}

	mem := cpu.NewFlatMemory()
	if err := mem.LoadImage(code); err != nil {
		return fmt.Errorf("listing '%s': %w", path, err)
	}

	n := len(code)
	for n > 0 && code[n-1] == 0 {
		n--
	}
	glog.V(1).Infof("listing %d bytes of %s", n, path)

	for addr := 0; addr < n; addr++ {
		line, _ := disasm.Disassemble(mem, byte(addr))
		fmt.Fprintf(out, "%02X-   %s\n", addr, line)
	}
	return nil
}

func runShell(scripts []string) {
	h := host.New()

	// Run commands contained in command-line files.
	for _, filename := range scripts {
		glog.V(1).Infof("running script %s", filename)
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Run commands interactively.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	h.RunCommands(os.Stdin, os.Stdout, interactive)
}

func exitOnError(err error) {
	glog.Flush()
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
