// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A selection is a command found in the command tree, along with the
// arguments that followed it on the command line.
type selection struct {
	command *cmd.Command
	args    []string
}

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "asm8"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "annotate",
		Brief: "Annotate an address",
		Description: "Provide a code annotation at a memory address." +
			" When disassembling memory at this address, the annotation will" +
			" be displayed. Omit the text to remove an annotation.",
		Usage: "annotate <address> [<text>]",
		Data:  (*Host).cmdAnnotate,
	})

	// Assemble commands
	as := root.AddSubtree(cmd.TreeDescriptor{Name: "assemble", Brief: "Assemble commands"})
	as.AddCommand(cmd.CommandDescriptor{
		Name:  "file",
		Brief: "Assemble a file from disk and save the image to disk",
		Description: "Run the assembler on the specified file, producing a" +
			" readmemh memory image and a source map file if successful." +
			" The image is written to the output path if one is given," +
			" otherwise to the OutputPath setting, otherwise next to the" +
			" source file with a .mem extension.",
		Usage: "assemble file <filename> [<output>]",
		Data:  (*Host).cmdAssembleFile,
	})
	as.AddCommand(cmd.CommandDescriptor{
		Name:  "tokens",
		Brief: "Display the tokens of a source file",
		Description: "Split the specified source file into tokens and" +
			" display each token with its address, line and column.",
		Usage: "assemble tokens <filename>",
		Data:  (*Host).cmdAssembleTokens,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble memory",
		Description: "Display the contents of memory starting at the requested" +
			" address, one byte per line, showing the instruction each byte" +
			" encodes. The number of lines may be specified as an option." +
			" If no address is specified, the listing continues from where" +
			" the last one left off.",
		Usage: "disassemble [<address>] [<lines>]",
		Data:  (*Host).cmdDisassemble,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "evaluate",
		Brief: "Evaluate a token",
		Description: "Display the byte the assembler would encode for a" +
			" token, whether it names an instruction or is an operand literal.",
		Usage: "evaluate <token>",
		Data:  (*Host).cmdEvaluate,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "execute",
		Brief: "Execute a script file",
		Description: "Load a script file from disk and execute the" +
			" commands it contains.",
		Usage: "execute <filename>",
		Data:  (*Host).cmdExecute,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "instructions",
		Brief:       "List the instruction set",
		Description: "Display every instruction with its opcode and group.",
		Usage:       "instructions",
		Data:        (*Host).cmdInstructions,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "list",
		Brief: "List source code tokens",
		Description: "List the source tokens corresponding to the memory" +
			" at the specified address. A source map containing the address" +
			" must have been previously loaded.",
		Usage: "list [<address>] [<lines>]",
		Data:  (*Host).cmdList,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "load",
		Brief: "Load a memory image",
		Description: "Load a readmemh memory image into memory at address" +
			" zero. If the image has an associated source map, it will be" +
			" loaded too.",
		Usage: "load <filename>",
		Data:  (*Host).cmdLoad,
	})

	// Memory commands
	me := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		Usage: "memory dump [<address>] [<bytes>]",
		Data:  (*Host).cmdMemoryDump,
	})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated tokens, each encoded the way the assembler" +
			" would encode it.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  (*Host).cmdMemorySet,
	})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "copy",
		Brief: "Copy memory",
		Description: "Copy memory from one range of addresses to another. You" +
			" must specify the destination address, the first byte of the source" +
			" address, and the last byte of the source address.",
		Usage: "memory copy <dst addr> <src addr begin> <src addr end>",
		Data:  (*Host).cmdMemoryCopy,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (*Host).cmdSet,
	})

	// Add command shortcuts.
	root.AddShortcut("a", "assemble file")
	root.AddShortcut("at", "assemble tokens")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("l", "list")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("mc", "memory copy")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("?", "help")

	cmds = root
}
