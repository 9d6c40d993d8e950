// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// An opsym is an internal symbol used to associate an opcode's data
// with its instruction name.
type opsym byte

const (
	symLDA opsym = iota
	symLDX
	symADDIMD
	symADDX
	symSUBIMD
	symSUBX
	symJMP
	symJEQ
	symJNE
	symJGT
	symJLT
	symJGE
	symJLE
	symCMPIMD
	symCMPX
	symTAX
	symTXA
	symTAY
	symTYA
	symHLT
	symDSP
	symSTA
)

// Group describes the family an instruction belongs to.
type Group byte

// All instruction groups
const (
	LoadStore  Group = iota // Load and store
	Arithmetic              // Add and subtract
	Compare                 // Comparison
	Branch                  // Jumps, conditional and unconditional
	Transfer                // Register to register transfer
	Control                 // Halt and display
)

var groupName = []string{
	"load/store",
	"arithmetic",
	"compare",
	"branch",
	"transfer",
	"control",
}

func (g Group) String() string {
	return groupName[g]
}

// Instruction names, indexed by opsym.
var names = []string{
	symLDA:    "LDA",
	symLDX:    "LDX",
	symADDIMD: "ADD_IMD",
	symADDX:   "ADDX",
	symSUBIMD: "SUB_IMD",
	symSUBX:   "SUBX",
	symJMP:    "JMP",
	symJEQ:    "JEQ",
	symJNE:    "JNE",
	symJGT:    "JGT",
	symJLT:    "JLT",
	symJGE:    "JGE",
	symJLE:    "JLE",
	symCMPIMD: "CMP_IMD",
	symCMPX:   "CMPX",
	symTAX:    "TAX",
	symTXA:    "TXA",
	symTAY:    "TAY",
	symTYA:    "TYA",
	symHLT:    "HLT",
	symDSP:    "DSP",
	symSTA:    "STA",
}

// Opcode data for an instruction. The opcode values are part of the binary
// interface with existing ROM images and must never change.
type opcodeData struct {
	sym    opsym // internal opcode symbol
	group  Group // instruction family
	opcode byte  // opcode hex value
}

// All valid opcodes
var data = []opcodeData{
	{symLDA, LoadStore, 0x00},
	{symLDX, LoadStore, 0x01},
	{symADDIMD, Arithmetic, 0x02},
	{symADDX, Arithmetic, 0x03},
	{symSUBIMD, Arithmetic, 0x04},
	{symSUBX, Arithmetic, 0x05},
	{symJMP, Branch, 0x06},
	{symJEQ, Branch, 0x07},
	{symJNE, Branch, 0x08},
	{symJGT, Branch, 0x09},
	{symJLT, Branch, 0x0a},
	{symJGE, Branch, 0x0b},
	{symJLE, Branch, 0x0c},
	{symCMPIMD, Compare, 0x0d},
	{symCMPX, Compare, 0x0e},
	{symTAX, Transfer, 0x0f},
	{symTXA, Transfer, 0x10},
	{symTAY, Transfer, 0x11},
	{symTYA, Transfer, 0x12},
	{symHLT, Control, 0x13},
	{symDSP, Control, 0x14},
	{symSTA, LoadStore, 0x15},
}

// An Instruction describes a CPU instruction: its mnemonic, its single-byte
// opcode and the group it belongs to.
type Instruction struct {
	Name   string // mnemonic, matched exactly and case-sensitively
	Opcode byte   // opcode value
	Group  Group  // instruction family
}

// An InstructionSet defines the set of all instructions understood by the
// CPU. It is immutable once built.
type InstructionSet struct {
	instructions [256]*Instruction      // instructions by opcode, nil if unused
	byName       map[string]*Instruction // instructions by mnemonic
	ordered      []*Instruction          // instructions in opcode order
}

// Lookup retrieves the instruction corresponding to the requested opcode.
// It returns nil if the byte is not an opcode.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return s.instructions[opcode]
}

// GetInstruction returns the instruction whose mnemonic exactly matches
// the provided string, or nil if there is none.
func (s *InstructionSet) GetInstruction(name string) *Instruction {
	return s.byName[name]
}

// Instructions returns all instructions in opcode order.
func (s *InstructionSet) Instructions() []*Instruction {
	return append([]*Instruction(nil), s.ordered...)
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{
		byName:  make(map[string]*Instruction, len(data)),
		ordered: make([]*Instruction, 0, len(data)),
	}

	for _, d := range data {
		inst := &Instruction{
			Name:   names[d.sym],
			Opcode: d.opcode,
			Group:  d.group,
		}
		if set.instructions[d.opcode] != nil {
			panic("duplicate opcode")
		}
		if _, found := set.byName[inst.Name]; found {
			panic("duplicate instruction name")
		}
		set.instructions[d.opcode] = inst
		set.byName[inst.Name] = inst
	}

	for i := 0; i < 256; i++ {
		if inst := set.instructions[i]; inst != nil {
			set.ordered = append(set.ordered, inst)
		}
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the CPU's instruction set. The returned set is
// shared and must be treated as read-only.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}
