// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "errors"

// MemorySize is the size of the CPU's address space in bytes.
const MemorySize = 256

// Errors
var (
	ErrMemoryOutOfBounds = errors.New("memory access out of bounds")
)

// The Memory interface presents an interface through which all accesses to
// the CPU's 8-bit address space occur.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr byte) byte

	// LoadBytes loads multiple bytes from the address and stores them into
	// the buffer 'b'. Addresses wrap around past $FF.
	LoadBytes(addr byte, b []byte)

	// StoreByte stores a byte to the requested address.
	StoreByte(addr byte, v byte)

	// StoreBytes stores multiple bytes to the requested address. Addresses
	// wrap around past $FF.
	StoreBytes(addr byte, b []byte)
}

// FlatMemory represents the entire 8-bit address space as a single
// 256-byte buffer.
type FlatMemory struct {
	b [MemorySize]byte
}

// NewFlatMemory creates a new, zero-filled 8-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr byte) byte {
	return m.b[addr]
}

// LoadBytes loads multiple bytes from the address into b.
func (m *FlatMemory) LoadBytes(addr byte, b []byte) {
	for i := range b {
		b[i] = m.b[addr]
		addr++
	}
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr byte, v byte) {
	m.b[addr] = v
}

// StoreBytes stores multiple bytes to the requested address.
func (m *FlatMemory) StoreBytes(addr byte, b []byte) {
	for _, v := range b {
		m.b[addr] = v
		addr++
	}
}

// LoadImage replaces the contents of memory with an image starting at
// address zero. Bytes past the image are cleared. An image larger than the
// address space is rejected.
func (m *FlatMemory) LoadImage(image []byte) error {
	if len(image) > MemorySize {
		return ErrMemoryOutOfBounds
	}
	n := copy(m.b[:], image)
	clear(m.b[n:])
	return nil
}

// Bytes returns a copy of the full memory contents.
func (m *FlatMemory) Bytes() []byte {
	b := make([]byte, MemorySize)
	copy(b, m.b[:])
	return b
}
