// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"encoding/json"
	"io"
	"sort"
)

// A SourceMap describes the mapping between image addresses and the source
// tokens that produced them.
type SourceMap struct {
	File  string       // Source file name
	Size  int          // Size of the memory image in bytes
	Lines []SourceLine // One entry per token, in address order
}

// A SourceLine represents a mapping between an image address and the
// position of the token stored there.
type SourceLine struct {
	Address int    // Image address
	Line    int    // Source code line number
	Column  int    // Source code column number
	Token   string // Token text
}

// Search searches the source map for a mapping with the requested address.
func (s *SourceMap) Search(addr int) (SourceLine, bool) {
	i := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].Address >= addr
	})
	if i < len(s.Lines) && s.Lines[i].Address == addr {
		return s.Lines[i], true
	}
	return SourceLine{}, false
}

// ReadFrom reads the contents of an exported source map file.
func (s *SourceMap) ReadFrom(r io.Reader) (n int64, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	err = json.Unmarshal(b, s)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// WriteTo writes the contents of the source map to an output stream.
func (s *SourceMap) WriteTo(w io.Writer) (n int64, err error) {
	b, err := json.Marshal(*s)
	if err != nil {
		return 0, err
	}

	nn, err := w.Write(b)
	return int64(nn), err
}
