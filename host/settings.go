// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// The settings type holds the host's configuration variables. Each
// exported field is a variable that the "set" command can change, and its
// doc tag is the description shown when the variables are listed. The
// Next*Addr fields record where the last dump, disassembly or listing
// stopped, so a command given without an address continues from there.
type settings struct {
	Verbose         bool   `doc:"verbose assembler output"`
	GrowImage       bool   `doc:"grow images past 256 bytes"`
	OutputPath      string `doc:"image path for assemble file"`
	MemDumpBytes    int    `doc:"default number of memory bytes to dump"`
	DisasmLines     int    `doc:"default number of lines to disassemble"`
	SourceLines     int    `doc:"default number of source tokens to list"`
	NextDisasmAddr  byte   `doc:"address of next disassembly"`
	NextSourceAddr  byte   `doc:"address of next source listing"`
	NextMemDumpAddr byte   `doc:"address of next memory dump"`
}

// Default sizes for memory dumps, disassembly and source listings.
const (
	defaultMemDumpBytes = 64
	defaultDisasmLines  = 10
	defaultSourceLines  = 10
)

// newSettings returns settings that show a four-row memory dump and ten
// lines of disassembly or source, starting at address zero.
func newSettings() *settings {
	return &settings{
		MemDumpBytes: defaultMemDumpBytes,
		DisasmLines:  defaultDisasmLines,
		SourceLines:  defaultSourceLines,
	}
}

// A settingsField describes one configuration variable, found by
// reflecting over the settings struct.
type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

// Variables are looked up by any unambiguous prefix of their lowercased
// names.
var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

var errInvalidType = errors.New("invalid type")

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

// Display writes one line per configuration variable to w, giving its
// name, its current value and its description. Addresses are shown in
// hexadecimal and paths in quotes.
func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for _, f := range settingsFields {
		line := fmt.Sprintf("    %-16s %s", f.name, formatSetting(value.Field(f.index)))
		fmt.Fprintf(w, "%-28s (%s)\n", line, f.doc)
	}
}

func formatSetting(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return fmt.Sprintf("%q", v.String())
	case reflect.Uint8:
		return fmt.Sprintf("$%02X", uint8(v.Uint()))
	default:
		return fmt.Sprint(v.Interface())
	}
}

// Kind returns the kind of the setting selected by key, or reflect.Invalid
// if key does not select exactly one setting.
func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

// Set assigns a value to the setting selected by key, which may be any
// unambiguous prefix of the setting's name.
func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String && vIn.Type().Kind() != reflect.String) ||
		(f.kind != reflect.String && vIn.Type().Kind() == reflect.String) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errInvalidType
	}
	if f.kind == reflect.Uint8 && vIn.CanInt() && (vIn.Int() < 0 || vIn.Int() > 0xff) {
		return fmt.Errorf("value %d out of range", vIn.Int())
	}
	vInConverted := vIn.Convert(f.typ)

	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vInConverted)

	return nil
}
