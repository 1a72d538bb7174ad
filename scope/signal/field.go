package signal

import (
	"encoding/hex"
	"fmt"
)

// FieldType is the semantic type of a message field.
type FieldType uint8

const (
	FieldUint FieldType = iota
	FieldInt
	FieldBytes
	FieldEnum
)

func (t FieldType) String() string {
	switch t {
	case FieldUint:
		return "uint"
	case FieldInt:
		return "int"
	case FieldBytes:
		return "bytes"
	case FieldEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Field is one named, typed parameter of a protocol message. Its declared
// bit-width bounds every assignment: a rejected value leaves the previous
// one in place.
type Field struct {
	name string
	typ  FieldType
	bits int

	uval    uint64
	ival    int64
	bval    []byte
	choices []string
	choice  int
}

func (f *Field) Name() string    { return f.name }
func (f *Field) Type() FieldType { return f.typ }

// Bits reports the declared encoding width.
func (f *Field) Bits() int { return f.bits }

func (f *Field) Uint() uint64 { return f.uval }

func (f *Field) SetUint(v uint64) error {
	if f.typ != FieldUint {
		return fmt.Errorf("signal: field %s: not a uint field", f.name)
	}
	if f.bits < 64 && v >= 1<<uint(f.bits) {
		return fmt.Errorf("signal: field %s: %d out of range for %d bits", f.name, v, f.bits)
	}
	f.uval = v
	return nil
}

func (f *Field) Int() int64 { return f.ival }

func (f *Field) SetInt(v int64) error {
	if f.typ != FieldInt {
		return fmt.Errorf("signal: field %s: not an int field", f.name)
	}
	lo := int64(-1) << uint(f.bits-1)
	hi := int64(1)<<uint(f.bits-1) - 1
	if v < lo || v > hi {
		return fmt.Errorf("signal: field %s: %d out of range for %d bits", f.name, v, f.bits)
	}
	f.ival = v
	return nil
}

// Bytes returns the field's blob. Callers must not mutate it.
func (f *Field) Bytes() []byte { return f.bval }

func (f *Field) SetBytes(p []byte) error {
	if f.typ != FieldBytes {
		return fmt.Errorf("signal: field %s: not a bytes field", f.name)
	}
	if len(p)*8 != f.bits {
		return fmt.Errorf("signal: field %s: %d bytes, want %d", f.name, len(p), f.bits/8)
	}
	copy(f.bval, p)
	return nil
}

// Choices returns the valid values of an enum field.
func (f *Field) Choices() []string { return f.choices }

func (f *Field) Choice() int { return f.choice }

func (f *Field) SetChoice(i int) error {
	if f.typ != FieldEnum {
		return fmt.Errorf("signal: field %s: not an enum field", f.name)
	}
	if i < 0 || i >= len(f.choices) {
		return fmt.Errorf("signal: field %s: choice %d out of range [0,%d)", f.name, i, len(f.choices))
	}
	f.choice = i
	return nil
}

// Text renders the current value for display.
func (f *Field) Text() string {
	switch f.typ {
	case FieldUint:
		if f.bits > 8 {
			return fmt.Sprintf("0x%0*X", (f.bits+3)/4, f.uval)
		}
		return fmt.Sprintf("%d", f.uval)
	case FieldInt:
		return fmt.Sprintf("%d", f.ival)
	case FieldBytes:
		return hex.EncodeToString(f.bval)
	case FieldEnum:
		if f.choice >= 0 && f.choice < len(f.choices) {
			return f.choices[f.choice]
		}
		return "?"
	default:
		return "?"
	}
}

// FieldSet is the ordered, editable parameter list of one protocol message.
// Field order is fixed by the decoder that populates it and defines the
// serialization order of Encode.
type FieldSet struct {
	fields []*Field
}

// NewFieldSet returns an empty set.
func NewFieldSet() *FieldSet {
	return &FieldSet{}
}

func (fs *FieldSet) Len() int { return len(fs.fields) }

// At returns field i, or nil if i is out of range.
func (fs *FieldSet) At(i int) *Field {
	if i < 0 || i >= len(fs.fields) {
		return nil
	}
	return fs.fields[i]
}

// ByName returns the first field with the given name, or nil.
func (fs *FieldSet) ByName(name string) *Field {
	for _, f := range fs.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// AddUint appends an unsigned field of the given bit-width. The schema is
// decoder-authored: invalid widths or initial values are programming errors
// and panic.
func (fs *FieldSet) AddUint(name string, bits int, v uint64) *Field {
	checkBits(name, bits, 64)
	f := &Field{name: name, typ: FieldUint, bits: bits}
	if err := f.SetUint(v); err != nil {
		panic(err.Error())
	}
	fs.fields = append(fs.fields, f)
	return f
}

// AddInt appends a signed (two's complement) field of the given bit-width.
func (fs *FieldSet) AddInt(name string, bits int, v int64) *Field {
	checkBits(name, bits, 64)
	if bits < 2 {
		panic(fmt.Sprintf("signal: field %s: signed width %d too small", name, bits))
	}
	f := &Field{name: name, typ: FieldInt, bits: bits}
	if err := f.SetInt(v); err != nil {
		panic(err.Error())
	}
	fs.fields = append(fs.fields, f)
	return f
}

// AddBytes appends a fixed-length blob field.
func (fs *FieldSet) AddBytes(name string, p []byte) *Field {
	if len(p) == 0 {
		panic(fmt.Sprintf("signal: field %s: empty blob", name))
	}
	f := &Field{name: name, typ: FieldBytes, bits: len(p) * 8}
	f.bval = append([]byte(nil), p...)
	fs.fields = append(fs.fields, f)
	return f
}

// AddEnum appends an enumerated-choice field.
func (fs *FieldSet) AddEnum(name string, choices []string, sel int) *Field {
	if len(choices) == 0 {
		panic(fmt.Sprintf("signal: field %s: no choices", name))
	}
	bits := 1
	for 1<<uint(bits) < len(choices) {
		bits++
	}
	f := &Field{name: name, typ: FieldEnum, bits: bits, choices: choices}
	if err := f.SetChoice(sel); err != nil {
		panic(err.Error())
	}
	fs.fields = append(fs.fields, f)
	return f
}

func checkBits(name string, bits, max int) {
	if bits < 1 || bits > max {
		panic(fmt.Sprintf("signal: field %s: invalid width %d", name, bits))
	}
}
