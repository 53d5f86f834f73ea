/*
 * mpce - Register and register file
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package register implements the named, masked, typed word holding data
// that backs mpce's architectural registers: the eight-entry general
// register file and the CPU's special-purpose registers.
package register

// Symbolic indices into the eight-entry general register file.
const (
	R0  uint8 = 0
	R1  uint8 = 1
	R2  uint8 = 2
	R3  uint8 = 3
	FP  uint8 = 4
	SP  uint8 = 5
	PC  uint8 = 6
	IMM uint8 = 7
)

// FileSize is the number of general registers.
const FileSize = 8

// Word is a named, masked, typed data cell. Bits set in mask are forced to
// zero on every write; R0 is constructed with mask 0xffff so it always
// reads zero regardless of what is written to it.
type Word struct {
	name string
	data uint16
	mask uint16
}

// NewWord creates a register with the given name and write-mask.
func NewWord(name string, mask uint16) *Word {
	return &Word{name: name, mask: mask}
}

// Read returns the register's current value.
func (r *Word) Read() uint16 {
	return r.data
}

// Write stores v & ^mask into the register.
func (r *Word) Write(v uint16) {
	r.data = v &^ r.mask
}

// Name returns the register's symbolic name.
func (r *Word) Name() string {
	return r.name
}

// Byte is a narrower, 8-bit sibling of Word used for the status, cause,
// and mode special registers.
type Byte struct {
	name string
	data uint8
	mask uint8
}

// NewByte creates an 8-bit register with the given name and write-mask.
func NewByte(name string, mask uint8) *Byte {
	return &Byte{name: name, mask: mask}
}

// Read returns the register's current value.
func (r *Byte) Read() uint8 {
	return r.data
}

// Write stores v & ^mask into the register.
func (r *Byte) Write(v uint8) {
	r.data = v &^ r.mask
}

// Name returns the register's symbolic name.
func (r *Byte) Name() string {
	return r.name
}

// File is the machine's eight general-purpose registers, indexed 0..7.
// Index 0 is hard-wired to zero: writes to it are discarded because its
// register is built with a full 0xffff mask.
type File struct {
	regs [FileSize]*Word
}

// NewFile builds a register file with the conventional register names.
func NewFile() *File {
	return &File{
		regs: [FileSize]*Word{
			NewWord("r0", 0xffff),
			NewWord("r1", 0),
			NewWord("r2", 0),
			NewWord("r3", 0),
			NewWord("fp", 0),
			NewWord("sp", 0),
			NewWord("pc", 0),
			NewWord("imm", 0),
		},
	}
}

// Get returns the register selected by the low 3 bits of index.
func (f *File) Get(index uint8) *Word {
	return f.regs[index&0x7]
}
