/*
 * mpce - Low level memory
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

// Package memory implements mpce's word-addressable and byte-addressable
// memory views over a single contiguous word buffer, with an optional
// memory-mapped I/O overlay for device registers.
package memory

// IOSize is the number of word-addressed device slots in an MMIO overlay
// window (a 12-bit offset space).
const IOSize = 0x1000

// IODevice is implemented by anything that can be routed to through an
// MMIO overlay: a single load/store handler pair selected by an offset
// within the overlay window (a word offset for LoadW/StoreW, a byte
// offset for LoadB/StoreB).
type IODevice interface {
	// MMIOLoad returns the word at the given offset.
	MMIOLoad(offset uint32) uint16
	// MMIOStore writes value to the given offset.
	MMIOStore(offset uint32, value uint16)
}

// overlay describes the MMIO window configured on a RAM: accesses with
// address > ioBegin are routed to the registered device at
// addr - ioBegin - 1, matching the spec's off-by-one base.
type overlay struct {
	begin uint32
	dev   IODevice
}

// RAM is a flat word array with two access views (word-addressable and
// byte-addressable) and an optional MMIO overlay. Out-of-range accesses
// never abort: loads return zero, stores are silently ignored.
type RAM struct {
	name string
	word []uint16
	io   *overlay
}

// New allocates a RAM of the given capacity in words.
func New(name string, capacityWords uint32) *RAM {
	return &RAM{name: name, word: make([]uint16, capacityWords)}
}

// MapIO configures an MMIO overlay at ioBegin, routing addresses greater
// than ioBegin to dev.
func (m *RAM) MapIO(ioBegin uint32, dev IODevice) {
	m.io = &overlay{begin: ioBegin, dev: dev}
}

// Capacity returns the number of words the RAM holds.
func (m *RAM) Capacity() uint32 {
	return uint32(len(m.word))
}

// Name returns the RAM's diagnostic name.
func (m *RAM) Name() string {
	return m.name
}

// LoadW reads a word at the given word address.
func (m *RAM) LoadW(addr uint32) uint16 {
	if m.io != nil && addr > m.io.begin {
		return m.io.dev.MMIOLoad(addr - m.io.begin - 1)
	}
	if addr >= uint32(len(m.word)) {
		return 0
	}
	return m.word[addr]
}

// StoreW writes a word at the given word address.
func (m *RAM) StoreW(addr uint32, value uint16) {
	if m.io != nil && addr > m.io.begin {
		m.io.dev.MMIOStore(addr-m.io.begin-1, value)
		return
	}
	if addr >= uint32(len(m.word)) {
		return
	}
	m.word[addr] = value
}

// LoadB reads a byte at the given byte address. Byte a lives inside word
// a>>1: the low byte if a is even, the high byte if a is odd. The MMIO
// overlay, when mapped, is checked against the byte address directly so
// that adjacent byte addresses (e.g. 0xf000 and 0xf001) land on distinct
// device offsets rather than collapsing onto one shared word slot.
func (m *RAM) LoadB(addr uint32) uint8 {
	if m.io != nil && addr > m.io.begin {
		return uint8(m.io.dev.MMIOLoad(addr - m.io.begin - 1))
	}
	w := m.rawWord(addr >> 1)
	if addr&1 != 0 {
		return uint8(w >> 8)
	}
	return uint8(w)
}

// StoreB writes a byte at the given byte address, preserving the
// untouched half of the containing word.
func (m *RAM) StoreB(addr uint32, value uint8) {
	if m.io != nil && addr > m.io.begin {
		m.io.dev.MMIOStore(addr-m.io.begin-1, uint16(value))
		return
	}
	w := m.rawWord(addr >> 1)
	if addr&1 != 0 {
		w = (w & 0x00ff) | (uint16(value) << 8)
	} else {
		w = (w & 0xff00) | uint16(value)
	}
	m.setRawWord(addr>>1, w)
}

// rawWord and setRawWord access the underlying word buffer without
// consulting the MMIO overlay; LoadB/StoreB use them after having
// already made their own overlay routing decision at byte granularity.
func (m *RAM) rawWord(addr uint32) uint16 {
	if addr >= uint32(len(m.word)) {
		return 0
	}
	return m.word[addr]
}

func (m *RAM) setRawWord(addr uint32, value uint16) {
	if addr >= uint32(len(m.word)) {
		return
	}
	m.word[addr] = value
}
