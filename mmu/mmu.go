/*
 * mpce - Memory management unit
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

// Package mmu implements mpce's page-table walker: translation from a
// 16-bit virtual address to a 32-bit physical address, with page-fault
// and read-only-fault signaling.
package mmu

import (
	"github.com/mylez/mpce/interrupt"
	"github.com/mylez/mpce/memory"
)

// Page table entry field masks.
const (
	peteFrameMask uint16 = 0x1fff
	pteReadOnly   uint16 = 0x4000
	pteUnmapped   uint16 = 0x8000
)

// pageTableEntries is the number of word-addressable slots in each page
// table (one per (ptb, page number) pair).
const pageTableEntries = 0x1_0000

// MMU owns the code and data page tables and translates virtual
// addresses on behalf of the CPU.
type MMU struct {
	codeTable *memory.RAM
	dataTable *memory.RAM
}

// New allocates an MMU with empty (all-zero, i.e. fully unmapped would
// require bit 15 set; zero entries map frame 0 read-write) page tables.
func New() *MMU {
	return &MMU{
		codeTable: memory.New("page_table_code", pageTableEntries),
		dataTable: memory.New("page_table_data", pageTableEntries),
	}
}

// table returns the code or data page table.
func (m *MMU) table(isData bool) *memory.RAM {
	if isData {
		return m.dataTable
	}
	return m.codeTable
}

// Resolve translates virt to a physical address, using ptb as the
// current page-table base. It signals PGFault on an unmapped PTE and
// ROFault on a read-only PTE being written. Faults do not abort
// resolution; the computed physical address is still returned and the
// caller must check interrupt.IsSignalled(PGFault, ROFault) afterward.
func (m *MMU) Resolve(virt uint16, ptb uint16, isData bool, isWrite bool, irq *interrupt.Controller) uint32 {
	pageNum := uint32(virt>>9) & 0x7f
	offset := uint32(virt) & 0x1ff

	index := (uint32(ptb) << 7) | pageNum
	pte := m.table(isData).LoadW(index)

	if pte&pteUnmapped != 0 {
		irq.Signal(interrupt.PGFault)
	}
	if pte&pteReadOnly != 0 && isWrite {
		irq.Signal(interrupt.ROFault)
	}

	return (uint32(pte&peteFrameMask) << 14) | (offset & 0x1ff)
}

// StoreEntry writes a page table entry. Used by the CPU's store-PTE
// opcodes (kernel-only).
func (m *MMU) StoreEntry(isData bool, addr uint16, entry uint16) {
	m.table(isData).StoreW(uint32(addr), entry)
}

// LoadEntry reads a page table entry, e.g. for diagnostics or tests.
func (m *MMU) LoadEntry(isData bool, addr uint16) uint16 {
	return m.table(isData).LoadW(uint32(addr))
}
