/*
 * mpce - Memory-mapped I/O address-space fabric
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

// Package mmio routes memory accesses to one of the four architectural
// RAMs (code/data x kernel/user) and fans IRQ notifications out to every
// registered device.
package mmio

import (
	"github.com/mylez/mpce/interrupt"
	"github.com/mylez/mpce/memory"
)

// Memory capacities, per spec.md §3.
const (
	KernCodeWords uint32 = 0x1_0000   // 65,536 words
	KernDataBytes uint32 = 0x1_0000   // 65,536 bytes
	UserCodeWords uint32 = 0x80_0000  // 8,388,608 words
	UserDataBytes uint32 = 0x80_0000  // 8,388,608 bytes
	kernIOBegin   uint32 = 0xefff     // addresses > this land in MMIO
)

// IRQNotifier is implemented by any MMIO device that wants a chance to
// signal an interrupt once per CPU cycle.
type IRQNotifier interface {
	IRQNotify(irq *interrupt.Controller)
}

// Fabric owns the four architectural RAMs and the list of devices wired
// into the kernel data RAM's MMIO overlay.
type Fabric struct {
	KernCode *memory.RAM
	KernData *memory.RAM
	UserCode *memory.RAM
	UserData *memory.RAM

	notifiers []IRQNotifier
}

// New allocates the four RAMs at their architectural sizes. The kernel
// data RAM's MMIO overlay is wired in RegisterDevice.
func New() *Fabric {
	return NewSized(KernCodeWords)
}

// NewSized allocates the four RAMs as New does, except the kernel code
// RAM is capped at kernCodeWords words instead of the full architectural
// KernCodeWords, letting a host configuration shrink the kernel image a
// run will accept without touching the other three regions.
func NewSized(kernCodeWords uint32) *Fabric {
	if kernCodeWords > KernCodeWords {
		kernCodeWords = KernCodeWords
	}
	return &Fabric{
		KernCode: memory.New("kern_code", kernCodeWords),
		KernData: memory.New("kern_data", KernDataBytes),
		UserCode: memory.New("user_code", UserCodeWords),
		UserData: memory.New("user_data", UserDataBytes),
	}
}

// RegisterDevice wires dev into the kernel data RAM's MMIO overlay
// (addresses > 0xefff) and adds it to the IRQ notification fan-out.
func (f *Fabric) RegisterDevice(dev interface {
	memory.IODevice
	IRQNotifier
}) {
	f.KernData.MapIO(kernIOBegin, dev)
	f.notifiers = append(f.notifiers, dev)
}

// GetCode returns the code RAM for the given privilege mode.
func (f *Fabric) GetCode(isUser bool) *memory.RAM {
	if isUser {
		return f.UserCode
	}
	return f.KernCode
}

// GetData returns the data RAM for the given privilege mode.
func (f *Fabric) GetData(isUser bool) *memory.RAM {
	if isUser {
		return f.UserData
	}
	return f.KernData
}

// IRQNotify calls every registered device's notifier in turn.
func (f *Fabric) IRQNotify(irq *interrupt.Controller) {
	for _, n := range f.notifiers {
		n.IRQNotify(irq)
	}
}
