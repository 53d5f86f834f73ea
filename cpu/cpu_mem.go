/*
 * mpce - Memory-access instruction family
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

package cpu

import (
	"github.com/mylez/mpce/interrupt"
	"github.com/mylez/mpce/memory"
	"github.com/mylez/mpce/register"
)

// memDesc parametrizes one instance of the op_mem handler. view selects
// which privilege's memory this instruction always targets, independent
// of the CPU's current mode: kernelOnly instructions trap if invoked
// from user mode, while !kernelOnly ("user-view") instructions are
// invokable from either mode, letting kernel code reach into user memory
// directly.
type memDesc struct {
	byteSized  bool
	isData     bool
	isStore    bool
	loadImm    bool
	signExtend bool
	view       bool // true = always targets the user-mode RAMs
	kernelOnly bool
}

func makeMem(d memDesc) func(*CPU) {
	return func(c *CPU) { c.execMem(d) }
}

// execMem implements spec.md §4.7's memory family: a kernel-only trap
// check, an optional immediate fetch, address translation (skipped
// entirely in kernel mode, since kernel code addresses memory
// directly), and the actual load or store against the view fixed by d.
func (c *CPU) execMem(d memDesc) {
	if c.IsUserMode() && d.kernelOnly {
		c.IRQ.Signal(interrupt.IllInst)
		return
	}

	if d.loadImm {
		if c.loadInstWord(c.Regs.Get(register.IMM)) {
			return
		}
	}

	inst := c.inst.Read()
	regX := c.Regs.Get(regSelX(inst))
	yVal := c.Regs.Get(regSelY(inst)).Read()
	zVal := c.Regs.Get(regSelZ(inst)).Read()
	virt := yVal + zVal

	var phys uint32
	if c.IsUserMode() {
		phys = c.MMU.Resolve(virt, c.ptb.Read(), d.isData, d.isStore, c.IRQ)
		if c.IRQ.IsSignalled(interrupt.PGFault, interrupt.ROFault) {
			return
		}
	} else {
		phys = uint32(virt)
	}

	var ram *memory.RAM
	if d.isData {
		ram = c.Fabric.GetData(d.view)
	} else {
		ram = c.Fabric.GetCode(d.view)
	}

	switch {
	case d.isStore && d.byteSized:
		ram.StoreB(phys, uint8(regX.Read()))
	case d.isStore:
		ram.StoreW(phys, regX.Read())
	case d.byteSized:
		b := ram.LoadB(phys)
		if d.signExtend {
			regX.Write(uint16(int16(int8(b))))
		} else {
			regX.Write(uint16(b))
		}
	default:
		regX.Write(ram.LoadW(phys))
	}
}

// execATS implements the atomic test-and-set opcode: it always resolves
// against the user data view regardless of current privilege, loads the
// memory word at y+z into reg_x, and writes imm into that word.
func (c *CPU) execATS() {
	if c.loadInstWord(c.Regs.Get(register.IMM)) {
		return
	}

	inst := c.inst.Read()
	regX := c.Regs.Get(regSelX(inst))
	yVal := c.Regs.Get(regSelY(inst)).Read()
	zVal := c.Regs.Get(regSelZ(inst)).Read()
	virt := yVal + zVal

	phys := c.MMU.Resolve(virt, c.ptb.Read(), true, true, c.IRQ)
	if c.IRQ.IsSignalled(interrupt.PGFault, interrupt.ROFault) {
		return
	}

	old := c.Fabric.UserData.LoadW(phys)
	regX.Write(old)
	c.Fabric.UserData.StoreW(phys, c.Regs.Get(register.IMM).Read())
}
