/*
 * mpce - Privileged instruction family: special registers, mode, MMU
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
	"github.com/mylez/mpce/register"
)

// specReadDesc parametrizes a special-register read (opcodes e0..ea):
// reg_x <- src(cpu), optionally gated to kernel mode and optionally
// preceded by an immediate fetch and followed by a mode toggle.
type specReadDesc struct {
	protected bool
	loadImm   bool
	toggle    bool
	src       func(*CPU) uint16
}

func makeSpecRead(d specReadDesc) func(*CPU) {
	return func(c *CPU) { c.execSpecRead(d) }
}

func (c *CPU) execSpecRead(d specReadDesc) {
	if d.loadImm {
		if c.loadInstWord(c.Regs.Get(register.IMM)) {
			return
		}
	}
	if d.protected && c.IsUserMode() {
		c.IRQ.Signal(interrupt.IllInst)
		return
	}

	inst := c.inst.Read()
	c.Regs.Get(regSelX(inst)).Write(d.src(c))

	if d.toggle {
		c.toggleMode()
	}
}

// specWriteDesc parametrizes a special-register write (opcodes
// f2/f4/f6/f8): dst(cpu, y+z), always kernel-only, optionally preceded
// by an immediate fetch.
type specWriteDesc struct {
	loadImm bool
	dst     func(*CPU, uint16)
}

func makeSpecWrite(d specWriteDesc) func(*CPU) {
	return func(c *CPU) { c.execSpecWrite(d) }
}

func (c *CPU) execSpecWrite(d specWriteDesc) {
	if c.IsUserMode() {
		c.IRQ.Signal(interrupt.IllInst)
		return
	}
	if d.loadImm {
		if c.loadInstWord(c.Regs.Get(register.IMM)) {
			return
		}
	}

	inst := c.inst.Read()
	yVal := c.Regs.Get(regSelY(inst)).Read()
	zVal := c.Regs.Get(regSelZ(inst)).Read()
	d.dst(c, yVal+zVal)
}

// execSetMode implements opcode f0: an unprivileged program cannot drop
// itself into user mode from kernel code by invoking this directly, but
// the opcode itself requires kernel mode to issue (it is how the kernel
// hands control to a user program).
func (c *CPU) execSetMode() {
	if c.IsUserMode() {
		c.IRQ.Signal(interrupt.IllInst)
		return
	}
	c.setMode(true)
}

// makeStorePTE builds the handler for opcodes fa/fc: store reg_x into the code or
// data page table at index y+z. Kernel-only.
func makeStorePTE(isData bool) func(*CPU) {
	return func(c *CPU) {
		if c.IsUserMode() {
			c.IRQ.Signal(interrupt.IllInst)
			return
		}
		inst := c.inst.Read()
		xVal := c.Regs.Get(regSelX(inst)).Read()
		yVal := c.Regs.Get(regSelY(inst)).Read()
		zVal := c.Regs.Get(regSelZ(inst)).Read()
		c.MMU.StoreEntry(isData, yVal+zVal, xVal)
	}
}

// opNoop and opIllegal are the default handlers: opcode 0 always does
// nothing, and any unmapped opcode slot traps.
func opNoop(_ *CPU) {}

func opIllegal(c *CPU) {
	c.IRQ.Signal(interrupt.IllInst)
}
