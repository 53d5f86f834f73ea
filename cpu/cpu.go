/*
 * mpce - CPU core: fetch/decode/dispatch and the special-register file
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

// Package cpu implements mpce's instruction execution engine: the
// fetch/decode/dispatch loop, per-instruction micro-semantics, and the
// interrupt-driven context switch between user and kernel mode.
package cpu

import (
	"github.com/mylez/mpce/interrupt"
	"github.com/mylez/mpce/mmio"
	"github.com/mylez/mpce/mmu"
	"github.com/mylez/mpce/register"
)

// Status register bit masks. NEGATIVE and the user-mode bit share bit 3,
// and CARRY and OVERFLOW share bit 1, exactly as spec.md §4.7/§9 document
// them being carried over from the source; this is a preserved hazard,
// not a defect to silently fix.
const (
	statusUser     uint8 = 0x08
	StatusNegative uint8 = 0x08
	StatusZero     uint8 = 0x04
	StatusCarry    uint8 = 0x02
	StatusOverflow uint8 = 0x02
)

const opcodeMapSize = 0x80

// opEntry pairs a decoded opcode with the handler implementing it and a
// mnemonic for it (package disasm keeps its own mnemonic table and does
// not read this one); unmapped slots default to the illegal-instruction
// handler.
type opEntry struct {
	mnemonic string
	handler  func(*CPU)
}

// CPU holds all architectural state: the general register file, the
// special registers, the MMU, the MMIO fabric, and the interrupt
// controller. It is driven one instruction at a time by Cycle, called
// from a host loop; CPU itself never spawns goroutines.
type CPU struct {
	Regs *register.File

	status  *register.Byte
	cause   *register.Byte
	eret    *register.Word
	context *register.Word
	timer   *register.Word
	isr     *register.Word
	ptb     *register.Word
	excAddr *register.Word
	inst    *register.Word
	mode    *register.Byte

	MMU    *mmu.MMU
	Fabric *mmio.Fabric
	IRQ    *interrupt.Controller

	table [opcodeMapSize]opEntry
}

// New builds a CPU wired to the given MMIO fabric and interrupt
// controller, with its own MMU and the opcode dispatch table fully
// populated.
func New(fabric *mmio.Fabric, irq *interrupt.Controller) *CPU {
	c := &CPU{
		Regs:    register.NewFile(),
		status:  register.NewByte("status", 0xf0),
		cause:   register.NewByte("cause", 0),
		eret:    register.NewWord("eret", 0),
		context: register.NewWord("context", 0),
		timer:   register.NewWord("timer", 0),
		isr:     register.NewWord("isr", 0),
		ptb:     register.NewWord("ptb", 0),
		excAddr: register.NewWord("exc_addr", 0),
		inst:    register.NewWord("inst", 0),
		mode:    register.NewByte("mode", 0xfe),
		MMU:     mmu.New(),
		Fabric:  fabric,
		IRQ:     irq,
	}
	c.buildOpcodeTable()
	return c
}

// Status, Cause, Eret, Context, Timer, ISR, PTB, ExcAddr, Inst, and Mode
// expose the special registers to host drivers, the disassembler, and
// tests. Cycle is the only writer of these during normal operation.
func (c *CPU) Status() *register.Byte  { return c.status }
func (c *CPU) Cause() *register.Byte   { return c.cause }
func (c *CPU) Eret() *register.Word    { return c.eret }
func (c *CPU) Context() *register.Word { return c.context }
func (c *CPU) Timer() *register.Word   { return c.timer }
func (c *CPU) ISR() *register.Word     { return c.isr }
func (c *CPU) PTB() *register.Word     { return c.ptb }
func (c *CPU) ExcAddr() *register.Word { return c.excAddr }
func (c *CPU) Inst() *register.Word    { return c.inst }
func (c *CPU) Mode() *register.Byte    { return c.mode }

// IsUserMode reports the current privilege level, tracked by status bit 3.
func (c *CPU) IsUserMode() bool {
	return c.status.Read()&statusUser != 0
}

// setMode sets the privilege level, keeping the status register's user
// bit and the mode register's mirror bit in lock-step, per the invariant
// in spec.md §3.
func (c *CPU) setMode(isUser bool) {
	st := c.status.Read()
	if isUser {
		st |= statusUser
		c.mode.Write(1)
	} else {
		st &^= statusUser
		c.mode.Write(0)
	}
	c.status.Write(st)
}

// toggleMode flips the current privilege level.
func (c *CPU) toggleMode() {
	c.setMode(!c.IsUserMode())
}

// Cycle executes exactly one instruction, following the per-cycle
// protocol of spec.md §4.7: interrupts are observed at three points
// (pre-fetch, post-fetch fault, and post-execute), all gated on user
// mode; kernel-mode interrupt suppression is intentional.
func (c *CPU) Cycle() {
	userAtStart := c.IsUserMode()

	if userAtStart {
		c.Fabric.IRQNotify(c.IRQ)
		if c.IRQ.IsSignalled(interrupt.IRQ0, interrupt.IRQ1, interrupt.IRQ2, interrupt.IRQ3, interrupt.TimeOut) {
			c.contextSwitch()
			return
		}
	}

	if faulted := c.loadInstWord(c.inst); faulted && userAtStart {
		c.contextSwitch()
		return
	}

	if userAtStart {
		c.IRQ.Clear()
		c.eret.Write(c.Regs.Get(register.PC).Read())
	}

	opcode := (c.inst.Read() >> 9) & 0x7f
	c.table[opcode].handler(c)

	if userAtStart {
		c.Fabric.IRQNotify(c.IRQ)
		if c.IRQ.IsSignalled(
			interrupt.IRQ0, interrupt.IRQ1, interrupt.IRQ2, interrupt.IRQ3,
			interrupt.TimeOut, interrupt.PGFault, interrupt.ROFault, interrupt.IllInst,
		) {
			c.contextSwitch()
		}
	}
}

// loadInstWord fetches the word at the current PC (translated through
// the MMU in user mode) into dest, advances PC, and records exc_addr in
// user mode. It returns true if the fetch page-faulted in user mode, in
// which case PC is left unadvanced and dest is left untouched.
func (c *CPU) loadInstWord(dest *register.Word) bool {
	userMode := c.IsUserMode()
	pcAddr := c.Regs.Get(register.PC).Read()

	var phys uint32
	if userMode {
		phys = c.MMU.Resolve(pcAddr, c.ptb.Read(), false, false, c.IRQ)
		if c.IRQ.IsSignalled(interrupt.PGFault) {
			return true
		}
	} else {
		phys = uint32(pcAddr)
	}

	word := c.Fabric.GetCode(userMode).LoadW(phys)

	c.Regs.Get(register.PC).Write(pcAddr + 1)
	if userMode {
		c.excAddr.Write(pcAddr)
	}
	dest.Write(word)

	return false
}

// contextSwitch performs the interrupt-driven transfer to the ISR
// vector: cause is latched from the interrupt controller, IMM is handed
// to the ISR as scratch via context, PC jumps to isr, and mode drops to
// kernel.
func (c *CPU) contextSwitch() {
	c.cause.Write(c.IRQ.Cause())
	c.context.Write(c.Regs.Get(register.IMM).Read())
	c.Regs.Get(register.PC).Write(c.isr.Read())
	c.setMode(false)
}

func regSelX(inst uint16) uint8 { return uint8(inst & 0x7) }
func regSelY(inst uint16) uint8 { return uint8((inst >> 3) & 0x7) }
func regSelZ(inst uint16) uint8 { return uint8((inst >> 6) & 0x7) }
