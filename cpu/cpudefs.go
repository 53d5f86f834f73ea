/*
 * mpce - Opcode dispatch table
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

// Opcode byte constants for the instructions spec.md §4.7 names
// explicitly. Every opcode is a 7-bit value occupying bits 15..9 of the
// instruction word; the table is indexed by that 7-bit value. The
// constants below are given as the instruction word's top byte, whose
// seven high bits are the opcode and whose low bit is zero (an
// instruction word is constant<<8 | z<<6 | y<<3 | x), so buildOpcodeTable
// shifts each constant down by 1 before indexing, matching the raw byte
// values used in spec.md's examples (0xb4, 0x6c, 0xe0, ...).
const (
	OpXor       = 0x22
	OpSub       = 0x24
	OpSubCarry  = 0xc4
	OpAnd       = 0x26
	OpOr        = 0x2a
	OpAdd       = 0x2c
	OpAddCarry  = 0xcc
	OpXorImm    = 0x32
	OpSubImm    = 0x34
	OpAndImm    = 0x36
	OpOrImm     = 0x3a
	OpAddImm    = 0x3c
	OpAddToggle = 0xec

	OpAddIfZero       = 0x20
	OpAddIfZeroImm    = 0x30
	OpAddIfNotZero    = 0x40
	OpAddIfNotZeroImm = 0x50
	OpAddIfNeg        = 0x60
	OpAddIfNegImm     = 0x70
	OpAddIfNotNegZero = 0x80
	OpAddIfNNZImm     = 0x90
	OpAddIfCarry      = 0xa0
	OpAddIfCarryImm   = 0xb0
	OpAddIfOverflow   = 0xc0
	OpAddIfOvImm      = 0xd0

	OpATS = 0x6c

	OpKernByteStore       = 0xb2
	OpKernByteStoreImm    = 0xb4
	OpKernByteLoadU       = 0xb6
	OpKernByteLoadUImm    = 0xb8
	OpKernByteLoadS       = 0xba
	OpKernByteLoadSImm    = 0xbc
	OpKernDataWordStore   = 0x42
	OpKernDataWordStoreI  = 0x44
	OpKernDataWordLoad    = 0x46
	OpKernDataWordLoadI   = 0x48
	OpKernCodeWordStore   = 0x4a
	OpKernCodeWordStoreI  = 0x4c
	OpKernCodeWordLoad    = 0x4e
	OpKernCodeWordLoadI   = 0x6e

	OpUserByteStore      = 0x72
	OpUserByteStoreImm   = 0x74
	OpUserByteLoadU      = 0x76
	OpUserByteLoadUImm   = 0x78
	OpUserByteLoadS      = 0x7a
	OpUserByteLoadSImm   = 0x7c
	OpUserDataWordStore  = 0x7e
	OpUserDataWordStoreI = 0x82
	OpUserDataWordLoad   = 0x84
	OpUserDataWordLoadI  = 0x86
	OpUserCodeWordStore  = 0x88
	OpUserCodeWordStoreI = 0x8a
	OpUserCodeWordLoad   = 0x8c
	OpUserCodeWordLoadI  = 0x8e

	OpReadStatus      = 0xe0
	OpReadCause       = 0xe2
	OpReadExcAddr     = 0xe4
	OpReadEret        = 0xe6
	OpReadEretToggle  = 0xe8
	OpReadEretToggle2 = 0xea

	OpSetMode = 0xf0

	OpWritePTB   = 0xf2
	OpWriteTimer = 0xf4
	OpWriteISR   = 0xf6
	OpWriteStat  = 0xf8

	OpStoreCodePTE = 0xfa
	OpStoreDataPTE = 0xfc
)

// buildOpcodeTable populates c.table with a handler for every opcode
// spec.md §4.7 names; opcode 0 is the architectural no-op, and every
// slot not assigned here traps illegal instruction.
func (c *CPU) buildOpcodeTable() {
	for i := range c.table {
		c.table[i] = opEntry{mnemonic: "illegal", handler: opIllegal}
	}
	c.table[0] = opEntry{mnemonic: "noop", handler: opNoop}

	alu := func(opcode uint16, mnemonic string, d aluDesc) {
		c.table[opcode>>1] = opEntry{mnemonic: mnemonic, handler: makeALU(d)}
	}

	// The unconditional forms use cond=0, invert=true so the gate
	// formula (skip iff bool(cond&status) == invert) never skips:
	// bool(0 & status) is always false, and false == true is always
	// false, so execution always proceeds.
	alu(OpXor, "xor", aluDesc{sel: 0, invert: true})
	alu(OpSub, "sub", aluDesc{sel: 1, invert: true})
	alu(OpSubCarry, "subc", aluDesc{sel: 1, invert: true})
	alu(OpAnd, "and", aluDesc{sel: 2, invert: true})
	alu(OpOr, "or", aluDesc{sel: 3, invert: true})
	alu(OpAdd, "add", aluDesc{sel: 4, invert: true})
	alu(OpAddCarry, "addc", aluDesc{sel: 4, invert: true})
	alu(OpXorImm, "xori", aluDesc{sel: 0, imm: true, invert: true})
	alu(OpSubImm, "subi", aluDesc{sel: 1, imm: true, invert: true})
	alu(OpAndImm, "andi", aluDesc{sel: 2, imm: true, invert: true})
	alu(OpOrImm, "ori", aluDesc{sel: 3, imm: true, invert: true})
	alu(OpAddImm, "addi", aluDesc{sel: 4, imm: true, invert: true})
	alu(OpAddToggle, "addi.m", aluDesc{sel: 4, imm: true, invert: true, toggle: true})

	alu(OpAddIfZero, "add.z", aluDesc{sel: 4, cond: StatusZero})
	alu(OpAddIfZeroImm, "addi.z", aluDesc{sel: 4, cond: StatusZero, imm: true})
	alu(OpAddIfNotZero, "add.nz", aluDesc{sel: 4, cond: StatusZero, invert: true})
	alu(OpAddIfNotZeroImm, "addi.nz", aluDesc{sel: 4, cond: StatusZero, invert: true, imm: true})
	alu(OpAddIfNeg, "add.n", aluDesc{sel: 4, cond: StatusNegative})
	alu(OpAddIfNegImm, "addi.n", aluDesc{sel: 4, cond: StatusNegative, imm: true})
	alu(OpAddIfNotNegZero, "add.p", aluDesc{sel: 4, cond: StatusNegative | StatusZero, invert: true})
	alu(OpAddIfNNZImm, "addi.p", aluDesc{sel: 4, cond: StatusNegative | StatusZero, invert: true, imm: true})
	alu(OpAddIfCarry, "add.c", aluDesc{sel: 4, cond: StatusCarry})
	alu(OpAddIfCarryImm, "addi.c", aluDesc{sel: 4, cond: StatusCarry, imm: true})
	alu(OpAddIfOverflow, "add.v", aluDesc{sel: 4, cond: StatusOverflow})
	alu(OpAddIfOvImm, "addi.v", aluDesc{sel: 4, cond: StatusOverflow, imm: true})

	c.table[OpATS>>1] = opEntry{mnemonic: "ats", handler: (*CPU).execATS}

	mem := func(opcode uint16, mnemonic string, d memDesc) {
		c.table[opcode>>1] = opEntry{mnemonic: mnemonic, handler: makeMem(d)}
	}

	mem(OpKernByteStore, "sb.k", memDesc{byteSized: true, isData: true, isStore: true, kernelOnly: true})
	mem(OpKernByteStoreImm, "sbi.k", memDesc{byteSized: true, isData: true, isStore: true, loadImm: true, kernelOnly: true})
	mem(OpKernByteLoadU, "lbu.k", memDesc{byteSized: true, isData: true, kernelOnly: true})
	mem(OpKernByteLoadUImm, "lbui.k", memDesc{byteSized: true, isData: true, loadImm: true, kernelOnly: true})
	mem(OpKernByteLoadS, "lbs.k", memDesc{byteSized: true, isData: true, signExtend: true, kernelOnly: true})
	mem(OpKernByteLoadSImm, "lbsi.k", memDesc{byteSized: true, isData: true, signExtend: true, loadImm: true, kernelOnly: true})

	mem(OpKernDataWordStore, "sw.k", memDesc{isData: true, isStore: true, kernelOnly: true})
	mem(OpKernDataWordStoreI, "swi.k", memDesc{isData: true, isStore: true, loadImm: true, kernelOnly: true})
	mem(OpKernDataWordLoad, "lw.k", memDesc{isData: true, kernelOnly: true})
	mem(OpKernDataWordLoadI, "lwi.k", memDesc{isData: true, loadImm: true, kernelOnly: true})

	mem(OpKernCodeWordStore, "swc.k", memDesc{isData: false, isStore: true, kernelOnly: true})
	mem(OpKernCodeWordStoreI, "swci.k", memDesc{isData: false, isStore: true, loadImm: true, kernelOnly: true})
	mem(OpKernCodeWordLoad, "lwc.k", memDesc{isData: false, kernelOnly: true})
	mem(OpKernCodeWordLoadI, "lwci.k", memDesc{isData: false, loadImm: true, kernelOnly: true})

	mem(OpUserByteStore, "sb.u", memDesc{byteSized: true, isData: true, isStore: true, view: true})
	mem(OpUserByteStoreImm, "sbi.u", memDesc{byteSized: true, isData: true, isStore: true, loadImm: true, view: true})
	mem(OpUserByteLoadU, "lbu.u", memDesc{byteSized: true, isData: true, view: true})
	mem(OpUserByteLoadUImm, "lbui.u", memDesc{byteSized: true, isData: true, loadImm: true, view: true})
	mem(OpUserByteLoadS, "lbs.u", memDesc{byteSized: true, isData: true, signExtend: true, view: true})
	mem(OpUserByteLoadSImm, "lbsi.u", memDesc{byteSized: true, isData: true, signExtend: true, loadImm: true, view: true})

	mem(OpUserDataWordStore, "sw.u", memDesc{isData: true, isStore: true, view: true})
	mem(OpUserDataWordStoreI, "swi.u", memDesc{isData: true, isStore: true, loadImm: true, view: true})
	mem(OpUserDataWordLoad, "lw.u", memDesc{isData: true, view: true})
	mem(OpUserDataWordLoadI, "lwi.u", memDesc{isData: true, loadImm: true, view: true})

	mem(OpUserCodeWordStore, "swc.u", memDesc{isData: false, isStore: true, view: true})
	mem(OpUserCodeWordStoreI, "swci.u", memDesc{isData: false, isStore: true, loadImm: true, view: true})
	mem(OpUserCodeWordLoad, "lwc.u", memDesc{isData: false, view: true})
	mem(OpUserCodeWordLoadI, "lwci.u", memDesc{isData: false, loadImm: true, view: true})

	read := func(opcode uint16, mnemonic string, d specReadDesc) {
		c.table[opcode>>1] = opEntry{mnemonic: mnemonic, handler: makeSpecRead(d)}
	}

	read(OpReadStatus, "rd.status", specReadDesc{protected: true, src: func(c *CPU) uint16 { return uint16(c.status.Read()) }})
	read(OpReadCause, "rd.cause", specReadDesc{protected: true, src: func(c *CPU) uint16 { return uint16(c.cause.Read()) }})
	read(OpReadExcAddr, "rd.exc_addr", specReadDesc{protected: true, src: func(c *CPU) uint16 { return c.excAddr.Read() }})
	read(OpReadEret, "rd.eret", specReadDesc{protected: true, src: func(c *CPU) uint16 { return c.eret.Read() }})
	read(OpReadEretToggle, "rd.eret.m", specReadDesc{protected: true, toggle: true, src: func(c *CPU) uint16 { return c.eret.Read() }})
	read(OpReadEretToggle2, "rd.eret.m", specReadDesc{protected: true, toggle: true, src: func(c *CPU) uint16 { return c.eret.Read() }})

	write := func(opcode uint16, mnemonic string, d specWriteDesc) {
		c.table[opcode>>1] = opEntry{mnemonic: mnemonic, handler: makeSpecWrite(d)}
	}

	write(OpWritePTB, "wr.ptb", specWriteDesc{dst: func(c *CPU, v uint16) { c.ptb.Write(v) }})
	write(OpWriteTimer, "wr.timer", specWriteDesc{loadImm: true, dst: func(c *CPU, v uint16) { c.timer.Write(v) }})
	write(OpWriteISR, "wr.isr", specWriteDesc{dst: func(c *CPU, v uint16) { c.isr.Write(v) }})
	write(OpWriteStat, "wr.status", specWriteDesc{dst: func(c *CPU, v uint16) { c.status.Write(uint8(v)) }})

	c.table[OpSetMode>>1] = opEntry{mnemonic: "set.mode", handler: (*CPU).execSetMode}
	c.table[OpStoreCodePTE>>1] = opEntry{mnemonic: "wr.pte.code", handler: makeStorePTE(false)}
	c.table[OpStoreDataPTE>>1] = opEntry{mnemonic: "wr.pte.data", handler: makeStorePTE(true)}
}
