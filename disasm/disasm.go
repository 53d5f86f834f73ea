/*
 * mpce - Disassembler
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

// Package disasm renders mpce instruction words as text, independent of
// the execution engine in package cpu. It only decodes: it never traps,
// translates addresses, or touches CPU state.
package disasm

import (
	"fmt"

	"github.com/mylez/mpce/cpu"
)

// operand shapes a mnemonic's register operands are printed with. The
// instruction word always carries reg_x/reg_y/reg_z in bits 2..0, 5..3,
// 8..6 regardless of opcode, but not every instruction uses all three.
const (
	shapeNone = iota
	shapeXYZ
	shapeX
	shapeYZ
)

type opcodeInfo struct {
	mnemonic string
	shape    int
	hasImm   bool
}

var table [128]opcodeInfo

func reg(idx uint8) string {
	switch idx {
	case 0:
		return "r0"
	case 1:
		return "r1"
	case 2:
		return "r2"
	case 3:
		return "r3"
	case 4:
		return "fp"
	case 5:
		return "sp"
	case 6:
		return "pc"
	case 7:
		return "imm"
	default:
		return "?"
	}
}

func entry(opcode uint16, mnemonic string, shape int, hasImm bool) {
	table[opcode>>1] = opcodeInfo{mnemonic: mnemonic, shape: shape, hasImm: hasImm}
}

func init() {
	table[0] = opcodeInfo{mnemonic: "noop", shape: shapeNone}

	alu := func(opcode uint16, mnemonic string, hasImm bool) {
		entry(opcode, mnemonic, shapeXYZ, hasImm)
	}

	alu(cpu.OpXor, "xor", false)
	alu(cpu.OpSub, "sub", false)
	alu(cpu.OpSubCarry, "subc", false)
	alu(cpu.OpAnd, "and", false)
	alu(cpu.OpOr, "or", false)
	alu(cpu.OpAdd, "add", false)
	alu(cpu.OpAddCarry, "addc", false)
	alu(cpu.OpXorImm, "xori", true)
	alu(cpu.OpSubImm, "subi", true)
	alu(cpu.OpAndImm, "andi", true)
	alu(cpu.OpOrImm, "ori", true)
	alu(cpu.OpAddImm, "addi", true)
	alu(cpu.OpAddToggle, "addi.m", true)

	alu(cpu.OpAddIfZero, "add.z", false)
	alu(cpu.OpAddIfZeroImm, "addi.z", true)
	alu(cpu.OpAddIfNotZero, "add.nz", false)
	alu(cpu.OpAddIfNotZeroImm, "addi.nz", true)
	alu(cpu.OpAddIfNeg, "add.n", false)
	alu(cpu.OpAddIfNegImm, "addi.n", true)
	alu(cpu.OpAddIfNotNegZero, "add.p", false)
	alu(cpu.OpAddIfNNZImm, "addi.p", true)
	alu(cpu.OpAddIfCarry, "add.c", false)
	alu(cpu.OpAddIfCarryImm, "addi.c", true)
	alu(cpu.OpAddIfOverflow, "add.v", false)
	alu(cpu.OpAddIfOvImm, "addi.v", true)

	entry(cpu.OpATS, "ats", shapeXYZ, true)

	mem := func(opcode uint16, mnemonic string, hasImm bool) {
		entry(opcode, mnemonic, shapeXYZ, hasImm)
	}

	mem(cpu.OpKernByteStore, "sb.k", false)
	mem(cpu.OpKernByteStoreImm, "sbi.k", true)
	mem(cpu.OpKernByteLoadU, "lbu.k", false)
	mem(cpu.OpKernByteLoadUImm, "lbui.k", true)
	mem(cpu.OpKernByteLoadS, "lbs.k", false)
	mem(cpu.OpKernByteLoadSImm, "lbsi.k", true)

	mem(cpu.OpKernDataWordStore, "sw.k", false)
	mem(cpu.OpKernDataWordStoreI, "swi.k", true)
	mem(cpu.OpKernDataWordLoad, "lw.k", false)
	mem(cpu.OpKernDataWordLoadI, "lwi.k", true)

	mem(cpu.OpKernCodeWordStore, "swc.k", false)
	mem(cpu.OpKernCodeWordStoreI, "swci.k", true)
	mem(cpu.OpKernCodeWordLoad, "lwc.k", false)
	mem(cpu.OpKernCodeWordLoadI, "lwci.k", true)

	mem(cpu.OpUserByteStore, "sb.u", false)
	mem(cpu.OpUserByteStoreImm, "sbi.u", true)
	mem(cpu.OpUserByteLoadU, "lbu.u", false)
	mem(cpu.OpUserByteLoadUImm, "lbui.u", true)
	mem(cpu.OpUserByteLoadS, "lbs.u", false)
	mem(cpu.OpUserByteLoadSImm, "lbsi.u", true)

	mem(cpu.OpUserDataWordStore, "sw.u", false)
	mem(cpu.OpUserDataWordStoreI, "swi.u", true)
	mem(cpu.OpUserDataWordLoad, "lw.u", false)
	mem(cpu.OpUserDataWordLoadI, "lwi.u", true)

	mem(cpu.OpUserCodeWordStore, "swc.u", false)
	mem(cpu.OpUserCodeWordStoreI, "swci.u", true)
	mem(cpu.OpUserCodeWordLoad, "lwc.u", false)
	mem(cpu.OpUserCodeWordLoadI, "lwci.u", true)

	entry(cpu.OpReadStatus, "rd.status", shapeX, false)
	entry(cpu.OpReadCause, "rd.cause", shapeX, false)
	entry(cpu.OpReadExcAddr, "rd.exc_addr", shapeX, false)
	entry(cpu.OpReadEret, "rd.eret", shapeX, false)
	entry(cpu.OpReadEretToggle, "rd.eret.m", shapeX, false)
	entry(cpu.OpReadEretToggle2, "rd.eret.m", shapeX, false)

	entry(cpu.OpWritePTB, "wr.ptb", shapeYZ, false)
	entry(cpu.OpWriteTimer, "wr.timer", shapeYZ, true)
	entry(cpu.OpWriteISR, "wr.isr", shapeYZ, false)
	entry(cpu.OpWriteStat, "wr.status", shapeYZ, false)

	entry(cpu.OpSetMode, "set.mode", shapeNone, false)
	entry(cpu.OpStoreCodePTE, "wr.pte.code", shapeXYZ, false)
	entry(cpu.OpStoreDataPTE, "wr.pte.data", shapeXYZ, false)
}

// regSelX/Y/Z mirror the field layout package cpu decodes instructions
// with: bits 8..6 select reg_z, bits 5..3 select reg_y, bits 2..0 select
// reg_x.
func regSelX(inst uint16) uint8 { return uint8(inst & 0x7) }
func regSelY(inst uint16) uint8 { return uint8((inst >> 3) & 0x7) }
func regSelZ(inst uint16) uint8 { return uint8((inst >> 6) & 0x7) }

// Instruction decodes one instruction word (and, when the opcode carries
// an immediate, the following word) into human-readable text. It
// returns the decoded text and the number of words consumed (1 or 2).
// An unmapped opcode slot is rendered as a raw word dump, mirroring how
// the CPU itself traps it as an illegal instruction rather than failing
// to decode.
func Instruction(words []uint16) (string, int) {
	if len(words) == 0 {
		return "", 0
	}

	inst := words[0]
	opcode := uint8(inst >> 9)
	info := table[opcode]

	if info.mnemonic == "" {
		return fmt.Sprintf("dw      %#04x", inst), 1
	}

	text := pad(info.mnemonic)

	switch info.shape {
	case shapeXYZ:
		text += fmt.Sprintf("%s, %s, %s", reg(regSelX(inst)), reg(regSelY(inst)), reg(regSelZ(inst)))
	case shapeX:
		text += reg(regSelX(inst))
	case shapeYZ:
		text += fmt.Sprintf("%s, %s", reg(regSelY(inst)), reg(regSelZ(inst)))
	}

	length := 1
	if info.hasImm {
		length = 2
		if len(words) > 1 {
			text += fmt.Sprintf(" ; imm=%#02x", words[1])
		} else {
			text += " ; imm=?"
		}
	}

	return text, length
}

func pad(mnemonic string) string {
	s := mnemonic + "            "
	return s[:12]
}
