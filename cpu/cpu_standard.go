/*
 * mpce - ALU instruction family
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

// aluDesc parametrizes one instance of the ALU family's op_alu handler.
// sel selects the arithmetic (0 = add, anything else = subtract); this
// mirrors the source's own partially-finished implementation, where the
// XOR/AND/OR opcodes are decoded but never given their own arithmetic:
// the XOR opcodes carry sel 0 and so add, while the SUB, AND, OR and ADD
// opcodes carry non-zero sels and so subtract. cond/invert gate conditional execution;
// toggle flips the privilege mode after a successful op.
type aluDesc struct {
	sel    int
	imm    bool
	cond   uint8
	invert bool
	toggle bool
}

// makeALU returns the dispatch-table handler for one ALU opcode instance.
func makeALU(d aluDesc) func(*CPU) {
	return func(c *CPU) { c.execALU(d) }
}

// execALU implements the ALU family's behavioral contract, reproduced
// faithfully from the source including its unfinished state: every
// variant (named XOR/SUB/AND/OR/ADD alike) actually computes addition
// when sel==0 and subtraction otherwise, and the zero/negative status
// flags are derived from reg_z's input value rather than the computed
// result.
func (c *CPU) execALU(d aluDesc) {
	if c.IsUserMode() && d.toggle {
		c.IRQ.Signal(interrupt.IllInst)
		return
	}

	if d.imm {
		if c.loadInstWord(c.Regs.Get(register.IMM)) {
			return
		}
	}

	status := c.status.Read()
	if (d.cond&status != 0) == d.invert {
		return
	}

	inst := c.inst.Read()
	regX := c.Regs.Get(regSelX(inst))
	yVal := c.Regs.Get(regSelY(inst)).Read()
	zVal := c.Regs.Get(regSelZ(inst)).Read()

	var result uint16
	if d.sel == 0 {
		result = uint16(int16(yVal) + int16(zVal))
	} else {
		result = uint16(int16(yVal) - int16(zVal))
	}
	regX.Write(result)

	st := c.status.Read()
	if zVal == 0 {
		st |= StatusZero
	} else {
		st &^= StatusZero
	}
	if int16(zVal) < 0 {
		st |= StatusNegative
	} else {
		st &^= StatusNegative
	}
	c.status.Write(st)

	if d.toggle {
		c.toggleMode()
	}
}
