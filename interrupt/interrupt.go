/*
 * mpce - Interrupt controller
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

// Package interrupt implements the thread-safe pending-signal set that
// arbitrates priority between mpce's synchronous faults and asynchronous
// device IRQs.
package interrupt

import "sync"

// Signal identifies one architectural interrupt or fault source.
type Signal int

// The complete interrupt signal set.
const (
	IRQ0 Signal = iota
	IRQ1
	IRQ2
	IRQ3
	TimeOut
	ROFault
	PGFault
	IllInst
)

// priority orders the synchronous exceptions from lowest to highest
// priority; it is the nibble written into cause() bits 4..7. IRQs never
// appear here: they each get their own bit in the low nibble regardless
// of priority.
var priority = [...]Signal{TimeOut, ROFault, PGFault, IllInst}

// Controller holds the set of currently pending signals, guarded by a
// mutex because it is mutated both by the CPU (Signal, Clear, Cause) and
// by device IRQNotify calls, which are safe to make from any goroutine.
type Controller struct {
	mu      sync.Mutex
	pending map[Signal]struct{}
}

// New creates an empty interrupt controller.
func New() *Controller {
	return &Controller{pending: make(map[Signal]struct{})}
}

// Signal marks s as pending.
func (c *Controller) Signal(s Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[s] = struct{}{}
}

// IsSignalled reports whether any signal in signals is pending.
func (c *Controller) IsSignalled(signals ...Signal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range signals {
		if _, ok := c.pending[s]; ok {
			return true
		}
	}
	return false
}

// Clear empties the pending set.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.pending)
}

// Cause encodes the pending set as a cause byte: bits 0..3 are the
// respective IRQ0..IRQ3 pending flags; bits 4..7 are the priority code
// of the highest-priority pending exception (1 = TimeOut .. 4 = IllInst,
// 0 if none pending). IRQ bits and the exception nibble are independent:
// an IRQ may be pending alongside an exception.
func (c *Controller) Cause() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b uint8

	for bit, irq := range [...]Signal{IRQ0, IRQ1, IRQ2, IRQ3} {
		if _, ok := c.pending[irq]; ok {
			b |= 1 << uint(bit)
		}
	}

	var code uint8
	for i, s := range priority {
		if _, ok := c.pending[s]; ok {
			code = uint8(i + 1)
		}
	}
	b |= code << 4

	return b
}
