/*
 * mpce - Serial console I/O device
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

// Package serial implements mpce's serial console device: two
// independent byte queues driven by worker goroutines that exchange
// bytes with a host input/output stream, exposed to the CPU through the
// MMIO offsets documented in spec.md §4.4.
package serial

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mylez/mpce/interrupt"
)

// MMIO offsets within the serial device's overlay window.
const (
	OffsetData   uint32 = 0x00 // read: pop in; write: push out
	OffsetStatus uint32 = 0x01 // read: 1 if in queue non-empty, else 0
)

const sleepDuration = 5 * time.Millisecond

// Device is the serial console: an input queue fed from a host reader,
// an output queue drained to a host writer, and the two worker
// goroutines that move bytes between the queues and the host streams.
type Device struct {
	inMu  sync.Mutex
	in    []uint8
	outMu sync.Mutex
	out   []uint8

	running atomic.Bool
	wg      sync.WaitGroup

	reader *bufio.Reader
	writer io.Writer
}

// New creates a serial device reading from r and writing to w. r is read
// a single byte at a time, without skipping whitespace, matching the
// spec's noskipws byte stream.
func New(r io.Reader, w io.Writer) *Device {
	return &Device{reader: bufio.NewReader(r), writer: w}
}

// MMIOLoad implements memory.IODevice for the serial device's two
// readable offsets.
func (d *Device) MMIOLoad(offset uint32) uint16 {
	switch offset {
	case OffsetData:
		return uint16(d.popIn())
	case OffsetStatus:
		if d.inNonEmpty() {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// MMIOStore implements memory.IODevice for the serial device's single
// writable offset.
func (d *Device) MMIOStore(offset uint32, value uint16) {
	if offset == OffsetData {
		d.pushOut(uint8(value))
	}
}

// IRQNotify signals IRQ1 on irq if the input queue is non-empty.
func (d *Device) IRQNotify(irq *interrupt.Controller) {
	if d.inNonEmpty() {
		irq.Signal(interrupt.IRQ1)
	}
}

func (d *Device) popIn() uint8 {
	d.inMu.Lock()
	defer d.inMu.Unlock()
	if len(d.in) == 0 {
		return 0
	}
	b := d.in[0]
	d.in = d.in[1:]
	return b
}

func (d *Device) pushIn(b uint8) {
	d.inMu.Lock()
	defer d.inMu.Unlock()
	d.in = append(d.in, b)
}

func (d *Device) inNonEmpty() bool {
	d.inMu.Lock()
	defer d.inMu.Unlock()
	return len(d.in) > 0
}

// PopOut removes and returns the front byte of the output queue. It is
// exported for hosts (and tests) that want to drain output without
// running the console worker goroutines, e.g. a non-interactive harness.
func (d *Device) PopOut() (uint8, bool) {
	return d.popOut()
}

func (d *Device) popOut() (uint8, bool) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	if len(d.out) == 0 {
		return 0, false
	}
	b := d.out[0]
	d.out = d.out[1:]
	return b, true
}

func (d *Device) pushOut(b uint8) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	d.out = append(d.out, b)
}

// StartConsole launches the input and output worker goroutines.
func (d *Device) StartConsole() {
	d.running.Store(true)
	d.wg.Add(2)
	go d.loopIn()
	go d.loopOut()
}

// StopConsole requests both worker goroutines to exit on their next
// iteration.
func (d *Device) StopConsole() {
	d.running.Store(false)
}

// JoinConsole blocks until both worker goroutines have exited.
func (d *Device) JoinConsole() {
	d.wg.Wait()
}

// loopIn reads bytes from the host reader, without skipping whitespace,
// and appends each to the input queue; reading the ASCII byte 'Q' stops
// the console. It sleeps sleepDuration between iterations and never
// holds inMu across the blocking read.
func (d *Device) loopIn() {
	defer d.wg.Done()
	for d.running.Load() {
		b, err := d.reader.ReadByte()
		if err != nil {
			d.running.Store(false)
			return
		}

		d.pushIn(b)

		if b == 'Q' {
			d.running.Store(false)
		}

		time.Sleep(sleepDuration)
	}
}

// loopOut pops one byte from the output queue, if any, and writes it to
// the host writer.
func (d *Device) loopOut() {
	defer d.wg.Done()
	for d.running.Load() {
		if b, ok := d.popOut(); ok {
			_, _ = d.writer.Write([]byte{b})
		}
		time.Sleep(sleepDuration)
	}
}
