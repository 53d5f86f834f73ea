/*
 * mpce - Interactive console wiring
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

// Package console attaches a serial.Device to OS stdin/stdout, putting
// the terminal into raw mode so keystrokes reach the simulated UART
// unbuffered and without local echo, matching a real serial line.
package console

import (
	"os"

	"golang.org/x/term"

	"github.com/mylez/mpce/serial"
)

// Console owns the raw-terminal state so it can be restored on exit.
type Console struct {
	dev   *serial.Device
	fd    int
	saved *term.State
}

// Attach builds a serial.Device reading from and writing to stdin/stdout
// and, if stdin is a terminal, switches it to raw mode. Restore must be
// called before the process exits to leave the terminal usable.
func Attach() (*Console, error) {
	dev := serial.New(os.Stdin, os.Stdout)
	c := &Console{dev: dev, fd: int(os.Stdin.Fd())}

	if !term.IsTerminal(c.fd) {
		return c, nil
	}

	state, err := term.MakeRaw(c.fd)
	if err != nil {
		return nil, err
	}
	c.saved = state
	return c, nil
}

// Device returns the serial device the CPU's MMIO fabric should bind to
// the serial window.
func (c *Console) Device() *serial.Device {
	return c.dev
}

// Start launches the device's input/output worker goroutines.
func (c *Console) Start() {
	c.dev.StartConsole()
}

// Stop requests the worker goroutines to exit and waits for them, then
// restores the terminal's original mode if it was changed.
func (c *Console) Stop() {
	c.dev.StopConsole()
	c.dev.JoinConsole()
	c.Restore()
}

// Restore puts the terminal back into its original mode. It is safe to
// call more than once or when the terminal was never put into raw mode.
func (c *Console) Restore() {
	if c.saved == nil {
		return
	}
	_ = term.Restore(c.fd, c.saved)
	c.saved = nil
}
