/*
 * mpce - Interactive debugger console
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

// Package debugger implements a line-editing command console for
// inspecting and single-stepping a running CPU: register dump, memory
// examine, step N cycles, quit. Commands are dispatched through a small
// table in the same shape as a conventional REPL command registry,
// rather than a chain of if/else string comparisons.
package debugger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/mylez/mpce/cpu"
	"github.com/mylez/mpce/disasm"
	"github.com/mylez/mpce/mmio"
	"github.com/mylez/mpce/register"
)

// Session binds a debugger console to one running machine.
type Session struct {
	CPU    *cpu.CPU
	Fabric *mmio.Fabric
}

type cmd struct {
	name     string
	min      int // minimum unambiguous prefix length
	process  func(s *Session, args []string) (quit bool, err error)
	complete func(prefix string) []string
}

var commands []cmd

func init() {
	commands = []cmd{
		{name: "registers", min: 1, process: cmdRegisters},
		{name: "step", min: 1, process: cmdStep},
		{name: "examine", min: 1, process: cmdExamine},
		{name: "quit", min: 1, process: cmdQuit},
	}
}

func lookup(word string) *cmd {
	word = strings.ToLower(word)
	for i := range commands {
		c := &commands[i]
		if len(word) >= c.min && strings.HasPrefix(c.name, word) {
			return c
		}
	}
	return nil
}

func completeNames(prefix string) []string {
	var out []string
	prefix = strings.ToLower(prefix)
	for _, c := range commands {
		if strings.HasPrefix(c.name, prefix) {
			out = append(out, c.name)
		}
	}
	return out
}

// Run starts an interactive liner-backed prompt against s until the
// user issues "quit", presses Ctrl-D, or aborts with Ctrl-C.
func (s *Session) Run() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		return completeNames(partial)
	})

	for {
		text, err := line.Prompt("mpce> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, liner.ErrNotTerminalOutput) {
				return
			}
			fmt.Println("error reading line:", err)
			return
		}
		line.AppendHistory(text)

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		c := lookup(fields[0])
		if c == nil {
			fmt.Println("unknown command:", fields[0])
			continue
		}

		quit, err := c.process(s, fields[1:])
		if err != nil {
			fmt.Println("error:", err)
		}
		if quit {
			return
		}
	}
}

func cmdQuit(_ *Session, _ []string) (bool, error) {
	return true, nil
}

func cmdRegisters(s *Session, _ []string) (bool, error) {
	for i := uint8(0); i < register.FileSize; i++ {
		r := s.CPU.Regs.Get(i)
		fmt.Printf("%-4s %#06x\n", r.Name(), r.Read())
	}
	fmt.Printf("status %#04x  mode %#04x  cause %#04x\n", s.CPU.Status().Read(), s.CPU.Mode().Read(), s.CPU.Cause().Read())
	return false, nil
}

func cmdStep(s *Session, args []string) (bool, error) {
	n := uint64(1)
	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return false, fmt.Errorf("step: %w", err)
		}
		n = v
	}

	for i := uint64(0); i < n; i++ {
		pc := s.CPU.Regs.Get(register.PC).Read()
		ram := s.Fabric.GetCode(s.CPU.IsUserMode())
		var words []uint16
		words = append(words, ram.LoadW(uint32(pc)))
		if int(pc)+1 < int(ram.Capacity()) {
			words = append(words, ram.LoadW(uint32(pc)+1))
		}
		text, _ := disasm.Instruction(words)
		fmt.Printf("%#06x: %s\n", pc, text)

		s.CPU.Cycle()
	}
	return false, nil
}

func cmdExamine(s *Session, args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("examine: requires an address")
	}
	addr, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return false, fmt.Errorf("examine: %w", err)
	}

	ram := s.Fabric.GetData(s.CPU.IsUserMode())
	fmt.Printf("%#06x: %#06x\n", addr, ram.LoadW(uint32(addr)))
	return false, nil
}
