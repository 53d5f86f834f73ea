/*
 * mpce - Main process.
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

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/mylez/mpce/config"
	"github.com/mylez/mpce/console"
	"github.com/mylez/mpce/cpu"
	"github.com/mylez/mpce/debugger"
	"github.com/mylez/mpce/disasm"
	"github.com/mylez/mpce/interrupt"
	"github.com/mylez/mpce/loader"
	"github.com/mylez/mpce/logger"
	"github.com/mylez/mpce/mmio"
	"github.com/mylez/mpce/register"
)

var log *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "mpce.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optBoot := getopt.StringLong("boot", 'b', "", "Boot image")
	optConsole := getopt.BoolLong("console", 0, "Attach stdin/stdout to the serial console")
	optTrace := getopt.BoolLong("trace", 0, "Log every decoded instruction before dispatch")
	optSteps := getopt.Uint64Long("steps", 'n', 0, "Run exactly N cycles then exit (0 = until shutdown)")
	optInteractive := getopt.BoolLong("interactive", 'i', "Drop into the interactive debugger instead of free-running")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			os.Exit(1)
		}
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	handler := logger.NewHandler(logFile, &slog.HandlerOptions{Level: level}, *optTrace)
	log = slog.New(handler)
	slog.SetDefault(log)

	log.Info("mpce started")

	cfg := config.Default()
	if _, err := os.Stat(*optConfig); err == nil {
		cfg, err = config.ParseFile(*optConfig)
		if err != nil {
			log.Error("failed to parse configuration", "path", *optConfig, "error", err)
			os.Exit(1)
		}
	}
	if *optBoot != "" {
		cfg.BootPath = *optBoot
	}
	if *optConsole {
		cfg.Console = true
	}
	if *optTrace {
		cfg.Debug = true
	}
	if *optLogFile == "" && cfg.LogPath != "" {
		f, err := os.Create(cfg.LogPath)
		if err != nil {
			log.Error("failed to create log file", "path", cfg.LogPath, "error", err)
			os.Exit(1)
		}
		handler = logger.NewHandler(f, &slog.HandlerOptions{Level: level}, *optTrace)
		log = slog.New(handler)
		slog.SetDefault(log)
	}
	if cfg.Debug {
		level.Set(slog.LevelDebug)
	}
	handler.SetDebug(cfg.Debug)

	fabric := mmio.NewSized(cfg.KernelCodeWords)
	irq := interrupt.New()
	c := cpu.New(fabric, irq)
	c.ISR().Write(cfg.ISR)
	c.PTB().Write(cfg.PTB)

	var con *console.Console
	if cfg.Console {
		var err error
		con, err = console.Attach()
		if err != nil {
			log.Error("failed to attach console", "error", err)
			os.Exit(1)
		}
		fabric.RegisterDevice(con.Device())
		con.Start()
	}

	if cfg.BootPath != "" {
		n, err := loader.LoadFile(cfg.BootPath, fabric.KernCode)
		if err != nil {
			log.Error("failed to load boot image", "path", cfg.BootPath, "error", err)
			os.Exit(1)
		}
		log.Info("loaded boot image", "path", cfg.BootPath, "words", n)
	}

	if *optInteractive {
		(&debugger.Session{CPU: c, Fabric: fabric}).Run()
		log.Info("mpce shutting down")
		if con != nil {
			con.Stop()
		}
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go run(c, fabric, *optSteps, sigChan, done)
	<-done

	log.Info("mpce shutting down")
	if con != nil {
		con.Stop()
	}
}

// run drives the CPU's per-cycle loop until either steps cycles have
// elapsed (steps > 0) or a shutdown signal arrives. A 'Q' on the serial
// console stops the console's worker goroutines but not this loop.
func run(c *cpu.CPU, fabric *mmio.Fabric, steps uint64, sigChan <-chan os.Signal, done chan<- struct{}) {
	defer close(done)

	var n uint64
	for {
		select {
		case <-sigChan:
			return
		default:
		}

		if steps > 0 && n >= steps {
			return
		}

		if log.Enabled(context.Background(), slog.LevelDebug) {
			traceCycle(c, fabric)
		}

		c.Cycle()
		n++
	}
}

// traceCycle decodes the instruction the CPU is about to fetch and logs
// it at Debug level; it never mutates CPU state.
func traceCycle(c *cpu.CPU, fabric *mmio.Fabric) {
	ram := fabric.GetCode(c.IsUserMode())
	pc := c.Regs.Get(register.PC).Read()
	word := ram.LoadW(uint32(pc))

	var words []uint16
	words = append(words, word)
	if int(pc)+1 < int(ram.Capacity()) {
		words = append(words, ram.LoadW(uint32(pc)+1))
	}

	text, _ := disasm.Instruction(words)
	log.Debug("fetch", "pc", pc, "inst", text)
}
