/*
 * mpce - Configuration file parser
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

// Package config implements mpce's host configuration file: a small
// line grammar (# comments, one "key value" directive per line) parsed
// with a hand-rolled recursive-descent scan over each line, the same
// approach the teacher's config parser uses for its own, considerably
// richer, device-model grammar.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/mylez/mpce/mmio"
)

// Config holds the host-level settings that shape a run: how large the
// kernel code image may be, where the boot image and log file live,
// whether the interactive console is attached, and the CPU's initial
// ISR vector and page-table base.
type Config struct {
	KernelCodeWords uint32
	Console         bool
	LogPath         string
	Debug           bool
	BootPath        string
	ISR             uint16
	PTB             uint16
}

// Default returns a Config with the architectural defaults: the full
// kernel code RAM available, console detached, no boot image, ISR and
// PTB both zero.
func Default() *Config {
	return &Config{KernelCodeWords: mmio.KernCodeWords}
}

// line is the current line being scanned, mirroring the teacher's
// optionLine: a string plus a scan cursor into it.
type line struct {
	text string
	pos  int
}

func (l *line) skipSpace() {
	for l.pos < len(l.text) && unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
}

func (l *line) isEOL() bool {
	return l.pos >= len(l.text) || l.text[l.pos] == '#'
}

// token collects the run of non-space, non-comment characters starting
// at the cursor.
func (l *line) token() string {
	start := l.pos
	for l.pos < len(l.text) && !unicode.IsSpace(rune(l.text[l.pos])) && l.text[l.pos] != '#' {
		l.pos++
	}
	return l.text[start:l.pos]
}

// directive parses one "key value" pair, returning ok=false for a blank
// or comment-only line.
func (l *line) directive() (key, value string, ok bool, err error) {
	l.skipSpace()
	if l.isEOL() {
		return "", "", false, nil
	}
	key = strings.ToLower(l.token())
	l.skipSpace()
	if l.isEOL() {
		return "", "", false, fmt.Errorf("config: directive %q missing a value", key)
	}
	value = l.token()
	return key, value, true, nil
}

// ParseFile reads a configuration file and applies each directive on
// top of Default().
func ParseFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads directives from r, one per line.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	reader := bufio.NewReader(r)
	lineNumber := 0

	for {
		text, err := reader.ReadString('\n')
		lineNumber++
		if len(text) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		l := &line{text: text}
		key, value, ok, perr := l.directive()
		if perr != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, perr)
		}
		if ok {
			if err := cfg.apply(key, value); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) apply(key, value string) error {
	switch key {
	case "kernel_code_words":
		n, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return fmt.Errorf("kernel_code_words: %w", err)
		}
		if uint32(n) > mmio.KernCodeWords {
			return fmt.Errorf("kernel_code_words: %d exceeds architectural maximum %d", n, mmio.KernCodeWords)
		}
		c.KernelCodeWords = uint32(n)

	case "console":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("console: %w", err)
		}
		c.Console = b

	case "log":
		c.LogPath = value

	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug: %w", err)
		}
		c.Debug = b

	case "boot":
		c.BootPath = value

	case "isr":
		n, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("isr: %w", err)
		}
		c.ISR = uint16(n)

	case "ptb":
		n, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("ptb: %w", err)
		}
		c.PTB = uint16(n)

	default:
		return fmt.Errorf("unknown directive %q", key)
	}
	return nil
}
