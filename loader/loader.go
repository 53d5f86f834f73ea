/*
 * mpce - Program loader
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

// Package loader reads a host program image into kernel code memory: a
// flat stream of big-endian 16-bit words, one per code-memory cell,
// with no header.
package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mylez/mpce/memory"
)

// ErrTruncatedWord is returned when the input ends mid-word.
var ErrTruncatedWord = errors.New("loader: truncated word in program image")

// LoadWords reads big-endian 16-bit words from r into ram starting at
// word address 0 until r is exhausted or ram's capacity is reached. It
// returns the number of words loaded.
func LoadWords(r io.Reader, ram *memory.RAM) (int, error) {
	scratch := make([]byte, 2)
	var addr uint32

	for addr < ram.Capacity() {
		n, err := io.ReadFull(r, scratch)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return int(addr), fmt.Errorf("%w: %d", ErrTruncatedWord, n)
		}
		if err != nil {
			return int(addr), err
		}

		ram.StoreW(addr, binary.BigEndian.Uint16(scratch))
		addr++
	}

	return int(addr), nil
}

// LoadFile opens path and loads it into ram via LoadWords.
func LoadFile(path string, ram *memory.RAM) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return LoadWords(f, ram)
}
