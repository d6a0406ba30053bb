// Package conio provides the buffered line-oriented reader and flushable
// writer that back the default console.
package conio

import (
	"bufio"
	"io"
)

// LineReader reads whole input lines, without their terminators.
type LineReader struct {
	s *bufio.Scanner
}

// MaxLineLen bounds a single input line.
const MaxLineLen = 4096

// NewLineReader wraps r for line-at-a-time reading.
func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 256), MaxLineLen)
	return &LineReader{s: s}
}

// ReadLine returns the next line, or io.EOF once the input is exhausted.
func (lr *LineReader) ReadLine() (string, error) {
	if !lr.s.Scan() {
		if err := lr.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return lr.s.Text(), nil
}
