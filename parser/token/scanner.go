// Copyright © 2024 The ELPS authors

package token

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from an in-memory source text.
// Lines and columns are tracked for every rune; columns count runes and start
// at 1.
type Scanner struct {
	file string
	src  []byte

	start     int // byte offset of the current token
	startLine int
	startCol  int

	pos  int // byte offset of the next rune
	line int // line of the next rune
	col  int // column of the next rune

	c   rune // last scanned rune
	err error
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, src []byte) *Scanner {
	s := &Scanner{
		file: file,
		src:  src,
		line: 1,
		col:  1,
	}
	s.Ignore()
	return s
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	text := s.Text()
	tok := &Token{
		Type:   typ,
		Text:   text,
		Value:  text,
		Source: s.LocStart(),
		End:    s.Loc(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.pos
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.src[s.start:s.pos])
}

// Rune returns the last rune scanned.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned, if there are any.
func (s *Scanner) Peek() (rune, bool) {
	return s.PeekAt(0)
}

// PeekAt returns the rune n positions beyond the next rune to be scanned.
func (s *Scanner) PeekAt(n int) (rune, bool) {
	off := s.pos
	for {
		if off >= len(s.src) {
			return 0, false
		}
		c, size := utf8.DecodeRune(s.src[off:])
		if c == utf8.RuneError && size == 1 {
			return utf8.RuneError, false
		}
		if n == 0 {
			return c, true
		}
		n--
		off += size
	}
}

// ScanRune scans a utf-8 rune from the input for inclusion in the current
// token.
func (s *Scanner) ScanRune() error {
	if s.err != nil {
		return s.err
	}
	if s.pos >= len(s.src) {
		return fmt.Errorf("unexpected end of input")
	}
	c, size := utf8.DecodeRune(s.src[s.pos:])
	if c == utf8.RuneError && size == 1 {
		s.err = fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.src[s.pos])
		return s.err
	}
	s.c = c
	s.pos += size
	switch {
	case c == '\r':
		if s.pos < len(s.src) && s.src[s.pos] == '\n' {
			s.col++
			break
		}
		s.newline()
	case IsLineTerminator(c):
		s.newline()
	default:
		s.col++
	}
	return nil
}

func (s *Scanner) newline() {
	s.line++
	s.col = 1
}

// Err returns the decoding error that stopped the scanner, if any.
func (s *Scanner) Err() error {
	return s.err
}

// EOF reports whether the entire input has been scanned.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.src)
}

// Rest returns the input remaining after the current position.
func (s *Scanner) Rest() string {
	return string(s.src[s.pos:])
}

// Skip scans n bytes of input, which must end on a rune boundary.
func (s *Scanner) Skip(n int) {
	end := s.pos + n
	for s.pos < end && s.ScanRune() == nil {
	}
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if fn(peek) {
		return s.ScanRune() == nil
	}
	return false
}

func (s *Scanner) AcceptRune(c rune) bool {
	peek, ok := s.Peek()
	if !ok || peek != c {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptAny(charset string) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if strings.ContainsRune(charset, peek) {
		return s.ScanRune() == nil
	}
	return false
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqAny(charset string) int {
	var n int
	for s.AcceptAny(charset) {
		n++
	}
	return n
}

// AcceptString scans literal only if the entire string is next in the input.
func (s *Scanner) AcceptString(literal string) bool {
	if !bytes.HasPrefix(s.src[s.pos:], []byte(literal)) {
		return false
	}
	s.Skip(len(literal))
	return true
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position, just past
// the last scanned rune.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

// IsLineTerminator reports whether c ends a source line.
func IsLineTerminator(c rune) bool {
	switch c {
	case '\n', '\r', '\u2028', '\u2029':
		return true
	}
	return false
}
