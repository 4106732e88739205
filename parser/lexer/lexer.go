// Copyright © 2024 The ELPS authors

// Package lexer turns JavaScript source text into tokens.
package lexer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/luthersystems/esvet/parser/directive"
	"github.com/luthersystems/esvet/parser/token"
)

type LexFn func(*Lexer) *token.Token

// punctuators are ordered so that longer operators are matched first.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "/",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "@", "#",
}

// regexpAfterWords lists the words after which a slash starts a regular
// expression literal rather than a division.
var regexpAfterWords = map[string]bool{
	"return":     true,
	"typeof":     true,
	"instanceof": true,
	"in":         true,
	"of":         true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"throw":      true,
	"case":       true,
	"do":         true,
	"else":       true,
	"yield":      true,
	"await":      true,
	"extends":    true,
}

var ignoreEndPattern = regexp.MustCompile(`(?:/\*|//)\s*(?:esvet|jshint)\s+ignore\s*:\s*end`)

// Lexer produces tokens on demand.  A Lexer keeps the context needed to
// tell regular expressions from divisions and to resume template literals
// after a substitution.
type Lexer struct {
	scanner *token.Scanner
	lex     LexFn

	prev      *token.Token // last significant token
	braces    int
	templates []int // brace depth at each open template substitution
	comments  []*token.Comment
	errs      []*token.Error
	newline   bool
	ignoring  bool
	done      bool
}

// New returns a Lexer reading from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
}

// ReadToken returns the next token.  After the EOF token, or a fatal ERROR
// token, every call returns EOF.
func (lex *Lexer) ReadToken() *token.Token {
	if lex.done {
		return lex.emit(token.EOF)
	}
	tok := lex.lex(lex)
	switch tok.Type {
	case token.EOF:
		lex.done = true
	case token.ERROR:
		for _, err := range tok.Errs {
			if err.Fatal {
				lex.done = true
			}
		}
	}
	return tok
}

func (lex *Lexer) readToken() *token.Token {
	lex.skipTrivia()
	if lex.scanner.EOF() {
		return lex.emit(token.EOF)
	}
	c, _ := lex.scanner.Peek()
	switch {
	case c == '`':
		lex.scanner.ScanRune()
		return lex.readTemplate(true)
	case c == '}' && len(lex.templates) > 0 && lex.templates[len(lex.templates)-1] == lex.braces:
		lex.templates = lex.templates[:len(lex.templates)-1]
		lex.scanner.ScanRune()
		return lex.readTemplate(false)
	case c == '"' || c == '\'':
		lex.scanner.ScanRune()
		return lex.readString(c)
	case isDigit(c):
		return lex.readNumber()
	case c == '.' && isDigit(lex.peekAt(1)):
		return lex.readNumber()
	case c == '/' && lex.regexpAllowed():
		lex.scanner.ScanRune()
		return lex.readRegexp()
	case isIdentStart(c) || c == '\\':
		return lex.readWord()
	}
	return lex.readPunctuator()
}

// skipTrivia consumes whitespace and comments, recording comments and line
// breaks for the next token.
func (lex *Lexer) skipTrivia() {
	for !lex.scanner.EOF() {
		if lex.ignoring {
			lex.skipIgnored()
			continue
		}
		c, ok := lex.scanner.Peek()
		if !ok {
			if lex.scanner.Err() == nil {
				lex.scanner.ScanRune()
			}
			return
		}
		switch {
		case token.IsLineTerminator(c):
			lex.newline = true
			lex.scanner.ScanRune()
		case isSpace(c):
			lex.scanner.ScanRune()
		case c == '/' && lex.peekAt(1) == '/':
			lex.readLineComment(2)
		case c == '/' && lex.peekAt(1) == '*':
			lex.readBlockComment()
		case c == '#' && lex.peekAt(1) == '!' && lex.scanner.Loc().Pos == 0:
			lex.readLineComment(2)
		default:
			lex.scanner.Ignore()
			return
		}
	}
	lex.scanner.Ignore()
}

func (lex *Lexer) skipIgnored() {
	rest := lex.scanner.Rest()
	loc := ignoreEndPattern.FindStringIndex(rest)
	if loc == nil {
		lex.scanner.Skip(len(rest))
	} else {
		lex.scanner.Skip(loc[0])
	}
	lex.scanner.Ignore()
	lex.ignoring = false
	lex.newline = true
}

func (lex *Lexer) readLineComment(prefix int) {
	lex.scanner.Ignore()
	loc := lex.scanner.LocStart()
	lex.scanner.Skip(prefix)
	lex.scanner.AcceptSeq(func(c rune) bool { return !token.IsLineTerminator(c) })
	text := lex.scanner.Text()[prefix:]
	lex.scanner.Ignore()
	lex.addComment(text, false, loc, loc.Line)
}

func (lex *Lexer) readBlockComment() {
	lex.scanner.Ignore()
	loc := lex.scanner.LocStart()
	lex.scanner.Skip(2)
	closed := false
	for !lex.scanner.EOF() {
		if lex.scanner.AcceptString("*/") {
			closed = true
			break
		}
		c, _ := lex.scanner.Peek()
		if token.IsLineTerminator(c) {
			lex.newline = true
		}
		if lex.scanner.ScanRune() != nil {
			break
		}
	}
	text := lex.scanner.Text()[2:]
	if closed {
		text = text[:len(text)-2]
	} else {
		lex.problem("E017", loc, false)
	}
	end := lex.scanner.Loc().Line
	lex.scanner.Ignore()
	lex.addComment(text, true, loc, end)
}

func (lex *Lexer) addComment(text string, block bool, loc *token.Location, endLine int) {
	c := &token.Comment{
		Text:    text,
		Block:   block,
		Source:  loc,
		EndLine: endLine,
	}
	d, err := directive.Parse(text)
	if err != nil {
		lex.problem("E001", loc, false, "", strings.TrimSpace(text))
	}
	c.Directive = d
	if d.Ignore() == "start" {
		lex.ignoring = true
	}
	lex.comments = append(lex.comments, c)
}

func (lex *Lexer) readWord() *token.Token {
	var b strings.Builder
	escaped := false
	for {
		c, ok := lex.scanner.Peek()
		if !ok {
			break
		}
		if c == '\\' {
			r, ok := lex.readUnicodeEscape()
			if !ok {
				return lex.fatal("E024", "\\")
			}
			escaped = true
			b.WriteRune(r)
			continue
		}
		if b.Len() == 0 && !isIdentStart(c) || b.Len() > 0 && !isIdentPart(c) {
			break
		}
		lex.scanner.ScanRune()
		b.WriteRune(c)
	}
	tok := lex.emit(token.IDENT)
	tok.Value = b.String()
	if escaped {
		tok.Flags |= token.Escaped
	}
	return tok
}

// readUnicodeEscape reads \uXXXX or \u{X...} and returns the decoded rune.
func (lex *Lexer) readUnicodeEscape() (rune, bool) {
	if !lex.scanner.AcceptString(`\u`) {
		return 0, false
	}
	var hex string
	if lex.scanner.AcceptRune('{') {
		start := len(lex.scanner.Text())
		lex.scanner.AcceptSeq(isHexDigit)
		hex = lex.scanner.Text()[start:]
		if !lex.scanner.AcceptRune('}') {
			return 0, false
		}
	} else {
		start := len(lex.scanner.Text())
		for i := 0; i < 4; i++ {
			if !lex.scanner.Accept(isHexDigit) {
				return 0, false
			}
		}
		hex = lex.scanner.Text()[start:]
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || hex == "" {
		return 0, false
	}
	return rune(v), true
}

func (lex *Lexer) readPunctuator() *token.Token {
	for _, p := range punctuators {
		if p == "?." && isDigit(lex.peekAt(2)) {
			continue
		}
		if lex.scanner.AcceptString(p) {
			switch p {
			case "{":
				lex.braces++
			case "}":
				lex.braces--
			}
			return lex.emit(token.PUNCT)
		}
	}
	c, _ := lex.scanner.Peek()
	lex.scanner.ScanRune()
	return lex.fatal("E024", string(c))
}

func (lex *Lexer) readString(quote rune) *token.Token {
	var b strings.Builder
	var flags token.Flag
	for {
		c, ok := lex.scanner.Peek()
		if !ok || c == '\n' || c == '\r' {
			lex.problem("E029", lex.scanner.LocStart(), false)
			flags |= token.Unclosed
			break
		}
		lex.scanner.ScanRune()
		if c == quote {
			break
		}
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		flags |= lex.readEscape(&b)
	}
	tok := lex.emit(token.STRING)
	tok.Value = b.String()
	tok.Flags |= flags
	return tok
}

var simpleEscapes = map[rune]rune{
	'n': '\n',
	't': '\t',
	'r': '\r',
	'b': '\b',
	'f': '\f',
	'v': '\v',
}

// readEscape decodes the escape sequence following a backslash.
func (lex *Lexer) readEscape(b *strings.Builder) token.Flag {
	c, ok := lex.scanner.Peek()
	if !ok {
		return 0
	}
	if r, ok := simpleEscapes[c]; ok {
		lex.scanner.ScanRune()
		b.WriteRune(r)
		return 0
	}
	switch c {
	case 'u':
		lex.scanner.ScanRune()
		var hex strings.Builder
		if lex.scanner.AcceptRune('{') {
			for {
				h, ok := lex.scanner.Peek()
				if !ok || !isHexDigit(h) {
					break
				}
				lex.scanner.ScanRune()
				hex.WriteRune(h)
			}
			lex.scanner.AcceptRune('}')
		} else {
			for i := 0; i < 4; i++ {
				h, ok := lex.scanner.Peek()
				if !ok || !isHexDigit(h) {
					break
				}
				lex.scanner.ScanRune()
				hex.WriteRune(h)
			}
		}
		if v, err := strconv.ParseUint(hex.String(), 16, 32); err == nil {
			b.WriteRune(rune(v))
		}
		return 0
	case 'x':
		lex.scanner.ScanRune()
		var hex strings.Builder
		for i := 0; i < 2; i++ {
			h, ok := lex.scanner.Peek()
			if !ok || !isHexDigit(h) {
				break
			}
			lex.scanner.ScanRune()
			hex.WriteRune(h)
		}
		if v, err := strconv.ParseUint(hex.String(), 16, 8); err == nil {
			b.WriteRune(rune(v))
		}
		return 0
	case '\r':
		lex.scanner.ScanRune()
		lex.scanner.AcceptRune('\n')
		return token.Multiline
	case '\n', '\u2028', '\u2029':
		lex.scanner.ScanRune()
		return token.Multiline
	}
	lex.scanner.ScanRune()
	if c >= '1' && c <= '7' || c == '0' && isDigit(lex.peekAt(0)) {
		b.WriteRune(c)
		return token.LegacyOctal
	}
	if c == '0' {
		b.WriteByte(0)
		return 0
	}
	b.WriteRune(c)
	return 0
}

// readTemplate scans template characters after a backtick (head) or the
// closing brace of a substitution.
func (lex *Lexer) readTemplate(head bool) *token.Token {
	var b strings.Builder
	for {
		c, ok := lex.scanner.Peek()
		if !ok {
			lex.problem("E052", lex.scanner.LocStart(), false)
			typ := token.NO_SUBST_TEMPLATE
			if !head {
				typ = token.TEMPLATE_TAIL
			}
			tok := lex.emit(typ)
			tok.Value = b.String()
			tok.Flags |= token.Unclosed
			return tok
		}
		lex.scanner.ScanRune()
		switch {
		case c == '`':
			typ := token.NO_SUBST_TEMPLATE
			if !head {
				typ = token.TEMPLATE_TAIL
			}
			tok := lex.emit(typ)
			tok.Value = b.String()
			return tok
		case c == '$' && lex.scanner.AcceptRune('{'):
			lex.templates = append(lex.templates, lex.braces)
			typ := token.TEMPLATE
			if !head {
				typ = token.TEMPLATE_MIDDLE
			}
			tok := lex.emit(typ)
			tok.Value = b.String()
			return tok
		case c == '\\':
			lex.readEscape(&b)
		default:
			b.WriteRune(c)
		}
	}
}

func (lex *Lexer) readNumber() *token.Token {
	var flags token.Flag
	digits := func(valid func(rune) bool) int {
		return lex.scanner.AcceptSeq(func(c rune) bool { return valid(c) || c == '_' })
	}
	start := lex.scanner.LocStart()
	switch {
	case lex.scanner.AcceptString("0x") || lex.scanner.AcceptString("0X"):
		if digits(isHexDigit) == 0 {
			lex.problem("W045", start, false, lex.scanner.Text())
		}
	case lex.scanner.AcceptString("0o") || lex.scanner.AcceptString("0O"):
		if digits(isOctalDigit) == 0 {
			lex.problem("W045", start, false, lex.scanner.Text())
		}
	case lex.scanner.AcceptString("0b") || lex.scanner.AcceptString("0B"):
		if digits(func(c rune) bool { return c == '0' || c == '1' }) == 0 {
			lex.problem("W045", start, false, lex.scanner.Text())
		}
	case lex.scanner.AcceptRune('.'):
		digits(isDigit)
		lex.problem("W008", start, false, lex.scanner.Text())
		lex.readExponent(start)
	default:
		lex.scanner.AcceptSeq(isDigit)
		text := lex.scanner.Text()
		if len(text) > 1 && text[0] == '0' {
			flags |= token.LegacyOctal
			break
		}
		digits(isDigit)
		if c, _ := lex.scanner.Peek(); c == '.' && !isIdentStart(lex.peekAt(1)) {
			lex.scanner.ScanRune()
			if digits(isDigit) == 0 && !isExponentStart(lex.peekAt(0)) {
				lex.problem("W047", start, false, lex.scanner.Text())
			}
		}
		lex.readExponent(start)
	}
	if lex.scanner.AcceptRune('n') {
		flags |= token.BigInt
	}
	if c, ok := lex.scanner.Peek(); ok && (isIdentStart(c) || isDigit(c)) {
		lex.scanner.AcceptSeq(isIdentPart)
		lex.problem("E067", start, false, lex.scanner.Text())
	}
	tok := lex.emit(token.NUMBER)
	tok.Flags |= flags
	return tok
}

func (lex *Lexer) readExponent(start *token.Location) {
	if !lex.scanner.AcceptAny("eE") {
		return
	}
	lex.scanner.AcceptAny("+-")
	if lex.scanner.AcceptSeq(isDigit) == 0 {
		lex.problem("W045", start, false, lex.scanner.Text())
	}
}

func (lex *Lexer) readRegexp() *token.Token {
	var b strings.Builder
	inClass := false
	closed := false
	for !closed {
		c, ok := lex.scanner.Peek()
		if !ok || token.IsLineTerminator(c) {
			break
		}
		lex.scanner.ScanRune()
		switch {
		case c == '\\':
			b.WriteRune(c)
			if e, ok := lex.scanner.Peek(); ok && !token.IsLineTerminator(e) {
				lex.scanner.ScanRune()
				b.WriteRune(e)
			}
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			closed = true
			continue
		}
		b.WriteRune(c)
	}
	if !closed {
		lex.problem("E015", lex.scanner.LocStart(), false)
		tok := lex.emit(token.REGEXP)
		tok.Value = b.String()
		tok.Flags |= token.Unclosed
		return tok
	}
	start := len(lex.scanner.Text())
	lex.scanner.AcceptSeq(isIdentPart)
	flags := lex.scanner.Text()[start:]
	for i, f := range flags {
		if !strings.ContainsRune("dgimsuyv", f) || strings.ContainsRune(flags[i+1:], f) {
			lex.problem("E016", lex.scanner.LocStart(), false, flags)
			break
		}
	}
	tok := lex.emit(token.REGEXP)
	tok.Value = b.String()
	return tok
}

// regexpAllowed decides whether a slash starts a regular expression literal
// based on the previous significant token.
func (lex *Lexer) regexpAllowed() bool {
	if lex.prev == nil {
		return true
	}
	switch lex.prev.Type {
	case token.PUNCT:
		switch lex.prev.Value {
		case ")", "]", "}", "++", "--":
			return false
		}
		return true
	case token.IDENT:
		return regexpAfterWords[lex.prev.Value]
	case token.TEMPLATE, token.TEMPLATE_MIDDLE:
		return true
	}
	return false
}

func (lex *Lexer) emit(typ token.Type) *token.Token {
	tok := lex.scanner.EmitToken(typ)
	if typ == token.EOF {
		tok.Text = ""
		tok.Value = ""
	}
	if lex.newline {
		tok.Flags |= token.NewlineBefore
	}
	tok.Comments = lex.comments
	tok.Errs = lex.errs
	lex.comments = nil
	lex.errs = nil
	lex.newline = false
	lex.prev = tok
	return tok
}

func (lex *Lexer) fatal(code string, args ...string) *token.Token {
	lex.problem(code, lex.scanner.LocStart(), true, args...)
	return lex.emit(token.ERROR)
}

func (lex *Lexer) problem(code string, loc *token.Location, fatal bool, args ...string) {
	lex.errs = append(lex.errs, &token.Error{
		Code:   code,
		Args:   args,
		Source: loc,
		Fatal:  fatal,
	})
}

func (lex *Lexer) peekAt(n int) rune {
	c, _ := lex.scanner.PeekAt(n)
	return c
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isOctalDigit(c rune) bool {
	return '0' <= c && c <= '7'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isExponentStart(c rune) bool {
	return c == 'e' || c == 'E'
}

func isIdentStart(c rune) bool {
	return c == '$' || c == '_' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	switch {
	case isIdentStart(c), isDigit(c):
		return true
	case c == '\u200c', c == '\u200d':
		return true
	}
	return unicode.In(c, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\u00a0', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, c)
}
