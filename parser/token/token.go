// Copyright © 2024 The ELPS authors

package token

import (
	"fmt"

	"github.com/luthersystems/esvet/parser/directive"
)

// Token is a lexical unit produced by the lexer.  Tokens are immutable once
// emitted; the parser keeps its own per-token bookkeeping.
type Token struct {
	Type   Type
	Text   string // raw source text
	Value  string // cooked value (string contents, identifier name, ...)
	Source *Location
	// End is the position just past the last rune of the token.
	End   *Location
	Flags Flag
	// Comments holds the comments that appeared between the previous token
	// and this one, in source order.
	Comments []*Comment
	// Errs holds lexical problems found while scanning the token.  ERROR
	// tokens always carry at least one.
	Errs []*Error
}

// Flag records lexical properties of a token.
type Flag uint

const (
	// NewlineBefore is set when at least one line terminator separates the
	// token from the previous one.
	NewlineBefore Flag = 1 << iota
	// Unclosed marks an unterminated string, template or regexp.
	Unclosed
	// LegacyOctal marks numbers like 017 and strings with octal escapes.
	LegacyOctal
	// BigInt marks numeric literals with an n suffix.
	BigInt
	// Escaped marks identifiers containing unicode escapes.
	Escaped
	// Multiline marks strings continued across lines with a backslash.
	Multiline
)

// Has reports whether every bit in f2 is set in f.
func (f Flag) Has(f2 Flag) bool {
	return f&f2 == f2
}

// Type classifies tokens.
type Type uint

// Type constants used by the lexer and parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Literals
	IDENT
	NUMBER
	STRING
	REGEXP
	TEMPLATE        // `...${
	TEMPLATE_MIDDLE // }...${
	TEMPLATE_TAIL   // }...`
	NO_SUBST_TEMPLATE

	// Operators and delimiters
	PUNCT

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:           "invalid",
		ERROR:             "error",
		EOF:               "EOF",
		IDENT:             "identifier",
		NUMBER:            "number",
		STRING:            "string",
		REGEXP:            "regexp",
		TEMPLATE:          "template",
		TEMPLATE_MIDDLE:   "template middle",
		TEMPLATE_TAIL:     "template tail",
		NO_SUBST_TEMPLATE: "no subst template",
		PUNCT:             "punctuator",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsTemplate reports whether typ is any template literal fragment.
func (typ Type) IsTemplate() bool {
	switch typ {
	case TEMPLATE, TEMPLATE_MIDDLE, TEMPLATE_TAIL, NO_SUBST_TEMPLATE:
		return true
	}
	return false
}

// ID returns the identity used for symbol table lookups.  Punctuators and
// words use their own text.  Literals use a parenthesized class name.
func (tok *Token) ID() string {
	switch tok.Type {
	case IDENT, PUNCT:
		return tok.Value
	case EOF:
		return "(end)"
	case ERROR, INVALID:
		return "(error)"
	default:
		return "(" + tok.Type.String() + ")"
	}
}

// Line returns the line on which the token starts.
func (tok *Token) Line() int {
	if tok.Source == nil {
		return 0
	}
	return tok.Source.Line
}

// Col returns the column at which the token starts.
func (tok *Token) Col() int {
	if tok.Source == nil {
		return 0
	}
	return tok.Source.Col
}

// EndLine returns the line on which the token ends.  Multi-line templates
// and strings end on a later line than they start.
func (tok *Token) EndLine() int {
	if tok.End == nil {
		return tok.Line()
	}
	return tok.End.Line
}

func (tok *Token) String() string {
	if tok.Type == EOF {
		return "(end)"
	}
	return tok.Text
}

// Comment is a source comment attached to the token that follows it.
type Comment struct {
	Text    string // body, without the comment delimiters
	Block   bool
	Source  *Location
	EndLine int
	// Directive is non-nil when the comment body is an inline directive.
	Directive *directive.Directive
}

// Error is a lexical problem identified by a diagnostic code.  Fatal errors
// stop tokenization.
type Error struct {
	Code   string
	Args   []string
	Source *Location
	Fatal  bool
}

type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
