// Copyright © 2024 The ELPS authors

// Package directive parses the bodies of inline directive comments.
//
//	directive := keyword entries
//	keyword   := "esvet" | "jshint" | "jslint" | "global" | "globals"
//	           | "exported" | "members" | "member"
//	entries   := (entry ","?)*
//	entry     := name (":" value)?
//	name      := ["-" | "+"] ident
//	value     := quoted | bare
//
// The fall-through marker ("falls through", "fall through") is recognized
// separately because it carries no entries.
package directive

import (
	"fmt"
	"regexp"
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// Kind identifies the family of a directive.
type Kind uint

const (
	Invalid Kind = iota
	Options
	Legacy
	Globals
	Exported
	Members
	FallsThrough
	numKinds
)

func (k Kind) String() string {
	kindStrings := [numKinds]string{
		Invalid:      "invalid",
		Options:      "options",
		Legacy:       "legacy-options",
		Globals:      "globals",
		Exported:     "exported",
		Members:      "members",
		FallsThrough: "falls-through",
	}
	if k >= numKinds {
		return kindStrings[Invalid]
	}
	return kindStrings[k]
}

var keywords = map[string]Kind{
	"esvet":    Options,
	"jshint":   Options,
	"jslint":   Legacy,
	"global":   Globals,
	"globals":  Globals,
	"exported": Exported,
	"members":  Members,
	"member":   Members,
}

var fallsThroughPattern = regexp.MustCompile(`^falls?\s+through\b`)

// Entry is a single name or name:value pair.
type Entry struct {
	Name     string
	Value    string
	HasValue bool
	// Remove is set for names written with a leading '-' and Add for a
	// leading '+'.  The sign is stripped from Name.
	Remove bool
	Add    bool
}

func (e Entry) String() string {
	var sign string
	switch {
	case e.Remove:
		sign = "-"
	case e.Add:
		sign = "+"
	}
	if e.HasValue {
		return fmt.Sprintf("%s%s:%s", sign, e.Name, e.Value)
	}
	return sign + e.Name
}

// Directive is a parsed directive comment.
type Directive struct {
	Kind    Kind
	Keyword string
	Entries []Entry
}

// Ignore returns the value of an ignore entry ("start", "end" or "line") if
// the directive contains one.
func (d *Directive) Ignore() string {
	if d == nil || d.Kind != Options {
		return ""
	}
	for _, e := range d.Entries {
		if e.Name == "ignore" && e.HasValue {
			return e.Value
		}
	}
	return ""
}

// Parse parses a comment body.  Parse returns a nil Directive and a nil error
// when body is an ordinary comment.
func Parse(body string) (*Directive, error) {
	text := strings.TrimSpace(body)
	if fallsThroughPattern.MatchString(text) {
		return &Directive{Kind: FallsThrough, Keyword: "falls through"}, nil
	}
	word := text
	if i := strings.IndexAny(text, " \t\r\n"); i >= 0 {
		word = text[:i]
	}
	kind, ok := keywords[word]
	if !ok {
		return nil, nil
	}
	entries, err := ParseEntries(text[len(word):])
	if err != nil {
		return nil, fmt.Errorf("%s directive: %w", word, err)
	}
	return &Directive{Kind: kind, Keyword: word, Entries: entries}, nil
}

// ParseEntries parses a comma and/or space separated entry list.  It is also
// used for global declarations read from configuration files.
func ParseEntries(text string) ([]Entry, error) {
	s := parsec.NewScanner([]byte(text))
	root, s := newEntryParser()(s)
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		return nil, fmt.Errorf("unexpected text at offset %d: %q", s.GetCursor(), b)
	}
	var entries []Entry
	items, _ := root.([]parsec.ParsecNode)
	for _, item := range items {
		if e, ok := item.(Entry); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func newEntryParser() parsec.Parser {
	name := parsec.Token(`[-+]?[A-Za-z_$][A-Za-z0-9_$]*`, "NAME")
	colon := parsec.Atom(":", "COLON")
	comma := parsec.Atom(",", "COMMA")
	quoted := parsec.Token(`"[^"]*"|'[^']*'`, "QUOTED")
	bare := parsec.Token(`[^,\s]+`, "VALUE")
	value := parsec.OrdChoice(nil, quoted, bare)
	assignment := parsec.And(nil, colon, value)
	entry := parsec.And(entryNode, name, parsec.Maybe(nil, assignment))
	return parsec.Kleene(nil, entry, parsec.Maybe(nil, comma))
}

func entryNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term := terminal(nodes[0])
	if term == nil {
		return nil
	}
	e := Entry{Name: term.GetValue()}
	switch {
	case strings.HasPrefix(e.Name, "-"):
		e.Remove = true
		e.Name = e.Name[1:]
	case strings.HasPrefix(e.Name, "+"):
		e.Add = true
		e.Name = e.Name[1:]
	}
	if len(nodes) < 2 {
		return e
	}
	// nodes[1] is the Maybe wrapping And(colon, OrdChoice(value)), or
	// MaybeNone when the entry has no value.
	if terms := terminals(nodes[1], nil); len(terms) == 2 && terms[0].GetName() == "COLON" {
		e.HasValue = true
		e.Value = unquote(terms[1])
	}
	return e
}

// terminals appends the terminals below n to acc in source order.
func terminals(n parsec.ParsecNode, acc []*parsec.Terminal) []*parsec.Terminal {
	switch n := n.(type) {
	case *parsec.Terminal:
		return append(acc, n)
	case []parsec.ParsecNode:
		for _, c := range n {
			acc = terminals(c, acc)
		}
	}
	return acc
}

// terminal unwraps the single-element node lists produced by combinators
// without callbacks.
func terminal(n parsec.ParsecNode) *parsec.Terminal {
	switch n := n.(type) {
	case *parsec.Terminal:
		return n
	case []parsec.ParsecNode:
		if len(n) == 1 {
			return terminal(n[0])
		}
	}
	return nil
}

func unquote(t *parsec.Terminal) string {
	v := t.GetValue()
	if t.GetName() == "QUOTED" && len(v) >= 2 {
		return v[1 : len(v)-1]
	}
	return v
}
