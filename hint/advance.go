// Copyright © 2024 The ELPS authors

package hint

import (
	"fmt"
	"unicode/utf8"

	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// read takes the next token from the lexer.
func (s *Session) read() *Node {
	n := s.newNode(s.lex.ReadToken())
	if s.lastRead != nil && (s.lastRead.is(".") || s.lastRead.is("?.")) {
		n.isProperty = true
	}
	s.lastRead = n
	return n
}

// peek returns the token i positions after next without consuming it.
func (s *Session) peek(i int) *Node {
	for len(s.ahead) <= i {
		s.ahead = append(s.ahead, s.read())
	}
	return s.ahead[i]
}

// advance consumes next, which must match id unless id is empty.  related
// is the opening token id is expected to close.
func (s *Session) advance(id string, related *Node) error {
	if s.fatal != nil {
		return s.fatal
	}
	if s.curr.isEnd() {
		return s.quit("E041", s.curr)
	}
	if id != "" && !s.next.is(id) {
		switch {
		case related != nil && s.next.isEnd():
			s.warn("E019", related, related.id)
		case related != nil:
			s.warn("E020", s.next, id, related.id, fmt.Sprint(related.Line()), s.next.value())
		case !s.next.identifier || s.next.Value != id:
			s.warn("E021", s.next, id, s.next.value())
		}
		if s.fatal != nil {
			return s.fatal
		}
	}
	s.prev = s.curr
	s.curr = s.next
	if len(s.ahead) > 0 {
		s.next = s.ahead[0]
		s.ahead = s.ahead[1:]
	} else {
		s.next = s.read()
	}
	return s.onNext()
}

// onNext runs the token level checks when a token becomes next.
func (s *Session) onNext() error {
	n := s.next
	for _, err := range n.Errs {
		line, col := n.Line(), n.Col()
		if err.Source != nil {
			line, col = err.Source.Line, err.Source.Col
		}
		s.warnAt(err.Code, line, col, err.Args...)
		if err.Fatal {
			s.abort("E041", line)
		}
		if s.fatal != nil {
			return s.fatal
		}
	}
	for _, c := range n.Comments {
		if c.Directive == nil {
			continue
		}
		if err := s.applyDirective(c, n); err != nil {
			return err
		}
	}
	s.checkLines(n.Line() - 1)
	switch n.Type {
	case token.STRING:
		if n.Flags.Has(token.Multiline) && !s.option("multistr") {
			s.warn("W043", n)
		}
		if n.Flags.Has(token.LegacyOctal) && s.isStrict() {
			s.warn("W115", n)
		}
	case token.NUMBER:
		if n.Flags.Has(token.LegacyOctal) && s.isStrict() {
			s.warn("W115", n)
		}
		if n.Flags.Has(token.BigInt) && s.esVersion() < 11 {
			s.warn("W119", n, "BigInt", "11")
		}
	}
	s.fireToken(n)
	if s.fatal != nil {
		return s.fatal
	}
	return nil
}

// checkLines applies the line length limit to the lines up to last.
func (s *Session) checkLines(last int) {
	if last > len(s.lines) {
		last = len(s.lines)
	}
	max := s.funct.options.Int("maxlen")
	for ; s.lineChecked < last; s.lineChecked++ {
		if max <= 0 {
			continue
		}
		line := s.lines[s.lineChecked]
		if utf8.RuneCountInString(line) > max {
			s.warnAt("W101", s.lineChecked+1, max+1)
		}
	}
}

// peekThroughParens returns the token following the group that closes
// parens levels of parentheses, starting at next.
func (s *Session) peekThroughParens(parens int) *Node {
	pn := s.next
	i := -1
	for {
		if pn.is("(") {
			parens++
		} else if pn.is(")") {
			parens--
		}
		i++
		pn1 := pn
		pn = s.peek(i)
		if parens == 0 && pn1.is(")") || pn.isEnd() {
			return pn
		}
	}
}

// nameStack tracks the tokens functions may be named after when they are
// anonymous, such as assignment targets and property keys.
type nameStack struct {
	stack []*Node
}

func (ns *nameStack) push() {
	ns.stack = append(ns.stack, nil)
}

func (ns *nameStack) pop() {
	if len(ns.stack) > 0 {
		ns.stack = ns.stack[:len(ns.stack)-1]
	}
}

func (ns *nameStack) set(n *Node) {
	if len(ns.stack) > 0 {
		ns.stack[len(ns.stack)-1] = n
	}
}

func (ns *nameStack) infer() string {
	var n *Node
	for i := len(ns.stack) - 1; i >= 0 && i >= len(ns.stack)-2; i-- {
		if n = ns.stack[i]; n != nil && !n.is("class") {
			break
		}
		n = nil
	}
	if n == nil {
		return "(empty)"
	}
	switch {
	case n.Type == token.STRING, n.Type == token.NUMBER, n.id == symtab.IdentifierID:
		return n.Value
	case n.identifier && !n.sym.Reserved, n.is("default"):
		return n.Value
	}
	return "(expression)"
}
