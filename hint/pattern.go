// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/symtab"
)

// BracketKind is the shape an opening '[' or '{' was found to begin.
type BracketKind struct {
	IsComprehension           bool
	IsDestructuringAssignment bool
	IsOrdinaryBlock           bool
}

// classifyOpeningBracket looks ahead from the bracket in curr to the
// matching close without consuming tokens.
func (s *Session) classifyOpeningBracket() BracketKind {
	var kind BracketKind
	depth := 0
	if s.curr.is("[") || s.curr.is("{") {
		depth++
	}
	prev := s.curr
	pn := s.next
	for i := 0; ; i++ {
		pn1 := s.peek(i)
		switch {
		case pn.is("[") || pn.is("{"):
			depth++
		case pn.is("]") || pn.is("}"):
			depth--
		}
		if depth == 1 && pn.identifier && pn.Value == "for" && !prev.is(".") {
			kind.IsComprehension = true
			return kind
		}
		if depth == 0 && (pn.is("]") || pn.is("}")) {
			if pn1.is("=") {
				kind.IsDestructuringAssignment = true
			}
			return kind
		}
		if depth == 1 && pn.is(";") {
			kind.IsOrdinaryBlock = true
		}
		if pn.isEnd() {
			return kind
		}
		prev, pn = pn, pn1
	}
}

type patternMode uint8

const (
	// patternBinding patterns declare names, as in var and parameters.
	patternBinding patternMode = iota
	// patternAssignment patterns assign existing references.
	patternAssignment
)

// binding is one target of a destructuring pattern.  name is empty for
// targets that are not plain identifiers.
type binding struct {
	name string
	tok  *Node
}

// destructuringPattern parses the pattern starting at next.
func (s *Session) destructuringPattern(ctx prod, mode patternMode) ([]binding, error) {
	open := s.next
	if err := s.advance("", nil); err != nil {
		return nil, err
	}
	return s.destructuringPatternOpened(ctx, mode, open)
}

// destructuringPatternOpened parses a pattern whose opening bracket is
// curr.
func (s *Session) destructuringPatternOpened(ctx prod, mode patternMode, open *Node) ([]binding, error) {
	if !s.inES6() {
		what := "destructuring binding"
		if mode == patternAssignment {
			what = "destructuring assignment"
		}
		s.warn("W104", open, what, "6")
	}
	var names []binding
	var err error
	if open.is("[") {
		names, err = s.arrayPattern(ctx, mode, open)
	} else {
		names, err = s.objectPattern(ctx, mode, open)
	}
	if err != nil {
		return nil, err
	}
	return names, s.failed()
}

func (s *Session) arrayPattern(ctx prod, mode patternMode, open *Node) ([]binding, error) {
	var names []binding
	if s.next.is("]") {
		s.warn("W137", open)
	}
	for !s.next.is("]") && !s.next.isEnd() {
		if s.next.is(",") {
			if err := s.advance(",", nil); err != nil {
				return nil, err
			}
			continue
		}
		rest := false
		if s.next.is("...") {
			rest = true
			if err := s.advance("...", nil); err != nil {
				return nil, err
			}
		}
		got, err := s.patternTarget(ctx, mode)
		if err != nil {
			return nil, err
		}
		names = append(names, got...)
		if rest && !s.next.is("]") {
			s.warn("W130", s.next)
		}
		if err := s.patternDefault(ctx, rest); err != nil {
			return nil, err
		}
		if !s.next.is("]") {
			if err := s.advance(",", nil); err != nil {
				return nil, err
			}
		}
	}
	return names, s.advance("]", open)
}

func (s *Session) objectPattern(ctx prod, mode patternMode, open *Node) ([]binding, error) {
	var names []binding
	if s.next.is("}") {
		s.warn("W137", open)
	}
	for !s.next.is("}") && !s.next.isEnd() {
		switch {
		case s.next.is("..."):
			if s.esVersion() < 9 {
				s.warn("W119", s.next, "object rest property", "9")
			}
			if err := s.advance("...", nil); err != nil {
				return nil, err
			}
			got, err := s.patternTarget(ctx, mode)
			if err != nil {
				return nil, err
			}
			names = append(names, got...)
			if !s.next.is("}") {
				s.warn("W130", s.next)
			}
		case s.next.is("["):
			if _, err := s.computedPropertyName(ctx); err != nil {
				return nil, err
			}
			if err := s.advance(":", nil); err != nil {
				return nil, err
			}
			got, err := s.patternTarget(ctx, mode)
			if err != nil {
				return nil, err
			}
			names = append(names, got...)
		default:
			key := s.next
			if _, ok, err := s.propertyName(ctx); err != nil {
				return nil, err
			} else if !ok {
				s.warn("E030", s.next, s.next.value())
				return names, s.failed()
			}
			if s.next.is(":") {
				if err := s.advance(":", nil); err != nil {
					return nil, err
				}
				got, err := s.patternTarget(ctx, mode)
				if err != nil {
					return nil, err
				}
				names = append(names, got...)
				break
			}
			// Shorthand properties bind the key itself.
			if !key.identifier || s.isReserved(ctx, key) {
				s.warn("E030", key, key.value())
			}
			names = append(names, s.patternName(mode, key))
		}
		if err := s.patternDefault(ctx, false); err != nil {
			return nil, err
		}
		if !s.next.is("}") {
			if err := s.advance(",", nil); err != nil {
				return nil, err
			}
		}
	}
	return names, s.advance("}", open)
}

// patternTarget parses a single element of a pattern: a nested pattern, a
// name or, in assignment patterns, any reference.
func (s *Session) patternTarget(ctx prod, mode patternMode) ([]binding, error) {
	if s.next.is("[") || s.next.is("{") {
		return s.destructuringPattern(ctx, mode)
	}
	if mode == patternBinding {
		if _, err := s.identifier(ctx); err != nil {
			return nil, err
		}
		if !s.curr.identifier {
			return nil, nil
		}
		return []binding{{name: s.curr.Value, tok: s.curr}}, nil
	}
	target, err := s.expression(ctx, symtab.PrecAssign)
	if err != nil {
		return nil, err
	}
	switch {
	case target == nil:
		return nil, nil
	case target.isPlainIdent():
		s.scope.Reassign(target.Value, target.Token)
		return []binding{{name: target.Value, tok: target}}, nil
	case target.is(".") || target.is("[") || target.is("?."):
		return []binding{{tok: target}}, nil
	}
	s.warn("E031", target)
	return nil, s.failed()
}

// patternName records a shorthand property target.
func (s *Session) patternName(mode patternMode, key *Node) binding {
	if mode == patternAssignment {
		s.scope.Use(key.Value, key.Token)
		s.scope.Reassign(key.Value, key.Token)
	}
	return binding{name: key.Value, tok: key}
}

// patternDefault parses an optional '= value' after a pattern element.
func (s *Session) patternDefault(ctx prod, rest bool) error {
	if !s.next.is("=") {
		return nil
	}
	if rest {
		s.warn("E062", s.next)
	}
	if err := s.advance("=", nil); err != nil {
		return err
	}
	if s.next.Value == "undefined" && s.next.isPlainIdent() {
		s.warn("W080", s.prev, s.prev.value())
	}
	_, err := s.expression(ctx&^prodNoIn, symtab.PrecComma)
	return err
}
