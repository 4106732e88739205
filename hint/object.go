// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// property tracks the definitions of one key of an object literal or
// class body.
type property struct {
	basic    bool
	getter   *Node
	setter   *Node
	isStatic bool
}

// propertySet holds the keys defined so far by one literal or class body.
type propertySet map[string]*property

// saveProperty records a data property or method.  isClass and isStatic
// select the wording of the duplicate warning.
func (s *Session) saveProperty(props propertySet, name string, tok *Node, isClass, isStatic bool) {
	if name == "" {
		return
	}
	if p := props[name]; p != nil && name != "__proto__" {
		what := "key"
		switch {
		case isClass && isStatic:
			what = "static class method"
		case isClass:
			what = "class method"
		}
		s.warn("W075", tok, what, name)
	} else if p == nil {
		props[name] = &property{}
	}
	props[name].basic = true
}

// saveAccessor records a getter or setter.
func (s *Session) saveAccessor(kind string, props propertySet, name string, tok *Node, isClass, isStatic bool) {
	if name == "" {
		return
	}
	p := props[name]
	if p == nil {
		p = &property{}
		props[name] = p
	} else if name != "__proto__" && (p.basic || kind == "get" && p.getter != nil || kind == "set" && p.setter != nil) {
		what := "key"
		if isClass {
			what = kind + "ter method"
			if isStatic {
				what = "static " + what
			}
		}
		s.warn("W075", tok, what, name)
	}
	if kind == "get" {
		p.getter = tok
	} else {
		p.setter = tok
	}
	if isStatic {
		p.isStatic = true
	}
}

// checkProperties reports setters defined without a getter.
func (s *Session) checkProperties(props propertySet) {
	if s.esVersion() < 5 {
		return
	}
	for _, p := range props {
		if p.setter != nil && p.getter == nil && !p.isStatic {
			s.warn("W078", p.setter)
		}
	}
}

// isShorthand reports whether next begins a shorthand property.
func (s *Session) isShorthand() bool {
	if !s.next.identifier {
		return false
	}
	p := s.peek(0)
	return p.is(",") || p.is("}")
}

func (s *Session) objectNud(ctx prod, n *Node) (*Node, error) {
	kind := s.classifyOpeningBracket()
	if kind.IsDestructuringAssignment {
		if _, err := s.destructuringPatternOpened(ctx, patternAssignment, n); err != nil {
			return nil, err
		}
		n.destructAssign = true
		return n, s.failed()
	}
	if kind.IsOrdinaryBlock {
		s.warn("E036", n)
		s.scope.Stack(analysis.ScopeBlock)
		if _, err := s.statements(ctx &^ prodInitial); err != nil {
			return nil, err
		}
		s.scope.Unstack()
		return n, s.advance("}", n)
	}

	props := propertySet{}
	inner := ctx &^ prodNoIn
	for !s.next.is("}") && !s.next.isEnd() {
		name, err := s.objectMember(inner, props)
		if err != nil {
			return nil, err
		}
		if s.fatal != nil {
			return nil, s.fatal
		}
		s.countMember(name)
		if !s.next.is(",") {
			if s.option("trailingcomma") && s.esVersion() >= 5 {
				s.warnAt("W140", s.curr.EndLine(), s.curr.endCol())
			}
			break
		}
		if _, err := s.parseComma(commaOpts{allowTrailing: true, property: true}); err != nil {
			return nil, err
		}
		if s.next.is(",") || s.next.is("}") && s.esVersion() < 5 {
			s.warn("W070", s.curr)
		}
	}
	if err := s.advance("}", n); err != nil {
		return nil, err
	}
	s.checkProperties(props)
	return n, s.failed()
}

// objectMember parses one member of an object literal and returns its
// key, or the empty string for computed keys and spread elements.
func (s *Session) objectMember(ctx prod, props propertySet) (string, error) {
	next := s.next
	switch {
	case s.isShorthand():
		if !s.inES6() {
			s.warn("W104", next, "object short notation", "6")
		}
		t, err := s.expression(ctx, symtab.PrecComma)
		if err != nil || t == nil {
			return "", err
		}
		s.saveProperty(props, t.Value, t, false, false)
		return t.Value, nil

	case (next.Value == "get" || next.Value == "set") && next.identifier && !s.peek(0).is(":") && !s.peek(0).is("("):
		return s.objectAccessor(ctx, props)

	case next.is("..."):
		if s.esVersion() < 9 {
			s.warn("W119", next, "object spread property", "9")
		}
		if err := s.advance("...", nil); err != nil {
			return "", err
		}
		_, err := s.expression(ctx, symtab.PrecComma)
		return "", err
	}

	fctx := ctx
	if next.Value == "async" && next.identifier && !s.peek(0).is("(") && !s.peek(0).is(":") &&
		!s.peek(0).is(",") && !s.peek(0).is("}") {
		if s.esVersion() < 8 {
			s.warn("W119", next, "async functions", "8")
		}
		if err := s.advance("", nil); err != nil {
			return "", err
		}
		s.nolinebreak(s.curr)
		fctx |= prodPreAsync
	}
	generator := false
	if s.next.is("*") {
		switch {
		case fctx.has(prodPreAsync) && s.esVersion() < 9:
			s.warn("W119", s.next, "async generators", "9")
		case !s.inES6():
			s.warn("W104", s.next, "generator functions", "6")
		}
		if err := s.advance("*", nil); err != nil {
			return "", err
		}
		generator = true
	}

	var name string
	if s.next.is("[") {
		key, err := s.computedPropertyName(ctx)
		if err != nil {
			return "", err
		}
		s.nameStack.set(key)
	} else {
		key := s.next
		s.nameStack.set(key)
		var ok bool
		var err error
		name, ok, err = s.propertyName(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			s.warn("E030", s.next, s.next.value())
			return "", s.quit("E041", s.next)
		}
		s.saveProperty(props, name, key, false, false)
	}

	if s.next.is("(") {
		if !s.inES6() {
			s.warn("W104", s.curr, "concise methods", "6")
		}
		o := fnOpts{method: true}
		if generator {
			o.kind = fnGenerator
		}
		_, err := s.doFunction(fctx, o)
		return name, err
	}
	if err := s.advance(":", nil); err != nil {
		return "", err
	}
	_, err := s.expression(ctx, symtab.PrecComma)
	return name, err
}

// objectAccessor parses a get or set member.
func (s *Session) objectAccessor(ctx prod, props propertySet) (string, error) {
	kind := s.next.Value
	if err := s.advance("", nil); err != nil {
		return "", err
	}
	if s.esVersion() < 5 {
		s.warn("E034", s.curr)
	}
	var name string
	if s.next.is("[") {
		key, err := s.computedPropertyName(ctx)
		if err != nil {
			return "", err
		}
		s.nameStack.set(key)
	} else {
		s.nameStack.set(s.next)
		var err error
		if name, _, err = s.propertyName(ctx); err != nil {
			return "", err
		}
		s.saveAccessor(kind, props, name, s.curr, false, false)
	}
	t := s.next
	f, err := s.doFunction(ctx, fnOpts{method: true})
	if err != nil {
		return "", err
	}
	s.checkAccessorParams(kind, name, t, f)
	return name, nil
}

func (s *Session) checkAccessorParams(kind, name string, t *Node, f *Functor) {
	if name == "" {
		return
	}
	switch {
	case kind == "get" && len(f.Params) > 0:
		s.warn("W076", t, f.Params[0], name)
	case kind == "set" && f.Metrics.Parameters != 1:
		s.warn("W077", t, name)
	}
}

// isPunct reports whether n is the punctuator p.
func isPunct(n *Node, p string) bool {
	return n != nil && n.Type == token.PUNCT && n.Value == p
}
