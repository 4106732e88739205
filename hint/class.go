// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/symtab"
)

func (s *Session) classStatement(ctx prod, n *Node) (*Node, error) {
	n.declaration = true
	n.block = true
	if !s.inES6() {
		s.warn("W104", s.curr, "class", "6")
	}
	wasInClassBody := s.inClassBody
	s.inClassBody = true
	defer func() { s.inClassBody = wasInClassBody }()

	var name *Node
	if s.next.identifier && s.next.Value != "extends" {
		if _, err := s.identifier(ctx); err != nil {
			return nil, err
		}
		name = s.curr
		s.scope.AddDeclaration(name.Value, analysis.SymClass, name.Token, 0)
		n.names = []*Node{name}
	} else if !ctx.has(prodExport) {
		s.warn("E024", s.next, s.next.value())
	}
	if err := s.classTail(ctx, n); err != nil {
		return nil, err
	}
	return n, s.failed()
}

func (s *Session) classExpression(ctx prod, n *Node) (*Node, error) {
	if !s.inES6() {
		s.warn("W104", s.curr, "class", "6")
	}
	wasInClassBody := s.inClassBody
	s.inClassBody = true
	defer func() { s.inClassBody = wasInClassBody }()

	var binding string
	if s.next.identifier && s.next.Value != "extends" {
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
		binding = s.curr.Value
		if s.isReserved(ctx, s.curr) {
			s.warn("W024", s.curr, s.curr.id)
		}
	}
	s.scope.Stack(analysis.ScopeBlock)
	if binding != "" {
		s.scope.AddDeclaration(binding, analysis.SymClass, s.curr.Token, analysis.DeclNoUnused)
	}
	if err := s.classTail(ctx, n); err != nil {
		return nil, err
	}
	s.scope.Unstack()
	return n, s.failed()
}

// classTail parses the optional heritage and the body of a class.
func (s *Session) classTail(ctx prod, n *Node) error {
	if s.next.Value == "extends" && s.next.identifier {
		if err := s.advance("", nil); err != nil {
			return err
		}
		heritage, err := s.expression(ctx&^prodExport, symtab.PrecComma)
		if err != nil {
			return err
		}
		n.Left = heritage
	}
	open := s.next
	if err := s.advance("{", nil); err != nil {
		return err
	}
	if err := s.classBody(ctx &^ prodExport); err != nil {
		return err
	}
	return s.advance("}", open)
}

// classBody parses class members up to the closing brace.
func (s *Session) classBody(ctx prod) error {
	props := propertySet{}
	staticProps := propertySet{}
	hasConstructor := false
	for !s.next.is("}") && !s.next.isEnd() {
		mctx := ctx &^ prodPreAsync
		isStatic := false
		generator := false

		if s.next.Value == "static" && s.next.identifier && !isPunct(s.peek(0), "(") {
			isStatic = true
			if err := s.advance("", nil); err != nil {
				return err
			}
		}
		if s.next.Value == "async" && s.next.identifier && !isPunct(s.peek(0), "(") {
			mctx |= prodPreAsync
			if err := s.advance("", nil); err != nil {
				return err
			}
			s.nolinebreak(s.curr)
			if isPunct(s.next, "*") {
				generator = true
				if err := s.advance("*", nil); err != nil {
					return err
				}
				if s.esVersion() < 9 {
					s.warn("W119", s.next, "async generators", "9")
				}
			}
			if s.esVersion() < 8 {
				s.warn("W119", s.curr, "async functions", "8")
			}
		}
		if isPunct(s.next, "*") {
			generator = true
			if err := s.advance("*", nil); err != nil {
				return err
			}
		}

		tok := s.next
		accessor := ""
		if (tok.Value == "get" || tok.Value == "set") && tok.identifier && !isPunct(s.peek(0), "(") {
			if generator {
				s.warn("E024", tok, tok.Value)
			}
			accessor = tok.Value
			if err := s.advance("", nil); err != nil {
				return err
			}
			tok = s.next
			switch {
			case !isStatic && tok.Value == "constructor":
				s.warn("E049", tok, "class "+accessor+"ter method", tok.Value)
			case isStatic && tok.Value == "prototype":
				s.warn("E049", tok, "static class "+accessor+"ter method", tok.Value)
			}
		}

		set := props
		if isStatic {
			set = staticProps
		}
		switch {
		case tok.is(";"):
			s.warn("W032", tok)
			if err := s.advance(";", nil); err != nil {
				return err
			}
			continue
		case tok.Value == "constructor" && tok.identifier && !isStatic:
			if generator || mctx.has(prodPreAsync) || hasConstructor {
				s.warn("E024", tok, tok.Value)
			} else {
				hasConstructor = accessor == ""
			}
			if err := s.advance("", nil); err != nil {
				return err
			}
			if err := s.doMethod(mctx, s.nameStack.infer(), generator); err != nil {
				return err
			}
			continue
		case tok.is("["):
			key, err := s.computedPropertyName(mctx)
			if err != nil {
				return err
			}
			s.nameStack.set(key)
			if err := s.doMethod(mctx, "", generator); err != nil {
				return err
			}
			continue
		}

		s.nameStack.set(tok)
		name, ok, err := s.propertyName(mctx)
		if err != nil {
			return err
		}
		if !ok {
			s.warn("E024", tok, tok.value())
			if err := s.advance("", nil); err != nil {
				return err
			}
			continue
		}
		if accessor != "" {
			s.saveAccessor(accessor, set, name, tok, true, isStatic)
		} else {
			if isStatic && name == "prototype" {
				s.warn("E049", tok, "static class method", name)
			}
			s.saveProperty(set, name, tok, true, isStatic)
		}
		t := s.next
		f, err := s.doMethodFunctor(mctx, "", generator)
		if err != nil {
			return err
		}
		if accessor != "" && f != nil {
			s.checkAccessorParams(accessor, name, t, f)
		}
		if s.fatal != nil {
			return s.fatal
		}
	}
	s.checkProperties(props)
	s.checkProperties(staticProps)
	return s.failed()
}

// doMethod parses the parameters and body of a class method.
func (s *Session) doMethod(ctx prod, name string, generator bool) error {
	_, err := s.doMethodFunctor(ctx, name, generator)
	return err
}

func (s *Session) doMethodFunctor(ctx prod, name string, generator bool) (*Functor, error) {
	if generator && !s.inES6() {
		s.warn("W119", s.curr, "function*", "6")
	}
	if !s.next.is("(") {
		s.warn("E054", s.next, s.next.value())
		for !s.next.is("(") {
			if s.next.is("}") || s.next.is(";") || s.next.isEnd() {
				return nil, s.failed()
			}
			if err := s.advance("", nil); err != nil {
				return nil, err
			}
		}
	}
	o := fnOpts{
		name:        name,
		method:      true,
		classMethod: true,
	}
	if generator {
		o.kind = fnGenerator
	}
	return s.doFunction(ctx, o)
}
