// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// forinifCheck records the shape of the first if statement in the body of
// a for-in loop.
type forinifCheck struct {
	kind forinifKind
}

type forinifKind uint8

const (
	forinNone forinifKind = iota
	forinPositive
	forinNegative
	forinNegativeWithContinue
)

func (s *Session) increaseComplexity() {
	s.funct.Metrics.Complexity++
}

// checkCondAssignment warns about an unparenthesized assignment used as a
// condition.
func (s *Session) checkCondAssignment(n *Node) {
	if n == nil || n.paren {
		return
	}
	if n.is(",") {
		s.checkCondAssignment(n.Right)
		return
	}
	if n.sym.Infix == symtab.InfixAssign && !s.option("boss") {
		s.warn("W084", n)
	}
}

// parseCondition parses a parenthesized condition.
func (s *Session) parseCondition(ctx prod, stmt *Node) (*Node, error) {
	open := s.next
	if err := s.advance("(", nil); err != nil {
		return nil, err
	}
	outer := s.condition
	s.condition = true
	expr, err := s.expression(ctx, 0)
	s.condition = outer
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, s.quit("E041", stmt)
	}
	s.checkCondAssignment(expr)
	return expr, s.advance(")", open)
}

func (s *Session) ifStatement(ctx prod, n *Node) (*Node, error) {
	s.increaseComplexity()
	open := s.next
	if err := s.advance("(", nil); err != nil {
		return nil, err
	}
	outer := s.condition
	s.condition = true
	expr, err := s.expression(ctx, 0)
	s.condition = outer
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, s.quit("E041", n)
	}
	s.checkCondAssignment(expr)

	var check *forinifCheck
	if s.option("forin") && s.forinifcheckneeded {
		s.forinifcheckneeded = false
		check = s.forinifchecks[len(s.forinifchecks)-1]
		if expr.is("!") {
			check.kind = forinNegative
		} else {
			check.kind = forinPositive
		}
	}
	if err := s.advance(")", open); err != nil {
		return nil, err
	}
	body, err := s.block(ctx, blockOrdinary|blockStatement)
	if err != nil {
		return nil, err
	}
	n.stmts = body
	if check != nil && check.kind == forinNegative {
		if len(body) > 0 && body[0].is("continue") {
			check.kind = forinNegativeWithContinue
		}
	}
	if s.next.is("else") {
		if err := s.advance("else", nil); err != nil {
			return nil, err
		}
		if s.next.is("if") || s.next.is("switch") {
			_, err = s.statement(ctx)
		} else {
			_, err = s.block(ctx, blockOrdinary|blockStatement)
		}
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (s *Session) tryStatement(ctx prod, n *Node) (*Node, error) {
	if _, err := s.block(ctx|prodTryClause, blockOrdinary); err != nil {
		return nil, err
	}
	caught := false
	for s.next.is("catch") {
		s.increaseComplexity()
		if caught && !s.option("moz") {
			s.warn("W118", s.next, "multiple catch blocks")
		}
		if err := s.advance("catch", nil); err != nil {
			return nil, err
		}
		param := false
		if !s.next.is("{") {
			s.scope.Stack(analysis.ScopeCatch)
			param = true
			if err := s.catchParameter(ctx); err != nil {
				return nil, err
			}
		} else if s.esVersion() < 10 {
			s.warn("W119", s.curr, "optional catch binding", "10")
		}
		if _, err := s.block(ctx, 0); err != nil {
			return nil, err
		}
		if param {
			s.scope.Unstack()
		}
		caught = true
	}
	if s.next.is("finally") {
		if err := s.advance("finally", nil); err != nil {
			return nil, err
		}
		_, err := s.block(ctx, blockOrdinary)
		return n, err
	}
	if !caught {
		s.warn("E021", s.next, "catch", s.next.value())
	}
	return n, s.failed()
}

func (s *Session) catchParameter(ctx prod) error {
	open := s.next
	if err := s.advance("(", nil); err != nil {
		return err
	}
	switch {
	case s.next.is("[") || s.next.is("{"):
		names, err := s.destructuringPattern(ctx, patternBinding)
		if err != nil {
			return err
		}
		for _, b := range names {
			if b.name != "" {
				s.scope.AddDeclaration(b.name, analysis.SymException, b.tok.Token, 0)
			}
		}
	case s.next.id != symtab.IdentifierID:
		s.warn("E030", s.next, s.next.value())
	default:
		name, err := s.identifier(ctx)
		if err != nil {
			return err
		}
		s.scope.AddDeclaration(name, analysis.SymException, s.curr.Token, 0)
	}
	if s.next.is("if") {
		if !s.option("moz") {
			s.warn("W118", s.curr, "catch filter")
		}
		if err := s.advance("if", nil); err != nil {
			return err
		}
		if _, err := s.expression(ctx, 0); err != nil {
			return err
		}
	}
	return s.advance(")", open)
}

func (s *Session) whileStatement(ctx prod, n *Node) (*Node, error) {
	s.funct.breakage++
	s.funct.loopage++
	s.increaseComplexity()
	if _, err := s.parseCondition(ctx, n); err != nil {
		return nil, err
	}
	body, err := s.block(ctx, blockOrdinary|blockStatement)
	if err != nil {
		return nil, err
	}
	n.stmts = body
	s.funct.breakage--
	s.funct.loopage--
	return n, nil
}

func (s *Session) doStatement(ctx prod, n *Node) (*Node, error) {
	s.funct.breakage++
	s.funct.loopage++
	s.increaseComplexity()
	body, err := s.block(ctx, blockOrdinary|blockStatement)
	if err != nil {
		return nil, err
	}
	n.stmts = body
	if err := s.advance("while", nil); err != nil {
		return nil, err
	}
	if _, err := s.parseCondition(ctx, n); err != nil {
		return nil, err
	}
	s.funct.breakage--
	s.funct.loopage--
	return n, nil
}

func (s *Session) forStatement(ctx prod, n *Node) (*Node, error) {
	var each *Node
	if s.next.Value == "each" && s.next.isPlainIdent() {
		each = s.next
		if err := s.advance("each", nil); err != nil {
			return nil, err
		}
		if !s.option("moz") {
			s.warn("W118", s.curr, "for each")
		}
	}
	isAsync := false
	if s.next.identifier && s.next.Value == "await" {
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
		isAsync = true
		if !ctx.has(prodAsync) && !s.funct.async {
			s.warn("E024", s.curr, "await")
		} else if s.esVersion() < 9 {
			s.warn("W119", s.curr, "asynchronous iteration", "9")
		}
	}
	s.increaseComplexity()
	open := s.next
	if err := s.advance("(", nil); err != nil {
		return nil, err
	}

	var decl, comma, initializer *Node
	letscope := false
	head := ctx | prodNoIn
	afterNext := s.peek(0)
	switch {
	case s.next.is("var"):
		if err := s.advance("var", nil); err != nil {
			return nil, err
		}
		d, err := s.varStatement(head, s.curr)
		if err != nil {
			return nil, err
		}
		decl = d
	case s.next.is("const") ||
		s.next.is("let") && (afterNext.identifier && !afterNext.is("in") || afterNext.is("{") || afterNext.is("[")):
		kw := s.next.id
		if err := s.advance(kw, nil); err != nil {
			return nil, err
		}
		letscope = true
		s.scope.Stack(analysis.ScopeBlock)
		var d *Node
		var err error
		if kw == "const" {
			d, err = s.constStatement(head, s.curr)
		} else {
			d, err = s.letStatement(head, s.curr)
		}
		if err != nil {
			return nil, err
		}
		decl = d
	case !s.next.is(";"):
		var targets []*Node
		for !s.next.is("in") && s.next.Value != "of" && !s.next.is(";") && !s.next.is(")") && !s.next.isEnd() {
			if s.next.is("{") || s.next.is("[") {
				names, err := s.destructuringPattern(head, patternAssignment)
				if err != nil {
					return nil, err
				}
				for _, b := range names {
					targets = append(targets, b.tok)
				}
				if s.next.is("=") {
					if err := s.advance("=", nil); err != nil {
						return nil, err
					}
					initializer = s.curr
					if _, err := s.expression(head, symtab.PrecComma); err != nil {
						return nil, err
					}
				}
			} else {
				target, err := s.expression(head, symtab.PrecComma)
				if err != nil {
					return nil, err
				}
				switch {
				case target.isPlainIdent():
					targets = append(targets, target)
				case target.is("="):
					initializer = target
					targets = append(targets, target)
				}
			}
			if s.next.is(",") {
				if err := s.advance(",", nil); err != nil {
					return nil, err
				}
				if comma == nil {
					comma = s.curr
				}
			}
		}
		if initializer == nil && comma == nil {
			for _, t := range targets {
				if t.isPlainIdent() && !s.scope.Has(t.Value) {
					s.warn("W088", t, t.Value)
				}
			}
		}
	}
	if decl != nil {
		comma = decl.comma
		if decl.hasInit {
			initializer = decl
		}
	}

	nextop := s.next
	if isAsync && nextop.Value != "of" {
		s.warn("E066", nextop)
	}
	if nextop.is("in") || nextop.Value == "of" && nextop.isPlainIdent() {
		rbp := 0
		if nextop.Value == "of" {
			rbp = symtab.PrecAssign
			if !s.inES6() {
				s.warn("W104", nextop, "for of", "6")
			}
		}
		if comma != nil {
			s.warn("W133", comma, nextop.Value, "more than one ForBinding")
		}
		if initializer != nil {
			s.warn("W133", initializer, nextop.Value, "initializer is forbidden")
		}
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
		if _, err := s.expression(ctx, rbp); err != nil {
			return nil, err
		}
		if err := s.advance(")", open); err != nil {
			return nil, err
		}
		forin := nextop.is("in") && s.option("forin")
		if forin {
			s.forinifcheckneeded = true
			s.forinifchecks = append(s.forinifchecks, &forinifCheck{})
		}
		s.funct.breakage++
		s.funct.loopage++
		body, err := s.block(ctx, blockOrdinary|blockStatement)
		if err != nil {
			return nil, err
		}
		n.stmts = body
		if forin {
			check := s.forinifchecks[len(s.forinifchecks)-1]
			s.forinifchecks = s.forinifchecks[:len(s.forinifchecks)-1]
			if len(body) > 0 && !body[0].is("if") ||
				check.kind == forinPositive && len(body) > 1 ||
				check.kind == forinNegative {
				s.warn("W089", n)
			}
			s.forinifcheckneeded = false
		}
		s.funct.breakage--
		s.funct.loopage--
	} else {
		if each != nil {
			s.warn("E045", each)
		}
		if err := s.advance(";", nil); err != nil {
			return nil, err
		}
		if decl != nil && decl.is("const") && !decl.hasInit && len(decl.names) > 0 {
			s.warn("E012", decl, decl.names[0].Value)
		}
		s.funct.loopage++
		if !s.next.is(";") {
			outer := s.condition
			s.condition = true
			test, err := s.expression(ctx, 0)
			s.condition = outer
			if err != nil {
				return nil, err
			}
			s.checkCondAssignment(test)
		}
		if err := s.advance(";", nil); err != nil {
			return nil, err
		}
		if s.next.is(";") {
			s.warn("E021", s.next, ")", ";")
		}
		if !s.next.is(")") {
			for {
				if _, err := s.expression(ctx, 0); err != nil {
					return nil, err
				}
				if !s.next.is(",") {
					break
				}
				if err := s.advance(",", nil); err != nil {
					return nil, err
				}
				if !s.checkComma(commaOpts{}) {
					break
				}
			}
		}
		if err := s.advance(")", open); err != nil {
			return nil, err
		}
		s.funct.breakage++
		body, err := s.block(ctx, blockOrdinary|blockStatement)
		if err != nil {
			return nil, err
		}
		n.stmts = body
		s.funct.breakage--
		s.funct.loopage--
	}
	if letscope {
		s.scope.Unstack()
	}
	return n, nil
}

func (s *Session) switchStatement(ctx prod, n *Node) (*Node, error) {
	s.funct.breakage++
	if _, err := s.parseCondition(ctx, n); err != nil {
		return nil, err
	}
	open := s.next
	if err := s.advance("{", nil); err != nil {
		return nil, err
	}
	s.scope.Stack(analysis.ScopeBlock)

	var cases []*Node
	g := false
	for {
		switch {
		case s.next.is("case"):
			switch s.funct.verb {
			case "yield", "break", "case", "continue", "return", "switch", "throw":
			case "default":
				if s.option("leanswitch") {
					s.warn("W145", s.next)
				}
			default:
				if !s.next.fallsThrough {
					s.warn("W086", s.curr, "case")
				}
			}
			if err := s.advance("case", nil); err != nil {
				return nil, err
			}
			c, err := s.expression(ctx, 0)
			if err != nil {
				return nil, err
			}
			cases = append(cases, c)
			s.increaseComplexity()
			g = true
			if err := s.advance(":", nil); err != nil {
				return nil, err
			}
			s.funct.verb = "case"

		case s.next.is("default"):
			switch s.funct.verb {
			case "yield", "break", "continue", "return", "throw":
			case "case":
				if s.option("leanswitch") {
					s.warn("W145", s.curr)
				}
			default:
				if len(cases) > 0 && !s.next.fallsThrough {
					s.warn("W086", s.curr, "default")
				}
			}
			if err := s.advance("default", nil); err != nil {
				return nil, err
			}
			g = true
			if err := s.advance(":", nil); err != nil {
				return nil, err
			}
			s.funct.verb = "default"

		case s.next.is("}"):
			if err := s.advance("}", open); err != nil {
				return nil, err
			}
			s.scope.Unstack()
			s.funct.breakage--
			s.funct.verb = ""
			n.stmts = cases
			return n, nil

		case s.next.isEnd():
			s.warn("E023", s.next, "}")
			return n, s.failed()

		default:
			if !g {
				s.warn("E021", s.next, "case", s.next.value())
				return n, s.failed()
			}
			switch {
			case s.curr.is(","):
				s.warn("E040", s.curr)
				return n, s.failed()
			case s.curr.is(":"):
				g = false
				if _, err := s.statements(ctx); err != nil {
					return nil, err
				}
			default:
				s.warn("E025", s.curr)
				return n, s.failed()
			}
		}
	}
}

func (s *Session) withStatement(ctx prod, n *Node) (*Node, error) {
	if s.isStrict() {
		s.warn("E010", s.curr)
	} else if !s.option("withstmt") {
		s.warn("W085", s.curr)
	}
	open := s.next
	if err := s.advance("(", nil); err != nil {
		return nil, err
	}
	if _, err := s.expression(ctx, 0); err != nil {
		return nil, err
	}
	if err := s.advance(")", open); err != nil {
		return nil, err
	}
	_, err := s.block(ctx, blockOrdinary|blockStatement)
	return n, err
}

func (s *Session) breakStatement(ctx prod, n *Node) (*Node, error) {
	v := s.next.Value
	if !s.option("asi") {
		s.nolinebreak(n)
	}
	if s.next.isPlainIdent() && sameLine(s.curr, s.next) {
		if !s.scope.HasBreakLabel(v) {
			s.warn("W090", s.next, v)
		}
		n.first = s.next
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
	} else if s.funct.breakage == 0 {
		s.warn("W052", s.next, n.Value)
	}
	s.reachable(n)
	return n, s.failed()
}

func (s *Session) continueStatement(ctx prod, n *Node) (*Node, error) {
	v := s.next.Value
	if s.funct.breakage == 0 || s.funct.loopage == 0 {
		s.warn("W052", s.next, n.Value)
	}
	if !s.option("asi") {
		s.nolinebreak(n)
	}
	if s.next.isPlainIdent() && sameLine(s.curr, s.next) {
		if !s.scope.HasBreakLabel(v) {
			s.warn("W090", s.next, v)
		}
		n.first = s.next
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
	}
	s.reachable(n)
	return n, s.failed()
}

func (s *Session) returnStatement(ctx prod, n *Node) (*Node, error) {
	if sameLine(n, s.next) {
		if !s.next.is(";") && !s.next.sym.Reach && !s.next.isEnd() {
			first, err := s.expression(ctx, 0)
			if err != nil {
				return nil, err
			}
			n.first = first
			if first.is("=") && !first.paren && !s.option("boss") {
				s.warn("W093", first)
			}
			if s.option("noreturnawait") && (ctx.has(prodAsync) || s.funct.async) && !ctx.has(prodTryClause) && first.is("await") {
				s.warn("W146", first)
			}
		}
	} else if s.next.Type == token.PUNCT {
		switch s.next.Value {
		case "[", "{", "+", "-":
			s.nolinebreak(n)
		}
	}
	s.reachable(n)
	return n, s.failed()
}

func (s *Session) throwStatement(ctx prod, n *Node) (*Node, error) {
	s.nolinebreak(n)
	first, err := s.expression(ctx, symtab.PrecAssign)
	if err != nil {
		return nil, err
	}
	n.first = first
	s.reachable(n)
	return n, s.failed()
}

func (s *Session) debuggerStatement(ctx prod, n *Node) (*Node, error) {
	if !s.option("debug") {
		s.warn("W087", n)
	}
	return n, nil
}
