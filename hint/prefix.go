// Copyright © 2024 The ELPS authors

package hint

import (
	"regexp"

	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// optionalIdentifier consumes next when it is a word.  Property names
// (isName) may be any word; binding names that are reserved in the current
// context are reported but accepted.
func (s *Session) optionalIdentifier(ctx prod, isName, fnparam bool) (string, bool, error) {
	if !s.next.identifier {
		return "", false, nil
	}
	if err := s.advance("", nil); err != nil {
		return "", false, err
	}
	curr := s.curr
	if isName || !s.isReserved(ctx, curr) {
		return curr.Value, true, nil
	}
	if !fnparam || curr.Value != "undefined" {
		s.warn("W024", curr, curr.id)
	}
	return curr.Value, true, s.failed()
}

// identifier consumes a binding name, reporting anything else.
func (s *Session) identifier(ctx prod) (string, error) {
	name, ok, err := s.optionalIdentifier(ctx, false, false)
	if err != nil || ok {
		return name, err
	}
	s.warn("E030", s.next, s.next.value())
	if !s.next.is(";") && !s.next.isEnd() {
		return "", s.advance("", nil)
	}
	return "", s.failed()
}

// propertyName consumes a literal property key.  ok is false when next is
// not a word, string or number.
func (s *Session) propertyName(ctx prod) (string, bool, error) {
	switch {
	case s.next.identifier:
		name, _, err := s.optionalIdentifier(ctx, true, false)
		return name, true, err
	case s.next.Type == token.STRING || s.next.Type == token.NUMBER:
		if err := s.advance("", nil); err != nil {
			return "", false, err
		}
		return s.curr.Value, true, nil
	}
	return "", false, nil
}

// computedPropertyName parses a bracketed key expression.
func (s *Session) computedPropertyName(ctx prod) (*Node, error) {
	open := s.next
	if err := s.advance("[", nil); err != nil {
		return nil, err
	}
	if !s.inES6() {
		s.warn("W119", s.curr, "computed property names", "6")
	}
	key, err := s.expression(ctx&^prodNoIn, symtab.PrecComma)
	if err != nil {
		return nil, err
	}
	return key, s.advance("]", open)
}

// spreadRest consumes a leading '...'.
func (s *Session) spreadRest(what string) (bool, error) {
	if !s.next.is("...") {
		return false, nil
	}
	if !s.inES6() {
		s.warn("W119", s.next, what+" operator", "6")
	}
	return true, s.advance("...", nil)
}

func (s *Session) identifierNud(ctx prod, n *Node) (*Node, error) {
	if n.id != symtab.IdentifierID && !n.isProperty && s.isReserved(ctx, n) {
		s.warn("W024", n, n.id)
	}
	if s.next.is("=>") {
		// The arrow binds the name as a parameter.
		return n, s.failed()
	}
	if !n.isProperty {
		s.scope.Use(n.Value, n.Token)
	}
	return n, s.failed()
}

func (s *Session) templateNud(ctx prod, n *Node) (*Node, error) {
	if !s.inES6() {
		s.warn("W119", n, "template literal syntax", "6")
	}
	return n, s.templateSubstitutions(ctx, n)
}

// templateSubstitutions parses the substitutions following a template
// head up to the template tail.
func (s *Session) templateSubstitutions(ctx prod, head *Node) error {
	if head.Type != token.TEMPLATE {
		return nil
	}
	for {
		if _, err := s.expression(ctx&^prodNoIn, 0); err != nil {
			return err
		}
		switch s.next.Type {
		case token.TEMPLATE_MIDDLE:
			if err := s.advance("", nil); err != nil {
				return err
			}
		case token.TEMPLATE_TAIL:
			return s.advance("", nil)
		default:
			s.warn("E052", head)
			return s.quit("E041", s.next)
		}
	}
}

func (s *Session) thisNud(ctx prod, n *Node) (*Node, error) {
	f := s.funct
	if s.isStrict() && !f.method && !s.option("validthis") {
		if f.statement && f.Name != "" && f.Name[0] > 'Z' || f.global {
			s.warn("W040", n)
		}
	}
	return n, s.failed()
}

func (s *Session) superNud(ctx prod, n *Node) (*Node, error) {
	f := s.funct.closure()
	switch {
	case s.next.is("(") || s.next.is("?."):
		if f == nil || !f.classMethod {
			s.warn("E064", n)
		}
	case s.next.is(".") || s.next.is("["):
		if f == nil || !f.method {
			s.warn("E063", n)
		}
	default:
		s.warn("E024", s.next, s.next.value())
	}
	return n, s.failed()
}

// confusingBang lists the operators that read ambiguously after '!'.
var confusingBang = map[string]bool{
	"<": true, "<=": true, "==": true, "===": true, "!==": true, "!=": true,
	">": true, ">=": true, "+": true, "-": true, "*": true, "/": true, "%": true,
}

func (s *Session) unaryNud(ctx prod, n *Node) (*Node, error) {
	n.unary = true
	operand, err := s.expression(ctx, symtab.PrecUnary)
	if err != nil {
		return nil, err
	}
	if operand == nil {
		return nil, s.quit("E041", n)
	}
	n.first = operand
	switch n.id {
	case "!":
		if confusingBang[operand.id] && !operand.unary {
			s.warn("W018", n, "!")
		}
	case "~":
		if s.option("bitwise") {
			s.warn("W016", n, "~")
		}
	case "+":
		if operand.is("+") && operand.unary || operand.is("++") {
			s.warn("W007", n)
		}
	case "-":
		if operand.is("-") && operand.unary || operand.is("--") {
			s.warn("W006", n)
		}
	case "typeof":
		if operand.isIdent() {
			operand.forgiveUndef = true
			s.scope.Forgive(operand.Token)
		}
	}
	return n, s.failed()
}

func (s *Session) deleteNud(ctx prod, n *Node) (*Node, error) {
	n.unary = true
	operand, err := s.expression(ctx, symtab.PrecUnary)
	if err != nil || operand == nil {
		return n, err
	}
	n.first = operand
	if !operand.is(".") && !operand.is("[") && !operand.is("?.") {
		s.warn("W051", n)
	}
	if operand.isIdent() && !s.isStrict() {
		operand.forgiveUndef = true
		s.scope.Forgive(operand.Token)
	}
	return n, s.failed()
}

func (s *Session) incDecNud(ctx prod, n *Node) (*Node, error) {
	n.unary = true
	operand, err := s.expression(ctx, symtab.PrecUnary)
	if err != nil {
		return nil, err
	}
	if operand == nil {
		return nil, s.quit("E041", n)
	}
	n.first = operand
	s.checkIncDecOperand(ctx, n, operand)
	return n, s.failed()
}

// checkIncDecOperand applies the checks shared by prefix and postfix ++
// and --.
func (s *Session) checkIncDecOperand(ctx prod, n, operand *Node) {
	switch {
	case s.option("plusplus"):
		s.warn("W016", n, n.id)
	case (!operand.isIdent() || s.isReserved(ctx, operand)) && !operand.is(".") && !operand.is("["):
		s.warn("W017", n)
	}
	if operand.isPlainIdent() {
		s.scope.Reassign(operand.Value, operand.Token)
	}
}

// integerLiteral matches number literals a dot would continue.
var integerLiteral = regexp.MustCompile(`^[0-9]+$`)

func (s *Session) parenNud(ctx prod, n *Node, rbp int) (*Node, error) {
	opening := n
	preceding := s.prev
	necessary := !s.option("singleGroups")
	pn := s.peekThroughParens(1)

	triggerFnExpr := false
	if s.next.is("function") {
		s.next.immed = true
		triggerFnExpr = true
	}
	if pn.is("=>") {
		f, err := s.doFunction(ctx, fnOpts{kind: fnArrow, parsedOpening: true})
		if err != nil {
			return nil, err
		}
		pn.funct = f
		return pn, nil
	}
	if s.next.is(")") {
		// An empty group is only valid as arrow parameters.
		s.warn("E024", s.next, ")")
		return nil, s.advance(")", nil)
	}

	ret, err := s.expression(ctx&^prodNoIn, 0)
	if err != nil {
		return nil, err
	}
	if err := s.advance(")", opening); err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, s.failed()
	}
	if s.option("immed") && ret.is("function") &&
		!s.next.is("(") && !s.next.is(".") && !s.next.is("[") {
		s.warn("W068", opening)
	}

	first, last := ret, ret
	if ret.is(",") {
		first = ret.Left
		for first.is(",") {
			first = first.Left
		}
		last = ret.Right
	} else if !necessary {
		if !triggerFnExpr {
			triggerFnExpr = ret.is("async")
		}
		necessary = opening.beginsStmt && (ret.is("{") || triggerFnExpr) ||
			triggerFnExpr && (!s.isEndOfExpr(ctx, s.curr, s.next) || !s.prev.is("}")) ||
			ret.is("=>") && !s.isEndOfExpr(ctx, s.curr, s.next) ||
			ret.is("{") && preceding.is("=>") ||
			beginsUnaryExpression(ret) && s.next.is("**") ||
			preceding.is("??") && (ret.is("&&") || ret.is("||")) ||
			ret.Type == token.NUMBER && s.next.is(".") && integerLiteral.MatchString(ret.Text) ||
			opening.beginsStmt && ret.is("=") && ret.Left.is("{") ||
			ret.is("?.") && (preceding.is("new") || s.next.Type.IsTemplate())
	}
	if !necessary && (isOperator(first) || ret != first) {
		necessary = rbp > first.sym.LBP ||
			rbp > 0 && rbp == first.sym.LBP ||
			!s.isEndOfExpr(ctx, s.curr, s.next) && last.sym.RBP < s.next.sym.LBP
	}
	if !necessary {
		s.warn("W126", opening)
	}
	ret.paren = true
	return ret, s.failed()
}

// isOperator reports whether n was produced by an operator rather than
// being a lone operand.
func isOperator(n *Node) bool {
	return n.first != nil || n.Left != nil || n.Right != nil || n.is("yield") || n.is("await")
}

func beginsUnaryExpression(n *Node) bool {
	return n.unary && !n.is("++") && !n.is("--")
}

func (s *Session) arrayNud(ctx prod, n *Node) (*Node, error) {
	kind := s.classifyOpeningBracket()
	switch {
	case kind.IsComprehension:
		if !s.option("moz") {
			s.warn("W118", n, "array comprehension")
		}
		return s.comprehension(ctx, n)
	case kind.IsDestructuringAssignment:
		if _, err := s.destructuringPatternOpened(ctx, patternAssignment, n); err != nil {
			return nil, err
		}
		n.destructAssign = true
		return n, nil
	}

	inner := ctx &^ prodNoIn
	for !s.next.isEnd() {
		for s.next.is(",") {
			if !s.option("elision") {
				if s.esVersion() < 5 {
					s.warn("W070", s.next)
				} else {
					s.warn("W128", s.next)
					for s.next.is(",") {
						if err := s.advance(",", nil); err != nil {
							return nil, err
						}
					}
					continue
				}
			}
			if err := s.advance(",", nil); err != nil {
				return nil, err
			}
		}
		if s.next.is("]") {
			break
		}
		if _, err := s.spreadRest("spread"); err != nil {
			return nil, err
		}
		elem, err := s.expression(inner, symtab.PrecComma)
		if err != nil {
			return nil, err
		}
		n.list = append(n.list, elem)
		if !s.next.is(",") {
			if s.option("trailingcomma") && s.inES6() {
				s.warnAt("W140", s.curr.EndLine(), s.curr.endCol())
			}
			break
		}
		ok, err := s.parseComma(commaOpts{allowTrailing: true})
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if s.next.is("]") && s.esVersion() < 5 {
			s.warn("W070", s.curr)
			break
		}
	}
	return n, s.advance("]", n)
}

// comprehension parses the body of an array comprehension.  The loop
// bindings are visible to the whole comprehension, including the result
// expression that precedes them.
func (s *Session) comprehension(ctx prod, n *Node) (*Node, error) {
	s.scope.Stack(analysis.ScopeBlock)
	for !s.next.is("]") && !s.next.isEnd() {
		switch {
		case s.next.is("for"):
			if err := s.comprehensionFor(ctx); err != nil {
				return nil, err
			}
		case s.next.is("if"):
			if err := s.advance("if", nil); err != nil {
				return nil, err
			}
			if _, err := s.parseCondition(ctx, s.curr); err != nil {
				return nil, err
			}
		default:
			if _, err := s.expression(ctx, symtab.PrecComma); err != nil {
				return nil, err
			}
		}
	}
	s.scope.Unstack()
	return n, s.advance("]", n)
}

func (s *Session) comprehensionFor(ctx prod) error {
	if err := s.advance("for", nil); err != nil {
		return err
	}
	if s.next.Value == "each" {
		if err := s.advance("", nil); err != nil {
			return err
		}
	}
	open := s.next
	if err := s.advance("(", nil); err != nil {
		return err
	}
	if s.next.is("[") || s.next.is("{") {
		names, err := s.destructuringPattern(ctx, patternBinding)
		if err != nil {
			return err
		}
		for _, b := range names {
			if b.name != "" {
				s.scope.AddParameter(b.name, b.tok.Token)
			}
		}
	} else {
		name, err := s.identifier(ctx)
		if err != nil {
			return err
		}
		if name != "" {
			s.scope.AddParameter(name, s.curr.Token)
		}
	}
	if s.next.Value != "of" && !s.next.is("in") {
		s.warn("E021", s.next, "of", s.next.value())
		return s.failed()
	}
	if err := s.advance("", nil); err != nil {
		return err
	}
	if _, err := s.expression(ctx, 0); err != nil {
		return err
	}
	return s.advance(")", open)
}

func (s *Session) newNud(ctx prod, n *Node) (*Node, error) {
	if s.next.is(".") && s.peek(0).Value == "target" {
		return s.newTarget(n)
	}
	c, err := s.expression(ctx, symtab.PrecCall)
	if err != nil || c == nil {
		return n, err
	}
	n.first = c
	n.Right = c
	if !c.paren && c.sym.RBP > symtab.PrecMember {
		s.warn("E024", n, n.value())
	}
	switch {
	case c.is("function"):
		if !s.option("supernew") {
			s.warn("W057", n)
		}
	case c.isIdent():
		switch c.Value {
		case "Number", "String", "Boolean", "Math", "JSON":
			s.warn("W053", s.prev, c.Value)
		case "Symbol":
			if s.inES6() {
				s.warn("W053", s.prev, c.Value)
			}
		case "Function":
			if !s.option("evil") {
				s.warn("W054", c)
			}
		case "Date", "RegExp", "this":
		default:
			if i := c.Value[0]; s.option("newcap") && (i < 'A' || i > 'Z') && !s.scope.IsPredefined(c.Value) {
				s.warn("W055", s.curr)
			}
		}
	case !c.is(".") && !c.is("[") && !c.is("(") && !c.is("?."):
		s.warn("W056", s.curr)
	}
	if !s.next.is("(") && !s.option("supernew") {
		s.warn("W058", s.curr, s.curr.value())
	}
	return n, s.failed()
}

func (s *Session) newTarget(n *Node) (*Node, error) {
	if err := s.advance(".", nil); err != nil {
		return nil, err
	}
	if err := s.advance("", nil); err != nil {
		return nil, err
	}
	if !s.inES6() {
		s.warn("W119", n, "new.target", "6")
	}
	inFunction := false
	for c := s.funct; c != nil; c = c.parent {
		inFunction = !c.global
		if !c.arrow {
			break
		}
	}
	if !inFunction {
		s.warn("W136", n, "new.target")
	}
	n.Right = s.curr
	return n, s.failed()
}

func (s *Session) yieldNud(ctx prod, n *Node) (*Node, error) {
	if !ctx.has(prodYield) && !s.funct.generator {
		if s.isStrict() {
			s.warn("E046", n)
		} else {
			n.exps = false
			return s.identifierNud(ctx, n)
		}
	}
	prev := s.prev
	if !n.beginsStmt && prev.sym.LBP > symtab.PrecTernary && !prev.is("(") {
		s.warn("E061", n)
	}
	if !s.inES6() {
		s.warn("W104", n, "yield", "6")
	}
	s.funct.yielded = true
	delegate := false
	if s.next.is("*") {
		delegate = true
		if err := s.advance("*", nil); err != nil {
			return nil, err
		}
	}
	if delegate || sameLine(s.curr, s.next) {
		switch {
		case s.next.sym.Prefix != symtab.PrefixNone:
			first, err := s.expression(ctx, symtab.PrecComma)
			if err != nil {
				return nil, err
			}
			n.first = first
			if first != nil && first.is("=") && !first.paren && !s.option("boss") {
				s.warn("W093", first)
			}
		case s.next.sym.IsInfix() && !s.next.is(","):
			s.warn("W017", s.next)
		}
	}
	return n, s.failed()
}

func (s *Session) awaitNud(ctx prod, n *Node) (*Node, error) {
	if !ctx.has(prodAsync) && !s.funct.async {
		if s.option("module") {
			s.warn("E024", n, "await")
		} else {
			n.exps = false
			return s.identifierNud(ctx, n)
		}
	}
	first, err := s.expression(ctx, symtab.PrecUnary)
	if err != nil {
		return nil, err
	}
	n.first = first
	n.unary = true
	return n, s.failed()
}

// isAsyncFunction reports whether the async word curr begins an async
// function or arrow.
func (s *Session) isAsyncFunction(curr *Node) bool {
	next := s.next
	if !sameLine(curr, next) {
		return false
	}
	switch {
	case next.is("function"):
		return true
	case next.is("("):
		return s.peekThroughParens(0).is("=>")
	case next.identifier:
		return s.peek(0).is("=>")
	}
	return false
}

func (s *Session) asyncNud(ctx prod, n *Node) (*Node, error) {
	if !s.isAsyncFunction(n) {
		n.exps = false
		return s.identifierNud(ctx, n)
	}
	if s.esVersion() < 8 {
		s.warn("W119", n, "async functions", "8")
	}
	switch {
	case s.next.is("function"):
		if err := s.advance("function", nil); err != nil {
			return nil, err
		}
		return s.functionNud(ctx|prodPreAsync, s.curr)
	case s.next.is("("):
		if err := s.advance("(", nil); err != nil {
			return nil, err
		}
		f, err := s.doFunction(ctx|prodPreAsync, fnOpts{kind: fnArrow, parsedOpening: true})
		if err != nil {
			return nil, err
		}
		n.funct = f
		n.exps = true
		return n, nil
	default:
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
		param := s.curr
		if err := s.advance("=>", nil); err != nil {
			return nil, err
		}
		f, err := s.doFunction(ctx|prodPreAsync, fnOpts{kind: fnArrow, loneArg: param})
		if err != nil {
			return nil, err
		}
		n.funct = f
		n.exps = true
		return n, nil
	}
}

func (s *Session) importNud(ctx prod, n *Node) (*Node, error) {
	if s.next.is(".") {
		if err := s.advance(".", nil); err != nil {
			return nil, err
		}
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
		if s.curr.Value != "meta" {
			s.warn("E057", s.curr, "import", s.curr.value())
		}
		if s.esVersion() < 11 {
			s.warn("W119", n, "import.meta", "11")
		}
		if !s.option("module") {
			s.warn("E024", n, "import")
		}
		n.Right = s.curr
		return n, s.failed()
	}
	if s.esVersion() < 11 {
		s.warn("W119", n, "dynamic import", "11")
	}
	if !s.next.is("(") {
		s.warn("E021", s.next, "(", s.next.value())
	}
	return n, s.failed()
}
