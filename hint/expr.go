// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// prod carries the syntactic context parameters of a production.
type prod uint

const (
	// prodInitial marks the expression that begins a statement.
	prodInitial prod = 1 << iota
	// prodNoIn disallows the in operator, as in for loop heads.
	prodNoIn
	prodYield
	prodAsync
	prodPreAsync
	prodTryClause
	prodExport
)

func (p prod) has(f prod) bool {
	return p&f != 0
}

// enter counts one level of syntactic nesting.  Exceeding maxnesting stops
// the parse.
func (s *Session) enter() error {
	s.depth++
	if s.depth > s.funct.options.MaxNesting() {
		s.abort("E080", s.next.Line())
		return s.fatal
	}
	return nil
}

func (s *Session) leave() {
	s.depth--
}

// failed returns the fatal error, if any, as an error value.
func (s *Session) failed() error {
	if s.fatal != nil {
		return s.fatal
	}
	return nil
}

// expression parses an expression whose operators bind tighter than rbp.
// The returned node is nil when no operand could be parsed.
func (s *Session) expression(ctx prod, rbp int) (*Node, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()
	initial := ctx.has(prodInitial)
	ctx &^= prodInitial

	s.nameStack.push()
	defer s.nameStack.pop()

	if s.next.isEnd() {
		s.warn("E006", s.curr)
		return nil, s.failed()
	}

	letExpr := false
	if s.next.is("let") && s.peek(0).is("(") {
		if !s.option("moz") {
			s.warn("W118", s.next, "let expressions")
		}
		letExpr = true
		s.scope.Stack(analysis.ScopeBlock)
		let := s.next
		if err := s.advance("let", nil); err != nil {
			return nil, err
		}
		if err := s.advance("(", nil); err != nil {
			return nil, err
		}
		if err := s.declarations(ctx, let, analysis.SymLet); err != nil {
			return nil, err
		}
		if err := s.advance(")", nil); err != nil {
			return nil, err
		}
	}

	if err := s.advance("", nil); err != nil {
		return nil, err
	}
	curr := s.curr
	if initial {
		s.funct.verb = curr.value()
		curr.beginsStmt = true
	}

	var left *Node
	var err error
	if initial && curr.sym.Stmt != symtab.StmtNone && s.useFud(ctx, curr) {
		left, err = s.fud(ctx, curr)
		if err != nil {
			return nil, err
		}
	} else {
		if curr.sym.Prefix != symtab.PrefixNone {
			left, err = s.nud(ctx, curr, rbp)
			if err != nil {
				return nil, err
			}
		} else {
			s.warn("E030", curr, curr.id)
		}
		for (rbp < s.next.sym.LBP || s.next.Type == token.TEMPLATE || s.next.Type == token.NO_SUBST_TEMPLATE) &&
			!s.isEndOfExpr(ctx, s.curr, s.next) {
			isArray := s.curr.Value == "Array"
			isObject := s.curr.Value == "Object"
			if left != nil && (left.value() != "" || left.first != nil && left.first.value() != "") {
				if left.value() != "new" || left.first != nil && left.first.value() == "." {
					isArray = false
					if left.value() != s.curr.value() {
						isObject = false
					}
				}
			}
			if err := s.advance("", nil); err != nil {
				return nil, err
			}
			if isArray && s.curr.is("(") && s.next.is(")") {
				s.warn("W009", s.curr)
			}
			if isObject && s.curr.is("(") && s.next.is(")") {
				s.warn("W010", s.curr)
			}
			if left != nil && s.curr.sym.Infix != symtab.InfixNone {
				left, err = s.led(ctx, s.curr, left)
				if err != nil {
					return nil, err
				}
			} else {
				s.warn("E033", s.curr, s.curr.id)
			}
			if s.fatal != nil {
				return nil, s.fatal
			}
		}
	}
	if letExpr {
		s.scope.Unstack()
	}
	return left, s.failed()
}

// isEndOfExpr reports whether next cannot continue the expression ending
// at curr.  Line breaks end expressions where automatic semicolon insertion
// would apply.
func (s *Session) isEndOfExpr(ctx prod, curr, next *Node) bool {
	if next.is("in") && ctx.has(prodNoIn) {
		return true
	}
	if next.is(";") || next.is("}") || next.is(":") {
		return true
	}
	if boundaryInfix(curr) == boundaryInfix(next) ||
		curr.sym.Boundary == symtab.BoundaryAfter && curr.sym.RBP < next.sym.LBP {
		return !sameLine(curr, next)
	}
	return false
}

func boundaryInfix(n *Node) bool {
	return n.sym.IsInfix() && n.sym.Boundary != symtab.BoundaryBefore
}

// useFud decides whether a word that can begin a statement does so here.
func (s *Session) useFud(ctx prod, curr *Node) bool {
	next := s.next
	switch curr.sym.Stmt {
	case symtab.StmtLet:
		if !sameLine(curr, next) && !s.inES6() {
			return false
		}
		if next.identifier && (!s.isReserved(ctx, next) || next.is("let")) {
			return true
		}
		return next.is("{") || next.is("[")
	case symtab.StmtAsync:
		return sameLine(curr, next) && next.is("function")
	case symtab.StmtImport:
		return !next.is("(") && !next.is(".")
	}
	return true
}

// nud dispatches the prefix behavior of n.
func (s *Session) nud(ctx prod, n *Node, rbp int) (*Node, error) {
	switch n.sym.Prefix {
	case symtab.PrefixIdentifier:
		return s.identifierNud(ctx, n)
	case symtab.PrefixLiteral:
		return n, nil
	case symtab.PrefixTemplate:
		return s.templateNud(ctx, n)
	case symtab.PrefixValue:
		return n, nil
	case symtab.PrefixThis:
		return s.thisNud(ctx, n)
	case symtab.PrefixSuper:
		return s.superNud(ctx, n)
	case symtab.PrefixUnary:
		return s.unaryNud(ctx, n)
	case symtab.PrefixDelete:
		return s.deleteNud(ctx, n)
	case symtab.PrefixIncDec:
		return s.incDecNud(ctx, n)
	case symtab.PrefixParen:
		return s.parenNud(ctx, n, rbp)
	case symtab.PrefixArray:
		return s.arrayNud(ctx, n)
	case symtab.PrefixObject:
		return s.objectNud(ctx, n)
	case symtab.PrefixFunction:
		return s.functionNud(ctx, n)
	case symtab.PrefixClass:
		return s.classExpression(ctx, n)
	case symtab.PrefixNew:
		return s.newNud(ctx, n)
	case symtab.PrefixYield:
		return s.yieldNud(ctx, n)
	case symtab.PrefixAwait:
		return s.awaitNud(ctx, n)
	case symtab.PrefixAsync:
		return s.asyncNud(ctx, n)
	case symtab.PrefixImport:
		return s.importNud(ctx, n)
	}
	s.warn("E030", n, n.id)
	return nil, s.failed()
}

// led dispatches the infix behavior of n applied to left.
func (s *Session) led(ctx prod, n, left *Node) (*Node, error) {
	if n.sym.Adjacent && !s.option("laxbreak") && s.prev.EndLine() != n.Line() {
		s.warn("W014", n, n.value())
	}
	if (n.is("in") || n.is("instanceof")) && left.is("!") {
		s.warn("W018", left, "!")
	}
	switch n.sym.Infix {
	case symtab.InfixBinary:
		return s.binaryLed(ctx, n, left)
	case symtab.InfixBitwise:
		return s.bitwiseLed(ctx, n, left)
	case symtab.InfixLogical:
		return s.logicalLed(ctx, n, left)
	case symtab.InfixRelation:
		return s.relationLed(ctx, n, left)
	case symtab.InfixInstanceof:
		return s.instanceofLed(ctx, n, left)
	case symtab.InfixAssign:
		return s.assignLed(ctx, n, left)
	case symtab.InfixTernary:
		return s.ternaryLed(ctx, n, left)
	case symtab.InfixComma:
		return s.commaLed(ctx, n, left)
	case symtab.InfixDot:
		return s.dotLed(ctx, n, left)
	case symtab.InfixOptional:
		return s.optionalLed(ctx, n, left)
	case symtab.InfixIndex:
		return s.indexLed(ctx, n, left)
	case symtab.InfixCall:
		return s.callLed(ctx, n, left)
	case symtab.InfixPostfix:
		return s.postfixLed(ctx, n, left)
	case symtab.InfixArrow:
		return s.arrowLed(ctx, n, left)
	case symtab.InfixTemplate:
		return s.taggedTemplateLed(ctx, n, left)
	}
	s.warn("E033", n, n.id)
	return left, s.failed()
}

// fud dispatches the statement behavior of n.
func (s *Session) fud(ctx prod, n *Node) (*Node, error) {
	n.block = n.sym.Block
	switch n.sym.Stmt {
	case symtab.StmtVar:
		return s.varStatement(ctx, n)
	case symtab.StmtLet:
		return s.letStatement(ctx, n)
	case symtab.StmtConst:
		return s.constStatement(ctx, n)
	case symtab.StmtFunction:
		return s.functionStatement(ctx, n)
	case symtab.StmtAsync:
		return s.asyncStatement(ctx, n)
	case symtab.StmtClass:
		return s.classStatement(ctx, n)
	case symtab.StmtIf:
		return s.ifStatement(ctx, n)
	case symtab.StmtTry:
		return s.tryStatement(ctx, n)
	case symtab.StmtWhile:
		return s.whileStatement(ctx, n)
	case symtab.StmtDo:
		return s.doStatement(ctx, n)
	case symtab.StmtFor:
		return s.forStatement(ctx, n)
	case symtab.StmtSwitch:
		return s.switchStatement(ctx, n)
	case symtab.StmtWith:
		return s.withStatement(ctx, n)
	case symtab.StmtBreak:
		return s.breakStatement(ctx, n)
	case symtab.StmtContinue:
		return s.continueStatement(ctx, n)
	case symtab.StmtReturn:
		return s.returnStatement(ctx, n)
	case symtab.StmtThrow:
		return s.throwStatement(ctx, n)
	case symtab.StmtDebugger:
		return s.debuggerStatement(ctx, n)
	case symtab.StmtImport:
		return s.importStatement(ctx, n)
	case symtab.StmtExport:
		return s.exportStatement(ctx, n)
	}
	return n, nil
}

// isReserved reports whether the word n cannot be used as a binding or
// reference in the current context.
func (s *Session) isReserved(ctx prod, n *Node) bool {
	if !n.identifier || n.id == symtab.IdentifierID || !n.sym.Reserved && !n.sym.Meta.Future {
		if n.is("await") || n.Value == "await" {
			return s.reservedAwait(ctx)
		}
		return false
	}
	meta := n.sym.Meta
	if meta.Future || n.is("let") || n.is("yield") {
		if !meta.ES5 && s.esVersion() >= 5 {
			// Words reserved only by ES3.
			return false
		}
		if n.isProperty {
			return false
		}
		if meta.StrictOnly && !s.isStrict() {
			if n.is("yield") {
				return s.funct.generator || ctx.has(prodYield)
			}
			return false
		}
		if n.is("await") {
			return s.reservedAwait(ctx)
		}
		return true
	}
	if n.isProperty && s.esVersion() >= 5 {
		return false
	}
	return true
}

func (s *Session) reservedAwait(ctx prod) bool {
	return ctx.has(prodAsync) || s.funct.async || s.option("module")
}
