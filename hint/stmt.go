// Copyright © 2024 The ELPS authors

package hint

import (
	"strconv"
	"strings"

	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// statements parses statements until a token that ends a statement list.
func (s *Session) statements(ctx prod) ([]*Node, error) {
	var stmts []*Node
	for !s.next.sym.Reach && !s.next.isEnd() {
		if s.next.is(";") {
			p := s.peek(0)
			if !p.is("(") && !p.is("[") {
				s.warn("W032", s.next)
			}
			if err := s.advance(";", nil); err != nil {
				return nil, err
			}
			continue
		}
		n, err := s.statement(ctx)
		if err != nil {
			return nil, err
		}
		if n != nil {
			stmts = append(stmts, n)
		}
	}
	return stmts, nil
}

// statement parses one statement.  It returns nil for empty statements
// and blocks.
func (s *Session) statement(ctx prod) (*Node, error) {
	ctx |= prodInitial
	t := s.next
	if t.is(";") {
		return nil, s.advance(";", nil)
	}
	s.codeSeen = true

	res := s.isReserved(ctx, t)
	if res && t.sym.Meta.Future && t.sym.Stmt == symtab.StmtNone {
		s.warn("W024", t, t.id)
		res = false
	}
	labelled := false
	if t.identifier && !res && s.peek(0).is(":") {
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
		if err := s.advance(":", nil); err != nil {
			return nil, err
		}
		labelled = true
		s.scope.Stack(analysis.ScopeLabel)
		s.scope.AddLabel(t.Value, s.prev.Token)
		if !s.next.sym.Labelled && !s.next.is("{") {
			s.warn("W028", s.next, t.Value, s.next.value())
		}
		t = s.next
	}

	if t.is("{") {
		iscase := s.funct.verb == "case" && s.curr.is(":")
		_, err := s.block(ctx, blockOrdinary|blockStatement|s.caseFlag(iscase))
		if labelled {
			s.scope.Unstack()
		}
		return nil, err
	}

	r, err := s.expression(ctx, 0)
	if err != nil {
		return nil, err
	}
	if r == nil || !r.block {
		if !s.option("expr") && (r == nil || !r.exps) {
			s.warn("W030", s.curr)
		} else if s.option("nonew") && r.is("(") && r.Left.is("new") {
			s.warn("W031", t)
		}
		if err := s.finalSemicolon(t); err != nil {
			return nil, err
		}
	}
	if labelled {
		s.scope.Unstack()
	}
	return r, nil
}

func (s *Session) caseFlag(iscase bool) blockFlag {
	if iscase {
		return blockCase
	}
	return 0
}

// finalSemicolon checks the terminator of the statement begun by stmt.
// Line breaks and closing braces are tolerated as automatic semicolon
// insertion points according to the asi and lastsemic options.
func (s *Session) finalSemicolon(stmt *Node) error {
	if s.next.is(";") {
		return s.advance(";", nil)
	}
	if s.next.Flags.Has(token.Unclosed) {
		return s.advance("", nil)
	}
	isSameLine := sameLine(s.curr, s.next) && !s.next.isEnd()
	blockEnd := s.next.is("}")
	switch {
	case isSameLine && !blockEnd && !(stmt.is("do") && s.inES6()):
		s.warnAt("E058", s.curr.EndLine(), s.curr.endCol())
	case !s.option("asi"):
		if !(blockEnd && isSameLine && s.option("lastsemic")) {
			s.warnAt("W033", s.curr.EndLine(), s.curr.endCol())
		}
	}
	return s.failed()
}

// blockFlag selects the shape of a block.
type blockFlag uint

const (
	// blockOrdinary blocks are statement blocks, as opposed to function
	// bodies.
	blockOrdinary blockFlag = 1 << iota
	// blockStatement allows a single statement without braces.
	blockStatement
	blockFunction
	blockArrow
	// blockCase marks a block that is the body of a switch clause; a
	// trailing break or return stays visible to the clause.
	blockCase
)

func (f blockFlag) has(g blockFlag) bool {
	return f&g != 0
}

// block parses a braced block, a braceless single statement or an
// expression body.
func (s *Session) block(ctx prod, flags blockFlag) ([]*Node, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	ordinary := flags.has(blockOrdinary)
	isfunc := flags.has(blockFunction)
	outerBlock := s.inBlock
	s.inBlock = ordinary
	defer func() { s.inBlock = outerBlock }()

	f := s.funct
	f.nestedBlockDepth++
	if f.nestedBlockDepth > f.Metrics.Depth {
		f.Metrics.Depth = f.nestedBlockDepth
	}
	if max := f.options.Int("maxdepth"); max > 0 && f.nestedBlockDepth > 0 && f.nestedBlockDepth == max+1 {
		s.warn("W073", s.next, strconv.Itoa(f.nestedBlockDepth))
	}
	defer func() { f.nestedBlockDepth-- }()

	var stmts []*Node
	t := s.next
	switch {
	case t.is("{"):
		if err := s.advance("{", nil); err != nil {
			return nil, err
		}
		s.scope.Stack(analysis.ScopeBlock)
		var saved map[string]bool
		if isfunc {
			saved = s.directive
			s.directive = make(map[string]bool, len(saved))
			for d, ok := range saved {
				s.directive[d] = ok
			}
		}
		if !s.next.is("}") {
			if isfunc {
				if err := s.directives(); err != nil {
					return nil, err
				}
				f.isStrict = s.isStrict()
				if s.option("strict") && f.parent != nil && f.parent.global {
					if !saved["use strict"] && !s.isStrict() {
						s.warn("E007", s.curr)
					}
				}
			}
			var err error
			stmts, err = s.statements(ctx)
			if err != nil {
				return nil, err
			}
			f.Metrics.Statements += len(stmts)
		} else if isfunc {
			f.isStrict = s.isStrict()
		}
		if err := s.advance("}", t); err != nil {
			return nil, err
		}
		if isfunc {
			s.directive = saved
		}
		s.scope.Unstack()

	case !ordinary:
		if !isfunc {
			s.warn("E021", s.next, "{", s.next.value())
			return nil, s.failed()
		}
		s.scope.Stack(analysis.ScopeBlock)
		if flags.has(blockStatement) && !flags.has(blockArrow) && !s.option("moz") {
			s.warn("W118", s.curr, "function closure expressions")
		}
		expr, err := s.expression(ctx, symtab.PrecComma)
		if err != nil {
			return nil, err
		}
		if s.option("noreturnawait") && ctx.has(prodAsync) && expr.is("await") {
			s.warn("W146", expr)
		}
		if s.option("strict") && f.parent != nil && f.parent.global && !s.isStrict() {
			s.warn("E007", s.curr)
		}
		f.isStrict = s.isStrict()
		s.scope.Unstack()

	default:
		s.scope.Stack(analysis.ScopeBlock)
		if !flags.has(blockStatement) || s.option("curly") {
			s.warn("W116", s.next, "{", s.next.value())
		}
		supportsFnDecl := f.verb == "if" || s.curr.is("else")
		s.next.inBracelessBlock = true
		n, err := s.statement(ctx)
		if err != nil {
			return nil, err
		}
		if n != nil {
			stmts = []*Node{n}
			if n.declaration && !(supportsFnDecl && n.is("function")) {
				s.warn("E048", n, strings.ToUpper(n.id[:1])+n.id[1:])
			}
		}
		s.scope.Unstack()
	}

	switch f.verb {
	case "break", "continue", "return", "throw":
		if flags.has(blockCase) {
			break
		}
		f.verb = ""
	default:
		f.verb = ""
	}
	if ordinary && s.option("noempty") && len(stmts) == 0 {
		s.warn("W035", s.prev)
	}
	return stmts, s.failed()
}

// directives parses the directive prologue of a program or function body.
func (s *Session) directives() error {
	current := s.next
	for s.next.Type == token.STRING {
		next := s.peek(0)
		if !s.isEndOfExpr(0, current, next) {
			break
		}
		current = next
		if err := s.advance("", nil); err != nil {
			return err
		}
		d := s.curr.Value
		if s.directive[d] || d == "use strict" && s.strictMode() == "implied" {
			s.warn("W148", s.curr, d)
		}
		if d == "use strict" && s.esVersion() >= 7 && !s.funct.global && !s.funct.simpleParams {
			s.warn("E065", s.curr)
		}
		s.directive[d] = true
		if err := s.finalSemicolon(current); err != nil {
			return err
		}
	}
	if s.isStrict() {
		s.funct.setOption("undef", true)
	}
	return s.failed()
}

// reachable warns about code following a statement that transfers
// control.
func (s *Session) reachable(ctl *Node) {
	if !s.next.is(";") || ctl.inBracelessBlock {
		return
	}
	t := s.peek(0)
	if t.sym.Reach || t.isEnd() {
		return
	}
	if t.is("function") {
		if s.funct.options.String("latedef") == "true" {
			s.warn("W026", t)
		}
		return
	}
	s.warn("W027", t, t.value(), ctl.value())
}

// nolinebreak warns when the token after t starts a new line.
func (s *Session) nolinebreak(t *Node) {
	if !sameLine(t, s.next) {
		s.warn("E022", t, t.value())
	}
}
