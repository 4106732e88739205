// Copyright © 2024 The ELPS authors

package hint

import (
	"strconv"
	"strings"

	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/symtab"
)

type fnKind uint8

const (
	fnNormal fnKind = iota
	fnGenerator
	fnArrow
)

// fnOpts describes the function literal doFunction parses.
type fnOpts struct {
	kind fnKind
	// name is the declared name.  An empty name is inferred from the
	// surrounding assignment or property.
	name string
	statement   bool
	method      bool
	classMethod bool
	// parsedOpening is set when the '(' of the parameters is curr.
	parsedOpening bool
	// loneArg is the single unparenthesized parameter of an arrow.
	loneArg        *Node
	ignoreLoopFunc bool
}

// doFunction parses the parameters and body of a function whose
// introducing tokens have been consumed.
func (s *Session) doFunction(ctx prod, o fnOpts) (*Functor, error) {
	isAsync := ctx.has(prodPreAsync)
	isArrow := o.kind == fnArrow
	ctx &^= prodNoIn | prodTryClause | prodPreAsync | prodInitial | prodExport
	if isAsync {
		ctx |= prodAsync
	} else {
		ctx &^= prodAsync
	}
	if o.kind == fnGenerator {
		ctx |= prodYield
	} else if !isArrow {
		ctx &^= prodYield
	}

	name := o.name
	if name == "" {
		name = s.nameStack.infer()
	}
	parent := s.funct
	f := newFunctor(parent, name)
	f.Line, f.Col = s.next.Line(), s.next.Col()
	f.statement = o.statement
	f.arrow = isArrow
	f.method = o.method
	f.classMethod = o.classMethod
	f.async = isAsync
	f.generator = o.kind == fnGenerator
	tok := s.curr
	s.funct = f
	s.functions = append(s.functions, f)

	s.scope.Stack(analysis.ScopeFunctionOuter)
	switch {
	case o.method:
	case o.name != "":
		s.scope.AddDeclaration(o.name, analysis.SymFunction, s.curr.Token, analysis.DeclNoUnused|analysis.DeclBlockScoped)
	}
	if !isArrow {
		s.scope.AddImplicit("arguments", tok.Token)
	}
	s.scope.Stack(analysis.ScopeParams)

	if err := s.functionParams(ctx, f, o); err != nil {
		return nil, err
	}
	if max := f.options.Int("maxparams"); max > 0 && f.Metrics.Parameters > max {
		s.warn("W072", tok, strconv.Itoa(f.Metrics.Parameters))
	}

	flags := blockFunction | blockStatement
	if isArrow {
		ctx &^= prodYield
		flags |= blockArrow
		if !s.inES6() {
			s.warn("W119", s.curr, "arrow function syntax (=>)", "6")
		}
		if o.loneArg == nil {
			if err := s.advance("=>", nil); err != nil {
				return nil, err
			}
		}
	}
	if _, err := s.block(ctx, flags); err != nil {
		return nil, err
	}

	if !s.option("noyield") && f.generator && !f.yielded {
		s.warn("W124", s.curr)
	}
	if max := f.options.Int("maxstatements"); max > 0 && f.Metrics.Statements > max {
		s.warn("W071", tok, strconv.Itoa(f.Metrics.Statements))
	}
	if max := f.options.Int("maxcomplexity"); max > 0 && f.Metrics.Complexity > max {
		s.warn("W074", tok, strconv.Itoa(f.Metrics.Complexity))
	}
	f.LastLine, f.LastCol = s.curr.EndLine(), s.curr.endCol()

	s.scope.Unstack()
	captured := s.scope.Captured()
	s.scope.Unstack()
	s.funct = parent

	if !o.ignoreLoopFunc && !s.option("loopfunc") && parent.loopage > 0 && len(captured) > 0 {
		s.warn("W083", tok, strings.Join(captured, ", "))
	}
	return f, s.failed()
}

// functionParams parses a parameter list into the current frame.
func (s *Session) functionParams(ctx prod, f *Functor, o fnOpts) error {
	if o.loneArg != nil {
		if o.loneArg.identifier {
			s.scope.AddParameter(o.loneArg.Value, o.loneArg.Token)
			f.Params = []string{o.loneArg.Value}
			f.Metrics.Parameters = 1
		}
		return nil
	}
	open := s.curr
	if !o.parsedOpening {
		open = s.next
		if err := s.advance("(", nil); err != nil {
			return err
		}
	}
	if s.next.is(")") {
		return s.advance(")", open)
	}

	var pastDefault, pastRest, destructured bool
	for {
		f.Metrics.Parameters++
		var current []binding
		rest, err := s.spreadRest("spread/rest")
		if err != nil {
			return err
		}
		pastRest = pastRest || rest
		if s.next.is("{") || s.next.is("[") {
			destructured = true
			names, err := s.destructuringPattern(ctx, patternBinding)
			if err != nil {
				return err
			}
			for _, b := range names {
				if b.name != "" {
					current = append(current, b)
				}
			}
		} else {
			name, ok, err := s.optionalIdentifier(ctx, false, true)
			if err != nil {
				return err
			}
			if ok {
				current = append(current, binding{name: name, tok: s.curr})
			} else {
				s.warn("E030", s.next, s.next.value())
				for !s.next.is(",") && !s.next.is(")") && !s.next.isEnd() {
					if err := s.advance("", nil); err != nil {
						return err
					}
				}
			}
		}
		if pastDefault && !s.next.is("=") {
			s.warn("W138", s.curr)
		}
		if s.next.is("=") {
			if !s.inES6() {
				s.warn("W119", s.next, "default parameters", "6")
			}
			if rest {
				s.warn("E062", s.next)
			}
			if err := s.advance("=", nil); err != nil {
				return err
			}
			pastDefault = true
			if _, err := s.expression(ctx, symtab.PrecComma); err != nil {
				return err
			}
		}
		// Defaults are evaluated before the parameters are bound.
		for _, b := range current {
			s.scope.AddParameter(b.name, b.tok.Token)
			f.Params = append(f.Params, b.name)
		}
		if s.next.is(",") {
			if rest {
				s.warn("W131", s.next)
			}
			if _, err := s.parseComma(commaOpts{allowTrailing: true}); err != nil {
				return err
			}
		}
		if s.next.is(")") {
			if s.curr.is(",") && s.esVersion() < 8 {
				s.warn("W119", s.curr, "Trailing comma in function parameters", "8")
			}
			f.simpleParams = !destructured && !pastRest && !pastDefault
			return s.advance(")", open)
		}
		if s.next.isEnd() || s.fatal != nil {
			return s.advance(")", open)
		}
	}
}

// generatorStar consumes the '*' of a generator function.
func (s *Session) generatorStar(ctx prod) (bool, error) {
	if !s.next.is("*") {
		return false, nil
	}
	switch {
	case ctx.has(prodPreAsync) && s.esVersion() < 9:
		s.warn("W119", s.prev, "async generators", "9")
	case !ctx.has(prodPreAsync) && !s.inES6():
		s.warn("W119", s.next, "function*", "6")
	}
	return true, s.advance("*", nil)
}

func (s *Session) functionNud(ctx prod, n *Node) (*Node, error) {
	generator, err := s.generatorStar(ctx)
	if err != nil {
		return nil, err
	}
	nameCtx := ctx
	if ctx.has(prodPreAsync) {
		nameCtx |= prodAsync
	}
	var nameTok *Node
	if s.next.identifier {
		if _, _, err := s.optionalIdentifier(nameCtx, false, false); err != nil {
			return nil, err
		}
		nameTok = s.curr
	}
	o := fnOpts{}
	if generator {
		o.kind = fnGenerator
	}
	if nameTok != nil {
		o.name = nameTok.Value
	}
	f, err := s.doFunction(ctx, o)
	if err != nil {
		return nil, err
	}
	n.funct = f
	if nameTok != nil {
		if generator && nameTok.Value == "yield" {
			s.warn("E024", nameTok, "yield")
		}
		if ctx.has(prodPreAsync) && nameTok.Value == "await" {
			s.warn("E024", nameTok, "await")
		}
	}
	return n, s.failed()
}

func (s *Session) functionStatement(ctx prod, n *Node) (*Node, error) {
	n.declaration = true
	n.block = true
	inexport := ctx.has(prodExport)
	generator, err := s.generatorStar(ctx)
	if err != nil {
		return nil, err
	}
	if s.inBlock {
		s.warn("W082", s.curr)
	}
	var nameTok *Node
	if s.next.identifier {
		if _, _, err := s.optionalIdentifier(ctx, false, false); err != nil {
			return nil, err
		}
		nameTok = s.curr
		var flags analysis.DeclFlag
		if s.inBlock && s.inES6() {
			flags |= analysis.DeclBlockScoped
		}
		s.scope.AddDeclaration(nameTok.Value, analysis.SymFunction, nameTok.Token, flags)
		n.names = []*Node{nameTok}
	} else if !inexport {
		s.warn("W025", s.next)
	}
	o := fnOpts{statement: true, ignoreLoopFunc: s.inBlock}
	if generator {
		o.kind = fnGenerator
	}
	if nameTok != nil {
		o.name = nameTok.Value
	}
	outerStrict := s.isStrict()
	f, err := s.doFunction(ctx, o)
	if err != nil {
		return nil, err
	}
	n.funct = f
	if nameTok != nil && (nameTok.Value == "arguments" || nameTok.Value == "eval") && f.isStrict && !outerStrict {
		s.warn("E008", nameTok)
	}
	if s.next.is("(") && sameLine(s.curr, s.next) {
		s.warn("E039", s.next)
	}
	return n, s.failed()
}

func (s *Session) asyncStatement(ctx prod, n *Node) (*Node, error) {
	if s.esVersion() < 8 {
		s.warn("W119", n, "async functions", "8")
	}
	if err := s.advance("function", nil); err != nil {
		return nil, err
	}
	return s.functionStatement(ctx|prodPreAsync, s.curr)
}

// arrowLed handles an arrow whose single parameter is left.
func (s *Session) arrowLed(ctx prod, n, left *Node) (*Node, error) {
	if !left.isIdent() || left.paren {
		s.warn("E024", n, n.value())
		return n, s.failed()
	}
	if s.isReserved(ctx, left) {
		s.warn("W024", left, left.id)
	}
	n.Left = left
	f, err := s.doFunction(ctx, fnOpts{kind: fnArrow, loneArg: left})
	if err != nil {
		return nil, err
	}
	n.funct = f
	return n, s.failed()
}
