// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/symtab"
)

func (s *Session) varStatement(ctx prod, n *Node) (*Node, error) {
	if s.option("varstmt") {
		s.warn("W132", n)
	}
	if err := s.declarations(ctx, n, analysis.SymVar); err != nil {
		return nil, err
	}
	return n, s.failed()
}

func (s *Session) letStatement(ctx prod, n *Node) (*Node, error) {
	if !s.inES6() {
		s.warn("W104", n, "let", "6")
	}
	n.declaration = true
	if err := s.declarations(ctx, n, analysis.SymLet); err != nil {
		return nil, err
	}
	return n, s.failed()
}

func (s *Session) constStatement(ctx prod, n *Node) (*Node, error) {
	if !s.inES6() {
		s.warn("W104", n, "const", "6")
	}
	n.declaration = true
	if err := s.declarations(ctx, n, analysis.SymConst); err != nil {
		return nil, err
	}
	return n, s.failed()
}

// declarations parses the comma separated bindings of a var, let or const
// declaration introduced by n.
func (s *Session) declarations(ctx prod, n *Node, kind analysis.SymbolKind) error {
	noin := ctx.has(prodNoIn)
	for {
		var names []binding
		lone := false
		if s.next.is("{") || s.next.is("[") {
			got, err := s.destructuringPattern(ctx, patternBinding)
			if err != nil {
				return err
			}
			names = got
		} else {
			name, err := s.identifier(ctx)
			if err != nil {
				return err
			}
			if name != "" {
				if kind != analysis.SymVar && name == "let" {
					s.warn("E024", s.curr, "let")
				}
				names = []binding{{name: name, tok: s.curr}}
				lone = true
			}
		}
		for _, b := range names {
			if b.name == "" {
				continue
			}
			s.scope.AddDeclaration(b.name, kind, b.tok.Token, 0)
			n.names = append(n.names, b.tok)
		}

		if s.next.is("=") {
			n.hasInit = true
			s.nameStack.set(s.curr)
			if err := s.advance("=", nil); err != nil {
				return err
			}
			if !noin && s.next.isPlainIdent() && s.peek(0).is("=") {
				if sym := s.scope.Lookup(s.next.Value); sym == nil || sym.Kind != analysis.SymParameter {
					s.warn("W120", s.next, s.next.Value)
				}
			}
			if lone && kind != analysis.SymConst && s.next.isPlainIdent() && s.next.Value == "undefined" {
				s.warn("W080", s.prev, s.prev.value())
			}
			value, err := s.expression(ctx, symtab.PrecComma)
			if err != nil {
				return err
			}
			if value == nil {
				return s.quit("E041", s.curr)
			}
		} else if kind == analysis.SymConst && !noin && !ctx.has(prodExport) && lone {
			s.warn("E012", s.curr, s.curr.value())
		}

		if !s.next.is(",") {
			return s.failed()
		}
		if n.comma == nil {
			n.comma = s.next
		}
		ok, err := s.parseComma(commaOpts{})
		if err != nil {
			return err
		}
		if !ok {
			return s.failed()
		}
	}
}

// moduleTopLevel reports whether declarations are at the outermost
// level of the program.
func (s *Session) moduleTopLevel() bool {
	return s.funct.global && s.scope.Depth() == 0
}

func (s *Session) importStatement(ctx prod, n *Node) (*Node, error) {
	if !s.moduleTopLevel() {
		s.warn("E053", n, "Import")
	}
	if !s.inES6() {
		s.warn("W119", n, "import", "6")
	}
	if s.next.is(symtab.StringID) {
		return n, s.advance(symtab.StringID, nil)
	}

	if s.next.identifier {
		if err := s.importBinding(ctx); err != nil {
			return nil, err
		}
		if !s.next.is(",") {
			return n, s.moduleSpecifier()
		}
		if err := s.advance(",", nil); err != nil {
			return nil, err
		}
	}

	switch {
	case s.next.is("*"):
		if err := s.advance("*", nil); err != nil {
			return nil, err
		}
		if err := s.advance("as", nil); err != nil {
			return nil, err
		}
		if s.next.identifier {
			if err := s.importBinding(ctx); err != nil {
				return nil, err
			}
		}
	default:
		open := s.next
		if err := s.advance("{", nil); err != nil {
			return nil, err
		}
		for !s.next.is("}") && !s.next.isEnd() {
			if s.peek(0).Value == "as" {
				if _, _, err := s.optionalIdentifier(ctx, true, false); err != nil {
					return nil, err
				}
				if err := s.advance("as", nil); err != nil {
					return nil, err
				}
			}
			if err := s.importBinding(ctx); err != nil {
				return nil, err
			}
			if s.next.is("}") {
				break
			}
			if !s.next.is(",") {
				s.warn("E024", s.next, s.next.value())
				break
			}
			if err := s.advance(",", nil); err != nil {
				return nil, err
			}
		}
		if err := s.advance("}", open); err != nil {
			return nil, err
		}
	}
	return n, s.moduleSpecifier()
}

// importBinding declares one imported name.
func (s *Session) importBinding(ctx prod) error {
	name, err := s.identifier(ctx)
	if err != nil {
		return err
	}
	if name != "" {
		s.scope.AddDeclaration(name, analysis.SymImport, s.curr.Token, 0)
	}
	return s.failed()
}

// moduleSpecifier consumes the from clause of an import or export.
func (s *Session) moduleSpecifier() error {
	if err := s.advance("from", nil); err != nil {
		return err
	}
	return s.advance(symtab.StringID, nil)
}

func (s *Session) exportStatement(ctx prod, n *Node) (*Node, error) {
	ok := true
	ctx |= prodExport
	if !s.inES6() {
		s.warn("W119", n, "export", "6")
		ok = false
	}
	if !s.moduleTopLevel() {
		s.warn("E053", n, "Export")
		ok = false
	}

	switch {
	case s.next.is("*"):
		if err := s.advance("*", nil); err != nil {
			return nil, err
		}
		if s.next.Value == "as" && s.next.identifier {
			if s.esVersion() < 11 {
				s.warn("W119", s.curr, "export * as ns from", "11")
			}
			if err := s.advance("as", nil); err != nil {
				return nil, err
			}
			if _, _, err := s.optionalIdentifier(ctx, true, false); err != nil {
				return nil, err
			}
			s.scope.SetExported(s.curr.Value, s.curr.Token)
		}
		return n, s.moduleSpecifier()

	case s.next.is("default"):
		s.nameStack.set(s.next)
		if err := s.advance("default", nil); err != nil {
			return nil, err
		}
		return s.exportDefault(ctx, n)

	case s.next.is("{"):
		return s.exportList(ctx, n, ok)
	}

	var decl *Node
	var err error
	switch {
	case s.next.is("var"):
		if err := s.advance("var", nil); err != nil {
			return nil, err
		}
		decl, err = s.varStatement(ctx, s.curr)
	case s.next.is("let"):
		if err := s.advance("let", nil); err != nil {
			return nil, err
		}
		decl, err = s.letStatement(ctx, s.curr)
	case s.next.is("const"):
		if err := s.advance("const", nil); err != nil {
			return nil, err
		}
		decl, err = s.constStatement(ctx, s.curr)
	case s.next.is("function"):
		n.block = true
		if err := s.advance("function", nil); err != nil {
			return nil, err
		}
		decl, err = s.functionStatement(ctx, s.curr)
	case s.next.is("async") && s.peek(0).is("function"):
		n.block = true
		if err := s.advance("async", nil); err != nil {
			return nil, err
		}
		decl, err = s.asyncStatement(ctx, s.curr)
	case s.next.is("class"):
		n.block = true
		if err := s.advance("class", nil); err != nil {
			return nil, err
		}
		decl, err = s.classStatement(ctx, s.curr)
	default:
		s.warn("E024", s.next, s.next.value())
		return n, s.failed()
	}
	if err != nil {
		return nil, err
	}
	for _, name := range decl.names {
		s.scope.SetExported(name.Value, name.Token)
	}
	return n, s.failed()
}

// exportDefault parses the value exported by export default.
func (s *Session) exportDefault(ctx prod, n *Node) (*Node, error) {
	var decl *Node
	var err error
	switch {
	case s.next.is("function"):
		n.block = true
		if err := s.advance("function", nil); err != nil {
			return nil, err
		}
		decl, err = s.functionStatement(ctx, s.curr)
	case s.next.is("async") && s.peek(0).is("function"):
		n.block = true
		if err := s.advance("async", nil); err != nil {
			return nil, err
		}
		decl, err = s.asyncStatement(ctx, s.curr)
	case s.next.is("class"):
		n.block = true
		if err := s.advance("class", nil); err != nil {
			return nil, err
		}
		decl, err = s.classStatement(ctx, s.curr)
	default:
		value, err := s.expression(ctx&^prodExport, symtab.PrecComma)
		if err != nil {
			return nil, err
		}
		if value.isPlainIdent() {
			s.scope.SetExported(value.Value, value.Token)
		}
		return n, s.failed()
	}
	if err != nil {
		return nil, err
	}
	for _, name := range decl.names {
		s.scope.SetExported(name.Value, name.Token)
	}
	return n, s.failed()
}

// exportList parses export { a, b as c } with an optional from clause.
func (s *Session) exportList(ctx prod, n *Node, ok bool) (*Node, error) {
	open := s.next
	if err := s.advance("{", nil); err != nil {
		return nil, err
	}
	var exported []*Node
	for !s.next.is("}") && !s.next.isEnd() {
		if !s.next.identifier {
			s.warn("E030", s.next, s.next.value())
		}
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
		exported = append(exported, s.curr)
		if s.next.Value == "as" && s.next.identifier {
			if err := s.advance("as", nil); err != nil {
				return nil, err
			}
			if !s.next.identifier {
				s.warn("E030", s.next, s.next.value())
			}
			if err := s.advance("", nil); err != nil {
				return nil, err
			}
		}
		if !s.next.is("}") {
			if err := s.advance(",", nil); err != nil {
				return nil, err
			}
		}
	}
	if err := s.advance("}", open); err != nil {
		return nil, err
	}
	if s.next.Value == "from" && s.next.identifier {
		if err := s.moduleSpecifier(); err != nil {
			return nil, err
		}
	} else if ok {
		for _, t := range exported {
			s.scope.SetExported(t.Value, t.Token)
		}
	}
	if len(exported) == 0 {
		s.warn("W141", s.curr, "export")
	}
	return n, s.failed()
}
