// Copyright © 2024 The ELPS authors

package analysis

import (
	"sort"

	"github.com/luthersystems/esvet/parser/token"
)

// Stack pushes a new frame of the given kind.
func (m *Manager) Stack(kind ScopeKind) {
	m.current = NewScope(kind, m.current)
	m.stacks++
}

// Unstack pops the current frame, resolving the references made within
// it.  The global frame is never popped; see Finish.
func (m *Manager) Unstack() {
	s := m.current
	if s.Parent == nil {
		return
	}
	parent := s.Parent
	if s.Kind == ScopeParams {
		m.captured = nil
	}
	for _, name := range usageOrder(s) {
		u := s.usages[name]
		if sym := s.Symbols[name]; sym != nil {
			m.resolve(sym, u)
			continue
		}
		if s.Kind == ScopeParams {
			m.capture(name, parent)
		}
		parent.usage(name).merge(u, s.Kind == ScopeParams)
	}
	m.checkUnused(s)
	for _, sym := range s.hoisted {
		sym.blockEnd = s.lastPos
	}
	parent.touch(s.lastPos)
	m.current = parent
	m.unstacks++
}

// Finish resolves the global frame.  Frames left open are unstacked first.
// Finish is idempotent.
func (m *Manager) Finish() {
	if m.finished {
		return
	}
	for m.current != m.root {
		m.Unstack()
	}
	root := m.root
	for _, name := range usageOrder(root) {
		u := root.usages[name]
		if sym := root.Symbols[name]; sym != nil {
			m.resolve(sym, u)
			continue
		}
		m.resolveGlobal(name, u)
	}
	m.checkUnused(root)
	for name := range root.Symbols {
		m.definedGlobals[name] = true
	}
	m.finished = true
}

// AddDeclaration binds name in the frame owning declarations of kind.
func (m *Manager) AddDeclaration(name string, kind SymbolKind, tok *token.Token, flags DeclFlag) {
	cur := m.current
	cur.touch(tokenPos(tok))
	target := cur
	if kind == SymVar || kind == SymFunction && flags&DeclBlockScoped == 0 {
		target = cur.functionBody()
	}
	if !m.checkRedeclare(name, kind, tok, cur, target) {
		return
	}
	m.checkShadow(name, tok, target)
	if target == m.root {
		if writable, ok := m.globals[name]; ok && !writable {
			m.host.Warn("W079", tok, name)
		}
	}
	sym := &Symbol{
		Name:     name,
		Kind:     kind,
		Token:    tok,
		NoUnused: flags&DeclNoUnused != 0,
	}
	if m.exported[name] {
		sym.Exported = true
	}
	target.Define(sym)
	if target != cur {
		cur.hoisted = append(cur.hoisted, sym)
	}
}

// AddParameter binds a function parameter in the current frame.
func (m *Manager) AddParameter(name string, tok *token.Token) {
	cur := m.current
	cur.touch(tokenPos(tok))
	if existing := cur.Symbols[name]; existing != nil && existing.Kind == SymParameter {
		m.host.Warn("W004", tok, name)
		return
	}
	m.checkShadow(name, tok, cur)
	cur.Define(&Symbol{Name: name, Kind: SymParameter, Token: tok})
}

// AddImplicit binds name in the current frame without redeclaration
// checks.  It is used for bindings the language creates, like arguments.
func (m *Manager) AddImplicit(name string, tok *token.Token) {
	m.current.Define(&Symbol{Name: name, Kind: SymVar, Token: tok, NoUnused: true})
}

// AddLabel registers a statement label in the current frame.
func (m *Manager) AddLabel(name string, tok *token.Token) {
	if m.HasBreakLabel(name) {
		m.host.Warn("E011", tok, name)
	}
	m.current.Labels[name] = &Symbol{Name: name, Kind: SymLabel, Token: tok, Scope: m.current}
}

// HasBreakLabel reports whether name labels an enclosing statement of the
// current function.
func (m *Manager) HasBreakLabel(name string) bool {
	for s := m.current; s != nil; s = s.Parent {
		if _, ok := s.Labels[name]; ok {
			return true
		}
		if s.Kind == ScopeParams || s.Kind == ScopeGlobal {
			return false
		}
	}
	return false
}

// Use records a reference to name.
func (m *Manager) Use(name string, tok *token.Token) {
	cur := m.current
	cur.touch(tokenPos(tok))
	u := cur.usage(name)
	u.refs = append(u.refs, &Reference{
		Token: tok,
		Undef: m.host.Options().Bool("undef"),
	})
}

// Reassign records an assignment to name.  A reference already recorded for
// the same token is upgraded rather than duplicated.
func (m *Manager) Reassign(name string, tok *token.Token) {
	cur := m.current
	u := cur.usage(name)
	for _, ref := range u.refs {
		if ref.Token == tok {
			ref.Reassign = true
			return
		}
	}
	cur.touch(tokenPos(tok))
	u.refs = append(u.refs, &Reference{
		Token:    tok,
		Reassign: true,
		Undef:    m.host.Options().Bool("undef"),
	})
}

func (m *Manager) checkRedeclare(name string, kind SymbolKind, tok *token.Token, cur, target *Scope) bool {
	shadowOK := m.host.Options().String("shadow") == "true"
	if kind.blockScoped() || kind == SymFunction && target == cur && !target.IsFunctionBody() {
		if target.Symbols[name] != nil {
			m.host.Warn("E011", tok, name)
			return false
		}
		if target.IsFunctionBody() && target.Parent != nil && target.Parent.Kind == ScopeParams {
			if p := target.Parent.Symbols[name]; p != nil {
				m.host.Warn("E011", tok, name)
				return false
			}
		}
		return true
	}
	for s := cur; s != target && s != nil; s = s.Parent {
		if sym := s.Symbols[name]; sym != nil && sym.Kind.blockScoped() {
			m.host.Warn("E011", tok, name)
			return false
		}
	}
	if existing := target.Symbols[name]; existing != nil {
		if existing.Kind.blockScoped() {
			m.host.Warn("E011", tok, name)
		} else if !shadowOK {
			m.host.Warn("W004", tok, name)
		}
		return false
	}
	if target.Parent != nil && target.Parent.Kind == ScopeParams {
		if p := target.Parent.Symbols[name]; p != nil && p.Kind == SymParameter {
			if !shadowOK {
				m.host.Warn("W004", tok, name)
			}
			return false
		}
	}
	return true
}

// checkShadow reports declarations hiding a binding of an enclosing
// function when shadow is "outer".
func (m *Manager) checkShadow(name string, tok *token.Token, target *Scope) {
	if m.host.Options().String("shadow") != "outer" {
		return
	}
	s := target
	for s != nil && s.Kind != ScopeParams {
		s = s.Parent
	}
	if s == nil {
		return
	}
	if s != target && s.Symbols[name] != nil {
		m.host.Warn("W123", tok, name)
		return
	}
	for s = s.Parent; s != nil; s = s.Parent {
		if s.Symbols[name] != nil {
			m.host.Warn("W123", tok, name)
			return
		}
	}
}

func (m *Manager) resolve(sym *Symbol, u *usage) {
	sym.Used = true
	opts := m.host.Options()
	for _, ref := range u.refs {
		if ref.Reassign {
			switch sym.Kind {
			case SymConst, SymImport:
				m.host.Warn("E013", ref.Token, sym.Name)
			case SymFunction, SymClass:
				m.host.Warn("W021", ref.Token, sym.Name, sym.Kind.String())
			}
		}
		if ref.pos() >= 0 && ref.pos() < sym.pos() && !ref.Nested {
			switch {
			case sym.Kind.blockScoped():
				m.host.Warn("E056", ref.Token, sym.Name, sym.Kind.String())
			case sym.Kind == SymVar && opts.Bool("latedef"):
				m.host.Warn("W003", ref.Token, sym.Name)
			case sym.Kind == SymFunction && opts.Bool("latedef") && opts.String("latedef") != "nofunc":
				m.host.Warn("W003", ref.Token, sym.Name)
			}
		}
		if sym.blockEnd > 0 && ref.pos() > sym.blockEnd && !opts.Bool("funcscope") {
			m.host.Warn("W038", ref.Token, sym.Name)
		}
	}
}

func (m *Manager) resolveGlobal(name string, u *usage) {
	if writable, ok := m.globals[name]; ok {
		m.usedGlobals[name] = true
		for _, ref := range u.refs {
			if ref.Reassign && !writable {
				m.host.Warn("W020", ref.Token)
			}
		}
		return
	}
	imp := Implied{Name: name}
	for _, ref := range u.refs {
		if m.forgiven[ref.Token] {
			continue
		}
		imp.Lines = append(imp.Lines, ref.Token.Line())
		if ref.Undef {
			m.host.Warn("W117", ref.Token, name)
		}
	}
	if len(imp.Lines) > 0 {
		m.implied = append(m.implied, imp)
	}
}

func (m *Manager) capture(name string, outer *Scope) {
	sym := outer.Lookup(name)
	if sym == nil || !sym.Kind.mutable() {
		return
	}
	for _, c := range m.captured {
		if c == name {
			return
		}
	}
	m.captured = append(m.captured, name)
}

func (m *Manager) checkUnused(s *Scope) {
	mode := m.host.Options().String("unused")
	warn := mode != "" && mode != "false"
	syms := symbolOrder(s)
	if s.Kind == ScopeParams {
		m.checkUnusedParams(syms, mode, warn)
		return
	}
	for _, sym := range syms {
		if sym.Used || sym.Exported || sym.NoUnused || m.exported[sym.Name] {
			continue
		}
		switch sym.Kind {
		case SymParameter, SymLabel:
			continue
		case SymException:
			if mode != "strict" {
				continue
			}
		}
		m.reportUnused(sym, warn)
	}
}

// checkUnusedParams reports unused parameters.  Unless mode is "strict" only
// the parameters after the last used one are reported; mode "vars" reports
// none.
func (m *Manager) checkUnusedParams(syms []*Symbol, mode string, warn bool) {
	var params []*Symbol
	for _, sym := range syms {
		if sym.Kind == SymParameter && !sym.NoUnused {
			params = append(params, sym)
		}
	}
	if mode == "vars" {
		warn = false
	}
	for i := len(params) - 1; i >= 0; i-- {
		p := params[i]
		if p.Used {
			if mode != "strict" {
				return
			}
			continue
		}
		m.reportUnused(p, warn)
	}
}

func (m *Manager) reportUnused(sym *Symbol, warn bool) {
	m.unused = append(m.unused, Unused{Name: sym.Name, Kind: sym.Kind, Source: sym.Source()})
	if warn {
		m.host.Warn("W098", sym.Token, sym.Name)
	}
}

func tokenPos(tok *token.Token) int {
	if tok == nil || tok.Source == nil {
		return -1
	}
	return tok.Source.Pos
}

// usageOrder returns the names referenced in s ordered by first reference.
func usageOrder(s *Scope) []string {
	names := make([]string, 0, len(s.usages))
	for name := range s.usages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := s.usages[names[i]].first(), s.usages[names[j]].first()
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}

// symbolOrder returns the symbols of s in declaration order.
func symbolOrder(s *Scope) []*Symbol {
	syms := make([]*Symbol, 0, len(s.Symbols))
	for _, sym := range s.Symbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].pos() != syms[j].pos() {
			return syms[i].pos() < syms[j].pos()
		}
		return syms[i].Name < syms[j].Name
	})
	return syms
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
