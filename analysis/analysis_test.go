// Copyright © 2024 The ELPS authors

package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/esvet/options"
	"github.com/luthersystems/esvet/parser/token"
)

type testHost struct {
	opts  *options.Set
	warns []string
}

func (h *testHost) Warn(code string, tok *token.Token, args ...string) {
	h.warns = append(h.warns, strings.TrimSpace(code+" "+strings.Join(args, " ")))
}

func (h *testHost) Options() *options.Set {
	return h.opts
}

func newTestManager(vals map[string]interface{}, globals options.Globals) (*Manager, *testHost) {
	h := &testHost{opts: options.New(vals)}
	return NewManager(h, globals), h
}

func tok(pos, line int) *token.Token {
	return &token.Token{
		Type:   token.IDENT,
		Source: &token.Location{File: "test.js", Pos: pos, Line: line, Col: 1},
	}
}

// --- Scope tests ---

func TestScope_Define_Lookup(t *testing.T) {
	parent := NewScope(ScopeGlobal, nil)
	child := NewScope(ScopeBlock, parent)

	parent.Define(&Symbol{Name: "x", Kind: SymVar})
	child.Define(&Symbol{Name: "y", Kind: SymLet})

	assert.NotNil(t, child.Lookup("x"))
	assert.NotNil(t, child.Lookup("y"))
	assert.NotNil(t, parent.Lookup("x"))
	assert.Nil(t, parent.Lookup("y"))
	assert.Nil(t, child.LookupLocal("x"))
}

func TestScope_Shadowing(t *testing.T) {
	parent := NewScope(ScopeGlobal, nil)
	child := NewScope(ScopeBlock, parent)

	parentSym := &Symbol{Name: "x", Kind: SymVar}
	childSym := &Symbol{Name: "x", Kind: SymLet}
	parent.Define(parentSym)
	child.Define(childSym)

	assert.Same(t, childSym, child.Lookup("x"))
	assert.Same(t, parentSym, parent.Lookup("x"))
}

func TestScope_IsFunctionBody(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	params := NewScope(ScopeParams, NewScope(ScopeFunctionOuter, global))
	body := NewScope(ScopeBlock, params)
	inner := NewScope(ScopeBlock, body)

	assert.True(t, global.IsFunctionBody())
	assert.True(t, body.IsFunctionBody())
	assert.False(t, inner.IsFunctionBody())
	assert.Same(t, body, inner.functionBody())
}

// --- Manager tests ---

func TestManager_Balance(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	m.Stack(ScopeFunctionOuter)
	m.Stack(ScopeParams)
	m.Stack(ScopeBlock)
	assert.Equal(t, 3, m.Depth())
	m.Unstack()
	m.Unstack()
	m.Unstack()
	m.Finish()

	stacks, unstacks := m.Balance()
	assert.Equal(t, 3, stacks)
	assert.Equal(t, stacks, unstacks)
	assert.Equal(t, 0, m.Depth())
}

func TestManager_FinishUnstacksOpenFrames(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	m.Stack(ScopeBlock)
	m.Stack(ScopeBlock)
	m.Finish()
	m.Finish()

	stacks, unstacks := m.Balance()
	assert.Equal(t, 2, stacks)
	assert.Equal(t, 2, unstacks)
}

func TestManager_HoistedFunction(t *testing.T) {
	m, h := newTestManager(map[string]interface{}{"undef": true}, nil)
	m.Use("f", tok(1, 1))
	m.AddDeclaration("f", SymFunction, tok(10, 2), 0)
	m.Finish()

	assert.Empty(t, h.warns)
	assert.Empty(t, m.Implied())
	assert.Equal(t, []string{"f"}, m.DefinedGlobals())
}

func TestManager_Undefined(t *testing.T) {
	m, h := newTestManager(map[string]interface{}{"undef": true}, nil)
	m.Use("x", tok(1, 1))
	m.Use("x", tok(20, 3))
	m.Finish()

	assert.Equal(t, []string{"W117 x", "W117 x"}, h.warns)
	require.Len(t, m.Implied(), 1)
	assert.Equal(t, Implied{Name: "x", Lines: []int{1, 3}}, m.Implied()[0])
}

func TestManager_Forgive(t *testing.T) {
	m, h := newTestManager(map[string]interface{}{"undef": true}, nil)
	ref := tok(1, 1)
	m.Use("x", ref)
	m.Forgive(ref)
	m.Finish()

	assert.Empty(t, h.warns)
	assert.Empty(t, m.Implied())
}

func TestManager_Predefined(t *testing.T) {
	m, h := newTestManager(map[string]interface{}{"undef": true}, options.Globals{
		"window":  false,
		"counter": true,
	})
	m.Use("window", tok(1, 1))
	m.Reassign("window", tok(1, 1))
	m.Reassign("counter", tok(10, 2))
	m.Finish()

	assert.Equal(t, []string{"W020"}, h.warns)
	assert.Equal(t, []string{"counter", "window"}, m.UsedGlobals())
	assert.True(t, m.IsPredefined("window"))
	m.RemoveGlobal("window")
	assert.False(t, m.IsPredefined("window"))
}

func TestManager_ReassignChecks(t *testing.T) {
	tests := []struct {
		name string
		kind SymbolKind
		want []string
	}{
		{"const", SymConst, []string{"E013 c"}},
		{"import", SymImport, []string{"E013 c"}},
		{"function", SymFunction, []string{"W021 c function"}},
		{"class", SymClass, []string{"W021 c class"}},
		{"var", SymVar, nil},
		{"let", SymLet, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, h := newTestManager(nil, nil)
			m.AddDeclaration("c", test.kind, tok(1, 1), 0)
			m.Reassign("c", tok(5, 2))
			m.Finish()
			assert.Equal(t, test.want, h.warns)
		})
	}
}

func TestManager_UseBeforeDeclaration(t *testing.T) {
	tests := []struct {
		name string
		kind SymbolKind
		opts map[string]interface{}
		want []string
	}{
		{"let", SymLet, nil, []string{"E056 a let"}},
		{"const", SymConst, nil, []string{"E056 a const"}},
		{"var", SymVar, nil, nil},
		{"var latedef", SymVar, map[string]interface{}{"latedef": true}, []string{"W003 a"}},
		{"function latedef", SymFunction, map[string]interface{}{"latedef": true}, []string{"W003 a"}},
		{"function nofunc", SymFunction, map[string]interface{}{"latedef": "nofunc"}, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, h := newTestManager(test.opts, nil)
			m.Stack(ScopeFunctionOuter)
			m.Stack(ScopeParams)
			m.Stack(ScopeBlock)
			m.Use("a", tok(1, 1))
			m.AddDeclaration("a", test.kind, tok(5, 2), 0)
			m.Unstack()
			m.Unstack()
			m.Unstack()
			m.Finish()
			assert.Equal(t, test.want, h.warns)
		})
	}
}

func TestManager_UseFromNestedFunction(t *testing.T) {
	m, h := newTestManager(nil, nil)
	m.Stack(ScopeFunctionOuter)
	m.Stack(ScopeParams)
	m.Stack(ScopeBlock)
	m.Use("later", tok(1, 1))
	m.Unstack()
	m.Unstack()
	m.Unstack()
	m.AddDeclaration("later", SymLet, tok(20, 3), 0)
	m.Finish()

	assert.Empty(t, h.warns)
}

func TestManager_OutOfScope(t *testing.T) {
	for _, funcscope := range []bool{false, true} {
		m, h := newTestManager(map[string]interface{}{"funcscope": funcscope}, nil)
		m.Stack(ScopeBlock)
		m.AddDeclaration("v", SymVar, tok(3, 1), 0)
		m.Use("v", tok(5, 1))
		m.Unstack()
		m.Use("v", tok(10, 2))
		m.Finish()
		if funcscope {
			assert.Empty(t, h.warns)
		} else {
			assert.Equal(t, []string{"W038 v"}, h.warns)
		}
	}
}

func TestManager_Redeclaration(t *testing.T) {
	tests := []struct {
		name   string
		first  SymbolKind
		second SymbolKind
		opts   map[string]interface{}
		want   []string
	}{
		{"let let", SymLet, SymLet, nil, []string{"E011 x"}},
		{"var let", SymVar, SymLet, nil, []string{"E011 x"}},
		{"let var", SymLet, SymVar, nil, []string{"E011 x"}},
		{"var var", SymVar, SymVar, nil, []string{"W004 x"}},
		{"var var shadow", SymVar, SymVar, map[string]interface{}{"shadow": true}, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, h := newTestManager(test.opts, nil)
			m.AddDeclaration("x", test.first, tok(1, 1), DeclNoUnused)
			m.AddDeclaration("x", test.second, tok(5, 2), DeclNoUnused)
			assert.Equal(t, test.want, h.warns)
		})
	}
}

func TestManager_ShadowOuter(t *testing.T) {
	m, h := newTestManager(map[string]interface{}{"shadow": "outer"}, nil)
	m.AddDeclaration("x", SymVar, tok(1, 1), 0)
	m.Stack(ScopeFunctionOuter)
	m.Stack(ScopeParams)
	m.Stack(ScopeBlock)
	m.AddDeclaration("x", SymVar, tok(10, 2), 0)
	assert.Equal(t, []string{"W123 x"}, h.warns)
}

func TestManager_RedefineReadOnlyGlobal(t *testing.T) {
	m, h := newTestManager(nil, options.Globals{"Array": false})
	m.AddDeclaration("Array", SymVar, tok(1, 1), DeclNoUnused)
	assert.Equal(t, []string{"W079 Array"}, h.warns)
}

func TestManager_DuplicateParameter(t *testing.T) {
	m, h := newTestManager(nil, nil)
	m.Stack(ScopeFunctionOuter)
	m.Stack(ScopeParams)
	m.AddParameter("a", tok(1, 1))
	m.AddParameter("a", tok(3, 1))
	assert.Equal(t, []string{"W004 a"}, h.warns)
}

func TestManager_Unused(t *testing.T) {
	tests := []struct {
		mode  interface{}
		warns []string
		names []string
	}{
		{true, []string{"W098 x", "W098 c"}, []string{"x", "c"}},
		{"vars", []string{"W098 x"}, []string{"x", "c"}},
		{"strict", []string{"W098 x", "W098 c", "W098 a"}, []string{"x", "c", "a"}},
		{false, nil, []string{"x", "c"}},
	}
	for _, test := range tests {
		m, h := newTestManager(map[string]interface{}{"unused": test.mode}, nil)
		m.Stack(ScopeFunctionOuter)
		m.Stack(ScopeParams)
		m.AddParameter("a", tok(2, 1))
		m.AddParameter("b", tok(4, 1))
		m.AddParameter("c", tok(6, 1))
		m.Stack(ScopeBlock)
		m.AddDeclaration("x", SymVar, tok(10, 2), 0)
		m.Use("b", tok(12, 3))
		m.Unstack()
		m.Unstack()
		m.Unstack()
		m.Finish()

		assert.Equal(t, test.warns, h.warns, "unused=%v", test.mode)
		var names []string
		for _, u := range m.Unused() {
			names = append(names, u.Name)
		}
		assert.Equal(t, test.names, names, "unused=%v", test.mode)
	}
}

func TestManager_Exported(t *testing.T) {
	m, h := newTestManager(map[string]interface{}{"unused": true}, nil)
	m.AddDeclaration("api", SymFunction, tok(1, 1), 0)
	m.SetExported("api", tok(1, 1))
	m.AddDeclaration("later", SymVar, tok(5, 2), 0)
	m.SetExported("later", tok(5, 2))
	m.Finish()

	assert.Empty(t, h.warns)
	assert.Equal(t, []string{"api", "later"}, m.Exported())
}

func TestManager_Captured(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	m.AddDeclaration("i", SymVar, tok(1, 1), 0)
	m.AddDeclaration("k", SymConst, tok(3, 1), 0)
	m.Stack(ScopeFunctionOuter)
	m.Stack(ScopeParams)
	m.Stack(ScopeBlock)
	m.Use("i", tok(10, 2))
	m.Use("k", tok(12, 2))
	m.Unstack()
	m.Unstack()

	assert.Equal(t, []string{"i"}, m.Captured())
}

func TestManager_Labels(t *testing.T) {
	m, h := newTestManager(nil, nil)
	m.Stack(ScopeLabel)
	m.AddLabel("outer", tok(1, 1))
	m.Stack(ScopeLabel)
	assert.True(t, m.HasBreakLabel("outer"))
	m.AddLabel("outer", tok(5, 2))
	assert.Equal(t, []string{"E011 outer"}, h.warns)

	m.Stack(ScopeFunctionOuter)
	m.Stack(ScopeParams)
	m.Stack(ScopeBlock)
	assert.False(t, m.HasBreakLabel("outer"))
}
