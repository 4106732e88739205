// Copyright © 2024 The ELPS authors

package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Shared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestLookup_ReturnsCopy(t *testing.T) {
	tab := Default()
	sym, ok := tab.Lookup("+")
	require.True(t, ok)
	sym.LBP = 0
	again, _ := tab.Lookup("+")
	assert.Equal(t, PrecAdditive, again.LBP)
}

func TestBinaryPrecedenceOrder(t *testing.T) {
	tab := Default()
	// Each group binds tighter than the one before it.
	groups := [][]string{
		{","},
		{"=", "+=", ">>>=", "??="},
		{"?"},
		{"??"},
		{"||"},
		{"&&"},
		{"|"},
		{"^"},
		{"&"},
		{"==", "!=", "===", "!=="},
		{"<", ">", "<=", ">=", "in", "instanceof"},
		{"<<", ">>", ">>>"},
		{"+", "-"},
		{"*", "/", "%"},
		{"**"},
		{"("},
		{".", "?.", "["},
	}
	prev := -1
	for _, group := range groups {
		lbp := tab.Get(group[0]).LBP
		for _, id := range group {
			sym, ok := tab.Lookup(id)
			require.True(t, ok, id)
			assert.Equal(t, lbp, sym.LBP, id)
			assert.True(t, sym.IsInfix(), id)
		}
		assert.Greater(t, lbp, prev, group[0])
		prev = lbp
	}
}

func TestKinds(t *testing.T) {
	tab := Default()
	tests := []struct {
		id     string
		prefix PrefixKind
		infix  InfixKind
		stmt   StmtKind
	}{
		{"(identifier)", PrefixIdentifier, InfixNone, StmtNone},
		{"(number)", PrefixLiteral, InfixNone, StmtNone},
		{"(template)", PrefixTemplate, InfixTemplate, StmtNone},
		{"(", PrefixParen, InfixCall, StmtNone},
		{"[", PrefixArray, InfixIndex, StmtNone},
		{"{", PrefixObject, InfixNone, StmtNone},
		{"-", PrefixUnary, InfixBinary, StmtNone},
		{"++", PrefixIncDec, InfixPostfix, StmtNone},
		{"function", PrefixFunction, InfixNone, StmtFunction},
		{"class", PrefixClass, InfixNone, StmtClass},
		{"let", PrefixIdentifier, InfixNone, StmtLet},
		{"async", PrefixAsync, InfixNone, StmtAsync},
		{"import", PrefixImport, InfixNone, StmtImport},
		{"if", PrefixNone, InfixNone, StmtIf},
		{"do", PrefixNone, InfixNone, StmtDo},
		{"=>", PrefixNone, InfixArrow, StmtNone},
	}
	for _, tt := range tests {
		sym, ok := tab.Lookup(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.prefix, sym.Prefix, tt.id)
		assert.Equal(t, tt.infix, sym.Infix, tt.id)
		assert.Equal(t, tt.stmt, sym.Stmt, tt.id)
	}
}

func TestBlockStatements(t *testing.T) {
	tab := Default()
	for _, id := range []string{"if", "for", "while", "switch", "try", "with", "function", "class"} {
		assert.True(t, tab.Get(id).Block, id)
	}
	for _, id := range []string{"do", "var", "return", "break", "throw"} {
		sym := tab.Get(id)
		assert.False(t, sym.Block, id)
		assert.True(t, sym.Exps, id)
	}
}

func TestReach(t *testing.T) {
	tab := Default()
	for _, id := range []string{"}", "(end)", "case", "default"} {
		assert.True(t, tab.Get(id).Reach, id)
	}
	assert.False(t, tab.Get("return").Reach)
}

func TestFutureReservedWords(t *testing.T) {
	tab := Default()
	sym := tab.Get("private")
	assert.True(t, sym.IsFutureReserved())
	assert.True(t, sym.Meta.ES5)
	assert.True(t, sym.Meta.StrictOnly)
	assert.Equal(t, PrefixIdentifier, sym.Prefix)

	sym = tab.Get("goto")
	assert.True(t, sym.IsFutureReserved())
	assert.False(t, sym.Meta.ES5)

	sym = tab.Get("enum")
	assert.True(t, sym.Meta.ES5)
	assert.False(t, sym.Meta.StrictOnly)
}

func TestBuilder_Augments(t *testing.T) {
	b := newBuilder()
	b.defineInfix("-", PrecAdditive, InfixBinary, true)
	b.definePrefix("-", PrefixUnary)
	tab := b.table()
	sym := tab.Get("-")
	assert.Equal(t, PrecAdditive, sym.LBP)
	assert.Equal(t, PrefixUnary, sym.Prefix)
	assert.Equal(t, InfixBinary, sym.Infix)

	assert.Equal(t, ErrorID, tab.Get("@").ID, "unknown ids fall back")
}

func TestRightAssociative(t *testing.T) {
	sym := Default().Get("**")
	assert.True(t, sym.RightAssoc)
	assert.Less(t, sym.RBP, sym.LBP)
	assign := Default().Get("=")
	assert.Equal(t, PrecComma, assign.RBP)
	assert.Equal(t, AssignPlain, assign.Assign)
	assert.Equal(t, AssignBitwise, Default().Get("|=").Assign)
}
