// Copyright © 2024 The ELPS authors

package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/esvet/options"
)

func newTestSession(t *testing.T, source string, vals map[string]interface{}) *Session {
	t.Helper()
	s := NewSession(Config{File: "test.js", Options: options.New(vals)}, []byte(source))
	require.NoError(t, s.start())
	return s
}

// parseExpr parses a single expression from source.
func parseExpr(t *testing.T, source string) *Node {
	t.Helper()
	s := newTestSession(t, source, map[string]interface{}{"esversion": 11})
	n, err := s.expression(0, 0)
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

func TestExpression_Precedence(t *testing.T) {
	n := parseExpr(t, "1 + 2 * 3")
	assert.Equal(t, "+", n.id)
	assert.Equal(t, "1", n.Left.Value)
	assert.Equal(t, "*", n.Right.id)

	n = parseExpr(t, "1 * 2 + 3")
	assert.Equal(t, "+", n.id)
	assert.Equal(t, "*", n.Left.id)
	assert.Equal(t, "3", n.Right.Value)

	n = parseExpr(t, "a || b && c")
	assert.Equal(t, "||", n.id)
	assert.Equal(t, "&&", n.Right.id)

	n = parseExpr(t, "a == b < c")
	assert.Equal(t, "==", n.id)
	assert.Equal(t, "<", n.Right.id)

	n = parseExpr(t, "(1 + 2) * 3")
	assert.Equal(t, "*", n.id)
	assert.Equal(t, "+", n.Left.id)
	assert.True(t, n.Left.paren)
}

func TestExpression_Associativity(t *testing.T) {
	n := parseExpr(t, "1 - 2 - 3")
	assert.Equal(t, "-", n.id)
	assert.Equal(t, "-", n.Left.id)
	assert.Equal(t, "3", n.Right.Value)

	n = parseExpr(t, "2 ** 3 ** 2")
	assert.Equal(t, "**", n.id)
	assert.Equal(t, "2", n.Left.Value)
	assert.Equal(t, "**", n.Right.id)

	n = parseExpr(t, "a = b = c")
	assert.Equal(t, "=", n.id)
	assert.Equal(t, "a", n.Left.Value)
	assert.Equal(t, "=", n.Right.id)
	assert.True(t, n.assign)
}

func TestExpression_Ternary(t *testing.T) {
	n := parseExpr(t, "a ? b : c ? d : e")
	assert.Equal(t, "?", n.id)
	assert.Equal(t, "a", n.Left.Value)
	assert.Equal(t, "b", n.Right.Value)
	require.NotNil(t, n.third)
	assert.Equal(t, "?", n.third.id)
}

func TestExpression_MemberCall(t *testing.T) {
	n := parseExpr(t, "a.b(c, d)")
	assert.Equal(t, "(", n.id)
	assert.Equal(t, ".", n.Left.id)
	assert.Equal(t, "b", n.Left.Right.Value)
	assert.Len(t, n.list, 2)
	assert.True(t, n.exps)

	n = parseExpr(t, "a[0].b")
	assert.Equal(t, ".", n.id)
	assert.Equal(t, "[", n.Left.id)
}

func TestExpression_Unary(t *testing.T) {
	n := parseExpr(t, "-a * b")
	assert.Equal(t, "*", n.id)
	assert.Equal(t, "-", n.Left.id)
	assert.True(t, n.Left.unary)

	n = parseExpr(t, "typeof a === \"string\"")
	assert.Equal(t, "===", n.id)
	assert.Equal(t, "typeof", n.Left.id)
}

func TestExpression_Comma(t *testing.T) {
	n := parseExpr(t, "a = 1, b = 2")
	assert.Equal(t, ",", n.id)
	assert.Equal(t, "=", n.Left.id)
	assert.Equal(t, "=", n.Right.id)
	assert.True(t, n.exps)
}

func TestClassifyOpeningBracket(t *testing.T) {
	tests := []struct {
		source string
		want   BracketKind
	}{
		{"[a, b] = c", BracketKind{IsDestructuringAssignment: true}},
		{"[for (x of y) x]", BracketKind{IsComprehension: true}},
		{"{ a; }", BracketKind{IsOrdinaryBlock: true}},
		{"[1, 2].map(f)", BracketKind{}},
		{"{ a: [1, 2] } = c", BracketKind{IsDestructuringAssignment: true}},
		{"[a.for, b]", BracketKind{}},
	}
	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			s := newTestSession(t, test.source, nil)
			require.NoError(t, s.advance("", nil))
			before := s.next
			assert.Equal(t, test.want, s.classifyOpeningBracket())
			assert.Same(t, before, s.next, "lookahead consumed tokens")
		})
	}
}

func TestScope_Balanced(t *testing.T) {
	sources := []string{
		"function f(a) {\n  var b = a;\n  return function (c) {\n    return b + c;\n  };\n}\n",
		"try {\n  f();\n} catch (e) {\n  g(e);\n} finally {\n  h();\n}\n",
		"outer: for (let i = 0; i < 3; i++) {\n  for (const x of xs) {\n    if (x) {\n      continue outer;\n    }\n  }\n}\n",
		"const A = class B {\n  m() {\n    return B;\n  }\n};\n",
		"switch (a) {\ncase 1:\n  b();\n  break;\ndefault:\n  c();\n}\n",
		"const f = (a, { b, c }) => {\n  const [d] = b;\n  return d;\n};\n",
	}
	for _, src := range sources {
		t.Run("", func(t *testing.T) {
			s := NewSession(Config{File: "test.js", Options: options.New(map[string]interface{}{"esversion": 6})}, []byte(src))
			require.NoError(t, s.program())
			assert.Equal(t, 0, s.Scope().Depth())
			stacks, unstacks := s.Scope().Balance()
			assert.Equal(t, stacks, unstacks)
			assert.Positive(t, stacks)
			assert.Same(t, s.Global(), s.Current())
		})
	}
}

func TestNameInference(t *testing.T) {
	src := "var a = function () {};\nvar o = { b: function () {} };\nc = function () {};\n"
	r := Lint([]byte(src), Config{File: "test.js"})
	require.Len(t, r.Functions, 3)
	assert.Equal(t, "a", r.Functions[0].Name)
	assert.Equal(t, "b", r.Functions[1].Name)
	assert.Equal(t, "c", r.Functions[2].Name)
}
