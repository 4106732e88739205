// Copyright © 2024 The ELPS authors

package hint

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/esvet/options"
	"github.com/luthersystems/esvet/parser/token"
)

// lintSource lints source with the given option values and returns the
// result.
func lintSource(t *testing.T, source string, vals map[string]interface{}) *Result {
	t.Helper()
	r := Lint([]byte(source), Config{File: "test.js", Options: options.New(vals)})
	require.NotNil(t, r)
	return r
}

// assertHasDiag checks that a diagnostic with the given code was reported.
func assertHasDiag(t *testing.T, r *Result, code string) {
	t.Helper()
	for _, d := range r.Diagnostics {
		if d.Code == code {
			return
		}
	}
	t.Errorf("expected diagnostic %s, got: %v", code, describe(r))
}

// assertNoDiag checks that no diagnostic with the given code was reported.
func assertNoDiag(t *testing.T, r *Result, code string) {
	t.Helper()
	for _, d := range r.Diagnostics {
		if d.Code == code {
			t.Errorf("unexpected diagnostic %s, got: %v", code, describe(r))
			return
		}
	}
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, r *Result) {
	t.Helper()
	if len(r.Diagnostics) > 0 {
		t.Errorf("expected no diagnostics, got %d: %v", len(r.Diagnostics), describe(r))
	}
}

// assertDiagOnLine checks that a diagnostic with the given code exists on
// the given line.
func assertDiagOnLine(t *testing.T, r *Result, line int, code string) {
	t.Helper()
	for _, d := range r.Diagnostics {
		if d.Line == line && d.Code == code {
			return
		}
	}
	t.Errorf("expected diagnostic %s on line %d, got: %v", code, line, describe(r))
}

func describe(r *Result) []string {
	var msgs []string
	for _, d := range r.Diagnostics {
		msgs = append(msgs, fmt.Sprintf("line %d: %s %s", d.Line, d.Code, d.Message))
	}
	return msgs
}

func countCode(r *Result, code string) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestLint_CleanSource(t *testing.T) {
	sources := []string{
		"var a = 1;\n",
		"var a = 1, b = a + 2;\n",
		"function f(a, b) {\n  return a + b;\n}\nf(1, 2);\n",
		"var o = { a: 1, b: [1, 2, 3] };\n",
		"if (a) {\n  b();\n} else {\n  c();\n}\n",
		"for (var i = 0; i < 3; i++) {\n  f(i);\n}\n",
		"try {\n  f();\n} catch (e) {\n  g(e);\n}\n",
		"while (a) {\n  a--;\n}\n",
		"var x = [1, 2].map(f);\n",
	}
	for _, src := range sources {
		t.Run(strings.SplitN(src, "\n", 2)[0], func(t *testing.T) {
			assertNoDiags(t, lintSource(t, src, nil))
		})
	}
}

func TestLint_ES6CleanSource(t *testing.T) {
	es6 := map[string]interface{}{"esversion": 6}
	sources := []string{
		"let a = 1;\nconst b = a;\n",
		"const f = (a, b) => a + b;\n",
		"const g = x => x * 2;\n",
		"class A extends B {\n  constructor() {\n    super();\n  }\n  get x() {\n    return 1;\n  }\n}\n",
		"const [a, b] = c;\n",
		"const { a, b: d } = c;\n",
		"for (const x of xs) {\n  f(x);\n}\n",
		"function* gen() {\n  yield 1;\n}\n",
		"const s = `a${b}c`;\n",
	}
	for _, src := range sources {
		t.Run(strings.SplitN(src, "\n", 2)[0], func(t *testing.T) {
			assertNoDiags(t, lintSource(t, src, es6))
		})
	}
}

func TestLint_MissingSemicolon(t *testing.T) {
	src := "var a = 1\nvar b = 2\n"
	r := lintSource(t, src, nil)
	assert.Equal(t, 2, countCode(r, "W033"))
	assertDiagOnLine(t, r, 1, "W033")
	assertDiagOnLine(t, r, 2, "W033")

	r = lintSource(t, src, map[string]interface{}{"asi": true})
	assertNoDiags(t, r)
}

func TestLint_LastSemic(t *testing.T) {
	src := "function f() { return 1 }\n"
	assertHasDiag(t, lintSource(t, src, nil), "W033")
	assertNoDiags(t, lintSource(t, src, map[string]interface{}{"lastsemic": true}))
}

func TestLint_ConditionalAssignment(t *testing.T) {
	assertHasDiag(t, lintSource(t, "if (a = b) {\n}\n", nil), "W084")
	assertNoDiag(t, lintSource(t, "if ((a = b)) {\n}\n", nil), "W084")
	assertNoDiag(t, lintSource(t, "if (a = b) {\n}\n", map[string]interface{}{"boss": true}), "W084")
	assertHasDiag(t, lintSource(t, "while (a = b) {\n}\n", nil), "W084")
}

func TestLint_MaxErr(t *testing.T) {
	src := "a;\nb;\nc;\nd;\ne;\n"
	r := lintSource(t, src, map[string]interface{}{"maxerr": 2})
	require.Len(t, r.Diagnostics, 3)
	assert.Equal(t, []string{"W030", "W030", "E043"}, r.Codes())
	require.NotNil(t, r.Fatal)
	assert.Equal(t, "E043", r.Fatal.Code)
	assert.True(t, r.Aborted())
	assert.False(t, r.OK)
}

func TestLint_MaxErrNotReached(t *testing.T) {
	r := lintSource(t, "a;\nb;\n", map[string]interface{}{"maxerr": 5})
	assert.Equal(t, []string{"W030", "W030"}, r.Codes())
	assert.Nil(t, r.Fatal)
}

func TestLint_MaxNesting(t *testing.T) {
	src := "var a = " + strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40) + ";\n"
	r := lintSource(t, src, map[string]interface{}{"maxnesting": 20})
	require.NotNil(t, r.Fatal)
	assert.Equal(t, "E080", r.Fatal.Code)
	codes := r.Codes()
	assert.Equal(t, "E080", codes[len(codes)-1])
}

func TestLint_Functions(t *testing.T) {
	src := "function f(a, b) {\n  if (a) {\n    return b;\n  }\n  return a;\n}\nvar g = function () {};\n"
	r := lintSource(t, src, nil)
	assertNoDiags(t, r)
	require.Len(t, r.Functions, 2)

	f := r.Functions[0]
	assert.Equal(t, "f", f.Name)
	assert.Equal(t, []string{"a", "b"}, f.Params)
	assert.Equal(t, 2, f.Metrics.Parameters)
	assert.Equal(t, 2, f.Metrics.Complexity)
	assert.Equal(t, 3, f.Metrics.Statements)
	assert.Equal(t, 1, f.Line)
	assert.Equal(t, 6, f.LastLine)

	g := r.Functions[1]
	assert.Equal(t, "g", g.Name)
	assert.Empty(t, g.Params)
}

func TestSession_FunctorTeardown(t *testing.T) {
	src := "function f() {\n  return function () {\n    return 1;\n  };\n}\n"
	s := NewSession(Config{File: "test.js"}, []byte(src))
	r := s.Run()
	assertNoDiags(t, r)
	assert.Same(t, s.Global(), s.Current())
	assert.True(t, s.Current().IsGlobal())
	require.Len(t, r.Functions, 2)
	assert.Same(t, r.Functions[0], r.Functions[1].Parent())
	assert.Same(t, s.Global(), r.Functions[0].Parent())
}

func TestSession_FunctorTeardownKinds(t *testing.T) {
	src := `var o = {
  get e() {
    return 1;
  },
  set e(v) {
    this.v = v;
  }
};
class C {
  m(a, b) {
    if (a) {
      return b;
    }
  }
}
function* g() {
  yield 1;
}
var h = (x) => x + 1;
`
	cfg := Config{File: "test.js", Options: options.New(map[string]interface{}{"esversion": 6})}
	s := NewSession(cfg, []byte(src))
	r := s.Run()
	require.Nil(t, r.Fatal)
	assert.Same(t, s.Global(), s.Current())
	require.Len(t, r.Functions, 5)
	for _, f := range r.Functions {
		assert.Same(t, s.Global(), f.Parent(), f.Name)
	}

	get, set, m, g, h := r.Functions[0], r.Functions[1], r.Functions[2], r.Functions[3], r.Functions[4]
	assert.Equal(t, "e", get.Name)
	assert.Equal(t, 0, get.Metrics.Parameters)
	assert.Equal(t, 1, get.Metrics.Statements)
	assert.Equal(t, 2, get.Line)
	assert.Equal(t, 4, get.LastLine)

	assert.Equal(t, "e", set.Name)
	assert.Equal(t, []string{"v"}, set.Params)
	assert.Equal(t, 1, set.Metrics.Parameters)

	assert.Equal(t, "m", m.Name)
	assert.Equal(t, []string{"a", "b"}, m.Params)
	assert.Equal(t, 2, m.Metrics.Complexity)
	assert.Equal(t, 2, m.Metrics.Statements)
	assert.Equal(t, 1, m.Metrics.Depth)

	assert.Equal(t, "g", g.Name)
	assert.True(t, g.IsGenerator())
	assert.Equal(t, 1, g.Metrics.Statements)

	assert.Equal(t, "h", h.Name)
	assert.True(t, h.IsArrow())
	assert.Equal(t, []string{"x"}, h.Params)
	assert.Equal(t, 1, h.Metrics.Parameters)
	assert.Equal(t, 19, h.LastLine)
}

func TestLint_AccessorNames(t *testing.T) {
	r := lintSource(t, "var o = {\n  get e() {\n    return 1;\n  },\n  set [k](v) {}\n};\n", map[string]interface{}{"esversion": 6})
	require.Len(t, r.Functions, 2)
	assert.Equal(t, "e", r.Functions[0].Name)
	assert.Equal(t, "k", r.Functions[1].Name)
}

func TestLint_InlineDirectives(t *testing.T) {
	tests := []struct {
		name   string
		source string
		codes  []string
	}{
		{"ignore line", "a; // esvet ignore:line\n", nil},
		{"jshint ignore line", "a; // jshint ignore:line\nb;\n", []string{"W030"}},
		{"ignore block", "/* jshint ignore:start */\na;\n/* jshint ignore:end */\nb = 1;\n", nil},
		{"maxerr", "/* jshint maxerr:1 */\na;\nb;\nc;\n", []string{"W030", "E043"}},
		{"writable global", "/* global foo:true */\nfoo = 1;\n", nil},
		{"read only global", "/* global foo */\nfoo = 1;\n", []string{"W020"}},
		{"suppressed code", "/* jshint -W030 */\na;\n", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := lintSource(t, test.source, nil)
			if test.codes == nil {
				assertNoDiags(t, r)
				return
			}
			assert.Equal(t, test.codes, r.Codes(), describe(r))
		})
	}
}

func TestLint_Evaluated(t *testing.T) {
	r := lintSource(t, "eval(\"a + 1\");\n", nil)
	assertHasDiag(t, r, "W061")
	require.Len(t, r.Evaluated, 1)
	assert.Equal(t, "eval", r.Evaluated[0].Kind)
	assert.Equal(t, "a + 1", r.Evaluated[0].Source)
	assert.Equal(t, 1, r.Evaluated[0].Line)

	r = lintSource(t, "eval(\"a + 1\");\n", map[string]interface{}{"evil": true})
	assertNoDiags(t, r)
	assert.Empty(t, r.Evaluated)
}

func TestLint_EvaluatedEscapes(t *testing.T) {
	r := lintSource(t, "eval(\"a\\nb\\t\");\n", nil)
	require.Len(t, r.Evaluated, 1)
	assert.Equal(t, "a\nb\t", r.Evaluated[0].Source)
}

func TestLint_Events(t *testing.T) {
	var idents, strs, nums, codes []string
	ev := &Events{
		Identifier: func(name string, _ *token.Token) { idents = append(idents, name) },
		String:     func(value string, _ *token.Token) { strs = append(strs, value) },
		Number:     func(value string, _ *token.Token) { nums = append(nums, value) },
		Diagnostic: func(d *Diagnostic) { codes = append(codes, d.Code) },
	}
	r := Lint([]byte("var a = b + \"s\" + 1;\nc;\n"), Config{File: "test.js", Events: ev})
	assert.Equal(t, []string{"a", "b", "c"}, idents)
	assert.Equal(t, []string{"s"}, strs)
	assert.Equal(t, []string{"1"}, nums)
	assert.Equal(t, r.Codes(), codes)
	assert.Equal(t, []string{"W030"}, codes)
}

func TestLint_MetricThresholds(t *testing.T) {
	tests := []struct {
		name   string
		option string
		limit  int
		source string
		code   string
		line   int
	}{
		{"statements", "maxstatements", 1, "function f() {\n  a();\n  b();\n}\n", "W071", 1},
		{"parameters", "maxparams", 1, "function f(a, b) {\n  return a + b;\n}\n", "W072", 1},
		{"depth", "maxdepth", 1, "function f(a) {\n  if (a) {\n    if (a) {\n      return a;\n    }\n  }\n}\n", "W073", 3},
		{"complexity", "maxcomplexity", 1, "function f(a) {\n  if (a) {\n    return 1;\n  }\n  return 2;\n}\n", "W074", 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := lintSource(t, test.source, map[string]interface{}{test.option: test.limit})
			assertDiagOnLine(t, r, test.line, test.code)
			assert.Equal(t, 1, countCode(r, test.code))

			r = lintSource(t, test.source, map[string]interface{}{test.option: test.limit + 1})
			assertNoDiag(t, r, test.code)
		})
	}
}

func TestLint_LetExpressionScope(t *testing.T) {
	src := "var b = let (a = 1) a;\nf(a, b);\n"
	r := lintSource(t, src, map[string]interface{}{"moz": true, "undef": true})
	assertNoDiag(t, r, "W118")
	assertDiagOnLine(t, r, 2, "W117")
	assert.Equal(t, 2, countCode(r, "W117"), describe(r))

	r = lintSource(t, src, nil)
	assertHasDiag(t, r, "W118")
}

func TestLint_Members(t *testing.T) {
	r := lintSource(t, "a.b.c;\na.b();\n", nil)
	assert.Equal(t, 2, r.Member["b"])
	assert.Equal(t, 1, r.Member["c"])
	assert.Equal(t, []string{"b", "c"}, r.Members())
}

func TestLint_Exported(t *testing.T) {
	src := "export function f() {}\nexport const a = 1;\nconst b = 2;\nexport { b };\n"
	r := lintSource(t, src, map[string]interface{}{"esversion": 6, "module": true})
	assertNoDiags(t, r)
	assert.Equal(t, []string{"a", "b", "f"}, r.Exported)
}

func TestLint_Concurrent(t *testing.T) {
	src := "var a = 1\nif (a = 2) {\n}\n"
	results := make(chan *Result, 8)
	for i := 0; i < 8; i++ {
		go func() {
			results <- Lint([]byte(src), Config{File: "test.js"})
		}()
	}
	for i := 0; i < 8; i++ {
		r := <-results
		assert.Equal(t, []string{"W033", "W084"}, r.Codes())
	}
}
