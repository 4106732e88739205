// Copyright © 2024 The ELPS authors

package hint

import (
	"testing"
)

func TestRules(t *testing.T) {
	es6 := map[string]interface{}{"esversion": 6}
	tests := []struct {
		name   string
		source string
		opts   map[string]interface{}
		code   string
	}{
		// Operators and comparisons.
		{"eqeqeq null", "var b = a == null;\n", map[string]interface{}{"eqeqeq": true}, "W041"},
		{"eqeqeq", "var c = a == b;\n", map[string]interface{}{"eqeqeq": true}, "W116"},
		{"NaN comparison", "var b = a === NaN;\n", nil, "W019"},
		{"typeof typo", "var b = typeof a == \"strnig\";\n", nil, "W122"},
		{"confusing plus", "a = b + +c;\n", nil, "W007"},
		{"confusing bang", "var b = !a == c;\n", nil, "W018"},
		{"bitwise", "var c = a | b;\n", map[string]interface{}{"bitwise": true}, "W016"},

		// Calls and members.
		{"eval", "eval(\"a\");\n", nil, "W061"},
		{"string timeout", "setTimeout(\"a()\", 10);\n", nil, "W066"},
		{"dot notation", "a[\"b\"] = 1;\n", nil, "W069"},
		{"newcap", "Foo();\n", map[string]interface{}{"newcap": true}, "W064"},
		{"Math call", "Math();\n", nil, "W063"},
		{"nocomma", "a(), b();\n", map[string]interface{}{"nocomma": true}, "W127"},
		{"delete variable", "var a;\ndelete a;\n", nil, "W051"},
		{"new Array", "var a = new Array();\n", nil, "W009"},
		{"new Object", "var o = new Object();\n", nil, "W010"},
		{"single group", "var a = (b);\n", map[string]interface{}{"singleGroups": true}, "W126"},
		{"call on next line", "var a = b()\n(c);\n", map[string]interface{}{"asi": true}, "W014"},
		{"index on next line", "var a = b()\n[0];\n", map[string]interface{}{"asi": true}, "W014"},

		// Scope and declarations.
		{"loop function", "for (var i = 0; i < 3; i++) {\n  fns.push(function () {\n    return i;\n  });\n}\n", nil, "W083"},
		{"duplicate parameter", "function f(a, a) {\n  return a;\n}\n", nil, "W004"},
		{"let redeclared", "let a = 1;\nlet a = 2;\n", es6, "E011"},
		{"const before es6", "const a = 1;\n", nil, "W104"},
		{"const without value", "const a;\n", es6, "E012"},
		{"unused variable", "var a = 1;\n", map[string]interface{}{"unused": true}, "W098"},
		{"undefined variable", "a = 1;\n", map[string]interface{}{"undef": true}, "W117"},

		// Object literals.
		{"duplicate key", "var o = { a: 1, a: 2 };\n", nil, "W075"},
		{"setter only", "var o = { set a(v) {} };\n", nil, "W078"},
		{"getter parameter", "var o = { get a(b) { return b; } };\n", nil, "W076"},

		// Statements and modules.
		{"curly if", "if (a)\n  b();\n", map[string]interface{}{"curly": true}, "W116"},
		{"curly while", "while (a)\n  b();\n", map[string]interface{}{"curly": true}, "W116"},
		{"fallthrough", "switch (a) {\ncase 1:\n  b();\ncase 2:\n  c();\n}\n", nil, "W086"},
		{"unreachable", "function f() {\n  return 1;\n  f();\n}\n", nil, "W027"},
		{"extra semicolon", "var a = 1;;\n", nil, "W032"},
		{"nested import", "function f() {\n  import a from \"a\";\n}\n", es6, "E053"},
		{"empty export", "export {};\n", map[string]interface{}{"esversion": 6, "module": true}, "W141"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertHasDiag(t, lintSource(t, test.source, test.opts), test.code)
		})
	}
}

func TestRules_Relaxed(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   map[string]interface{}
		code   string
	}{
		{"eqnull", "var b = a == null;\n", map[string]interface{}{"eqeqeq": true, "eqnull": true}, "W041"},
		{"evil", "eval(\"a\");\n", map[string]interface{}{"evil": true}, "W061"},
		{"sub", "a[\"b\"] = 1;\n", map[string]interface{}{"sub": true}, "W069"},
		{"loopfunc", "for (var i = 0; i < 3; i++) {\n  fns.push(function () {\n    return i;\n  });\n}\n", map[string]interface{}{"loopfunc": true}, "W083"},
		{"used variable", "var a = 1;\nf(a);\n", map[string]interface{}{"unused": true}, "W098"},
		{"declared variable", "var a;\na = 1;\n", map[string]interface{}{"undef": true}, "W117"},
		{"getter and setter", "var o = { get a() { return 1; }, set a(v) {} };\n", nil, "W078"},
		{"break before case", "switch (a) {\ncase 1:\n  b();\n  break;\ncase 2:\n  c();\n}\n", nil, "W086"},
		{"Array call", "var a = Array(3);\n", nil, "W009"},
		{"new Array with length", "var a = new Array(3);\n", nil, "W009"},
		{"number member", "var a = (1).toString();\n", map[string]interface{}{"singleGroups": true}, "W126"},
		{"needed group", "var a = (b + c) * d;\n", map[string]interface{}{"singleGroups": true}, "W126"},
		{"groups allowed", "var a = (b);\n", nil, "W126"},
		{"call on same line", "var a = b()(c);\n", map[string]interface{}{"asi": true}, "W014"},
		{"braceless if", "if (a)\n  b();\n", nil, "W116"},
		{"top level import", "import a from \"a\";\nf(a);\n", map[string]interface{}{"esversion": 6, "module": true}, "E053"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertNoDiag(t, lintSource(t, test.source, test.opts), test.code)
		})
	}
}
