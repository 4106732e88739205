// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "var a = ;",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Code:     "E030",
		Message:  "Expected an identifier and instead saw ';'.",
		Spans: []Span{
			{File: "test.js", Line: 1, Col: 9, EndCol: 9, Label: "expression expected"},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error[E030]: Expected an identifier and instead saw ';'.")
	assertContains(t, got, "--> test.js:1:9")
	assertContains(t, got, "var a = ;")
	assertContains(t, got, "        ^ expression expected")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "var a = 1;\nvar b = 2",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Code:     "W033",
		Message:  "Missing semicolon.",
		Spans: []Span{
			{File: "test.js", Line: 2, Col: 9, EndCol: 9},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "warning[W033]: Missing semicolon.")
	assertContains(t, got, "--> test.js:2:9")
	assertContains(t, got, " 2 |  var b = 2")
	assertNotContains(t, got, "var a = 1;")
}

func TestRenderWithoutCode(t *testing.T) {
	r := testRenderer(nil)
	var buf bytes.Buffer
	if err := r.Render(&buf, Diagnostic{Severity: SeverityNote, Message: "3 files linted"}); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "note: 3 files linted")
	assertNotContains(t, buf.String(), "[")
}

func TestRenderSpanSource(t *testing.T) {
	// Source carried by the span wins over the reader.
	r := testRenderer(map[string]string{
		"test.js": "stale text",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Code:     "W030",
		Message:  "Expected an assignment or function call and instead saw an expression.",
		Spans: []Span{
			{File: "test.js", Line: 1, Col: 1, Source: "a.b;"},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "a.b;")
	assertNotContains(t, got, "stale text")
	assertContains(t, got, "^^^\n")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans: []Span{
			{File: "<stdin>", Line: 5, Col: 3},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: some error")
	assertContains(t, got, "--> <stdin>:5:3")
	// Should have a gutter but no source line
	assertContains(t, got, "|")
	assertNotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "if (a = b) {}",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Code:     "W084",
		Message:  "Expected a conditional expression and instead saw an assignment.",
		Spans: []Span{
			{File: "test.js", Line: 1, Col: 7, EndCol: 7},
		},
		Notes: []string{
			"wrap the assignment in parentheses to mark it as intended",
			"or set boss: true",
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "= note: wrap the assignment in parentheses to mark it as intended")
	assertContains(t, got, "= note: or set boss: true")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "var value = other;",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "'value' is defined but never used.",
		Spans: []Span{
			{File: "test.js", Line: 1, Col: 5}, // EndCol=0 → auto-detect
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// "value" starts at col 5 and is 5 chars
	assertContains(t, got, "    ^^^^^\n")
}

func TestRenderTabs(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "\tfoo();",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "tabbed",
		Spans:    []Span{{File: "test.js", Line: 1, Col: 2}},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "|      foo();")
	assertContains(t, got, "|      ^^^\n")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "var a = 1\nvar b = 2\nif (c = d) {}",
	})

	diags := []Diagnostic{
		{
			Severity: SeverityWarning,
			Code:     "W033",
			Message:  "Missing semicolon.",
			Spans:    []Span{{File: "test.js", Line: 2, Col: 9, EndCol: 9}},
		},
		{
			Severity: SeverityWarning,
			Code:     "W084",
			Message:  "Expected a conditional expression and instead saw an assignment.",
			Spans:    []Span{{File: "test.js", Line: 3, Col: 7, EndCol: 7}},
		},
	}

	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// Should have both diagnostics separated by blank line
	parts := strings.Split(got, "\n\n")
	if len(parts) < 2 {
		t.Errorf("expected diagnostics separated by blank line, got:\n%s", got)
	}
	assertContains(t, got, "Missing semicolon.")
	assertContains(t, got, "instead saw an assignment")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Code:     "E043",
		Message:  "Too many errors.",
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error[E043]: Too many errors.")
	// Should be just the header, no arrows or source
	assertNotContains(t, got, "-->")
}

func TestRenderColorAlways(t *testing.T) {
	r := &Renderer{Color: ColorAlways}
	var buf bytes.Buffer
	if err := r.Render(&buf, Diagnostic{Severity: SeverityError, Code: "E043", Message: "Too many errors."}); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "\033[1;31m")
	assertContains(t, buf.String(), "error[E043]")
}

func TestRenderInfo(t *testing.T) {
	r := testRenderer(nil)
	var buf bytes.Buffer
	d := Diagnostic{Severity: SeverityInfo, Code: "I003", Message: "ES5 option is now set per default"}
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "info[I003]: ES5 option is now set per default\n")
}

func TestRenderSpansOnOneLine(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "if (a == b || c == d) {}",
	})
	d := Diagnostic{
		Severity: SeverityWarning,
		Code:     "W041",
		Message:  "Use '===' to compare.",
		Spans: []Span{
			{File: "test.js", Line: 1, Col: 7, EndCol: 8, Label: "here"},
			{File: "test.js", Line: 1, Col: 17, EndCol: 18, Label: "and here"},
		},
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if n := strings.Count(got, "-->"); n != 1 {
		t.Errorf("expected one location line, got %d:\n%s", n, got)
	}
	assertContains(t, got, "|        ^^        ^^ here; and here\n")
}

func TestRenderWideRunes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "var s = '日本'; x",
	})
	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "wide",
		Spans:    []Span{{File: "test.js", Line: 1, Col: 15}},
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	// The two ideographs occupy four terminal columns.
	assertContains(t, buf.String(), "|  "+strings.Repeat(" ", 16)+"^\n")
}

func TestRenderTabWidth(t *testing.T) {
	r := testRenderer(map[string]string{"test.js": "\tfoo();"})
	r.TabWidth = 2
	var buf bytes.Buffer
	if err := r.Render(&buf, Diagnostic{Message: "tabbed", Spans: []Span{{File: "test.js", Line: 1, Col: 2}}}); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "|    foo();")
	assertContains(t, buf.String(), "|    ^^^\n")
}

func TestRenderReadsSourceOnce(t *testing.T) {
	reads := 0
	r := &Renderer{
		Color: ColorNever,
		SourceReader: func(string) ([]byte, error) {
			reads++
			return []byte("var a = 1\r\nvar b = 2\r\n"), nil
		},
	}
	diags := []Diagnostic{
		{Severity: SeverityWarning, Message: "one", Spans: []Span{{File: "test.js", Line: 1, Col: 10}}},
		{Severity: SeverityWarning, Message: "two", Spans: []Span{{File: "test.js", Line: 2, Col: 10}}},
		{Severity: SeverityWarning, Message: "three", Spans: []Span{{File: "test.js", Line: 9, Col: 1}}},
	}
	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}
	if reads != 1 {
		t.Errorf("source read %d times, want 1", reads)
	}
	assertContains(t, buf.String(), " 2 |  var b = 2\n")
	assertNotContains(t, buf.String(), "\r")
}

func TestTally(t *testing.T) {
	tests := []struct {
		diags []Diagnostic
		want  string
		sev   Severity
	}{
		{nil, "no problems", SeverityNote},
		{[]Diagnostic{{Severity: SeverityWarning}}, "1 warning", SeverityWarning},
		{[]Diagnostic{{Severity: SeverityWarning}, {Severity: SeverityWarning}, {Severity: SeverityNote}}, "2 warnings", SeverityWarning},
		{[]Diagnostic{{Severity: SeverityError}, {Severity: SeverityWarning}, {Severity: SeverityWarning}}, "1 error and 2 warnings", SeverityError},
		{[]Diagnostic{{Severity: SeverityInfo}, {Severity: SeverityError}, {Severity: SeverityError}, {Severity: SeverityWarning}}, "2 errors, 1 warning and 1 info message", SeverityError},
	}
	for _, tt := range tests {
		tally := Count(tt.diags)
		if got := tally.String(); got != tt.want {
			t.Errorf("Count(%v).String() = %q, want %q", tt.diags, got, tt.want)
		}
		if got := tally.Severity(); got != tt.sev {
			t.Errorf("Count(%v).Severity() = %v, want %v", tt.diags, got, tt.sev)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	r := testRenderer(nil)
	var buf bytes.Buffer
	if err := r.RenderSummary(&buf, []Diagnostic{{Severity: SeverityNote}}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no summary for notes, got %q", buf.String())
	}
	diags := []Diagnostic{{Severity: SeverityError}, {Severity: SeverityWarning}}
	if err := r.RenderSummary(&buf, diags); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "error: 1 error and 1 warning emitted\n"; got != want {
		t.Errorf("RenderSummary = %q, want %q", got, want)
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("output unexpectedly contains %q:\n%s", unwanted, got)
	}
}
