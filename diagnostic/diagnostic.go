// Copyright © 2024 The ELPS authors

// Package diagnostic renders linter findings as annotated source excerpts
// for a terminal.  It does not depend on the linter core so that any
// command can render with it.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity is the severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	// SeverityInfo marks informational findings.
	SeverityInfo
	// SeverityNote marks messages that are not findings, such as a run
	// summary.
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span is a region of one source line to underline.
type Span struct {
	File string // path for reading source; display name if unreadable
	Line int    // 1-based line number
	Col  int    // 1-based start column, counted in runes
	// EndCol is the 1-based inclusive end column.  Zero extends the span
	// to the end of the word at Col.
	EndCol int
	Label  string // text shown after the underline
	// Source is the text of the line.  When empty the line is read from
	// File.
	Source string
}

// Diagnostic is a finding with optional source spans and trailing notes.
type Diagnostic struct {
	Severity Severity
	Code     string // shown after the severity, as in warning[W033]
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines
}

// Tally counts diagnostics by severity.
type Tally struct {
	Errors   int
	Warnings int
	Infos    int
}

// Count tallies diags.  Notes are not counted.
func Count(diags []Diagnostic) Tally {
	var t Tally
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			t.Errors++
		case SeverityWarning:
			t.Warnings++
		case SeverityInfo:
			t.Infos++
		}
	}
	return t
}

// Total returns the number of counted diagnostics.
func (t Tally) Total() int {
	return t.Errors + t.Warnings + t.Infos
}

// Severity returns the most severe class present in t.
func (t Tally) Severity() Severity {
	switch {
	case t.Errors > 0:
		return SeverityError
	case t.Warnings > 0:
		return SeverityWarning
	case t.Infos > 0:
		return SeverityInfo
	default:
		return SeverityNote
	}
}

// String describes t, e.g. "1 error and 2 warnings".
func (t Tally) String() string {
	var parts []string
	add := func(n int, word string) {
		if n == 0 {
			return
		}
		if n != 1 {
			word += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, word))
	}
	add(t.Errors, "error")
	add(t.Warnings, "warning")
	add(t.Infos, "info message")
	switch len(parts) {
	case 0:
		return "no problems"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
