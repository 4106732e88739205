// Copyright © 2024 The ELPS authors

package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/diagnostic"
	"github.com/luthersystems/esvet/hint"
	"github.com/luthersystems/esvet/messages"
)

// Format names an output format.
type Format string

const (
	FormatNameText   Format = "text"
	FormatNamePretty Format = "pretty"
	FormatNameJSON   Format = "json"
	FormatNameYAML   Format = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatNameText, FormatNamePretty, FormatNameJSON, FormatNameYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, pretty, json or yaml)", s)
}

// FormatText writes diagnostics in go vet text format:
// file:line:col: message (code).
func FormatText(w io.Writer, rep *Report) error {
	for _, d := range rep.Diagnostics() {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s (%s)\n", d.File, d.Line, d.Col, d.Message, d.Code); err != nil {
			return err
		}
	}
	return nil
}

// FormatJSON writes the report as JSON.
func FormatJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// FormatYAML writes the report as YAML.
func FormatYAML(w io.Writer, rep *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

// FormatPretty renders diagnostics as annotated source snippets.
func FormatPretty(w io.Writer, r *diagnostic.Renderer, rep *Report) error {
	var ds []diagnostic.Diagnostic
	for _, d := range rep.Diagnostics() {
		ds = append(ds, ToDiagnostic(d))
	}
	if err := r.RenderAll(w, ds); err != nil {
		return err
	}
	if len(ds) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return r.RenderSummary(w, ds)
}

// Write formats rep to w in format f.  The pretty format uses r.
func Write(w io.Writer, f Format, r *diagnostic.Renderer, rep *Report) error {
	switch f {
	case FormatNameJSON:
		return FormatJSON(w, rep)
	case FormatNameYAML:
		return FormatYAML(w, rep)
	case FormatNamePretty:
		return FormatPretty(w, r, rep)
	default:
		return FormatText(w, rep)
	}
}

// ToDiagnostic converts a linter diagnostic for rendering.
func ToDiagnostic(d *hint.Diagnostic) diagnostic.Diagnostic {
	out := diagnostic.Diagnostic{
		Severity: severityOf(d.Class),
		Code:     d.Code,
		Message:  d.Message,
	}
	if d.Line > 0 {
		out.Spans = append(out.Spans, diagnostic.Span{
			File:   d.File,
			Line:   d.Line,
			Col:    d.Col,
			Source: d.Evidence,
		})
	}
	if d.Class == messages.Warning {
		out.Notes = append(out.Notes, "to suppress: add \"// esvet ignore:line\" on this line or \"/* esvet -"+d.Code+" */\" to the function")
	}
	return out
}

func severityOf(c messages.Class) diagnostic.Severity {
	switch c {
	case messages.Error:
		return diagnostic.SeverityError
	case messages.Info:
		return diagnostic.SeverityInfo
	default:
		return diagnostic.SeverityWarning
	}
}

// FormatSummary writes the implied globals and unused bindings of each
// file, the non-error findings that are not diagnostics.
func FormatSummary(w io.Writer, rep *Report) error {
	for _, f := range rep.Files {
		if len(f.Implied) == 0 && len(f.Unused) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(f.File + " :\n")
		if len(f.Implied) > 0 {
			b.WriteString("\tImplied globals:\n")
			for _, imp := range sortedImplied(f.Implied) {
				lines := make([]string, len(imp.Lines))
				for i, l := range imp.Lines {
					lines[i] = strconv.Itoa(l)
				}
				fmt.Fprintf(&b, "\t\t%s: %s\n", imp.Name, strings.Join(lines, ","))
			}
		}
		if len(f.Unused) > 0 {
			b.WriteString("\tUnused variables:\n")
			for _, u := range f.Unused {
				line := 0
				if u.Source != nil {
					line = u.Source.Line
				}
				fmt.Fprintf(&b, "\t\t%s(%d) %s\n", u.Name, line, u.Kind)
			}
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func sortedImplied(in []analysis.Implied) []analysis.Implied {
	out := append([]analysis.Implied(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
