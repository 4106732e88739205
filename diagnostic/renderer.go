// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// DefaultTabWidth is the number of columns a tab expands to when
// Renderer.TabWidth is zero.
const DefaultTabWidth = 4

// Renderer formats diagnostics as annotated source excerpts:
//
//	warning[W033]: Missing semicolon.
//	  --> app.js:2:10
//	   |
//	 2 |  var b = 2
//	   |           ^
//	   = note: to suppress: ...
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// TabWidth is the display width of a tab.  Zero means DefaultTabWidth.
	TabWidth int

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	return r.RenderAll(w, []Diagnostic{d})
}

// RenderAll writes diags to w separated by blank lines.  Each source file
// is read at most once.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	bw := bufio.NewWriter(w)
	x := &excerpter{
		w:   bw,
		p:   paletteFor(r.Color, w),
		tab: r.tabWidth(),
		src: &sourceCache{read: r.SourceReader, files: make(map[string][]string)},
	}
	for i, d := range diags {
		if i > 0 {
			x.print("\n")
		}
		x.diagnostic(d)
	}
	if x.err != nil {
		return x.err
	}
	return bw.Flush()
}

// RenderSummary writes a one-line tally of diags such as
// "warning: 3 warnings emitted".  Nothing is written when diags holds no
// findings.
func (r *Renderer) RenderSummary(w io.Writer, diags []Diagnostic) error {
	t := Count(diags)
	if t.Total() == 0 {
		return nil
	}
	p := paletteFor(r.Color, w)
	_, err := fmt.Fprintf(w, "%s%s%s: %s%s emitted%s\n",
		p.severity(t.Severity()), t.Severity(), p.reset,
		p.bold, t, p.reset)
	return err
}

func (r *Renderer) tabWidth() int {
	if r.TabWidth > 0 {
		return r.TabWidth
	}
	return DefaultTabWidth
}

// excerpter writes diagnostics and keeps the first write error.
type excerpter struct {
	w   io.Writer
	p   palette
	tab int
	src *sourceCache
	err error
}

func (x *excerpter) printf(format string, a ...interface{}) {
	if x.err != nil {
		return
	}
	_, x.err = fmt.Fprintf(x.w, format, a...)
}

func (x *excerpter) print(s string) {
	if x.err != nil {
		return
	}
	_, x.err = io.WriteString(x.w, s)
}

func (x *excerpter) diagnostic(d Diagnostic) {
	label := d.Severity.String()
	if d.Code != "" {
		label += "[" + d.Code + "]"
	}
	x.printf("%s%s%s: %s%s%s\n",
		x.p.severity(d.Severity), label, x.p.reset,
		x.p.bold, d.Message, x.p.reset)

	for _, group := range groupSpans(d.Spans) {
		x.spans(group)
	}
	for _, note := range d.Notes {
		x.printf("   %s=%s note: %s\n", x.p.note, x.p.reset, note)
	}
}

// groupSpans splits spans into runs that share a file and line.
func groupSpans(spans []Span) [][]Span {
	var groups [][]Span
	for i, s := range spans {
		if i > 0 {
			prev := spans[i-1]
			if s.File == prev.File && s.Line == prev.Line {
				groups[len(groups)-1] = append(groups[len(groups)-1], s)
				continue
			}
		}
		groups = append(groups, []Span{s})
	}
	return groups
}

// spans writes the excerpt for spans on a single line.
func (x *excerpter) spans(group []Span) {
	first := group[0]
	x.printf("  %s-->%s %s\n", x.p.gutter, x.p.reset, location(first))

	source := first.Source
	if source == "" {
		source = x.src.line(first.File, first.Line)
	}
	if source == "" {
		x.printf("   %s|%s\n", x.p.gutter, x.p.reset)
		return
	}

	num := strconv.Itoa(first.Line)
	pad := strings.Repeat(" ", len(num))
	runes := []rune(source)
	cols := x.displayColumns(runes)

	x.printf(" %s%s |%s\n", x.p.gutter, pad, x.p.reset)
	x.printf(" %s%s |%s  %s\n", x.p.gutter, num, x.p.reset, x.expand(runes))

	carets, labels := underline(group, runes, cols)
	lead := len(carets) - len(strings.TrimLeft(carets, " "))
	x.printf(" %s%s |%s  %s%s%s%s", x.p.gutter, pad, x.p.reset,
		carets[:lead], x.p.caret, carets[lead:], x.p.reset)
	if len(labels) > 0 {
		x.printf(" %s%s%s", x.p.caret, strings.Join(labels, "; "), x.p.reset)
	}
	x.print("\n")
	x.printf(" %s%s |%s\n", x.p.gutter, pad, x.p.reset)
}

func location(s Span) string {
	switch {
	case s.Line <= 0:
		return s.File
	case s.Col <= 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
	}
}

// displayColumns returns, for each rune index i of a line and for
// len(runes), the terminal column at which rune i starts.
func (x *excerpter) displayColumns(runes []rune) []int {
	cols := make([]int, len(runes)+1)
	for i, r := range runes {
		cols[i+1] = cols[i] + x.runeWidth(r)
	}
	return cols
}

func (x *excerpter) runeWidth(r rune) int {
	if r == '\t' {
		return x.tab
	}
	return runewidth.RuneWidth(r)
}

func (x *excerpter) expand(runes []rune) string {
	var b strings.Builder
	for _, r := range runes {
		if r == '\t' {
			b.WriteString(strings.Repeat(" ", x.tab))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// underline builds the caret row for spans over a line whose rune display
// columns are cols, with trailing blanks removed.
func underline(spans []Span, runes []rune, cols []int) (string, []string) {
	row := []byte(strings.Repeat(" ", cols[len(runes)]+1))
	var labels []string
	for _, s := range spans {
		start := s.Col - 1
		if start < 0 {
			start = 0
		}
		if start > len(runes) {
			start = len(runes)
		}
		end := s.EndCol - 1
		if s.EndCol <= 0 {
			end = wordEnd(runes, start)
		}
		if end < start {
			end = start
		}
		from := cols[start]
		to := from + 1
		if end < len(runes) {
			to = cols[end+1]
		}
		if to <= from {
			to = from + 1
		}
		for c := from; c < to && c < len(row); c++ {
			row[c] = '^'
		}
		if s.Label != "" {
			labels = append(labels, s.Label)
		}
	}
	return strings.TrimRight(string(row), " "), labels
}

// wordEnd returns the index of the last rune of the word starting at
// start, or start when no word starts there.
func wordEnd(runes []rune, start int) int {
	end := start
	for end+1 < len(runes) && isWordRune(runes[start]) && isWordRune(runes[end+1]) {
		end++
	}
	return end
}

// isWordRune reports whether ch continues an identifier, number or member
// chain.
func isWordRune(ch rune) bool {
	return ch == '_' || ch == '$' || ch == '.' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// sourceCache holds the lines of files read during one render.
type sourceCache struct {
	read  func(string) ([]byte, error)
	files map[string][]string
}

func (c *sourceCache) line(file string, line int) string {
	if line <= 0 || file == "" || file == "<stdin>" {
		return ""
	}
	lines, ok := c.files[file]
	if !ok {
		lines = c.load(file)
		c.files[file] = lines
	}
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func (c *sourceCache) load(file string) []string {
	read := c.read
	if read == nil {
		read = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := read(file)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
