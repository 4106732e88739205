// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/esvet/hint"
)

// toLSPPosition converts a 1-based line and column to a 0-based LSP
// position.
func toLSPPosition(line, col int) protocol.Position {
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(col),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// diagnosticRange returns the range a diagnostic underlines.  The range
// covers the identifier, number or punctuator run starting at the
// diagnostic column of its evidence line, and is one character wide when
// nothing can be measured.
func diagnosticRange(d *hint.Diagnostic) protocol.Range {
	start := toLSPPosition(d.Line, d.Col)
	width := tokenWidth(d.Evidence, d.Col)
	end := protocol.Position{
		Line:      start.Line,
		Character: start.Character + safeUint(width),
	}
	return protocol.Range{Start: start, End: end}
}

// tokenWidth measures the token starting at the 1-based column col of
// line, in characters.
func tokenWidth(line string, col int) int {
	if col < 1 {
		return 1
	}
	runes := []rune(line)
	i := col - 1
	if i >= len(runes) {
		return 1
	}
	word := isWordRune(runes[i])
	n := 0
	for j := i; j < len(runes); j++ {
		r := runes[j]
		if unicode.IsSpace(r) || isWordRune(r) != word {
			break
		}
		n++
		if !word {
			break
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lineText returns the 0-based line of content without its terminator.
func lineText(content string, line int) string {
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(content, '\n')
		if nl < 0 {
			return ""
		}
		content = content[nl+1:]
	}
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		content = content[:nl]
	}
	return strings.TrimSuffix(content, "\r")
}

// lineEnd returns the position at the end of the 0-based line of content.
func lineEnd(content string, line int) protocol.Position {
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(utf8.RuneCountInString(lineText(content, line))),
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
