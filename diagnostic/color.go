// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when writing to a terminal and NO_COLOR is unset
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

const (
	escReset    = "\033[0m"
	escBold     = "\033[1m"
	escBoldRed  = "\033[1;31m"
	escYellow   = "\033[33m"
	escBoldBlue = "\033[1;34m"
	escBoldCyan = "\033[1;36m"
	escGreen    = "\033[32m"
)

// palette holds the escape sequences used for each part of the output.
// The zero palette renders plain text.
type palette struct {
	bold   string
	gutter string
	caret  string
	note   string
	reset  string
}

// severity returns the escape sequence for a severity label.
func (p palette) severity(s Severity) string {
	if p.reset == "" {
		return ""
	}
	switch s {
	case SeverityError:
		return escBoldRed
	case SeverityWarning:
		return escYellow
	case SeverityInfo:
		return escGreen
	default:
		return escBoldCyan
	}
}

var ansiPalette = palette{
	bold:   escBold,
	gutter: escBoldBlue,
	caret:  escBoldRed,
	note:   escBoldCyan,
	reset:  escReset,
}

// paletteFor selects the palette for writing to w.
func paletteFor(mode ColorMode, w io.Writer) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return palette{}
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return palette{}
	}
	f, ok := w.(*os.File)
	if !ok || !isTerminal(f) {
		return palette{}
	}
	return ansiPalette
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
