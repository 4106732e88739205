// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/esvet/options"
)

// completer implements readline.AutoCompleter.  It completes shell
// commands, option names after .set, and predefined globals in source.
type completer struct {
	session *Session
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to a separator).
	start := pos
	for start > 0 && !isSeparator(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	head := strings.TrimLeft(string(line[:start]), " \t")

	var candidates []string
	switch {
	case head == "" && strings.HasPrefix(prefix, "."):
		for name := range commands {
			candidates = append(candidates, name)
		}
	case strings.HasPrefix(head, ".set "):
		for _, opt := range options.All() {
			candidates = append(candidates, opt.Name)
		}
	case strings.HasPrefix(head, "."):
		return nil, 0
	default:
		if prefix == "" {
			return nil, 0
		}
		for name := range c.globals() {
			candidates = append(candidates, name)
		}
	}
	return suffixes(candidates, prefix), len(prefix)
}

func (c *completer) globals() options.Globals {
	if c.session == nil {
		return options.Builtins(options.DefaultESVersion)
	}
	g := options.Predefined(c.session.Options)
	g.Merge(c.session.Globals)
	return g
}

// suffixes returns the part of each candidate beyond prefix, for the
// candidates starting with it, in sorted order.
func suffixes(candidates []string, prefix string) [][]rune {
	sort.Strings(candidates)
	var result [][]rune
	for _, name := range candidates {
		if strings.HasPrefix(name, prefix) && name != prefix {
			result = append(result, []rune(name[len(prefix):]))
		}
	}
	return result
}

func isSeparator(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '(', ')', '[', ']', '{', '}', ',', ';', '=', '+', '-', '*', '/', '!', '&', '|', '?', ':', '<', '>':
		return true
	}
	return false
}
