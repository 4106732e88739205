// Copyright © 2024 The ELPS authors

// Package messages is the catalog of diagnostic codes.  Codes starting with
// E are errors, W warnings and I informational notes.  Message templates use
// {a}, {b}, {c} and {d} as placeholders for captured arguments.
package messages

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Class is the severity class of a diagnostic code.
type Class uint

const (
	classUnset Class = iota
	Error
	Warning
	Info
)

func (c Class) String() string {
	switch c {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

func (c Class) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Class) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "error":
		*c = Error
	case "warning":
		*c = Warning
	case "info":
		*c = Info
	default:
		return fmt.Errorf("unknown severity class: %q", s)
	}
	return nil
}

// MarshalYAML renders the class by name.
func (c Class) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// ClassOf returns the severity class encoded in a code's prefix.
func ClassOf(code string) Class {
	if code == "" {
		return classUnset
	}
	switch code[0] {
	case 'E':
		return Error
	case 'W':
		return Warning
	case 'I':
		return Info
	}
	return classUnset
}

// Message is a catalog entry.
type Message struct {
	Code     string
	Template string
}

// Class returns the severity class of the message.
func (m Message) Class() Class {
	return ClassOf(m.Code)
}

// Lookup returns the catalog entry for code.
func Lookup(code string) (Message, bool) {
	tmpl, ok := catalog[code]
	if !ok {
		return Message{}, false
	}
	return Message{Code: code, Template: tmpl}, true
}

// Codes returns every known code in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		ci, cj := ClassOf(codes[i]), ClassOf(codes[j])
		if ci != cj {
			return ci < cj
		}
		return codes[i] < codes[j]
	})
	return codes
}

var placeholders = []string{"{a}", "{b}", "{c}", "{d}"}

// Supplant substitutes args into template.  Placeholders without a matching
// argument are left in place.
func Supplant(template string, args ...string) string {
	if len(args) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(args))
	for i, arg := range args {
		if i >= len(placeholders) {
			break
		}
		pairs = append(pairs, placeholders[i], arg)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Format renders the message for code with args.  Unknown codes render as
// the code itself so that a missing catalog entry never hides a diagnostic.
func Format(code string, args ...string) string {
	m, ok := Lookup(code)
	if !ok {
		return code
	}
	return Supplant(m.Template, args...)
}
