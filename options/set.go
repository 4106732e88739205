// Copyright © 2024 The ELPS authors

// Package options holds linting configuration: copy-on-write option
// overlays, the table of recognized option names, host environments and
// configuration file loading.
package options

import (
	"sort"
	"strconv"
)

// Set is an immutable overlay of option values.  Lookups fall through to
// the parent overlay.  A nil *Set is an empty set.
type Set struct {
	parent *Set
	vals   map[string]interface{}
}

// New returns a root Set containing vals.  Values must be bool, int or
// string.
func New(vals map[string]interface{}) *Set {
	return (*Set)(nil).Derive(vals)
}

// Derive returns a child overlay of s.  The receiver is not modified.
func (s *Set) Derive(vals map[string]interface{}) *Set {
	child := &Set{parent: s, vals: make(map[string]interface{}, len(vals))}
	for k, v := range vals {
		child.vals[k] = v
	}
	return child
}

// With returns a child overlay of s with a single value set.
func (s *Set) With(name string, v interface{}) *Set {
	return s.Derive(map[string]interface{}{name: v})
}

// Lookup returns the nearest value for name.
func (s *Set) Lookup(name string) (interface{}, bool) {
	for ; s != nil; s = s.parent {
		if v, ok := s.vals[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether name has a value anywhere in the chain.
func (s *Set) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Bool reports whether name is enabled.  Non-empty string values other than
// "false" and non-zero integers count as enabled.
func (s *Set) Bool(name string) bool {
	v, ok := s.Lookup(name)
	if !ok {
		return false
	}
	switch v := v.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		return v != "" && v != "false"
	}
	return false
}

// Int returns the integer value of name, or zero.
func (s *Set) Int(name string) int {
	v, ok := s.Lookup(name)
	if !ok {
		return 0
	}
	switch v := v.(type) {
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// String returns the string value of name.  Booleans render as "true" and
// "false" so that options accepting both forms read uniformly.
func (s *Set) String(name string) string {
	v, ok := s.Lookup(name)
	if !ok {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// Flatten returns the effective values of every option in the chain.
func (s *Set) Flatten() map[string]interface{} {
	var chain []*Set
	for p := s; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	m := make(map[string]interface{})
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].vals {
			m[k] = v
		}
	}
	return m
}

// Names returns the sorted names with values in the chain.
func (s *Set) Names() []string {
	flat := s.Flatten()
	names := make([]string, 0, len(flat))
	for k := range flat {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ESVersion returns the targeted ECMAScript edition, defaulting to 5.
func (s *Set) ESVersion() int {
	if v := s.Int("esversion"); v > 0 {
		return v
	}
	return DefaultESVersion
}

// MaxErr returns the diagnostic ceiling, defaulting to 50.
func (s *Set) MaxErr() int {
	if v := s.Int("maxerr"); v > 0 {
		return v
	}
	return DefaultMaxErr
}

// MaxNesting returns the recursion ceiling, defaulting to 512.
func (s *Set) MaxNesting() int {
	if v := s.Int("maxnesting"); v > 0 {
		return v
	}
	return DefaultMaxNesting
}

const (
	DefaultESVersion  = 5
	DefaultMaxErr     = 50
	DefaultMaxNesting = 512
)
