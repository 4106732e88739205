// Copyright © 2024 The ELPS authors

package hint

import (
	"regexp"

	"github.com/luthersystems/esvet/options"
	"github.com/luthersystems/esvet/parser/directive"
	"github.com/luthersystems/esvet/parser/token"
)

var codePattern = regexp.MustCompile(`^[EWI][0-9]{3}$`)

// applyDirective interprets an inline directive comment preceding at.
func (s *Session) applyDirective(c *token.Comment, at *Node) error {
	d := c.Directive
	switch d.Kind {
	case directive.Options, directive.Legacy:
		for _, e := range d.Entries {
			s.applyOption(c, e)
			if s.fatal != nil {
				return s.fatal
			}
		}
	case directive.Globals:
		for _, e := range d.Entries {
			if e.Remove {
				s.scope.RemoveGlobal(e.Name)
				continue
			}
			s.scope.AddGlobal(e.Name, e.HasValue && e.Value == "true")
		}
	case directive.Exported:
		for _, e := range d.Entries {
			s.scope.SetExported(e.Name, at.Token)
		}
	case directive.FallsThrough:
		at.fallsThrough = true
	}
	if s.fatal != nil {
		return s.fatal
	}
	return nil
}

func (s *Session) applyOption(c *token.Comment, e directive.Entry) {
	loc := c.Source
	if codePattern.MatchString(e.Name) && (e.Remove || e.Add) {
		s.funct.ignored = s.funct.ignored.With(e.Name, e.Remove)
		return
	}
	if e.Name == "ignore" {
		if e.Value == "line" {
			s.ignoreLine(loc.Line)
		}
		return
	}
	raw := "true"
	if e.HasValue {
		raw = e.Value
	}
	name, val, err := options.Parse(e.Name, raw)
	if err != nil {
		if _, ok := options.Lookup(e.Name); ok {
			s.warnAt("E002", loc.Line, loc.Col)
		} else {
			s.warnAt("E001", loc.Line, loc.Col, "", e.Name)
		}
		return
	}
	switch name {
	case "esversion", "module":
		if s.codeSeen {
			s.warnAt("E055", loc.Line, loc.Col, name)
			return
		}
		if name == "module" && val == true && s.funct.global {
			s.global.isStrict = true
		}
		if v, ok := val.(int); ok {
			for g, writable := range options.Builtins(v) {
				if !s.scope.IsPredefined(g) {
					s.scope.AddGlobal(g, writable)
				}
			}
		}
	case "globals":
		if entries, err := directive.ParseEntries(raw); err == nil {
			for _, g := range entries {
				if g.Remove {
					s.scope.RemoveGlobal(g.Name)
				} else {
					s.scope.AddGlobal(g.Name, g.HasValue && g.Value == "true")
				}
			}
		}
		return
	}
	if opt, _ := options.Lookup(name); opt.Kind == options.Environment && val == true {
		if env, ok := options.EnvironmentGlobals(name); ok {
			for g, writable := range env {
				s.scope.AddGlobal(g, writable)
			}
		}
	}
	s.funct.setOption(name, val)
}
