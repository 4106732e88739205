// Copyright © 2024 The ELPS authors

package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind groups recognized options.
type Kind uint

const (
	kindUnset Kind = iota
	Enforcing
	Relaxing
	Environment
	Valued
)

func (k Kind) String() string {
	switch k {
	case Enforcing:
		return "enforcing"
	case Relaxing:
		return "relaxing"
	case Environment:
		return "environment"
	case Valued:
		return "value"
	default:
		return "unknown"
	}
}

// Option describes a recognized option.
type Option struct {
	Name string
	Kind Kind
	Doc  string
	// Values lists the accepted string values for Valued options that are
	// not plain integers.
	Values []string
	// Numeric is set for options taking an integer.
	Numeric bool
}

var table = map[string]*Option{}
var lowerNames = map[string]string{}

func register(kind Kind, name, doc string) *Option {
	opt := &Option{Name: name, Kind: kind, Doc: doc}
	table[name] = opt
	lowerNames[strings.ToLower(name)] = name
	return opt
}

func numeric(name, doc string) {
	register(Valued, name, doc).Numeric = true
}

func enumerated(name, doc string, values ...string) {
	register(Valued, name, doc).Values = values
}

func init() {
	register(Enforcing, "bitwise", "Prohibit bitwise operators.")
	register(Enforcing, "curly", "Require curly braces around blocks in loops and conditionals.")
	register(Enforcing, "eqeqeq", "Require === and !== instead of == and !=.")
	register(Enforcing, "forin", "Require for-in loop bodies to filter object properties.")
	register(Enforcing, "freeze", "Prohibit extending prototypes of native objects.")
	register(Enforcing, "futurehostile", "Warn about identifiers defined in future versions of the language.")
	register(Enforcing, "immed", "Require immediate invocations to be wrapped in parens.")
	register(Enforcing, "leanswitch", "Prohibit unnecessary clauses within switch statements.")
	register(Enforcing, "newcap", "Require constructor names to be capitalized.")
	register(Enforcing, "noarg", "Prohibit arguments.caller and arguments.callee.")
	register(Enforcing, "nocomma", "Prohibit the comma operator.")
	register(Enforcing, "noempty", "Warn about empty blocks.")
	register(Enforcing, "nonew", "Prohibit using new for side effects.")
	register(Enforcing, "noreturnawait", "Warn about unnecessary await in return statements.")
	register(Enforcing, "plusplus", "Prohibit ++ and --.")
	register(Enforcing, "singleGroups", "Prohibit unnecessary grouping parens.")
	register(Enforcing, "trailingcomma", "Require a comma after the last element of multi-line literals.")
	register(Enforcing, "undef", "Prohibit use of undeclared variables.")
	register(Enforcing, "varstmt", "Prohibit var declarations.")

	register(Relaxing, "asi", "Tolerate missing semicolons.")
	register(Relaxing, "boss", "Tolerate assignments where comparisons are expected.")
	register(Relaxing, "debug", "Tolerate debugger statements.")
	register(Relaxing, "elision", "Tolerate holes in array literals.")
	register(Relaxing, "eqnull", "Tolerate == null comparisons.")
	register(Relaxing, "evil", "Tolerate eval and its forms.")
	register(Relaxing, "expr", "Tolerate expression statements.")
	register(Relaxing, "funcscope", "Tolerate use of var bindings outside the block declaring them.")
	register(Relaxing, "globalstrict", "Tolerate a global \"use strict\" directive.")
	register(Relaxing, "iterator", "Tolerate the __iterator__ property.")
	register(Relaxing, "lastsemic", "Tolerate a missing semicolon before a closing brace on the same line.")
	register(Relaxing, "laxbreak", "Tolerate line breaks before operators.")
	register(Relaxing, "laxcomma", "Tolerate comma-first style.")
	register(Relaxing, "loopfunc", "Tolerate functions created inside loops.")
	register(Relaxing, "moz", "Accept Mozilla JavaScript extensions.")
	register(Relaxing, "multistr", "Tolerate multi-line strings.")
	register(Relaxing, "noyield", "Tolerate generators without yield.")
	register(Relaxing, "notypeof", "Tolerate invalid typeof comparisons.")
	register(Relaxing, "proto", "Tolerate the __proto__ property.")
	register(Relaxing, "scripturl", "Tolerate javascript: URLs.")
	register(Relaxing, "sub", "Tolerate [\"name\"] member access where dot notation works.")
	register(Relaxing, "supernew", "Tolerate new function () {...} and new Object;.")
	register(Relaxing, "validthis", "Tolerate this in non-method functions under strict mode.")
	register(Relaxing, "withstmt", "Tolerate with statements.")

	for _, env := range Environments() {
		register(Environment, env, fmt.Sprintf("Predefine the globals of the %s environment.", env))
	}

	numeric("esversion", "Targeted ECMAScript edition (3, 5, 6-11 or 2015-2020).")
	numeric("maxerr", "Maximum number of diagnostics before linting stops.")
	numeric("maxdepth", "Maximum block nesting depth per function.")
	numeric("maxstatements", "Maximum number of statements per function.")
	numeric("maxcomplexity", "Maximum cyclomatic complexity per function.")
	numeric("maxparams", "Maximum number of parameters per function.")
	numeric("maxlen", "Maximum line length.")
	numeric("maxnesting", "Maximum syntactic nesting before parsing stops.")
	numeric("indent", "Indentation width.")
	register(Valued, "module", "Treat input as an ECMAScript module.")
	register(Valued, "globals", "Predefined globals, as name:writable pairs.")
	enumerated("latedef", "Prohibit use of bindings before definition.", "true", "false", "nofunc")
	enumerated("shadow", "Control warnings about variable shadowing.", "inner", "outer", "false", "true")
	enumerated("strict", "Require strict mode.", "true", "false", "global", "implied", "func")
	enumerated("unused", "Warn about unused bindings.", "true", "false", "vars", "strict", "last-param")
	enumerated("ignore", "Suppress diagnostics: start, end or line.", "start", "end", "line")
}

// Lookup returns the recognized option name, matched case-insensitively.
func Lookup(name string) (*Option, bool) {
	if opt, ok := table[name]; ok {
		return opt, true
	}
	canon, ok := lowerNames[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return table[canon], true
}

// All returns every recognized option sorted by kind then name.
func All() []*Option {
	opts := make([]*Option, 0, len(table))
	for _, opt := range table {
		opts = append(opts, opt)
	}
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Kind != opts[j].Kind {
			return opts[i].Kind < opts[j].Kind
		}
		return opts[i].Name < opts[j].Name
	})
	return opts
}

// Parse converts a raw option value into the typed value stored in a Set.
func Parse(name, raw string) (string, interface{}, error) {
	opt, ok := Lookup(name)
	if !ok {
		return "", nil, fmt.Errorf("unknown option: %s", name)
	}
	raw = strings.TrimSpace(raw)
	switch {
	case opt.Numeric:
		if raw == "false" {
			return opt.Name, 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return "", nil, fmt.Errorf("option %s: expected a non-negative integer, got %q", opt.Name, raw)
		}
		if opt.Name == "esversion" {
			n, err = normalizeESVersion(n)
			if err != nil {
				return "", nil, err
			}
		}
		return opt.Name, n, nil
	case len(opt.Values) > 0:
		for _, v := range opt.Values {
			if raw == v {
				switch raw {
				case "true":
					return opt.Name, true, nil
				case "false":
					return opt.Name, false, nil
				}
				return opt.Name, raw, nil
			}
		}
		return "", nil, fmt.Errorf("option %s: expected one of %s, got %q", opt.Name, strings.Join(opt.Values, ", "), raw)
	case opt.Name == "globals":
		return opt.Name, raw, nil
	}
	switch raw {
	case "true", "":
		return opt.Name, true, nil
	case "false":
		return opt.Name, false, nil
	}
	return "", nil, fmt.Errorf("option %s: expected true or false, got %q", opt.Name, raw)
}

func normalizeESVersion(n int) (int, error) {
	switch {
	case n == 3 || n == 5 || n >= 6 && n <= 11:
		return n, nil
	case n >= 2015 && n <= 2020:
		return n - 2009, nil
	}
	return 0, fmt.Errorf("option esversion: unsupported edition %d", n)
}
