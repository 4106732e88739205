// Copyright © 2024 The ELPS authors

package options

import "sort"

// Globals maps an identifier to whether it may be assigned.
type Globals map[string]bool

// Merge copies every entry of other into g.
func (g Globals) Merge(other Globals) {
	for k, v := range other {
		g[k] = v
	}
}

func readonly(names ...string) Globals {
	g := make(Globals, len(names))
	for _, n := range names {
		g[n] = false
	}
	return g
}

func writable(g Globals, names ...string) Globals {
	for _, n := range names {
		g[n] = true
	}
	return g
}

var ecmaIdentifiers = map[int]Globals{
	3: readonly(
		"Array", "Boolean", "Date", "decodeURI", "decodeURIComponent",
		"encodeURI", "encodeURIComponent", "Error", "eval", "EvalError",
		"Function", "hasOwnProperty", "Infinity", "isFinite", "isNaN",
		"Math", "NaN", "Number", "Object", "parseInt", "parseFloat",
		"RangeError", "ReferenceError", "RegExp", "String", "SyntaxError",
		"TypeError", "URIError", "undefined",
	),
	5: readonly("JSON"),
	6: readonly(
		"ArrayBuffer", "DataView", "Float32Array", "Float64Array",
		"Int8Array", "Int16Array", "Int32Array", "Map", "Promise", "Proxy",
		"Reflect", "Set", "Symbol", "Uint8Array", "Uint8ClampedArray",
		"Uint16Array", "Uint32Array", "WeakMap", "WeakSet",
	),
	8:  readonly("Atomics", "SharedArrayBuffer"),
	11: readonly("BigInt", "BigInt64Array", "BigUint64Array", "globalThis"),
}

var environments = map[string]Globals{
	"browser": writable(readonly(
		"AbortController", "addEventListener", "atob", "Blob", "btoa",
		"cancelAnimationFrame", "clearInterval", "clearTimeout", "close",
		"CustomEvent", "document", "DOMParser", "Element", "Event",
		"EventTarget", "fetch", "File", "FileReader", "FormData", "frames",
		"getComputedStyle", "Headers", "history", "HTMLElement", "Image",
		"indexedDB", "IntersectionObserver", "localStorage", "location",
		"matchMedia", "MutationObserver", "navigator", "Node", "NodeList",
		"open", "opener", "parent", "performance", "postMessage", "print",
		"removeEventListener", "Request", "requestAnimationFrame",
		"ResizeObserver", "Response", "screen", "self", "sessionStorage",
		"setInterval", "setTimeout", "TextDecoder", "TextEncoder", "top",
		"URL", "URLSearchParams", "WebSocket", "window", "Worker",
		"XMLHttpRequest",
	), "name", "onload", "onerror", "onresize", "status"),
	"devel": readonly("alert", "confirm", "console", "Debug", "opera", "prompt"),
	"node": writable(readonly(
		"__dirname", "__filename", "Buffer", "clearImmediate",
		"clearInterval", "clearTimeout", "console", "global", "process",
		"queueMicrotask", "require", "setImmediate", "setInterval",
		"setTimeout", "TextDecoder", "TextEncoder", "URL",
		"URLSearchParams",
	), "exports", "module"),
	"jquery": readonly("$", "jQuery"),
	"mocha": readonly(
		"after", "afterEach", "before", "beforeEach", "context", "describe",
		"it", "mocha", "run", "setup", "specify", "suite", "suiteSetup",
		"suiteTeardown", "teardown", "test", "xcontext", "xdescribe", "xit",
		"xspecify",
	),
	"jasmine": readonly(
		"afterAll", "afterEach", "beforeAll", "beforeEach", "describe",
		"expect", "expectAsync", "fail", "fdescribe", "fit", "it", "jasmine",
		"pending", "spyOn", "spyOnProperty", "xdescribe", "xit",
	),
	"qunit": readonly(
		"asyncTest", "deepEqual", "equal", "expect", "module",
		"notDeepEqual", "notEqual", "notPropEqual", "notStrictEqual", "ok",
		"propEqual", "QUnit", "raises", "start", "stop", "strictEqual",
		"test", "throws",
	),
	"worker": writable(readonly(
		"FileReaderSync", "importScripts", "postMessage", "self",
	), "onmessage"),
	"typed": readonly(
		"ArrayBuffer", "DataView", "Float32Array", "Float64Array",
		"Int8Array", "Int16Array", "Int32Array", "Uint8Array",
		"Uint8ClampedArray", "Uint16Array", "Uint32Array",
	),
	"nonstandard": readonly("escape", "unescape"),
}

// Environments returns the names of the known host environments.
func Environments() []string {
	names := make([]string, 0, len(environments))
	for name := range environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnvironmentGlobals returns a copy of the globals of a named environment.
func EnvironmentGlobals(name string) (Globals, bool) {
	env, ok := environments[name]
	if !ok {
		return nil, false
	}
	g := make(Globals, len(env))
	g.Merge(env)
	return g, true
}

// Builtins returns the language globals available in an ECMAScript edition.
func Builtins(esversion int) Globals {
	g := make(Globals)
	for v, ids := range ecmaIdentifiers {
		if v <= esversion {
			g.Merge(ids)
		}
	}
	return g
}

// Predefined returns the builtins for the targeted edition plus the globals
// of every environment enabled in s.
func Predefined(s *Set) Globals {
	g := Builtins(s.ESVersion())
	for _, name := range Environments() {
		if s.Bool(name) {
			g.Merge(environments[name])
		}
	}
	return g
}
