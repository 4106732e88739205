// Copyright © 2024 The ELPS authors

package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/esvet/diagnostic"
	"github.com/luthersystems/esvet/options"
)

func testSession(cfg *options.Config) (*Session, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewSession(&buf, cfg)
	s.Renderer.Color = diagnostic.ColorNever
	return s, &buf
}

func TestSession_ReportsNewDiagnostics(t *testing.T) {
	s, out := testSession(nil)

	assert.False(t, s.Feed("var a = 1"))
	assert.Contains(t, out.String(), "warning[W033]: Missing semicolon.")
	assert.Contains(t, out.String(), "var a = 1")
	assert.Equal(t, "var a = 1", s.Source())

	out.Reset()
	assert.False(t, s.Feed("var b = 2;"))
	assert.NotContains(t, out.String(), "W033", "diagnostics are reported once")
	assert.Equal(t, "var a = 1\nvar b = 2;", s.Source())
}

func TestSession_Continuation(t *testing.T) {
	s, out := testSession(nil)

	assert.True(t, s.Feed("function f(x) {"))
	assert.True(t, s.Pending())
	assert.True(t, s.Feed("  return x;"))
	assert.False(t, s.Feed("}"))
	assert.False(t, s.Pending())
	assert.Empty(t, out.String())
	assert.Equal(t, "function f(x) {\n  return x;\n}", s.Source())
}

func TestSession_ErrorDropsInput(t *testing.T) {
	s, out := testSession(nil)
	s.Feed("var a = 1;")
	s.Feed("var c = ;")
	assert.Contains(t, out.String(), "error[E030]")
	assert.Contains(t, out.String(), "input dropped")
	assert.Equal(t, "var a = 1;", s.Source())
}

func TestSession_Cancel(t *testing.T) {
	s, _ := testSession(nil)
	require.True(t, s.Feed("if (a) {"))
	s.Cancel()
	assert.False(t, s.Pending())
	assert.Empty(t, s.Source())
}

func TestSession_Flush(t *testing.T) {
	s, out := testSession(nil)
	require.True(t, s.Feed("f("))
	s.Flush()
	assert.False(t, s.Pending())
	assert.Contains(t, out.String(), "error[")
}

func TestSession_Config(t *testing.T) {
	cfg := &options.Config{
		Options: options.New(map[string]interface{}{"undef": true}),
		Globals: options.Globals{"jQuery": false},
	}
	s, out := testSession(cfg)
	s.Feed("jQuery();")
	assert.Empty(t, out.String())
	s.Feed("foo();")
	assert.Contains(t, out.String(), "warning[W117]: 'foo' is not defined.")
}

func TestSession_Commands(t *testing.T) {
	s, out := testSession(nil)

	s.Feed(".set asi")
	assert.Contains(t, out.String(), "asi = true")
	out.Reset()
	s.Feed("var a = 1")
	assert.Empty(t, out.String(), "asi relaxes missing semicolons")

	s.Feed(".set esversion=2015")
	assert.Contains(t, out.String(), "esversion = 6")
	assert.Equal(t, 6, s.Options.ESVersion())

	out.Reset()
	s.Feed(".set nope")
	assert.Contains(t, out.String(), "unknown option: nope")

	out.Reset()
	s.Feed(".options")
	assert.Contains(t, out.String(), "asi = true")
	assert.Contains(t, out.String(), "esversion = 6")

	out.Reset()
	s.Feed(".source")
	assert.Equal(t, "  1  var a = 1\n", out.String())

	s.Feed(".reset")
	assert.Empty(t, s.Source())

	out.Reset()
	s.Feed(".help")
	for name := range commands {
		assert.Contains(t, out.String(), name)
	}

	out.Reset()
	s.Feed(".bogus")
	assert.Contains(t, out.String(), "unknown command .bogus")

	assert.False(t, s.Done())
	s.Feed(".exit")
	assert.True(t, s.Done())
}

func TestSession_GlobalCommand(t *testing.T) {
	s, out := testSession(&options.Config{Options: options.New(map[string]interface{}{"undef": true})})
	s.Feed(".global jQuery $:true")
	assert.Equal(t, options.Globals{"jQuery": false, "$": true}, s.Globals)

	s.Feed(".global -jQuery")
	assert.Equal(t, options.Globals{"$": true}, s.Globals)

	out.Reset()
	s.Feed(".global")
	assert.Equal(t, "$:true\n", out.String())

	out.Reset()
	s.Feed("$ = 1;")
	assert.Empty(t, out.String())
}

func TestSession_DecimalIsNotCommand(t *testing.T) {
	s, out := testSession(nil)
	s.Feed(".5 + 1;")
	assert.NotContains(t, out.String(), "unknown command")
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"f(", true},
		{"f()", false},
		{"a = [1,", true},
		{"a = {\n  b: 1\n}", false},
		{"`abc", true},
		{"`a${", true},
		{"`a${b}`", false},
		{"/* comment", true},
		{"/* comment */", false},
		{"'abc", false},
		{"}", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, incomplete(tt.src), "%q", tt.src)
	}
}
