// Copyright © 2024 The ELPS authors

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/esvet/parser/directive"
	"github.com/luthersystems/esvet/parser/token"
)

type testToken struct {
	typ   token.Type
	value string
}

func lexAll(t *testing.T, input string) []*token.Token {
	t.Helper()
	lex := New(token.NewScanner("test.js", []byte(input)))
	var tokens []*token.Token
	for i := 0; i < 1000; i++ {
		tok := lex.ReadToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF || tok.Type == token.ERROR {
			return tokens
		}
	}
	t.Fatalf("lexer did not terminate on %q", input)
	return nil
}

func simplify(tokens []*token.Token) []testToken {
	out := make([]testToken, len(tokens))
	for i, tok := range tokens {
		out[i] = testToken{tok.Type, tok.Value}
	}
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []testToken
	}{
		{``, []testToken{
			{token.EOF, ""},
		}},
		{`abc $x _y`, []testToken{
			{token.IDENT, "abc"},
			{token.IDENT, "$x"},
			{token.IDENT, "_y"},
			{token.EOF, ""},
		}},
		{`a >>>= b === c ?. d`, []testToken{
			{token.IDENT, "a"},
			{token.PUNCT, ">>>="},
			{token.IDENT, "b"},
			{token.PUNCT, "==="},
			{token.IDENT, "c"},
			{token.PUNCT, "?."},
			{token.IDENT, "d"},
			{token.EOF, ""},
		}},
		{`x?.5:1`, []testToken{
			{token.IDENT, "x"},
			{token.PUNCT, "?"},
			{token.NUMBER, ".5"},
			{token.PUNCT, ":"},
			{token.NUMBER, "1"},
			{token.EOF, ""},
		}},
		{`10 0x1F 0b101 0o17 1e10 1.5e-3 10n 1_000`, []testToken{
			{token.NUMBER, "10"},
			{token.NUMBER, "0x1F"},
			{token.NUMBER, "0b101"},
			{token.NUMBER, "0o17"},
			{token.NUMBER, "1e10"},
			{token.NUMBER, "1.5e-3"},
			{token.NUMBER, "10n"},
			{token.NUMBER, "1_000"},
			{token.EOF, ""},
		}},
		{`"a\nb" 'it\'s'`, []testToken{
			{token.STRING, "a\nb"},
			{token.STRING, "it's"},
			{token.EOF, ""},
		}},
		{`a / b / c`, []testToken{
			{token.IDENT, "a"},
			{token.PUNCT, "/"},
			{token.IDENT, "b"},
			{token.PUNCT, "/"},
			{token.IDENT, "c"},
			{token.EOF, ""},
		}},
		{`x = /a[/]b/gi`, []testToken{
			{token.IDENT, "x"},
			{token.PUNCT, "="},
			{token.REGEXP, "a[/]b"},
			{token.EOF, ""},
		}},
		{`return /x/`, []testToken{
			{token.IDENT, "return"},
			{token.REGEXP, "x"},
			{token.EOF, ""},
		}},
		{"`a${b}c${ {d} }e`", []testToken{
			{token.TEMPLATE, "a"},
			{token.IDENT, "b"},
			{token.TEMPLATE_MIDDLE, "c"},
			{token.PUNCT, "{"},
			{token.IDENT, "d"},
			{token.PUNCT, "}"},
			{token.TEMPLATE_TAIL, "e"},
			{token.EOF, ""},
		}},
		{"`plain`", []testToken{
			{token.NO_SUBST_TEMPLATE, "plain"},
			{token.EOF, ""},
		}},
		{`ab`, []testToken{
			{token.IDENT, "ab"},
			{token.EOF, ""},
		}},
	}
	for i, test := range tests {
		got := simplify(lexAll(t, test.input))
		assert.Equal(t, test.tokens, got, "test %d: %q", i, test.input)
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"a\tb\rc"`, "a\tb\rc"},
		{`"\b\f\v"`, "\b\f\v"},
		{`"a\\nb"`, `a\nb`},
		{`"\x41\u0042"`, "AB"},
		{`'\q'`, "q"},
	}
	for _, test := range tests {
		got := simplify(lexAll(t, test.input))
		assert.Equal(t, []testToken{{token.STRING, test.want}, {token.EOF, ""}}, got, test.input)
	}
}

func TestLexer_Locations(t *testing.T) {
	tokens := lexAll(t, "var a\n  b = `x\ny`")
	require.Len(t, tokens, 6)
	assert.Equal(t, 1, tokens[0].Line())
	assert.Equal(t, 1, tokens[0].Col())
	assert.Equal(t, 5, tokens[1].Col())
	assert.Equal(t, 2, tokens[2].Line())
	assert.Equal(t, 3, tokens[2].Col())
	assert.True(t, tokens[2].Flags.Has(token.NewlineBefore))
	assert.False(t, tokens[3].Flags.Has(token.NewlineBefore))
	assert.Equal(t, 2, tokens[4].Line())
	assert.Equal(t, 3, tokens[4].EndLine())
}

func TestLexer_Comments(t *testing.T) {
	tokens := lexAll(t, "/*jshint undef:true */\n// plain\nfoo")
	require.Len(t, tokens, 2)
	require.Len(t, tokens[0].Comments, 2)
	c := tokens[0].Comments[0]
	assert.True(t, c.Block)
	require.NotNil(t, c.Directive)
	assert.Equal(t, directive.Options, c.Directive.Kind)
	assert.Nil(t, tokens[0].Comments[1].Directive)
	assert.Equal(t, " plain", tokens[0].Comments[1].Text)
}

func TestLexer_IgnoreBlock(t *testing.T) {
	src := "a;\n/* jshint ignore:start */\n<div>$$$</div>\n/* jshint ignore:end */\nb;"
	tokens := lexAll(t, src)
	got := simplify(tokens)
	assert.Equal(t, []testToken{
		{token.IDENT, "a"},
		{token.PUNCT, ";"},
		{token.IDENT, "b"},
		{token.PUNCT, ";"},
		{token.EOF, ""},
	}, got)
	assert.Equal(t, 5, tokens[2].Line())
}

func TestLexer_Problems(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{`"abc`, "E029"},
		{"/* abc", "E017"},
		{"`abc", "E052"},
		{"x = /abc", "E015"},
		{"x = /abc/gg", "E016"},
		{"0x", "W045"},
		{".5", "W008"},
		{"5.", "W047"},
		{"3in", "E067"},
	}
	for _, test := range tests {
		var codes []string
		for _, tok := range lexAll(t, test.input) {
			for _, err := range tok.Errs {
				codes = append(codes, err.Code)
			}
		}
		assert.Contains(t, codes, test.code, test.input)
	}
}

func TestLexer_Fatal(t *testing.T) {
	tokens := lexAll(t, "a \x01 b")
	last := tokens[len(tokens)-1]
	require.Equal(t, token.ERROR, last.Type)
	require.Len(t, last.Errs, 1)
	assert.Equal(t, "E024", last.Errs[0].Code)
	assert.True(t, last.Errs[0].Fatal)
}

func TestLexer_Flags(t *testing.T) {
	tokens := lexAll(t, "017 'a\\\nb' 5n")
	assert.True(t, tokens[0].Flags.Has(token.LegacyOctal))
	assert.True(t, tokens[1].Flags.Has(token.Multiline))
	assert.True(t, tokens[2].Flags.Has(token.BigInt))
}
