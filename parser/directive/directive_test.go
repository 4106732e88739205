// Copyright © 2024 The ELPS authors

package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OrdinaryComment(t *testing.T) {
	d, err := Parse(" just a comment ")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = Parse("globalization is hard")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestParse_Options(t *testing.T) {
	d, err := Parse("jshint undef:true, maxerr: 10 -W033")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, Options, d.Kind)
	assert.Equal(t, "jshint", d.Keyword)
	require.Len(t, d.Entries, 3)
	assert.Equal(t, Entry{Name: "undef", Value: "true", HasValue: true}, d.Entries[0])
	assert.Equal(t, Entry{Name: "maxerr", Value: "10", HasValue: true}, d.Entries[1])
	assert.Equal(t, Entry{Name: "W033", Remove: true}, d.Entries[2])
}

func TestParse_Globals(t *testing.T) {
	d, err := Parse("global jQuery, $:true, -Foo")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, Globals, d.Kind)
	require.Len(t, d.Entries, 3)
	assert.Equal(t, "jQuery", d.Entries[0].Name)
	assert.False(t, d.Entries[0].HasValue)
	assert.Equal(t, "$", d.Entries[1].Name)
	assert.Equal(t, "true", d.Entries[1].Value)
	assert.True(t, d.Entries[2].Remove)
	assert.Equal(t, "-Foo", d.Entries[2].String())
}

func TestParse_QuotedValue(t *testing.T) {
	d, err := Parse(`esvet strict:"global"`)
	require.NoError(t, err)
	require.Len(t, d.Entries, 1)
	assert.Equal(t, "global", d.Entries[0].Value)
}

func TestParse_Ignore(t *testing.T) {
	for _, v := range []string{"start", "end", "line"} {
		d, err := Parse("jshint ignore:" + v)
		require.NoError(t, err)
		assert.Equal(t, v, d.Ignore())
	}
	d, err := Parse("global ignore:line")
	require.NoError(t, err)
	assert.Equal(t, "", d.Ignore())
}

func TestParse_FallsThrough(t *testing.T) {
	for _, body := range []string{"falls through", " fall through ", "falls  through."} {
		d, err := Parse(body)
		require.NoError(t, err)
		require.NotNil(t, d, body)
		assert.Equal(t, FallsThrough, d.Kind)
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("jshint undef:true, :bad")
	assert.Error(t, err)
}

func TestParseEntries_Empty(t *testing.T) {
	entries, err := ParseEntries("   ")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseEntries_Values(t *testing.T) {
	entries, err := ParseEntries("foo:true, bar, baz: false")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "foo", Value: "true", HasValue: true},
		{Name: "bar"},
		{Name: "baz", Value: "false", HasValue: true},
	}, entries)
}
