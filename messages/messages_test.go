// Copyright © 2024 The ELPS authors

package messages

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassOf(t *testing.T) {
	assert.Equal(t, Error, ClassOf("E041"))
	assert.Equal(t, Warning, ClassOf("W033"))
	assert.Equal(t, Info, ClassOf("I001"))
	assert.Equal(t, classUnset, ClassOf(""))
	assert.Equal(t, classUnset, ClassOf("X1"))
}

func TestClass_JSON(t *testing.T) {
	b, err := json.Marshal(Warning)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))

	var c Class
	require.NoError(t, json.Unmarshal([]byte(`"error"`), &c))
	assert.Equal(t, Error, c)
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &c))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Missing semicolon.", Format("W033"))
	assert.Equal(t, "Unreachable 'x' after 'return'.", Format("W027", "x", "return"))
	assert.Equal(t, "Too many errors. (42% scanned).", Format("E043", "42"))
	assert.Equal(t, "Z999", Format("Z999", "a"))
}

func TestSupplant_MissingArgs(t *testing.T) {
	assert.Equal(t, "'x' and {b}", Supplant("'{a}' and {b}", "x"))
	assert.Equal(t, "{a}", Supplant("{a}"))
}

func TestCodes_SortedByClass(t *testing.T) {
	codes := Codes()
	require.NotEmpty(t, codes)
	assert.True(t, strings.HasPrefix(codes[0], "E"))
	assert.True(t, strings.HasPrefix(codes[len(codes)-1], "I"))
	for _, code := range codes {
		m, ok := Lookup(code)
		require.True(t, ok)
		assert.NotEmpty(t, m.Template, code)
		assert.NotEqual(t, classUnset, m.Class(), code)
	}
}
