// Copyright © 2024 The ELPS authors

package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_NilIsEmpty(t *testing.T) {
	var s *Set
	assert.False(t, s.Bool("undef"))
	assert.Equal(t, 0, s.Int("maxerr"))
	assert.Equal(t, DefaultMaxErr, s.MaxErr())
	assert.Equal(t, DefaultESVersion, s.ESVersion())
	assert.Empty(t, s.Flatten())
}

func TestSet_DeriveDoesNotMutateParent(t *testing.T) {
	parent := New(map[string]interface{}{"undef": true, "maxerr": 10})
	child := parent.Derive(map[string]interface{}{"undef": false, "asi": true})

	assert.True(t, parent.Bool("undef"))
	assert.False(t, parent.Has("asi"))
	assert.False(t, child.Bool("undef"))
	assert.True(t, child.Bool("asi"))
	assert.Equal(t, 10, child.MaxErr())

	grandchild := child.With("maxerr", 3)
	assert.Equal(t, 3, grandchild.MaxErr())
	assert.Equal(t, 10, child.MaxErr())
}

func TestSet_StringValues(t *testing.T) {
	s := New(map[string]interface{}{"unused": "vars", "strict": true, "esversion": 6})
	assert.True(t, s.Bool("unused"))
	assert.Equal(t, "vars", s.String("unused"))
	assert.Equal(t, "true", s.String("strict"))
	assert.Equal(t, "6", s.String("esversion"))
	assert.Equal(t, 6, s.ESVersion())
	assert.False(t, New(map[string]interface{}{"unused": "false"}).Bool("unused"))
}

func TestSet_FlattenAndNames(t *testing.T) {
	s := New(map[string]interface{}{"a": true, "b": 1}).With("a", false)
	flat := s.Flatten()
	assert.Equal(t, false, flat["a"])
	assert.Equal(t, 1, flat["b"])
	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name, raw string
		want      interface{}
		canon     string
	}{
		{"undef", "true", true, "undef"},
		{"asi", "false", false, "asi"},
		{"maxerr", "25", 25, "maxerr"},
		{"maxdepth", "false", 0, "maxdepth"},
		{"esversion", "2015", 6, "esversion"},
		{"esversion", "11", 11, "esversion"},
		{"unused", "vars", "vars", "unused"},
		{"unused", "true", true, "unused"},
		{"singlegroups", "true", true, "singleGroups"},
		{"browser", "true", true, "browser"},
	}
	for _, tt := range tests {
		canon, v, err := Parse(tt.name, tt.raw)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.canon, canon)
		assert.Equal(t, tt.want, v, tt.name)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, tt := range [][2]string{
		{"nosuchoption", "true"},
		{"maxerr", "many"},
		{"esversion", "4"},
		{"shadow", "sometimes"},
		{"undef", "yes"},
	} {
		_, _, err := Parse(tt[0], tt[1])
		assert.Error(t, err, tt[0])
	}
}

func TestPredefined(t *testing.T) {
	g := Predefined(New(map[string]interface{}{"browser": true}))
	assert.Contains(t, g, "document")
	assert.Contains(t, g, "JSON")
	assert.NotContains(t, g, "Promise")
	assert.True(t, g["status"])
	assert.False(t, g["window"])

	g = Predefined(New(map[string]interface{}{"esversion": 6, "node": true}))
	assert.Contains(t, g, "Promise")
	assert.Contains(t, g, "require")
	assert.True(t, g["module"])
}

func TestEnvironmentGlobals(t *testing.T) {
	g, ok := EnvironmentGlobals("node")
	require.True(t, ok)
	assert.Contains(t, g, "require")
	g["require"] = true
	again, _ := EnvironmentGlobals("node")
	assert.False(t, again["require"])

	_, ok = EnvironmentGlobals("nosuchenv")
	assert.False(t, ok)

	opt, ok := Lookup("browser")
	require.True(t, ok)
	assert.Equal(t, Environment, opt.Kind)
}

func TestAll_SortedByKind(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, int(all[i-1].Kind), int(all[i].Kind))
	}
	opt, ok := Lookup("MAXERR")
	require.True(t, ok)
	assert.Equal(t, "maxerr", opt.Name)
	assert.True(t, opt.Numeric)
}
