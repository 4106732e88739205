// Copyright © 2024 The ELPS authors

package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/esvet/parser/directive"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, ".esvetrc", `{
		"undef": true,
		"maxerr": 5,
		"esversion": 2017,
		"singleGroups": true,
		"globals": ["jQuery", "app:true", "-jQuery"],
		"exclude": ["vendor/*"]
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.True(t, cfg.Options.Bool("undef"))
	assert.Equal(t, 5, cfg.Options.MaxErr())
	assert.Equal(t, 8, cfg.Options.ESVersion())
	assert.True(t, cfg.Options.Bool("singleGroups"))
	assert.Equal(t, Globals{"app": true}, cfg.Globals)
	assert.Equal(t, []string{"vendor/*"}, cfg.Exclude)
	assert.Equal(t, DefaultExtensions, cfg.Extensions)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "esvet.yaml", "asi: true\nunused: vars\npredef:\n  - describe\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Options.Bool("asi"))
	assert.Equal(t, "vars", cfg.Options.String("unused"))
	assert.Equal(t, Globals{"describe": false}, cfg.Globals)
}

func TestLoad_UnknownOption(t *testing.T) {
	path := writeConfig(t, ".esvetrc", `{"undefined_behavior": true}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "undefined_behavior")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ESVET_MAXERR", "7")
	path := writeConfig(t, ".esvetrc", `{"maxerr": 5}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Options.MaxErr())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestApplyGlobals(t *testing.T) {
	g := Globals{"a": false}
	ApplyGlobals(g, []directive.Entry{
		{Name: "b", Value: "true", HasValue: true},
		{Name: "a", Remove: true},
		{Name: "c", Value: "false", HasValue: true},
	})
	assert.Equal(t, Globals{"b": true, "c": false}, g)
}
