// Copyright © 2024 The ELPS authors

package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/luthersystems/esvet/parser/directive"
)

// ConfigName is the configuration file looked up when none is given.
const ConfigName = ".esvetrc"

// EnvPrefix prefixes environment variables overriding options.
const EnvPrefix = "ESVET"

// Config is the result of loading a configuration file.
type Config struct {
	Options *Set
	// Globals declared by the configuration, in addition to environments.
	Globals Globals
	// Exclude holds glob patterns of files to skip.
	Exclude []string
	// Extensions lists the file extensions linted when expanding
	// directories.
	Extensions []string
	// File is the configuration file that was read, if any.
	File string
}

// DefaultExtensions are linted when a configuration does not say otherwise.
var DefaultExtensions = []string{".js", ".mjs", ".cjs"}

// Load reads the configuration at path.  When path is empty the working
// directory and then the home directory are searched for ConfigName; finding
// no file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" || filepath.Base(path) == ConfigName {
			v.SetConfigType("json")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		return FromViper(v)
	}
	v.SetConfigName(ConfigName)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from settings already loaded into v.  Keys are
// matched against recognized options case-insensitively.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Globals:    make(Globals),
		Extensions: DefaultExtensions,
		File:       v.ConfigFileUsed(),
	}
	vals := make(map[string]interface{})
	var unknown []string
	for key := range v.AllSettings() {
		switch key {
		case "globals", "predef", "exclude", "extensions":
			continue
		}
		if _, ok := Lookup(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown options: %s", strings.Join(unknown, ", "))
	}
	for _, opt := range All() {
		key := strings.ToLower(opt.Name)
		if opt.Name == "globals" || !v.IsSet(key) {
			continue
		}
		name, val, err := Parse(opt.Name, fmt.Sprint(v.Get(key)))
		if err != nil {
			return nil, err
		}
		vals[name] = val
	}
	for _, key := range []string{"globals", "predef"} {
		if err := readGlobals(cfg.Globals, v.Get(key)); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	if v.IsSet("exclude") {
		cfg.Exclude = v.GetStringSlice("exclude")
	}
	if v.IsSet("extensions") {
		cfg.Extensions = v.GetStringSlice("extensions")
	}
	cfg.Options = New(vals)
	return cfg, nil
}

// readGlobals accepts a list in directive syntax ("name", "name:true",
// "-name") or a map of name to writability.
func readGlobals(g Globals, raw interface{}) error {
	switch raw := raw.(type) {
	case nil:
		return nil
	case string:
		return addGlobalEntries(g, raw)
	case []interface{}:
		for _, item := range raw {
			if err := addGlobalEntries(g, fmt.Sprint(item)); err != nil {
				return err
			}
		}
		return nil
	case []string:
		return addGlobalEntries(g, strings.Join(raw, ","))
	case map[string]interface{}:
		for name, w := range raw {
			g[name] = fmt.Sprint(w) == "true"
		}
		return nil
	}
	return fmt.Errorf("unsupported value %v", raw)
}

func addGlobalEntries(g Globals, text string) error {
	entries, err := directive.ParseEntries(text)
	if err != nil {
		return err
	}
	ApplyGlobals(g, entries)
	return nil
}

// ApplyGlobals adds or removes directive entries from g.
func ApplyGlobals(g Globals, entries []directive.Entry) {
	for _, e := range entries {
		if e.Remove {
			delete(g, e.Name)
			continue
		}
		g[e.Name] = e.HasValue && e.Value == "true"
	}
}
