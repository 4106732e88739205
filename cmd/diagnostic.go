// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/spf13/viper"

	"github.com/luthersystems/esvet/diagnostic"
)

func colorMode() diagnostic.ColorMode {
	mode := colorFlag
	if v := viper.GetString("color"); v != "" {
		mode = v
	}
	switch mode {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}
