// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand expands arguments, resolving patterns ending with "/..." to all
// files found recursively under the given directory whose extension is in
// exts.  Other arguments pass through unchanged.  Paths matching an exclude
// glob, by full path or by any path element, are dropped.
func Expand(args, exts, exclude []string) ([]string, error) {
	for _, pat := range exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pat, err)
		}
	}
	var out []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, "/...")
		if !ok {
			if !Excluded(arg, exclude) {
				out = append(out, arg)
			}
			continue
		}
		if dir == "" {
			dir = "."
		}
		files, err := findSources(dir, exts, exclude)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		out = append(out, files...)
	}
	return out, nil
}

func findSources(root string, exts, exclude []string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if Excluded(path, exclude) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if HasExt(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// HasExt reports whether path has one of the extensions in exts, compared
// case-insensitively.
func HasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Excluded reports whether path matches one of the glob patterns, either
// as a whole or by one of its elements.
func Excluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	clean := filepath.Clean(path)
	elems := strings.Split(filepath.ToSlash(clean), "/")
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, clean); ok {
			return true
		}
		for _, e := range elems {
			if e == "." || e == ".." {
				continue
			}
			if ok, _ := filepath.Match(pat, e); ok {
				return true
			}
		}
	}
	return false
}
