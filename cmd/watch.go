// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/luthersystems/esvet/lint"
)

// watchDelay coalesces the bursts of events an editor produces on save.
const watchDelay = 100 * time.Millisecond

// newWatcher watches the directories holding the files named by args.
func newWatcher(args, exclude []string) (*fsnotify.Watcher, []string, error) {
	dirs, err := watchDirs(args, exclude)
	if err != nil {
		return nil, nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close() //nolint:errcheck,gosec // already failing
			return nil, nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, dirs, nil
}

// watchDirs returns the directories to watch for args, sorted.  A "/..."
// argument contributes every directory below it that is not excluded.
func watchDirs(args, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	for _, arg := range args {
		root, ok := strings.CutSuffix(arg, "/...")
		if !ok {
			seen[filepath.Dir(arg)] = true
			continue
		}
		if root == "" {
			root = "."
		}
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if lint.Excluded(path, exclude) {
				return filepath.SkipDir
			}
			seen[path] = true
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// watchLoop calls relint after source files change until ctx is done.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, stderr io.Writer, exts, exclude []string, relint func()) error {
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			pending = nil
			relint()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !lint.HasExt(ev.Name, exts) || lint.Excluded(ev.Name, exclude) {
				continue
			}
			pending = time.After(watchDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(stderr, "watch:", err)
		}
	}
}
