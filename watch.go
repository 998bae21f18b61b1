package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hesusruiz/adl2pydm/convert"
)

const watchDebounce = 200 * time.Millisecond

// watch converts the files in paths and converts them again each time they
// are saved, until ctx is cancelled. Directories are watched for any .adl
// file, other paths only for themselves.
func watch(ctx context.Context, conv *convert.Converter, paths []string, outputDir string, log *zap.SugaredLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer watcher.Close()

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return errors.Wrap(err, "watching input files")
		}
		p = filepath.Clean(p)
		if info.IsDir() {
			dirs[p] = true
		} else {
			files[p] = true
			p = filepath.Dir(p)
		}
		if err := watcher.Add(p); err != nil {
			return errors.Wrapf(err, "watching %s", p)
		}
	}

	inputs, err := convert.Discover(paths)
	if err != nil {
		return err
	}
	if _, err := conv.ConvertAll(ctx, inputs, outputDir, len(inputs)); err != nil {
		log.Warnw("initial conversion", "error", err)
	}
	log.Infow("watching for changes", "paths", paths)

	tracked := func(name string) bool {
		return files[name] || (dirs[filepath.Dir(name)] && strings.EqualFold(filepath.Ext(name), ".adl"))
	}

	// Editors often write a file in several steps, so a file is converted once
	// it has been quiet for a while.
	timers := make(map[string]*time.Timer)
	ready := make(chan string, 16)

	for {
		select {
		case <-ctx.Done():
			for _, t := range timers {
				t.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if !tracked(name) {
				continue
			}
			if t, ok := timers[name]; ok {
				t.Stop()
			}
			timers[name] = time.AfterFunc(watchDebounce, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case name := <-ready:
			delete(timers, name)
			if _, err := conv.ConvertFile(ctx, name, outputDir); err != nil {
				// Already logged by the converter; keep watching
				continue
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("file watcher", "error", err)
		}
	}
}
