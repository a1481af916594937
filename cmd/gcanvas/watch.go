package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tdewolff/argp"

	"github.com/gogpu/gcanvas"
)

// settle is how long the watcher waits for a burst of events to end.
// Editors often write a file in several steps.
const settle = 100 * time.Millisecond

func (cmd *Watch) Run() error {
	if cmd.Input == "" || cmd.Output == "" || cmd.Output == "-" {
		return argp.ShowUsage
	}
	setupLogging(cmd.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watch(ctx, (*Convert)(cmd))
}

// watch compiles once and then again after every change to the input or
// job file, until ctx is done. Failed compilations are logged and keep the
// previous output.
func watch(ctx context.Context, cmd *Convert) error {
	logger := gcanvas.Logger()
	rebuild := func() {
		job, err := resolve(cmd.Job, cmd.flags())
		if err == nil {
			var s summary
			if s, err = convert(job, cmd.Input, cmd.Output); err == nil {
				s.print(os.Stderr)
			}
		}
		if err != nil {
			logger.Error("gcanvas: watch", "err", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	files := map[string]bool{}
	for _, name := range []string{cmd.Input, cmd.Job} {
		if name == "" {
			continue
		}
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		files[abs] = true
		// Watch the directory: a rename-over-save replaces the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}

	rebuild()
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("gcanvas: changed", "file", event.Name, "op", event.Op)
				pending = time.After(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("gcanvas: watcher", "err", err)
		case <-pending:
			pending = nil
			rebuild()
		}
	}
}
