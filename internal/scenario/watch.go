package scenario

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReportFunc receives the outcome of every run started by Watch.
type ReportFunc func(res *Result, err error)

// Watch runs the scenario at path once, then again every time the file
// is written or replaced, until ctx is cancelled. Bursts of events within
// the runner's debounce delay trigger a single run.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename keep triggering runs.
func (r *Runner) Watch(ctx context.Context, path string, report ReportFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	logger := r.logger.With(zap.String("path", abs))
	run := func() {
		res, err := r.RunFile(abs)
		report(res, err)
	}
	run()

	timer := time.NewTimer(r.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !relevant(ev.Op) {
				continue
			}
			logger.Debug("scenario changed", zap.Stringer("op", ev.Op))
			timer.Reset(r.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			run()
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
