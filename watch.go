package websegment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Purge empties the content stores, so pages mounted from now on fetch
// their content again.
func (a *App) Purge(ctx context.Context) error {
	var err error
	if cerr := a.Loop.Call(ctx, func() { err = a.Stores.Purge() }); cerr != nil {
		return cerr
	}
	return err
}

// WatchContent purges the stores whenever a file under ContentDir changes.
// Bursts of events within debounce trigger a single purge. It blocks until
// ctx is done.
func (a *App) WatchContent(ctx context.Context, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("websegment: watch content: %w", err)
	}
	defer w.Close()

	err = filepath.WalkDir(a.Config.ContentDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("websegment: watch content: %w", err)
	}

	timer := time.NewTimer(debounce)
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
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = w.Add(ev.Name)
				}
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warnf("websegment: watch content: %v", err)
		case <-timer.C:
			if err := a.Purge(ctx); err != nil {
				a.logger.Warnf("websegment: purge: %v", err)
				continue
			}
			a.logger.Infof("websegment: content changed, stores purged")
		}
	}
}
