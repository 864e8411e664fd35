package service

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce coalesces the burst of write events a file copy
// produces into one rebuild.
const reloadDebounce = 2 * time.Second

// Watcher triggers an atomic-swap reload when the dataset file is
// rewritten, so a refreshed export goes live without a restart.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching the dataset file's directory (watching the
// directory survives rename-replace, which plain file watches do not).
func Watch(path string, svc *QueryService, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	target := filepath.Clean(path)

	go func() {
		var timer *time.Timer
		fire := make(chan struct{}, 1)

		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})

			case <-fire:
				logger.Info("dataset file changed, reloading", zap.String("path", path))
				if _, err := svc.Reload(); err != nil {
					// Keep serving the previous generation on a bad reload
					logger.Error("reload failed", zap.Error(err))
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("dataset watcher error", zap.Error(err))

			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
