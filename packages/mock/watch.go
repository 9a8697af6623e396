package mock

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounceDelay is how long a RouteWatcher waits after the last change
// before reloading, so that one save produces one reload.
const WatchDebounceDelay = 300 * time.Millisecond

// RouteWatcher reloads a Server's routes when a route file or an event file
// it references changes.
type RouteWatcher struct {
	server  *Server
	paths   []string
	watcher *fsnotify.Watcher

	// OnReload, if set, is called after every reload attempt with its error.
	OnReload func(err error)
}

// NewRouteWatcher starts watching the directories that hold the server's
// route and event files. paths are the route files passed to Reload.
func (s *Server) NewRouteWatcher(paths []string) (*RouteWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors that save by renaming replace the file, so watch directories.
	dirs := make(map[string]bool)
	for _, p := range paths {
		dirs[filepath.Dir(absPath(p))] = true
	}
	for f := range s.sourceFiles() {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return &RouteWatcher{server: s, paths: paths, watcher: watcher}, nil
}

// Run reloads routes on change until ctx is cancelled. The watcher is
// closed when Run returns.
func (w *RouteWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.server.sourceFiles()[absPath(event.Name)] && !w.isRouteFile(event.Name) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			name := event.Name
			debounce = time.AfterFunc(WatchDebounceDelay, func() {
				err := w.server.Reload(w.paths)
				if err != nil {
					w.server.logger.Warn("route reload failed", "file", name, "error", err)
				} else {
					w.server.logger.Info("routes reloaded", "file", name, "routes", len(w.server.GetRoutes()))
				}
				if w.OnReload != nil {
					w.OnReload(err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.server.logger.Warn("watcher error", "error", err)
		}
	}
}

// Close stops watching without waiting for Run.
func (w *RouteWatcher) Close() error {
	return w.watcher.Close()
}

// isRouteFile catches route files that failed to load and so are missing
// from the server's source files.
func (w *RouteWatcher) isRouteFile(name string) bool {
	name = absPath(name)
	for _, p := range w.paths {
		if absPath(p) == name {
			return true
		}
	}
	return false
}
