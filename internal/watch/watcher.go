package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc is called after a debounced change. trigger is the path of the
// last event seen.
type ReloadFunc func(ctx context.Context, trigger string) error

// Options configures the watcher.
type Options struct {
	// Paths are files or directories to watch. Directories are watched
	// recursively; files are watched through their parent directory so that
	// rename-on-save editors are picked up.
	Paths []string

	// Debounce is the quiet period before triggering a reload.
	Debounce time.Duration

	// Logger receives reload outcomes. Defaults to a no-op logger.
	Logger *zap.Logger

	// Ready, when set, is closed once every path is being watched.
	Ready chan<- struct{}
}

// Run watches opts.Paths and calls reload after each burst of relevant
// changes. It blocks until ctx is cancelled. Reload errors are logged and do
// not stop the watcher.
func Run(ctx context.Context, opts Options, reload ReloadFunc) error {
	if reload == nil {
		return fmt.Errorf("watch: reload func is nil")
	}
	if len(opts.Paths) == 0 {
		return fmt.Errorf("watch: no paths to watch")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: creating watcher: %w", err)
	}
	defer watcher.Close()

	filter, err := addPaths(watcher, opts.Paths)
	if err != nil {
		return err
	}
	if opts.Ready != nil {
		close(opts.Ready)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
		last    string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event) || !filter.matches(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			last = event.Name
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := reload(ctx, last); err != nil {
				opts.Logger.Error("reload failed", zap.String("trigger", last), zap.Error(err))
				continue
			}
			opts.Logger.Info("reloaded", zap.String("trigger", last))

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Error("watcher error", zap.Error(watchErr))
		}
	}
}

// pathFilter limits events from parent directories to the watched files.
type pathFilter struct {
	files map[string]struct{}
	dirs  []string
}

func (f pathFilter) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if _, ok := f.files[abs]; ok {
		return true
	}
	for _, dir := range f.dirs {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func addPaths(watcher *fsnotify.Watcher, paths []string) (pathFilter, error) {
	filter := pathFilter{files: make(map[string]struct{})}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return filter, fmt.Errorf("watch: resolving %q: %w", path, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return filter, fmt.Errorf("watch: %w", err)
		}
		if info.IsDir() {
			if err := addRecursive(watcher, abs); err != nil {
				return filter, fmt.Errorf("watch: watching directory %q: %w", abs, err)
			}
			filter.dirs = append(filter.dirs, abs)
			continue
		}
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return filter, fmt.Errorf("watch: watching file %q: %w", abs, err)
		}
		filter.files[abs] = struct{}{}
	}
	return filter, nil
}

// addRecursive walks root and adds all directories to the watcher.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// isRelevant drops chmod-only events and editor temporary files.
func isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}
	return true
}
