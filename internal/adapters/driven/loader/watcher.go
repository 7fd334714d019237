package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// DefaultDebounce coalesces bursts of events for one file, such as an editor
// writing a file in several steps.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to documentation files under a loader's root.
type Watcher struct {
	loader   *Loader
	debounce time.Duration

	mu     sync.Mutex
	closed bool
	fsw    *fsnotify.Watcher
}

// NewWatcher creates a watcher for the loader's root.
func NewWatcher(l *Loader, debounce time.Duration) *Watcher {
	if debounce < 0 {
		debounce = 0
	}
	return &Watcher{loader: l, debounce: debounce}
}

// Watch starts watching and returns a channel of changes. The channel is
// closed when ctx is cancelled or the watcher is closed. Directories created
// after the watch started are watched too.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.DocumentChange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, errors.New("watcher is closed")
	}
	if w.fsw != nil {
		return nil, errors.New("watcher already started")
	}

	root := w.loader.Root()
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	changes := make(chan domain.DocumentChange)
	go w.run(ctx, fsw, changes)
	return changes, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- domain.DocumentChange) {
	defer close(out)

	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	flush := func() bool {
		for path, op := range pending {
			delete(pending, path)
			change := w.handleFsEvent(fsnotify.Event{Name: path, Op: op})
			if change == nil {
				continue
			}
			select {
			case out <- *change:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(event.Name) {
					if err := addTree(fsw, event.Name); err != nil {
						logger.Warn("failed to watch %s: %v", event.Name, err)
					}
				}
			}
			pending[event.Name] |= event.Op
			if w.debounce == 0 {
				if !flush() {
					return
				}
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if !flush() {
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handleFsEvent turns a file event into a document change. Directories,
// hidden files, unsupported files and chmod-only events yield nil.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *domain.DocumentChange {
	path := event.Name
	rel, err := filepath.Rel(w.loader.Root(), path)
	if err != nil || isHidden(rel) || !Supported(path) {
		return nil
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if _, err := os.Stat(path); err == nil {
			// Renamed onto an existing path: treat as an update.
			return w.loadChange(path, domain.ChangeUpdated)
		}
		return &domain.DocumentChange{
			Type:       domain.ChangeDeleted,
			Path:       path,
			DocumentID: w.loader.IDForPath(path),
		}
	}

	switch {
	case event.Has(fsnotify.Create):
		return w.loadChange(path, domain.ChangeCreated)
	case event.Has(fsnotify.Write):
		return w.loadChange(path, domain.ChangeUpdated)
	default:
		return nil
	}
}

func (w *Watcher) loadChange(path string, kind domain.ChangeType) *domain.DocumentChange {
	if !w.loader.Wanted(path) {
		return nil
	}
	doc, err := w.loader.LoadFile(path)
	if err != nil {
		logger.Warn("failed to load %s: %v", path, err)
		return nil
	}
	return &domain.DocumentChange{
		Type:       kind,
		Path:       path,
		DocumentID: doc.ID,
		Document:   doc,
	}
}

// addTree watches dir and every non-hidden directory below it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
