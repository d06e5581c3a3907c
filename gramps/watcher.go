package gramps

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ArchiveWatcher watches archive files for changes and re-loads them into
// the ancestry. Rapid successive writes are debounced; each changed
// archive is re-loaded on its own, with last-write-wins semantics taking
// care of the merge.
type ArchiveWatcher struct {
	loader         *Loader
	watcher        *fsnotify.Watcher
	logger         *zap.SugaredLogger
	mu             sync.Mutex
	pending        map[string]bool
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewArchiveWatcher creates a watcher over the given archive files.
func NewArchiveWatcher(loader *Loader, paths []string, logger *zap.SugaredLogger) (*ArchiveWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return &ArchiveWatcher{
		loader:         loader,
		watcher:        watcher,
		logger:         logger.Named("watcher"),
		pending:        make(map[string]bool),
		debouncePeriod: 500 * time.Millisecond, // Debounce rapid file changes
	}, nil
}

// Start begins watching for archive file changes.
func (w *ArchiveWatcher) Start() {
	go w.watchLoop()
}

// Stop stops watching for archive changes.
func (w *ArchiveWatcher) Stop() error {
	return w.watcher.Close()
}

// watchLoop monitors file system events
func (w *ArchiveWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Only reload on Write or Create events
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.logger.Infow("Archive changed",
					"archive", event.Name,
					"op", event.Op.String())
				w.scheduleReload(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Archive watcher error",
				"error", err)
		}
	}
}

// scheduleReload debounces rapid file changes and triggers a re-load of
// every archive that changed during the debounce window.
func (w *ArchiveWatcher) scheduleReload(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.reload)
}

// reload re-loads every pending archive.
func (w *ArchiveWatcher) reload() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	for _, path := range paths {
		if err := w.loader.LoadPath(path); err != nil {
			w.logger.Errorw("Archive re-load failed",
				"archive", path,
				"error", err)
			continue
		}
		w.logger.Infow("Archive re-loaded",
			"archive", path)
	}
}
