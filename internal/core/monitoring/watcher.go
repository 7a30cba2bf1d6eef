package monitoring

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

// DefaultSettle is how long a file must stay quiet before a change is reported.
// Editors often write a file in several steps.
const DefaultSettle = 150 * time.Millisecond

// FileEvent reports that a watched file changed
type FileEvent struct {
	Path      string
	Operation string
}

// FileWatcher reports changes to a fixed set of files.
// It watches the parent directories so files replaced by rename are still seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	settle  time.Duration
	events  chan FileEvent

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewFileWatcher starts watching files, reporting each change once it settles
func NewFileWatcher(files []string, settle time.Duration) (*FileWatcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		files:   make(map[string]struct{}, len(files)),
		settle:  settle,
		events:  make(chan FileEvent, 16),
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fw.wg.Add(1)
	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer fw.wg.Done()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)
			if _, watched := fw.files[path]; !watched {
				continue
			}
			fw.schedule(FileEvent{Path: path, Operation: event.Op.String()})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("File monitoring error: " + err.Error())

		case <-fw.done:
			return
		}
	}
}

// schedule delays delivery until no further change arrives within the settle window
func (fw *FileWatcher) schedule(ev FileEvent) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return
	}
	if t, ok := fw.pending[ev.Path]; ok {
		t.Stop()
	}
	fw.pending[ev.Path] = time.AfterFunc(fw.settle, func() {
		fw.mu.Lock()
		delete(fw.pending, ev.Path)
		closed := fw.closed
		fw.mu.Unlock()
		if closed {
			return
		}

		select {
		case fw.events <- ev:
		default:
			util.LogWarn("Dropping file change event, consumer is behind", util.F("path", ev.Path))
		}
	})
}

// Events returns the channel of settled file changes
func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

// Close stops watching. Pending changes are discarded.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true
	for path, t := range fw.pending {
		t.Stop()
		delete(fw.pending, path)
	}
	fw.mu.Unlock()

	close(fw.done)
	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}
