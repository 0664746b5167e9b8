package lsp

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ideclang/ideclang/internal/errors"
	"github.com/ideclang/ideclang/internal/logger"
)

// ChangeCallback is called with the path of an open file that changed on
// disk.
type ChangeCallback func(path string)

// FileWatcher watches the directories of open files and reports writes to
// those files, debounced per path.
type FileWatcher struct {
	watcher        *fsnotify.Watcher
	onChange       ChangeCallback
	debouncePeriod time.Duration

	mu     sync.Mutex
	files  map[string]bool
	dirs   map[string]int
	timers map[string]*time.Timer
	closed bool
}

// NewFileWatcher creates a watcher. Start must be called to begin delivery.
func NewFileWatcher(debounce time.Duration, onChange ChangeCallback) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	return &FileWatcher{
		watcher:        watcher,
		onChange:       onChange,
		debouncePeriod: debounce,
		files:          make(map[string]bool),
		dirs:           make(map[string]int),
		timers:         make(map[string]*time.Timer),
	}, nil
}

// Add starts reporting changes to path.
func (fw *FileWatcher) Add(path string) error {
	path = filepath.Clean(path)
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed || fw.files[path] {
		return nil
	}
	dir := filepath.Dir(path)
	if fw.dirs[dir] == 0 {
		if err := fw.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	fw.dirs[dir]++
	fw.files[path] = true
	return nil
}

// Remove stops reporting changes to path.
func (fw *FileWatcher) Remove(path string) {
	path = filepath.Clean(path)
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed || !fw.files[path] {
		return
	}
	delete(fw.files, path)
	if timer := fw.timers[path]; timer != nil {
		timer.Stop()
		delete(fw.timers, path)
	}
	dir := filepath.Dir(path)
	fw.dirs[dir]--
	if fw.dirs[dir] <= 0 {
		delete(fw.dirs, dir)
		if err := fw.watcher.Remove(dir); err != nil {
			logger.Debugw("File watcher remove failed", "dir", dir, "error", err)
		}
	}
}

// Start begins watching in a background goroutine.
func (fw *FileWatcher) Start() {
	go fw.watchLoop()
}

func (fw *FileWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fw.schedule(filepath.Clean(event.Name))

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("File watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) schedule(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed || !fw.files[path] {
		return
	}
	if timer := fw.timers[path]; timer != nil {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debouncePeriod, func() {
		fw.mu.Lock()
		delete(fw.timers, path)
		active := !fw.closed && fw.files[path]
		fw.mu.Unlock()
		if active {
			logger.Debugw("File changed on disk", "path", path)
			fw.onChange(path)
		}
	})
}

// Close stops the watcher and any pending callbacks.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true
	for path, timer := range fw.timers {
		timer.Stop()
		delete(fw.timers, path)
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}
