package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ring/ring"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
)

// Watcher reloads a configuration file whenever it changes on disk.
type Watcher interface {
	// Path returns the resolved file being watched.
	//
	// Returns:
	//   - string: the absolute path
	Path() string

	// Close stops watching. Safe to call more than once.
	//
	// Returns:
	//   - error: error from releasing the file watch
	Close() error
}

type watcher struct {
	mu       *sync.Mutex
	path     string
	fs       *fsnotify.Watcher
	onChange func(ring.Config)
	onError  func(error)
	debounce time.Duration
	timer    *time.Timer
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	closeErr error
}

var _ Watcher = &watcher{}

// Watch starts watching a configuration file. The parent directory is watched rather than the
// file, so editors that save by renaming a temp file over the original are seen. Bursts of
// events are coalesced, then the file is reloaded and onChange receives the new configuration.
// Reload failures go to the error callback and the last good configuration stays in effect.
//
// Parameters:
//   - path: the file to watch; a leading ~ expands to the home directory
//   - onChange: called with each successfully reloaded configuration, on the watcher's goroutine
//   - options: functional options
//
// Returns:
//   - Watcher: the running watcher
//   - error: error if the path is invalid or the watch cannot be installed
func Watch(path string, onChange func(ring.Config), options ...WatcherBuilderOption) (Watcher, error) {
	resolved, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config: expand %s: %w", path, err)
	}
	if resolved, err = filepath.Abs(resolved); err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if _, err := FormatFor(resolved); err != nil {
		return nil, err
	}

	w := &watcher{
		mu:       &sync.Mutex{},
		path:     resolved,
		onChange: onChange,
		onError: func(err error) {
			log.Printf("[config] reload failed: %v", err)
		},
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", resolved, err)
	}
	if err := fs.Add(filepath.Dir(resolved)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("config: watch %s: %w", resolved, err)
	}
	w.fs = fs

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *watcher) Path() string {
	return w.path
}

func (w *watcher) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.closeErr = w.fs.Close()
		w.wg.Wait()

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
	return w.closeErr
}

func (w *watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// schedule restarts the debounce timer so only the last event of a burst reloads.
func (w *watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	cfg, err := Load(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	log.Printf("[config] reloaded %s (%d items)", w.path, len(cfg.Items))
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
