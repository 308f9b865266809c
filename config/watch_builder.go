package config

import "time"

// WatcherBuilderOption is a functional option for configuring a Watcher.
// Use the With* functions to create options that are applied directly to the watcher instance.
type WatcherBuilderOption func(*watcher)

// WithDebounce sets how long the watcher waits after the last file event before reloading.
//
// Parameters:
//   - d: the quiet period, ignored unless positive
//
// Returns:
//   - WatcherBuilderOption: option function to apply
func WithDebounce(d time.Duration) WatcherBuilderOption {
	return func(w *watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnError replaces the default logging of reload and watch errors.
//
// Parameters:
//   - fn: the error callback, run on the watcher's goroutines
//
// Returns:
//   - WatcherBuilderOption: option function to apply
func WithOnError(fn func(error)) WatcherBuilderOption {
	return func(w *watcher) {
		if fn != nil {
			w.onError = fn
		}
	}
}
