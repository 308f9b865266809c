package loader

import (
	"net/http"
	"time"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the number of decode goroutines. The default is one less than the CPU count.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithQueueSize sets how many loads may wait for a free worker.
//
// Parameters:
//   - n: the queue length, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the queue option to a loader
func WithQueueSize(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.queue = n
		}
	}
}

// WithBaseDir resolves relative file references against dir.
//
// Parameters:
//   - dir: the base directory, "~" is expanded
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.files.baseDir = dir
	}
}

// WithHTTPClient sets the client used for http and https references.
//
// Parameters:
//   - client: the HTTP client
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client option to a loader
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		if client != nil {
			l.web.client = client
		}
	}
}

// WithTimeout bounds every fetch. Zero disables the bound. The default is 30 seconds.
//
// Parameters:
//   - d: the timeout
//
// Returns:
//   - LoaderBuilderOption: a function that applies the timeout option to a loader
func WithTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		l.timeout = d
	}
}

// WithMaxTextureSize downscales decoded images whose longest side exceeds size.
//
// Parameters:
//   - size: the longest allowed side in pixels, zero keeps the original size
//
// Returns:
//   - LoaderBuilderOption: a function that applies the max size option to a loader
func WithMaxTextureSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxSize = size
	}
}

// WithMaxBytes rejects payloads larger than n bytes. Zero disables the limit.
//
// Parameters:
//   - n: the byte limit
//
// Returns:
//   - LoaderBuilderOption: a function that applies the byte limit option to a loader
func WithMaxBytes(n int64) LoaderBuilderOption {
	return func(l *loader) {
		l.files.maxBytes = n
		l.web.maxBytes = n
	}
}
