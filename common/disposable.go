package common

import "sync"

// Disposable is implemented by every resource that owns GPU-side or pooled memory.
// Dispose must be safe to call more than once; only the first call releases anything.
type Disposable interface {
	// Dispose releases the resource. Subsequent calls are no-ops.
	Dispose()

	// Disposed reports whether Dispose has already run.
	Disposed() bool

	// OnDispose registers a hook that runs exactly once when the resource is disposed.
	// Hooks registered after disposal run immediately.
	//
	// Parameters:
	//   - fn: the hook to run
	OnDispose(fn func())
}

// DisposeTracker is an embeddable helper that implements Disposable's bookkeeping.
// The zero value is ready to use.
type DisposeTracker struct {
	mu       sync.Mutex
	disposed bool
	hooks    []func()
}

var _ Disposable = &DisposeTracker{}

func (d *DisposeTracker) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	hooks := d.hooks
	d.hooks = nil
	d.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func (d *DisposeTracker) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

func (d *DisposeTracker) OnDispose(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		fn()
		return
	}
	d.hooks = append(d.hooks, fn)
	d.mu.Unlock()
}
