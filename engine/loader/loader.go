package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
)

// ErrLoaderClosed is reported to callbacks of loads issued after Close.
var ErrLoaderClosed = errors.New("loader is closed")

// CancelFunc abandons a pending load. Its callback will not run afterwards. Calling it more than
// once, or after the load completed, does nothing.
type CancelFunc func()

// DoneFunc receives the result of an asynchronous load. It runs on a pool goroutine.
type DoneFunc func(tex texture.Texture, err error)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	imageCache map[string]*image.RGBA

	pool    *decodePool
	ctx     context.Context
	cancel  context.CancelFunc
	workers int
	queue   int
	nextID  atomic.Int64
	closed  atomic.Bool

	files   *fileSource
	web     *httpSource
	inline  dataSource
	timeout time.Duration
	maxSize int
}

// Loader defines the public-facing interface for loading and caching card images.
// References are local paths (optionally "file://" or "~"-prefixed), http(s) URLs or data: URIs.
// Decoded pixels are cached by reference; every load returns a fresh Texture the caller owns and
// must dispose.
type Loader interface {
	// Load fetches and decodes an image on the worker pool and delivers a new Texture to done.
	// Failures are delivered to done as errors. A cached reference still completes asynchronously.
	//
	// Parameters:
	//   - ref: the image reference
	//   - done: the completion callback, called at most once
	//
	// Returns:
	//   - CancelFunc: abandons the load
	Load(ref string, done DoneFunc) CancelFunc

	// LoadSync fetches and decodes an image on the calling goroutine.
	//
	// Parameters:
	//   - ctx: bounds the fetch
	//   - ref: the image reference
	//
	// Returns:
	//   - texture.Texture: a new Texture owned by the caller
	//   - error: error if fetching or decoding fails
	LoadSync(ctx context.Context, ref string) (texture.Texture, error)

	// Cached reports whether decoded pixels for ref are in the cache.
	//
	// Parameters:
	//   - ref: the image reference
	//
	// Returns:
	//   - bool: true if cached
	Cached(ref string) bool

	// Evict drops ref from the cache so the next load fetches it again.
	//
	// Parameters:
	//   - ref: the image reference
	Evict(ref string)

	// Close drops the cache, rejects further loads and stops the decode workers. In-flight
	// fetches are cancelled and pending loads complete without callbacks. Close returns once no
	// decode is running.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with a bounded decode pool.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		imageCache: make(map[string]*image.RGBA),
		workers:    max(runtime.NumCPU()-1, 1),
		queue:      256,
		files:      &fileSource{},
		web:        &httpSource{client: http.DefaultClient},
		timeout:    30 * time.Second,
	}
	for _, option := range options {
		option(l)
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.pool = newDecodePool(l.workers, l.queue, 1*time.Second)
	return l
}

func (l *loader) Load(ref string, done DoneFunc) CancelFunc {
	ctx, cancel := context.WithCancel(l.ctx)
	var cancelled atomic.Bool
	cancelFn := func() {
		cancelled.Store(true)
		cancel()
	}

	if l.closed.Load() {
		cancel()
		go done(nil, ErrLoaderClosed)
		return func() {}
	}

	submitted := l.pool.submit(worker.Task{
		ID: int(l.nextID.Add(1)),
		Do: func() (any, error) {
			defer cancel()
			tex, err := l.LoadSync(ctx, ref)
			if cancelled.Load() || l.closed.Load() {
				if tex != nil {
					tex.Dispose()
				}
				return nil, context.Canceled
			}
			if err != nil {
				log.Printf("[loader] %s: %v", ref, err)
			}
			done(tex, err)
			return tex, err
		},
	})
	if !submitted {
		cancel()
		go done(nil, ErrLoaderClosed)
		return func() {}
	}
	return cancelFn
}

func (l *loader) LoadSync(ctx context.Context, ref string) (texture.Texture, error) {
	if l.closed.Load() {
		return nil, ErrLoaderClosed
	}
	if ref = strings.TrimSpace(ref); ref == "" {
		return nil, fmt.Errorf("load image: %w", ErrUnsupportedSource)
	}

	l.mu.RLock()
	cached, ok := l.imageCache[ref]
	l.mu.RUnlock()
	if ok {
		return texture.NewTexture(cached, texture.WithName(ref)), nil
	}

	backend, err := l.resolveBackend(ref)
	if err != nil {
		return nil, err
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	data, err := backend.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}
	img, err := common.DecodeImage(data)
	if err != nil {
		return nil, err
	}

	tex := texture.NewTexture(img, texture.WithName(ref), texture.WithMaxSize(l.maxSize))
	if !l.closed.Load() {
		// cache the downscaled pixels so later loads skip the resize
		l.mu.Lock()
		l.imageCache[ref] = tex.Image()
		l.mu.Unlock()
	}
	return tex, nil
}

func (l *loader) Cached(ref string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.imageCache[strings.TrimSpace(ref)]
	return ok
}

func (l *loader) Evict(ref string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.imageCache, strings.TrimSpace(ref))
}

func (l *loader) Close() {
	if l.closed.Swap(true) {
		return
	}
	l.cancel()
	l.pool.close()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.imageCache = make(map[string]*image.RGBA)
}

// resolveBackend selects the source backend from the reference scheme.
func (l *loader) resolveBackend(ref string) (sourceBackend, error) {
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return l.web, nil
	case strings.HasPrefix(lower, "data:"):
		return l.inline, nil
	case strings.Contains(lower, "://") && !strings.HasPrefix(lower, "file://"):
		return nil, fmt.Errorf("%s: %w", ref, ErrUnsupportedSource)
	default:
		return l.files, nil
	}
}
