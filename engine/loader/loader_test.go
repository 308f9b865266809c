package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type result struct {
	tex texture.Texture
	err error
}

func await(t *testing.T, ch <-chan result) result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
		return result{}
	}
}

func TestLoadFileAsync(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "red.png"), encodePNG(t, 4, 2, color.RGBA{255, 0, 0, 255}), 0o644))

	l := NewLoader(WithWorkers(2), WithBaseDir(dir))
	defer l.Close()

	ch := make(chan result, 1)
	l.Load("red.png", func(tex texture.Texture, err error) { ch <- result{tex, err} })
	r := await(t, ch)
	require.NoError(t, r.err)
	w, h := r.tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, "red.png", r.tex.Name())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, r.tex.Image().RGBAAt(0, 0))
	assert.True(t, l.Cached("red.png"))
}

func TestLoadSyncReturnsFreshTexturePerCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blue.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 2, 2, color.RGBA{0, 0, 255, 255}), 0o644))

	l := NewLoader()
	defer l.Close()

	first, err := l.LoadSync(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := l.LoadSync(context.Background(), path)
	require.NoError(t, err, "second load is served from the cache")
	assert.NotSame(t, first, second)

	first.Dispose()
	assert.False(t, second.Disposed())

	l.Evict(path)
	assert.False(t, l.Cached(path))
	_, err = l.LoadSync(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadHTTP(t *testing.T) {
	payload := encodePNG(t, 3, 3, color.RGBA{0, 255, 0, 255})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/card.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	defer l.Close()

	tex, err := l.LoadSync(context.Background(), srv.URL+"/card.png")
	require.NoError(t, err)
	w, _ := tex.Size()
	assert.Equal(t, 3, w)

	_, err = l.LoadSync(context.Background(), srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "404")
	assert.Equal(t, int32(2), hits.Load())
}

func TestLoadDataURI(t *testing.T) {
	payload := encodePNG(t, 1, 1, color.RGBA{10, 20, 30, 255})
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	l := NewLoader()
	defer l.Close()

	tex, err := l.LoadSync(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, tex.Image().RGBAAt(0, 0))
}

func TestLoadRejectsNonImages(t *testing.T) {
	dir := t.TempDir()
	// a zip archive header is recognized by the sniffer and is not an image
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.zip"), []byte("PK\x03\x04rest-of-archive"), 0o644))

	l := NewLoader(WithBaseDir(dir))
	defer l.Close()

	_, err := l.LoadSync(context.Background(), "a.zip")
	assert.ErrorIs(t, err, common.ErrNotAnImage)

	_, err = l.LoadSync(context.Background(), "ftp://example.com/a.png")
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = l.LoadSync(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestLoadAsyncDeliversErrors(t *testing.T) {
	l := NewLoader()
	defer l.Close()

	ch := make(chan result, 1)
	l.Load(filepath.Join(t.TempDir(), "nope.png"), func(tex texture.Texture, err error) { ch <- result{tex, err} })
	r := await(t, ch)
	assert.Nil(t, r.tex)
	assert.ErrorIs(t, r.err, os.ErrNotExist)
}

func TestCancelSuppressesCallback(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	l := NewLoader(WithWorkers(1), WithHTTPClient(srv.Client()))
	defer l.Close()

	var called atomic.Bool
	cancel := l.Load(srv.URL+"/slow.png", func(texture.Texture, error) { called.Store(true) })
	cancel()
	cancel()

	// a follow-up load on the single worker completes only after the cancelled one unwinds
	ch := make(chan result, 1)
	payload := encodePNG(t, 1, 1, color.RGBA{A: 255})
	l.Load("data:image/png;base64,"+base64.StdEncoding.EncodeToString(payload), func(tex texture.Texture, err error) {
		ch <- result{tex, err}
	})
	require.NoError(t, await(t, ch).err)
	assert.False(t, called.Load())
}

func TestClosedLoaderRejectsLoads(t *testing.T) {
	l := NewLoader()
	l.Close()
	l.Close()

	_, err := l.LoadSync(context.Background(), "x.png")
	assert.ErrorIs(t, err, ErrLoaderClosed)

	ch := make(chan result, 1)
	l.Load("x.png", func(tex texture.Texture, err error) { ch <- result{tex, err} })
	assert.ErrorIs(t, await(t, ch).err, ErrLoaderClosed)
}

func TestCloseStopsWorkers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), encodePNG(t, 2, 2, color.RGBA{A: 255}), 0o644))
	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		l := NewLoader(WithWorkers(4), WithBaseDir(dir))
		ch := make(chan result, 1)
		l.Load("a.png", func(tex texture.Texture, err error) { ch <- result{tex, err} })
		r := await(t, ch)
		require.NoError(t, r.err)
		r.tex.Dispose()
		l.Close()
	}

	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before }, 5*time.Second, 10*time.Millisecond,
		"goroutines before=%d now=%d", before, runtime.NumGoroutine())
}

func TestCloseCancelsInFlightLoads(t *testing.T) {
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-r.Context().Done()
	}))
	defer srv.Close()

	l := NewLoader(WithWorkers(1), WithHTTPClient(srv.Client()))
	var called atomic.Bool
	l.Load(srv.URL+"/slow.png", func(texture.Texture, error) { called.Store(true) })
	// queued behind the slow fetch; Close drains it without a callback
	l.Load(srv.URL+"/queued.png", func(texture.Texture, error) { called.Store(true) })
	<-started

	closed := make(chan struct{})
	go func() {
		l.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	assert.False(t, called.Load())
}

func TestMaxTextureSizeAndBytes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.png"), encodePNG(t, 64, 32, color.RGBA{255, 255, 255, 255}), 0o644))

	l := NewLoader(WithBaseDir(dir), WithMaxTextureSize(16))
	defer l.Close()
	tex, err := l.LoadSync(context.Background(), "big.png")
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 16, w)
	assert.Equal(t, 8, h)

	tiny := NewLoader(WithBaseDir(dir), WithMaxBytes(8))
	defer tiny.Close()
	_, err = tiny.LoadSync(context.Background(), "big.png")
	assert.ErrorContains(t, err, "exceeds")
}
