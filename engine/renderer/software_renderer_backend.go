package renderer

import (
	"errors"
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/engine/renderer/pipeline"
	"golang.org/x/image/draw"
)

// ErrInvalidSize is returned when a render target is configured with a non-positive size.
var ErrInvalidSize = errors.New("render target size must be positive")

// softwareRendererBackendImpl rasterizes frames on the CPU into an off-screen image.
// Frames are drawn at width*supersample by height*supersample and resolved down.
type softwareRendererBackendImpl struct {
	mu          *sync.Mutex
	width       int
	height      int
	supersample int
	fb          *frameBuffer
	last        *image.RGBA
}

var _ rendererBackend = &softwareRendererBackendImpl{}

func newSoftwareRendererBackend(sampleCount MSAASampleCount) *softwareRendererBackendImpl {
	ss := 1
	if sampleCount >= MSAA4x {
		ss = 2
	}
	return &softwareRendererBackendImpl{
		mu:          &sync.Mutex{},
		supersample: ss,
	}
}

func (b *softwareRendererBackendImpl) ConfigureSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSize
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	b.fb = newFrameBuffer(width*b.supersample, height*b.supersample)
	b.last = nil
	return nil
}

func (b *softwareRendererBackendImpl) SetPresentMode(PresentMode) {}

func (b *softwareRendererBackendImpl) RegisterRenderPipeline(pipeline.Pipeline) error {
	return nil
}

func (b *softwareRendererBackendImpl) RenderFrame(f *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fb == nil {
		return ErrInvalidSize
	}

	b.fb.clear(f.ClearColor)
	for _, d := range f.Draws {
		rasterizeDraw(b.fb, f, d)
	}

	img := b.fb.image()
	if b.supersample > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}
	b.last = f.Post.Apply(img)
	return nil
}

func (b *softwareRendererBackendImpl) Snapshot() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return nil
	}
	out := image.NewRGBA(b.last.Bounds())
	copy(out.Pix, b.last.Pix)
	return out
}

func (b *softwareRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fb = nil
	b.last = nil
}
