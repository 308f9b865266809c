package texture

import (
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-ring/common"
	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// WrapMode controls how texture coordinates outside [0, 1] are resolved.
type WrapMode int

const (
	// WrapClampToEdge repeats the outermost texels.
	WrapClampToEdge WrapMode = iota
	// WrapRepeat tiles the image.
	WrapRepeat
	// WrapClampToBorder returns transparent black outside the image.
	WrapClampToBorder
)

// texture is the implementation of the Texture interface.
type texture struct {
	common.DisposeTracker

	mu      *sync.Mutex
	name    string
	img     *image.RGBA
	maxSize int
	repeat  mgl32.Vec2
	offset  mgl32.Vec2
	wrap    WrapMode
	version uint64
}

// Texture defines the interface for a CPU-resident RGBA image with UV mapping parameters.
// Renderer backends upload it on first use and re-upload whenever Version changes.
type Texture interface {
	common.Disposable

	// Name retrieves the texture identifier, usually its source path.
	//
	// Returns:
	//   - string: the name of the texture
	Name() string

	// Image retrieves the decoded pixels.
	//
	// Returns:
	//   - *image.RGBA: the image, shared with the texture and not to be modified
	Image() *image.RGBA

	// Size returns the pixel dimensions of the image.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	Size() (int, int)

	// Aspect returns width divided by height, or 1 for an empty image.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Repeat retrieves the UV scale applied before sampling.
	//
	// Returns:
	//   - mgl32.Vec2: the UV scale
	Repeat() mgl32.Vec2

	// Offset retrieves the UV translation applied after scaling.
	//
	// Returns:
	//   - mgl32.Vec2: the UV offset
	Offset() mgl32.Vec2

	// Wrap retrieves how out-of-range coordinates are resolved.
	//
	// Returns:
	//   - WrapMode: the wrap mode
	Wrap() WrapMode

	// SetMapping replaces the UV transform and wrap mode in one step.
	//
	// Parameters:
	//   - repeat: the UV scale
	//   - offset: the UV translation
	//   - wrap: the wrap mode
	SetMapping(repeat, offset mgl32.Vec2, wrap WrapMode)

	// Version increases every time the mapping changes.
	//
	// Returns:
	//   - uint64: the current version
	Version() uint64

	// Sample returns the bilinearly filtered color at a mesh UV after applying repeat, offset and wrap.
	//
	// Parameters:
	//   - u, v: the mesh texture coordinate, origin top-left
	//
	// Returns:
	//   - mgl32.Vec4: straight-alpha RGBA in [0, 1]
	Sample(u, v float32) mgl32.Vec4

	// Staging returns the pixels in upload form.
	//
	// Returns:
	//   - common.TextureStagingData: the staging data
	Staging() common.TextureStagingData

	// SamplerData returns the sampler configuration matching the wrap mode.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler configuration
	SamplerData() common.SamplerStagingData
}

var _ Texture = &texture{}

// NewTexture wraps a decoded image. When WithMaxSize is given and the image exceeds it, the
// image is downscaled preserving aspect ratio.
//
// Parameters:
//   - img: the decoded image
//   - options: variadic list of TextureBuilderOption functions to configure the texture
//
// Returns:
//   - Texture: a new Texture instance
func NewTexture(img image.Image, options ...TextureBuilderOption) Texture {
	t := &texture{
		mu:     &sync.Mutex{},
		repeat: mgl32.Vec2{1, 1},
		wrap:   WrapClampToEdge,
	}
	for _, opt := range options {
		opt(t)
	}
	if img == nil {
		img = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	b := img.Bounds()
	if w, h := b.Dx(), b.Dy(); t.maxSize > 0 && (w > t.maxSize || h > t.maxSize) {
		scale := float32(t.maxSize) / float32(max(w, h))
		nw := max(1, int(float32(w)*scale))
		nh := max(1, int(float32(h)*scale))
		img = transform.Resize(img, nw, nh, transform.Linear)
	}
	t.img = common.ToRGBA(img)
	return t
}

func (t *texture) Name() string {
	return t.name
}

func (t *texture) Image() *image.RGBA {
	return t.img
}

func (t *texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *texture) Aspect() float32 {
	w, h := t.Size()
	if w == 0 || h == 0 {
		return 1
	}
	return float32(w) / float32(h)
}

func (t *texture) Repeat() mgl32.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.repeat
}

func (t *texture) Offset() mgl32.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

func (t *texture) Wrap() WrapMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wrap
}

func (t *texture) SetMapping(repeat, offset mgl32.Vec2, wrap WrapMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.repeat = repeat
	t.offset = offset
	t.wrap = wrap
	t.version++
}

func (t *texture) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

func (t *texture) Sample(u, v float32) mgl32.Vec4 {
	t.mu.Lock()
	repeat, offset, wrap := t.repeat, t.offset, t.wrap
	t.mu.Unlock()

	u = u*repeat[0] + offset[0]
	v = v*repeat[1] + offset[1]
	if wrap == WrapClampToBorder && (u < 0 || u > 1 || v < 0 || v > 1) {
		return mgl32.Vec4{}
	}

	w, h := t.Size()
	if w == 0 || h == 0 {
		return mgl32.Vec4{}
	}
	x := u*float32(w) - 0.5
	y := v*float32(h) - 0.5
	x0, y0 := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0, y-y0

	c00 := t.texel(int(x0), int(y0), w, h, wrap)
	c10 := t.texel(int(x0)+1, int(y0), w, h, wrap)
	c01 := t.texel(int(x0), int(y0)+1, w, h, wrap)
	c11 := t.texel(int(x0)+1, int(y0)+1, w, h, wrap)
	top := c00.Mul(1 - fx).Add(c10.Mul(fx))
	bottom := c01.Mul(1 - fx).Add(c11.Mul(fx))
	return top.Mul(1 - fy).Add(bottom.Mul(fy))
}

func (t *texture) texel(x, y, w, h int, wrap WrapMode) mgl32.Vec4 {
	if wrap == WrapRepeat {
		x = ((x % w) + w) % w
		y = ((y % h) + h) % h
	} else {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
	}
	i := t.img.PixOffset(x, y)
	p := t.img.Pix[i : i+4 : i+4]
	a := float32(p[3]) / 255
	if a == 0 {
		return mgl32.Vec4{}
	}
	// image.RGBA stores premultiplied alpha.
	return mgl32.Vec4{float32(p[0]) / 255 / a, float32(p[1]) / 255 / a, float32(p[2]) / 255 / a, a}
}

func (t *texture) Staging() common.TextureStagingData {
	return common.Staging(t.img)
}

func (t *texture) SamplerData() common.SamplerStagingData {
	mode := wgpu.AddressModeClampToEdge
	if t.Wrap() == WrapRepeat {
		mode = wgpu.AddressModeRepeat
	}
	return common.SamplerStagingData{
		AddressModeU:  mode,
		AddressModeV:  mode,
		AddressModeW:  mode,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}
