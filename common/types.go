// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/HugoSmits86/nativewebp"
	"github.com/cogentcore/webgpu/wgpu"
	_ "github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
)

// ErrNotAnImage is returned by DecodeImage when the payload is not a recognized image container.
var ErrNotAnImage = errors.New("payload is not an image")

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// DecodeImage sniffs and decodes an encoded image into straight RGBA pixels.
// PNG, JPEG, GIF, BMP, TGA and WebP payloads are supported. TGA has no magic number, so it is
// attempted whenever the content sniffer does not recognize the payload.
//
// Parameters:
//   - data: the encoded image bytes
//
// Returns:
//   - *image.RGBA: the decoded pixels, with bounds starting at the origin
//   - error: ErrNotAnImage when the sniffer recognizes a non-image type, or the decoder error
func DecodeImage(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode image: %w", ErrNotAnImage)
	}
	kind, _ := filetype.Match(data)
	if kind != filetype.Unknown && !filetype.IsImage(data) {
		return nil, fmt.Errorf("decode image (%s): %w", kind.MIME.Value, ErrNotAnImage)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to an origin-anchored RGBA image, returning it unchanged when it already is one.
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Staging converts an RGBA image into texture staging data ready for GPU upload.
func Staging(img *image.RGBA) TextureStagingData {
	b := img.Bounds()
	return TextureStagingData{
		Pixels: img.Pix,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
	}
}
