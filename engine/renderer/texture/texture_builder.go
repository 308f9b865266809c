package texture

// TextureBuilderOption is a function that configures a texture instance during construction.
type TextureBuilderOption func(*texture)

// WithName is an option builder that sets the name of the texture.
//
// Parameters:
//   - name: the identifier for the texture
//
// Returns:
//   - TextureBuilderOption: a function that applies the name option to a texture
func WithName(name string) TextureBuilderOption {
	return func(t *texture) {
		t.name = name
	}
}

// WithMaxSize is an option builder that caps the longest image side, downscaling larger images.
//
// Parameters:
//   - size: the maximum side length in pixels, 0 for no limit
//
// Returns:
//   - TextureBuilderOption: a function that applies the max size option to a texture
func WithMaxSize(size int) TextureBuilderOption {
	return func(t *texture) {
		t.maxSize = size
	}
}

// WithWrap is an option builder that sets the initial wrap mode.
//
// Parameters:
//   - wrap: the wrap mode
//
// Returns:
//   - TextureBuilderOption: a function that applies the wrap option to a texture
func WithWrap(wrap WrapMode) TextureBuilderOption {
	return func(t *texture) {
		t.wrap = wrap
	}
}
