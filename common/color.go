package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a CSS-style color string into linear RGBA components in [0, 1].
// Accepted forms are "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r, g, b)", "rgba(r, g, b, a)" and "transparent".
//
// Parameters:
//   - s: the color string, surrounding whitespace and case are ignored
//
// Returns:
//   - mgl32.Vec4: the parsed color as {r, g, b, a}
//   - error: error if the string is not a recognized color
func ParseColor(s string) (mgl32.Vec4, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "transparent":
		return mgl32.Vec4{0, 0, 0, 0}, nil
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFuncColor(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFuncColor(s[4:len(s)-1], false)
	}
	return mgl32.Vec4{}, fmt.Errorf("unrecognized color %q", s)
}

// MustParseColor is ParseColor for package-level constants. It panics on malformed input.
func MustParseColor(s string) mgl32.Vec4 {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHexColor(hex string) (mgl32.Vec4, error) {
	alpha := float32(1)
	switch len(hex) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return mgl32.Vec4{}, fmt.Errorf("invalid hex color #%s: %w", hex, err)
		}
		alpha = float32(a) / 255
		hex = hex[:6]
	default:
		return mgl32.Vec4{}, fmt.Errorf("invalid hex color #%s", hex)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return mgl32.Vec4{}, fmt.Errorf("invalid hex color #%s: %w", hex, err)
	}
	return mgl32.Vec4{float32(c.R), float32(c.G), float32(c.B), alpha}, nil
}

func parseFuncColor(body string, withAlpha bool) (mgl32.Vec4, error) {
	parts := strings.Split(body, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return mgl32.Vec4{}, fmt.Errorf("expected %d color components, got %d", want, len(parts))
	}
	out := mgl32.Vec4{0, 0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return mgl32.Vec4{}, fmt.Errorf("invalid color component %q: %w", p, err)
		}
		if i < 3 {
			out[i] = mgl32.Clamp(float32(f)/255, 0, 1)
		} else {
			out[i] = mgl32.Clamp(float32(f), 0, 1)
		}
	}
	return out, nil
}

// ToNRGBA converts a color vector to 8-bit straight-alpha components.
func ToNRGBA(c mgl32.Vec4) [4]uint8 {
	var out [4]uint8
	for i := range out {
		out[i] = uint8(mgl32.Clamp(c[i], 0, 1)*255 + 0.5)
	}
	return out
}
