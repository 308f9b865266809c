package ring

import "strings"

// Anchor is a point on the nine-point grid of the container, e.g. "top-left" or "center".
type Anchor string

const (
	AnchorTopLeft      Anchor = "top-left"
	AnchorTopCenter    Anchor = "top-center"
	AnchorTopRight     Anchor = "top-right"
	AnchorCenterLeft   Anchor = "center-left"
	AnchorCenter       Anchor = "center"
	AnchorCenterRight  Anchor = "center-right"
	AnchorBottomLeft   Anchor = "bottom-left"
	AnchorBottomCenter Anchor = "bottom-center"
	AnchorBottomRight  Anchor = "bottom-right"
)

// Valid reports whether a is one of the nine grid points.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorTopLeft, AnchorTopCenter, AnchorTopRight,
		AnchorCenterLeft, AnchorCenter, AnchorCenterRight,
		AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight:
		return true
	}
	return false
}

// Place computes the top-left corner of a panel pinned to the anchor inside a container,
// keeping the padding box clear.
//
// Parameters:
//   - containerW, containerH: the container size in pixels
//   - panelW, panelH: the panel size in pixels
//   - pad: the inset from each container edge
//
// Returns:
//   - float32: the panel's left edge
//   - float32: the panel's top edge
func (a Anchor) Place(containerW, containerH, panelW, panelH float32, pad Padding) (float32, float32) {
	vertical, horizontal, ok := strings.Cut(string(a), "-")
	if !ok {
		vertical, horizontal = "center", "center"
	}

	var x, y float32
	switch horizontal {
	case "left":
		x = pad.Left
	case "right":
		x = containerW - pad.Right - panelW
	default:
		x = pad.Left + (containerW-pad.Left-pad.Right-panelW)/2
	}
	switch vertical {
	case "top":
		y = pad.Top
	case "bottom":
		y = containerH - pad.Bottom - panelH
	default:
		y = pad.Top + (containerH-pad.Top-pad.Bottom-panelH)/2
	}
	return x, y
}

// OverlayMode says why the overlay is showing.
type OverlayMode int

const (
	OverlayHidden OverlayMode = iota
	OverlayHover
	OverlayFocus
	OverlayPreview
)

func (m OverlayMode) String() string {
	switch m {
	case OverlayHover:
		return "hover"
	case OverlayFocus:
		return "focus"
	case OverlayPreview:
		return "preview"
	default:
		return "hidden"
	}
}

// OverlayState is what a host needs to draw the label panel. The controller emits it whenever
// it changes; hosts own the actual drawing.
type OverlayState struct {
	Visible bool
	Mode    OverlayMode
	// Index is the item shown, or -1.
	Index   int
	Item    Item
	Anchor  Anchor
	Padding Padding
}

func (s OverlayState) equal(o OverlayState) bool {
	return s.Visible == o.Visible &&
		s.Mode == o.Mode &&
		s.Index == o.Index &&
		sameItem(s.Item, o.Item) &&
		s.Anchor == o.Anchor &&
		s.Padding == o.Padding
}

// overlayFor derives the overlay state from the focus state. Focus wins over hover and preview
// applies only when nothing else is showing.
func overlayFor(cfg OverlayConfig, items []Item, hovered, focused int) OverlayState {
	st := OverlayState{Index: -1, Anchor: cfg.Anchor, Padding: cfg.Padding}
	if !cfg.Enabled {
		return st
	}
	switch {
	case focused >= 0 && focused < len(items):
		st.Mode, st.Index = OverlayFocus, focused
	case hovered >= 0 && hovered < len(items):
		st.Mode, st.Index = OverlayHover, hovered
	case cfg.Preview && len(items) > 0:
		st.Mode, st.Index = OverlayPreview, 0
	default:
		return st
	}
	st.Visible = true
	st.Item = items[st.Index]
	return st
}
