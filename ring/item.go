package ring

import "strings"

// Item is the content of one card.
type Item struct {
	// Image is the image reference handed to the texture loader. Required.
	Image string `yaml:"image" toml:"image" json:"image"`
	// Label is an optional caption shown by overlay hosts.
	Label string `yaml:"label,omitempty" toml:"label,omitempty" json:"label,omitempty"`
	// Link is an optional URL opened when the focused card is activated.
	Link string `yaml:"link,omitempty" toml:"link,omitempty" json:"link,omitempty"`
	// OpenInNewTab selects a new browsing context for Link. Nil means true.
	OpenInNewTab *bool `yaml:"openInNewTab,omitempty" toml:"openInNewTab,omitempty" json:"openInNewTab,omitempty"`
}

// NewTab reports whether the item's link opens in a new browsing context.
func (it Item) NewTab() bool {
	return it.OpenInNewTab == nil || *it.OpenInNewTab
}

// IsNavigable reports whether a link should trigger navigation. Empty links and the bare
// placeholder "#" never navigate.
//
// Parameters:
//   - link: the link to check
//
// Returns:
//   - bool: true if the link is a real destination
func IsNavigable(link string) bool {
	link = strings.TrimSpace(link)
	return link != "" && link != "#"
}

func sameItem(a, b Item) bool {
	return a.Image == b.Image &&
		a.Label == b.Label &&
		a.Link == b.Link &&
		a.NewTab() == b.NewTab()
}
