package ring

import (
	"log"

	"github.com/pkg/browser"
)

// Navigator opens item links on behalf of the controller.
type Navigator interface {
	// Open navigates to url.
	//
	// Parameters:
	//   - url: the destination
	//   - newTab: true for a new browsing context, false to reuse the current one
	//
	// Returns:
	//   - error: an error if the host could not navigate
	Open(url string, newTab bool) error
}

// browserNavigator hands links to the system browser. A desktop host has no current browsing
// context to reuse, so both modes open the URL the same way and the browser decides.
type browserNavigator struct{}

var _ Navigator = browserNavigator{}

func (browserNavigator) Open(url string, newTab bool) error {
	log.Printf("[ring] opening %s (new tab: %t)", url, newTab)
	return browser.OpenURL(url)
}
