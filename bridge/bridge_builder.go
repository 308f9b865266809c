package bridge

import (
	"net/http"
	"time"
)

// BridgeBuilderOption is a functional option for configuring a Bridge.
// Use the With* functions to create options that are applied directly to the bridge instance.
type BridgeBuilderOption func(*bridge)

// WithCheckOrigin sets the websocket origin check. The default accepts same-origin requests only.
//
// Parameters:
//   - fn: returns true to accept the request
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithCheckOrigin(fn func(r *http.Request) bool) BridgeBuilderOption {
	return func(b *bridge) {
		b.upgrader.CheckOrigin = fn
	}
}

// WithWriteTimeout bounds every write to a client.
//
// Parameters:
//   - d: the timeout, 0 for none
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithWriteTimeout(d time.Duration) BridgeBuilderOption {
	return func(b *bridge) {
		b.writeTimeout = d
	}
}

// WithPingInterval sets how often idle clients are pinged.
//
// Parameters:
//   - d: the interval, 0 to disable pings
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithPingInterval(d time.Duration) BridgeBuilderOption {
	return func(b *bridge) {
		b.pingInterval = d
	}
}

// WithReadLimit caps the size of a single incoming message.
//
// Parameters:
//   - n: the limit in bytes
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithReadLimit(n int64) BridgeBuilderOption {
	return func(b *bridge) {
		if n > 0 {
			b.readLimit = n
		}
	}
}
