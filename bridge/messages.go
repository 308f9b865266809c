package bridge

import (
	"encoding/json"

	"github.com/Carmen-Shannon/oxy-ring/ring"
)

// Message types on the wire. Every frame is a JSON Envelope.
const (
	// TypeConfig carries a partial configuration from the host. Fields present in the data
	// replace the current values; absent fields are kept.
	TypeConfig = "config"
	// TypeState asks for, or carries, a runtime state snapshot.
	TypeState = "state"
	// TypeOverlay carries the overlay panel state to the host.
	TypeOverlay = "overlay"
	TypePing    = "ping"
	TypePong    = "pong"
	TypeError   = "error"
)

// Envelope wraps every message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// OverlayMessage is the wire form of ring.OverlayState.
type OverlayMessage struct {
	Visible bool         `json:"visible"`
	Mode    string       `json:"mode"`
	Index   int          `json:"index"`
	Item    *ring.Item   `json:"item,omitempty"`
	Anchor  ring.Anchor  `json:"anchor"`
	Padding ring.Padding `json:"padding"`
}

// StateMessage is the wire form of ring.State.
type StateMessage struct {
	Focus    string  `json:"focus"`
	Hovered  int     `json:"hovered"`
	Focused  int     `json:"focused"`
	Spin     float32 `json:"spin"`
	Coasting float32 `json:"coasting"`
	Dragging bool    `json:"dragging"`
	Cards    int     `json:"cards"`
	Alive    bool    `json:"alive"`
}

// ErrorMessage reports a rejected request.
type ErrorMessage struct {
	Message string `json:"message"`
}

func overlayMessage(st ring.OverlayState) OverlayMessage {
	msg := OverlayMessage{
		Visible: st.Visible,
		Mode:    st.Mode.String(),
		Index:   st.Index,
		Anchor:  st.Anchor,
		Padding: st.Padding,
	}
	if st.Visible {
		item := st.Item
		msg.Item = &item
	}
	return msg
}

func stateMessage(st ring.State) StateMessage {
	return StateMessage{
		Focus:    st.Focus.String(),
		Hovered:  st.Hovered,
		Focused:  st.FocusedIndex,
		Spin:     st.Spin,
		Coasting: st.Coasting,
		Dragging: st.Dragging,
		Cards:    st.Cards,
		Alive:    st.Alive,
	}
}

func encode(kind string, data any) ([]byte, error) {
	env := Envelope{Type: kind}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}
