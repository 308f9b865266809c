package ring

// FocusState is the controller's position in the Idle / Hovering / Focused state machine.
type FocusState int

const (
	// Idle means no card is hovered or focused.
	Idle FocusState = iota
	// Hovering means the pointer is over a card and nothing is focused.
	Hovering
	// Focused means one card is presented in front of the camera and the rest are faded.
	Focused
)

func (s FocusState) String() string {
	switch s {
	case Hovering:
		return "hovering"
	case Focused:
		return "focused"
	default:
		return "idle"
	}
}

// State is a read-only snapshot of the controller's runtime state.
type State struct {
	Focus FocusState
	// Hovered and FocusedIndex are card indices, or -1.
	Hovered      int
	FocusedIndex int
	// Spin is the ring's rotation in radians, normalized to (-π, π].
	Spin float32
	// SpinTarget is the spin that centers the focused card; meaningful only while focused.
	SpinTarget float32
	// Coasting is the residual spin speed in radians per frame.
	Coasting float32
	Dragging bool
	Cards    int
	Alive    bool
}

// focusState derives the state machine value; focus wins over hover.
func focusState(hovered, focused int) FocusState {
	switch {
	case focused >= 0:
		return Focused
	case hovered >= 0:
		return Hovering
	default:
		return Idle
	}
}
