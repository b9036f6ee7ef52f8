package workflow

// State represents a lifecycle state of a page fetch or a page modal
type State string

// Fetch lifecycle: idle → loading → (error | success)
const (
	StateIdle    State = "IDLE"
	StateLoading State = "LOADING"
	StateError   State = "ERROR"
	StateSuccess State = "SUCCESS"
)

// Modal lifecycle: closed → open → submitting → closed
const (
	StateClosed     State = "CLOSED"
	StateOpen       State = "OPEN"
	StateSubmitting State = "SUBMITTING"
)

var fetchStates = []State{StateIdle, StateLoading, StateError, StateSuccess}

var modalStates = []State{StateClosed, StateOpen, StateSubmitting}

var terminalStates = map[State]bool{
	StateError:   true,
	StateSuccess: true,
}

// IsTerminal returns true if no further fetch transition is allowed.
// A failed fetch is terminal: the user must reload.
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
