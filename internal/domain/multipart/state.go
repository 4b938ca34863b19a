package multipart

import "errors"

// State is the lifecycle state of a multipart session.
type State string

const (
	// Non-terminal states
	StateInitiated  State = "INITIATED"  // Backend issued a session id
	StateUploading  State = "UPLOADING"  // At least one part in flight or committed
	StateCompleting State = "COMPLETING" // Completion request sent
	StateAborting   State = "ABORTING"   // Abort request sent

	// Terminal states (no further transitions allowed)
	StateCompleted State = "COMPLETED" // Object is visible under the key
	StateAborted   State = "ABORTED"   // Nothing is visible under the key
)

// ErrInvalidTransition is returned when a state transition is not allowed.
var ErrInvalidTransition = errors.New("invalid multipart state transition")

// ValidTransitions defines allowed state transitions.
var ValidTransitions = map[State][]State{
	StateInitiated:  {StateUploading, StateAborting},
	StateUploading:  {StateCompleting, StateAborting},
	StateCompleting: {StateCompleted, StateAborting},
	StateAborting:   {StateAborted},
	StateCompleted:  {},
	StateAborted:    {},
}

// IsTerminal returns true if the session can no longer change.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateAborted
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current state to target state is valid.
func (s State) CanTransitionTo(target State) bool {
	for _, t := range ValidTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target state and returns error if invalid.
func (s State) TransitionTo(target State) (State, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}
