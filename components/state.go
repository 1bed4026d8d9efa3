package components

// TreeState is the discrete scene state both morph engines read every frame.
type TreeState uint8

const (
	StateChaos  TreeState = iota // scattered cloud
	StateFormed                  // assembled tree
)

// String returns the display name of the state.
func (s TreeState) String() string {
	if s == StateFormed {
		return "FORMED"
	}
	return "CHAOS"
}

// Toggled returns the other state.
func (s TreeState) Toggled() TreeState {
	if s == StateFormed {
		return StateChaos
	}
	return StateFormed
}

// Target returns the progress value the state pulls towards: 1 when formed, 0 otherwise.
func (s TreeState) Target() float32 {
	if s == StateFormed {
		return 1
	}
	return 0
}
