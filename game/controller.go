package game

import "github.com/pthm-cable/evergreen/components"

// Controller owns the scene's discrete state. Its zero value starts in chaos.
// Only the frame goroutine mutates it.
type Controller struct {
	state components.TreeState
}

// State returns the current state.
func (c *Controller) State() components.TreeState {
	return c.state
}

// Toggle flips the state unconditionally and returns the new state. There is
// no terminal state; toggling mid-transition retargets both engines.
func (c *Controller) Toggle() components.TreeState {
	c.state = c.state.Toggled()
	return c.state
}
