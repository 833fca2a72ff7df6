// Package workflow holds the authoritative state of the in-progress
// delivery session. State moves only through Dispatch with one of the
// closed action set; the reducer itself is pure and synchronous.
package workflow

import (
	"fmt"
	"sync"
	"time"

	"servicesync/models"
)

// State is the full workflow snapshot handed to callers.
type State struct {
	CurrentStep models.WorkflowStep  `json:"currentStep"`
	SessionData models.SessionRecord `json:"sessionData"`
	IsLoading   bool                 `json:"isLoading"`
	Error       string               `json:"error,omitempty"`
}

func (s State) clone() State {
	out := s
	out.SessionData = s.SessionData.Clone()
	return out
}

// DefaultInitialState builds the canonical initial state for a hostess
// starting a shift at the given instant.
func DefaultInitialState(shiftTime time.Time) State {
	return State{
		CurrentStep: models.StepLogin,
		SessionData: models.SessionRecord{
			Status:     models.SessionActive,
			ShiftTime:  shiftTime,
			Timestamps: map[models.TimestampKey]time.Time{},
			MealData: models.MealData{
				Type:  models.MealBreakfast,
				Count: 12,
			},
		},
	}
}

// Container is the single shared mutable cell holding workflow state.
// It is constructed explicitly and passed to its consumers; there is no
// ambient singleton. Dispatches are serialized by the mutex so concurrent
// callers interleave only between actions, never mid-action.
type Container struct {
	mu      sync.Mutex
	state   State
	initial State
}

// NewContainer creates a container whose ResetSession target is initial.
func NewContainer(initial State) *Container {
	return &Container{
		state:   initial.clone(),
		initial: initial.clone(),
	}
}

// State returns a copy of the current state.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Dispatch applies one action and returns the resulting state.
func (c *Container) Dispatch(action Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, c.initial, action)
	return c.state.clone()
}

// Reduce is the pure transition function over the closed action set.
// Actions violating a session invariant are ignored and surfaced through
// the Error field instead of corrupting SessionData.
func Reduce(state State, initial State, action Action) State {
	switch a := action.(type) {
	case SetStep:
		next := state.clone()
		next.CurrentStep = a.Step
		return next

	case UpdateSession:
		next := state.clone()
		a.Patch.apply(&next.SessionData)
		return next

	case AddTimestamp:
		if !models.ValidTimestampKey(a.Key) {
			next := state.clone()
			next.Error = fmt.Sprintf("unknown timestamp key %q", a.Key)
			return next
		}
		if _, exists := state.SessionData.Timestamps[a.Key]; exists {
			next := state.clone()
			next.Error = fmt.Sprintf("timestamp %q already recorded", a.Key)
			return next
		}
		next := state.clone()
		next.SessionData.Timestamps[a.Key] = a.At
		next.SessionData.Performance = next.SessionData.DerivePerformance()
		return next

	case UpdateMealData:
		meal := state.SessionData.MealData
		a.Patch.apply(&meal)
		if meal.Count <= 0 || meal.Served < 0 || meal.Served > meal.Count {
			next := state.clone()
			next.Error = fmt.Sprintf("invalid meal data: %d served of %d", meal.Served, meal.Count)
			return next
		}
		next := state.clone()
		next.SessionData.MealData = meal
		return next

	case SetLoading:
		next := state.clone()
		next.IsLoading = a.Loading
		return next

	case SetError:
		next := state.clone()
		next.Error = a.Err
		return next

	case ResetSession:
		return initial.clone()
	}
	return state
}
