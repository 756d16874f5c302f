package transition

import (
	"errors"
	"fmt"

	"itemseek-backend/internal/model"
)

var (
	// ErrTerminalStatus is returned when advancing a record that has no further step.
	ErrTerminalStatus = errors.New("status is terminal")
	// ErrUnknownStatus is returned for a status outside the entity's table.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrBackwardTransition is returned when a set would move a monotonic status backwards.
	ErrBackwardTransition = errors.New("backward status transition")
	// ErrSkippedStep is returned when a set would jump over a step of a linear chain.
	ErrSkippedStep = errors.New("status transition skips a step")
)

// Chain is a linear status progression; the last element is terminal.
type Chain[S ~string] struct {
	steps []S
}

// NewChain builds a chain from its ordered steps.
func NewChain[S ~string](steps ...S) Chain[S] {
	return Chain[S]{steps: steps}
}

// Steps returns the ordered statuses of the chain.
func (c Chain[S]) Steps() []S {
	return append([]S(nil), c.steps...)
}

func (c Chain[S]) rank(s S) (int, bool) {
	for i, step := range c.steps {
		if step == s {
			return i, true
		}
	}
	return 0, false
}

// Valid reports whether s belongs to the chain.
func (c Chain[S]) Valid(s S) bool {
	_, ok := c.rank(s)
	return ok
}

// Terminal reports whether s is the final step.
func (c Chain[S]) Terminal(s S) bool {
	r, ok := c.rank(s)
	return ok && r == len(c.steps)-1
}

// Next returns the single forward step from cur.
func (c Chain[S]) Next(cur S) (S, error) {
	r, ok := c.rank(cur)
	if !ok {
		return cur, fmt.Errorf("%w: %q", ErrUnknownStatus, cur)
	}
	if r == len(c.steps)-1 {
		return cur, fmt.Errorf("%w: %q", ErrTerminalStatus, cur)
	}
	return c.steps[r+1], nil
}

// CheckForward accepts target when it is cur or any later step.
func (c Chain[S]) CheckForward(cur, target S) error {
	from, ok := c.rank(cur)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, cur)
	}
	to, ok := c.rank(target)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	if to < from {
		return fmt.Errorf("%w: %q -> %q", ErrBackwardTransition, cur, target)
	}
	return nil
}

// CheckStep accepts target when it is cur or exactly the next step.
func (c Chain[S]) CheckStep(cur, target S) error {
	if err := c.CheckForward(cur, target); err != nil {
		return err
	}
	from, _ := c.rank(cur)
	to, _ := c.rank(target)
	if to > from+1 {
		return fmt.Errorf("%w: %q -> %q", ErrSkippedStep, cur, target)
	}
	return nil
}

var (
	// TaskChain is pending -> in-progress -> completed.
	TaskChain = NewChain(model.TaskPending, model.TaskInProgress, model.TaskCompleted)
	// LaundryChain is dirty -> washing -> drying -> clean -> delivered.
	LaundryChain = NewChain(
		model.LaundryDirty,
		model.LaundryWashing,
		model.LaundryDrying,
		model.LaundryClean,
		model.LaundryDelivered,
	)
)

// AdvanceTask returns the next task status.
func AdvanceTask(cur model.TaskStatus) (model.TaskStatus, error) {
	return TaskChain.Next(cur)
}

// SetTask validates a direct task status change. Tasks never move backwards.
func SetTask(cur, target model.TaskStatus) error {
	return TaskChain.CheckForward(cur, target)
}

// AdvanceLaundry returns the next laundry status.
func AdvanceLaundry(cur model.LaundryStatus) (model.LaundryStatus, error) {
	return LaundryChain.Next(cur)
}

// SetLaundry validates a direct laundry status change: same status or the next step only.
func SetLaundry(cur, target model.LaundryStatus) error {
	return LaundryChain.CheckStep(cur, target)
}

// ToggleLocation flips available to occupied; every other status goes back to available.
func ToggleLocation(cur model.LocationStatus) (model.LocationStatus, error) {
	if !cur.Valid() {
		return cur, fmt.Errorf("%w: %q", ErrUnknownStatus, cur)
	}
	if cur == model.LocationAvailable {
		return model.LocationOccupied, nil
	}
	return model.LocationAvailable, nil
}

// SetLocation validates a direct location status change. Any known status is reachable.
func SetLocation(target model.LocationStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	return nil
}

// ToggleRoom flips clean to dirty; every other status goes to clean.
func ToggleRoom(cur model.RoomStatus) (model.RoomStatus, error) {
	if !cur.Valid() {
		return cur, fmt.Errorf("%w: %q", ErrUnknownStatus, cur)
	}
	if cur == model.RoomClean {
		return model.RoomDirty, nil
	}
	return model.RoomClean, nil
}

// SetRoom validates a direct room status change. Any known status is reachable.
func SetRoom(target model.RoomStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	return nil
}
