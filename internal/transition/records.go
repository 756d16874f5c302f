package transition

import (
	"time"

	"itemseek-backend/internal/model"
)

// The functions below apply a rule to a whole record. now is passed in so the
// gateway and a view replaying the same action produce the same record shape.

// SetLocationStatus applies a direct status change to l.
func SetLocationStatus(l *model.Location, target model.LocationStatus) error {
	if err := SetLocation(target); err != nil {
		return err
	}
	l.Status = target
	return nil
}

// AdvanceLocationStatus toggles l.
func AdvanceLocationStatus(l *model.Location) error {
	next, err := ToggleLocation(l.Status)
	if err != nil {
		return err
	}
	l.Status = next
	return nil
}

// SetRoomStatus applies a direct status change to r. Every change to clean,
// including re-marking a clean room, stamps LastCleaned with cleanedAt, or
// now when cleanedAt is nil.
func SetRoomStatus(r *model.Room, target model.RoomStatus, cleanedAt *time.Time, now time.Time) error {
	if err := SetRoom(target); err != nil {
		return err
	}
	if target == model.RoomClean {
		ts := now
		if cleanedAt != nil {
			ts = *cleanedAt
		}
		r.LastCleaned = &ts
	}
	r.Status = target
	return nil
}

// AdvanceRoomStatus toggles r between clean and dirty.
func AdvanceRoomStatus(r *model.Room, now time.Time) error {
	next, err := ToggleRoom(r.Status)
	if err != nil {
		return err
	}
	return SetRoomStatus(r, next, nil, now)
}

// SetTaskStatus applies a direct status change to t. Entering completed stamps CompletedAt.
func SetTaskStatus(t *model.Task, target model.TaskStatus, now time.Time) error {
	if err := SetTask(t.Status, target); err != nil {
		return err
	}
	if target == model.TaskCompleted && t.Status != model.TaskCompleted {
		ts := now
		t.CompletedAt = &ts
	}
	t.Status = target
	return nil
}

// AdvanceTaskStatus moves t one step forward.
func AdvanceTaskStatus(t *model.Task, now time.Time) error {
	next, err := AdvanceTask(t.Status)
	if err != nil {
		return err
	}
	return SetTaskStatus(t, next, now)
}

// SetLaundryStatus applies a direct status change to l.
func SetLaundryStatus(l *model.LaundryItem, target model.LaundryStatus) error {
	if err := SetLaundry(l.Status, target); err != nil {
		return err
	}
	l.Status = target
	return nil
}

// AdvanceLaundryStatus moves l one step forward.
func AdvanceLaundryStatus(l *model.LaundryItem) error {
	next, err := AdvanceLaundry(l.Status)
	if err != nil {
		return err
	}
	l.Status = next
	return nil
}
