package view

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"itemseek-backend/internal/client"
	"itemseek-backend/internal/model"
	"itemseek-backend/internal/transition"
)

type (
	Items     = View[model.Item, *model.Item]
	Locations = View[model.Location, *model.Location]
	Tasks     = View[model.Task, *model.Task]
	Rooms     = View[model.Room, *model.Room]
	Laundry   = View[model.LaundryItem, *model.LaundryItem]
)

// --- Items ---

func NewItems(s *client.Session, f client.ItemFilter, log *logrus.Logger) *Items {
	fetch := func(ctx context.Context) ([]model.Item, error) { return s.ListItems(ctx, f) }
	return New[model.Item, *model.Item]("items", fetch, sameItem, log)
}

func sameItem(server, local model.Item) bool {
	return server.Quantity == local.Quantity && server.Status == local.Status
}

// AdjustItem changes an item's quantity by delta. The local replay uses the
// same policy as the gateway so a confirmed change matches the guess.
func AdjustItem(s *client.Session, policy transition.QuantityPolicy, id string, delta int, reason string) Action[model.Item] {
	return Action[model.Item]{
		Name: "adjust",
		Remote: func(ctx context.Context) (*model.Item, error) {
			return s.AdjustQuantity(ctx, id, delta, reason)
		},
		Local: func(item *model.Item) error {
			if _, err := policy.ApplyToItem(item, delta); err != nil {
				return err
			}
			item.LastUpdated = time.Now().UTC()
			return nil
		},
	}
}

// --- Locations ---

func NewLocations(s *client.Session, locationType string, log *logrus.Logger) *Locations {
	fetch := func(ctx context.Context) ([]model.Location, error) { return s.ListLocations(ctx, locationType) }
	return New[model.Location, *model.Location]("locations", fetch, func(server, local model.Location) bool {
		return server.Status == local.Status
	}, log)
}

func ToggleLocation(s *client.Session, id string) Action[model.Location] {
	return Action[model.Location]{
		Name:   "toggle",
		Remote: func(ctx context.Context) (*model.Location, error) { return s.AdvanceLocation(ctx, id) },
		Local:  transition.AdvanceLocationStatus,
	}
}

func SetLocation(s *client.Session, id string, status model.LocationStatus) Action[model.Location] {
	return Action[model.Location]{
		Name:   "set-status",
		Remote: func(ctx context.Context) (*model.Location, error) { return s.SetLocationStatus(ctx, id, status) },
		Local:  func(l *model.Location) error { return transition.SetLocationStatus(l, status) },
	}
}

// --- Tasks ---

func NewTasks(s *client.Session, status model.TaskStatus, log *logrus.Logger) *Tasks {
	fetch := func(ctx context.Context) ([]model.Task, error) { return s.ListTasks(ctx, status) }
	return New[model.Task, *model.Task]("tasks", fetch, func(server, local model.Task) bool {
		return server.Status == local.Status
	}, log)
}

func AdvanceTask(s *client.Session, id string) Action[model.Task] {
	return Action[model.Task]{
		Name:   "advance",
		Remote: func(ctx context.Context) (*model.Task, error) { return s.AdvanceTask(ctx, id) },
		Local:  func(t *model.Task) error { return transition.AdvanceTaskStatus(t, time.Now().UTC()) },
	}
}

func SetTask(s *client.Session, id string, status model.TaskStatus) Action[model.Task] {
	return Action[model.Task]{
		Name:   "set-status",
		Remote: func(ctx context.Context) (*model.Task, error) { return s.SetTaskStatus(ctx, id, status) },
		Local:  func(t *model.Task) error { return transition.SetTaskStatus(t, status, time.Now().UTC()) },
	}
}

// --- Rooms ---

// NewRooms lists the rooms on floor, or every room when floor is 0.
func NewRooms(s *client.Session, floor int, log *logrus.Logger) *Rooms {
	fetch := func(ctx context.Context) ([]model.Room, error) { return s.ListRooms(ctx, floor) }
	return New[model.Room, *model.Room]("rooms", fetch, func(server, local model.Room) bool {
		return server.Status == local.Status
	}, log)
}

func ToggleRoom(s *client.Session, id string) Action[model.Room] {
	return Action[model.Room]{
		Name:   "toggle",
		Remote: func(ctx context.Context) (*model.Room, error) { return s.AdvanceRoom(ctx, id) },
		Local:  func(r *model.Room) error { return transition.AdvanceRoomStatus(r, time.Now().UTC()) },
	}
}

func SetRoom(s *client.Session, id string, status model.RoomStatus) Action[model.Room] {
	return Action[model.Room]{
		Name:   "set-status",
		Remote: func(ctx context.Context) (*model.Room, error) { return s.SetRoomStatus(ctx, id, status) },
		Local:  func(r *model.Room) error { return transition.SetRoomStatus(r, status, nil, time.Now().UTC()) },
	}
}

// --- Laundry ---

func NewLaundry(s *client.Session, status model.LaundryStatus, log *logrus.Logger) *Laundry {
	fetch := func(ctx context.Context) ([]model.LaundryItem, error) { return s.ListLaundry(ctx, status) }
	return New[model.LaundryItem, *model.LaundryItem]("laundry", fetch, func(server, local model.LaundryItem) bool {
		return server.Status == local.Status
	}, log)
}

func AdvanceLaundry(s *client.Session, id string) Action[model.LaundryItem] {
	return Action[model.LaundryItem]{
		Name:   "advance",
		Remote: func(ctx context.Context) (*model.LaundryItem, error) { return s.AdvanceLaundry(ctx, id) },
		Local:  transition.AdvanceLaundryStatus,
	}
}

func SetLaundry(s *client.Session, id string, status model.LaundryStatus) Action[model.LaundryItem] {
	return Action[model.LaundryItem]{
		Name:   "set-status",
		Remote: func(ctx context.Context) (*model.LaundryItem, error) { return s.SetLaundryStatus(ctx, id, status) },
		Local:  func(l *model.LaundryItem) error { return transition.SetLaundryStatus(l, status) },
	}
}
