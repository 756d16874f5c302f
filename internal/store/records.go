package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"itemseek-backend/internal/model"
	"itemseek-backend/internal/parse"
)

// --- Locations ---

func (s *gormStore) ListLocations(ctx context.Context, f LocationFilter) ([]model.Location, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	locations := []model.Location{}
	if err := q.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (s *gormStore) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	return getRecord[model.Location](ctx, s.db, id)
}

func (s *gormStore) CreateLocation(ctx context.Context, l *model.Location) error {
	if l.ID == "" {
		l.ID = newID()
	}
	initVersion(&l.Versioned)
	return createRecord(ctx, s.db, l)
}

func (s *gormStore) UpdateLocation(ctx context.Context, id string, mutate func(*model.Location) error) (*model.Location, error) {
	return updateRecord(ctx, s, "location", id, func(_ *gorm.DB, l *model.Location) error {
		return mutate(l)
	})
}

// --- Tasks ---

func (s *gormStore) ListTasks(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	q := s.db.WithContext(ctx).Order("due_date ASC").Order("created_at ASC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	tasks := []model.Task{}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *gormStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return getRecord[model.Task](ctx, s.db, id)
}

func (s *gormStore) CreateTask(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = newID()
	}
	initVersion(&t.Versioned)
	return createRecord(ctx, s.db, t)
}

func (s *gormStore) UpdateTask(ctx context.Context, id string, mutate func(*model.Task) error) (*model.Task, error) {
	return updateRecord(ctx, s, "task", id, func(_ *gorm.DB, t *model.Task) error {
		return mutate(t)
	})
}

// --- Rooms ---

func (s *gormStore) ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error) {
	q := s.db.WithContext(ctx).Order("number ASC")
	if f.Floor > 0 {
		q = q.Where("floor = ?", f.Floor)
	}
	rooms := []model.Room{}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	return getRecord[model.Room](ctx, s.db, id)
}

func (s *gormStore) GetRoomByNumber(ctx context.Context, number string) (*model.Room, error) {
	var r model.Room
	if err := s.db.WithContext(ctx).First(&r, "number = ?", strings.TrimSpace(number)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// CreateRoom derives the floor from the room number. Unparseable numbers are
// stored on floor 0 and only show up unfiltered.
func (s *gormStore) CreateRoom(ctx context.Context, r *model.Room) error {
	if r.ID == "" {
		r.ID = newID()
	}
	initVersion(&r.Versioned)
	r.Number = strings.TrimSpace(r.Number)
	if parsed, err := parse.ParseRoomNumber(r.Number); err != nil {
		s.log.WithError(err).Warnf("Could not derive floor for room %q", r.Number)
	} else {
		r.Floor = parsed.Floor
	}
	return createRecord(ctx, s.db, r)
}

func (s *gormStore) UpdateRoom(ctx context.Context, id string, mutate func(*model.Room) error) (*model.Room, error) {
	return updateRecord(ctx, s, "room", id, func(_ *gorm.DB, r *model.Room) error {
		return mutate(r)
	})
}

// --- Laundry ---

func (s *gormStore) ListLaundry(ctx context.Context, f LaundryFilter) ([]model.LaundryItem, error) {
	q := s.db.WithContext(ctx).Order("created_at ASC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	items := []model.LaundryItem{}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *gormStore) GetLaundry(ctx context.Context, id string) (*model.LaundryItem, error) {
	return getRecord[model.LaundryItem](ctx, s.db, id)
}

func (s *gormStore) CreateLaundry(ctx context.Context, l *model.LaundryItem) error {
	if l.ID == "" {
		l.ID = newID()
	}
	initVersion(&l.Versioned)
	return createRecord(ctx, s.db, l)
}

func (s *gormStore) UpdateLaundry(ctx context.Context, id string, mutate func(*model.LaundryItem) error) (*model.LaundryItem, error) {
	return updateRecord(ctx, s, "laundry", id, func(_ *gorm.DB, l *model.LaundryItem) error {
		return mutate(l)
	})
}
