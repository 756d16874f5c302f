package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"itemseek-backend/internal/metrics"
	"itemseek-backend/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a record kept changing underneath every retry.
	ErrConflict = errors.New("too much contention updating record")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("record already exists")

	errVersionMismatch = errors.New("row version mismatch")
)

// maxRetries bounds the optimistic-locking loop of a single write.
const maxRetries = 3

// Filters used by the list endpoints. Zero values match everything.
type (
	ItemFilter struct {
		Category string
		Search   string
	}
	LocationFilter struct {
		Type string
	}
	TaskFilter struct {
		Status model.TaskStatus
	}
	RoomFilter struct {
		Floor int
	}
	LaundryFilter struct {
		Status model.LaundryStatus
	}
)

// ItemMutation edits an item in place and may return an audit entry that
// must be written in the same transaction.
type ItemMutation func(item *model.Item) (*model.StockTransaction, error)

// Store defines the interface for all database operations.
type Store interface {
	ListItems(ctx context.Context, f ItemFilter) ([]model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	CreateItem(ctx context.Context, item *model.Item) error
	UpdateItem(ctx context.Context, id string, mutate ItemMutation) (*model.Item, error)
	ListStockTransactions(ctx context.Context, itemID string, limit int) ([]model.StockTransaction, error)

	ListLocations(ctx context.Context, f LocationFilter) ([]model.Location, error)
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	CreateLocation(ctx context.Context, l *model.Location) error
	UpdateLocation(ctx context.Context, id string, mutate func(*model.Location) error) (*model.Location, error)

	ListTasks(ctx context.Context, f TaskFilter) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	CreateTask(ctx context.Context, t *model.Task) error
	UpdateTask(ctx context.Context, id string, mutate func(*model.Task) error) (*model.Task, error)

	ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error)
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	GetRoomByNumber(ctx context.Context, number string) (*model.Room, error)
	CreateRoom(ctx context.Context, r *model.Room) error
	UpdateRoom(ctx context.Context, id string, mutate func(*model.Room) error) (*model.Room, error)

	ListLaundry(ctx context.Context, f LaundryFilter) ([]model.LaundryItem, error)
	GetLaundry(ctx context.Context, id string) (*model.LaundryItem, error)
	CreateLaundry(ctx context.Context, l *model.LaundryItem) error
	UpdateLaundry(ctx context.Context, id string, mutate func(*model.LaundryItem) error) (*model.LaundryItem, error)

	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	SubscriptionStore

	Ping(ctx context.Context) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db    *gorm.DB
	log   *logrus.Logger
	locks *keyedMutex
	now   func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, log *logrus.Logger) Store {
	return &gormStore{
		db:    db,
		log:   log,
		locks: newKeyedMutex(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks that the database is reachable.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type versionedRecord interface {
	GetID() string
	GetVersion() int64
	SetVersion(int64)
}

// updateRecord runs a locked read-mutate-write of one record. The write only
// lands if the version read is still current; otherwise the whole transaction
// is rolled back and retried. The keyed lock serializes writers inside this
// process, the version check covers other gateway instances.
func updateRecord[T any, PT interface {
	*T
	versionedRecord
}](ctx context.Context, s *gormStore, kind, id string, mutate func(tx *gorm.DB, rec PT) error) (PT, error) {
	unlock := s.locks.Lock(kind + "/" + id)
	defer unlock()

	for attempt := 0; attempt < maxRetries; attempt++ {
		var rec T
		p := PT(&rec)

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(p, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			oldVersion := p.GetVersion()
			if err := mutate(tx, p); err != nil {
				return err
			}
			p.SetVersion(oldVersion + 1)

			res := tx.Model(p).Where("version = ?", oldVersion).Select("*").Updates(p)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return errVersionMismatch
			}
			return nil
		})

		if errors.Is(err, errVersionMismatch) {
			metrics.VersionConflicts.WithLabelValues(kind).Inc()
			s.log.WithFields(logrus.Fields{"kind": kind, "id": id, "attempt": attempt + 1}).
				Warn("Version conflict, retrying update")
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w %q", ErrConflict, id)
}

func getRecord[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var rec T
	if err := db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func createRecord(ctx context.Context, db *gorm.DB, rec any) error {
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func newID() string {
	return uuid.NewString()
}

func initVersion(v *model.Versioned) {
	if v.Version == 0 {
		v.Version = 1
	}
}
