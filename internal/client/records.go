package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"itemseek-backend/internal/model"
)

// BusinessConfig is the answer of GET /api/config.
type BusinessConfig struct {
	Name             string                 `json:"name"`
	Industry         string                 `json:"industry"`
	ItemCategories   []string               `json:"itemCategories"`
	ItemStatuses     []model.ItemStatus     `json:"itemStatuses"`
	LocationTypes    []string               `json:"locationTypes"`
	LocationStatuses []model.LocationStatus `json:"locationStatuses"`
	TaskTypes        []string               `json:"taskTypes"`
	Units            []string               `json:"units"`
	LowThreshold     int                    `json:"lowThreshold"`
	CustomFields     map[string]any         `json:"customFields"`
}

func (s *Session) Config(ctx context.Context) (*BusinessConfig, error) {
	var out BusinessConfig
	if err := s.call(ctx, http.MethodGet, "/api/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func get[T any](ctx context.Context, s *Session, path string) (*T, error) {
	var out T
	if err := s.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, s *Session, path string) ([]T, error) {
	out := []T{}
	if err := s.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func write[T any](ctx context.Context, s *Session, method, path string, body any) (*T, error) {
	var out T
	if err := s.call(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Items ---

// ItemFilter narrows ListItems. Zero values match everything.
type ItemFilter struct {
	Category string
	Search   string
}

// ItemPatch is the body of PATCH /api/items/{id}. Nil fields are left alone.
type ItemPatch struct {
	Status   *model.ItemStatus `json:"status,omitempty"`
	Delta    *int              `json:"delta,omitempty"`
	Reason   string            `json:"reason,omitempty"`
	Name     *string           `json:"name,omitempty"`
	Unit     *string           `json:"unit,omitempty"`
	Category *string           `json:"category,omitempty"`
	Location *string           `json:"location,omitempty"`
}

// NewItem is the body of POST /api/items.
type NewItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
	Category string `json:"category,omitempty"`
	Location string `json:"location,omitempty"`
}

func (s *Session) ListItems(ctx context.Context, f ItemFilter) ([]model.Item, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	return list[model.Item](ctx, s, withQuery("/api/items", q))
}

func (s *Session) GetItem(ctx context.Context, id string) (*model.Item, error) {
	return get[model.Item](ctx, s, "/api/items/"+url.PathEscape(id))
}

func (s *Session) CreateItem(ctx context.Context, item NewItem) (*model.Item, error) {
	return write[model.Item](ctx, s, http.MethodPost, "/api/items", item)
}

func (s *Session) PatchItem(ctx context.Context, id string, patch ItemPatch) (*model.Item, error) {
	return write[model.Item](ctx, s, http.MethodPatch, "/api/items/"+url.PathEscape(id), patch)
}

// AdjustQuantity applies delta through PATCH.
func (s *Session) AdjustQuantity(ctx context.Context, id string, delta int, reason string) (*model.Item, error) {
	return s.PatchItem(ctx, id, ItemPatch{Delta: &delta, Reason: reason})
}

// Transact records a stock movement of quantity units in or out.
func (s *Session) Transact(ctx context.Context, id, movement string, quantity int, reason string) (*model.Item, error) {
	body := map[string]any{"type": movement, "quantity": quantity, "reason": reason}
	return write[model.Item](ctx, s, http.MethodPost, "/api/items/"+url.PathEscape(id)+"/transact", body)
}

func (s *Session) ItemTransactions(ctx context.Context, id string) ([]model.StockTransaction, error) {
	return list[model.StockTransaction](ctx, s, "/api/items/"+url.PathEscape(id)+"/transactions")
}

// --- Locations ---

func (s *Session) ListLocations(ctx context.Context, locationType string) ([]model.Location, error) {
	q := url.Values{}
	if locationType != "" {
		q.Set("type", locationType)
	}
	return list[model.Location](ctx, s, withQuery("/api/locations", q))
}

func (s *Session) CreateLocation(ctx context.Context, name, locationType string) (*model.Location, error) {
	body := map[string]string{"name": name, "type": locationType}
	return write[model.Location](ctx, s, http.MethodPost, "/api/locations", body)
}

func (s *Session) SetLocationStatus(ctx context.Context, id string, status model.LocationStatus) (*model.Location, error) {
	body := map[string]any{"status": status}
	return write[model.Location](ctx, s, http.MethodPatch, "/api/locations/"+url.PathEscape(id), body)
}

func (s *Session) AdvanceLocation(ctx context.Context, id string) (*model.Location, error) {
	return write[model.Location](ctx, s, http.MethodPost, "/api/locations/"+url.PathEscape(id)+"/advance", nil)
}

// --- Tasks ---

func (s *Session) ListTasks(ctx context.Context, status model.TaskStatus) ([]model.Task, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	return list[model.Task](ctx, s, withQuery("/api/tasks", q))
}

// NewTask is the body of POST /api/tasks.
type NewTask struct {
	Type        string             `json:"type"`
	TargetID    string             `json:"targetId,omitempty"`
	Description string             `json:"description,omitempty"`
	Assignee    string             `json:"assignee,omitempty"`
	Priority    model.TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time         `json:"dueDate,omitempty"`
}

func (s *Session) CreateTask(ctx context.Context, t NewTask) (*model.Task, error) {
	return write[model.Task](ctx, s, http.MethodPost, "/api/tasks", t)
}

func (s *Session) SetTaskStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error) {
	body := map[string]any{"status": status}
	return write[model.Task](ctx, s, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), body)
}

func (s *Session) AdvanceTask(ctx context.Context, id string) (*model.Task, error) {
	return write[model.Task](ctx, s, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/advance", nil)
}

// --- Rooms ---

func (s *Session) ListRooms(ctx context.Context, floor int) ([]model.Room, error) {
	q := url.Values{}
	if floor > 0 {
		q.Set("floor", strconv.Itoa(floor))
	}
	return list[model.Room](ctx, s, withQuery("/api/rooms", q))
}

func (s *Session) CreateRoom(ctx context.Context, number string, status model.RoomStatus) (*model.Room, error) {
	body := map[string]any{"number": number, "status": status}
	return write[model.Room](ctx, s, http.MethodPost, "/api/rooms", body)
}

// SetRoomStatus sets a room's status. ref may be the room id or its number.
func (s *Session) SetRoomStatus(ctx context.Context, ref string, status model.RoomStatus) (*model.Room, error) {
	body := map[string]any{"status": status}
	return write[model.Room](ctx, s, http.MethodPatch, "/api/rooms/"+url.PathEscape(ref), body)
}

func (s *Session) AdvanceRoom(ctx context.Context, ref string) (*model.Room, error) {
	return write[model.Room](ctx, s, http.MethodPost, "/api/rooms/"+url.PathEscape(ref)+"/advance", nil)
}

// --- Laundry ---

func (s *Session) ListLaundry(ctx context.Context, status model.LaundryStatus) ([]model.LaundryItem, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	return list[model.LaundryItem](ctx, s, withQuery("/api/laundry", q))
}

// NewLaundry is the body of POST /api/laundry.
type NewLaundry struct {
	Type     string                `json:"type"`
	RoomID   string                `json:"roomId,omitempty"`
	Weight   *int                  `json:"weight,omitempty"`
	Priority model.LaundryPriority `json:"priority,omitempty"`
}

func (s *Session) CreateLaundry(ctx context.Context, l NewLaundry) (*model.LaundryItem, error) {
	return write[model.LaundryItem](ctx, s, http.MethodPost, "/api/laundry", l)
}

func (s *Session) SetLaundryStatus(ctx context.Context, id string, status model.LaundryStatus) (*model.LaundryItem, error) {
	body := map[string]any{"status": status}
	return write[model.LaundryItem](ctx, s, http.MethodPatch, "/api/laundry/"+url.PathEscape(id), body)
}

func (s *Session) AdvanceLaundry(ctx context.Context, id string) (*model.LaundryItem, error) {
	return write[model.LaundryItem](ctx, s, http.MethodPost, "/api/laundry/"+url.PathEscape(id)+"/advance", nil)
}
