// Package view keeps a view's local copy of gateway records and reconciles
// optimistic local changes with what the gateway later reports.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"itemseek-backend/internal/client"
)

// State tells whether the gateway has confirmed a cached record.
type State string

const (
	// Synced records equal the last value the gateway returned.
	Synced State = "synced"
	// Pending records hold a local guess the gateway has not confirmed yet.
	Pending State = "pending"
	// Conflicted records were contradicted by a later fetch. The server value
	// is shown and the rejected guess is kept until Resolve or Retry.
	Conflicted State = "conflicted"
)

var (
	ErrUnknownRecord  = errors.New("record not in view")
	ErrNothingToRetry = errors.New("record has no unconfirmed action")
)

// Record is implemented by pointers to the model types.
type Record[T any] interface {
	*T
	GetID() string
	GetVersion() int64
}

// Action is one user action on a record. Remote performs it on the gateway;
// Local recomputes the same transition on a copy when the gateway cannot be
// reached.
type Action[T any] struct {
	Name   string
	Remote func(ctx context.Context) (*T, error)
	Local  func(rec *T) error
}

// Entry is the view's knowledge of one record.
type Entry[T any] struct {
	// Server is the last value confirmed by the gateway.
	Server T
	// Local is the unconfirmed guess, set while Pending or Conflicted.
	Local *T
	State State
	// Err is the transport failure that made the entry pending.
	Err error

	action *Action[T]
}

// Shown is the value the view should display.
func (e Entry[T]) Shown() T {
	if e.State == Pending && e.Local != nil {
		return *e.Local
	}
	return e.Server
}

// View caches the records of one kind.
type View[T any, PT Record[T]] struct {
	name  string
	fetch func(ctx context.Context) ([]T, error)
	same  func(server, local T) bool
	log   *logrus.Logger

	mu      sync.RWMutex
	order   []string
	entries map[string]*Entry[T]
}

// New builds an empty view. fetch lists the records from the gateway; same
// decides whether a fetched record confirms a local guess.
func New[T any, PT Record[T]](name string, fetch func(ctx context.Context) ([]T, error), same func(server, local T) bool, log *logrus.Logger) *View[T, PT] {
	return &View[T, PT]{
		name:    name,
		fetch:   fetch,
		same:    same,
		log:     log,
		entries: make(map[string]*Entry[T]),
	}
}

// Get returns a copy of the entry for id.
func (v *View[T, PT]) Get(id string) (Entry[T], bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	e, ok := v.entries[id]
	if !ok {
		return Entry[T]{}, false
	}
	return *e, true
}

// List returns the entries in the order of the last fetch.
func (v *View[T, PT]) List() []Entry[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Entry[T], 0, len(v.order))
	for _, id := range v.order {
		out = append(out, *v.entries[id])
	}
	return out
}

// Refresh replaces the cache with an authoritative fetch. Pending guesses
// the gateway agrees with become synced; the others become conflicted.
// Fetched records older than the cached ones are ignored.
func (v *View[T, PT]) Refresh(ctx context.Context) error {
	records, err := v.fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", v.name, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	seen := make(map[string]bool, len(records))
	order := make([]string, 0, len(records))
	for i := range records {
		rec := records[i]
		id := PT(&rec).GetID()
		seen[id] = true
		order = append(order, id)
		v.reconcile(id, rec)
	}

	for id, e := range v.entries {
		if seen[id] {
			continue
		}
		if e.State != Synced {
			v.log.WithFields(logrus.Fields{"view": v.name, "id": id, "state": e.State}).
				Warn("Unconfirmed record disappeared from the gateway")
		}
		delete(v.entries, id)
	}
	v.order = order
	return nil
}

// reconcile folds one authoritative record into the cache. Callers hold mu.
func (v *View[T, PT]) reconcile(id string, rec T) {
	e, ok := v.entries[id]
	if !ok {
		v.entries[id] = &Entry[T]{Server: rec, State: Synced}
		return
	}
	if PT(&rec).GetVersion() < PT(&e.Server).GetVersion() {
		v.log.WithFields(logrus.Fields{"view": v.name, "id": id}).Debug("Ignoring stale record")
		return
	}

	e.Server = rec
	switch e.State {
	case Pending:
		if v.same(rec, *e.Local) {
			v.markSynced(e)
			return
		}
		e.State = Conflicted
		v.log.WithFields(logrus.Fields{"view": v.name, "id": id}).
			Warn("Gateway disagrees with unconfirmed local change")
	case Conflicted:
		// Stays conflicted until the caller decides.
	default:
		e.State = Synced
	}
}

func (v *View[T, PT]) markSynced(e *Entry[T]) {
	e.State = Synced
	e.Local = nil
	e.Err = nil
	e.action = nil
}

// Apply performs act on record id. On success the returned record is cached
// as synced. When the gateway is unreachable the action is replayed locally
// and cached as pending. Any other failure is returned and the cache is left
// as it was.
func (v *View[T, PT]) Apply(ctx context.Context, id string, act Action[T]) (Entry[T], error) {
	rec, err := act.Remote(ctx)
	if err == nil {
		return v.store(id, *rec), nil
	}
	if !errors.Is(err, client.ErrTransport) {
		return Entry[T]{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.entries[id]
	if !ok {
		return Entry[T]{}, fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}

	guess := e.Server
	if e.State == Pending && e.Local != nil {
		guess = *e.Local
	}
	if lerr := act.Local(&guess); lerr != nil {
		return Entry[T]{}, lerr
	}

	e.Local = &guess
	e.State = Pending
	e.Err = err
	e.action = &act
	v.log.WithError(err).WithFields(logrus.Fields{"view": v.name, "id": id, "action": act.Name}).
		Warn("Gateway unreachable, keeping unconfirmed local change")
	return *e, nil
}

// store caches a record returned by a successful action.
func (v *View[T, PT]) store(id string, rec T) Entry[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.entries[id]
	if !ok {
		e = &Entry[T]{}
		v.entries[id] = e
		v.order = append(v.order, id)
	} else if PT(&rec).GetVersion() < PT(&e.Server).GetVersion() {
		return *e
	}
	e.Server = rec
	v.markSynced(e)
	return *e
}

// Resolve accepts the server value for a pending or conflicted record and
// drops the local guess.
func (v *View[T, PT]) Resolve(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	v.markSynced(e)
	return nil
}

// Retry replays the unconfirmed action of a pending or conflicted record
// against the gateway.
func (v *View[T, PT]) Retry(ctx context.Context, id string) (Entry[T], error) {
	v.mu.RLock()
	e, ok := v.entries[id]
	var act *Action[T]
	if ok {
		act = e.action
	}
	v.mu.RUnlock()

	if !ok {
		return Entry[T]{}, fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	if act == nil {
		return Entry[T]{}, ErrNothingToRetry
	}

	rec, err := act.Remote(ctx)
	if err != nil {
		return Entry[T]{}, err
	}
	return v.store(id, *rec), nil
}
