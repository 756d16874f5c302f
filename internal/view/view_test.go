package view

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemseek-backend/internal/client"
	"itemseek-backend/internal/logging"
	"itemseek-backend/internal/model"
	"itemseek-backend/internal/transition"
)

var policy = transition.QuantityPolicy{LowThreshold: 50}

func item(id string, q int, version int64) model.Item {
	return model.Item{
		ID:        id,
		Name:      "Towels",
		Quantity:  q,
		Status:    policy.Status(q),
		Versioned: model.Versioned{Version: version},
	}
}

// fakeList serves whatever records currently holds.
type fakeList struct {
	records []model.Item
	err     error
}

func (f *fakeList) fetch(context.Context) ([]model.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Item(nil), f.records...), nil
}

func newItemView(t *testing.T, records ...model.Item) (*Items, *fakeList) {
	t.Helper()
	src := &fakeList{records: records}
	v := New[model.Item, *model.Item]("items", src.fetch, sameItem, logging.Discard())
	require.NoError(t, v.Refresh(context.Background()))
	return v, src
}

func adjust(delta int, remote func(context.Context) (*model.Item, error)) Action[model.Item] {
	return Action[model.Item]{
		Name:   "adjust",
		Remote: remote,
		Local: func(it *model.Item) error {
			_, err := policy.ApplyToItem(it, delta)
			return err
		},
	}
}

func answer(rec model.Item) func(context.Context) (*model.Item, error) {
	return func(context.Context) (*model.Item, error) { return &rec, nil }
}

func unreachable(context.Context) (*model.Item, error) {
	return nil, fmt.Errorf("%w: POST /api/items/a/transact: connection refused", client.ErrTransport)
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores the server record", func(t *testing.T) {
		v, _ := newItemView(t, item("a", 60, 1))
		e, err := v.Apply(ctx, "a", adjust(-5, answer(item("a", 55, 2))))
		require.NoError(t, err)
		assert.Equal(t, Synced, e.State)
		assert.Equal(t, 55, e.Server.Quantity)
		assert.Nil(t, e.Local)
	})

	t.Run("transport failure keeps a pending guess", func(t *testing.T) {
		v, _ := newItemView(t, item("a", 60, 1))
		e, err := v.Apply(ctx, "a", adjust(-15, unreachable))
		require.NoError(t, err)
		assert.Equal(t, Pending, e.State)
		assert.ErrorIs(t, e.Err, client.ErrTransport)
		assert.Equal(t, 60, e.Server.Quantity)
		assert.Equal(t, 45, e.Shown().Quantity)
		assert.Equal(t, model.ItemLow, e.Shown().Status)

		// A second offline action builds on the first guess.
		e, err = v.Apply(ctx, "a", adjust(-50, unreachable))
		require.NoError(t, err)
		assert.Equal(t, 0, e.Shown().Quantity)
		assert.Equal(t, model.ItemOutOfStock, e.Shown().Status)
	})

	t.Run("gateway rejection leaves the cache alone", func(t *testing.T) {
		v, _ := newItemView(t, item("a", 60, 1))
		rejected := &client.APIError{StatusCode: http.StatusConflict, Message: "insufficient stock"}
		_, err := v.Apply(ctx, "a", adjust(-100, func(context.Context) (*model.Item, error) { return nil, rejected }))
		assert.True(t, client.IsStatus(err, http.StatusConflict))

		e, ok := v.Get("a")
		require.True(t, ok)
		assert.Equal(t, Synced, e.State)
		assert.Equal(t, 60, e.Shown().Quantity)
	})

	t.Run("local rule failure is returned", func(t *testing.T) {
		v, _ := newItemView(t, item("a", 60, 1))
		_, err := v.Apply(ctx, "a", adjust(0, unreachable))
		assert.ErrorIs(t, err, transition.ErrZeroDelta)
		e, _ := v.Get("a")
		assert.Equal(t, Synced, e.State)
	})

	t.Run("offline action on an unknown record", func(t *testing.T) {
		v, _ := newItemView(t)
		_, err := v.Apply(ctx, "ghost", adjust(1, unreachable))
		assert.ErrorIs(t, err, ErrUnknownRecord)
	})

	t.Run("older answer is ignored", func(t *testing.T) {
		v, _ := newItemView(t, item("a", 60, 4))
		e, err := v.Apply(ctx, "a", adjust(-5, answer(item("a", 55, 3))))
		require.NoError(t, err)
		assert.Equal(t, 60, e.Server.Quantity)
		assert.Equal(t, int64(4), e.Server.Version)
	})
}

func TestRefreshReconciles(t *testing.T) {
	ctx := context.Background()

	t.Run("matching server value confirms the guess", func(t *testing.T) {
		v, src := newItemView(t, item("a", 60, 1))
		_, err := v.Apply(ctx, "a", adjust(-5, unreachable))
		require.NoError(t, err)

		src.records = []model.Item{item("a", 55, 2)}
		require.NoError(t, v.Refresh(ctx))

		e, _ := v.Get("a")
		assert.Equal(t, Synced, e.State)
		assert.Nil(t, e.Local)
		assert.Equal(t, int64(2), e.Server.Version)
	})

	t.Run("disagreeing server value conflicts", func(t *testing.T) {
		v, src := newItemView(t, item("a", 60, 1))
		_, err := v.Apply(ctx, "a", adjust(-5, unreachable))
		require.NoError(t, err)

		src.records = []model.Item{item("a", 70, 2)}
		require.NoError(t, v.Refresh(ctx))

		e, _ := v.Get("a")
		assert.Equal(t, Conflicted, e.State)
		assert.Equal(t, 70, e.Shown().Quantity)
		require.NotNil(t, e.Local)
		assert.Equal(t, 55, e.Local.Quantity)

		// Later fetches do not clear the conflict on their own.
		src.records = []model.Item{item("a", 55, 3)}
		require.NoError(t, v.Refresh(ctx))
		e, _ = v.Get("a")
		assert.Equal(t, Conflicted, e.State)
		assert.Equal(t, 55, e.Shown().Quantity)

		require.NoError(t, v.Resolve("a"))
		e, _ = v.Get("a")
		assert.Equal(t, Synced, e.State)
		assert.Nil(t, e.Local)
	})

	t.Run("stale fetch is ignored", func(t *testing.T) {
		v, src := newItemView(t, item("a", 60, 5))
		src.records = []model.Item{item("a", 10, 4)}
		require.NoError(t, v.Refresh(ctx))
		e, _ := v.Get("a")
		assert.Equal(t, 60, e.Server.Quantity)
	})

	t.Run("new and removed records", func(t *testing.T) {
		v, src := newItemView(t, item("a", 60, 1), item("b", 5, 1))
		src.records = []model.Item{item("c", 80, 1), item("a", 60, 1)}
		require.NoError(t, v.Refresh(ctx))

		var ids []string
		for _, e := range v.List() {
			ids = append(ids, e.Server.ID)
		}
		assert.Equal(t, []string{"c", "a"}, ids)
		_, ok := v.Get("b")
		assert.False(t, ok)
	})

	t.Run("failed fetch keeps the cache", func(t *testing.T) {
		v, src := newItemView(t, item("a", 60, 1))
		src.err = fmt.Errorf("%w: GET /api/items: timeout", client.ErrTransport)
		err := v.Refresh(ctx)
		assert.ErrorIs(t, err, client.ErrTransport)
		assert.Len(t, v.List(), 1)
	})
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	v, src := newItemView(t, item("a", 60, 1))

	_, err := v.Retry(ctx, "a")
	assert.ErrorIs(t, err, ErrNothingToRetry)
	_, err = v.Retry(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUnknownRecord)

	var up atomic.Bool
	remote := func(ctx context.Context) (*model.Item, error) {
		if !up.Load() {
			return unreachable(ctx)
		}
		rec := item("a", 55, 3)
		return &rec, nil
	}
	_, err = v.Apply(ctx, "a", adjust(-5, remote))
	require.NoError(t, err)

	src.records = []model.Item{item("a", 60, 2)}
	require.NoError(t, v.Refresh(ctx))
	e, _ := v.Get("a")
	require.Equal(t, Conflicted, e.State)

	// Still down: the conflict stays.
	_, err = v.Retry(ctx, "a")
	assert.ErrorIs(t, err, client.ErrTransport)
	e, _ = v.Get("a")
	assert.Equal(t, Conflicted, e.State)

	up.Store(true)
	e, err = v.Retry(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, Synced, e.State)
	assert.Equal(t, 55, e.Shown().Quantity)
}

type countingView struct {
	calls atomic.Int32
	err   error
}

func (c *countingView) Refresh(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestRefresher(t *testing.T) {
	t.Run("failing view does not stop the others", func(t *testing.T) {
		bad := &countingView{err: errors.New("boom")}
		good := &countingView{}
		NewRefresher(0, logging.Discard(), bad, good).Run(context.Background())
		assert.Equal(t, int32(1), bad.calls.Load())
		assert.Equal(t, int32(1), good.calls.Load())
	})

	t.Run("runs until cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		v := &countingView{}
		done := make(chan struct{})
		go func() {
			NewRefresher(5*time.Millisecond, logging.Discard(), v).Run(ctx)
			close(done)
		}()

		assert.Eventually(t, func() bool { return v.calls.Load() >= 3 }, time.Second, time.Millisecond)
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("refresher did not stop")
		}
	})
}
