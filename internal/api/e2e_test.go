package api

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemseek-backend/internal/model"
	"itemseek-backend/internal/mw"
)

// TestRoomCleaningLifecycle walks a room through a housekeeping cycle and
// checks that list reads never serve a stale cached copy after a write.
func TestRoomCleaningLifecycle(t *testing.T) {
	srv := newTestServer(t, testConfig())

	for _, number := range []string{"101", "102", "201"} {
		w := srv.do(t, http.MethodPost, "/api/rooms", map[string]any{"number": number, "status": "dirty"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	findRoom := func(rooms []model.Room, number string) model.Room {
		for _, r := range rooms {
			if r.Number == number {
				return r
			}
		}
		t.Fatalf("room %s not listed", number)
		return model.Room{}
	}

	t.Run("list is cached", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/rooms", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get(mw.CacheHeader))
		assert.Nil(t, findRoom(decode[[]model.Room](t, w), "101").LastCleaned)

		w = srv.do(t, http.MethodGet, "/api/rooms", nil)
		assert.Equal(t, "HIT", w.Header().Get(mw.CacheHeader))
	})

	var cleanedAt time.Time
	t.Run("marking clean stamps lastCleaned", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/rooms/101", map[string]any{"status": "clean"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		room := decode[model.Room](t, w)
		assert.Equal(t, model.RoomClean, room.Status)
		require.NotNil(t, room.LastCleaned)
		assert.WithinDuration(t, time.Now(), *room.LastCleaned, 5*time.Second)
		cleanedAt = *room.LastCleaned
	})

	t.Run("list reflects the write", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/rooms", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get(mw.CacheHeader))

		room := findRoom(decode[[]model.Room](t, w), "101")
		assert.Equal(t, model.RoomClean, room.Status)
		require.NotNil(t, room.LastCleaned)
		assert.Equal(t, cleanedAt.Unix(), room.LastCleaned.Unix())
		assert.Equal(t, int64(2), room.Version)
	})

	t.Run("toggling dirty keeps the last cleaning time", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/rooms/101/advance", nil)
		require.Equal(t, http.StatusOK, w.Code)
		room := decode[model.Room](t, w)
		assert.Equal(t, model.RoomDirty, room.Status)
		require.NotNil(t, room.LastCleaned)
		assert.Equal(t, cleanedAt.Unix(), room.LastCleaned.Unix())
	})

	t.Run("explicit lastCleaned is honoured", func(t *testing.T) {
		when := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
		w := srv.do(t, http.MethodPatch, "/api/rooms/101", map[string]any{"status": "clean", "lastCleaned": when})
		require.Equal(t, http.StatusOK, w.Code)
		room := decode[model.Room](t, w)
		require.NotNil(t, room.LastCleaned)
		assert.True(t, when.Equal(*room.LastCleaned))
	})

	t.Run("re-marking a clean room restamps it", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/rooms", map[string]any{"number": "301"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created := decode[model.Room](t, w)
		require.Equal(t, model.RoomClean, created.Status)
		require.NotNil(t, created.LastCleaned)

		when := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
		w = srv.do(t, http.MethodPatch, "/api/rooms/301", map[string]any{"status": "clean", "lastCleaned": when})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		room := decode[model.Room](t, w)
		require.NotNil(t, room.LastCleaned)
		assert.True(t, when.Equal(*room.LastCleaned))

		w = srv.do(t, http.MethodPatch, "/api/rooms/301", map[string]any{"status": "clean"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		room = decode[model.Room](t, w)
		require.NotNil(t, room.LastCleaned)
		assert.WithinDuration(t, time.Now(), *room.LastCleaned, 5*time.Second)
		assert.Equal(t, int64(3), room.Version)
	})

	t.Run("floor filter", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/rooms?floor=2", nil)
		rooms := decode[[]model.Room](t, w)
		require.Len(t, rooms, 1)
		assert.Equal(t, "201", rooms[0].Number)
	})

	t.Run("unknown room and status", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodPatch, "/api/rooms/999", map[string]any{"status": "clean"}).Code)
		assert.Equal(t, http.StatusUnprocessableEntity, srv.do(t, http.MethodPatch, "/api/rooms/102", map[string]any{"status": "sparkling"}).Code)
	})
}

// TestConcurrentWithdrawals fires two simultaneous withdrawals at one item
// through the full HTTP stack.
func TestConcurrentWithdrawals(t *testing.T) {
	srv := newTestServer(t, testConfig())
	spray := createItem(t, srv, "Cleaning Spray", 10)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = srv.do(t, http.MethodPost, "/api/items/"+spray.ID+"/transact", map[string]any{
				"type": "out", "quantity": 5,
			}).Code
		}(i)
	}
	wg.Wait()
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)

	w := srv.do(t, http.MethodGet, "/api/items/"+spray.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	item := decode[model.Item](t, w)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, model.ItemOutOfStock, item.Status)
}
