package transition

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itemseek-backend/internal/model"
)

func TestApplyDelta(t *testing.T) {
	for q := 0; q <= 20; q++ {
		for d := -25; d <= 25; d++ {
			got := ApplyDelta(q, d)
			want := q + d
			if want < 0 {
				want = 0
			}
			assert.Equal(t, want, got, "ApplyDelta(%d, %d)", q, d)

			// The inverse restores q exactly when no clamping happened.
			restored := ApplyDelta(got, -d)
			assert.Equal(t, q+d >= 0, restored == q, "inverse of (%d, %d)", q, d)
		}
	}
}

func TestItemStatus(t *testing.T) {
	testCases := []struct {
		quantity int
		expected model.ItemStatus
	}{
		{0, model.ItemOutOfStock},
		{1, model.ItemLow},
		{49, model.ItemLow},
		{50, model.ItemAvailable},
		{150, model.ItemAvailable},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ItemStatus(tc.quantity, 50), "quantity %d", tc.quantity)
	}
}

func TestQuantityPolicy_Apply(t *testing.T) {
	testCases := []struct {
		name      string
		policy    QuantityPolicy
		q, d      int
		expected  StockChange
		expectErr error
	}{
		{
			name:     "Withdrawal into low",
			policy:   QuantityPolicy{LowThreshold: 50},
			q:        60,
			d:        -15,
			expected: StockChange{Before: 60, After: 45, Delta: -15, Status: model.ItemLow},
		},
		{
			name:     "Clamped silently",
			policy:   QuantityPolicy{LowThreshold: 50},
			q:        3,
			d:        -10,
			expected: StockChange{Before: 3, After: 0, Delta: -10, Status: model.ItemOutOfStock, Clamped: true},
		},
		{
			name:      "Strict rejects overdraw",
			policy:    QuantityPolicy{LowThreshold: 50, Strict: true},
			q:         3,
			d:         -10,
			expectErr: ErrInsufficientStock,
		},
		{
			name:     "Strict allows exact withdrawal",
			policy:   QuantityPolicy{LowThreshold: 50, Strict: true},
			q:        10,
			d:        -10,
			expected: StockChange{Before: 10, After: 0, Delta: -10, Status: model.ItemOutOfStock},
		},
		{
			name:      "Deposit too large",
			policy:    QuantityPolicy{LowThreshold: 50},
			q:         10,
			d:         math.MaxInt,
			expectErr: ErrDeltaOutOfRange,
		},
		{
			name:      "Withdrawal too large",
			policy:    QuantityPolicy{LowThreshold: 50, Strict: true},
			q:         10,
			d:         math.MinInt,
			expectErr: ErrDeltaOutOfRange,
		},
		{
			name:      "Deposit past the quantity ceiling",
			policy:    QuantityPolicy{LowThreshold: 50},
			q:         MaxQuantity - 5,
			d:         10,
			expectErr: ErrDeltaOutOfRange,
		},
		{
			name:     "Largest accepted deposit",
			policy:   QuantityPolicy{LowThreshold: 50},
			q:        0,
			d:        MaxDelta,
			expected: StockChange{Before: 0, After: MaxDelta, Delta: MaxDelta, Status: model.ItemAvailable},
		},
		{
			name:      "Zero delta",
			policy:    QuantityPolicy{LowThreshold: 50},
			q:         10,
			d:         0,
			expectErr: ErrZeroDelta,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			change, err := tc.policy.Apply(tc.q, tc.d)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, change)
		})
	}
}

func TestMovementType(t *testing.T) {
	assert.Equal(t, model.MovementIn, MovementType(5))
	assert.Equal(t, model.MovementOut, MovementType(-5))
	assert.Equal(t, 5, Magnitude(-5))
}

func TestAdvanceLaundry(t *testing.T) {
	status := model.LaundryDirty
	var seen []model.LaundryStatus
	for {
		next, err := AdvanceLaundry(status)
		if err != nil {
			assert.ErrorIs(t, err, ErrTerminalStatus)
			break
		}
		seen = append(seen, next)
		status = next
	}
	assert.Equal(t, []model.LaundryStatus{
		model.LaundryWashing, model.LaundryDrying, model.LaundryClean, model.LaundryDelivered,
	}, seen)

	_, err := AdvanceLaundry("folded")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestSetLaundry(t *testing.T) {
	assert.NoError(t, SetLaundry(model.LaundryDirty, model.LaundryDirty))
	assert.NoError(t, SetLaundry(model.LaundryDirty, model.LaundryWashing))
	assert.ErrorIs(t, SetLaundry(model.LaundryDirty, model.LaundryDrying), ErrSkippedStep)
	assert.ErrorIs(t, SetLaundry(model.LaundryClean, model.LaundryDirty), ErrBackwardTransition)
	assert.ErrorIs(t, SetLaundry(model.LaundryClean, "ironed"), ErrUnknownStatus)
}

func TestAdvanceTask(t *testing.T) {
	next, err := AdvanceTask(model.TaskPending)
	require.NoError(t, err)
	assert.Equal(t, model.TaskInProgress, next)

	next, err = AdvanceTask(next)
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, next)

	_, err = AdvanceTask(next)
	assert.ErrorIs(t, err, ErrTerminalStatus)

	assert.True(t, TaskChain.Terminal(model.TaskCompleted))
	assert.NoError(t, SetTask(model.TaskPending, model.TaskCompleted))
	assert.ErrorIs(t, SetTask(model.TaskCompleted, model.TaskPending), ErrBackwardTransition)
}

func TestToggleLocation(t *testing.T) {
	testCases := []struct {
		from     model.LocationStatus
		expected model.LocationStatus
	}{
		{model.LocationAvailable, model.LocationOccupied},
		{model.LocationOccupied, model.LocationAvailable},
		{model.LocationMaintenance, model.LocationAvailable},
		{model.LocationReserved, model.LocationAvailable},
	}
	for _, tc := range testCases {
		got, err := ToggleLocation(tc.from)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got, "toggle from %s", tc.from)
	}

	_, err := ToggleLocation("demolished")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.ErrorIs(t, SetLocation("demolished"), ErrUnknownStatus)
}

func TestRoomStatus_StampsLastCleaned(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	room := &model.Room{Number: "101", Status: model.RoomDirty}

	require.NoError(t, AdvanceRoomStatus(room, now))
	assert.Equal(t, model.RoomClean, room.Status)
	require.NotNil(t, room.LastCleaned)
	assert.Equal(t, now, *room.LastCleaned)

	// Marking an already clean room clean again restamps it.
	later := now.Add(time.Hour)
	require.NoError(t, SetRoomStatus(room, model.RoomClean, nil, later))
	assert.Equal(t, later, *room.LastCleaned)

	earlier := now.Add(-2 * time.Hour)
	require.NoError(t, SetRoomStatus(room, model.RoomClean, &earlier, later))
	assert.Equal(t, earlier, *room.LastCleaned)

	// Leaving clean keeps the stamp.
	require.NoError(t, SetRoomStatus(room, model.RoomOccupied, nil, later.Add(time.Hour)))
	assert.Equal(t, earlier, *room.LastCleaned)
	require.NoError(t, SetRoomStatus(room, model.RoomClean, nil, later))

	require.NoError(t, AdvanceRoomStatus(room, later))
	assert.Equal(t, model.RoomDirty, room.Status)

	explicit := now.Add(-time.Minute)
	require.NoError(t, SetRoomStatus(room, model.RoomClean, &explicit, later))
	assert.Equal(t, explicit, *room.LastCleaned)
}

func TestTaskStatus_StampsCompletedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	task := &model.Task{Status: model.TaskPending}

	require.NoError(t, AdvanceTaskStatus(task, now))
	assert.Nil(t, task.CompletedAt)
	require.NoError(t, AdvanceTaskStatus(task, now))
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)

	assert.ErrorIs(t, AdvanceTaskStatus(task, now), ErrTerminalStatus)
}
