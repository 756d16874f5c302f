// Package transition holds the pure state rules shared by the gateway and the
// client views. Both sides must compute identical results, so nothing in here
// touches storage, clocks or the network.
package transition

import (
	"errors"
	"fmt"

	"itemseek-backend/internal/model"
)

var (
	// ErrZeroDelta is returned for a quantity change of zero.
	ErrZeroDelta = errors.New("quantity delta must not be zero")
	// ErrDeltaOutOfRange is returned for a delta larger than MaxDelta units or
	// one that would push the quantity past MaxQuantity.
	ErrDeltaOutOfRange = errors.New("quantity delta out of range")
	// ErrInsufficientStock is returned by a strict policy when a withdrawal exceeds the stock on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Bounds on stock arithmetic. Both are far below the int range, so q+d can
// never overflow once a delta has passed Apply.
const (
	MaxDelta    = 1_000_000_000
	MaxQuantity = 1_000_000_000_000
)

// ApplyDelta returns max(0, q+d).
func ApplyDelta(q, d int) int {
	if n := q + d; n > 0 {
		return n
	}
	return 0
}

// ItemStatus derives the status of an item holding q units.
func ItemStatus(q, lowThreshold int) model.ItemStatus {
	switch {
	case q <= 0:
		return model.ItemOutOfStock
	case q < lowThreshold:
		return model.ItemLow
	default:
		return model.ItemAvailable
	}
}

// MovementType names the audit direction of a delta.
func MovementType(d int) string {
	if d > 0 {
		return model.MovementIn
	}
	return model.MovementOut
}

// Magnitude is |d|. Callers pass deltas already bounded by MaxDelta.
func Magnitude(d int) int {
	if d < 0 {
		return -d
	}
	return d
}

// QuantityPolicy configures how deltas are applied to items.
type QuantityPolicy struct {
	LowThreshold int
	// Strict rejects withdrawals that would go negative instead of clamping them.
	Strict bool
}

// StockChange is the outcome of applying a delta.
type StockChange struct {
	Before  int
	After   int
	Delta   int
	Status  model.ItemStatus
	Clamped bool
}

// Apply computes the new quantity and status for a delta against q.
func (p QuantityPolicy) Apply(q, d int) (StockChange, error) {
	if d == 0 {
		return StockChange{}, ErrZeroDelta
	}
	if d > MaxDelta || d < -MaxDelta {
		return StockChange{}, fmt.Errorf("%w: %d exceeds %d units", ErrDeltaOutOfRange, d, MaxDelta)
	}
	raw := q + d
	if raw > MaxQuantity {
		return StockChange{}, fmt.Errorf("%w: quantity would reach %d", ErrDeltaOutOfRange, raw)
	}
	if raw < 0 && p.Strict {
		return StockChange{}, ErrInsufficientStock
	}
	after := ApplyDelta(q, d)
	return StockChange{
		Before:  q,
		After:   after,
		Delta:   d,
		Status:  ItemStatus(after, p.LowThreshold),
		Clamped: raw < 0,
	}, nil
}

// ApplyToItem mutates item in place and returns the change that was applied.
func (p QuantityPolicy) ApplyToItem(item *model.Item, d int) (StockChange, error) {
	change, err := p.Apply(item.Quantity, d)
	if err != nil {
		return StockChange{}, err
	}
	item.Quantity = change.After
	item.Status = change.Status
	return change, nil
}

// Status derives the status for q under this policy's threshold.
func (p QuantityPolicy) Status(q int) model.ItemStatus {
	return ItemStatus(q, p.LowThreshold)
}

// Transaction builds the audit entry for the change. Quantity is the
// requested magnitude; Before and After show any clamping.
func (c StockChange) Transaction() *model.StockTransaction {
	return &model.StockTransaction{
		Type:           MovementType(c.Delta),
		Quantity:       Magnitude(c.Delta),
		QuantityBefore: c.Before,
		QuantityAfter:  c.After,
	}
}
