package model

import "time"

// ItemStatus is derived from an item's quantity.
type ItemStatus string

const (
	ItemAvailable  ItemStatus = "available"
	ItemLow        ItemStatus = "low"
	ItemOutOfStock ItemStatus = "out of stock"
)

// Stock movement directions recorded in the audit trail.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// Item is a tracked inventory line.
type Item struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"size:256;not null" json:"name"`
	Quantity    int        `gorm:"not null;default:0" json:"quantity"`
	Unit        string     `gorm:"size:32" json:"unit"`
	Category    string     `gorm:"size:128;index" json:"category"`
	Location    string     `gorm:"size:256" json:"location"`
	Status      ItemStatus `gorm:"size:32;not null" json:"status"`
	LastUpdated time.Time  `gorm:"not null" json:"lastUpdated"`
	CreatedAt   time.Time  `json:"createdAt"`
	Versioned
}

func (i *Item) GetID() string { return i.ID }

// StockTransaction is the audit entry written alongside every quantity change.
type StockTransaction struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ItemID         string    `gorm:"size:36;not null;index" json:"itemId"`
	Type           string    `gorm:"size:8;not null" json:"type"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	Reason         string    `gorm:"size:512" json:"reason"`
	QuantityBefore int       `gorm:"not null" json:"quantityBefore"`
	QuantityAfter  int       `gorm:"not null" json:"quantityAfter"`
	Actor          string    `gorm:"size:256" json:"actor"`
	CreatedAt      time.Time `gorm:"not null;index" json:"createdAt"`
}
