package model

import "time"

type LaundryStatus string

const (
	LaundryDirty     LaundryStatus = "dirty"
	LaundryWashing   LaundryStatus = "washing"
	LaundryDrying    LaundryStatus = "drying"
	LaundryClean     LaundryStatus = "clean"
	LaundryDelivered LaundryStatus = "delivered"
)

type LaundryPriority string

const (
	LaundryNormal  LaundryPriority = "normal"
	LaundryRush    LaundryPriority = "rush"
	LaundryExpress LaundryPriority = "express"
)

// LaundryItem is a batch of linen moving through the laundry.
type LaundryItem struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Type      string          `gorm:"size:64;not null" json:"type"`
	RoomID    string          `gorm:"size:36;index" json:"roomId,omitempty"`
	Status    LaundryStatus   `gorm:"size:16;not null;index" json:"status"`
	Weight    *int            `json:"weight,omitempty"`
	Priority  LaundryPriority `gorm:"size:16;not null;default:normal" json:"priority"`
	CreatedAt time.Time       `json:"createdAt"`
	Versioned
}

func (l *LaundryItem) GetID() string { return l.ID }
