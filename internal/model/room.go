package model

import "time"

type RoomStatus string

const (
	RoomClean       RoomStatus = "clean"
	RoomDirty       RoomStatus = "dirty"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// RoomStatuses lists every accepted room status.
var RoomStatuses = []RoomStatus{RoomClean, RoomDirty, RoomOccupied, RoomMaintenance}

// Valid reports whether s is a known room status.
func (s RoomStatus) Valid() bool {
	for _, v := range RoomStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Room is a guest room tracked by housekeeping.
type Room struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Number      string     `gorm:"uniqueIndex;size:32;not null" json:"number"`
	Floor       int        `gorm:"index" json:"floor"`
	Status      RoomStatus `gorm:"size:16;not null;default:clean" json:"status"`
	LastCleaned *time.Time `json:"lastCleaned"`
	Versioned
}

func (r *Room) GetID() string { return r.ID }
