package model

// LocationStatus is the occupancy state of a room, zone or shelf.
type LocationStatus string

const (
	LocationAvailable   LocationStatus = "available"
	LocationOccupied    LocationStatus = "occupied"
	LocationMaintenance LocationStatus = "maintenance"
	LocationReserved    LocationStatus = "reserved"
	LocationClosed      LocationStatus = "closed"
)

// LocationStatuses lists every accepted location status.
var LocationStatuses = []LocationStatus{
	LocationAvailable, LocationOccupied, LocationMaintenance, LocationReserved, LocationClosed,
}

// Valid reports whether s is a known location status.
func (s LocationStatus) Valid() bool {
	for _, v := range LocationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Location is any place a business tracks: rooms, warehouses, shelves, zones.
type Location struct {
	ID     string         `gorm:"primaryKey;size:36" json:"id"`
	Name   string         `gorm:"size:128;not null" json:"name"`
	Type   string         `gorm:"size:64;index" json:"type"`
	Status LocationStatus `gorm:"size:32;not null" json:"status"`
	Versioned
}

func (l *Location) GetID() string { return l.ID }
