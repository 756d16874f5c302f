package model

// Versioned adds an optimistic-lock counter to a record. Embed it anonymously.
type Versioned struct {
	Version int64 `gorm:"not null;default:1" json:"version"`
}

func (v *Versioned) GetVersion() int64  { return v.Version }
func (v *Versioned) SetVersion(n int64) { v.Version = n }
