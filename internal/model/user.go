package model

import "time"

// User is an operator account that can sign in to the micro-apps.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Name         string    `gorm:"size:256" json:"name"`
	BusinessName string    `gorm:"size:256" json:"businessName"`
	Industry     string    `gorm:"size:64" json:"industry"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}
