package model

import "time"

// Topic kinds a push subscription can follow.
const (
	TopicItem    = "item"
	TopicLaundry = "laundry"
)

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Topics []SubscriptionTopic `gorm:"foreignKey:Endpoint;references:Endpoint;constraint:OnDelete:CASCADE"`
}

// SubscriptionTopic links a subscription to one record it wants alerts for.
type SubscriptionTopic struct {
	Endpoint string `gorm:"primaryKey" json:"-"`
	Kind     string `gorm:"primaryKey;size:16" json:"kind"`
	RecordID string `gorm:"primaryKey;size:36;index" json:"id"`
}
