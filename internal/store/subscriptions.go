package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"itemseek-backend/internal/model"
)

// SubscriptionStore is the slice of the store used by push notifications.
type SubscriptionStore interface {
	PutSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForTopic(ctx context.Context, kind, recordID string) ([]model.PushSubscription, error)
}

// PutSubscription creates or replaces a subscription and its topics.
func (s *gormStore) PutSubscription(ctx context.Context, sub *model.PushSubscription) error {
	topics := sub.Topics
	sub.Topics = nil
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(sub).Error; err != nil {
			return err
		}

		if err := tx.Where("endpoint = ?", sub.Endpoint).Delete(&model.SubscriptionTopic{}).Error; err != nil {
			return err
		}

		for i := range topics {
			topics[i].Endpoint = sub.Endpoint
		}
		if len(topics) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&topics).Error; err != nil {
				return err
			}
		}
		sub.Topics = topics
		return nil
	})
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).Preload("Topics").First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", endpoint).Delete(&model.SubscriptionTopic{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PushSubscription{Endpoint: endpoint}).Error
	})
}

func (s *gormStore) SubscriptionsForTopic(ctx context.Context, kind, recordID string) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_topics st ON st.endpoint = push_subscriptions.endpoint").
		Where("st.kind = ? AND st.record_id = ?", kind, recordID).
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}
