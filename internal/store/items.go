package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"itemseek-backend/internal/model"
)

func (s *gormStore) ListItems(ctx context.Context, f ItemFilter) ([]model.Item, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	items := []model.Item{}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *gormStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	return getRecord[model.Item](ctx, s.db, id)
}

func (s *gormStore) CreateItem(ctx context.Context, item *model.Item) error {
	if item.ID == "" {
		item.ID = newID()
	}
	initVersion(&item.Versioned)
	item.LastUpdated = s.now()
	return createRecord(ctx, s.db, item)
}

// UpdateItem applies mutate under the item's lock and writes the audit entry
// it returns, if any, in the same transaction as the new quantity.
func (s *gormStore) UpdateItem(ctx context.Context, id string, mutate ItemMutation) (*model.Item, error) {
	return updateRecord(ctx, s, "item", id, func(tx *gorm.DB, item *model.Item) error {
		entry, err := mutate(item)
		if err != nil {
			return err
		}
		now := s.now()
		item.LastUpdated = now

		if entry == nil {
			return nil
		}
		entry.ID = newID()
		entry.ItemID = item.ID
		entry.CreatedAt = now
		return tx.Create(entry).Error
	})
}

func (s *gormStore) ListStockTransactions(ctx context.Context, itemID string, limit int) ([]model.StockTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	entries := []model.StockTransaction{}
	err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
