package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/football_store/internal/models"
)

// CreateOrder writes the order row and then its items, both within the caller's transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	items := order.Items
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(&items).Error; err != nil {
		return err
	}
	order.Items = items
	return nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_on DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
