package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/football_store/internal/models"
	"github.com/Skotchmaster/football_store/internal/mykafka"
	"github.com/Skotchmaster/football_store/internal/repo"
)

var errEmptyCart = fmt.Errorf("cart is empty: %w", ErrInvalidState)

type OrderService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// PlaceOrder turns the user's cart into an order and empties the cart in one
// transaction. Unit prices are copied from the products at this moment.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id must be set: %w", ErrValidation)
	}

	now := s.now()
	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.LockCartByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errEmptyCart
		}
		if err != nil {
			return err
		}

		lines, err := tx.ListCartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return errEmptyCart
		}

		order, err = buildOrder(userID, now, lines)
		if err != nil {
			return err
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		return clearCart(ctx, tx, cart.ID, now)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicOrderEvents, userID.String(), map[string]any{
		"type":        "order_placed",
		"order_id":    order.ID,
		"user_id":     userID,
		"total_price": order.TotalPrice.StringFixed(2),
		"items":       len(order.Items),
		"at":          now,
	})
	return order, nil
}

func (s *OrderService) GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id must be set: %w", ErrValidation)
	}
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func buildOrder(userID uuid.UUID, now time.Time, lines []models.CartItem) (*models.Order, error) {
	order := &models.Order{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedOn: now,
		Items:     make([]models.OrderItem, 0, len(lines)),
	}

	total := decimal.Zero
	for _, line := range lines {
		if line.Product == nil {
			return nil, fmt.Errorf("cart line %s has no product", line.ID)
		}
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			Product:   line.Product,
		}
		total = total.Add(item.LineTotal())
		order.Items = append(order.Items, item)
	}
	order.TotalPrice = total
	return order, nil
}
