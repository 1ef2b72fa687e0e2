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
	"github.com/Skotchmaster/football_store/pkg/logging"
)

const DefaultCartRetention = 7 * 24 * time.Hour

type CartService struct {
	Repo      *repo.GormRepo
	Events    EventPublisher
	Retention time.Duration
	Now       func() time.Time
}

func (s *CartService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *CartService) retention() time.Duration {
	if s.Retention > 0 {
		return s.Retention
	}
	return DefaultCartRetention
}

// GetOrCreateCart returns the user's cart with items and products loaded,
// creating an empty one on first access.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id must be set: %w", ErrValidation)
	}

	cart, err := s.Repo.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.requireUser(ctx, s.Repo, userID); err != nil {
		return nil, err
	}
	return s.Repo.CreateCart(ctx, userID, s.now())
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, fmt.Errorf("user id and product id must be set: %w", ErrValidation)
	}

	now := s.now()
	var item *models.CartItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := s.requireUser(ctx, tx, userID); err != nil {
			return err
		}
		product, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return notFound(err, "product")
		}

		cart, err := lockOrCreateCart(ctx, tx, userID, now)
		if err != nil {
			return err
		}

		item, err = tx.IncrementCartItem(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		item.Product = product
		return tx.TouchCart(ctx, cart.ID, now)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, userID.String(), map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"cart_id":    item.CartID,
		"product_id": productID,
		"quantity":   item.Quantity,
		"at":         now,
	})
	return item, nil
}

// RemoveCartItem drops the product's line from the user's cart. Absent lines are not an error.
func (s *CartService) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return fmt.Errorf("user id and product id must be set: %w", ErrValidation)
	}

	now := s.now()
	var removed int64
	var cartID uuid.UUID
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.LockCartByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		cartID = cart.ID

		removed, err = tx.DeleteCartItemsByProduct(ctx, cart.ID, productID)
		if err != nil || removed == 0 {
			return err
		}
		return tx.TouchCart(ctx, cart.ID, now)
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		publish(ctx, s.Events, mykafka.TopicCartEvents, userID.String(), map[string]any{
			"type":       "cart_item_removed",
			"user_id":    userID,
			"cart_id":    cartID,
			"product_id": productID,
			"at":         now,
		})
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if cartID == uuid.Nil {
		return fmt.Errorf("cart id must be set: %w", ErrValidation)
	}

	now := s.now()
	var cart *models.Cart
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		cart, err = tx.LockCart(ctx, cartID)
		if err != nil {
			return notFound(err, "cart")
		}
		return clearCart(ctx, tx, cart.ID, now)
	})
	if err != nil {
		return err
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, cart.UserID.String(), map[string]any{
		"type":    "cart_cleared",
		"user_id": cart.UserID,
		"cart_id": cart.ID,
		"at":      now,
	})
	return nil
}

// ComputeCartTotal sums quantity times current product price. Lines without a
// loaded product contribute nothing.
func (s *CartService) ComputeCartTotal(cart *models.Cart) decimal.Decimal {
	total := decimal.Zero
	if cart == nil {
		return total
	}
	for _, it := range cart.Items {
		if it.Product == nil {
			continue
		}
		total = total.Add(models.LineTotal(it.Product.Price, it.Quantity))
	}
	return total
}

// ExpireAbandonedCarts empties every non-empty cart untouched for longer than
// the retention window and returns how many were cleared. A cart that fails to
// clear does not stop the sweep; its error is joined into the result.
func (s *CartService) ExpireAbandonedCarts(ctx context.Context) (int, error) {
	l := logging.FromContext(ctx).With("svc", "cart.expire")

	now := s.now()
	cutoff := now.Add(-s.retention())

	ids, err := s.Repo.StaleCartIDs(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cleared := 0
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		expired := false
		err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
			cart, err := tx.LockCart(ctx, id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			// touched since the scan
			if !cart.LastUpdated.Before(cutoff) {
				return nil
			}
			expired = true
			return clearCart(ctx, tx, cart.ID, now)
		})
		if err != nil {
			l.Error("expire_cart_error", "cart_id", id, "error", err)
			errs = append(errs, fmt.Errorf("expire cart %s: %w", id, err))
			continue
		}
		if expired {
			cleared++
		}
	}

	l.Info("abandoned_carts_cleared", "count", cleared, "failed", len(errs), "cutoff", cutoff)
	if cleared > 0 {
		publish(ctx, s.Events, mykafka.TopicCartEvents, "", map[string]any{
			"type":   "carts_expired",
			"count":  cleared,
			"cutoff": cutoff,
			"at":     now,
		})
	}
	return cleared, errors.Join(errs...)
}

func (s *CartService) requireUser(ctx context.Context, r *repo.GormRepo, userID uuid.UUID) error {
	ok, err := r.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user not found: %w", ErrNotFound)
	}
	return nil
}

// lockOrCreateCart must run inside a transaction.
func lockOrCreateCart(ctx context.Context, tx *repo.GormRepo, userID uuid.UUID, now time.Time) (*models.Cart, error) {
	cart, err := tx.LockCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created, err := tx.CreateCart(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return tx.LockCart(ctx, created.ID)
}

func clearCart(ctx context.Context, tx *repo.GormRepo, cartID uuid.UUID, now time.Time) error {
	if _, err := tx.DeleteCartItems(ctx, cartID); err != nil {
		return err
	}
	return tx.TouchCart(ctx, cartID, now)
}
