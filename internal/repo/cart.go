package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/football_store/internal/models"
)

// GetCartByUserID loads the cart with its items and their products.
func (r *GormRepo) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockCartByUserID takes a row lock on the user's cart (no-op on sqlite) without loading items.
func (r *GormRepo) LockCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) LockCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", cartID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) ListCartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateCart inserts an empty cart unless the user already has one; the stored cart is returned either way.
func (r *GormRepo) CreateCart(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Cart, error) {
	cart := models.Cart{UserID: userID, LastUpdated: now}
	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(&cart).Error; err != nil {
		return nil, err
	}

	var stored models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	stored.Items = []models.CartItem{}
	return &stored, nil
}

// IncrementCartItem is a single-statement upsert on (cart_id, product_id): it inserts a
// quantity-1 line or bumps the existing one, so concurrent adds never produce duplicate lines.
func (r *GormRepo) IncrementCartItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: 1}
	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("cart_items.quantity + ?", 1)}),
		}).
		Omit(clause.Associations).
		Create(&item).Error; err != nil {
		return nil, err
	}

	var stored models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *GormRepo) DeleteCartItemsByProduct(ctx context.Context, cartID, productID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteCartItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) TouchCart(ctx context.Context, cartID uuid.UUID, now time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("last_updated", now).Error
}

// StaleCartIDs lists carts that still hold items and were last mutated before cutoff.
func (r *GormRepo) StaleCartIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.DB.WithContext(ctx).Model(&models.Cart{}).
		Where("last_updated < ?", cutoff).
		Where("EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id)").
		Order("last_updated").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
