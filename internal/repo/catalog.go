package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/football_store/internal/models"
)

func (r *GormRepo) active(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Product{}).Where("deleted = ?", false)
}

// GetProduct never returns soft-deleted products.
func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.active(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	items := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.active(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SoftDeleteProduct flags the product as deleted and drops its lines from every cart,
// touching the affected carts. Order items keep pointing at the row.
func (r *GormRepo) SoftDeleteProduct(ctx context.Context, id uuid.UUID, now time.Time) error {
	res := r.active(ctx).Where("id = ?", id).Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	var cartIDs []uuid.UUID
	if err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("product_id = ?", id).
		Distinct().Pluck("cart_id", &cartIDs).Error; err != nil {
		return err
	}
	if len(cartIDs) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Model(&models.Cart{}).
		Where("id IN ?", cartIDs).
		Update("last_updated", now).Error
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.active(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProductsByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	var items []models.Product
	if err := r.active(ctx).Where("category = ?", category).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchProductsByName returns at most limit matches ordered by name; limit <= 0 means no cap.
func (r *GormRepo) SearchProductsByName(ctx context.Context, q string, limit int) ([]models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

	query := r.active(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []models.Product
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// RandomInStockProducts samples uniformly; RANDOM() exists in both postgres and sqlite.
func (r *GormRepo) RandomInStockProducts(ctx context.Context, limit int) ([]models.Product, error) {
	items := make([]models.Product, 0, limit)
	if err := r.active(ctx).
		Where("in_stock = ?", true).
		Order("RANDOM()").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
