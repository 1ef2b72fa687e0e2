package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/football_store/internal/models"
	"github.com/Skotchmaster/football_store/internal/mykafka"
	"github.com/Skotchmaster/football_store/internal/repo"
	"github.com/Skotchmaster/football_store/pkg/logging"
)

const (
	DefaultFeaturedLimit = 3
	DefaultSearchLimit   = 100
)

// ProductIndex is the optional name search index, implemented by *search.ProductIndex.
type ProductIndex interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q string, limit int) ([]uuid.UUID, error)
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Brand       string
	ImageURL    string
	InStock     bool
}

type CatalogService struct {
	Repo          *repo.GormRepo
	Index         ProductIndex
	Events        EventPublisher
	FeaturedLimit int
	SearchLimit   int
	Now           func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.reindex(ctx, p)
	s.productEvent(ctx, "product_created", p.ID)
	return p, nil
}

// UpdateProduct replaces every editable field of an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}

	s.reindex(ctx, p)
	s.productEvent(ctx, "product_updated", p.ID)
	return p, nil
}

// SoftDeleteProduct hides the product and removes it from every cart. Past orders keep it.
func (s *CatalogService) SoftDeleteProduct(ctx context.Context, id uuid.UUID) error {
	now := s.now()
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return tx.SoftDeleteProduct(ctx, id, now)
	})
	if err != nil {
		return notFound(err, "product")
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_delete_error", "product_id", id, "error", err)
		}
	}
	s.productEvent(ctx, "product_deleted", id)
	return nil
}

// GetFeaturedProducts picks a fresh random sample of in-stock products on every call.
func (s *CatalogService) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	limit := s.FeaturedLimit
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	return s.Repo.RandomInStockProducts(ctx, limit)
}

// ListAll orders products BOOTS, BALLS, JERSEYS and by name within a category.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Category.Priority() < items[j].Category.Priority()
	})
	return items, nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	c, ok := models.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q: %w", category, ErrValidation)
	}
	return s.Repo.ListProductsByCategory(ctx, c)
}

// SearchByName matches q as a case-insensitive substring of product names and
// returns at most SearchLimit products by name, whichever backend answers.
// A blank query matches nothing.
func (s *CatalogService) SearchByName(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Product{}, nil
	}

	if s.Index != nil {
		items, err := s.searchIndex(ctx, q)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "query", q, "error", err)
	}
	return s.Repo.SearchProductsByName(ctx, q, s.searchLimit())
}

func (s *CatalogService) searchIndex(ctx context.Context, q string) ([]models.Product, error) {
	ids, err := s.Index.Search(ctx, q, s.searchLimit())
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *CatalogService) searchLimit() int {
	if s.SearchLimit > 0 {
		return s.SearchLimit
	}
	return DefaultSearchLimit
}

// SeedProducts inserts the starter catalog into an empty products table and
// reports how many rows were written.
func (s *CatalogService) SeedProducts(ctx context.Context) (int, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.seed")

	count, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	products := starterCatalog()
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		for i := range products {
			if err := tx.CreateProduct(ctx, &products[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := range products {
		s.reindex(ctx, &products[i])
	}
	l.Info("catalog_seeded", "count", len(products))
	return len(products), nil
}

// RebuildIndex pushes every visible product into the search index.
func (s *CatalogService) RebuildIndex(ctx context.Context) error {
	if s.Index == nil {
		return nil
	}
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for i := range items {
		if err := s.Index.Index(ctx, &items[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) productEvent(ctx context.Context, typ string, id uuid.UUID) {
	publish(ctx, s.Events, mykafka.TopicProductEvents, id.String(), map[string]any{
		"type":       typ,
		"product_id": id,
		"at":         s.now(),
	})
}

func applyProductInput(p *models.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return fmt.Errorf("unknown category %q: %w", in.Category, ErrValidation)
	}
	brand, ok := models.ParseBrand(in.Brand)
	if !ok {
		return fmt.Errorf("unknown brand %q: %w", in.Brand, ErrValidation)
	}

	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price.Round(2)
	p.Category = category
	p.Brand = brand
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.InStock = in.InStock
	return nil
}
