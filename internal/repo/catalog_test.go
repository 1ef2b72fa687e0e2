package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/football_store/internal/models"
	"github.com/Skotchmaster/football_store/internal/repo"
	"github.com/Skotchmaster/football_store/internal/testutil"
)

func TestSoftDeleteProductPurgesCartLines(t *testing.T) {
	db := testutil.NewDB(t)
	r := &repo.GormRepo{DB: db}
	ctx := context.Background()

	then := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := then.Add(time.Hour)

	p := testutil.CreateProduct(t, db, "Tiempo", "150.00", models.CategoryBoots)
	u := testutil.CreateUser(t, db, "sd@example.com")
	cart, err := r.CreateCart(ctx, u.ID, then)
	require.NoError(t, err)
	_, err = r.IncrementCartItem(ctx, cart.ID, p.ID)
	require.NoError(t, err)

	require.NoError(t, r.SoftDeleteProduct(ctx, p.ID, now))

	_, err = r.GetProduct(ctx, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	items, err := r.ListCartItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	reloaded, err := r.GetCartByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.LastUpdated.Equal(now), reloaded.LastUpdated.String())

	err = r.SoftDeleteProduct(ctx, p.ID, now)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSearchProductsByNameIsCaseInsensitive(t *testing.T) {
	db := testutil.NewDB(t)
	r := &repo.GormRepo{DB: db}
	ctx := context.Background()

	testutil.CreateProduct(t, db, "Copa Mundial", "140.00", models.CategoryBoots)
	testutil.CreateProduct(t, db, "Mundial Ball", "35.00", models.CategoryBalls)
	testutil.CreateProduct(t, db, "Home Jersey", "80.00", models.CategoryJerseys)
	gone := testutil.CreateProduct(t, db, "Mundial Retro", "60.00", models.CategoryJerseys)
	require.NoError(t, r.SoftDeleteProduct(ctx, gone.ID, time.Now().UTC()))

	found, err := r.SearchProductsByName(ctx, "MUNDIAL", 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Copa Mundial", found[0].Name)
	assert.Equal(t, "Mundial Ball", found[1].Name)

	found, err = r.SearchProductsByName(ctx, "100%", 0)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = r.SearchProductsByName(ctx, "mundial", 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Copa Mundial", found[0].Name)
}

func TestRandomInStockProductsRespectsLimit(t *testing.T) {
	db := testutil.NewDB(t)
	r := &repo.GormRepo{DB: db}
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D"} {
		testutil.CreateProduct(t, db, name, "10.00", models.CategoryBalls)
	}
	out := testutil.CreateProduct(t, db, "Sold out", "10.00", models.CategoryBalls)
	require.NoError(t, db.Model(out).Update("in_stock", false).Error)

	got, err := r.RandomInStockProducts(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, p := range got {
		assert.True(t, p.InStock)
	}

	got, err = r.RandomInStockProducts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}
