// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/football_store/internal/models"
	"github.com/Skotchmaster/football_store/internal/repo"
	pkgdb "github.com/Skotchmaster/football_store/pkg/db"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := pkgdb.SQLitePrefix + "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := pkgdb.Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	u := &models.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateProduct(t *testing.T, db *gorm.DB, name, price string, category models.Category) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Brand:       models.BrandNike,
		ImageURL:    "/images/" + name + ".jpg",
		InStock:     true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
