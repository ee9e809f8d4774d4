// Package testdb opens throwaway in-memory databases for repository and
// service tests.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront-backend/pkg/db/models"
)

// Open returns an isolated in-memory database with the full schema applied.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderLine{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Rating{},
		&models.Banner{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}
