package home_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-backend/internal/banners"
	"storefront-backend/internal/categories"
	"storefront-backend/internal/home"
	"storefront-backend/internal/products"
	"storefront-backend/internal/testdb"
	"storefront-backend/pkg/db/models"
)

func newHomeFixture(t *testing.T) (*home.Service, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)

	catalogSvc, err := products.NewService(products.ServiceParams{
		Repo:       products.NewRepository(db),
		Categories: categories.NewRepository(db),
	})
	if err != nil {
		t.Fatalf("products.NewService: %v", err)
	}
	svc, err := home.NewService(home.ServiceParams{
		Banners: banners.NewRepository(db),
		Catalog: catalogSvc,
	})
	if err != nil {
		t.Fatalf("home.NewService: %v", err)
	}
	return svc, db
}

func TestPageComposesAllSections(t *testing.T) {
	svc, db := newHomeFixture(t)
	ctx := context.Background()

	if err := db.Create(&models.Banner{Title: "Summer Sale", ImageURL: "https://cdn/sale.png", IsActive: true}).Error; err != nil {
		t.Fatalf("seed banner: %v", err)
	}

	sale := decimal.RequireFromString("40.00")
	seed := []models.Product{
		{Name: "Featured", Price: decimal.RequireFromString("60.00"), CategoryID: uuid.New(), IsActive: true, IsFeatured: true},
		{Name: "Fresh", Price: decimal.RequireFromString("30.00"), CategoryID: uuid.New(), IsActive: true},
		{Name: "Discounted", Price: decimal.RequireFromString("50.00"), SalePrice: &sale, CategoryID: uuid.New(), IsActive: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
	rating := models.Rating{UserID: uuid.New(), ProductID: seed[1].ID, Stars: 5}
	if err := db.Create(&rating).Error; err != nil {
		t.Fatalf("seed rating: %v", err)
	}

	page, err := svc.Page(ctx)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(page.Banners) != 1 || page.Banners[0].Title != "Summer Sale" {
		t.Fatalf("unexpected banners %+v", page.Banners)
	}
	if len(page.Featured) != 1 || page.Featured[0].Name != "Featured" {
		t.Fatalf("unexpected featured %+v", page.Featured)
	}
	if len(page.Newest) != 3 {
		t.Fatalf("expected all 3 products in newest, got %d", len(page.Newest))
	}
	if len(page.TopRated) != 1 || page.TopRated[0].Name != "Fresh" {
		t.Fatalf("unexpected top rated %+v", page.TopRated)
	}
	if len(page.OnSale) != 1 || page.OnSale[0].Name != "Discounted" {
		t.Fatalf("unexpected on sale %+v", page.OnSale)
	}
}
