package products_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-backend/internal/categories"
	"storefront-backend/internal/products"
	"storefront-backend/internal/testdb"
	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
)

type catalogFixture struct {
	db         *gorm.DB
	svc        *products.Service
	categories *categories.Service
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db := testdb.Open(t)
	catRepo := categories.NewRepository(db)
	catSvc, err := categories.NewService(catRepo)
	if err != nil {
		t.Fatalf("categories.NewService: %v", err)
	}
	svc, err := products.NewService(products.ServiceParams{
		Repo:       products.NewRepository(db),
		Categories: catRepo,
	})
	if err != nil {
		t.Fatalf("products.NewService: %v", err)
	}
	return &catalogFixture{db: db, svc: svc, categories: catSvc}
}

func (fx *catalogFixture) category(t *testing.T, name string, parent *uuid.UUID) uuid.UUID {
	t.Helper()
	cat, err := fx.categories.Create(context.Background(), categories.CreateCategoryInput{Name: name, ParentID: parent})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return cat.ID
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func (fx *catalogFixture) product(t *testing.T, input products.CreateProductInput) *products.DetailDTO {
	t.Helper()
	detail, err := fx.svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create product %q: %v", input.Name, err)
	}
	return detail
}

func TestListFiltersByKeywordAndPrice(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	cat := fx.category(t, "Shoes", nil)

	fx.product(t, products.CreateProductInput{Name: "Trail Runner", Price: dec("89.90"), CategoryID: cat})
	fx.product(t, products.CreateProductInput{Name: "Road Runner", Price: dec("129.00"), CategoryID: cat})
	fx.product(t, products.CreateProductInput{Name: "Sandal", Price: dec("25.00"), CategoryID: cat})

	result, err := fx.svc.List(ctx, products.ListFilter{Keyword: "Runner"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 2 || len(result.Items) != 2 {
		t.Fatalf("expected 2 runners, got total=%d items=%d", result.Total, len(result.Items))
	}

	max := dec("100.00")
	result, err = fx.svc.List(ctx, products.ListFilter{Keyword: "Runner", PriceMax: &max})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Trail Runner" {
		t.Fatalf("expected only Trail Runner under 100, got %+v", result.Items)
	}
}

func TestListPriceFilterUsesSalePrice(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	cat := fx.category(t, "Shoes", nil)

	fx.product(t, products.CreateProductInput{
		Name: "Discounted", Price: dec("200.00"), SalePrice: decPtr("80.00"), CategoryID: cat,
	})
	fx.product(t, products.CreateProductInput{Name: "Full Price", Price: dec("200.00"), CategoryID: cat})

	max := dec("100.00")
	result, err := fx.svc.List(ctx, products.ListFilter{PriceMax: &max})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Discounted" {
		t.Fatalf("expected sale price to satisfy the filter, got %+v", result.Items)
	}
	if !result.Items[0].EffectivePrice.Equal(dec("80.00")) {
		t.Fatalf("expected effective price 80.00, got %s", result.Items[0].EffectivePrice)
	}
}

func TestListCategoryFilterIncludesSubtree(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	clothing := fx.category(t, "Clothing", nil)
	shirts := fx.category(t, "Shirts", &clothing)
	shoes := fx.category(t, "Shoes", nil)

	fx.product(t, products.CreateProductInput{Name: "Jacket", Price: dec("150.00"), CategoryID: clothing})
	fx.product(t, products.CreateProductInput{Name: "Oxford Shirt", Price: dec("60.00"), CategoryID: shirts})
	fx.product(t, products.CreateProductInput{Name: "Sneaker", Price: dec("90.00"), CategoryID: shoes})

	result, err := fx.svc.List(ctx, products.ListFilter{CategoryID: &clothing})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected jacket and shirt via subtree, got %+v", result.Items)
	}
}

func TestListSortByPrice(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	cat := fx.category(t, "Shoes", nil)

	fx.product(t, products.CreateProductInput{Name: "Mid", Price: dec("50.00"), CategoryID: cat})
	fx.product(t, products.CreateProductInput{Name: "Cheap", Price: dec("10.00"), CategoryID: cat})
	fx.product(t, products.CreateProductInput{Name: "Pricey", Price: dec("90.00"), CategoryID: cat})

	result, err := fx.svc.List(ctx, products.ListFilter{Sort: products.SortPriceAsc})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := []string{result.Items[0].Name, result.Items[1].Name, result.Items[2].Name}
	want := []string{"Cheap", "Mid", "Pricey"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("price_asc order mismatch: got %v", got)
		}
	}

	_, err = fx.svc.List(ctx, products.ListFilter{Sort: "bogus"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for bogus sort, got %v", err)
	}
}

func TestSaleProductsOnlyListDiscounted(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	cat := fx.category(t, "Shoes", nil)

	fx.product(t, products.CreateProductInput{
		Name: "Discounted", Price: dec("100.00"), SalePrice: decPtr("70.00"), CategoryID: cat,
	})
	fx.product(t, products.CreateProductInput{Name: "Full Price", Price: dec("100.00"), CategoryID: cat})

	result, err := fx.svc.SaleProducts(ctx, 10, 0)
	if err != nil {
		t.Fatalf("SaleProducts: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Discounted" {
		t.Fatalf("expected only the discounted product, got %+v", result.Items)
	}
}

func TestDetailHidesInactiveFromBuyers(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	cat := fx.category(t, "Shoes", nil)

	created := fx.product(t, products.CreateProductInput{
		Name:       "Sneaker",
		Price:      dec("90.00"),
		CategoryID: cat,
		Variants: []products.VariantInput{
			{Amount: 5, ImageURLs: []string{"https://cdn/sneaker-1.png"}},
		},
	})

	detail, err := fx.svc.Detail(ctx, created.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if len(detail.Variants) != 1 || detail.Variants[0].Amount != 5 {
		t.Fatalf("unexpected variants %+v", detail.Variants)
	}
	if detail.TotalStock != 5 {
		t.Fatalf("expected total stock 5, got %d", detail.TotalStock)
	}

	if err := fx.svc.Delist(ctx, created.ID); err != nil {
		t.Fatalf("Delist: %v", err)
	}
	_, err = fx.svc.Detail(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND after delist, got %v", err)
	}
	if _, err := fx.svc.AdminDetail(ctx, created.ID); err != nil {
		t.Fatalf("AdminDetail should still load delisted product: %v", err)
	}
}

func TestCreateValidatesSalePrice(t *testing.T) {
	fx := newCatalogFixture(t)
	cat := fx.category(t, "Shoes", nil)

	_, err := fx.svc.Create(context.Background(), products.CreateProductInput{
		Name:       "Bad Sale",
		Price:      dec("50.00"),
		SalePrice:  decPtr("60.00"),
		CategoryID: cat,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestVariantUpsertAndDelete(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	cat := fx.category(t, "Shoes", nil)

	created := fx.product(t, products.CreateProductInput{Name: "Sneaker", Price: dec("90.00"), CategoryID: cat})

	red := "red"
	detail, err := fx.svc.UpsertVariant(ctx, created.ID, products.VariantInput{Color: &red, Amount: 3})
	if err != nil {
		t.Fatalf("UpsertVariant insert: %v", err)
	}
	if len(detail.Variants) != 1 || detail.Variants[0].Amount != 3 {
		t.Fatalf("unexpected variants after insert: %+v", detail.Variants)
	}

	variantID := detail.Variants[0].ID
	detail, err = fx.svc.UpsertVariant(ctx, created.ID, products.VariantInput{
		ID:        &variantID,
		Amount:    10,
		ImageURLs: []string{"https://cdn/red-1.png"},
	})
	if err != nil {
		t.Fatalf("UpsertVariant update: %v", err)
	}
	if detail.Variants[0].Amount != 10 {
		t.Fatalf("expected amount 10 after update, got %d", detail.Variants[0].Amount)
	}
	if len(detail.Variants[0].ImageURLs) != 1 {
		t.Fatalf("expected image list to persist, got %+v", detail.Variants[0].ImageURLs)
	}
	if detail.Variants[0].Color == nil || *detail.Variants[0].Color != "red" {
		t.Fatalf("expected untouched color, got %v", detail.Variants[0].Color)
	}

	if err := fx.svc.DeleteVariant(ctx, created.ID, variantID); err != nil {
		t.Fatalf("DeleteVariant: %v", err)
	}
	err = fx.svc.DeleteVariant(ctx, created.ID, variantID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND on second delete, got %v", err)
	}

	// A variant can never be moved under a different product.
	other := fx.product(t, products.CreateProductInput{
		Name: "Boot", Price: dec("120.00"), CategoryID: cat,
		Variants: []products.VariantInput{{Amount: 1}},
	})
	foreign := other.Variants[0].ID
	_, err = fx.svc.UpsertVariant(ctx, created.ID, products.VariantInput{ID: &foreign, Amount: 2})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for cross-product variant, got %v", err)
	}
}

func TestTopRatedRanksByAverageStars(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	cat := fx.category(t, "Shoes", nil)

	good := fx.product(t, products.CreateProductInput{Name: "Good", Price: dec("10.00"), CategoryID: cat})
	better := fx.product(t, products.CreateProductInput{Name: "Better", Price: dec("10.00"), CategoryID: cat})
	fx.product(t, products.CreateProductInput{Name: "Unrated", Price: dec("10.00"), CategoryID: cat})

	seedRating := func(productID uuid.UUID, stars int) {
		row := models.Rating{UserID: uuid.New(), ProductID: productID, Stars: stars}
		if err := fx.db.Create(&row).Error; err != nil {
			t.Fatalf("seed rating: %v", err)
		}
	}
	seedRating(good.ID, 3)
	seedRating(good.ID, 4)
	seedRating(better.ID, 5)

	rows, err := fx.svc.TopRated(ctx, 10)
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rated products, got %d", len(rows))
	}
	if rows[0].Name != "Better" || rows[1].Name != "Good" {
		t.Fatalf("unexpected ranking: %s then %s", rows[0].Name, rows[1].Name)
	}
}
