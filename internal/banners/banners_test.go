package banners_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"storefront-backend/internal/banners"
	"storefront-backend/internal/testdb"
	pkgerrors "storefront-backend/pkg/errors"
)

func newBannerFixture(t *testing.T) *banners.Service {
	t.Helper()
	svc, err := banners.NewService(banners.NewRepository(testdb.Open(t)))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestListActiveOrdersByPosition(t *testing.T) {
	svc := newBannerFixture(t)
	ctx := context.Background()

	second, err := svc.Create(ctx, banners.CreateBannerInput{Title: "Second", ImageURL: "https://cdn/second.png", Position: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	first, err := svc.Create(ctx, banners.CreateBannerInput{Title: "First", ImageURL: "https://cdn/first.png", Position: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	hidden, err := svc.Create(ctx, banners.CreateBannerInput{Title: "Hidden", ImageURL: "https://cdn/hidden.png", Position: 0})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	off := false
	if _, err := svc.Update(ctx, hidden.ID, banners.UpdateBannerInput{IsActive: &off}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rows, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 active banners, got %d", len(rows))
	}
	if rows[0].ID != first.ID || rows[1].ID != second.ID {
		t.Fatalf("unexpected order: %s then %s", rows[0].Title, rows[1].Title)
	}
}

func TestBannerDelete(t *testing.T) {
	svc := newBannerFixture(t)
	ctx := context.Background()

	banner, err := svc.Create(ctx, banners.CreateBannerInput{Title: "Sale", ImageURL: "https://cdn/sale.png"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, banner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	err = svc.Delete(ctx, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
