package brands_test

import (
	"context"
	"testing"

	"storefront-backend/internal/brands"
	"storefront-backend/internal/testdb"
	pkgerrors "storefront-backend/pkg/errors"
)

func newBrandFixture(t *testing.T) *brands.Service {
	t.Helper()
	svc, err := brands.NewService(brands.NewRepository(testdb.Open(t)))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestBrandCreateAndList(t *testing.T) {
	svc := newBrandFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, brands.CreateBrandInput{Name: "Zeta"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	retired, err := svc.Create(ctx, brands.CreateBrandInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	off := false
	if _, err := svc.Update(ctx, retired.ID, brands.UpdateBrandInput{IsActive: &off}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Zeta" {
		t.Fatalf("expected only Zeta, got %+v", rows)
	}
}

func TestBrandDuplicateNameConflicts(t *testing.T) {
	svc := newBrandFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, brands.CreateBrandInput{Name: "Acme"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(ctx, brands.CreateBrandInput{Name: "Acme"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}
