package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestVariantMigrationEnforcesStockInvariants(t *testing.T) {
	content := readMigration(t, "*_create_catalog.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS product_variants",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (amount >= 0)",
		"DROP TABLE IF EXISTS product_variants",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrderMigrationFreezesPricing(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_lines",
		"unit_price DECIMAL(12,2) NOT NULL",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRatingMigrationBoundsStars(t *testing.T) {
	content := readMigration(t, "*_create_ratings_banners_notifications.sql")

	if !strings.Contains(content, "CHECK (stars BETWEEN 1 AND 5)") {
		t.Error("missing stars bound check")
	}
	if !strings.Contains(content, "UNIQUE KEY ratings_user_product_key (user_id, product_id)") {
		t.Error("missing one-rating-per-user constraint")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
