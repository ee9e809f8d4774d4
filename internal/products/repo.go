package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/db/models"
)

// effectivePrice is the SQL form of Product.EffectivePrice; it keeps price
// filters and price sorts consistent with what buyers are charged.
const effectivePrice = "COALESCE(NULLIF(sale_price, 0), price)"

const onSalePredicate = "sale_price IS NOT NULL AND sale_price > 0 AND sale_price < price"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) applyFilter(q *gorm.DB, filter ListFilter, categoryIDs []uuid.UUID) *gorm.DB {
	q = q.Where("is_active = ?", true)
	if filter.Keyword != "" {
		q = q.Where("name LIKE ?", "%"+filter.Keyword+"%")
	}
	if len(categoryIDs) > 0 {
		q = q.Where("category_id IN ?", categoryIDs)
	}
	if filter.BrandID != nil {
		q = q.Where("brand_id = ?", *filter.BrandID)
	}
	// Decimal binds as TEXT; bind floats so sqlite compares numerically too.
	if filter.PriceMin != nil {
		q = q.Where(effectivePrice+" >= ?", filter.PriceMin.InexactFloat64())
	}
	if filter.PriceMax != nil {
		q = q.Where(effectivePrice+" <= ?", filter.PriceMax.InexactFloat64())
	}
	if filter.Featured != nil {
		q = q.Where("is_featured = ?", *filter.Featured)
	}
	if filter.OnSale != nil {
		if *filter.OnSale {
			q = q.Where(onSalePredicate)
		} else {
			q = q.Where("NOT (" + onSalePredicate + ")")
		}
	}
	return q
}

// List runs the filtered catalog query and its matching count.
func (r *Repository) List(ctx context.Context, filter ListFilter, categoryIDs []uuid.UUID) ([]models.Product, int64, error) {
	base := r.applyFilter(r.db.WithContext(ctx).Model(&models.Product{}), filter, categoryIDs)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var order string
	switch filter.Sort {
	case SortPriceAsc:
		order = effectivePrice + " ASC"
	case SortPriceDesc:
		order = effectivePrice + " DESC"
	case SortName:
		order = "name ASC"
	default:
		order = "created_at DESC"
	}

	var rows []models.Product
	err := base.
		Preload("Variants").
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	return rows, total, err
}

// FindByID loads a product with variants and catalog relations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Category").
		Preload("Brand").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

// SaveVariant writes the full row back; the JSON-serialized image list only
// round-trips through struct saves.
func (r *Repository) SaveVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

func (r *Repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var row models.ProductVariant
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", variantID, productID).
		Delete(&models.ProductVariant{})
	return res.RowsAffected, res.Error
}

// Newest returns the most recently listed active products.
func (r *Repository) Newest(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Featured returns active products flagged for the home page.
func (r *Repository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// OnSale returns active products whose sale price undercuts the list price.
func (r *Repository) OnSale(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Where(onSalePredicate)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := base.
		Preload("Variants").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

// TopRated returns active products ranked by average stars. Products without
// ratings never appear.
func (r *Repository) TopRated(ctx context.Context, limit int) ([]models.Product, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("ratings.product_id").
		Joins("JOIN products ON products.id = ratings.product_id AND products.is_active = ?", true).
		Group("ratings.product_id").
		Order("AVG(ratings.stars) DESC").
		Order("COUNT(ratings.id) DESC").
		Limit(limit).
		Pluck("ratings.product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var rows []models.Product
	if err := r.db.WithContext(ctx).Preload("Variants").Find(&rows, "id IN ?", ids).Error; err != nil {
		return nil, err
	}

	// Restore ranking order lost by the IN query.
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}
