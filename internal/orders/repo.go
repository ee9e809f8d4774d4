package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/db/models"
	"storefront-backend/pkg/enums"
)

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

func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := base.
		Preload("Lines").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

// ListAll is the admin listing, optionally narrowed to one status.
func (r *Repository) ListAll(ctx context.Context, status *enums.OrderStatus, limit, offset int) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := base.
		Preload("Lines").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

// UpdateStatus writes the new status plus the cancellation stamp in one shot.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, cancelledAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"cancelled_at": cancelledAt,
		}).Error
}

// DecrementStock atomically reserves quantity from a variant. RowsAffected is
// zero when the remaining stock is insufficient; nothing is written in that
// case.
func (r *Repository) DecrementStock(ctx context.Context, variantID uuid.UUID, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND amount >= ?", variantID, quantity).
		UpdateColumn("amount", gorm.Expr("amount - ?", quantity))
	return res.RowsAffected, res.Error
}

// RestoreStock returns previously reserved quantity to a variant.
func (r *Repository) RestoreStock(ctx context.Context, variantID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("amount", gorm.Expr("amount + ?", quantity)).Error
}
