package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/db/models"
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

// ListActive returns every active category ordered by level then name, which
// lets the service assemble the tree in a single pass.
func (r *Repository) ListActive(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("level ASC").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// HasChildren reports whether the category still has active descendants.
func (r *Repository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("parent_id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}

// SubtreeIDs collects the ids of the category and all active descendants.
func (r *Repository) SubtreeIDs(ctx context.Context, rootID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	children := map[uuid.UUID][]uuid.UUID{}
	for _, row := range rows {
		if row.ParentID != nil {
			children[*row.ParentID] = append(children[*row.ParentID], row.ID)
		}
	}

	ids := []uuid.UUID{rootID}
	for cursor := 0; cursor < len(ids); cursor++ {
		ids = append(ids, children[ids[cursor]]...)
	}
	return ids, nil
}
