package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
)

// TreeNode is a category with its direct children nested below it.
type TreeNode struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Level    int        `json:"level"`
	Children []TreeNode `json:"children"`
}

// CreateCategoryInput carries the admin payload for a new category.
type CreateCategoryInput struct {
	Name     string     `json:"name" validate:"required,min=1,max=255"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// UpdateCategoryInput holds optional admin mutations.
type UpdateCategoryInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type repository interface {
	ListActive(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo repository
}

func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	return &Service{repo: repo}, nil
}

// Tree assembles the active categories into their parent/child hierarchy.
// Nodes whose parent is missing or inactive surface as roots rather than
// disappearing.
func (s *Service) Tree(ctx context.Context) ([]TreeNode, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}

	present := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		present[row.ID] = true
	}

	childrenByParent := map[uuid.UUID][]models.Category{}
	var roots []models.Category
	for _, row := range rows {
		if row.ParentID != nil && present[*row.ParentID] {
			childrenByParent[*row.ParentID] = append(childrenByParent[*row.ParentID], row)
			continue
		}
		roots = append(roots, row)
	}

	var build func(row models.Category) TreeNode
	build = func(row models.Category) TreeNode {
		node := TreeNode{
			ID:       row.ID,
			Name:     row.Name,
			ParentID: row.ParentID,
			Level:    row.Level,
			Children: []TreeNode{},
		}
		for _, child := range childrenByParent[row.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	tree := make([]TreeNode, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, build(root))
	}
	return tree, nil
}

// List returns the active categories as a flat, ordered slice.
func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return rows, nil
}

// Detail returns one category, active or not.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return row, nil
}

// Create inserts a category, deriving its level from the parent.
func (s *Service) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	level := 0
	if input.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load parent category")
		}
		if !parent.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "parent category is inactive")
		}
		level = parent.Level + 1
	}

	category := &models.Category{
		Name:     name,
		ParentID: input.ParentID,
		Level:    level,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return category, nil
}

// Update renames or toggles a category. Deactivation is refused while active
// children remain so the tree never orphans silently.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.IsActive != nil {
		if !*input.IsActive {
			hasChildren, err := s.repo.HasChildren(ctx, id)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check children")
			}
			if hasChildren {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "category still has active children")
			}
		}
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
		}
	}
	return s.repo.FindByID(ctx, id)
}
