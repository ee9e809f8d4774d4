// Package notifications stores and serves in-app notifications. Writes are
// best-effort side effects of order activity and must never fail the
// operation that triggered them.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/db/models"
	"storefront-backend/pkg/enums"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/pagination"
)

// NotificationDTO is the public notification shape.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// ListResult is one keyset page of notifications.
type ListResult struct {
	Items      []NotificationDTO `json:"items"`
	NextCursor *string           `json:"next_cursor,omitempty"`
	Unread     int64             `json:"unread"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByUser pages newest-first with a (created_at, id) keyset cursor,
// optionally narrowed to unread rows.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int, unreadOnly bool) ([]models.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if cursor != nil {
		q = q.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	var rows []models.Notification
	err := q.Find(&rows).Error
	return rows, err
}

func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkRead stamps one unread notification owned by the user.
func (r *Repository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		UpdateColumn("read_at", at)
	return res.RowsAffected, res.Error
}

// MarkAllRead stamps every unread notification for the user.
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		UpdateColumn("read_at", at)
	return res.RowsAffected, res.Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var row models.Notification
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

type repository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int, unreadOnly bool) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
}

type Service struct {
	repo repository
}

func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	return &Service{repo: repo}, nil
}

// Notify persists a notification row. Callers treat failure as non-fatal.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	n := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create notification")
	}
	return nil
}

// List returns one page of the caller's notifications plus the unread count.
// unreadOnly narrows the page to rows not yet marked read.
func (s *Service) List(ctx context.Context, userID uuid.UUID, cursorStr string, limit int, unreadOnly bool) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(cursorStr)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit = pagination.NormalizeLimit(limit)

	rows, err := s.repo.ListByUser(ctx, userID, cursor, limit+1, unreadOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list notifications")
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unread")
	}

	result := &ListResult{Unread: unread}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	result.Items = make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		result.Items = append(result.Items, NotificationDTO{
			ID:        row.ID,
			Type:      row.Type,
			Title:     row.Title,
			Message:   row.Message,
			ReadAt:    row.ReadAt,
			CreatedAt: row.CreatedAt,
		})
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

// MarkRead stamps one notification. Re-reading an already read notification
// is a no-op; reading someone else's is NOT_FOUND.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := s.repo.MarkRead(ctx, userID, id, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark notification read")
	}
	if affected == 0 {
		row, err := s.repo.FindByID(ctx, id)
		if err != nil || row.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		// Already read.
	}
	return nil
}

// MarkAllRead stamps every unread notification and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark all notifications read")
	}
	return affected, nil
}
