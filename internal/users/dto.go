package users

import (
	"time"

	"github.com/google/uuid"

	"storefront-backend/pkg/db/models"
	"storefront-backend/pkg/enums"
)

// CreateUserDTO carries the validated fields required to insert a user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	Address      *string
	DateOfBirth  *time.Time
	Role         enums.UserRole
}

// ToModel maps the DTO onto a persistable user model.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	return &models.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Phone:        d.Phone,
		Address:      d.Address,
		DateOfBirth:  d.DateOfBirth,
		Role:         role,
		IsActive:     true,
	}
}

// UpdateProfileDTO holds optional profile mutations.
type UpdateProfileDTO struct {
	Name        *string
	Phone       *string
	Address     *string
	DateOfBirth *time.Time
}

// ProfileDTO is the user shape returned to clients.
type ProfileDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Phone       *string        `json:"phone,omitempty"`
	Address     *string        `json:"address,omitempty"`
	Role        enums.UserRole `json:"role"`
	IsVerified  bool           `json:"is_verified"`
	DateOfBirth *time.Time     `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewProfileDTO maps a user model to its public shape.
func NewProfileDTO(user *models.User) *ProfileDTO {
	if user == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Phone:       user.Phone,
		Address:     user.Address,
		Role:        user.Role,
		IsVerified:  user.IsVerified,
		DateOfBirth: user.DateOfBirth,
		CreatedAt:   user.CreatedAt,
	}
}
