package controllers

import (
	"net/http"
	"time"

	"storefront-backend/api/responses"
	"storefront-backend/api/validators"
	"storefront-backend/internal/users"
	"storefront-backend/pkg/logger"
)

type updateProfileRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,min=3,max=32"`
	Address     *string    `json:"address,omitempty" validate:"omitempty,max=512"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// UserProfile returns the caller's own profile.
func UserProfile(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.Profile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// UserUpdateProfile applies partial profile mutations.
func UserUpdateProfile(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.UpdateProfile(r.Context(), userID, users.UpdateProfileDTO{
			Name:        req.Name,
			Phone:       req.Phone,
			Address:     req.Address,
			DateOfBirth: req.DateOfBirth,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// UserDeactivate disables the caller's account.
func UserDeactivate(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateAccount(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deactivated": true})
	}
}
