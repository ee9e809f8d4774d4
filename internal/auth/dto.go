package auth

import (
	"time"

	"storefront-backend/internal/users"
)

// SignupInput carries the validated registration payload.
type SignupInput struct {
	Email       string
	Password    string
	Name        string
	Phone       *string
	Address     *string
	DateOfBirth *time.Time
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// TokenPair is the access/refresh pair returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResult bundles the minted tokens with the authenticated profile.
type AuthResult struct {
	Tokens TokenPair         `json:"tokens"`
	User   *users.ProfileDTO `json:"user"`
}
