package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"storefront-backend/internal/users"
	pkgAuth "storefront-backend/pkg/auth"
	"storefront-backend/pkg/auth/session"
	"storefront-backend/pkg/config"
	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

const (
	verifyCodeTTL  = 24 * time.Hour
	resetCodeTTL   = 15 * time.Minute
	authCodeLength = 6
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	VerifyAccount(ctx context.Context, email, code string) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type codeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	VerifyCodeKey(userID string) string
	ResetCodeKey(userID string) string
}

type service struct {
	users       userRepository
	session     sessionManager
	codes       codeStore
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	CodeStore      codeStore
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.CodeStore == nil {
		return nil, fmt.Errorf("code store is required")
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		codes:       params.CodeStore,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Phone:        input.Phone,
		Address:      input.Address,
		DateOfBirth:  input.DateOfBirth,
	})
	if err != nil {
		if pkgerrors.IsDuplicateEntry(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	if err := s.issueVerifyCode(ctx, user); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", user.ID.String()), "auth.verify_code.issue_failed")
	}

	tokens, err := s.mintPair(ctx, user, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Tokens: *tokens, User: users.NewProfileDTO(user)}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	tokens, err := s.mintPair(ctx, user, now)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Tokens: *tokens, User: users.NewProfileDTO(user)}, nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	newAccessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	access, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: newRefresh,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// ForgotPassword always succeeds from the caller's view so account existence
// is not leaked.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	code, err := security.GenerateCode(authCodeLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset code")
	}
	if err := s.codes.Set(ctx, s.codes.ResetCodeKey(user.ID.String()), code, resetCodeTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset code")
	}

	// Delivery is out-of-band; the code lands in the mail queue via logs in dev.
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "user_id", user.ID.String()), "auth.reset_code.issued")
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid reset code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	key := s.codes.ResetCodeKey(user.ID.String())
	stored, err := s.codes.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid reset code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset code")
	}
	if stored != strings.TrimSpace(code) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid reset code")
	}

	hash, err := security.HashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	if err := s.codes.Del(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", user.ID.String()), "auth.reset_code.cleanup_failed")
	}
	return nil
}

func (s *service) VerifyAccount(ctx context.Context, email, code string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid verification code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.IsVerified {
		return nil
	}

	key := s.codes.VerifyCodeKey(user.ID.String())
	stored, err := s.codes.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid verification code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load verification code")
	}
	if stored != strings.TrimSpace(code) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid verification code")
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark verified")
	}
	if err := s.codes.Del(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", user.ID.String()), "auth.verify_code.cleanup_failed")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}

func (s *service) mintPair(ctx context.Context, user *models.User, now time.Time) (*TokenPair, error) {
	accessID := session.NewAccessID()
	access, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refresh, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}, nil
}

func (s *service) issueVerifyCode(ctx context.Context, user *models.User) error {
	code, err := security.GenerateCode(authCodeLength)
	if err != nil {
		return err
	}
	return s.codes.Set(ctx, s.codes.VerifyCodeKey(user.ID.String()), code, verifyCodeTTL)
}
