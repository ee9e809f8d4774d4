package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"storefront-backend/internal/users"
	pkgAuth "storefront-backend/pkg/auth"
	"storefront-backend/pkg/config"
	"storefront-backend/pkg/db/models"
	"storefront-backend/pkg/enums"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/security"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    32768,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTCfg = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "storefront-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 1440,
}

type fakeUserRepo struct {
	byEmail     map[string]*models.User
	lastLogin   map[uuid.UUID]time.Time
	newHash     map[uuid.UUID]string
	verified    map[uuid.UUID]bool
	createCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:   map[string]*models.User{},
		lastLogin: map[uuid.UUID]time.Time{},
		newHash:   map[uuid.UUID]string{},
		verified:  map[uuid.UUID]bool{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	f.createCalls++
	user := dto.ToModel()
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	f.newHash[id] = hash
	return nil
}

func (f *fakeUserRepo) MarkVerified(_ context.Context, id uuid.UUID) error {
	f.verified[id] = true
	return nil
}

type fakeSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	if provided != "refresh-"+oldAccessID {
		return "", "", errInvalidRefreshForTest
	}
	newID := uuid.NewString()
	return newID, "refresh-" + newID, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

var errInvalidRefreshForTest = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")

type fakeCodeStore struct {
	values map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{values: map[string]string{}}
}

func (f *fakeCodeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeCodeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeCodeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeCodeStore) VerifyCodeKey(userID string) string {
	return "verify:" + userID
}

func (f *fakeCodeStore) ResetCodeKey(userID string) string {
	return "reset:" + userID
}

type authFixture struct {
	service Service
	repo    *fakeUserRepo
	session *fakeSessionManager
	codes   *fakeCodeStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newFakeUserRepo()
	sess := &fakeSessionManager{}
	codes := newFakeCodeStore()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sess,
		CodeStore:      codes,
		JWTConfig:      testJWTCfg,
		PasswordConfig: testPasswordCfg,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &authFixture{service: svc, repo: repo, session: sess, codes: codes}
}

func (fx *authFixture) seedUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Seeded User",
		Role:         enums.UserRoleUser,
		IsActive:     active,
	}
	fx.repo.byEmail[email] = user
	return user
}

func assertErrorCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, typed.Code(), err)
	}
}

func TestSignupCreatesUserAndIssuesTokens(t *testing.T) {
	fx := newAuthFixture(t)

	result, err := fx.service.Signup(context.Background(), SignupInput{
		Email:    "  New.Customer@Example.COM ",
		Password: "s3cret-password",
		Name:     "New Customer",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if result.User == nil || result.User.Email != "new.customer@example.com" {
		t.Fatalf("expected normalized email on profile, got %+v", result.User)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected non-empty token pair")
	}
	if result.Tokens.ExpiresIn != testJWTCfg.ExpirationMinutes*60 {
		t.Fatalf("unexpected expires_in %d", result.Tokens.ExpiresIn)
	}
	if len(fx.session.generated) != 1 {
		t.Fatalf("expected one session, got %d", len(fx.session.generated))
	}

	verifyKey := fx.codes.VerifyCodeKey(result.User.ID.String())
	code, ok := fx.codes.values[verifyKey]
	if !ok {
		t.Fatal("expected verification code to be stored")
	}
	if len(code) != authCodeLength {
		t.Fatalf("expected %d digit code, got %q", authCodeLength, code)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTCfg, result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Fatalf("claims user %s != created user %s", claims.UserID, result.User.ID)
	}
	if claims.Role != enums.UserRoleUser {
		t.Fatalf("expected default role, got %s", claims.Role)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "taken@example.com", "whatever-pass", true)

	_, err := fx.service.Signup(context.Background(), SignupInput{
		Email:    "taken@example.com",
		Password: "another-pass",
		Name:     "Dup",
	})
	assertErrorCode(t, err, pkgerrors.CodeConflict)
	if fx.repo.createCalls != 0 {
		t.Fatalf("expected no create call, got %d", fx.repo.createCalls)
	}
}

func TestLoginSucceedsAndRecordsLastLogin(t *testing.T) {
	fx := newAuthFixture(t)
	user := fx.seedUser(t, "shopper@example.com", "correct-horse", true)

	result, err := fx.service.Login(context.Background(), LoginInput{
		Email:    "Shopper@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.User.ID != user.ID {
		t.Fatalf("unexpected user %s", result.User.ID)
	}
	if _, ok := fx.repo.lastLogin[user.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}
	if len(fx.session.generated) != 1 {
		t.Fatalf("expected one refresh session, got %d", len(fx.session.generated))
	}
}

func TestLoginRejectsBadPasswordAndInactive(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "shopper@example.com", "correct-horse", true)
	fx.seedUser(t, "banned@example.com", "correct-horse", false)

	cases := []struct {
		name  string
		input LoginInput
	}{
		{"wrong password", LoginInput{Email: "shopper@example.com", Password: "wrong"}},
		{"unknown email", LoginInput{Email: "ghost@example.com", Password: "correct-horse"}},
		{"inactive account", LoginInput{Email: "banned@example.com", Password: "correct-horse"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Login(context.Background(), tc.input)
			assertErrorCode(t, err, pkgerrors.CodeUnauthorized)
			if !strings.Contains(err.Error(), invalidCredentialsMessage) {
				t.Fatalf("expected generic message, got %v", err)
			}
		})
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "shopper@example.com", "correct-horse", true)

	login, err := fx.service.Login(context.Background(), LoginInput{
		Email:    "shopper@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	pair, err := fx.service.Refresh(context.Background(), login.Tokens.AccessToken, login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.AccessToken == login.Tokens.AccessToken {
		t.Fatal("expected a new access token")
	}
	if pair.RefreshToken == login.Tokens.RefreshToken {
		t.Fatal("expected a new refresh token")
	}
	if _, err := pkgAuth.ParseAccessToken(testJWTCfg, pair.AccessToken); err != nil {
		t.Fatalf("new access token invalid: %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	fx := newAuthFixture(t)
	if err := fx.service.Logout(context.Background(), "some-access-id"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(fx.session.revoked) != 1 || fx.session.revoked[0] != "some-access-id" {
		t.Fatalf("expected revoke of some-access-id, got %v", fx.session.revoked)
	}

	err := fx.service.Logout(context.Background(), "  ")
	assertErrorCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestForgotPasswordHidesUnknownAccounts(t *testing.T) {
	fx := newAuthFixture(t)
	if err := fx.service.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("expected nil for unknown email, got %v", err)
	}
	if len(fx.codes.values) != 0 {
		t.Fatalf("expected no code stored, got %v", fx.codes.values)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	fx := newAuthFixture(t)
	user := fx.seedUser(t, "shopper@example.com", "old-password", true)

	if err := fx.service.ForgotPassword(context.Background(), "shopper@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	resetKey := fx.codes.ResetCodeKey(user.ID.String())
	code, ok := fx.codes.values[resetKey]
	if !ok {
		t.Fatal("expected reset code to be stored")
	}

	err := fx.service.ResetPassword(context.Background(), "shopper@example.com", "000000", "new-password")
	assertErrorCode(t, err, pkgerrors.CodeUnauthorized)

	if err := fx.service.ResetPassword(context.Background(), "shopper@example.com", code, "new-password"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	hash, ok := fx.repo.newHash[user.ID]
	if !ok {
		t.Fatal("expected password hash update")
	}
	valid, err := security.VerifyPassword("new-password", hash)
	if err != nil || !valid {
		t.Fatalf("new hash does not verify: valid=%v err=%v", valid, err)
	}
	if _, stillThere := fx.codes.values[resetKey]; stillThere {
		t.Fatal("expected reset code to be consumed")
	}
}

func TestVerifyAccountFlow(t *testing.T) {
	fx := newAuthFixture(t)

	result, err := fx.service.Signup(context.Background(), SignupInput{
		Email:    "fresh@example.com",
		Password: "s3cret-password",
		Name:     "Fresh",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	verifyKey := fx.codes.VerifyCodeKey(result.User.ID.String())
	code := fx.codes.values[verifyKey]

	err = fx.service.VerifyAccount(context.Background(), "fresh@example.com", "999999")
	assertErrorCode(t, err, pkgerrors.CodeUnauthorized)

	if err := fx.service.VerifyAccount(context.Background(), "fresh@example.com", code); err != nil {
		t.Fatalf("VerifyAccount: %v", err)
	}
	if !fx.repo.verified[result.User.ID] {
		t.Fatal("expected user to be marked verified")
	}
}
