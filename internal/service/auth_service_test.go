package service

import (
	"context"
	"testing"
	"time"

	"ptapp/coaching-backend/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-do-not-use"

func newAuthService() (AuthService, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	return NewAuthService(userRepo, testJWTSecret, time.Hour), userRepo
}

func TestRegister_CreatesUser(t *testing.T) {
	svc, _ := newAuthService()

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "correct horse", domain.RoleClient)
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Empty(t, user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "correct horse", domain.RoleClient)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Alice", "alice@example.com", "different pass", domain.RoleTrainer)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), "", "alice@example.com", "pass", domain.RoleClient)
	assert.Error(t, err)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Bob", "bob@example.com", "hunter2hunter2", domain.RoleTrainer)
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	// The token carries the user's ID and role.
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleTrainer, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Bob", "bob@example.com", "hunter2hunter2", domain.RoleClient)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
