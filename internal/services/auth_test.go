package services

import (
	"context"
	"testing"

	"webcarros-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(repository.NewInMemoryStore(), "test-secret")

	t.Run("Register", func(t *testing.T) {
		user, token, err := svc.Register(ctx, "A", "a@a.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, "A", user.Name)
		assert.Equal(t, "a@a.com", user.Email)
		assert.NotEqual(t, "123456", user.PasswordHash)
		require.NotEmpty(t, token)

		userID, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("RegisterDuplicateEmail", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "B", "a@a.com", "654321")
		assert.ErrorIs(t, err, ErrEmailInUse)
	})

	t.Run("Login", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "a@a.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, "A", user.Name)

		userID, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "a@a.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("LoginUnknownEmail", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@a.com", "123456")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("LogoutRevokesToken", func(t *testing.T) {
		_, token, err := svc.Login(ctx, "a@a.com", "123456")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(token))

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("LogoutLeavesOtherSessionsAlone", func(t *testing.T) {
		_, first, err := svc.Login(ctx, "a@a.com", "123456")
		require.NoError(t, err)
		_, second, err := svc.Login(ctx, "a@a.com", "123456")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(first))

		_, err = svc.ValidateToken(second)
		assert.NoError(t, err)
	})

	t.Run("ValidateGarbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("ValidateForeignSignature", func(t *testing.T) {
		other := NewAuthService(repository.NewInMemoryStore(), "other-secret")
		_, token, err := other.Register(ctx, "C", "c@c.com", "123456")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
