package accounts_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the full account lifecycle against a real database: register,
// login, token validation, self-service update and delete.
func TestAccountLifecycle(t *testing.T) {
	_, bunDB := setupUsersRepo(t)
	ctx := context.Background()

	repo := accounts.NewRepositoryManager(bunDB)
	repo.MustValidate()

	tokens := newTestTokenService(time.Hour)
	svc := accounts.NewService(repo, newTestHasher(), tokens)

	user, err := svc.Register(ctx, "Pepe Rone", "pepe@example.com", "password123", "early adopter")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, accounts.RoleUser, user.Role)

	t.Run("Duplicate registration is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "Pepe Again", "pepe@example.com", "password456", "")
		assert.ErrorIs(t, err, accounts.ErrDuplicateEmail)

		// The original record survives intact.
		existing, err := svc.Get(ctx, "pepe@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Pepe Rone", existing.Name)
	})

	var principal accounts.Principal

	t.Run("Login mints a verifiable token", func(t *testing.T) {
		token, err := svc.Login(ctx, "pepe@example.com", "password123")
		require.NoError(t, err)

		claims, err := tokens.Validate(token)
		require.NoError(t, err)

		var ok bool
		principal, ok = accounts.PrincipalFromClaims(claims)
		require.True(t, ok)
		assert.Equal(t, user.ID.String(), principal.SubjectID)
		assert.Equal(t, accounts.RoleUser, principal.Role)
	})

	t.Run("Wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, "pepe@example.com", "not-the-password")
		assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	})

	t.Run("Self-service update", func(t *testing.T) {
		updated, err := svc.Update(ctx, principal, "Pepe Prime", "password789")
		require.NoError(t, err)
		assert.Equal(t, "Pepe Prime", updated.Name)

		// Old password no longer works, new one does.
		_, err = svc.Login(ctx, "pepe@example.com", "password123")
		assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)

		_, err = svc.Login(ctx, "pepe@example.com", "password789")
		assert.NoError(t, err)
	})

	t.Run("Pagination sees the account", func(t *testing.T) {
		total, records, err := svc.List(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, records, 1)
		assert.Equal(t, "pepe@example.com", records[0].Email)
	})

	t.Run("Self-service delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, principal))

		_, err := svc.Get(ctx, "pepe@example.com")
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)

		_, err = svc.Login(ctx, "pepe@example.com", "password789")
		assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	})

	t.Run("Deleted address can register again", func(t *testing.T) {
		again, err := svc.Register(ctx, "Pepe Reborn", "pepe@example.com", "password123", "")
		require.NoError(t, err)
		assert.Equal(t, user.ID, again.ID)
	})
}
