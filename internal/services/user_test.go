package services

import (
	"context"
	"testing"

	"github.com/nimbusconsole/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *UserService {
	return NewUserService(store.NewMemoryUserRepository())
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	user, err := svc.Create(context.Background(), "ann@example.com", "Ann", "secret1")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, svc.VerifyPassword("secret1", user.PasswordHash))
	assert.False(t, svc.VerifyPassword("wrong", user.PasswordHash))
}

func TestUserService_CreateSaltsPerCall(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "a@example.com", "A", "samepass")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "b@example.com", "B", "samepass")
	require.NoError(t, err)

	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "dup@example.com", "First", "secret1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "dup@example.com", "Second", "secret2")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestUserService_VerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	assert.False(t, svc.VerifyPassword("secret1", "not-a-bcrypt-hash"))
	assert.False(t, svc.VerifyPassword("secret1", ""))
}
