package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhq/revu/internal/store"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })

	return NewService(s, ttl)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "x", "longenough")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "not-an-email", "x", "longenough")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "a@example.com", "x", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "first", "password1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "A@Example.com ", "second", "password2")
	assert.ErrorIs(t, err, ErrEmailTaken, "emails are normalized before uniqueness")
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	u, err := svc.Register(ctx, "a@example.com", "tester", "password1")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, token, err := svc.Login(ctx, "a@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, token)

	authed, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	svc := newTestService(t, time.Millisecond)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "tester", "password1")
	require.NoError(t, err)

	_, token, err := svc.Login(ctx, "a@example.com", "password1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	svc := newTestService(t, 0)
	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
