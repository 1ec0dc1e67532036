package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhq/revu/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrations twice must not error.
	require.NoError(t, s.Migrate(context.Background()))
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com", Name: "Ada"}
	require.NoError(t, s.CreateUser(ctx, u, "hash"))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "Ada", got.Name)

	_, err = s.GetUser(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers_GetByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com", Name: "Ada"}
	require.NoError(t, s.CreateUser(ctx, u, "secret-hash"))

	got, hash, err := s.GetUserByEmail(ctx, "  Ada@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "secret-hash", hash)

	_, _, err = s.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "ada@example.com"}, "h1"))
	err := s.CreateUser(ctx, &models.User{Email: "ada@example.com"}, "h2")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestUsers_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "a@example.com"}, "h"))
	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "b@example.com"}, "h"))

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSessions_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com"}
	require.NoError(t, s.CreateUser(ctx, u, "h"))

	sess := &models.Session{
		Token:     "tok-1",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSessionUser(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, s.DeleteSession(ctx, "tok-1"))
	_, err = s.GetSessionUser(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an unknown token is a no-op.
	assert.NoError(t, s.DeleteSession(ctx, "tok-1"))
}

func TestSessions_Expired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com"}
	require.NoError(t, s.CreateUser(ctx, u, "h"))

	sess := &models.Session{
		Token:     "expired",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, s.CreateSession(ctx, sess))

	_, err := s.GetSessionUser(ctx, "expired")
	assert.ErrorIs(t, err, ErrNotFound)
}

func sampleReview(userID, summary string) *models.Review {
	return &models.Review{
		UserID:   userID,
		Code:     "print('hi')",
		Language: "python",
		Output: models.ReviewOutput{
			Errors:         []string{},
			Improvements:   []string{"use logging"},
			SecurityIssues: []string{},
			CleanCode:      []string{},
			Complexity:     "O(1)",
			Summary:        summary,
		},
	}
}

func TestReviews_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com"}
	require.NoError(t, s.CreateUser(ctx, u, "h"))

	r := sampleReview(u.ID, "fine")
	require.NoError(t, s.CreateReview(ctx, r))
	assert.NotEmpty(t, r.ID)

	got, err := s.GetReview(ctx, u.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", got.Code)
	assert.Equal(t, "python", got.Language)
	assert.Equal(t, "fine", got.Output.Summary)
	assert.Equal(t, []string{"use logging"}, got.Output.Improvements)

	// Wrong owner looks identical to a missing review.
	_, err = s.GetReview(ctx, "someone-else", r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviews_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com"}
	require.NoError(t, s.CreateUser(ctx, u, "h"))

	for _, summary := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateReview(ctx, sampleReview(u.ID, summary)))
		time.Sleep(2 * time.Millisecond)
	}

	list, err := s.ListReviews(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Summary)
	assert.Equal(t, "second", list[1].Summary)
	assert.Equal(t, "first", list[2].Summary)
	assert.Equal(t, "python", list[0].Language)
}

func TestReviews_ListScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ada := &models.User{Email: "ada@example.com"}
	bob := &models.User{Email: "bob@example.com"}
	require.NoError(t, s.CreateUser(ctx, ada, "h"))
	require.NoError(t, s.CreateUser(ctx, bob, "h"))

	require.NoError(t, s.CreateReview(ctx, sampleReview(ada.ID, "ada's")))

	list, err := s.ListReviews(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReviews_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com"}
	require.NoError(t, s.CreateUser(ctx, u, "h"))

	r := sampleReview(u.ID, "gone soon")
	require.NoError(t, s.CreateReview(ctx, r))

	// Wrong owner deletes nothing.
	ok, err := s.DeleteReview(ctx, "someone-else", r.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteReview(ctx, u.ID, r.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteReview(ctx, u.ID, r.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
