package store

import (
	"context"
	"errors"

	"github.com/revuhq/revu/internal/models"
)

// ErrNotFound is returned when a lookup matches no row. Owner-scoped review
// lookups return it both for missing ids and for ids owned by someone else,
// so the two cases are indistinguishable to callers.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for revu.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User, passHash string) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, string, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	// Sessions
	CreateSession(ctx context.Context, s *models.Session) error
	GetSessionUser(ctx context.Context, token string) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error

	// Reviews. All read and delete operations are filtered by userID;
	// there is no lookup by id alone.
	CreateReview(ctx context.Context, r *models.Review) error
	GetReview(ctx context.Context, userID, id string) (*models.Review, error)
	ListReviews(ctx context.Context, userID string) ([]*models.ReviewSummary, error)
	DeleteReview(ctx context.Context, userID, id string) (bool, error)

	Close() error
}
