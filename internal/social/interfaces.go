package social

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkovarik/social-api/internal/user"
)

// UserStore is the slice of the credential store the graph manager needs.
// *user.Repository satisfies it.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// EdgeStore persists follow edges. *Repository satisfies it.
type EdgeStore interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Followers(ctx context.Context, userID uuid.UUID) ([]user.Projection, error)
	Following(ctx context.Context, userID uuid.UUID) ([]user.Projection, error)
}
