package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkovarik/social-api/internal/user"
)

// UserStore is the slice of the credential store the session manager needs.
// *user.Repository satisfies it.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
}

// TokenIssuer signs and verifies session tokens. *TokenService satisfies it.
type TokenIssuer interface {
	IssueAccessToken(u *user.User) (string, error)
	IssueRefreshToken(u *user.User) (string, error)
	DecodeAccessToken(tokenStr string) (*Claims, error)
	DecodeRefreshToken(tokenStr string) (*Claims, error)
}
