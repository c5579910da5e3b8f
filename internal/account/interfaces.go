package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkovarik/social-api/internal/user"
)

// UserStore is the slice of the credential store the lifecycle manager needs.
// *user.Repository satisfies it.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByEmail(ctx context.Context, emailAddress string) (*user.User, error)
	Create(ctx context.Context, username, emailAddress, passwordHash string) (*user.User, error)
	UpdateEmail(ctx context.Context, userID uuid.UUID, emailAddress string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	MarkVerified(ctx context.Context, userID uuid.UUID) error
}

// VerificationTokenIssuer mints and decodes one-time email verification
// tokens. *auth.TokenService satisfies it.
type VerificationTokenIssuer interface {
	IssueVerificationToken(accountID uuid.UUID) (string, error)
	DecodeVerificationToken(tokenStr string) (uuid.UUID, error)
}

// EmailSender renders and delivers account notification messages.
type EmailSender interface {
	RenderVerificationMessage(username string, accountID uuid.UUID, token string) (string, error)
	SendVerificationEmail(ctx context.Context, toEmail, username string, accountID uuid.UUID, token string) error
}
