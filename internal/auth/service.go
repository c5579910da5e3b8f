package auth

import (
	"context"
	"errors"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/logging"
	"github.com/mkovarik/social-api/internal/user"
)

// TokenPair is the payload of a successful login or refresh.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Service orchestrates the session lifecycle: login, refresh-token
// rotation and logout. The service enforces a single-session-per-user
// policy: at most one refresh token is valid for an account at any time,
// stored on the user record. Issuing a new one (login or refresh)
// invalidates the previous one immediately; logout clears it.
type Service struct {
	users  UserStore
	tokens TokenIssuer
	logger *logging.Logger
}

func NewService(users UserStore, tokens TokenIssuer, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login authenticates a user by username and password and starts a new
// session. A request that already carries an authenticated session is
// rejected rather than silently rotated.
func (s *Service) Login(ctx context.Context, username, password string, session *user.User) (*TokenPair, error) {
	if session != nil {
		return nil, apperr.AlreadyLoggedIn
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.UserNotFound
		}
		s.logger.Error("login: user lookup failed", "error", err.Error())
		return nil, apperr.Default
	}

	if !VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.PasswordMismatch
	}

	if !u.IsVerified {
		return nil, apperr.MissingValidation
	}

	return s.issuePair(ctx, u)
}

// Refresh exchanges a valid refresh token for a new token pair. Rotation
// is single-use: the presented token must match the stored one exactly,
// and issuing the new pair overwrites it, so presenting the same token a
// second time always fails even before its timed expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.DecodeRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.TokenExpired
	}

	u, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.TokenExpired
		}
		s.logger.Error("refresh: user lookup failed", "error", err.Error())
		return nil, apperr.Default
	}

	// A mismatch means the token was already rotated away or the session
	// was logged out; treat reuse of a superseded token as expired.
	if u.RefreshToken == "" || u.RefreshToken != refreshToken {
		return nil, apperr.TokenExpired
	}

	return s.issuePair(ctx, u)
}

// Logout ends the current session. After logout any previously issued
// refresh token for the user is unusable.
func (s *Service) Logout(ctx context.Context, session *user.User) (string, error) {
	if session == nil {
		return "", apperr.LogoutError
	}

	if err := s.users.UpdateRefreshToken(ctx, session.ID, ""); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", apperr.UserNotFound
		}
		s.logger.Error("logout: failed to clear refresh token", "error", err.Error())
		return "", apperr.Default
	}

	return "Logout successful !", nil
}

func (s *Service) issuePair(ctx context.Context, u *user.User) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(u)
	if err != nil {
		s.logger.Error("failed to issue access token", "error", err.Error())
		return nil, apperr.Default
	}

	refreshToken, err := s.tokens.IssueRefreshToken(u)
	if err != nil {
		s.logger.Error("failed to issue refresh token", "error", err.Error())
		return nil, apperr.Default
	}

	// Overwriting the stored token is what invalidates any outstanding
	// session for this user.
	if err := s.users.UpdateRefreshToken(ctx, u.ID, refreshToken); err != nil {
		s.logger.Error("failed to persist refresh token", "error", err.Error())
		return nil, apperr.Default
	}

	return &TokenPair{
		Token:        accessToken,
		RefreshToken: refreshToken,
	}, nil
}
