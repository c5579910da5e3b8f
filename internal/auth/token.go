package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/user"
)

// Token purposes. Access, refresh and verification tokens share the same
// signing key but carry a purpose claim so one kind can never be presented
// as another.
const (
	purposeAccess  = "access"
	purposeRefresh = "refresh"
	purposeVerify  = "verify"
)

const verificationTokenDuration = 24 * time.Hour

// Claims carried by access and refresh tokens.
type Claims struct {
	Username      string
	EmailAddress  string
	Authenticated bool
}

// TokenService issues and decodes PASETO v4.local tokens.
// Signing is stateless; the service keeps no token registry of its own.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewTokenService(key []byte, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey: symmetricKey,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}, nil
}

// IssueAccessToken mints a short-lived access token for the user.
func (s *TokenService) IssueAccessToken(u *user.User) (string, error) {
	return s.issueSessionToken(u, purposeAccess, s.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for the user.
func (s *TokenService) IssueRefreshToken(u *user.User) (string, error) {
	return s.issueSessionToken(u, purposeRefresh, s.refreshTTL)
}

func (s *TokenService) issueSessionToken(u *user.User, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(ttl))
	token.SetString("purpose", purpose)
	token.SetString("username", u.Username)
	token.SetString("email_address", u.EmailAddress)
	if err := token.Set("authenticated", true); err != nil {
		return "", fmt.Errorf("failed to set claim: %w", err)
	}

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// IssueVerificationToken mints a one-time token bound to a newly created
// account id, proving control of the registered email address.
func (s *TokenService) IssueVerificationToken(accountID uuid.UUID) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(verificationTokenDuration))
	token.SetString("purpose", purposeVerify)
	token.SetString("account_id", accountID.String())

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// DecodeRefreshToken validates a refresh token and returns its claims.
// Any failure (malformed, expired, wrong purpose) surfaces as the single
// TOKEN_EXPIRED condition; callers never learn which check failed.
func (s *TokenService) DecodeRefreshToken(tokenStr string) (*Claims, error) {
	return s.decodeSessionToken(tokenStr, purposeRefresh)
}

// DecodeAccessToken validates an access token and returns its claims.
func (s *TokenService) DecodeAccessToken(tokenStr string) (*Claims, error) {
	return s.decodeSessionToken(tokenStr, purposeAccess)
}

func (s *TokenService) decodeSessionToken(tokenStr, wantPurpose string) (*Claims, error) {
	token, err := paseto.NewParser().ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, apperr.TokenExpired
	}

	purpose, err := token.GetString("purpose")
	if err != nil || purpose != wantPurpose {
		return nil, apperr.TokenExpired
	}

	username, err := token.GetString("username")
	if err != nil {
		return nil, apperr.TokenExpired
	}

	emailAddress, err := token.GetString("email_address")
	if err != nil {
		return nil, apperr.TokenExpired
	}

	var authenticated bool
	if err := token.Get("authenticated", &authenticated); err != nil || !authenticated {
		return nil, apperr.TokenExpired
	}

	return &Claims{
		Username:      username,
		EmailAddress:  emailAddress,
		Authenticated: authenticated,
	}, nil
}

// DecodeVerificationToken validates a verification token and returns the
// account id it was bound to.
func (s *TokenService) DecodeVerificationToken(tokenStr string) (uuid.UUID, error) {
	token, err := paseto.NewParser().ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return uuid.Nil, apperr.TokenExpired
	}

	purpose, err := token.GetString("purpose")
	if err != nil || purpose != purposeVerify {
		return uuid.Nil, apperr.TokenExpired
	}

	accountIDStr, err := token.GetString("account_id")
	if err != nil {
		return uuid.Nil, apperr.TokenExpired
	}

	accountID, err := uuid.Parse(accountIDStr)
	if err != nil {
		return uuid.Nil, apperr.TokenExpired
	}

	return accountID, nil
}
