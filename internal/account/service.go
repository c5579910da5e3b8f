package account

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/auth"
	"github.com/mkovarik/social-api/internal/logging"
	"github.com/mkovarik/social-api/internal/user"
)

const minPasswordLength = 5

// Service orchestrates the account lifecycle: registration, email
// verification and profile updates.
type Service struct {
	users  UserStore
	tokens VerificationTokenIssuer
	email  EmailSender
	logger *logging.Logger
}

func NewService(users UserStore, tokens VerificationTokenIssuer, email EmailSender, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		email:  email,
		logger: logger,
	}
}

// RegisterInput carries the registration fields.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	EmailAddress    string
}

// UpdateInput carries the optional profile update fields. Empty fields
// are left untouched.
type UpdateInput struct {
	EmailAddress    string
	Password        string
	ConfirmPassword string
}

// Register creates a new unverified account and dispatches the
// verification message. It returns the created record together with the
// rendered notification payload, which is a function of the username, the
// new account id and the verification token.
func (s *Service) Register(ctx context.Context, input RegisterInput, session *user.User) (*user.User, string, error) {
	if session != nil {
		return nil, "", apperr.AlreadyLoggedIn
	}

	// Email addresses are stored lower-cased, so uniqueness is checked
	// against the lower-cased form as well.
	emailAddress := strings.ToLower(strings.TrimSpace(input.EmailAddress))

	if !isValidEmail(emailAddress) {
		return nil, "", apperr.InvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", apperr.InvalidPass
	}

	// Two independent uniqueness checks; either one fails the call.
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, "", apperr.UserOrEmailExists
	} else if !errors.Is(err, user.ErrNotFound) {
		s.logger.Error("register: username lookup failed", "error", err.Error())
		return nil, "", apperr.Default
	}

	if _, err := s.users.GetByEmail(ctx, emailAddress); err == nil {
		return nil, "", apperr.UserOrEmailExists
	} else if !errors.Is(err, user.ErrNotFound) {
		s.logger.Error("register: email lookup failed", "error", err.Error())
		return nil, "", apperr.Default
	}

	if input.Password != input.ConfirmPassword {
		return nil, "", apperr.PasswordMismatch
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("register: failed to hash password", "error", err.Error())
		return nil, "", apperr.Default
	}

	newUser, err := s.users.Create(ctx, input.Username, emailAddress, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return nil, "", apperr.UserOrEmailExists
		}
		s.logger.Error("register: failed to create user", "error", err.Error())
		return nil, "", apperr.Default
	}

	verificationToken, err := s.tokens.IssueVerificationToken(newUser.ID)
	if err != nil {
		s.logger.Error("register: failed to issue verification token", "error", err.Error())
		return nil, "", apperr.Default
	}

	message, err := s.email.RenderVerificationMessage(newUser.Username, newUser.ID, verificationToken)
	if err != nil {
		s.logger.Error("register: failed to render verification message", "error", err.Error())
		return nil, "", apperr.Default
	}

	// Delivery happens in the background; a failed send never fails the
	// registration, the user can be re-sent the message later.
	go func() {
		emailCtx := context.Background()
		if err := s.email.SendVerificationEmail(emailCtx, newUser.EmailAddress, newUser.Username, newUser.ID, verificationToken); err != nil {
			s.logger.Warn("failed to send verification email", "email", newUser.EmailAddress, "error", err.Error())
		}
	}()

	return newUser, message, nil
}

// Verify marks the account bound to the verification token as verified.
func (s *Service) Verify(ctx context.Context, token string) error {
	accountID, err := s.tokens.DecodeVerificationToken(token)
	if err != nil {
		return apperr.TokenExpired
	}

	if err := s.users.MarkVerified(ctx, accountID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.UserNotFound
		}
		s.logger.Error("verify: failed to mark account verified", "error", err.Error())
		return apperr.Default
	}

	return nil
}

// Update applies the supplied profile changes to the calling account.
// Fields omitted from the input are untouched.
func (s *Service) Update(ctx context.Context, input UpdateInput, session *user.User) (*user.User, error) {
	if session == nil {
		return nil, apperr.AuthFailed
	}

	if input.EmailAddress != "" && !isValidEmail(input.EmailAddress) {
		return nil, apperr.InvalidEmail
	}
	if input.Password != "" && len(input.Password) < minPasswordLength {
		return nil, apperr.InvalidPass
	}
	if input.Password != "" && input.Password != input.ConfirmPassword {
		return nil, apperr.PasswordMismatch
	}

	u, err := s.users.GetByID(ctx, session.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.UserNotFound
		}
		s.logger.Error("update: user lookup failed", "error", err.Error())
		return nil, apperr.Default
	}

	if input.EmailAddress != "" {
		emailAddress := strings.ToLower(strings.TrimSpace(input.EmailAddress))

		existing, err := s.users.GetByEmail(ctx, emailAddress)
		if err == nil && existing.ID != u.ID {
			return nil, apperr.UserOrEmailExists
		}
		if err != nil && !errors.Is(err, user.ErrNotFound) {
			s.logger.Error("update: email lookup failed", "error", err.Error())
			return nil, apperr.Default
		}

		if err := s.users.UpdateEmail(ctx, u.ID, emailAddress); err != nil {
			if errors.Is(err, user.ErrDuplicate) {
				return nil, apperr.UserOrEmailExists
			}
			s.logger.Error("update: failed to update email", "error", err.Error())
			return nil, apperr.Default
		}
	}

	if input.Password != "" {
		passwordHash, err := auth.HashPassword(input.Password)
		if err != nil {
			s.logger.Error("update: failed to hash password", "error", err.Error())
			return nil, apperr.Default
		}

		if err := s.users.UpdatePassword(ctx, u.ID, passwordHash); err != nil {
			s.logger.Error("update: failed to update password", "error", err.Error())
			return nil, apperr.Default
		}
	}

	updated, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		s.logger.Error("update: failed to reload user", "error", err.Error())
		return nil, apperr.Default
	}

	return updated, nil
}

// Details returns the calling account's record.
func (s *Service) Details(ctx context.Context, session *user.User) (*user.User, error) {
	if session == nil {
		return nil, apperr.AuthFailed
	}

	u, err := s.users.GetByID(ctx, session.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.UserNotFound
		}
		s.logger.Error("details: user lookup failed", "error", err.Error())
		return nil, apperr.Default
	}

	return u, nil
}

func isValidEmail(emailAddress string) bool {
	if emailAddress == "" || len(emailAddress) > 254 {
		return false
	}
	_, err := mail.ParseAddress(emailAddress)
	return err == nil
}
