package account

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/auth"
	"github.com/mkovarik/social-api/internal/logging"
	"github.com/mkovarik/social-api/internal/user"
)

// fakeUserStore is an in-memory UserStore keyed by account id.
type fakeUserStore struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*user.User)}
}

func (s *fakeUserStore) add(u *user.User) {
	s.users[u.ID] = u
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, emailAddress string) (*user.User, error) {
	for _, u := range s.users {
		if u.EmailAddress == emailAddress {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *fakeUserStore) Create(_ context.Context, username, emailAddress, passwordHash string) (*user.User, error) {
	for _, u := range s.users {
		if u.Username == username || u.EmailAddress == emailAddress {
			return nil, user.ErrDuplicate
		}
	}
	u := &user.User{
		ID:           uuid.New(),
		Username:     username,
		EmailAddress: emailAddress,
		PasswordHash: passwordHash,
	}
	s.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) UpdateEmail(_ context.Context, userID uuid.UUID, emailAddress string) error {
	for _, u := range s.users {
		if u.ID != userID && u.EmailAddress == emailAddress {
			return user.ErrDuplicate
		}
	}
	u, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.EmailAddress = emailAddress
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	u, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) MarkVerified(_ context.Context, userID uuid.UUID) error {
	u, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.IsVerified = true
	return nil
}

// fakeEmailSender records deliveries on a channel so tests can wait for
// the background send.
type fakeEmailSender struct {
	sent chan string
}

func newFakeEmailSender() *fakeEmailSender {
	return &fakeEmailSender{sent: make(chan string, 1)}
}

func (s *fakeEmailSender) RenderVerificationMessage(username string, accountID uuid.UUID, token string) (string, error) {
	return fmt.Sprintf("Hello %s (%s), verify with %s", username, accountID, token), nil
}

func (s *fakeEmailSender) SendVerificationEmail(_ context.Context, toEmail, _ string, _ uuid.UUID, _ string) error {
	s.sent <- toEmail
	return nil
}

func newAccountFixture(t *testing.T) (*Service, *fakeUserStore, *fakeEmailSender) {
	t.Helper()

	store := newFakeUserStore()
	sender := newFakeEmailSender()
	tokens, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), 15*time.Minute, time.Hour)
	require.NoError(t, err)

	svc := NewService(store, tokens, sender, logging.NewLogger(true))
	return svc, store, sender
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:        "alice",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		EmailAddress:    "alice@example.com",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rejects an already authenticated caller", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		_, _, err := svc.Register(ctx, validRegistration(), &user.User{ID: uuid.New()})
		require.ErrorIs(t, err, apperr.AlreadyLoggedIn)
	})

	t.Run("rejects invalid email addresses", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		input := validRegistration()
		input.EmailAddress = "not-an-email"
		_, _, err := svc.Register(ctx, input, nil)
		require.ErrorIs(t, err, apperr.InvalidEmail)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		input := validRegistration()
		input.Password = "abcd"
		input.ConfirmPassword = "abcd"
		_, _, err := svc.Register(ctx, input, nil)
		require.ErrorIs(t, err, apperr.InvalidPass)
	})

	t.Run("rejects mismatched password confirmation", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		input := validRegistration()
		input.ConfirmPassword = "something else"
		_, _, err := svc.Register(ctx, input, nil)
		require.ErrorIs(t, err, apperr.PasswordMismatch)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		svc, store, _ := newAccountFixture(t)
		store.add(&user.User{ID: uuid.New(), Username: "alice", EmailAddress: "other@example.com"})
		_, _, err := svc.Register(ctx, validRegistration(), nil)
		require.ErrorIs(t, err, apperr.UserOrEmailExists)
	})

	t.Run("rejects a taken email regardless of casing", func(t *testing.T) {
		svc, store, _ := newAccountFixture(t)
		store.add(&user.User{ID: uuid.New(), Username: "someone", EmailAddress: "alice@example.com"})
		input := validRegistration()
		input.EmailAddress = "ALICE@Example.COM"
		_, _, err := svc.Register(ctx, input, nil)
		require.ErrorIs(t, err, apperr.UserOrEmailExists)
	})

	t.Run("creates an unverified account and dispatches the message", func(t *testing.T) {
		svc, store, sender := newAccountFixture(t)

		created, message, err := svc.Register(ctx, validRegistration(), nil)
		require.NoError(t, err)
		require.Equal(t, "alice", created.Username)
		require.Equal(t, "alice@example.com", created.EmailAddress)
		require.False(t, created.IsVerified)
		require.Contains(t, message, "alice")
		require.Contains(t, message, created.ID.String())

		stored, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotEmpty(t, stored.PasswordHash)
		require.NotEqual(t, "hunter22", stored.PasswordHash)

		select {
		case to := <-sender.sent:
			require.Equal(t, "alice@example.com", to)
		case <-time.After(2 * time.Second):
			t.Fatal("verification email was never sent")
		}
	})

	t.Run("stores the email lower-cased", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		input := validRegistration()
		input.EmailAddress = "Alice@Example.COM"

		created, _, err := svc.Register(ctx, input, nil)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", created.EmailAddress)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		err := svc.Verify(ctx, "v4.local.garbage")
		require.ErrorIs(t, err, apperr.TokenExpired)
	})

	t.Run("marks the account verified", func(t *testing.T) {
		svc, store, _ := newAccountFixture(t)

		created, _, err := svc.Register(ctx, validRegistration(), nil)
		require.NoError(t, err)

		tokens, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), 15*time.Minute, time.Hour)
		require.NoError(t, err)
		token, err := tokens.IssueVerificationToken(created.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Verify(ctx, token))

		stored, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, stored.IsVerified)
	})

	t.Run("token for a deleted account", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)

		tokens, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), 15*time.Minute, time.Hour)
		require.NoError(t, err)
		token, err := tokens.IssueVerificationToken(uuid.New())
		require.NoError(t, err)

		err = svc.Verify(ctx, token)
		require.ErrorIs(t, err, apperr.UserNotFound)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous caller", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		_, err := svc.Update(ctx, UpdateInput{EmailAddress: "new@example.com"}, nil)
		require.ErrorIs(t, err, apperr.AuthFailed)
	})

	t.Run("rejects an email owned by another account", func(t *testing.T) {
		svc, store, _ := newAccountFixture(t)
		alice := &user.User{ID: uuid.New(), Username: "alice", EmailAddress: "alice@example.com"}
		store.add(alice)
		store.add(&user.User{ID: uuid.New(), Username: "bob", EmailAddress: "bob@example.com"})

		_, err := svc.Update(ctx, UpdateInput{EmailAddress: "bob@example.com"}, alice)
		require.ErrorIs(t, err, apperr.UserOrEmailExists)
	})

	t.Run("re-submitting your own email is fine", func(t *testing.T) {
		svc, store, _ := newAccountFixture(t)
		alice := &user.User{ID: uuid.New(), Username: "alice", EmailAddress: "alice@example.com"}
		store.add(alice)

		updated, err := svc.Update(ctx, UpdateInput{EmailAddress: "alice@example.com"}, alice)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", updated.EmailAddress)
	})

	t.Run("password change requires matching confirmation", func(t *testing.T) {
		svc, store, _ := newAccountFixture(t)
		alice := &user.User{ID: uuid.New(), Username: "alice", EmailAddress: "alice@example.com"}
		store.add(alice)

		_, err := svc.Update(ctx, UpdateInput{Password: "newpassword", ConfirmPassword: "different"}, alice)
		require.ErrorIs(t, err, apperr.PasswordMismatch)
	})

	t.Run("applies only the supplied fields", func(t *testing.T) {
		svc, store, _ := newAccountFixture(t)
		hash, err := auth.HashPassword("original")
		require.NoError(t, err)
		alice := &user.User{ID: uuid.New(), Username: "alice", EmailAddress: "alice@example.com", PasswordHash: hash}
		store.add(alice)

		updated, err := svc.Update(ctx, UpdateInput{EmailAddress: "new@example.com"}, alice)
		require.NoError(t, err)
		require.Equal(t, "new@example.com", updated.EmailAddress)
		require.Equal(t, hash, updated.PasswordHash)

		updated, err = svc.Update(ctx, UpdateInput{Password: "newpassword", ConfirmPassword: "newpassword"}, alice)
		require.NoError(t, err)
		require.True(t, auth.VerifyPassword(updated.PasswordHash, "newpassword"))
		require.Equal(t, "new@example.com", updated.EmailAddress)
	})
}

func TestDetails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous caller", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		_, err := svc.Details(ctx, nil)
		require.ErrorIs(t, err, apperr.AuthFailed)
	})

	t.Run("record vanished since authentication", func(t *testing.T) {
		svc, _, _ := newAccountFixture(t)
		_, err := svc.Details(ctx, &user.User{ID: uuid.New()})
		require.ErrorIs(t, err, apperr.UserNotFound)
	})

	t.Run("returns the stored record", func(t *testing.T) {
		svc, store, _ := newAccountFixture(t)
		alice := &user.User{ID: uuid.New(), Username: "alice", EmailAddress: "alice@example.com", IsVerified: true}
		store.add(alice)

		u, err := svc.Details(ctx, alice)
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
		require.True(t, u.IsVerified)
	})
}
