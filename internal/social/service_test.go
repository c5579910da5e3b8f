package social

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mkovarik/social-api/internal/apperr"
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
	return u, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

type edge struct {
	follower uuid.UUID
	followee uuid.UUID
}

// fakeEdgeStore keeps a single edge set, so the followers and following
// views always agree, the same way the edge table does.
type fakeEdgeStore struct {
	users *fakeUserStore
	edges []edge
}

func newFakeEdgeStore(users *fakeUserStore) *fakeEdgeStore {
	return &fakeEdgeStore{users: users}
}

func (s *fakeEdgeStore) Follow(_ context.Context, followerID, followeeID uuid.UUID) error {
	for _, e := range s.edges {
		if e.follower == followerID && e.followee == followeeID {
			return nil
		}
	}
	s.edges = append(s.edges, edge{follower: followerID, followee: followeeID})
	return nil
}

func (s *fakeEdgeStore) Unfollow(_ context.Context, followerID, followeeID uuid.UUID) error {
	for i, e := range s.edges {
		if e.follower == followerID && e.followee == followeeID {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeEdgeStore) Followers(_ context.Context, userID uuid.UUID) ([]user.Projection, error) {
	projections := []user.Projection{}
	for _, e := range s.edges {
		if e.followee == userID {
			u := s.users.users[e.follower]
			projections = append(projections, user.Projection{Username: u.Username, EmailAddress: u.EmailAddress})
		}
	}
	return projections, nil
}

func (s *fakeEdgeStore) Following(_ context.Context, userID uuid.UUID) ([]user.Projection, error) {
	projections := []user.Projection{}
	for _, e := range s.edges {
		if e.follower == userID {
			u := s.users.users[e.followee]
			projections = append(projections, user.Projection{Username: u.Username, EmailAddress: u.EmailAddress})
		}
	}
	return projections, nil
}

func newGraphFixture(t *testing.T) (*Service, *fakeUserStore, *fakeEdgeStore, *user.User, *user.User) {
	t.Helper()

	users := newFakeUserStore()
	edges := newFakeEdgeStore(users)
	svc := NewService(users, edges, logging.NewLogger(true))

	alice := &user.User{ID: uuid.New(), Username: "alice", EmailAddress: "alice@example.com"}
	bob := &user.User{ID: uuid.New(), Username: "bob", EmailAddress: "bob@example.com"}
	users.add(alice)
	users.add(bob)

	return svc, users, edges, alice, bob
}

func TestFollow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous caller", func(t *testing.T) {
		svc, _, _, _, _ := newGraphFixture(t)
		err := svc.Follow(ctx, "bob", nil)
		require.ErrorIs(t, err, apperr.AuthFailed)
	})

	t.Run("unknown target", func(t *testing.T) {
		svc, _, _, alice, _ := newGraphFixture(t)
		err := svc.Follow(ctx, "nobody", alice)
		require.ErrorIs(t, err, apperr.UserNotFound)
	})

	t.Run("following yourself is rejected", func(t *testing.T) {
		svc, _, _, alice, _ := newGraphFixture(t)
		err := svc.Follow(ctx, "alice", alice)
		require.ErrorIs(t, err, apperr.SelfFollow)
	})

	t.Run("both views agree on a new edge", func(t *testing.T) {
		svc, _, _, alice, bob := newGraphFixture(t)

		require.NoError(t, svc.Follow(ctx, "bob", alice))

		following, err := svc.Following(ctx, alice)
		require.NoError(t, err)
		require.Equal(t, []user.Projection{{Username: "bob", EmailAddress: "bob@example.com"}}, following)

		followers, err := svc.Followers(ctx, bob)
		require.NoError(t, err)
		require.Equal(t, []user.Projection{{Username: "alice", EmailAddress: "alice@example.com"}}, followers)
	})

	t.Run("re-following is a silent no-op", func(t *testing.T) {
		svc, _, edges, alice, _ := newGraphFixture(t)

		require.NoError(t, svc.Follow(ctx, "bob", alice))
		require.NoError(t, svc.Follow(ctx, "bob", alice))
		require.Len(t, edges.edges, 1)
	})

	t.Run("following is not mutual", func(t *testing.T) {
		svc, _, _, alice, bob := newGraphFixture(t)

		require.NoError(t, svc.Follow(ctx, "bob", alice))

		following, err := svc.Following(ctx, bob)
		require.NoError(t, err)
		require.Empty(t, following)
	})
}

func TestUnfollow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous caller", func(t *testing.T) {
		svc, _, _, _, _ := newGraphFixture(t)
		err := svc.Unfollow(ctx, "bob", nil)
		require.ErrorIs(t, err, apperr.AuthFailed)
	})

	t.Run("unknown target", func(t *testing.T) {
		svc, _, _, alice, _ := newGraphFixture(t)
		err := svc.Unfollow(ctx, "nobody", alice)
		require.ErrorIs(t, err, apperr.UserNotFound)
	})

	t.Run("removes the edge from both views", func(t *testing.T) {
		svc, _, _, alice, bob := newGraphFixture(t)

		require.NoError(t, svc.Follow(ctx, "bob", alice))
		require.NoError(t, svc.Unfollow(ctx, "bob", alice))

		following, err := svc.Following(ctx, alice)
		require.NoError(t, err)
		require.Empty(t, following)

		followers, err := svc.Followers(ctx, bob)
		require.NoError(t, err)
		require.Empty(t, followers)
	})

	t.Run("unfollowing a never-followed user is a silent no-op", func(t *testing.T) {
		svc, _, _, alice, _ := newGraphFixture(t)
		require.NoError(t, svc.Unfollow(ctx, "bob", alice))
	})

	t.Run("only the caller's edge is removed", func(t *testing.T) {
		svc, users, _, alice, bob := newGraphFixture(t)
		carol := &user.User{ID: uuid.New(), Username: "carol", EmailAddress: "carol@example.com"}
		users.add(carol)

		require.NoError(t, svc.Follow(ctx, "bob", alice))
		require.NoError(t, svc.Follow(ctx, "bob", carol))
		require.NoError(t, svc.Unfollow(ctx, "bob", alice))

		followers, err := svc.Followers(ctx, bob)
		require.NoError(t, err)
		require.Equal(t, []user.Projection{{Username: "carol", EmailAddress: "carol@example.com"}}, followers)
	})
}

func TestListings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous caller", func(t *testing.T) {
		svc, _, _, _, _ := newGraphFixture(t)
		_, err := svc.Followers(ctx, nil)
		require.ErrorIs(t, err, apperr.AuthFailed)
		_, err = svc.Following(ctx, nil)
		require.ErrorIs(t, err, apperr.AuthFailed)
	})

	t.Run("caller record vanished since authentication", func(t *testing.T) {
		svc, _, _, _, _ := newGraphFixture(t)
		ghost := &user.User{ID: uuid.New(), Username: "ghost"}
		_, err := svc.Followers(ctx, ghost)
		require.ErrorIs(t, err, apperr.UserNotFound)
		_, err = svc.Following(ctx, ghost)
		require.ErrorIs(t, err, apperr.UserNotFound)
	})

	t.Run("empty graph yields empty lists", func(t *testing.T) {
		svc, _, _, alice, _ := newGraphFixture(t)

		followers, err := svc.Followers(ctx, alice)
		require.NoError(t, err)
		require.Empty(t, followers)

		following, err := svc.Following(ctx, alice)
		require.NoError(t, err)
		require.Empty(t, following)
	})
}
