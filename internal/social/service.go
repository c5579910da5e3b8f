package social

import (
	"context"
	"errors"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/logging"
	"github.com/mkovarik/social-api/internal/user"
)

// Service manages the follow graph between accounts.
type Service struct {
	users  UserStore
	edges  EdgeStore
	logger *logging.Logger
}

func NewService(users UserStore, edges EdgeStore, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		edges:  edges,
		logger: logger,
	}
}

// Follow makes the calling account follow the user with the given
// username. Following an already followed user is a silent success,
// following yourself is rejected.
func (s *Service) Follow(ctx context.Context, targetUsername string, session *user.User) error {
	if session == nil {
		return apperr.AuthFailed
	}

	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.UserNotFound
		}
		s.logger.Error("follow: target lookup failed", "error", err.Error())
		return apperr.Default
	}

	if target.ID == session.ID {
		return apperr.SelfFollow
	}

	if err := s.edges.Follow(ctx, session.ID, target.ID); err != nil {
		s.logger.Error("follow: failed to persist edge", "error", err.Error())
		return apperr.Default
	}

	return nil
}

// Unfollow makes the calling account stop following the user with the
// given username. Unfollowing a user that was never followed is a silent
// success; the target still has to exist.
func (s *Service) Unfollow(ctx context.Context, targetUsername string, session *user.User) error {
	if session == nil {
		return apperr.AuthFailed
	}

	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.UserNotFound
		}
		s.logger.Error("unfollow: target lookup failed", "error", err.Error())
		return apperr.Default
	}

	if err := s.edges.Unfollow(ctx, session.ID, target.ID); err != nil {
		s.logger.Error("unfollow: failed to remove edge", "error", err.Error())
		return apperr.Default
	}

	return nil
}

// Followers lists the accounts following the caller.
func (s *Service) Followers(ctx context.Context, session *user.User) ([]user.Projection, error) {
	if session == nil {
		return nil, apperr.AuthFailed
	}

	if _, err := s.users.GetByID(ctx, session.ID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.UserNotFound
		}
		s.logger.Error("followers: user lookup failed", "error", err.Error())
		return nil, apperr.Default
	}

	projections, err := s.edges.Followers(ctx, session.ID)
	if err != nil {
		s.logger.Error("followers: failed to list edges", "error", err.Error())
		return nil, apperr.Default
	}

	return projections, nil
}

// Following lists the accounts the caller follows.
func (s *Service) Following(ctx context.Context, session *user.User) ([]user.Projection, error) {
	if session == nil {
		return nil, apperr.AuthFailed
	}

	if _, err := s.users.GetByID(ctx, session.ID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.UserNotFound
		}
		s.logger.Error("following: user lookup failed", "error", err.Error())
		return nil, apperr.Default
	}

	projections, err := s.edges.Following(ctx, session.ID)
	if err != nil {
		s.logger.Error("following: failed to list edges", "error", err.Error())
		return nil, apperr.Default
	}

	return projections, nil
}
