package social

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/mkovarik/social-api/internal/database"
	"github.com/mkovarik/social-api/internal/user"
)

// Repository handles follow-edge persistence. A single row in the follows
// table carries both views of the relation: it appears in the follower's
// "following" list and in the followee's "followers" list, so the two can
// never disagree.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Follow records that follower follows followee. Re-following an already
// followed user is a no-op.
func (r *Repository) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		edge := &database.Follow{
			FollowerID: followerID,
			FolloweeID: followeeID,
		}

		_, err := tx.NewInsert().
			Model(edge).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to create follow edge: %w", err)
	}

	return nil
}

// Unfollow removes the follow edge. Removing an edge that does not exist
// is a no-op.
func (r *Repository) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*database.Follow)(nil)).
			Where("follower_id = ?", followerID).
			Where("followee_id = ?", followeeID).
			Exec(ctx)
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}

	return nil
}

// Followers lists the users following the given user.
func (r *Repository) Followers(ctx context.Context, userID uuid.UUID) ([]user.Projection, error) {
	var projections []user.Projection

	err := r.db.NewSelect().
		Model((*database.Follow)(nil)).
		ColumnExpr("u.username AS username").
		ColumnExpr("u.email_address AS email_address").
		Join("JOIN users AS u ON u.id = f.follower_id").
		Where("f.followee_id = ?", userID).
		OrderExpr("f.created_at ASC").
		Scan(ctx, &projections)

	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}

	if projections == nil {
		projections = []user.Projection{}
	}
	return projections, nil
}

// Following lists the users the given user follows.
func (r *Repository) Following(ctx context.Context, userID uuid.UUID) ([]user.Projection, error) {
	var projections []user.Projection

	err := r.db.NewSelect().
		Model((*database.Follow)(nil)).
		ColumnExpr("u.username AS username").
		ColumnExpr("u.email_address AS email_address").
		Join("JOIN users AS u ON u.id = f.followee_id").
		Where("f.follower_id = ?", userID).
		OrderExpr("f.created_at ASC").
		Scan(ctx, &projections)

	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}

	if projections == nil {
		projections = []user.Projection{}
	}
	return projections, nil
}
