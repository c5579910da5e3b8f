package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persistence model for an account record.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Username     string    `bun:"username,notnull,unique"`
	EmailAddress string    `bun:"email_address,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	IsVerified   bool      `bun:"is_verified,notnull,default:false"`
	// RefreshToken holds the single currently-valid refresh token for the
	// account, or the empty string when no session exists.
	RefreshToken string    `bun:"refresh_token,notnull,default:''"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Follow is one edge of the social graph. A single row represents both
// directions of the relation: follower follows followee, followee is
// followed by follower.
type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	FollowerID uuid.UUID `bun:"follower_id,pk,type:uuid"`
	FolloweeID uuid.UUID `bun:"followee_id,pk,type:uuid"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
