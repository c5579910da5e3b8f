package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record: identity, credential material and timestamps.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	IsVerified   bool      `json:"is_verified"`
	RefreshToken string    `json:"-"` // Never expose token material in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Projection is the minimal public view of a related account, used when
// listing followers and following. It deliberately carries no secret
// material.
type Projection struct {
	Username     string `json:"username"`
	EmailAddress string `json:"email_address"`
}
