// Package user defines the user record and its repository contract.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository sentinels. Implementations wrap storage-specific errors so
// callers only ever branch on these.
var (
	// ErrNotFound reports that no user matched the lookup.
	ErrNotFound = errors.New("user: not found")
	// ErrDuplicate reports a unique-constraint violation on email or username.
	ErrDuplicate = errors.New("user: already exists")
)

// User is the stored user record. The password field holds the argon2id
// hash string, never plaintext.
type User struct {
	ID         uuid.UUID
	Email      string
	Name       string
	Username   string
	Bio        *string
	PictureURL string
	Password   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Projection is the public-safe subset of a user returned to clients.
type Projection struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Username   string    `json:"username"`
	PictureURL string    `json:"pictureUrl"`
}

// Project returns the client-facing view of the user.
func (u *User) Project() Projection {
	return Projection{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.Name,
		Username:   u.Username,
		PictureURL: u.PictureURL,
	}
}

// Repository is the persistence contract for users. Uniqueness of email and
// username is enforced by the store itself; the pre-checks in the service
// are best-effort only.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
