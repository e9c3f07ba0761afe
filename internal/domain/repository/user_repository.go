package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create stores u and fills ID and timestamps. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash string) error
}
