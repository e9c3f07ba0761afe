package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

// Mailer delivers account links. Implementations may queue rather than send.
type Mailer interface {
	SendVerification(ctx context.Context, to, link string) error
	SendPasswordReset(ctx context.Context, to, link string) error
}

// TokenLedger records redeemed action tokens so each can be used once.
type TokenLedger interface {
	// Consume marks id as used until the given time. It reports false when id was already used.
	Consume(ctx context.Context, id string, until time.Time) (bool, error)
	// Release forgets id so the token can be redeemed again.
	Release(ctx context.Context, id string) error
}

// PostIndex is a full-text index over posts.
type PostIndex interface {
	Index(ctx context.Context, p *entity.Post) error
	Remove(ctx context.Context, id string) error
	// Search returns matching post ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// ImageStore keeps uploaded post images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, ownerID string, r io.Reader, filename, contentType string) (string, error)
}
