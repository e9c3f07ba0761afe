package repository

import (
	"context"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

// PostRepository persists blog posts. Reads join the author's email.
// Updates are last-write-wins; there is no version column.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// ListAll returns every post, newest first.
	ListAll(ctx context.Context) ([]entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	// Search matches q case-insensitively against title, summary and content, newest first.
	Search(ctx context.Context, q string, limit int) ([]entity.Post, error)
}
