package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
)

const postSelect = `
	SELECT p.id, p.title, p.summary, p.image, p.content, p.author_id,
	       COALESCE(u.email, ''), p.created_at, p.updated_at
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (title, summary, image, content, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at,
		          COALESCE((SELECT email FROM users WHERE id = $5), '')
	`, p.Title, p.Summary, p.Image, p.Content, p.AuthorID)

	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.AuthorEmail))
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	rows, err := r.db.Query(ctx, postSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, repository.ErrNotFound
	}
	return &posts[0], nil
}

func (r *PostRepository) ListAll(ctx context.Context) ([]entity.Post, error) {
	rows, err := r.db.Query(ctx, postSelect+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return scanPosts(rows)
}

// Update overwrites the editable columns. Last write wins.
func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		UPDATE posts
		SET title = $1, summary = $2, image = $3, content = $4, updated_at = now()
		WHERE id = $5
		RETURNING author_id, created_at, updated_at
	`, p.Title, p.Summary, p.Image, p.Content, p.ID)

	return mapErr(row.Scan(&p.AuthorID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Search(ctx context.Context, q string, limit int) ([]entity.Post, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.Post{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(q) + "%"
	rows, err := r.db.Query(ctx, postSelect+`
		WHERE p.title ILIKE $1 OR p.summary ILIKE $1 OR p.content ILIKE $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	return scanPosts(rows)
}

func scanPosts(rows pgx.Rows) ([]entity.Post, error) {
	defer rows.Close()
	out := []entity.Post{}
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.Image, &p.Content, &p.AuthorID,
			&p.AuthorEmail, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

var _ repository.PostRepository = (*PostRepository)(nil)
