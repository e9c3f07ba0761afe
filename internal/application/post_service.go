package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// PostService handles blog posts. Mutations are restricted to the post's author.
type PostService struct {
	Posts repo.PostRepository
	Users repo.UserRepository
	// Index and Images are optional.
	Index  PostIndex
	Images ImageStore
	Logger *logrus.Logger
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, index PostIndex, images ImageStore, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Users: users, Index: index, Images: images, Logger: logger}
}

type CreatePostInput struct {
	Title   string
	Summary string
	Image   string
	Content string
}

func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*entity.Post, error) {
	fields := map[string]string{}
	requireText(fields, "title", in.Title)
	requireText(fields, "summary", in.Summary)
	requireText(fields, "image", in.Image)
	requireText(fields, "content", in.Content)
	if err := newValidationError(fields); err != nil {
		return nil, err
	}

	if _, err := s.Users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionUserGone
		}
		return nil, fmt.Errorf("lookup author: %w", err)
	}

	p := &entity.Post{
		Title:    in.Title,
		Summary:  in.Summary,
		Image:    in.Image,
		Content:  in.Content,
		AuthorID: authorID,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	return s.load(ctx, id)
}

// ListAll returns every post newest first. There is no pagination.
func (s *PostService) ListAll(ctx context.Context) ([]entity.Post, error) {
	posts, err := s.Posts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []entity.Post{}
	}
	return posts, nil
}

// Update applies a partial patch. Concurrent updates are last-write-wins.
func (s *PostService) Update(ctx context.Context, callerID, id string, patch entity.PostPatch) (*entity.Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != callerID {
		return nil, ErrForbidden
	}

	fields := map[string]string{}
	requireProvided(fields, "title", patch.Title)
	requireProvided(fields, "summary", patch.Summary)
	requireProvided(fields, "image", patch.Image)
	requireProvided(fields, "content", patch.Content)
	if err := newValidationError(fields); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return p, nil
	}

	patch.Apply(p)
	if err := s.Posts.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, callerID, id string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != callerID {
		return ErrForbidden
	}
	if err := s.Posts.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, p.ID); err != nil {
			helpers.LogError(s.Logger, "remove post from index failed", err, logrus.Fields{"post_id": p.ID})
		}
	}
	return nil
}

// Search uses the full-text index when present and falls back to the store's substring match.
func (s *PostService) Search(ctx context.Context, q string, size int) ([]entity.Post, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, newValidationError(map[string]string{"q": "is required"})
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}

	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, size)
		if err == nil {
			out := make([]entity.Post, 0, len(ids))
			for _, id := range ids {
				p, err := s.Posts.GetByID(ctx, id)
				if errors.Is(err, repo.ErrNotFound) {
					// stale index entry
					continue
				}
				if err != nil {
					return nil, fmt.Errorf("load post: %w", err)
				}
				out = append(out, *p)
			}
			return out, nil
		}
		helpers.LogError(s.Logger, "post index search failed, using store", err, logrus.Fields{"q": q})
	}

	posts, err := s.Posts.Search(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	if posts == nil {
		posts = []entity.Post{}
	}
	return posts, nil
}

// UploadImage stores an image for ownerID and returns its public URL.
func (s *PostService) UploadImage(ctx context.Context, ownerID string, r io.Reader, filename, contentType string) (string, error) {
	if s.Images == nil {
		return "", ErrImageStoreDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", newValidationError(map[string]string{"image": "must be an image"})
	}
	url, err := s.Images.Upload(ctx, ownerID, r, filename, contentType)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

func (s *PostService) load(ctx context.Context, id string) (*entity.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPostNotFound
	}
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return p, nil
}

func (s *PostService) index(ctx context.Context, p *entity.Post) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		helpers.LogError(s.Logger, "index post failed", err, logrus.Fields{"post_id": p.ID})
	}
}

func requireText(fields map[string]string, name, v string) {
	if strings.TrimSpace(v) == "" {
		fields[name] = "is required"
	}
}

func requireProvided(fields map[string]string, name string, v *string) {
	if v != nil && strings.TrimSpace(*v) == "" {
		fields[name] = "must not be empty"
	}
}
