package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
)

type storedPost struct {
	post entity.Post
	seq  uint64
}

// PostRepository keeps posts in process memory and joins author emails from a UserRepository.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]*storedPost
	seq   uint64
	users repo.UserRepository
	now   func() time.Time
}

func NewPostRepository(users repo.UserRepository) *PostRepository {
	return &PostRepository{
		posts: make(map[string]*storedPost),
		users: users,
		now:   time.Now,
	}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	r.mu.Lock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.seq++
	cp := *p
	cp.AuthorEmail = ""
	r.posts[p.ID] = &storedPost{post: cp, seq: r.seq}
	r.mu.Unlock()

	p.AuthorEmail = r.authorEmail(ctx, p.AuthorID)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	r.mu.RLock()
	sp, ok := r.posts[id]
	var p entity.Post
	if ok {
		p = sp.post
	}
	r.mu.RUnlock()
	if !ok {
		return nil, repo.ErrNotFound
	}
	p.AuthorEmail = r.authorEmail(ctx, p.AuthorID)
	return &p, nil
}

func (r *PostRepository) ListAll(ctx context.Context) ([]entity.Post, error) {
	return r.collect(ctx, func(entity.Post) bool { return true }, 0), nil
}

// Update overwrites the stored post. Last write wins.
func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	r.mu.Lock()
	sp, ok := r.posts[p.ID]
	if !ok {
		r.mu.Unlock()
		return repo.ErrNotFound
	}
	p.CreatedAt = sp.post.CreatedAt
	p.AuthorID = sp.post.AuthorID
	p.UpdatedAt = r.now().UTC()
	sp.post = *p
	sp.post.AuthorEmail = ""
	r.mu.Unlock()

	p.AuthorEmail = r.authorEmail(ctx, p.AuthorID)
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *PostRepository) Search(ctx context.Context, q string, limit int) ([]entity.Post, error) {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return []entity.Post{}, nil
	}
	match := func(p entity.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Summary), needle) ||
			strings.Contains(strings.ToLower(p.Content), needle)
	}
	return r.collect(ctx, match, limit), nil
}

// collect returns matching posts newest first; insertion order breaks createdAt ties.
func (r *PostRepository) collect(ctx context.Context, keep func(entity.Post) bool, limit int) []entity.Post {
	r.mu.RLock()
	all := make([]storedPost, 0, len(r.posts))
	for _, sp := range r.posts {
		if keep(sp.post) {
			all = append(all, *sp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].post.CreatedAt.Equal(all[j].post.CreatedAt) {
			return all[i].post.CreatedAt.After(all[j].post.CreatedAt)
		}
		return all[i].seq > all[j].seq
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]entity.Post, 0, len(all))
	for _, sp := range all {
		p := sp.post
		p.AuthorEmail = r.authorEmail(ctx, p.AuthorID)
		out = append(out, p)
	}
	return out
}

func (r *PostRepository) authorEmail(ctx context.Context, authorID string) string {
	if r.users == nil {
		return ""
	}
	u, err := r.users.GetByID(ctx, authorID)
	if err != nil {
		return ""
	}
	return u.Email
}
