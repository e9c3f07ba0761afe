package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()

	u := &entity.User{Email: "a@x.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	err := users.Create(ctx, &entity.User{Email: "a@x.com", Password: "other"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	got, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.IsVerified)

	_, err = users.GetByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, users.SetVerified(ctx, u.ID))
	require.NoError(t, users.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Equal(t, "new-hash", got.Password)

	assert.ErrorIs(t, users.SetVerified(ctx, "missing"), repo.ErrNotFound)
}

func TestPostRepository_ListAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	author := &entity.User{Email: "a@x.com"}
	require.NoError(t, users.Create(ctx, author))

	posts := NewPostRepository(users)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	posts.now = func() time.Time {
		tick++
		// two posts share a timestamp to exercise the tiebreak
		return base.Add(time.Duration(tick/2) * time.Minute)
	}

	var ids []string
	for _, title := range []string{"first", "second", "third", "fourth"} {
		p := &entity.Post{Title: title, Summary: "s", Image: "http://i", Content: "c", AuthorID: author.ID}
		require.NoError(t, posts.Create(ctx, p))
		assert.Equal(t, "a@x.com", p.AuthorEmail)
		ids = append(ids, p.ID)
	}

	list, err := posts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, ids[3], list[0].ID)
	assert.Equal(t, ids[0], list[3].ID)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
		assert.Equal(t, "a@x.com", list[i].AuthorEmail)
	}
}

func TestPostRepository_UpdateDeleteSearch(t *testing.T) {
	ctx := context.Background()
	posts := NewPostRepository(nil)

	p := &entity.Post{Title: "Go tips", Summary: "s", Image: "http://i", Content: "channels", AuthorID: "u1"}
	require.NoError(t, posts.Create(ctx, p))

	upd := *p
	upd.Title = "Rust tips"
	upd.AuthorID = "someone-else"
	require.NoError(t, posts.Update(ctx, &upd))
	assert.Equal(t, "u1", upd.AuthorID)

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rust tips", got.Title)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	found, err := posts.Search(ctx, "CHANNELS", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	empty, err := posts.Search(ctx, "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, posts.Delete(ctx, p.ID))
	assert.ErrorIs(t, posts.Delete(ctx, p.ID), repo.ErrNotFound)
	_, err = posts.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, posts.Update(ctx, &upd), repo.ErrNotFound)
}

func TestTokenLedger_Consume(t *testing.T) {
	ctx := context.Background()
	l := NewTokenLedger()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	first, err := l.Consume(ctx, "jti-1", now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, first)

	again, err := l.Consume(ctx, "jti-1", now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, again)

	now = now.Add(2 * time.Hour)
	afterExpiry, err := l.Consume(ctx, "jti-1", now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, afterExpiry)
}

func TestTokenLedger_Release(t *testing.T) {
	ctx := context.Background()
	l := NewTokenLedger()
	until := time.Now().Add(time.Hour)

	first, err := l.Consume(ctx, "jti-1", until)
	require.NoError(t, err)
	require.True(t, first)

	require.NoError(t, l.Release(ctx, "jti-1"))
	again, err := l.Consume(ctx, "jti-1", until)
	require.NoError(t, err)
	assert.True(t, again)
}
