package entity

import "time"

// Post is a blog entry. AuthorID references a User; AuthorEmail is only filled on reads.
type Post struct {
	ID          string
	Title       string
	Summary     string
	Image       string
	Content     string
	AuthorID    string
	AuthorEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostPatch carries a partial update; nil fields keep their current value.
type PostPatch struct {
	Title   *string
	Summary *string
	Image   *string
	Content *string
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Summary == nil && p.Image == nil && p.Content == nil
}

// Apply overwrites the provided fields on post.
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Summary != nil {
		post.Summary = *p.Summary
	}
	if p.Image != nil {
		post.Image = *p.Image
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
}
