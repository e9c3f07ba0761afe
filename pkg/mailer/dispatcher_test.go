package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-api/pkg/mailer/templates"
)

type recordingSender struct {
	to, subject, text, html string
	err                     error
}

func (s *recordingSender) Send(_ context.Context, to, subject, text, html string) error {
	s.to, s.subject, s.text, s.html = to, subject, text, html
	return s.err
}

func TestDirectDispatcher_RendersTemplate(t *testing.T) {
	t.Parallel()

	s := &recordingSender{}
	job := EmailJob{
		To:       "a@x.com",
		Template: templates.VerifyEmail,
		Data:     templates.NewVerifyEmailData(templates.Brand{AppName: "Inkwell"}, "a@x.com", "http://c/verify/t"),
	}
	require.NoError(t, DirectDispatcher{Sender: s}.Dispatch(context.Background(), job))

	assert.Equal(t, "a@x.com", s.to)
	assert.Equal(t, "Verify your email for Inkwell", s.subject)
	assert.Contains(t, s.text, "http://c/verify/t")
	assert.Contains(t, s.html, "http://c/verify/t")
}

func TestDirectDispatcher_RawMessage(t *testing.T) {
	t.Parallel()

	s := &recordingSender{}
	job := EmailJob{To: "a@x.com", Subject: "Hi", Text: "body"}
	require.NoError(t, DirectDispatcher{Sender: s}.Dispatch(context.Background(), job))
	assert.Equal(t, "Hi", s.subject)
	assert.Equal(t, "body", s.text)
}

func TestDirectDispatcher_Errors(t *testing.T) {
	t.Parallel()

	err := DirectDispatcher{Sender: &recordingSender{}}.Dispatch(context.Background(), EmailJob{To: "a@x.com"})
	assert.Error(t, err)

	boom := errors.New("provider down")
	job := EmailJob{To: "a@x.com", Subject: "Hi", HTML: "<p>x</p>"}
	err = DirectDispatcher{Sender: &recordingSender{err: boom}}.Dispatch(context.Background(), job)
	assert.ErrorIs(t, err, boom)
}

func TestEnsureRecipient(t *testing.T) {
	t.Parallel()

	job := EmailJob{To: "a@x.com"}
	EnsureRecipient(&job)
	assert.Equal(t, "a@x.com", job.Data["Email"])
	assert.Equal(t, "a@x.com", job.Data["RecipientEmail"])

	job = EmailJob{To: "a@x.com", Data: map[string]any{"Email": "b@x.com"}}
	EnsureRecipient(&job)
	assert.Equal(t, "b@x.com", job.Data["Email"])
}
