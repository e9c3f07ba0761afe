package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-api/pkg/mailer/templates"
)

type captureDispatcher struct {
	jobs []EmailJob
	err  error
}

func (d *captureDispatcher) Dispatch(_ context.Context, job EmailJob) error {
	d.jobs = append(d.jobs, job)
	return d.err
}

func TestGateway_SendVerification(t *testing.T) {
	t.Parallel()

	d := &captureDispatcher{}
	g := NewGateway(d, templates.Brand{AppName: "Inkwell"}, time.Hour)

	require.NoError(t, g.SendVerification(context.Background(), "a@x.com", "http://c/verify/tok"))
	require.Len(t, d.jobs, 1)
	job := d.jobs[0]
	assert.Equal(t, "a@x.com", job.To)
	assert.Equal(t, templates.VerifyEmail, job.Template)
	assert.Equal(t, "http://c/verify/tok", job.Data["ActionURL"])
	assert.NotEmpty(t, job.Data["ExpiresAtText"])
}

func TestGateway_SendPasswordReset(t *testing.T) {
	t.Parallel()

	d := &captureDispatcher{}
	g := NewGateway(d, templates.Brand{}, 0)

	require.NoError(t, g.SendPasswordReset(context.Background(), "a@x.com", "http://c/reset-password/tok"))
	require.Len(t, d.jobs, 1)
	assert.Equal(t, templates.ResetPassword, d.jobs[0].Template)
	assert.Equal(t, "", d.jobs[0].Data["ExpiresAtText"])
}

func TestGateway_PropagatesDispatchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("queue closed")
	g := NewGateway(&captureDispatcher{err: boom}, templates.Brand{}, time.Hour)
	assert.ErrorIs(t, g.SendVerification(context.Background(), "a@x.com", "l"), boom)
}
