package mailer

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/pkg/mailer/templates"
)

// Dispatcher hands an email job to a transport: a queue, a provider, or the log.
type Dispatcher interface {
	Dispatch(ctx context.Context, job EmailJob) error
}

// Sender delivers an already rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// RenderJob resolves the job's subject and bodies, rendering its template when one is set.
func RenderJob(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", errors.New("email job needs a template or a subject with text/html")
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	return templates.Render(job.Template, job.Data)
}

// DirectDispatcher renders and sends synchronously; used when no queue is configured
// and by the email worker once a job is dequeued.
type DirectDispatcher struct {
	Sender Sender
}

func (d DirectDispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	EnsureRecipient(&job)
	subject, text, html, err := RenderJob(job)
	if err != nil {
		return err
	}
	return d.Sender.Send(ctx, job.To, subject, text, html)
}

// LogDispatcher only logs the job. Used when MAIL_SEND_ENABLED=false or MAIL_TRANSPORT=log,
// so links stay reachable from the process output during local development.
type LogDispatcher struct {
	Logger *logrus.Logger
}

func (d LogDispatcher) Dispatch(_ context.Context, job EmailJob) error {
	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"to":       job.To,
			"template": job.Template,
			"link":     job.Data["ActionURL"],
		}).Info("email not sent (mail transport disabled)")
	}
	return nil
}
