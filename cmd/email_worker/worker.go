package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/pkg/mailer"
)

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

const sendTimeout = 15 * time.Second

// consumerTag names this process's subscription so it can be cancelled on shutdown.
func consumerTag(appName string, pid int) string {
	return fmt.Sprintf("%s-email-worker-%d", appName, pid)
}

type worker struct {
	Sender mailer.Sender
	Logger *logrus.Logger
}

// handle renders and sends one queued job. Malformed or unrenderable jobs are dropped;
// a failed send is requeued once, then dropped.
func (w *worker) handle(ctx context.Context, body []byte, redelivered bool) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil || job.To == "" {
		w.Logger.WithError(err).Warn("dropping malformed email job")
		return drop
	}
	mailer.EnsureRecipient(&job)

	subject, text, html, err := mailer.RenderJob(job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("dropping unrenderable email job")
		return drop
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		log := w.Logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template})
		if redelivered {
			log.Error("send failed twice, dropping email job")
			return drop
		}
		log.Warn("send failed, requeueing email job")
		return requeue
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return ack
}
