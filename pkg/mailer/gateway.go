package mailer

import (
	"context"
	"time"

	"github.com/oksasatya/go-blog-api/pkg/mailer/templates"
)

// Gateway turns account actions into email jobs and hands them to a Dispatcher.
type Gateway struct {
	Dispatcher Dispatcher
	Brand      templates.Brand
	// LinkTTL is printed as the link expiry; it should match the action token TTL.
	LinkTTL time.Duration
}

func NewGateway(d Dispatcher, brand templates.Brand, linkTTL time.Duration) *Gateway {
	return &Gateway{Dispatcher: d, Brand: brand, LinkTTL: linkTTL}
}

func (g *Gateway) SendVerification(ctx context.Context, to, link string) error {
	data := templates.NewVerifyEmailData(g.Brand, to, link, g.options()...)
	return g.Dispatcher.Dispatch(ctx, EmailJob{To: to, Template: templates.VerifyEmail, Data: data})
}

func (g *Gateway) SendPasswordReset(ctx context.Context, to, link string) error {
	data := templates.NewResetPasswordData(g.Brand, to, link, g.options()...)
	return g.Dispatcher.Dispatch(ctx, EmailJob{To: to, Template: templates.ResetPassword, Data: data})
}

func (g *Gateway) options() []templates.Option {
	opts := []templates.Option{templates.WithTime(time.Now())}
	if g.LinkTTL > 0 {
		opts = append(opts, templates.WithExpiresIn(g.LinkTTL))
	}
	return opts
}
