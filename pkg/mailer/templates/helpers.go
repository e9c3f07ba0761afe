package templates

import (
	"time"
)

// Brand carries the product details printed in every email.
type Brand struct {
	AppName    string
	SupportURL string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.Time = t.UTC().Format("02 January 2006, 15:04 MST")
	}
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithExpiresIn(dur time.Duration) Option {
	return WithExpiresAt(time.Now().Add(dur))
}

// NewBaseEmailData fills the common fields from the brand, then applies options.
func NewBaseEmailData(b Brand, typ, email, actionURL string, opts ...Option) EmailData {
	d := EmailData{
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		AppName:        b.AppName,
		SupportURL:     b.SupportURL,
		ActionURL:      actionURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerifyEmailData(b Brand, email, verifyURL string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(b, VerifyEmail, email, verifyURL, opts...))
}

func NewResetPasswordData(b Brand, email, resetURL string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(b, ResetPassword, email, resetURL, opts...))
}
