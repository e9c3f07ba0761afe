package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_VerifyEmail(t *testing.T) {
	t.Parallel()

	link := "http://localhost:5173/verify/abc.def.ghi"
	data := NewVerifyEmailData(Brand{AppName: "Inkwell", SupportURL: "https://help.example.com"}, "a@x.com", link,
		WithExpiresAt(time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)))

	subject, text, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)

	assert.Equal(t, "Verify your email for Inkwell", subject)
	assert.Contains(t, text, link)
	assert.Contains(t, text, "02 January 2030, 15:04 UTC")
	assert.Contains(t, text, "https://help.example.com")
	assert.Contains(t, html, `href="`+link+`"`)
}

func TestRender_ResetPasswordDefaults(t *testing.T) {
	t.Parallel()

	data := NewResetPasswordData(Brand{}, "a@x.com", "http://c/reset-password/t")
	subject, text, html, err := Render(ResetPassword, data)
	require.NoError(t, err)

	assert.Equal(t, "Reset your blog password", subject)
	assert.Contains(t, text, "http://c/reset-password/t")
	assert.NotContains(t, text, "expires")
	assert.Contains(t, html, "Reset your password")
}

func TestRender_UnknownTemplate(t *testing.T) {
	t.Parallel()

	_, _, _, err := Render("nope", map[string]any{})
	assert.Error(t, err)
}

func TestToMap(t *testing.T) {
	t.Parallel()

	m := ToMap(NewBaseEmailData(Brand{AppName: "A"}, VerifyEmail, "e@x.com", "u"))
	assert.Equal(t, "e@x.com", m["Email"])
	assert.Equal(t, "e@x.com", m["RecipientEmail"])
	assert.Equal(t, VerifyEmail, m["Type"])
	assert.Equal(t, "u", m["ActionURL"])
}
