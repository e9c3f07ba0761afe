package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,strongpwd"`
	ConfirmedPassword string `json:"confirmedPassword" validate:"required,eqfield=Password"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	configure(v)
	return v
}

func TestStrongPasswordAlias(t *testing.T) {
	t.Parallel()
	v := newValidator()

	cases := map[string]bool{
		"Str0ng!Pw":  true,
		"Abcdef1?":   true,
		"short1!A":   true,
		"weak":       false,
		"alllower1!": false,
		"ALLUPPER1!": false,
		"NoDigits!!": false,
		"NoSymbol12": false,
		"S1!a":       false,
	}
	for pw, ok := range cases {
		err := v.Var(pw, "strongpwd")
		if ok {
			assert.NoError(t, err, pw)
		} else {
			assert.Error(t, err, pw)
		}
	}
}

func TestToDetails_ValidationErrors(t *testing.T) {
	t.Parallel()
	v := newValidator()

	err := v.Struct(signup{Email: "not-an-email", Password: "weak", ConfirmedPassword: "other"})
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Contains(t, d["password"], "uppercase")
	assert.Equal(t, "must match password", d["confirmedPassword"])
}

func TestToDetails_Required(t *testing.T) {
	t.Parallel()
	v := newValidator()

	d := ToDetails(v.Struct(signup{}))
	assert.Equal(t, "is required", d["email"])
	assert.Equal(t, "is required", d["password"])
}

func TestToDetails_InvalidJSON(t *testing.T) {
	t.Parallel()

	var out map[string]any
	err := json.Unmarshal([]byte("{"), &out)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}

func TestIsStrongPassword(t *testing.T) {
	t.Parallel()

	assert.True(t, IsStrongPassword("Str0ng!Pw"))
	assert.False(t, IsStrongPassword(""))
	assert.False(t, IsStrongPassword("password"))
}
