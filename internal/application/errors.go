package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserNotFound       = errors.New("email not found")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidCredentials = errors.New("password does not match")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrTokenAlreadyUsed   = fmt.Errorf("%w: already redeemed", ErrInvalidToken)
	ErrSessionUserGone    = errors.New("session user no longer exists")
	ErrPostNotFound       = errors.New("post not found")
	ErrForbidden          = errors.New("action not allowed: you are not the author")
	ErrMailDispatch       = errors.New("email could not be sent")
	ErrImageStoreDisabled = errors.New("image uploads are not configured")
)

// ValidationError lists offending fields; errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
