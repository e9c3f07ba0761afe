package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingSecret = errors.New("token signing secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
)

// TokenPurpose scopes a token to one use: a session, or a single account action.
type TokenPurpose string

const (
	PurposeSession TokenPurpose = "session"
	PurposeVerify  TokenPurpose = "verify_email"
	PurposeReset   TokenPurpose = "reset_password"
)

type Claims struct {
	UserID  string       `json:"userId"`
	Email   string       `json:"email,omitempty"`
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 tokens with an embedded payload and expiry.
// There is no revocation list; expiry is the only built-in invalidation.
type JWTManager struct {
	Secret []byte
	// Now is the clock used for issuing and validating; nil means time.Now.
	Now func() time.Time
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{Secret: []byte(secret)}
}

func (m *JWTManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Issue signs the payload with an expiry of ttl from now and a fresh token id.
func (m *JWTManager) Issue(payload Claims, ttl time.Duration) (string, time.Time, error) {
	if len(m.Secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	now := m.now()
	exp := now.Add(ttl)
	payload.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &payload)
	s, err := t.SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Verify checks signature and expiry and returns the embedded payload.
func (m *JWTManager) Verify(tokenStr string) (*Claims, error) {
	if len(m.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyPurpose is Verify plus a check that the token was issued for purpose p.
func (m *JWTManager) VerifyPurpose(tokenStr string, p TokenPurpose) (*Claims, error) {
	claims, err := m.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != p {
		return nil, fmt.Errorf("%w: issued for %q", ErrInvalidToken, claims.Purpose)
	}
	return claims, nil
}
