package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/validation"
)

type AuthConfig struct {
	SessionTTL     time.Duration
	ActionTokenTTL time.Duration
	BcryptCost     int
	// VerifyURL and ResetURL are link prefixes; the token is appended as the last path segment.
	VerifyURL string
	ResetURL  string
}

// AuthService drives the account lifecycle:
// unregistered -> registered-unverified -> registered-verified.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Mailer Mailer
	// Ledger makes verify/reset tokens single-use; nil keeps them replayable until expiry.
	Ledger TokenLedger
	Logger *logrus.Logger
	Cfg    AuthConfig

	compare func(hash, plain string) bool
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, mailer Mailer, ledger TokenLedger, logger *logrus.Logger, cfg AuthConfig) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.ActionTokenTTL <= 0 {
		cfg.ActionTokenTTL = time.Hour
	}
	return &AuthService{
		Users:   users,
		JWT:     jwt,
		Mailer:  mailer,
		Ledger:  ledger,
		Logger:  logger,
		Cfg:     cfg,
		compare: helpers.CompareHashAndPassword,
	}
}

type RegisterInput struct {
	Email             string
	Password          string
	ConfirmedPassword string
}

// Register creates an unverified account and mails a verification link.
// A mail failure leaves the account persisted and returns ErrMailDispatch alongside the user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if !validEmail(in.Email) {
		return nil, newValidationError(map[string]string{"email": "must be a valid email"})
	}

	// Duplicate wins over password problems.
	existing, err := s.Users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrDuplicateEmail
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := validatePasswords(in.Password, in.ConfirmedPassword); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password, s.Cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Email: in.Email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendVerification(ctx, u); err != nil {
		return u, err
	}
	return u, nil
}

// ResendVerification issues a fresh verification link for an unverified account.
// It reports alreadyVerified=true and sends nothing when the account is verified.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (alreadyVerified bool, err error) {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if u.IsVerified {
		return true, nil
	}
	return false, s.sendVerification(ctx, u)
}

// Verify redeems a verification token and marks its user verified.
func (s *AuthService) Verify(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.parseAction(token, helpers.PurposeVerify)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := s.redeem(ctx, claims); err != nil {
		return nil, err
	}
	if !u.IsVerified {
		if err := s.Users.SetVerified(ctx, u.ID); err != nil {
			s.release(ctx, claims)
			return nil, fmt.Errorf("set verified: %w", err)
		}
		u.IsVerified = true
	}
	return u, nil
}

type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Login checks the account state before the password: unverified accounts never reach the hash comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !u.IsVerified {
		return nil, ErrEmailNotVerified
	}
	if !s.compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	tok, exp, err := s.JWT.Issue(helpers.Claims{UserID: u.ID, Email: u.Email, Purpose: helpers.PurposeSession}, s.Cfg.SessionTTL)
	if err != nil {
		helpers.LogError(s.Logger, "issue session token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &LoginResult{User: u, Token: tok, ExpiresAt: exp}, nil
}

// Forgot mails a password reset link. It does not reveal whether the account is verified.
func (s *AuthService) Forgot(ctx context.Context, email string) error {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	tok, _, err := s.JWT.Issue(helpers.Claims{UserID: u.ID, Purpose: helpers.PurposeReset}, s.Cfg.ActionTokenTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	if err := s.Mailer.SendPasswordReset(ctx, u.Email, joinLink(s.Cfg.ResetURL, tok)); err != nil {
		helpers.LogError(s.Logger, "send reset email failed", err, logrus.Fields{"user_id": u.ID})
		return fmt.Errorf("%w: %v", ErrMailDispatch, err)
	}
	return nil
}

// Reset redeems a reset token and stores a newly salted hash of newPassword.
// The token is checked before the password. Sessions issued before the reset stay valid until they expire.
func (s *AuthService) Reset(ctx context.Context, token, newPassword string) error {
	claims, err := s.parseAction(token, helpers.PurposeReset)
	if err != nil {
		return err
	}
	if !validation.IsStrongPassword(newPassword) {
		return newValidationError(map[string]string{"password": validation.StrongPasswordMessage})
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	hash, err := helpers.HashPassword(newPassword, s.Cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.redeem(ctx, claims); err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		s.release(ctx, claims)
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *AuthService) sendVerification(ctx context.Context, u *entity.User) error {
	tok, _, err := s.JWT.Issue(helpers.Claims{UserID: u.ID, Purpose: helpers.PurposeVerify}, s.Cfg.ActionTokenTTL)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	if err := s.Mailer.SendVerification(ctx, u.Email, joinLink(s.Cfg.VerifyURL, tok)); err != nil {
		helpers.LogError(s.Logger, "send verification email failed", err, logrus.Fields{"user_id": u.ID})
		return fmt.Errorf("%w: %v", ErrMailDispatch, err)
	}
	return nil
}

func (s *AuthService) userByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *AuthService) parseAction(token string, p helpers.TokenPurpose) (*helpers.Claims, error) {
	claims, err := s.JWT.VerifyPurpose(token, p)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, helpers.ErrExpiredToken):
		return nil, ErrExpiredToken
	case errors.Is(err, helpers.ErrMissingSecret):
		return nil, err
	default:
		return nil, ErrInvalidToken
	}
}

func (s *AuthService) redeem(ctx context.Context, claims *helpers.Claims) error {
	if s.Ledger == nil {
		return nil
	}
	until := time.Now().Add(s.Cfg.ActionTokenTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	first, err := s.Ledger.Consume(ctx, claims.ID, until)
	if err != nil {
		return fmt.Errorf("consume token: %w", err)
	}
	if !first {
		return ErrTokenAlreadyUsed
	}
	return nil
}

// release hands a redeemed token back when the write it guarded failed, so the link still works.
func (s *AuthService) release(ctx context.Context, claims *helpers.Claims) {
	if s.Ledger == nil {
		return
	}
	if err := s.Ledger.Release(ctx, claims.ID); err != nil {
		helpers.LogError(s.Logger, "release action token failed", err, logrus.Fields{"user_id": claims.UserID})
	}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validatePasswords(password, confirmed string) error {
	fields := map[string]string{}
	if !validation.IsStrongPassword(password) {
		fields["password"] = validation.StrongPasswordMessage
	}
	if password != confirmed {
		fields["confirmedPassword"] = "must match password"
	}
	return newValidationError(fields)
}

func joinLink(base, token string) string {
	return strings.TrimRight(base, "/") + "/" + token
}
