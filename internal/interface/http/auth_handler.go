package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/response"
	"github.com/oksasatya/go-blog-api/pkg/validation"
)

const (
	homeRedirect  = "/home"
	loginRedirect = "/login"
)

type AuthHandler struct {
	Svc     *app.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *app.AuthService, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

// Password rules are enforced by the service so a taken email is reported first.
type registerRequest struct {
	Email             string `json:"email" binding:"required"`
	Password          string `json:"password"`
	ConfirmedPassword string `json:"confirmedPassword"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetRequest struct {
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, IsVerified: u.IsVerified, CreatedAt: u.CreatedAt}
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Email:             req.Email,
		Password:          req.Password,
		ConfirmedPassword: req.ConfirmedPassword,
	})
	if err != nil {
		authEvents.Add("register_failed", 1)
		fail(c, h.Logger, err)
		return
	}
	authEvents.Add("registered", 1)
	response.Success(c, http.StatusCreated, toUserResponse(u), "registered, check your email to verify your account", nil)
}

// Verify GET /auth/verify/:token
func (h *AuthHandler) Verify(c *gin.Context) {
	u, err := h.Svc.Verify(c.Request.Context(), c.Param("token"))
	if err != nil {
		authEvents.Add("verify_failed", 1)
		fail(c, h.Logger, err)
		return
	}
	authEvents.Add("verified", 1)
	response.SuccessRedirect(c, http.StatusOK, toUserResponse(u), "email verified", loginRedirect)
}

// ResendVerification POST /auth/verify/resend
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	already, err := h.Svc.ResendVerification(c.Request.Context(), req.Email)
	if err != nil {
		failNotFoundAsBadRequest(c, h.Logger, err)
		return
	}
	msg := "verification email sent"
	if already {
		msg = "email already verified"
	}
	response.Success(c, http.StatusOK, gin.H{"alreadyVerified": already}, msg, nil)
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		authEvents.Add("login_failed", 1)
		fail(c, h.Logger, err)
		return
	}
	authEvents.Add("login", 1)
	h.Cookies.SetSession(c, res.Token, res.ExpiresAt)
	response.SuccessRedirect(c, http.StatusOK, gin.H{
		"user":      toUserResponse(res.User),
		"expiresAt": res.ExpiresAt,
	}, "login successful", homeRedirect)
}

// Forgot POST /auth/forgot
func (h *AuthHandler) Forgot(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := h.Svc.Forgot(c.Request.Context(), req.Email); err != nil {
		failNotFoundAsBadRequest(c, h.Logger, err)
		return
	}
	authEvents.Add("reset_requested", 1)
	response.Success[any](c, http.StatusOK, nil, "password reset link sent", nil)
}

// Reset POST /auth/reset/:token
func (h *AuthHandler) Reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := h.Svc.Reset(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		if !errors.Is(err, app.ErrValidation) {
			authEvents.Add("reset_failed", 1)
		}
		fail(c, h.Logger, err)
		return
	}
	authEvents.Add("password_reset", 1)
	response.SuccessRedirect[any](c, http.StatusOK, nil, "password updated", loginRedirect)
}

// Protected GET /auth/protected echoes the caller identity.
func (h *AuthHandler) Protected(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	response.Success(c, http.StatusOK, id, "authorized", nil)
}

// Logout POST /auth/logout clears the session cookie. The token itself stays valid until expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"loggedOut": true}, "logged out", nil)
}
