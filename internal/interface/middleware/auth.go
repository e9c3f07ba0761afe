package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// Identity is the authenticated caller attached to the request by Auth.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Auth validates the session token from the cookie (or an Authorization bearer header)
// and sets userID and userEmail in the Gin context. Every request is checked on its own;
// there is no server-side session store.
func Auth(jwt *helpers.JWTManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.VerifyPurpose(token, helpers.PurposeSession)
		if err != nil {
			msg := "invalid session token"
			if errors.Is(err, helpers.ErrExpiredToken) {
				msg = "session expired"
			}
			response.Error[any](c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

// IdentityFrom returns the caller set by Auth; ok is false on unauthenticated routes.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	id := c.GetString(CtxUserIDKey)
	if id == "" {
		return Identity{}, false
	}
	return Identity{UserID: id, Email: c.GetString(CtxUserEmailKey)}, true
}

func sessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
