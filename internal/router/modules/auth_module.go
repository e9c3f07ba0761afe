package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// AuthModule serves /auth/*. RDB may be nil, which disables rate limiting.
type AuthModule struct {
	Handler    *handlers.AuthHandler
	JWT        *helpers.JWTManager
	CookieName string
	RDB        redis.Cmdable
	Allow      middleware.AllowFunc
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, cookieName string, rdb redis.Cmdable, allow middleware.AllowFunc) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, CookieName: cookieName, RDB: rdb, Allow: allow}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIP("register"), m.Allow)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIP("login"), m.Allow)
	forgotLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIP("forgot"), m.Allow)
	resendLimiter := middleware.RateLimit(m.RDB, 3, time.Minute, middleware.KeyByIP("resend"), m.Allow)
	tokenLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), m.Allow)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.GET("/verify/:token", tokenLimiter, m.Handler.Verify)
	auth.POST("/verify/resend", resendLimiter, m.Handler.ResendVerification)
	auth.POST("/forgot", forgotLimiter, m.Handler.Forgot)
	auth.POST("/reset/:token", tokenLimiter, m.Handler.Reset)
	auth.POST("/logout", m.Handler.Logout)

	auth.GET("/protected", middleware.Auth(m.JWT, m.CookieName), m.Handler.Protected)
}
