package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// BlogModule serves /blog/*. Reads are public; mutations require a session.
type BlogModule struct {
	Handler    *handlers.PostHandler
	JWT        *helpers.JWTManager
	CookieName string
	RDB        redis.Cmdable
	Allow      middleware.AllowFunc
}

func NewBlogModule(h *handlers.PostHandler, jwt *helpers.JWTManager, cookieName string, rdb redis.Cmdable, allow middleware.AllowFunc) *BlogModule {
	return &BlogModule{Handler: h, JWT: jwt, CookieName: cookieName, RDB: rdb, Allow: allow}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	blog := rg.Group("/blog")
	blog.GET("/all", m.Handler.All)
	blog.GET("/search", middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIP("search"), m.Allow), m.Handler.Search)
	blog.GET("/:id", m.Handler.Get)

	authed := blog.Group("")
	authed.Use(
		middleware.Auth(m.JWT, m.CookieName),
		middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), m.Allow),
	)
	{
		authed.POST("/create", m.Handler.Create)
		authed.POST("/image", m.Handler.UploadImage)
		authed.PUT("/:id", m.Handler.Update)
		authed.DELETE("/:id", m.Handler.Delete)
	}
}
