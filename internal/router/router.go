package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-api/internal/container"
	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/internal/router/modules"
	"github.com/oksasatya/go-blog-api/pkg/response"
	"github.com/oksasatya/go-blog-api/pkg/validation"
)

// NewEngine builds the Gin engine with global middleware and every module registered.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(c.Cfg.TrustProxyHeaders))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.Cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if c.Cfg.Env == "development" || c.Cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.NoRoute(func(ctx *gin.Context) {
		response.Error[any](ctx, http.StatusNotFound, "route not found", nil)
	})

	reg := NewRegistry(r, c.Cfg.APIPrefix)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// InitModules builds the handlers from the container and adds their modules to the registry.
func InitModules(reg *Registry, c *container.Container) {
	var allow middleware.AllowFunc
	if c.Cfg.Env == "development" {
		allow = middleware.AllowPrivateIP()
	}
	rdb := c.Limiter()

	authHandler := handlers.NewAuthHandler(c.Auth, c.Logger, c.Cookies)
	postHandler := handlers.NewPostHandler(c.PostsSvc, c.Logger, c.Cfg.MaxImageBytes)

	reg.Add(modules.NewAuthModule(authHandler, c.JWT, c.Cookies.Name, rdb, allow))
	reg.Add(modules.NewBlogModule(postHandler, c.JWT, c.Cookies.Name, rdb, allow))
	if c.Cfg.DebugMetricsEnabled {
		reg.Add(modules.NewDebugModule(rdb))
	}
}
