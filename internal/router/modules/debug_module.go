package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
)

// DebugModule exposes expvar counters at /debug/vars.
type DebugModule struct {
	RDB redis.Cmdable
}

func NewDebugModule(rdb redis.Cmdable) *DebugModule { return &DebugModule{RDB: rdb} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP("debug"), nil)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
