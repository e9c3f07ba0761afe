package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func guardedEngine(jwt *helpers.JWTManager, reached *int) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Auth(jwt, "token"), func(c *gin.Context) {
		*reached++
		id, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, id)
	})
	return r
}

func TestAuth_RejectsWithoutCallingHandler(t *testing.T) {
	jwt := helpers.NewJWTManager("secret")
	reached := 0
	r := guardedEngine(jwt, &reached)

	expired, _, err := jwt.Issue(helpers.Claims{UserID: "u-1", Purpose: helpers.PurposeSession}, 0)
	require.NoError(t, err)
	verifyTok, _, err := jwt.Issue(helpers.Claims{UserID: "u-1", Purpose: helpers.PurposeVerify}, time.Hour)
	require.NoError(t, err)
	foreign, _, err := helpers.NewJWTManager("other").Issue(helpers.Claims{UserID: "u-1", Purpose: helpers.PurposeSession}, time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":       "",
		"malformed":     "not-a-jwt",
		"expired":       expired,
		"wrong purpose": verifyTok,
		"wrong secret":  foreign,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tok != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tok})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["message"])
			assert.Equal(t, false, body["success"])
		})
	}
	assert.Zero(t, reached)
}

func TestAuth_AttachesIdentity(t *testing.T) {
	jwt := helpers.NewJWTManager("secret")
	reached := 0
	r := guardedEngine(jwt, &reached)

	tok, _, err := jwt.Issue(helpers.Claims{UserID: "u-1", Email: "a@x.com", Purpose: helpers.PurposeSession}, time.Hour)
	require.NoError(t, err)

	for _, viaHeader := range []bool{false, true} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if viaHeader {
			req.Header.Set("Authorization", "Bearer "+tok)
		} else {
			req.AddCookie(&http.Cookie{Name: "token", Value: tok})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var id Identity
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &id))
		assert.Equal(t, Identity{UserID: "u-1", Email: "a@x.com"}, id)
	}
	assert.Equal(t, 2, reached)
}

func TestRateLimit_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(false))
	r.POST("/auth/login", RateLimit(rdb, 2, time.Minute, KeyByIP("login"), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, do().Code)

	blocked := do()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, do().Code)
}

func TestRateLimit_FailsOpenAndBypasses(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(false))
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), AllowPrivateIP()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("10.0.0.5:1000"))
	}
	assert.Equal(t, http.StatusOK, do("203.0.113.9:1000"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.9:1000"))

	mr.Close()
	assert.Equal(t, http.StatusOK, do("203.0.113.9:1000"))
}

func TestRealIP(t *testing.T) {
	read := func(trust bool, headers map[string]string) string {
		r := gin.New()
		var got string
		r.GET("/", RealIP(trust), func(c *gin.Context) { got = c.GetString("real_ip") })
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.1:5555"
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	assert.Equal(t, "203.0.113.1", read(true, map[string]string{"CF-Connecting-IP": "203.0.113.1"}))
	assert.Equal(t, "203.0.113.2", read(true, map[string]string{"X-Forwarded-For": "203.0.113.2, 10.0.0.1"}))
	assert.Equal(t, "198.51.100.1", read(false, map[string]string{"CF-Connecting-IP": "203.0.113.1"}))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = c.GetString("request_id") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, seen)
}
