package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Redirect  string      `json:"redirect,omitempty"`
	Data      T           `json:"data"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	return write(ctx, build(ctx, status, http.StatusOK, true, message, data, meta, nil))
}

// SuccessRedirect is Success with a client-side redirect hint.
func SuccessRedirect[T any](ctx *gin.Context, status int, data T, message, redirect string) APIResponse[T] {
	resp := build(ctx, status, http.StatusOK, true, message, data, nil, nil)
	resp.Redirect = redirect
	return write(ctx, resp)
}

// Error writes an error envelope and returns it. Callers in middleware still need to Abort.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	var zero T
	return write(ctx, build(ctx, status, http.StatusBadRequest, false, message, zero, nil, err))
}

// ErrorRedirect is Error with a client-side redirect hint.
func ErrorRedirect[T any](ctx *gin.Context, status int, message, redirect string) APIResponse[T] {
	var zero T
	resp := build(ctx, status, http.StatusBadRequest, false, message, zero, nil, nil)
	resp.Redirect = redirect
	return write(ctx, resp)
}

func build[T any](ctx *gin.Context, status, def int, ok bool, message string, data T, meta, err interface{}) APIResponse[T] {
	if status == 0 {
		status = def
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   ok,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Error:     err,
	}
}

func write[T any](ctx *gin.Context, resp APIResponse[T]) APIResponse[T] {
	ctx.JSON(resp.Status, resp)
	return resp
}
