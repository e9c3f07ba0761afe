package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/response"
)

const notVerifiedRedirect = "/not-verified"

// fail writes the error envelope for err. Unclassified errors become 500 and are logged.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, app.ErrEmailNotVerified):
		response.ErrorRedirect[any](c, http.StatusBadRequest, err.Error(), notVerifiedRedirect)
	case errors.Is(err, app.ErrDuplicateEmail),
		errors.Is(err, app.ErrInvalidCredentials),
		errors.Is(err, app.ErrExpiredToken),
		errors.Is(err, app.ErrInvalidToken):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, app.ErrUserNotFound), errors.Is(err, app.ErrPostNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, app.ErrSessionUserGone):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, app.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, app.ErrImageStoreDisabled):
		response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.Is(err, app.ErrMailDispatch):
		response.Error[any](c, http.StatusInternalServerError, app.ErrMailDispatch.Error(), nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
		response.Error[any](c, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}

// failNotFoundAsBadRequest reports an unknown account as 400, used where 404 would leak nothing useful.
func failNotFoundAsBadRequest(c *gin.Context, logger *logrus.Logger, err error) {
	if errors.Is(err, app.ErrUserNotFound) {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	fail(c, logger, err)
}
