package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
	"github.com/oksasatya/go-user-accounts/pkg/response"
)

// statusFor maps a service error onto an HTTP status and a client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, application.ErrDuplicateUsername):
		return http.StatusConflict, "username already taken"
	case errors.Is(err, application.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, application.ErrProviderConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrPasswordUnchanged),
		errors.Is(err, application.ErrInvalidRole),
		errors.Is(err, application.ErrInvalidSort),
		errors.Is(err, application.ErrInvalidUpstreamData),
		errors.Is(err, application.ErrInvalidOTP),
		errors.Is(err, application.ErrInvalidOAuthState):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, application.ErrUnknownProvider):
		return http.StatusNotFound, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// writeServiceError renders err with the status its kind maps to. Only
// unexpected errors are logged.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
	}
	response.Error[any](c, status, msg, nil)
}
