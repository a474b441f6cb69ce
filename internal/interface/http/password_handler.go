package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/pkg/response"
	"github.com/oksasatya/go-user-accounts/pkg/validation"
)

type PasswordHandler struct {
	Svc    *application.PasswordResetService
	Logger *logrus.Logger
}

func NewPasswordHandler(svc *application.PasswordResetService, logger *logrus.Logger) *PasswordHandler {
	return &PasswordHandler{Svc: svc, Logger: logger}
}

// Forgot answers the same way whether or not the email is registered.
func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Request(c.Request.Context(), req.Email); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "if the email is registered, a reset code has been sent", nil)
}

func (h *PasswordHandler) ResetWithOTP(c *gin.Context) {
	var req resetWithOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Confirm(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password reset", nil)
}
