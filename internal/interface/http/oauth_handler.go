package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/pkg/response"
)

type OAuthHandler struct {
	Svc    *application.OAuthService
	Tokens *TokenIssuer
	Logger *logrus.Logger
	// SuccessRedirect, when set, is where the browser lands after a
	// successful callback; the token then travels only in the cookie.
	SuccessRedirect string
}

func NewOAuthHandler(svc *application.OAuthService, tokens *TokenIssuer, successRedirect string, logger *logrus.Logger) *OAuthHandler {
	return &OAuthHandler{Svc: svc, Tokens: tokens, SuccessRedirect: successRedirect, Logger: logger}
}

func (h *OAuthHandler) Start(c *gin.Context) {
	url, err := h.Svc.Begin(c.Request.Context(), c.Param("provider"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *OAuthHandler) Callback(c *gin.Context) {
	if e := c.Query("error"); e != "" {
		response.Error[any](c, http.StatusBadRequest, "authorization denied", e)
		return
	}
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		response.Error[any](c, http.StatusBadRequest, "missing state or code", nil)
		return
	}
	u, err := h.Svc.Complete(c.Request.Context(), c.Param("provider"), state, code)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	tok, err := h.Tokens.Issue(c, u)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	if h.SuccessRedirect != "" {
		c.Redirect(http.StatusFound, h.SuccessRedirect)
		return
	}
	response.Success(c, http.StatusOK, tok, "login successful", nil)
}
