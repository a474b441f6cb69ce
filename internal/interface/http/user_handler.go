package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/interface/middleware"
	"github.com/oksasatya/go-user-accounts/pkg/response"
	"github.com/oksasatya/go-user-accounts/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Tokens *TokenIssuer
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, tokens *TokenIssuer, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Tokens: tokens, Logger: logger}
}

func (r registerRequest) input() (application.RegisterInput, error) {
	dob, err := validation.ParseDate(r.DateOfBirth)
	if err != nil {
		return application.RegisterInput{}, err
	}
	return application.RegisterInput{
		Username:    r.Username,
		Password:    r.Password,
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		Address:     r.Address,
		DateOfBirth: dob,
	}, nil
}

// bindRegister binds and converts a registration body, writing the 400 itself.
func bindRegister(c *gin.Context) (application.RegisterInput, bool) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return application.RegisterInput{}, false
	}
	in, err := req.input()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"date_of_birth": "invalid date"})
		return application.RegisterInput{}, false
	}
	return in, true
}

func (h *UserHandler) Register(c *gin.Context) {
	in, ok := bindRegister(c)
	if !ok {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "user registered", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, ok := h.Svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "invalid username or password", nil)
		return
	}
	tok, err := h.Tokens.Issue(c, u)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tok, "login successful", nil)
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Tokens.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dob, err := validation.ParseDate(req.DateOfBirth)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"date_of_birth": "invalid date"})
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.ProfileFields{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Address:     req.Address,
		DateOfBirth: dob,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile updated", nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}
