package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/pkg/response"
	"github.com/oksasatya/go-user-accounts/pkg/validation"
)

type AdminHandler struct {
	Admin  *application.AdminService
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewAdminHandler(admin *application.AdminService, users *application.UserService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Admin: admin, Users: users, Logger: logger}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) List(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	page, err := h.Admin.ListUsers(c.Request.Context(), application.ListUsersQuery{
		Page:    q.Page,
		Size:    q.Size,
		SortBy:  q.SortBy,
		SortDir: q.SortDir,
		Search:  q.Search,
		Role:    q.Role,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponses(page.Items), "users", response.Pagination{
		Page:       page.Page,
		Size:       page.Size,
		Total:      page.Total,
		TotalPages: page.TotalPages(),
	})
}

func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Admin.GetUser(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user", nil)
}

func (h *AdminHandler) Create(c *gin.Context) {
	in, ok := bindRegister(c)
	if !ok {
		return
	}
	u, err := h.Users.CreateByAdmin(c.Request.Context(), in, c.Query("role"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "user created", nil)
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Admin.SetRole(c.Request.Context(), id, c.Query("role"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "role updated", nil)
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req adminResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Users.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password reset", nil)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Admin.DeleteUser(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}
