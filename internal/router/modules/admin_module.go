package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	handlers "github.com/oksasatya/go-user-accounts/internal/interface/http"
	"github.com/oksasatya/go-user-accounts/internal/interface/middleware"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// AdminModule wires the user administration routes under /admin/users.
// Reads are open to STAFF, writes need ADMIN.
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
	Users   middleware.UserLookup
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager, users middleware.UserLookup) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt, Users: users}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/admin/users")
	users.Use(middleware.Auth(m.JWT, m.Users), middleware.RequireRoles(entity.RoleAdmin, entity.RoleStaff))

	users.GET("", m.Handler.List)
	users.GET("/:id", m.Handler.Get)

	adminOnly := middleware.RequireRoles(entity.RoleAdmin)
	users.POST("/create", adminOnly, m.Handler.Create)
	users.POST("/password-reset", adminOnly, m.Handler.ResetPassword)
	users.PUT("/:id/role", adminOnly, m.Handler.SetRole)
	users.DELETE("/:id", adminOnly, m.Handler.Delete)
}
