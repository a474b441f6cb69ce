package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-accounts/internal/interface/http"
	"github.com/oksasatya/go-user-accounts/internal/interface/middleware"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// UserModule wires self-service account routes
// Public: POST /users/register, POST /users/login
// Protected: POST /users/logout, GET|PUT /users/profile, PUT /users/profile/change-password
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Users   middleware.UserLookup
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, users middleware.UserLookup) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("/register", m.Handler.Register)
	users.POST("/login", m.Handler.Login)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.JWT, m.Users))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/profile/change-password", m.Handler.ChangePassword)
	}
}
