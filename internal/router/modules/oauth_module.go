package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-accounts/internal/interface/http"
)

// OAuthModule wires the federated login redirect and callback
type OAuthModule struct {
	Handler *handlers.OAuthHandler
}

func NewOAuthModule(h *handlers.OAuthHandler) *OAuthModule { return &OAuthModule{Handler: h} }

func (m *OAuthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/oauth2/:provider/start", m.Handler.Start)
	rg.GET("/oauth2/:provider/callback", m.Handler.Callback)
}
