package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// TokenIssuer signs an access token for a user and mirrors it into the
// HttpOnly cookie for browser clients.
type TokenIssuer struct {
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager
}

func NewTokenIssuer(jwt *helpers.JWTManager, cookieDomain string, cookieSecure bool) *TokenIssuer {
	return &TokenIssuer{JWT: jwt, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

func (t *TokenIssuer) Issue(c *gin.Context, u *entity.User) (tokenResponse, error) {
	token, exp, err := t.JWT.GenerateAccessToken(u.ID, u.Role.String())
	if err != nil {
		return tokenResponse{}, err
	}
	t.Cookies.SetAccess(c, token, exp)
	return tokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp, User: toUserResponse(u)}, nil
}
