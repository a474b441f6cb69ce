package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
	"github.com/oksasatya/go-user-accounts/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserRoleKey = "userRole"
)

// UserLookup resolves the account behind a token
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

// Auth validates the access token from the Authorization header or the
// access_token cookie, then loads the account so that deleted users are
// rejected and userRole reflects the stored role rather than the token's.
// It sets userID (int64) and userRole in the Gin context.
func Auth(jwt *helpers.JWTManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		uid, err := claims.UserID()
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		u, err := users.FindByID(c.Request.Context(), uid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.Abort(c, http.StatusUnauthorized, "account no longer exists", nil)
				return
			}
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserRoleKey, string(u.Role))
		c.Next()
	}
}

// RequireRoles lets the request through only when the authenticated role is
// one of roles. It must run after Auth.
func RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.Role(c.GetString(CtxUserRoleKey))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "forbidden", nil)
	}
}

// UserID returns the id set by Auth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return token
	}
	return ""
}
