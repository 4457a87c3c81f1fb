// Package middleware provides the gin middlewares of the SecureAuth
// web layer: bearer-token authentication, role gating and rate
// limiting.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/secureauth/secureauth/web/entity"
	"github.com/secureauth/secureauth/web/service"

	"github.com/gin-gonic/gin"
)

// Context keys populated by TokenRequired.
const (
	CtxUserId = "user_id"
	CtxRole   = "role"
	CtxUser   = "user"
)

// TokenRequired validates the Authorization bearer token and loads the
// current user into the context. Every failure is a plain 401 except a
// deactivated account, which gets its own message.
func TokenRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortJSON(c, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := auth.Verify(token)
		if err != nil {
			if errors.Is(err, service.ErrAccountInactive) {
				abortJSON(c, http.StatusUnauthorized, service.ErrAccountInactive.Error())
				return
			}
			abortJSON(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(CtxUserId, user.Id)
		c.Set(CtxRole, user.Role)
		c.Set(CtxUser, user)
		c.Next()
	}
}

// GetActor reads the authenticated identity out of the context.
func GetActor(c *gin.Context) service.Actor {
	return service.Actor{
		Id:   c.GetString(CtxUserId),
		Role: c.GetString(CtxRole),
	}
}

// GetUser returns the user view loaded by TokenRequired, or nil.
func GetUser(c *gin.Context) *entity.UserView {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	user, _ := v.(*entity.UserView)
	return user
}

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, entity.Msg{Success: false, Msg: msg})
}
