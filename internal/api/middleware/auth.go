package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/utils"
)

const (
	identityKey = "identity"
	// TokenCookie is read when no Authorization header is sent.
	TokenCookie = "token"
)

// IdentityRefresher reloads a token identity from the user record.
type IdentityRefresher interface {
	Refresh(ctx context.Context, id auth.Identity) (auth.Identity, error)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: msg})
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if v, err := c.Cookie(TokenCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

// Protect rejects requests without a valid credential and stores the
// resolved identity on the context. When refresh is set the role comes from
// the user record, so promotions apply without a new token.
func Protect(tm *auth.TokenManager, refresh IdentityRefresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		id, err := tm.Verify(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		if refresh != nil {
			id, err = refresh.Refresh(c.Request.Context(), id)
			if err != nil {
				status := utils.HTTPStatus(err)
				var ae *utils.AppError
				if status >= http.StatusInternalServerError || !errors.As(err, &ae) {
					abort(c, status, http.StatusText(status))
					return
				}
				abort(c, status, ae.Message)
				return
			}
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Protect.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok && !id.UserID.IsZero()
}

// Authorize lets the request through only for the listed roles.
func Authorize(allowed ...models.Role) gin.HandlerFunc {
	allow := map[models.Role]struct{}{}
	for _, r := range allowed {
		allow[r] = struct{}{}
	}

	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if _, ok := allow[id.Role]; !ok {
			abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc { return Authorize(models.RoleAdmin) }
