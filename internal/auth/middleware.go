package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/matura-back/internal/access"
	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/httpx"
	"github.com/in-nis/matura-back/internal/models"
)

const (
	CookieName = "session"

	ctxUser    = "user"
	ctxSession = "session"
)

// TokenFrom reads the session token from the Authorization header or cookie.
func TokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

// Middleware resolves the acting user and stores it in the context.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, sess, err := s.Resolve(c.Request.Context(), TokenFrom(c))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Set(ctxUser, user)
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// RequireRole lets only users with exactly role through.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := access.RoleAllowed(CurrentUser(c), role)
		if !d.Allowed {
			httpx.Fail(c, &apperr.Error{Kind: d.Kind, Message: d.Reason, RoleGate: true})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by Middleware, nil outside protected routes.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func CurrentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(ctxSession); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}
