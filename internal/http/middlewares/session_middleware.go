package middlewares

import (
	"context"
	"net/http"

	"github.com/fintrack/fintrack/internal/session"
	"github.com/gin-gonic/gin"
)

// SessionResolver is the slice of the session manager the middleware
// needs; tests fake it.
type SessionResolver interface {
	Current(ctx context.Context, token string) (session.Identity, error)
}

type SessionMiddleware struct {
	sessions SessionResolver
}

func NewSessionMiddleware(sessions SessionResolver) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// RequireSession resolves the session cookie and stashes the identity
// on the context. Anything short of a valid session redirects to the
// login page; this is a browser app, not an API, so no 401s.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)

		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		id, err := m.sessions.Current(c.Request.Context(), token)

		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(CtxUserID, id.UserID)
		c.Set(CtxUserName, id.Name)

		c.Next()
	}
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func UserNameFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserName)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
