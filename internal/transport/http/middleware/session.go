package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petstore/internal/core/session"
	resp "petstore/internal/transport/http/response"
)

const KeySession = "session"

// Session resolves the caller's session from the cookie, creating a fresh
// anonymous one when the cookie is absent or expired. New sessions get their
// cookie set here; persistence still happens in the handlers that mutate them.
func Session(store *session.Store, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var s *session.Session
		if id, err := c.Cookie(cookieName); err == nil {
			loaded, lerr := store.Load(c.Request.Context(), id)
			if lerr != nil {
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "session store unavailable"))
				return
			}
			s = loaded
		}
		if s == nil {
			s = store.New()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, s.ID, int(store.IdleTimeout().Seconds()), "/", "", secure, true)
		}
		c.Set(KeySession, s)
		c.Next()
	}
}

// SessionFrom returns the session attached by the Session middleware.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(KeySession); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// RequireUser rejects anonymous callers on account routes.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if s == nil || !s.SignedIn() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "sign in required"))
			return
		}
		c.Next()
	}
}
