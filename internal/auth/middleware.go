package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// sessionKey is the gin context key the middleware stores the session under
const sessionKey = "auth_session"

// RequireSession rejects requests without a valid session. The
// session check is bounded: if it has not resolved within the
// configured timeout the request is treated as unauthenticated rather
// than left hanging.
func (g *Gate) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := g.checkSession(c.Request)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// checkSession resolves the request session with a bounded wait
func (g *Gate) checkSession(r *http.Request) *Session {
	ctx, cancel := context.WithTimeout(r.Context(), g.checkTimeout)
	defer cancel()

	result := make(chan *Session, 1)
	go func() {
		result <- g.CurrentSession(r)
	}()

	select {
	case session := <-result:
		return session
	case <-ctx.Done():
		return nil
	}
}

// SessionFromContext returns the session the middleware attached, if any
func SessionFromContext(c *gin.Context) *Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*Session)
	return session
}
