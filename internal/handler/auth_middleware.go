package handler

import (
	"github.com/conduit/internal/auth"
	"github.com/gin-gonic/gin"
)

const identityContextKey = "__identity"

// OptionalAuth lets anonymous requests through but rejects bad credentials.
func (a *API) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.guard.Optional(c.Request.Header)
		if err != nil {
			a.respondError(c, err)
			return
		}
		if identity != nil {
			c.Set(identityContextKey, identity)
		}
		c.Next()
	}
}

// RequireAuth additionally rejects anonymous requests.
func (a *API) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.guard.Required(c.Request.Header)
		if err != nil {
			a.respondError(c, err)
			return
		}
		c.Set(identityContextKey, identity)
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *auth.Identity {
	if v, ok := c.Get(identityContextKey); ok {
		if identity, ok := v.(*auth.Identity); ok {
			return identity
		}
	}
	return nil
}

// viewerID is 0 for anonymous requests.
func viewerID(c *gin.Context) int64 {
	if identity := currentIdentity(c); identity != nil {
		return identity.UserID
	}
	return 0
}
