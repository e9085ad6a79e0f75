package middleware

import (
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identity is the authenticated caller, taken from the bearer token.
type Identity struct {
	UserID string
	Email  string
}

// IdentityFromContext returns the caller set by AuthMiddleware or OptionalAuth.
func IdentityFromContext(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok && id != nil
}

func setIdentity(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserID)
}
