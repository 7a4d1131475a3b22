// Package identity exposes the currently-authenticated signer identity to
// handlers. Credential verification happens upstream (API gateway); this
// package only reads the identity headers the gateway injects. Anonymous
// requests are valid and simply disable on-chain anchoring.
package identity

import "github.com/gin-gonic/gin"

// Header names set by the upstream gateway.
const (
	HeaderSubject = "X-Signer-Id"
	HeaderRole    = "X-Signer-Role"
)

const contextKey = "signer_identity"

// Identity is an authenticated signer.
type Identity struct {
	Subject string
	Role    string
}

// Middleware stores the signer identity from the request headers in the gin
// context. Missing headers leave the request anonymous.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetHeader(HeaderSubject)
		if subject != "" {
			c.Set(contextKey, Identity{
				Subject: subject,
				Role:    c.GetHeader(HeaderRole),
			})
		}
		c.Next()
	}
}

// FromContext returns the signer identity, if any.
func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
