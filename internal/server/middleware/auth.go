package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/instaclone/api/internal/auth"
	"github.com/instaclone/api/internal/httperr"
)

// claimsKey is the Gin context key holding the authenticated access claims.
const claimsKey = "auth_claims"

// Authenticate returns a Gin middleware that runs the authentication gate
// before protected handlers. On success the verified claims are stored in
// the request context; any rejection aborts with the classified error.
func Authenticate(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticator.Authenticate(c.Request.Header)
		if err != nil {
			appErr := httperr.FromError(err)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the access claims stored by Authenticate.
func ClaimsFromContext(c *gin.Context) (*auth.AccessClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.AccessClaims)
	return claims, ok
}
