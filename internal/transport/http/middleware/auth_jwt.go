package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"petstore/internal/core/auth"
	resp "petstore/internal/transport/http/response"
)

const KeyClaims = "claims"

// AuthJWT guards the back-office API. The storefront never uses tokens.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

// ClaimsFrom returns the parsed token claims set by AuthJWT.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(KeyClaims); ok {
		if cl, ok := v.(*auth.Claims); ok {
			return cl
		}
	}
	return nil
}
