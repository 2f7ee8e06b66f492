package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/pkg/logger"
)

// ContextUserKey is the gin context key storing the request principal.
const ContextUserKey = "currentUser"

// SessionResolver turns a bearer token into a principal.
type SessionResolver interface {
	ValidateToken(token string) (*models.JWTClaims, error)
	Principal(claims *models.JWTClaims) models.Principal
}

// Session attaches the caller's principal to the context. Missing, malformed or
// invalid tokens yield the Guest principal; authorization happens downstream.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := models.Guest
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := resolver.ValidateToken(token); err == nil {
				p = resolver.Principal(claims)
			}
		}
		c.Set(ContextUserKey, &p)
		c.Set(logger.RoleKey, string(p.Role))
		c.Next()
	}
}

// CurrentPrincipal returns the principal set by Session, or a Guest when absent.
func CurrentPrincipal(c *gin.Context) *models.Principal {
	if value, ok := c.Get(ContextUserKey); ok {
		if p, ok := value.(*models.Principal); ok && p != nil {
			return p
		}
	}
	guest := models.Guest
	return &guest
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
