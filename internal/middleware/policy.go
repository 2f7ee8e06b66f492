package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/response"
)

// RequireRoute aborts unless the principal may open route.
func RequireRoute(access *service.Access, route models.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := access.Route(CurrentPrincipal(c), route); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAction aborts unless the principal's role may perform action.
func RequireAction(access *service.Access, action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := access.Action(c.Request.Context(), CurrentPrincipal(c), action); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
