package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/service"
)

// Audit records an access entry after every request that did not fail.
func Audit(audit *service.AuditService, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if audit == nil || c.Writer.Status() >= 400 {
			return
		}

		audit.Record(c.Request.Context(), service.AuditEntry{
			Principal:  CurrentPrincipal(c),
			Action:     action,
			Resource:   resource,
			ResourceID: c.Param("id"),
			Outcome:    models.AuditAllowed,
			Details: map[string]interface{}{
				"path":    c.FullPath(),
				"method":  c.Request.Method,
				"status":  c.Writer.Status(),
				"latency": time.Since(start).Milliseconds(),
			},
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
	}
}
