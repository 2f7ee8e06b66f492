package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/middleware"
	"github.com/noah-isme/edusphere-api/internal/models"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
	"github.com/noah-isme/edusphere-api/pkg/response"
)

func principal(c *gin.Context) *models.Principal {
	return middleware.CurrentPrincipal(c)
}

// bindJSON decodes the body into dest and writes a validation error on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// queryInt reads a positive integer query parameter no larger than limit.
// Missing, malformed or non-positive values yield fallback.
func queryInt(c *gin.Context, key string, fallback, limit int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return min(v, limit)
}
