package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/response"
)

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Recent godoc
// @Summary Recent audit entries
// @Description Mounted behind the audit.view action guard
// @Tags Audit
// @Produce json
// @Param principal_id query string false "Principal ID"
// @Param outcome query string false "ALLOWED, DENIED or FAILED"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	logs, err := h.audit.Recent(c.Request.Context(), models.AuditFilter{
		PrincipalID: c.Query("principal_id"),
		Outcome:     c.Query("outcome"),
		Limit:       queryInt(c, "limit", 100, 500),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
