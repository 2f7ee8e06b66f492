package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/response"
)

// SMSHandler exposes parent messaging.
type SMSHandler struct {
	sms *service.SMSService
}

// NewSMSHandler constructs SMSHandler.
func NewSMSHandler(sms *service.SMSService) *SMSHandler {
	return &SMSHandler{sms: sms}
}

// Outbox godoc
// @Summary List sent and queued messages visible to the caller
// @Tags SMS
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sms [get]
func (h *SMSHandler) Outbox(c *gin.Context) {
	messages, err := h.sms.Outbox(principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// Draft godoc
// @Summary Draft a message with the text generator
// @Tags SMS
// @Accept json
// @Produce json
// @Param payload body models.DraftSMSRequest true "Draft request"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /sms/draft [post]
func (h *SMSHandler) Draft(c *gin.Context) {
	var req models.DraftSMSRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.sms.Draft(c.Request.Context(), principal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// Send godoc
// @Summary Queue a message to a student's parent
// @Tags SMS
// @Accept json
// @Produce json
// @Param payload body models.SendSMSRequest true "Message"
// @Success 202 {object} response.Envelope
// @Router /sms [post]
func (h *SMSHandler) Send(c *gin.Context) {
	var req models.SendSMSRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.sms.Send(c.Request.Context(), principal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, msg)
}
