package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/response"
)

// AttendanceHandler exposes class registers.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Take godoc
// @Summary Take attendance for a grade
// @Description Absent students' parents receive a queued SMS alert
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body models.TakeAttendanceRequest true "Register"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Take(c *gin.Context) {
	var req models.TakeAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.attendance.Take(c.Request.Context(), principal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// History godoc
// @Summary List recorded registers
// @Tags Attendance
// @Produce json
// @Param grade query string false "Grade"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	sessions, err := h.attendance.History(principal(c), c.Query("grade"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}
