package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/response"
)

// ScheduleHandler exposes routines and exams.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// Weekly godoc
// @Summary Weekly routine and exams for a grade
// @Description Parents and students default to their own grade
// @Tags Schedule
// @Produce json
// @Param grade query string false "Grade"
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Weekly(c *gin.Context) {
	week, err := h.schedule.Weekly(principal(c), c.Query("grade"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// AddSlot godoc
// @Summary Add a routine slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body models.RoutineItemRequest true "Slot"
// @Success 201 {object} response.Envelope
// @Router /schedule/slots [post]
func (h *ScheduleHandler) AddSlot(c *gin.Context) {
	var req models.RoutineItemRequest
	if !bindJSON(c, &req) {
		return
	}
	slot, err := h.schedule.AddSlot(c.Request.Context(), principal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// DeleteSlot godoc
// @Summary Delete a routine slot
// @Tags Schedule
// @Param id path string true "Slot ID"
// @Success 204
// @Router /schedule/slots/{id} [delete]
func (h *ScheduleHandler) DeleteSlot(c *gin.Context) {
	if err := h.schedule.DeleteSlot(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddExam godoc
// @Summary Schedule an exam
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body models.ExamSessionRequest true "Exam"
// @Success 201 {object} response.Envelope
// @Router /schedule/exams [post]
func (h *ScheduleHandler) AddExam(c *gin.Context) {
	var req models.ExamSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	exam, err := h.schedule.AddExam(c.Request.Context(), principal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// DeleteExam godoc
// @Summary Delete an exam
// @Tags Schedule
// @Param id path string true "Exam ID"
// @Success 204
// @Router /schedule/exams/{id} [delete]
func (h *ScheduleHandler) DeleteExam(c *gin.Context) {
	if err := h.schedule.DeleteExam(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
