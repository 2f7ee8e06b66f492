package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/response"
)

// FeeHandler exposes the fee ledger, payments and invoices.
type FeeHandler struct {
	fees *service.FeeService
}

// NewFeeHandler constructs FeeHandler.
func NewFeeHandler(fees *service.FeeService) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// List godoc
// @Summary List fee records visible to the caller
// @Tags Fees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	fees, err := h.fees.List(principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees, nil)
}

// Get godoc
// @Summary Get a fee record
// @Tags Fees
// @Produce json
// @Param id path string true "Fee ID"
// @Success 200 {object} response.Envelope
// @Router /fees/{id} [get]
func (h *FeeHandler) Get(c *gin.Context) {
	fee, err := h.fees.Get(principal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fee, nil)
}

// Create godoc
// @Summary Bill a student
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body models.FeeRequest true "Fee payload"
// @Success 201 {object} response.Envelope
// @Router /fees [post]
func (h *FeeHandler) Create(c *gin.Context) {
	var req models.FeeRequest
	if !bindJSON(c, &req) {
		return
	}
	fee, err := h.fees.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fee)
}

// Update godoc
// @Summary Update a fee record
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee ID"
// @Param payload body models.FeeRequest true "Fee payload"
// @Success 200 {object} response.Envelope
// @Router /fees/{id} [put]
func (h *FeeHandler) Update(c *gin.Context) {
	var req models.FeeRequest
	if !bindJSON(c, &req) {
		return
	}
	fee, err := h.fees.Update(c.Request.Context(), principal(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fee, nil)
}

// Delete godoc
// @Summary Delete a fee record
// @Tags Fees
// @Param id path string true "Fee ID"
// @Success 204
// @Router /fees/{id} [delete]
func (h *FeeHandler) Delete(c *gin.Context) {
	if err := h.fees.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Pay godoc
// @Summary Pay one of the parent's outstanding fees
// @Tags Fees
// @Produce json
// @Param id path string true "Fee ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /fees/{id}/pay [post]
func (h *FeeHandler) Pay(c *gin.Context) {
	fee, err := h.fees.Pay(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fee, nil)
}

// Invoice godoc
// @Summary Render an invoice and return a signed download link
// @Tags Fees
// @Produce json
// @Param id path string true "Fee ID"
// @Success 201 {object} response.Envelope
// @Router /fees/{id}/invoice [post]
func (h *FeeHandler) Invoice(c *gin.Context) {
	link, err := h.fees.Invoice(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// DownloadInvoice godoc
// @Summary Download a rendered invoice through its signed link
// @Tags Fees
// @Produce application/pdf
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /fees/invoices/download [get]
func (h *FeeHandler) DownloadInvoice(c *gin.Context) {
	name, data, err := h.fees.DownloadInvoice(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, name, "application/pdf", data)
}

// Ledger godoc
// @Summary Export the fee ledger as CSV
// @Tags Fees
// @Produce text/csv
// @Success 200 {file} file
// @Router /fees/ledger [get]
func (h *FeeHandler) Ledger(c *gin.Context) {
	data, err := h.fees.Ledger(c.Request.Context(), principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, fmt.Sprintf("fee-ledger-%s.csv", time.Now().UTC().Format("20060102")), "text/csv", data)
}
