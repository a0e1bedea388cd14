package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pos80/internal/server/http/dto"
)

// TillHandler exposes the cash register workflow.
type TillHandler struct {
	facade TillFacade
}

// NewTillHandler constructs TillHandler.
func NewTillHandler(facade TillFacade) *TillHandler {
	return &TillHandler{facade: facade}
}

// Status handles GET /api/till.
func (h *TillHandler) Status(c *gin.Context) {
	session, err := h.facade.Till(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Open handles POST /api/till/open.
func (h *TillHandler) Open(c *gin.Context) {
	var req dto.OpenTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.facade.OpenTill(c.Request.Context(), req.OpeningFloat)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Close handles POST /api/till/close.
func (h *TillHandler) Close(c *gin.Context) {
	result, err := h.facade.CloseTill(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.CloseTillResponse{
		Session:    result.Session,
		Report:     result.Report,
		ArchiveRef: result.ArchiveRef,
	}
	if result.PrintWarning != nil {
		resp.PrintWarning = result.PrintWarning.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// Report handles GET /api/till/report.
func (h *TillHandler) Report(c *gin.Context) {
	report, err := h.facade.TillReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Reset handles POST /api/admin/reset.
func (h *TillHandler) Reset(c *gin.Context) {
	if err := h.facade.ResetRecords(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
