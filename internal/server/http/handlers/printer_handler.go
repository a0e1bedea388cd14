package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/server/http/dto"
)

// PrinterHandler manages printer configuration.
type PrinterHandler struct {
	facade PrinterFacade
}

// NewPrinterHandler constructs PrinterHandler.
func NewPrinterHandler(facade PrinterFacade) *PrinterHandler {
	return &PrinterHandler{facade: facade}
}

// List handles GET /api/printers.
func (h *PrinterHandler) List(c *gin.Context) {
	printers, err := h.facade.Printers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, printers)
}

// Create handles POST /api/printers.
func (h *PrinterHandler) Create(c *gin.Context) {
	var req dto.PrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	printer, err := h.facade.CreatePrinter(c.Request.Context(), toPrinter(0, req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, printer)
}

// Update handles PUT /api/printers/:id.
func (h *PrinterHandler) Update(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req dto.PrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	printer, err := h.facade.UpdatePrinter(c.Request.Context(), toPrinter(id, req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, printer)
}

// Delete handles DELETE /api/printers/:id.
func (h *PrinterHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeletePrinter(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Test handles POST /api/printers/:id/test.
func (h *PrinterHandler) Test(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	ack, err := h.facade.TestPrinter(c.Request.Context(), id)
	printResult(c, ack, err)
}

func toPrinter(id int64, req dto.PrinterRequest) model.Printer {
	return model.Printer{
		ID:             id,
		Name:           req.Name,
		ConnectionType: model.ConnectionType(req.ConnectionType),
		Address:        req.Address,
	}
}
