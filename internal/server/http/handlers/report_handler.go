package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
)

const dateLayout = "2006-01-02"

// ReportHandler serves sales reports and the dashboard.
type ReportHandler struct {
	facade ReportFacade
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(facade ReportFacade) *ReportHandler {
	return &ReportHandler{facade: facade}
}

// Sales handles GET /api/reports/sales?from=&to=&status=.
func (h *ReportHandler) Sales(c *gin.Context) {
	filter, err := salesFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}
	summary, err := h.facade.SalesReport(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SalesCSV handles GET /api/reports/sales.csv.
func (h *ReportHandler) SalesCSV(c *gin.Context) {
	filter, err := salesFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.facade.SalesCSV(c.Request.Context(), filter, &buf); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="vendas.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Dashboard handles GET /api/dashboard.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dash, err := h.facade.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func salesFilter(c *gin.Context) (model.SalesFilter, error) {
	filter := model.SalesFilter{Status: model.OrderStatus(c.Query("status"))}
	var err error
	if v := c.Query("from"); v != "" {
		if filter.From, err = time.ParseInLocation(dateLayout, v, time.Local); err != nil {
			return filter, domainErrors.Validation("from", "expected YYYY-MM-DD")
		}
	}
	if v := c.Query("to"); v != "" {
		if filter.To, err = time.ParseInLocation(dateLayout, v, time.Local); err != nil {
			return filter, domainErrors.Validation("to", "expected YYYY-MM-DD")
		}
	}
	return filter, nil
}
