package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lubetrack/lubetrack-api/internal/application/service"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves Excel exports of receipts and loans
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportReceipts streams an xlsx of receipts in ?start=YYYY-MM-DD&end=YYYY-MM-DD
// (end inclusive). Defaults to the current month.
func (h *ReportHandler) ExportReceipts(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now

	if startStr := c.Query("start"); startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		start = parsed
	}

	if endStr := c.Query("end"); endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		end = parsed
	}

	if end.Before(start) {
		response.BadRequest(c, "End date must not be before start date")
		return
	}

	// The filter upper bound is exclusive.
	exclusiveEnd := end.AddDate(0, 0, 1)

	f, err := h.reportService.ExportReceipts(c.Request.Context(), start, exclusiveEnd)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", service.ReceiptsFilename(start, end)))
	if err := f.Write(c.Writer); err != nil {
		response.Error(c, err)
	}
}

// ExportLoans streams an xlsx of loans, optionally filtered by ?status=
func (h *ReportHandler) ExportLoans(c *gin.Context) {
	var status *enum.LoanStatus
	if statusStr := c.Query("status"); statusStr != "" {
		parsed := enum.LoanStatus(statusStr)
		if !parsed.Valid() {
			response.BadRequest(c, "Unknown loan status: "+statusStr)
			return
		}
		status = &parsed
	}

	f, err := h.reportService.ExportLoans(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename=loans.xlsx")
	if err := f.Write(c.Writer); err != nil {
		response.Error(c, err)
	}
}
