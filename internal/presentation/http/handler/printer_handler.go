package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lubetrack/lubetrack-api/internal/application/service"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer status and test requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// Status handles retrieving printer connection status
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.printerService.GetStatus())
}

// Test handles sending a test page to the printer
func (h *PrinterHandler) Test(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.printerService.TestPrint(c.Request.Context(), *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Test page sent to printer", nil)
}
