package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/application/service"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/dto/response"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
)

// ReceiptHandler handles receipt HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	printerService *service.PrinterService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, printerService *service.PrinterService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		printerService: printerService,
	}
}

// List handles listing receipts with filtering
func (h *ReceiptHandler) List(c *gin.Context) {
	var paginationParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&paginationParams); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ReceiptFilterParams{
		Pagination: &paginationParams,
		Search:     c.Query("search"),
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		customerID, err := uuid.Parse(customerIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}

	if startStr := c.Query("start"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}

	if endStr := c.Query("end"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		// End date is inclusive in the query string, exclusive in the filter.
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	result, err := h.receiptService.ListReceipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Get handles retrieving a single receipt with its line items
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Create handles posting a new receipt. Runs behind the idempotency
// middleware: the same key never draws stock twice.
func (h *ReceiptHandler) Create(c *gin.Context) {
	var input service.CreateReceiptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", receipt)
}

// Delete handles deleting a receipt. Stock is not restored.
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.receiptService.DeleteReceipt(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt deleted successfully", nil)
}

// Print handles printing a receipt to the configured thermal printer
func (h *ReceiptHandler) Print(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.printerService.PrintReceipt(c.Request.Context(), *userID, id)
	if err != nil {
		if receipt != nil {
			// Receipt exists but the printer failed; return it so the
			// frontend can fall back to browser printing.
			response.Success(c, 200, "Printer unavailable, returning receipt data", receipt)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", receipt)
}
