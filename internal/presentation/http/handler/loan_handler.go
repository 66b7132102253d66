package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/application/service"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/dto/response"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
)

// LoanHandler handles loan HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// List handles listing loans with filtering
func (h *LoanHandler) List(c *gin.Context) {
	var paginationParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&paginationParams); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.LoanFilterParams{
		Pagination: &paginationParams,
		Search:     c.Query("search"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.LoanStatus(statusStr)
		if !status.Valid() {
			response.BadRequest(c, "Unknown loan status: "+statusStr)
			return
		}
		params.Status = &status
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		customerID, err := uuid.Parse(customerIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}

	result, err := h.loanService.ListLoans(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Loans retrieved successfully", result)
}

// Get handles retrieving a single loan with its payment history
func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid loan ID")
		return
	}

	loan, err := h.loanService.GetLoan(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loan retrieved successfully", loan)
}

// Create handles opening a new loan
func (h *LoanHandler) Create(c *gin.Context) {
	var input service.CreateLoanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Loan created successfully", loan)
}

// AddPayment handles recording a repayment. Runs behind the idempotency
// middleware so a retried request never books the payment twice.
func (h *LoanHandler) AddPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid loan ID")
		return
	}

	var input service.LoanPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	loan, err := h.loanService.AddPayment(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", loan)
}

// CorrectTotal handles renegotiating a loan's agreed total
func (h *LoanHandler) CorrectTotal(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid loan ID")
		return
	}

	var input service.CorrectTotalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	loan, err := h.loanService.CorrectTotal(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loan total updated successfully", loan)
}

// Delete handles removing a loan and its payment history
func (h *LoanHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid loan ID")
		return
	}

	if err := h.loanService.DeleteLoan(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loan deleted successfully", nil)
}

// Outstanding handles listing loans that still carry a balance
func (h *LoanHandler) Outstanding(c *gin.Context) {
	loans, err := h.loanService.ListOutstanding(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Outstanding loans retrieved successfully", loans)
}
