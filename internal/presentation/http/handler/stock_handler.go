package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lubetrack/lubetrack-api/internal/application/service"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/dto/response"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
)

// StockHandler handles stock item HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// List handles listing stock items with filtering
func (h *StockHandler) List(c *gin.Context) {
	var paginationParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&paginationParams); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.StockFilterParams{
		Pagination: &paginationParams,
		Search:     c.Query("search"),
		LowStock:   c.Query("low_stock") == "true",
	}

	if categoryStr := c.Query("category"); categoryStr != "" {
		category := enum.StockCategory(categoryStr)
		if !category.Valid() {
			response.BadRequest(c, "Unknown stock category: "+categoryStr)
			return
		}
		params.Category = &category
	}

	result, err := h.stockService.ListStockItems(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock items retrieved successfully", result)
}

// Get handles retrieving a single stock item
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid stock item ID")
		return
	}

	item, err := h.stockService.GetStockItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock item retrieved successfully", item)
}

// Create handles creating a stock item
func (h *StockHandler) Create(c *gin.Context) {
	var input service.StockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.stockService.CreateStockItem(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock item created successfully", item)
}

// Update handles updating a stock item
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid stock item ID")
		return
	}

	var input service.StockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.stockService.UpdateStockItem(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock item updated successfully", item)
}

// Delete handles deleting a stock item
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid stock item ID")
		return
	}

	if err := h.stockService.DeleteStockItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock item deleted successfully", nil)
}

// LowStock handles listing items at or below their alert threshold
func (h *StockHandler) LowStock(c *gin.Context) {
	items, err := h.stockService.GetLowStockItems(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock items retrieved successfully", items)
}
