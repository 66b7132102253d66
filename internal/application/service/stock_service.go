package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/pkg/apperror"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// StockService handles stock item operations
type StockService struct {
	stockRepo repository.StockRepository
}

// NewStockService creates a new stock service
func NewStockService(stockRepo repository.StockRepository) *StockService {
	return &StockService{stockRepo: stockRepo}
}

// StockItemInput represents the create/update stock item input. Prices are
// decimal currency; they are stored as cents.
type StockItemInput struct {
	ItemName        string  `json:"itemName" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	CostPrice       float64 `json:"costPrice"`
	SalePrice       float64 `json:"salePrice"`
	Quantity        int     `json:"quantity"`
	QuantityAlert   *int    `json:"quantityAlert"`
	LitresPerGallon float64 `json:"litresPerGallon"`
	PricePerLitre   float64 `json:"pricePerLitre"`
}

func (in *StockItemInput) validate() (enum.StockCategory, *apperror.AppError) {
	category := enum.StockCategory(in.Category)
	if !category.Valid() {
		return "", apperror.NewBadRequestError("Unknown stock category: " + in.Category)
	}
	if in.Quantity < 0 {
		return "", apperror.NewBadRequestError("Quantity cannot be negative")
	}

	// Oil items dispense by volume, so the gallon size and litre price must
	// be set up front. Filters must not carry volume fields.
	if category.IsOil() {
		if in.LitresPerGallon <= 0 {
			return "", apperror.NewBadRequestError("Oil items require litresPerGallon greater than zero")
		}
		if in.PricePerLitre <= 0 {
			return "", apperror.NewBadRequestError("Oil items require pricePerLitre greater than zero")
		}
	} else {
		if in.LitresPerGallon != 0 || in.PricePerLitre != 0 {
			return "", apperror.NewBadRequestError("Volume fields only apply to oil items")
		}
		if in.SalePrice <= 0 {
			return "", apperror.NewBadRequestError("Filter items require salePrice greater than zero")
		}
	}
	return category, nil
}

// CreateStockItem creates a new stock item. Oil items start with no gallon
// open; the first sale opens one.
func (s *StockService) CreateStockItem(ctx context.Context, input *StockItemInput) (*entity.StockItem, error) {
	category, appErr := input.validate()
	if appErr != nil {
		return nil, appErr
	}

	item := &entity.StockItem{
		ItemName:        input.ItemName,
		Category:        category,
		CostPrice:       int64(input.CostPrice * 100),
		SalePrice:       int64(input.SalePrice * 100),
		Quantity:        input.Quantity,
		QuantityAlert:   2,
		LitresPerGallon: decimal.NewFromFloat(input.LitresPerGallon),
		PricePerLitre:   int64(input.PricePerLitre * 100),
		RemainingLitres: decimal.Zero,
	}
	if input.QuantityAlert != nil && *input.QuantityAlert >= 0 {
		item.QuantityAlert = *input.QuantityAlert
	}

	if err := s.stockRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetStockItem retrieves a stock item by ID
func (s *StockService) GetStockItem(ctx context.Context, id uuid.UUID) (*entity.StockItem, error) {
	item, err := s.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Stock item")
	}
	return item, nil
}

// UpdateStockItem updates a stock item's descriptive fields and counts. The
// open-gallon volume is never set directly; it only moves through sales.
func (s *StockService) UpdateStockItem(ctx context.Context, id uuid.UUID, input *StockItemInput) (*entity.StockItem, error) {
	item, err := s.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Stock item")
	}

	category, appErr := input.validate()
	if appErr != nil {
		return nil, appErr
	}
	if category != item.Category {
		return nil, apperror.NewBadRequestError("Stock item category cannot change")
	}

	item.ItemName = input.ItemName
	item.CostPrice = int64(input.CostPrice * 100)
	item.SalePrice = int64(input.SalePrice * 100)
	item.Quantity = input.Quantity
	item.LitresPerGallon = decimal.NewFromFloat(input.LitresPerGallon)
	item.PricePerLitre = int64(input.PricePerLitre * 100)
	if input.QuantityAlert != nil && *input.QuantityAlert >= 0 {
		item.QuantityAlert = *input.QuantityAlert
	}

	if err := s.stockRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteStockItem deletes a stock item
func (s *StockService) DeleteStockItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.stockRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Stock item")
	}
	return s.stockRepo.Delete(ctx, id)
}

// ListStockItems lists stock items with filtering
func (s *StockService) ListStockItems(ctx context.Context, params *repository.StockFilterParams) (*pagination.PaginatedResult[entity.StockItem], error) {
	items, total, err := s.stockRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// GetLowStockItems returns items at or below their alert threshold
func (s *StockService) GetLowStockItems(ctx context.Context) ([]entity.StockItem, error) {
	return s.stockRepo.GetLowStock(ctx)
}
