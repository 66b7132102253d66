package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/pkg/apperror"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
	"github.com/lubetrack/lubetrack-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReceiptService handles receipt posting and retrieval
type ReceiptService struct {
	receiptRepo  repository.ReceiptRepository
	stockRepo    repository.StockRepository
	customerRepo repository.CustomerRepository
	allowPartial bool
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	stockRepo repository.StockRepository,
	customerRepo repository.CustomerRepository,
	allowPartial bool,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:  receiptRepo,
		stockRepo:    stockRepo,
		customerRepo: customerRepo,
		allowPartial: allowPartial,
	}
}

// ReceiptItemInput is one requested line: litres for oil items, a unit
// count for filters.
type ReceiptItemInput struct {
	ItemID   uuid.UUID `json:"itemId" binding:"required"`
	Litres   float64   `json:"litres"`
	Quantity int       `json:"quantity"`
}

// CreateReceiptInput represents the post-receipt input
type CreateReceiptInput struct {
	CustomerID    *uuid.UUID         `json:"customerId"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	VehicleNo     string             `json:"vehicleNo"`
	Model         string             `json:"model"`
	UsedMileage   int                `json:"usedMileage"`
	OverMileage   int                `json:"overMileage"`
	NewMileage    int                `json:"newMileage"`
	NewRunning    int                `json:"newRunning"`
	AfterChange   int                `json:"afterChange"`
	Items         []ReceiptItemInput `json:"items" binding:"required,min=1"`
}

// CreateReceipt posts a sale: it draws the requested oil volume and filter
// units from stock and records the receipt with price snapshots. The draw
// runs all-or-nothing; a receipt insert failure afterwards restores the
// drawn stock.
func (s *ReceiptService) CreateReceipt(ctx context.Context, input *CreateReceiptInput) (*entity.Receipt, error) {
	// Snapshot customer details from the card when one is referenced.
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		if input.CustomerName == "" {
			input.CustomerName = customer.Name
		}
		if input.CustomerPhone == "" {
			input.CustomerPhone = customer.Phone
		}
		if input.VehicleNo == "" {
			input.VehicleNo = customer.VehicleNo
		}
		if input.Model == "" {
			input.Model = customer.Model
		}
	}

	// Batch fetch all stock items in one query (prevents N+1)
	itemIDs := make([]uuid.UUID, len(input.Items))
	for i, line := range input.Items {
		itemIDs[i] = line.ItemID
	}

	stockItems, err := s.stockRepo.GetByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	stockMap := make(map[uuid.UUID]*entity.StockItem, len(stockItems))
	for i := range stockItems {
		stockMap[stockItems[i].ID] = &stockItems[i]
	}

	// Validate every line and build the draw batch before touching stock.
	draws := make([]repository.StockDraw, 0, len(input.Items))
	for _, line := range input.Items {
		item, exists := stockMap[line.ItemID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Stock item %s", line.ItemID))
		}

		if item.Category.IsOil() {
			if line.Litres <= 0 {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("Oil line for %s requires litres greater than zero", item.ItemName))
			}
			if line.Quantity != 0 {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("Oil line for %s must not carry a unit count", item.ItemName))
			}
			draws = append(draws, repository.StockDraw{
				StockItemID: item.ID,
				Litres:      decimal.NewFromFloat(line.Litres),
			})
		} else {
			if line.Quantity <= 0 {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("Filter line for %s requires quantity greater than zero", item.ItemName))
			}
			if line.Litres != 0 {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("Filter line for %s must not carry litres", item.ItemName))
			}
			draws = append(draws, repository.StockDraw{
				StockItemID: item.ID,
				Units:       line.Quantity,
			})
		}
	}

	// All-or-nothing draw against locked rows.
	_, applied, err := s.stockRepo.ApplyDraws(ctx, draws, s.allowPartial)
	if err != nil {
		return nil, s.mapDrawError(err)
	}

	// Build receipt lines from what was actually delivered, with price
	// snapshots taken now. Draws were built one per line in input order, so
	// applied[i] belongs to input.Items[i]; the same stock item may appear
	// on several lines, each with its own delivered amount.
	var subtotal int64
	receiptItems := make([]entity.ReceiptItem, 0, len(input.Items))
	for i, line := range input.Items {
		item := stockMap[line.ItemID]
		record := applied[i]

		receiptItem := entity.ReceiptItem{
			StockItemID: item.ID,
			ItemName:    item.ItemName,
			Category:    item.Category,
			CostPrice:   item.CostPrice,
		}

		if item.Category.IsOil() {
			litres := record.LitresDelivered
			receiptItem.Litres = litres
			receiptItem.Price = item.PricePerLitre
			receiptItem.Total = litres.Mul(decimal.NewFromInt(item.PricePerLitre)).Round(0).IntPart()
		} else {
			receiptItem.Quantity = record.UnitsDelivered
			receiptItem.Price = item.SalePrice
			receiptItem.Total = item.SalePrice * int64(record.UnitsDelivered)
		}

		subtotal += receiptItem.Total
		receiptItems = append(receiptItems, receiptItem)
	}

	receipt := &entity.Receipt{
		ReceiptNo:     utils.GenerateReceiptNo(),
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		VehicleNo:     input.VehicleNo,
		Model:         input.Model,
		UsedMileage:   input.UsedMileage,
		OverMileage:   input.OverMileage,
		NewMileage:    input.NewMileage,
		NewRunning:    input.NewRunning,
		AfterChange:   input.AfterChange,
		Subtotal:      subtotal,
		TotalAmount:   subtotal,
		Items:         receiptItems,
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		// Stock was already drawn down; pour it back.
		if restoreErr := s.stockRepo.RestoreDraws(ctx, applied); restoreErr != nil {
			logrus.WithError(restoreErr).Error("Failed to restore stock after receipt insert failure")
		}
		return nil, err
	}

	return s.receiptRepo.GetWithItems(ctx, receipt.ID)
}

// mapDrawError translates a batch draw failure into the HTTP error taxonomy.
func (s *ReceiptService) mapDrawError(err error) error {
	var drawErr *repository.DrawError
	if !errors.As(err, &drawErr) {
		return err
	}

	switch {
	case errors.Is(drawErr.Err, entity.ErrInsufficientStock):
		return apperror.NewInsufficientStockError(drawErr.ItemName)
	case errors.Is(drawErr.Err, entity.ErrNoGallonVolume):
		return apperror.NewMisconfiguredItemError(drawErr.ItemName, "no gallon volume configured")
	case errors.Is(drawErr.Err, entity.ErrNotOilItem):
		return apperror.NewMisconfiguredItemError(drawErr.ItemName, "not an oil item")
	case errors.Is(drawErr.Err, entity.ErrNonPositiveAmount):
		return apperror.NewBadRequestError("Requested amount must be positive")
	case errors.Is(drawErr.Err, gorm.ErrRecordNotFound):
		return apperror.NewNotFoundError(fmt.Sprintf("Stock item %s", drawErr.StockItemID))
	default:
		return err
	}
}

// GetReceipt retrieves a receipt with its line items
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts lists receipts with filtering
func (s *ReceiptService) ListReceipts(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}

// ListReceiptsBetween returns all receipts in [start, end) for exports
func (s *ReceiptService) ListReceiptsBetween(ctx context.Context, start, end time.Time) ([]entity.Receipt, error) {
	return s.receiptRepo.ListBetween(ctx, start, end)
}

// DeleteReceipt removes a receipt. The oil it dispensed is gone, so the
// deduction stays; deletion only removes the record.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if receipt == nil {
		return apperror.NewNotFoundError("Receipt")
	}
	return s.receiptRepo.Delete(ctx, id)
}
