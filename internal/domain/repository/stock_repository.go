package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// StockDraw is one requested deduction against a stock item: litres for
// oil lines, a unit count for filter lines.
type StockDraw struct {
	StockItemID uuid.UUID
	Litres      decimal.Decimal
	Units       int
}

// AppliedDraw records what a committed draw actually took from an item,
// so a failed follow-up write can be compensated exactly.
type AppliedDraw struct {
	StockItemID     uuid.UUID
	LitresDelivered decimal.Decimal
	UnitsDelivered  int
}

// DrawError reports which item a batch draw failed on and why. Unwrap
// exposes the entity-level cause (entity.ErrInsufficientStock etc.).
type DrawError struct {
	StockItemID uuid.UUID
	ItemName    string
	Err         error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("draw-down failed for %s: %v", e.ItemName, e.Err)
}

func (e *DrawError) Unwrap() error {
	return e.Err
}

// StockRepository defines the interface for stock data operations
type StockRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockItem, error)
	// GetByIDs retrieves multiple stock items in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.StockItem, error)
	Update(ctx context.Context, item *entity.StockItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *StockFilterParams) ([]entity.StockItem, int64, error)
	GetLowStock(ctx context.Context) ([]entity.StockItem, error)
	// ApplyDraws runs all draws in a single transaction with the affected
	// rows locked. If any draw fails the whole transaction rolls back and a
	// *DrawError is returned; no partial deduction survives.
	ApplyDraws(ctx context.Context, draws []StockDraw, allowPartial bool) ([]entity.StockItem, []AppliedDraw, error)
	// RestoreDraws reverses previously applied draws (compensation when the
	// receipt insert fails after the draw transaction committed).
	RestoreDraws(ctx context.Context, applied []AppliedDraw) error
}

// StockFilterParams contains filtering parameters for stock queries
type StockFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   *enum.StockCategory
	LowStock   bool
}
