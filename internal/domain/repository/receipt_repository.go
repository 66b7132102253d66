package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	// Create persists the receipt together with its line items.
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	// ListBetween returns all receipts with items in [start, end), newest
	// first, for report exports.
	ListBetween(ctx context.Context, start, end time.Time) ([]entity.Receipt, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
