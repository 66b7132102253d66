package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	Create(ctx context.Context, loan *entity.Loan) error
	// GetWithPayments loads the loan with its payment history ordered by date.
	GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Loan, error)
	// Update persists the loan's balance fields (no payment rows touched).
	Update(ctx context.Context, loan *entity.Loan) error
	// SavePayment appends the payment row and writes the recomputed loan
	// totals in one transaction.
	SavePayment(ctx context.Context, loan *entity.Loan, payment *entity.LoanPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *LoanFilterParams) ([]entity.Loan, int64, error)
	// ListOutstanding returns loans that still carry a balance, newest first.
	ListOutstanding(ctx context.Context) ([]entity.Loan, error)
	// ListAll returns every loan (optionally filtered by status) with
	// payments, newest first, for report exports.
	ListAll(ctx context.Context, status *enum.LoanStatus) ([]entity.Loan, error)
}

// LoanFilterParams contains filtering parameters for loan queries
type LoanFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.LoanStatus
	CustomerID *uuid.UUID
}
