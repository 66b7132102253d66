package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/pkg/apperror"
	"github.com/lubetrack/lubetrack-api/pkg/pagination"
)

// LoanService handles informal credit accounts
type LoanService struct {
	loanRepo     repository.LoanRepository
	customerRepo repository.CustomerRepository
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo repository.LoanRepository, customerRepo repository.CustomerRepository) *LoanService {
	return &LoanService{loanRepo: loanRepo, customerRepo: customerRepo}
}

// CreateLoanInput represents the create loan input. totalAmount is decimal
// currency; it is stored as cents.
type CreateLoanInput struct {
	CustomerID    *uuid.UUID `json:"customerId"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	VehicleNo     *string    `json:"vehicleNo"`
	Description   *string    `json:"description"`
	TotalAmount   float64    `json:"totalAmount" binding:"required,gt=0"`
}

// LoanPaymentInput represents one repayment against a loan
type LoanPaymentInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Note   string  `json:"note"`
}

// CorrectTotalInput renegotiates a loan's agreed total
type CorrectTotalInput struct {
	TotalAmount float64 `json:"totalAmount" binding:"required,gt=0"`
	Description *string `json:"description"`
}

// CreateLoan opens a new credit account with an empty payment history
func (s *LoanService) CreateLoan(ctx context.Context, input *CreateLoanInput) (*entity.Loan, error) {
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
	}

	if input.CustomerName == "" {
		return nil, apperror.NewBadRequestError("Loan requires a customer name")
	}

	loan := &entity.Loan{
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		VehicleNo:     input.VehicleNo,
		Description:   input.Description,
		TotalAmount:   int64(input.TotalAmount * 100),
	}
	loan.Init()

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// GetLoan retrieves a loan with its payment history
func (s *LoanService) GetLoan(ctx context.Context, id uuid.UUID) (*entity.Loan, error) {
	loan, err := s.loanRepo.GetWithPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, apperror.NewNotFoundError("Loan")
	}
	return loan, nil
}

// AddPayment appends a repayment to the loan. Payments exceeding the
// remaining balance are rejected rather than clamped.
func (s *LoanService) AddPayment(ctx context.Context, id uuid.UUID, input *LoanPaymentInput) (*entity.Loan, error) {
	loan, err := s.loanRepo.GetWithPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, apperror.NewNotFoundError("Loan")
	}

	remaining := loan.Remaining
	payment, err := loan.AddPayment(int64(input.Amount*100), input.Note, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrOverpayment):
			return nil, apperror.NewOverpaymentError(remaining)
		case errors.Is(err, entity.ErrNonPositiveAmount):
			return nil, apperror.NewBadRequestError("Payment amount must be positive")
		default:
			return nil, err
		}
	}

	if err := s.loanRepo.SavePayment(ctx, loan, payment); err != nil {
		return nil, err
	}
	return loan, nil
}

// CorrectTotal renegotiates the agreed total of a loan. The balance and
// status are recomputed from the stored payment history; client-sent
// balances are never trusted.
func (s *LoanService) CorrectTotal(ctx context.Context, id uuid.UUID, input *CorrectTotalInput) (*entity.Loan, error) {
	loan, err := s.loanRepo.GetWithPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, apperror.NewNotFoundError("Loan")
	}

	if err := loan.CorrectTotal(int64(input.TotalAmount*100), input.Description); err != nil {
		if errors.Is(err, entity.ErrNonPositiveAmount) {
			return nil, apperror.NewBadRequestError("Total amount must be positive")
		}
		return nil, err
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// DeleteLoan removes a loan and its payment history
func (s *LoanService) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	loan, err := s.loanRepo.GetWithPayments(ctx, id)
	if err != nil {
		return err
	}
	if loan == nil {
		return apperror.NewNotFoundError("Loan")
	}
	return s.loanRepo.Delete(ctx, id)
}

// ListLoans lists loans with filtering
func (s *LoanService) ListLoans(ctx context.Context, params *repository.LoanFilterParams) (*pagination.PaginatedResult[entity.Loan], error) {
	loans, total, err := s.loanRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(loans, pag), nil
}

// ListOutstanding returns loans that still carry a balance
func (s *LoanService) ListOutstanding(ctx context.Context) ([]entity.Loan, error) {
	return s.loanRepo.ListOutstanding(ctx)
}
