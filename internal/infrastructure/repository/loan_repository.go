package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	domainRepo "github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"gorm.io/gorm"
)

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) domainRepo.LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *entity.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *loanRepository) GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Loan, error) {
	var loan entity.Loan
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		First(&loan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &loan, err
}

// Update persists the loan's balance fields only. Payment rows are written
// through SavePayment.
func (r *loanRepository) Update(ctx context.Context, loan *entity.Loan) error {
	return r.db.WithContext(ctx).Model(loan).
		Select("customer_name", "customer_phone", "vehicle_no", "description",
			"total_amount", "paid_amount", "remaining_amount", "status").
		Updates(loan).Error
}

// SavePayment writes the new payment row and the recomputed loan totals in
// one transaction, so a crash can never leave a payment recorded without
// the balance moving.
func (r *loanRepository) SavePayment(ctx context.Context, loan *entity.Loan, payment *entity.LoanPayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Loan{}).
			Where("id = ?", loan.ID).
			Updates(map[string]interface{}{
				"paid_amount":      loan.PaidAmount,
				"remaining_amount": loan.Remaining,
				"status":           loan.Status,
			}).Error
	})
}

func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.LoanPayment{}, "loan_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Loan{}, "id = ?", id).Error
	})
}

func (r *loanRepository) List(ctx context.Context, params *domainRepo.LoanFilterParams) ([]entity.Loan, int64, error) {
	var loans []entity.Loan
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Loan{})

	if params.Search != "" {
		query = query.Where("customer_name ILIKE ? OR customer_phone ILIKE ? OR vehicle_no ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Order("created_at DESC").
		Find(&loans).Error

	return loans, total, err
}

func (r *loanRepository) ListAll(ctx context.Context, status *enum.LoanStatus) ([]entity.Loan, error) {
	var loans []entity.Loan
	query := r.db.WithContext(ctx)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) ListOutstanding(ctx context.Context) ([]entity.Loan, error) {
	var loans []entity.Loan
	err := r.db.WithContext(ctx).
		Where("remaining_amount > 0").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}
