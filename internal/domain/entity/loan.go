package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"gorm.io/gorm"
)

// ErrOverpayment is returned when a payment exceeds the remaining balance.
var ErrOverpayment = errors.New("payment exceeds remaining balance")

// Loan is an informal credit account: oil or service sold now, paid later.
// Amounts are cents. remainingAmount and status are derived from
// (totalAmount, paidAmount) on every mutation and never set directly.
type Loan struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customerId,omitempty"`
	CustomerName  string          `gorm:"size:255;not null;index" json:"customerName"`
	CustomerPhone string          `gorm:"size:50;not null;index" json:"customerPhone"`
	VehicleNo     *string         `gorm:"size:50" json:"vehicleNo,omitempty"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	TotalAmount   int64           `gorm:"not null" json:"-"`
	PaidAmount    int64           `gorm:"default:0" json:"-"`
	Remaining     int64           `gorm:"column:remaining_amount;not null" json:"-"`
	Status        enum.LoanStatus `gorm:"size:20;default:'pending';index" json:"status"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Payments []LoanPayment `gorm:"foreignKey:LoanID" json:"payments"`
}

// BeforeCreate generates a UUID before creating a new loan
func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Loan model
func (Loan) TableName() string {
	return "loans"
}

// recompute rederives remainingAmount and status from the running totals.
// Every mutation funnels through here so the two fields can never drift.
func (l *Loan) recompute() {
	l.Remaining = l.TotalAmount - l.PaidAmount
	if l.Remaining < 0 {
		l.Remaining = 0
	}
	l.Status = enum.DeriveLoanStatus(l.TotalAmount, l.PaidAmount)
}

// Init sets the derived fields of a freshly created loan.
func (l *Loan) Init() {
	l.PaidAmount = 0
	l.recompute()
}

// AddPayment appends a payment to the loan history and recomputes the
// balance and status. amountCents must be positive and must not exceed the
// remaining balance: partial overpayment clamping silently discards money,
// so it is rejected outright.
func (l *Loan) AddPayment(amountCents int64, note string, at time.Time) (*LoanPayment, error) {
	if amountCents <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if amountCents > l.Remaining {
		return nil, ErrOverpayment
	}

	payment := LoanPayment{
		LoanID: l.ID,
		Amount: amountCents,
		Date:   at,
		Note:   note,
	}
	l.Payments = append(l.Payments, payment)
	l.PaidAmount += amountCents
	l.recompute()

	return &l.Payments[len(l.Payments)-1], nil
}

// CorrectTotal renegotiates the agreed total, e.g. to fix a data-entry
// error. Payment history is untouched; the balance and status are
// recomputed from the new total. A fully paid loan can return to partial
// this way.
func (l *Loan) CorrectTotal(newTotalCents int64, description *string) error {
	if newTotalCents <= 0 {
		return ErrNonPositiveAmount
	}
	l.TotalAmount = newTotalCents
	if description != nil {
		l.Description = description
	}
	l.recompute()
	return nil
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l Loan) MarshalJSON() ([]byte, error) {
	type Alias Loan
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"totalAmount"`
		PaidAmount  float64 `json:"paidAmount"`
		Remaining   float64 `json:"remainingAmount"`
	}{
		Alias:       Alias(l),
		TotalAmount: float64(l.TotalAmount) / 100,
		PaidAmount:  float64(l.PaidAmount) / 100,
		Remaining:   float64(l.Remaining) / 100,
	})
}

// LoanPayment is one entry in a loan's append-only payment history.
type LoanPayment struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"-"`
	LoanID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Amount    int64          `gorm:"not null" json:"-"`
	Date      time.Time      `gorm:"not null" json:"date"`
	Note      string         `gorm:"type:text" json:"note"`
	CreatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Loan Loan `gorm:"foreignKey:LoanID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new loan payment
func (p *LoanPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LoanPayment model
func (LoanPayment) TableName() string {
	return "loan_payments"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p LoanPayment) MarshalJSON() ([]byte, error) {
	type Alias LoanPayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}
