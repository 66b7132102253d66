package enum

import "database/sql/driver"

// LoanStatus classifies a loan's payment progress. It is always derived
// from (totalAmount, paidAmount) and never stored independently of a
// recompute; see DeriveLoanStatus.
type LoanStatus string

const (
	LoanStatusPending LoanStatus = "pending"
	LoanStatusPartial LoanStatus = "partial"
	LoanStatusPaid    LoanStatus = "paid"
)

// DeriveLoanStatus computes the status from the agreed total and the sum of
// recorded payments, both in cents. Pure function: recomputing twice from
// the same inputs always yields the same value.
//
//	paid    iff max(0, total-paid) == 0
//	partial iff paid > 0 and remaining > 0
//	pending iff paid == 0
func DeriveLoanStatus(totalCents, paidCents int64) LoanStatus {
	remaining := totalCents - paidCents
	if remaining <= 0 {
		return LoanStatusPaid
	}
	if paidCents > 0 {
		return LoanStatusPartial
	}
	return LoanStatusPending
}

// Valid reports whether the status is one of the known values.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusPending, LoanStatusPartial, LoanStatusPaid:
		return true
	}
	return false
}

func (s LoanStatus) String() string {
	return string(s)
}

func (s LoanStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *LoanStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = LoanStatus(v)
	case []byte:
		*s = LoanStatus(v)
	}
	return nil
}
