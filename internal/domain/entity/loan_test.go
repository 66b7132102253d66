package entity_test

import (
	"testing"
	"time"

	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/lubetrack/lubetrack-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoan(totalCents int64) *entity.Loan {
	loan := &entity.Loan{
		CustomerName:  "Ahmed Khan",
		CustomerPhone: "0300-1234567",
		TotalAmount:   totalCents,
	}
	loan.Init()
	return loan
}

func TestLoan_Init_DerivesBalanceAndStatus(t *testing.T) {
	loan := newLoan(500000)

	assert.Equal(t, int64(0), loan.PaidAmount)
	assert.Equal(t, int64(500000), loan.Remaining)
	assert.Equal(t, enum.LoanStatusPending, loan.Status)
}

func TestLoan_AddPayment_PartialThenPaid(t *testing.T) {
	// GIVEN: A 5000.00 loan
	loan := newLoan(500000)
	now := time.Now()

	// WHEN: Paying 2000.00
	payment, err := loan.AddPayment(200000, "first installment", now)
	require.NoError(t, err)

	// THEN: Balance and status follow the running totals
	assert.Equal(t, int64(200000), payment.Amount)
	assert.Equal(t, int64(200000), loan.PaidAmount)
	assert.Equal(t, int64(300000), loan.Remaining)
	assert.Equal(t, enum.LoanStatusPartial, loan.Status)
	assert.Len(t, loan.Payments, 1)

	// WHEN: Paying off the rest
	_, err = loan.AddPayment(300000, "", now)
	require.NoError(t, err)

	assert.Equal(t, int64(0), loan.Remaining)
	assert.Equal(t, enum.LoanStatusPaid, loan.Status)
	assert.Len(t, loan.Payments, 2)
}

func TestLoan_AddPayment_RejectsOverpayment(t *testing.T) {
	// GIVEN: 1000.00 remaining
	loan := newLoan(100000)

	// WHEN: Paying 1000.01
	_, err := loan.AddPayment(100001, "", time.Now())

	// THEN: Rejected, nothing recorded
	require.ErrorIs(t, err, entity.ErrOverpayment)
	assert.Equal(t, int64(0), loan.PaidAmount)
	assert.Equal(t, enum.LoanStatusPending, loan.Status)
	assert.Empty(t, loan.Payments)
}

func TestLoan_AddPayment_RejectsNonPositive(t *testing.T) {
	loan := newLoan(100000)

	_, err := loan.AddPayment(0, "", time.Now())
	assert.ErrorIs(t, err, entity.ErrNonPositiveAmount)

	_, err = loan.AddPayment(-500, "", time.Now())
	assert.ErrorIs(t, err, entity.ErrNonPositiveAmount)
}

func TestLoan_AddPayment_OnPaidLoanRejected(t *testing.T) {
	loan := newLoan(50000)
	_, err := loan.AddPayment(50000, "", time.Now())
	require.NoError(t, err)
	require.Equal(t, enum.LoanStatusPaid, loan.Status)

	_, err = loan.AddPayment(1, "", time.Now())
	assert.ErrorIs(t, err, entity.ErrOverpayment, "a paid loan has zero remaining")
}

func TestLoan_CorrectTotal_ReopensPaidLoan(t *testing.T) {
	// GIVEN: A fully paid loan
	loan := newLoan(100000)
	_, err := loan.AddPayment(100000, "", time.Now())
	require.NoError(t, err)
	require.Equal(t, enum.LoanStatusPaid, loan.Status)

	// WHEN: The agreed total is corrected upward
	require.NoError(t, loan.CorrectTotal(150000, nil))

	// THEN: The loan reopens with the difference outstanding
	assert.Equal(t, int64(50000), loan.Remaining)
	assert.Equal(t, enum.LoanStatusPartial, loan.Status)
	assert.Len(t, loan.Payments, 1, "payment history is untouched")
}

func TestLoan_CorrectTotal_BelowPaidClampsAtZero(t *testing.T) {
	loan := newLoan(100000)
	_, err := loan.AddPayment(80000, "", time.Now())
	require.NoError(t, err)

	// Correcting below what was already collected leaves nothing owed.
	require.NoError(t, loan.CorrectTotal(60000, nil))

	assert.Equal(t, int64(0), loan.Remaining)
	assert.Equal(t, enum.LoanStatusPaid, loan.Status)
}

func TestLoan_CorrectTotal_RejectsNonPositive(t *testing.T) {
	loan := newLoan(100000)

	assert.ErrorIs(t, loan.CorrectTotal(0, nil), entity.ErrNonPositiveAmount)
	assert.ErrorIs(t, loan.CorrectTotal(-100, nil), entity.ErrNonPositiveAmount)
	assert.Equal(t, int64(100000), loan.TotalAmount)
}

func TestLoan_CorrectTotal_UpdatesDescription(t *testing.T) {
	loan := newLoan(100000)
	note := "4L Helix HX7 + oil filter"

	require.NoError(t, loan.CorrectTotal(120000, &note))

	require.NotNil(t, loan.Description)
	assert.Equal(t, note, *loan.Description)
}

func TestDeriveLoanStatus(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		paid  int64
		want  enum.LoanStatus
	}{
		{"nothing paid", 100000, 0, enum.LoanStatusPending},
		{"partly paid", 100000, 1, enum.LoanStatusPartial},
		{"almost paid", 100000, 99999, enum.LoanStatusPartial},
		{"exactly paid", 100000, 100000, enum.LoanStatusPaid},
		{"paid beyond total", 100000, 120000, enum.LoanStatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := enum.DeriveLoanStatus(tc.total, tc.paid)
			assert.Equal(t, tc.want, got)

			// Deriving again from the same inputs never changes the answer.
			assert.Equal(t, got, enum.DeriveLoanStatus(tc.total, tc.paid))
		})
	}
}
