package loan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-marketplace/internal/domain/loan"
	"loan-marketplace/internal/pkg/apperrors"
)

func validTerms() loan.Terms {
	return loan.Terms{
		CreditorID:   1,
		DebtorID:     2,
		ProposalID:   3,
		InterestID:   4,
		Principal:    5000.00,
		Rate:         2.5,
		Installments: 12,
		DaysToFirst:  30,
		StartDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewLoan(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		terms := validTerms()

		l, err := loan.NewLoan(terms)
		require.NoError(t, err)

		assert.Equal(t, terms.CreditorID, l.CreditorID)
		assert.Equal(t, terms.DebtorID, l.DebtorID)
		assert.Equal(t, terms.ProposalID, l.ProposalID)
		assert.Equal(t, terms.InterestID, l.InterestID)
		assert.InDelta(t, 1500.00, l.InterestApplied, 0.001)
		assert.InDelta(t, 6500.00, l.TotalValue, 0.001)
		assert.Equal(t, loan.StatusInProgress, l.Status)
		assert.Equal(t, 0, l.PaidInstallments)

		require.Len(t, l.Schedule, 12)
		first := l.Schedule[0]
		assert.Equal(t, 1, first.Number)
		assert.InDelta(t, 541.67, first.Value, 0.001)
		assert.Equal(t, time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC), first.DueDate)
		assert.False(t, first.Paid)

		for i := 1; i < len(l.Schedule); i++ {
			assert.Equal(t, i+1, l.Schedule[i].Number)
			assert.True(t, l.Schedule[i].DueDate.After(l.Schedule[i-1].DueDate))
		}
		assert.Equal(t, l.Schedule[11].DueDate, l.FinalDueDate)
	})

	t.Run("Error - Non-positive principal", func(t *testing.T) {
		terms := validTerms()
		terms.Principal = 0
		_, err := loan.NewLoan(terms)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("Error - Non-positive installments", func(t *testing.T) {
		terms := validTerms()
		terms.Installments = 0
		_, err := loan.NewLoan(terms)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("Error - Negative rate", func(t *testing.T) {
		terms := validTerms()
		terms.Rate = -1
		_, err := loan.NewLoan(terms)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("Error - Zero start date", func(t *testing.T) {
		terms := validTerms()
		terms.StartDate = time.Time{}
		_, err := loan.NewLoan(terms)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestLoan_RefreshOverdue(t *testing.T) {
	terms := validTerms()
	terms.Installments = 3

	t.Run("Nothing overdue before first due date", func(t *testing.T) {
		l, err := loan.NewLoan(terms)
		require.NoError(t, err)

		any := l.RefreshOverdue(l.Schedule[0].DueDate)
		assert.False(t, any, "an installment due today is not overdue yet")
		for _, p := range l.Schedule {
			assert.False(t, p.Overdue)
		}
	})

	t.Run("Past due unpaid installments are flagged", func(t *testing.T) {
		l, err := loan.NewLoan(terms)
		require.NoError(t, err)

		today := l.Schedule[1].DueDate.AddDate(0, 0, 1)
		any := l.RefreshOverdue(today)
		assert.True(t, any)
		assert.True(t, l.Schedule[0].Overdue)
		assert.True(t, l.Schedule[1].Overdue)
		assert.False(t, l.Schedule[2].Overdue)
	})

	t.Run("Paid installments are never overdue", func(t *testing.T) {
		l, err := loan.NewLoan(terms)
		require.NoError(t, err)
		l.Schedule[0].Paid = true

		today := l.Schedule[0].DueDate.AddDate(0, 0, 10)
		any := l.RefreshOverdue(today)
		assert.False(t, any)
		assert.False(t, l.Schedule[0].Overdue)
	})
}

func TestLoan_DeriveStatus(t *testing.T) {
	terms := validTerms()
	terms.Installments = 3

	t.Run("In progress", func(t *testing.T) {
		l, err := loan.NewLoan(terms)
		require.NoError(t, err)

		l.DeriveStatus(terms.StartDate)
		assert.Equal(t, loan.StatusInProgress, l.Status)
		assert.Equal(t, 0, l.PaidInstallments)
	})

	t.Run("Overdue", func(t *testing.T) {
		l, err := loan.NewLoan(terms)
		require.NoError(t, err)

		l.DeriveStatus(l.Schedule[0].DueDate.AddDate(0, 0, 1))
		assert.Equal(t, loan.StatusOverdue, l.Status)
	})

	t.Run("Paid wins over overdue", func(t *testing.T) {
		l, err := loan.NewLoan(terms)
		require.NoError(t, err)
		for i := range l.Schedule {
			l.Schedule[i].Paid = true
		}

		l.DeriveStatus(l.FinalDueDate.AddDate(0, 1, 0))
		assert.Equal(t, loan.StatusPaid, l.Status)
		assert.Equal(t, 3, l.PaidInstallments)
	})

	t.Run("Recovers from overdue once arrears are settled", func(t *testing.T) {
		l, err := loan.NewLoan(terms)
		require.NoError(t, err)

		today := l.Schedule[0].DueDate.AddDate(0, 0, 1)
		l.DeriveStatus(today)
		require.Equal(t, loan.StatusOverdue, l.Status)

		l.Schedule[0].Paid = true
		l.Schedule[0].Overdue = false
		l.DeriveStatus(today)
		assert.Equal(t, loan.StatusInProgress, l.Status)
		assert.Equal(t, 1, l.PaidInstallments)
	})
}

func TestLoan_FullyPaid(t *testing.T) {
	terms := validTerms()
	terms.Installments = 2

	l, err := loan.NewLoan(terms)
	require.NoError(t, err)

	assert.False(t, l.FullyPaid())
	l.Schedule[0].Paid = true
	assert.False(t, l.FullyPaid())
	l.Schedule[1].Paid = true
	assert.True(t, l.FullyPaid())

	empty := &loan.Loan{}
	assert.False(t, empty.FullyPaid())
}
