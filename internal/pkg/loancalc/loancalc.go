// Package loancalc holds the pure money math for loan origination:
// simple interest, totals, per-installment values and due-date schedules.
// All functions are stateless and side-effect free.
package loancalc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"loan-marketplace/internal/pkg/apperrors"
)

// Money values are plain float64 amounts; rounding to cents goes through
// Round2 so every caller agrees on half-up semantics.
type Money = float64

// SimpleInterest returns P * (R/100) * N. The rate is a percentage per
// installment period and the fee scales with the installment count, not
// with elapsed time. This is the marketplace's flat-fee model, not an
// amortized schedule.
func SimpleInterest(principal Money, rate float64, installments int) Money {
	return principal * (rate / 100.0) * float64(installments)
}

// Total returns the principal plus simple interest.
func Total(principal Money, rate float64, installments int) Money {
	return principal + SimpleInterest(principal, rate, installments)
}

// InstallmentValue returns the per-installment value rounded to cents.
// Installment counts below 1 are rejected.
func InstallmentValue(principal Money, rate float64, installments int) (Money, error) {
	if installments <= 0 {
		return 0, fmt.Errorf("%w: installment count must be positive", apperrors.ErrInvalidArgument)
	}
	return Round2(Total(principal, rate, installments) / float64(installments)), nil
}

// FirstDueDate returns the due date of installment 1.
func FirstDueDate(start time.Time, daysToFirst int) time.Time {
	return start.AddDate(0, 0, daysToFirst)
}

// FinalDueDate returns the due date of the last installment.
func FinalDueDate(start time.Time, installments, daysToFirst int) time.Time {
	return FirstDueDate(start, daysToFirst).AddDate(0, installments-1, 0)
}

// DueDates returns the full due-date sequence: the first date is
// start+daysToFirst days, each subsequent date is one calendar month
// after the previous one. Exactly n strictly increasing dates.
func DueDates(start time.Time, n, daysToFirst int) ([]time.Time, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: installment count must be positive", apperrors.ErrInvalidArgument)
	}

	dates := make([]time.Time, 0, n)
	first := FirstDueDate(start, daysToFirst)
	dates = append(dates, first)
	for i := 1; i < n; i++ {
		dates = append(dates, first.AddDate(0, i, 0))
	}
	return dates, nil
}

// InstallmentOption is one row of the "how many installments" preview a
// borrower sees on a proposal.
type InstallmentOption struct {
	Installments     int   `json:"installments"`
	InstallmentValue Money `json:"installmentValue"`
	TotalValue       Money `json:"totalValue"`
	Interest         Money `json:"interest"`
}

// Options enumerates the installment choices between minN and maxN with
// the value, total and interest for each.
func Options(principal Money, minN, maxN int, rate float64) ([]InstallmentOption, error) {
	if minN <= 0 || maxN < minN {
		return nil, fmt.Errorf("%w: invalid installment range [%d, %d]", apperrors.ErrInvalidArgument, minN, maxN)
	}

	options := make([]InstallmentOption, 0, maxN-minN+1)
	for n := minN; n <= maxN; n++ {
		value, err := InstallmentValue(principal, rate, n)
		if err != nil {
			return nil, err
		}
		total := Total(principal, rate, n)
		options = append(options, InstallmentOption{
			Installments:     n,
			InstallmentValue: value,
			TotalValue:       Round2(total),
			Interest:         Round2(total - principal),
		})
	}
	return options, nil
}

// Round2 rounds to two decimal places, half up.
func Round2(v Money) Money {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
