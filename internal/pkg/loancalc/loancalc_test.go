package loancalc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-marketplace/internal/pkg/apperrors"
	"loan-marketplace/internal/pkg/loancalc"
)

func TestSimpleInterest(t *testing.T) {
	testCases := []struct {
		name         string
		principal    float64
		rate         float64
		installments int
		expected     float64
	}{
		{"Typical loan", 5000.00, 2.5, 12, 1500.00},
		{"Single installment", 1000.00, 1.0, 1, 10.00},
		{"Zero rate", 2000.00, 0, 6, 0},
		{"Small principal", 100.00, 5.0, 3, 15.00},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := loancalc.SimpleInterest(tc.principal, tc.rate, tc.installments)
			assert.InDelta(t, tc.expected, got, 0.001)
		})
	}
}

func TestTotal(t *testing.T) {
	assert.InDelta(t, 6500.00, loancalc.Total(5000.00, 2.5, 12), 0.001)
	assert.InDelta(t, 2000.00, loancalc.Total(2000.00, 0, 6), 0.001)
}

func TestInstallmentValue(t *testing.T) {
	t.Run("Rounds to cents half up", func(t *testing.T) {
		// 6500 / 12 = 541.666... -> 541.67
		value, err := loancalc.InstallmentValue(5000.00, 2.5, 12)
		require.NoError(t, err)
		assert.InDelta(t, 541.67, value, 0.001)
	})

	t.Run("Exact division", func(t *testing.T) {
		value, err := loancalc.InstallmentValue(1000.00, 0, 4)
		require.NoError(t, err)
		assert.InDelta(t, 250.00, value, 0.001)
	})

	t.Run("Error - Zero installments", func(t *testing.T) {
		_, err := loancalc.InstallmentValue(1000.00, 1.0, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestFirstDueDate(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC), loancalc.FirstDueDate(start, 30))
	assert.Equal(t, start, loancalc.FirstDueDate(start, 0))
}

func TestDueDates(t *testing.T) {
	t.Run("Monthly sequence after first charge", func(t *testing.T) {
		start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

		dates, err := loancalc.DueDates(start, 4, 30)
		require.NoError(t, err)
		require.Len(t, dates, 4)

		assert.Equal(t, time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC), dates[0])
		assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), dates[1])
		assert.Equal(t, time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC), dates[2])
		assert.Equal(t, time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC), dates[3])

		for i := 1; i < len(dates); i++ {
			assert.True(t, dates[i].After(dates[i-1]), "due dates must be strictly increasing")
		}
	})

	t.Run("Final date matches FinalDueDate", func(t *testing.T) {
		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		dates, err := loancalc.DueDates(start, 12, 15)
		require.NoError(t, err)
		assert.Equal(t, loancalc.FinalDueDate(start, 12, 15), dates[len(dates)-1])
	})

	t.Run("Error - Non-positive count", func(t *testing.T) {
		_, err := loancalc.DueDates(time.Now(), 0, 30)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestOptions(t *testing.T) {
	t.Run("One row per installment count", func(t *testing.T) {
		options, err := loancalc.Options(5000.00, 10, 14, 2.5)
		require.NoError(t, err)
		require.Len(t, options, 5)

		assert.Equal(t, 10, options[0].Installments)
		assert.Equal(t, 14, options[4].Installments)

		// n=12: total 6500, value 541.67, interest 1500.
		twelve := options[2]
		assert.Equal(t, 12, twelve.Installments)
		assert.InDelta(t, 6500.00, twelve.TotalValue, 0.001)
		assert.InDelta(t, 541.67, twelve.InstallmentValue, 0.001)
		assert.InDelta(t, 1500.00, twelve.Interest, 0.001)
	})

	t.Run("Total grows with installment count", func(t *testing.T) {
		options, err := loancalc.Options(1000.00, 1, 6, 3.0)
		require.NoError(t, err)
		for i := 1; i < len(options); i++ {
			assert.Greater(t, options[i].TotalValue, options[i-1].TotalValue)
		}
	})

	t.Run("Error - Invalid range", func(t *testing.T) {
		_, err := loancalc.Options(1000.00, 6, 3, 1.0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

		_, err = loancalc.Options(1000.00, 0, 3, 1.0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 541.67, loancalc.Round2(541.666666), 0.0001)
	assert.InDelta(t, 0.13, loancalc.Round2(0.125), 0.0001)
	assert.InDelta(t, -0.13, loancalc.Round2(-0.125), 0.0001)
}
