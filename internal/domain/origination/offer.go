// Package origination owns the marketplace state machine that takes a
// creditor's offer through proposal publication, borrower interest and
// bilateral confirmation to a funded loan.
package origination

import (
	"fmt"
	"time"

	"loan-marketplace/internal/pkg/apperrors"
)

// Offer is a creditor's private loan template. Terms are frozen at
// creation; only the active flag may change afterwards.
type Offer struct {
	ID                int64
	CreditorID        int64
	Amount            float64
	MinInstallments   int
	MaxInstallments   int
	Rate              float64
	DaysToFirstCharge int
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the offer terms ahead of persistence.
func (o *Offer) Validate() error {
	if o.CreditorID <= 0 {
		return fmt.Errorf("%w: creditor is required", apperrors.ErrInvalidArgument)
	}
	if o.Amount <= 0 {
		return apperrors.NewValidationError("amount", "available amount must be greater than zero")
	}
	if o.MinInstallments < 1 {
		return apperrors.NewValidationError("minInstallments", "minimum installments must be at least 1")
	}
	if o.MaxInstallments < o.MinInstallments {
		return apperrors.NewValidationError("maxInstallments", "maximum installments must be greater than or equal to the minimum")
	}
	if o.Rate < 0 {
		return apperrors.NewValidationError("rate", "interest rate must be greater than or equal to zero")
	}
	if o.DaysToFirstCharge < 0 {
		return apperrors.NewValidationError("daysToFirstCharge", "days until first charge must be greater than or equal to zero")
	}
	return nil
}
