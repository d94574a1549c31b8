package loan

import (
	"fmt"
	"math"
	"time"

	"loan-marketplace/internal/pkg/apperrors"
	"loan-marketplace/internal/pkg/loancalc"
)

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusPaid       Status = "PAID"
	StatusOverdue    Status = "OVERDUE"
)

// Loan is the funded agreement created once creditor and debtor both
// confirmed an interest. Everything except PaidInstallments and Status is
// immutable after creation; both derived fields follow the installments.
type Loan struct {
	ID               int64
	CreditorID       int64
	DebtorID         int64
	ProposalID       int64
	InterestID       int64
	Principal        float64
	InterestApplied  float64
	TotalValue       float64
	Installments     int
	PaidInstallments int
	StartDate        time.Time
	FinalDueDate     time.Time
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Schedule         []Installment
}

// Installment is one scheduled payment of a loan. Overdue is derived and
// refreshed on read or payment, never set by hand.
type Installment struct {
	ID          int64
	LoanID      int64
	Number      int
	Value       float64
	DueDate     time.Time
	PaymentDate *time.Time
	Paid        bool
	Overdue     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Terms carries everything needed to materialize a loan from a confirmed
// interest.
type Terms struct {
	CreditorID   int64
	DebtorID     int64
	ProposalID   int64
	InterestID   int64
	Principal    float64
	Rate         float64
	Installments int
	DaysToFirst  int
	StartDate    time.Time
}

// NewLoan computes interest, total and the installment schedule for the
// given terms. The per-installment value is rounded to cents, so the sum
// over all installments may drift from the total by strictly less than
// one cent per installment; the sanity check below enforces that bound.
func NewLoan(t Terms) (*Loan, error) {
	if t.Principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive", apperrors.ErrInvalidArgument)
	}
	if t.Installments <= 0 {
		return nil, fmt.Errorf("%w: installment count must be positive", apperrors.ErrInvalidArgument)
	}
	if t.Rate < 0 {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}
	if t.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", apperrors.ErrInvalidArgument)
	}

	interest := loancalc.SimpleInterest(t.Principal, t.Rate, t.Installments)
	total := t.Principal + interest

	value, err := loancalc.InstallmentValue(t.Principal, t.Rate, t.Installments)
	if err != nil {
		return nil, err
	}
	dueDates, err := loancalc.DueDates(t.StartDate, t.Installments, t.DaysToFirst)
	if err != nil {
		return nil, err
	}

	l := &Loan{
		CreditorID:      t.CreditorID,
		DebtorID:        t.DebtorID,
		ProposalID:      t.ProposalID,
		InterestID:      t.InterestID,
		Principal:       t.Principal,
		InterestApplied: interest,
		TotalValue:      total,
		Installments:    t.Installments,
		StartDate:       t.StartDate,
		FinalDueDate:    dueDates[len(dueDates)-1],
		Status:          StatusInProgress,
	}

	schedule := make([]Installment, 0, t.Installments)
	for i := 0; i < t.Installments; i++ {
		schedule = append(schedule, Installment{
			Number:  i + 1,
			Value:   value,
			DueDate: dueDates[i],
		})
	}
	l.Schedule = schedule

	if math.Abs(value*float64(t.Installments)-total) >= 0.01*float64(t.Installments) {
		return nil, fmt.Errorf("%w: schedule drifted more than a cent per installment from total %.2f",
			apperrors.ErrInternalServer, total)
	}
	return l, nil
}

// RefreshOverdue recomputes the overdue flag of every unpaid installment
// against today and returns whether any is overdue.
func (l *Loan) RefreshOverdue(today time.Time) bool {
	any := false
	for i := range l.Schedule {
		p := &l.Schedule[i]
		if !p.Paid && p.DueDate.Before(today) {
			p.Overdue = true
			any = true
		}
	}
	return any
}

// DeriveStatus recounts paid installments and derives the loan status:
// PAID when everything is paid, OVERDUE when any unpaid installment is
// past due, IN_PROGRESS otherwise. Idempotent.
func (l *Loan) DeriveStatus(today time.Time) {
	l.RefreshOverdue(today)

	paid := 0
	overdue := false
	for i := range l.Schedule {
		if l.Schedule[i].Paid {
			paid++
		} else if l.Schedule[i].Overdue {
			overdue = true
		}
	}
	l.PaidInstallments = paid

	switch {
	case paid == len(l.Schedule) && len(l.Schedule) > 0:
		l.Status = StatusPaid
	case overdue:
		l.Status = StatusOverdue
	default:
		l.Status = StatusInProgress
	}
}

// FullyPaid reports whether every installment is settled.
func (l *Loan) FullyPaid() bool {
	if len(l.Schedule) == 0 {
		return false
	}
	for i := range l.Schedule {
		if !l.Schedule[i].Paid {
			return false
		}
	}
	return true
}
