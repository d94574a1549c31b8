package event

import (
	"context"
	"time"
)

type LoanCreatedEvent struct {
	LoanID       int64     `json:"loanId"`
	CreditorID   int64     `json:"creditorId"`
	DebtorID     int64     `json:"debtorId"`
	ProposalID   int64     `json:"proposalId"`
	Principal    float64   `json:"principal"`
	TotalValue   float64   `json:"totalValue"`
	Installments int       `json:"installments"`
	StartDate    time.Time `json:"startDate"`
	Timestamp    time.Time `json:"timestamp"`
}

type InstallmentPaidEvent struct {
	LoanID        int64     `json:"loanId"`
	InstallmentID int64     `json:"installmentId"`
	Number        int       `json:"number"`
	Value         float64   `json:"value"`
	PaidAt        time.Time `json:"paidAt"`
	Timestamp     time.Time `json:"timestamp"`
}

type LoanPaidOffEvent struct {
	LoanID     int64     `json:"loanId"`
	CreditorID int64     `json:"creditorId"`
	DebtorID   int64     `json:"debtorId"`
	TotalValue float64   `json:"totalValue"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher fans marketplace events out to interested consumers.
// Publishing is best effort; engines log failures and move on.
type Publisher interface {
	PublishLoanCreated(ctx context.Context, e LoanCreatedEvent) error
	PublishInstallmentPaid(ctx context.Context, e InstallmentPaidEvent) error
	PublishLoanPaidOff(ctx context.Context, e LoanPaidOffEvent) error
}

// NoopPublisher satisfies Publisher when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishLoanCreated(context.Context, LoanCreatedEvent) error { return nil }

func (NoopPublisher) PublishInstallmentPaid(context.Context, InstallmentPaidEvent) error { return nil }

func (NoopPublisher) PublishLoanPaidOff(context.Context, LoanPaidOffEvent) error { return nil }

var _ Publisher = NoopPublisher{}
