package notification

import (
	"context"
	"time"
)

// RecipientType selects which account table the recipient id points at.
type RecipientType string

const (
	RecipientCreditor RecipientType = "CREDITOR"
	RecipientDebtor   RecipientType = "DEBTOR"
)

// Kind is the event family a notification belongs to.
type Kind string

const (
	KindNewInterest         Kind = "NEW_INTEREST"
	KindApproval            Kind = "APPROVAL"
	KindRejection           Kind = "REJECTION"
	KindConfirmationPending Kind = "CONFIRMATION_PENDING"
	KindLoanConfirmed       Kind = "LOAN_CONFIRMED"
	KindInstallmentPaid     Kind = "INSTALLMENT_PAID"
	KindLoanPaidOff         Kind = "LOAN_PAID_OFF"
	KindInstallmentDueSoon  Kind = "INSTALLMENT_DUE_SOON"
	KindInstallmentOverdue  Kind = "INSTALLMENT_OVERDUE"
)

// ReferenceType names the entity a notification points back to.
type ReferenceType string

const (
	RefProposal    ReferenceType = "PROPOSAL"
	RefInterest    ReferenceType = "INTEREST"
	RefLoan        ReferenceType = "LOAN"
	RefInstallment ReferenceType = "INSTALLMENT"
)

type Notification struct {
	ID            int64
	RecipientType RecipientType
	RecipientID   int64
	Kind          Kind
	Title         string
	Message       string
	Read          bool
	ReadAt        *time.Time
	ReferenceID   string
	ReferenceType ReferenceType
	CreatedAt     time.Time
}

// Sink records a notification for later delivery. Implementations must
// be fire-and-forget from the caller's point of view: a failing sink
// never aborts the business transaction that produced the event.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}
