package origination

import "time"

type ProposalStatus string

const (
	ProposalActive    ProposalStatus = "ACTIVE"
	ProposalCancelled ProposalStatus = "CANCELLED"
	ProposalAccepted  ProposalStatus = "ACCEPTED"
)

// Proposal is the public, borrower-visible listing generated from an
// offer. It snapshots the offer terms (rate optionally overridden at
// generation time) and denormalizes the creditor name for reads.
type Proposal struct {
	ID                int64
	PublicID          string
	OfferID           int64
	CreditorID        int64
	CreditorName      string
	Amount            float64
	MinInstallments   int
	MaxInstallments   int
	DaysToFirstCharge int
	Rate              float64
	Status            ProposalStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type InterestStatus string

const (
	InterestPending   InterestStatus = "PENDING"
	InterestApproved  InterestStatus = "APPROVED"
	InterestRejected  InterestStatus = "REJECTED"
	InterestCancelled InterestStatus = "CANCELLED"
)

// Party identifies which side of the deal is acting.
type Party string

const (
	PartyCreditor Party = "CREDITOR"
	PartyDebtor   Party = "DEBTOR"
)

// Interest is a debtor's expression of interest in a proposal, unique
// per (proposal, debtor) pair. The two confirmation flags are set
// independently; the loan is created the moment the second one lands.
type Interest struct {
	ID                  int64
	ProposalID          int64
	DebtorID            int64
	Message             string
	Status              InterestStatus
	CreditorConfirmed   bool
	DebtorConfirmed     bool
	CreditorConfirmedAt *time.Time
	DebtorConfirmedAt   *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ConfirmedBy reports whether the given party already confirmed.
func (i *Interest) ConfirmedBy(p Party) bool {
	if p == PartyCreditor {
		return i.CreditorConfirmed
	}
	return i.DebtorConfirmed
}

// AnyConfirmation reports whether either side confirmed.
func (i *Interest) AnyConfirmation() bool {
	return i.CreditorConfirmed || i.DebtorConfirmed
}

// LoanEligible reports whether the interest can be turned into a loan.
func (i *Interest) LoanEligible() bool {
	return i.Status == InterestApproved && i.CreditorConfirmed && i.DebtorConfirmed
}

// ProposalStats summarizes interest activity on one proposal.
type ProposalStats struct {
	ProposalID        int64          `json:"proposalId"`
	Status            ProposalStatus `json:"status"`
	TotalInterests    int64          `json:"totalInterests"`
	PendingInterests  int64          `json:"pendingInterests"`
	ApprovedInterests int64          `json:"approvedInterests"`
	LoansCreated      int64          `json:"loansCreated"`
}
