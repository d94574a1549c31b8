package origination

import (
	"context"

	"github.com/jackc/pgx/v5"

	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/domain/loan"
)

type OfferRepository interface {
	Create(ctx context.Context, o *Offer) error

	FindByID(ctx context.Context, id int64) (*Offer, error)

	FindByCreditor(ctx context.Context, creditorID int64, activeOnly bool) ([]Offer, error)

	SetActive(ctx context.Context, id int64, active bool) error

	Delete(ctx context.Context, id int64) error
}

type ProposalRepository interface {
	Create(ctx context.Context, p *Proposal) error

	FindByID(ctx context.Context, id int64) (*Proposal, error)

	FindByPublicID(ctx context.Context, publicID string) (*Proposal, error)

	FindActive(ctx context.Context) ([]Proposal, error)

	FindByCreditor(ctx context.Context, creditorID int64) ([]Proposal, error)

	ExistsPublicID(ctx context.Context, publicID string) (bool, error)

	CountByOffer(ctx context.Context, offerID int64) (int64, error)

	UpdateStatus(ctx context.Context, id int64, status ProposalStatus) error

	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id int64, status ProposalStatus) error
}

type InterestRepository interface {
	Create(ctx context.Context, i *Interest) error

	FindByID(ctx context.Context, id int64) (*Interest, error)

	// FindByIDForUpdate locks the interest row so the confirm-and-check
	// sequence is serialized per interest. This is what guarantees the
	// loan-creation trigger fires exactly once when both parties race.
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*Interest, error)

	FindByProposal(ctx context.Context, proposalID int64) ([]Interest, error)

	FindByDebtor(ctx context.Context, debtorID int64) ([]Interest, error)

	ExistsForProposalAndDebtor(ctx context.Context, proposalID, debtorID int64) (bool, error)

	CountByProposalAndStatus(ctx context.Context, proposalID int64, status InterestStatus) (int64, error)

	UpdateStatus(ctx context.Context, id int64, status InterestStatus) error

	UpdateConfirmationInTx(ctx context.Context, tx pgx.Tx, i *Interest) error

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

// CreditorStore is the slice of the account layer the engine needs.
type CreditorStore interface {
	FindByID(ctx context.Context, id int64) (*account.Creditor, error)

	DebitBalanceInTx(ctx context.Context, tx pgx.Tx, id int64, amount float64) error
}

// DebtorStore resolves debtors for interest registration.
type DebtorStore interface {
	FindByID(ctx context.Context, id int64) (*account.Debtor, error)
}

// LoanStore persists the loan materialized on dual confirmation.
type LoanStore interface {
	CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) (*loan.Loan, error)

	CountByProposal(ctx context.Context, proposalID int64) (int64, error)
}

// ProposalCache fronts the public ACTIVE-proposal listing. Implementations
// are best effort: a miss or error just falls through to the repository.
type ProposalCache interface {
	GetActive(ctx context.Context) ([]Proposal, bool)

	SetActive(ctx context.Context, proposals []Proposal)

	Invalidate(ctx context.Context)
}

// NopCache satisfies ProposalCache when no cache backend is configured.
type NopCache struct{}

func (NopCache) GetActive(context.Context) ([]Proposal, bool) { return nil, false }

func (NopCache) SetActive(context.Context, []Proposal) {}

func (NopCache) Invalidate(context.Context) {}
