package origination

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/domain/loan"
)

type MockOfferRepository struct {
	mock.Mock
}

// TxMock embeds pgx.Tx so it satisfies the interface without implementing
// it; the engine only threads the tx through to the repositories.
type TxMock struct {
	pgx.Tx
}

func (_m *MockOfferRepository) Create(ctx context.Context, o *Offer) error {
	ret := _m.Called(ctx, o)
	return ret.Error(0)
}

func (_m *MockOfferRepository) FindByID(ctx context.Context, id int64) (*Offer, error) {
	ret := _m.Called(ctx, id)

	var r0 *Offer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Offer)
	}
	return r0, ret.Error(1)
}

func (_m *MockOfferRepository) FindByCreditor(ctx context.Context, creditorID int64, activeOnly bool) ([]Offer, error) {
	ret := _m.Called(ctx, creditorID, activeOnly)

	var r0 []Offer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Offer)
	}
	return r0, ret.Error(1)
}

func (_m *MockOfferRepository) SetActive(ctx context.Context, id int64, active bool) error {
	ret := _m.Called(ctx, id, active)
	return ret.Error(0)
}

func (_m *MockOfferRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

var _ OfferRepository = (*MockOfferRepository)(nil)

type MockProposalRepository struct {
	mock.Mock
}

func (_m *MockProposalRepository) Create(ctx context.Context, p *Proposal) error {
	ret := _m.Called(ctx, p)
	return ret.Error(0)
}

func (_m *MockProposalRepository) FindByID(ctx context.Context, id int64) (*Proposal, error) {
	ret := _m.Called(ctx, id)

	var r0 *Proposal
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Proposal)
	}
	return r0, ret.Error(1)
}

func (_m *MockProposalRepository) FindByPublicID(ctx context.Context, publicID string) (*Proposal, error) {
	ret := _m.Called(ctx, publicID)

	var r0 *Proposal
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Proposal)
	}
	return r0, ret.Error(1)
}

func (_m *MockProposalRepository) FindActive(ctx context.Context) ([]Proposal, error) {
	ret := _m.Called(ctx)

	var r0 []Proposal
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Proposal)
	}
	return r0, ret.Error(1)
}

func (_m *MockProposalRepository) FindByCreditor(ctx context.Context, creditorID int64) ([]Proposal, error) {
	ret := _m.Called(ctx, creditorID)

	var r0 []Proposal
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Proposal)
	}
	return r0, ret.Error(1)
}

func (_m *MockProposalRepository) ExistsPublicID(ctx context.Context, publicID string) (bool, error) {
	ret := _m.Called(ctx, publicID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockProposalRepository) CountByOffer(ctx context.Context, offerID int64) (int64, error) {
	ret := _m.Called(ctx, offerID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockProposalRepository) UpdateStatus(ctx context.Context, id int64, status ProposalStatus) error {
	ret := _m.Called(ctx, id, status)
	return ret.Error(0)
}

func (_m *MockProposalRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id int64, status ProposalStatus) error {
	ret := _m.Called(ctx, tx, id, status)
	return ret.Error(0)
}

var _ ProposalRepository = (*MockProposalRepository)(nil)

type MockInterestRepository struct {
	mock.Mock
}

func (_m *MockInterestRepository) Create(ctx context.Context, i *Interest) error {
	ret := _m.Called(ctx, i)
	return ret.Error(0)
}

func (_m *MockInterestRepository) FindByID(ctx context.Context, id int64) (*Interest, error) {
	ret := _m.Called(ctx, id)

	var r0 *Interest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Interest)
	}
	return r0, ret.Error(1)
}

func (_m *MockInterestRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*Interest, error) {
	ret := _m.Called(ctx, tx, id)

	var r0 *Interest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Interest)
	}
	return r0, ret.Error(1)
}

func (_m *MockInterestRepository) FindByProposal(ctx context.Context, proposalID int64) ([]Interest, error) {
	ret := _m.Called(ctx, proposalID)

	var r0 []Interest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Interest)
	}
	return r0, ret.Error(1)
}

func (_m *MockInterestRepository) FindByDebtor(ctx context.Context, debtorID int64) ([]Interest, error) {
	ret := _m.Called(ctx, debtorID)

	var r0 []Interest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Interest)
	}
	return r0, ret.Error(1)
}

func (_m *MockInterestRepository) ExistsForProposalAndDebtor(ctx context.Context, proposalID, debtorID int64) (bool, error) {
	ret := _m.Called(ctx, proposalID, debtorID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockInterestRepository) CountByProposalAndStatus(ctx context.Context, proposalID int64, status InterestStatus) (int64, error) {
	ret := _m.Called(ctx, proposalID, status)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockInterestRepository) UpdateStatus(ctx context.Context, id int64, status InterestStatus) error {
	ret := _m.Called(ctx, id, status)
	return ret.Error(0)
}

func (_m *MockInterestRepository) UpdateConfirmationInTx(ctx context.Context, tx pgx.Tx, i *Interest) error {
	ret := _m.Called(ctx, tx, i)
	return ret.Error(0)
}

func (_m *MockInterestRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockInterestRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockInterestRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

var _ InterestRepository = (*MockInterestRepository)(nil)

type MockCreditorStore struct {
	mock.Mock
}

func (_m *MockCreditorStore) FindByID(ctx context.Context, id int64) (*account.Creditor, error) {
	ret := _m.Called(ctx, id)

	var r0 *account.Creditor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Creditor)
	}
	return r0, ret.Error(1)
}

func (_m *MockCreditorStore) DebitBalanceInTx(ctx context.Context, tx pgx.Tx, id int64, amount float64) error {
	ret := _m.Called(ctx, tx, id, amount)
	return ret.Error(0)
}

var _ CreditorStore = (*MockCreditorStore)(nil)

type MockDebtorStore struct {
	mock.Mock
}

func (_m *MockDebtorStore) FindByID(ctx context.Context, id int64) (*account.Debtor, error) {
	ret := _m.Called(ctx, id)

	var r0 *account.Debtor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Debtor)
	}
	return r0, ret.Error(1)
}

var _ DebtorStore = (*MockDebtorStore)(nil)

type MockLoanStore struct {
	mock.Mock
}

func (_m *MockLoanStore) CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) (*loan.Loan, error) {
	ret := _m.Called(ctx, tx, l)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanStore) CountByProposal(ctx context.Context, proposalID int64) (int64, error) {
	ret := _m.Called(ctx, proposalID)
	return ret.Get(0).(int64), ret.Error(1)
}

var _ LoanStore = (*MockLoanStore)(nil)
