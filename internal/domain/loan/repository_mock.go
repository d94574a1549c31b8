package loan

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

// TxMock embeds pgx.Tx so it satisfies the interface without implementing
// it; the service never touches the tx directly, it only threads it
// through to the repository.
type TxMock struct {
	pgx.Tx
}

func (_m *MockRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *Loan) (*Loan, error) {
	ret := _m.Called(ctx, tx, l)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoanByID(ctx context.Context, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoansByDebtor(ctx context.Context, debtorID int64) ([]Loan, error) {
	ret := _m.Called(ctx, debtorID)

	var r0 []Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoansByCreditor(ctx context.Context, creditorID int64) ([]Loan, error) {
	ret := _m.Called(ctx, creditorID)

	var r0 []Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetInstallments(ctx context.Context, loanID int64) ([]Installment, error) {
	ret := _m.Called(ctx, loanID)

	var r0 []Installment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Installment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetInstallmentByID(ctx context.Context, installmentID int64) (*Installment, error) {
	ret := _m.Called(ctx, installmentID)

	var r0 *Installment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Installment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindInstallmentForUpdate(ctx context.Context, tx pgx.Tx, installmentID int64) (*Installment, error) {
	ret := _m.Called(ctx, tx, installmentID)

	var r0 *Installment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Installment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoanWithScheduleInTx(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, tx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) UpdateInstallmentInTx(ctx context.Context, tx pgx.Tx, p *Installment) error {
	ret := _m.Called(ctx, tx, p)
	return ret.Error(0)
}

func (_m *MockRepository) UpdateLoanDerivedInTx(ctx context.Context, tx pgx.Tx, loanID int64, paidInstallments int, status Status) error {
	ret := _m.Called(ctx, tx, loanID, paidInstallments, status)
	return ret.Error(0)
}

func (_m *MockRepository) UpdateOverdueFlagsInTx(ctx context.Context, tx pgx.Tx, loanID int64, asOf time.Time) (int64, error) {
	ret := _m.Called(ctx, tx, loanID, asOf)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockRepository) GetOpenLoanIDs(ctx context.Context) ([]int64, error) {
	ret := _m.Called(ctx)

	var r0 []int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]int64)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

var _ Repository = (*MockRepository)(nil)
