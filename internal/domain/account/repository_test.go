package account

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockCreditorRepository struct {
	mock.Mock
}

func (_m *MockCreditorRepository) Create(ctx context.Context, c *Creditor) error {
	ret := _m.Called(ctx, c)
	return ret.Error(0)
}

func (_m *MockCreditorRepository) FindByID(ctx context.Context, id int64) (*Creditor, error) {
	ret := _m.Called(ctx, id)

	var r0 *Creditor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Creditor)
	}
	return r0, ret.Error(1)
}

func (_m *MockCreditorRepository) FindByEmail(ctx context.Context, email string) (*Creditor, error) {
	ret := _m.Called(ctx, email)

	var r0 *Creditor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Creditor)
	}
	return r0, ret.Error(1)
}

func (_m *MockCreditorRepository) Deposit(ctx context.Context, id int64, amount float64) (*Creditor, error) {
	ret := _m.Called(ctx, id, amount)

	var r0 *Creditor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Creditor)
	}
	return r0, ret.Error(1)
}

func (_m *MockCreditorRepository) DebitBalanceInTx(ctx context.Context, tx pgx.Tx, id int64, amount float64) error {
	ret := _m.Called(ctx, tx, id, amount)
	return ret.Error(0)
}

var _ CreditorRepository = (*MockCreditorRepository)(nil)

type MockDebtorRepository struct {
	mock.Mock
}

func (_m *MockDebtorRepository) Create(ctx context.Context, d *Debtor) error {
	ret := _m.Called(ctx, d)
	return ret.Error(0)
}

func (_m *MockDebtorRepository) FindByID(ctx context.Context, id int64) (*Debtor, error) {
	ret := _m.Called(ctx, id)

	var r0 *Debtor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Debtor)
	}
	return r0, ret.Error(1)
}

func (_m *MockDebtorRepository) FindByEmail(ctx context.Context, email string) (*Debtor, error) {
	ret := _m.Called(ctx, email)

	var r0 *Debtor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Debtor)
	}
	return r0, ret.Error(1)
}

func (_m *MockDebtorRepository) UpdateProfile(ctx context.Context, d *Debtor) error {
	ret := _m.Called(ctx, d)
	return ret.Error(0)
}

var _ DebtorRepository = (*MockDebtorRepository)(nil)
