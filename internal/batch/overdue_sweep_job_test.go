package batch_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"loan-marketplace/internal/batch"
	"loan-marketplace/internal/domain/loan"
	"loan-marketplace/internal/pkg/apperrors"
)

type MockLedgerService struct {
	mock.Mock
}

func (_m *MockLedgerService) PayInstallment(ctx context.Context, installmentID int64) (*loan.Installment, error) {
	ret := _m.Called(ctx, installmentID)

	var r0 *loan.Installment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Installment)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) GetLoansByDebtor(ctx context.Context, debtorID int64) ([]loan.Loan, error) {
	ret := _m.Called(ctx, debtorID)

	var r0 []loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) GetLoansByCreditor(ctx context.Context, creditorID int64) ([]loan.Loan, error) {
	ret := _m.Called(ctx, creditorID)

	var r0 []loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) GetInstallments(ctx context.Context, loanID int64) ([]loan.Installment, error) {
	ret := _m.Called(ctx, loanID)

	var r0 []loan.Installment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]loan.Installment)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) Arrears(ctx context.Context, loanID int64) ([]loan.Installment, error) {
	ret := _m.Called(ctx, loanID)

	var r0 []loan.Installment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]loan.Installment)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) GetSummary(ctx context.Context, loanID int64) (*loan.Summary, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Summary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Summary)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) RefreshLoanStatus(ctx context.Context, loanID int64) (loan.Status, error) {
	ret := _m.Called(ctx, loanID)
	return ret.Get(0).(loan.Status), ret.Error(1)
}

var _ loan.LedgerService = (*MockLedgerService)(nil)

func setupSweepTest() (*loan.MockRepository, *MockLedgerService, *batch.OverdueSweepJob) {
	mockRepo := new(loan.MockRepository)
	mockLedger := new(MockLedgerService)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := batch.NewOverdueSweepJob(mockRepo, mockLedger, logger)
	return mockRepo, mockLedger, job
}

func TestOverdueSweepJobRun(t *testing.T) {
	ctx := context.Background()

	t.Run("successfully refreshes all open loans", func(t *testing.T) {
		mockRepo, mockLedger, job := setupSweepTest()

		mockRepo.On("GetOpenLoanIDs", ctx).Return([]int64{1, 2, 3}, nil)
		mockLedger.On("RefreshLoanStatus", ctx, int64(1)).Return(loan.StatusInProgress, nil)
		mockLedger.On("RefreshLoanStatus", ctx, int64(2)).Return(loan.StatusOverdue, nil)
		mockLedger.On("RefreshLoanStatus", ctx, int64(3)).Return(loan.StatusPaid, nil)

		err := job.Run(ctx)
		assert.NoError(t, err)

		mockRepo.AssertExpectations(t)
		mockLedger.AssertExpectations(t)
	})

	t.Run("handles no open loans", func(t *testing.T) {
		mockRepo, mockLedger, job := setupSweepTest()

		mockRepo.On("GetOpenLoanIDs", ctx).Return([]int64{}, nil)

		err := job.Run(ctx)
		assert.NoError(t, err)

		mockLedger.AssertNotCalled(t, "RefreshLoanStatus", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("aborts when open loan lookup fails", func(t *testing.T) {
		mockRepo, mockLedger, job := setupSweepTest()

		mockRepo.On("GetOpenLoanIDs", ctx).
			Return(nil, fmt.Errorf("%w: failed to query open loans", apperrors.ErrDatabase))

		err := job.Run(ctx)
		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)

		mockLedger.AssertNotCalled(t, "RefreshLoanStatus", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("counts refresh failures into the job error", func(t *testing.T) {
		mockRepo, mockLedger, job := setupSweepTest()

		mockRepo.On("GetOpenLoanIDs", ctx).Return([]int64{1, 2}, nil)
		mockLedger.On("RefreshLoanStatus", ctx, int64(1)).Return(loan.StatusInProgress, nil)
		mockLedger.On("RefreshLoanStatus", ctx, int64(2)).
			Return(loan.Status(""), errors.New("deadlock detected"))

		err := job.Run(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "1 errors")

		mockLedger.AssertExpectations(t)
	})

	t.Run("tolerates loans that disappear mid sweep", func(t *testing.T) {
		mockRepo, mockLedger, job := setupSweepTest()

		mockRepo.On("GetOpenLoanIDs", ctx).Return([]int64{1, 2}, nil)
		mockLedger.On("RefreshLoanStatus", ctx, int64(1)).Return(loan.StatusInProgress, nil)
		mockLedger.On("RefreshLoanStatus", ctx, int64(2)).
			Return(loan.Status(""), fmt.Errorf("%w: loan not found", apperrors.ErrNotFound))

		err := job.Run(ctx)
		assert.NoError(t, err, "a vanished loan is logged, not counted as a failure")

		mockLedger.AssertExpectations(t)
	})
}
