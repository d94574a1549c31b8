package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-marketplace/internal/domain/loan"
	"loan-marketplace/internal/pkg/apperrors"
)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var loanRowTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func setupLoanRepo(t *testing.T) (context.Context, *LoanRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewLoanRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func loanRow() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "creditor_id", "debtor_id", "proposal_id", "interest_id", "principal", "interest_applied",
		"total_value", "installments", "paid_installments", "start_date", "final_due_date", "status",
		"created_at", "updated_at",
	}).AddRow(
		int64(10), int64(1), int64(2), int64(30), int64(40), 5000.00, 1500.00,
		6500.00, 12, 0, loanRowTime, loanRowTime.AddDate(1, 0, 0), loan.StatusInProgress,
		loanRowTime, loanRowTime,
	)
}

func TestLoanRepositoryGetLoanByID(t *testing.T) {
	t.Run("returns the loan when found", func(t *testing.T) {
		ctx, repo, mockPool := setupLoanRepo(t)
		defer mockPool.Close()

		query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
		mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(10)).WillReturnRows(loanRow())

		l, err := repo.GetLoanByID(ctx, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(10), l.ID)
		assert.Equal(t, loan.StatusInProgress, l.Status)
		assert.InDelta(t, 6500.00, l.TotalValue, 0.001)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		ctx, repo, mockPool := setupLoanRepo(t)
		defer mockPool.Close()

		query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
		mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetLoanByID(ctx, 99)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestLoanRepositoryGetInstallments(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY number ASC`
	rows := pgxmock.NewRows([]string{
		"id", "loan_id", "number", "value", "due_date", "payment_date", "paid", "overdue",
		"created_at", "updated_at",
	}).
		AddRow(int64(101), int64(10), 1, 541.67, loanRowTime.AddDate(0, 1, 0), (*time.Time)(nil), false, false, loanRowTime, loanRowTime).
		AddRow(int64(102), int64(10), 2, 541.67, loanRowTime.AddDate(0, 2, 0), (*time.Time)(nil), false, false, loanRowTime, loanRowTime)

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(10)).WillReturnRows(rows)

	schedule, err := repo.GetInstallments(ctx, 10)

	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, 1, schedule[0].Number)
	assert.Equal(t, int64(102), schedule[1].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryGetOpenLoanIDs(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `SELECT id FROM loans WHERE status != 'PAID' ORDER BY id ASC`
	rows := pgxmock.NewRows([]string{"id"}).AddRow(int64(10)).AddRow(int64(11))

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(rows)

	ids, err := repo.GetOpenLoanIDs(ctx)

	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, ids)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryCountByProposal(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `SELECT COUNT(*) FROM loans WHERE proposal_id = $1`
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(30)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	count, err := repo.CountByProposal(ctx, 30)

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryUpdateLoanDerivedInTx(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	sql := `UPDATE loans SET paid_installments = $1, status = $2, updated_at = NOW() WHERE id = $3`

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta(sql)).
		WithArgs(3, loan.StatusInProgress, int64(10)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	err = repo.UpdateLoanDerivedInTx(ctx, tx, 10, 3, loan.StatusInProgress)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryUpdateOverdueFlagsInTx(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	sql := `
        UPDATE installments
        SET overdue = true, updated_at = NOW()
        WHERE loan_id = $1 AND paid = false AND overdue = false AND due_date < $2`

	asOf := loanRowTime.AddDate(0, 3, 0)

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta(sql)).
		WithArgs(int64(10), asOf).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	flagged, err := repo.UpdateOverdueFlagsInTx(ctx, tx, 10, asOf)

	require.NoError(t, err)
	assert.Equal(t, int64(2), flagged)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryFindInstallmentForUpdate(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1 FOR UPDATE`

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(999)).WillReturnError(pgx.ErrNoRows)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	_, err = repo.FindInstallmentForUpdate(ctx, tx, 999)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
