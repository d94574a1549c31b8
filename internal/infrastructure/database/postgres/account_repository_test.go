package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/pkg/apperrors"
)

var accountRowTime = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func setupCreditorRepo(t *testing.T) (context.Context, *CreditorRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewCreditorRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func setupDebtorRepo(t *testing.T) (context.Context, *DebtorRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewDebtorRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func creditorRow() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "document", "phone", "email", "password_hash", "balance", "created_at", "updated_at",
	}).AddRow(
		int64(1), "Lender", "12345678900", "555-0100", "lender@example.com", "hashed", 1000.00,
		accountRowTime, accountRowTime,
	)
}

func TestCreditorRepositoryCreate(t *testing.T) {
	query := `
        INSERT INTO creditors (name, document, phone, email, password_hash, balance, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	t.Run("inserts and fills generated fields", func(t *testing.T) {
		ctx, repo, mockPool := setupCreditorRepo(t)
		defer mockPool.Close()

		c := &account.Creditor{
			Name:         "Lender",
			Document:     "12345678900",
			Phone:        "555-0100",
			Email:        "lender@example.com",
			PasswordHash: "hashed",
		}

		mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
			c.Name, c.Document, c.Phone, c.Email, c.PasswordHash, c.Balance,
		).WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), accountRowTime, accountRowTime))

		err := repo.Create(ctx, c)

		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
		assert.Equal(t, accountRowTime, c.CreatedAt)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("maps unique violations to conflict", func(t *testing.T) {
		ctx, repo, mockPool := setupCreditorRepo(t)
		defer mockPool.Close()

		c := &account.Creditor{Name: "Lender", Email: "lender@example.com", PasswordHash: "hashed"}

		mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
			c.Name, c.Document, c.Phone, c.Email, c.PasswordHash, c.Balance,
		).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "creditors_email_key"})

		err := repo.Create(ctx, c)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestCreditorRepositoryFindByID(t *testing.T) {
	query := `SELECT ` + creditorColumns + ` FROM creditors WHERE id = $1`

	t.Run("returns the creditor when found", func(t *testing.T) {
		ctx, repo, mockPool := setupCreditorRepo(t)
		defer mockPool.Close()

		mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(1)).WillReturnRows(creditorRow())

		c, err := repo.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "lender@example.com", c.Email)
		assert.InDelta(t, 1000.00, c.Balance, 0.001)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		ctx, repo, mockPool := setupCreditorRepo(t)
		defer mockPool.Close()

		mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByID(ctx, 99)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestCreditorRepositoryDeposit(t *testing.T) {
	ctx, repo, mockPool := setupCreditorRepo(t)
	defer mockPool.Close()

	query := `
        UPDATE creditors
        SET balance = balance + $1, updated_at = NOW()
        WHERE id = $2
        RETURNING ` + creditorColumns

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(250.00, int64(1)).WillReturnRows(creditorRow())

	c, err := repo.Deposit(ctx, 1, 250.00)

	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCreditorRepositoryDebitBalanceInTx(t *testing.T) {
	sql := `
        UPDATE creditors
        SET balance = balance - $1, updated_at = NOW()
        WHERE id = $2 AND balance >= $1`

	t.Run("debits when the balance covers the amount", func(t *testing.T) {
		ctx, repo, mockPool := setupCreditorRepo(t)
		defer mockPool.Close()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(sql)).
			WithArgs(5000.00, int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		tx, err := mockPool.Begin(ctx)
		require.NoError(t, err)

		err = repo.DebitBalanceInTx(ctx, tx, 1, 5000.00)

		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("refuses the debit when funds are insufficient", func(t *testing.T) {
		ctx, repo, mockPool := setupCreditorRepo(t)
		defer mockPool.Close()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(sql)).
			WithArgs(5000.00, int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM creditors WHERE id = $1)`)).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		tx, err := mockPool.Begin(ctx)
		require.NoError(t, err)

		err = repo.DebitBalanceInTx(ctx, tx, 1, 5000.00)

		assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("reports not found for an unknown creditor", func(t *testing.T) {
		ctx, repo, mockPool := setupCreditorRepo(t)
		defer mockPool.Close()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta(sql)).
			WithArgs(5000.00, int64(77)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM creditors WHERE id = $1)`)).
			WithArgs(int64(77)).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		tx, err := mockPool.Begin(ctx)
		require.NoError(t, err)

		err = repo.DebitBalanceInTx(ctx, tx, 77, 5000.00)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestDebtorRepositoryUpdateProfile(t *testing.T) {
	query := `
        UPDATE debtors
        SET name = $1,
            phone = $2,
            address = $3,
            city = $4,
            state = $5,
            zip_code = $6,
            birth_date = $7,
            updated_at = NOW()
        WHERE id = $8`

	t.Run("updates the profile", func(t *testing.T) {
		ctx, repo, mockPool := setupDebtorRepo(t)
		defer mockPool.Close()

		d := &account.Debtor{
			ID:      2,
			Name:    "Borrower",
			Phone:   "555-0200",
			Address: "1 Main St",
			City:    "Springfield",
			State:   "SP",
			ZipCode: "12345",
		}

		mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(
			d.Name, d.Phone, d.Address, d.City, d.State, d.ZipCode, d.BirthDate, d.ID,
		).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateProfile(ctx, d)

		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("reports not found when no row matches", func(t *testing.T) {
		ctx, repo, mockPool := setupDebtorRepo(t)
		defer mockPool.Close()

		d := &account.Debtor{ID: 99, Name: "Ghost"}

		mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(
			d.Name, d.Phone, d.Address, d.City, d.State, d.ZipCode, d.BirthDate, d.ID,
		).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateProfile(ctx, d)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}
