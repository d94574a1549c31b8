package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/infrastructure/monitoring"
	"loan-marketplace/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const creditorColumns = `id, name, document, phone, email, password_hash, balance, created_at, updated_at`

const debtorColumns = `id, name, document, phone, email, password_hash, address, city, state, zip_code, birth_date, created_at, updated_at`

type CreditorRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ account.CreditorRepository = (*CreditorRepository)(nil)

func NewCreditorRepository(db DBPool, logger *slog.Logger) *CreditorRepository {
	if db == nil {
		panic("DBPool cannot be nil for CreditorRepository")
	}
	return &CreditorRepository{db: db, logger: logger.With("component", "CreditorRepository")}
}

func (r *CreditorRepository) Create(ctx context.Context, c *account.Creditor) error {
	r.logger.InfoContext(ctx, "Attempting to insert new creditor", slog.String("email", c.Email))

	query := `
        INSERT INTO creditors (name, document, phone, email, password_hash, balance, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		c.Name, c.Document, c.Phone, c.Email, c.PasswordHash, c.Balance,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrConflict) {
			r.logger.WarnContext(ctx, "Failed to insert creditor due to unique constraint violation", slog.String("email", c.Email))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert creditor", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert creditor: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Creditor inserted successfully", slog.Int64("creditorID", c.ID))
	return nil
}

func (r *CreditorRepository) FindByID(ctx context.Context, id int64) (*account.Creditor, error) {
	query := `SELECT ` + creditorColumns + ` FROM creditors WHERE id = $1`

	var c account.Creditor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email,
		&c.PasswordHash, &c.Balance, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Creditor not found", "creditor_id", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get creditor by ID", "creditor_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &c, nil
}

func (r *CreditorRepository) FindByEmail(ctx context.Context, email string) (*account.Creditor, error) {
	query := `SELECT ` + creditorColumns + ` FROM creditors WHERE email = $1`

	var c account.Creditor
	err := r.db.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email,
		&c.PasswordHash, &c.Balance, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get creditor by email", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &c, nil
}

func (r *CreditorRepository) Deposit(ctx context.Context, id int64, amount float64) (*account.Creditor, error) {
	status := "success"
	startTime := time.Now()

	query := `
        UPDATE creditors
        SET balance = balance + $1, updated_at = NOW()
        WHERE id = $2
        RETURNING ` + creditorColumns

	var c account.Creditor
	err := r.db.QueryRow(ctx, query, amount, id).Scan(
		&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email,
		&c.PasswordHash, &c.Balance, &c.CreatedAt, &c.UpdatedAt,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreditorDeposit", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Creditor not found for deposit", "creditor_id", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to deposit into creditor balance", "creditor_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Creditor balance credited", "creditor_id", id, "amount", amount)
	return &c, nil
}

// DebitBalanceInTx is the overdraft guard for loan funding. The WHERE
// clause makes the debit conditional on sufficient funds, so two
// concurrent loan creations can never push the balance negative.
func (r *CreditorRepository) DebitBalanceInTx(ctx context.Context, tx pgx.Tx, id int64, amount float64) error {
	sql := `
        UPDATE creditors
        SET balance = balance - $1, updated_at = NOW()
        WHERE id = $2 AND balance >= $1`

	cmdTag, err := tx.Exec(ctx, sql, amount, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to debit creditor balance", "creditor_id", id, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if checkErr := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM creditors WHERE id = $1)`, id).Scan(&exists); checkErr == nil && !exists {
			return apperrors.ErrNotFound
		}
		r.logger.WarnContext(ctx, "Debit refused, balance insufficient", "creditor_id", id, "amount", amount)
		return fmt.Errorf("%w: creditor balance is insufficient", apperrors.ErrPreconditionFailed)
	}

	r.logger.InfoContext(ctx, "Creditor balance debited", "creditor_id", id, "amount", amount)
	return nil
}

type DebtorRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ account.DebtorRepository = (*DebtorRepository)(nil)

func NewDebtorRepository(db DBPool, logger *slog.Logger) *DebtorRepository {
	if db == nil {
		panic("DBPool cannot be nil for DebtorRepository")
	}
	return &DebtorRepository{db: db, logger: logger.With("component", "DebtorRepository")}
}

func (r *DebtorRepository) Create(ctx context.Context, d *account.Debtor) error {
	r.logger.InfoContext(ctx, "Attempting to insert new debtor", slog.String("email", d.Email))

	query := `
        INSERT INTO debtors (name, document, phone, email, password_hash, address, city, state, zip_code, birth_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		d.Name, d.Document, d.Phone, d.Email, d.PasswordHash,
		d.Address, d.City, d.State, d.ZipCode, d.BirthDate,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrConflict) {
			r.logger.WarnContext(ctx, "Failed to insert debtor due to unique constraint violation", slog.String("email", d.Email))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert debtor", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert debtor: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Debtor inserted successfully", slog.Int64("debtorID", d.ID))
	return nil
}

func (r *DebtorRepository) FindByID(ctx context.Context, id int64) (*account.Debtor, error) {
	query := `SELECT ` + debtorColumns + ` FROM debtors WHERE id = $1`

	var d account.Debtor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Document, &d.Phone, &d.Email, &d.PasswordHash,
		&d.Address, &d.City, &d.State, &d.ZipCode, &d.BirthDate,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Debtor not found", "debtor_id", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get debtor by ID", "debtor_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &d, nil
}

func (r *DebtorRepository) FindByEmail(ctx context.Context, email string) (*account.Debtor, error) {
	query := `SELECT ` + debtorColumns + ` FROM debtors WHERE email = $1`

	var d account.Debtor
	err := r.db.QueryRow(ctx, query, email).Scan(
		&d.ID, &d.Name, &d.Document, &d.Phone, &d.Email, &d.PasswordHash,
		&d.Address, &d.City, &d.State, &d.ZipCode, &d.BirthDate,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get debtor by email", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &d, nil
}

func (r *DebtorRepository) UpdateProfile(ctx context.Context, d *account.Debtor) error {
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

	cmdTag, err := r.db.Exec(ctx, query,
		d.Name, d.Phone, d.Address, d.City, d.State, d.ZipCode, d.BirthDate, d.ID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update debtor profile", "debtor_id", d.ID, "error", err)
		return fmt.Errorf("%w: failed to update debtor profile: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Profile update affected zero rows, debtor likely not found", "debtor_id", d.ID)
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Debtor profile updated successfully", "debtor_id", d.ID)
	return nil
}
