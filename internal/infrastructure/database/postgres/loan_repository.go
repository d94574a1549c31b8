package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-marketplace/internal/domain/loan"
	"loan-marketplace/internal/infrastructure/monitoring"
	"loan-marketplace/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var errMsgFormat = "%w: %w"

const loanColumns = `id, creditor_id, debtor_id, proposal_id, interest_id, principal, interest_applied,
        total_value, installments, paid_installments, start_date, final_due_date, status, created_at, updated_at`

const installmentColumns = `id, loan_id, number, value, due_date, payment_date, paid, overdue, created_at, updated_at`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) (*loan.Loan, error) {
	loanSQL := `
        INSERT INTO loans (creditor_id, debtor_id, proposal_id, interest_id, principal, interest_applied,
            total_value, installments, paid_installments, start_date, final_due_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $11, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	created := *l
	err := tx.QueryRow(ctx, loanSQL,
		l.CreditorID, l.DebtorID, l.ProposalID, l.InterestID, l.Principal, l.InterestApplied,
		l.TotalValue, l.Installments, l.StartDate, l.FinalDueDate, l.Status,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID)

	if len(l.Schedule) > 0 {
		installmentSQL := `
            INSERT INTO installments (loan_id, number, value, due_date, paid, overdue, created_at, updated_at)
            VALUES ($1, $2, $3, $4, false, false, NOW(), NOW())`

		batch := &pgx.Batch{}
		for _, inst := range l.Schedule {
			batch.Queue(installmentSQL, created.ID, inst.Number, inst.Value, inst.DueDate)
		}

		results := tx.SendBatch(ctx, batch)

		for i := 0; i < len(l.Schedule); i++ {
			_, err = results.Exec()
			if err != nil {
				results.Close()
				r.logger.ErrorContext(ctx, "Failed executing installment batch insert", "error", err, "entry_index", i, "loan_id", created.ID)
				return nil, fmt.Errorf("%w: failed inserting installment %d: %w", apperrors.ErrDatabase, i+1, err)
			}
		}
		err = results.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed closing installment batch results", "error", err, "loan_id", created.ID)
			return nil, fmt.Errorf("%w: closing batch results failed: %w", apperrors.ErrDatabase, err)
		}
	}
	r.logger.InfoContext(ctx, "Installment schedule created in DB", "loan_id", created.ID, "num_installments", len(l.Schedule))

	for i := range created.Schedule {
		created.Schedule[i].LoanID = created.ID
	}
	return &created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	status := "success"
	startTime := time.Now()

	var l loan.Loan
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&l.ID, &l.CreditorID, &l.DebtorID, &l.ProposalID, &l.InterestID, &l.Principal, &l.InterestApplied,
		&l.TotalValue, &l.Installments, &l.PaidInstallments, &l.StartDate, &l.FinalDueDate,
		&l.Status, &l.CreatedAt, &l.UpdatedAt,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &l, nil
}

func (r *LoanRepository) GetLoansByDebtor(ctx context.Context, debtorID int64) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE debtor_id = $1 ORDER BY created_at DESC`
	return r.queryLoans(ctx, query, debtorID)
}

func (r *LoanRepository) GetLoansByCreditor(ctx context.Context, creditorID int64) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE creditor_id = $1 ORDER BY created_at DESC`
	return r.queryLoans(ctx, query, creditorID)
}

func (r *LoanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]loan.Loan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.ID, &l.CreditorID, &l.DebtorID, &l.ProposalID, &l.InterestID, &l.Principal, &l.InterestApplied,
			&l.TotalValue, &l.Installments, &l.PaidInstallments, &l.StartDate, &l.FinalDueDate,
			&l.Status, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return loans, nil
}

func (r *LoanRepository) GetInstallments(ctx context.Context, loanID int64) ([]loan.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY number ASC`

	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query installments", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	schedule := make([]loan.Installment, 0)
	for rows.Next() {
		var inst loan.Installment
		err := rows.Scan(
			&inst.ID, &inst.LoanID, &inst.Number, &inst.Value, &inst.DueDate,
			&inst.PaymentDate, &inst.Paid, &inst.Overdue, &inst.CreatedAt, &inst.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan installment row", "loan_id", loanID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		schedule = append(schedule, inst)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating installment rows", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return schedule, nil
}

func (r *LoanRepository) GetInstallmentByID(ctx context.Context, installmentID int64) (*loan.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1`

	var inst loan.Installment
	err := r.db.QueryRow(ctx, query, installmentID).Scan(
		&inst.ID, &inst.LoanID, &inst.Number, &inst.Value, &inst.DueDate,
		&inst.PaymentDate, &inst.Paid, &inst.Overdue, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Installment not found", "installment_id", installmentID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get installment by ID", "installment_id", installmentID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &inst, nil
}

func (r *LoanRepository) FindInstallmentForUpdate(ctx context.Context, tx pgx.Tx, installmentID int64) (*loan.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1 FOR UPDATE`

	var inst loan.Installment
	err := tx.QueryRow(ctx, query, installmentID).Scan(
		&inst.ID, &inst.LoanID, &inst.Number, &inst.Value, &inst.DueDate,
		&inst.PaymentDate, &inst.Paid, &inst.Overdue, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.InfoContext(ctx, "Installment not found for update", "installment_id", installmentID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find/lock installment", "installment_id", installmentID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &inst, nil
}

func (r *LoanRepository) GetLoanWithScheduleInTx(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Loan, error) {
	loanQuery := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	var l loan.Loan
	err := tx.QueryRow(ctx, loanQuery, loanID).Scan(
		&l.ID, &l.CreditorID, &l.DebtorID, &l.ProposalID, &l.InterestID, &l.Principal, &l.InterestApplied,
		&l.TotalValue, &l.Installments, &l.PaidInstallments, &l.StartDate, &l.FinalDueDate,
		&l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found in transaction", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get/lock loan", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	scheduleQuery := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY number ASC`
	rows, err := tx.Query(ctx, scheduleQuery, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query schedule in transaction", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		var inst loan.Installment
		err := rows.Scan(
			&inst.ID, &inst.LoanID, &inst.Number, &inst.Value, &inst.DueDate,
			&inst.PaymentDate, &inst.Paid, &inst.Overdue, &inst.CreatedAt, &inst.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan schedule row in transaction", "loan_id", loanID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		l.Schedule = append(l.Schedule, inst)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating schedule rows in transaction", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &l, nil
}

func (r *LoanRepository) UpdateInstallmentInTx(ctx context.Context, tx pgx.Tx, p *loan.Installment) error {
	sql := `
        UPDATE installments
        SET paid = $1, overdue = $2, payment_date = $3, updated_at = NOW()
        WHERE id = $4 AND loan_id = $5`

	cmdTag, err := tx.Exec(ctx, sql, p.Paid, p.Overdue, p.PaymentDate, p.ID, p.LoanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update installment", "installment_id", p.ID, "loan_id", p.LoanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Installment update affected zero rows", "installment_id", p.ID, "loan_id", p.LoanID)
		return fmt.Errorf("%w: installment update affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *LoanRepository) UpdateLoanDerivedInTx(ctx context.Context, tx pgx.Tx, loanID int64, paidInstallments int, status loan.Status) error {
	sql := `UPDATE loans SET paid_installments = $1, status = $2, updated_at = NOW() WHERE id = $3`
	cmdTag, err := tx.Exec(ctx, sql, paidInstallments, status, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan derived fields", "loan_id", loanID, "status", status, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Loan derived update affected zero rows", "loan_id", loanID, "status", status)
		return fmt.Errorf("%w: loan update affected zero rows", apperrors.ErrDatabase)
	}
	r.logger.InfoContext(ctx, "Loan derived fields updated in DB", "loan_id", loanID, "new_status", status)
	return nil
}

func (r *LoanRepository) UpdateOverdueFlagsInTx(ctx context.Context, tx pgx.Tx, loanID int64, asOf time.Time) (int64, error) {
	sql := `
        UPDATE installments
        SET overdue = true, updated_at = NOW()
        WHERE loan_id = $1 AND paid = false AND overdue = false AND due_date < $2`

	cmdTag, err := tx.Exec(ctx, sql, loanID, asOf)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update overdue flags", "loan_id", loanID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *LoanRepository) GetOpenLoanIDs(ctx context.Context) ([]int64, error) {
	logCtx := r.logger.With(slog.String("operation", "GetOpenLoanIDs"))
	logCtx.DebugContext(ctx, "Attempting to get all open loan IDs")

	query := `SELECT id FROM loans WHERE status != 'PAID' ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query open loan IDs", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan loan ID", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating loan ID rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished getting open loan IDs", "count", len(ids))
	return ids, nil
}

func (r *LoanRepository) CountByProposal(ctx context.Context, proposalID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM loans WHERE proposal_id = $1`
	err := r.db.QueryRow(ctx, query, proposalID).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count loans by proposal", "proposal_id", proposalID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {

		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s: %w", apperrors.ErrDatabase, pgErr.Code, err)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
