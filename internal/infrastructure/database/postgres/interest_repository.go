package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"loan-marketplace/internal/domain/origination"
	"loan-marketplace/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const interestColumns = `id, proposal_id, debtor_id, message, status, creditor_confirmed, debtor_confirmed,
        creditor_confirmed_at, debtor_confirmed_at, created_at, updated_at`

type InterestRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ origination.InterestRepository = (*InterestRepository)(nil)

func NewInterestRepository(db DBPool, logger *slog.Logger) *InterestRepository {
	if db == nil {
		panic("DBPool cannot be nil for InterestRepository")
	}
	return &InterestRepository{db: db, logger: logger.With("component", "InterestRepository")}
}

func (r *InterestRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *InterestRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *InterestRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *InterestRepository) Create(ctx context.Context, i *origination.Interest) error {
	r.logger.InfoContext(ctx, "Attempting to insert new interest",
		slog.Int64("proposalID", i.ProposalID), slog.Int64("debtorID", i.DebtorID))

	query := `
        INSERT INTO interests (proposal_id, debtor_id, message, status, creditor_confirmed, debtor_confirmed, created_at, updated_at)
        VALUES ($1, $2, $3, $4, false, false, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		i.ProposalID, i.DebtorID, i.Message, i.Status,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrConflict) {
			// UNIQUE (proposal_id, debtor_id) backs the one-interest-per-
			// debtor rule against races.
			r.logger.WarnContext(ctx, "Failed to insert interest, debtor already interested",
				slog.Int64("proposalID", i.ProposalID), slog.Int64("debtorID", i.DebtorID))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert interest", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert interest: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Interest inserted successfully", slog.Int64("interestID", i.ID))
	return nil
}

func (r *InterestRepository) FindByID(ctx context.Context, id int64) (*origination.Interest, error) {
	query := `SELECT ` + interestColumns + ` FROM interests WHERE id = $1`

	var i origination.Interest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.ProposalID, &i.DebtorID, &i.Message, &i.Status,
		&i.CreditorConfirmed, &i.DebtorConfirmed,
		&i.CreditorConfirmedAt, &i.DebtorConfirmedAt,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Interest not found", "interest_id", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get interest by ID", "interest_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &i, nil
}

func (r *InterestRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*origination.Interest, error) {
	query := `SELECT ` + interestColumns + ` FROM interests WHERE id = $1 FOR UPDATE`

	var i origination.Interest
	err := tx.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.ProposalID, &i.DebtorID, &i.Message, &i.Status,
		&i.CreditorConfirmed, &i.DebtorConfirmed,
		&i.CreditorConfirmedAt, &i.DebtorConfirmedAt,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.InfoContext(ctx, "Interest not found for update", "interest_id", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find/lock interest", "interest_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &i, nil
}

func (r *InterestRepository) FindByProposal(ctx context.Context, proposalID int64) ([]origination.Interest, error) {
	query := `SELECT ` + interestColumns + ` FROM interests WHERE proposal_id = $1 ORDER BY created_at ASC`
	return r.queryMany(ctx, query, proposalID)
}

func (r *InterestRepository) FindByDebtor(ctx context.Context, debtorID int64) ([]origination.Interest, error) {
	query := `SELECT ` + interestColumns + ` FROM interests WHERE debtor_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, debtorID)
}

func (r *InterestRepository) queryMany(ctx context.Context, query string, args ...any) ([]origination.Interest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query interests", "error", err)
		return nil, fmt.Errorf("%w: failed to query interests: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	interests := make([]origination.Interest, 0)
	for rows.Next() {
		var i origination.Interest
		err := rows.Scan(
			&i.ID, &i.ProposalID, &i.DebtorID, &i.Message, &i.Status,
			&i.CreditorConfirmed, &i.DebtorConfirmed,
			&i.CreditorConfirmedAt, &i.DebtorConfirmedAt,
			&i.CreatedAt, &i.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan interest row", "error", err)
			return nil, fmt.Errorf("%w: failed to scan interest row: %w", apperrors.ErrDatabase, err)
		}
		interests = append(interests, i)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating interest rows", "error", err)
		return nil, fmt.Errorf("%w: error iterating interest rows: %w", apperrors.ErrDatabase, err)
	}
	return interests, nil
}

func (r *InterestRepository) ExistsForProposalAndDebtor(ctx context.Context, proposalID, debtorID int64) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM interests
            WHERE proposal_id = $1 AND debtor_id = $2 AND status != 'CANCELLED'
        )`
	err := r.db.QueryRow(ctx, query, proposalID, debtorID).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check interest existence", "proposal_id", proposalID, "debtor_id", debtorID, "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *InterestRepository) CountByProposalAndStatus(ctx context.Context, proposalID int64, status origination.InterestStatus) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM interests WHERE proposal_id = $1 AND status = $2`
	err := r.db.QueryRow(ctx, query, proposalID, status).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count interests", "proposal_id", proposalID, "status", status, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *InterestRepository) UpdateStatus(ctx context.Context, id int64, status origination.InterestStatus) error {
	query := `UPDATE interests SET status = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update interest status", "interest_id", id, "status", status, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Status update affected zero rows, interest likely not found", "interest_id", id)
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Interest status updated", "interest_id", id, "new_status", status)
	return nil
}

func (r *InterestRepository) UpdateConfirmationInTx(ctx context.Context, tx pgx.Tx, i *origination.Interest) error {
	sql := `
        UPDATE interests
        SET creditor_confirmed = $1,
            debtor_confirmed = $2,
            creditor_confirmed_at = $3,
            debtor_confirmed_at = $4,
            updated_at = NOW()
        WHERE id = $5`

	cmdTag, err := tx.Exec(ctx, sql,
		i.CreditorConfirmed, i.DebtorConfirmed,
		i.CreditorConfirmedAt, i.DebtorConfirmedAt, i.ID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update interest confirmation", "interest_id", i.ID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Confirmation update affected zero rows", "interest_id", i.ID)
		return fmt.Errorf("%w: confirmation update affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}
