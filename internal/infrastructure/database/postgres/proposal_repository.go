package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-marketplace/internal/domain/origination"
	"loan-marketplace/internal/infrastructure/monitoring"
	"loan-marketplace/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const proposalColumns = `id, public_id, offer_id, creditor_id, creditor_name, amount, min_installments,
        max_installments, days_to_first_charge, rate, status, created_at, updated_at`

type ProposalRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ origination.ProposalRepository = (*ProposalRepository)(nil)

func NewProposalRepository(db DBPool, logger *slog.Logger) *ProposalRepository {
	if db == nil {
		panic("DBPool cannot be nil for ProposalRepository")
	}
	return &ProposalRepository{db: db, logger: logger.With("component", "ProposalRepository")}
}

func (r *ProposalRepository) Create(ctx context.Context, p *origination.Proposal) error {
	r.logger.InfoContext(ctx, "Attempting to insert new proposal", slog.String("publicID", p.PublicID))

	query := `
        INSERT INTO proposals (public_id, offer_id, creditor_id, creditor_name, amount, min_installments,
            max_installments, days_to_first_charge, rate, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.PublicID, p.OfferID, p.CreditorID, p.CreditorName, p.Amount, p.MinInstallments,
		p.MaxInstallments, p.DaysToFirstCharge, p.Rate, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrConflict) {
			// The UNIQUE constraint on public_id is the backstop behind
			// the generator's uniqueness probe.
			r.logger.WarnContext(ctx, "Failed to insert proposal due to public id collision", slog.String("publicID", p.PublicID))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert proposal", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert proposal: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Proposal inserted successfully", slog.Int64("proposalID", p.ID))
	return nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id int64) (*origination.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *ProposalRepository) FindByPublicID(ctx context.Context, publicID string) (*origination.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE public_id = $1`
	return r.queryOne(ctx, query, publicID)
}

func (r *ProposalRepository) queryOne(ctx context.Context, query string, arg any) (*origination.Proposal, error) {
	var p origination.Proposal
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.PublicID, &p.OfferID, &p.CreditorID, &p.CreditorName, &p.Amount, &p.MinInstallments,
		&p.MaxInstallments, &p.DaysToFirstCharge, &p.Rate, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Proposal not found")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get proposal", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &p, nil
}

func (r *ProposalRepository) FindActive(ctx context.Context) ([]origination.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE status = 'ACTIVE' ORDER BY created_at DESC`
	status := "success"
	startTime := time.Now()

	proposals, err := r.queryMany(ctx, query)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("FindActiveProposals", status, time.Since(startTime))
	return proposals, err
}

func (r *ProposalRepository) FindByCreditor(ctx context.Context, creditorID int64) ([]origination.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE creditor_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, creditorID)
}

func (r *ProposalRepository) queryMany(ctx context.Context, query string, args ...any) ([]origination.Proposal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query proposals", "error", err)
		return nil, fmt.Errorf("%w: failed to query proposals: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	proposals := make([]origination.Proposal, 0)
	for rows.Next() {
		var p origination.Proposal
		err := rows.Scan(
			&p.ID, &p.PublicID, &p.OfferID, &p.CreditorID, &p.CreditorName, &p.Amount, &p.MinInstallments,
			&p.MaxInstallments, &p.DaysToFirstCharge, &p.Rate, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan proposal row", "error", err)
			return nil, fmt.Errorf("%w: failed to scan proposal row: %w", apperrors.ErrDatabase, err)
		}
		proposals = append(proposals, p)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating proposal rows", "error", err)
		return nil, fmt.Errorf("%w: error iterating proposal rows: %w", apperrors.ErrDatabase, err)
	}
	return proposals, nil
}

func (r *ProposalRepository) ExistsPublicID(ctx context.Context, publicID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM proposals WHERE public_id = $1)`
	err := r.db.QueryRow(ctx, query, publicID).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check public id existence", "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *ProposalRepository) CountByOffer(ctx context.Context, offerID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM proposals WHERE offer_id = $1`
	err := r.db.QueryRow(ctx, query, offerID).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count proposals by offer", "offer_id", offerID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *ProposalRepository) UpdateStatus(ctx context.Context, id int64, status origination.ProposalStatus) error {
	query := `UPDATE proposals SET status = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update proposal status", "proposal_id", id, "status", status, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Status update affected zero rows, proposal likely not found", "proposal_id", id)
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Proposal status updated", "proposal_id", id, "new_status", status)
	return nil
}

func (r *ProposalRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id int64, status origination.ProposalStatus) error {
	sql := `UPDATE proposals SET status = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := tx.Exec(ctx, sql, status, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update proposal status in transaction", "proposal_id", id, "status", status, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Proposal status update affected zero rows", "proposal_id", id, "status", status)
		return fmt.Errorf("%w: proposal status update affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}
