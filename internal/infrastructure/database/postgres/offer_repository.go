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

const offerColumns = `id, creditor_id, amount, min_installments, max_installments, rate, days_to_first_charge, active, created_at, updated_at`

type OfferRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ origination.OfferRepository = (*OfferRepository)(nil)

func NewOfferRepository(db DBPool, logger *slog.Logger) *OfferRepository {
	if db == nil {
		panic("DBPool cannot be nil for OfferRepository")
	}
	return &OfferRepository{db: db, logger: logger.With("component", "OfferRepository")}
}

func (r *OfferRepository) Create(ctx context.Context, o *origination.Offer) error {
	r.logger.InfoContext(ctx, "Attempting to insert new offer", slog.Int64("creditorID", o.CreditorID))

	query := `
        INSERT INTO offers (creditor_id, amount, min_installments, max_installments, rate, days_to_first_charge, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		o.CreditorID, o.Amount, o.MinInstallments, o.MaxInstallments,
		o.Rate, o.DaysToFirstCharge, o.Active,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert offer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert offer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Offer inserted successfully", slog.Int64("offerID", o.ID))
	return nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id int64) (*origination.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	var o origination.Offer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CreditorID, &o.Amount, &o.MinInstallments, &o.MaxInstallments,
		&o.Rate, &o.DaysToFirstCharge, &o.Active, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Offer not found", "offer_id", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get offer by ID", "offer_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &o, nil
}

func (r *OfferRepository) FindByCreditor(ctx context.Context, creditorID int64, activeOnly bool) ([]origination.Offer, error) {
	baseQuery := `SELECT ` + offerColumns + ` FROM offers WHERE creditor_id = $1`
	args := []any{creditorID}
	query := baseQuery
	if activeOnly {
		query += " AND active = $2"
		args = append(args, true)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query offers", "creditor_id", creditorID, "error", err)
		return nil, fmt.Errorf("%w: failed to query offers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	offers := make([]origination.Offer, 0)
	for rows.Next() {
		var o origination.Offer
		err := rows.Scan(
			&o.ID, &o.CreditorID, &o.Amount, &o.MinInstallments, &o.MaxInstallments,
			&o.Rate, &o.DaysToFirstCharge, &o.Active, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan offer row", "error", err)
			return nil, fmt.Errorf("%w: failed to scan offer row: %w", apperrors.ErrDatabase, err)
		}
		offers = append(offers, o)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating offer rows", "error", err)
		return nil, fmt.Errorf("%w: error iterating offer rows: %w", apperrors.ErrDatabase, err)
	}
	return offers, nil
}

func (r *OfferRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE offers SET active = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update offer active flag", "offer_id", id, "error", err)
		return fmt.Errorf("%w: failed to update offer active flag: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Active flag update affected zero rows, offer likely not found", "offer_id", id)
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Offer active flag updated successfully", "offer_id", id, "active", active)
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM offers WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete offer", "offer_id", id, "error", err)
		return fmt.Errorf("%w: failed to delete offer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, offer likely not found", "offer_id", id)
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Offer deleted successfully", "offer_id", id)
	return nil
}
