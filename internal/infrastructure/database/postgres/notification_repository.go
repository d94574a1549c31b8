package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"loan-marketplace/internal/domain/notification"
	"loan-marketplace/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const notificationColumns = `id, recipient_type, recipient_id, kind, title, message, read, read_at, reference_id, reference_type, created_at`

type NotificationRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ notification.Repository = (*NotificationRepository)(nil)

func NewNotificationRepository(db DBPool, logger *slog.Logger) *NotificationRepository {
	if db == nil {
		panic("DBPool cannot be nil for NotificationRepository")
	}
	return &NotificationRepository{db: db, logger: logger.With("component", "NotificationRepository")}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
        INSERT INTO notifications (recipient_type, recipient_id, kind, title, message, read, reference_id, reference_type, created_at)
        VALUES ($1, $2, $3, $4, $5, false, $6, $7, NOW())
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		n.RecipientType, n.RecipientID, n.Kind, n.Title, n.Message,
		n.ReferenceID, n.ReferenceType,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert notification", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert notification: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id int64) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var n notification.Notification
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.RecipientType, &n.RecipientID, &n.Kind, &n.Title, &n.Message,
		&n.Read, &n.ReadAt, &n.ReferenceID, &n.ReferenceType, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get notification by ID", "notification_id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &n, nil
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, rt notification.RecipientType, recipientID int64, unreadOnly bool) ([]notification.Notification, error) {
	baseQuery := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_type = $1 AND recipient_id = $2`
	args := []any{rt, recipientID}
	query := baseQuery
	if unreadOnly {
		query += " AND read = false"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query notifications", "recipient_id", recipientID, "error", err)
		return nil, fmt.Errorf("%w: failed to query notifications: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	notifications := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		err := rows.Scan(
			&n.ID, &n.RecipientType, &n.RecipientID, &n.Kind, &n.Title, &n.Message,
			&n.Read, &n.ReadAt, &n.ReferenceID, &n.ReferenceType, &n.CreatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan notification row", "error", err)
			return nil, fmt.Errorf("%w: failed to scan notification row: %w", apperrors.ErrDatabase, err)
		}
		notifications = append(notifications, n)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating notification rows", "error", err)
		return nil, fmt.Errorf("%w: error iterating notification rows: %w", apperrors.ErrDatabase, err)
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, rt notification.RecipientType, recipientID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_type = $1 AND recipient_id = $2 AND read = false`
	err := r.db.QueryRow(ctx, query, rt, recipientID).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count unread notifications", "recipient_id", recipientID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET read = true, read_at = NOW() WHERE id = $1 AND read = false`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark notification read", "notification_id", id, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either missing or already read; the distinction does not
		// matter to callers.
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, rt notification.RecipientType, recipientID int64) (int64, error) {
	query := `UPDATE notifications SET read = true, read_at = NOW() WHERE recipient_type = $1 AND recipient_id = $2 AND read = false`

	cmdTag, err := r.db.Exec(ctx, query, rt, recipientID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark all notifications read", "recipient_id", recipientID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *NotificationRepository) DeleteRead(ctx context.Context, rt notification.RecipientType, recipientID int64) (int64, error) {
	query := `DELETE FROM notifications WHERE recipient_type = $1 AND recipient_id = $2 AND read = true`

	cmdTag, err := r.db.Exec(ctx, query, rt, recipientID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete read notifications", "recipient_id", recipientID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return cmdTag.RowsAffected(), nil
}
