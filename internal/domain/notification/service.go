package notification

import (
	"context"
	"fmt"
	"log/slog"

	"loan-marketplace/internal/pkg/apperrors"
)

type Service interface {
	Sink

	Get(ctx context.Context, id int64) (*Notification, error)

	List(ctx context.Context, rt RecipientType, recipientID int64, unreadOnly bool) ([]Notification, error)

	UnreadCount(ctx context.Context, rt RecipientType, recipientID int64) (int64, error)

	MarkRead(ctx context.Context, id int64) error

	MarkAllRead(ctx context.Context, rt RecipientType, recipientID int64) (int64, error)

	DeleteRead(ctx context.Context, rt RecipientType, recipientID int64) (int64, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	if repo == nil {
		panic("notification repository cannot be nil")
	}
	return &service{repo: repo, logger: logger.With(slog.String("component", "notificationService"))}
}

// Notify persists the record. Errors bubble up so the sink wrapper used
// by the engines can decide to log-and-continue.
func (s *service) Notify(ctx context.Context, n Notification) error {
	if n.RecipientID <= 0 {
		return fmt.Errorf("%w: notification recipient is required", apperrors.ErrInvalidArgument)
	}
	if n.RecipientType != RecipientCreditor && n.RecipientType != RecipientDebtor {
		return fmt.Errorf("%w: unknown recipient type %q", apperrors.ErrInvalidArgument, n.RecipientType)
	}
	return s.repo.Create(ctx, &n)
}

func (s *service) Get(ctx context.Context, id int64) (*Notification, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, rt RecipientType, recipientID int64, unreadOnly bool) ([]Notification, error) {
	return s.repo.FindByRecipient(ctx, rt, recipientID, unreadOnly)
}

func (s *service) UnreadCount(ctx context.Context, rt RecipientType, recipientID int64) (int64, error) {
	return s.repo.CountUnread(ctx, rt, recipientID)
}

func (s *service) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context, rt RecipientType, recipientID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, rt, recipientID)
}

func (s *service) DeleteRead(ctx context.Context, rt RecipientType, recipientID int64) (int64, error) {
	return s.repo.DeleteRead(ctx, rt, recipientID)
}

// BestEffort wraps a sink so delivery failures are logged and swallowed.
// The engines use this to keep notification problems out of the money
// path.
func BestEffort(sink Sink, logger *slog.Logger) Sink {
	return bestEffortSink{sink: sink, logger: logger}
}

type bestEffortSink struct {
	sink   Sink
	logger *slog.Logger
}

func (b bestEffortSink) Notify(ctx context.Context, n Notification) error {
	if err := b.sink.Notify(ctx, n); err != nil {
		b.logger.WarnContext(ctx, "Notification delivery failed, continuing",
			slog.String("kind", string(n.Kind)),
			slog.Int64("recipientID", n.RecipientID),
			slog.Any("error", err))
	}
	return nil
}
