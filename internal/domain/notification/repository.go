package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error

	FindByID(ctx context.Context, id int64) (*Notification, error)

	FindByRecipient(ctx context.Context, rt RecipientType, recipientID int64, unreadOnly bool) ([]Notification, error)

	CountUnread(ctx context.Context, rt RecipientType, recipientID int64) (int64, error)

	MarkRead(ctx context.Context, id int64) error

	MarkAllRead(ctx context.Context, rt RecipientType, recipientID int64) (int64, error)

	DeleteRead(ctx context.Context, rt RecipientType, recipientID int64) (int64, error)
}
