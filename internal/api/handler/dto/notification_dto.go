package dto

import (
	"strconv"
	"time"

	"loan-marketplace/internal/domain/notification"
)

type NotificationResponse struct {
	ID            string     `json:"id"`
	Kind          string     `json:"kind"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"readAt,omitempty"`
	ReferenceID   string     `json:"referenceId,omitempty"`
	ReferenceType string     `json:"referenceType,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            strconv.FormatInt(n.ID, 10),
		Kind:          string(n.Kind),
		Title:         n.Title,
		Message:       n.Message,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		ReferenceID:   n.ReferenceID,
		ReferenceType: string(n.ReferenceType),
		CreatedAt:     n.CreatedAt,
	}
}

func NewNotificationListResponse(notifications []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		out[i] = NewNotificationResponse(&notifications[i])
	}
	return out
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type AffectedResponse struct {
	Affected int64 `json:"affected"`
}
