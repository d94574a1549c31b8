package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"loan-marketplace/internal/api/handler/dto"
	mw "loan-marketplace/internal/api/middleware"
	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/domain/notification"
	"loan-marketplace/internal/pkg/apperrors"
)

type NotificationHandler struct {
	notifications notification.Service
	logger        *slog.Logger
}

func NewNotificationHandler(notifications notification.Service, l *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        l.With("component", "NotificationHandler"),
	}
}

func recipientFromIdentity(identity mw.Identity) (notification.RecipientType, error) {
	switch identity.Role {
	case account.RoleCreditor:
		return notification.RecipientCreditor, nil
	case account.RoleDebtor:
		return notification.RecipientDebtor, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", apperrors.ErrForbidden, identity.Role)
	}
}

// ListNotifications lists the caller's notifications, newest first.
//
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only list unread notifications"
// @Success 200 {array} dto.NotificationResponse "Notifications successfully retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rt, err := recipientFromIdentity(identity)
	if err != nil {
		respondError(w, err)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, err := h.notifications.List(r.Context(), rt, identity.AccountID, unreadOnly)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewNotificationListResponse(list))
}

// GetUnreadCount returns the caller's unread notification count.
//
// @Summary Count unread notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} dto.UnreadCountResponse "Count successfully retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /notifications/unread [get]
// @Security BearerAuth
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rt, err := recipientFromIdentity(identity)
	if err != nil {
		respondError(w, err)
		return
	}

	count, err := h.notifications.UnreadCount(r.Context(), rt, identity.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.UnreadCountResponse{Unread: count})
}

// MarkNotificationRead marks one of the caller's notifications as read.
//
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Param notificationID path int true "Notification ID"
// @Success 204 "Notification successfully marked as read"
// @Failure 403 {object} dto.ErrorResponse "Notification belongs to another account"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{notificationID}/read [post]
// @Security BearerAuth
func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rt, err := recipientFromIdentity(identity)
	if err != nil {
		respondError(w, err)
		return
	}
	notificationID, err := idFromURL(r, "notificationID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	n, err := h.notifications.Get(r.Context(), notificationID)
	if err != nil {
		respondError(w, err)
		return
	}
	if n.RecipientType != rt || n.RecipientID != identity.AccountID {
		respondError(w, fmt.Errorf("%w: notification belongs to another account", apperrors.ErrForbidden))
		return
	}

	if err := h.notifications.MarkRead(r.Context(), notificationID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllNotificationsRead marks every unread notification of the caller
// as read.
//
// @Summary Mark all notifications as read
// @Tags Notifications
// @Produce json
// @Success 200 {object} dto.AffectedResponse "Number of notifications marked as read"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /notifications/read [post]
// @Security BearerAuth
func (h *NotificationHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rt, err := recipientFromIdentity(identity)
	if err != nil {
		respondError(w, err)
		return
	}

	affected, err := h.notifications.MarkAllRead(r.Context(), rt, identity.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.AffectedResponse{Affected: affected})
}

// DeleteReadNotifications deletes the caller's read notifications.
//
// @Summary Delete read notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} dto.AffectedResponse "Number of notifications deleted"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /notifications/read [delete]
// @Security BearerAuth
func (h *NotificationHandler) DeleteReadNotifications(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rt, err := recipientFromIdentity(identity)
	if err != nil {
		respondError(w, err)
		return
	}

	deleted, err := h.notifications.DeleteRead(r.Context(), rt, identity.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.AffectedResponse{Affected: deleted})
}
