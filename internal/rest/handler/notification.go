package handler

import (
	"context"
	"net/http"

	"github.com/socialfolio/folio/internal/database/service"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/rest/convert"
	"github.com/socialfolio/folio/internal/rest/respond"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Inbox returns recently published notifications of a user.
type Inbox interface {
	Inbox(ctx context.Context, userID int64, limit int) ([]*types.Notification, error)
}

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	social *service.SocialService
	inbox  Inbox
	logger *zap.Logger
}

// NewNotificationHandler creates a new notification handler. inbox may be nil
// when Redis delivery is disabled.
func NewNotificationHandler(social *service.SocialService, inbox Inbox, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		social: social,
		inbox:  inbox,
		logger: logger.Named("notification_handler"),
	}
}

// List returns the caller's stored notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	me, err := callerID(req.Context())
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	limit, err := queryLimit(req, "limit", defaultNotificationLimit, maxNotificationLimit)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	notifications, err := h.social.ListNotifications(req.Context(), me, limit)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Notifications(notifications))
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, req bunrouter.Request) error {
	me, err := callerID(req.Context())
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	notificationID, err := pathID(req, "id")
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	if err := h.social.MarkNotificationRead(req.Context(), me, notificationID); err != nil {
		return respond.Error(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Inbox returns the caller's recently published notifications.
func (h *NotificationHandler) Inbox(w http.ResponseWriter, req bunrouter.Request) error {
	me, err := callerID(req.Context())
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	limit, err := queryLimit(req, "limit", defaultNotificationLimit, maxNotificationLimit)
	if err != nil {
		return respond.Error(w, h.logger, err)
	}

	var notifications []*types.Notification
	if h.inbox != nil {
		notifications, err = h.inbox.Inbox(req.Context(), me, limit)
		if err != nil {
			return respond.Error(w, h.logger, err)
		}
	}

	return bunrouter.JSON(w, convert.Notifications(notifications))
}
