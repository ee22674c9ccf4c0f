package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mainevents/server/internal/domain/dto"
	"github.com/mainevents/server/internal/domain/entity"
)

func (c *Controller) ListNotifications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	limit, offset := pagination(r)
	notifications, err := c.notificationService.GetByUserID(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	views := make([]dto.Notification, 0, len(notifications))
	for _, notification := range notifications {
		views = append(views, dto.NewNotificationFromEntity(notification))
	}
	respondJSON(w, http.StatusOK, views)
}

func (c *Controller) UnreadCount(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	count, err := c.notificationService.CountUnread(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// CreateNotification is an admin endpoint; regular users may only send
// notifications to themselves (used by clients for reminders).
func (c *Controller) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateNotification
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if claims.Role != string(entity.RoleAdmin) && body.UserID != claims.UserID {
		respondError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	notification, err := c.notificationService.Create(r.Context(), body)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewNotificationFromEntity(*notification))
}

func (c *Controller) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	notification, err := c.notificationService.MarkRead(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewNotificationFromEntity(*notification))
}

func (c *Controller) ArchiveNotification(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	notification, err := c.notificationService.Archive(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewNotificationFromEntity(*notification))
}

func (c *Controller) CleanupNotifications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims.Role != string(entity.RoleAdmin) {
		respondError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	var body dto.CleanupNotifications
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if err := c.validate.Struct(&body); err != nil {
		respondServiceError(w, c.logger, err)
		return
	}

	deleted, err := c.notificationService.CleanupArchived(r.Context(), body.OlderThanDays)
	if err != nil {
		respondServiceError(w, c.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
