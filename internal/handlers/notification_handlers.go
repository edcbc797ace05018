package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-admin/internal/store"
)

//
// --- Notification Handlers ---
//

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// GetNotifications is the handler for GET /api/notifications
// Unread first, then newest.
func (h *Handlers) GetNotifications(c *gin.Context) {
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxNotificationLimit {
			respondError(c, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	notifications, err := h.Notifications.List(c.Request.Context(), limit)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to list notifications")
		respondError(c, http.StatusInternalServerError, "Database query failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
	})
}

// MarkNotificationAsRead is the handler for PATCH /api/notifications/:id/read
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Notification not found")
			return
		}
		h.Logger.Error().Err(err).Int64("id", id).Msg("failed to mark notification as read")
		respondError(c, http.StatusInternalServerError, "Failed to update notification")
		return
	}

	respondMutation(c, http.StatusOK, "Notification marked as read", "", nil)
}
