package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Admin Dashboard Stats ---
//

type DashboardStats struct {
	Users               int64 `json:"users"`
	Brands              int64 `json:"brands"`
	Categories          int64 `json:"categories"`
	Teams               int64 `json:"teams"`
	UnreadNotifications int64 `json:"unreadNotifications"`
}

// GetDashboardStats returns record counts for the dashboard cards
// GET /api/dashboard/stats
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	stats := DashboardStats{}

	counters := []struct {
		name  string
		count func(context.Context) (int64, error)
		dst   *int64
	}{
		{"users", h.Users.Count, &stats.Users},
		{"brands", h.Brands.Count, &stats.Brands},
		{"categories", h.Categories.Count, &stats.Categories},
		{"teams", h.Teams.Count, &stats.Teams},
		{"notifications", h.Notifications.CountUnread, &stats.UnreadNotifications},
	}

	for _, counter := range counters {
		n, err := counter.count(ctx)
		if err != nil {
			h.Logger.Error().Err(err).Str("collection", counter.name).Msg("failed to count records")
			respondError(c, http.StatusInternalServerError, "Failed to count "+counter.name)
			return
		}
		*counter.dst = n
	}

	c.JSON(http.StatusOK, stats)
}
