package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/service"
)

// AdminHandler serves analytics and the audit trail
type AdminHandler struct {
	handlerBase
	stats    service.StatsService
	activity service.ActivityService
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		handlerBase: handlerBase{cfg: cfg, log: log.With().Str("handler", "admin").Logger()},
		stats:       services.Stats,
		activity:    services.Activity,
	}
}

// StatsOverview handles GET /v1/admin/stats
func (h *AdminHandler) StatsOverview(c *gin.Context) {
	overview, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, overview)
}

// CommentsPerDay handles GET /v1/admin/stats/comments-per-day?days=
func (h *AdminHandler) CommentsPerDay(c *gin.Context) {
	counts, err := h.stats.CommentsPerDay(c.Request.Context(), intQuery(c, "days", 0))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"days": counts})
}

// TopCommentedArticles handles GET /v1/admin/stats/top-articles?limit=
func (h *AdminHandler) TopCommentedArticles(c *gin.Context) {
	articles, err := h.stats.TopCommentedArticles(c.Request.Context(), currentLocale(c), intQuery(c, "limit", 0))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"articles": articles})
}

// RecentActivity handles GET /v1/admin/activity?limit=&offset=
func (h *AdminHandler) RecentActivity(c *gin.Context) {
	logs, err := h.activity.Recent(c.Request.Context(), intQuery(c, "limit", 50), intQuery(c, "offset", 0))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"activity": logs})
}

// UserActivity handles GET /v1/admin/users/:id/activity
func (h *AdminHandler) UserActivity(c *gin.Context) {
	logs, err := h.activity.ByUser(c.Request.Context(), c.Param("id"), intQuery(c, "limit", 50), intQuery(c, "offset", 0))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"activity": logs})
}
