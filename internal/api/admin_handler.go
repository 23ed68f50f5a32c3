package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles admin endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Login handles POST /v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	result, err := h.services.Admin.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"admin":   result.Admin,
		"token":   result.Token,
	})
}

// Stats handles GET /v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.services.Admin.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Subscribers handles GET /v1/admin/subscribers?page=&limit=
func (h *AdminHandler) Subscribers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	subscribers, err := h.services.Admin.ListSubscribers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}

// Export handles GET /v1/admin/export
func (h *AdminHandler) Export(c *gin.Context) {
	filename := fmt.Sprintf("autosphere-subscribers-%s.csv", time.Now().Format("2006-01-02"))
	c.Writer.Header().Set("Content-Type", "text/csv")
	c.Writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.services.Admin.ExportSubscribersCSV(c.Request.Context(), c.Writer); err != nil {
		h.log.Error().Err(err).Msg("Export failed")
		// Headers may already be written; nothing more to send
		return
	}
}

// TrackView handles POST /v1/admin/track-view
// The response never reflects whether the insert succeeds.
func (h *AdminHandler) TrackView(c *gin.Context) {
	var req models.TrackViewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ArticleID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Article ID is required"})
		return
	}

	h.services.Tracking.TrackView(&req)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
