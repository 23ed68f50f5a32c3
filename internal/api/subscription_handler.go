package api

import (
	"net/http"

	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SubscriptionHandler handles subscription endpoints
type SubscriptionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(services *service.Services, log zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		services: services,
		log:      log.With().Str("handler", "subscription").Logger(),
	}
}

// Subscribe handles POST /v1/subscriptions/subscribe
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email address is required"})
		return
	}

	result, err := h.services.Subscription.Subscribe(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	switch result.Outcome {
	case models.SubscribeAlreadyActive:
		c.JSON(http.StatusOK, gin.H{
			"message":           "You're already subscribed to our newsletter!",
			"alreadySubscribed": true,
		})
	case models.SubscribeReactivated:
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Welcome back! Your subscription has been reactivated.",
			"reactivated": true,
		})
	default:
		sub := result.Subscription
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Successfully subscribed! Welcome to AutoSphere.",
			"subscription": gin.H{
				"id":            sub.ID,
				"email":         sub.Email,
				"subscribed_at": sub.SubscribedAt,
			},
		})
	}
}

// Unsubscribe handles POST /v1/subscriptions/unsubscribe
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsubscribe token is required"})
		return
	}

	if err := h.services.Subscription.Unsubscribe(c.Request.Context(), req.Token); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully unsubscribed. We're sorry to see you go!",
	})
}

// Stats handles GET /v1/subscriptions/stats
func (h *SubscriptionHandler) Stats(c *gin.Context) {
	stats, err := h.services.Subscription.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
