package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/autosphere/autosphere-api/internal/events"
	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services    *service.Services
	broadcaster *events.ArticleBroadcaster
	log         zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, broadcaster *events.ArticleBroadcaster, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services:    services,
		broadcaster: broadcaster,
		log:         log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /v1/articles?page=&limit=&category=
func (h *ArticleHandler) List(c *gin.Context) {
	// Bad numbers fall back to defaults rather than erroring
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	category := c.Query("category")

	result, err := h.services.Article.List(c.Request.Context(), page, limit, category)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Article published successfully",
		"article": article,
	})
}

// Events handles GET /v1/articles/events?category=
// Streams newly created articles as server-sent events. There is no replay:
// a dropped connection misses events until the client refreshes.
func (h *ArticleHandler) Events(c *gin.Context) {
	filter := models.Category(c.Query("category"))
	if !models.ValidCategories[filter] {
		filter = ""
	}

	ch, cancel := h.broadcaster.Subscribe(filter)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case article, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(article)
			if err != nil {
				continue
			}
			io.WriteString(c.Writer, "event: insert\ndata: ")
			c.Writer.Write(data)
			io.WriteString(c.Writer, "\n\n")
			c.Writer.Flush()
		}
	}
}
