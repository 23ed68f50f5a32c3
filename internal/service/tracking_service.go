package service

import (
	"context"
	"time"

	"github.com/autosphere/autosphere-api/internal/metrics"
	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/repository"
	"github.com/rs/zerolog"
)

const trackTimeout = 5 * time.Second

// trackingService records page views best-effort. Callers never learn
// whether the insert succeeded; failures only move a counter.
type trackingService struct {
	repo      repository.PageViewRepository
	collector *metrics.Collector
	log       zerolog.Logger
}

// newTrackingService creates a new TrackingService
func newTrackingService(repo repository.PageViewRepository, collector *metrics.Collector, log zerolog.Logger) *trackingService {
	return &trackingService{
		repo:      repo,
		collector: collector,
		log:       log.With().Str("service", "tracking").Logger(),
	}
}

// TrackView inserts the page view in a detached goroutine. The request
// context is deliberately not used so a closed connection cannot cancel
// the write.
func (s *trackingService) TrackView(req *models.TrackViewRequest) {
	view := &models.PageView{
		ArticleID: req.ArticleID,
		UserAgent: req.UserAgent,
		IPAddress: req.IPAddress,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		if err := s.repo.Insert(ctx, view); err != nil {
			s.collector.RecordTrackFailure()
			s.log.Warn().Err(err).Int64("article_id", view.ArticleID).Msg("Page view insert failed")
			return
		}
		s.collector.RecordViewTracked()
	}()
}
