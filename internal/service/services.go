package service

import (
	"context"
	"io"

	"github.com/autosphere/autosphere-api/internal/config"
	"github.com/autosphere/autosphere-api/internal/events"
	"github.com/autosphere/autosphere-api/internal/metrics"
	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService defines the interface for article operations
type ArticleService interface {
	List(ctx context.Context, page, limit int, category string) (*models.ArticlePage, error)
	Create(ctx context.Context, req *models.CreateArticleRequest) (*models.CreatedArticle, error)
}

// SubscriptionService defines the interface for subscription operations
type SubscriptionService interface {
	Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.SubscribeResult, error)
	Unsubscribe(ctx context.Context, token string) error
	Stats(ctx context.Context) (*models.SubscriptionStats, error)
}

// AdminService defines the interface for admin operations
type AdminService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error)
	ValidateToken(token string) error
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ListSubscribers(ctx context.Context, page, limit int) ([]*models.Subscriber, error)
	ExportSubscribersCSV(ctx context.Context, w io.Writer) error
}

// TrackingService records page views without surfacing failures
type TrackingService interface {
	// TrackView returns immediately; the insert happens in a detached
	// goroutine and failures only move a counter.
	TrackView(req *models.TrackViewRequest)
}

// Services holds all service interfaces
type Services struct {
	Article      ArticleService
	Subscription SubscriptionService
	Admin        AdminService
	Tracking     TrackingService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, broadcaster *events.ArticleBroadcaster, collector *metrics.Collector, log zerolog.Logger) *Services {
	return &Services{
		Article:      newArticleService(repos.Article, broadcaster, log),
		Subscription: newSubscriptionService(repos.Subscription, log),
		Admin:        newAdminService(repos, &cfg.Auth, log),
		Tracking:     newTrackingService(repos.PageView, collector, log),
	}
}
