package repository

import (
	"context"
	"time"

	"github.com/autosphere/autosphere-api/internal/database"
	"github.com/autosphere/autosphere-api/internal/models"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	// List returns one page ordered by created_at descending. An empty
	// category applies no filter.
	List(ctx context.Context, offset, limit int, category models.Category) ([]*models.Article, error)
	Count(ctx context.Context, category models.Category) (int, error)
	Create(ctx context.Context, article *models.Article) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	// Upsert atomically creates, reactivates or leaves untouched the
	// subscription for the given (already lowercased) email.
	Upsert(ctx context.Context, email, source string, preferences map[string]string, token string) (*models.Subscription, models.SubscribeOutcome, error)
	// DeactivateByToken flips the active subscription holding the token to
	// inactive. Returns false when no active row matches.
	DeactivateByToken(ctx context.Context, token string) (bool, error)
	Stats(ctx context.Context) (*models.SubscriptionStats, error)
	ListSubscribers(ctx context.Context, offset, limit int) ([]*models.Subscriber, error)
	StreamAll(ctx context.Context, callback func(*models.SubscriberExportRow) error) error
}

// AdminUserRepository defines the interface for admin user lookups
type AdminUserRepository interface {
	// GetByUsername returns nil without error when no such admin exists.
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
}

// PageViewRepository defines the interface for page view tracking
type PageViewRepository interface {
	Insert(ctx context.Context, view *models.PageView) error
	CountSince(ctx context.Context, since time.Time) (int, error)
	TopArticles(ctx context.Context, since time.Time, limit int) ([]*models.PopularArticle, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article      ArticleRepository
	Subscription SubscriptionRepository
	AdminUser    AdminUserRepository
	PageView     PageViewRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:      NewArticleRepo(db),
		Subscription: NewSubscriptionRepo(db),
		AdminUser:    NewAdminUserRepo(db),
		PageView:     NewPageViewRepo(db),
	}
}
