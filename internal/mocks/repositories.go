package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/autosphere/autosphere-api/internal/models"
)

// MockArticleRepository is an in-memory implementation of ArticleRepository
type MockArticleRepository struct {
	Articles  []*models.Article
	ListErr   error
	CreateErr error
	nextID    int64
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{}
}

func (m *MockArticleRepository) List(ctx context.Context, offset, limit int, category models.Category) ([]*models.Article, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	filtered := m.filtered(category)
	if offset >= len(filtered) {
		return nil, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

func (m *MockArticleRepository) Count(ctx context.Context, category models.Category) (int, error) {
	if m.ListErr != nil {
		return 0, m.ListErr
	}
	return len(m.filtered(category)), nil
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) (*models.Article, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.nextID++
	stored := *article
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.Articles = append(m.Articles, &stored)
	return &stored, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, a := range m.Articles {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// filtered returns articles newest-first, optionally restricted to category
func (m *MockArticleRepository) filtered(category models.Category) []*models.Article {
	var out []*models.Article
	for i := len(m.Articles) - 1; i >= 0; i-- {
		if category != "" && m.Articles[i].Category != category {
			continue
		}
		out = append(out, m.Articles[i])
	}
	return out
}

// MockSubscriptionRepository is an in-memory implementation of SubscriptionRepository
type MockSubscriptionRepository struct {
	Subs      map[string]*models.Subscription // keyed by email
	UpsertErr error
	StatsErr  error
	nextID    int64
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{Subs: make(map[string]*models.Subscription)}
}

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, email, source string, preferences map[string]string, token string) (*models.Subscription, models.SubscribeOutcome, error) {
	if m.UpsertErr != nil {
		return nil, 0, m.UpsertErr
	}
	if preferences == nil {
		preferences = map[string]string{}
	}

	if existing, ok := m.Subs[email]; ok {
		if existing.IsActive {
			copied := *existing
			return &copied, models.SubscribeAlreadyActive, nil
		}
		existing.IsActive = true
		existing.SubscribedAt = time.Now()
		existing.Source = source
		existing.UpdatedAt = time.Now()
		copied := *existing
		return &copied, models.SubscribeReactivated, nil
	}

	m.nextID++
	now := time.Now()
	sub := &models.Subscription{
		ID:               m.nextID,
		Email:            email,
		IsActive:         true,
		Source:           source,
		Preferences:      preferences,
		UnsubscribeToken: token,
		SubscribedAt:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.Subs[email] = sub
	copied := *sub
	return &copied, models.SubscribeCreated, nil
}

func (m *MockSubscriptionRepository) DeactivateByToken(ctx context.Context, token string) (bool, error) {
	for _, sub := range m.Subs {
		if sub.UnsubscribeToken == token && sub.IsActive {
			sub.IsActive = false
			sub.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (m *MockSubscriptionRepository) Stats(ctx context.Context) (*models.SubscriptionStats, error) {
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	stats := &models.SubscriptionStats{Sources: make(map[string]int)}
	for _, sub := range m.Subs {
		stats.Total++
		if sub.IsActive {
			stats.Active++
		}
		stats.Sources[sub.Source]++
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

func (m *MockSubscriptionRepository) ListSubscribers(ctx context.Context, offset, limit int) ([]*models.Subscriber, error) {
	ordered := m.ordered()
	var out []*models.Subscriber
	for i := offset; i < len(ordered) && len(out) < limit; i++ {
		sub := ordered[i]
		out = append(out, &models.Subscriber{
			Email:     sub.Email,
			CreatedAt: sub.CreatedAt,
			IsActive:  sub.IsActive,
			Source:    sub.Source,
		})
	}
	return out, nil
}

func (m *MockSubscriptionRepository) StreamAll(ctx context.Context, callback func(*models.SubscriberExportRow) error) error {
	for _, sub := range m.ordered() {
		row := &models.SubscriberExportRow{
			Email:       sub.Email,
			CreatedAt:   sub.CreatedAt,
			IsActive:    sub.IsActive,
			Source:      sub.Source,
			Preferences: sub.Preferences,
		}
		if err := callback(row); err != nil {
			return err
		}
	}
	return nil
}

// ordered returns subscriptions newest-first by insertion id
func (m *MockSubscriptionRepository) ordered() []*models.Subscription {
	out := make([]*models.Subscription, 0, len(m.Subs))
	for _, sub := range m.Subs {
		out = append(out, sub)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID > out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// MockAdminUserRepository is an in-memory implementation of AdminUserRepository
type MockAdminUserRepository struct {
	Admins map[string]*models.AdminUser
	GetErr error
}

func NewMockAdminUserRepository() *MockAdminUserRepository {
	return &MockAdminUserRepository{Admins: make(map[string]*models.AdminUser)}
}

func (m *MockAdminUserRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	admin, ok := m.Admins[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}
	copied := *admin
	return &copied, nil
}

// MockPageViewRepository is an in-memory implementation of PageViewRepository.
// Insert is called from detached goroutines, so writes are mutex-guarded.
type MockPageViewRepository struct {
	Views     []*models.PageView
	Titles    map[int64]string // article_id -> title for TopArticles joins
	Cats      map[int64]models.Category
	InsertErr error
	Inserted  chan struct{} // signalled after each Insert attempt
	mu        sync.Mutex
	nextID    int64
}

func NewMockPageViewRepository() *MockPageViewRepository {
	return &MockPageViewRepository{
		Titles:   make(map[int64]string),
		Cats:     make(map[int64]models.Category),
		Inserted: make(chan struct{}, 64),
	}
}

func (m *MockPageViewRepository) Insert(ctx context.Context, view *models.PageView) error {
	defer func() {
		select {
		case m.Inserted <- struct{}{}:
		default:
		}
	}()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.nextID++
	stored := *view
	stored.ID = m.nextID
	if stored.ViewedAt.IsZero() {
		stored.ViewedAt = time.Now()
	}
	m.Views = append(m.Views, &stored)
	return nil
}

func (m *MockPageViewRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, v := range m.Views {
		if !v.ViewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockPageViewRepository) TopArticles(ctx context.Context, since time.Time, limit int) ([]*models.PopularArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int64]int)
	for _, v := range m.Views {
		if !v.ViewedAt.Before(since) {
			counts[v.ArticleID]++
		}
	}

	var out []*models.PopularArticle
	for id, views := range counts {
		out = append(out, &models.PopularArticle{
			ID:       id,
			Title:    m.Titles[id],
			Category: m.Cats[id],
			Views:    views,
		})
	}
	// views desc, id asc for stable ties
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Views > out[i].Views || (out[j].Views == out[i].Views && out[j].ID < out[i].ID) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
