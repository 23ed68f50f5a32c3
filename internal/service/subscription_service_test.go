package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autosphere/autosphere-api/internal/config"
	"github.com/autosphere/autosphere-api/internal/events"
	"github.com/autosphere/autosphere-api/internal/metrics"
	"github.com/autosphere/autosphere-api/internal/mocks"
	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/repository"
	"github.com/autosphere/autosphere-api/internal/service"
	"github.com/rs/zerolog"
)

func newTestServices(repos *repository.Repositories) *service.Services {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			LoginRate:  100,
			LoginBurst: 100,
		},
	}
	return service.NewServices(repos, cfg, events.NewArticleBroadcaster(), metrics.NewCollector(), zerolog.Nop())
}

func subscriptionFixture() (*service.Services, *mocks.MockSubscriptionRepository) {
	subRepo := mocks.NewMockSubscriptionRepository()
	repos := &repository.Repositories{
		Article:      mocks.NewMockArticleRepository(),
		Subscription: subRepo,
		AdminUser:    mocks.NewMockAdminUserRepository(),
		PageView:     mocks.NewMockPageViewRepository(),
	}
	return newTestServices(repos), subRepo
}

func TestSubscribe_NewEmail(t *testing.T) {
	services, repo := subscriptionFixture()
	ctx := context.Background()

	result, err := services.Subscription.Subscribe(ctx, &models.SubscribeRequest{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if result.Outcome != models.SubscribeCreated {
		t.Errorf("Expected created outcome, got %v", result.Outcome)
	}
	if result.Subscription.Email != "a@b.com" {
		t.Errorf("Expected email a@b.com, got %s", result.Subscription.Email)
	}
	if result.Subscription.Source != models.DefaultSource {
		t.Errorf("Expected default source, got %s", result.Subscription.Source)
	}
	if repo.Subs["a@b.com"].UnsubscribeToken == "" {
		t.Error("Expected an unsubscribe token to be generated")
	}
}

func TestSubscribe_AlreadyActiveIsNoOp(t *testing.T) {
	services, repo := subscriptionFixture()
	ctx := context.Background()

	if _, err := services.Subscription.Subscribe(ctx, &models.SubscribeRequest{Email: "a@b.com"}); err != nil {
		t.Fatalf("First subscribe failed: %v", err)
	}
	before := repo.Subs["a@b.com"].SubscribedAt

	// Same email with different case must dedupe, not insert
	result, err := services.Subscription.Subscribe(ctx, &models.SubscribeRequest{Email: "A@B.com"})
	if err != nil {
		t.Fatalf("Second subscribe failed: %v", err)
	}
	if result.Outcome != models.SubscribeAlreadyActive {
		t.Errorf("Expected already-active outcome, got %v", result.Outcome)
	}
	if len(repo.Subs) != 1 {
		t.Errorf("Expected 1 row, got %d", len(repo.Subs))
	}
	if !repo.Subs["a@b.com"].SubscribedAt.Equal(before) {
		t.Error("subscribed_at must not change for an active subscription")
	}
}

func TestSubscribe_ReactivatesInactiveRow(t *testing.T) {
	services, repo := subscriptionFixture()
	ctx := context.Background()

	if _, err := services.Subscription.Subscribe(ctx, &models.SubscribeRequest{Email: "a@b.com", Source: "modal"}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	token := repo.Subs["a@b.com"].UnsubscribeToken
	if err := services.Subscription.Unsubscribe(ctx, token); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	before := repo.Subs["a@b.com"].SubscribedAt

	result, err := services.Subscription.Subscribe(ctx, &models.SubscribeRequest{Email: "a@b.com", Source: "sidebar"})
	if err != nil {
		t.Fatalf("Re-subscribe failed: %v", err)
	}
	if result.Outcome != models.SubscribeReactivated {
		t.Errorf("Expected reactivated outcome, got %v", result.Outcome)
	}
	if len(repo.Subs) != 1 {
		t.Errorf("Expected 1 row after reactivation, got %d", len(repo.Subs))
	}
	row := repo.Subs["a@b.com"]
	if !row.IsActive {
		t.Error("Row should be active again")
	}
	if row.Source != "sidebar" {
		t.Errorf("Expected refreshed source sidebar, got %s", row.Source)
	}
	if !row.SubscribedAt.After(before) && !row.SubscribedAt.Equal(before) {
		t.Error("subscribed_at should be refreshed on reactivation")
	}
}

func TestSubscribe_RejectsBadEmail(t *testing.T) {
	services, _ := subscriptionFixture()

	for _, email := range []string{"", "not-an-email", "a@b", "spaces in@mail.com"} {
		_, err := services.Subscription.Subscribe(context.Background(), &models.SubscribeRequest{Email: email})
		var apiErr *models.APIError
		if !errors.As(err, &apiErr) || apiErr.Kind != models.ErrValidation {
			t.Errorf("Expected validation error for %q, got %v", email, err)
		}
	}
}

func TestUnsubscribe_SecondCallIsNotFound(t *testing.T) {
	services, repo := subscriptionFixture()
	ctx := context.Background()

	if _, err := services.Subscription.Subscribe(ctx, &models.SubscribeRequest{Email: "a@b.com"}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	token := repo.Subs["a@b.com"].UnsubscribeToken

	if err := services.Subscription.Unsubscribe(ctx, token); err != nil {
		t.Fatalf("First unsubscribe should succeed: %v", err)
	}

	err := services.Subscription.Unsubscribe(ctx, token)
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != models.ErrNotFound {
		t.Errorf("Expected not-found on repeated unsubscribe, got %v", err)
	}
}

func TestUnsubscribe_EmptyToken(t *testing.T) {
	services, _ := subscriptionFixture()

	err := services.Subscription.Unsubscribe(context.Background(), "")
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != models.ErrValidation {
		t.Errorf("Expected validation error for empty token, got %v", err)
	}
}

func TestStats_SourceBreakdown(t *testing.T) {
	services, repo := subscriptionFixture()
	ctx := context.Background()

	for _, req := range []*models.SubscribeRequest{
		{Email: "a@b.com", Source: "modal"},
		{Email: "b@b.com", Source: "modal"},
		{Email: "c@b.com", Source: "sidebar"},
		{Email: "d@b.com"},
	} {
		if _, err := services.Subscription.Subscribe(ctx, req); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}
	if err := services.Subscription.Unsubscribe(ctx, repo.Subs["d@b.com"].UnsubscribeToken); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	stats, err := services.Subscription.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 4 || stats.Active != 3 || stats.Inactive != 1 {
		t.Errorf("Unexpected totals: %+v", stats)
	}
	if stats.Sources["modal"] != 2 || stats.Sources["sidebar"] != 1 || stats.Sources["website"] != 1 {
		t.Errorf("Unexpected source breakdown: %v", stats.Sources)
	}
}
