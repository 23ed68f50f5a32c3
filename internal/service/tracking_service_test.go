package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/autosphere/autosphere-api/internal/mocks"
	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/repository"
	"github.com/autosphere/autosphere-api/internal/service"
)

func trackingFixture() (*service.Services, *mocks.MockPageViewRepository) {
	views := mocks.NewMockPageViewRepository()
	repos := &repository.Repositories{
		Article:      mocks.NewMockArticleRepository(),
		Subscription: mocks.NewMockSubscriptionRepository(),
		AdminUser:    mocks.NewMockAdminUserRepository(),
		PageView:     views,
	}
	return newTestServices(repos), views
}

func waitInserted(t *testing.T, views *mocks.MockPageViewRepository) {
	t.Helper()
	select {
	case <-views.Inserted:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the page view insert")
	}
}

func TestTrackView_InsertsAsync(t *testing.T) {
	f, views := trackingFixture()

	f.Tracking.TrackView(&models.TrackViewRequest{
		ArticleID: 42,
		UserAgent: "test-agent",
		IPAddress: "10.0.0.1",
	})
	waitInserted(t, views)

	if len(views.Views) != 1 {
		t.Fatalf("Expected 1 stored view, got %d", len(views.Views))
	}
	view := views.Views[0]
	if view.ArticleID != 42 || view.UserAgent != "test-agent" || view.IPAddress != "10.0.0.1" {
		t.Errorf("Unexpected stored view %+v", view)
	}
	if view.ViewedAt.IsZero() {
		t.Error("viewed_at should be stamped")
	}
}

func TestTrackView_FailureIsSwallowed(t *testing.T) {
	f, views := trackingFixture()
	views.InsertErr = errors.New("connection refused")

	f.Tracking.TrackView(&models.TrackViewRequest{ArticleID: 7})
	waitInserted(t, views)

	if len(views.Views) != 0 {
		t.Errorf("Failed insert must not store a row, got %d", len(views.Views))
	}
}

func TestTrackView_ManyConcurrent(t *testing.T) {
	f, views := trackingFixture()

	const n = 20
	for i := 0; i < n; i++ {
		f.Tracking.TrackView(&models.TrackViewRequest{ArticleID: int64(i + 1)})
	}
	for i := 0; i < n; i++ {
		waitInserted(t, views)
	}

	if len(views.Views) != n {
		t.Errorf("Expected %d stored views, got %d", n, len(views.Views))
	}
}
