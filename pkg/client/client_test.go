package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/pkg/client"
	"github.com/autosphere/autosphere-api/pkg/settings"
	"github.com/rs/zerolog"
)

func TestFormatPublishTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := map[time.Duration]string{
		5 * time.Minute:      "Just now",
		59 * time.Minute:     "Just now",
		time.Hour:            "1 hour ago",
		90 * time.Minute:     "1 hour ago",
		5 * time.Hour:        "5 hours ago",
		23 * time.Hour:       "23 hours ago",
		24 * time.Hour:       "1 day ago",
		47 * time.Hour:       "1 day ago",
		3 * 24 * time.Hour:   "3 days ago",
		400 * 24 * time.Hour: "400 days ago",
	}
	for age, want := range cases {
		if got := client.FormatPublishTime(now.Add(-age), now); got != want {
			t.Errorf("FormatPublishTime(now-%v) = %q, want %q", age, got, want)
		}
	}
}

func TestArticleFeed_Refresh(t *testing.T) {
	created := time.Now().Add(-2 * time.Hour)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/articles" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "Finance & Accounting" {
			t.Errorf("Category must survive percent-encoding, got %q", got)
		}
		json.NewEncoder(w).Encode(models.ArticlePage{
			Articles: []*models.Article{
				{ID: 1, Title: "With image", Category: models.CategoryFinance, ImageURL: "https://example.com/x.jpg", CreatedAt: created},
				{ID: 2, Title: "Without image", Category: models.CategoryFinance, CreatedAt: created},
			},
			Pagination: models.Pagination{Page: 1, Limit: 9, Total: 2},
		})
	}))
	defer server.Close()

	c := client.New(server.URL, zerolog.Nop())
	feed := c.NewArticleFeed(models.CategoryFinance, 9)

	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if feed.Loading() {
		t.Error("Loading should be false after refresh")
	}
	if feed.Err() != "" {
		t.Errorf("Unexpected error %q", feed.Err())
	}

	articles := feed.Articles()
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if articles[0].Image != "https://example.com/x.jpg" {
		t.Errorf("Explicit image must win, got %s", articles[0].Image)
	}
	if articles[1].Image != models.DefaultImageForCategory(models.CategoryFinance) {
		t.Errorf("Missing image must resolve to the category default, got %s", articles[1].Image)
	}
	if articles[0].PublishTime != "2 hours ago" {
		t.Errorf("Unexpected publish time %q", articles[0].PublishTime)
	}
}

func TestArticleFeed_RefreshError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
	}))
	defer server.Close()

	c := client.New(server.URL, zerolog.Nop())
	feed := c.NewArticleFeed("", 9)

	if err := feed.Refresh(context.Background()); err == nil {
		t.Fatal("Expected an error")
	}
	if feed.Err() != "Internal server error" {
		t.Errorf("Expected the server error message, got %q", feed.Err())
	}
}

func TestArticleFeed_LiveAppend(t *testing.T) {
	refreshed := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/articles/events" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		payload, _ := json.Marshal(&models.Article{ID: 5, Title: "Fresh", Category: models.CategoryAI, CreatedAt: time.Now()})
		w.Write([]byte("event: insert\ndata: "))
		w.Write(payload)
		w.Write([]byte("\n\n"))
		flusher.Flush()
		<-refreshed
	}))
	defer server.Close()
	defer close(refreshed)

	c := client.New(server.URL, zerolog.Nop())
	feed := c.NewArticleFeed("", 9)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed.Start(ctx)
	defer feed.Close()

	deadline := time.After(2 * time.Second)
	for {
		if articles := feed.Articles(); len(articles) == 1 {
			if articles[0].ID != 5 || articles[0].Title != "Fresh" {
				t.Errorf("Unexpected appended article %+v", articles[0])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for the live insert")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSubscriptionClient_MessageSlotGuard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Successfully subscribed! Welcome to AutoSphere.",
		})
	}))
	defer server.Close()

	c := client.New(server.URL, zerolog.Nop())
	subs := c.NewSubscriptionClient()
	ctx := context.Background()

	if err := subs.Subscribe(ctx, &models.SubscribeRequest{Email: "a@b.com"}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if subs.Success() != "Successfully subscribed! Welcome to AutoSphere." {
		t.Errorf("Unexpected success message %q", subs.Success())
	}

	// A pending message blocks the next attempt
	if err := subs.Subscribe(ctx, &models.SubscribeRequest{Email: "b@b.com"}); err != client.ErrPendingMessage {
		t.Errorf("Expected ErrPendingMessage, got %v", err)
	}

	subs.ClearMessages()
	if err := subs.Subscribe(ctx, &models.SubscribeRequest{Email: "b@b.com"}); err != nil {
		t.Errorf("Subscribe after clear failed: %v", err)
	}
}

func TestSubscriptionClient_ErrorSlot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid or expired unsubscribe token"})
	}))
	defer server.Close()

	c := client.New(server.URL, zerolog.Nop())
	subs := c.NewSubscriptionClient()

	if err := subs.Unsubscribe(context.Background(), "bad-token"); err == nil {
		t.Fatal("Expected an error")
	}
	if subs.Error() != "Invalid or expired unsubscribe token" {
		t.Errorf("Unexpected error message %q", subs.Error())
	}
	if subs.Success() != "" {
		t.Error("Success slot must stay empty on failure")
	}
}

func TestAdminClient_LoginPersistsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/admin/login":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"admin":   map[string]interface{}{"id": 1, "username": "admin"},
				"token":   "issued-token",
			})
		case "/v1/admin/stats":
			if r.Header.Get("Authorization") != "Bearer issued-token" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
				return
			}
			json.NewEncoder(w).Encode(models.DashboardStats{TotalSubscribers: 3, PopularArticles: []*models.PopularArticle{}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := settings.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c := client.New(server.URL, zerolog.Nop())
	admin := c.NewAdminClient(store)
	if admin.IsAuthenticated() {
		t.Fatal("Should not be authenticated before login")
	}

	if err := admin.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !admin.IsAuthenticated() {
		t.Fatal("Should be authenticated after login")
	}

	stats, err := admin.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}
	if stats.TotalSubscribers != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	// A fresh client over the same store restores the session
	reloaded, err := settings.Load(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	restored := c.NewAdminClient(reloaded)
	if !restored.IsAuthenticated() {
		t.Error("Persisted session should restore authentication")
	}

	if err := restored.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if restored.IsAuthenticated() {
		t.Error("Should not be authenticated after logout")
	}
}

func TestAdminClient_LoginFailureKeepsState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer server.Close()

	store, err := settings.Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c := client.New(server.URL, zerolog.Nop())
	admin := c.NewAdminClient(store)

	if err := admin.Login(context.Background(), "admin", "wrong"); err == nil {
		t.Fatal("Expected login to fail")
	}
	if admin.IsAuthenticated() {
		t.Error("Failed login must not authenticate")
	}
	if admin.LastError("login") != "Invalid credentials" {
		t.Errorf("Unexpected last error %q", admin.LastError("login"))
	}
	if admin.Loading("login") {
		t.Error("Loading must clear after the attempt")
	}
}
