package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/autosphere/autosphere-api/internal/models"
)

// FeedArticle is an article enriched for display: a resolved image and a
// human-readable publish time.
type FeedArticle struct {
	models.Article
	PublishTime string `json:"publishTime"`
	Image       string `json:"image"`
}

// ArticleFeed maintains one page of articles for a list view, with manual
// refresh and live appends from the server event stream. Live inserts and a
// concurrent refresh carry no ordering guarantee.
type ArticleFeed struct {
	client   *Client
	category models.Category
	limit    int

	mu       sync.Mutex
	articles []FeedArticle
	loading  bool
	err      string
	cancel   context.CancelFunc
}

// NewArticleFeed creates a feed, optionally filtered to one category.
func (c *Client) NewArticleFeed(category models.Category, limit int) *ArticleFeed {
	if limit < 1 {
		limit = 9
	}
	return &ArticleFeed{client: c, category: category, limit: limit}
}

// Refresh fetches the first page from the server, replacing the snapshot.
func (f *ArticleFeed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.err = ""
	f.mu.Unlock()

	path := fmt.Sprintf("/v1/articles?page=1&limit=%d", f.limit)
	if f.category != "" {
		// Categories contain ampersands and must survive percent-encoding
		path += "&category=" + url.QueryEscape(string(f.category))
	}

	var page models.ArticlePage
	_, err := f.client.getJSON(ctx, path, "", &page)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		f.err = err.Error()
		return err
	}

	now := time.Now()
	f.articles = f.articles[:0]
	for _, a := range page.Articles {
		f.articles = append(f.articles, decorate(a, now))
	}
	return nil
}

// Articles returns a copy of the current snapshot
func (f *ArticleFeed) Articles() []FeedArticle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FeedArticle, len(f.articles))
	copy(out, f.articles)
	return out
}

// Loading reports whether a refresh is in flight
func (f *ArticleFeed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Err returns the last refresh error message, empty when none
func (f *ArticleFeed) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Start subscribes to the server event stream and live-appends inserts
// matching the feed's category. A dropped stream is not resumed; missed
// articles appear on the next Refresh.
func (f *ArticleFeed) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	if f.cancel != nil {
		f.mu.Unlock()
		cancel()
		return
	}
	f.cancel = cancel
	f.mu.Unlock()

	go f.listen(ctx)
}

// Close stops the live stream
func (f *ArticleFeed) Close() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (f *ArticleFeed) listen(ctx context.Context) {
	path := "/v1/articles/events"
	if f.category != "" {
		path += "?category=" + url.QueryEscape(string(f.category))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.client.baseURL+path, nil)
	if err != nil {
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := f.client.http.Do(req)
	if err != nil {
		f.client.log.Warn().Err(err).Msg("Event stream unavailable")
		return
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data.WriteString(strings.TrimPrefix(line, "data: "))
			continue
		}
		if line == "" && data.Len() > 0 {
			f.append(data.String())
			data.Reset()
		}
	}
}

func (f *ArticleFeed) append(payload string) {
	var article models.Article
	if err := json.Unmarshal([]byte(payload), &article); err != nil {
		return
	}
	if f.category != "" && article.Category != f.category {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	decorated := decorate(&article, time.Now())
	f.articles = append([]FeedArticle{decorated}, f.articles...)
	if len(f.articles) > f.limit {
		f.articles = f.articles[:f.limit]
	}
}

func decorate(a *models.Article, now time.Time) FeedArticle {
	image := a.ImageURL
	if image == "" {
		image = models.DefaultImageForCategory(a.Category)
	}
	return FeedArticle{
		Article:     *a,
		PublishTime: FormatPublishTime(a.CreatedAt, now),
		Image:       image,
	}
}

// FormatPublishTime renders a created-at instant as a rough age string.
func FormatPublishTime(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := hours / 24
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
