package events

import (
	"sync"

	"github.com/autosphere/autosphere-api/internal/models"
)

// subscriberBuffer bounds each subscriber channel. A subscriber that falls
// behind loses events; missed inserts show up on the next manual refresh.
const subscriberBuffer = 16

// ArticleBroadcaster fans newly created articles out to list-view
// subscribers. Each subscriber may filter on a single category.
type ArticleBroadcaster struct {
	mu     sync.Mutex
	subs   map[chan *models.Article]models.Category
	closed bool
}

// NewArticleBroadcaster creates an empty broadcaster
func NewArticleBroadcaster() *ArticleBroadcaster {
	return &ArticleBroadcaster{
		subs: make(map[chan *models.Article]models.Category),
	}
}

// Subscribe registers a listener. An empty category receives every article.
// The returned cancel func must be called to release the channel.
func (b *ArticleBroadcaster) Subscribe(category models.Category) (<-chan *models.Article, func()) {
	ch := make(chan *models.Article, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = category
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an article to every matching subscriber without blocking.
func (b *ArticleBroadcaster) Publish(article *models.Article) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch, category := range b.subs {
		if category != "" && category != article.Category {
			continue
		}
		select {
		case ch <- article:
		default:
			// subscriber is saturated, drop
		}
	}
}

// Close tears down all subscriber channels.
func (b *ArticleBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
