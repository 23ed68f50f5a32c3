package events_test

import (
	"testing"

	"github.com/autosphere/autosphere-api/internal/events"
	"github.com/autosphere/autosphere-api/internal/models"
)

func TestPublish_ReachesAllUnfilteredSubscribers(t *testing.T) {
	b := events.NewArticleBroadcaster()
	ch1, cancel1 := b.Subscribe("")
	ch2, cancel2 := b.Subscribe("")
	defer cancel1()
	defer cancel2()

	b.Publish(&models.Article{ID: 1, Category: models.CategoryAI})

	for i, ch := range []<-chan *models.Article{ch1, ch2} {
		select {
		case article := <-ch:
			if article.ID != 1 {
				t.Errorf("Subscriber %d got article %d", i, article.ID)
			}
		default:
			t.Errorf("Subscriber %d received nothing", i)
		}
	}
}

func TestPublish_FiltersByCategory(t *testing.T) {
	b := events.NewArticleBroadcaster()
	finance, cancelFinance := b.Subscribe(models.CategoryFinance)
	ai, cancelAI := b.Subscribe(models.CategoryAI)
	defer cancelFinance()
	defer cancelAI()

	b.Publish(&models.Article{ID: 1, Category: models.CategoryFinance})

	select {
	case article := <-finance:
		if article.ID != 1 {
			t.Errorf("Unexpected article %d", article.ID)
		}
	default:
		t.Error("Finance subscriber should receive the article")
	}

	select {
	case article := <-ai:
		t.Errorf("AI subscriber should receive nothing, got article %d", article.ID)
	default:
	}
}

func TestPublish_DropsWhenSubscriberSaturated(t *testing.T) {
	b := events.NewArticleBroadcaster()
	ch, cancel := b.Subscribe("")
	defer cancel()

	// Well past the channel buffer; Publish must never block
	for i := 0; i < 100; i++ {
		b.Publish(&models.Article{ID: int64(i), Category: models.CategoryAI})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received == 0 || received >= 100 {
		t.Errorf("Expected a bounded number of buffered articles, got %d", received)
	}
}

func TestCancel_StopsDelivery(t *testing.T) {
	b := events.NewArticleBroadcaster()
	ch, cancel := b.Subscribe("")
	cancel()

	// Publishing after cancel must not panic on the closed channel
	b.Publish(&models.Article{ID: 1, Category: models.CategoryAI})

	if _, ok := <-ch; ok {
		t.Error("Channel should be closed after cancel")
	}
}

func TestClose_ClosesAllSubscribers(t *testing.T) {
	b := events.NewArticleBroadcaster()
	ch, cancel := b.Subscribe("")
	defer cancel()

	b.Close()

	if _, ok := <-ch; ok {
		t.Error("Channel should be closed")
	}

	// Subscribing after close yields an already-closed channel
	late, lateCancel := b.Subscribe("")
	defer lateCancel()
	if _, ok := <-late; ok {
		t.Error("Late subscriber channel should be closed")
	}
}
