package models

import (
	"time"
)

// Subscription represents a newsletter subscription. At most one row exists
// per email (stored lowercased); re-subscribing reactivates the row.
type Subscription struct {
	ID               int64             `json:"id" db:"id"`
	Email            string            `json:"email" db:"email"`
	IsActive         bool              `json:"is_active" db:"is_active"`
	Source           string            `json:"source" db:"source"`
	Preferences      map[string]string `json:"preferences" db:"-"`
	UnsubscribeToken string            `json:"-" db:"unsubscribe_token"`
	SubscribedAt     time.Time         `json:"subscribed_at" db:"subscribed_at"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
}

// DefaultSource is applied when a subscribe request carries no origin tag.
const DefaultSource = "website"

// SubscribeOutcome tells which path the atomic upsert took.
type SubscribeOutcome int

const (
	// SubscribeCreated means a new subscription row was inserted.
	SubscribeCreated SubscribeOutcome = iota
	// SubscribeReactivated means an inactive row was flipped back to active.
	SubscribeReactivated
	// SubscribeAlreadyActive means the row was active and left untouched.
	SubscribeAlreadyActive
)

// SubscribeRequest is the payload for creating or reviving a subscription.
type SubscribeRequest struct {
	Email       string            `json:"email"`
	Source      string            `json:"source,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// SubscribeResult is the service-level result of a subscribe call.
type SubscribeResult struct {
	Outcome      SubscribeOutcome
	Subscription *Subscription
}

// SubscriptionStats aggregates counts over all subscriptions.
type SubscriptionStats struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	Inactive int            `json:"inactive"`
	Sources  map[string]int `json:"sources"`
}

// Subscriber is the admin-facing listing row.
type Subscriber struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
	Source    string    `json:"source"`
}

// SubscriberExportRow carries the fields serialized into the CSV export.
type SubscriberExportRow struct {
	Email       string
	CreatedAt   time.Time
	IsActive    bool
	Source      string
	Preferences map[string]string
}
