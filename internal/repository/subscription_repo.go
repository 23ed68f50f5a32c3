package repository

import (
	"context"
	"encoding/json"

	"github.com/autosphere/autosphere-api/internal/database"
	"github.com/autosphere/autosphere-api/internal/models"
)

// subscriptionRepo is the concrete implementation of SubscriptionRepository
type subscriptionRepo struct {
	db *database.DB
}

// NewSubscriptionRepo creates a new subscription repository
func NewSubscriptionRepo(db *database.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

// Upsert creates or revives the subscription for an email in a single
// statement, so two concurrent subscribes for the same address cannot race
// on the existence check. An already-active row keeps its subscribed_at and
// source untouched.
func (r *subscriptionRepo) Upsert(ctx context.Context, email, source string, preferences map[string]string, token string) (*models.Subscription, models.SubscribeOutcome, error) {
	if preferences == nil {
		preferences = map[string]string{}
	}
	prefsJSON, err := json.Marshal(preferences)
	if err != nil {
		return nil, 0, err
	}

	query := `
		WITH existing AS (
			SELECT id, is_active FROM subscriptions WHERE email = $1
		), upserted AS (
			INSERT INTO subscriptions (email, source, preferences, unsubscribe_token)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET
				is_active = TRUE,
				subscribed_at = CASE WHEN subscriptions.is_active THEN subscriptions.subscribed_at ELSE now() END,
				source = CASE WHEN subscriptions.is_active THEN subscriptions.source ELSE EXCLUDED.source END,
				updated_at = now()
			RETURNING id, email, source, subscribed_at, created_at, updated_at
		)
		SELECT u.id, u.email, u.source, u.subscribed_at, u.created_at, u.updated_at,
			e.id IS NOT NULL AS existed,
			COALESCE(e.is_active, FALSE) AS was_active
		FROM upserted u LEFT JOIN existing e ON TRUE
	`

	var sub models.Subscription
	var existed, wasActive bool
	err = r.db.QueryRowContext(ctx, query, email, source, prefsJSON, token).Scan(
		&sub.ID, &sub.Email, &sub.Source, &sub.SubscribedAt, &sub.CreatedAt, &sub.UpdatedAt,
		&existed, &wasActive,
	)
	if err != nil {
		return nil, 0, err
	}
	sub.IsActive = true
	sub.Preferences = preferences

	switch {
	case existed && wasActive:
		return &sub, models.SubscribeAlreadyActive, nil
	case existed:
		return &sub, models.SubscribeReactivated, nil
	default:
		return &sub, models.SubscribeCreated, nil
	}
}

// DeactivateByToken flips the active subscription with this token to
// inactive. An already-inactive match counts as not found.
func (r *subscriptionRepo) DeactivateByToken(ctx context.Context, token string) (bool, error) {
	query := `
		UPDATE subscriptions
		SET is_active = FALSE, updated_at = now()
		WHERE unsubscribe_token = $1 AND is_active = TRUE
	`
	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Stats aggregates subscription counts and the per-source breakdown
func (r *subscriptionRepo) Stats(ctx context.Context) (*models.SubscriptionStats, error) {
	stats := &models.SubscriptionStats{Sources: make(map[string]int)}

	rows, err := r.db.QueryContext(ctx, `
		SELECT source, is_active, COUNT(*)
		FROM subscriptions
		GROUP BY source, is_active
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var source string
		var active bool
		var count int
		if err := rows.Scan(&source, &active, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		if active {
			stats.Active += count
		}
		stats.Sources[source] += count
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, rows.Err()
}

// ListSubscribers retrieves one page of subscribers, newest first
func (r *subscriptionRepo) ListSubscribers(ctx context.Context, offset, limit int) ([]*models.Subscriber, error) {
	query := `
		SELECT email, created_at, is_active, source
		FROM subscriptions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscribers []*models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.Email, &sub.CreatedAt, &sub.IsActive, &sub.Source); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, &sub)
	}
	return subscribers, rows.Err()
}

// StreamAll streams every subscriber for export, newest first
func (r *subscriptionRepo) StreamAll(ctx context.Context, callback func(*models.SubscriberExportRow) error) error {
	query := `
		SELECT email, created_at, is_active, source, preferences
		FROM subscriptions
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row models.SubscriberExportRow
		var prefsJSON []byte
		if err := rows.Scan(&row.Email, &row.CreatedAt, &row.IsActive, &row.Source, &prefsJSON); err != nil {
			return err
		}
		row.Preferences = map[string]string{}
		json.Unmarshal(prefsJSON, &row.Preferences)

		if err := callback(&row); err != nil {
			return err
		}
	}
	return rows.Err()
}
