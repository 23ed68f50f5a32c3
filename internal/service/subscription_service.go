package service

import (
	"context"
	"strings"

	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/autosphere/autosphere-api/internal/repository"
	"github.com/autosphere/autosphere-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// subscriptionService is the concrete implementation of SubscriptionService
type subscriptionService struct {
	repo repository.SubscriptionRepository
	log  zerolog.Logger
}

// newSubscriptionService creates a new SubscriptionService
func newSubscriptionService(repo repository.SubscriptionRepository, log zerolog.Logger) *subscriptionService {
	return &subscriptionService{
		repo: repo,
		log:  log.With().Str("service", "subscription").Logger(),
	}
}

// Subscribe creates, reactivates or acknowledges a subscription for the
// email. Emails are deduplicated case-insensitively.
func (s *subscriptionService) Subscribe(ctx context.Context, req *models.SubscribeRequest) (*models.SubscribeResult, error) {
	if req.Email == "" || !validation.IsValidEmail(req.Email) {
		return nil, models.NewValidationError("Valid email address is required")
	}

	email := strings.ToLower(req.Email)
	source := req.Source
	if source == "" {
		source = models.DefaultSource
	}

	token := uuid.New().String()
	sub, outcome, err := s.repo.Upsert(ctx, email, source, req.Preferences, token)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("Subscription upsert failed")
		return nil, models.NewStorageError(err)
	}

	switch outcome {
	case models.SubscribeCreated:
		s.log.Info().Str("email", email).Str("source", source).Msg("New subscription created")
	case models.SubscribeReactivated:
		s.log.Info().Str("email", email).Msg("Subscription reactivated")
	}

	return &models.SubscribeResult{Outcome: outcome, Subscription: sub}, nil
}

// Unsubscribe deactivates the active subscription holding the token. An
// already-inactive subscription is reported as not found, not as success.
func (s *subscriptionService) Unsubscribe(ctx context.Context, token string) error {
	if token == "" {
		return models.NewValidationError("Unsubscribe token is required")
	}

	found, err := s.repo.DeactivateByToken(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("Unsubscribe failed")
		return models.NewStorageError(err)
	}
	if !found {
		return models.NewNotFoundError("Invalid or expired unsubscribe token")
	}

	s.log.Info().Msg("Subscription deactivated")
	return nil
}

// Stats returns aggregate subscription counts
func (s *subscriptionService) Stats(ctx context.Context) (*models.SubscriptionStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return stats, nil
}
