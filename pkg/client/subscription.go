package client

import (
	"context"
	"errors"
	"sync"

	"github.com/autosphere/autosphere-api/internal/models"
)

// ErrPendingMessage is returned when an attempt is made while a previous
// success or error message has not been cleared.
var ErrPendingMessage = errors.New("clear the previous result before retrying")

// SubscriptionClient drives the subscribe/unsubscribe forms. Success and
// error message slots are mutually exclusive and must be cleared between
// attempts.
type SubscriptionClient struct {
	client *Client

	mu      sync.Mutex
	loading bool
	success string
	errMsg  string
}

// NewSubscriptionClient creates a SubscriptionClient
func (c *Client) NewSubscriptionClient() *SubscriptionClient {
	return &SubscriptionClient{client: c}
}

// Subscribe submits a subscription request
func (s *SubscriptionClient) Subscribe(ctx context.Context, req *models.SubscribeRequest) error {
	if err := s.begin(); err != nil {
		return err
	}

	var resp struct {
		apiMessage
		AlreadySubscribed bool `json:"alreadySubscribed"`
		Reactivated       bool `json:"reactivated"`
	}
	_, err := s.client.postJSON(ctx, "/v1/subscriptions/subscribe", "", req, &resp)
	s.finish(resp.Message, err)
	return err
}

// Unsubscribe submits an unsubscribe token
func (s *SubscriptionClient) Unsubscribe(ctx context.Context, token string) error {
	if err := s.begin(); err != nil {
		return err
	}

	var resp apiMessage
	_, err := s.client.postJSON(ctx, "/v1/subscriptions/unsubscribe", "", map[string]string{"token": token}, &resp)
	s.finish(resp.Message, err)
	return err
}

// Loading reports whether a request is in flight
func (s *SubscriptionClient) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Success returns the pending success message, empty when none
func (s *SubscriptionClient) Success() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success
}

// Error returns the pending error message, empty when none
func (s *SubscriptionClient) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ClearMessages resets both message slots
func (s *SubscriptionClient) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.success = ""
	s.errMsg = ""
}

func (s *SubscriptionClient) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.success != "" || s.errMsg != "" {
		return ErrPendingMessage
	}
	s.loading = true
	return nil
}

func (s *SubscriptionClient) finish(message string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.success = message
}
