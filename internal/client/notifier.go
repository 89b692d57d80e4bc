package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// WebhookNotifier posts lifecycle events to the notification dispatcher.
// Dispatch is fire-and-forget: it runs after the state transition has
// committed and a failure is logged, never propagated.
type WebhookNotifier struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewWebhookNotifier creates a notifier for the given dispatcher URL.
func NewWebhookNotifier(baseURL string, logger zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Notify dispatches one event.
func (n *WebhookNotifier) Notify(ctx context.Context, eventKind, sessionID string) {
	payload, err := json.Marshal(map[string]string{
		"event":     eventKind,
		"sessionId": sessionID,
	})
	if err != nil {
		n.logger.Warn().Err(err).Str("event", eventKind).Msg("notification encode failed")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/events", bytes.NewReader(payload))
	if err != nil {
		n.logger.Warn().Err(err).Str("event", eventKind).Msg("notification request failed to build")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn().Err(err).Str("event", eventKind).Str("session", sessionID).Msg("notification dispatch failed")
		return
	}
	resp.Body.Close()
}

// NoopNotifier discards events. Used when no dispatcher is configured and in
// tests.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, eventKind, sessionID string) {}
