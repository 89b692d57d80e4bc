package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPEvidenceStore stores evidence through the blob service's HTTP API.
type HTTPEvidenceStore struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPEvidenceStore creates an evidence store client for the given base URL.
func NewHTTPEvidenceStore(baseURL string, logger zerolog.Logger) *HTTPEvidenceStore {
	return &HTTPEvidenceStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Put uploads one image and returns its stable URL.
func (s *HTTPEvidenceStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/blobs", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error building evidence upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error uploading evidence: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("evidence store returned status %d", resp.StatusCode)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("error decoding evidence store response: %w", err)
	}

	return body.URL, nil
}

// Delete removes a stored image. Best-effort: errors are logged and swallowed
// so a failed delete never blocks the caller's ledger update.
func (s *HTTPEvidenceStore) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("evidence delete request failed to build")
		return nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("evidence delete failed")
		return nil
	}
	resp.Body.Close()

	return nil
}
