package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPNumericExtractor calls the extraction service over HTTP.
type HTTPNumericExtractor struct {
	baseURL string
	client  *http.Client
}

// NewHTTPNumericExtractor creates an extractor client for the given base URL.
func NewHTTPNumericExtractor(baseURL string) *HTTPNumericExtractor {
	return &HTTPNumericExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Extract asks the service to read a number off the image, hinting which
// category the caller expects the image to show.
func (e *HTTPNumericExtractor) Extract(ctx context.Context, imageURL, categoryHint string) (ExtractionResult, error) {
	payload, err := json.Marshal(map[string]string{
		"imageUrl": imageURL,
		"category": categoryHint,
	})
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("error encoding extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", bytes.NewReader(payload))
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("error building extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("error calling extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ExtractionResult{}, fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}

	var result ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ExtractionResult{}, fmt.Errorf("error decoding extraction response: %w", err)
	}

	return result, nil
}
