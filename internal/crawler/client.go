package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoMarkdown is returned when the scraping service answers without a markdown body.
var ErrNoMarkdown = errors.New("scraping service returned no markdown")

// ServiceFetcher renders pages through an external scraping service.
type ServiceFetcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Markdown *string `json:"markdown"`
	} `json:"data"`
}

// NewServiceFetcher creates a scraping-service client. The API key is checked
// by Validate so a missing key fails the batch rather than every URL.
func NewServiceFetcher(baseURL, apiKey string, timeout time.Duration) *ServiceFetcher {
	return &ServiceFetcher{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Validate reports a missing credential.
func (f *ServiceFetcher) Validate() error {
	if f.apiKey == "" {
		return ErrMissingCredential
	}
	return nil
}

// Fetch asks the service for the markdown rendering of address.
func (f *ServiceFetcher) Fetch(ctx context.Context, address string) (string, error) {
	body, err := json.Marshal(scrapeRequest{URL: address, Formats: []string{"markdown"}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call scraping service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("scraping service: status %d, body: %s", resp.StatusCode, string(msg))
	}

	var result scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode scraping response: %w", err)
	}
	if !result.Success && result.Error != "" {
		return "", fmt.Errorf("scraping service: %s", result.Error)
	}
	if result.Data.Markdown == nil || *result.Data.Markdown == "" {
		return "", ErrNoMarkdown
	}

	return *result.Data.Markdown, nil
}
