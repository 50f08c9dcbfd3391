// Package api implements the HTTP fetcher that retrieves the
// feature-toggle document from the remote service.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
)

const featuresPath = "/client/features"

// Config holds fetcher configuration.
type Config struct {
	Endpoint   string
	APIKey     string
	AppName    string
	InstanceID string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPFetcher fetches the toggle document over HTTP. It implements
// repository.Fetcher.
type HTTPFetcher struct {
	endpoint   string
	apiKey     string
	appName    string
	instanceID string
	httpClient *http.Client
	maxRetries int
}

// NewHTTPFetcher creates a new HTTP fetcher
func NewHTTPFetcher(config Config) *HTTPFetcher {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		endpoint:   config.Endpoint,
		apiKey:     config.APIKey,
		appName:    config.AppName,
		instanceID: config.InstanceID,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		maxRetries: config.MaxRetries,
	}
}

// Fetch retrieves and parses the complete toggle document. A non-2xx
// response or an unparsable body yields an error and no feature set.
func (c *HTTPFetcher) Fetch(ctx context.Context) (*domain.FeatureSet, error) {
	url := c.endpoint + featuresPath

	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	set, err := domain.ParseFeatureSet(body)
	if err != nil {
		return nil, fmt.Errorf("invalid feature document from %s: %w", url, err)
	}
	return set, nil
}

// doRequest performs the GET with retries and exponential backoff.
func (c *HTTPFetcher) doRequest(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.doSingleRequest(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if !c.shouldRetry(err) {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doSingleRequest performs a single GET request
func (c *HTTPFetcher) doSingleRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	if c.appName != "" {
		req.Header.Set("X-Application-Name", c.appName)
	}
	if c.instanceID != "" {
		req.Header.Set("X-Instance-Id", c.instanceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(url, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewFetchError(url, resp.StatusCode, nil)
	}

	return body, nil
}

// shouldRetry determines if the request should be retried
func (c *HTTPFetcher) shouldRetry(err error) bool {
	if fetchErr, ok := err.(*domain.FetchError); ok {
		// Retry on 5xx and 429 (rate limit); give up on other statuses
		if fetchErr.StatusCode != 0 {
			return fetchErr.StatusCode >= 500 || fetchErr.StatusCode == 429
		}
		// Network errors are retried
		return true
	}
	return false
}
