// Package static implements a plain HTTP fetch engine with retry and
// backoff. It is always tried first; most job boards serve useful HTML
// without a browser.
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobvault/pkg/utils"
)

// Engine fetches pages over plain HTTP.
type Engine struct {
	client        *http.Client
	userAgent     string
	retryAttempts int
	retryDelay    time.Duration
}

// NewEngine creates a static engine. retryAttempts is the total number of
// attempts, not the number of retries.
func NewEngine(userAgent string, retryAttempts int, requestTimeout time.Duration) *Engine {
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	return &Engine{
		client: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent:     userAgent,
		retryAttempts: retryAttempts,
		retryDelay:    2 * time.Second,
	}
}

// Name implements scraper.Engine.
func (e *Engine) Name() string {
	return "static"
}

// Fetch retrieves the URL, retrying on transport failures, 5xx responses,
// and 429 responses. Rate limit responses back off exponentially; other
// retryable failures wait a flat delay. Client errors fail immediately.
func (e *Engine) Fetch(ctx context.Context, url string) (string, error) {
	log := utils.GetLogger()

	var lastErr error
	for attempt := 0; attempt < e.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", utils.NewFetchError("fetch cancelled", ctx.Err())
			case <-time.After(e.backoff(attempt, lastErr)):
			}
		}

		html, retryable, err := e.attempt(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}

		log.WithFields(map[string]interface{}{
			"url":     url,
			"attempt": attempt + 1,
		}).WithError(err).Warn("Static fetch attempt failed")
	}

	if _, ok := lastErr.(*rateLimitError); ok {
		return "", utils.NewFetchError("rate limited after all retry attempts", lastErr)
	}
	return "", lastErr
}

// attempt performs a single request. The second return value reports whether
// the failure is worth retrying.
func (e *Engine) attempt(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, utils.NewInvalidURLError(fmt.Sprintf("invalid URL: %s", url))
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", true, utils.NewFetchError("request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", true, utils.NewFetchError("failed to read response body", err)
		}
		return string(body), false, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, &rateLimitError{url: url}

	case resp.StatusCode >= 500:
		// Server errors are often transient; retry with the flat delay.
		return "", true, utils.NewFetchError(
			fmt.Sprintf("server error %d fetching %s", resp.StatusCode, url), nil)

	default:
		return "", false, utils.NewFetchError(
			fmt.Sprintf("unexpected status %d fetching %s", resp.StatusCode, url), nil)
	}
}

// backoff returns the wait before the given attempt. attempt is 1-based for
// the first retry.
func (e *Engine) backoff(attempt int, lastErr error) time.Duration {
	if _, ok := lastErr.(*rateLimitError); ok {
		// Exponential on 429: delay, 2*delay, 4*delay, ...
		return e.retryDelay * time.Duration(1<<(attempt-1))
	}
	return e.retryDelay
}

// rateLimitError marks a 429 so the backoff can grow exponentially. It still
// surfaces as a FetchError to callers once attempts are exhausted.
type rateLimitError struct {
	url string
}

func (r *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited (429) fetching %s", r.url)
}
