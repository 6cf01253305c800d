package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jobvault/internal/extractor"
	"jobvault/pkg/utils"
)

// FetchResult carries the page content produced by a successful fetch.
type FetchResult struct {
	// HTML is the raw page markup as returned by the engine.
	HTML string

	// Text is the extracted visible text.
	Text string

	// Engine names the engine that produced the content.
	Engine string
}

// Strategy runs the fetch pipeline: URL validation, domain checks, rate
// limiting, a static HTTP attempt and, when the static result is too thin,
// a headless browser fallback.
type Strategy struct {
	static             Engine
	browser            BrowserEngine
	extractor          *extractor.Extractor
	limiter            *rate.Limiter
	unsupportedDomains []string
}

// NewStrategy wires a fetch strategy. browser may be nil when the fallback
// is disabled. rateLimitDelay spaces out consecutive outbound fetches.
func NewStrategy(static Engine, browser BrowserEngine, ext *extractor.Extractor, unsupportedDomains []string, rateLimitDelay time.Duration) *Strategy {
	limit := rate.Inf
	if d := rateLimitDelay.Seconds(); d > 0 {
		limit = rate.Limit(1 / d)
	}
	return &Strategy{
		static:             static,
		browser:            browser,
		extractor:          ext,
		limiter:            rate.NewLimiter(limit, 1),
		unsupportedDomains: unsupportedDomains,
	}
}

// Fetch validates the URL and runs the engine cascade until one of them
// yields sufficient content.
func (s *Strategy) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	log := utils.GetLogger()

	host, err := s.validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if domain := s.matchUnsupported(host); domain != "" {
		return nil, utils.NewUnsupportedSourceError(
			fmt.Sprintf("domain %s blocks automated access and is not supported", domain))
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, utils.NewFetchError("rate limiter interrupted", err)
	}

	log.WithField("url", rawURL).Debug("Fetching via static engine")
	html, staticErr := s.static.Fetch(ctx, rawURL)
	if staticErr == nil {
		text, err := s.extractor.Text(html)
		if err == nil && s.extractor.Sufficient(text) {
			return &FetchResult{HTML: html, Text: text, Engine: s.static.Name()}, nil
		}
		log.WithFields(map[string]interface{}{
			"url":   rawURL,
			"chars": len(text),
		}).Info("Static fetch returned insufficient content")
	} else {
		log.WithField("url", rawURL).WithError(staticErr).Warn("Static fetch failed")
	}

	if s.browser == nil || !s.browser.Available() {
		if staticErr != nil {
			return nil, staticErr
		}
		return nil, utils.NewUnsupportedSourceError(
			"page requires JavaScript rendering; install Chrome or Chromium and enable the browser fallback")
	}

	log.WithField("url", rawURL).Info("Falling back to browser engine")
	html, err = s.browser.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	// The browser is the last resort, so its output is returned as-is without
	// a second sufficiency gate.
	text, err := s.extractor.Text(html)
	if err != nil {
		return nil, err
	}

	return &FetchResult{HTML: html, Text: text, Engine: s.browser.Name()}, nil
}

// validateURL checks the URL is absolute http(s) with a host and returns the
// lowercased hostname.
func (s *Strategy) validateURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", utils.NewInvalidURLError(fmt.Sprintf("invalid URL: %s", rawURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", utils.NewInvalidURLError(fmt.Sprintf("unsupported URL scheme: %s", u.Scheme))
	}
	if u.Hostname() == "" {
		return "", utils.NewInvalidURLError("URL has no host")
	}
	return strings.ToLower(u.Hostname()), nil
}

// matchUnsupported returns the matched denylist entry, or "" when the host
// is allowed. Subdomains of a denied domain are denied too.
func (s *Strategy) matchUnsupported(host string) string {
	for _, domain := range s.unsupportedDomains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return domain
		}
	}
	return ""
}
