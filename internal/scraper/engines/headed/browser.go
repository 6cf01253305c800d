// Package headed implements the headless browser fallback engine using Rod.
// It renders JS-heavy pages and slips past the bot walls that reject plain
// HTTP clients.
package headed

import (
	"context"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"jobvault/pkg/utils"
)

// Engine launches a fresh browser per attempt. Captures are infrequent enough
// that a persistent browser pool is not worth the lifecycle complexity, and a
// fresh browser means a crashed render cannot poison the next attempt.
type Engine struct {
	userAgent     string
	headless      bool
	stealthMode   bool
	settleDelay   time.Duration
	timeout       time.Duration
	retryAttempts int
	retryDelay    time.Duration
	enabled       bool
	chromePath    string

	// render performs a single launch/navigate/read cycle. Overridable in tests.
	render func(ctx context.Context, url string) (string, error)
}

// NewEngine creates a browser engine. When enabled is false, or no Chrome
// binary can be found, Available reports false and the strategy skips the
// fallback entirely.
func NewEngine(userAgent string, headless, stealthMode, enabled bool, retryAttempts int, settleDelay, timeout time.Duration) *Engine {
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	e := &Engine{
		userAgent:     userAgent,
		headless:      headless,
		stealthMode:   stealthMode,
		settleDelay:   settleDelay,
		timeout:       timeout,
		retryAttempts: retryAttempts,
		retryDelay:    2 * time.Second,
		enabled:       enabled,
		chromePath:    getSystemChromePath(),
	}
	e.render = e.renderPage
	return e
}

// Name implements scraper.Engine.
func (e *Engine) Name() string {
	return "browser"
}

// Available implements scraper.BrowserEngine.
func (e *Engine) Available() bool {
	return e.enabled && e.chromePath != ""
}

// Fetch renders the page in a browser and returns the post-JS HTML. Each
// attempt launches its own browser; failed attempts back off by a flat delay
// before the next launch.
func (e *Engine) Fetch(ctx context.Context, url string) (string, error) {
	log := utils.GetLogger()

	if !e.Available() {
		return "", utils.NewUnsupportedSourceError("browser fallback is not available on this host")
	}

	var lastErr error
	for attempt := 0; attempt < e.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", utils.NewFetchError("browser fetch cancelled", ctx.Err())
			case <-time.After(e.retryDelay):
			}
		}

		html, err := e.render(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		log.WithFields(map[string]interface{}{
			"url":     url,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("Browser fetch attempt failed")
	}

	return "", utils.NewFetchError("browser fetch failed after all retry attempts", lastErr)
}

// renderPage is a single browser attempt: launch, navigate, wait, read HTML.
func (e *Engine) renderPage(ctx context.Context, url string) (string, error) {
	log := utils.GetLogger()

	l := launcher.New().
		Headless(e.headless).
		NoSandbox(true).
		Bin(e.chromePath).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if e.userAgent != "" {
		l = l.Set("user-agent", e.userAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return "", utils.NewFetchError("failed to launch browser", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return "", utils.NewFetchError("failed to connect to browser", err)
	}
	defer browser.MustClose()

	page, err := e.newPage(browser)
	if err != nil {
		return "", utils.NewFetchError("failed to create page", err)
	}
	defer page.Close()

	navCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	err = rod.Try(func() {
		page.Context(navCtx).MustNavigate(url).MustWaitLoad()
	})
	if err != nil {
		return "", utils.NewFetchError("browser navigation failed", err)
	}

	// Let client-side rendering finish before reading the DOM.
	if e.settleDelay > 0 {
		select {
		case <-navCtx.Done():
			return "", utils.NewFetchError("browser fetch cancelled", navCtx.Err())
		case <-time.After(e.settleDelay):
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", utils.NewFetchError("failed to read rendered HTML", err)
	}

	log.WithFields(map[string]interface{}{
		"url":   url,
		"chars": len(html),
	}).Debug("Browser fetch complete")

	return html, nil
}

func (e *Engine) newPage(browser *rod.Browser) (*rod.Page, error) {
	if e.stealthMode {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{})
}

// getSystemChromePath finds the system-installed Chrome/Chromium browser
func getSystemChromePath() string {
	if chromeBin := os.Getenv("CHROME_BIN"); chromeBin != "" {
		if _, err := os.Stat(chromeBin); err == nil {
			return chromeBin
		}
	}

	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	commonPaths := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/opt/google/chrome/chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
