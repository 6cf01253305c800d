// Package scraper fetches job posting pages. A static HTTP engine handles
// the common case; a headless browser engine covers JS-rendered pages and
// sites that wall off plain HTTP clients.
package scraper

import "context"

// Engine fetches the raw HTML for a URL.
type Engine interface {
	// Fetch returns the page HTML or an error classified by the caller's
	// error taxonomy.
	Fetch(ctx context.Context, url string) (string, error)

	// Name returns the engine identifier for logging.
	Name() string
}

// BrowserEngine is an Engine backed by a real browser. Availability depends
// on a Chrome binary being present on the host.
type BrowserEngine interface {
	Engine

	// Available reports whether the engine can actually run on this host.
	Available() bool
}
