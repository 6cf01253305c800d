// Package extractor converts raw HTML into plain text suitable for LLM
// processing and judges whether a fetched page carries enough content to
// bother processing at all.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobvault/pkg/utils"
)

// Extractor strips markup and boilerplate from HTML documents.
type Extractor struct {
	minContentChars int
}

// New creates an Extractor that considers documents with fewer than
// minContentChars characters of visible text insufficient.
func New(minContentChars int) *Extractor {
	return &Extractor{minContentChars: minContentChars}
}

// Text parses the HTML and returns its visible text, one block element per
// line, with blank lines removed. Script, style and chrome elements
// (header, footer, nav) are dropped before extraction.
func (e *Extractor) Text(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", utils.NewFetchError("failed to parse HTML document", err)
	}

	doc.Find("script, style, noscript, header, footer, nav").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	raw := doc.Find("body").Text()
	if strings.TrimSpace(raw) == "" {
		// Fragments without a body tag still parse; fall back to the
		// whole document.
		raw = doc.Text()
	}

	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n"), nil
}

// Sufficient reports whether the extracted text is long enough to be a real
// page rather than a bot wall or an empty JS shell.
func (e *Extractor) Sufficient(text string) bool {
	return len(text) >= e.minContentChars
}
