package scraper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobvault/internal/extractor"
	"jobvault/pkg/utils"
)

type fakeEngine struct {
	name  string
	html  string
	err   error
	calls int
}

func (f *fakeEngine) Fetch(ctx context.Context, url string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

func (f *fakeEngine) Name() string { return f.name }

type fakeBrowser struct {
	fakeEngine
	available bool
}

func (f *fakeBrowser) Available() bool { return f.available }

func richHTML() string {
	return "<html><body><p>" + strings.Repeat("senior engineer role details ", 20) + "</p></body></html>"
}

func newTestStrategy(static Engine, browser BrowserEngine) *Strategy {
	return NewStrategy(static, browser, extractor.New(100), []string{"linkedin.com"}, time.Duration(0))
}

func TestFetchRejectsInvalidURLs(t *testing.T) {
	s := newTestStrategy(&fakeEngine{name: "static"}, nil)

	for _, raw := range []string{"not a url at all://", "ftp://example.com/job", "/relative/path", "example.com/jobs"} {
		_, err := s.Fetch(context.Background(), raw)
		require.Error(t, err, raw)
		assert.True(t, utils.IsKind(err, utils.KindInput), raw)
	}
}

func TestFetchRejectsDeniedDomains(t *testing.T) {
	static := &fakeEngine{name: "static", html: richHTML()}
	s := newTestStrategy(static, nil)

	for _, raw := range []string{
		"https://linkedin.com/jobs/view/123",
		"https://www.linkedin.com/jobs/view/123",
		"https://jobs.linkedin.com/view/123",
	} {
		_, err := s.Fetch(context.Background(), raw)
		require.Error(t, err, raw)
		assert.True(t, utils.IsKind(err, utils.KindUnsupportedSource), raw)
	}

	// The engine must never be reached for a denied domain.
	assert.Zero(t, static.calls)

	// Non-subdomain lookalikes are allowed through.
	_, err := s.Fetch(context.Background(), "https://notlinkedin.com/jobs/1")
	require.NoError(t, err)
}

func TestFetchUsesStaticWhenSufficient(t *testing.T) {
	static := &fakeEngine{name: "static", html: richHTML()}
	browser := &fakeBrowser{fakeEngine: fakeEngine{name: "browser"}, available: true}
	s := newTestStrategy(static, browser)

	res, err := s.Fetch(context.Background(), "https://example.com/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "static", res.Engine)
	assert.Contains(t, res.Text, "senior engineer")
	assert.Zero(t, browser.calls)
}

func TestFetchFallsBackOnThinContent(t *testing.T) {
	static := &fakeEngine{name: "static", html: "<html><body>Loading...</body></html>"}
	browser := &fakeBrowser{fakeEngine: fakeEngine{name: "browser", html: richHTML()}, available: true}
	s := newTestStrategy(static, browser)

	res, err := s.Fetch(context.Background(), "https://example.com/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "browser", res.Engine)
	assert.Equal(t, 1, static.calls)
	assert.Equal(t, 1, browser.calls)
}

func TestFetchFallsBackOnStaticError(t *testing.T) {
	static := &fakeEngine{name: "static", err: utils.NewFetchError("boom", nil)}
	browser := &fakeBrowser{fakeEngine: fakeEngine{name: "browser", html: richHTML()}, available: true}
	s := newTestStrategy(static, browser)

	res, err := s.Fetch(context.Background(), "https://example.com/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "browser", res.Engine)
}

func TestFetchThinContentNoBrowser(t *testing.T) {
	static := &fakeEngine{name: "static", html: "<html><body>Loading...</body></html>"}
	s := newTestStrategy(static, nil)

	_, err := s.Fetch(context.Background(), "https://example.com/jobs/1")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindUnsupportedSource))
	assert.Contains(t, err.Error(), "Chrom")
}

func TestFetchStaticErrorNoBrowserPropagates(t *testing.T) {
	staticErr := utils.NewFetchError("connect refused", nil)
	static := &fakeEngine{name: "static", err: staticErr}
	browser := &fakeBrowser{fakeEngine: fakeEngine{name: "browser"}, available: false}
	s := newTestStrategy(static, browser)

	_, err := s.Fetch(context.Background(), "https://example.com/jobs/1")
	require.Error(t, err)
	assert.ErrorIs(t, err, staticErr)
	assert.Zero(t, browser.calls)
}

func TestFetchBrowserShortContentReturned(t *testing.T) {
	static := &fakeEngine{name: "static", html: "thin"}
	browser := &fakeBrowser{fakeEngine: fakeEngine{name: "browser", html: "<body>Senior Gopher wanted</body>"}, available: true}
	s := newTestStrategy(static, browser)

	res, err := s.Fetch(context.Background(), "https://example.com/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "browser", res.Engine)
	assert.Contains(t, res.Text, "Senior Gopher wanted")
}
