package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextStripsScriptsAndChrome(t *testing.T) {
	html := `<html>
<head><title>Job</title><style>body { color: red; }</style></head>
<body>
  <header>Site Header</header>
  <nav>Home | Jobs</nav>
  <script>console.log("tracking");</script>
  <main>
    <h1>Senior Engineer</h1>
    <p>Build distributed systems.</p>
  </main>
  <footer>Copyright 2026</footer>
</body>
</html>`

	e := New(100)
	text, err := e.Text(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Engineer")
	assert.Contains(t, text, "Build distributed systems.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Site Header")
	assert.NotContains(t, text, "Copyright 2026")
}

func TestTextCollapsesBlankLines(t *testing.T) {
	html := "<body><p>First</p>\n\n\n<p>  Second  </p>\n<p></p></body>"

	e := New(0)
	text, err := e.Text(html)
	require.NoError(t, err)

	for _, line := range strings.Split(text, "\n") {
		assert.NotEmpty(t, strings.TrimSpace(line))
		assert.Equal(t, strings.TrimSpace(line), line)
	}
	assert.Contains(t, text, "First")
	assert.Contains(t, text, "Second")
}

func TestTextHandlesFragments(t *testing.T) {
	e := New(0)
	text, err := e.Text("<div>Just a fragment</div>")
	require.NoError(t, err)
	assert.Contains(t, text, "Just a fragment")
}

func TestSufficient(t *testing.T) {
	e := New(10)
	assert.True(t, e.Sufficient("this is long enough"))
	assert.False(t, e.Sufficient("short"))
	assert.False(t, e.Sufficient(""))
}
