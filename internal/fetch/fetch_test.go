package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := New().Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestGet_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/jd", ""} {
		t.Run(raw, func(t *testing.T) {
			_, err := New().Get(context.Background(), raw)
			require.Error(t, err)

			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestGet_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := New().Get(context.Background(), server.URL)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestGet_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	_, err := New(WithTimeout(20*time.Millisecond)).Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP request failed")
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Data Engineer</h1>
				<p>Build batch and streaming pipelines.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Data Engineer")
	assert.Contains(t, text, "streaming pipelines")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_ListItemsOnOwnLines(t *testing.T) {
	html := `<html><body><div class="job-description"><h2>Requirements</h2><ul><li>Go</li><li>SQL</li></ul></div></body></html>`

	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Requirements\n- Go\n- SQL", text)
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `<html><body><span>Some content here.</span></body></html>`

	text, err := ExtractMainText(html, []string{".missing"})
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", text)
}

func TestExtractMainText_RemovesNoise(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div class="job-description">
				<p>5 years experience in Go</p>
				<form>Apply now</form>
				<div class="eeo">Equal opportunity</div>
			</div>
			<script>var x = 1;</script>
		</body>
	</html>`

	text, err := ExtractMainText(html, JobPostingSelectors(), "form", ".eeo")
	require.NoError(t, err)
	assert.Contains(t, text, "5 years experience")
	assert.NotContains(t, text, "Sidebar junk")
	assert.NotContains(t, text, "Apply now")
	assert.NotContains(t, text, "Equal opportunity")
	assert.NotContains(t, text, "var x")
}

func TestJobPostingSelectors(t *testing.T) {
	selectors := JobPostingSelectors()
	assert.Contains(t, selectors, ".job-description")
	assert.Contains(t, selectors, "main")
}
