package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc-def", PlatformLever},
		{"https://acme.wd1.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://www.linkedin.com/jobs/view/123", PlatformLinkedIn},
		{"https://www.indeed.com/viewjob?jk=abc", PlatformIndeed},
		{"https://careers.example.com/jobs/1", PlatformUnknown},
		{"not a url at all ://", PlatformUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DetectPlatform(tt.url), tt.url)
	}
}

func TestNoiseSelectors(t *testing.T) {
	common := NoiseSelectors(PlatformUnknown)
	assert.Contains(t, common, "form")
	assert.Contains(t, common, ".eeo-statement")

	greenhouse := NoiseSelectors(PlatformGreenhouse)
	assert.Contains(t, greenhouse, ".application--wrapper")
	assert.Greater(t, len(greenhouse), len(common))

	lever := NoiseSelectors(PlatformLever)
	assert.Contains(t, lever, ".posting-apply")
}

func TestURL(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "hello")
	assert.Contains(t, result.ContentType, "text/html")
	assert.Equal(t, DefaultUserAgent, gotUserAgent)
}

func TestURL_CustomHeaders(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Custom")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"X-Custom": "value"}
	_, err := URL(context.Background(), srv.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, "value", gotHeader)
}

func TestURL_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.Error(t, err)
	// The body is still returned alongside the error.
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "404")
}

func TestURL_InvalidURL(t *testing.T) {
	for _, bad := range []string{"", "nohost", "://missing-scheme"} {
		_, err := URL(context.Background(), bad, nil)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, bad)
		assert.Equal(t, "invalid URL", fetchErr.Message)
	}
}

func TestPage_ParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Engineer at Acme</title></head><body>" + strings.Repeat("job content ", 100) + "</body></html>"))
	}))
	defer srv.Close()

	p, err := Page(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "Engineer at Acme", p.Title())
	assert.Equal(t, srv.URL, p.URL())
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("Loading..."))
	assert.True(t, ShouldUseBrowser(""))
	assert.False(t, ShouldUseBrowser(strings.Repeat("real job description text ", 40)))
}
