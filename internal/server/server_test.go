package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/formfill"
	"github.com/jonathan/job-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResumeYAML = `
name: Jordan Example
email: jordan@example.com
experience:
  - title: Backend Engineer
    company: Acme
    dates: 2021-2024
    bullets:
      - Built Go services with PostgreSQL and Docker
skills: [Go, PostgreSQL, Docker]
`

// jobPageHTML carries a schema.org posting long enough for detection.
var jobPageHTML = `<html><head>
<title>Backend Engineer at Initech</title>
<script type="application/ld+json">{"@type": "JobPosting", "title": "Backend Engineer", "hiringOrganization": {"name": "Initech"}, "description": "` +
	strings.Repeat("We are hiring a backend engineer with Go and PostgreSQL experience. ", 5) +
	`"}</script></head><body></body></html>`

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	resumePath := filepath.Join(t.TempDir(), "resume.yaml")
	require.NoError(t, os.WriteFile(resumePath, []byte(testResumeYAML), 0o644))

	cfg := Config{Port: 0, ResumePath: resumePath}
	if mutate != nil {
		mutate(&cfg)
	}

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestDetect_WithHTML(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "POST", "/detect", DetectRequest{
		PageRequest: PageRequest{HTML: jobPageHTML, URL: "https://boards.greenhouse.io/initech/jobs/1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, "greenhouse", resp.Platform)
	require.NotNil(t, resp.Detection)
	assert.Equal(t, types.MethodSchemaOrg, resp.Detection.Method)
	assert.Equal(t, "Backend Engineer", resp.Detection.JobTitle)
	assert.Equal(t, "Initech", resp.Detection.Company)
}

func TestDetect_NothingFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "POST", "/detect", DetectRequest{
		PageRequest: PageRequest{HTML: "<html><body><p>nothing</p></body></html>"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Found)
	assert.Equal(t, "unknown", resp.Platform)
}

func TestDetect_RequiresHTMLOrURL(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "POST", "/detect", DetectRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatch_InlineJD(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "POST", "/match", MatchRequest{
		JD: "We need strong Go and PostgreSQL experience. Kubernetes is required.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Greater(t, result.OverallScore, 0)
	assert.NotEmpty(t, result.MatchedSkills)
	assert.NotEmpty(t, result.Summary)
}

func TestMatch_WithoutResume(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	s, err := New(context.Background(), Config{Port: 0})
	require.NoError(t, err)

	rec := doJSON(t, s, "POST", "/match", MatchRequest{JD: "Go"})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestOptimize_WithoutLLM(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "POST", "/optimize", GenerateRequest{JD: "some jd"})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, rec.Body.String(), "no LLM provider")
}

func TestCoverLetter_WithoutLLM(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "POST", "/cover-letter", GenerateRequest{JD: "some jd"})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestFillPlan(t *testing.T) {
	s := newTestServer(t, nil)

	html := `<html><body><form>
	<input type="text" name="first_name">
	<input type="email" name="email">
	</form></body></html>`

	rec := doJSON(t, s, "POST", "/fill-plan", FillPlanRequest{
		HTML:    html,
		Profile: formfill.Profile{FirstName: "Jordan", Email: "jordan@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var plan formfill.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, 2, plan.Filled)
}

func TestFillPlan_RequiresHTML(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "POST", "/fill-plan", FillPlanRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostings_WithoutDatabase(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "GET", "/postings", nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestPair_NoAuthConfigured(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, "POST", "/pair", PairRequest{Code: "anything"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Token)
	assert.NotEmpty(t, resp.DeviceID)
}

func TestAuthRequired_WhenSecretSet(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("PAIRING_CODE_HASH", "")

	s, err := New(context.Background(), Config{Port: 0})
	require.NoError(t, err)

	// Protected endpoints reject unauthenticated requests.
	rec := doJSON(t, s, "POST", "/detect", DetectRequest{PageRequest: PageRequest{HTML: "<html></html>"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health stays open.
	rec = doJSON(t, s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A minted token unlocks the protected mux.
	token, err := s.jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/detect", strings.NewReader(`{"html": "<html><body></body></html>"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPair_WithConfiguredHash(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("BCRYPT_COST", "10")

	// Hash the code the same way the token command does.
	pairing, err := config.NewPairingConfig()
	require.NoError(t, err)
	hash, err := pairing.HashCode("secret-code")
	require.NoError(t, err)
	t.Setenv("PAIRING_CODE_HASH", hash)

	s, err := New(context.Background(), Config{Port: 0})
	require.NoError(t, err)

	rec := doJSON(t, s, "POST", "/pair", PairRequest{Code: "wrong-code"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, "POST", "/pair", PairRequest{Code: "secret-code"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The minted token validates against the same service.
	claims, err := s.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.DeviceID, claims.GetDeviceID().String())
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("OPTIONS", "/detect", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chrome-extension://abcdef", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimitHeaders(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	resumePath := filepath.Join(t.TempDir(), "resume.yaml")
	require.NoError(t, os.WriteFile(resumePath, []byte(testResumeYAML), 0o644))

	s, err := New(context.Background(), Config{Port: 0, ResumePath: resumePath})
	require.NoError(t, err)
	defer s.rateLimiter.Stop()

	rec := doJSON(t, s, "POST", "/match", MatchRequest{JD: "Go"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
}
