// Package server provides the HTTP API the browser extension talks to.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/db"
	"github.com/jonathan/job-tailor/internal/detect"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/formfill"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/page"
	"github.com/jonathan/job-tailor/internal/resume"
	"github.com/jonathan/job-tailor/internal/server/middleware"
	"github.com/jonathan/job-tailor/internal/server/ratelimit"
	"github.com/jonathan/job-tailor/internal/skills"
	"github.com/jonathan/job-tailor/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         Config
	db          *db.DB
	client      llm.Client
	matcher     *skills.Matcher
	filler      *formfill.Engine
	fetcher     *fetch.CachedFetcher
	master      *types.MasterResume
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	pairing     *config.PairingConfig
	pairingHash string
}

// Config holds server configuration
type Config struct {
	Port             int
	DatabaseURL      string // empty disables persistence endpoints and the page cache
	ResumePath       string // empty means match/optimize require a stored resume
	LLM              *llm.Config
	TruncationBudget int
	UseBrowser       bool
	Verbose          bool
}

// New creates a new server instance. The database, LLM client, and resume
// are each optional; endpoints that need a missing piece fail with a
// precondition error instead of preventing startup.
func New(ctx context.Context, cfg Config) (*Server, error) {
	s := &Server{cfg: cfg}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		s.db = database
	}

	if cfg.LLM != nil && cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.client = client
	}

	matcher, err := skills.NewMatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create skill matcher: %w", err)
	}
	s.matcher = matcher

	filler, err := formfill.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create form fill engine: %w", err)
	}
	s.filler = filler

	s.fetcher = fetch.NewCachedFetcher(s.db, &fetch.CachedFetcherConfig{
		Options: &fetch.Options{
			Timeout:    fetch.DefaultTimeout,
			UserAgent:  fetch.DefaultUserAgent,
			UseBrowser: cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		},
	})

	if cfg.ResumePath != "" {
		master, err := resume.Load(cfg.ResumePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load resume: %w", err)
		}
		s.master = master
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Pairing auth is enabled when JWT_SECRET is set; otherwise the server
	// runs open, which is acceptable for localhost-only use.
	if os.Getenv("JWT_SECRET") != "" {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)

		pairing, err := config.NewPairingConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create pairing config: %w", err)
		}
		s.pairing = pairing
		s.pairingHash = os.Getenv("PAIRING_CODE_HASH")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /pair", s.handlePair)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /message", s.handleMessage)
	protected.HandleFunc("POST /detect", s.handleDetect)
	protected.HandleFunc("POST /match", s.handleMatch)
	protected.HandleFunc("POST /optimize", s.handleOptimize)
	protected.HandleFunc("POST /cover-letter", s.handleCoverLetter)
	protected.HandleFunc("POST /fill-plan", s.handleFillPlan)

	// Persistence endpoints
	protected.HandleFunc("GET /postings", s.handleListPostings)
	protected.HandleFunc("POST /postings", s.handleSavePosting)
	protected.HandleFunc("GET /postings/{id}", s.handleGetPosting)
	protected.HandleFunc("DELETE /postings/{id}", s.handleDeletePosting)
	protected.HandleFunc("GET /resumes", s.handleListResumes)
	protected.HandleFunc("POST /resumes", s.handleSaveResume)

	var protectedHandler http.Handler = protected
	if s.jwtService != nil {
		protectedHandler = middleware.Auth(s.jwtService.AsTokenValidator())(protected)
	}
	mux.Handle("/", protectedHandler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // LLM passes can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// detectPage runs the detection chain against a parsed page, falling back
// to LLM extraction when the chain produced no description and a provider
// is configured.
func (s *Server) detectPage(ctx context.Context, p *page.Page, platform fetch.Platform) (*types.DetectionResult, error) {
	result := detect.Detect(p)
	if result.JD != "" {
		return &result, nil
	}

	if s.client == nil {
		return nil, nil
	}

	budget := s.cfg.TruncationBudget
	if budget <= 0 {
		budget = llm.DefaultTruncationBudget
	}
	pageText := p.VisibleText(fetch.NoiseSelectors(platform)...)
	record, ok, err := llm.ExtractJob(ctx, s.client, pageText, budget)
	if err != nil {
		return nil, err
	}
	if !ok || record.Description == "" {
		return nil, nil
	}

	llmResult := types.DetectionResult{
		JD:       record.Description,
		JobTitle: record.Title,
		Company:  record.Company,
		Method:   types.MethodLLM,
	}
	if llmResult.JobTitle == "" {
		llmResult.JobTitle = result.JobTitle
	}
	if llmResult.Company == "" {
		llmResult.Company = result.Company
	}
	return &llmResult, nil
}

// masterResume returns the resume to match and rewrite against: the one
// loaded from disk when configured, otherwise the stored default.
func (s *Server) masterResume(ctx context.Context) (*types.MasterResume, error) {
	if s.master != nil {
		return s.master, nil
	}
	if s.db == nil {
		return nil, &ErrResumeNotFound{}
	}
	stored, err := s.db.GetDefaultResume(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, &ErrResumeNotFound{}
	}
	return resume.Parse([]byte(stored.Content))
}

// withCORS adds CORS headers. The extension calls from an extension origin,
// so the origin is reflected rather than wildcarded to keep Authorization
// headers working.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request. This is
// the IP from RemoteAddr; X-Forwarded-For is deliberately ignored since the
// server is not expected to sit behind a proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
