package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/config"
	"github.com/jonathan/profile-analyzer/internal/extraction"
	"github.com/jonathan/profile-analyzer/internal/logger"
	"github.com/jonathan/profile-analyzer/internal/scraper"
	"github.com/jonathan/profile-analyzer/internal/server/middleware"
	"github.com/jonathan/profile-analyzer/internal/server/ratelimit"
	"github.com/jonathan/profile-analyzer/internal/types"
)

const (
	shutdownTimeout = 30 * time.Second
	// maxEchoedResponse caps the raw model output returned with a schema parse error.
	maxEchoedResponse = 2000
)

// Server is the HTTP API server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	config      config.ServerConfig
	extractor   analysis.ProfileExtractor
	fetcher     analysis.ProfileFetcher
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
}

// Option configures a Server.
type Option func(*Server)

// WithExtractor sets the model-backed profile extractor. Without one the
// model endpoints answer 503.
func WithExtractor(e analysis.ProfileExtractor) Option {
	return func(s *Server) {
		s.extractor = e
	}
}

// WithFetcher sets the profile scraper. The default is scraper.New().
func WithFetcher(f analysis.ProfileFetcher) Option {
	return func(s *Server) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger.OrNop(l)
	}
}

// New creates a server. Bearer authentication is enabled when cfg carries a
// JWT secret.
func New(cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		config:  cfg,
		fetcher: scraper.New(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rateLimiter = ratelimit.NewLimiter(rateLimitConfig(cfg.RateLimit))
	if cfg.AuthEnabled() {
		s.jwtService = NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /roles", s.handleRoles)
	mux.HandleFunc("POST /documents/text", s.handleDocumentText)
	mux.HandleFunc("POST /profiles/extract", s.handleExtractProfile)
	mux.HandleFunc("POST /profiles/scrape", s.handleScrapeProfile)
	mux.HandleFunc("POST /profiles/compare", s.handleCompareProfile)
	mux.HandleFunc("POST /profiles/insights", s.handleProfileInsights)
	mux.HandleFunc("POST /skills/compare", s.handleCompareSkills)
	mux.HandleFunc("POST /analyses", s.handleAnalysis)
	mux.HandleFunc("POST /analyses/stream", s.handleAnalysisStream)

	var h http.Handler = mux
	if s.jwtService != nil {
		h = middleware.AuthMiddleware(s.jwtService.AsTokenValidator(), isPublic)(h)
	}
	h = s.withRateLimit(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = middleware.Logging(s.logger)(h)
	s.handler = middleware.RequestID(h)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      300 * time.Second, // Long timeout for model calls and streams
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func rateLimitConfig(cfg config.RateLimitConfig) *ratelimit.Config {
	return &ratelimit.Config{
		Enabled:         cfg.Enabled,
		DefaultLimit:    cfg.PerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    cfg.Burst,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	}
}

func isPublic(r *http.Request) bool {
	return r.URL.Path == "/health"
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			zap.String("addr", s.httpServer.Addr),
			zap.Bool("auth", s.jwtService != nil),
			zap.Bool("model", s.extractor != nil),
		)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving. Servers driven only
// through Handler, as in tests, call it instead of Start.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// unavailableExtractor stands in when no model client is configured.
type unavailableExtractor struct{}

func (unavailableExtractor) ExtractProfile(context.Context, string) (*types.Profile, error) {
	return nil, ErrModelUnavailable
}

// analyzer builds a per-request Analyzer so streaming requests can attach
// their own progress callback.
func (s *Server) analyzer(r *http.Request, progress analysis.ProgressCallback) *analysis.Analyzer {
	var extractor analysis.ProfileExtractor = unavailableExtractor{}
	if s.extractor != nil {
		extractor = s.extractor
	}
	opts := []analysis.Option{
		analysis.WithFetcher(s.fetcher),
		analysis.WithLogger(s.logger.With(zap.String(logger.FieldRequestID, middleware.GetRequestID(r.Context())))),
	}
	if progress != nil {
		opts = append(opts, analysis.WithProgress(progress))
	}
	return analysis.New(extractor, opts...)
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":      "Rate limit exceeded. Please try again later.",
		"error_code": "rate_limit_exceeded",
		"limit":      info.Limit,
		"remaining":  info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
		zap.String(logger.FieldRequestID, middleware.GetRequestID(r.Context())),
	)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", zap.Error(err))
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code,omitempty"`
	// Response is the raw model output of a schema parse failure.
	Response string `json:"response,omitempty"`
}

func errorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error(), ErrorCode: ErrorCode(err)}
	var schemaErr *extraction.SchemaParseError
	if errors.As(err, &schemaErr) {
		body.Response = logger.TruncateForLog(schemaErr.Response, maxEchoedResponse)
	}
	return body
}

// errorResponse writes err with the status and code it maps to. Internal
// errors are logged and replaced with a generic message.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	body := errorBody(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.Error(err),
			zap.String(logger.FieldRequestID, middleware.GetRequestID(r.Context())),
		)
		body.Error = "internal server error"
	}
	s.jsonResponse(w, status, body)
}
