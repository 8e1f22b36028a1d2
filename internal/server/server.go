// Package server exposes welcome card rendering and gif lookups over HTTP.
//
// Routes:
//
//	GET  /healthz                       liveness and version
//	GET  /metrics                       Prometheus exposition (when metrics are enabled)
//	POST /v1/welcome                    JSON card document in, image out
//	GET  /v1/gifs                       gif catalog
//	GET  /v1/gifs/{category}/{name}     one gif lookup, proxied to the gif API
//
// Errors are answered as {"error": {"code", "message", ...}} with the status
// from errors.HTTPStatus.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/cacaonk0027/neekuro/internal/metrics"
	"github.com/cacaonk0027/neekuro/pkg/nekoapi"
	"github.com/cacaonk0027/neekuro/pkg/welcome"
)

// Defaults for Config fields left at zero.
const (
	DefaultAddr         = ":8080"
	DefaultRateLimit    = 10
	DefaultMaxBodyBytes = 8 << 20

	shutdownTimeout = 5 * time.Second

	// imageTimeout bounds each avatar or background download.
	imageTimeout = 15 * time.Second
)

// Config holds the server settings.
type Config struct {
	Addr         string  // listen address
	RateLimit    float64 // requests per second per client IP, 0 for DefaultRateLimit, <0 disables
	Burst        int     // rate limit burst, 0 for twice the rate
	MaxBodyBytes int64   // largest accepted card document
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.Burst <= 0 {
		c.Burst = max(int(2*c.RateLimit), 1)
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// GifFetcher looks up one gif. *nekoapi.Client implements it.
type GifFetcher interface {
	GetGif(ctx context.Context, category nekoapi.Category, name string) (*nekoapi.Gif, error)
}

// Server is the HTTP front end.
type Server struct {
	cfg         Config
	logger      *log.Logger
	gifs        GifFetcher
	metrics     *metrics.Metrics
	limiter     Limiter
	redis       redis.UniversalClient
	builderOpts []welcome.Option
	handler     http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLimiter replaces the per-IP rate limiter.
func WithLimiter(l Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithRedisLimiter shares the rate limit budget through Redis. The configured
// rate and burst still apply.
func WithRedisLimiter(client redis.UniversalClient) Option {
	return func(s *Server) { s.redis = client }
}

// WithBuilderOptions passes options to every welcome.Builder the server creates.
func WithBuilderOptions(opts ...welcome.Option) Option {
	return func(s *Server) { s.builderOpts = append(s.builderOpts, opts...) }
}

// New creates a server. logger may be nil to use log.Default().
func New(cfg Config, gifs GifFetcher, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:         cfg.withDefaults(),
		logger:      logger,
		gifs:        gifs,
		builderOpts: []welcome.Option{welcome.WithHTTPClient(&http.Client{Timeout: imageTimeout})},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil && s.cfg.RateLimit > 0 {
		if s.redis != nil {
			s.limiter = NewRedisLimiter(s.redis, s.cfg.RateLimit, s.cfg.Burst)
		} else {
			s.limiter = NewMemoryLimiter(s.cfg.RateLimit, s.cfg.Burst)
		}
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.observe)
	}

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.rateLimit)
		}
		r.Post("/welcome", s.handleWelcome)
		r.Get("/gifs", s.handleCatalog)
		r.Get("/gifs/{category}/{name}", s.handleGif)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("Listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("Server stopped")
	return nil
}
