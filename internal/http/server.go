// Package http serves the ledger REST API and the client app shell.
package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"

	"urmoney/internal/core"
	"urmoney/internal/log"
	"urmoney/internal/middleware/ratelimit"
	"urmoney/internal/middleware/security"
	"urmoney/internal/middleware/trace"
)

// Ledger is the use-case surface the handlers call.
type Ledger interface {
	ListTransactions(ctx context.Context) ([]core.EnrichedTransaction, error)
	GetTransaction(ctx context.Context, id int64) (core.EnrichedTransaction, error)
	CreateTransaction(ctx context.Context, in core.TransactionInput) (int64, error)
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) error
	DeleteTransaction(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error)
	UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) error
	DeleteCategory(ctx context.Context, id int64) error

	Statistics(ctx context.Context) (core.Statistics, error)
	SpendingByCategory(ctx context.Context) ([]core.CategorySpending, error)
	Dashboard(ctx context.Context) (core.Dashboard, error)

	Ping(ctx context.Context) error
}

// Options configures NewServer.
type Options struct {
	Addr               string
	StaticDir          string
	AllowedOrigins     []string
	RateLimitPerMinute int // 0 disables limiting
	TrustedProxies     []string
	Logger             *log.Logger
}

// Server is the HTTP front of the ledger.
type Server struct {
	http.Server

	ledger           Ledger
	logger           *log.Logger
	shell            fs.FS
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	startedAt        time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware around ledger.
func NewServer(ledger Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		ledger:           ledger,
		logger:           logger.WithComponent(log.ComponentHTTP),
		shell:            loadShell(opts.StaticDir),
		securityDetector: security.NewDetector(),
		startedAt:        time.Now(),
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.securityDetector.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, logger)

	if opts.RateLimitPerMinute > 0 {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			Methods:           ratelimit.MutatingMethods,
		})
	}

	if s.shell == nil && opts.StaticDir != "" {
		s.logger.Info("Client build not found, serving API placeholder at /", "static_dir", opts.StaticDir)
	}

	s.Handler = s.middleware(s.routes(), logger, opts.AllowedOrigins)
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/ready", s.handleReady)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/statistics", s.handleStatistics)
	mux.HandleFunc("GET /api/spending-by-category", s.handleSpendingByCategory)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(http.HandlerFunc(s.handleShell)))
	mux.HandleFunc("GET /", s.handleShell)

	return mux
}

// middleware wraps h, outermost first: logger, trace, probe detection,
// security headers, CORS, rate limit.
func (s *Server) middleware(h http.Handler, logger *log.Logger, origins []string) http.Handler {
	if s.rateLimiter != nil {
		h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			TooManyRequestsError().Write(w)
		})(h)
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", trace.HeaderRequestID},
		ExposedHeaders: []string{trace.HeaderRequestID},
	}).Handler(h)

	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.securityDetector.Middleware(h)
	h = s.traceMiddleware.Middleware(h)
	return log.Middleware(logger)(h)
}

// Shutdown drains the listener and stops background helpers.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		if shutdownErr := s.Server.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("http shutdown: %w", shutdownErr)
		}
	})
	return err
}

// ListenAndServe runs until Shutdown; http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.Addr, "static_shell", s.shell != nil)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}
