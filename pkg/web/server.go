// Package web hosts the JSON/HTTP API: whitelist login, session cookies and
// drawing revision search.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/marambaia/drawdex/pkg/cache"
	"github.com/marambaia/drawdex/pkg/config"
	"github.com/marambaia/drawdex/pkg/drawing"
	"github.com/marambaia/drawdex/pkg/logging"
	"github.com/marambaia/drawdex/pkg/session"
	"github.com/marambaia/drawdex/pkg/whitelist"
)

type ctxKey string

const sessionContextKey ctxKey = "drawdex-session"

// SessionStore is the subset of the storage layer the server needs.
type SessionStore interface {
	CreateSession(sess session.Session) error
	GetSession(id string) (*session.Session, error)
	TouchSession(id string) error
	DeleteSession(id string) error
	CountActiveSessions(cutoff time.Time) (int, error)
}

// Server hosts the HTTP API over the cached source snapshots.
type Server struct {
	cfg          *config.Config
	sessions     SessionStore
	whitelistCch *cache.Cache[whitelist.Snapshot]
	drawingsCch  *cache.Cache[[]drawing.Row]
	logger       *logging.Logger
	httpServer   *http.Server
	loginLimiter *rate.Limiter
	clock        func() time.Time
}

// NewServer constructs a server bound to the provided store and caches.
func NewServer(
	cfg *config.Config,
	sessions SessionStore,
	whitelistCch *cache.Cache[whitelist.Snapshot],
	drawingsCch *cache.Cache[[]drawing.Row],
	logger *logging.Logger,
) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		cfg:          cfg,
		sessions:     sessions,
		whitelistCch: whitelistCch,
		drawingsCch:  drawingsCch,
		logger:       logger,
		loginLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 5),
		clock:        time.Now,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Bind,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router assembles the chi router. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.securityHeadersMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.sessionMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/me", s.handleMe)
			r.Get("/search", s.handleSearch)
		})
	})
	return r
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info(logging.CategoryServer, "listening", "", map[string]any{
		"bind": s.cfg.Server.Bind,
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) sessionTTL() time.Duration {
	return s.cfg.Session.TTL.Std()
}

func (s *Server) cookieName() string {
	return s.cfg.Session.CookieName
}
