// Package server is the score backend the Mini App and remote terminal
// clients talk to.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/storage"
)

// Store is the persistence the handlers need. *storage.Store implements it.
type Store interface {
	progression.Backend
	Ping(ctx context.Context) error
	UserBest(ctx context.Context, userID string) (*storage.ScoreEntry, error)
	UserScores(ctx context.Context, userID string, limit int) ([]storage.ScoreEntry, error)
	UserSkins(ctx context.Context, userID string) ([]storage.OwnedSkin, error)
	RankPosition(ctx context.Context, score int) (storage.Position, error)
	GlobalStats(ctx context.Context) (storage.GlobalStats, error)
	ExportLeaderboardCSV(ctx context.Context, w io.Writer, limit int) error
}

var _ Store = (*storage.Store)(nil)

// Options configures the HTTP server.
type Options struct {
	Addr string
	// BotToken verifies Telegram init data. Empty disables verification.
	BotToken string
	// Dev skips authentication entirely.
	Dev        bool
	AuthMaxAge time.Duration
}

type Server struct {
	srv    *http.Server
	logger *log.Logger
}

func New(opts Options, logger *log.Logger, store Store) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newRequestLogger(logger))
	r.Use(middleware.Recoverer)

	addRoutes(r, logger, store, opts)

	return &Server{
		srv: &http.Server{
			Addr:              opts.Addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	s.logger.Info("http server listening", "addr", ln.Addr().String())
	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func newRequestLogger(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
