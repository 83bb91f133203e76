// Package api serves the section index over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/itsmostafa/specindex/internal/output"
	"github.com/itsmostafa/specindex/internal/specindex"
)

// maxBodyBytes bounds request bodies; page text of large specs runs to tens of megabytes.
const maxBodyBytes = 64 << 20

// Server is the HTTP API server for specindex.
type Server struct {
	router  chi.Router
	config  *specindex.Config
	checker *output.Checker
	log     *zap.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(config *specindex.Config, log *zap.Logger) (*Server, error) {
	if config == nil {
		config = specindex.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	checker, err := output.NewChecker()
	if err != nil {
		return nil, err
	}

	s := &Server{config: config, checker: checker, log: log}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/parse", s.handleParse)
		r.Post("/validate", s.handleValidate)
		r.Post("/check/{schema}", s.handleCheck)
	})

	s.router = r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
