package server

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hongminglow/jbudget-be/internal/auth"
	"github.com/hongminglow/jbudget-be/internal/config"
	"github.com/hongminglow/jbudget-be/internal/http/handlers"
	"github.com/hongminglow/jbudget-be/internal/middleware"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, log logrus.FieldLogger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// NewHandler builds the complete routed handler chain.
func NewHandler(cfg config.Config, store storage.Store, log logrus.FieldLogger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	protect := handlers.Middleware(middleware.Authenticate(tokens, store, log))

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokens, log).Register(mux, protect)
	handlers.NewTagHandler(store, store, log).Register(mux, protect)
	handlers.NewTransactionHandler(store, log).Register(mux, protect)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(log, mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
