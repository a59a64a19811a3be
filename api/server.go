package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/storage"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Dependencies are the long-lived components the handlers are built from
type Dependencies struct {
	Database database.Database
	Mailer   services.Mailer
	Assets   storage.AssetStore
	Tokens   *auth.TokenManager
}

func (d Dependencies) validate() error {
	switch {
	case d.Mailer == nil:
		return errors.New("api: mailer is required")
	case d.Assets == nil:
		return errors.New("api: asset store is required")
	case d.Tokens == nil:
		return errors.New("api: token manager is required")
	}
	return nil
}

func NewServer(cfg config.Config, deps Dependencies) (Server, error) {
	if err := deps.validate(); err != nil {
		return Server{}, err
	}

	startupTime := time.Now()
	router := newRouter(cfg, deps, withStartupTime(startupTime))

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),  // Timeout for reading the entire request
		WriteTimeout: cfg.WriteTimeout(), // Timeout for writing the response
		IdleTimeout:  cfg.IdleTimeout(),  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

// NewRouter builds the full handler tree without a listening server
func NewRouter(cfg config.Config, deps Dependencies) (http.Handler, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return newRouter(cfg, deps), nil
}

type router struct {
	startupTime time.Time
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(cfg config.Config, deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	metrics := newMetrics()

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(httpLoggingMiddleware(cfg.LogFormat))
	chiRouter.Use(metrics.instrument)

	// Every request carries an actor, anonymous when no valid token is present
	identify := newAuthMiddleware(deps.Tokens)
	chiRouter.Use(identify.identify)

	handlers := initializeHandlers(cfg, deps, metrics)

	setupPageRoutes(chiRouter, handlers)
	setupAPIRoutes(chiRouter, handlers, cfg.AcceptedOrigins)
	setupOperationalRoutes(chiRouter, handlers, metrics)
	setupMediaRoutes(chiRouter, deps.Assets)

	chiRouter.NotFound(handlers.pageHandler.notFound())

	log.Debug().Time("startupTime", router.startupTime).Msg("Router initialized")
	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
