// Package api provides the HTTP API server and handlers for the BookCircle application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookcircleapp/bookcircle-server/internal/auth"
	"github.com/bookcircleapp/bookcircle-server/internal/media/covers"
	"github.com/bookcircleapp/bookcircle-server/internal/ratelimit"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
	"github.com/bookcircleapp/bookcircle-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	services    *Services
	store       store.Store
	covers      *covers.Storage
	tokens      *auth.TokenService
	validator   *validation.Validator
	rateLimiter *ratelimit.KeyedRateLimiter
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, st store.Store, coverStorage *covers.Storage, tokens *auth.TokenService, rateLimiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		services:    services,
		store:       st,
		covers:      coverStorage,
		tokens:      tokens,
		validator:   validation.New(),
		rateLimiter: rateLimiter,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	// Middleware must be attached before humachi registers the OpenAPI routes.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("BookCircle API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerLendingRoutes()
	s.registerFeedbackRoutes()
	s.registerCoverRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.rateLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.rateLimiter, s.logger))
	}
}
