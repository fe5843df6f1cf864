package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agentstation/stargazer/internal/server/handlers"
	"github.com/agentstation/stargazer/internal/server/middleware"
	"github.com/agentstation/stargazer/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Metrics(s.app.Metrics()))

	h := handlers.New(s.app, s.logger, s.startTime)
	s.registerRoutes(router, h)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Resource not found", r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method)
	})

	return s.applyMiddleware(router)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(router *mux.Router, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	router.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health endpoints
	router.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
	if prefix != "" {
		router.HandleFunc(prefix+"/health", h.HandleHealth).Methods(http.MethodGet)
	}
	router.HandleFunc(prefix+"/ready", h.HandleReady).Methods(http.MethodGet)

	// Search never sees a credential
	router.HandleFunc(prefix+"/github/repositories", h.HandleSearch).Methods(http.MethodGet)

	// Star endpoints require a bearer credential
	stars := router.PathPrefix(prefix + "/github/starred").Subrouter()
	stars.Use(middleware.RequireCredential(s.logger))
	stars.HandleFunc("/{owner}/{repo}", h.HandleStarStatus).Methods(http.MethodGet)
	stars.HandleFunc("/{owner}/{repo}", h.HandleStar).Methods(http.MethodPut)
	stars.HandleFunc("/{owner}/{repo}", h.HandleUnstar).Methods(http.MethodDelete)

	if s.config.MetricsEnabled {
		router.Handle("/metrics", s.app.Metrics().Handler()).Methods(http.MethodGet)
	}
}

// applyMiddleware wraps handler with the middleware chain. The first entry
// is the outermost.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		}
		for _, origin := range cfg.CORSOrigins {
			if origin == "*" {
				corsConfig.AllowAll = true
			}
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if s.limiter != nil {
		chain = append(chain, middleware.RateLimit(s.limiter))
	}

	return middleware.Chain(chain...)(handler)
}
