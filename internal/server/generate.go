// Package server provides the HTTP server for the stargazer API.
//
// The package is layered:
//
//   - Server: core server struct holding the application and rate limiter
//   - Config: server configuration with defaults
//   - Router: gorilla/mux route registration and the middleware chain
//   - Handlers: HTTP request handlers organized by domain
//
// The architecture follows the pattern: CLI → App → Server → Router → Handlers
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	cfg.Port = 3010
//
//	srv, err := server.New(app, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	httpServer := srv.HTTPServer()
//	httpServer.ListenAndServe()
package server

//go:generate gomarkdoc --output README.md .
