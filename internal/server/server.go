package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server routes HTTP requests to the MCP endpoint and the health check.
type Server struct {
	mcp     http.Handler
	whois   whoIser
	log     *slog.Logger
	apiKey  string
	version string
	router  chi.Router
}

// New creates a new Server with all routes configured. mcpHandler serves the
// streamable MCP transport.
func New(mcpHandler http.Handler, apiKey, version string, log *slog.Logger) *Server {
	s := &Server{
		mcp:     mcpHandler,
		log:     log,
		apiKey:  apiKey,
		version: version,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables tailnet caller identity in request logs. Call it
// before serving.
func (s *Server) SetTailscale(lc whoIser) {
	s.whois = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(s.identity)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	// MCP endpoint (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Handle("/mcp", s.mcp)
	})
}

func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.whois == nil {
			next.ServeHTTP(w, r)
			return
		}
		TailscaleIdentity(s.whois, s.log)(next).ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": s.version,
	}); err != nil {
		s.log.Error("encode health response", "error", err)
	}
}
