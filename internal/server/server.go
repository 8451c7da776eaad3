package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/finsim/internal/app"
	"github.com/bobmcallan/finsim/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	router *chi.Mux
	server *http.Server
	mcp    *mcpserver.StreamableHTTPServer
	logger *common.Logger
}

// NewServer creates the REST API and streamable MCP server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		router: chi.NewRouter(),
		mcp:    mcpserver.NewStreamableHTTPServer(a.MCPServer, mcpserver.WithStateLess(true)),
		logger: a.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP and MCP transports.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.mcp.Shutdown(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("MCP transport shutdown failed")
	}
	return s.server.Shutdown(ctx)
}
