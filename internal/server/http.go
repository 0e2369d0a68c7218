package server

import (
	"context"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// HTTPServer serves the MCP protocol over streamable HTTP alongside the
// health endpoints. Unlike the stdio transport there can be several
// concurrent MCP sessions; they all share one ServerContext.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	httpServer *http.Server

	healthChecker *HealthChecker
}

// NewHTTPServer creates an HTTP server for the given MCP server.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer) *HTTPServer {
	return &HTTPServer{mcpServer: mcpSrv}
}

// SetHealthChecker wires liveness and readiness endpoints into the server.
func (s *HTTPServer) SetHealthChecker(hc *HealthChecker) {
	s.healthChecker = hc
}

// Start binds addr and serves until Shutdown or a listener error. Blocking.
func (s *HTTPServer) Start(addr string) error {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)
	mux.Handle("/mcp", streamable)

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
