package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/telegram-mcp/internal/config"
	"github.com/teemow/telegram-mcp/internal/instrumentation"
	"github.com/teemow/telegram-mcp/internal/telegram"
)

// ServerContext holds the shared state for the MCP server: the Telegram
// client, the process configuration, and the shutdown lifecycle.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg    *config.Config
	logger *slog.Logger

	api       telegram.API
	connected bool

	readOnly bool

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. The Telegram client is not
// connected yet; the first tool call triggers authorization via EnsureReady.
func NewServerContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, readOnly bool) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger,
		api:      telegram.NewClient(shutdownCtx, cfg, logger),
		readOnly: readOnly,
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the process configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// ReadOnly reports whether write tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// API returns the Telegram client without connecting it. Most callers want
// EnsureReady instead.
func (sc *ServerContext) API() telegram.API {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.api
}

// SetAPI replaces the Telegram client. The replacement is treated as already
// connected; tests use this to inject fakes.
func (sc *ServerContext) SetAPI(api telegram.API) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.api = api
	sc.connected = true
}

// EnsureReady returns the Telegram client, connecting it on first use. The
// connection is attempted again on the next call if it fails.
func (sc *ServerContext) EnsureReady(ctx context.Context) (telegram.API, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.connected {
		return sc.api, nil
	}

	if err := sc.api.Connect(ctx); err != nil {
		return nil, err
	}

	sc.connected = true
	return sc.api, nil
}

// SetInstrumentation wires the metrics recorder and audit logger. Both may
// be nil when observability is disabled.
func (sc *ServerContext) SetInstrumentation(metrics *instrumentation.Metrics, auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.auditLogger = auditLogger
}

// Metrics returns the metrics recorder, or nil when disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsConnected reports whether the Telegram client has been connected.
func (sc *ServerContext) IsConnected() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.connected
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown disconnects the Telegram client and cancels the server context.
// It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true

	if sc.connected {
		// The server context is usually already cancelled at this point, so
		// the disconnect drain gets its own grace window.
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := sc.api.Disconnect(drainCtx); err != nil {
			sc.logger.Warn("telegram disconnect failed", "error", err)
		}
		cancel()
		sc.connected = false
	}

	sc.cancel()
	return nil
}
