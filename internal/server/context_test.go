package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/teemow/telegram-mcp/internal/config"
	"github.com/teemow/telegram-mcp/internal/telegram/telegramtest"
)

func testServerContext(t *testing.T, readOnly bool) *ServerContext {
	t.Helper()
	cfg := &config.Config{
		APIID:       12345,
		APIHash:     "test-hash",
		PhoneNumber: "+15555550100",
		SessionDir:  t.TempDir(),
		DownloadDir: t.TempDir(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sc := NewServerContext(context.Background(), cfg, logger, readOnly)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestNewServerContext(t *testing.T) {
	sc := testServerContext(t, false)

	if sc.IsConnected() {
		t.Error("expected new context to start disconnected")
	}
	if sc.IsShutdown() {
		t.Error("expected new context to not be shutdown")
	}
	if sc.ReadOnly() {
		t.Error("expected ReadOnly() = false")
	}
	if sc.API() == nil {
		t.Error("expected API() to be non-nil")
	}
	if sc.Config() == nil {
		t.Error("expected Config() to be non-nil")
	}
}

func TestServerContext_ReadOnly(t *testing.T) {
	sc := testServerContext(t, true)
	if !sc.ReadOnly() {
		t.Error("expected ReadOnly() = true")
	}
}

func TestServerContext_SetAPI(t *testing.T) {
	sc := testServerContext(t, false)

	fake := &telegramtest.Fake{}
	sc.SetAPI(fake)

	if !sc.IsConnected() {
		t.Error("expected SetAPI to mark the client connected")
	}

	// EnsureReady must not dial again for an injected client.
	api, err := sc.EnsureReady(context.Background())
	if err != nil {
		t.Fatalf("EnsureReady() error = %v", err)
	}
	if api != fake {
		t.Error("expected EnsureReady to return the injected client")
	}
	for _, name := range fake.CallNames() {
		if name == "Connect" {
			t.Error("expected no Connect call for injected client")
		}
	}
}

func TestServerContext_EnsureReadyConnects(t *testing.T) {
	sc := testServerContext(t, false)

	fake := &telegramtest.Fake{}
	sc.SetAPI(fake)

	// Force a reconnect path by simulating a fresh context.
	sc.connected = false

	if _, err := sc.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady() error = %v", err)
	}
	if !sc.IsConnected() {
		t.Error("expected context to be connected after EnsureReady")
	}
	names := fake.CallNames()
	if len(names) != 1 || names[0] != "Connect" {
		t.Errorf("expected exactly one Connect call, got %v", names)
	}

	// Second call reuses the connection.
	if _, err := sc.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady() second call error = %v", err)
	}
	if got := len(fake.CallNames()); got != 1 {
		t.Errorf("expected 1 recorded call after second EnsureReady, got %d", got)
	}
}

func TestServerContext_EnsureReadyConnectFails(t *testing.T) {
	sc := testServerContext(t, false)

	fake := &telegramtest.Fake{}
	fake.Err = errors.New("AUTH_KEY_UNREGISTERED")
	sc.SetAPI(fake)
	sc.connected = false

	if _, err := sc.EnsureReady(context.Background()); err == nil {
		t.Fatal("expected EnsureReady to fail when Connect fails")
	}
	if sc.IsConnected() {
		t.Error("expected context to stay disconnected after failed Connect")
	}

	// A later call retries the connection.
	fake.Err = nil
	if _, err := sc.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady() retry error = %v", err)
	}
	if !sc.IsConnected() {
		t.Error("expected context to be connected after retry")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := testServerContext(t, false)

	fake := &telegramtest.Fake{}
	sc.SetAPI(fake)

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("expected IsShutdown() = true after Shutdown")
	}
	if sc.IsConnected() {
		t.Error("expected client to be disconnected after Shutdown")
	}

	disconnected := false
	for _, name := range fake.CallNames() {
		if name == "Disconnect" {
			disconnected = true
		}
	}
	if !disconnected {
		t.Error("expected Shutdown to disconnect the Telegram client")
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("expected server context to be cancelled after Shutdown")
	}

	// Second Shutdown is a no-op.
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

// disconnectCapture records the state of the context handed to Disconnect.
type disconnectCapture struct {
	telegramtest.Fake
	ctxErr      error
	hasDeadline bool
}

func (d *disconnectCapture) Disconnect(ctx context.Context) error {
	d.ctxErr = ctx.Err()
	_, d.hasDeadline = ctx.Deadline()
	return nil
}

func TestServerContext_ShutdownDrainsWithFreshContext(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	cfg := &config.Config{
		APIID:       12345,
		APIHash:     "test-hash",
		PhoneNumber: "+15555550100",
		SessionDir:  t.TempDir(),
		DownloadDir: t.TempDir(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sc := NewServerContext(parent, cfg, logger, false)

	fake := &disconnectCapture{}
	sc.SetAPI(fake)

	// A signal has already ended the parent context by the time the server
	// shuts down. The disconnect drain must still get a live context.
	parentCancel()

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if fake.ctxErr != nil {
		t.Errorf("Disconnect received an already-done context: %v", fake.ctxErr)
	}
	if !fake.hasDeadline {
		t.Error("expected the disconnect context to carry a drain deadline")
	}
}
