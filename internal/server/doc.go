// Package server provides the MCP server context, health probes, and the
// standalone metrics endpoint for telegram-mcp.
//
// # Key Components
//
// ServerContext owns the Telegram client and the shutdown lifecycle. The
// client is connected lazily: the first tool call goes through EnsureReady,
// which dials Telegram and runs the interactive authorization flow if the
// stored session is missing or expired. Tests inject a fake client through
// SetAPI.
//
// HealthChecker exposes /healthz and /readyz handlers for Kubernetes probes.
// Readiness reports the Telegram connection state but does not fail on it,
// since the connection is only established on first use.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolating
// operational metrics from the MCP transport.
package server
