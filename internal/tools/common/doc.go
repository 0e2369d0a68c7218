// Package common provides shared plumbing for MCP tool implementations:
// handler adapters that connect the Telegram client on first use, classify
// errors into stable strings, enforce read-only mode, and record metrics
// and audit entries.
package common
