package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with chat or user identifiers.

// ChatKindLabel reduces a chat identifier to a low-cardinality label. A chat
// id is either a @username reference or a numeric id; the label records only
// which form was used, never the value itself.
//
// Example:
//
//	ChatKindLabel("@gophers")    // "username"
//	ChatKindLabel("123456789")   // "numeric"
//	ChatKindLabel("")            // "unknown"
func ChatKindLabel(chatID string) string {
	if chatID == "" {
		return "unknown"
	}
	if strings.HasPrefix(chatID, "@") {
		return "username"
	}
	return "numeric"
}

// Common operation types for Telegram API metrics.
// Status and Category constants are defined in config.go.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationSend     = "send"
	OperationEdit     = "edit"
	OperationDelete   = "delete"
	OperationForward  = "forward"
	OperationSearch   = "search"
	OperationRead     = "read"
	OperationDownload = "download"
)
