package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyTool      = "tool"
	KeyChatID    = "chat_id"
	KeyMessageID = "message_id"
	KeyPhoneHash = "phone_hash"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyTransport = "transport"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// ChatID returns a slog attribute for the chat being operated on.
func ChatID(chatID string) slog.Attr {
	return slog.String(KeyChatID, chatID)
}

// MessageID returns a slog attribute for a message id.
func MessageID(id int) slog.Attr {
	return slog.Int(KeyMessageID, id)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Transport returns a slog attribute for the serving transport.
func Transport(transport string) slog.Attr {
	return slog.String(KeyTransport, transport)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizePhone returns a hashed representation of a phone number for
// logging purposes. This allows correlation of log entries without exposing
// PII.
func AnonymizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(phone))
	return "phone:" + hex.EncodeToString(hash[:8])
}

// AnonymizeID returns a hashed representation of an arbitrary identifier,
// such as a chat id, for correlation without exposure.
func AnonymizeID(id string) string {
	if id == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(id))
	return "id:" + hex.EncodeToString(hash[:8])
}

// PhoneHash returns a slog attribute with the anonymized phone number.
// This is a convenience function to reduce repetition in logging calls and
// ensure consistent attribute naming across the codebase.
//
// Usage:
//
//	logger.Info("session loaded", logging.PhoneHash(cfg.PhoneNumber))
func PhoneHash(phone string) slog.Attr {
	return slog.String(KeyPhoneHash, AnonymizePhone(phone))
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
