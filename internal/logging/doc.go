// Package logging provides structured logging utilities for the telegram-mcp
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (phone number anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "send_message")
//	logger.Info("message sent",
//	    logging.ChatID(chatID),
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("session loaded",
//	    logging.PhoneHash(cfg.PhoneNumber))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Phone numbers are hashed to prevent PII leakage while allowing correlation
//   - Session tokens are never logged directly
package logging
