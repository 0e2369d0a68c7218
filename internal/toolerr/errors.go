// Package toolerr maps arbitrary failures onto the closed error taxonomy the
// tool surface reports to clients. Classification happens exactly once, at
// the handler boundary; everything below returns plain errors.
package toolerr

import (
	"errors"
	"strings"

	"github.com/teemow/telegram-mcp/internal/schema"
	"github.com/teemow/telegram-mcp/internal/telegram"
)

// Kind is one of the fixed error categories a tool result can carry.
// MethodNotFound is not produced here: unknown tool names never reach a
// handler, the protocol dispatcher rejects them first.
type Kind string

const (
	InvalidParams  Kind = "InvalidParams"
	InvalidRequest Kind = "InvalidRequest"
	InternalError  Kind = "InternalError"
)

// Error is a classified tool failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// New builds a classified error directly, for call sites that already know
// the category.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Classify maps err onto the taxonomy. Already-classified errors pass through
// unchanged, so wrapping a handler twice cannot re-categorize a failure.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return &Error{Kind: InvalidParams, Message: verr.Error()}
	}

	if errors.Is(err, telegram.ErrNotConnected) {
		return &Error{Kind: InternalError, Message: "Telegram connection not initialized"}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "PHONE_NUMBER_INVALID"):
		return &Error{Kind: InvalidRequest, Message: "Invalid phone number format"}
	case strings.Contains(msg, "CHAT_ID_INVALID"), strings.Contains(msg, "PEER_ID_INVALID"):
		return &Error{Kind: InvalidRequest, Message: "Invalid chat ID"}
	case strings.Contains(msg, "USER_ID_INVALID"):
		return &Error{Kind: InvalidRequest, Message: "Invalid user ID"}
	}

	if msg == "" {
		return &Error{Kind: InternalError, Message: "Unknown error occurred"}
	}
	return &Error{Kind: InternalError, Message: "Operation failed: " + msg}
}
