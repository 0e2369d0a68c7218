package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/telegram-mcp/internal/instrumentation"
	"github.com/teemow/telegram-mcp/internal/server"
	"github.com/teemow/telegram-mcp/internal/telegram"
	"github.com/teemow/telegram-mcp/internal/toolerr"
)

// ToolHandler is the handler shape the MCP dispatcher calls.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// TelegramHandler is the core of a tool. It receives a connected Telegram
// client and returns the text payload for the tool result.
type TelegramHandler func(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error)

// TelegramToolHandler adapts a TelegramHandler into an MCP tool handler.
// It connects the Telegram client on first use, classifies failures into
// stable error strings, and records metrics and audit entries when
// instrumentation is configured.
//
// Usage:
//
//	s.AddTool(tool, common.TelegramToolHandler("send_message", instrumentation.CategoryMessages, instrumentation.OperationSend, sc, handler))
func TelegramToolHandler(
	toolName string,
	category string,
	operation string,
	sc *server.ServerContext,
	handler TelegramHandler,
) ToolHandler {
	core := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		api, err := sc.EnsureReady(ctx)
		if err != nil {
			return mcp.NewToolResultError(toolerr.Classify(err).Error()), nil
		}

		text, err := handler(ctx, api, request)
		if err != nil {
			return mcp.NewToolResultError(toolerr.Classify(err).Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}

	return InstrumentedToolHandler(toolName, category, operation, sc, core)
}

// WriteToolHandler is TelegramToolHandler for tools that modify account
// state. When the server runs read-only the handler rejects every call with
// an informational error instead of reaching Telegram.
func WriteToolHandler(
	toolName string,
	category string,
	operation string,
	sc *server.ServerContext,
	handler TelegramHandler,
) ToolHandler {
	if sc.ReadOnly() {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("Cannot modify data in read-only mode. Use --yolo flag to enable write operations."), nil
		}
	}
	return TelegramToolHandler(toolName, category, operation, sc, handler)
}

// InstrumentedToolHandler wraps a tool handler with metrics and audit
// logging. It records both the MCP tool invocation and the underlying
// Telegram API operation.
//
// Failures surfaced as error results (IsError on the result, nil Go error)
// count as errors too; that is how tool handlers report remote failures.
func InstrumentedToolHandler(
	toolName string,
	category string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// No instrumentation configured, skip the bookkeeping.
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithCategory(category, operation)

		if chatID := ChatIDFromArgs(request.GetArguments()); chatID != "" {
			invocation.WithChat(chatID)
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, duration)
			metrics.RecordTelegramOperation(ctx, category, operation, status, duration)
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
