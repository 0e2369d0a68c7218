package message_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/telegram-mcp/internal/instrumentation"
	"github.com/teemow/telegram-mcp/internal/schema"
	"github.com/teemow/telegram-mcp/internal/server"
	"github.com/teemow/telegram-mcp/internal/telegram"
	"github.com/teemow/telegram-mcp/internal/tools/common"
)

var getMessageContextSchema = schema.Object{
	"chat_id":         {Type: schema.String, Required: true, MinLen: 1},
	"message_id":      {Type: schema.Integer, Required: true},
	"include_replies": {Type: schema.Boolean, Default: true},
	"include_thread":  {Type: schema.Boolean, Default: false},
}

// RegisterContextTools registers the message context tool.
func RegisterContextTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getMessageContextTool := mcp.NewTool("get_message_context",
		mcp.WithDescription("Get a message together with the reply chain it belongs to and optionally its thread"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithNumber("message_id",
			mcp.Required(),
			mcp.Description("ID of the message to build context for"),
		),
		mcp.WithBoolean("include_replies",
			mcp.Description("Walk the chain of messages this message replies to (default: true)"),
		),
		mcp.WithBoolean("include_thread",
			mcp.Description("Include the forum topic thread the message belongs to (default: false)"),
		),
	)
	s.AddTool(getMessageContextTool, common.TelegramToolHandler("get_message_context", instrumentation.CategoryMessages, instrumentation.OperationGet, sc, handleGetMessageContext))

	return nil
}

// handleGetMessageContext handles the get_message_context tool.
func handleGetMessageContext(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := getMessageContextSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	messageID := args["message_id"].(int)
	includeReplies := args["include_replies"].(bool)
	includeThread := args["include_thread"].(bool)

	mc, err := telegram.NewContextBuilder(api).Build(ctx, chatID, messageID, includeReplies, includeThread)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Context for message %d in chat %s:\n", messageID, chatID)
	formatMessageEntry(&b, 1, mc.Message)

	if includeReplies {
		if len(mc.ReplyChain) > 0 {
			fmt.Fprintf(&b, "\nReply chain (%d message(s), nearest first):\n", len(mc.ReplyChain))
			for i, msg := range mc.ReplyChain {
				formatMessageEntry(&b, i+1, msg)
			}
		} else {
			b.WriteString("\nNo reply chain\n")
		}
		for _, diag := range mc.Skipped {
			fmt.Fprintf(&b, "\nNote: %s\n", diag)
		}
	}

	if includeThread {
		if len(mc.Thread) > 0 {
			fmt.Fprintf(&b, "\nThread (%d message(s)):\n", len(mc.Thread))
			for i := range mc.Thread {
				formatMessageEntry(&b, i+1, &mc.Thread[i])
			}
		} else {
			b.WriteString("\nNo thread messages\n")
		}
		if mc.ThreadErr != "" {
			fmt.Fprintf(&b, "\nNote: thread could not be fetched: %s\n", mc.ThreadErr)
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
