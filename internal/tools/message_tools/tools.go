package message_tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/telegram-mcp/internal/instrumentation"
	"github.com/teemow/telegram-mcp/internal/schema"
	"github.com/teemow/telegram-mcp/internal/server"
	"github.com/teemow/telegram-mcp/internal/telegram"
	"github.com/teemow/telegram-mcp/internal/toolerr"
	"github.com/teemow/telegram-mcp/internal/tools/common"
)

var getMessagesSchema = schema.Object{
	"chat_id":         {Type: schema.String, Required: true, MinLen: 1},
	"limit":           {Type: schema.Integer, Default: 20, Min: schema.Float64Ptr(1), Max: schema.Float64Ptr(100)},
	"from_message_id": {Type: schema.Integer, Default: 0},
}

var sendMessageSchema = schema.Object{
	"chat_id":             {Type: schema.String, Required: true, MinLen: 1},
	"text":                {Type: schema.String, Required: true, MinLen: 1},
	"reply_to_message_id": {Type: schema.Integer, Default: 0},
}

var editMessageSchema = schema.Object{
	"chat_id":    {Type: schema.String, Required: true, MinLen: 1},
	"message_id": {Type: schema.Integer, Required: true},
	"new_text":   {Type: schema.String, Required: true, MinLen: 1},
}

var deleteMessageSchema = schema.Object{
	"chat_id":    {Type: schema.String, Required: true, MinLen: 1},
	"message_id": {Type: schema.Integer, Required: true},
}

var forwardMessageSchema = schema.Object{
	"from_chat_id": {Type: schema.String, Required: true, MinLen: 1},
	"message_id":   {Type: schema.Integer, Required: true},
	"to_chat_id":   {Type: schema.String, Required: true, MinLen: 1},
}

var markAsReadSchema = schema.Object{
	"chat_id":     {Type: schema.String, Required: true, MinLen: 1},
	"message_ids": {Type: schema.Array, Required: true, MinItems: 1},
}

// RegisterMessageTools registers all message-related tools with the MCP
// server. Read tools are always available; write tools go through the
// read-only gate.
func RegisterMessageTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterSearchTools(s, sc); err != nil {
		return fmt.Errorf("failed to register search tools: %w", err)
	}
	if err := RegisterContextTools(s, sc); err != nil {
		return fmt.Errorf("failed to register context tools: %w", err)
	}

	getMessagesTool := mcp.NewTool("get_messages",
		mcp.WithDescription("Get recent messages from a chat, newest first. Use chat_id 'me' for saved messages."),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID, username (e.g., '@channel'), or 'me' for saved messages"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return (default: 20, max: 100)"),
		),
		mcp.WithNumber("from_message_id",
			mcp.Description("Return messages older than this message ID (pagination cursor)"),
		),
	)
	s.AddTool(getMessagesTool, common.TelegramToolHandler("get_messages", instrumentation.CategoryMessages, instrumentation.OperationList, sc, handleGetMessages))

	sendMessageTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a plain text message to a chat"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username to send to"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Message text"),
		),
		mcp.WithNumber("reply_to_message_id",
			mcp.Description("Message ID to reply to"),
		),
	)
	s.AddTool(sendMessageTool, common.WriteToolHandler("send_message", instrumentation.CategoryMessages, instrumentation.OperationSend, sc, handleSendMessage))

	editMessageTool := mcp.NewTool("edit_message",
		mcp.WithDescription("Replace the text of a previously sent message"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithNumber("message_id",
			mcp.Required(),
			mcp.Description("ID of the message to edit"),
		),
		mcp.WithString("new_text",
			mcp.Required(),
			mcp.Description("Replacement text"),
		),
	)
	s.AddTool(editMessageTool, common.WriteToolHandler("edit_message", instrumentation.CategoryMessages, instrumentation.OperationEdit, sc, handleEditMessage))

	deleteMessageTool := mcp.NewTool("delete_message",
		mcp.WithDescription("Delete a message for everyone in the chat"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithNumber("message_id",
			mcp.Required(),
			mcp.Description("ID of the message to delete"),
		),
	)
	s.AddTool(deleteMessageTool, common.WriteToolHandler("delete_message", instrumentation.CategoryMessages, instrumentation.OperationDelete, sc, handleDeleteMessage))

	forwardMessageTool := mcp.NewTool("forward_message",
		mcp.WithDescription("Forward a message to another chat, preserving its origin"),
		mcp.WithString("from_chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username the message lives in"),
		),
		mcp.WithNumber("message_id",
			mcp.Required(),
			mcp.Description("ID of the message to forward"),
		),
		mcp.WithString("to_chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username to forward to"),
		),
	)
	s.AddTool(forwardMessageTool, common.WriteToolHandler("forward_message", instrumentation.CategoryMessages, instrumentation.OperationForward, sc, handleForwardMessage))

	markAsReadTool := mcp.NewTool("mark_as_read",
		mcp.WithDescription("Mark messages in a chat as read"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithArray("message_ids",
			mcp.Required(),
			mcp.Description("Message IDs to mark as read (at least one)"),
		),
	)
	s.AddTool(markAsReadTool, common.WriteToolHandler("mark_as_read", instrumentation.CategoryMessages, instrumentation.OperationRead, sc, handleMarkAsRead))

	return nil
}

// resolveChatID maps the "me"/"self" aliases to the account's own numeric
// id; everything else passes through untouched.
func resolveChatID(ctx context.Context, api telegram.API, chatID string) (string, error) {
	if chatID != "me" && chatID != "self" {
		return chatID, nil
	}
	me, err := api.GetMe(ctx)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(me.ID, 10), nil
}

// handleGetMessages handles the get_messages tool.
func handleGetMessages(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := getMessagesSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	limit := args["limit"].(int)
	fromID := args["from_message_id"].(int)

	chatID, err := resolveChatID(ctx, api, chatID)
	if err != nil {
		return "", err
	}

	messages, err := api.GetMessages(ctx, chatID, limit, fromID)
	if err != nil {
		return "", err
	}

	if len(messages) == 0 {
		return fmt.Sprintf("No messages found in chat %s", chatID), nil
	}
	return formatMessageList(fmt.Sprintf("Found %d message(s) in chat %s:", len(messages), chatID), messages), nil
}

// handleSendMessage handles the send_message tool.
func handleSendMessage(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := sendMessageSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	text := args["text"].(string)
	replyTo := args["reply_to_message_id"].(int)

	msg, err := api.SendMessage(ctx, chatID, text, replyTo)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Message sent to %s\n  Message ID: %d", chatID, msg.ID), nil
}

// handleEditMessage handles the edit_message tool.
func handleEditMessage(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := editMessageSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	messageID := args["message_id"].(int)
	newText := args["new_text"].(string)

	if err := api.EditMessage(ctx, chatID, messageID, newText); err != nil {
		return "", err
	}
	return fmt.Sprintf("Message %d edited in chat %s", messageID, chatID), nil
}

// handleDeleteMessage handles the delete_message tool. Deletion always
// revokes for everyone, not just locally.
func handleDeleteMessage(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := deleteMessageSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	messageID := args["message_id"].(int)

	if err := api.DeleteMessage(ctx, chatID, messageID, true); err != nil {
		return "", err
	}
	return fmt.Sprintf("Message %d deleted from chat %s (revoked for everyone)", messageID, chatID), nil
}

// handleForwardMessage handles the forward_message tool.
func handleForwardMessage(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := forwardMessageSchema.Validate(args); err != nil {
		return "", err
	}
	fromChatID := args["from_chat_id"].(string)
	messageID := args["message_id"].(int)
	toChatID := args["to_chat_id"].(string)

	if err := api.ForwardMessage(ctx, fromChatID, messageID, toChatID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Message %d forwarded from %s to %s", messageID, fromChatID, toChatID), nil
}

// handleMarkAsRead handles the mark_as_read tool.
func handleMarkAsRead(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := markAsReadSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)

	items := args["message_ids"].([]any)
	ids := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := item.(float64)
		if !ok || n != float64(int(n)) {
			return "", toolerr.New(toolerr.InvalidParams, "message_ids: every element must be an integer message ID")
		}
		ids = append(ids, int(n))
	}

	if err := api.MarkAsRead(ctx, chatID, ids, true); err != nil {
		return "", err
	}
	return fmt.Sprintf("Marked %d message(s) as read in chat %s", len(ids), chatID), nil
}
