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

// Unscoped search fans out over recent chats. The fetch and search counts
// bound worst-case latency: a search never touches more than
// recentChatsSearched chats, and each per-chat search is capped at
// perChatSearchCap results.
const (
	recentChatsFetch    = 20
	recentChatsSearched = 10
	perChatSearchCap    = 10
)

var searchMessagesSchema = schema.Object{
	"query":   {Type: schema.String, Required: true, MinLen: 1},
	"chat_id": {Type: schema.String, MinLen: 1},
	"limit":   {Type: schema.Integer, Default: 20, Min: schema.Float64Ptr(1), Max: schema.Float64Ptr(100)},
}

// RegisterSearchTools registers the message search tool.
func RegisterSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchMessagesTool := mcp.NewTool("search_messages",
		mcp.WithDescription("Search messages by text, either within one chat or across recent chats"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithString("chat_id",
			mcp.Description("Chat ID or username to search in; omit to search across recent chats"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 20, max: 100)"),
		),
	)
	s.AddTool(searchMessagesTool, common.TelegramToolHandler("search_messages", instrumentation.CategoryMessages, instrumentation.OperationSearch, sc, handleSearchMessages))

	return nil
}

// handleSearchMessages handles the search_messages tool.
func handleSearchMessages(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := searchMessagesSchema.Validate(args); err != nil {
		return "", err
	}
	query := args["query"].(string)
	limit := args["limit"].(int)

	if chatID, ok := args["chat_id"].(string); ok && chatID != "" {
		return searchScoped(ctx, api, chatID, query, limit)
	}
	return searchUnscoped(ctx, api, query, limit)
}

// searchScoped runs a single remote search in one chat.
func searchScoped(ctx context.Context, api telegram.API, chatID, query string, limit int) (string, error) {
	result, err := api.SearchMessages(ctx, chatID, query, limit)
	if err != nil {
		return "", err
	}

	total := result.TotalCount
	if total < len(result.Messages) {
		total = len(result.Messages)
	}

	if len(result.Messages) == 0 {
		return fmt.Sprintf("No messages found matching %q in chat %s", query, chatID), nil
	}

	header := fmt.Sprintf("Found %d message(s) matching %q in chat %s (total matches: %d):",
		len(result.Messages), query, chatID, total)
	return formatMessageList(header, result.Messages), nil
}

// searchUnscoped fans out over the account's recent chats. Per-chat search
// failures are swallowed; the failed chats are reported in a footer instead
// of aborting the whole search.
func searchUnscoped(ctx context.Context, api telegram.API, query string, limit int) (string, error) {
	chats, err := api.GetChats(ctx, recentChatsFetch)
	if err != nil {
		return "", err
	}
	if len(chats) > recentChatsSearched {
		chats = chats[:recentChatsSearched]
	}

	perChat := limit
	if perChat > perChatSearchCap {
		perChat = perChatSearchCap
	}

	var messages []telegram.Message
	var skipped []string
	total := 0

	for _, chat := range chats {
		if len(messages) >= limit {
			break
		}

		result, err := api.SearchMessages(ctx, chat.ID, query, perChat)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s (%s)", chat.Title, chat.ID))
			continue
		}

		chatTotal := result.TotalCount
		if chatTotal < len(result.Messages) {
			chatTotal = len(result.Messages)
		}
		total += chatTotal

		for i := range result.Messages {
			if len(messages) >= limit {
				break
			}
			messages = append(messages, result.Messages[i])
		}
	}

	var b strings.Builder
	if len(messages) == 0 {
		fmt.Fprintf(&b, "No messages found matching %q in recent chats", query)
	} else {
		header := fmt.Sprintf("Found %d message(s) matching %q across recent chats (total matches: %d):",
			len(messages), query, total)
		b.WriteString(formatMessageList(header, messages))
	}
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "\n\nSkipped %d chat(s) that could not be searched: %s",
			len(skipped), strings.Join(skipped, ", "))
	}
	return b.String(), nil
}
