package chat_tools

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

// searchChatsFetchCap bounds how many chats the client-side search filter
// ever sees. Chats beyond the cap are invisible to search_chats.
const searchChatsFetchCap = 200

var listChatsSchema = schema.Object{
	"limit": {Type: schema.Integer, Default: 50, Min: schema.Float64Ptr(1), Max: schema.Float64Ptr(200)},
}

var getChatInfoSchema = schema.Object{
	"chat_id": {Type: schema.String, Required: true, MinLen: 1},
}

var searchChatsSchema = schema.Object{
	"query": {Type: schema.String, Required: true, MinLen: 1},
	"limit": {Type: schema.Integer, Default: 20, Min: schema.Float64Ptr(1), Max: schema.Float64Ptr(100)},
}

// RegisterChatTools registers all chat-related tools with the MCP server.
// All three are read-only.
func RegisterChatTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listChatsTool := mcp.NewTool("list_chats",
		mcp.WithDescription("List the account's chats, most recent first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of chats to return (default: 50, max: 200)"),
		),
	)
	s.AddTool(listChatsTool, common.TelegramToolHandler("list_chats", instrumentation.CategoryChats, instrumentation.OperationList, sc, handleListChats))

	getChatInfoTool := mcp.NewTool("get_chat_info",
		mcp.WithDescription("Get detailed information about a chat"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID (numeric) or username (e.g., '@channel')"),
		),
	)
	s.AddTool(getChatInfoTool, common.TelegramToolHandler("get_chat_info", instrumentation.CategoryChats, instrumentation.OperationGet, sc, handleGetChatInfo))

	searchChatsTool := mcp.NewTool("search_chats",
		mcp.WithDescription("Search chats by title or username (case-insensitive substring match)"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for in chat titles and usernames"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of matches to return (default: 20, max: 100)"),
		),
	)
	s.AddTool(searchChatsTool, common.TelegramToolHandler("search_chats", instrumentation.CategoryChats, instrumentation.OperationSearch, sc, handleSearchChats))

	return nil
}

// handleListChats handles the list_chats tool.
func handleListChats(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := listChatsSchema.Validate(args); err != nil {
		return "", err
	}
	limit := args["limit"].(int)

	chats, err := api.GetChats(ctx, limit)
	if err != nil {
		return "", err
	}

	if len(chats) == 0 {
		return "No chats found", nil
	}
	return formatChatList(chats, fmt.Sprintf("Found %d chat(s):", len(chats))), nil
}

// handleGetChatInfo handles the get_chat_info tool.
func handleGetChatInfo(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := getChatInfoSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)

	chat, err := api.GetChat(ctx, chatID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Chat Information:\n")
	fmt.Fprintf(&b, "  ID: %s\n", chat.ID)
	fmt.Fprintf(&b, "  Title: %s\n", chat.Title)
	fmt.Fprintf(&b, "  Type: %s\n", chat.Type)
	if chat.Username != "" {
		fmt.Fprintf(&b, "  Username: @%s\n", chat.Username)
	}
	if chat.MemberCount > 0 {
		fmt.Fprintf(&b, "  Members: %d\n", chat.MemberCount)
	}
	if chat.Description != "" {
		fmt.Fprintf(&b, "  Description: %s\n", chat.Description)
	}
	if flags := trustFlags(chat); flags != "" {
		fmt.Fprintf(&b, "  Flags: %s\n", flags)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// handleSearchChats handles the search_chats tool. The match is a
// client-side filter over the most recent chats, not a server-side search.
func handleSearchChats(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := searchChatsSchema.Validate(args); err != nil {
		return "", err
	}
	query := args["query"].(string)
	limit := args["limit"].(int)

	chats, err := api.GetChats(ctx, searchChatsFetchCap)
	if err != nil {
		return "", err
	}

	needle := strings.ToLower(query)
	var matches []telegram.Chat
	for _, chat := range chats {
		if strings.Contains(strings.ToLower(chat.Title), needle) ||
			(chat.Username != "" && strings.Contains(strings.ToLower(chat.Username), needle)) {
			matches = append(matches, chat)
			if len(matches) == limit {
				break
			}
		}
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No chats found matching %q", query), nil
	}
	return formatChatList(matches, fmt.Sprintf("Found %d chat(s) matching %q:", len(matches), query)), nil
}

func formatChatList(chats []telegram.Chat, header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for i, chat := range chats {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, chat.Title)
		fmt.Fprintf(&b, "   ID: %s\n", chat.ID)
		fmt.Fprintf(&b, "   Type: %s\n", chat.Type)
		if chat.Username != "" {
			fmt.Fprintf(&b, "   Username: @%s\n", chat.Username)
		}
		if chat.MemberCount > 0 {
			fmt.Fprintf(&b, "   Members: %d\n", chat.MemberCount)
		}
		if chat.Unread > 0 {
			fmt.Fprintf(&b, "   Unread: %d\n", chat.Unread)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func trustFlags(chat *telegram.Chat) string {
	var flags []string
	if chat.Verified {
		flags = append(flags, "verified")
	}
	if chat.Scam {
		flags = append(flags, "scam")
	}
	if chat.Fake {
		flags = append(flags, "fake")
	}
	return strings.Join(flags, ", ")
}
