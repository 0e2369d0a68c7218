package user_tools

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

var getUserInfoSchema = schema.Object{
	"user_id": {Type: schema.String, Required: true, MinLen: 1},
}

// RegisterUserTools registers the user lookup tool.
func RegisterUserTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getUserInfoTool := mcp.NewTool("get_user_info",
		mcp.WithDescription("Get profile information about a Telegram user"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("User ID, username or phone number"),
		),
	)
	s.AddTool(getUserInfoTool, common.TelegramToolHandler("get_user_info", instrumentation.CategoryUsers, instrumentation.OperationGet, sc, handleGetUserInfo))

	return nil
}

// handleGetUserInfo handles the get_user_info tool.
func handleGetUserInfo(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := getUserInfoSchema.Validate(args); err != nil {
		return "", err
	}
	userID := args["user_id"].(string)

	user, err := api.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("User Information:\n")
	fmt.Fprintf(&b, "  ID: %d\n", user.ID)
	if name := user.DisplayName(); name != "" {
		fmt.Fprintf(&b, "  Name: %s\n", name)
	}
	if user.Username != "" {
		fmt.Fprintf(&b, "  Username: @%s\n", user.Username)
	}
	if user.Phone != "" {
		fmt.Fprintf(&b, "  Phone: %s\n", user.Phone)
	}
	if user.Bio != "" {
		fmt.Fprintf(&b, "  Bio: %s\n", user.Bio)
	}
	if flags := userFlags(user); flags != "" {
		fmt.Fprintf(&b, "  Flags: %s\n", flags)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func userFlags(user *telegram.UserInfo) string {
	var flags []string
	if user.Bot {
		flags = append(flags, "bot")
	}
	if user.Verified {
		flags = append(flags, "verified")
	}
	if user.Premium {
		flags = append(flags, "premium")
	}
	return strings.Join(flags, ", ")
}
