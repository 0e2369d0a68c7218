package media_tools

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
	"github.com/teemow/telegram-mcp/internal/toolerr"
	"github.com/teemow/telegram-mcp/internal/tools/common"
)

var getMediaContentSchema = schema.Object{
	"chat_id":       {Type: schema.String, Required: true, MinLen: 1},
	"message_id":    {Type: schema.Integer, Required: true},
	"download_path": {Type: schema.String},
}

var sendMediaSchema = schema.Object{
	"chat_id":             {Type: schema.String, Required: true, MinLen: 1},
	"file_path":           {Type: schema.String, Required: true, MinLen: 1},
	"caption":             {Type: schema.String},
	"reply_to_message_id": {Type: schema.Integer, Default: 0},
}

var getMediaInfoSchema = schema.Object{
	"chat_id":    {Type: schema.String, Required: true, MinLen: 1},
	"message_id": {Type: schema.Integer, Required: true},
}

// RegisterMediaTools registers media download, upload and inspection tools.
func RegisterMediaTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getMediaContentTool := mcp.NewTool("get_media_content",
		mcp.WithDescription("Download the media attached to a message and return its local path"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithNumber("message_id",
			mcp.Required(),
			mcp.Description("ID of the message carrying the media"),
		),
		mcp.WithString("download_path",
			mcp.Description("Directory to copy the downloaded file into (default: the client's download directory)"),
		),
	)
	s.AddTool(getMediaContentTool, common.TelegramToolHandler("get_media_content", instrumentation.CategoryMedia, instrumentation.OperationDownload, sc, handleGetMediaContent))

	sendMediaTool := mcp.NewTool("send_media",
		mcp.WithDescription("Upload a local file and send it as a photo, video or document depending on its extension"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path of the local file to send"),
		),
		mcp.WithString("caption",
			mcp.Description("Optional caption"),
		),
		mcp.WithNumber("reply_to_message_id",
			mcp.Description("Message ID to reply to"),
		),
	)
	s.AddTool(sendMediaTool, common.WriteToolHandler("send_media", instrumentation.CategoryMedia, instrumentation.OperationSend, sc, handleSendMedia))

	getMediaInfoTool := mcp.NewTool("get_media_info",
		mcp.WithDescription("Describe the media attached to a message without downloading it"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithNumber("message_id",
			mcp.Required(),
			mcp.Description("ID of the message to inspect"),
		),
	)
	s.AddTool(getMediaInfoTool, common.TelegramToolHandler("get_media_info", instrumentation.CategoryMedia, instrumentation.OperationGet, sc, handleGetMediaInfo))

	return nil
}

// handleGetMediaContent handles the get_media_content tool.
func handleGetMediaContent(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := getMediaContentSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	messageID := args["message_id"].(int)
	downloadPath, _ := args["download_path"].(string)

	msg, err := api.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return "", err
	}
	if msg.Media == nil {
		return "", toolerr.New(toolerr.InvalidRequest, fmt.Sprintf("Message %d has no media to download", messageID))
	}

	fileName := common.MediaFileName(msg.Media, messageID)
	localPath, err := api.DownloadMedia(ctx, msg.Media, fileName)
	if err != nil {
		return "", err
	}

	if downloadPath != "" {
		localPath, err = common.CopyToDir(localPath, downloadPath)
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Downloaded %s media from message %d\n", msg.Media.Kind, messageID)
	fmt.Fprintf(&b, "  File: %s\n", fileName)
	if msg.Media.FileSize > 0 {
		fmt.Fprintf(&b, "  Size: %d bytes\n", msg.Media.FileSize)
	}
	fmt.Fprintf(&b, "  Saved to: %s", localPath)
	return b.String(), nil
}

// handleSendMedia handles the send_media tool.
func handleSendMedia(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := sendMediaSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	filePath := args["file_path"].(string)
	caption, _ := args["caption"].(string)
	replyTo := args["reply_to_message_id"].(int)

	msg, err := api.SendFile(ctx, chatID, filePath, caption, replyTo, false)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Media sent successfully to chat %s\nMessage ID: %d", chatID, msg.ID), nil
}

// handleGetMediaInfo handles the get_media_info tool. A message without media
// is reported as text, not as an error.
func handleGetMediaInfo(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := getMediaInfoSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	messageID := args["message_id"].(int)

	msg, err := api.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return "", err
	}
	if msg.Media == nil {
		return fmt.Sprintf("Message %d has no media", messageID), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Media in message %d:\n", messageID)
	fmt.Fprintf(&b, "  Kind: %s\n", msg.Media.Kind)
	if msg.Media.FileName != "" {
		fmt.Fprintf(&b, "  File name: %s\n", msg.Media.FileName)
	}
	if msg.Media.FileSize > 0 {
		fmt.Fprintf(&b, "  Size: %d bytes\n", msg.Media.FileSize)
	}
	if msg.Media.MimeType != "" {
		fmt.Fprintf(&b, "  MIME type: %s\n", msg.Media.MimeType)
	}
	if msg.Media.Width > 0 && msg.Media.Height > 0 {
		fmt.Fprintf(&b, "  Dimensions: %dx%d\n", msg.Media.Width, msg.Media.Height)
	}
	if msg.Media.Duration > 0 {
		fmt.Fprintf(&b, "  Duration: %ds\n", msg.Media.Duration)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
