package file_tools

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

var downloadFileSchema = schema.Object{
	"chat_id":     {Type: schema.String, Required: true, MinLen: 1},
	"message_id":  {Type: schema.Integer, Required: true},
	"output_path": {Type: schema.String},
}

var getFileInfoSchema = schema.Object{
	"chat_id":    {Type: schema.String, Required: true, MinLen: 1},
	"message_id": {Type: schema.Integer, Required: true},
}

var sendDocumentSchema = schema.Object{
	"chat_id":             {Type: schema.String, Required: true, MinLen: 1},
	"file_path":           {Type: schema.String, Required: true, MinLen: 1},
	"caption":             {Type: schema.String},
	"reply_to_message_id": {Type: schema.Integer, Default: 0},
}

// RegisterFileTools registers file download, metadata and document upload tools.
func RegisterFileTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	downloadFileTool := mcp.NewTool("download_file",
		mcp.WithDescription("Download a file attached to a message and return its local path"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithNumber("message_id",
			mcp.Required(),
			mcp.Description("ID of the message carrying the file"),
		),
		mcp.WithString("output_path",
			mcp.Description("Directory to copy the downloaded file into (default: the client's download directory)"),
		),
	)
	s.AddTool(downloadFileTool, common.TelegramToolHandler("download_file", instrumentation.CategoryFiles, instrumentation.OperationDownload, sc, handleDownloadFile))

	getFileInfoTool := mcp.NewTool("get_file_info",
		mcp.WithDescription("Describe the file attached to a message without downloading it"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat ID or username"),
		),
		mcp.WithNumber("message_id",
			mcp.Required(),
			mcp.Description("ID of the message to inspect"),
		),
	)
	s.AddTool(getFileInfoTool, common.TelegramToolHandler("get_file_info", instrumentation.CategoryFiles, instrumentation.OperationGet, sc, handleGetFileInfo))

	sendDocumentTool := mcp.NewTool("send_document",
		mcp.WithDescription("Upload a local file and send it as a generic document regardless of its extension"),
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
	s.AddTool(sendDocumentTool, common.WriteToolHandler("send_document", instrumentation.CategoryFiles, instrumentation.OperationSend, sc, handleSendDocument))

	return nil
}

// handleDownloadFile handles the download_file tool.
func handleDownloadFile(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := downloadFileSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	messageID := args["message_id"].(int)
	outputPath, _ := args["output_path"].(string)

	msg, err := api.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return "", err
	}
	if msg.Media == nil {
		return "", toolerr.New(toolerr.InvalidRequest, fmt.Sprintf("Message %d has no file to download", messageID))
	}

	fileName := common.MediaFileName(msg.Media, messageID)
	localPath, err := api.DownloadMedia(ctx, msg.Media, fileName)
	if err != nil {
		return "", err
	}

	if outputPath != "" {
		localPath, err = common.CopyToDir(localPath, outputPath)
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Downloaded file from message %d\n", messageID)
	fmt.Fprintf(&b, "  File: %s\n", fileName)
	if msg.Media.FileSize > 0 {
		fmt.Fprintf(&b, "  Size: %d bytes\n", msg.Media.FileSize)
	}
	fmt.Fprintf(&b, "  Saved to: %s", localPath)
	return b.String(), nil
}

// handleGetFileInfo handles the get_file_info tool. A message without media
// is reported as text, not as an error.
func handleGetFileInfo(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := getFileInfoSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	messageID := args["message_id"].(int)

	msg, err := api.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return "", err
	}
	if msg.Media == nil {
		return fmt.Sprintf("Message %d has no file", messageID), nil
	}

	info := telegram.FileInfo{
		FileID:   msg.Media.FileID,
		FileName: msg.Media.FileName,
		FileSize: msg.Media.FileSize,
		MimeType: msg.Media.MimeType,
		Kind:     msg.Media.Kind,
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File in message %d:\n", messageID)
	fmt.Fprintf(&b, "  Kind: %s\n", info.Kind)
	if info.FileName != "" {
		fmt.Fprintf(&b, "  File name: %s\n", info.FileName)
	}
	if info.FileID != "" {
		fmt.Fprintf(&b, "  File ID: %s\n", info.FileID)
	}
	if info.FileSize > 0 {
		fmt.Fprintf(&b, "  Size: %d bytes\n", info.FileSize)
	}
	if info.MimeType != "" {
		fmt.Fprintf(&b, "  MIME type: %s\n", info.MimeType)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// handleSendDocument handles the send_document tool. The upload always uses
// generic document classification, extension notwithstanding.
func handleSendDocument(ctx context.Context, api telegram.API, request mcp.CallToolRequest) (string, error) {
	args := request.GetArguments()
	if err := sendDocumentSchema.Validate(args); err != nil {
		return "", err
	}
	chatID := args["chat_id"].(string)
	filePath := args["file_path"].(string)
	caption, _ := args["caption"].(string)
	replyTo := args["reply_to_message_id"].(int)

	msg, err := api.SendFile(ctx, chatID, filePath, caption, replyTo, true)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Document sent successfully to chat %s\nMessage ID: %d", chatID, msg.ID), nil
}
