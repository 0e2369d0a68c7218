package media_tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/telegram-mcp/internal/telegram"
	"github.com/teemow/telegram-mcp/internal/telegram/telegramtest"
	"github.com/teemow/telegram-mcp/internal/toolerr"
)

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestHandleGetMediaContent(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{
				ID:     5,
				ChatID: "123",
				Media:  &telegram.MediaInfo{Kind: telegram.MediaPhoto, FileSize: 2048},
			}},
		},
	}

	out, err := handleGetMediaContent(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(5)}))
	if err != nil {
		t.Fatalf("handleGetMediaContent() error = %v", err)
	}

	if !strings.Contains(out, "Downloaded photo media from message 5") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "File: photo_5.jpg") {
		t.Errorf("missing synthesized file name:\n%s", out)
	}
	if !strings.Contains(out, "Size: 2048 bytes") {
		t.Errorf("missing size:\n%s", out)
	}
	if !strings.Contains(out, "Saved to: /tmp/downloads/photo_5.jpg") {
		t.Errorf("missing local path:\n%s", out)
	}

	calls := fake.Calls()
	if len(calls) != 2 || calls[1].Method != "DownloadMedia" {
		t.Fatalf("calls = %v", fake.CallNames())
	}
	if got := calls[1].Args[0]; got != "photo_5.jpg" {
		t.Errorf("download file name = %v, want photo_5.jpg", got)
	}
}

func TestHandleGetMediaContentDeclaredName(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{
				ID:     8,
				ChatID: "123",
				Media:  &telegram.MediaInfo{Kind: telegram.MediaDocument, FileName: "report.pdf"},
			}},
		},
	}

	out, err := handleGetMediaContent(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(8)}))
	if err != nil {
		t.Fatalf("handleGetMediaContent() error = %v", err)
	}
	if !strings.Contains(out, "File: report.pdf") {
		t.Errorf("declared file name should win:\n%s", out)
	}
}

func TestHandleGetMediaContentCopiesToDownloadPath(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "report.pdf")
	if err := os.WriteFile(src, []byte("content"), 0600); err != nil {
		t.Fatal(err)
	}
	destDir := t.TempDir()

	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{
				ID:     8,
				ChatID: "123",
				Media:  &telegram.MediaInfo{Kind: telegram.MediaDocument, FileName: "report.pdf"},
			}},
		},
		DownloadPath: src,
	}

	out, err := handleGetMediaContent(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(8), "download_path": destDir}))
	if err != nil {
		t.Fatalf("handleGetMediaContent() error = %v", err)
	}

	dest := filepath.Join(destDir, "report.pdf")
	if !strings.Contains(out, "Saved to: "+dest) {
		t.Errorf("expected copy destination in output:\n%s", out)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("copied file missing: %v", err)
	}
	// The cached download stays in place.
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source file removed: %v", err)
	}
}

func TestHandleGetMediaContentNoMedia(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{ID: 9, ChatID: "123", Text: "plain text"}},
		},
	}

	_, err := handleGetMediaContent(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(9)}))
	if err == nil {
		t.Fatal("expected error for message without media")
	}
	terr, ok := err.(*toolerr.Error)
	if !ok || terr.Kind != toolerr.InvalidRequest {
		t.Errorf("error = %v, want InvalidRequest", err)
	}
	if names := fake.CallNames(); len(names) != 1 {
		t.Errorf("no download should be attempted, calls = %v", names)
	}
}

func TestHandleSendMedia(t *testing.T) {
	fake := &telegramtest.Fake{SentID: 200}

	out, err := handleSendMedia(context.Background(), fake,
		request(map[string]any{
			"chat_id":             "123",
			"file_path":           "/tmp/photo.jpg",
			"caption":             "holiday",
			"reply_to_message_id": float64(7),
		}))
	if err != nil {
		t.Fatalf("handleSendMedia() error = %v", err)
	}
	if !strings.Contains(out, "Media sent successfully to chat 123") || !strings.Contains(out, "Message ID: 201") {
		t.Errorf("unexpected output:\n%s", out)
	}

	calls := fake.Calls()
	if len(calls) != 1 || calls[0].Method != "SendFile" {
		t.Fatalf("calls = %v", fake.CallNames())
	}
	args := calls[0].Args
	if args[1] != "/tmp/photo.jpg" || args[2] != "holiday" || args[3] != 7 {
		t.Errorf("SendFile args = %v", args)
	}
	if asDocument := args[4].(bool); asDocument {
		t.Error("send_media must not force document classification")
	}
}

func TestHandleSendMediaRejectsEmptyFilePath(t *testing.T) {
	fake := &telegramtest.Fake{}

	_, err := handleSendMedia(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "file_path": ""}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no client calls, got %v", fake.CallNames())
	}
}

func TestHandleGetMediaInfo(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{
				ID:     5,
				ChatID: "123",
				Media: &telegram.MediaInfo{
					Kind:     telegram.MediaVideo,
					FileName: "clip.mp4",
					FileSize: 4096,
					MimeType: "video/mp4",
					Width:    1920,
					Height:   1080,
					Duration: 12,
				},
			}},
		},
	}

	out, err := handleGetMediaInfo(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(5)}))
	if err != nil {
		t.Fatalf("handleGetMediaInfo() error = %v", err)
	}

	for _, want := range []string{
		"Media in message 5:",
		"Kind: video",
		"File name: clip.mp4",
		"Size: 4096 bytes",
		"MIME type: video/mp4",
		"Dimensions: 1920x1080",
		"Duration: 12s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHandleGetMediaInfoNoMedia(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{ID: 7, ChatID: "123", Text: "just text"}},
		},
	}

	out, err := handleGetMediaInfo(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(7)}))
	if err != nil {
		t.Fatalf("no media is not an error, got %v", err)
	}
	if out != "Message 7 has no media" {
		t.Errorf("output = %q", out)
	}
}
