package file_tools

import (
	"context"
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

func TestHandleDownloadFile(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{
				ID:     4,
				ChatID: "123",
				Media:  &telegram.MediaInfo{Kind: telegram.MediaDocument, FileName: "notes.txt", FileSize: 512},
			}},
		},
	}

	out, err := handleDownloadFile(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(4)}))
	if err != nil {
		t.Fatalf("handleDownloadFile() error = %v", err)
	}

	for _, want := range []string{
		"Downloaded file from message 4",
		"File: notes.txt",
		"Size: 512 bytes",
		"Saved to: /tmp/downloads/notes.txt",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	calls := fake.Calls()
	if len(calls) != 2 || calls[1].Method != "DownloadMedia" {
		t.Fatalf("calls = %v", fake.CallNames())
	}
}

func TestHandleDownloadFileSynthesizesName(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{
				ID:     9,
				ChatID: "123",
				Media:  &telegram.MediaInfo{Kind: telegram.MediaVoice},
			}},
		},
	}

	out, err := handleDownloadFile(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(9)}))
	if err != nil {
		t.Fatalf("handleDownloadFile() error = %v", err)
	}
	if !strings.Contains(out, "File: voice_9.ogg") {
		t.Errorf("expected synthesized voice name:\n%s", out)
	}
}

func TestHandleDownloadFileNoMedia(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{ID: 5, ChatID: "123", Text: "no attachment"}},
		},
	}

	_, err := handleDownloadFile(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(5)}))
	if err == nil {
		t.Fatal("expected error for message without a file")
	}
	terr, ok := err.(*toolerr.Error)
	if !ok || terr.Kind != toolerr.InvalidRequest {
		t.Errorf("error = %v, want InvalidRequest", err)
	}
}

func TestHandleGetFileInfo(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{
				ID:     4,
				ChatID: "123",
				Media: &telegram.MediaInfo{
					Kind:     telegram.MediaDocument,
					FileID:   "doc-42",
					FileName: "notes.txt",
					FileSize: 512,
					MimeType: "text/plain",
				},
			}},
		},
	}

	out, err := handleGetFileInfo(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(4)}))
	if err != nil {
		t.Fatalf("handleGetFileInfo() error = %v", err)
	}

	for _, want := range []string{
		"File in message 4:",
		"Kind: document",
		"File name: notes.txt",
		"File ID: doc-42",
		"Size: 512 bytes",
		"MIME type: text/plain",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHandleGetFileInfoNoMedia(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{ID: 6, ChatID: "123", Text: "bare"}},
		},
	}

	out, err := handleGetFileInfo(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(6)}))
	if err != nil {
		t.Fatalf("no file is not an error, got %v", err)
	}
	if out != "Message 6 has no file" {
		t.Errorf("output = %q", out)
	}
}

func TestHandleSendDocumentAlwaysDocument(t *testing.T) {
	fake := &telegramtest.Fake{SentID: 300}

	out, err := handleSendDocument(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "file_path": "/tmp/photo.jpg", "caption": "as file"}))
	if err != nil {
		t.Fatalf("handleSendDocument() error = %v", err)
	}
	if !strings.Contains(out, "Document sent successfully to chat 123") || !strings.Contains(out, "Message ID: 301") {
		t.Errorf("unexpected output:\n%s", out)
	}

	calls := fake.Calls()
	if len(calls) != 1 || calls[0].Method != "SendFile" {
		t.Fatalf("calls = %v", fake.CallNames())
	}
	// Image extensions still go out as documents here.
	if asDocument := calls[0].Args[4].(bool); !asDocument {
		t.Error("send_document must force document classification")
	}
}

func TestHandleSendDocumentRejectsMissingPath(t *testing.T) {
	fake := &telegramtest.Fake{}

	_, err := handleSendDocument(context.Background(), fake, request(map[string]any{"chat_id": "123"}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no client calls, got %v", fake.CallNames())
	}
}
