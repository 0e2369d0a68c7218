package message_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/teemow/telegram-mcp/internal/telegram"
	"github.com/teemow/telegram-mcp/internal/telegram/telegramtest"
)

func TestHandleGetMessageContext(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {
				{ID: 3, ChatID: "123", Text: "third", Date: 1700000300, ReplyToID: 2},
				{ID: 2, ChatID: "123", Text: "second", Date: 1700000200, ReplyToID: 1},
				{ID: 1, ChatID: "123", Text: "first", Date: 1700000100},
			},
		},
	}

	out, err := handleGetMessageContext(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(3)}))
	if err != nil {
		t.Fatalf("handleGetMessageContext() error = %v", err)
	}

	if !strings.Contains(out, "Context for message 3 in chat 123:") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Reply chain (2 message(s), nearest first):") {
		t.Errorf("missing chain header:\n%s", out)
	}
	// Nearest ancestor first.
	second := strings.Index(out, "Text: second")
	first := strings.Index(out, "Text: first")
	if second == -1 || first == -1 || second > first {
		t.Errorf("chain order wrong:\n%s", out)
	}
}

func TestHandleGetMessageContextWithoutReplies(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {
				{ID: 2, ChatID: "123", Text: "reply", Date: 1700000200, ReplyToID: 1},
				{ID: 1, ChatID: "123", Text: "root", Date: 1700000100},
			},
		},
	}

	out, err := handleGetMessageContext(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(2), "include_replies": false}))
	if err != nil {
		t.Fatalf("handleGetMessageContext() error = %v", err)
	}
	if strings.Contains(out, "Reply chain") || strings.Contains(out, "No reply chain") {
		t.Errorf("reply section should be absent:\n%s", out)
	}

	// Only the target message is fetched.
	if names := fake.CallNames(); len(names) != 1 {
		t.Errorf("calls = %v, want one GetMessage", names)
	}
}

func TestHandleGetMessageContextPartialChain(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {
				{ID: 3, ChatID: "123", Text: "third", Date: 1700000300, ReplyToID: 2},
			},
		},
	}

	out, err := handleGetMessageContext(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(3)}))
	if err != nil {
		t.Fatalf("handleGetMessageContext() error = %v", err)
	}
	if !strings.Contains(out, "No reply chain") {
		t.Errorf("expected empty chain:\n%s", out)
	}
	if !strings.Contains(out, "Note: message 2") {
		t.Errorf("expected skip diagnostic:\n%s", out)
	}
}

func TestHandleGetMessageContextThread(t *testing.T) {
	fake := &telegramtest.Fake{
		Messages: map[string][]telegram.Message{
			"123": {{ID: 7, ChatID: "123", Text: "topic post", Date: 1700000700, ThreadID: 5}},
		},
		Threads: map[int][]telegram.Message{
			5: {
				{ID: 5, ChatID: "123", Text: "topic start", Date: 1700000500},
				{ID: 6, ChatID: "123", Text: "topic reply", Date: 1700000600},
			},
		},
	}

	out, err := handleGetMessageContext(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(7), "include_thread": true}))
	if err != nil {
		t.Fatalf("handleGetMessageContext() error = %v", err)
	}
	if !strings.Contains(out, "Thread (2 message(s)):") {
		t.Errorf("missing thread section:\n%s", out)
	}
	// Thread order is whatever the client returned.
	start := strings.Index(out, "topic start")
	reply := strings.Index(out, "topic reply")
	if start == -1 || reply == -1 || start > reply {
		t.Errorf("thread order wrong:\n%s", out)
	}
}

func TestHandleGetMessageContextRootMissing(t *testing.T) {
	fake := &telegramtest.Fake{}

	if _, err := handleGetMessageContext(context.Background(), fake,
		request(map[string]any{"chat_id": "123", "message_id": float64(1)})); err == nil {
		t.Fatal("expected error for missing root message")
	}
}

func TestHandleGetMessageContextRejectsMissingMessageID(t *testing.T) {
	fake := &telegramtest.Fake{}

	_, err := handleGetMessageContext(context.Background(), fake, request(map[string]any{"chat_id": "123"}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no client calls, got %v", fake.CallNames())
	}
}
