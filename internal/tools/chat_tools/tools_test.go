package chat_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/telegram-mcp/internal/telegram"
	"github.com/teemow/telegram-mcp/internal/telegram/telegramtest"
)

func request(args map[string]any) mcp.CallToolRequest {
	r := mcp.CallToolRequest{}
	r.Params.Arguments = args
	return r
}

func TestHandleListChats(t *testing.T) {
	fake := &telegramtest.Fake{
		Chats: []telegram.Chat{
			{ID: "123", Title: "Development Team", Type: telegram.ChatTypeSupergroup, Username: "devteam", MemberCount: 42, Unread: 3},
			{ID: "456", Title: "Alice", Type: telegram.ChatTypePrivate},
		},
	}

	out, err := handleListChats(context.Background(), fake, request(map[string]any{}))
	if err != nil {
		t.Fatalf("handleListChats() error = %v", err)
	}

	if !strings.Contains(out, "Found 2 chat(s):") {
		t.Errorf("missing header in output:\n%s", out)
	}
	for _, want := range []string{"1. Development Team", "ID: 123", "Type: supergroup", "Username: @devteam", "Members: 42", "Unread: 3", "2. Alice"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Default limit is passed through to the client.
	calls := fake.Calls()
	if len(calls) != 1 || calls[0].Method != "GetChats" {
		t.Fatalf("expected one GetChats call, got %v", fake.CallNames())
	}
	if calls[0].Args[0] != 50 {
		t.Errorf("GetChats limit = %v, want 50", calls[0].Args[0])
	}
}

func TestHandleListChatsExplicitLimit(t *testing.T) {
	fake := &telegramtest.Fake{
		Chats: []telegram.Chat{{ID: "1", Title: "A", Type: telegram.ChatTypePrivate}},
	}

	// JSON numbers arrive as float64.
	if _, err := handleListChats(context.Background(), fake, request(map[string]any{"limit": float64(5)})); err != nil {
		t.Fatalf("handleListChats() error = %v", err)
	}
	if fake.Calls()[0].Args[0] != 5 {
		t.Errorf("GetChats limit = %v, want 5", fake.Calls()[0].Args[0])
	}
}

func TestHandleListChatsRejectsBadLimit(t *testing.T) {
	fake := &telegramtest.Fake{}

	_, err := handleListChats(context.Background(), fake, request(map[string]any{"limit": float64(500)}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no client calls, got %v", fake.CallNames())
	}
}

func TestHandleListChatsEmpty(t *testing.T) {
	fake := &telegramtest.Fake{}

	out, err := handleListChats(context.Background(), fake, request(map[string]any{}))
	if err != nil {
		t.Fatalf("handleListChats() error = %v", err)
	}
	if out != "No chats found" {
		t.Errorf("output = %q, want %q", out, "No chats found")
	}
}

func TestHandleGetChatInfo(t *testing.T) {
	fake := &telegramtest.Fake{
		ChatInfo: map[string]*telegram.Chat{
			"123": {
				ID: "123", Title: "News", Type: telegram.ChatTypeChannel,
				Username: "news", MemberCount: 10000,
				Description: "Daily news", Verified: true,
			},
		},
	}

	out, err := handleGetChatInfo(context.Background(), fake, request(map[string]any{"chat_id": "123"}))
	if err != nil {
		t.Fatalf("handleGetChatInfo() error = %v", err)
	}
	for _, want := range []string{"Chat Information:", "ID: 123", "Title: News", "Type: channel", "Username: @news", "Members: 10000", "Description: Daily news", "Flags: verified"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHandleGetChatInfoDeterministic(t *testing.T) {
	fake := &telegramtest.Fake{
		ChatInfo: map[string]*telegram.Chat{
			"123": {ID: "123", Title: "News", Type: telegram.ChatTypeChannel, Scam: true, Fake: true},
		},
	}

	first, err := handleGetChatInfo(context.Background(), fake, request(map[string]any{"chat_id": "123"}))
	if err != nil {
		t.Fatalf("handleGetChatInfo() error = %v", err)
	}
	second, err := handleGetChatInfo(context.Background(), fake, request(map[string]any{"chat_id": "123"}))
	if err != nil {
		t.Fatalf("handleGetChatInfo() error = %v", err)
	}
	if first != second {
		t.Errorf("output not stable across calls:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(first, "Flags: scam, fake") {
		t.Errorf("output missing trust flags:\n%s", first)
	}
}

func TestHandleGetChatInfoRejectsEmptyID(t *testing.T) {
	fake := &telegramtest.Fake{}

	_, err := handleGetChatInfo(context.Background(), fake, request(map[string]any{"chat_id": ""}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no client calls, got %v", fake.CallNames())
	}
}

func TestHandleGetChatInfoUnknownChat(t *testing.T) {
	fake := &telegramtest.Fake{}

	_, err := handleGetChatInfo(context.Background(), fake, request(map[string]any{"chat_id": "999"}))
	if err == nil {
		t.Fatal("expected error for unknown chat")
	}
	if !strings.Contains(err.Error(), "CHAT_ID_INVALID") {
		t.Errorf("error = %v, want CHAT_ID_INVALID", err)
	}
}

func TestHandleSearchChats(t *testing.T) {
	fake := &telegramtest.Fake{
		Chats: []telegram.Chat{
			{ID: "1", Title: "Development Team", Type: telegram.ChatTypeSupergroup},
			{ID: "2", Title: "Family", Type: telegram.ChatTypeGroup},
			{ID: "3", Title: "Ops", Type: telegram.ChatTypeGroup, Username: "dev_ops"},
		},
	}

	// Case-insensitive, matches title or username.
	out, err := handleSearchChats(context.Background(), fake, request(map[string]any{"query": "DEV"}))
	if err != nil {
		t.Fatalf("handleSearchChats() error = %v", err)
	}
	if !strings.Contains(out, `Found 2 chat(s) matching "DEV":`) {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Development Team") || !strings.Contains(out, "Ops") {
		t.Errorf("missing matches:\n%s", out)
	}
	if strings.Contains(out, "Family") {
		t.Errorf("unexpected match:\n%s", out)
	}

	// The filter sees at most the first 200 chats.
	if fake.Calls()[0].Args[0] != searchChatsFetchCap {
		t.Errorf("GetChats limit = %v, want %d", fake.Calls()[0].Args[0], searchChatsFetchCap)
	}
}

func TestHandleSearchChatsLimit(t *testing.T) {
	fake := &telegramtest.Fake{
		Chats: []telegram.Chat{
			{ID: "1", Title: "dev one", Type: telegram.ChatTypeGroup},
			{ID: "2", Title: "dev two", Type: telegram.ChatTypeGroup},
			{ID: "3", Title: "dev three", Type: telegram.ChatTypeGroup},
		},
	}

	out, err := handleSearchChats(context.Background(), fake, request(map[string]any{"query": "dev", "limit": float64(2)}))
	if err != nil {
		t.Fatalf("handleSearchChats() error = %v", err)
	}
	if !strings.Contains(out, `Found 2 chat(s) matching "dev":`) {
		t.Errorf("expected truncation to 2:\n%s", out)
	}
	if strings.Contains(out, "dev three") {
		t.Errorf("expected third match dropped:\n%s", out)
	}
}

func TestHandleSearchChatsNoMatch(t *testing.T) {
	fake := &telegramtest.Fake{
		Chats: []telegram.Chat{{ID: "1", Title: "Family", Type: telegram.ChatTypeGroup}},
	}

	out, err := handleSearchChats(context.Background(), fake, request(map[string]any{"query": "zzz"}))
	if err != nil {
		t.Fatalf("handleSearchChats() error = %v", err)
	}
	if out != `No chats found matching "zzz"` {
		t.Errorf("output = %q", out)
	}
}

func TestHandleSearchChatsRejectsEmptyQuery(t *testing.T) {
	fake := &telegramtest.Fake{}

	_, err := handleSearchChats(context.Background(), fake, request(map[string]any{"query": ""}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no client calls, got %v", fake.CallNames())
	}
}
