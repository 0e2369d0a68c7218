// Package telegramtest provides a scriptable in-memory implementation of the
// telegram.API interface for handler tests.
package telegramtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/teemow/telegram-mcp/internal/telegram"
)

// Call records a single API invocation for assertion in tests.
type Call struct {
	Method string
	Args   []any
}

// Fake implements telegram.API against in-memory fixtures. Zero value is
// usable; populate the exported fields to script responses, and set Err to
// force every call to fail.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	Err error

	Me       *telegram.UserInfo
	Chats    []telegram.Chat
	ChatInfo map[string]*telegram.Chat
	Users    map[string]*telegram.UserInfo
	// Messages maps chatID to that chat's history, newest first.
	Messages map[string][]telegram.Message
	// MessageErr maps "chatID/messageID" to an error for that lookup.
	MessageErr map[string]error
	Threads    map[int][]telegram.Message
	Search     map[string]*telegram.SearchResult
	// SearchErr maps chatID to an error for searches in that chat.
	SearchErr map[string]error

	SentID       int
	DownloadPath string
}

var _ telegram.API = (*Fake)(nil)

func (f *Fake) record(method string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: method, Args: args})
}

// Calls returns a copy of all recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallNames returns just the method names, in invocation order.
func (f *Fake) CallNames() []string {
	calls := f.Calls()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Method
	}
	return names
}

func (f *Fake) Connect(ctx context.Context) error {
	f.record("Connect")
	return f.Err
}

func (f *Fake) Disconnect(ctx context.Context) error {
	f.record("Disconnect")
	return f.Err
}

func (f *Fake) GetMe(ctx context.Context) (*telegram.UserInfo, error) {
	f.record("GetMe")
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Me == nil {
		return nil, fmt.Errorf("fake: no self configured")
	}
	return f.Me, nil
}

func (f *Fake) GetChats(ctx context.Context, limit int) ([]telegram.Chat, error) {
	f.record("GetChats", limit)
	if f.Err != nil {
		return nil, f.Err
	}
	chats := f.Chats
	if limit > 0 && len(chats) > limit {
		chats = chats[:limit]
	}
	return chats, nil
}

func (f *Fake) GetChat(ctx context.Context, chatID string) (*telegram.Chat, error) {
	f.record("GetChat", chatID)
	if f.Err != nil {
		return nil, f.Err
	}
	if c, ok := f.ChatInfo[chatID]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("CHAT_ID_INVALID: unknown chat %s", chatID)
}

func (f *Fake) GetUser(ctx context.Context, userID string) (*telegram.UserInfo, error) {
	f.record("GetUser", userID)
	if f.Err != nil {
		return nil, f.Err
	}
	if u, ok := f.Users[userID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("USER_ID_INVALID: unknown user %s", userID)
}

func (f *Fake) GetMessages(ctx context.Context, chatID string, limit, fromMessageID int) ([]telegram.Message, error) {
	f.record("GetMessages", chatID, limit, fromMessageID)
	if f.Err != nil {
		return nil, f.Err
	}
	msgs, ok := f.Messages[chatID]
	if !ok {
		return nil, fmt.Errorf("CHAT_ID_INVALID: unknown chat %s", chatID)
	}
	if fromMessageID != 0 {
		filtered := make([]telegram.Message, 0, len(msgs))
		for _, m := range msgs {
			if m.ID < fromMessageID {
				filtered = append(filtered, m)
			}
		}
		msgs = filtered
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *Fake) GetMessage(ctx context.Context, chatID string, messageID int) (*telegram.Message, error) {
	f.record("GetMessage", chatID, messageID)
	if f.Err != nil {
		return nil, f.Err
	}
	key := fmt.Sprintf("%s/%d", chatID, messageID)
	if err, ok := f.MessageErr[key]; ok {
		return nil, err
	}
	for _, m := range f.Messages[chatID] {
		if m.ID == messageID {
			found := m
			return &found, nil
		}
	}
	return nil, fmt.Errorf("message %d not found in chat %s", messageID, chatID)
}

func (f *Fake) GetThreadMessages(ctx context.Context, chatID string, threadID int) ([]telegram.Message, error) {
	f.record("GetThreadMessages", chatID, threadID)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Threads[threadID], nil
}

func (f *Fake) SendMessage(ctx context.Context, chatID, text string, replyToID int) (*telegram.Message, error) {
	f.record("SendMessage", chatID, text, replyToID)
	if f.Err != nil {
		return nil, f.Err
	}
	f.SentID++
	return &telegram.Message{
		ID:        f.SentID,
		ChatID:    chatID,
		Text:      text,
		Out:       true,
		ReplyToID: replyToID,
	}, nil
}

func (f *Fake) EditMessage(ctx context.Context, chatID string, messageID int, text string) error {
	f.record("EditMessage", chatID, messageID, text)
	return f.Err
}

func (f *Fake) DeleteMessage(ctx context.Context, chatID string, messageID int, revoke bool) error {
	f.record("DeleteMessage", chatID, messageID, revoke)
	return f.Err
}

func (f *Fake) ForwardMessage(ctx context.Context, fromChatID string, messageID int, toChatID string) error {
	f.record("ForwardMessage", fromChatID, messageID, toChatID)
	return f.Err
}

func (f *Fake) SearchMessages(ctx context.Context, chatID, query string, limit int) (*telegram.SearchResult, error) {
	f.record("SearchMessages", chatID, query, limit)
	if f.Err != nil {
		return nil, f.Err
	}
	if err, ok := f.SearchErr[chatID]; ok {
		return nil, err
	}
	if res, ok := f.Search[chatID]; ok {
		msgs := res.Messages
		if limit > 0 && len(msgs) > limit {
			msgs = msgs[:limit]
		}
		return &telegram.SearchResult{Messages: msgs, TotalCount: res.TotalCount}, nil
	}
	return &telegram.SearchResult{}, nil
}

func (f *Fake) MarkAsRead(ctx context.Context, chatID string, messageIDs []int, force bool) error {
	f.record("MarkAsRead", chatID, messageIDs, force)
	return f.Err
}

func (f *Fake) SendFile(ctx context.Context, chatID, filePath, caption string, replyToID int, asDocument bool) (*telegram.Message, error) {
	f.record("SendFile", chatID, filePath, caption, replyToID, asDocument)
	if f.Err != nil {
		return nil, f.Err
	}
	f.SentID++
	return &telegram.Message{ID: f.SentID, ChatID: chatID, Text: caption, Out: true}, nil
}

func (f *Fake) DownloadMedia(ctx context.Context, media *telegram.MediaInfo, fileName string) (string, error) {
	f.record("DownloadMedia", fileName)
	if f.Err != nil {
		return "", f.Err
	}
	if f.DownloadPath != "" {
		return f.DownloadPath, nil
	}
	return "/tmp/downloads/" + fileName, nil
}
