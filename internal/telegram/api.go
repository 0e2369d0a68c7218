package telegram

import (
	"context"
	"errors"
)

// ErrNotConnected is returned by API methods invoked before Connect succeeded.
var ErrNotConnected = errors.New("telegram connection not initialized")

// API is the narrow client surface the tool layer depends on. The production
// implementation is the MTProto-backed Client; tests substitute a fake.
type API interface {
	// Connect establishes the MTProto session, authenticating interactively
	// if no stored session exists. It is safe to call more than once.
	Connect(ctx context.Context) error
	// Disconnect tears the session down. Safe to call when not connected.
	Disconnect(ctx context.Context) error

	// GetMe returns the authenticated account.
	GetMe(ctx context.Context) (*UserInfo, error)

	// GetChats returns up to limit chats from the dialog list, most recent first.
	GetChats(ctx context.Context, limit int) ([]Chat, error)
	// GetChat resolves a single chat by numeric id or @username.
	GetChat(ctx context.Context, chatID string) (*Chat, error)

	// GetMessages returns up to limit messages from a chat, newest first.
	// fromMessageID is an optional pagination cursor (0 means from the top).
	GetMessages(ctx context.Context, chatID string, limit, fromMessageID int) ([]Message, error)
	// GetMessage fetches one message by id.
	GetMessage(ctx context.Context, chatID string, messageID int) (*Message, error)
	// GetThreadMessages returns the messages of the thread rooted at threadID.
	GetThreadMessages(ctx context.Context, chatID string, threadID int) ([]Message, error)

	// SendMessage sends plain text, optionally replying to another message.
	SendMessage(ctx context.Context, chatID, text string, replyToID int) (*Message, error)
	// EditMessage replaces the text content of an existing message.
	EditMessage(ctx context.Context, chatID string, messageID int, text string) error
	// DeleteMessage deletes a message; revoke deletes it for everyone.
	DeleteMessage(ctx context.Context, chatID string, messageID int, revoke bool) error
	// ForwardMessage forwards a message preserving its origin and caption.
	ForwardMessage(ctx context.Context, fromChatID string, messageID int, toChatID string) error

	// SearchMessages searches within one chat.
	SearchMessages(ctx context.Context, chatID, query string, limit int) (*SearchResult, error)

	// MarkAsRead marks the given messages as read; force requests a real read
	// receipt rather than a view-only acknowledgement.
	MarkAsRead(ctx context.Context, chatID string, messageIDs []int, force bool) error

	// GetUser resolves a user by numeric id or @username.
	GetUser(ctx context.Context, userID string) (*UserInfo, error)

	// SendFile uploads a local file and sends it to a chat. asDocument forces
	// generic document classification regardless of the file extension.
	SendFile(ctx context.Context, chatID, filePath, caption string, replyToID int, asDocument bool) (*Message, error)

	// DownloadMedia downloads a message's media into the client's download
	// directory under fileName and returns the local path. Blocking.
	DownloadMedia(ctx context.Context, media *MediaInfo, fileName string) (string, error)
}
