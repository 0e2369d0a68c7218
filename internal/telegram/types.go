package telegram

// ChatType identifies the kind of conversation a chat id addresses.
type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
	ChatTypeSecret     ChatType = "secret"
)

// Chat is a read-only view of a conversation. The ID is string-typed because
// Telegram chat ids can be negative and exceed what callers may safely parse.
type Chat struct {
	ID          string
	Title       string
	Type        ChatType
	Username    string
	MemberCount int
	Description string
	Verified    bool
	Scam        bool
	Fake        bool
	Unread      int
}

// MediaKind is the tagged variant of a message's media content. Decoding from
// the raw protocol classes happens once, at the client boundary.
type MediaKind string

const (
	MediaNone      MediaKind = ""
	MediaPhoto     MediaKind = "photo"
	MediaVideo     MediaKind = "video"
	MediaDocument  MediaKind = "document"
	MediaAudio     MediaKind = "audio"
	MediaVoice     MediaKind = "voice"
	MediaSticker   MediaKind = "sticker"
	MediaAnimation MediaKind = "animation"
)

// MediaInfo describes media attached to a message. Width/Height are set only
// for photo, video, sticker and animation; Duration only for video, audio,
// voice and animation.
type MediaInfo struct {
	Kind      MediaKind
	FileID    string
	FileName  string
	FileSize  int64
	MimeType  string
	Width     int
	Height    int
	Duration  int // seconds
	LocalPath string

	// Download location, filled at decode time from the raw media classes.
	// Photos download via the largest size variant; everything else via the
	// document location.
	photoID         int64
	photoAccessHash int64
	photoFileRef    []byte
	photoThumbSize  string
	docID           int64
	docAccessHash   int64
	docFileRef      []byte
}

// ForwardOrigin identifies where a forwarded message originally came from.
type ForwardOrigin string

const (
	ForwardFromUser       ForwardOrigin = "user"
	ForwardFromChat       ForwardOrigin = "chat"
	ForwardFromChannel    ForwardOrigin = "channel"
	ForwardFromHiddenUser ForwardOrigin = "hidden_user"
)

// ForwardInfo carries the subset of origin metadata the origin variant supplies.
type ForwardInfo struct {
	Origin        ForwardOrigin
	SenderName    string
	ChatID        string
	ChatTitle     string
	MessageID     int
	IsChannelPost bool
}

// Message is a read-only view of a single message. A message carries text
// and/or media; media-only messages have empty Text. Messages are constructed
// fresh on every fetch and never mutated afterwards.
type Message struct {
	ID         int
	ChatID     string
	SenderID   int64
	SenderName string
	Text       string
	Date       int // unix seconds
	Out        bool
	ReplyToID  int
	ThreadID   int
	Media      *MediaInfo
	Forward    *ForwardInfo
	Edited     bool
	EditDate   int
	CanEdit    bool
	CanDelete  bool
}

// UserInfo describes a Telegram user account.
type UserInfo struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Phone     string
	Bio       string
	Bot       bool
	Verified  bool
	Premium   bool
}

// DisplayName joins first and last name, falling back to the username.
func (u *UserInfo) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		name = u.Username
	}
	return name
}

// FileInfo is the flat file metadata view returned by get_file_info.
type FileInfo struct {
	FileID   string
	FileName string
	FileSize int64
	MimeType string
	Kind     MediaKind
}

// SearchResult is a scoped message search result. TotalCount falls back to
// len(Messages) when the server does not report a count.
type SearchResult struct {
	Messages   []Message
	TotalCount int
}

func displayName(first, last string) string {
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}
