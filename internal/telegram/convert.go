package telegram

import (
	"strconv"

	"github.com/gotd/td/tg"
)

// userMap indexes the users of a server response by id.
func userMap(users []tg.UserClass) map[int64]*tg.User {
	m := make(map[int64]*tg.User, len(users))
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			m[user.ID] = user
		}
	}
	return m
}

// chatTitleMap indexes chat and channel titles by id.
func chatTitleMap(chats []tg.ChatClass) map[int64]string {
	m := make(map[int64]string, len(chats))
	for _, ch := range chats {
		switch v := ch.(type) {
		case *tg.Chat:
			m[v.ID] = v.Title
		case *tg.Channel:
			m[v.ID] = v.Title
		}
	}
	return m
}

// convertUser translates a raw user into the flat UserInfo view.
func convertUser(u *tg.User) *UserInfo {
	username, _ := u.GetUsername()
	phone, _ := u.GetPhone()
	return &UserInfo{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  username,
		Phone:     phone,
		Bot:       u.Bot,
		Verified:  u.Verified,
		Premium:   u.Premium,
	}
}

// convertChatFromUser builds the Chat view of a private conversation.
func convertChatFromUser(u *tg.User) Chat {
	username, _ := u.GetUsername()
	return Chat{
		ID:       strconv.FormatInt(u.ID, 10),
		Title:    displayName(u.FirstName, u.LastName),
		Type:     ChatTypePrivate,
		Username: username,
		Verified: u.Verified,
		Scam:     u.Scam,
		Fake:     u.Fake,
	}
}

// convertChat builds the Chat view of a basic group.
func convertChat(ch *tg.Chat) Chat {
	return Chat{
		ID:          strconv.FormatInt(ch.ID, 10),
		Title:       ch.Title,
		Type:        ChatTypeGroup,
		MemberCount: ch.ParticipantsCount,
	}
}

// convertChannel builds the Chat view of a channel or supergroup.
func convertChannel(ch *tg.Channel) Chat {
	chatType := ChatTypeSupergroup
	if ch.Broadcast {
		chatType = ChatTypeChannel
	}
	username, _ := ch.GetUsername()
	count, _ := ch.GetParticipantsCount()
	return Chat{
		ID:          strconv.FormatInt(ch.ID, 10),
		Title:       ch.Title,
		Type:        chatType,
		Username:    username,
		MemberCount: count,
		Verified:    ch.Verified,
		Scam:        ch.Scam,
		Fake:        ch.Fake,
	}
}

// convertMessage decodes one raw message. users and chatTitles come from the
// same server response so senders and forward origins resolve locally.
func convertMessage(msg *tg.Message, chatID string, users map[int64]*tg.User, chatTitles map[int64]string) Message {
	m := Message{
		ID:     msg.ID,
		ChatID: chatID,
		Text:   msg.Message,
		Date:   msg.Date,
		Out:    msg.Out,
		Media:  extractMedia(msg.Media),
	}

	if msg.FromID != nil {
		if peer, ok := msg.FromID.(*tg.PeerUser); ok {
			m.SenderID = peer.UserID
			if u, ok := users[peer.UserID]; ok {
				m.SenderName = displayName(u.FirstName, u.LastName)
			}
		}
	}

	if reply, ok := msg.GetReplyTo(); ok {
		if header, ok := reply.(*tg.MessageReplyHeader); ok {
			m.ReplyToID = header.ReplyToMsgID
			if top, ok := header.GetReplyToTopID(); ok {
				m.ThreadID = top
			}
		}
	}

	if fwd, ok := msg.GetFwdFrom(); ok {
		m.Forward = convertForward(&fwd, users, chatTitles)
	}

	if editDate, ok := msg.GetEditDate(); ok {
		m.Edited = true
		m.EditDate = editDate
	}

	// Raw history responses carry no per-message permission flags; own
	// non-forwarded messages are editable, own messages deletable.
	m.CanEdit = msg.Out && m.Forward == nil
	m.CanDelete = msg.Out

	return m
}

// convertForward maps a forward header onto the origin variants.
func convertForward(fwd *tg.MessageFwdHeader, users map[int64]*tg.User, chatTitles map[int64]string) *ForwardInfo {
	info := &ForwardInfo{}

	if channelPost, ok := fwd.GetChannelPost(); ok {
		info.MessageID = channelPost
		info.IsChannelPost = true
	}

	from, hasFrom := fwd.GetFromID()
	if !hasFrom {
		// No peer at all: origin hidden by the sender's privacy settings.
		if name, ok := fwd.GetFromName(); ok {
			info.Origin = ForwardFromHiddenUser
			info.SenderName = name
			return info
		}
		info.Origin = ForwardFromHiddenUser
		return info
	}

	switch peer := from.(type) {
	case *tg.PeerUser:
		info.Origin = ForwardFromUser
		if u, ok := users[peer.UserID]; ok {
			info.SenderName = displayName(u.FirstName, u.LastName)
		}
	case *tg.PeerChat:
		info.Origin = ForwardFromChat
		info.ChatID = strconv.FormatInt(peer.ChatID, 10)
		info.ChatTitle = chatTitles[peer.ChatID]
	case *tg.PeerChannel:
		info.Origin = ForwardFromChannel
		info.ChatID = strconv.FormatInt(peer.ChannelID, 10)
		info.ChatTitle = chatTitles[peer.ChannelID]
	}
	return info
}

// extractMedia decodes the raw media class into the tagged MediaInfo union.
// Returns nil for messages without downloadable media (webpages, polls,
// geo locations and the like are not exposed through the media tools).
func extractMedia(media tg.MessageMediaClass) *MediaInfo {
	if media == nil {
		return nil
	}

	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		photo, ok := m.Photo.(*tg.Photo)
		if !ok {
			return nil
		}
		info := &MediaInfo{
			Kind:            MediaPhoto,
			FileID:          strconv.FormatInt(photo.ID, 10),
			photoID:         photo.ID,
			photoAccessHash: photo.AccessHash,
			photoFileRef:    photo.FileReference,
		}
		thumb, w, h, size := largestPhotoSize(photo.Sizes)
		info.photoThumbSize = thumb
		info.Width = w
		info.Height = h
		info.FileSize = size
		info.MimeType = "image/jpeg"
		return info

	case *tg.MessageMediaDocument:
		doc, ok := m.Document.(*tg.Document)
		if !ok {
			return nil
		}
		return extractDocument(doc)

	default:
		return nil
	}
}

// extractDocument classifies a document by its attributes: video, audio,
// voice, sticker and animation are all documents on the wire.
func extractDocument(doc *tg.Document) *MediaInfo {
	info := &MediaInfo{
		Kind:          MediaDocument,
		FileID:        strconv.FormatInt(doc.ID, 10),
		FileSize:      doc.Size,
		MimeType:      doc.MimeType,
		docID:         doc.ID,
		docAccessHash: doc.AccessHash,
		docFileRef:    doc.FileReference,
	}

	animated := false
	for _, attr := range doc.Attributes {
		switch a := attr.(type) {
		case *tg.DocumentAttributeFilename:
			info.FileName = a.FileName
		case *tg.DocumentAttributeVideo:
			info.Kind = MediaVideo
			info.Width = a.W
			info.Height = a.H
			info.Duration = int(a.Duration)
		case *tg.DocumentAttributeAudio:
			if a.Voice {
				info.Kind = MediaVoice
			} else {
				info.Kind = MediaAudio
			}
			info.Duration = a.Duration
		case *tg.DocumentAttributeSticker:
			info.Kind = MediaSticker
		case *tg.DocumentAttributeImageSize:
			info.Width = a.W
			info.Height = a.H
		case *tg.DocumentAttributeAnimated:
			animated = true
		}
	}
	// Animated takes precedence: GIFs arrive as video documents with the
	// animated attribute set.
	if animated {
		info.Kind = MediaAnimation
	}
	return info
}

// largestPhotoSize picks the largest size variant of a photo for download.
func largestPhotoSize(sizes []tg.PhotoSizeClass) (thumbType string, w, h int, size int64) {
	var best *tg.PhotoSize
	for _, s := range sizes {
		if ps, ok := s.(*tg.PhotoSize); ok {
			if best == nil || ps.Size > best.Size {
				best = ps
			}
		}
	}
	if best == nil {
		// Progressive photos report their sizes differently.
		var bestProg *tg.PhotoSizeProgressive
		for _, s := range sizes {
			if ps, ok := s.(*tg.PhotoSizeProgressive); ok {
				if bestProg == nil || maxInt(ps.Sizes) > maxInt(bestProg.Sizes) {
					bestProg = ps
				}
			}
		}
		if bestProg != nil {
			return bestProg.Type, bestProg.W, bestProg.H, int64(maxInt(bestProg.Sizes))
		}
		return "", 0, 0, 0
	}
	return best.Type, best.W, best.H, int64(best.Size)
}

func maxInt(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// messagesFrom unpacks the three result shapes history, search and thread
// calls can return.
func messagesFrom(result tg.MessagesMessagesClass) (msgs []tg.MessageClass, users []tg.UserClass, chats []tg.ChatClass, count int) {
	switch r := result.(type) {
	case *tg.MessagesMessages:
		return r.Messages, r.Users, r.Chats, len(r.Messages)
	case *tg.MessagesMessagesSlice:
		return r.Messages, r.Users, r.Chats, r.Count
	case *tg.MessagesChannelMessages:
		return r.Messages, r.Users, r.Chats, r.Count
	}
	return nil, nil, nil, 0
}

// convertMessages decodes every plain message of a response, preserving order.
func convertMessages(msgs []tg.MessageClass, chatID string, users []tg.UserClass, chats []tg.ChatClass) []Message {
	um := userMap(users)
	cm := chatTitleMap(chats)
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if msg, ok := m.(*tg.Message); ok {
			out = append(out, convertMessage(msg, chatID, um, cm))
		}
	}
	return out
}
