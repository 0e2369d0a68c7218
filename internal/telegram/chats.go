package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gotd/td/tg"
)

// GetChats fetches up to limit dialogs, most recent first. Every user and
// chat seen in the response lands in the peer cache.
func (c *Client) GetChats(ctx context.Context, limit int) ([]Chat, error) {
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}

	result, err := api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dialogs: %w", err)
	}

	var dialogs []tg.DialogClass
	var users []tg.UserClass
	var chats []tg.ChatClass
	switch r := result.(type) {
	case *tg.MessagesDialogs:
		dialogs, users, chats = r.Dialogs, r.Users, r.Chats
	case *tg.MessagesDialogsSlice:
		dialogs, users, chats = r.Dialogs, r.Users, r.Chats
	}
	c.cachePeers(users, chats)

	um := userMap(users)
	chatMap := make(map[int64]*tg.Chat)
	channelMap := make(map[int64]*tg.Channel)
	for _, ch := range chats {
		switch v := ch.(type) {
		case *tg.Chat:
			chatMap[v.ID] = v
		case *tg.Channel:
			channelMap[v.ID] = v
		}
	}

	out := make([]Chat, 0, len(dialogs))
	for _, d := range dialogs {
		dialog, ok := d.(*tg.Dialog)
		if !ok {
			continue
		}
		var chat Chat
		switch peer := dialog.Peer.(type) {
		case *tg.PeerUser:
			user, exists := um[peer.UserID]
			if !exists {
				continue
			}
			chat = convertChatFromUser(user)
		case *tg.PeerChat:
			group, exists := chatMap[peer.ChatID]
			if !exists {
				continue
			}
			chat = convertChat(group)
		case *tg.PeerChannel:
			channel, exists := channelMap[peer.ChannelID]
			if !exists {
				continue
			}
			chat = convertChannel(channel)
		default:
			continue
		}
		chat.Unread = dialog.UnreadCount
		out = append(out, chat)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// GetChat resolves one chat and enriches it with the full-info fields the
// dialog list does not carry (description, member count).
func (c *Client) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return nil, err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}

	switch p := peer.(type) {
	case *tg.InputPeerUser:
		full, err := api.UsersGetFullUser(ctx, &tg.InputUser{UserID: p.UserID, AccessHash: p.AccessHash})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch user %d: %w", p.UserID, err)
		}
		c.cachePeers(full.Users, full.Chats)
		um := userMap(full.Users)
		user, ok := um[p.UserID]
		if !ok {
			return nil, fmt.Errorf("user %d missing from response", p.UserID)
		}
		chat := convertChatFromUser(user)
		if about, ok := full.FullUser.GetAbout(); ok {
			chat.Description = about
		}
		return &chat, nil

	case *tg.InputPeerChat:
		full, err := api.MessagesGetFullChat(ctx, p.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chat %d: %w", p.ChatID, err)
		}
		c.cachePeers(full.Users, full.Chats)
		for _, ch := range full.Chats {
			if group, ok := ch.(*tg.Chat); ok && group.ID == p.ChatID {
				chat := convertChat(group)
				if cf, ok := full.FullChat.(*tg.ChatFull); ok {
					chat.Description = cf.About
				}
				return &chat, nil
			}
		}
		return nil, fmt.Errorf("chat %d missing from response", p.ChatID)

	case *tg.InputPeerChannel:
		full, err := api.ChannelsGetFullChannel(ctx, &tg.InputChannel{ChannelID: p.ChannelID, AccessHash: p.AccessHash})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch channel %d: %w", p.ChannelID, err)
		}
		c.cachePeers(full.Users, full.Chats)
		for _, ch := range full.Chats {
			if channel, ok := ch.(*tg.Channel); ok && channel.ID == p.ChannelID {
				chat := convertChannel(channel)
				if cf, ok := full.FullChat.(*tg.ChannelFull); ok {
					chat.Description = cf.About
					chat.MemberCount = cf.ParticipantsCount
				}
				return &chat, nil
			}
		}
		return nil, fmt.Errorf("channel %d missing from response", p.ChannelID)
	}
	return nil, fmt.Errorf("CHAT_ID_INVALID: unsupported peer for %q", chatID)
}

// GetMe returns the authenticated account including its bio.
func (c *Client) GetMe(ctx context.Context) (*UserInfo, error) {
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}
	full, err := api.UsersGetFullUser(ctx, &tg.InputUserSelf{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch own profile: %w", err)
	}
	c.cachePeers(full.Users, full.Chats)
	for _, u := range full.Users {
		if user, ok := u.(*tg.User); ok && user.Self {
			info := convertUser(user)
			if about, ok := full.FullUser.GetAbout(); ok {
				info.Bio = about
			}
			return info, nil
		}
	}
	return nil, fmt.Errorf("own profile missing from response")
}

// GetUser resolves a user by numeric id or @username.
func (c *Client) GetUser(ctx context.Context, userID string) (*UserInfo, error) {
	userID = strings.TrimSpace(userID)
	if strings.HasPrefix(userID, "@") {
		peer, err := c.resolveUsername(ctx, strings.TrimPrefix(userID, "@"))
		if err != nil {
			return nil, err
		}
		user, ok := peer.(*tg.InputPeerUser)
		if !ok {
			return nil, fmt.Errorf("USER_ID_INVALID: %q is not a user", userID)
		}
		userID = strconv.FormatInt(user.UserID, 10)
	}

	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("USER_ID_INVALID: %q is not a user id or @username", userID)
	}

	ref, ok := c.lookupPeer(id)
	if !ok || ref.kind != peerUser {
		// Warm the cache from the dialog list once before giving up.
		if _, err := c.GetChats(ctx, 200); err != nil {
			return nil, err
		}
		ref, ok = c.lookupPeer(id)
		if !ok || ref.kind != peerUser {
			return nil, fmt.Errorf("USER_ID_INVALID: unknown user %d", id)
		}
	}

	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}
	full, err := api.UsersGetFullUser(ctx, &tg.InputUser{UserID: id, AccessHash: ref.accessHash})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	c.cachePeers(full.Users, full.Chats)
	for _, u := range full.Users {
		if user, ok := u.(*tg.User); ok && user.ID == id {
			info := convertUser(user)
			if about, ok := full.FullUser.GetAbout(); ok {
				info.Bio = about
			}
			return info, nil
		}
	}
	return nil, fmt.Errorf("user %d missing from response", id)
}
