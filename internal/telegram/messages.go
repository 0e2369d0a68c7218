package telegram

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"
)

// GetMessages returns up to limit messages, newest first. fromMessageID is an
// optional cursor: only messages older than it are returned.
func (c *Client) GetMessages(ctx context.Context, chatID string, limit, fromMessageID int) ([]Message, error) {
	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return nil, err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}

	result, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:     peer,
		OffsetID: fromMessageID,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	msgs, users, chats, _ := messagesFrom(result)
	c.cachePeers(users, chats)
	return convertMessages(msgs, chatID, users, chats), nil
}

// GetMessage fetches a single message by id.
func (c *Client) GetMessage(ctx context.Context, chatID string, messageID int) (*Message, error) {
	channel, isChannel, err := c.inputChannel(ctx, chatID)
	if err != nil {
		return nil, err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}

	ids := []tg.InputMessageClass{&tg.InputMessageID{ID: messageID}}
	var result tg.MessagesMessagesClass
	if isChannel {
		result, err = api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
			Channel: channel,
			ID:      ids,
		})
	} else {
		result, err = api.MessagesGetMessages(ctx, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %d: %w", messageID, err)
	}

	msgs, users, chats, _ := messagesFrom(result)
	c.cachePeers(users, chats)
	for _, m := range convertMessages(msgs, chatID, users, chats) {
		if m.ID == messageID {
			msg := m
			return &msg, nil
		}
	}
	return nil, fmt.Errorf("message %d not found in chat %s", messageID, chatID)
}

// GetThreadMessages fetches the messages of the thread rooted at threadID in
// the order the server returns them.
func (c *Client) GetThreadMessages(ctx context.Context, chatID string, threadID int) ([]Message, error) {
	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return nil, err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}

	result, err := api.MessagesGetReplies(ctx, &tg.MessagesGetRepliesRequest{
		Peer:  peer,
		MsgID: threadID,
		Limit: 100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread %d: %w", threadID, err)
	}

	msgs, users, chats, _ := messagesFrom(result)
	c.cachePeers(users, chats)
	return convertMessages(msgs, chatID, users, chats), nil
}

// SendMessage sends plain text. No entity parsing happens at this layer.
func (c *Client) SendMessage(ctx context.Context, chatID, text string, replyToID int) (*Message, error) {
	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return nil, err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}

	req := &tg.MessagesSendMessageRequest{
		Peer:     peer,
		Message:  text,
		RandomID: randomID(),
	}
	if replyToID != 0 {
		req.ReplyTo = &tg.InputReplyToMessage{ReplyToMsgID: replyToID}
	}

	updates, err := api.MessagesSendMessage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	sent := &Message{
		ChatID:    chatID,
		Text:      text,
		Out:       true,
		ReplyToID: replyToID,
	}
	sent.ID, sent.Date = sentMessageID(updates)
	return sent, nil
}

// sentMessageID digs the assigned message id and date out of the updates a
// send call returns.
func sentMessageID(updates tg.UpdatesClass) (id, date int) {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID, u.Date
	case *tg.Updates:
		for _, upd := range u.Updates {
			switch v := upd.(type) {
			case *tg.UpdateMessageID:
				id = v.ID
			case *tg.UpdateNewMessage:
				if m, ok := v.Message.(*tg.Message); ok {
					return m.ID, m.Date
				}
			case *tg.UpdateNewChannelMessage:
				if m, ok := v.Message.(*tg.Message); ok {
					return m.ID, m.Date
				}
			}
		}
	}
	return id, date
}

// EditMessage replaces the text content of an existing message.
func (c *Client) EditMessage(ctx context.Context, chatID string, messageID int, text string) error {
	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return err
	}

	_, err = api.MessagesEditMessage(ctx, &tg.MessagesEditMessageRequest{
		Peer:    peer,
		ID:      messageID,
		Message: text,
	})
	if err != nil {
		return fmt.Errorf("failed to edit message %d: %w", messageID, err)
	}
	return nil
}

// DeleteMessage deletes a message. revoke removes it for all participants;
// channel deletions always affect everyone.
func (c *Client) DeleteMessage(ctx context.Context, chatID string, messageID int, revoke bool) error {
	channel, isChannel, err := c.inputChannel(ctx, chatID)
	if err != nil {
		return err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return err
	}

	if isChannel {
		_, err = api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: channel,
			ID:      []int{messageID},
		})
	} else {
		_, err = api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
			ID:     []int{messageID},
			Revoke: revoke,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, err)
	}
	return nil
}

// ForwardMessage forwards one message without dropping its origin header or
// caption.
func (c *Client) ForwardMessage(ctx context.Context, fromChatID string, messageID int, toChatID string) error {
	fromPeer, err := c.resolvePeer(ctx, fromChatID)
	if err != nil {
		return err
	}
	toPeer, err := c.resolvePeer(ctx, toChatID)
	if err != nil {
		return err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return err
	}

	_, err = api.MessagesForwardMessages(ctx, &tg.MessagesForwardMessagesRequest{
		FromPeer: fromPeer,
		ToPeer:   toPeer,
		ID:       []int{messageID},
		RandomID: []int64{randomID()},
	})
	if err != nil {
		return fmt.Errorf("failed to forward message %d: %w", messageID, err)
	}
	return nil
}

// SearchMessages searches within one chat. TotalCount falls back to the
// number of returned messages when the server reports no count.
func (c *Client) SearchMessages(ctx context.Context, chatID, query string, limit int) (*SearchResult, error) {
	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return nil, err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}

	result, err := api.MessagesSearch(ctx, &tg.MessagesSearchRequest{
		Peer:   peer,
		Q:      query,
		Filter: &tg.InputMessagesFilterEmpty{},
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search in chat %s: %w", chatID, err)
	}

	msgs, users, chats, count := messagesFrom(result)
	c.cachePeers(users, chats)
	messages := convertMessages(msgs, chatID, users, chats)
	if count < len(messages) {
		count = len(messages)
	}
	return &SearchResult{Messages: messages, TotalCount: count}, nil
}

// MarkAsRead acknowledges the given messages. force additionally reads the
// message contents, producing a real read receipt rather than a view mark.
func (c *Client) MarkAsRead(ctx context.Context, chatID string, messageIDs []int, force bool) error {
	channel, isChannel, err := c.inputChannel(ctx, chatID)
	if err != nil {
		return err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return err
	}

	maxID := 0
	for _, id := range messageIDs {
		if id > maxID {
			maxID = id
		}
	}

	if isChannel {
		if _, err := api.ChannelsReadHistory(ctx, &tg.ChannelsReadHistoryRequest{
			Channel: channel,
			MaxID:   maxID,
		}); err != nil {
			return fmt.Errorf("failed to mark channel history read: %w", err)
		}
		if force {
			if _, err := api.ChannelsReadMessageContents(ctx, &tg.ChannelsReadMessageContentsRequest{
				Channel: channel,
				ID:      messageIDs,
			}); err != nil {
				return fmt.Errorf("failed to read message contents: %w", err)
			}
		}
		return nil
	}

	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return err
	}
	if _, err := api.MessagesReadHistory(ctx, &tg.MessagesReadHistoryRequest{
		Peer:  peer,
		MaxID: maxID,
	}); err != nil {
		return fmt.Errorf("failed to mark history read: %w", err)
	}
	if force {
		if _, err := api.MessagesReadMessageContents(ctx, messageIDs); err != nil {
			return fmt.Errorf("failed to read message contents: %w", err)
		}
	}
	return nil
}
