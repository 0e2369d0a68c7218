package telegram

import (
	"context"
	"fmt"
)

// maxReplyDepth caps how far up a reply chain the context builder walks.
const maxReplyDepth = 10

// MessageContext bundles a message with its surrounding conversation: the
// chain of messages it replies to (nearest first) and, when the message lives
// in a forum topic, the topic thread.
type MessageContext struct {
	Message    *Message
	ReplyChain []*Message
	// Skipped records reply-chain hops that could not be fetched, so a
	// partial chain is still distinguishable from a complete one.
	Skipped   []string
	Thread    []Message
	ThreadErr string
}

// ContextBuilder assembles MessageContext values from any API implementation.
type ContextBuilder struct {
	api API
}

func NewContextBuilder(api API) *ContextBuilder {
	return &ContextBuilder{api: api}
}

// Build fetches the message and walks its reply chain iteratively. A fetch
// failure along the chain stops the walk but is recorded rather than failing
// the whole build; only the root message fetch is fatal. The thread is
// fetched in one call when requested and the message belongs to one; a
// thread fetch failure yields an empty Thread, not an error.
func (b *ContextBuilder) Build(ctx context.Context, chatID string, messageID int, includeReplies, includeThread bool) (*MessageContext, error) {
	msg, err := b.api.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}

	mc := &MessageContext{Message: msg}

	if includeReplies {
		current := msg
		for depth := 0; depth < maxReplyDepth && current.ReplyToID != 0; depth++ {
			parent, err := b.api.GetMessage(ctx, chatID, current.ReplyToID)
			if err != nil {
				mc.Skipped = append(mc.Skipped,
					fmt.Sprintf("message %d: %v", current.ReplyToID, err))
				break
			}
			mc.ReplyChain = append(mc.ReplyChain, parent)
			current = parent
		}
		if current.ReplyToID != 0 && len(mc.ReplyChain) == maxReplyDepth {
			mc.Skipped = append(mc.Skipped,
				fmt.Sprintf("reply chain truncated at depth %d", maxReplyDepth))
		}
	}

	if includeThread && msg.ThreadID != 0 {
		thread, err := b.api.GetThreadMessages(ctx, chatID, msg.ThreadID)
		if err != nil {
			mc.ThreadErr = err.Error()
		} else {
			mc.Thread = thread
		}
	}

	return mc, nil
}
