package message_tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/telegram-mcp/internal/telegram"
)

// formatTimestamp renders unix seconds as a stable UTC timestamp.
func formatTimestamp(unixSeconds int) string {
	return time.Unix(int64(unixSeconds), 0).UTC().Format("2006-01-02 15:04:05")
}

// formatMessageEntry appends one numbered message entry to the builder.
func formatMessageEntry(b *strings.Builder, index int, msg *telegram.Message) {
	fmt.Fprintf(b, "\n%d. Message %d\n", index, msg.ID)

	sender := msg.SenderName
	if sender == "" && msg.SenderID != 0 {
		sender = fmt.Sprintf("id %d", msg.SenderID)
	}
	if msg.Out {
		sender = "me"
	}
	if sender != "" {
		fmt.Fprintf(b, "   From: %s\n", sender)
	}
	fmt.Fprintf(b, "   Date: %s\n", formatTimestamp(msg.Date))
	if msg.ReplyToID != 0 {
		fmt.Fprintf(b, "   Reply to: %d\n", msg.ReplyToID)
	}
	if msg.Edited {
		fmt.Fprintf(b, "   Edited: %s\n", formatTimestamp(msg.EditDate))
	}
	if msg.Forward != nil {
		fmt.Fprintf(b, "   Forwarded from: %s\n", formatForward(msg.Forward))
	}
	if msg.Media != nil {
		fmt.Fprintf(b, "   Media: %s\n", formatMedia(msg.Media))
	}
	if msg.Text != "" {
		fmt.Fprintf(b, "   Text: %s\n", msg.Text)
	}
}

// formatMessageList renders a header plus numbered message entries.
func formatMessageList(header string, messages []telegram.Message) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for i := range messages {
		formatMessageEntry(&b, i+1, &messages[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatForward(f *telegram.ForwardInfo) string {
	switch f.Origin {
	case telegram.ForwardFromUser:
		return fmt.Sprintf("user %s", f.SenderName)
	case telegram.ForwardFromChat:
		return fmt.Sprintf("chat %q", f.ChatTitle)
	case telegram.ForwardFromChannel:
		if f.MessageID != 0 {
			return fmt.Sprintf("channel %q (post %d)", f.ChatTitle, f.MessageID)
		}
		return fmt.Sprintf("channel %q", f.ChatTitle)
	case telegram.ForwardFromHiddenUser:
		return fmt.Sprintf("hidden user %s", f.SenderName)
	default:
		return string(f.Origin)
	}
}

func formatMedia(m *telegram.MediaInfo) string {
	var details []string
	if m.FileName != "" {
		details = append(details, m.FileName)
	}
	if m.FileSize > 0 {
		details = append(details, fmt.Sprintf("%d bytes", m.FileSize))
	}
	if m.Width > 0 && m.Height > 0 {
		details = append(details, fmt.Sprintf("%dx%d", m.Width, m.Height))
	}
	if m.Duration > 0 {
		details = append(details, fmt.Sprintf("%ds", m.Duration))
	}
	if len(details) == 0 {
		return string(m.Kind)
	}
	return fmt.Sprintf("%s (%s)", m.Kind, strings.Join(details, ", "))
}
