package tg

import (
	"context"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageRunes is Telegram's limit for one text message.
const MaxMessageRunes = 4096

// ChatSender sends plain text replies through the Bot API. Long texts are
// split into several messages; only the first is threaded.
type ChatSender struct {
	API API
}

func (s ChatSender) Send(ctx context.Context, chatID int64, text string, replyTo int) error {
	for i, part := range SplitMessage(text, MaxMessageRunes) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, part)
		if i == 0 {
			msg.ReplyToMessageID = replyTo
		}
		if _, err := s.API.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// SendTo posts Markdown text to a chat given by numeric id or "@channel" name.
func (s ChatSender) SendTo(channel string, text string) error {
	var msg tgbotapi.MessageConfig
	if id, ok := parseChatID(channel); ok {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(channel, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	_, err := s.API.Send(msg)
	return err
}

// SplitMessage cuts text into chunks of at most limit runes, preferring
// line breaks as cut points.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
