package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"telegram-team-bot/internal/agent"
	"telegram-team-bot/internal/common"
	"telegram-team-bot/internal/mention"
	"telegram-team-bot/internal/tg"
)

var downloadClient = &http.Client{Timeout: 30 * time.Second}

func chatMessage(c *tg.Ctx) agent.Message {
	msg := c.Upd.Message
	return agent.Message{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		UserID:    c.UserID(),
		UserName:  common.DisplayName(msg.From),
		Text:      msg.Text,
		Spans:     mention.SpansFromEntities(msg.Entities),
		SentAt:    msg.Time(),
	}
}

// record logs text that another handler consumes.
func record(c *tg.Ctx) {
	if c.Agent != nil && c.Upd.Message != nil {
		c.Agent.Record(chatMessage(c))
	}
}

// Text logs plain chat text and answers it when the bot is mentioned.
func Text() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		if c.Agent == nil {
			return nil
		}
		return c.Agent.HandleText(c.Std, chatMessage(c))
	}
}

// Photo downloads the largest size of a photo and hands it to the agent.
func Photo() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		if c.Agent == nil {
			return nil
		}
		msg := c.Upd.Message
		payload, err := common.DownloadPhoto(c.Std, c.API, downloadClient, msg)
		if err != nil {
			c.Log.Warn("photo skipped", slog.Int("message_id", msg.MessageID), slog.Any("err", err))
			return nil
		}
		return c.Agent.HandlePhoto(c.Std, agent.Photo{
			ChatID:       msg.Chat.ID,
			MessageID:    msg.MessageID,
			UserID:       c.UserID(),
			UserName:     common.DisplayName(msg.From),
			Payload:      payload,
			Caption:      msg.Caption,
			CaptionSpans: mention.SpansFromEntities(msg.CaptionEntities),
			MediaGroupID: msg.MediaGroupID,
			SentAt:       msg.Time(),
		})
	}
}
