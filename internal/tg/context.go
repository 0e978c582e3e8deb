package tg

import (
	"context"
	"log/slog"
	"strings"

	"telegram-team-bot/internal/agent"
	"telegram-team-bot/internal/history"
	"telegram-team-bot/internal/jira"
	"telegram-team-bot/internal/mood"
	"telegram-team-bot/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the part of *tgbotapi.BotAPI the handlers use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Services are the long-lived collaborators shared by every update.
// Jira is nil when it is not configured.
type Services struct {
	BotName       string
	ChannelID     string
	Jira          *jira.Client
	Agent         *agent.Agent
	History       *history.Store
	Mood          *mood.Manager
	Tickets       *store.TicketStore
	Conversations *ConversationStore
}

type Ctx struct {
	Std context.Context
	API API
	Upd tgbotapi.Update
	Log *slog.Logger
	*Services
}

// Message returns the update's message, or the message a callback button belongs to.
func (c *Ctx) Message() *tgbotapi.Message {
	if c.Upd.Message != nil {
		return c.Upd.Message
	}
	if c.Upd.CallbackQuery != nil {
		return c.Upd.CallbackQuery.Message
	}
	return nil
}

func (c *Ctx) ChatID() int64 {
	if chat := c.Upd.FromChat(); chat != nil {
		return chat.ID
	}
	return 0
}

func (c *Ctx) From() *tgbotapi.User {
	return c.Upd.SentFrom()
}

func (c *Ctx) UserID() int64 {
	if u := c.From(); u != nil {
		return u.ID
	}
	return 0
}

// Args is the text after the command token.
func (c *Ctx) Args() string {
	if c.Upd.Message == nil {
		return ""
	}
	return StripCommandText(c.Upd.Message.Text)
}

// CallbackArg returns the part of callback data after "action|".
func (c *Ctx) CallbackArg() string {
	if c.Upd.CallbackQuery == nil {
		return ""
	}
	_, arg, _ := strings.Cut(c.Upd.CallbackQuery.Data, "|")
	return arg
}

func (c *Ctx) SendMessage(text string) error {
	_, err := c.API.Send(tgbotapi.NewMessage(c.ChatID(), text))
	return err
}

func (c *Ctx) SendMessageHTML(text string, rows ...[]tgbotapi.InlineKeyboardButton) error {
	msg := tgbotapi.NewMessage(c.ChatID(), text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	_, err := c.API.Send(msg)
	return err
}

// Reply answers the current message in its thread.
func (c *Ctx) Reply(text string) error {
	msg := tgbotapi.NewMessage(c.ChatID(), text)
	if m := c.Upd.Message; m != nil {
		msg.ReplyToMessageID = m.MessageID
	}
	_, err := c.API.Send(msg)
	return err
}

// Screen shows a Markdown menu screen: a callback edits the message the
// button belongs to, a command sends a new message.
func (c *Ctx) Screen(text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if cb := c.Upd.CallbackQuery; cb != nil && cb.Message != nil {
		edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		edit.ReplyMarkup = markup
		_, err := c.API.Send(edit)
		return err
	}
	msg := tgbotapi.NewMessage(c.ChatID(), text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := c.API.Send(msg)
	return err
}

// AnswerCallback clears the loading state of a pressed button.
func (c *Ctx) AnswerCallback() {
	cb := c.Upd.CallbackQuery
	if cb == nil {
		return
	}
	if _, err := c.API.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		c.Log.Warn("failed to answer callback", "err", err)
	}
}
