package handlers

import (
	"log/slog"
	"strings"

	"telegram-team-bot/internal/store"
	"telegram-team-bot/internal/text"
	"telegram-team-bot/internal/tg"
)

// Steps of the task creation dialog.
const (
	stepSummary     = "task_summary"
	stepDescription = "task_description"
)

// Tasks posts the TO DO digest to the channel, reports the outcome and
// opens the task menu.
func Tasks() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		c.AnswerCallback()
		if c.Jira == nil {
			return c.Reply(text.JiraUnavailable())
		}
		confirmation := postDigest(c)
		return c.Screen(text.EscapeMarkdown(confirmation)+"\n\n"+text.TasksMenu(), tasksMenu())
	}
}

func postDigest(c *tg.Ctx) string {
	if c.ChannelID == "" {
		return text.ChannelMissing()
	}
	body, err := RenderDigest(c.Std, c.Jira)
	if err != nil {
		c.Log.Error("failed to fetch tasks", "err", err)
		return text.TasksFetchFailed(err)
	}
	if err := (tg.ChatSender{API: c.API}).SendTo(c.ChannelID, body); err != nil {
		c.Log.Error("failed to post digest", "channel", c.ChannelID, "err", err)
		return text.ChannelSendFailed(err)
	}
	c.Log.Info("digest posted", "channel", c.ChannelID)
	return text.TasksSentToChannel()
}

// MyTasks shows the TO DO list in place of the menu.
func MyTasks() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		c.AnswerCallback()
		if c.Jira == nil {
			return c.Screen(text.JiraUnavailable(), backMenu())
		}
		body, err := RenderDigest(c.Std, c.Jira)
		if err != nil {
			c.Log.Error("failed to fetch tasks", "err", err)
			return c.Screen(text.EscapeMarkdown(text.TasksFetchFailed(err)), backMenu())
		}
		return c.Screen(body, backMenu())
	}
}

// CreateTask starts the summary/description dialog.
func CreateTask() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		c.AnswerCallback()
		if c.Jira == nil {
			return c.Screen(text.JiraUnavailable(), backMenu())
		}
		c.Conversations.Set(c.ChatID(), c.UserID(), stepSummary, nil)
		return c.Screen(text.AskTaskSummary(), cancelMenu())
	}
}

// Step continues an active dialog with the user's text.
func Step() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		record(c)
		conv, ok := c.Conversations.Get(c.ChatID(), c.UserID())
		if !ok {
			return nil
		}
		input := strings.TrimSpace(c.Upd.Message.Text)
		if input == "" {
			return nil
		}

		switch conv.Step {
		case stepSummary:
			c.Conversations.Set(c.ChatID(), c.UserID(), stepDescription, map[string]string{"summary": input})
			return c.Screen(text.AskTaskDescription(), cancelMenu())
		case stepDescription:
			return finishTask(c, conv.Data["summary"], input)
		default:
			c.Conversations.Delete(c.ChatID(), c.UserID())
			return nil
		}
	}
}

func finishTask(c *tg.Ctx, summary, description string) error {
	if summary == "" {
		c.Conversations.Set(c.ChatID(), c.UserID(), stepSummary, nil)
		return c.Screen(text.TaskSummaryMissing(), backMenu())
	}
	c.Conversations.Delete(c.ChatID(), c.UserID())
	if c.Jira == nil {
		return c.Reply(text.JiraUnavailable())
	}

	key, url, err := c.Jira.CreateIssue(c.Std, summary, description)
	if err != nil {
		c.Log.Error("failed to create task", "err", err)
		return c.SendMessageHTML(text.EscapeHTML(text.TaskCreateFailed(err)), backMenu().InlineKeyboard...)
	}
	c.Log.Info("task created", slog.String("key", key))
	c.Tickets.Add(store.Ticket{
		Key:     key,
		Summary: summary,
		ChatID:  c.ChatID(),
		Creator: creator(c),
	})
	return c.SendMessageHTML(text.EscapeHTML(text.TaskCreated(key, summary, url)), backToMenu().InlineKeyboard...)
}

// Cancel aborts the dialog, from the /cancel command or the cancel button.
func Cancel() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		c.AnswerCallback()
		c.Conversations.Delete(c.ChatID(), c.UserID())
		return c.Screen(text.Cancelled(), backToMenu())
	}
}

func creator(c *tg.Ctx) string {
	if u := c.From(); u != nil {
		return u.UserName
	}
	return ""
}
