package handlers

import (
	"telegram-team-bot/internal/store"
	"telegram-team-bot/internal/text"
	"telegram-team-bot/internal/tg"
)

// CreateIssue files a Jira issue whose description is the chat's recent
// history. Text after the command overrides the title.
func CreateIssue() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		if c.Jira == nil {
			return c.Reply(text.JiraUnavailable())
		}
		msg := c.Upd.Message
		chatTitle := msg.Chat.Title
		title := text.IssueTitle(chatTitle)
		if args := c.Args(); args != "" {
			title = args
		}

		entries := c.History.Read(msg.Chat.ID, 0)
		key, url, err := c.Jira.CreateIssue(c.Std, title, text.HistoryDoc(title, chatTitle, entries))
		if err != nil {
			c.Log.Error("failed to create issue", "err", err)
			return c.SendMessage(text.IssueCreateFailed())
		}
		c.Log.Info("issue created", "key", key, "entries", len(entries))

		c.Tickets.Add(store.Ticket{
			Key:     key,
			Summary: title,
			ChatID:  msg.Chat.ID,
			Creator: creator(c),
		})
		return c.SendMessageHTML(text.IssueCreatedHTML(title, key, url), statusRow(key))
	}
}
