package handlers

import (
	"errors"
	"regexp"
	"strings"

	"telegram-team-bot/internal/jira"
	"telegram-team-bot/internal/text"
	"telegram-team-bot/internal/tg"
)

func issueKeyPattern(project string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(project) + `-\d+\b`)
}

// findIssueKey looks for a project key in s, then in the replied-to message.
func findIssueKey(c *tg.Ctx, s string) string {
	re := issueKeyPattern(c.Jira.ProjectKey())
	if m := re.FindString(s); m != "" {
		return strings.ToUpper(m)
	}
	if reply := c.Upd.Message.ReplyToMessage; reply != nil {
		if m := re.FindString(reply.Text + " " + reply.Caption); m != "" {
			return strings.ToUpper(m)
		}
	}
	return ""
}

// GetIssue shows a status card. Without a key it lists the issues
// created from this chat.
func GetIssue() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		if c.Jira == nil {
			return c.Reply(text.JiraUnavailable())
		}
		if key := findIssueKey(c, c.Args()); key != "" {
			return processGetIssue(c, key)
		}

		tickets := c.Tickets.ListByChat(c.ChatID())
		if len(tickets) == 0 {
			return c.SendMessageHTML(text.StatusUsage(c.Jira.ProjectKey()))
		}
		return c.SendMessageHTML(text.ChatTicketsHTML(tickets, c.Upd.Message.Chat.Title, c.Jira.BrowseURL))
	}
}

// RefreshStatus handles the "status|KEY" button.
func RefreshStatus() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		c.AnswerCallback()
		key := strings.TrimSpace(c.CallbackArg())
		if key == "" || c.Jira == nil {
			return nil
		}
		return processGetIssue(c, key)
	}
}

func processGetIssue(c *tg.Ctx, key string) error {
	info, err := c.Jira.GetIssueStatus(c.Std, key)
	if err != nil {
		if errors.Is(err, jira.ErrNotFound) {
			return c.SendMessageHTML(text.StatusNotFound(key))
		}
		c.Log.Error("failed to get issue", "key", key, "err", err)
		return c.SendMessage(text.StatusFailed(key, err))
	}
	c.Tickets.UpdateStatus(info.Key, info.Status)
	return c.SendMessageHTML(text.StatusCardHTML(info, c.Jira.BrowseURL(info.Key)), statusRow(info.Key))
}
