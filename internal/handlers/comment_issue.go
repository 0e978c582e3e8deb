package handlers

import (
	"fmt"
	"strings"

	"telegram-team-bot/internal/common"
	"telegram-team-bot/internal/text"
	"telegram-team-bot/internal/tg"
)

// Comment adds "/comment KEY text" to an issue. Replying to a message that
// mentions the key lets the user omit it.
func Comment() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		if c.Jira == nil {
			return c.Reply(text.JiraUnavailable())
		}
		args := c.Args()
		key, body := splitKey(c, args)
		if key == "" || body == "" {
			return c.SendMessageHTML(text.CommentUsage(c.Jira.ProjectKey()))
		}

		msg := c.Upd.Message
		comment := text.CommentFromTelegram(body, common.FullName(msg.From), msg.Chat.Title)
		if err := c.Jira.AddComment(c.Std, key, comment); err != nil {
			return fmt.Errorf("comment %s: %w", key, err)
		}
		c.Log.Info("comment added", "key", key)
		return c.Reply(text.CommentAdded(key))
	}
}

// splitKey takes the key off the front of args, or from the replied-to
// message when args do not start with one.
func splitKey(c *tg.Ctx, args string) (key, body string) {
	re := issueKeyPattern(c.Jira.ProjectKey())
	first, rest, _ := strings.Cut(args, " ")
	if re.MatchString(first) && re.FindString(first) == first {
		return strings.ToUpper(first), strings.TrimSpace(rest)
	}
	if reply := c.Upd.Message.ReplyToMessage; reply != nil {
		if m := re.FindString(reply.Text + " " + reply.Caption); m != "" {
			return strings.ToUpper(m), args
		}
	}
	return "", ""
}
