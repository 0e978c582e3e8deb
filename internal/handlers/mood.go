package handlers

import (
	"strings"

	"telegram-team-bot/internal/text"
	"telegram-team-bot/internal/tg"
)

// Mood reports the bot's current mood; "/mood reset" returns it to neutral.
func Mood() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		if c.Mood == nil {
			return c.SendMessage(text.MoodDisabled())
		}
		if strings.EqualFold(c.Args(), "reset") {
			c.Mood.Reset()
			c.Log.Info("mood reset", "user_id", c.UserID())
		}
		label := c.Mood.Current()
		status := c.Mood.StatusPrefix(label, c.Mood.Temperature(label))
		return c.SendMessage(text.MoodCard(status, c.Mood.FlavorLine(label)))
	}
}
