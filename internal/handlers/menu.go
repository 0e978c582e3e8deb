package handlers

import (
	"telegram-team-bot/internal/text"
	"telegram-team-bot/internal/tg"
)

// Start shows the main menu. The back button lands here too.
func Start() tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		c.AnswerCallback()
		name := ""
		if u := c.From(); u != nil {
			name = u.FirstName
		}
		return c.Screen(text.Welcome(name), mainMenu())
	}
}

func Help() tg.HandlerFunc {
	return screen(text.Help)
}

func Settings() tg.HandlerFunc {
	return screen(text.Settings)
}

func Diagrams() tg.HandlerFunc {
	return screen(text.Diagrams)
}

func screen(body func() string) tg.HandlerFunc {
	return func(c *tg.Ctx) error {
		c.AnswerCallback()
		return c.Screen(body(), backMenu())
	}
}
