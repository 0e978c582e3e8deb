package handlers

import (
	"telegram-team-bot/internal/text"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback actions. Data is "action" or "action|argument".
const (
	actionTasks      = "tasks"
	actionDiagrams   = "diagrams"
	actionSettings   = "settings"
	actionHelp       = "help"
	actionBack       = "back"
	actionMyTasks    = "my_tasks"
	actionCreateTask = "create_task"
	actionCancel     = "cancel"
	actionStatus     = "status"
)

func button(label, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, data)
}

func mainMenu() *tgbotapi.InlineKeyboardMarkup {
	m := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(text.EmojiTask+" Завдання", actionTasks)),
		tgbotapi.NewInlineKeyboardRow(button(text.EmojiDiagram+" Діаграми", actionDiagrams)),
		tgbotapi.NewInlineKeyboardRow(button(text.EmojiSettings+" Налаштування", actionSettings)),
		tgbotapi.NewInlineKeyboardRow(button(text.EmojiHelp+" Допомога", actionHelp)),
	)
	return &m
}

func tasksMenu() *tgbotapi.InlineKeyboardMarkup {
	m := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(text.EmojiTask+" Мої завдання", actionMyTasks)),
		tgbotapi.NewInlineKeyboardRow(button("➕ Створити завдання", actionCreateTask)),
		backRow("Назад"),
	)
	return &m
}

func backMenu() *tgbotapi.InlineKeyboardMarkup {
	m := tgbotapi.NewInlineKeyboardMarkup(backRow("Назад"))
	return &m
}

func backToMenu() *tgbotapi.InlineKeyboardMarkup {
	m := tgbotapi.NewInlineKeyboardMarkup(backRow("Назад до меню"))
	return &m
}

func cancelMenu() *tgbotapi.InlineKeyboardMarkup {
	m := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(text.EmojiCancel+" Скасувати", actionCancel)),
	)
	return &m
}

func backRow(label string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(button(text.EmojiBack+" "+label, actionBack))
}

func statusRow(key string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(button("♻️ Оновити статус", actionStatus+"|"+key))
}
