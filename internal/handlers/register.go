// Package handlers implements the bot's commands, menu buttons and chat
// handlers on top of the tg dispatcher.
package handlers

import (
	"telegram-team-bot/internal/tg"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Register wires every handler into d.
func Register(d *tg.Dispatcher) {
	d.Command("start", Start())
	d.Command("help", Help())
	d.Command("settings", Settings())
	d.Command("diagrams", Diagrams())
	d.Command("tasks", Tasks())
	d.Command("cancel", Cancel())
	d.Command("create_issue", CreateIssue())
	d.Command("status_issue", GetIssue())
	d.Command("comment", Comment())
	d.Command("mood", Mood())

	d.Callback(actionTasks, Tasks())
	d.Callback(actionDiagrams, Diagrams())
	d.Callback(actionSettings, Settings())
	d.Callback(actionHelp, Help())
	d.Callback(actionBack, Start())
	d.Callback(actionMyTasks, MyTasks())
	d.Callback(actionCreateTask, CreateTask())
	d.Callback(actionCancel, Cancel())
	d.Callback(actionStatus, RefreshStatus())
	d.OnCallback = func(c *tg.Ctx) error {
		c.AnswerCallback()
		return nil
	}

	d.OnStep = Step()
	d.OnPhoto = Photo()
	d.OnText = Text()
}

// BotCommands is the command list shown in the Telegram client menu.
func BotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Головне меню"},
		{Command: "tasks", Description: "Керування завданнями"},
		{Command: "create_issue", Description: "Завдання з історії чату"},
		{Command: "status_issue", Description: "Статус завдання"},
		{Command: "comment", Description: "Коментар до завдання"},
		{Command: "mood", Description: "Настрій бота"},
		{Command: "diagrams", Description: "Робота з діаграмами"},
		{Command: "settings", Description: "Налаштування"},
		{Command: "cancel", Description: "Скасувати операцію"},
		{Command: "help", Description: "Довідка"},
	}
}
