package text

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const (
	EmojiRobot    = "🤖"
	EmojiTask     = "📝"
	EmojiDiagram  = "📊"
	EmojiSettings = "⚙️"
	EmojiHelp     = "❓"
	EmojiBack     = "🔙"
	EmojiSuccess  = "✅"
	EmojiError    = "❌"
	EmojiWarning  = "⚠️"
	EmojiInfo     = "ℹ️"
	EmojiCancel   = "✖️"
)

func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

// EscapeMarkdown escapes the characters legacy Telegram Markdown treats as markup.
func EscapeMarkdown(text string) string {
	r := strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")
	return r.Replace(text)
}

func IsDoneStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "done", "closed", "resolved", "complete", "completed", "готово", "виконано", "закрито":
		return true
	default:
		return false
	}
}

func StatusWithIcon(status string) string {
	if status == "" {
		return "Невідомо"
	}
	switch strings.ToLower(status) {
	case "open", "to do", "new", "відкрито", "до виконання", "нове":
		return "⚪ " + status
	case "in progress", "в роботі", "виконується":
		return "🔵 " + status
	case "in review", "на перевірці":
		return "🟣 " + status
	case "blocked", "заблоковано", "скасовано":
		return "🔴 " + status
	}
	if IsDoneStatus(status) {
		return "🟢 " + status
	}
	return status
}

func PriorityWithIcon(priority string) string {
	switch strings.ToLower(priority) {
	case "":
		return "Не вказано"
	case "highest", "найвищий":
		return "🔴 " + priority
	case "high", "високий":
		return "🟠 " + priority
	case "medium", "середній":
		return "🟡 " + priority
	case "low", "низький":
		return "🟢 " + priority
	case "lowest", "найнижчий":
		return "⚪ " + priority
	default:
		return priority
	}
}

func FormatDate(date time.Time) string {
	if date.IsZero() {
		return "Не вказано"
	}
	return date.Local().Format("02.01.2006 15:04")
}

func withError(prefix string, err error) string {
	if err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, err)
}
