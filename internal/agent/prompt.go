package agent

import (
	"fmt"
	"strings"

	"telegram-team-bot/internal/history"
)

func SystemPrompt(botHandle string) string {
	return "Ти — @" + strings.TrimPrefix(botHandle, "@") + ", технічний асистент цього Telegram-чату. " +
		"Відповідай стисло, ясно і по суті. " +
		"Можеш наводити приклади, короткі формули, команди чи посилання на концепти, якщо це допомагає. " +
		"Не повторюй запит, не вітайся і не вибачайся без причини. " +
		"Якщо контекст недостатній, задай уточнююче питання. " +
		"Якщо питання не має сенсу або немає відповіді, чесно скажи про це. " +
		"Мова чату може бути українською, англійською або змішаною, відповідай тією ж мовою. " +
		"Контекст: інженерія, AI, backend, системний дизайн, low-level, API, ML/NLP, продуктивність, open source. " +
		"Ти можеш бути критичним і точним, але завжди корисним."
}

// UserPrompt renders the history block followed by the question.
func UserPrompt(entries []history.Entry, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Історія чату (останні %d):\n", len(entries))
	b.WriteString(history.Render(entries))
	b.WriteString("\nПитання: ")
	b.WriteString(question)
	return b.String()
}

func ModelErrorNotice(err error) string {
	return fmt.Sprintf("⚠️ Помилка при зверненні до моделі: %v", err)
}
