package text

import (
	"fmt"
	"strings"

	"telegram-team-bot/internal/history"
	"telegram-team-bot/internal/jira"
	"telegram-team-bot/internal/store"
)

// ------------------ MENUS ------------------

func Welcome(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "друже"
	}
	return fmt.Sprintf("%s *Вітаю, %s!*\n\n"+
		"Цей бот створений для роботи з SysML діаграмами у команді. "+
		"Обирай розділ нижче:", EmojiRobot, EscapeMarkdown(name))
}

func Help() string {
	return EmojiHelp + " *Довідка*\n\n" +
		"Цей бот призначений для роботи з SysML діаграмами у команді.\n\n" +
		"*Доступні команди:*\n" +
		EmojiTask + " /tasks - Керування завданнями\n" +
		EmojiDiagram + " /diagrams - Робота з діаграмами\n" +
		EmojiSettings + " /settings - Налаштування\n" +
		"🗂 /create\\_issue - Завдання з історії чату\n" +
		"🔎 /status\\_issue KEY - Статус завдання\n" +
		"💬 /comment KEY текст - Коментар до завдання\n" +
		"🎭 /mood - Настрій бота\n" +
		EmojiHelp + " /help - Довідка\n\n" +
		"Згадай мене через @ у чаті, і я відповім з урахуванням історії та фото."
}

func Settings() string {
	return EmojiSettings + " *Налаштування*\n\nТут будуть налаштування бота."
}

func Diagrams() string {
	return EmojiDiagram + " *Розділ діаграм*\n\nТут будуть відображатися ваші SysML діаграми."
}

func GenericError() string {
	return EmojiError + " Сталася помилка. Будь ласка, спробуйте пізніше."
}

// ------------------ TASKS ------------------

func JiraUnavailable() string {
	return EmojiError + " Помилка підключення до Jira. Перевірте налаштування Jira у файлі .env"
}

func TasksMenu() string {
	return EmojiTask + " *Завдання*\n\nОберіть дію:"
}

// TodoDigest renders the project backlog in legacy Markdown.
func TodoDigest(issues []jira.Issue, browseURL func(key string) string) string {
	if len(issues) == 0 {
		return EmojiError + " Немає завдань у вашому проекті Jira."
	}
	lines := []string{EmojiTask + " *Ваші завдання:*\n"}
	for _, issue := range issues {
		lines = append(lines, fmt.Sprintf("*%s* - %s\nСтатус: *%s* | Пріоритет: *%s*\n[Відкрити в Jira](%s)\n",
			issue.Key,
			EscapeMarkdown(issue.Summary),
			EscapeMarkdown(issue.Status),
			EscapeMarkdown(PriorityWithIcon(issue.Priority)),
			browseURL(issue.Key),
		))
	}
	return strings.Join(lines, "\n")
}

func TasksFetchFailed(err error) string {
	return withError(EmojiError+" Помилка отримання завдань", err)
}

func TasksSentToChannel() string {
	return EmojiSuccess + " Завдання надіслано у канал!"
}

func ChannelMissing() string {
	return EmojiError + " Не вказано CHANNEL_ID у .env"
}

func ChannelSendFailed(err error) string {
	return withError(EmojiError+" Не вдалося надіслати у канал", err)
}

func AskTaskSummary() string {
	return EmojiTask + " Введіть короткий опис завдання:"
}

func AskTaskDescription() string {
	return EmojiTask + " Введіть детальний опис завдання:"
}

func TaskSummaryMissing() string {
	return EmojiError + " Помилка: не знайдено опис завдання. Спробуйте ще раз."
}

func TaskCreated(key, summary, url string) string {
	return fmt.Sprintf("%s Завдання створено: %s\n%s %s\n%s", EmojiSuccess, key, EmojiTask, summary, url)
}

func TaskCreateFailed(err error) string {
	return withError(EmojiError+" Помилка створення завдання", err)
}

func Cancelled() string {
	return EmojiInfo + " Операцію скасовано."
}

// ------------------ ISSUES ------------------

// IssueTitle names an issue created from a chat.
func IssueTitle(chatTitle string) string {
	if t := strings.TrimSpace(chatTitle); t != "" {
		return "Звернення з Telegram \"" + t + "\""
	}
	return "Звернення з Telegram"
}

// HistoryDoc builds an issue description from the chat history ledger.
func HistoryDoc(title, chatTitle string, entries []history.Entry) jira.Doc {
	doc := jira.NewDoc()
	if title != "" {
		doc.Append(jira.Heading(3, "Тема: "+title))
	}
	if len(entries) == 0 {
		doc.Append(jira.Paragraph(jira.Text("Історія повідомлень порожня")))
		return doc
	}

	heading := "Листування в Telegram"
	if t := strings.TrimSpace(chatTitle); t != "" {
		heading += ": " + t
	}
	doc.Append(jira.Heading(3, heading))

	for _, e := range entries {
		author := e.AuthorName
		if author == "" {
			author = "user"
		}
		if e.IsBot() {
			author += " (бот)"
		}
		header := author + ":"
		if ts := e.CreatedAt; !ts.IsZero() {
			header = ts.Local().Format("02.01.06 15:04") + " - " + header
		}
		body := e.Text
		if e.Kind == history.KindImage && e.ImageCount > 1 {
			body = fmt.Sprintf("%s (%d фото)", body, e.ImageCount)
		}
		panel := "info"
		if e.IsBot() {
			panel = "note"
		}
		doc.Append(
			jira.Paragraph(jira.Text(header, jira.Strong())),
			jira.Panel(panel, jira.Lines(body)),
		)
	}
	doc.Append(jira.Paragraph(jira.Text("Сформовано автоматично з листування Telegram", jira.Em())))
	return doc
}

func IssueCreatedHTML(title, key, url string) string {
	return fmt.Sprintf(
		"🎉 <b>Завдання створено</b>\n\n"+
			"📚 <b>Назва:</b> <code>%s</code>\n"+
			"🗝️ <b>Ключ:</b> <code>%s</code>\n"+
			"🔗 <b>Посилання:</b> <a href=\"%s\">%s</a>",
		EscapeHTML(title), EscapeHTML(key), url, EscapeHTML(url),
	)
}

func IssueCreateFailed() string {
	return EmojiError + " Не вдалося створити завдання"
}

func StatusCardHTML(issue *jira.Issue, url string) string {
	assignee := strings.TrimSpace(issue.Assignee)
	if assignee == "" {
		assignee = "Не призначено"
	}
	return fmt.Sprintf(
		"📚 <b>Назва:</b> <code>%s</code>\n"+
			"🗝️ <b>Ключ:</b> <a href=\"%s\">%s</a>\n\n"+
			"📌 <b>Статус:</b> %s\n"+
			"⚡ <b>Пріоритет:</b> %s\n"+
			"👤 <b>Відповідальний:</b> %s\n\n"+
			"🕑 <b>Створено:</b> %s\n"+
			"♻️ <b>Оновлено:</b> %s",
		EscapeHTML(issue.Summary),
		url, EscapeHTML(issue.Key),
		EscapeHTML(StatusWithIcon(issue.Status)),
		EscapeHTML(PriorityWithIcon(issue.Priority)),
		EscapeHTML(assignee),
		FormatDate(issue.Created),
		FormatDate(issue.Updated),
	)
}

func StatusNotFound(key string) string {
	return fmt.Sprintf("Завдання <code>%s</code> не знайдено", EscapeHTML(key))
}

func StatusFailed(key string, err error) string {
	return withError("Не вдалося отримати інформацію щодо "+key, err)
}

func StatusUsage(projectKey string) string {
	return fmt.Sprintf("Вкажіть ключ завдання: <code>/status_issue %s-123</code>", EscapeHTML(projectKey))
}

func CommentUsage(projectKey string) string {
	return fmt.Sprintf("Формат: <code>/comment %s-123 текст коментаря</code>", EscapeHTML(projectKey))
}

func CommentAdded(key string) string {
	return EmojiSuccess + " Коментар додано до " + key
}

// CommentFromTelegram attributes a chat message forwarded into an issue.
func CommentFromTelegram(body, author, chatTitle string) string {
	var b strings.Builder
	b.WriteString("💬 Повідомлення з Telegram")
	if t := strings.TrimSpace(chatTitle); t != "" {
		b.WriteString(" (" + t + ")")
	}
	b.WriteString("\n👤 Автор: " + author + "\n")
	b.WriteString(body)
	return b.String()
}

// ChatTicketsHTML lists the issues created from a chat.
func ChatTicketsHTML(tickets []store.Ticket, chatTitle string, browseURL func(key string) string) string {
	if len(tickets) == 0 {
		return "У цьому чаті ще не створено жодного завдання. Скористайтеся /create_issue."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Завдання чату")
	if t := strings.TrimSpace(chatTitle); t != "" {
		b.WriteString(" " + EscapeHTML(t))
	}
	b.WriteString("</b>\n")
	for _, t := range tickets {
		fmt.Fprintf(&b, "\n<a href=\"%s\">%s</a> %s", browseURL(t.Key), EscapeHTML(t.Key), EscapeHTML(t.Summary))
		if t.Status != "" {
			fmt.Fprintf(&b, " (%s)", EscapeHTML(StatusWithIcon(t.Status)))
		}
	}
	return b.String()
}

// TicketClosedHTML announces that a tracked issue reached a done status.
func TicketClosedHTML(t store.Ticket, status, url string) string {
	msg := fmt.Sprintf("🏁 Завдання <a href=\"%s\">%s</a> закрито: %s", url, EscapeHTML(t.Key), EscapeHTML(StatusWithIcon(status)))
	if t.Creator != "" {
		msg += "\n👤 @" + EscapeHTML(t.Creator)
	}
	return msg
}

// ------------------ MOOD ------------------

func MoodDisabled() string {
	return EmojiInfo + " Настрій бота вимкнено (MOOD_ENABLED=false)."
}

func MoodCard(status, flavor string) string {
	if flavor == "" {
		return status
	}
	return status + "\n\n" + flavor
}
