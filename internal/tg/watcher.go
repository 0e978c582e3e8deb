package tg

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"telegram-team-bot/internal/jira"
	"telegram-team-bot/internal/store"
	"telegram-team-bot/internal/text"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	DefaultPollInterval = 5 * time.Minute
	closedRetention     = 3 * 24 * time.Hour
)

// IssueSource is the part of the Jira client the watcher polls.
type IssueSource interface {
	GetIssueStatus(ctx context.Context, key string) (*jira.Issue, error)
	BrowseURL(key string) string
}

// TicketWatcher polls the issues created from chats and tells the chat
// when one of them is done.
type TicketWatcher struct {
	issues   IssueSource
	tickets  *store.TicketStore
	api      API
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewTicketWatcher(issues IssueSource, tickets *store.TicketStore, api API, interval time.Duration, log *slog.Logger) *TicketWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &TicketWatcher{
		issues:   issues,
		tickets:  tickets,
		api:      api,
		interval: interval,
		log:      log.With(slog.String("component", "ticket-watcher")),
		now:      time.Now,
	}
}

func (w *TicketWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll checks every tracked ticket once.
func (w *TicketWatcher) Poll(ctx context.Context) {
	for _, t := range w.tickets.List() {
		if ctx.Err() != nil {
			return
		}
		w.check(ctx, t)
	}
}

func (w *TicketWatcher) check(ctx context.Context, t store.Ticket) {
	info, err := w.issues.GetIssueStatus(ctx, t.Key)
	if errors.Is(err, jira.ErrNotFound) {
		w.log.Info("tracked issue is gone", "key", t.Key)
		w.tickets.Delete(t.Key)
		return
	}
	if err != nil {
		w.log.Warn("failed to get issue status", "key", t.Key, "err", err)
		return
	}

	done := text.IsDoneStatus(info.Status)
	if done && !info.Updated.IsZero() && info.Updated.Before(w.now().Add(-closedRetention)) {
		w.log.Info("removing stale closed issue", "key", t.Key, "updated", info.Updated)
		w.tickets.Delete(t.Key)
		return
	}
	if !w.tickets.UpdateStatus(t.Key, info.Status) {
		return
	}
	w.log.Info("issue status updated", "key", t.Key, "status", info.Status)
	if !done {
		return
	}
	msg := tgbotapi.NewMessage(t.ChatID, text.TicketClosedHTML(t, info.Status, w.issues.BrowseURL(t.Key)))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := w.api.Send(msg); err != nil {
		w.log.Error("failed to notify chat", "key", t.Key, "chat_id", t.ChatID, "err", err)
	}
}
