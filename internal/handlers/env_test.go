package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"telegram-team-bot/internal/agent"
	"telegram-team-bot/internal/history"
	"telegram-team-bot/internal/jira"
	"telegram-team-bot/internal/llm"
	"telegram-team-bot/internal/store"
	"telegram-team-bot/internal/tg"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	testChatID = int64(100)
	testUserID = int64(7)
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	answered int
	fileBase string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: 1000 + len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := c.(tgbotapi.CallbackConfig); ok {
		f.answered++
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return f.fileBase + "/" + fileID, nil
}

func (f *fakeAPI) all() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

// texts returns the bodies of sent and edited messages in order.
func (f *fakeAPI) texts() []string {
	var out []string
	for _, c := range f.all() {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) last() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fakeLLM struct {
	mu    sync.Mutex
	reqs  []llm.Request
	reply string
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.reply, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type env struct {
	api *fakeAPI
	llm *fakeLLM
	svc *tg.Services
	d   *tg.Dispatcher
}

// newEnv builds services around a fake Bot API. A nil jiraHandler leaves
// Jira unconfigured.
func newEnv(t *testing.T, jiraHandler http.Handler) *env {
	t.Helper()
	e := &env{api: &fakeAPI{}, llm: &fakeLLM{reply: "готово"}}
	e.svc = &tg.Services{
		BotName:       "devbot",
		History:       history.NewStore(history.DefaultLimit, testLog),
		Tickets:       store.NewTicketStore(),
		Conversations: tg.NewConversationStore(0),
	}
	if jiraHandler != nil {
		srv := httptest.NewServer(jiraHandler)
		t.Cleanup(srv.Close)
		client, err := jira.New(jira.Options{Server: srv.URL, Email: "bot@team.dev", APIToken: "secret", ProjectKey: "SYS"})
		if err != nil {
			t.Fatalf("jira.New: %v", err)
		}
		e.svc.Jira = client
	}
	e.svc.Agent = agent.New(context.Background(), agent.Config{BotHandle: "devbot"}, agent.Deps{
		Sender:  tg.ChatSender{API: e.api},
		LLM:     e.llm,
		History: e.svc.History,
		Log:     testLog,
	})
	t.Cleanup(e.svc.Agent.Close)

	e.d = tg.NewDispatcher()
	Register(e.d)
	return e
}

func (e *env) dispatch(t *testing.T, upd tgbotapi.Update) {
	t.Helper()
	ctx := &tg.Ctx{Std: context.Background(), API: e.api, Upd: upd, Log: testLog, Services: e.svc}
	if err := e.d.Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}

var (
	testChat = &tgbotapi.Chat{ID: testChatID, Title: "Team", Type: "supergroup"}
	testUser = &tgbotapi.User{ID: testUserID, UserName: "ann", FirstName: "Anna"}
)

func message(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 10,
		From:      testUser,
		Chat:      testChat,
		Date:      int(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC).Unix()),
		Text:      text,
	}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    testUser,
		Message: &tgbotapi.Message{MessageID: 50, Chat: testChat},
		Data:    data,
	}}
}

func keyboardData(t *testing.T, c tgbotapi.Chattable) []string {
	t.Helper()
	var markup any
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		markup = m.ReplyMarkup
	case tgbotapi.EditMessageTextConfig:
		if m.ReplyMarkup != nil {
			markup = *m.ReplyMarkup
		}
	}
	kb, ok := markup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return nil
	}
	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				data = append(data, *b.CallbackData)
			}
		}
	}
	return data
}
