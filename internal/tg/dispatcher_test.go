package tg

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type routeRecorder struct {
	got []string
}

func (r *routeRecorder) handler(name string) HandlerFunc {
	return func(*Ctx) error {
		r.got = append(r.got, name)
		return nil
	}
}

func newTestDispatcher(r *routeRecorder) *Dispatcher {
	d := NewDispatcher()
	d.Command("start", r.handler("start"))
	d.Command("/tasks", r.handler("tasks"))
	d.Callback("status", r.handler("cb:status"))
	d.OnCallback = r.handler("cb:fallback")
	d.OnStep = r.handler("step")
	d.OnPhoto = r.handler("photo")
	d.OnText = r.handler("text")
	return d
}

func TestDispatch_Routes(t *testing.T) {
	photo := textUpdate(1, 2, "")
	photo.Message.Photo = []tgbotapi.PhotoSize{{FileID: "p"}}
	photo.Message.Caption = "/start"

	tests := []struct {
		name string
		upd  tgbotapi.Update
		want string
	}{
		{"command", textUpdate(1, 2, "/start"), "start"},
		{"command for this bot", textUpdate(1, 2, "/tasks@devbot"), "tasks"},
		{"plain text", textUpdate(1, 2, "hello"), "text"},
		{"photo wins over caption", photo, "photo"},
		{"callback action", tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{Data: "status|SYS-1"}}, "cb:status"},
		{"unknown callback", tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{Data: "nope"}}, "cb:fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &routeRecorder{}
			d := newTestDispatcher(r)
			if err := d.Dispatch(newTestCtx(&fakeAPI{}, tt.upd)); err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if len(r.got) != 1 || r.got[0] != tt.want {
				t.Errorf("routed to %v, want %s", r.got, tt.want)
			}
		})
	}
}

func TestDispatch_IgnoresForeignAndUnknownCommands(t *testing.T) {
	for _, text := range []string{"/tasks@otherbot", "/unknown"} {
		r := &routeRecorder{}
		if err := newTestDispatcher(r).Dispatch(newTestCtx(&fakeAPI{}, textUpdate(1, 2, text))); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		if len(r.got) != 0 {
			t.Errorf("%q routed to %v, want nothing", text, r.got)
		}
	}
}

func TestDispatch_ActiveConversationTakesText(t *testing.T) {
	r := &routeRecorder{}
	d := newTestDispatcher(r)
	ctx := newTestCtx(&fakeAPI{}, textUpdate(1, 2, "Fix CI"))
	ctx.Conversations.Set(1, 2, "summary", nil)

	if err := d.Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	other := newTestCtx(&fakeAPI{}, textUpdate(1, 3, "hi"))
	other.Services = ctx.Services
	_ = d.Dispatch(other)

	if strings.Join(r.got, ",") != "step,text" {
		t.Errorf("routes = %v, want step then text", r.got)
	}
}

func TestMiddleware_RecoverAndNotify(t *testing.T) {
	api := &fakeAPI{}
	ctx := newTestCtx(api, textUpdate(1, 2, "boom"))
	h := Chain(func(*Ctx) error { panic("nil map") }, NotifyErrors("❌ failed"), Recover())

	err := h(ctx)
	if err == nil || !strings.Contains(err.Error(), "nil map") {
		t.Fatalf("err = %v, want recovered panic", err)
	}
	if got := api.texts(); len(got) != 1 || got[0] != "❌ failed" {
		t.Errorf("sent = %v", got)
	}
}

func TestMiddleware_NoNoticeOnSuccess(t *testing.T) {
	api := &fakeAPI{}
	h := Chain(func(*Ctx) error { return nil }, NotifyErrors("x"), LogDuration())
	if err := h(newTestCtx(api, textUpdate(1, 2, "ok"))); err != nil {
		t.Fatal(err)
	}
	if len(api.texts()) != 0 {
		t.Errorf("sent = %v, want nothing", api.texts())
	}

	failing := Chain(func(*Ctx) error { return errors.New("jira down") }, NotifyErrors("x"))
	if err := failing(newTestCtx(api, textUpdate(1, 2, "ok"))); err == nil {
		t.Error("error swallowed")
	}
}

func TestScreen_EditsOnCallback(t *testing.T) {
	api := &fakeAPI{}
	upd := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 2},
		Message: &tgbotapi.Message{MessageID: 77, Chat: &tgbotapi.Chat{ID: 1}},
		Data:    "help",
	}}
	ctx := newTestCtx(api, upd)
	if err := ctx.Screen("menu", nil); err != nil {
		t.Fatal(err)
	}
	edit, ok := api.sent[0].(tgbotapi.EditMessageTextConfig)
	if !ok || edit.MessageID != 77 || edit.ChatID != 1 {
		t.Errorf("sent = %#v, want edit of message 77", api.sent[0])
	}
	ctx.AnswerCallback()
	if len(api.requests) != 1 {
		t.Errorf("callback answers = %d, want 1", len(api.requests))
	}
}
