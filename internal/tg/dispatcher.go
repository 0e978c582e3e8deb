package tg

import "strings"

// Dispatcher routes an update to a handler: commands by name, callback
// buttons by the action before "|", active dialogs to OnStep, photos to
// OnPhoto and all remaining text to OnText.
type Dispatcher struct {
	commands  map[string]HandlerFunc
	callbacks map[string]HandlerFunc

	OnStep     HandlerFunc
	OnPhoto    HandlerFunc
	OnText     HandlerFunc
	OnCallback HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		commands:  make(map[string]HandlerFunc),
		callbacks: make(map[string]HandlerFunc),
	}
}

func (d *Dispatcher) Command(name string, h HandlerFunc) {
	d.commands[strings.ToLower(strings.TrimPrefix(name, "/"))] = h
}

func (d *Dispatcher) Callback(action string, h HandlerFunc) {
	d.callbacks[action] = h
}

// Commands lists the registered command names.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	return names
}

func (d *Dispatcher) Dispatch(ctx *Ctx) error {
	update := ctx.Upd
	if cb := update.CallbackQuery; cb != nil {
		action, _, _ := strings.Cut(cb.Data, "|")
		if h, ok := d.callbacks[action]; ok {
			return h(ctx)
		}
		if d.OnCallback != nil {
			return d.OnCallback(ctx)
		}
		return nil
	}

	message := update.Message
	if message == nil {
		return nil
	}
	if len(message.Photo) > 0 {
		return call(d.OnPhoto, ctx)
	}
	if name, _, ok := ParseCommand(message.Text, ctx.BotName); ok {
		if h, found := d.commands[name]; found {
			return h(ctx)
		}
		ctx.Log.Debug("unknown command", "command", name)
		return nil
	}
	if message.Text == "" {
		return nil
	}
	if d.OnStep != nil && ctx.Conversations != nil {
		if _, active := ctx.Conversations.Get(ctx.ChatID(), ctx.UserID()); active {
			return d.OnStep(ctx)
		}
	}
	return call(d.OnText, ctx)
}

func call(h HandlerFunc, ctx *Ctx) error {
	if h == nil {
		return nil
	}
	return h(ctx)
}
