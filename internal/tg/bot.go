package tg

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Options struct {
	Workers        int
	UpdatesTimeout int
	Commands       []tgbotapi.BotCommand
}

type Bot struct {
	api      *tgbotapi.BotAPI
	log      *slog.Logger
	updCfg   tgbotapi.UpdateConfig
	handler  HandlerFunc
	services *Services
	opts     Options
}

// New wraps the dispatcher with the given middleware. The first middleware
// is the outermost.
func New(api *tgbotapi.BotAPI, log *slog.Logger, opts Options, services *Services, d *Dispatcher, mw ...Middleware) *Bot {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.UpdatesTimeout <= 0 {
		opts.UpdatesTimeout = 60
	}
	upd := tgbotapi.NewUpdate(0)
	upd.Timeout = opts.UpdatesTimeout
	return &Bot{
		api:      api,
		log:      log,
		updCfg:   upd,
		handler:  Chain(d.Dispatch, mw...),
		services: services,
		opts:     opts,
	}
}

func (b *Bot) Run(ctx context.Context) error {
	if err := b.initCommands(); err != nil {
		b.log.Warn("failed to initialize bot commands", "err", err)
	}

	updatesChan := b.api.GetUpdatesChan(b.updCfg)
	jobs := make(chan tgbotapi.Update, 1024)

	var wg sync.WaitGroup
	for i := 0; i < b.opts.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for upd := range jobs {
				b.handle(ctx, id, upd)
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			close(jobs)
			wg.Wait()
			return nil
		case upd := <-updatesChan:
			jobs <- upd
		}
	}
}

func (b *Bot) handle(ctx context.Context, worker int, upd tgbotapi.Update) {
	c := &Ctx{
		Std: ctx,
		API: b.api,
		Upd: upd,
		Log: b.log.With(
			slog.Int("tg-worker", worker),
			slog.String("trace", uuid.NewString()),
			slog.Int("update_id", upd.UpdateID),
		),
		Services: b.services,
	}
	if err := b.handler(c); err != nil {
		c.Log.Error("failed to dispatch update", "err", err)
	}
}

func (b *Bot) initCommands() error {
	if len(b.opts.Commands) == 0 {
		return nil
	}
	_, err := b.api.Request(tgbotapi.NewSetMyCommands(b.opts.Commands...))
	return err
}
