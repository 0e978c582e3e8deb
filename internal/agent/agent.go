// Package agent answers chat messages that address the bot. It records the
// chat into the history ledger, collects album photos and recently posted
// images, and asks the model for a reply tuned by the current mood.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"telegram-team-bot/internal/album"
	"telegram-team-bot/internal/history"
	"telegram-team-bot/internal/imagebuf"
	"telegram-team-bot/internal/llm"
	"telegram-team-bot/internal/mention"
	"telegram-team-bot/internal/mood"
)

const (
	DefaultTimeout     = 60 * time.Second
	DefaultTemperature = 0.7

	recallImages = 3
	albumHistory = 10
	photoHistory = 10
)

// Sender delivers a text message, optionally threaded as a reply.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, replyTo int) error
}

type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Message is a plain text chat message.
type Message struct {
	ChatID    int64
	MessageID int
	UserID    int64
	UserName  string
	Text      string
	Spans     []mention.Span
	SentAt    time.Time
}

// Photo is one photo message; MediaGroupID is set for album members.
type Photo struct {
	ChatID       int64
	MessageID    int
	UserID       int64
	UserName     string
	Payload      []byte
	Caption      string
	CaptionSpans []mention.Span
	MediaGroupID string
	SentAt       time.Time
}

type Config struct {
	BotHandle   string
	Timeout     time.Duration
	Temperature float64
	// MoodEnabled lets the mood manager pick the sampling temperature.
	MoodEnabled bool
	// MoodPrefix prepends the mood status line to replies.
	MoodPrefix   bool
	HistoryLimit int
	AlbumWindow  time.Duration
	AlbumQuiet   time.Duration
}

type Deps struct {
	Sender  Sender
	LLM     Completer
	History *history.Store
	Images  *imagebuf.Buffer
	Mood    *mood.Manager
	Log     *slog.Logger
}

type Agent struct {
	base     context.Context
	cfg      Config
	sender   Sender
	llm      Completer
	history  *history.Store
	images   *imagebuf.Buffer
	mood     *mood.Manager
	albums   *album.Aggregator
	detector *mention.Detector
	log      *slog.Logger
}

// New wires the agent. ctx bounds model calls made from album timers,
// which run outside any update.
func New(ctx context.Context, cfg Config, deps Deps) *Agent {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = history.DefaultLimit
	}
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	images := deps.Images
	if images == nil {
		images = imagebuf.New()
	}
	a := &Agent{
		base:     ctx,
		cfg:      cfg,
		sender:   deps.Sender,
		llm:      deps.LLM,
		history:  deps.History,
		images:   images,
		mood:     deps.Mood,
		detector: mention.NewDetector(cfg.BotHandle),
		log:      log.With(slog.String("component", "agent")),
	}
	a.albums = album.NewAggregator(cfg.AlbumWindow, cfg.AlbumQuiet, a.flushAlbum, a.log)
	return a
}

// Close drops albums that have not been flushed yet.
func (a *Agent) Close() {
	a.albums.Close()
}

func (a *Agent) Albums() *album.Aggregator { return a.albums }

// Record logs a user text message into the chat history.
// Commands and blank messages are skipped.
func (a *Agent) Record(msg Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}
	a.history.Append(msg.ChatID, history.Entry{
		Kind:       history.KindText,
		AuthorID:   history.UserID(msg.UserID),
		AuthorName: msg.UserName,
		Text:       msg.Text,
		MessageID:  msg.MessageID,
		CreatedAt:  sentAt(msg.SentAt),
	})
}

// HandleText records the message and, when the bot is mentioned, answers it
// with the chat history and the user's recent images as context.
func (a *Agent) HandleText(ctx context.Context, msg Message) error {
	a.Record(msg)
	if !a.detector.Match(msg.Text, msg.Spans) {
		return nil
	}

	question := a.detector.Strip(msg.Text)
	var payloads [][]byte
	for _, img := range a.images.Take(msg.UserID, recallImages) {
		payloads = append(payloads, img.Payload)
	}
	log := a.log.With(slog.Int64("chat_id", msg.ChatID), slog.Int("message_id", msg.MessageID))
	log.Info("bot mentioned", slog.String("user", msg.UserName), slog.Int("images", len(payloads)))

	return a.answer(ctx, log, msg.ChatID, msg.MessageID, question, payloads, a.cfg.HistoryLimit)
}

// HandlePhoto buffers the image for later recall, routes album members to
// the aggregator and answers standalone photos whose caption mentions the bot.
func (a *Agent) HandlePhoto(ctx context.Context, p Photo) error {
	a.images.Add(p.UserID, imagebuf.Image{
		Payload:   p.Payload,
		Caption:   p.Caption,
		MessageID: p.MessageID,
	})
	mentioned := a.detector.Match(p.Caption, p.CaptionSpans)

	if p.MediaGroupID != "" {
		a.albums.Add(album.Photo{
			ChatID:     p.ChatID,
			GroupKey:   p.MediaGroupID,
			Payload:    p.Payload,
			Caption:    p.Caption,
			Mentioned:  mentioned,
			MessageID:  p.MessageID,
			AuthorID:   p.UserID,
			AuthorName: p.UserName,
			SentAt:     p.SentAt,
		})
		return nil
	}

	if err := a.history.AppendImage(p.ChatID, history.Entry{
		AuthorID:   history.UserID(p.UserID),
		AuthorName: p.UserName,
		Text:       p.Caption,
		ImageCount: 1,
		MessageID:  p.MessageID,
		CreatedAt:  sentAt(p.SentAt),
	}); err != nil {
		a.log.Warn("photo not logged", slog.Any("err", err))
	}
	if !mentioned {
		return nil
	}

	a.images.Take(p.UserID, 0)
	log := a.log.With(slog.Int64("chat_id", p.ChatID), slog.Int("message_id", p.MessageID))
	log.Info("bot mentioned in photo caption", slog.String("user", p.UserName))
	return a.answer(ctx, log, p.ChatID, p.MessageID, a.detector.Strip(p.Caption), [][]byte{p.Payload}, photoHistory)
}

func (a *Agent) flushAlbum(p album.Pending) {
	log := a.log.With(slog.Int64("chat_id", p.ChatID), slog.String("media_group", p.Key))
	entry := history.Entry{
		AuthorID:      history.UserID(p.AuthorID),
		AuthorName:    p.AuthorName,
		Text:          p.Caption,
		ImageCount:    len(p.Images),
		MediaGroupKey: p.Key,
		MessageID:     p.FirstMessageID,
		CreatedAt:     p.SubmittedAt,
	}

	if !p.Mentioned {
		if err := a.history.AppendImage(p.ChatID, entry); err != nil {
			log.Warn("album not logged", slog.Any("err", err))
		}
		return
	}

	a.images.Take(p.AuthorID, 0)
	log.Info("bot mentioned in album", slog.String("user", p.AuthorName), slog.Int("images", len(p.Images)))
	if err := a.answer(a.base, log, p.ChatID, p.FirstMessageID, a.detector.Strip(p.Caption), p.Images, albumHistory); err != nil {
		log.Error("album reply failed", slog.Any("err", err))
		// No middleware wraps a timer flush, so the notice is sent here.
		if err := a.sender.Send(a.base, p.ChatID, ModelErrorNotice(err), p.FirstMessageID); err != nil {
			log.Error("album error notice failed", slog.Any("err", err))
		}
	}

	entry.Images = p.Images
	if err := a.history.AppendImage(p.ChatID, entry); err != nil {
		log.Warn("album not logged", slog.Any("err", err))
	}
}

// answer runs one model call and sends the result threaded to replyTo.
// Model failures are reported to the chat and not returned; only a failed
// send is an error.
func (a *Agent) answer(ctx context.Context, log *slog.Logger, chatID int64, replyTo int, question string, images [][]byte, historyLimit int) error {
	entries := history.WithoutAuthor(a.history.Read(chatID, historyLimit), a.cfg.BotHandle)
	req := llm.Request{
		System:      SystemPrompt(a.cfg.BotHandle),
		Text:        UserPrompt(entries, question),
		Images:      images,
		Temperature: a.cfg.Temperature,
	}

	prefix := ""
	if a.mood != nil && a.cfg.MoodEnabled {
		label, temperature, _ := a.mood.Update(ctx, question)
		req.Temperature = temperature
		if a.cfg.MoodPrefix {
			prefix = a.mood.StatusPrefix(label, temperature)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	reply, err := a.llm.Complete(callCtx, req)
	cancel()
	if err != nil {
		log.Error("model call failed", slog.Any("err", err))
		return a.sender.Send(ctx, chatID, ModelErrorNotice(err), replyTo)
	}
	if prefix != "" {
		reply = prefix + "\n" + reply
	}

	if err := a.sender.Send(ctx, chatID, reply, replyTo); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	a.history.Append(chatID, history.BotText(a.cfg.BotHandle, reply, time.Now()))
	log.Debug("reply sent", slog.Int("len", len(reply)))
	return nil
}

func sentAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
