// Package album merges the per-photo updates Telegram delivers for one
// media group into a single unit, flushed once the group goes quiet.
package album

import (
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultWindow = 2 * time.Second
	DefaultQuiet  = 1500 * time.Millisecond
)

// Photo is one incoming photo message of a media group.
type Photo struct {
	ChatID     int64
	GroupKey   string
	Payload    []byte
	Caption    string
	Mentioned  bool
	MessageID  int
	AuthorID   int64
	AuthorName string
	SentAt     time.Time
}

// Pending is the aggregation state of one in-flight media group.
type Pending struct {
	Key            string
	ChatID         int64
	Images         [][]byte
	Caption        string
	Mentioned      bool
	FirstMessageID int
	AuthorID       int64
	AuthorName     string
	SubmittedAt    time.Time
	LastUpdateAt   time.Time
}

// FlushFunc receives a detached album; it is already gone from the aggregator.
type FlushFunc func(Pending)

type group struct {
	pending *Pending
	timer   *time.Timer
}

// Aggregator owns every open album and one timer per album. Each new photo
// pushes the timer back by the window; when it fires after a quiet period
// the album is removed and handed to the flush callback exactly once.
type Aggregator struct {
	mu     sync.Mutex
	groups map[string]*group
	window time.Duration
	quiet  time.Duration
	flush  FlushFunc
	log    *slog.Logger
	closed bool
}

func NewAggregator(window, quiet time.Duration, flush FlushFunc, log *slog.Logger) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	if quiet <= 0 || quiet > window {
		quiet = window
	}
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		groups: make(map[string]*group),
		window: window,
		quiet:  quiet,
		flush:  flush,
		log:    log,
	}
}

// Add appends the photo to its album, creating the album on the first photo.
// It returns false when the photo has no group key or the aggregator is closed.
func (a *Aggregator) Add(p Photo) bool {
	if p.GroupKey == "" {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}

	now := time.Now()
	g, ok := a.groups[p.GroupKey]
	if !ok {
		submitted := p.SentAt
		if submitted.IsZero() {
			submitted = now
		}
		g = &group{pending: &Pending{
			Key:            p.GroupKey,
			ChatID:         p.ChatID,
			FirstMessageID: p.MessageID,
			AuthorID:       p.AuthorID,
			AuthorName:     p.AuthorName,
			SubmittedAt:    submitted,
		}}
		a.groups[p.GroupKey] = g
		a.log.Debug("album opened", slog.String("group", p.GroupKey), slog.Int64("chat_id", p.ChatID))
	}

	pending := g.pending
	if len(p.Payload) > 0 {
		pending.Images = append(pending.Images, p.Payload)
	}
	pending.Mentioned = pending.Mentioned || p.Mentioned
	if pending.Caption == "" && p.Caption != "" {
		pending.Caption = p.Caption
	}
	pending.LastUpdateAt = now

	if g.timer == nil {
		g.timer = time.AfterFunc(a.window, func() { a.fire(p.GroupKey, g) })
	} else {
		g.timer.Reset(a.window)
	}
	return true
}

func (a *Aggregator) fire(key string, g *group) {
	a.mu.Lock()
	if a.groups[key] != g {
		a.mu.Unlock()
		return
	}
	if idle := time.Since(g.pending.LastUpdateAt); idle < a.quiet {
		g.timer.Reset(a.quiet - idle)
		a.mu.Unlock()
		return
	}
	delete(a.groups, key)
	pending := *g.pending
	a.mu.Unlock()

	a.log.Debug("album flushed", slog.String("group", key), slog.Int("images", len(pending.Images)), slog.Bool("mentioned", pending.Mentioned))
	if a.flush != nil {
		a.flush(pending)
	}
}

// Pending returns a copy of the open album, if any.
func (a *Aggregator) Pending(key string) (Pending, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	g, ok := a.groups[key]
	if !ok {
		return Pending{}, false
	}
	p := *g.pending
	p.Images = append([][]byte(nil), g.pending.Images...)
	return p, true
}

func (a *Aggregator) Open() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.groups)
}

// Close drops every open album without flushing.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	for key, g := range a.groups {
		if g.timer != nil {
			g.timer.Stop()
		}
		delete(a.groups, key)
	}
}
