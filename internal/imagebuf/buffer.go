// Package imagebuf keeps a short-lived per-user cache of standalone images,
// so a mention sent right after a photo can still pull it into the model call.
package imagebuf

import (
	"sync"
	"time"
)

const (
	DefaultCapacity = 5
	DefaultTTL      = 60 * time.Second
)

type Image struct {
	Payload    []byte
	Caption    string
	CapturedAt time.Time
	MessageID  int
}

type Buffer struct {
	mu       sync.Mutex
	byUser   map[int64][]Image
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Buffer)

// WithClock overrides time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(b *Buffer) { b.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(b *Buffer) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

func WithCapacity(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.capacity = n
		}
	}
}

func New(opts ...Option) *Buffer {
	b := &Buffer{
		byUser:   make(map[int64][]Image),
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add records an image for the user, keeping only the newest entries.
// A zero CapturedAt is stamped with the buffer clock.
func (b *Buffer) Add(userID int64, img Image) {
	if b == nil || len(img.Payload) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if img.CapturedAt.IsZero() {
		img.CapturedAt = b.now()
	}
	images := append(b.byUser[userID], img)
	if len(images) > b.capacity {
		images = append([]Image(nil), images[len(images)-b.capacity:]...)
	}
	b.byUser[userID] = images
}

// Recent prunes expired entries and returns up to max newest images, oldest first.
func (b *Buffer) Recent(userID int64, max int) []Image {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recentLocked(userID, max)
}

// Take is Recent followed by dropping everything buffered for the user.
func (b *Buffer) Take(userID int64, max int) []Image {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.recentLocked(userID, max)
	delete(b.byUser, userID)
	return out
}

func (b *Buffer) recentLocked(userID int64, max int) []Image {
	images := b.byUser[userID]
	if len(images) == 0 {
		return nil
	}
	cutoff := b.now().Add(-b.ttl)
	fresh := images[:0:0]
	for _, img := range images {
		if img.CapturedAt.Before(cutoff) {
			continue
		}
		fresh = append(fresh, img)
	}
	if len(fresh) == 0 {
		delete(b.byUser, userID)
		return nil
	}
	b.byUser[userID] = fresh

	if max > 0 && len(fresh) > max {
		fresh = fresh[len(fresh)-max:]
	}
	out := make([]Image, len(fresh))
	copy(out, fresh)
	return out
}
