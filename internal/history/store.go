package history

import (
	"errors"
	"log/slog"
	"sync"
)

// DefaultLimit is the per-chat cap applied after every append. It is also
// the ceiling: a store never holds more than DefaultLimit entries per chat.
const DefaultLimit = 30

// ErrBotImage rejects image entries that carry no author, i.e. written on behalf of the bot.
var ErrBotImage = errors.New("history: image entry without author")

// Store keeps a bounded, oldest-first log of entries per chat.
type Store struct {
	mu     sync.RWMutex
	byChat map[int64][]Entry
	limit  int
	log    *slog.Logger
}

func NewStore(limit int, log *slog.Logger) *Store {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		byChat: make(map[int64][]Entry),
		limit:  limit,
		log:    log,
	}
}

func (s *Store) Limit() int { return s.limit }

// Append adds entry to the chat log and evicts from the front down to the limit.
// An image entry whose MediaGroupKey matches an earlier entry is merged into the
// most recent match instead of being added.
func (s *Store) Append(chatID int64, entry Entry) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.byChat[chatID]
	if entry.Kind == KindImage && entry.MediaGroupKey != "" {
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Kind == KindImage && entries[i].MediaGroupKey == entry.MediaGroupKey {
				entries[i] = merge(entries[i], entry)
				s.byChat[chatID] = entries
				return
			}
		}
	}
	if entry.Kind == KindImage && entry.ImageCount < 1 {
		entry.ImageCount = 1
	}
	entries = append(entries, entry)
	if len(entries) > s.limit {
		entries = append([]Entry(nil), entries[len(entries)-s.limit:]...)
	}
	s.byChat[chatID] = entries
}

// AppendImage is the image logging path. Entries without an author are
// dropped: the bot's own images must never leak back into the context.
func (s *Store) AppendImage(chatID int64, entry Entry) error {
	if s == nil {
		return nil
	}
	if entry.AuthorID == nil {
		s.log.Warn("history: rejected image entry without author",
			slog.Int64("chat_id", chatID),
			slog.String("media_group", entry.MediaGroupKey))
		return ErrBotImage
	}
	entry.Kind = KindImage
	if entry.Text == "" {
		entry.Text = ImagePlaceholder
	}
	s.Append(chatID, entry)
	return nil
}

// Read returns up to limit most recent entries, oldest first.
// limit <= 0 returns the whole log.
func (s *Store) Read(chatID int64, limit int) []Entry {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.byChat[chatID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func (s *Store) Len(chatID int64) int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byChat[chatID])
}

func (s *Store) Clear(chatID int64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.byChat, chatID)
	s.mu.Unlock()
}

func merge(dst, src Entry) Entry {
	add := src.ImageCount
	if add < 1 {
		add = 1
	}
	dst.ImageCount += add
	if src.Text != "" && src.Text != ImagePlaceholder {
		dst.Text = src.Text
	}
	if len(src.Images) > 0 {
		dst.Images = append(append([][]byte(nil), dst.Images...), src.Images...)
	}
	return dst
}
