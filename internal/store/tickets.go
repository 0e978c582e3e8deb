package store

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Ticket is a Jira issue created from a chat.
type Ticket struct {
	Key       string
	Summary   string
	Status    string
	ChatID    int64
	Creator   string
	CreatedAt time.Time
}

// TicketStore remembers which chat each bot-created issue belongs to,
// so the chat can list its issues and hear about status changes.
type TicketStore struct {
	mu    sync.RWMutex
	byKey map[string]Ticket
}

func NewTicketStore() *TicketStore {
	return &TicketStore{byKey: make(map[string]Ticket)}
}

func (s *TicketStore) Add(t Ticket) {
	if s == nil || t.Key == "" {
		return
	}
	t.Key = strings.ToUpper(t.Key)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.mu.Lock()
	s.byKey[t.Key] = t
	s.mu.Unlock()
}

func (s *TicketStore) Get(key string) (Ticket, bool) {
	if s == nil {
		return Ticket{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byKey[strings.ToUpper(key)]
	return t, ok
}

func (s *TicketStore) Delete(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.byKey, strings.ToUpper(key))
	s.mu.Unlock()
}

// List returns every ticket, oldest first.
func (s *TicketStore) List() []Ticket {
	return s.filter(func(Ticket) bool { return true })
}

// ListByChat returns the tickets created from chatID, oldest first.
func (s *TicketStore) ListByChat(chatID int64) []Ticket {
	return s.filter(func(t Ticket) bool { return t.ChatID == chatID })
}

func (s *TicketStore) filter(keep func(Ticket) bool) []Ticket {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	out := make([]Ticket, 0, len(s.byKey))
	for _, t := range s.byKey {
		if keep(t) {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Key < out[j].Key
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// UpdateStatus stores a new status and reports whether it changed.
// Unknown keys are ignored.
func (s *TicketStore) UpdateStatus(key, status string) bool {
	if s == nil || status == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := strings.ToUpper(key)
	t, ok := s.byKey[k]
	if !ok || t.Status == status {
		return false
	}
	t.Status = status
	s.byKey[k] = t
	return true
}
