package tg

import (
	"sync"
	"time"
)

const DefaultConversationTTL = 15 * time.Minute

// Conversation is the state of a multi-step dialog with one user in one chat.
type Conversation struct {
	Step      string
	Data      map[string]string
	UpdatedAt time.Time
}

type convKey struct {
	chatID int64
	userID int64
}

// ConversationStore keeps dialog state per (chat, user). Idle dialogs
// expire after the TTL.
type ConversationStore struct {
	mu    sync.Mutex
	items map[convKey]Conversation
	ttl   time.Duration
	now   func() time.Time
}

func NewConversationStore(ttl time.Duration) *ConversationStore {
	if ttl <= 0 {
		ttl = DefaultConversationTTL
	}
	return &ConversationStore{
		items: make(map[convKey]Conversation),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *ConversationStore) Get(chatID, userID int64) (Conversation, bool) {
	if s == nil {
		return Conversation{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := convKey{chatID, userID}
	c, ok := s.items[k]
	if !ok {
		return Conversation{}, false
	}
	if s.now().Sub(c.UpdatedAt) > s.ttl {
		delete(s.items, k)
		return Conversation{}, false
	}
	data := make(map[string]string, len(c.Data))
	for k, v := range c.Data {
		data[k] = v
	}
	c.Data = data
	return c, true
}

// Set moves the dialog to step, merging data into what was collected so far.
func (s *ConversationStore) Set(chatID, userID int64, step string, data map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := convKey{chatID, userID}
	c := s.items[k]
	if c.Data == nil {
		c.Data = make(map[string]string)
	}
	for k, v := range data {
		c.Data[k] = v
	}
	c.Step = step
	c.UpdatedAt = s.now()
	s.items[k] = c
}

// Delete ends the dialog and reports whether one was active.
func (s *ConversationStore) Delete(chatID, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := convKey{chatID, userID}
	_, ok := s.items[k]
	delete(s.items, k)
	return ok
}
