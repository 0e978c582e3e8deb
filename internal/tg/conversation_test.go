package tg

import (
	"testing"
	"time"
)

func TestConversationStore(t *testing.T) {
	s := NewConversationStore(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if _, ok := s.Get(1, 2); ok {
		t.Fatal("Get on empty store ok = true")
	}
	s.Set(1, 2, "summary", nil)
	s.Set(1, 2, "description", map[string]string{"summary": "Fix CI"})

	c, ok := s.Get(1, 2)
	if !ok || c.Step != "description" || c.Data["summary"] != "Fix CI" {
		t.Fatalf("Get = %+v, %v", c, ok)
	}
	c.Data["summary"] = "mutated"
	if again, _ := s.Get(1, 2); again.Data["summary"] != "Fix CI" {
		t.Error("Get returned shared data map")
	}
	if _, ok := s.Get(1, 3); ok {
		t.Error("other user sees the dialog")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := s.Get(1, 2); ok {
		t.Error("expired dialog still active")
	}

	s.Set(1, 2, "summary", nil)
	if !s.Delete(1, 2) || s.Delete(1, 2) {
		t.Error("Delete should report the dialog exactly once")
	}
}
