package imagebuf

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBuffer_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	b := New(WithClock(clock.Now))
	b.Add(7, Image{Payload: []byte{1}, MessageID: 10})

	clock.Advance(59 * time.Second)
	if got := b.Recent(7, 0); len(got) != 1 {
		t.Fatalf("at 59s len = %d, want 1", len(got))
	}

	clock.Advance(2 * time.Second)
	if got := b.Recent(7, 0); len(got) != 0 {
		t.Fatalf("at 61s len = %d, want 0", len(got))
	}
}

func TestBuffer_CapacityKeepsNewest(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	b := New(WithClock(clock.Now))
	for i := 1; i <= 7; i++ {
		b.Add(7, Image{Payload: []byte{byte(i)}, MessageID: i})
		clock.Advance(time.Second)
	}

	got := b.Recent(7, 0)
	if len(got) != DefaultCapacity {
		t.Fatalf("len = %d, want %d", len(got), DefaultCapacity)
	}
	if got[0].MessageID != 3 || got[4].MessageID != 7 {
		t.Errorf("kept ids %d..%d, want 3..7", got[0].MessageID, got[4].MessageID)
	}
}

func TestBuffer_RecentMax(t *testing.T) {
	b := New()
	for i := 1; i <= 4; i++ {
		b.Add(7, Image{Payload: []byte{byte(i)}, MessageID: i})
	}
	got := b.Recent(7, 3)
	if len(got) != 3 || got[0].MessageID != 2 || got[2].MessageID != 4 {
		t.Errorf("Recent(7, 3) = %+v", got)
	}
}

func TestBuffer_TakeClears(t *testing.T) {
	b := New()
	b.Add(7, Image{Payload: []byte{1}})
	b.Add(8, Image{Payload: []byte{2}})

	if got := b.Take(7, 3); len(got) != 1 {
		t.Fatalf("Take len = %d, want 1", len(got))
	}
	if got := b.Recent(7, 3); len(got) != 0 {
		t.Errorf("after Take len = %d, want 0", len(got))
	}
	if got := b.Recent(8, 3); len(got) != 1 {
		t.Errorf("other user len = %d, want 1", len(got))
	}
}

func TestBuffer_IgnoresEmptyPayload(t *testing.T) {
	b := New()
	b.Add(7, Image{})
	if got := b.Recent(7, 0); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
