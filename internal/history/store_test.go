package history

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestStore() *Store {
	return NewStore(DefaultLimit, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStore_BoundedToLastThirty(t *testing.T) {
	s := newTestStore()
	const n = 45
	for i := 0; i < n; i++ {
		s.Append(1, Entry{Kind: KindText, AuthorID: UserID(7), AuthorName: "alice", Text: fmt.Sprintf("msg-%d", i)})
	}

	got := s.Read(1, n)
	if len(got) != DefaultLimit {
		t.Fatalf("len = %d, want %d", len(got), DefaultLimit)
	}
	for i, e := range got {
		want := fmt.Sprintf("msg-%d", n-DefaultLimit+i)
		if e.Text != want {
			t.Errorf("entry %d = %q, want %q", i, e.Text, want)
		}
	}
}

func TestNewStore_LimitNeverExceedsDefault(t *testing.T) {
	s := NewStore(100, slog.New(slog.NewTextHandler(io.Discard, nil)))
	for i := 0; i < 50; i++ {
		s.Append(1, Entry{Kind: KindText, AuthorID: UserID(7), Text: fmt.Sprintf("msg-%d", i)})
	}
	if n := s.Len(1); n != DefaultLimit {
		t.Errorf("Len = %d, want %d", n, DefaultLimit)
	}
}

func TestStore_NilIsSafe(t *testing.T) {
	var s *Store
	if err := s.AppendImage(1, Entry{AuthorName: "devbot"}); err != nil {
		t.Errorf("AppendImage on nil store = %v", err)
	}
	s.Append(1, Entry{Text: "x"})
	if got := s.Read(1, 0); got != nil {
		t.Errorf("Read on nil store = %+v", got)
	}
}

func TestStore_ReadLimit(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 5; i++ {
		s.Append(1, Entry{Kind: KindText, Text: fmt.Sprintf("m%d", i)})
	}
	got := s.Read(1, 2)
	if len(got) != 2 || got[0].Text != "m3" || got[1].Text != "m4" {
		t.Fatalf("Read(1, 2) = %+v, want m3, m4", got)
	}
	if all := s.Read(1, 0); len(all) != 5 {
		t.Errorf("Read(1, 0) len = %d, want 5", len(all))
	}
}

func TestStore_ChatsAreIndependent(t *testing.T) {
	s := newTestStore()
	s.Append(1, Entry{Kind: KindText, Text: "one"})
	s.Append(2, Entry{Kind: KindText, Text: "two"})

	if got := s.Read(1, 10); len(got) != 1 || got[0].Text != "one" {
		t.Errorf("chat 1 = %+v", got)
	}
	if got := s.Read(2, 10); len(got) != 1 || got[0].Text != "two" {
		t.Errorf("chat 2 = %+v", got)
	}
	if got := s.Read(3, 10); len(got) != 0 {
		t.Errorf("chat 3 = %+v, want empty", got)
	}
}

func TestStore_ReadIncludesBotEntries(t *testing.T) {
	s := newTestStore()
	s.Append(1, Entry{Kind: KindText, AuthorID: UserID(7), AuthorName: "alice", Text: "hi"})
	s.Append(1, BotText("devbot", "hello", time.Now()))

	got := s.Read(1, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[1].IsBot() {
		t.Error("expected second entry to be bot-authored")
	}
	if other := WithoutAuthor(got, "devbot"); len(other) != 1 || other[0].AuthorName != "alice" {
		t.Errorf("WithoutAuthor = %+v", other)
	}
}

func TestStore_MergesAlbumEntries(t *testing.T) {
	s := newTestStore()
	s.Append(1, Entry{Kind: KindImage, AuthorID: UserID(7), Text: "first", ImageCount: 1, MediaGroupKey: "g1"})
	s.Append(1, Entry{Kind: KindImage, AuthorID: UserID(7), Text: "second", ImageCount: 1, MediaGroupKey: "g1"})

	got := s.Read(1, 10)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].ImageCount != 2 {
		t.Errorf("ImageCount = %d, want 2", got[0].ImageCount)
	}
	if got[0].Text != "second" {
		t.Errorf("Text = %q, want %q", got[0].Text, "second")
	}
}

func TestStore_MergeKeepsCaptionWhenNewIsEmpty(t *testing.T) {
	s := newTestStore()
	s.Append(1, Entry{Kind: KindImage, Text: "caption", MediaGroupKey: "g1"})
	s.Append(1, Entry{Kind: KindText, Text: "in between"})
	if err := s.AppendImage(1, Entry{AuthorID: UserID(7), MediaGroupKey: "g1", Images: [][]byte{{1}}}); err != nil {
		t.Fatalf("AppendImage: %v", err)
	}

	got := s.Read(1, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Text != "caption" || got[0].ImageCount != 2 || len(got[0].Images) != 1 {
		t.Errorf("merged entry = %+v", got[0])
	}
}

func TestStore_AppendImageRejectsBot(t *testing.T) {
	s := newTestStore()
	s.Append(1, Entry{Kind: KindText, Text: "before"})

	err := s.AppendImage(1, Entry{AuthorName: "devbot", Images: [][]byte{{1, 2}}})
	if !errors.Is(err, ErrBotImage) {
		t.Fatalf("err = %v, want ErrBotImage", err)
	}
	got := s.Read(1, 10)
	if len(got) != 1 || got[0].Text != "before" {
		t.Errorf("ledger changed: %+v", got)
	}
}

func TestStore_AppendImagePlaceholder(t *testing.T) {
	s := newTestStore()
	if err := s.AppendImage(1, Entry{AuthorID: UserID(7), AuthorName: "alice"}); err != nil {
		t.Fatalf("AppendImage: %v", err)
	}
	got := s.Read(1, 1)
	if got[0].Kind != KindImage || got[0].Text != ImagePlaceholder || got[0].ImageCount != 1 {
		t.Errorf("entry = %+v", got[0])
	}
}

func TestStore_ReadReturnsCopy(t *testing.T) {
	s := newTestStore()
	s.Append(1, Entry{Kind: KindText, Text: "orig"})
	got := s.Read(1, 1)
	got[0].Text = "mutated"
	if again := s.Read(1, 1); again[0].Text != "orig" {
		t.Errorf("store mutated through Read result: %q", again[0].Text)
	}
}

func TestRender(t *testing.T) {
	got := Render([]Entry{
		{Kind: KindText, AuthorName: "alice", Text: "hi"},
		{Kind: KindImage, AuthorName: "bob", Text: "look", ImageCount: 3},
		{Kind: KindText, Text: "anon"},
	})
	want := "[alice]: hi\n[bob]: look (3 фото)\n[user]: anon\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}
